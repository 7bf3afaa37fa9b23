package model

import "strings"

// Merge folds other into base and returns the combined prospect. Neither
// argument is modified. Existing values win: a field is taken from other
// only when base has none. Presence flags are OR-ed, and when both sides
// were seen in the same block the smaller position is kept. Emails are
// unioned case-insensitively in first-seen order.
func Merge(base, other Prospect) Prospect {
	out := base
	out.Emails = mergeEmails(base.Emails, other.Emails)
	out.Rating = copyFloat(base.Rating)
	out.ReviewCount = copyInt(base.ReviewCount)

	if out.Name == "" {
		out.Name = other.Name
	}
	if out.Website == "" {
		out.Website = other.Website
	}
	if out.Domain == "" {
		out.Domain = other.Domain
	}
	if out.Phone == "" {
		out.Phone = other.Phone
	}
	if out.Address == "" {
		out.Address = other.Address
	}
	if out.Rating == nil || *out.Rating == 0 {
		if other.Rating != nil && *other.Rating != 0 {
			out.Rating = copyFloat(other.Rating)
		}
	}
	if out.ReviewCount == nil || *out.ReviewCount == 0 {
		if other.ReviewCount != nil && *other.ReviewCount != 0 {
			out.ReviewCount = copyInt(other.ReviewCount)
		}
	}
	if out.Category == "" {
		out.Category = other.Category
	}
	if out.Signals == nil {
		out.Signals = other.Signals
	}
	if out.Source == "" {
		out.Source = other.Source
	}

	out.FoundInAds, out.AdPosition = mergePresence(base.FoundInAds, base.AdPosition, other.FoundInAds, other.AdPosition)
	out.FoundInMaps, out.MapsPosition = mergePresence(base.FoundInMaps, base.MapsPosition, other.FoundInMaps, other.MapsPosition)
	out.FoundInOrganic, out.OrganicPosition = mergePresence(base.FoundInOrganic, base.OrganicPosition, other.FoundInOrganic, other.OrganicPosition)

	return out
}

// mergePresence combines one block's presence flag and rank. A position of
// zero means unknown.
func mergePresence(found bool, pos int, otherFound bool, otherPos int) (bool, int) {
	if !otherFound {
		return found, pos
	}
	if !found || pos == 0 {
		return true, otherPos
	}
	if otherPos != 0 && otherPos < pos {
		return true, otherPos
	}
	return true, pos
}

func mergeEmails(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, e := range list {
			key := strings.ToLower(strings.TrimSpace(e))
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func copyInt(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}
