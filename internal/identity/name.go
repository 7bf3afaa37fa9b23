package identity

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// corporateSuffixes are stripped from the end of a name, in order, when
// building a comparison key.
var corporateSuffixes = []string{
	"pty ltd",
	"pty. ltd.",
	"pty. ltd",
	"pty ltd.",
	"limited",
	"ltd",
	"inc",
	"llc",
	"corp",
	"co",
}

var suffixPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(corporateSuffixes))
	for i, s := range corporateSuffixes {
		out[i] = regexp.MustCompile(`\s+` + regexp.QuoteMeta(s) + `\.?$`)
	}
	return out
}()

var nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// NormalizeName builds the comparison key for a business name: lowercase,
// corporate suffixes removed, punctuation removed and whitespace collapsed.
// Names that differ only in suffix, case or punctuation share a key.
func NormalizeName(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}

	n := strings.ToLower(strings.TrimSpace(name))
	for _, re := range suffixPatterns {
		n = re.ReplaceAllString(n, "")
	}
	n = nonWordRe.ReplaceAllString(n, "")
	return strings.Join(strings.Fields(n), " ")
}

var (
	starGlyphRe     = regexp.MustCompile(`[\x{2B50}\x{2605}\x{2606}\x{2729}\x{272A}\x{2730}\x{1F31F}\x{FE0F}]+`)
	parenReviewsRe  = regexp.MustCompile(`(?i)\(\s*\d+\.?\d*[k]?\+?\s*reviews?\s*\)`)
	bareReviewsRe   = regexp.MustCompile(`(?i)\d+\.?\d*[k]?\+?\s*reviews?`)
	emptyParensRe   = regexp.MustCompile(`\(\s*\)`)
	titleDelimiters = []string{" | ", " - ", ": "}
)

// marketingSuffixes match trailing ad copy appended to a business name.
var marketingSuffixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*-\s*local\s*&\s*reliable.*`),
	regexp.MustCompile(`(?i)\s*-\s*trusted.*`),
	regexp.MustCompile(`(?i)\s*-\s*best\s*reviewed.*`),
	regexp.MustCompile(`(?i)\s*-\s*same[- ]?day.*`),
	regexp.MustCompile(`(?i)\s*-\s*#1\s*rated.*`),
	regexp.MustCompile(`(?i)\s*-\s*fast\s*&\s*reliable.*`),
	regexp.MustCompile(`(?i)\s*-\s*affordable.*`),
	regexp.MustCompile(`(?i)\s*-\s*professional.*`),
	regexp.MustCompile(`(?i)\s*-\s*expert.*`),
	regexp.MustCompile(`(?i)\s*-\s*your\s*local.*`),
	regexp.MustCompile(`(?i)\s*-\s*licensed\s*&\s*insured.*`),
	regexp.MustCompile(`(?i)\s*-\s*24/7.*`),
	regexp.MustCompile(`(?i)\s*-\s*free\s*quotes?.*`),
}

// CleanBusinessName produces a display name from a SERP title or listing
// name. It drops star glyphs, embedded review counts, everything after the
// first title delimiter and trailing marketing copy. The function is
// idempotent.
func CleanBusinessName(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	name := norm.NFKC.String(raw)
	name = starGlyphRe.ReplaceAllString(name, "")
	// The review patterns only see ASCII spaces, so fold every Unicode
	// separator first.
	name = collapseSpaces(name)

	for {
		next := parenReviewsRe.ReplaceAllString(name, "")
		next = bareReviewsRe.ReplaceAllString(next, "")
		next = emptyParensRe.ReplaceAllString(next, "")
		if next == name {
			break
		}
		name = next
	}
	name = collapseSpaces(name)

	name = name[:firstDelimiter(name)]

	for _, re := range marketingSuffixes {
		name = re.ReplaceAllString(name, "")
	}

	return collapseSpaces(name)
}

// firstDelimiter returns the index of the earliest title delimiter, or
// len(s) when none is present.
func firstDelimiter(s string) int {
	cut := len(s)
	for _, d := range titleDelimiters {
		if i := strings.Index(s, d); i >= 0 && i < cut {
			cut = i
		}
	}
	return cut
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var embeddedRatingRe = regexp.MustCompile(
	`(?i)(\d(?:\.\d)?)\s*(?:stars?|\x{2B50}|\x{2605})\s*(?:\(\s*(\d+(?:\.\d+)?k?)\+?\s*reviews?\s*\))?`)

// ExtractRating reads a star rating and review count embedded in a title
// such as "Acme Plumbing 4.8 stars (1.2K+ reviews)". Either value is nil
// when absent or out of range.
func ExtractRating(name string) (*float64, *int) {
	m := embeddedRatingRe.FindStringSubmatch(name)
	if m == nil {
		return nil, nil
	}

	var rating *float64
	if f, err := strconv.ParseFloat(m[1], 64); err == nil && f >= 0 && f <= 5 {
		rating = &f
	}

	var reviews *int
	if m[2] != "" {
		count := strings.ToLower(m[2])
		mul := 1.0
		if strings.HasSuffix(count, "k") {
			mul = 1000
			count = strings.TrimSuffix(count, "k")
		}
		if f, err := strconv.ParseFloat(count, 64); err == nil {
			n := int(math.Round(f * mul))
			reviews = &n
		}
	}

	return rating, reviews
}
