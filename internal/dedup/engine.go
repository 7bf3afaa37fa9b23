package dedup

import (
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/identity"
	"github.com/sells-group/prospect-cli/internal/model"
)

// table is an insertion-ordered map of prospects.
type table struct {
	index map[string]int
	rows  []model.Prospect
}

func newTable(capacity int) *table {
	return &table{index: make(map[string]int, capacity)}
}

// put stores p under key, replacing any existing row in place.
func (t *table) put(key string, p model.Prospect) {
	if i, ok := t.index[key]; ok {
		t.rows[i] = p
		return
	}
	t.index[key] = len(t.rows)
	t.rows = append(t.rows, p)
}

// merge folds p into the row under key, or inserts it.
func (t *table) merge(key string, p model.Prospect) {
	if i, ok := t.index[key]; ok {
		t.rows[i] = model.Merge(t.rows[i], p)
		return
	}
	t.put(key, p)
}

// DeduplicateSERP collapses one search's results into prospects. Local-pack
// listings are processed first and seed contact data; ads and organic
// results then merge into existing prospects by domain or add new ones.
// Listings without a website are kept under their normalized name and are
// never reconciled with domain-keyed prospects. Output is domain-keyed
// prospects in first-seen order followed by name-keyed ones.
func (e *Engine) DeduplicateSERP(serp model.SerpResults) []model.Prospect {
	byDomain := newTable(serp.Total())
	byName := newTable(len(serp.Maps))

	for _, m := range serp.Maps {
		p, ok := e.Build(model.FromMaps(m), serp.Location)
		if !ok {
			continue
		}
		if p.Domain != "" {
			byDomain.put(p.Domain, p)
			continue
		}
		byName.put(identity.NormalizeName(p.Name), p)
	}

	for _, a := range serp.Ads {
		p, ok := e.Build(model.FromAd(a), serp.Location)
		if !ok || p.Domain == "" {
			continue
		}
		byDomain.merge(p.Domain, p)
	}

	for _, o := range serp.Organic {
		p, ok := e.Build(model.FromOrganic(o), serp.Location)
		if !ok || p.Domain == "" {
			continue
		}
		byDomain.merge(p.Domain, p)
	}

	out := make([]model.Prospect, 0, len(byDomain.rows)+len(byName.rows))
	out = append(out, byDomain.rows...)
	out = append(out, byName.rows...)

	zap.L().Info("dedup: serp results deduplicated",
		zap.String("query", serp.Query),
		zap.Int("ads", len(serp.Ads)),
		zap.Int("maps", len(serp.Maps)),
		zap.Int("organic", len(serp.Organic)),
		zap.Int("prospects", len(out)),
	)

	return out
}

// MergeProspects deduplicates an unordered list of prospects. Prospects
// with a domain merge by domain; the rest merge by normalized name.
// Directory domains and prospects with neither domain nor name are dropped.
func (e *Engine) MergeProspects(prospects []model.Prospect) []model.Prospect {
	byDomain := newTable(len(prospects))
	byName := newTable(len(prospects))

	for _, p := range prospects {
		if p.Domain != "" {
			if e.dirs.IsDirectoryURL(p.Website, p.Domain) {
				zap.L().Debug("dedup: directory filtered",
					zap.String("source", p.Source), zap.String("domain", p.Domain))
				continue
			}
			byDomain.merge(p.Domain, p)
			continue
		}

		key := identity.NormalizeName(p.Name)
		if key == "" {
			zap.L().Debug("dedup: prospect has no identity", zap.String("source", p.Source))
			continue
		}
		byName.merge(key, p)
	}

	out := make([]model.Prospect, 0, len(byDomain.rows)+len(byName.rows))
	out = append(out, byDomain.rows...)
	out = append(out, byName.rows...)

	zap.L().Info("dedup: prospects merged",
		zap.Int("input", len(prospects)),
		zap.Int("prospects", len(out)),
	)

	return out
}
