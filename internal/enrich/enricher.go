package enrich

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/prospect-cli/internal/identity"
	"github.com/sells-group/prospect-cli/internal/model"
)

// EmailFilter keeps the addresses that belong to a website's domain.
type EmailFilter interface {
	FilterForDomain(emails []string, websiteDomain string) []string
}

// PhoneChecker reports whether a phone number suits a search location.
type PhoneChecker interface {
	ValidateForLocation(phone, location string) (bool, string)
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithConcurrency bounds the number of sites fetched at once.
func WithConcurrency(n int) Option {
	return func(e *Enricher) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithRateLimit throttles fetches to rps across all sites. Zero or less
// disables throttling.
func WithRateLimit(rps float64) Option {
	return func(e *Enricher) {
		if rps > 0 {
			e.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		} else {
			e.limiter = nil
		}
	}
}

// Enricher attaches website signals and harvested contacts to prospects.
type Enricher struct {
	fetcher     Fetcher
	rules       Rules
	emails      EmailFilter
	phones      PhoneChecker
	spamDomains []string
	spamLocals  map[string]bool
	concurrency int
	limiter     *rate.Limiter
}

// New creates an Enricher. Five sites are fetched concurrently unless
// WithConcurrency says otherwise.
func New(f Fetcher, rules Rules, emails EmailFilter, phones PhoneChecker, opts ...Option) *Enricher {
	e := &Enricher{
		fetcher:     f,
		rules:       rules,
		emails:      emails,
		phones:      phones,
		spamLocals:  make(map[string]bool, len(rules.SpamLocalParts)),
		concurrency: 5,
	}
	for _, d := range rules.SpamDomains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			e.spamDomains = append(e.spamDomains, d)
		}
	}
	for _, l := range rules.SpamLocalParts {
		e.spamLocals[strings.ToLower(strings.TrimSpace(l))] = true
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// EnrichAll enriches every prospect and returns them in input order. A
// failed fetch marks that prospect unreachable and never fails the batch.
func (e *Enricher) EnrichAll(ctx context.Context, prospects []model.Prospect, location string) []model.Prospect {
	out := make([]model.Prospect, len(prospects))
	copy(out, prospects)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i := range out {
		i := i
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			out[i] = e.Enrich(gctx, out[i], location)
			return nil
		})
	}
	_ = g.Wait()

	reachable := 0
	for _, p := range out {
		if p.Signals != nil && p.Signals.Reachable {
			reachable++
		}
	}
	zap.L().Info("enrich: complete",
		zap.Int("prospects", len(out)),
		zap.Int("reachable", reachable),
	)
	return out
}

// Enrich fetches one prospect's homepage. Harvested emails are merged
// after spam and domain filtering. A harvested phone only fills an empty
// phone and must suit location.
func (e *Enricher) Enrich(ctx context.Context, p model.Prospect, location string) model.Prospect {
	if p.Website == "" {
		p.Signals = &model.WebsiteSignals{}
		return p
	}

	log := zap.L().With(zap.String("website", p.Website))

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			p.Signals = &model.WebsiteSignals{URL: p.Website, Error: err.Error()}
			return p
		}
	}

	page, err := e.fetcher.Fetch(ctx, p.Website)
	if err != nil {
		log.Debug("enrich: fetch failed", zap.Error(err))
		p.Signals = &model.WebsiteSignals{URL: p.Website, Error: err.Error()}
		return p
	}

	signals := Analyze(page, e.rules)
	signals.URL = p.Website

	domain := p.Domain
	if domain == "" {
		domain = identity.Domain(p.Website)
	}

	emails := e.dropSpam(signals.Emails)
	if domain != "" && e.emails != nil {
		emails = e.emails.FilterForDomain(emails, domain)
	}
	log.Debug("enrich: emails filtered",
		zap.Int("found", len(signals.Emails)),
		zap.Int("kept", len(emails)),
	)

	p = model.Merge(p, model.Prospect{Emails: emails})
	p.Signals = signals

	if p.Phone == "" {
		p.Phone = e.pickPhone(signals.Phones, location)
	}

	return p
}

func (e *Enricher) pickPhone(phones []string, location string) string {
	for _, ph := range phones {
		if e.phones == nil {
			return ph
		}
		ok, reason := e.phones.ValidateForLocation(ph, location)
		if ok {
			return ph
		}
		zap.L().Debug("enrich: phone rejected", zap.String("phone", ph), zap.String("reason", reason))
	}
	return ""
}

// dropSpam removes addresses at tracking or platform domains and
// automated mailboxes.
func (e *Enricher) dropSpam(emails []string) []string {
	out := make([]string, 0, len(emails))
	for _, addr := range emails {
		at := strings.LastIndexByte(addr, '@')
		if at <= 0 {
			continue
		}
		local, domain := strings.ToLower(addr[:at]), strings.ToLower(addr[at+1:])
		if e.spamLocals[local] || e.isSpamDomain(domain) {
			continue
		}
		out = append(out, addr)
	}
	return out
}

func (e *Enricher) isSpamDomain(domain string) bool {
	for _, d := range e.spamDomains {
		if domain == d || strings.HasSuffix(domain, "."+d) {
			return true
		}
	}
	return false
}
