package factcheck

import (
	"strings"

	"github.com/rohannagpure45/operatorNewsCuration/internal/classify"
	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
)

// CredibilityRater scores publisher domains against configured trust tiers.
// Unknown domains get the neutral default rather than a penalty.
type CredibilityRater struct {
	high         map[string]bool
	low          map[string]bool
	defaultScore float64
}

// NewCredibilityRater builds a rater from config.
func NewCredibilityRater(cfg model.CredibilityConfig) *CredibilityRater {
	r := &CredibilityRater{
		high:         make(map[string]bool, len(cfg.HighTrustDomains)),
		low:          make(map[string]bool, len(cfg.LowTrustDomains)),
		defaultScore: cfg.DefaultScore,
	}
	if r.defaultScore == 0 {
		r.defaultScore = 0.5
	}
	for _, d := range cfg.HighTrustDomains {
		r.high[strings.ToLower(d)] = true
	}
	for _, d := range cfg.LowTrustDomains {
		r.low[strings.ToLower(d)] = true
	}
	return r
}

// Score rates the publisher of rawURL: 0.9 for high-trust domains, 0.2 for
// low-trust, the neutral default otherwise. Subdomains inherit their parent
// domain's tier.
func (r *CredibilityRater) Score(rawURL string) (float64, string) {
	host := classify.Host(rawURL)
	if host == "" {
		return r.defaultScore, ""
	}

	for domain := host; domain != ""; {
		if r.high[domain] {
			return 0.9, domain
		}
		if r.low[domain] {
			return 0.2, domain
		}
		idx := strings.Index(domain, ".")
		if idx < 0 {
			break
		}
		domain = domain[idx+1:]
	}
	return r.defaultScore, host
}
