package models

import "strings"

// CorrelationPolicy decides whether an email domain plausibly belongs to a
// customer name. The stock rule is a teaching heuristic, not business law, so
// it stays behind an interface and can be replaced or disabled (nil policy).
type CorrelationPolicy interface {
	Correlated(name, domain string) bool
}

// SubstringCorrelation accepts a domain when it shares a run of at least
// MinOverlap characters with the customer name, or when the domain is on the
// test-domain allowlist.
type SubstringCorrelation struct {
	MinOverlap  int
	TestDomains []string
}

// DefaultCorrelation returns the stock policy: 4-character overlap with the
// given test domains exempted.
func DefaultCorrelation(testDomains []string) SubstringCorrelation {
	return SubstringCorrelation{MinOverlap: 4, TestDomains: testDomains}
}

func (p SubstringCorrelation) Correlated(name, domain string) bool {
	domain = strings.ToLower(domain)
	for _, td := range p.TestDomains {
		if strings.EqualFold(td, domain) {
			return true
		}
	}

	normalized := normalizeForOverlap(name)
	host := domain
	if i := strings.IndexByte(host, '.'); i > 0 {
		host = host[:i]
	}

	min := p.MinOverlap
	if min <= 0 {
		min = 4
	}
	if len(host) < min || len(normalized) < min {
		return false
	}
	for i := 0; i+min <= len(host); i++ {
		if strings.Contains(normalized, host[i:i+min]) {
			return true
		}
	}
	return false
}

// normalizeForOverlap lowercases the name and strips everything that is not a
// letter or digit, so "Acme, Inc." can match "acmeinc".
func normalizeForOverlap(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
