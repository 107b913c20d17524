package retrieval

import "strings"

// Scoring applies deterministic adjustments to raw vector similarity scores.
// Depth and domain corrections push top-level pages on the institution's own
// sites above deep or off-domain chunks without excluding anything.
type Scoring struct {
	// RootDomain is the institution's apex domain. Hits whose URL does not
	// contain it take a flat -1.0 penalty.
	RootDomain string
	// DomainDeltas maps URL substrings to score deltas. Every matching
	// substring contributes its delta.
	DomainDeltas map[string]float64
}

const (
	depthPenaltyPerSlash = 0.1
	offDomainPenalty     = 1.0
)

// Adjust returns the adjusted score for a hit with the given URL.
func (s Scoring) Adjust(raw float64, url string) float64 {
	adjusted := raw - float64(strings.Count(url, "/"))*depthPenaltyPerSlash

	for substr, delta := range s.DomainDeltas {
		if strings.Contains(url, substr) {
			adjusted += delta
		}
	}

	if s.RootDomain != "" && !strings.Contains(url, s.RootDomain) {
		adjusted -= offDomainPenalty
	}

	return adjusted
}
