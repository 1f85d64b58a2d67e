package edifact

import (
	"strings"

	"github.com/pkg/errors"
)

// CountRule computes the segment count written in the UNT trailer from the
// number of segments emitted before UNT (UNA and UNB included).
type CountRule struct {
	name  string
	count func(emitted int) int
}

var (
	// LegacyCount reproduces the counter the existing downstream consumers
	// were built against: emitted segments minus two. It omits UNT itself,
	// so it is one lower than the EDIFACT rule.
	LegacyCount = CountRule{name: "legacy", count: func(emitted int) int { return emitted - 2 }}

	// StandardCount counts UNH through UNT inclusive.
	StandardCount = CountRule{name: "standard", count: func(emitted int) int { return emitted - 2 + 1 }}
)

// Name returns the configuration name of the rule.
func (r CountRule) Name() string { return r.name }

// SegmentCount applies the rule.
func (r CountRule) SegmentCount(emitted int) int {
	if r.count == nil {
		return LegacyCount.count(emitted)
	}
	return r.count(emitted)
}

// CountRuleByName resolves "legacy" or "standard" (case-insensitive).
// An empty name selects LegacyCount.
func CountRuleByName(name string) (CountRule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", LegacyCount.name:
		return LegacyCount, nil
	case StandardCount.name:
		return StandardCount, nil
	default:
		return CountRule{}, errors.Errorf("unknown segment count rule %q", name)
	}
}
