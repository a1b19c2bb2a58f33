package recon

import (
	"fmt"
	"math"
	"sort"
)

// shareSumTolerance absorbs float noise when checking that a split sums to 100.
const shareSumTolerance = 1e-9

// ShareSplit is the percentage split of realized profit between the two
// internal stakeholders. Both values are percentages and must sum to 100.
type ShareSplit struct {
	PartnerA float64 `yaml:"partner_a" json:"partner_a"`
	PartnerB float64 `yaml:"partner_b" json:"partner_b"`
}

// Ratio returns the split formatted for display, e.g. "67/33".
func (s ShareSplit) Ratio() string {
	return fmt.Sprintf("%.0f/%.0f", s.PartnerA, s.PartnerB)
}

// IsValid reports whether the split percentages sum to 100.
func (s ShareSplit) IsValid() bool {
	return math.Abs(s.PartnerA+s.PartnerB-100) < shareSumTolerance
}

// ShareConfig maps sales segments to profit-share splits. Sales whose
// segment is missing or not configured fall back to Default.
type ShareConfig struct {
	Segments map[Segment]ShareSplit `yaml:"segments" json:"segments"`
	Default  ShareSplit             `yaml:"default" json:"default"`
}

// DefaultShareConfig returns the standing business agreement between the
// two stakeholders.
func DefaultShareConfig() ShareConfig {
	return ShareConfig{
		Segments: map[Segment]ShareSplit{
			SegmentDirect:     {PartnerA: 67, PartnerB: 33},
			SegmentThirdParty: {PartnerA: 97, PartnerB: 3},
			SegmentInternal:   {PartnerA: 50, PartnerB: 50},
			SegmentExport:     {PartnerA: 97, PartnerB: 3},
		},
		Default: ShareSplit{PartnerA: 50, PartnerB: 50},
	}
}

// Validate checks every configured split sums to 100%. It is called once at
// configuration-load time so misconfiguration never surfaces mid-calculation.
func (c ShareConfig) Validate() error {
	segments := make([]Segment, 0, len(c.Segments))
	for seg := range c.Segments {
		segments = append(segments, seg)
	}
	sort.Slice(segments, func(i, j int) bool { return segments[i] < segments[j] })

	for _, seg := range segments {
		split := c.Segments[seg]
		if !split.IsValid() {
			return fmt.Errorf("profit share for segment %q sums to %.2f%%, want 100%%",
				seg, split.PartnerA+split.PartnerB)
		}
	}
	if !c.Default.IsValid() {
		return fmt.Errorf("default profit share sums to %.2f%%, want 100%%",
			c.Default.PartnerA+c.Default.PartnerB)
	}
	return nil
}

// SplitFor resolves the share split for a segment, falling back to the
// default for missing or unrecognized segments.
func (c ShareConfig) SplitFor(seg Segment) ShareSplit {
	if split, ok := c.Segments[seg]; ok {
		return split
	}
	return c.Default
}
