package text

import (
	"math"
	"sort"
)

// NormalizeConfig holds the thresholds of coordinate normalization
type NormalizeConfig struct {
	// A maximum Y above this marks an oversized coordinate space
	OversizeThreshold float64 `validate:"gt=0"`

	// Height an oversized page is rescaled to
	TargetHeight float64 `validate:"gt=0"`

	// Vertical deltas up to this size are treated as the same line
	SameLineTolerance float64 `validate:"gte=0"`

	// Maximum number of consecutive deltas in the direction vote
	VoteSamples int `validate:"gte=1"`
}

// DefaultNormalizeConfig returns the standard thresholds: rescale above
// 1500 units to an A4 height of 842, and vote over 50 deltas ignoring
// gaps of 5 units or less.
func DefaultNormalizeConfig() NormalizeConfig {
	return NormalizeConfig{
		OversizeThreshold: 1500,
		TargetHeight:      842,
		SameLineTolerance: 5,
		VoteSamples:       50,
	}
}

// withDefaults fills unset fields from DefaultNormalizeConfig. The zero
// config means all defaults.
func (c NormalizeConfig) withDefaults() NormalizeConfig {
	d := DefaultNormalizeConfig()
	if c == (NormalizeConfig{}) {
		return d
	}
	if c.OversizeThreshold <= 0 {
		c.OversizeThreshold = d.OversizeThreshold
	}
	if c.TargetHeight <= 0 {
		c.TargetHeight = d.TargetHeight
	}
	if c.SameLineTolerance < 0 {
		c.SameLineTolerance = d.SameLineTolerance
	}
	if c.VoteSamples <= 0 {
		c.VoteSamples = d.VoteSamples
	}
	return c
}

// DetectYDirection reports whether Y grows upward on the page. Items
// must be in emission order: each step to a new line votes upward when
// Y decreases and downward when it increases. Fewer than two items
// count as upward; otherwise upward must win the vote outright.
func DetectYDirection(items []TextItem, cfg NormalizeConfig) bool {
	cfg = cfg.withDefaults()
	if len(items) < 2 {
		return true
	}

	samples := len(items) - 1
	if samples > cfg.VoteSamples {
		samples = cfg.VoteSamples
	}

	up, down := 0, 0
	for i := 0; i < samples; i++ {
		dy := items[i+1].Y - items[i].Y
		if math.Abs(dy) <= cfg.SameLineTolerance {
			continue
		}
		if dy < 0 {
			up++
		} else {
			down++
		}
	}

	return up > down
}

// Normalize converts items to a top-down coordinate system and sorts
// them into reading order. It returns a new slice; items is not
// modified.
//
// An oversized coordinate space (maximum Y above the threshold) is first
// scaled so the maximum Y becomes the target height. When upward is
// true every Y is flipped against pageHeight, or against the maximum Y
// when pageHeight is not positive.
func Normalize(items []TextItem, upward bool, pageHeight float64, cfg NormalizeConfig) []TextItem {
	cfg = cfg.withDefaults()
	if len(items) == 0 {
		return nil
	}

	out := make([]TextItem, len(items))
	copy(out, items)

	maxY := out[0].Y
	for _, it := range out[1:] {
		maxY = math.Max(maxY, it.Y)
	}

	ref := maxY
	if pageHeight > 0 {
		ref = pageHeight
	}

	if maxY > cfg.OversizeThreshold {
		scale := cfg.TargetHeight / maxY
		for i := range out {
			out[i].X *= scale
			out[i].Y *= scale
			out[i].FontSize *= scale
		}
		ref *= scale
	}

	if upward {
		for i := range out {
			out[i].Y = ref - out[i].Y
		}
	}

	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// NormalizeItems detects the Y direction of items in emission order and
// normalizes them.
func NormalizeItems(items []TextItem, pageHeight float64, cfg NormalizeConfig) []TextItem {
	return Normalize(items, DetectYDirection(items, cfg), pageHeight, cfg)
}
