// Package levelingdomain holds the pure leveling rules: the XP curve, the
// per-user cooldown and the per-record lock.
package levelingdomain

import (
	"math"
	"strings"
)

const (
	baseMultiplier = 100
	scalingFactor  = 1.1

	// MinAward and MaxAward bound the XP granted per qualifying message.
	MinAward = 5
	MaxAward = 9

	progressCells = 10
)

// ThresholdXP is the cumulative XP that defines level L: floor(L*100*1.1^L).
func ThresholdXP(level int) int {
	if level <= 0 {
		return 0
	}
	return int(math.Floor(float64(level) * baseMultiplier * math.Pow(scalingFactor, float64(level))))
}

// Gap is the XP needed to advance from level to level+1.
func Gap(level int) int {
	return ThresholdXP(level+1) - ThresholdXP(level)
}

// Progress is a user's position on the curve.
type Progress struct {
	XP    int
	Level int
}

// Apply adds award to p. When the new XP reaches the gap of the current level
// the user advances exactly one level and XP restarts at zero; surplus is dropped.
func (p Progress) Apply(award int) (Progress, bool) {
	next := Progress{XP: p.XP + award, Level: p.Level}
	if next.XP >= Gap(p.Level) {
		return Progress{XP: 0, Level: p.Level + 1}, true
	}
	return next, false
}

// ProgressBar renders xp towards the next level as ten █/░ cells.
func ProgressBar(xp, level int) string {
	gap := Gap(level)
	filled := 0
	if gap > 0 {
		filled = int(math.Floor(float64(xp) / float64(gap) * progressCells))
	}
	filled = max(0, min(progressCells, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", progressCells-filled)
}

// BandColor is the profile embed color for level.
func BandColor(level int) int {
	switch {
	case level >= 50:
		return 0xFFD700
	case level >= 41:
		return 0xE74C3C
	case level >= 31:
		return 0xFF69B4
	case level >= 21:
		return 0xF1C40F
	case level >= 16:
		return 0x9B59B6
	case level >= 11:
		return 0xE67E22
	case level >= 6:
		return 0x2ECC71
	default:
		return 0x3498DB
	}
}
