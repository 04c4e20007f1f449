package battle

import "math"

const (
	// DefaultMaxHP is the HP each side starts a session with.
	DefaultMaxHP = 10000

	// comboBand is the number of flips needed for each multiplier step.
	comboBand = 5

	// comboMultiplier is applied once per full band of flips.
	comboMultiplier = 1.2
)

// ComputeDamage converts a flip count into damage. Every full band of 5
// flips multiplies the damage by another 1.2.
func ComputeDamage(flipped int) int {
	if flipped <= 0 {
		return 0
	}

	k := flipped / comboBand
	if k < 1 {
		return flipped
	}

	return int(math.Round(float64(flipped) * math.Pow(comboMultiplier, float64(k))))
}

// HPPool is the health of one side.
type HPPool struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// NewHPPool creates a full pool. A non-positive max falls back to DefaultMaxHP.
func NewHPPool(maxHP int) HPPool {
	if maxHP <= 0 {
		maxHP = DefaultMaxHP
	}
	return HPPool{Current: maxHP, Max: maxHP}
}

// ApplyDamage subtracts amount from the pool and returns the new HP.
// Negative amounts heal. The result is clamped to [0, Max].
func (p *HPPool) ApplyDamage(amount int) int {
	p.Current = min(max(p.Current-amount, 0), p.Max)
	return p.Current
}

// Depleted checks if the pool reached 0.
func (p HPPool) Depleted() bool {
	return p.Current <= 0
}
