package battle

import (
	"errors"
	"fmt"
)

// SlotCount is the number of skill slots of each side. The last slot holds the ultimate.
const SlotCount = 3

// UltimateSlot is the index of the ultimate skill.
const UltimateSlot = SlotCount - 1

// ErrSkillUnavailable is returned when a skill is on cooldown, already used, or does not exist.
var ErrSkillUnavailable = errors.New("skill unavailable")

// SkillData is the static description of a skill.
type SkillData struct {
	Name     string `json:"name"     yaml:"name"`
	Cooldown int    `json:"cooldown" yaml:"cooldown"`

	// Damage is dealt to the opponent.
	Damage int `json:"damage" yaml:"damage"`

	// Heal is restored to the caster.
	Heal int `json:"heal" yaml:"heal"`

	// Ultimate skills can be used only once per session.
	Ultimate bool `json:"ultimate" yaml:"ultimate"`
}

// SlotState is the availability of a skill slot.
type SlotState string

const (
	Ready      SlotState = "ready"
	OnCooldown SlotState = "cooldown"
	Exhausted  SlotState = "exhausted"
)

// SkillSlot is the runtime state of one skill.
type SkillSlot struct {
	Data              SkillData `json:"data"`
	CooldownRemaining int       `json:"cooldown_remaining"`
	UsedOnce          bool      `json:"used_once"`
}

// State returns the slot state. Exhausted wins over a pending cooldown.
func (s SkillSlot) State() SlotState {
	if s.Data.Ultimate && s.UsedOnce {
		return Exhausted
	}
	if s.CooldownRemaining > 0 {
		return OnCooldown
	}
	return Ready
}

// CanInvoke checks if the slot is ready.
func (s SkillSlot) CanInvoke() bool {
	return s.State() == Ready
}

// SkillSet holds the skill slots of one side.
type SkillSet struct {
	Slots [SlotCount]SkillSlot `json:"slots"`
}

// NewSkillSet creates a set with every slot ready.
func NewSkillSet(data [SlotCount]SkillData) SkillSet {
	var set SkillSet
	for i, d := range data {
		set.Slots[i] = SkillSlot{Data: d}
	}
	return set
}

// CanInvoke checks if slot index i exists and is ready.
func (s *SkillSet) CanInvoke(i int) bool {
	if i < 0 || i >= SlotCount {
		return false
	}
	return s.Slots[i].CanInvoke()
}

// Invoke uses the skill in slot i and starts its cooldown.
// The slot is not modified when the skill is unavailable.
func (s *SkillSet) Invoke(i int) (SkillData, error) {
	if i < 0 || i >= SlotCount {
		return SkillData{}, fmt.Errorf("%w: no slot %d", ErrSkillUnavailable, i)
	}

	slot := &s.Slots[i]

	switch slot.State() {
	case Exhausted:
		return SkillData{}, fmt.Errorf("%w: %s was already used", ErrSkillUnavailable, slot.Data.Name)
	case OnCooldown:
		return SkillData{}, fmt.Errorf("%w: %s has %d turns of cooldown left",
			ErrSkillUnavailable, slot.Data.Name, slot.CooldownRemaining)
	case Ready:
	}

	slot.CooldownRemaining = max(slot.Data.Cooldown, 0)
	if slot.Data.Ultimate {
		slot.UsedOnce = true
	}

	return slot.Data, nil
}

// TickCooldowns lowers every running cooldown by one turn.
func (s *SkillSet) TickCooldowns() {
	for i := range s.Slots {
		if s.Slots[i].CooldownRemaining > 0 {
			s.Slots[i].CooldownRemaining--
		}
	}
}

// States returns the state of every slot.
func (s *SkillSet) States() [SlotCount]SlotState {
	var states [SlotCount]SlotState
	for i, slot := range s.Slots {
		states[i] = slot.State()
	}
	return states
}
