package game

import (
	"fmt"
	"log/slog"

	"github.com/lk16/holothello/internal/battle"
	"github.com/lk16/holothello/internal/othello"
)

// Rules controls how skill use interleaves with board placements.
// The zero value allows unlimited skill use, but only on the caster's own turn.
type Rules struct {
	// AllowSkillsOffTurn lets a side use skills while the opponent is to move.
	AllowSkillsOffTurn bool `json:"allow_skills_off_turn"`

	// MaxSkillUsesPerTurn limits skill uses per side between two placements. 0 means unlimited.
	MaxSkillUsesPerTurn int `json:"max_skill_uses_per_turn"`
}

// Config describes how a session starts.
type Config struct {
	// Start is the initial board. Nil means the standard opening.
	Start *othello.Board

	// FirstSide moves first. Empty means Black.
	FirstSide othello.Side

	// MaxHP of both sides. 0 means battle.DefaultMaxHP.
	MaxHP int

	BlackSkills [battle.SlotCount]battle.SkillData
	WhiteSkills [battle.SlotCount]battle.SkillData

	Rules Rules

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// PlacementResult is returned after a disc was placed.
type PlacementResult struct {
	Event    othello.FlipEvent `json:"event"`
	Damage   int               `json:"damage"`
	Target   othello.Side      `json:"target"`
	TargetHP int               `json:"target_hp"`

	// Skipped is set when the opponent had to pass.
	Skipped bool         `json:"skipped"`
	Next    othello.Side `json:"next"`
	Reason  EndReason    `json:"reason"`
}

// SkillResult is returned after a skill was used.
type SkillResult struct {
	Side     othello.Side     `json:"side"`
	Slot     int              `json:"slot"`
	Skill    battle.SkillData `json:"skill"`
	Damage   int              `json:"damage"`
	Heal     int              `json:"heal"`
	CasterHP int              `json:"caster_hp"`
	TargetHP int              `json:"target_hp"`
	Reason   EndReason        `json:"reason"`
}

// Session is one game of HoloThello. It owns the board, turn, HP and skill
// state. A Session is not safe for concurrent use.
type Session struct {
	board     othello.Board
	turn      *TurnController
	hp        [2]battle.HPPool
	skills    [2]battle.SkillSet
	skillUses [2]int
	history   []othello.Coord
	rules     Rules
	logger    *slog.Logger
}

// sideIndex maps a side to an index into the per side arrays.
func sideIndex(side othello.Side) int {
	if side == othello.White {
		return 1
	}
	return 0
}

// NewSession creates a session. If the first side can not move on the start
// board the turn passes right away, or the session ends.
func NewSession(cfg Config) (*Session, error) {
	board := othello.NewBoardStart()
	if cfg.Start != nil {
		board = *cfg.Start
	}

	first := cfg.FirstSide
	if first == othello.Empty {
		first = othello.Black
	}
	if !first.IsSide() {
		return nil, fmt.Errorf("%w: first side %d", ErrInvalidConfig, first)
	}

	if cfg.MaxHP < 0 {
		return nil, fmt.Errorf("%w: max HP %d", ErrInvalidConfig, cfg.MaxHP)
	}

	if cfg.Rules.MaxSkillUsesPerTurn < 0 {
		return nil, fmt.Errorf("%w: max skill uses per turn %d", ErrInvalidConfig, cfg.Rules.MaxSkillUsesPerTurn)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		board: board,
		turn:  NewTurnController(first),
		hp: [2]battle.HPPool{
			battle.NewHPPool(cfg.MaxHP),
			battle.NewHPPool(cfg.MaxHP),
		},
		skills: [2]battle.SkillSet{
			battle.NewSkillSet(cfg.BlackSkills),
			battle.NewSkillSet(cfg.WhiteSkills),
		},
		history: make([]othello.Coord, 0),
		rules:   cfg.Rules,
		logger:  logger,
	}

	s.turn.Resolve(s.board)

	return s, nil
}

// rejectIfTerminal returns ErrSessionTerminal once the session ended.
func (s *Session) rejectIfTerminal(action string, side othello.Side) error {
	if !s.turn.IsTerminal() {
		return nil
	}

	s.logger.Warn("Rejected action on ended session", "action", action, "side", side, "reason", s.turn.Reason())
	return fmt.Errorf("%w: %s by %s rejected, game ended by %s", ErrSessionTerminal, action, side, s.turn.Reason())
}

// checkHP ends the session when a pool is empty.
func (s *Session) checkHP() {
	if s.hp[0].Depleted() || s.hp[1].Depleted() {
		s.turn.End(HPDepleted)
	}
}

// RequestPlacement places a disc for side on (x, y), deals damage for the
// flipped discs to the opponent and advances the turn. A rejected request
// leaves the session unchanged.
func (s *Session) RequestPlacement(side othello.Side, x, y int) (PlacementResult, error) {
	if err := s.rejectIfTerminal("placement", side); err != nil {
		return PlacementResult{}, err
	}

	if side != s.turn.Current() {
		return PlacementResult{}, fmt.Errorf("%w: %s is to move, not %s", ErrInvalidMove, s.turn.Current(), side)
	}

	event, err := othello.ApplyMove(&s.board, side, x, y)
	if err != nil {
		return PlacementResult{}, err
	}

	target := side.Opponent()
	damage := battle.ComputeDamage(event.Count())
	targetHP := s.hp[sideIndex(target)].ApplyDamage(damage)
	s.checkHP()

	skipped := s.turn.AfterMove(s.board, side)

	s.skills[sideIndex(side)].TickCooldowns()
	s.skillUses = [2]int{}
	s.history = append(s.history, event.Origin)

	s.logger.Debug("Placed disc",
		"side", side,
		"field", event.Origin.Field(),
		"flipped", event.Count(),
		"damage", damage,
		"target_hp", targetHP,
		"next", s.turn.Current(),
		"reason", s.turn.Reason(),
	)

	return PlacementResult{
		Event:    event,
		Damage:   damage,
		Target:   target,
		TargetHP: targetHP,
		Skipped:  skipped,
		Next:     s.turn.Current(),
		Reason:   s.turn.Reason(),
	}, nil
}

// RequestSkill uses the skill in slot for side. Skills never end the turn.
func (s *Session) RequestSkill(side othello.Side, slot int) (SkillResult, error) {
	if err := s.rejectIfTerminal("skill", side); err != nil {
		return SkillResult{}, err
	}

	if !side.IsSide() {
		return SkillResult{}, fmt.Errorf("%w: %s is not a side", ErrSkillUnavailable, side)
	}

	if !s.rules.AllowSkillsOffTurn && side != s.turn.Current() {
		return SkillResult{}, fmt.Errorf("%w: %s is to move, not %s", ErrSkillUnavailable, s.turn.Current(), side)
	}

	caster := sideIndex(side)
	if limit := s.rules.MaxSkillUsesPerTurn; limit > 0 && s.skillUses[caster] >= limit {
		return SkillResult{}, fmt.Errorf("%w: %s used %d skills this turn", ErrSkillUnavailable, side, limit)
	}

	data, err := s.skills[caster].Invoke(slot)
	if err != nil {
		return SkillResult{}, err
	}

	s.skillUses[caster]++

	target := sideIndex(side.Opponent())
	if data.Damage > 0 {
		s.hp[target].ApplyDamage(data.Damage)
	}
	if data.Heal > 0 {
		s.hp[caster].ApplyDamage(-data.Heal)
	}
	s.checkHP()

	s.logger.Debug("Used skill",
		"side", side,
		"skill", data.Name,
		"damage", data.Damage,
		"heal", data.Heal,
		"reason", s.turn.Reason(),
	)

	return SkillResult{
		Side:     side,
		Slot:     slot,
		Skill:    data,
		Damage:   data.Damage,
		Heal:     data.Heal,
		CasterHP: s.hp[caster].Current,
		TargetHP: s.hp[target].Current,
		Reason:   s.turn.Reason(),
	}, nil
}

// ApplyIdleDamage drains amount HP from the side to move. It is driven by an
// external timer while a player does not act.
func (s *Session) ApplyIdleDamage(amount int) (othello.Side, int, error) {
	side := s.turn.Current()

	if err := s.rejectIfTerminal("idle damage", side); err != nil {
		return side, 0, err
	}

	hp := s.hp[sideIndex(side)].ApplyDamage(amount)
	s.checkHP()

	return side, hp, nil
}

// Board returns a copy of the board.
func (s *Session) Board() othello.Board {
	return s.board
}

// ToMove returns the side to move.
func (s *Session) ToMove() othello.Side {
	return s.turn.Current()
}

// IsTerminal checks if the session ended.
func (s *Session) IsTerminal() bool {
	return s.turn.IsTerminal()
}

// Reason returns why the session ended.
func (s *Session) Reason() EndReason {
	return s.turn.Reason()
}

// HP returns the HP pool of side.
func (s *Session) HP(side othello.Side) battle.HPPool {
	return s.hp[sideIndex(side)]
}

// Skills returns a copy of the skill slots of side.
func (s *Session) Skills(side othello.Side) battle.SkillSet {
	return s.skills[sideIndex(side)]
}

// History returns the placements so far.
func (s *Session) History() []othello.Coord {
	return append([]othello.Coord{}, s.history...)
}

// Rules returns the skill rules of the session.
func (s *Session) Rules() Rules {
	return s.rules
}

// LegalMoves returns the legal moves of the side to move.
func (s *Session) LegalMoves() []othello.Coord {
	if s.turn.IsTerminal() {
		return []othello.Coord{}
	}
	return othello.EnumerateLegalMoves(s.board, s.turn.Current())
}

// Winner returns the winning side, or Empty for a draw or an unfinished
// session. A side that still has HP wins an HP depletion. Otherwise the side
// with more discs wins, and equal discs are decided by remaining HP.
func (s *Session) Winner() othello.Side {
	if !s.turn.IsTerminal() {
		return othello.Empty
	}

	blackHP := s.hp[0].Current
	whiteHP := s.hp[1].Current

	if s.turn.Reason() == HPDepleted {
		return compare(blackHP, whiteHP)
	}

	black, white := othello.Score(s.board)
	if winner := compare(black, white); winner != othello.Empty {
		return winner
	}

	return compare(blackHP, whiteHP)
}

func compare(black, white int) othello.Side {
	switch {
	case black > white:
		return othello.Black
	case white > black:
		return othello.White
	default:
		return othello.Empty
	}
}
