package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lk16/holothello/internal/game"
	"github.com/lk16/holothello/internal/othello"
)

// GameMode decides which sides are played by the computer.
type GameMode string

const (
	PlayerVsPlayer GameMode = "pvp"
	PlayerVsCPU    GameMode = "pvc"
	CPUVsCPU       GameMode = "cvc"
)

// Controller is who plays a side.
type Controller string

const (
	Human Controller = "human"
	CPU   Controller = "cpu"
)

// CreateSessionRequest represents the payload for starting a session.
type CreateSessionRequest struct {
	Mode           GameMode `json:"mode"`
	BlackCharacter string   `json:"black_character"`
	WhiteCharacter string   `json:"white_character"`

	// HumanSide is the side of the human player in PlayerVsCPU mode, default black.
	HumanSide string `json:"human_side,omitempty"`

	// Policy of the computer player, only "random" is supported.
	Policy string `json:"policy,omitempty"`
	Seed   *int64 `json:"seed,omitempty"`
}

// Validate validates the create session payload.
func (r *CreateSessionRequest) Validate() error {
	switch r.Mode {
	case PlayerVsPlayer, PlayerVsCPU, CPUVsCPU:
	default:
		return fmt.Errorf("mode must be one of %q, %q or %q", PlayerVsPlayer, PlayerVsCPU, CPUVsCPU)
	}

	if r.BlackCharacter == "" || r.WhiteCharacter == "" {
		return errors.New("both characters must be set")
	}

	if r.HumanSide != "" {
		if r.Mode != PlayerVsCPU {
			return errors.New("human_side is only used in pvc mode")
		}
		if _, err := othello.ParseSide(r.HumanSide); err != nil {
			return err
		}
	}

	switch r.Policy {
	case "", "random":
	default:
		return fmt.Errorf("unknown policy %q", r.Policy)
	}

	return nil
}

// Controllers returns who plays black and white.
func (r *CreateSessionRequest) Controllers() Controllers {
	switch r.Mode {
	case PlayerVsCPU:
		if side, _ := othello.ParseSide(r.HumanSide); side == othello.White {
			return Controllers{Black: CPU, White: Human}
		}
		return Controllers{Black: Human, White: CPU}
	case CPUVsCPU:
		return Controllers{Black: CPU, White: CPU}
	default:
		return Controllers{Black: Human, White: Human}
	}
}

// Controllers holds who plays each side.
type Controllers struct {
	Black Controller `json:"black"`
	White Controller `json:"white"`
}

// Of returns the controller of side.
func (c Controllers) Of(side othello.Side) Controller {
	if side == othello.White {
		return c.White
	}
	return c.Black
}

// PlacementRequest represents a disc placement.
type PlacementRequest struct {
	Side string `json:"side"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// SkillRequest represents a skill use.
type SkillRequest struct {
	Side string `json:"side"`
	Slot int    `json:"slot"`
}

// EventKind is the type of action an Event describes.
type EventKind string

const (
	PlacementEvent EventKind = "placement"
	SkillEvent     EventKind = "skill"
)

// Event is one applied action, in the order it happened. Clients replay these for animations.
type Event struct {
	Kind      EventKind             `json:"kind"`
	Side      othello.Side          `json:"side"`
	Placement *game.PlacementResult `json:"placement,omitempty"`
	Skill     *game.SkillResult     `json:"skill,omitempty"`
}

// SessionResponse is returned by every session endpoint.
type SessionResponse struct {
	ID          string        `json:"id"`
	Mode        GameMode      `json:"mode"`
	Characters  Characters    `json:"characters"`
	Controllers Controllers   `json:"controllers"`
	Snapshot    game.Snapshot `json:"snapshot"`
	Events      []Event       `json:"events"`
}

// Characters holds the character names of both sides.
type Characters struct {
	Black string `json:"black"`
	White string `json:"white"`
}

// SessionRecord is a session as it is stored between requests.
type SessionRecord struct {
	ID          string      `json:"id"`
	Mode        GameMode    `json:"mode"`
	Characters  Characters  `json:"characters"`
	Controllers Controllers `json:"controllers"`
	Policy      string      `json:"policy"`
	Seed        int64       `json:"seed"`
	State       game.State  `json:"state"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	// Revision is incremented on every save of the session.
	Revision int64 `json:"revision"`
}

// GameResult is a finished game as stored in the database.
type GameResult struct {
	ID             string    `json:"id"              db:"id"`
	Mode           string    `json:"mode"            db:"mode"`
	BlackCharacter string    `json:"black_character" db:"black_character"`
	WhiteCharacter string    `json:"white_character" db:"white_character"`
	Winner         string    `json:"winner"          db:"winner"`
	Reason         string    `json:"reason"          db:"reason"`
	BlackDiscs     int       `json:"black_discs"     db:"black_discs"`
	WhiteDiscs     int       `json:"white_discs"     db:"white_discs"`
	BlackHP        int       `json:"black_hp"        db:"black_hp"`
	WhiteHP        int       `json:"white_hp"        db:"white_hp"`
	Moves          Moves     `json:"moves"           db:"moves"`
	FinishedAt     time.Time `json:"finished_at"     db:"finished_at"`
}

// NewGameResult builds the result of a finished session.
func NewGameResult(record SessionRecord, snapshot game.Snapshot, history []othello.Coord, finishedAt time.Time) GameResult {
	moves := make(Moves, len(history))
	for i, move := range history {
		moves[i] = move.Field()
	}

	winner := snapshot.Winner.String()
	if snapshot.Winner == othello.Empty {
		winner = "draw"
	}

	return GameResult{
		ID:             record.ID,
		Mode:           string(record.Mode),
		BlackCharacter: record.Characters.Black,
		WhiteCharacter: record.Characters.White,
		Winner:         winner,
		Reason:         string(snapshot.Reason),
		BlackDiscs:     snapshot.Black.Discs,
		WhiteDiscs:     snapshot.White.Discs,
		BlackHP:        snapshot.Black.HP.Current,
		WhiteHP:        snapshot.White.HP.Current,
		Moves:          moves,
		FinishedAt:     finishedAt,
	}
}

// Moves is a list of fields that implements sql.Scanner for postgres text arrays.
type Moves []string

// Scan implements the sql.Scanner interface for Moves.
func (m *Moves) Scan(value interface{}) error {
	var s string

	switch v := value.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("cannot scan %T into Moves", value)
	}

	// We should have a string that looks like "{c4,e3,f6}"
	s = strings.Trim(s, "{}")

	if s == "" {
		*m = Moves{}
		return nil
	}

	parts := strings.Split(s, ",")
	moves := make(Moves, len(parts))
	for i, part := range parts {
		if _, err := othello.FieldToCoord(part); err != nil {
			return fmt.Errorf("cannot scan %s into Moves: %w", part, err)
		}
		moves[i] = part
	}
	*m = moves

	return nil
}

// String returns the moves separated by spaces.
func (m Moves) String() string {
	return strings.Join(m, " ")
}

// ReasonCount is the number of finished games per end reason.
type ReasonCount struct {
	Reason string `json:"reason" db:"reason"`
	Count  int    `json:"count"  db:"count"`
}

// ResultStats summarizes all finished games.
type ResultStats struct {
	Games       int           `json:"games"`
	BlackWins   int           `json:"black_wins"`
	WhiteWins   int           `json:"white_wins"`
	Draws       int           `json:"draws"`
	ByReason    []ReasonCount `json:"by_reason"`
	AvgMoves    float64       `json:"avg_moves"`
	AvgWinnerHP float64       `json:"avg_winner_hp"`
}

type VersionResponse struct {
	Commit string `json:"commit"`
	Go     string `json:"go"`
}
