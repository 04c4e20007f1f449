package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lk16/holothello/internal/game"
	"github.com/lk16/holothello/internal/models"
	"github.com/lk16/holothello/internal/othello"
)

const defaultPollInterval = 500 * time.Millisecond

// Bot plays sides of a session with a move selection policy.
type Bot struct {
	client       *Client
	policy       game.MoveSelectionPolicy
	pollInterval time.Duration
}

// NewBot creates a bot. A non-positive poll interval falls back to the default.
func NewBot(client *Client, policy game.MoveSelectionPolicy, pollInterval time.Duration) *Bot {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	return &Bot{
		client:       client,
		policy:       policy,
		pollInterval: pollInterval,
	}
}

// Play places discs for the given sides until the session ended. When the
// opponent is to move it polls the session.
func (b *Bot) Play(ctx context.Context, sessionID string, sides ...othello.Side) (models.SessionResponse, error) {
	plays := make(map[othello.Side]bool, len(sides))
	for _, side := range sides {
		plays[side] = true
	}

	resp, err := b.client.Snapshot(sessionID)
	if err != nil {
		return models.SessionResponse{}, err
	}

	for !resp.Snapshot.Terminal {
		side := resp.Snapshot.ToMove

		if !plays[side] {
			select {
			case <-ctx.Done():
				return resp, ctx.Err()
			case <-time.After(b.pollInterval):
			}

			if resp, err = b.client.Snapshot(sessionID); err != nil {
				return resp, err
			}
			continue
		}

		if err = ctx.Err(); err != nil {
			return resp, err
		}

		board, err := othello.NewBoardFromString(resp.Snapshot.Board)
		if err != nil {
			return resp, fmt.Errorf("error parsing board: %w", err)
		}

		move, ok := b.policy.SelectMove(board, side)
		if !ok {
			return resp, fmt.Errorf("no legal move for %s", side)
		}

		slog.Info("Placing disc", "session", sessionID, "side", side, "field", move.Field())

		resp, err = b.client.Place(sessionID, models.PlacementRequest{
			Side: side.String(),
			X:    move.X,
			Y:    move.Y,
		})
		if err != nil {
			return resp, err
		}

		for _, event := range resp.Events {
			if event.Placement != nil {
				slog.Debug("Event", "side", event.Side, "field", event.Placement.Event.Origin.Field(), "damage", event.Placement.Damage)
			}
		}
	}

	snapshot := resp.Snapshot
	slog.Info("Session ended",
		"session", sessionID,
		"reason", snapshot.Reason,
		"winner", snapshot.Winner,
		"black_discs", snapshot.Black.Discs,
		"white_discs", snapshot.White.Discs,
	)

	return resp, nil
}
