package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/lk16/holothello/internal/game"
	"github.com/lk16/holothello/internal/idle"
	"github.com/lk16/holothello/internal/models"
)

// drainTarget drains HP from the side to move of one hosted session.
type drainTarget struct {
	manager *Manager
	entry   *entry
}

// Drain implements idle.Target.
func (t drainTarget) Drain(amount int) error {
	e := t.entry

	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, cancel := context.WithTimeout(t.manager.ctx, time.Second)
	defer cancel()

	if err := t.manager.refresh(ctx, e); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil
		}
		return err
	}

	if !e.session.IsTerminal() && e.record.Controllers.Of(e.session.ToMove()) != models.Human {
		return nil
	}

	side, hp, err := e.session.ApplyIdleDamage(amount)
	if err != nil {
		return err
	}

	t.manager.opts.Logger.Debug("Drained idle player", "session", e.record.ID, "side", side, "hp", hp)

	t.manager.persist(ctx, e)

	return nil
}

// hasHuman checks if a human plays any side of the session.
func hasHuman(controllers models.Controllers) bool {
	return controllers.Black == models.Human || controllers.White == models.Human
}

// startDrainer starts the idle drainer of a session if idle drain is enabled.
// It must be called with e.mu held or before e is shared.
func (m *Manager) startDrainer(e *entry) {
	if !m.opts.IdleDrain || e.session.IsTerminal() || !hasHuman(e.record.Controllers) {
		return
	}

	ctx, cancel := context.WithCancel(m.ctx)

	e.drainer = idle.NewDrainer(drainTarget{manager: m, entry: e}, m.opts.IdleInterval, idle.DefaultAmount)
	e.stopDrainer = cancel

	drainer := e.drainer
	id := e.record.ID

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()

		if err := drainer.RunTicker(ctx, game.ErrSessionTerminal); err != nil {
			m.opts.Logger.Error("Idle drainer failed", "session", id, "error", err)
		}
	}()
}
