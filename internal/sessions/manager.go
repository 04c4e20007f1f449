package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lk16/holothello/internal/characters"
	"github.com/lk16/holothello/internal/game"
	"github.com/lk16/holothello/internal/idle"
	"github.com/lk16/holothello/internal/models"
	"github.com/lk16/holothello/internal/othello"
	"github.com/lk16/holothello/internal/repository"
)

// maxCPUPlacements bounds the CPU loop, a game never has more placements than empty squares.
const maxCPUPlacements = othello.Cells

var (
	ErrSessionNotFound = repository.ErrSessionNotFound
	ErrInvalidRequest  = errors.New("invalid request")
)

// SnapshotStore keeps running sessions between requests.
type SnapshotStore interface {
	SaveSession(ctx context.Context, record models.SessionRecord) error
	LoadSession(ctx context.Context, id string) (models.SessionRecord, error)
	DeleteSession(ctx context.Context, id string) error
	ListSessionIDs(ctx context.Context) ([]string, error)
}

// ResultStore keeps finished games.
type ResultStore interface {
	SaveResult(ctx context.Context, result models.GameResult) error
}

// Options configures a Manager.
type Options struct {
	Catalog *characters.Catalog

	// Snapshots and Results are optional. Without them sessions only live in memory.
	Snapshots SnapshotStore
	Results   ResultStore

	Rules game.Rules
	MaxHP int

	// IdleDrain drains HP from a human player that does not act for IdleInterval.
	IdleDrain    bool
	IdleInterval time.Duration

	Logger *slog.Logger
	Now    func() time.Time
	NewID  func() string
}

// entry is a session hosted by the manager. All fields are guarded by mu.
type entry struct {
	mu          sync.Mutex
	record      models.SessionRecord
	session     *game.Session
	policy      game.MoveSelectionPolicy
	drainer     *idle.Drainer
	stopDrainer context.CancelFunc
	resultSaved bool

	// stored is set once the record is known to be in the snapshot store.
	stored bool

	// deleted entries are no longer played or persisted.
	deleted bool
}

// Manager hosts many independent sessions. Calls on one session are serialized.
type Manager struct {
	opts Options

	mu      sync.Mutex
	entries map[string]*entry

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager creates a Manager.
func NewManager(opts Options) *Manager {
	if opts.Catalog == nil {
		opts.Catalog = characters.Default()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.New().String() }
	}
	if opts.IdleInterval <= 0 {
		opts.IdleInterval = idle.DefaultInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		opts:    opts,
		entries: make(map[string]*entry),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Catalog returns the character catalog sessions are created from.
func (m *Manager) Catalog() *characters.Catalog {
	return m.opts.Catalog
}

// Close stops all idle drainers.
func (m *Manager) Close() {
	m.cancel()
	m.wg.Wait()
}

// Create starts a new session. Computer controlled sides move right away.
func (m *Manager) Create(ctx context.Context, req models.CreateSessionRequest) (models.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return models.SessionResponse{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	blackSkills, err := m.opts.Catalog.Skills(req.BlackCharacter)
	if err != nil {
		return models.SessionResponse{}, err
	}

	whiteSkills, err := m.opts.Catalog.Skills(req.WhiteCharacter)
	if err != nil {
		return models.SessionResponse{}, err
	}

	now := m.opts.Now()

	seed := now.UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	id := m.opts.NewID()

	session, err := game.NewSession(game.Config{
		MaxHP:       m.opts.MaxHP,
		BlackSkills: blackSkills,
		WhiteSkills: whiteSkills,
		Rules:       m.opts.Rules,
		Logger:      m.opts.Logger.With("session", id),
	})
	if err != nil {
		return models.SessionResponse{}, err
	}

	e := &entry{
		record: models.SessionRecord{
			ID:   id,
			Mode: req.Mode,
			Characters: models.Characters{
				Black: req.BlackCharacter,
				White: req.WhiteCharacter,
			},
			Controllers: req.Controllers(),
			Policy:      req.Policy,
			Seed:        seed,
			CreatedAt:   now,
		},
		session: session,
	}
	e.policy = m.newPolicy(e.record, 0)

	e.mu.Lock()
	defer e.mu.Unlock()

	events, err := m.runCPU(e)
	if err != nil {
		return models.SessionResponse{}, err
	}

	m.mu.Lock()
	m.entries[id] = e
	m.mu.Unlock()

	m.opts.Logger.Info("Created session",
		"session", id,
		"mode", req.Mode,
		"black", req.BlackCharacter,
		"white", req.WhiteCharacter,
		"seed", seed,
	)

	m.persist(ctx, e)
	m.startDrainer(e)

	return response(e, events), nil
}

// newPolicy creates the policy of a session. A restored session continues with
// a seed derived from the number of moves played.
func (m *Manager) newPolicy(record models.SessionRecord, moves int) game.MoveSelectionPolicy {
	policy, ok := game.NewPolicy(record.Policy, record.Seed+int64(moves))
	if !ok {
		policy = game.NewRandomPolicy(record.Seed + int64(moves))
	}
	return policy
}

// lookup returns the entry of id, restoring it from the snapshot store if needed.
func (m *Manager) lookup(ctx context.Context, id string) (*entry, error) {
	m.mu.Lock()
	e, ok := m.entries[id]
	m.mu.Unlock()

	if ok {
		return e, nil
	}

	if m.opts.Snapshots == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	record, err := m.opts.Snapshots.LoadSession(ctx, id)
	if err != nil {
		return nil, err
	}

	session, err := game.NewSessionFromState(record.State, m.opts.Logger.With("session", id))
	if err != nil {
		return nil, fmt.Errorf("error restoring session %s: %w", id, err)
	}

	e = &entry{
		record:      record,
		session:     session,
		policy:      m.newPolicy(record, len(record.State.History)),
		resultSaved: session.IsTerminal(),
		stored:      true,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another request may have restored it first
	if existing, ok := m.entries[id]; ok {
		return existing, nil
	}

	m.entries[id] = e
	m.startDrainer(e)

	m.opts.Logger.Debug("Restored session", "session", id)

	return e, nil
}

// acquire returns the up to date entry of id with e.mu held.
func (m *Manager) acquire(ctx context.Context, id string) (*entry, error) {
	e, err := m.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()

	if err = m.refresh(ctx, e); err != nil {
		e.mu.Unlock()
		return nil, err
	}

	return e, nil
}

// refresh reloads e when the snapshot store holds a newer revision, saved by
// another manager sharing the store. It must be called with e.mu held.
func (m *Manager) refresh(ctx context.Context, e *entry) error {
	if e.deleted {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, e.record.ID)
	}

	if m.opts.Snapshots == nil {
		return nil
	}

	record, err := m.opts.Snapshots.LoadSession(ctx, e.record.ID)
	if errors.Is(err, ErrSessionNotFound) {
		if !e.stored {
			// Saving failed so far, the local copy is all there is
			return nil
		}

		m.forget(e)
		return err
	}

	if err != nil {
		m.opts.Logger.Error("Failed to reload session", "session", e.record.ID, "error", err)
		return nil
	}

	if record.Revision <= e.record.Revision {
		return nil
	}

	session, err := game.NewSessionFromState(record.State, m.opts.Logger.With("session", record.ID))
	if err != nil {
		return fmt.Errorf("error restoring session %s: %w", record.ID, err)
	}

	m.opts.Logger.Debug("Reloaded session",
		"session", record.ID,
		"revision", record.Revision,
		"local_revision", e.record.Revision,
	)

	e.record = record
	e.session = session
	e.policy = m.newPolicy(record, len(record.State.History))
	e.stored = true

	// The manager that ended the game saved its result
	if session.IsTerminal() {
		e.resultSaved = true
		if e.stopDrainer != nil {
			e.stopDrainer()
		}
	}

	return nil
}

// forget drops an entry that was deleted. It must be called with e.mu held.
func (m *Manager) forget(e *entry) {
	e.deleted = true

	if e.stopDrainer != nil {
		e.stopDrainer()
	}

	m.mu.Lock()
	if m.entries[e.record.ID] == e {
		delete(m.entries, e.record.ID)
	}
	m.mu.Unlock()
}

// Restore loads all sessions of the snapshot store, so their idle drainers run
// again after a restart. It returns the number of restored sessions.
func (m *Manager) Restore(ctx context.Context) (int, error) {
	if m.opts.Snapshots == nil {
		return 0, nil
	}

	ids, err := m.opts.Snapshots.ListSessionIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("error listing sessions: %w", err)
	}

	restored := 0
	for _, id := range ids {
		if _, err = m.lookup(ctx, id); err != nil {
			// Sessions may expire between listing and loading
			if !errors.Is(err, ErrSessionNotFound) {
				m.opts.Logger.Error("Failed to restore session", "session", id, "error", err)
			}
			continue
		}
		restored++
	}

	m.opts.Logger.Info("Restored sessions", "count", restored)

	return restored, nil
}

// Get returns the current state of a session.
func (m *Manager) Get(ctx context.Context, id string) (models.SessionResponse, error) {
	e, err := m.acquire(ctx, id)
	if err != nil {
		return models.SessionResponse{}, err
	}
	defer e.mu.Unlock()

	return response(e, nil), nil
}

// Delete removes a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	e, ok := m.entries[id]
	delete(m.entries, id)
	m.mu.Unlock()

	if ok {
		e.mu.Lock()
		e.deleted = true
		if e.stopDrainer != nil {
			e.stopDrainer()
		}
		e.mu.Unlock()
	}

	if m.opts.Snapshots == nil {
		if !ok {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil
	}

	if !ok {
		// Make sure missing sessions are reported as such
		if _, err := m.opts.Snapshots.LoadSession(ctx, id); err != nil {
			return err
		}
	}

	if err := m.opts.Snapshots.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("error deleting session %s: %w", id, err)
	}

	m.opts.Logger.Info("Deleted session", "session", id)

	return nil
}

// parseHumanSide parses side and checks that a human plays it.
func parseHumanSide(e *entry, s string) (othello.Side, error) {
	side, err := othello.ParseSide(s)
	if err != nil {
		return othello.Empty, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	if e.record.Controllers.Of(side) != models.Human {
		return othello.Empty, fmt.Errorf("%w: %s is played by the computer", ErrInvalidRequest, side)
	}

	return side, nil
}

// Place places a disc for a human player, then lets the computer reply.
func (m *Manager) Place(ctx context.Context, id string, req models.PlacementRequest) (models.SessionResponse, error) {
	e, err := m.acquire(ctx, id)
	if err != nil {
		return models.SessionResponse{}, err
	}
	defer e.mu.Unlock()

	side, err := parseHumanSide(e, req.Side)
	if err != nil {
		return models.SessionResponse{}, err
	}

	result, err := e.session.RequestPlacement(side, req.X, req.Y)
	if err != nil {
		return models.SessionResponse{}, err
	}

	events := []models.Event{placementEvent(side, result)}

	cpuEvents, err := m.runCPU(e)
	if err != nil {
		return models.SessionResponse{}, err
	}
	events = append(events, cpuEvents...)

	if e.drainer != nil {
		e.drainer.Touch()
	}

	m.persist(ctx, e)

	return response(e, events), nil
}

// UseSkill uses a skill for a human player. Skills never pass the turn, so
// the computer does not reply.
func (m *Manager) UseSkill(ctx context.Context, id string, req models.SkillRequest) (models.SessionResponse, error) {
	e, err := m.acquire(ctx, id)
	if err != nil {
		return models.SessionResponse{}, err
	}
	defer e.mu.Unlock()

	side, err := parseHumanSide(e, req.Side)
	if err != nil {
		return models.SessionResponse{}, err
	}

	result, err := e.session.RequestSkill(side, req.Slot)
	if err != nil {
		return models.SessionResponse{}, err
	}

	if e.drainer != nil && side == e.session.ToMove() {
		e.drainer.Touch()
	}

	m.persist(ctx, e)

	return response(e, []models.Event{skillEvent(result)}), nil
}

// runCPU lets computer controlled sides place until a human is to move or the game ended.
func (m *Manager) runCPU(e *entry) ([]models.Event, error) {
	events := make([]models.Event, 0)

	for range maxCPUPlacements {
		session := e.session
		side := session.ToMove()

		if session.IsTerminal() || e.record.Controllers.Of(side) != models.CPU {
			return events, nil
		}

		move, ok := e.policy.SelectMove(session.Board(), side)
		if !ok {
			return events, fmt.Errorf("computer has no move for %s in session %s", side, e.record.ID)
		}

		result, err := session.RequestPlacement(side, move.X, move.Y)
		if err != nil {
			return events, fmt.Errorf("computer move %s rejected: %w", move.Field(), err)
		}

		events = append(events, placementEvent(side, result))
	}

	return events, nil
}

// persist stores the session as a new revision and, once, the result of a
// finished game. Store errors are logged, the game itself is already updated.
func (m *Manager) persist(ctx context.Context, e *entry) {
	if e.deleted {
		return
	}

	e.record.State = e.session.State()
	e.record.UpdatedAt = m.opts.Now()
	e.record.Revision++

	if m.opts.Snapshots != nil {
		if err := m.opts.Snapshots.SaveSession(ctx, e.record); err != nil {
			m.opts.Logger.Error("Failed to save session", "session", e.record.ID, "error", err)
		} else {
			e.stored = true
		}
	}

	if !e.session.IsTerminal() || e.resultSaved {
		return
	}

	e.resultSaved = true

	if e.stopDrainer != nil {
		e.stopDrainer()
	}

	snapshot := e.session.Snapshot()

	m.opts.Logger.Info("Session ended",
		"session", e.record.ID,
		"reason", snapshot.Reason,
		"winner", snapshot.Winner,
		"black_discs", snapshot.Black.Discs,
		"white_discs", snapshot.White.Discs,
	)

	if m.opts.Results == nil {
		return
	}

	result := models.NewGameResult(e.record, snapshot, e.session.History(), e.record.UpdatedAt)
	if err := m.opts.Results.SaveResult(ctx, result); err != nil {
		m.opts.Logger.Error("Failed to save result", "session", e.record.ID, "error", err)
	}
}

func placementEvent(side othello.Side, result game.PlacementResult) models.Event {
	return models.Event{
		Kind:      models.PlacementEvent,
		Side:      side,
		Placement: &result,
	}
}

func skillEvent(result game.SkillResult) models.Event {
	return models.Event{
		Kind:  models.SkillEvent,
		Side:  result.Side,
		Skill: &result,
	}
}

func response(e *entry, events []models.Event) models.SessionResponse {
	if events == nil {
		events = make([]models.Event, 0)
	}

	return models.SessionResponse{
		ID:          e.record.ID,
		Mode:        e.record.Mode,
		Characters:  e.record.Characters,
		Controllers: e.record.Controllers,
		Snapshot:    e.session.Snapshot(),
		Events:      events,
	}
}
