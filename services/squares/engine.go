package squares

import (
	"Squares/models"
	"Squares/services/store"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventType string

const (
	EventGameCreated     EventType = "game_created"
	EventSquareClaimed   EventType = "square_claimed"
	EventSquaresReleased EventType = "squares_released"
	EventGameActivated   EventType = "game_activated"
	EventQuarterScored   EventType = "quarter_scored"
	EventGameCompleted   EventType = "game_completed"
	EventGameDeleted     EventType = "game_deleted"
)

// Event describes a committed change to a game
type Event struct {
	Type   EventType    `json:"type"`
	GameID string       `json:"game_id"`
	Game   *models.Game `json:"game,omitempty"`
	Score  *ScoreResult `json:"score,omitempty"`
}

// Notifier is told about every committed change, after the commit
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// GameCache holds read snapshots of games. Entries are only written and
// evicted while the game lock is held: every commit evicts, Get refills.
type GameCache interface {
	LoadGame(ctx context.Context, gameID string) (*models.Game, bool)
	StoreGame(ctx context.Context, game *models.Game)
	EvictGame(ctx context.Context, gameID string)
}

// Engine runs the squares rules against a store. Every mutation holds the
// game's lock for its whole read-modify-write and commits in one transaction.
type Engine struct {
	store     store.Store
	locks     Locker
	random    Randomizer
	cache     GameCache
	notifiers []Notifier
	now       func() time.Time
	log       *zap.SugaredLogger
}

type Option func(*Engine)

func WithLocker(l Locker) Option {
	return func(e *Engine) { e.locks = l }
}

func WithRandomizer(r Randomizer) Option {
	return func(e *Engine) { e.random = r }
}

func WithCache(c GameCache) Option {
	return func(e *Engine) { e.cache = c }
}

func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifiers = append(e.notifiers, n) }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(e *Engine) { e.log = log }
}

func NewEngine(st store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  st,
		locks:  NewKeyedMutex(),
		random: NewRandomizer(),
		now:    func() time.Time { return time.Now().UTC() },
		log:    zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// mutate holds the game lock around a store transaction
func (e *Engine) mutate(ctx context.Context, gameID string, fn func(tx store.Tx) error) error {
	unlock, err := e.locks.Lock(ctx, gameID)
	if err != nil {
		return fmt.Errorf("error locking game %s: %w", gameID, err)
	}
	defer unlock()
	if err := e.store.Atomic(ctx, fn); err != nil {
		return translate(err)
	}
	if e.cache != nil {
		e.cache.EvictGame(ctx, gameID)
	}
	return nil
}

// committed fans the event out to the notifiers
func (e *Engine) committed(ctx context.Context, event Event) {
	for _, n := range e.notifiers {
		n.Notify(ctx, event)
	}
}

func newID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
