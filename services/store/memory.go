package store

import (
	game_constants "Squares/constants/game"
	"Squares/models"
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// MemoryStore keeps everything in process memory. It backs the test suites
// and single-instance development runs (STORE_BACKEND=memory).
type MemoryStore struct {
	mu       sync.RWMutex
	games    map[string]*models.Game
	accounts map[string]*models.Account
	emails   map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games:    make(map[string]*models.Game),
		accounts: make(map[string]*models.Account),
		emails:   make(map[string]string),
	}
}

// Atomic stages every write of fn and applies them under a single lock once
// fn succeeds. Ledger deltas are re-checked at commit, so two transactions
// racing on one account can never push it below zero.
func (s *MemoryStore) Atomic(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &memoryTx{
		store:   s,
		staged:  make(map[string]*models.Game),
		created: make(map[string]bool),
		deleted: make(map[string]bool),
		deltas:  make(map[string]decimal.Decimal),
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.commit()
}

func (s *MemoryStore) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game %s: %w", gameID, ErrNotFound)
	}
	return game.Clone(), nil
}

func (s *MemoryStore) ListGames(ctx context.Context, filter models.GameFilter) ([]*models.Game, error) {
	s.mu.RLock()
	games := make([]*models.Game, 0, len(s.games))
	for _, g := range s.games {
		if filter.Status != "" && g.Status != filter.Status {
			continue
		}
		if filter.CreatorID != "" && g.CreatorID != filter.CreatorID {
			continue
		}
		games = append(games, g.Clone())
	}
	s.mu.RUnlock()

	// Newest first
	sort.Slice(games, func(i, j int) bool {
		if games[i].CreatedAt.Equal(games[j].CreatedAt) {
			return games[i].ID > games[j].ID
		}
		return games[i].CreatedAt.After(games[j].CreatedAt)
	})

	limit := filter.Limit
	if limit <= 0 || limit > game_constants.MAX_LISTED_GAMES {
		limit = game_constants.MAX_LISTED_GAMES
	}
	if len(games) > limit {
		games = games[:limit]
	}
	return games, nil
}

func (s *MemoryStore) ListEntriesByUser(ctx context.Context, userID string) ([]models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := []models.Entry{}
	for _, g := range s.games {
		entries = append(entries, g.EntriesFor(userID)...)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

func (s *MemoryStore) ListPayoutsByUser(ctx context.Context, userID string) ([]models.Payout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payouts := []models.Payout{}
	for _, g := range s.games {
		for _, p := range g.Payouts {
			if p.UserID == userID {
				payouts = append(payouts, p)
			}
		}
	}
	sort.Slice(payouts, func(i, j int) bool {
		return payouts[i].CreatedAt.Before(payouts[j].CreatedAt)
	})
	return payouts, nil
}

func (s *MemoryStore) CreateAccount(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.UserID]; ok {
		return fmt.Errorf("user %s: %w", account.UserID, ErrAccountExists)
	}
	if _, ok := s.emails[account.Email]; ok {
		return fmt.Errorf("email %s: %w", account.Email, ErrAccountExists)
	}
	a := *account
	s.accounts[a.UserID] = &a
	s.emails[a.Email] = a.UserID
	return nil
}

func (s *MemoryStore) GetAccount(ctx context.Context, userID string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getAccountLocked(userID)
}

func (s *MemoryStore) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.emails[email]
	if !ok {
		return nil, fmt.Errorf("email %s: %w", email, ErrNotFound)
	}
	return s.getAccountLocked(userID)
}

func (s *MemoryStore) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	account, err := s.GetAccount(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.MockBalance, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) getAccountLocked(userID string) (*models.Account, error) {
	account, ok := s.accounts[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	a := *account
	return &a, nil
}

// memoryTx buffers game writes and ledger deltas until commit
type memoryTx struct {
	store   *MemoryStore
	staged  map[string]*models.Game
	created map[string]bool
	deleted map[string]bool
	deltas  map[string]decimal.Decimal
}

func (tx *memoryTx) exists(gameID string) bool {
	if tx.deleted[gameID] {
		return false
	}
	if _, ok := tx.staged[gameID]; ok {
		return true
	}
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()
	_, ok := tx.store.games[gameID]
	return ok
}

func (tx *memoryTx) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	if tx.deleted[gameID] {
		return nil, fmt.Errorf("game %s: %w", gameID, ErrNotFound)
	}
	if g, ok := tx.staged[gameID]; ok {
		return g.Clone(), nil
	}
	return tx.store.GetGame(ctx, gameID)
}

func (tx *memoryTx) CreateGame(ctx context.Context, game *models.Game) error {
	if tx.exists(game.ID) {
		return fmt.Errorf("game %s already exists", game.ID)
	}
	delete(tx.deleted, game.ID)
	tx.staged[game.ID] = game.Clone()
	tx.created[game.ID] = true
	return nil
}

func (tx *memoryTx) SaveGame(ctx context.Context, game *models.Game) error {
	if !tx.exists(game.ID) {
		return fmt.Errorf("game %s: %w", game.ID, ErrNotFound)
	}
	tx.staged[game.ID] = game.Clone()
	return nil
}

func (tx *memoryTx) DeleteGame(ctx context.Context, gameID string) error {
	if !tx.exists(gameID) {
		return fmt.Errorf("game %s: %w", gameID, ErrNotFound)
	}
	delete(tx.staged, gameID)
	delete(tx.created, gameID)
	tx.deleted[gameID] = true
	return nil
}

func (tx *memoryTx) GetAccount(ctx context.Context, userID string) (*models.Account, error) {
	account, err := tx.store.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	account.MockBalance = account.MockBalance.Add(tx.deltas[userID])
	return account, nil
}

func (tx *memoryTx) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	account, err := tx.GetAccount(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.MockBalance, nil
}

func (tx *memoryTx) Debit(ctx context.Context, userID string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("debit of negative amount %s", amount)
	}
	balance, err := tx.Balance(ctx, userID)
	if err != nil {
		return err
	}
	if balance.LessThan(amount) {
		return fmt.Errorf("user %s has %s, needs %s: %w", userID, balance, amount, ErrInsufficientFunds)
	}
	tx.deltas[userID] = tx.deltas[userID].Sub(amount)
	return nil
}

func (tx *memoryTx) Credit(ctx context.Context, userID string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("credit of negative amount %s", amount)
	}
	if _, err := tx.store.GetAccount(ctx, userID); err != nil {
		return err
	}
	tx.deltas[userID] = tx.deltas[userID].Add(amount)
	return nil
}

func (tx *memoryTx) commit() error {
	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	// Check every balance before touching any of them
	for userID, delta := range tx.deltas {
		account, ok := s.accounts[userID]
		if !ok {
			return fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		if account.MockBalance.Add(delta).IsNegative() {
			return fmt.Errorf("user %s: %w", userID, ErrInsufficientFunds)
		}
	}
	for id := range tx.created {
		if _, ok := s.games[id]; ok {
			return fmt.Errorf("game %s already exists", id)
		}
	}

	for userID, delta := range tx.deltas {
		s.accounts[userID].MockBalance = s.accounts[userID].MockBalance.Add(delta)
	}
	for id := range tx.deleted {
		delete(s.games, id)
	}
	for id, g := range tx.staged {
		s.games[id] = g
	}
	return nil
}
