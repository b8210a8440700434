package store

import (
	game_constants "Squares/constants/game"
	"Squares/models"
	pgmodels "Squares/models/postgres"
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresStore persists games, entries, payouts and accounts with GORM
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Atomic runs fn inside a database transaction. The game row is read with
// SELECT ... FOR UPDATE, so two instances can't interleave on the same game.
func (s *PostgresStore) Atomic(ctx context.Context, fn func(tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&postgresTx{db: db})
	})
}

func (s *PostgresStore) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	return loadGame(ctx, s.db, gameID, false)
}

func (s *PostgresStore) ListGames(ctx context.Context, filter models.GameFilter) ([]*models.Game, error) {
	limit := filter.Limit
	if limit <= 0 || limit > game_constants.MAX_LISTED_GAMES {
		limit = game_constants.MAX_LISTED_GAMES
	}

	q := s.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("square_number") }).
		Preload("Payouts", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") })
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.CreatorID != "" {
		q = q.Where("creator_id = ?", filter.CreatorID)
	}

	var records []pgmodels.Game
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("error listing games: %w", err)
	}

	games := make([]*models.Game, 0, len(records))
	for i := range records {
		g, err := toGame(&records[i], records[i].Entries, records[i].Payouts)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, nil
}

func (s *PostgresStore) ListEntriesByUser(ctx context.Context, userID string) ([]models.Entry, error) {
	var records []pgmodels.GameEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Limit(game_constants.MAX_LISTED_GAMES).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("error listing entries: %w", err)
	}
	entries := make([]models.Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, toEntry(r))
	}
	return entries, nil
}

func (s *PostgresStore) ListPayoutsByUser(ctx context.Context, userID string) ([]models.Payout, error) {
	var records []pgmodels.Payout
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Limit(game_constants.MAX_LISTED_GAMES).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("error listing payouts: %w", err)
	}
	payouts := make([]models.Payout, 0, len(records))
	for _, r := range records {
		payouts = append(payouts, toPayout(r))
	}
	return payouts, nil
}

func (s *PostgresStore) CreateAccount(ctx context.Context, account *models.Account) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		var count int64
		err := db.Model(&pgmodels.Account{}).
			Where("user_id = ? OR email = ?", account.UserID, account.Email).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("error checking account: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("email %s: %w", account.Email, ErrAccountExists)
		}
		record := fromAccount(account)
		if err := db.Create(&record).Error; err != nil {
			return fmt.Errorf("error creating account: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) GetAccount(ctx context.Context, userID string) (*models.Account, error) {
	return findAccount(ctx, s.db, "user_id = ?", userID)
}

func (s *PostgresStore) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return findAccount(ctx, s.db, "email = ?", email)
}

func (s *PostgresStore) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	account, err := s.GetAccount(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.MockBalance, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type postgresTx struct {
	db *gorm.DB
}

func (tx *postgresTx) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	return loadGame(ctx, tx.db, gameID, true)
}

func (tx *postgresTx) CreateGame(ctx context.Context, game *models.Game) error {
	record, err := fromGame(game)
	if err != nil {
		return err
	}
	if err := tx.db.WithContext(ctx).Omit(clause.Associations).Create(&record).Error; err != nil {
		return fmt.Errorf("error creating game: %w", err)
	}
	return nil
}

func (tx *postgresTx) SaveGame(ctx context.Context, game *models.Game) error {
	record, err := fromGame(game)
	if err != nil {
		return err
	}
	db := tx.db.WithContext(ctx)

	res := db.Model(&pgmodels.Game{}).
		Where("id = ?", game.ID).
		Updates(map[string]interface{}{
			"status":         record.Status,
			"random_numbers": record.RandomNumbers,
			"quarter_scores": record.QuarterScores,
			"winners":        record.Winners,
		})
	if res.Error != nil {
		return fmt.Errorf("error updating game: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("game %s: %w", game.ID, ErrNotFound)
	}

	// Squares are small, rewrite them all
	if err := db.Where("game_id = ?", game.ID).Delete(&pgmodels.GameEntry{}).Error; err != nil {
		return fmt.Errorf("error clearing entries: %w", err)
	}
	if len(record.Entries) > 0 {
		if err := db.Create(&record.Entries).Error; err != nil {
			return fmt.Errorf("error saving entries: %w", err)
		}
	}

	// Payouts are append-only: existing rows are left untouched
	if len(record.Payouts) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record.Payouts).Error; err != nil {
			return fmt.Errorf("error saving payouts: %w", err)
		}
	}
	return nil
}

func (tx *postgresTx) DeleteGame(ctx context.Context, gameID string) error {
	db := tx.db.WithContext(ctx)
	if err := db.Where("game_id = ?", gameID).Delete(&pgmodels.GameEntry{}).Error; err != nil {
		return fmt.Errorf("error deleting entries: %w", err)
	}
	if err := db.Where("game_id = ?", gameID).Delete(&pgmodels.Payout{}).Error; err != nil {
		return fmt.Errorf("error deleting payouts: %w", err)
	}
	res := db.Where("id = ?", gameID).Delete(&pgmodels.Game{})
	if res.Error != nil {
		return fmt.Errorf("error deleting game: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("game %s: %w", gameID, ErrNotFound)
	}
	return nil
}

func (tx *postgresTx) GetAccount(ctx context.Context, userID string) (*models.Account, error) {
	return findAccount(ctx, tx.db, "user_id = ?", userID)
}

func (tx *postgresTx) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	account, err := tx.GetAccount(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.MockBalance, nil
}

// Debit is a conditional update, so concurrent debits on one account can't
// both pass a stale balance check.
func (tx *postgresTx) Debit(ctx context.Context, userID string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("debit of negative amount %s", amount)
	}
	res := tx.db.WithContext(ctx).Model(&pgmodels.Account{}).
		Where("user_id = ? AND mock_balance >= ?", userID, amount).
		UpdateColumn("mock_balance", gorm.Expr("mock_balance - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("error debiting account: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := tx.GetAccount(ctx, userID); err != nil {
			return err
		}
		return fmt.Errorf("user %s needs %s: %w", userID, amount, ErrInsufficientFunds)
	}
	return nil
}

func (tx *postgresTx) Credit(ctx context.Context, userID string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("credit of negative amount %s", amount)
	}
	res := tx.db.WithContext(ctx).Model(&pgmodels.Account{}).
		Where("user_id = ?", userID).
		UpdateColumn("mock_balance", gorm.Expr("mock_balance + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("error crediting account: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return nil
}

func loadGame(ctx context.Context, db *gorm.DB, gameID string, forUpdate bool) (*models.Game, error) {
	q := db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var record pgmodels.Game
	if err := q.Where("id = ?", gameID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("game %s: %w", gameID, ErrNotFound)
		}
		return nil, fmt.Errorf("error loading game: %w", err)
	}

	var entries []pgmodels.GameEntry
	if err := db.WithContext(ctx).Where("game_id = ?", gameID).Order("square_number").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("error loading entries: %w", err)
	}
	var payouts []pgmodels.Payout
	if err := db.WithContext(ctx).Where("game_id = ?", gameID).Order("created_at").Find(&payouts).Error; err != nil {
		return nil, fmt.Errorf("error loading payouts: %w", err)
	}
	return toGame(&record, entries, payouts)
}

func findAccount(ctx context.Context, db *gorm.DB, query string, arg string) (*models.Account, error) {
	var record pgmodels.Account
	if err := db.WithContext(ctx).Where(query, arg).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("account %s: %w", arg, ErrNotFound)
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}
	return toAccount(record), nil
}
