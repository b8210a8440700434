package store

import (
	"Squares/models"
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return NewPostgresStore(db), mock
}

func accountRows(userID, balance string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"user_id", "email", "name", "password_hash", "mock_balance", "created_at"}).
		AddRow(userID, userID+"@example.com", userID, "hash", balance, time.Now())
}

func TestPostgresDebitInsufficientFunds(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "accounts" SET "mock_balance"=mock_balance - $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "accounts" WHERE user_id = $1`)).
		WillReturnRows(accountRows("alice", "5"))
	mock.ExpectRollback()

	err := s.Atomic(ctx, func(tx Tx) error {
		return tx.Debit(ctx, "alice", decimal.NewFromInt(10))
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDebitCommits(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "accounts" SET "mock_balance"=mock_balance - $1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.Atomic(ctx, func(tx Tx) error {
		return tx.Debit(ctx, "alice", decimal.NewFromInt(10))
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreditUnknownAccount(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "accounts" SET "mock_balance"=mock_balance + $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.Atomic(ctx, func(tx Tx) error {
		return tx.Credit(ctx, "ghost", decimal.NewFromInt(10))
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetGameNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "games" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetGame(context.Background(), "game_missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetAccount(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "accounts" WHERE user_id = $1`)).
		WillReturnRows(accountRows("alice", "42.50"))

	account, err := s.GetAccount(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", account.Email)
	assert.True(t, account.MockBalance.Equal(decimal.RequireFromString("42.5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func createdAtRows(n int) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"created_at"})
	for i := 0; i < n; i++ {
		rows.AddRow(time.Now())
	}
	return rows
}

func scoredGame() *models.Game {
	now := time.Date(2025, 2, 9, 18, 30, 0, 0, time.UTC)
	g := models.NewGame("game_1", "creator", "Super Bowl", decimal.NewFromInt(10), now)
	g.Status = models.StatusActive
	g.Squares[2] = &models.Square{EntryID: "entry_a", UserID: "alice", UserName: "Alice", ClaimedAt: now}
	g.Squares[8] = &models.Square{EntryID: "entry_b", UserID: "bob", UserName: "Bob", ClaimedAt: now}
	for i := range g.RandomNumbers {
		d := i
		g.RandomNumbers[i] = &d
	}
	g.QuarterScores["Q1"] = "21-17"
	g.Winners["Q1"] = "bob"
	g.Payouts = append(g.Payouts, models.Payout{ID: "payout_1", GameID: g.ID, UserID: "bob", Quarter: "Q1", Amount: decimal.NewFromInt(20), CreatedAt: now})
	return g
}

func TestPostgresCreateGame(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()
	game := models.NewGame("game_1", "creator", "Super Bowl", decimal.NewFromInt(10), time.Now())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "games"`)).
		WillReturnRows(createdAtRows(1))
	mock.ExpectCommit()

	err := s.Atomic(ctx, func(tx Tx) error {
		return tx.CreateGame(ctx, game)
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveGameRewritesEntries(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()
	game := scoredGame()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "games" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "game_entries" WHERE game_id = $1`)).
		WithArgs("game_1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "game_entries"`)).
		WillReturnRows(createdAtRows(2))
	mock.ExpectQuery(`INSERT INTO "payouts" .* ON CONFLICT DO NOTHING`).
		WillReturnRows(createdAtRows(0))
	mock.ExpectCommit()

	err := s.Atomic(ctx, func(tx Tx) error {
		return tx.SaveGame(ctx, game)
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveGameWithoutEntries(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()
	game := models.NewGame("game_1", "creator", "Super Bowl", decimal.Zero, time.Now())

	// the last player left: entries are cleared and nothing is inserted
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "games" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "game_entries" WHERE game_id = $1`)).
		WithArgs("game_1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.Atomic(ctx, func(tx Tx) error {
		return tx.SaveGame(ctx, game)
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveGameMissing(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "games" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.Atomic(ctx, func(tx Tx) error {
		return tx.SaveGame(ctx, scoredGame())
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteGame(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "game_entries" WHERE game_id = $1`)).
		WithArgs("game_1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "payouts" WHERE game_id = $1`)).
		WithArgs("game_1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "games" WHERE id = $1`)).
		WithArgs("game_1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.Atomic(ctx, func(tx Tx) error {
		return tx.DeleteGame(ctx, "game_1")
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteGameMissing(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "game_entries"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "payouts"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "games"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.Atomic(ctx, func(tx Tx) error {
		return tx.DeleteGame(ctx, "game_missing")
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListGamesPreloads(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "games" WHERE status = $1 AND creator_id = $2 ORDER BY created_at DESC,id DESC LIMIT`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "creator_id", "event_name", "entry_fee", "status", "random_numbers", "quarter_scores", "winners", "created_at"}).
			AddRow("game_1", "creator", "Super Bowl", "10", "active", `[0,1,2,3,4,5,6,7,8,9]`, `{"Q1":"21-17"}`, `{"Q1":"bob"}`, now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "game_entries" WHERE "game_entries"."game_id" = $1 ORDER BY square_number`)).
		WithArgs("game_1").
		WillReturnRows(sqlmock.NewRows([]string{"game_id", "square_number", "id", "user_id", "user_name", "paid_amount", "created_at"}).
			AddRow("game_1", 8, "entry_b", "bob", "Bob", "10", now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payouts" WHERE "payouts"."game_id" = $1 ORDER BY created_at`)).
		WithArgs("game_1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "game_id", "user_id", "quarter", "amount", "created_at"}).
			AddRow("payout_1", "game_1", "bob", "Q1", "20", now))

	games, err := s.ListGames(context.Background(), models.GameFilter{Status: models.StatusActive, CreatorID: "creator"})
	require.NoError(t, err)
	require.Len(t, games, 1)
	g := games[0]
	assert.Equal(t, models.StatusActive, g.Status)
	require.NotNil(t, g.Squares[8])
	assert.Equal(t, "bob", g.Squares[8].UserID)
	assert.Equal(t, "entry_b", g.Squares[8].EntryID)
	assert.Nil(t, g.Squares[2])
	assert.Equal(t, "21-17", g.QuarterScores["Q1"])
	assert.Equal(t, "bob", g.Winners["Q1"])
	require.Len(t, g.Payouts, 1)
	assert.True(t, g.Payouts[0].Amount.Equal(decimal.NewFromInt(20)))
	assert.True(t, g.HasNumbers())
	assert.NoError(t, mock.ExpectationsWereMet())
}
