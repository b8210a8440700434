package store

import (
	"Squares/models"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAccount(t *testing.T, s *MemoryStore, userID, balance string) {
	t.Helper()
	require.NoError(t, s.CreateAccount(context.Background(), &models.Account{
		UserID:      userID,
		Email:       userID + "@example.com",
		Name:        userID,
		MockBalance: decimal.RequireFromString(balance),
	}))
}

func seedGame(t *testing.T, s *MemoryStore, id string, createdAt time.Time) *models.Game {
	t.Helper()
	game := models.NewGame(id, "creator", "Final", decimal.NewFromInt(5), createdAt)
	require.NoError(t, s.Atomic(context.Background(), func(tx Tx) error {
		return tx.CreateGame(context.Background(), game)
	}))
	return game
}

func TestCreateAccountUniqueness(t *testing.T) {
	s := NewMemoryStore()
	seedAccount(t, s, "alice", "10")

	err := s.CreateAccount(context.Background(), &models.Account{UserID: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, ErrAccountExists)
	err = s.CreateAccount(context.Background(), &models.Account{UserID: "alice2", Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrAccountExists)

	a, err := s.GetAccountByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", a.UserID)

	_, err = s.GetAccount(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAtomicRollsBackOnError(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seedAccount(t, s, "alice", "10")
	game := seedGame(t, s, "game_1", time.Now())

	boom := errors.New("boom")
	err := s.Atomic(ctx, func(tx Tx) error {
		require.NoError(t, tx.Debit(ctx, "alice", decimal.NewFromInt(5)))
		g, err := tx.GetGame(ctx, game.ID)
		require.NoError(t, err)
		g.Squares[0] = &models.Square{UserID: "alice"}
		require.NoError(t, tx.SaveGame(ctx, g))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	b, err := s.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, b.Equal(decimal.NewFromInt(10)))
	g, err := s.GetGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Nil(t, g.Squares[0])
}

func TestDebitSeesPendingDeltas(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seedAccount(t, s, "alice", "10")

	err := s.Atomic(ctx, func(tx Tx) error {
		if err := tx.Debit(ctx, "alice", decimal.NewFromInt(6)); err != nil {
			return err
		}
		return tx.Debit(ctx, "alice", decimal.NewFromInt(6))
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	b, err := s.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, b.Equal(decimal.NewFromInt(10)))
}

func TestCommitRechecksBalances(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seedAccount(t, s, "alice", "10")

	// A second transaction drains the account between the first one's debit
	// and its commit
	err := s.Atomic(ctx, func(tx Tx) error {
		require.NoError(t, tx.Debit(ctx, "alice", decimal.NewFromInt(10)))
		require.NoError(t, s.Atomic(ctx, func(inner Tx) error {
			return inner.Debit(ctx, "alice", decimal.NewFromInt(10))
		}))
		return nil
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	b, err := s.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, b.IsZero())
}

func TestCreditAndDeleteInOneTx(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seedAccount(t, s, "alice", "0")
	game := seedGame(t, s, "game_1", time.Now())

	require.NoError(t, s.Atomic(ctx, func(tx Tx) error {
		if err := tx.Credit(ctx, "alice", decimal.NewFromInt(5)); err != nil {
			return err
		}
		return tx.DeleteGame(ctx, game.ID)
	}))

	_, err := s.GetGame(ctx, game.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	b, err := s.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, b.Equal(decimal.NewFromInt(5)))

	err = s.Atomic(ctx, func(tx Tx) error {
		return tx.Credit(ctx, "ghost", decimal.NewFromInt(5))
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListGamesOrderAndFilter(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2025, 2, 9, 18, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedGame(t, s, fmt.Sprintf("game_%d", i), base.Add(time.Duration(i)*time.Minute))
	}
	require.NoError(t, s.Atomic(ctx, func(tx Tx) error {
		g, err := tx.GetGame(ctx, "game_2")
		if err != nil {
			return err
		}
		g.Status = models.StatusActive
		return tx.SaveGame(ctx, g)
	}))

	games, err := s.ListGames(ctx, models.GameFilter{})
	require.NoError(t, err)
	require.Len(t, games, 5)
	assert.Equal(t, "game_4", games[0].ID)
	assert.Equal(t, "game_0", games[4].ID)

	active, err := s.ListGames(ctx, models.GameFilter{Status: models.StatusActive})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "game_2", active[0].ID)

	limited, err := s.ListGames(ctx, models.GameFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	none, err := s.ListGames(ctx, models.GameFilter{CreatorID: "someone-else"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReturnedGamesAreCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	game := seedGame(t, s, "game_1", time.Now())

	g, err := s.GetGame(ctx, game.ID)
	require.NoError(t, err)
	g.Squares[3] = &models.Square{UserID: "mallory"}
	g.QuarterScores["Q1"] = "7-0"

	again, err := s.GetGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Nil(t, again.Squares[3])
	assert.Empty(t, again.QuarterScores)
}

func TestEntriesAndPayoutsByUser(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	game := seedGame(t, s, "game_1", time.Now())

	require.NoError(t, s.Atomic(ctx, func(tx Tx) error {
		g, err := tx.GetGame(ctx, game.ID)
		if err != nil {
			return err
		}
		g.Squares[1] = &models.Square{UserID: "alice", UserName: "Alice", ClaimedAt: time.Now()}
		g.Squares[7] = &models.Square{UserID: "alice", UserName: "Alice", ClaimedAt: time.Now()}
		g.Squares[4] = &models.Square{UserID: "bob", UserName: "Bob", ClaimedAt: time.Now()}
		g.Payouts = append(g.Payouts, models.Payout{ID: "payout_1", GameID: g.ID, UserID: "alice", Quarter: "Q1", Amount: decimal.NewFromInt(10)})
		return tx.SaveGame(ctx, g)
	}))

	entries, err := s.ListEntriesByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	payouts, err := s.ListPayoutsByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, payouts, 1)
	assert.Equal(t, "Q1", payouts[0].Quarter)

	payouts, err = s.ListPayoutsByUser(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, payouts)
}
