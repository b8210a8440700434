package store

import (
	"Squares/models"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameMapping(t *testing.T) {
	now := time.Date(2025, 2, 9, 18, 30, 0, 0, time.UTC)
	g := models.NewGame("game_1", "creator", "Super Bowl", decimal.RequireFromString("2.50"), now)
	g.Status = models.StatusActive
	g.Squares[3] = &models.Square{EntryID: "entry_a", UserID: "alice", UserName: "Alice", ClaimedAt: now}
	g.Squares[9] = &models.Square{EntryID: "entry_b", UserID: "bob", UserName: "Bob", ClaimedAt: now}
	for i := range g.RandomNumbers {
		d := 9 - i
		g.RandomNumbers[i] = &d
	}
	g.QuarterScores["Q1"] = "21-17"
	g.Winners["Q1"] = "bob"
	g.Payouts = append(g.Payouts, models.Payout{ID: "payout_1", GameID: g.ID, UserID: "bob", Quarter: "Q1", Amount: decimal.RequireFromString("5.00"), CreatedAt: now})

	record, err := fromGame(g)
	require.NoError(t, err)
	require.Len(t, record.Entries, 2)
	assert.Equal(t, 3, record.Entries[0].SquareNumber)
	assert.Equal(t, "entry_a", record.Entries[0].ID)
	assert.True(t, record.Entries[0].PaidAmount.Equal(g.EntryFee))

	back, err := toGame(&record, record.Entries, record.Payouts)
	require.NoError(t, err)
	assert.Equal(t, g.Squares, back.Squares)
	assert.Equal(t, g.RandomNumbers, back.RandomNumbers)
	assert.Equal(t, g.QuarterScores, back.QuarterScores)
	assert.Equal(t, g.Winners, back.Winners)
	assert.Equal(t, models.StatusActive, back.Status)
	require.Len(t, back.Payouts, 1)
	assert.Equal(t, 8, back.SquareForDigit(1))
}

func TestGameMappingPendingGame(t *testing.T) {
	g := models.NewGame("game_2", "creator", "Final", decimal.Zero, time.Now())
	record, err := fromGame(g)
	require.NoError(t, err)

	// null json columns still come back as usable maps
	record.QuarterScores = []byte("null")
	record.Winners = nil
	back, err := toGame(&record, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, back.QuarterScores)
	assert.NotNil(t, back.Winners)
	assert.False(t, back.HasNumbers())
	assert.Equal(t, 0, back.ClaimedCount())
}
