package models

import (
	game_constants "Squares/constants/game"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type GameStatus string

const (
	StatusPending   GameStatus = game_constants.STATUS_PENDING
	StatusActive    GameStatus = game_constants.STATUS_ACTIVE
	StatusCompleted GameStatus = game_constants.STATUS_COMPLETED
)

// Square is a claimed slot of the grid
type Square struct {
	EntryID   string    `json:"entry_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	ClaimedAt time.Time `json:"claimed_at"`
}

// Game represents a squares pool tied to a sporting event.
// Squares and RandomNumbers are indexed by square number; a nil slot is empty/unassigned.
type Game struct {
	ID            string                              `json:"game_id"`
	CreatorID     string                              `json:"creator_id"`
	EventName     string                              `json:"event_name"`
	EntryFee      decimal.Decimal                     `json:"entry_fee"`
	Status        GameStatus                          `json:"status"`
	Squares       [game_constants.SquareCount]*Square `json:"squares"`
	RandomNumbers [game_constants.SquareCount]*int    `json:"random_numbers"`
	QuarterScores map[string]string                   `json:"quarter_scores"`
	Winners       map[string]string                   `json:"winners"`
	Payouts       []Payout                            `json:"payouts"`
	CreatedAt     time.Time                           `json:"created_at"`
}

// NewGame returns a pending game with an empty grid
func NewGame(id, creatorID, eventName string, entryFee decimal.Decimal, createdAt time.Time) *Game {
	return &Game{
		ID:            id,
		CreatorID:     creatorID,
		EventName:     eventName,
		EntryFee:      entryFee,
		Status:        StatusPending,
		QuarterScores: map[string]string{},
		Winners:       map[string]string{},
		Payouts:       []Payout{},
		CreatedAt:     createdAt,
	}
}

// Pot is the total money at stake: entry fee times the number of squares
func (g *Game) Pot() decimal.Decimal {
	return g.EntryFee.Mul(decimal.NewFromInt(game_constants.SquareCount))
}

// SquaresHeldBy returns the square numbers claimed by userID, ascending
func (g *Game) SquaresHeldBy(userID string) []int {
	held := []int{}
	for i, sq := range g.Squares {
		if sq != nil && sq.UserID == userID {
			held = append(held, i)
		}
	}
	return held
}

func (g *Game) ClaimedCount() int {
	n := 0
	for _, sq := range g.Squares {
		if sq != nil {
			n++
		}
	}
	return n
}

func (g *Game) IsFull() bool {
	return g.ClaimedCount() == game_constants.SquareCount
}

// HasNumbers reports whether every square has been assigned a digit
func (g *Game) HasNumbers() bool {
	for _, n := range g.RandomNumbers {
		if n == nil {
			return false
		}
	}
	return true
}

// SquareForDigit returns the index whose assigned digit is digit, or -1
func (g *Game) SquareForDigit(digit int) int {
	for i, n := range g.RandomNumbers {
		if n != nil && *n == digit {
			return i
		}
	}
	return -1
}

func (g *Game) TotalPaidOut() decimal.Decimal {
	total := decimal.Zero
	for _, p := range g.Payouts {
		total = total.Add(p.Amount)
	}
	return total
}

// Entries is the derived view of the claimed squares
func (g *Game) Entries() []Entry {
	entries := []Entry{}
	for i, sq := range g.Squares {
		if sq == nil {
			continue
		}
		entries = append(entries, Entry{
			ID:           sq.EntryID,
			GameID:       g.ID,
			UserID:       sq.UserID,
			UserName:     sq.UserName,
			SquareNumber: i,
			PaidAmount:   g.EntryFee,
			CreatedAt:    sq.ClaimedAt,
		})
	}
	return entries
}

// EntriesFor filters Entries down to a single user
func (g *Game) EntriesFor(userID string) []Entry {
	entries := []Entry{}
	for _, e := range g.Entries() {
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	return entries
}

type gameFields Game

// MarshalJSON renders the stored fields plus the derived entries
func (g Game) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		gameFields
		Entries []Entry `json:"entries"`
	}{gameFields(g), g.Entries()})
}

// Clone returns a deep copy, so callers can mutate without touching shared state
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	c := *g
	for i, sq := range g.Squares {
		if sq != nil {
			s := *sq
			c.Squares[i] = &s
		}
	}
	for i, n := range g.RandomNumbers {
		if n != nil {
			v := *n
			c.RandomNumbers[i] = &v
		}
	}
	c.QuarterScores = make(map[string]string, len(g.QuarterScores))
	for k, v := range g.QuarterScores {
		c.QuarterScores[k] = v
	}
	c.Winners = make(map[string]string, len(g.Winners))
	for k, v := range g.Winners {
		c.Winners[k] = v
	}
	c.Payouts = append([]Payout{}, g.Payouts...)
	return &c
}

// Entry is a single claimed square, seen from the participant's side
type Entry struct {
	ID           string          `json:"entry_id"`
	GameID       string          `json:"game_id"`
	UserID       string          `json:"user_id"`
	UserName     string          `json:"user_name"`
	SquareNumber int             `json:"square_number"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Payout is a disbursement from the pot to a winning square's holder
type Payout struct {
	ID        string          `json:"payout_id"`
	GameID    string          `json:"game_id"`
	UserID    string          `json:"user_id"`
	Quarter   string          `json:"quarter"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// GameFilter narrows a game listing. Empty fields match everything.
type GameFilter struct {
	Status    GameStatus
	CreatorID string
	Limit     int
}

// GameCreation to create a new game
type GameCreation struct {
	EventName string          `json:"event_name" binding:"required"`
	EntryFee  decimal.Decimal `json:"entry_fee"`
}

// SquareSelection to claim a square
type SquareSelection struct {
	SquareNumber *int `json:"square_number" binding:"required"`
}

// ScoreSubmission records the score at the end of a quarter, e.g. {"quarter": "Q1", "score": "21-17"}
type ScoreSubmission struct {
	Quarter string `json:"quarter" binding:"required"`
	Score   string `json:"score" binding:"required"`
}
