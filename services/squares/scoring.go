package squares

import (
	game_constants "Squares/constants/game"
	"Squares/models"
	"Squares/services/store"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var scorePattern = regexp.MustCompile(`^(\d+)-(\d+)$`)

// ScoreResult is what a recorded quarter produced. WinnerUserID is empty and
// PayoutAmount zero when the winning square was never claimed.
type ScoreResult struct {
	GameID        string            `json:"game_id"`
	Quarter       string            `json:"quarter"`
	Score         string            `json:"score"`
	WinningNumber int               `json:"winning_number"`
	WinningSquare int               `json:"winning_square"`
	WinnerUserID  string            `json:"winner_user_id,omitempty"`
	WinnerName    string            `json:"winner_name,omitempty"`
	PayoutAmount  decimal.Decimal   `json:"payout_amount"`
	Status        models.GameStatus `json:"status"`
}

// Score is a parsed "team1-team2" result. Team scores stay digit strings:
// only their last digits decide a quarter, so any length is accepted.
type Score struct {
	Team1 string
	Team2 string
}

// String is the normalized form, without leading zeros
func (s Score) String() string {
	return s.Team1 + "-" + s.Team2
}

func (s Score) WinningDigit() int {
	return WinningDigit(lastDigit(s.Team1), lastDigit(s.Team2))
}

// ParseScore splits "21-17" into its two team scores
func ParseScore(score string) (Score, error) {
	m := scorePattern.FindStringSubmatch(strings.TrimSpace(score))
	if m == nil {
		return Score{}, fmt.Errorf("%w: score %q must look like 21-17", ErrInvalidInput, score)
	}
	return Score{Team1: trimZeros(m[1]), Team2: trimZeros(m[2])}, nil
}

func trimZeros(digits string) string {
	if t := strings.TrimLeft(digits, "0"); t != "" {
		return t
	}
	return "0"
}

func lastDigit(digits string) int {
	return int(digits[len(digits)-1] - '0')
}

// WinningDigit is the last digit of the sum of both teams' last digits
func WinningDigit(team1, team2 int) int {
	return (team1%10 + team2%10) % 10
}

// PayoutAmount is the quarter's share of the pot, never rounded up
func PayoutAmount(pot decimal.Decimal, quarter string) decimal.Decimal {
	percent, ok := game_constants.PayoutPercent[quarter]
	if !ok {
		return decimal.Zero
	}
	return pot.Mul(decimal.NewFromInt(percent)).Div(decimal.NewFromInt(100)).RoundDown(2)
}

func validQuarter(quarter string) bool {
	for _, q := range game_constants.Quarters {
		if q == quarter {
			return true
		}
	}
	return false
}

// RecordScore enters the score of a quarter, pays the holder of the winning
// square and completes the game after the last quarter.
func (e *Engine) RecordScore(ctx context.Context, gameID, requesterID, quarter, score string) (*ScoreResult, error) {
	var result *ScoreResult
	var game *models.Game
	completed := false

	err := e.mutate(ctx, gameID, func(tx store.Tx) error {
		g, err := tx.GetGame(ctx, gameID)
		if err != nil {
			return err
		}
		if g.CreatorID != requesterID {
			return fmt.Errorf("%w: only the game creator can update scores", ErrForbidden)
		}
		if g.Status != models.StatusActive {
			return fmt.Errorf("%w: game %s is not active", ErrInvalidState, gameID)
		}
		if !validQuarter(quarter) {
			return fmt.Errorf("%w: quarter must be one of %s", ErrInvalidInput, strings.Join(game_constants.Quarters, ", "))
		}
		parsed, err := ParseScore(score)
		if err != nil {
			return err
		}
		if _, ok := g.QuarterScores[quarter]; ok {
			return fmt.Errorf("%w: %s was already scored", ErrAlreadyScored, quarter)
		}

		digit := parsed.WinningDigit()
		square := g.SquareForDigit(digit)
		if square < 0 {
			return fmt.Errorf("%w: game %s has no square for digit %d", ErrInvalidState, gameID, digit)
		}

		normalized := parsed.String()
		g.QuarterScores[quarter] = normalized
		res := &ScoreResult{
			GameID:        gameID,
			Quarter:       quarter,
			Score:         normalized,
			WinningNumber: digit,
			WinningSquare: square,
			PayoutAmount:  decimal.Zero,
		}

		// Unclaimed winning square: the share is forfeited
		if holder := g.Squares[square]; holder != nil {
			amount := PayoutAmount(g.Pot(), quarter)
			if g.TotalPaidOut().Add(amount).GreaterThan(g.Pot()) {
				return fmt.Errorf("%w: payouts would exceed the pot", ErrInvalidState)
			}
			if amount.IsPositive() {
				if err := tx.Credit(ctx, holder.UserID, amount); err != nil {
					return err
				}
			}
			g.Winners[quarter] = holder.UserID
			g.Payouts = append(g.Payouts, models.Payout{
				ID:        newID("payout"),
				GameID:    gameID,
				UserID:    holder.UserID,
				Quarter:   quarter,
				Amount:    amount,
				CreatedAt: e.now(),
			})
			res.WinnerUserID = holder.UserID
			res.WinnerName = holder.UserName
			res.PayoutAmount = amount
		}

		completed = completeIfScored(g)
		res.Status = g.Status
		if err := tx.SaveGame(ctx, g); err != nil {
			return err
		}
		result = res
		game = g
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Infow("quarter scored",
		"game_id", gameID,
		"quarter", quarter,
		"score", result.Score,
		"winning_number", result.WinningNumber,
		"winner_user_id", result.WinnerUserID,
		"payout", result.PayoutAmount.String(),
	)
	e.committed(ctx, Event{Type: EventQuarterScored, GameID: gameID, Game: game.Clone(), Score: result})
	if completed {
		e.log.Infow("game completed", "game_id", gameID, "paid_out", game.TotalPaidOut().String())
		e.committed(ctx, Event{Type: EventGameCompleted, GameID: gameID, Game: game.Clone()})
	}
	return result, nil
}
