package squares

import (
	game_constants "Squares/constants/game"
	"Squares/models"
	"Squares/services/store"
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

type JoinResult struct {
	Game         *models.Game `json:"game"`
	SquareNumber int          `json:"square_number"`
	Activated    bool         `json:"activated"`
}

type LeaveResult struct {
	Game     *models.Game    `json:"game"`
	Squares  []int           `json:"squares"`
	Refunded decimal.Decimal `json:"refunded"`
}

// Join claims squareNumber for userID and charges the entry fee. When the
// claim fills the grid the game is activated in the same transaction, so
// either all of it happens or none of it does.
func (e *Engine) Join(ctx context.Context, gameID, userID string, squareNumber int) (*JoinResult, error) {
	if squareNumber < 0 || squareNumber >= game_constants.SquareCount {
		return nil, fmt.Errorf("%w: square number must be between 0 and %d", ErrInvalidInput, game_constants.SquareCount-1)
	}

	var game *models.Game
	activated := false
	err := e.mutate(ctx, gameID, func(tx store.Tx) error {
		g, err := tx.GetGame(ctx, gameID)
		if err != nil {
			return err
		}
		if g.Status != models.StatusPending {
			return fmt.Errorf("%w: game %s is not accepting new players", ErrInvalidState, gameID)
		}
		if g.Squares[squareNumber] != nil {
			return fmt.Errorf("%w: square %d", ErrAlreadyTaken, squareNumber)
		}
		if len(g.SquaresHeldBy(userID)) >= game_constants.MaxSquaresPerUser {
			return fmt.Errorf("%w: you can only have %d squares per game", ErrLimitExceeded, game_constants.MaxSquaresPerUser)
		}

		account, err := tx.GetAccount(ctx, userID)
		if err != nil {
			return err
		}
		if g.EntryFee.IsPositive() {
			if err := tx.Debit(ctx, userID, g.EntryFee); err != nil {
				return err
			}
		}

		g.Squares[squareNumber] = &models.Square{
			EntryID:   newID("entry"),
			UserID:    userID,
			UserName:  account.Name,
			ClaimedAt: e.now(),
		}
		if g.IsFull() {
			if err := e.activate(g); err != nil {
				return err
			}
			activated = true
		}
		if err := tx.SaveGame(ctx, g); err != nil {
			return err
		}
		game = g
		return nil
	})
	if err != nil {
		e.log.Debugw("join rejected", "game_id", gameID, "user_id", userID, "square", squareNumber, "error", err)
		return nil, err
	}

	e.log.Infow("square claimed", "game_id", gameID, "user_id", userID, "square", squareNumber)
	e.committed(ctx, Event{Type: EventSquareClaimed, GameID: gameID, Game: game.Clone()})
	if activated {
		e.log.Infow("game activated", "game_id", gameID, "trigger", "grid_full")
		e.committed(ctx, Event{Type: EventGameActivated, GameID: gameID, Game: game.Clone()})
	}
	return &JoinResult{Game: game, SquareNumber: squareNumber, Activated: activated}, nil
}

// Leave frees every square userID holds in a pending game and refunds them
func (e *Engine) Leave(ctx context.Context, gameID, userID string) (*LeaveResult, error) {
	var result *LeaveResult
	err := e.mutate(ctx, gameID, func(tx store.Tx) error {
		g, err := tx.GetGame(ctx, gameID)
		if err != nil {
			return err
		}
		if g.Status != models.StatusPending {
			return fmt.Errorf("%w: cannot leave a game after it has started", ErrInvalidState)
		}
		held := g.SquaresHeldBy(userID)
		if len(held) == 0 {
			return fmt.Errorf("%w: you have no squares in game %s", ErrNothingToLeave, gameID)
		}

		refund := g.EntryFee.Mul(decimal.NewFromInt(int64(len(held))))
		if refund.IsPositive() {
			if err := tx.Credit(ctx, userID, refund); err != nil {
				return err
			}
		}
		for _, i := range held {
			g.Squares[i] = nil
		}
		if err := tx.SaveGame(ctx, g); err != nil {
			return err
		}
		result = &LeaveResult{Game: g, Squares: held, Refunded: refund}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Infow("squares released", "game_id", gameID, "user_id", userID, "squares", result.Squares)
	e.committed(ctx, Event{Type: EventSquaresReleased, GameID: gameID, Game: result.Game.Clone()})
	return result, nil
}
