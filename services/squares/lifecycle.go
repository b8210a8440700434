package squares

import (
	game_constants "Squares/constants/game"
	"Squares/models"
	"Squares/services/store"
	"context"
	"fmt"
)

// Start activates a pending game before its grid is full. Only the creator
// may do it; squares nobody claimed forfeit their quarters.
func (e *Engine) Start(ctx context.Context, gameID, requesterID string) (*models.Game, error) {
	var game *models.Game
	err := e.mutate(ctx, gameID, func(tx store.Tx) error {
		g, err := tx.GetGame(ctx, gameID)
		if err != nil {
			return err
		}
		if g.CreatorID != requesterID {
			return fmt.Errorf("%w: only the game creator can start the game", ErrForbidden)
		}
		if g.Status != models.StatusPending {
			return fmt.Errorf("%w: game %s has already started", ErrInvalidState, gameID)
		}
		if g.ClaimedCount() == 0 {
			return fmt.Errorf("%w: no squares have been claimed", ErrInvalidState)
		}
		if err := e.activate(g); err != nil {
			return err
		}
		if err := tx.SaveGame(ctx, g); err != nil {
			return err
		}
		game = g
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Infow("game activated", "game_id", gameID, "trigger", "creator", "claimed", game.ClaimedCount())
	e.committed(ctx, Event{Type: EventGameActivated, GameID: gameID, Game: game.Clone()})
	return game, nil
}

// activate assigns the digits and moves the game to active. On any failure
// the game is left untouched.
func (e *Engine) activate(g *models.Game) error {
	if g.Status != models.StatusPending {
		return fmt.Errorf("%w: game %s is %s", ErrInvalidState, g.ID, g.Status)
	}
	digits, err := e.random.Permutation()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRandomness, err)
	}
	if err := checkPermutation(digits); err != nil {
		return fmt.Errorf("%w: %v", ErrRandomness, err)
	}
	for i, d := range digits {
		digit := d
		g.RandomNumbers[i] = &digit
	}
	g.Status = models.StatusActive
	return nil
}

// completeIfScored ends the game once every quarter has a score
func completeIfScored(g *models.Game) bool {
	for _, q := range game_constants.Quarters {
		if _, ok := g.QuarterScores[q]; !ok {
			return false
		}
	}
	g.Status = models.StatusCompleted
	return true
}
