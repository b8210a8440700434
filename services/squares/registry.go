package squares

import (
	"Squares/models"
	"Squares/services/store"
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DeleteResult reports the refunds made when a pending game is removed
type DeleteResult struct {
	GameID          string          `json:"game_id"`
	RefundedEntries int             `json:"refunded_entries"`
	Refunded        decimal.Decimal `json:"refunded"`
}

// Create opens a pending game owned by creatorID
func (e *Engine) Create(ctx context.Context, creatorID, eventName string, entryFee decimal.Decimal) (*models.Game, error) {
	name := strings.TrimSpace(eventName)
	if creatorID == "" {
		return nil, fmt.Errorf("%w: creator is required", ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: event name is required", ErrInvalidInput)
	}
	if entryFee.IsNegative() {
		return nil, fmt.Errorf("%w: entry fee can't be negative", ErrInvalidInput)
	}
	if !entryFee.Equal(entryFee.Round(2)) {
		return nil, fmt.Errorf("%w: entry fee has more than 2 decimals", ErrInvalidInput)
	}

	game := models.NewGame(newID("game"), creatorID, name, entryFee, e.now())
	err := e.store.Atomic(ctx, func(tx store.Tx) error {
		return tx.CreateGame(ctx, game)
	})
	if err != nil {
		return nil, translate(err)
	}

	e.log.Infow("game created", "game_id", game.ID, "creator_id", creatorID, "entry_fee", entryFee.String())
	e.committed(ctx, Event{Type: EventGameCreated, GameID: game.ID, Game: game.Clone()})
	return game, nil
}

// Get returns a game, from the cache when possible. A miss is filled under
// the game lock, so a snapshot read before a commit can't land after it.
func (e *Engine) Get(ctx context.Context, gameID string) (*models.Game, error) {
	if e.cache == nil {
		game, err := e.store.GetGame(ctx, gameID)
		if err != nil {
			return nil, translate(err)
		}
		return game, nil
	}
	if game, ok := e.cache.LoadGame(ctx, gameID); ok {
		return game, nil
	}

	unlock, err := e.locks.Lock(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("error locking game %s: %w", gameID, err)
	}
	defer unlock()

	if game, ok := e.cache.LoadGame(ctx, gameID); ok {
		return game, nil
	}
	game, err := e.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, translate(err)
	}
	e.cache.StoreGame(ctx, game.Clone())
	return game, nil
}

// List returns the newest games matching filter
func (e *Engine) List(ctx context.Context, filter models.GameFilter) ([]*models.Game, error) {
	games, err := e.store.ListGames(ctx, filter)
	if err != nil {
		return nil, translate(err)
	}
	return games, nil
}

// Delete removes a pending game, refunding every claimed square to its holder
func (e *Engine) Delete(ctx context.Context, gameID, requesterID string) (*DeleteResult, error) {
	result := &DeleteResult{GameID: gameID, Refunded: decimal.Zero}

	err := e.mutate(ctx, gameID, func(tx store.Tx) error {
		game, err := tx.GetGame(ctx, gameID)
		if err != nil {
			return err
		}
		if game.CreatorID != requesterID {
			return fmt.Errorf("%w: only the game creator can delete the game", ErrForbidden)
		}
		if game.Status != models.StatusPending {
			return fmt.Errorf("%w: game %s is %s, only pending games can be deleted", ErrInvalidState, gameID, game.Status)
		}

		for _, entry := range game.Entries() {
			if game.EntryFee.IsPositive() {
				if err := tx.Credit(ctx, entry.UserID, game.EntryFee); err != nil {
					return err
				}
			}
			result.RefundedEntries++
			result.Refunded = result.Refunded.Add(game.EntryFee)
		}
		return tx.DeleteGame(ctx, gameID)
	})
	if err != nil {
		return nil, err
	}

	e.log.Infow("game deleted", "game_id", gameID, "refunded_entries", result.RefundedEntries)
	e.committed(ctx, Event{Type: EventGameDeleted, GameID: gameID})
	return result, nil
}
