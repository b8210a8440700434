package store

import (
	game_constants "Squares/constants/game"
	"Squares/models"
	pgmodels "Squares/models/postgres"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

func fromGame(g *models.Game) (pgmodels.Game, error) {
	numbers, err := json.Marshal(g.RandomNumbers)
	if err != nil {
		return pgmodels.Game{}, fmt.Errorf("error marshaling random numbers: %w", err)
	}
	scores, err := json.Marshal(g.QuarterScores)
	if err != nil {
		return pgmodels.Game{}, fmt.Errorf("error marshaling quarter scores: %w", err)
	}
	winners, err := json.Marshal(g.Winners)
	if err != nil {
		return pgmodels.Game{}, fmt.Errorf("error marshaling winners: %w", err)
	}

	record := pgmodels.Game{
		ID:            g.ID,
		CreatorID:     g.CreatorID,
		EventName:     g.EventName,
		EntryFee:      g.EntryFee,
		Status:        string(g.Status),
		RandomNumbers: datatypes.JSON(numbers),
		QuarterScores: datatypes.JSON(scores),
		Winners:       datatypes.JSON(winners),
		CreatedAt:     g.CreatedAt,
	}
	for _, e := range g.Entries() {
		record.Entries = append(record.Entries, pgmodels.GameEntry{
			ID:           e.ID,
			GameID:       g.ID,
			SquareNumber: e.SquareNumber,
			UserID:       e.UserID,
			UserName:     e.UserName,
			PaidAmount:   e.PaidAmount,
			CreatedAt:    e.CreatedAt,
		})
	}
	for _, p := range g.Payouts {
		record.Payouts = append(record.Payouts, pgmodels.Payout{
			ID:        p.ID,
			GameID:    g.ID,
			UserID:    p.UserID,
			Quarter:   p.Quarter,
			Amount:    p.Amount,
			CreatedAt: p.CreatedAt,
		})
	}
	return record, nil
}

func toGame(record *pgmodels.Game, entries []pgmodels.GameEntry, payouts []pgmodels.Payout) (*models.Game, error) {
	g := models.NewGame(record.ID, record.CreatorID, record.EventName, record.EntryFee, record.CreatedAt)
	g.Status = models.GameStatus(record.Status)

	if len(record.RandomNumbers) > 0 {
		if err := json.Unmarshal(record.RandomNumbers, &g.RandomNumbers); err != nil {
			return nil, fmt.Errorf("error unmarshaling random numbers: %w", err)
		}
	}
	if len(record.QuarterScores) > 0 {
		if err := json.Unmarshal(record.QuarterScores, &g.QuarterScores); err != nil {
			return nil, fmt.Errorf("error unmarshaling quarter scores: %w", err)
		}
	}
	if len(record.Winners) > 0 {
		if err := json.Unmarshal(record.Winners, &g.Winners); err != nil {
			return nil, fmt.Errorf("error unmarshaling winners: %w", err)
		}
	}

	if g.QuarterScores == nil {
		g.QuarterScores = map[string]string{}
	}
	if g.Winners == nil {
		g.Winners = map[string]string{}
	}

	for _, e := range entries {
		if e.SquareNumber < 0 || e.SquareNumber >= game_constants.SquareCount {
			return nil, fmt.Errorf("game %s has entry for square %d", record.ID, e.SquareNumber)
		}
		g.Squares[e.SquareNumber] = &models.Square{
			EntryID:   e.ID,
			UserID:    e.UserID,
			UserName:  e.UserName,
			ClaimedAt: e.CreatedAt,
		}
	}
	for _, p := range payouts {
		g.Payouts = append(g.Payouts, toPayout(p))
	}
	return g, nil
}

func toEntry(r pgmodels.GameEntry) models.Entry {
	return models.Entry{
		ID:           r.ID,
		GameID:       r.GameID,
		UserID:       r.UserID,
		UserName:     r.UserName,
		SquareNumber: r.SquareNumber,
		PaidAmount:   r.PaidAmount,
		CreatedAt:    r.CreatedAt,
	}
}

func toPayout(r pgmodels.Payout) models.Payout {
	return models.Payout{
		ID:        r.ID,
		GameID:    r.GameID,
		UserID:    r.UserID,
		Quarter:   r.Quarter,
		Amount:    r.Amount,
		CreatedAt: r.CreatedAt,
	}
}

func fromAccount(a *models.Account) pgmodels.Account {
	return pgmodels.Account{
		UserID:       a.UserID,
		Email:        a.Email,
		Name:         a.Name,
		PasswordHash: a.PasswordHash,
		MockBalance:  a.MockBalance,
		CreatedAt:    a.CreatedAt,
	}
}

func toAccount(r pgmodels.Account) *models.Account {
	return &models.Account{
		UserID:       r.UserID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		MockBalance:  r.MockBalance,
		CreatedAt:    r.CreatedAt,
	}
}
