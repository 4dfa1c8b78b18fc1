package bgg

import (
	"context"
	"errors"
	"fmt"

	"boardcafe/web/internal/models"
	"boardcafe/web/internal/repositories"

	"go.uber.org/zap"
)

var (
	ErrGameNotFoundOnBGG = errors.New("game not found on BGG")
	ErrAlreadyInCatalog  = errors.New("game already in catalog")
)

// Importer pulls a game from BGG into the local catalog.
type Importer struct {
	Client *Client
	Games  *repositories.GameRepository
	Logger *zap.Logger
}

// ImportByName looks a title up with exact matching, fetches its
// details, and inserts it unless the catalog already has it.
func (i *Importer) ImportByName(ctx context.Context, name string) (*models.BoardGame, error) {
	results, err := i.Client.Search(ctx, name, true)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", name, err)
	}
	if len(results) == 0 {
		return nil, ErrGameNotFoundOnBGG
	}
	return i.ImportByID(ctx, results[0].ID)
}

// ImportByID fetches one BGG id and inserts it unless already present.
func (i *Importer) ImportByID(ctx context.Context, bggID string) (*models.BoardGame, error) {
	if existing, err := i.Games.GetGameByBGGID(bggID); err == nil {
		i.Logger.Info("game already in catalog", zap.String("bggId", bggID), zap.String("name", existing.Name))
		return existing, ErrAlreadyInCatalog
	} else if !errors.Is(err, repositories.ErrGameNotFound) {
		return nil, err
	}

	details, err := i.Client.Thing(ctx, bggID)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", bggID, err)
	}

	game := details.ToModel()
	if err := i.Games.CreateGame(game); err != nil {
		return nil, fmt.Errorf("inserting %s: %w", details.Name, err)
	}
	i.Logger.Info("imported game from BGG", zap.String("bggId", bggID), zap.String("name", game.Name))
	return game, nil
}
