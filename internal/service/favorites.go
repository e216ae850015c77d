package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/agro_shop/internal/models"
	"github.com/Skotchmaster/agro_shop/internal/mykafka"
	"github.com/Skotchmaster/agro_shop/internal/repo"
)

type FavoriteService struct {
	Repo   *repo.GormRepo
	Events mykafka.Publisher
}

func (s *FavoriteService) List(ctx context.Context, userID uint) ([]models.Favorite, error) {
	return s.Repo.GetFavorites(ctx, userID)
}

func (s *FavoriteService) Add(ctx context.Context, userID, productID uint) (*models.Favorite, error) {
	if productID == 0 {
		return nil, fmt.Errorf("product id is required: %w", ErrValidation)
	}
	if err := ensureProduct(ctx, s.Repo, productID); err != nil {
		return nil, err
	}
	fav, err := s.Repo.AddToFavorites(ctx, userID, productID)
	if err != nil {
		return nil, translate(err)
	}
	publish(ctx, s.Events, mykafka.TopicFavoriteEvents, userKey(userID), map[string]any{
		"type":      "favorite_added",
		"userID":    userID,
		"productID": productID,
	})
	return fav, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID, productID uint) error {
	if err := s.Repo.RemoveFromFavorites(ctx, userID, productID); err != nil {
		return translate(err)
	}
	publish(ctx, s.Events, mykafka.TopicFavoriteEvents, userKey(userID), map[string]any{
		"type":      "favorite_removed",
		"userID":    userID,
		"productID": productID,
	})
	return nil
}
