package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Skotchmaster/agro_shop/internal/models"
	"github.com/Skotchmaster/agro_shop/internal/mykafka"
	"github.com/Skotchmaster/agro_shop/internal/repo"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events mykafka.Publisher
}

func (s *CartService) List(ctx context.Context, userID uint) ([]models.CartItem, error) {
	return s.Repo.GetCartItems(ctx, userID)
}

func (s *CartService) Add(ctx context.Context, userID, productID uint, quantity int) (*models.CartItem, error) {
	if productID == 0 {
		return nil, fmt.Errorf("product id is required: %w", ErrValidation)
	}
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}
	if err := ensureProduct(ctx, s.Repo, productID); err != nil {
		return nil, err
	}

	item, err := s.Repo.AddToCart(ctx, userID, productID, quantity)
	if err != nil {
		return nil, translate(err)
	}

	publish(ctx, s.Events, mykafka.TopicCartEvents, userKey(userID), map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": productID,
		"quantity":  quantity,
		"total":     item.Quantity,
	})
	return item, nil
}

func (s *CartService) Remove(ctx context.Context, userID, itemID uint) error {
	if err := s.Repo.RemoveFromCart(ctx, userID, itemID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("cart item %d not found: %w", itemID, ErrNotFound)
		}
		return translate(err)
	}
	publish(ctx, s.Events, mykafka.TopicCartEvents, userKey(userID), map[string]any{
		"type":   "cart_item_removed",
		"userID": userID,
		"itemID": itemID,
	})
	return nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID uint, quantity int) (*models.CartItem, error) {
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}
	item, err := s.Repo.UpdateCartItemQuantity(ctx, userID, itemID, quantity)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("cart item %d not found: %w", itemID, ErrNotFound)
		}
		return nil, translate(err)
	}
	publish(ctx, s.Events, mykafka.TopicCartEvents, userKey(userID), map[string]any{
		"type":     "cart_item_updated",
		"userID":   userID,
		"itemID":   itemID,
		"quantity": quantity,
	})
	return item, nil
}

func ensureProduct(ctx context.Context, r *repo.GormRepo, productID uint) error {
	if !r.Available() {
		return ErrUnavailable
	}
	if _, err := r.GetProductByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("product %d not found: %w", productID, ErrNotFound)
		}
		return err
	}
	return nil
}

func userKey(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}
