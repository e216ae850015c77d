package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/agro_shop/internal/models"
)

func (r *GormRepo) GetCartItems(ctx context.Context, userID uint) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0)
	db, ok := r.conn(ctx, "get_cart_items")
	if !ok {
		return items, nil
	}
	if err := db.Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, fail(ctx, "get_cart_items", err)
	}
	return items, nil
}

// AddToCart increments the (user, product) row or creates it. A concurrent
// insert of the same pair surfaces as a duplicate key and is retried once
// as an increment.
func (r *GormRepo) AddToCart(ctx context.Context, userID, productID uint, quantity int) (*models.CartItem, error) {
	db, ok := r.conn(ctx, "add_to_cart")
	if !ok {
		return nil, ErrUnavailable
	}

	var (
		item models.CartItem
		err  error
	)
	for attempt := 0; attempt < 2; attempt++ {
		item = models.CartItem{}
		err = db.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.CartItem{}).
				Where("user_id = ? AND product_id = ?", userID, productID).
				Update("quantity", gorm.Expr("quantity + ?", quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				return tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
			}

			item = models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
			return tx.Create(&item).Error
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if err != nil {
		return nil, fail(ctx, "add_to_cart", err)
	}
	return &item, nil
}

func (r *GormRepo) RemoveFromCart(ctx context.Context, userID, itemID uint) error {
	db, ok := r.conn(ctx, "remove_from_cart")
	if !ok {
		return ErrUnavailable
	}
	res := db.Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.CartItem{})
	if res.Error != nil {
		return fail(ctx, "remove_from_cart", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) UpdateCartItemQuantity(ctx context.Context, userID, itemID uint, quantity int) (*models.CartItem, error) {
	db, ok := r.conn(ctx, "update_cart_item_quantity")
	if !ok {
		return nil, ErrUnavailable
	}

	var item models.CartItem
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("id = ? AND user_id = ?", itemID, userID).
			Update("quantity", quantity)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&item, itemID).Error
	})
	if err != nil {
		return nil, fail(ctx, "update_cart_item_quantity", err)
	}
	return &item, nil
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uint) error {
	db, ok := r.conn(ctx, "clear_cart")
	if !ok {
		return ErrUnavailable
	}
	if err := clearCart(db, userID); err != nil {
		return fail(ctx, "clear_cart", err)
	}
	return nil
}

func clearCart(tx *gorm.DB, userID uint) error {
	return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
