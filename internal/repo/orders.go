package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/agro_shop/internal/models"
)

func (r *GormRepo) GetUserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	db, ok := r.conn(ctx, "get_user_orders")
	if !ok {
		return orders, nil
	}
	if err := db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, fail(ctx, "get_user_orders", err)
	}
	return orders, nil
}

func (r *GormRepo) GetOrderByID(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	db, ok := r.conn(ctx, "get_order_by_id")
	if !ok {
		return nil, ErrNotFound
	}
	var order models.Order
	if err := db.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
		return nil, fail(ctx, "get_order_by_id", err)
	}
	return &order, nil
}

// GetOrderItems returns the items of an order owned by userID. Orders of
// other users look like orders without items.
func (r *GormRepo) GetOrderItems(ctx context.Context, userID, orderID uint) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0)
	db, ok := r.conn(ctx, "get_order_items")
	if !ok {
		return items, nil
	}
	owned := db.Model(&models.Order{}).Select("id").Where("id = ? AND user_id = ?", orderID, userID)
	err := db.Where("order_id = ? AND order_id IN (?)", orderID, owned).Order("id ASC").Find(&items).Error
	if err != nil {
		return nil, fail(ctx, "get_order_items", err)
	}
	return items, nil
}

// CreateOrder writes the order and its items in one transaction. On
// success order.ID, order.Items and every item's OrderID are filled in.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	return r.createOrder(ctx, "create_order", order, items, false)
}

// CreateOrderFromCart is CreateOrder that also empties the buyer's cart in
// the same transaction.
func (r *GormRepo) CreateOrderFromCart(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	return r.createOrder(ctx, "create_order_from_cart", order, items, true)
}

func (r *GormRepo) createOrder(ctx context.Context, op string, order *models.Order, items []models.OrderItem, emptyCart bool) error {
	db, ok := r.conn(ctx, op)
	if !ok {
		return ErrUnavailable
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if err := insertOrderItems(tx, order.ID, items); err != nil {
			return err
		}
		if emptyCart {
			if err := clearCart(tx, order.UserID); err != nil {
				return fmt.Errorf("clear cart: %w", err)
			}
		}
		order.Items = items
		return nil
	})
	if err != nil {
		return fail(ctx, op, err)
	}
	return nil
}

func (r *GormRepo) CreateOrderItems(ctx context.Context, orderID uint, items []models.OrderItem) error {
	db, ok := r.conn(ctx, "create_order_items")
	if !ok {
		return ErrUnavailable
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		return insertOrderItems(tx, orderID, items)
	})
	if err != nil {
		return fail(ctx, "create_order_items", err)
	}
	return nil
}

func insertOrderItems(tx *gorm.DB, orderID uint, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}
