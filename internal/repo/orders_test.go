package repo

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/agro_shop/internal/models"
)

func newOrder(userID uint, number string) *models.Order {
	return &models.Order{
		UserID:        userID,
		OrderNumber:   number,
		Status:        models.OrderStatusPending,
		Subtotal:      models.MustMoney("201.00"),
		ShippingCost:  models.MustMoney("0"),
		Tax:           models.MustMoney("0"),
		Total:         models.MustMoney("201.00"),
		PaymentStatus: models.PaymentStatusPending,
	}
}

func orderItem(p *models.Product, qty int) models.OrderItem {
	return models.OrderItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    qty,
		UnitPrice:   p.Price,
		Subtotal:    models.NewMoney(p.Price.Mul(decimal.NewFromInt(int64(qty)))),
	}
}

func TestCreateOrderWritesOrderAndItems(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	u := seedUser(t, r, "u-1")
	p := seedProduct(t, r, "P1", "", "c")

	order := newOrder(u.ID, "ORD-1")
	require.NoError(t, r.CreateOrder(ctx, order, []models.OrderItem{orderItem(p, 2)}))
	require.NotZero(t, order.ID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, order.ID, order.Items[0].OrderID)

	items, err := r.GetOrderItems(ctx, u.ID, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "P1", items[0].ProductName)
	assert.True(t, decimal.RequireFromString("201").Equal(items[0].Subtotal.Decimal))
}

func TestCreateOrderRollsBackWhenItemsFail(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	u := seedUser(t, r, "u-1")
	p := seedProduct(t, r, "P1", "", "c")

	bad := orderItem(p, 0)
	err := r.CreateOrder(ctx, newOrder(u.ID, "ORD-BAD"), []models.OrderItem{orderItem(p, 1), bad})
	require.Error(t, err)

	var orders, items int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Count(&items).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestCreateOrderFromCartEmptiesCart(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	u := seedUser(t, r, "u-1")
	other := seedUser(t, r, "u-2")
	p := seedProduct(t, r, "P1", "", "c")
	_, err := r.AddToCart(ctx, u.ID, p.ID, 2)
	require.NoError(t, err)
	_, err = r.AddToCart(ctx, other.ID, p.ID, 1)
	require.NoError(t, err)

	require.NoError(t, r.CreateOrderFromCart(ctx, newOrder(u.ID, "ORD-CART"), []models.OrderItem{orderItem(p, 2)}))

	mine, err := r.GetCartItems(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
	theirs, err := r.GetCartItems(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestCreateOrderFromCartKeepsCartOnFailure(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	u := seedUser(t, r, "u-1")
	p := seedProduct(t, r, "P1", "", "c")
	_, err := r.AddToCart(ctx, u.ID, p.ID, 2)
	require.NoError(t, err)

	err = r.CreateOrderFromCart(ctx, newOrder(u.ID, "ORD-BAD"), []models.OrderItem{orderItem(p, 0)})
	require.Error(t, err)

	items, err := r.GetCartItems(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	var orders int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestCreateOrderItemsAppends(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	u := seedUser(t, r, "u-1")
	p := seedProduct(t, r, "P1", "", "c")

	order := newOrder(u.ID, "ORD-2")
	require.NoError(t, r.CreateOrder(ctx, order, nil))
	require.NoError(t, r.CreateOrderItems(ctx, order.ID, []models.OrderItem{orderItem(p, 1), orderItem(p, 3)}))

	items, err := r.GetOrderItems(ctx, u.ID, order.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestOrdersAreScopedToOwner(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	owner := seedUser(t, r, "u-1")
	intruder := seedUser(t, r, "u-2")
	p := seedProduct(t, r, "P1", "", "c")

	older := newOrder(owner.ID, "ORD-OLD")
	older.CreatedAt = time.Now().Add(-time.Hour).UTC()
	require.NoError(t, r.CreateOrder(ctx, older, []models.OrderItem{orderItem(p, 1)}))
	newer := newOrder(owner.ID, "ORD-NEW")
	require.NoError(t, r.CreateOrder(ctx, newer, nil))

	list, err := r.GetUserOrders(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ORD-NEW", list[0].OrderNumber)

	_, err = r.GetOrderByID(ctx, intruder.ID, older.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	items, err := r.GetOrderItems(ctx, intruder.ID, older.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	none, err := r.GetUserOrders(ctx, intruder.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
