package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/agro_shop/internal/logging"
	"github.com/Skotchmaster/agro_shop/internal/models"
	"github.com/Skotchmaster/agro_shop/internal/mykafka"
	"github.com/Skotchmaster/agro_shop/internal/repo"
)

type OrderService struct {
	Repo   *repo.GormRepo
	Events mykafka.Publisher
	// Now is overridable in tests.
	Now func() time.Time
}

type OrderLine struct {
	ProductID uint `validate:"required"`
	Quantity  int  `validate:"min=1"`
}

// PlaceOrderInput describes a checkout. With FromCart set the lines are
// taken from the user's cart, which is emptied once the order is stored.
type PlaceOrderInput struct {
	Lines           []OrderLine `validate:"dive"`
	FromCart        bool
	ShippingCost    decimal.Decimal
	Tax             decimal.Decimal
	PaymentMethod   *string
	ShippingAddress *string
	Notes           *string
}

func (s *OrderService) List(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.Repo.GetUserOrders(ctx, userID)
}

// Get returns nil without an error when the caller has no such order.
func (s *OrderService) Get(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	order, err := s.Repo.GetOrderByID(ctx, userID, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) Items(ctx context.Context, userID, orderID uint) ([]models.OrderItem, error) {
	return s.Repo.GetOrderItems(ctx, userID, orderID)
}

func (s *OrderService) Place(ctx context.Context, userID uint, in PlaceOrderInput) (*models.Order, error) {
	l := logging.FromContext(ctx).With("service", "orders.place")

	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if in.ShippingCost.IsNegative() || in.Tax.IsNegative() {
		return nil, fmt.Errorf("shipping cost and tax must not be negative: %w", ErrValidation)
	}
	if !s.Repo.Available() {
		return nil, ErrUnavailable
	}

	lines := in.Lines
	if in.FromCart {
		cart, err := s.Repo.GetCartItems(ctx, userID)
		if err != nil {
			return nil, err
		}
		lines = make([]OrderLine, 0, len(cart))
		for _, ci := range cart {
			lines = append(lines, OrderLine{ProductID: ci.ProductID, Quantity: ci.Quantity})
		}
	}
	lines = mergeLines(lines)
	if len(lines) == 0 {
		return nil, fmt.Errorf("order has no items: %w", ErrValidation)
	}

	items := make([]models.OrderItem, 0, len(lines))
	subtotal := decimal.Zero
	for _, line := range lines {
		p, err := s.Repo.GetProductByID(ctx, line.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("product %d not found: %w", line.ProductID, ErrNotFound)
		}
		if err != nil {
			return nil, err
		}
		if !p.IsActive {
			return nil, fmt.Errorf("product %d is not available: %w", p.ID, ErrValidation)
		}
		if line.Quantity > p.Stock {
			return nil, fmt.Errorf("product %d has %d in stock: %w", p.ID, p.Stock, ErrValidation)
		}

		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		items = append(items, models.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    line.Quantity,
			UnitPrice:   p.Price,
			Subtotal:    models.NewMoney(lineTotal),
		})
	}

	order := &models.Order{
		UserID:          userID,
		OrderNumber:     s.orderNumber(),
		Status:          models.OrderStatusPending,
		Subtotal:        models.NewMoney(subtotal),
		ShippingCost:    models.NewMoney(in.ShippingCost),
		Tax:             models.NewMoney(in.Tax),
		Total:           models.NewMoney(subtotal.Add(in.ShippingCost).Add(in.Tax)),
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		ShippingAddress: in.ShippingAddress,
		Notes:           in.Notes,
	}
	create := s.Repo.CreateOrder
	if in.FromCart {
		create = s.Repo.CreateOrderFromCart
	}
	if err := create(ctx, order, items); err != nil {
		return nil, translate(err)
	}

	l.Info("place_order_success", "order_id", order.ID, "total", order.Total.StringFixed(2))
	publish(ctx, s.Events, mykafka.TopicOrderEvents, userKey(userID), map[string]any{
		"type":        "order_placed",
		"userID":      userID,
		"orderID":     order.ID,
		"orderNumber": order.OrderNumber,
		"total":       order.Total.StringFixed(2),
	})
	return order, nil
}

func (s *OrderService) orderNumber() string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now().UTC().Format("20060102"), suffix)
}

// mergeLines sums quantities of lines naming the same product, keeping the
// order in which products first appear.
func mergeLines(lines []OrderLine) []OrderLine {
	merged := make([]OrderLine, 0, len(lines))
	at := make(map[uint]int, len(lines))
	for _, line := range lines {
		if i, ok := at[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		at[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged
}
