package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"        json:"id"`
	OpenID       string    `gorm:"size:64;uniqueIndex;not null"    json:"openId"`
	Name         *string   `gorm:"type:text"                       json:"name"`
	Email        *string   `gorm:"size:320;index"                  json:"email"`
	LoginMethod  *string   `gorm:"size:64"                         json:"loginMethod"`
	PasswordHash string    `gorm:"size:255"                        json:"-"`
	Role         string    `gorm:"size:16;not null;default:user"   json:"role"`
	Phone        *string   `gorm:"size:20"                         json:"phone"`
	Address      *string   `gorm:"type:text"                       json:"address"`
	City         *string   `gorm:"size:100"                        json:"city"`
	State        *string   `gorm:"size:2"                          json:"state"`
	ZipCode      *string   `gorm:"size:10"                         json:"zipCode"`
	CreatedAt    time.Time `gorm:"not null"                        json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null"                        json:"updatedAt"`
	LastSignedIn time.Time `gorm:"not null"                        json:"lastSignedIn"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

type Product struct {
	ID             uint       `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name           string     `gorm:"size:255;not null"           json:"name"`
	Description    string     `gorm:"type:text"                   json:"description"`
	Category       string     `gorm:"size:100;not null;index"     json:"category"`
	Price          Money      `gorm:"type:decimal(10,2);not null" json:"price"`
	OriginalPrice  Money      `gorm:"type:decimal(10,2)"          json:"originalPrice"`
	Stock          int        `gorm:"not null"                    json:"stock"`
	SKU            *string    `gorm:"size:100;uniqueIndex"        json:"sku"`
	Images         StringList `                                   json:"images"`
	Specifications StringMap  `                                   json:"specifications"`
	IsActive       bool       `gorm:"not null"                    json:"isActive"`
	CreatedAt      time.Time  `gorm:"not null"                    json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"not null"                    json:"updatedAt"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey"                                 json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"userId"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"productId"`
	Quantity  int       `gorm:"not null;check:quantity > 0"                json:"quantity"`
	AddedAt   time.Time `gorm:"not null;autoCreateTime"                    json:"addedAt"`

	User    *User    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Product *Product `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type Favorite struct {
	ID        uint      `gorm:"primaryKey"                                     json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_favorite_user_product;not null" json:"userId"`
	ProductID uint      `gorm:"uniqueIndex:idx_favorite_user_product;not null" json:"productId"`
	AddedAt   time.Time `gorm:"not null;autoCreateTime"                        json:"addedAt"`

	User    *User    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Product *Product `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type Order struct {
	ID              uint      `gorm:"primaryKey"                      json:"id"`
	UserID          uint      `gorm:"index;not null"                  json:"userId"`
	OrderNumber     string    `gorm:"size:50;uniqueIndex;not null"    json:"orderNumber"`
	Status          string    `gorm:"size:16;not null;default:pending" json:"status"`
	Subtotal        Money     `gorm:"type:decimal(10,2);not null"     json:"subtotal"`
	ShippingCost    Money     `gorm:"type:decimal(10,2);not null"     json:"shippingCost"`
	Tax             Money     `gorm:"type:decimal(10,2);not null"     json:"tax"`
	Total           Money     `gorm:"type:decimal(10,2);not null"     json:"total"`
	PaymentMethod   *string   `gorm:"size:50"                         json:"paymentMethod"`
	PaymentStatus   string    `gorm:"size:16;not null;default:pending" json:"paymentStatus"`
	ShippingAddress *string   `gorm:"type:text"                       json:"shippingAddress"`
	Notes           *string   `gorm:"type:text"                       json:"notes"`
	CreatedAt       time.Time `gorm:"not null"                        json:"createdAt"`
	UpdatedAt       time.Time `gorm:"not null"                        json:"updatedAt"`

	User  *User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem keeps the product name and price as they were at order time.
type OrderItem struct {
	ID          uint   `gorm:"primaryKey"                  json:"id"`
	OrderID     uint   `gorm:"index;not null"              json:"orderId"`
	ProductID   uint   `gorm:"not null"                    json:"productId"`
	ProductName string `gorm:"size:255;not null"           json:"productName"`
	Quantity    int    `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice   Money  `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
	Subtotal    Money  `gorm:"type:decimal(10,2);not null" json:"subtotal"`

	Product *Product `json:"-"`
}

// All lists the tables in migration order.
func All() []any {
	return []any{&User{}, &Product{}, &CartItem{}, &Favorite{}, &Order{}, &OrderItem{}}
}
