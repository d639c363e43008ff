package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	ActionLogin        = "LOGIN"
	ActionOrderCreated = "ORDER_CREATED"
)

type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"unique;not null"          json:"email"`
	Name      string    `gorm:"not null"                 json:"name"`
	Role      string    `gorm:"not null;default:user"    json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"            json:"id"`
	Name        string          `gorm:"not null"                            json:"name"`
	Description string          `gorm:"not null"                            json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"         json:"price"`
	Stock       uint            `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	ImageURL    *string         `json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Order keeps the client contact data as a snapshot: later profile edits
// must not change what was shipped where.
type Order struct {
	ID               uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	Number           string          `gorm:"uniqueIndex;not null"        json:"number"`
	UserID           *uint           `gorm:"index"                       json:"user_id,omitempty"`
	ClientName       string          `gorm:"not null"                    json:"client_name"`
	ClientEmail      string          `gorm:"index;not null"              json:"client_email"`
	ClientAddress    string          `gorm:"not null"                    json:"client_address"`
	ClientCity       string          `gorm:"not null"                    json:"client_city"`
	ClientPostalCode string          `gorm:"not null"                    json:"client_postal_code"`
	ClientPhone      string          `gorm:"not null"                    json:"client_phone"`
	Total            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	CreatedAt        time.Time       `json:"created_at"`
	Items            []OrderItem     `json:"items,omitempty"`
	// Deleting the owning user detaches the order instead of losing it; a
	// nil UserID reads as a guest order afterwards.
	User *User `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

// OrderItem.Price is the unit price frozen at placement time, never a live
// reference to the product's current price.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID   uint            `gorm:"index;not null"              json:"order_id"`
	ProductID uint            `gorm:"not null"                    json:"product_id"`
	Quantity  uint            `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Product   *Product        `gorm:"foreignKey:ProductID"        json:"product,omitempty"`
}

type ActivityLog struct {
	ID          uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint              `gorm:"index;not null"           json:"user_id"`
	Action      string            `gorm:"not null"                 json:"action"`
	Description string            `gorm:"not null"                 json:"description"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	User        *User             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}
