package transport

import (
	"time"

	"github.com/shopspring/decimal"
)

type PlaceOrderItem struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type PlaceOrderRequest struct {
	ClientName       string           `json:"client_name"`
	ClientEmail      string           `json:"client_email"`
	ClientAddress    string           `json:"client_address"`
	ClientCity       string           `json:"client_city"`
	ClientPostalCode string           `json:"client_postal_code"`
	ClientPhone      string           `json:"client_phone"`
	Items            []PlaceOrderItem `json:"items"`
}

type OrderFilter struct {
	ClientEmail string `query:"client_email"`
}

type OrderSummary struct {
	ID          uint            `json:"id"`
	Number      string          `json:"number"`
	ClientName  string          `json:"client_name"`
	ClientEmail string          `json:"client_email"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   uint            `json:"item_count"`
	CreatedAt   time.Time       `json:"created_at"`
}

type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       uint            `json:"stock"`
	ImageURL    *string         `json:"image_url"`
}

type PatchProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *uint            `json:"stock"`
	ImageURL    *string          `json:"image_url"`
}

type SessionRequest struct {
	IDToken string `json:"id_token"`
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
}

type UpdateUserRequest struct {
	Name *string `json:"name"`
	Role *string `json:"role"`
}

type UserStatistics struct {
	TotalOrders int64           `json:"total_orders"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
}
