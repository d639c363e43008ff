package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopmaster/storefront/internal/auth"
	"github.com/shopmaster/storefront/internal/models"
	"github.com/shopmaster/storefront/internal/transport"
)

type OrderService struct {
	DB *gorm.DB
}

type pricedItem struct {
	ProductID uint
	Quantity  uint
	Price     decimal.Decimal
}

// PlaceOrder converts a cart submission into a persisted order with line
// items and the matching stock decrements, all inside one transaction.
// Pricing is always re-derived from the current product records; any price
// the client may have cached is ignored.
func (s *OrderService) PlaceOrder(ctx context.Context, caller auth.Identity, req transport.PlaceOrderRequest) (*models.Order, error) {
	if caller.UserID == 0 {
		return nil, fmt.Errorf("%w: authenticated user required", ErrValidation)
	}
	if err := validateContact(req); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrValidation)
	}

	total := decimal.Zero
	priced := make([]pricedItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity == 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for product %d", ErrValidation, it.ProductID)
		}

		var p models.Product
		if err := s.DB.WithContext(ctx).First(&p, it.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: product %d", ErrNotFound, it.ProductID)
			}
			return nil, err
		}
		if it.Quantity > p.Stock {
			return nil, fmt.Errorf("%w: product %q", ErrInsufficientStock, p.Name)
		}

		line := p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
		priced = append(priced, pricedItem{ProductID: p.ID, Quantity: it.Quantity, Price: p.Price})
	}

	userID := caller.UserID
	order := models.Order{
		Number:           uuid.NewString(),
		UserID:           &userID,
		ClientName:       req.ClientName,
		ClientEmail:      req.ClientEmail,
		ClientAddress:    req.ClientAddress,
		ClientCity:       req.ClientCity,
		ClientPostalCode: req.ClientPostalCode,
		ClientPhone:      req.ClientPhone,
		Total:            total,
	}

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, it := range priced {
			oi := models.OrderItem{
				OrderID:   order.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     it.Price,
			}
			if err := tx.Create(&oi).Error; err != nil {
				return err
			}
		}

		// The guarded decrement is the authority on stock: when a concurrent
		// placement got there first, zero rows match and the whole
		// transaction rolls back.
		for _, it := range priced {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", it.ProductID, it.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", it.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: stock changed for product %d", ErrConflict, it.ProductID)
			}
		}
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, ErrConflict) {
			return nil, txErr
		}
		return nil, fmt.Errorf("%w: %v", ErrConflict, txErr)
	}

	var placed models.Order
	if err := s.DB.WithContext(ctx).Preload("Items").First(&placed, order.ID).Error; err != nil {
		return nil, err
	}
	return &placed, nil
}

func validateContact(req transport.PlaceOrderRequest) error {
	fields := map[string]string{
		"client_name":        req.ClientName,
		"client_email":       req.ClientEmail,
		"client_address":     req.ClientAddress,
		"client_city":        req.ClientCity,
		"client_postal_code": req.ClientPostalCode,
		"client_phone":       req.ClientPhone,
	}
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, name)
		}
	}
	return nil
}

// GetOrder loads one order with its items and each item's product. Access is
// restricted to the owning user and admins.
func (s *OrderService) GetOrder(ctx context.Context, caller auth.Identity, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.DB.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}

	if !caller.IsAdmin() && (order.UserID == nil || *order.UserID != caller.UserID) {
		return nil, fmt.Errorf("%w: not authorized", ErrForbidden)
	}
	return &order, nil
}

// ListOrders returns newest-first summaries: all orders for admins
// (optionally filtered by client email), own orders for everyone else.
func (s *OrderService) ListOrders(ctx context.Context, caller auth.Identity, filter transport.OrderFilter) ([]transport.OrderSummary, error) {
	q := s.DB.WithContext(ctx).Model(&models.Order{}).Preload("Items")
	if caller.IsAdmin() {
		if filter.ClientEmail != "" {
			q = q.Where("client_email = ?", filter.ClientEmail)
		}
	} else {
		q = q.Where("user_id = ?", caller.UserID)
	}

	var orders []models.Order
	if err := q.Order("id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}

	summaries := make([]transport.OrderSummary, 0, len(orders))
	for _, o := range orders {
		var count uint
		for _, it := range o.Items {
			count += it.Quantity
		}
		summaries = append(summaries, transport.OrderSummary{
			ID:          o.ID,
			Number:      o.Number,
			ClientName:  o.ClientName,
			ClientEmail: o.ClientEmail,
			Total:       o.Total,
			ItemCount:   count,
			CreatedAt:   o.CreatedAt,
		})
	}
	return summaries, nil
}
