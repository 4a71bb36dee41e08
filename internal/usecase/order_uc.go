package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/vitrina/internal/domain"
)

type OrderUC struct {
	Orders    domain.OrderRepo
	Products  domain.ProductRepo
	Customers domain.CustomerRepo
}

// CheckoutInfo is what the surrounding layer supplies at checkout. Tax and
// shipping come from external rule modules; they are not computed here.
type CheckoutInfo struct {
	Email           string
	Name            string
	Phone           string
	ShippingAddress string
	BillingAddress  string
	Currency        string
	Tax             float64
	Shipping        float64
	Discount        float64
}

// Checkout snapshots the cart into a PENDING order: line prices come from the
// stored product when it still resolves (cart price otherwise), totals follow
// ComputeTotals, managed stock is decremented. The caller clears the cart.
func (uc *OrderUC) Checkout(ctx context.Context, cart *domain.Cart, info CheckoutInfo) (*domain.Order, error) {
	if cart == nil || len(cart.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if info.Email == "" || info.Name == "" {
		return nil, errors.New("customer email and name required")
	}
	if info.Currency == "" {
		info.Currency = "USD"
	}

	o := &domain.Order{
		ID:              uuid.New(),
		OrderNumber:     domain.NewOrderNumber(time.Now()),
		Status:          domain.OrderStatusPending,
		Currency:        info.Currency,
		Email:           info.Email,
		Name:            info.Name,
		Phone:           info.Phone,
		ShippingAddress: info.ShippingAddress,
		BillingAddress:  info.BillingAddress,
		Tax:             info.Tax,
		Shipping:        info.Shipping,
		Discount:        info.Discount,
	}

	type decrement struct {
		id  uuid.UUID
		qty int
	}
	var decs []decrement
	for _, it := range cart.Items {
		price := it.Price
		var pid *uuid.UUID
		p, err := uc.Products.FindBySlug(ctx, it.Slug)
		if err == nil {
			pid = &p.ID
			if p.Price != 0 {
				price = p.Price
			}
			if p.EnableStockManagement {
				decs = append(decs, decrement{id: p.ID, qty: it.Quantity})
			}
		}
		o.Items = append(o.Items, domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   o.ID,
			ProductID: pid,
			Name:      it.Name,
			Slug:      it.Slug,
			Size:      it.Size,
			Quantity:  it.Quantity,
			Price:     price,
		})
	}
	o.Subtotal, o.Total = domain.ComputeTotals(o.Items, o.Tax, o.Shipping, o.Discount)

	if uc.Customers != nil {
		cust, err := uc.Customers.FindByEmail(ctx, info.Email)
		if errors.Is(err, domain.ErrNotFound) {
			cust = &domain.Customer{ID: uuid.New(), Email: info.Email, Name: info.Name, Phone: info.Phone}
			err = uc.Customers.Save(ctx, cust)
		}
		if err == nil {
			o.CustomerID = &cust.ID
		}
	}

	if err := uc.Orders.Save(ctx, o); err != nil {
		return nil, err
	}
	for _, d := range decs {
		if err := uc.Products.AdjustStock(ctx, d.id, -d.qty); err != nil {
			log.Error().Err(err).Str("product_id", d.id.String()).Msg("stock decrement")
		}
	}
	return o, nil
}

// UpdateStatus validates only that the status is a known value; any status
// may replace any other, last writer wins.
func (uc *OrderUC) UpdateStatus(ctx context.Context, id uuid.UUID, status, adminNote string) (*domain.Order, error) {
	st, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	o, err := uc.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Status = st
	if adminNote != "" {
		o.AdminNote = adminNote
	}
	if err := uc.Orders.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (uc *OrderUC) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return uc.Orders.FindByID(ctx, id)
}

func (uc *OrderUC) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	if number == "" {
		return nil, domain.ErrNotFound
	}
	return uc.Orders.FindByNumber(ctx, number)
}

func (uc *OrderUC) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, int64, error) {
	if f.PageSize == 0 {
		f.PageSize = 20
	}
	return uc.Orders.List(ctx, f)
}
