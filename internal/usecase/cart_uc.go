package usecase

import (
	"context"
	"errors"

	"github.com/phenrril/vitrina/internal/domain"
)

// CartUC carries the stock-aware clamps the domain cart deliberately does not
// apply. The cart itself stays a caller-owned value.
type CartUC struct {
	Products domain.ProductRepo
}

// Add resolves the product, rejects out-of-stock items and clamps the added
// quantity so the line never exceeds MaxAddable. Returns the identity of the
// touched line.
func (uc *CartUC) Add(ctx context.Context, cart *domain.Cart, slug, size string, qty int) (string, error) {
	if cart == nil {
		return "", errors.New("nil cart")
	}
	if qty < 1 {
		qty = 1
	}
	p, err := uc.Products.FindBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	if p.IsOutOfStock() {
		return "", domain.ErrOutOfStock
	}
	identity := p.ID.String() + "-" + size
	current := cart.Quantity(identity)
	if room := p.MaxAddable() - current; qty > room {
		qty = room
	}
	if qty <= 0 {
		return identity, nil
	}
	cart.Add(domain.CartItem{
		ProductID: p.ID.String(),
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  qty,
		Size:      size,
		Slug:      p.Slug,
	})
	return identity, nil
}

// SetQuantity clamps qty to the product's MaxAddable before delegating to the
// cart; qty <= 0 removes the line.
func (uc *CartUC) SetQuantity(ctx context.Context, cart *domain.Cart, identity string, qty int) error {
	if cart == nil {
		return errors.New("nil cart")
	}
	if qty <= 0 {
		cart.Remove(identity)
		return nil
	}
	for _, it := range cart.Items {
		if it.CartItemID != identity && it.ProductID != identity {
			continue
		}
		p, err := uc.Products.FindBySlug(ctx, it.Slug)
		if err == nil {
			if p.IsOutOfStock() {
				return domain.ErrOutOfStock
			}
			if max := p.MaxAddable(); qty > max {
				qty = max
			}
		}
		break
	}
	cart.UpdateQuantity(identity, qty)
	return nil
}
