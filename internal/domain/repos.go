package domain

import (
	"context"

	"github.com/google/uuid"
)

type ProductRepo interface {
	Save(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	// SlugTaken is the point lookup the slug probe loop runs against.
	SlugTaken(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, f ProductFilter) ([]Product, int64, error)
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
	DeleteBySlug(ctx context.Context, slug string) error
}

type CategoryRepo interface {
	Save(ctx context.Context, c *Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	// SlugTaken ignores the row identified by excludeID so a rename does not
	// collide with itself. Pass uuid.Nil to exclude nothing.
	SlugTaken(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	ListAll(ctx context.Context) ([]Category, error)
	// Delete detaches children (their ParentID becomes null) before removing
	// the row; orphans surface as new roots.
	Delete(ctx context.Context, id uuid.UUID) error
}

type OrderRepo interface {
	Save(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByNumber(ctx context.Context, number string) (*Order, error)
	List(ctx context.Context, f OrderFilter) ([]Order, int64, error)
}

type CustomerRepo interface {
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	Save(ctx context.Context, c *Customer) error
}
