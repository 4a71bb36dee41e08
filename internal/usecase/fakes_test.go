package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/phenrril/vitrina/internal/domain"
)

type fakeProductRepo struct {
	products map[uuid.UUID]*domain.Product

	// conflictsLeft makes Save fail with ErrConflict that many times,
	// simulating the unique-index backstop firing.
	conflictsLeft   int
	slugAlwaysTaken bool
	saveCalls       int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uuid.UUID]*domain.Product{}}
}

func (f *fakeProductRepo) Save(ctx context.Context, p *domain.Product) error {
	f.saveCalls++
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		return domain.ErrConflict
	}
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if p, ok := f.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProductRepo) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	for _, p := range f.products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProductRepo) SlugTaken(ctx context.Context, slug string) (bool, error) {
	if f.slugAlwaysTaken {
		return true, nil
	}
	_, err := f.FindBySlug(ctx, slug)
	return err == nil, nil
}

func (f *fakeProductRepo) List(ctx context.Context, fl domain.ProductFilter) ([]domain.Product, int64, error) {
	out := []domain.Product{}
	for _, p := range f.products {
		if fl.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(fl.Query)) {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	p, ok := f.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	cur := 0
	if p.StockQuantity != nil {
		cur = *p.StockQuantity
	}
	cur += delta
	if cur < 0 {
		cur = 0
	}
	p.StockQuantity = &cur
	return nil
}

func (f *fakeProductRepo) DeleteBySlug(ctx context.Context, slug string) error {
	for id, p := range f.products {
		if p.Slug == slug {
			delete(f.products, id)
			return nil
		}
	}
	return nil
}

type fakeCategoryRepo struct {
	cats            map[uuid.UUID]*domain.Category
	order           []uuid.UUID
	slugAlwaysTaken bool
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{cats: map[uuid.UUID]*domain.Category{}}
}

func (f *fakeCategoryRepo) Save(ctx context.Context, c *domain.Category) error {
	if _, ok := f.cats[c.ID]; !ok {
		f.order = append(f.order, c.ID)
	}
	cp := *c
	f.cats[c.ID] = &cp
	return nil
}

func (f *fakeCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	if c, ok := f.cats[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCategoryRepo) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	for _, c := range f.cats {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCategoryRepo) SlugTaken(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	if f.slugAlwaysTaken {
		return true, nil
	}
	for _, c := range f.cats {
		if c.Slug == slug && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategoryRepo) ListAll(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	for _, id := range f.order {
		out = append(out, *f.cats[id])
	}
	return out, nil
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for _, c := range f.cats {
		if c.ParentID != nil && *c.ParentID == id {
			c.ParentID = nil
		}
	}
	delete(f.cats, id)
	return nil
}

type fakeOrderRepo struct {
	orders map[uuid.UUID]*domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uuid.UUID]*domain.Order{}}
}

func (f *fakeOrderRepo) Save(ctx context.Context, o *domain.Order) error {
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	if o, ok := f.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeOrderRepo) FindByNumber(ctx context.Context, number string) (*domain.Order, error) {
	for _, o := range f.orders {
		if o.OrderNumber == number {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeOrderRepo) List(ctx context.Context, fl domain.OrderFilter) ([]domain.Order, int64, error) {
	out := []domain.Order{}
	for _, o := range f.orders {
		if fl.Status != "" && o.Status != fl.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

type fakeCustomerRepo struct {
	customers map[string]*domain.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[string]*domain.Customer{}}
}

func (f *fakeCustomerRepo) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	if c, ok := f.customers[strings.ToLower(email)]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCustomerRepo) Save(ctx context.Context, c *domain.Customer) error {
	cp := *c
	f.customers[strings.ToLower(c.Email)] = &cp
	return nil
}
