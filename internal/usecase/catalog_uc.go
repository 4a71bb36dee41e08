package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/phenrril/vitrina/internal/domain"
)

// Collision suffixes stop here; after the cap one random token is tried
// before giving up. The store's unique index stays the final backstop.
const slugMaxAttempts = 50

type CatalogUC struct {
	Products   domain.ProductRepo
	Categories domain.CategoryRepo
}

func (uc *CatalogUC) uniqueSlug(ctx context.Context, name, candidate string, taken func(context.Context, string) (bool, error)) (string, error) {
	src := candidate
	if strings.TrimSpace(src) == "" {
		src = name
	}
	base := domain.Slugify(src)
	if base == "" {
		base = uuid.NewString()[:8]
	}
	slug := base
	for i := 1; i <= slugMaxAttempts; i++ {
		used, err := taken(ctx, slug)
		if err != nil {
			return "", err
		}
		if !used {
			return slug, nil
		}
		slug = base + "-" + strconv.Itoa(i)
	}
	slug = base + "-" + uuid.NewString()[:8]
	used, err := taken(ctx, slug)
	if err != nil {
		return "", err
	}
	if !used {
		return slug, nil
	}
	return "", domain.ErrSlugExhausted
}

// UniqueProductSlug derives a slug from candidateSlug (or candidateName when
// empty) and probes the product store with incrementing suffixes until free.
func (uc *CatalogUC) UniqueProductSlug(ctx context.Context, candidateName, candidateSlug string) (string, error) {
	return uc.uniqueSlug(ctx, candidateName, candidateSlug, uc.Products.SlugTaken)
}

// UniqueCategorySlug is the same probe, ignoring excludeID so renaming a
// category never collides with its own current slug.
func (uc *CatalogUC) UniqueCategorySlug(ctx context.Context, candidateName, candidateSlug string, excludeID uuid.UUID) (string, error) {
	return uc.uniqueSlug(ctx, candidateName, candidateSlug, func(ctx context.Context, slug string) (bool, error) {
		return uc.Categories.SlugTaken(ctx, slug, excludeID)
	})
}

// CreateProduct assigns an ID and a unique slug, then saves. A duplicate-key
// conflict from the store (the probe/insert race) triggers one regeneration.
func (uc *CatalogUC) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return errors.New("product name required")
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	slug, err := uc.UniqueProductSlug(ctx, p.Name, p.Slug)
	if err != nil {
		return err
	}
	p.Slug = slug
	if err := uc.Products.Save(ctx, p); err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
		slug, err = uc.UniqueProductSlug(ctx, p.Name, "")
		if err != nil {
			return err
		}
		p.Slug = slug
		return uc.Products.Save(ctx, p)
	}
	return nil
}

// UpdateProduct recomputes the slug only when the name or slug candidate
// changed relative to the stored row.
func (uc *CatalogUC) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if p == nil || p.ID == uuid.Nil {
		return errors.New("product id required")
	}
	stored, err := uc.Products.FindByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if p.Name != stored.Name || (p.Slug != "" && p.Slug != stored.Slug) {
		candidate := p.Slug
		if candidate == stored.Slug {
			candidate = ""
		}
		slug, err := uc.UniqueProductSlug(ctx, p.Name, candidate)
		if err != nil {
			return err
		}
		p.Slug = slug
	} else {
		p.Slug = stored.Slug
	}
	return uc.Products.Save(ctx, p)
}

// ensureNoCycle rejects a ParentID whose ancestor chain reaches id. The
// parent must exist; a dangling reference is ErrNotFound.
func (uc *CatalogUC) ensureNoCycle(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) error {
	seen := map[uuid.UUID]struct{}{id: {}}
	cur := parentID
	for cur != nil {
		if _, ok := seen[*cur]; ok {
			return domain.ErrCycle
		}
		seen[*cur] = struct{}{}
		parent, err := uc.Categories.FindByID(ctx, *cur)
		if err != nil {
			return err
		}
		cur = parent.ParentID
	}
	return nil
}

func (uc *CatalogUC) CreateCategory(ctx context.Context, c *domain.Category) error {
	if c == nil || strings.TrimSpace(c.Name) == "" {
		return errors.New("category name required")
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if err := uc.ensureNoCycle(ctx, c.ID, c.ParentID); err != nil {
		return err
	}
	slug, err := uc.UniqueCategorySlug(ctx, c.Name, c.Slug, uuid.Nil)
	if err != nil {
		return err
	}
	c.Slug = slug
	if err := uc.Categories.Save(ctx, c); err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
		slug, err = uc.UniqueCategorySlug(ctx, c.Name, "", uuid.Nil)
		if err != nil {
			return err
		}
		c.Slug = slug
		return uc.Categories.Save(ctx, c)
	}
	return nil
}

func (uc *CatalogUC) UpdateCategory(ctx context.Context, c *domain.Category) error {
	if c == nil || c.ID == uuid.Nil {
		return errors.New("category id required")
	}
	if err := uc.ensureNoCycle(ctx, c.ID, c.ParentID); err != nil {
		return err
	}
	stored, err := uc.Categories.FindByID(ctx, c.ID)
	if err != nil {
		return err
	}
	if c.Name != stored.Name || (c.Slug != "" && c.Slug != stored.Slug) {
		candidate := c.Slug
		if candidate == stored.Slug {
			candidate = ""
		}
		slug, err := uc.UniqueCategorySlug(ctx, c.Name, candidate, c.ID)
		if err != nil {
			return err
		}
		c.Slug = slug
	} else {
		c.Slug = stored.Slug
	}
	return uc.Categories.Save(ctx, c)
}

func (uc *CatalogUC) Tree(ctx context.Context) ([]*domain.CategoryNode, error) {
	cats, err := uc.Categories.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return domain.BuildTree(cats)
}

// FlatList is the search/pagination-friendly admin view: pre-order, ancestor
// chain in the display name, optionally filtered by term.
func (uc *CatalogUC) FlatList(ctx context.Context, term string) ([]domain.FlatCategory, error) {
	cats, err := uc.Categories.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	flat, err := domain.Flatten(cats, "")
	if err != nil {
		return nil, err
	}
	return domain.FilterByTerm(flat, term), nil
}

func (uc *CatalogUC) Breadcrumb(ctx context.Context, slug string) ([]domain.Crumb, error) {
	leaf, err := uc.Categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return domain.Breadcrumb(leaf, func(id uuid.UUID) (*domain.Category, error) {
		return uc.Categories.FindByID(ctx, id)
	})
}

func (uc *CatalogUC) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if slug == "" {
		return nil, domain.ErrNotFound
	}
	return uc.Products.FindBySlug(ctx, slug)
}

func (uc *CatalogUC) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	if f.PageSize == 0 {
		f.PageSize = 20
	}
	return uc.Products.List(ctx, f)
}
