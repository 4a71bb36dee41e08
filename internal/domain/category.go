package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name           string     `gorm:"size:180"`
	Slug           string     `gorm:"uniqueIndex;size:140"`
	ParentID       *uuid.UUID `gorm:"type:uuid;index"`
	Description    string     `gorm:"type:text"`
	SEOTitle       string     `gorm:"size:180"`
	SEODescription string     `gorm:"type:text"`
	SEOKeywords    string     `gorm:"size:255"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CategoryNode is a category with its derived children. Children are never
// stored; they come from grouping a flat list on ParentID.
type CategoryNode struct {
	Category
	Children []*CategoryNode
}

// FlatCategory is one row of the pre-order flattened tree. Name carries the
// ancestor chain ("Parent → Child"); ID and Slug stay untouched.
type FlatCategory struct {
	ID       uuid.UUID
	Name     string
	Slug     string
	ParentID *uuid.UUID
	Depth    int
}

type Crumb struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

const nameSeparator = " → "

// checkParentage walks every parent chain and fails on the first cycle.
// Chains that end in a missing parent are fine here; BuildTree decides what
// to do with those nodes.
func checkParentage(cats []Category) error {
	byID := make(map[uuid.UUID]*Category, len(cats))
	for i := range cats {
		byID[cats[i].ID] = &cats[i]
	}
	for i := range cats {
		seen := map[uuid.UUID]struct{}{cats[i].ID: {}}
		cur := cats[i].ParentID
		for cur != nil {
			if _, ok := seen[*cur]; ok {
				return ErrCycle
			}
			seen[*cur] = struct{}{}
			parent, ok := byID[*cur]
			if !ok {
				break
			}
			cur = parent.ParentID
		}
	}
	return nil
}

// BuildTree groups categories by ParentID and returns the roots (ParentID
// nil), each with children populated recursively. Sibling order follows
// input order. Cyclic parentage yields ErrCycle instead of recursing forever.
func BuildTree(cats []Category) ([]*CategoryNode, error) {
	if err := checkParentage(cats); err != nil {
		return nil, err
	}
	byParent := map[uuid.UUID][]Category{}
	roots := []*CategoryNode{}
	for _, c := range cats {
		if c.ParentID == nil {
			roots = append(roots, &CategoryNode{Category: c})
			continue
		}
		byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
	}
	var attach func(n *CategoryNode)
	attach = func(n *CategoryNode) {
		for _, c := range byParent[n.ID] {
			child := &CategoryNode{Category: c}
			attach(child)
			n.Children = append(n.Children, child)
		}
	}
	for _, r := range roots {
		attach(r)
	}
	return roots, nil
}

// Flatten produces a pre-order traversal where each entry's display name is
// prefixed with its ancestor chain. A non-empty rootName prefixes every entry.
func Flatten(cats []Category, rootName string) ([]FlatCategory, error) {
	roots, err := BuildTree(cats)
	if err != nil {
		return nil, err
	}
	out := make([]FlatCategory, 0, len(cats))
	var walk func(n *CategoryNode, prefix string, depth int)
	walk = func(n *CategoryNode, prefix string, depth int) {
		name := n.Name
		if prefix != "" {
			name = prefix + nameSeparator + n.Name
		}
		out = append(out, FlatCategory{ID: n.ID, Name: name, Slug: n.Slug, ParentID: n.ParentID, Depth: depth})
		for _, c := range n.Children {
			walk(c, name, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, rootName, 0)
	}
	return out, nil
}

// FilterByTerm keeps entries whose name, slug or id contains term,
// case-insensitive. An empty term returns the input unchanged.
func FilterByTerm(flat []FlatCategory, term string) []FlatCategory {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return flat
	}
	out := []FlatCategory{}
	for _, f := range flat {
		if strings.Contains(strings.ToLower(f.Name), term) ||
			strings.Contains(strings.ToLower(f.Slug), term) ||
			strings.Contains(strings.ToLower(f.ID.String()), term) {
			out = append(out, f)
		}
	}
	return out
}

// Breadcrumb walks parent references from leaf upward through resolve and
// returns the chain root-first. A missing parent ends the walk; a repeated
// ancestor is a cycle.
func Breadcrumb(leaf *Category, resolve func(uuid.UUID) (*Category, error)) ([]Crumb, error) {
	if leaf == nil {
		return nil, nil
	}
	crumbs := []Crumb{{Name: leaf.Name, Slug: leaf.Slug}}
	seen := map[uuid.UUID]struct{}{leaf.ID: {}}
	cur := leaf.ParentID
	for cur != nil {
		if _, ok := seen[*cur]; ok {
			return nil, ErrCycle
		}
		seen[*cur] = struct{}{}
		parent, err := resolve(*cur)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				break
			}
			return nil, err
		}
		crumbs = append(crumbs, Crumb{Name: parent.Name, Slug: parent.Slug})
		cur = parent.ParentID
	}
	for i, j := 0, len(crumbs)-1; i < j; i, j = i+1, j-1 {
		crumbs[i], crumbs[j] = crumbs[j], crumbs[i]
	}
	return crumbs, nil
}
