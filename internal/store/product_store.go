// Package store implements the in-memory product collection.
//
// The store is an ordered sequence of products: insertion order is preserved
// across every operation, updates rewrite entries in place, and deletes close
// the gap without reordering. State lives only for the process lifetime and
// is reset to the seed set on restart.
//
// A RWMutex guards the slice because the HTTP server handles requests
// concurrently. All operations are bounded synchronous scans, so no
// cancellation semantics are needed.
package store

import (
	"errors"
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tbourn/go-product-api/internal/domain"
	"github.com/tbourn/go-product-api/internal/utils"
)

// ErrNotFound indicates the requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Filter holds the optional equality predicates applied by List.
//
// Category matches case-insensitively against the product category when
// non-empty. InStock filters on availability when non-nil.
type Filter struct {
	Category string
	InStock  *bool
}

// Patch carries the optional fields of an update. Nil pointers mean "leave
// the existing value untouched"; the product ID is never patchable.
type Patch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	InStock     *bool
}

// ListResult is a page of products together with pre-pagination totals.
type ListResult struct {
	Items      []domain.Product
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// PriceStats aggregates price figures over the full collection.
type PriceStats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// Stats describes the whole (unfiltered) collection.
//
// Invariant: InStock + OutOfStock == TotalProducts. On an empty store every
// numeric field is zero and Categories is an empty map.
type Stats struct {
	TotalProducts int            `json:"totalProducts"`
	InStock       int            `json:"inStock"`
	OutOfStock    int            `json:"outOfStock"`
	Categories    map[string]int `json:"categories"`
	Price         PriceStats     `json:"price"`
}

// ProductStore is a concurrency-safe, ordered, in-memory product collection.
type ProductStore struct {
	mu       sync.RWMutex
	products []domain.Product
	newID    func() string
}

// New builds a store pre-populated with the given seed entries. Generated
// identifiers for created products are UUIDs.
func New(seed []domain.Product) *ProductStore {
	s := &ProductStore{newID: uuid.NewString}
	s.products = append(s.products, seed...)
	return s
}

// List applies the filter predicates in original order, then slices out the
// requested page. Page numbers are 1-based; non-positive page or limit values
// fall back to page 1 and limit 10. An out-of-range page yields an empty
// Items slice, not an error. Total and TotalPages describe the filtered set
// before slicing.
func (s *ProductStore) List(f Filter, page, limit int) ListResult {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if f.InStock != nil && p.InStock != *f.InStock {
			continue
		}
		filtered = append(filtered, p)
	}

	total := len(filtered)
	totalPages := utils.CeilDiv(total, limit)

	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := make([]domain.Product, end-start)
	copy(items, filtered[start:end])

	return ListResult{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Get returns the product with the given id, or ErrNotFound.
func (s *ProductStore) Get(id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.products[i], nil
	}
	return domain.Product{}, ErrNotFound
}

// Create assigns a fresh unique identifier, appends the product to the end of
// the collection, and returns the stored record. Any id present on the input
// is discarded.
func (s *ProductStore) Create(p domain.Product) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	// UUID collisions are vanishingly unlikely, but uniqueness across the
	// live collection is an invariant, so verify anyway.
	for {
		p.ID = s.newID()
		if s.indexOf(p.ID) < 0 {
			break
		}
	}
	s.products = append(s.products, p)
	return p
}

// Update merges the patch over the existing record in place: present fields
// overwrite, absent fields are retained, and the identifier always stays the
// original. Returns the updated record, or ErrNotFound.
func (s *ProductStore) Update(id string, patch Patch) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Product{}, ErrNotFound
	}

	p := s.products[i]
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.InStock != nil {
		p.InStock = *patch.InStock
	}
	p.ID = id
	s.products[i] = p
	return p, nil
}

// Delete removes the product with the given id, preserving the order of the
// remaining entries, and returns the removed record. Returns ErrNotFound if
// the id is absent.
func (s *ProductStore) Delete(id string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Product{}, ErrNotFound
	}

	removed := s.products[i]
	s.products = append(s.products[:i], s.products[i+1:]...)
	return removed, nil
}

// Search returns, in original order, every product whose name or description
// contains the query as a case-insensitive substring. Validation of the query
// (non-empty) belongs to the caller.
func (s *ProductStore) Search(query string) []domain.Product {
	q := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0)
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out
}

// Stats computes aggregate figures over the full unfiltered collection.
// An empty store reports zeros throughout; min/max/average are not defined
// over an empty set, so they are reported as 0 by policy.
func (s *ProductStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Categories: make(map[string]int)}
	st.TotalProducts = len(s.products)
	if st.TotalProducts == 0 {
		return st
	}

	var sum float64
	st.Price.Min = math.Inf(1)
	st.Price.Max = math.Inf(-1)
	for _, p := range s.products {
		if p.InStock {
			st.InStock++
		}
		st.Categories[p.Category]++
		sum += p.Price
		if p.Price < st.Price.Min {
			st.Price.Min = p.Price
		}
		if p.Price > st.Price.Max {
			st.Price.Max = p.Price
		}
	}
	st.OutOfStock = st.TotalProducts - st.InStock
	st.Price.Average = sum / float64(st.TotalProducts)
	return st
}

// Len reports the current number of products.
func (s *ProductStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// indexOf returns the position of id in the collection, or -1.
// Callers must hold the lock.
func (s *ProductStore) indexOf(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}
