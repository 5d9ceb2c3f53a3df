// Package services – ProductService
//
// This file implements the ProductService, the business layer between the
// HTTP handlers and the in-memory product store. It validates payloads
// (accumulating every violation), normalizes string fields, and translates
// store-level sentinels into the application error taxonomy so handlers can
// respond uniformly.
package services

import (
	"errors"
	"strings"

	"github.com/tbourn/go-product-api/internal/apperr"
	"github.com/tbourn/go-product-api/internal/domain"
	"github.com/tbourn/go-product-api/internal/store"
)

// ProductNotFoundMessage is the client-facing message for a missing product.
const ProductNotFoundMessage = "Product not found"

// CreateProductInput is the validated payload for creating a product.
// Pointer fields distinguish "absent" from the zero value so the validator
// can report missing fields precisely.
type CreateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	InStock     *bool
}

// UpdateProductInput is the validated payload for a partial update. Every
// field is optional; nil pointers leave the stored value untouched.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	InStock     *bool
}

// SearchResult wraps a search hit set with its count and the echoed query.
type SearchResult struct {
	Query   string
	Total   int
	Results []domain.Product
}

// ProductStore is the collection contract required by ProductService.
// *store.ProductStore satisfies it; tests may substitute their own.
type ProductStore interface {
	List(f store.Filter, page, limit int) store.ListResult
	Get(id string) (domain.Product, error)
	Create(p domain.Product) domain.Product
	Update(id string, patch store.Patch) (domain.Product, error)
	Delete(id string) (domain.Product, error)
	Search(query string) []domain.Product
	Stats() store.Stats
}

// ProductService provides the product use-cases: listing with filters and
// pagination, lookup, create/update/delete with validation, substring search,
// and collection statistics.
type ProductService struct {
	Store ProductStore
}

// NewProductService constructs a ProductService bound to the given store.
func NewProductService(s ProductStore) *ProductService {
	return &ProductService{Store: s}
}

// List returns a page of products matching the filter. Defaults (page 1,
// limit 10) are applied by the store for non-positive values.
func (s *ProductService) List(f store.Filter, page, limit int) store.ListResult {
	return s.Store.List(f, page, limit)
}

// Get returns the product with the given id, or a NotFound error.
func (s *ProductService) Get(id string) (domain.Product, error) {
	p, err := s.Store.Get(id)
	if err != nil {
		return domain.Product{}, notFound(err)
	}
	return p, nil
}

// Create validates the payload and appends a new product to the collection.
// All violations are reported together in a single Validation error. String
// fields are stored trimmed; a missing inStock flag defaults to false.
func (s *ProductService) Create(in CreateProductInput) (domain.Product, error) {
	if details := validateCreate(in); len(details) > 0 {
		return domain.Product{}, apperr.Validation("", details)
	}

	p := domain.Product{
		Name:        strings.TrimSpace(*in.Name),
		Description: strings.TrimSpace(*in.Description),
		Price:       *in.Price,
		Category:    strings.TrimSpace(*in.Category),
	}
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
	return s.Store.Create(p), nil
}

// Update validates the present fields and merges them over the stored record.
// The identifier is never changed, regardless of the payload. Returns the
// updated record, a Validation error, or a NotFound error.
func (s *ProductService) Update(id string, in UpdateProductInput) (domain.Product, error) {
	if details := validateUpdate(in); len(details) > 0 {
		return domain.Product{}, apperr.Validation("", details)
	}

	patch := store.Patch{
		Name:        trimmed(in.Name),
		Description: trimmed(in.Description),
		Price:       in.Price,
		Category:    trimmed(in.Category),
		InStock:     in.InStock,
	}
	p, err := s.Store.Update(id, patch)
	if err != nil {
		return domain.Product{}, notFound(err)
	}
	return p, nil
}

// Delete removes the product with the given id and returns the removed
// record, or a NotFound error.
func (s *ProductService) Delete(id string) (domain.Product, error) {
	p, err := s.Store.Delete(id)
	if err != nil {
		return domain.Product{}, notFound(err)
	}
	return p, nil
}

// Search runs a case-insensitive substring match over name and description.
// A missing or whitespace-only query is rejected with a 400-class error.
func (s *ProductService) Search(query string) (SearchResult, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return SearchResult{}, apperr.BadRequest("Search query is required")
	}
	results := s.Store.Search(q)
	return SearchResult{Query: q, Total: len(results), Results: results}, nil
}

// Stats reports aggregate figures over the full collection.
func (s *ProductService) Stats() store.Stats {
	return s.Store.Stats()
}

// notFound maps the store sentinel to the application taxonomy, passing any
// unexpected error through wrapped as internal.
func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(ProductNotFoundMessage)
	}
	return apperr.Internal(err)
}

// trimmed maps an optional string to its whitespace-trimmed value, keeping
// nil (absent) as nil.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
