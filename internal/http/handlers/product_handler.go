// Product HTTP handlers.
//
// This file exposes the REST endpoints for the product catalog:
//   - GET    /products           (list, filtered + paginated)
//   - GET    /products/search    (case-insensitive substring search)
//   - GET    /products/stats     (collection statistics)
//   - GET    /products/{id}      (fetch one)
//   - POST   /products           (create; API key required)
//   - PUT    /products/{id}      (partial update; API key required)
//   - DELETE /products/{id}      (delete; API key required)
//
// Handlers are transport-thin: they decode and type-check input, call the
// product service, and translate results into HTTP responses. All failures
// flow through the single respondError stage in response.go.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-product-api/internal/apperr"
	"github.com/tbourn/go-product-api/internal/domain"
	"github.com/tbourn/go-product-api/internal/services"
	"github.com/tbourn/go-product-api/internal/store"
	"github.com/tbourn/go-product-api/internal/utils"
)

//
// Service contract
//

// ProductService defines the product use-cases consumed by the HTTP
// handlers. Implementations must be safe for concurrent use.
type ProductService interface {
	// List returns a page of products matching the filter.
	List(f store.Filter, page, limit int) store.ListResult
	// Get fetches a product by id.
	Get(id string) (domain.Product, error)
	// Create validates and stores a new product.
	Create(in services.CreateProductInput) (domain.Product, error)
	// Update validates and merges a partial payload over an existing product.
	Update(id string, in services.UpdateProductInput) (domain.Product, error)
	// Delete removes a product and returns the removed record.
	Delete(id string) (domain.Product, error)
	// Search matches the query against product names and descriptions.
	Search(query string) (services.SearchResult, error)
	// Stats aggregates figures over the full collection.
	Stats() store.Stats
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for the product catalog. It depends on
// the abstract service interface to keep transport concerns separate from
// business logic; dev controls whether error bodies carry stack traces.
type Handlers struct {
	svc ProductService
	dev bool
}

// New constructs a Handlers instance bound to the given service.
func New(svc ProductService, dev bool) *Handlers {
	return &Handlers{svc: svc, dev: dev}
}

//
// DTOs
//

// CreateProductRequest is the JSON payload for creating a product. Pointer
// fields make optionality explicit so the validator can report every missing
// field; the schema itself rejects wrongly-typed values before any domain
// logic runs.
type CreateProductRequest struct {
	Name        *string  `json:"name" example:"Laptop"`
	Description *string  `json:"description" example:"High-performance laptop with 16GB RAM"`
	Price       *float64 `json:"price" example:"999.99"`
	Category    *string  `json:"category" example:"electronics"`
	InStock     *bool    `json:"inStock" example:"true"`
}

// UpdateProductRequest is the JSON payload for a partial update. Absent
// fields retain their stored values; the id is never updatable.
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	InStock     *bool    `json:"inStock"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
}

// ListProductsResponse wraps a page of products and pagination information.
type ListProductsResponse struct {
	Products   []domain.Product `json:"products"`
	Pagination Pagination       `json:"pagination"`
}

// SearchProductsResponse echoes the query alongside the matched set.
type SearchProductsResponse struct {
	Query   string           `json:"query"`
	Total   int              `json:"total"`
	Results []domain.Product `json:"results"`
}

// MutationResponse confirms a successful write with the affected product.
type MutationResponse struct {
	Message string         `json:"message"`
	Product domain.Product `json:"product"`
}

//
// Helpers
//

// clampPagination parses and bounds the page and limit query params,
// returning the 1-based page and the page size (default 10, capped at 100).
func clampPagination(c *gin.Context) (page, limit int) {
	const (
		defaultPage  = 1
		defaultLimit = 10
		maxLimit     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	limit = utils.AtoiDefault(c.Query("limit"), defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return
}

// decodeBody binds the JSON request body into dst. A wholly absent body is
// treated as an empty payload (so required-field validation reports every
// missing field), a wrongly-typed field is converted into a field-specific
// validation error, and any other malformed input yields a generic 400.
func decodeBody(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if detail := typeErrorDetail(typeErr.Field); detail != "" {
			return apperr.Validation("", []string{detail})
		}
	}
	return apperr.BadRequest("Invalid request body")
}

// typeErrorDetail maps a wrongly-typed JSON field to the matching violation
// message, or "" when the field is not part of the product schema.
func typeErrorDetail(field string) string {
	switch strings.ToLower(field) {
	case "name":
		return "Name must be a non-empty string"
	case "description":
		return "Description must be a non-empty string"
	case "price":
		return "Price must be a positive number"
	case "category":
		return "Category must be a non-empty string"
	case "instock":
		return "InStock must be a boolean"
	default:
		return ""
	}
}

//
// Handlers
//

// ListProducts godoc
// @ID          listProducts
// @Summary     List products (filtered, paginated)
// @Description Returns a page of products. Supports case-insensitive category
// @Description and inStock equality filters; original order is preserved.
// @Tags        Products
// @Produce     json
//
// @Param       category  query  string  false "Category filter (case-insensitive exact match)"  example(kitchen)
// @Param       inStock   query  bool    false "Availability filter"
// @Param       page      query  int     false "Page number"     minimum(1) default(1)
// @Param       limit     query  int     false "Items per page"  minimum(1) maximum(100) default(10)
//
// @Success     200  {object} handlers.ListProductsResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Router      /products [get]
func (h *Handlers) ListProducts(c *gin.Context) {
	page, limit := clampPagination(c)

	f := store.Filter{Category: strings.TrimSpace(c.Query("category"))}
	if raw, present := c.GetQuery("inStock"); present {
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			h.respondError(c, apperr.BadRequest("inStock filter must be true or false"))
			return
		}
		f.InStock = &v
	}

	res := h.svc.List(f, page, limit)
	ok(c, http.StatusOK, ListProductsResponse{
		Products: res.Items,
		Pagination: Pagination{
			Page:       res.Page,
			Limit:      res.Limit,
			Total:      res.Total,
			TotalPages: res.TotalPages,
			HasNext:    res.Page < res.TotalPages,
		},
	})
}

// SearchProducts godoc
// @ID          searchProducts
// @Summary     Search products
// @Description Case-insensitive substring match against product names and
// @Description descriptions, preserving original order.
// @Tags        Products
// @Produce     json
//
// @Param       q  query  string  true "Search query"  example(laptop)
//
// @Success     200  {object} handlers.SearchProductsResponse
// @Failure     400  {object} handlers.ErrorResponse "Missing query"
// @Router      /products/search [get]
func (h *Handlers) SearchProducts(c *gin.Context) {
	res, err := h.svc.Search(c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, SearchProductsResponse{
		Query:   res.Query,
		Total:   res.Total,
		Results: res.Results,
	})
}

// GetStats godoc
// @ID          getProductStats
// @Summary     Collection statistics
// @Description Totals, availability split, per-category counts, and price
// @Description min/max/average over the full collection.
// @Tags        Products
// @Produce     json
//
// @Success     200  {object} store.Stats
// @Router      /products/stats [get]
func (h *Handlers) GetStats(c *gin.Context) {
	ok(c, http.StatusOK, h.svc.Stats())
}

// GetProduct godoc
// @ID          getProduct
// @Summary     Fetch a product
// @Tags        Products
// @Produce     json
//
// @Param       id  path  string  true "Product ID"  example(1)
//
// @Success     200  {object} domain.Product
// @Failure     404  {object} handlers.ErrorResponse "Product not found"
// @Router      /products/{id} [get]
func (h *Handlers) GetProduct(c *gin.Context) {
	p, err := h.svc.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// CreateProduct godoc
// @ID          createProduct
// @Summary     Create a product
// @Description Validates all fields (accumulating every violation) and
// @Description appends the product to the catalog with a generated id.
// @Tags        Products
// @Accept      json
// @Produce     json
//
// @Param       X-API-Key  header  string  true "API key"
// @Param       body       body    handlers.CreateProductRequest  true  "Create payload"
//
// @Success     201  {object} handlers.MutationResponse
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid API key"
// @Router      /products [post]
func (h *Handlers) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := decodeBody(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	p, err := h.svc.Create(services.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		InStock:     req.InStock,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusCreated, MutationResponse{
		Message: "Product created successfully",
		Product: p,
	})
}

// UpdateProduct godoc
// @ID          updateProduct
// @Summary     Update a product
// @Description Merges the present fields over the stored record. Absent
// @Description fields are retained and the id is never changed.
// @Tags        Products
// @Accept      json
// @Produce     json
//
// @Param       X-API-Key  header  string  true "API key"
// @Param       id         path    string  true "Product ID"  example(1)
// @Param       body       body    handlers.UpdateProductRequest  true  "Partial payload"
//
// @Success     200  {object} handlers.MutationResponse
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid API key"
// @Failure     404  {object} handlers.ErrorResponse "Product not found"
// @Router      /products/{id} [put]
func (h *Handlers) UpdateProduct(c *gin.Context) {
	var req UpdateProductRequest
	if err := decodeBody(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	p, err := h.svc.Update(c.Param("id"), services.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		InStock:     req.InStock,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, MutationResponse{
		Message: "Product updated successfully",
		Product: p,
	})
}

// DeleteProduct godoc
// @ID          deleteProduct
// @Summary     Delete a product
// @Tags        Products
// @Produce     json
//
// @Param       X-API-Key  header  string  true "API key"
// @Param       id         path    string  true "Product ID"  example(1)
//
// @Success     200  {object} handlers.MutationResponse
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid API key"
// @Failure     404  {object} handlers.ErrorResponse "Product not found"
// @Router      /products/{id} [delete]
func (h *Handlers) DeleteProduct(c *gin.Context) {
	p, err := h.svc.Delete(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, MutationResponse{
		Message: "Product deleted successfully",
		Product: p,
	})
}
