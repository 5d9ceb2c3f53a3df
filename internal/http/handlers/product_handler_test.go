package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-product-api/internal/domain"
	"github.com/tbourn/go-product-api/internal/services"
	"github.com/tbourn/go-product-api/internal/store"
)

// ---------- wiring helpers ----------

// newRouter returns an engine with the product routes mounted on a real
// service over a freshly seeded store (no middleware; handler-level tests).
func newRouter(t *testing.T) (*gin.Engine, *store.ProductStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New(domain.SeedProducts())
	h := New(services.NewProductService(st), false)

	r := gin.New()
	r.GET("/products", h.ListProducts)
	r.GET("/products/search", h.SearchProducts)
	r.GET("/products/stats", h.GetStats)
	r.GET("/products/:id", h.GetProduct)
	r.POST("/products", h.CreateProduct)
	r.PUT("/products/:id", h.UpdateProduct)
	r.DELETE("/products/:id", h.DeleteProduct)
	return r, st
}

func do(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v body=%s", err, w.Body.String())
	}
	return out
}

// ---------- helpers-only tests ----------

func Test_clampPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=-5&limit=9999", nil)
	p, l := clampPagination(c)
	if p != 1 || l != 100 {
		t.Fatalf("clamp bounds got p=%d l=%d", p, l)
	}

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=&limit=0", nil)
	p, l = clampPagination(c)
	if p != 1 || l != 10 {
		t.Fatalf("clamp defaults got p=%d l=%d", p, l)
	}
}

func Test_typeErrorDetail(t *testing.T) {
	if got := typeErrorDetail("price"); got != "Price must be a positive number" {
		t.Fatalf("price: %q", got)
	}
	if got := typeErrorDetail("inStock"); got != "InStock must be a boolean" {
		t.Fatalf("inStock: %q", got)
	}
	if got := typeErrorDetail("unknown"); got != "" {
		t.Fatalf("unknown: %q", got)
	}
}

// ---------- ListProducts ----------

func TestListProducts_FiltersAndPagination(t *testing.T) {
	r, _ := newRouter(t)

	// Unfiltered default page.
	{
		w := do(r, http.MethodGet, "/products", "")
		if w.Code != http.StatusOK {
			t.Fatalf("list -> %d", w.Code)
		}
		resp := decode[ListProductsResponse](t, w)
		if resp.Pagination.Total != 3 || resp.Pagination.TotalPages != 1 ||
			resp.Pagination.Page != 1 || resp.Pagination.Limit != 10 {
			t.Fatalf("pagination: %+v", resp.Pagination)
		}
		if len(resp.Products) != 3 || resp.Products[0].ID != "1" {
			t.Fatalf("products: %+v", resp.Products)
		}
	}

	// Case-insensitive category filter returns exactly the Coffee Mug.
	{
		w := do(r, http.MethodGet, "/products?category=KITCHEN", "")
		resp := decode[ListProductsResponse](t, w)
		if resp.Pagination.Total != 1 || len(resp.Products) != 1 ||
			resp.Products[0].Name != "Coffee Mug" {
			t.Fatalf("kitchen filter: %+v", resp)
		}
	}

	// inStock filter.
	{
		w := do(r, http.MethodGet, "/products?inStock=false", "")
		resp := decode[ListProductsResponse](t, w)
		if resp.Pagination.Total != 1 || resp.Products[0].Name != "Smartphone" {
			t.Fatalf("inStock=false: %+v", resp)
		}
	}

	// Out-of-range page: empty data slice, totals intact.
	{
		w := do(r, http.MethodGet, "/products?page=42", "")
		resp := decode[ListProductsResponse](t, w)
		if len(resp.Products) != 0 || resp.Pagination.Total != 3 {
			t.Fatalf("out-of-range page: %+v", resp)
		}
	}

	// Unparsable inStock value is rejected.
	{
		w := do(r, http.MethodGet, "/products?inStock=maybe", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("inStock=maybe -> %d", w.Code)
		}
		resp := decode[ErrorResponse](t, w)
		if !strings.Contains(resp.Error, "inStock") {
			t.Fatalf("error: %q", resp.Error)
		}
	}
}

// ---------- GetProduct ----------

func TestGetProduct_FoundAndMissing(t *testing.T) {
	r, _ := newRouter(t)

	w := do(r, http.MethodGet, "/products/2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get -> %d", w.Code)
	}
	p := decode[domain.Product](t, w)
	if p.ID != "2" || p.Name != "Smartphone" {
		t.Fatalf("product: %+v", p)
	}

	w = do(r, http.MethodGet, "/products/999", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("get 999 -> %d", w.Code)
	}
	resp := decode[ErrorResponse](t, w)
	if resp.Error != "Product not found" {
		t.Fatalf("error: %q", resp.Error)
	}
}

// ---------- CreateProduct ----------

func TestCreateProduct(t *testing.T) {
	r, st := newRouter(t)

	// Empty body: all four required-field violations reported together.
	{
		w := do(r, http.MethodPost, "/products", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("empty body -> %d", w.Code)
		}
		resp := decode[ErrorResponse](t, w)
		if len(resp.Details) != 4 {
			t.Fatalf("details: %v", resp.Details)
		}
	}

	// `{}` behaves like an empty body.
	{
		w := do(r, http.MethodPost, "/products", "{}")
		resp := decode[ErrorResponse](t, w)
		if w.Code != http.StatusBadRequest || len(resp.Details) != 4 {
			t.Fatalf("empty object -> %d %v", w.Code, resp.Details)
		}
	}

	// Malformed JSON.
	{
		w := do(r, http.MethodPost, "/products", "{bad")
		resp := decode[ErrorResponse](t, w)
		if w.Code != http.StatusBadRequest || resp.Error != "Invalid request body" {
			t.Fatalf("bad json -> %d %q", w.Code, resp.Error)
		}
	}

	// Wrongly-typed price surfaces the field-specific violation.
	{
		w := do(r, http.MethodPost, "/products",
			`{"name":"X","description":"Y","price":"free","category":"misc"}`)
		resp := decode[ErrorResponse](t, w)
		if w.Code != http.StatusBadRequest ||
			len(resp.Details) != 1 || resp.Details[0] != "Price must be a positive number" {
			t.Fatalf("string price -> %d %v", w.Code, resp.Details)
		}
	}

	// Success: 201, generated id unique against the live collection.
	{
		w := do(r, http.MethodPost, "/products",
			`{"name":"Desk Lamp","description":"LED lamp","price":29.99,"category":"office","inStock":true}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("create -> %d body=%s", w.Code, w.Body.String())
		}
		resp := decode[MutationResponse](t, w)
		if resp.Message != "Product created successfully" {
			t.Fatalf("message: %q", resp.Message)
		}
		if resp.Product.ID == "" || resp.Product.ID == "1" || resp.Product.ID == "2" || resp.Product.ID == "3" {
			t.Fatalf("id: %q", resp.Product.ID)
		}
		if st.Len() != 4 {
			t.Fatalf("store len = %d", st.Len())
		}
	}
}

// ---------- UpdateProduct ----------

func TestUpdateProduct(t *testing.T) {
	r, _ := newRouter(t)

	// Negative price: exact violation message from the shared validator.
	{
		w := do(r, http.MethodPut, "/products/1", `{"price":-5}`)
		resp := decode[ErrorResponse](t, w)
		if w.Code != http.StatusBadRequest ||
			len(resp.Details) != 1 || resp.Details[0] != "Price must be a positive number" {
			t.Fatalf("negative price -> %d %v", w.Code, resp.Details)
		}
	}

	// Identifier is immutable even when the payload smuggles one in.
	{
		w := do(r, http.MethodPut, "/products/1", `{"id":"666","price":1099.99}`)
		if w.Code != http.StatusOK {
			t.Fatalf("update -> %d body=%s", w.Code, w.Body.String())
		}
		resp := decode[MutationResponse](t, w)
		if resp.Message != "Product updated successfully" {
			t.Fatalf("message: %q", resp.Message)
		}
		if resp.Product.ID != "1" || resp.Product.Price != 1099.99 || resp.Product.Name != "Laptop" {
			t.Fatalf("product: %+v", resp.Product)
		}
	}

	// Missing product.
	{
		w := do(r, http.MethodPut, "/products/999", `{"price":5}`)
		resp := decode[ErrorResponse](t, w)
		if w.Code != http.StatusNotFound || resp.Error != "Product not found" {
			t.Fatalf("update 999 -> %d %q", w.Code, resp.Error)
		}
	}
}

// ---------- DeleteProduct ----------

func TestDeleteProduct(t *testing.T) {
	r, st := newRouter(t)

	w := do(r, http.MethodDelete, "/products/3", "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete -> %d", w.Code)
	}
	resp := decode[MutationResponse](t, w)
	if resp.Message != "Product deleted successfully" || resp.Product.Name != "Coffee Mug" {
		t.Fatalf("delete response: %+v", resp)
	}
	if st.Len() != 2 {
		t.Fatalf("store len = %d", st.Len())
	}

	w = do(r, http.MethodDelete, "/products/999", "")
	errResp := decode[ErrorResponse](t, w)
	if w.Code != http.StatusNotFound || errResp.Error != "Product not found" {
		t.Fatalf("delete 999 -> %d %q", w.Code, errResp.Error)
	}
}

// ---------- SearchProducts ----------

func TestSearchProducts(t *testing.T) {
	r, _ := newRouter(t)

	// Missing query.
	{
		w := do(r, http.MethodGet, "/products/search", "")
		resp := decode[ErrorResponse](t, w)
		if w.Code != http.StatusBadRequest || resp.Error != "Search query is required" {
			t.Fatalf("missing q -> %d %q", w.Code, resp.Error)
		}
	}

	// Hit on description, case-insensitive, query echoed.
	{
		w := do(r, http.MethodGet, "/products/search?q=CERAMIC", "")
		resp := decode[SearchProductsResponse](t, w)
		if w.Code != http.StatusOK || resp.Query != "CERAMIC" || resp.Total != 1 ||
			resp.Results[0].Name != "Coffee Mug" {
			t.Fatalf("search: %+v", resp)
		}
	}

	// Every result contains the query in name or description.
	{
		w := do(r, http.MethodGet, "/products/search?q=with", "")
		resp := decode[SearchProductsResponse](t, w)
		if resp.Total != len(resp.Results) || resp.Total == 0 {
			t.Fatalf("search totals: %+v", resp)
		}
		for _, p := range resp.Results {
			hay := strings.ToLower(p.Name + " " + p.Description)
			if !strings.Contains(hay, "with") {
				t.Fatalf("result does not match query: %+v", p)
			}
		}
	}
}

// ---------- GetStats ----------

func TestGetStats(t *testing.T) {
	r, _ := newRouter(t)

	w := do(r, http.MethodGet, "/products/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("stats -> %d", w.Code)
	}
	resp := decode[store.Stats](t, w)
	if resp.TotalProducts != 3 || resp.InStock+resp.OutOfStock != resp.TotalProducts {
		t.Fatalf("stats: %+v", resp)
	}
	if resp.Categories["kitchen"] != 1 || resp.Categories["electronics"] != 2 {
		t.Fatalf("categories: %v", resp.Categories)
	}
	if resp.Price.Min != 12.99 || resp.Price.Max != 999.99 || resp.Price.Average <= 0 {
		t.Fatalf("price: %+v", resp.Price)
	}
}
