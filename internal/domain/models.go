// Package domain defines the product entity managed by this service and the
// fixed seed set loaded at process start. The store operates on these types;
// no persistence layer exists, so the structs carry plain JSON tags only.
package domain

// Product is the single resource exposed by the API.
//
// Fields:
//   - ID: opaque unique identifier, assigned on creation and immutable after.
//     Seed entries use small numeric strings; created entries use UUIDs.
//   - Name / Description / Category: non-empty strings (whitespace-trimmed).
//   - Price: strictly positive.
//   - InStock: current availability flag.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	InStock     bool    `json:"inStock"`
}

// SeedProducts returns the initial catalog loaded on startup. Each call
// returns a fresh slice so callers can mutate their copy freely.
func SeedProducts() []Product {
	return []Product{
		{
			ID:          "1",
			Name:        "Laptop",
			Description: "High-performance laptop with 16GB RAM",
			Price:       999.99,
			Category:    "electronics",
			InStock:     true,
		},
		{
			ID:          "2",
			Name:        "Smartphone",
			Description: "Latest model smartphone with 5G",
			Price:       699.99,
			Category:    "electronics",
			InStock:     false,
		},
		{
			ID:          "3",
			Name:        "Coffee Mug",
			Description: "Ceramic mug with company logo",
			Price:       12.99,
			Category:    "kitchen",
			InStock:     true,
		},
	}
}
