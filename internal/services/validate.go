// Package services – input validation
//
// Field validation for product payloads. Constraints are checked
// independently (never short-circuited) so a caller sees every violation at
// once, in field order: name, description, price, category, then inStock.
// Whitespace-only strings count as empty.
package services

import "strings"

// Violation messages for create payloads, where every field is required.
const (
	msgNameRequired        = "Name is required and must be a non-empty string"
	msgDescriptionRequired = "Description is required and must be a non-empty string"
	msgPriceRequired       = "Price is required and must be a positive number"
	msgCategoryRequired    = "Category is required and must be a non-empty string"
)

// Violation messages for update payloads, where fields are optional but must
// satisfy the same per-field constraint when present.
const (
	msgNameInvalid        = "Name must be a non-empty string"
	msgDescriptionInvalid = "Description must be a non-empty string"
	msgPriceInvalid       = "Price must be a positive number"
	msgCategoryInvalid    = "Category must be a non-empty string"
)

// validateCreate checks a create payload and returns the ordered violation
// list. Nil pointers mean the field was absent from the request body.
func validateCreate(in CreateProductInput) []string {
	var details []string
	if blank(in.Name) {
		details = append(details, msgNameRequired)
	}
	if blank(in.Description) {
		details = append(details, msgDescriptionRequired)
	}
	if in.Price == nil || *in.Price <= 0 {
		details = append(details, msgPriceRequired)
	}
	if blank(in.Category) {
		details = append(details, msgCategoryRequired)
	}
	return details
}

// validateUpdate checks an update payload: absent fields are not checked,
// present fields must pass the same constraints as on create. The inStock
// field needs no value check here because the typed request schema already
// guarantees it is a boolean when present.
func validateUpdate(in UpdateProductInput) []string {
	var details []string
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		details = append(details, msgNameInvalid)
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) == "" {
		details = append(details, msgDescriptionInvalid)
	}
	if in.Price != nil && *in.Price <= 0 {
		details = append(details, msgPriceInvalid)
	}
	if in.Category != nil && strings.TrimSpace(*in.Category) == "" {
		details = append(details, msgCategoryInvalid)
	}
	return details
}

// blank reports whether an optional string is absent or whitespace-only.
func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
