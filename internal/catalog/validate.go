package catalog

import (
	"net/url"
	"strings"

	"github.com/ariefcatur/go-shop-orders/internal/apperr"
)

func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.New(apperr.CodeInvalidInput, "Product name is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return apperr.New(apperr.CodeInvalidInput, "Product description is required")
	}
	if in.Price.IsNegative() {
		return apperr.New(apperr.CodeInvalidInput, "Price must be a non-negative number")
	}
	if !validURL(in.ImageURL) {
		return apperr.New(apperr.CodeInvalidInput, "Image URL must be valid")
	}
	return nil
}

func (p ProductPatch) Validate() error {
	if p.Name == nil && p.Description == nil && p.Price == nil && p.ImageURL == nil && p.Category == nil {
		return apperr.New(apperr.CodeInvalidInput, "No fields to update")
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return apperr.New(apperr.CodeInvalidInput, "Product name is required")
	}
	if p.Price != nil && p.Price.IsNegative() {
		return apperr.New(apperr.CodeInvalidInput, "Price must be a non-negative number")
	}
	if p.ImageURL != nil && !validURL(*p.ImageURL) {
		return apperr.New(apperr.CodeInvalidInput, "Image URL must be valid")
	}
	return nil
}

func validURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
