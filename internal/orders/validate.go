package orders

import "github.com/ariefcatur/go-shop-orders/internal/apperr"

func validateRequest(userID int64, items []ItemRequest) error {
	if userID <= 0 {
		return apperr.New(apperr.CodeInvalidInput, "Invalid user")
	}
	if len(items) == 0 {
		return apperr.New(apperr.CodeInvalidInput, "Order must contain at least one item")
	}
	for i, it := range items {
		switch {
		case it.ProductID <= 0:
			return apperr.Newf(apperr.CodeInvalidInput, "Item %d: invalid product ID", i)
		case !it.Size.Valid():
			return apperr.Newf(apperr.CodeInvalidInput, "Item %d: size must be one of S, M, L", i)
		case it.Quantity <= 0:
			return apperr.Newf(apperr.CodeInvalidInput, "Item %d: quantity must be greater than 0", i)
		case it.UnitPrice.IsNegative():
			return apperr.Newf(apperr.CodeInvalidInput, "Item %d: price must not be negative", i)
		case !it.UnitPrice.Equal(it.UnitPrice.Round(2)):
			return apperr.Newf(apperr.CodeInvalidInput, "Item %d: price must be in whole cents", i)
		}
	}
	return nil
}
