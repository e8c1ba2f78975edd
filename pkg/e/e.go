package e

import "fmt"

var (
	// Внутренние ошибки
	ErrTransactionNotFound  = fmt.Errorf("transaction not found")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
	ErrInternalServerError  = fmt.Errorf("internal server error")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrExpectedJSON         = fmt.Errorf("expected application/json body")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrProductNameRequired  = fmt.Errorf("product name is required")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrCustomerNameRequired = fmt.Errorf("customer name is required")
	ErrPhoneRequired        = fmt.Errorf("phone number is required")
	ErrNoItems              = fmt.Errorf("order has no items")
	ErrInvalidItems         = fmt.Errorf("every item needs a product, a positive quantity and a positive price")
	ErrInvalidID            = fmt.Errorf("invalid id")
	ErrTooManyImages        = fmt.Errorf("too many images")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrInvalidTotal         = fmt.Errorf("total must be positive")

	// 401 Unauthorized
	ErrUnauthorized = fmt.Errorf("unauthorized")

	// 404 Not Found
	ErrOrderNotFound   = fmt.Errorf("order not found")
	ErrProductNotFound = fmt.Errorf("product not found")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
