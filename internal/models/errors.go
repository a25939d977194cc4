package models

// Codes d'erreur métier, stables côté API.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeForbidden         = "FORBIDDEN"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodePersistence       = "PERSISTENCE_ERROR"
)

// DomainError porte un code machine et un message utilisateur.
// Les handlers mappent le code vers le statut HTTP.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func newDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Erreurs sentinelles du domaine. Les messages destinés au client sont
// renvoyés tels quels par les handlers.
var (
	ErrNegativeQuantity  = newDomainError(CodeValidation, "Quantity cannot be negative")
	ErrInvalidQuantity   = newDomainError(CodeValidation, "Quantity must be at least 1")
	ErrInsufficientStock = newDomainError(CodeInsufficientStock, "Insufficient stock")

	ErrCartEmpty    = newDomainError(CodeValidation, "Cart is empty")
	ErrCartNotFound = newDomainError(CodeNotFound, "Cart not found")

	ErrInvalidPayment = newDomainError(CodeValidation, "Invalid payment method")

	ErrOrderNotFound  = newDomainError(CodeNotFound, "Order not found")
	ErrNotOrderOwner  = newDomainError(CodeForbidden, "You do not have access to this order")
	ErrNotCancellable = newDomainError(CodeConflict, "Order can no longer be cancelled")
	ErrNotRefundable  = newDomainError(CodeConflict, "Order is not eligible for refund")
	ErrRefundTooLarge = newDomainError(CodeValidation, "Refund amount exceeds order total")
)
