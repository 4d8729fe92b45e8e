package domain

const (
	PurchaseTypeSale   = "PURCHASE"
	PurchaseTypeRental = "RENTAL"
)

const (
	RentalStatusRented   = "Rented"
	RentalStatusReturned = "Returned"
	RentalStatusOverdue  = "Overdue"
)

const (
	OrderStatusNotProcessed = "Not Process"
	OrderStatusProcessing   = "Processing"
	OrderStatusCompleted    = "Completed"
	OrderStatusCancelled    = "Cancelled"
	OrderStatusReturned     = "Returned"
)

const DefaultCurrency = "thb"

// NormalizePurchaseType maps an empty type to PURCHASE and reports whether t is known.
func NormalizePurchaseType(t string) (string, bool) {
	switch t {
	case "", PurchaseTypeSale:
		return PurchaseTypeSale, true
	case PurchaseTypeRental:
		return PurchaseTypeRental, true
	default:
		return t, false
	}
}

func ValidRentalStatus(s string) bool {
	switch s {
	case RentalStatusRented, RentalStatusReturned, RentalStatusOverdue:
		return true
	}
	return false
}

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusNotProcessed, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled, OrderStatusReturned:
		return true
	}
	return false
}
