package transport

import "time"

type CartLineRequest struct {
	CostumeID      uint   `json:"id"`
	Count          int    `json:"count"`
	Size           string `json:"size"`
	PurchaseType   string `json:"selectedPurchaseType"`
	RentalDuration *int   `json:"rentalDuration"`
}

type ReplaceCartRequest struct {
	Cart []CartLineRequest `json:"cart"`
}

type CartLineView struct {
	ID             uint    `json:"id"`
	CostumeID      uint    `json:"costumeId"`
	Name           string  `json:"name"`
	Image          string  `json:"image,omitempty"`
	Count          int     `json:"count"`
	Price          float64 `json:"price"`
	Subtotal       float64 `json:"subtotal"`
	Size           string  `json:"size"`
	Type           string  `json:"type"`
	RentalDuration *int    `json:"rentalDuration,omitempty"`
}

type CartView struct {
	AccountID  uint           `json:"accountId"`
	Size       string         `json:"size"`
	Type       string         `json:"type"`
	Lines      []CartLineView `json:"products"`
	TotalPrice float64        `json:"cartTotal"`
}

// PaymentConfirmation is what the client relays from the payment provider
// after a successful charge. Amount is in minor units.
type PaymentConfirmation struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Status   string `json:"status"`
	Currency string `json:"currency"`
}

type CheckoutRequest struct {
	PaymentIntent PaymentConfirmation `json:"paymentIntent"`
}

type RentalView struct {
	OrderID      uint       `json:"orderId"`
	Username     string     `json:"username"`
	Product      string     `json:"product"`
	Size         string     `json:"size"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	RentalStatus *string    `json:"rentalStatus"`
}

type ReturnRentalRequest struct {
	OrderID uint `json:"orderId"`
}

type RentalStatusRequest struct {
	RentalStatus string `json:"rentalStatus"`
}

type OrderStatusRequest struct {
	OrderID     uint   `json:"orderId"`
	OrderStatus string `json:"orderStatus"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token   string         `json:"token"`
	Payload SessionPayload `json:"payload"`
}

type SessionPayload struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type AddressRequest struct {
	Address string `json:"address"`
}

type ChangeStatusRequest struct {
	ID      uint  `json:"id"`
	Enabled *bool `json:"enabled"`
}

type ChangeRoleRequest struct {
	ID   uint   `json:"id"`
	Role string `json:"role"`
}

type ImageInput struct {
	AssetID   string `json:"asset_id"`
	URL       string `json:"url"`
	SecureURL string `json:"secure_url"`
}

type CreateCostumeRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	SalePrice   float64      `json:"salePrice"`
	RentalPrice float64      `json:"rentalPrice"`
	Available   *bool        `json:"available"`
	Quantity    int          `json:"quantity"`
	Sizes       []string     `json:"sizes"`
	CategoryID  *uint        `json:"categoryId"`
	Images      []ImageInput `json:"images"`
}

type PatchCostumeRequest struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	SalePrice   *float64     `json:"salePrice"`
	RentalPrice *float64     `json:"rentalPrice"`
	Available   *bool        `json:"available"`
	Quantity    *int         `json:"quantity"`
	Sizes       []string     `json:"sizes"`
	CategoryID  *uint        `json:"categoryId"`
	Images      []ImageInput `json:"images"`
}

type CostumeFilter struct {
	Query      string    `json:"query"`
	Categories []uint    `json:"category"`
	Price      []float64 `json:"price"`
}

type CategoryRequest struct {
	Name string `json:"name"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}
