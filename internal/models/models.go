package models

import (
	"time"
)

type Account struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"not null" json:"role"`
	Enabled      bool      `gorm:"not null" json:"enabled"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Category struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Costume struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	SalePrice   float64   `gorm:"not null" json:"salePrice"`
	RentalPrice float64   `gorm:"not null" json:"rentalPrice"`
	Available   bool      `gorm:"not null" json:"available"`
	Quantity    int       `gorm:"not null;check:quantity >= 0" json:"quantity"`
	Sold        int       `gorm:"not null;default:0" json:"sold"`
	Sizes       string    `json:"sizes"`
	CategoryID  *uint     `gorm:"index" json:"categoryId"`
	Category    *Category `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Images      []Image   `gorm:"constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Costume) TableName() string { return "costumes" }

type Image struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	CostumeID uint   `gorm:"index;not null" json:"costumeId"`
	AssetID   string `json:"assetId"`
	URL       string `gorm:"not null" json:"url"`
	SecureURL string `json:"secureUrl"`
}

type Cart struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID  uint       `gorm:"uniqueIndex;not null" json:"accountId"`
	TotalPrice float64    `gorm:"not null" json:"totalPrice"`
	Size       string     `json:"size"`
	Type       string     `json:"type"`
	Lines      []CartLine `gorm:"foreignKey:CartID" json:"lines"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type CartLine struct {
	ID             uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID         uint     `gorm:"index;not null" json:"cartId"`
	CostumeID      uint     `gorm:"index;not null" json:"costumeId"`
	Costume        *Costume `gorm:"foreignKey:CostumeID" json:"costume,omitempty"`
	Count          int      `gorm:"not null;check:count >= 1" json:"count"`
	Price          float64  `gorm:"not null" json:"price"`
	Size           string   `json:"size"`
	Type           string   `gorm:"not null" json:"type"`
	RentalDuration *int     `json:"rentalDuration,omitempty"`
}

type Order struct {
	ID            uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID     uint        `gorm:"index;not null" json:"accountId"`
	Account       *Account    `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	TotalPrice    float64     `gorm:"not null" json:"totalPrice"`
	PaymentRef    string      `gorm:"uniqueIndex;not null" json:"paymentRef"`
	Amount        float64     `gorm:"not null" json:"amount"`
	PaymentStatus string      `json:"paymentStatus"`
	Currency      string      `gorm:"not null" json:"currency"`
	Status        string      `gorm:"not null" json:"status"`
	Lines         []OrderLine `gorm:"foreignKey:OrderID" json:"lines"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

type OrderLine struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID         uint       `gorm:"index;not null" json:"orderId"`
	CostumeID       uint       `gorm:"index;not null" json:"costumeId"`
	Name            string     `json:"name"`
	Count           int        `gorm:"not null" json:"count"`
	Price           float64    `gorm:"not null" json:"price"`
	Size            string     `json:"size"`
	Type            string     `gorm:"not null" json:"type"`
	RentalDuration  *int       `json:"rentalDuration,omitempty"`
	RentalStartDate *time.Time `json:"rentalStartDate,omitempty"`
	RentalEndDate   *time.Time `json:"rentalEndDate,omitempty"`
	RentalStatus    *string    `gorm:"index" json:"rentalStatus"`
}

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&Account{},
		&Category{},
		&Costume{},
		&Image{},
		&Cart{},
		&CartLine{},
		&Order{},
		&OrderLine{},
	}
}
