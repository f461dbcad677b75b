package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AuditInfo    = "info"
	AuditWarning = "warning"
	AuditSuccess = "success"
)

const (
	DefaultCustomerName = "Walk-in Customer"
	UnknownVendorName   = "Unknown"
	UncategorizedLabel  = "Uncategorized"
)

type Medicine struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Stock        int             `json:"stock"`
	Threshold    int             `json:"threshold"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	ExpiryDate   Date            `json:"expiryDate"`
	Manufacturer string          `json:"manufacturer"`
	VendorID     string          `json:"vendorId"`
}

type Vendor struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Contact      string  `json:"contact"`
	Email        string  `json:"email"`
	Rating       float64 `json:"rating"`
	DeliveryDays int     `json:"deliveryDays"`
}

type SaleItem struct {
	MedicineID   string          `json:"medicineId"`
	MedicineName string          `json:"medicineName"`
	Quantity     int             `json:"quantity"`
	PriceAtSale  decimal.Decimal `json:"priceAtSale"`
	CostAtSale   decimal.Decimal `json:"costAtSale"`
}

// LineTotal is priceAtSale x quantity.
func (i SaleItem) LineTotal() decimal.Decimal {
	return i.PriceAtSale.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineCost is costAtSale x quantity.
func (i SaleItem) LineCost() decimal.Decimal {
	return i.CostAtSale.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Sale struct {
	ID           string          `json:"id"`
	Date         time.Time       `json:"date"`
	CustomerName string          `json:"customerName"`
	Items        []SaleItem      `json:"items"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	TotalProfit  decimal.Decimal `json:"totalProfit"`
}

// ItemCount is the number of line entries on the sale.
func (s Sale) ItemCount() int {
	return len(s.Items)
}

type AppSettings struct {
	Currency    string `json:"currency"`
	Locale      string `json:"locale"`
	CountryName string `json:"countryName"`
}

type AuditLog struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Type      string    `json:"type"`
}

type OrderSuggestion struct {
	MedicineID    string          `json:"medicineId"`
	MedicineName  string          `json:"medicineName"`
	CurrentStock  int             `json:"currentStock"`
	SuggestedQty  int             `json:"suggestedQty"`
	VendorID      string          `json:"vendorId"`
	VendorName    string          `json:"vendorName"`
	EstimatedCost decimal.Decimal `json:"estimatedCost"`
	Reason        string          `json:"reason"`
}

type Actor struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type CartLine struct {
	MedicineID string `json:"medicineId"`
	Quantity   int    `json:"quantity"`
}

type CheckoutRequest struct {
	CustomerName string     `json:"customerName"`
	Items        []CartLine `json:"items"`
}

type MedicineCreateRequest struct {
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	Stock        int              `json:"stock"`
	Threshold    *int             `json:"threshold,omitempty"`
	CostPrice    *decimal.Decimal `json:"costPrice,omitempty"`
	SellingPrice *decimal.Decimal `json:"sellingPrice,omitempty"`
	ExpiryDate   *Date            `json:"expiryDate,omitempty"`
	Manufacturer string           `json:"manufacturer"`
	VendorID     string           `json:"vendorId"`
}

type MedicineUpdateRequest struct {
	Name         *string          `json:"name,omitempty"`
	Category     *string          `json:"category,omitempty"`
	Stock        *int             `json:"stock,omitempty"`
	Threshold    *int             `json:"threshold,omitempty"`
	CostPrice    *decimal.Decimal `json:"costPrice,omitempty"`
	SellingPrice *decimal.Decimal `json:"sellingPrice,omitempty"`
	ExpiryDate   *Date            `json:"expiryDate,omitempty"`
	Manufacturer *string          `json:"manufacturer,omitempty"`
	VendorID     *string          `json:"vendorId,omitempty"`
}

type StockAdjustRequest struct {
	Delta int `json:"delta"`
}

type StockAdjustResponse struct {
	MedicineID string `json:"medicineId"`
	Stock      int    `json:"stock"`
}

type LoginRequest struct {
	PIN string `json:"pin"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresAt   string `json:"expiresAt"`
}

type AssistantQuery struct {
	Query string `json:"query"`
}

type AssistantAnswer struct {
	Answer string `json:"answer"`
}

type RecommendationRequest struct {
	Items []CartLine `json:"items"`
}

type Recommendation struct {
	MedicineID   string          `json:"medicineId"`
	Name         string          `json:"name"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	ReasonCode   string          `json:"reasonCode"`
	Confidence   float64         `json:"confidence"`
}

type RecommendationResponse struct {
	Show           bool            `json:"show"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
}
