package models

import "time"

// DateLayout is the storage and wire format for business dates (date-only).
const DateLayout = "2006-01-02"

// Customer represents a pawnshop customer
type Customer struct {
	ID           int64     `db:"id" json:"id"`
	CustomerCode string    `db:"customer_code" json:"customer_code"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	IDCard       string    `db:"id_card" json:"id_card,omitempty"`
	HouseNumber  string    `db:"house_number" json:"house_number,omitempty"`
	Street       string    `db:"street" json:"street,omitempty"`
	Subdistrict  string    `db:"subdistrict" json:"subdistrict,omitempty"`
	District     string    `db:"district" json:"district,omitempty"`
	Province     string    `db:"province" json:"province,omitempty"`
	Phone        string    `db:"phone" json:"phone,omitempty"`
	Notes        string    `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Product represents a pawned item
type Product struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Brand        string    `db:"brand" json:"brand,omitempty"`
	Size         string    `db:"size" json:"size,omitempty"`
	Weight       float64   `db:"weight" json:"weight,omitempty"`
	WeightUnit   string    `db:"weight_unit" json:"weight_unit,omitempty"`
	SerialNumber string    `db:"serial_number" json:"serial_number,omitempty"`
	ImagePath    string    `db:"image_path" json:"image_path,omitempty"`
	Notes        string    `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Contract represents a pawn agreement between the shop and a customer
type Contract struct {
	ID              int64     `db:"id" json:"id"`
	ContractNumber  string    `db:"contract_number" json:"contract_number"`
	CustomerID      int64     `db:"customer_id" json:"customer_id"`
	ProductID       int64     `db:"product_id" json:"product_id"`
	PawnAmount      float64   `db:"pawn_amount" json:"pawn_amount"`
	InterestRate    float64   `db:"interest_rate" json:"interest_rate"`
	FeeAmount       float64   `db:"fee_amount" json:"fee_amount"`
	TotalPaid       float64   `db:"total_paid" json:"total_paid"`
	TotalRedemption float64   `db:"total_redemption" json:"total_redemption"`
	StartDate       string    `db:"start_date" json:"start_date"`
	EndDate         string    `db:"end_date" json:"end_date"`
	DaysCount       int       `db:"days_count" json:"days_count"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// InterestPayment records a dated interest payment against a contract
type InterestPayment struct {
	ID             int64     `db:"id" json:"id"`
	ContractID     int64     `db:"contract_id" json:"contract_id"`
	PaymentDate    string    `db:"payment_date" json:"payment_date"`
	Amount         float64   `db:"amount" json:"amount"`
	PenaltyAmount  float64   `db:"penalty_amount" json:"penalty_amount,omitempty"`
	DiscountAmount float64   `db:"discount_amount" json:"discount_amount,omitempty"`
	TotalAmount    float64   `db:"total_amount" json:"total_amount"`
	PaymentType    string    `db:"payment_type" json:"payment_type"`
	Notes          string    `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Redemption records the final payoff that closes a contract
type Redemption struct {
	ID             int64     `db:"id" json:"id"`
	ContractID     int64     `db:"contract_id" json:"contract_id"`
	RedemptionDate string    `db:"redemption_date" json:"redemption_date"`
	Amount         float64   `db:"amount" json:"amount"`
	Notes          string    `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Renewal records a due-date extension with its associated fee
type Renewal struct {
	ID             int64     `db:"id" json:"id"`
	ContractID     int64     `db:"contract_id" json:"contract_id"`
	RenewalDate    string    `db:"renewal_date" json:"renewal_date"`
	FeeAmount      float64   `db:"fee_amount" json:"fee_amount"`
	PenaltyAmount  float64   `db:"penalty_amount" json:"penalty_amount,omitempty"`
	DiscountAmount float64   `db:"discount_amount" json:"discount_amount,omitempty"`
	TotalAmount    float64   `db:"total_amount" json:"total_amount"`
	NewEndDate     string    `db:"new_end_date" json:"new_end_date"`
	Notes          string    `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Setting is a flat key-value configuration row
type Setting struct {
	Key   string `db:"key" json:"key"`
	Value string `db:"value" json:"value"`
}

// FeeRate maps a contract duration in months to a fee percentage
type FeeRate struct {
	ID          int64   `db:"id" json:"id"`
	Months      int     `db:"months" json:"months"`
	RatePercent float64 `db:"rate_percent" json:"rate_percent"`
}

// Contract statuses
const (
	ContractStatusActive   = "active"
	ContractStatusRedeemed = "redeemed"
	ContractStatusLost     = "lost"
)

// Payment types
const (
	PaymentTypeInterest = "interest"
	PaymentTypeOther    = "other"
)

// DailySummary aggregates a single calendar day of activity
type DailySummary struct {
	Date             string  `db:"date" json:"date"`
	ContractCount    int     `db:"contract_count" json:"contract_count"`
	ContractAmount   float64 `db:"contract_amount" json:"contract_amount"`
	InterestCount    int     `db:"interest_count" json:"interest_count"`
	InterestAmount   float64 `db:"interest_amount" json:"interest_amount"`
	RedemptionCount  int     `db:"redemption_count" json:"redemption_count"`
	RedemptionAmount float64 `db:"redemption_amount" json:"redemption_amount"`
}

// MonthlySummary aggregates a calendar month of activity
type MonthlySummary struct {
	Year             int     `json:"year"`
	Month            int     `json:"month"`
	ContractCount    int     `json:"contract_count"`
	ContractAmount   float64 `json:"contract_amount"`
	InterestCount    int     `json:"interest_count"`
	InterestAmount   float64 `json:"interest_amount"`
	RedemptionCount  int     `json:"redemption_count"`
	RedemptionAmount float64 `json:"redemption_amount"`
}

// ContractDetail is a fully resolved contract record, as consumed by
// document generation and notification formatting
type ContractDetail struct {
	Contract   Contract          `json:"contract"`
	Customer   Customer          `json:"customer"`
	Product    Product           `json:"product"`
	Payments   []InterestPayment `json:"payments"`
	Renewals   []Renewal         `json:"renewals"`
	Redemption *Redemption       `json:"redemption,omitempty"`
}

// Well-known setting keys
const (
	SettingContractPrefix      = "contract_prefix"
	SettingCustomerPrefix      = "customer_prefix"
	SettingDefaultDays         = "default_days"
	SettingDefaultInterestRate = "default_interest_rate"
)
