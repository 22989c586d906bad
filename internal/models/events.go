package models

import "time"

// Event types
const (
	EventTypeContractCreated   = "CONTRACT_CREATED"
	EventTypeContractRenewed   = "CONTRACT_RENEWED"
	EventTypeContractRedeemed  = "CONTRACT_REDEEMED"
	EventTypeContractForfeited = "CONTRACT_FORFEITED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ContractCreatedEvent published when a new pawn contract is written
type ContractCreatedEvent struct {
	BaseEvent
	ContractID     int64   `json:"contract_id"`
	ContractNumber string  `json:"contract_number"`
	CustomerName   string  `json:"customer_name"`
	ProductName    string  `json:"product_name"`
	PawnAmount     float64 `json:"pawn_amount"`
	EndDate        string  `json:"end_date"`
}

// ContractRenewedEvent published when a contract's due date is extended
type ContractRenewedEvent struct {
	BaseEvent
	ContractID     int64   `json:"contract_id"`
	ContractNumber string  `json:"contract_number"`
	FeeAmount      float64 `json:"fee_amount"`
	NewEndDate     string  `json:"new_end_date"`
}

// ContractRedeemedEvent published when a contract is paid off
type ContractRedeemedEvent struct {
	BaseEvent
	ContractID     int64   `json:"contract_id"`
	ContractNumber string  `json:"contract_number"`
	Amount         float64 `json:"amount"`
	RedemptionDate string  `json:"redemption_date"`
}

// ContractForfeitedEvent published when an overdue contract is detected
type ContractForfeitedEvent struct {
	BaseEvent
	ContractID     int64  `json:"contract_id"`
	ContractNumber string `json:"contract_number"`
	EndDate        string `json:"end_date"`
	OverdueDays    int    `json:"overdue_days"`
}
