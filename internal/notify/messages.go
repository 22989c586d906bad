package notify

import (
	"fmt"

	"pawnshop-service/internal/models"
)

// Message formatters produce the human-readable summary pushed for each
// contract lifecycle event.

// ContractCreatedMessage summarizes a newly written contract
func ContractCreatedMessage(e *models.ContractCreatedEvent) string {
	return fmt.Sprintf(
		"New contract %s\nCustomer: %s\nItem: %s\nAmount: %.2f\nDue: %s",
		e.ContractNumber, e.CustomerName, e.ProductName, e.PawnAmount, e.EndDate)
}

// ContractRenewedMessage summarizes a due-date extension
func ContractRenewedMessage(e *models.ContractRenewedEvent) string {
	return fmt.Sprintf(
		"Contract %s renewed\nFee: %.2f\nNew due date: %s",
		e.ContractNumber, e.FeeAmount, e.NewEndDate)
}

// ContractRedeemedMessage summarizes a payoff
func ContractRedeemedMessage(e *models.ContractRedeemedEvent) string {
	return fmt.Sprintf(
		"Contract %s redeemed\nAmount: %.2f\nDate: %s",
		e.ContractNumber, e.Amount, e.RedemptionDate)
}

// ContractForfeitedMessage summarizes an overdue contract
func ContractForfeitedMessage(e *models.ContractForfeitedEvent) string {
	return fmt.Sprintf(
		"Contract %s is overdue\nDue date: %s\nDays overdue: %d",
		e.ContractNumber, e.EndDate, e.OverdueDays)
}
