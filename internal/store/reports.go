package store

import (
	"context"
	"fmt"

	"pawnshop-service/internal/models"
)

// GetDailySummary aggregates contracts written, interest collected and
// redemptions taken on one calendar day. Empty days come back as zeros.
func (s *Store) GetDailySummary(ctx context.Context, date string) (*models.DailySummary, error) {
	summary := models.DailySummary{Date: date}

	err := s.db.GetContext(ctx, &summary, `
		SELECT
			(SELECT COUNT(*) FROM contracts WHERE start_date = ?) AS contract_count,
			(SELECT COALESCE(SUM(pawn_amount), 0) FROM contracts WHERE start_date = ?) AS contract_amount,
			(SELECT COUNT(*) FROM interest_payments WHERE payment_date = ?) AS interest_count,
			(SELECT COALESCE(SUM(total_amount), 0) FROM interest_payments WHERE payment_date = ?) AS interest_amount,
			(SELECT COUNT(*) FROM redemptions WHERE redemption_date = ?) AS redemption_count,
			(SELECT COALESCE(SUM(amount), 0) FROM redemptions WHERE redemption_date = ?) AS redemption_amount`,
		date, date, date, date, date, date)
	if err != nil {
		return nil, err
	}

	summary.Date = date
	return &summary, nil
}

// GetMonthlySummary aggregates the same figures over a calendar month
func (s *Store) GetMonthlySummary(ctx context.Context, year, month int) (*models.MonthlySummary, error) {
	// Business dates are stored as YYYY-MM-DD text, so a month is a prefix match.
	prefix := fmt.Sprintf("%04d-%02d%%", year, month)

	var row models.DailySummary
	err := s.db.GetContext(ctx, &row, `
		SELECT
			(SELECT COUNT(*) FROM contracts WHERE start_date LIKE ?) AS contract_count,
			(SELECT COALESCE(SUM(pawn_amount), 0) FROM contracts WHERE start_date LIKE ?) AS contract_amount,
			(SELECT COUNT(*) FROM interest_payments WHERE payment_date LIKE ?) AS interest_count,
			(SELECT COALESCE(SUM(total_amount), 0) FROM interest_payments WHERE payment_date LIKE ?) AS interest_amount,
			(SELECT COUNT(*) FROM redemptions WHERE redemption_date LIKE ?) AS redemption_count,
			(SELECT COALESCE(SUM(amount), 0) FROM redemptions WHERE redemption_date LIKE ?) AS redemption_amount`,
		prefix, prefix, prefix, prefix, prefix, prefix)
	if err != nil {
		return nil, err
	}

	return &models.MonthlySummary{
		Year:             year,
		Month:            month,
		ContractCount:    row.ContractCount,
		ContractAmount:   row.ContractAmount,
		InterestCount:    row.InterestCount,
		InterestAmount:   row.InterestAmount,
		RedemptionCount:  row.RedemptionCount,
		RedemptionAmount: row.RedemptionAmount,
	}, nil
}
