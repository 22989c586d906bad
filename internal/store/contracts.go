package store

import (
	"context"
	"database/sql"
	"fmt"

	"pawnshop-service/internal/models"
)

// CreateContract inserts a new contract and sets its ID. A duplicate
// contract number fails with ErrDuplicateContractNumber; callers rely on the
// unique constraint as the duplicate-submission guard rather than a
// check-then-insert.
func (s *Store) CreateContract(ctx context.Context, c *models.Contract) error {
	query := `
		INSERT INTO contracts (contract_number, customer_id, product_id, pawn_amount,
			interest_rate, fee_amount, total_paid, total_redemption,
			start_date, end_date, days_count, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, query,
		c.ContractNumber, c.CustomerID, c.ProductID, c.PawnAmount,
		c.InterestRate, c.FeeAmount, c.TotalPaid, c.TotalRedemption,
		c.StartDate, c.EndDate, c.DaysCount, c.Status)
	if err != nil {
		return mapUniqueErr(err)
	}

	c.ID, err = res.LastInsertId()
	return err
}

// GetContractByID retrieves a contract by ID
func (s *Store) GetContractByID(ctx context.Context, id int64) (*models.Contract, error) {
	var c models.Contract
	err := s.db.GetContext(ctx, &c, "SELECT * FROM contracts WHERE id = ?", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetContractByNumber retrieves a contract by its business key
func (s *Store) GetContractByNumber(ctx context.Context, number string) (*models.Contract, error) {
	var c models.Contract
	err := s.db.GetContext(ctx, &c, "SELECT * FROM contracts WHERE contract_number = ?", number)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateContract performs a full-row update keyed by ID. There is no
// optimistic concurrency token; last writer wins.
func (s *Store) UpdateContract(ctx context.Context, c *models.Contract) error {
	query := `
		UPDATE contracts
		SET contract_number = ?, customer_id = ?, product_id = ?, pawn_amount = ?,
			interest_rate = ?, fee_amount = ?, total_paid = ?, total_redemption = ?,
			start_date = ?, end_date = ?, days_count = ?, status = ?
		WHERE id = ?`

	res, err := s.db.ExecContext(ctx, query,
		c.ContractNumber, c.CustomerID, c.ProductID, c.PawnAmount,
		c.InterestRate, c.FeeAmount, c.TotalPaid, c.TotalRedemption,
		c.StartDate, c.EndDate, c.DaysCount, c.Status, c.ID)
	if err != nil {
		return mapUniqueErr(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchContracts returns contracts whose number, customer name or code, or
// product name matches term, filtered by status. status is one of
// "all", "active", "redeemed", "lost"; empty term matches everything.
func (s *Store) SearchContracts(ctx context.Context, term, status string) ([]models.Contract, error) {
	query := `
		SELECT c.* FROM contracts c
		JOIN customers cu ON cu.id = c.customer_id
		JOIN products p ON p.id = c.product_id
		WHERE 1=1`
	args := []interface{}{}

	if term != "" {
		pattern := "%" + term + "%"
		query += ` AND (c.contract_number LIKE ? OR cu.customer_code LIKE ?
			OR cu.first_name LIKE ? OR cu.last_name LIKE ? OR p.name LIKE ?)`
		args = append(args, pattern, pattern, pattern, pattern, pattern)
	}

	if status != "" && status != "all" {
		query += " AND c.status = ?"
		args = append(args, status)
	}

	query += " ORDER BY c.id"

	var contracts []models.Contract
	err := s.db.SelectContext(ctx, &contracts, query, args...)
	return contracts, err
}

// GetExpiringContracts returns active contracts whose end date falls within
// [today, today+days] inclusive. The secondary sort on id keeps ordering
// deterministic when several contracts share an end date.
func (s *Store) GetExpiringContracts(ctx context.Context, today string, days int) ([]models.Contract, error) {
	var contracts []models.Contract
	err := s.db.SelectContext(ctx, &contracts, `
		SELECT * FROM contracts
		WHERE status = ? AND end_date >= ? AND end_date <= date(?, '+' || ? || ' days')
		ORDER BY end_date, id`,
		models.ContractStatusActive, today, today, days)
	return contracts, err
}

// GetForfeitedContracts returns active contracts whose end date is strictly
// before today. A contract due today is expiring, not forfeited.
func (s *Store) GetForfeitedContracts(ctx context.Context, today string) ([]models.Contract, error) {
	var contracts []models.Contract
	err := s.db.SelectContext(ctx, &contracts, `
		SELECT * FROM contracts
		WHERE status = ? AND end_date < ?
		ORDER BY end_date, id`,
		models.ContractStatusActive, today)
	return contracts, err
}

// RedeemContract inserts the redemption row and flips the contract to
// redeemed in a single transaction. Redeeming a contract that is not active
// fails with ErrContractNotActive, so a second redeem cannot double-count.
func (s *Store) RedeemContract(ctx context.Context, r *models.Redemption) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status string
	err = tx.GetContext(ctx, &status, "SELECT status FROM contracts WHERE id = ?", r.ContractID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read contract status: %w", err)
	}
	if status != models.ContractStatusActive {
		return ErrContractNotActive
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO redemptions (contract_id, redemption_date, amount, notes) VALUES (?, ?, ?, ?)",
		r.ContractID, r.RedemptionDate, r.Amount, r.Notes)
	if err != nil {
		return fmt.Errorf("failed to insert redemption: %w", err)
	}
	if r.ID, err = res.LastInsertId(); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE contracts SET status = ?, total_redemption = ? WHERE id = ?",
		models.ContractStatusRedeemed, r.Amount, r.ContractID)
	if err != nil {
		return fmt.Errorf("failed to update contract status: %w", err)
	}

	return tx.Commit()
}

// MarkContractLost transitions an active contract to the terminal lost state
func (s *Store) MarkContractLost(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE contracts SET status = ? WHERE id = ? AND status = ?",
		models.ContractStatusLost, id, models.ContractStatusActive)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := s.GetContractByID(ctx, id); err != nil {
			return err
		}
		return ErrContractNotActive
	}
	return nil
}

// AddRenewal inserts a renewal row and, when moveEndDate is set, advances the
// contract's end date to the renewal's new end date in the same transaction.
func (s *Store) AddRenewal(ctx context.Context, r *models.Renewal, moveEndDate bool) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO renewals (contract_id, renewal_date, fee_amount, penalty_amount,
			discount_amount, total_amount, new_end_date, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ContractID, r.RenewalDate, r.FeeAmount, r.PenaltyAmount,
		r.DiscountAmount, r.TotalAmount, r.NewEndDate, r.Notes)
	if err != nil {
		return fmt.Errorf("failed to insert renewal: %w", err)
	}
	if r.ID, err = res.LastInsertId(); err != nil {
		return err
	}

	if moveEndDate {
		_, err = tx.ExecContext(ctx,
			"UPDATE contracts SET end_date = ? WHERE id = ?", r.NewEndDate, r.ContractID)
		if err != nil {
			return fmt.Errorf("failed to move end date: %w", err)
		}
	}

	return tx.Commit()
}

// AddInterestPayment inserts a payment row and accumulates the contract's
// total paid amount in the same transaction.
func (s *Store) AddInterestPayment(ctx context.Context, p *models.InterestPayment) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO interest_payments (contract_id, payment_date, amount, penalty_amount,
			discount_amount, total_amount, payment_type, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ContractID, p.PaymentDate, p.Amount, p.PenaltyAmount,
		p.DiscountAmount, p.TotalAmount, p.PaymentType, p.Notes)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE contracts SET total_paid = total_paid + ? WHERE id = ?",
		p.TotalAmount, p.ContractID)
	if err != nil {
		return fmt.Errorf("failed to update total paid: %w", err)
	}

	return tx.Commit()
}

// GetInterestPaymentsByContract lists payments for a contract, oldest first
func (s *Store) GetInterestPaymentsByContract(ctx context.Context, contractID int64) ([]models.InterestPayment, error) {
	var payments []models.InterestPayment
	err := s.db.SelectContext(ctx, &payments,
		"SELECT * FROM interest_payments WHERE contract_id = ? ORDER BY payment_date, id", contractID)
	return payments, err
}

// GetRenewalsByContract lists renewals for a contract, oldest first
func (s *Store) GetRenewalsByContract(ctx context.Context, contractID int64) ([]models.Renewal, error) {
	var renewals []models.Renewal
	err := s.db.SelectContext(ctx, &renewals,
		"SELECT * FROM renewals WHERE contract_id = ? ORDER BY renewal_date, id", contractID)
	return renewals, err
}

// GetRedemptionByContract returns the redemption for a contract, or nil when
// the contract has not been redeemed.
func (s *Store) GetRedemptionByContract(ctx context.Context, contractID int64) (*models.Redemption, error) {
	var r models.Redemption
	err := s.db.GetContext(ctx, &r,
		"SELECT * FROM redemptions WHERE contract_id = ? ORDER BY id LIMIT 1", contractID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteContract removes a contract unless payment, renewal or redemption
// rows still hang off it. Refusing beats silently orphaning children.
func (s *Store) DeleteContract(ctx context.Context, id int64) error {
	var children int
	err := s.db.GetContext(ctx, &children, `
		SELECT (SELECT COUNT(*) FROM interest_payments WHERE contract_id = ?)
			+ (SELECT COUNT(*) FROM renewals WHERE contract_id = ?)
			+ (SELECT COUNT(*) FROM redemptions WHERE contract_id = ?)`,
		id, id, id)
	if err != nil {
		return fmt.Errorf("failed to check child records: %w", err)
	}
	if children > 0 {
		return ErrHasChildren
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM contracts WHERE id = ?", id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// NextContractSequence returns max numeric suffix + 1 for contract numbers
// with the given prefix. Simple max+1 with no gap filling; single-operator
// deployments make the read-increment race acceptable.
func (s *Store) NextContractSequence(ctx context.Context, prefix string) (int, error) {
	var max int
	err := s.db.GetContext(ctx, &max,
		"SELECT COALESCE(MAX(CAST(SUBSTR(contract_number, ?) AS INTEGER)), 0) FROM contracts WHERE contract_number LIKE ? || '%'",
		len(prefix)+1, prefix)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// GetContractDetail resolves a contract with its customer, product and full
// payment/renewal/redemption history, as document generation consumes it.
func (s *Store) GetContractDetail(ctx context.Context, id int64) (*models.ContractDetail, error) {
	contract, err := s.GetContractByID(ctx, id)
	if err != nil {
		return nil, err
	}

	customer, err := s.GetCustomerByID(ctx, contract.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve customer: %w", err)
	}

	product, err := s.GetProductByID(ctx, contract.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}

	payments, err := s.GetInterestPaymentsByContract(ctx, id)
	if err != nil {
		return nil, err
	}

	renewals, err := s.GetRenewalsByContract(ctx, id)
	if err != nil {
		return nil, err
	}

	redemption, err := s.GetRedemptionByContract(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.ContractDetail{
		Contract:   *contract,
		Customer:   *customer,
		Product:    *product,
		Payments:   payments,
		Renewals:   renewals,
		Redemption: redemption,
	}, nil
}
