package store

import (
	"context"
	"database/sql"
	"fmt"

	"pawnshop-service/internal/models"
)

// id_card is nullable in the schema so that the unique index permits any
// number of customers without a card on file. Empty string maps to NULL on
// write and back to empty string on read.
const customerCols = `id, customer_code, first_name, last_name,
	COALESCE(id_card, '') AS id_card,
	house_number, street, subdistrict, district, province, phone, notes, created_at`

// CreateCustomer inserts a new customer and sets its ID
func (s *Store) CreateCustomer(ctx context.Context, c *models.Customer) error {
	query := `
		INSERT INTO customers (customer_code, first_name, last_name, id_card,
			house_number, street, subdistrict, district, province, phone, notes)
		VALUES (?, ?, ?, NULLIF(?, ''), ?, ?, ?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, query,
		c.CustomerCode, c.FirstName, c.LastName, c.IDCard,
		c.HouseNumber, c.Street, c.Subdistrict, c.District, c.Province, c.Phone, c.Notes)
	if err != nil {
		return mapUniqueErr(err)
	}

	c.ID, err = res.LastInsertId()
	return err
}

// GetCustomerByID retrieves a customer by ID
func (s *Store) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	var c models.Customer
	err := s.db.GetContext(ctx, &c,
		"SELECT "+customerCols+" FROM customers WHERE id = ?", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCustomerByCode retrieves a customer by its business key
func (s *Store) GetCustomerByCode(ctx context.Context, code string) (*models.Customer, error) {
	var c models.Customer
	err := s.db.GetContext(ctx, &c,
		"SELECT "+customerCols+" FROM customers WHERE customer_code = ?", code)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCustomer performs a full-row update keyed by ID (last writer wins)
func (s *Store) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	query := `
		UPDATE customers
		SET customer_code = ?, first_name = ?, last_name = ?, id_card = NULLIF(?, ''),
			house_number = ?, street = ?, subdistrict = ?, district = ?,
			province = ?, phone = ?, notes = ?
		WHERE id = ?`

	res, err := s.db.ExecContext(ctx, query,
		c.CustomerCode, c.FirstName, c.LastName, c.IDCard,
		c.HouseNumber, c.Street, c.Subdistrict, c.District, c.Province,
		c.Phone, c.Notes, c.ID)
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

// SearchCustomers returns customers matching term as a case-insensitive
// substring across code, names, id card and phone. Empty term returns all.
func (s *Store) SearchCustomers(ctx context.Context, term string) ([]models.Customer, error) {
	var customers []models.Customer

	if term == "" {
		err := s.db.SelectContext(ctx, &customers,
			"SELECT "+customerCols+" FROM customers ORDER BY id")
		return customers, err
	}

	pattern := "%" + term + "%"
	query := `
		SELECT ` + customerCols + ` FROM customers
		WHERE customer_code LIKE ? OR first_name LIKE ? OR last_name LIKE ?
			OR id_card LIKE ? OR phone LIKE ?
		ORDER BY id`

	err := s.db.SelectContext(ctx, &customers, query,
		pattern, pattern, pattern, pattern, pattern)
	return customers, err
}

// DeleteCustomer removes a customer unless a contract still references it
func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	var refs int
	err := s.db.GetContext(ctx, &refs,
		"SELECT COUNT(*) FROM contracts WHERE customer_id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to check contract references: %w", err)
	}
	if refs > 0 {
		return ErrStillReferenced
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM customers WHERE id = ?", id)
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

// NextCustomerSequence returns max numeric suffix + 1 for codes with the
// given prefix. Simple max+1, no gap filling.
func (s *Store) NextCustomerSequence(ctx context.Context, prefix string) (int, error) {
	var max int
	err := s.db.GetContext(ctx, &max,
		"SELECT COALESCE(MAX(CAST(SUBSTR(customer_code, ?) AS INTEGER)), 0) FROM customers WHERE customer_code LIKE ? || '%'",
		len(prefix)+1, prefix)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}
