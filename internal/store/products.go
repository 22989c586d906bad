package store

import (
	"context"
	"database/sql"
	"fmt"

	"pawnshop-service/internal/models"
)

// CreateProduct inserts a new product and sets its ID
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (name, brand, size, weight, weight_unit, serial_number, image_path, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, query,
		p.Name, p.Brand, p.Size, p.Weight, p.WeightUnit, p.SerialNumber, p.ImagePath, p.Notes)
	if err != nil {
		return err
	}

	p.ID, err = res.LastInsertId()
	return err
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := s.db.GetContext(ctx, &p, "SELECT * FROM products WHERE id = ?", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProductBySerial retrieves the first product carrying the given serial
// number. Serial numbers are not unique in the schema; lowest ID wins.
func (s *Store) GetProductBySerial(ctx context.Context, serial string) (*models.Product, error) {
	var p models.Product
	err := s.db.GetContext(ctx, &p,
		"SELECT * FROM products WHERE serial_number = ? ORDER BY id LIMIT 1", serial)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SearchProducts returns products matching term across name, brand and
// serial number. Empty term returns all.
func (s *Store) SearchProducts(ctx context.Context, term string) ([]models.Product, error) {
	var products []models.Product

	if term == "" {
		err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY id")
		return products, err
	}

	pattern := "%" + term + "%"
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE name LIKE ? OR brand LIKE ? OR serial_number LIKE ? ORDER BY id",
		pattern, pattern, pattern)
	return products, err
}

// UpdateProduct performs a full-row update keyed by ID
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	query := `
		UPDATE products
		SET name = ?, brand = ?, size = ?, weight = ?, weight_unit = ?,
			serial_number = ?, image_path = ?, notes = ?
		WHERE id = ?`

	res, err := s.db.ExecContext(ctx, query,
		p.Name, p.Brand, p.Size, p.Weight, p.WeightUnit,
		p.SerialNumber, p.ImagePath, p.Notes, p.ID)
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

// SetProductImage updates only the stored image path
func (s *Store) SetProductImage(ctx context.Context, id int64, path string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET image_path = ? WHERE id = ?", path, id)
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

// DeleteProduct removes a product unless a contract still references it
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	var refs int
	err := s.db.GetContext(ctx, &refs,
		"SELECT COUNT(*) FROM contracts WHERE product_id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to check contract references: %w", err)
	}
	if refs > 0 {
		return ErrStillReferenced
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
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
