package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// Typed errors surfaced at the repository boundary. Callers branch on these
// with errors.Is rather than parsing driver messages.
var (
	ErrNotFound                = errors.New("record not found")
	ErrDuplicateContractNumber = errors.New("contract number already exists")
	ErrDuplicateCustomerCode   = errors.New("customer code already exists")
	ErrDuplicateIDCard         = errors.New("id card number already exists")
	ErrStillReferenced         = errors.New("record is referenced by a contract")
	ErrHasChildren             = errors.New("contract has payment or renewal records")
	ErrContractNotActive       = errors.New("contract is not active")
)

type Store struct {
	db *sqlx.DB
}

// NewStore opens (or creates) the SQLite database file and migrates the schema.
// Use ":memory:" for an in-memory database in tests.
func NewStore(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; one connection keeps :memory: databases
	// coherent and avoids SQLITE_BUSY on concurrent handlers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// migrate creates the database schema
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS customers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_code TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL DEFAULT '',
		id_card TEXT UNIQUE,
		house_number TEXT NOT NULL DEFAULT '',
		street TEXT NOT NULL DEFAULT '',
		subdistrict TEXT NOT NULL DEFAULT '',
		district TEXT NOT NULL DEFAULT '',
		province TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		brand TEXT NOT NULL DEFAULT '',
		size TEXT NOT NULL DEFAULT '',
		weight REAL NOT NULL DEFAULT 0,
		weight_unit TEXT NOT NULL DEFAULT '',
		serial_number TEXT NOT NULL DEFAULT '',
		image_path TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS contracts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contract_number TEXT NOT NULL UNIQUE,
		customer_id INTEGER NOT NULL REFERENCES customers(id),
		product_id INTEGER NOT NULL REFERENCES products(id),
		pawn_amount REAL NOT NULL,
		interest_rate REAL NOT NULL DEFAULT 0,
		fee_amount REAL NOT NULL DEFAULT 0,
		total_paid REAL NOT NULL DEFAULT 0,
		total_redemption REAL NOT NULL DEFAULT 0,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		days_count INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS interest_payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contract_id INTEGER NOT NULL REFERENCES contracts(id),
		payment_date TEXT NOT NULL,
		amount REAL NOT NULL,
		penalty_amount REAL NOT NULL DEFAULT 0,
		discount_amount REAL NOT NULL DEFAULT 0,
		total_amount REAL NOT NULL,
		payment_type TEXT NOT NULL DEFAULT 'interest',
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS redemptions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contract_id INTEGER NOT NULL REFERENCES contracts(id),
		redemption_date TEXT NOT NULL,
		amount REAL NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS renewals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contract_id INTEGER NOT NULL REFERENCES contracts(id),
		renewal_date TEXT NOT NULL,
		fee_amount REAL NOT NULL DEFAULT 0,
		penalty_amount REAL NOT NULL DEFAULT 0,
		discount_amount REAL NOT NULL DEFAULT 0,
		total_amount REAL NOT NULL DEFAULT 0,
		new_end_date TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS fee_rates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		months INTEGER NOT NULL UNIQUE,
		rate_percent REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_contracts_status_end_date ON contracts(status, end_date);
	CREATE INDEX IF NOT EXISTS idx_interest_payments_contract ON interest_payments(contract_id);
	CREATE INDEX IF NOT EXISTS idx_redemptions_contract ON redemptions(contract_id);
	CREATE INDEX IF NOT EXISTS idx_renewals_contract ON renewals(contract_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// mapUniqueErr converts a SQLite unique-constraint violation into the matching
// typed error. Other errors pass through unchanged.
func mapUniqueErr(err error) error {
	if err == nil {
		return nil
	}

	var se sqlite3.Error
	if !errors.As(err, &se) || se.ExtendedCode != sqlite3.ErrConstraintUnique {
		return err
	}

	msg := se.Error()
	switch {
	case strings.Contains(msg, "contracts.contract_number"):
		return ErrDuplicateContractNumber
	case strings.Contains(msg, "customers.customer_code"):
		return ErrDuplicateCustomerCode
	case strings.Contains(msg, "customers.id_card"):
		return ErrDuplicateIDCard
	}
	return err
}
