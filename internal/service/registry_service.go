package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"pawnshop-service/internal/finance"
	"pawnshop-service/internal/models"
	"pawnshop-service/internal/store"
	"pawnshop-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegistryService handles the customer and product registries, which are
// maintained independently before a contract references them.
type RegistryService struct {
	store    *store.Store
	imageDir string
	defaults Defaults
	logger   *zap.Logger
	now      func() time.Time
}

// NewRegistryService creates a new registry service. imageDir is where
// product photos are copied to.
func NewRegistryService(st *store.Store, imageDir string, defaults Defaults) *RegistryService {
	return &RegistryService{
		store:    st,
		imageDir: imageDir,
		defaults: defaults,
		logger:   util.GetLogger(),
		now:      time.Now,
	}
}

// CreateCustomerRequest represents a new customer registration
type CreateCustomerRequest struct {
	CustomerCode string `json:"customer_code,omitempty"`
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name"`
	IDCard       string `json:"id_card"`
	HouseNumber  string `json:"house_number"`
	Street       string `json:"street"`
	Subdistrict  string `json:"subdistrict"`
	District     string `json:"district"`
	Province     string `json:"province"`
	Phone        string `json:"phone"`
	Notes        string `json:"notes"`
}

// CreateCustomer registers a customer, generating the business code when the
// caller does not supply one.
func (s *RegistryService) CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*models.Customer, error) {
	code := req.CustomerCode
	if code == "" {
		prefix := s.defaults.CustomerPrefix
		seq, err := s.store.NextCustomerSequence(ctx, prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to read customer sequence: %w", err)
		}
		code = finance.FormatCustomerCode(prefix, seq)
	}

	customer := &models.Customer{
		CustomerCode: code,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IDCard:       req.IDCard,
		HouseNumber:  req.HouseNumber,
		Street:       req.Street,
		Subdistrict:  req.Subdistrict,
		District:     req.District,
		Province:     req.Province,
		Phone:        req.Phone,
		Notes:        req.Notes,
	}

	if err := s.store.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("Customer created", zap.String("customer_code", customer.CustomerCode))
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *RegistryService) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	return s.store.GetCustomerByID(ctx, id)
}

// SearchCustomers searches by free text; empty term returns all
func (s *RegistryService) SearchCustomers(ctx context.Context, term string) ([]models.Customer, error) {
	return s.store.SearchCustomers(ctx, term)
}

// UpdateCustomer performs a full-row update
func (s *RegistryService) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	return s.store.UpdateCustomer(ctx, c)
}

// DeleteCustomer removes an unreferenced customer
func (s *RegistryService) DeleteCustomer(ctx context.Context, id int64) error {
	return s.store.DeleteCustomer(ctx, id)
}

// CreateProductRequest represents a new product registration
type CreateProductRequest struct {
	Name         string  `json:"name" binding:"required"`
	Brand        string  `json:"brand"`
	Size         string  `json:"size"`
	Weight       float64 `json:"weight"`
	WeightUnit   string  `json:"weight_unit"`
	SerialNumber string  `json:"serial_number"`
	Notes        string  `json:"notes"`
}

// CreateProduct registers a product
func (s *RegistryService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		Name:         req.Name,
		Brand:        req.Brand,
		Size:         req.Size,
		Weight:       req.Weight,
		WeightUnit:   req.WeightUnit,
		SerialNumber: req.SerialNumber,
		Notes:        req.Notes,
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created", zap.String("name", product.Name), zap.Int64("id", product.ID))
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *RegistryService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.store.GetProductByID(ctx, id)
}

// GetProductBySerial retrieves the first product with the given serial number
func (s *RegistryService) GetProductBySerial(ctx context.Context, serial string) (*models.Product, error) {
	return s.store.GetProductBySerial(ctx, serial)
}

// SearchProducts searches by free text; empty term returns all
func (s *RegistryService) SearchProducts(ctx context.Context, term string) ([]models.Product, error) {
	return s.store.SearchProducts(ctx, term)
}

// UpdateProduct performs a full-row update
func (s *RegistryService) UpdateProduct(ctx context.Context, p *models.Product) error {
	return s.store.UpdateProduct(ctx, p)
}

// DeleteProduct removes an unreferenced product
func (s *RegistryService) DeleteProduct(ctx context.Context, id int64) error {
	return s.store.DeleteProduct(ctx, id)
}

// SaveProductImage copies an uploaded photo into the image directory under a
// timestamp-based filename and records the path on the product.
func (s *RegistryService) SaveProductImage(ctx context.Context, productID int64, ext string, r io.Reader) (string, error) {
	if _, err := s.store.GetProductByID(ctx, productID); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.imageDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s%s", s.now().Format("20060102_150405"), uuid.New().String()[:8], ext)
	path := filepath.Join(s.imageDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	if err := s.store.SetProductImage(ctx, productID, path); err != nil {
		os.Remove(path)
		return "", err
	}

	return path, nil
}
