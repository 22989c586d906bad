package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"pawnshop-service/internal/broker"
	"pawnshop-service/internal/finance"
	"pawnshop-service/internal/models"
	"pawnshop-service/internal/redisclient"
	"pawnshop-service/internal/store"
	"pawnshop-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const numberLockTTL = 5 * time.Second

// Defaults carry the fallback business parameters used when the settings
// table has no override.
type Defaults struct {
	ContractPrefix string
	CustomerPrefix string
	Days           int
	InterestRate   float64
}

// ContractService handles the pawn contract lifecycle
type ContractService struct {
	store    *store.Store
	redis    *redisclient.Client
	events   *broker.EventPublisher
	defaults Defaults
	logger   *zap.Logger
	now      func() time.Time
}

// NewContractService creates a new contract service. redis and events may be
// nil; number generation and event publishing degrade gracefully without them.
func NewContractService(
	st *store.Store,
	redis *redisclient.Client,
	events *broker.EventPublisher,
	defaults Defaults,
) *ContractService {
	return &ContractService{
		store:    st,
		redis:    redis,
		events:   events,
		defaults: defaults,
		logger:   util.GetLogger(),
		now:      time.Now,
	}
}

// CreateContractRequest represents a request to write a new contract
type CreateContractRequest struct {
	CustomerID     int64   `json:"customer_id" binding:"required"`
	ProductID      int64   `json:"product_id" binding:"required"`
	PawnAmount     float64 `json:"pawn_amount" binding:"required,gt=0"`
	InterestRate   float64 `json:"interest_rate"`
	FeeAmount      float64 `json:"fee_amount"`
	StartDate      string  `json:"start_date"`
	DaysCount      int     `json:"days_count"`
	ContractNumber string  `json:"contract_number,omitempty"`
}

// CreateContract writes a new active contract. The contract number is
// generated as prefix + max sequence + 1 unless the caller supplies one; the
// end date is derived from start date + days and not recomputed afterwards.
func (s *ContractService) CreateContract(ctx context.Context, req *CreateContractRequest) (*models.Contract, error) {
	ctx, span := util.StartSpan(ctx, "ContractService.CreateContract")
	defer span.End()

	startDate := req.StartDate
	if startDate == "" {
		startDate = s.now().Format(models.DateLayout)
	}
	start, err := time.Parse(models.DateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}

	days := req.DaysCount
	if days <= 0 {
		days = s.defaultDays(ctx)
	}

	rate := req.InterestRate
	if rate == 0 {
		rate = s.defaultInterestRate(ctx)
	}

	number := req.ContractNumber
	if number == "" {
		number, err = s.nextContractNumber(ctx)
		if err != nil {
			return nil, err
		}
	}

	contract := &models.Contract{
		ContractNumber: number,
		CustomerID:     req.CustomerID,
		ProductID:      req.ProductID,
		PawnAmount:     req.PawnAmount,
		InterestRate:   rate,
		FeeAmount:      req.FeeAmount,
		StartDate:      startDate,
		EndDate:        start.AddDate(0, 0, days).Format(models.DateLayout),
		DaysCount:      days,
		Status:         models.ContractStatusActive,
	}

	if err := s.store.CreateContract(ctx, contract); err != nil {
		util.ContractsFailedTotal.WithLabelValues("create").Inc()
		return nil, err
	}

	util.ContractsCreatedTotal.Inc()
	s.logger.Info("Contract created",
		zap.String("contract_number", contract.ContractNumber),
		zap.Float64("pawn_amount", contract.PawnAmount))

	s.publishCreated(ctx, contract)
	s.invalidateDay(ctx, contract.StartDate)

	return contract, nil
}

// RenewContractRequest represents a due-date extension
type RenewContractRequest struct {
	RenewalDate    string  `json:"renewal_date"`
	ExtensionDays  int     `json:"extension_days"`
	FeeAmount      float64 `json:"fee_amount"`
	PenaltyAmount  float64 `json:"penalty_amount"`
	DiscountAmount float64 `json:"discount_amount"`
	MoveEndDate    bool    `json:"move_end_date"`
	Notes          string  `json:"notes"`
}

// RenewContract records a renewal. When the fee is not given it is computed
// from the fee-rate table by duration; the contract's end date only moves
// when the request asks for it.
func (s *ContractService) RenewContract(ctx context.Context, contractID int64, req *RenewContractRequest) (*models.Renewal, error) {
	ctx, span := util.StartSpan(ctx, "ContractService.RenewContract")
	defer span.End()

	contract, err := s.store.GetContractByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract.Status != models.ContractStatusActive {
		return nil, store.ErrContractNotActive
	}

	days := req.ExtensionDays
	if days <= 0 {
		days = s.defaultDays(ctx)
	}

	renewalDate := req.RenewalDate
	if renewalDate == "" {
		renewalDate = s.now().Format(models.DateLayout)
	}

	fee := req.FeeAmount
	if fee == 0 {
		fee = s.feeForDuration(ctx, contract.PawnAmount, days)
	}

	endDate, err := time.Parse(models.DateLayout, contract.EndDate)
	if err != nil {
		return nil, fmt.Errorf("contract %d has malformed end date %q: %w", contract.ID, contract.EndDate, err)
	}

	renewal := &models.Renewal{
		ContractID:     contract.ID,
		RenewalDate:    renewalDate,
		FeeAmount:      fee,
		PenaltyAmount:  req.PenaltyAmount,
		DiscountAmount: req.DiscountAmount,
		TotalAmount:    fee + req.PenaltyAmount - req.DiscountAmount,
		NewEndDate:     endDate.AddDate(0, 0, days).Format(models.DateLayout),
		Notes:          req.Notes,
	}

	if err := s.store.AddRenewal(ctx, renewal, req.MoveEndDate); err != nil {
		util.ContractsFailedTotal.WithLabelValues("renew").Inc()
		return nil, err
	}

	util.ContractsRenewedTotal.Inc()
	s.logger.Info("Contract renewed",
		zap.String("contract_number", contract.ContractNumber),
		zap.String("new_end_date", renewal.NewEndDate),
		zap.Bool("end_date_moved", req.MoveEndDate))

	if s.events != nil {
		event := &models.ContractRenewedEvent{
			BaseEvent:      newBaseEvent(models.EventTypeContractRenewed),
			ContractID:     contract.ID,
			ContractNumber: contract.ContractNumber,
			FeeAmount:      renewal.FeeAmount,
			NewEndDate:     renewal.NewEndDate,
		}
		if err := s.events.PublishContractRenewed(ctx, event); err != nil {
			s.logger.Error("Failed to publish ContractRenewed event", zap.Error(err))
		}
	}

	return renewal, nil
}

// RedeemContractRequest represents the final payoff of a contract
type RedeemContractRequest struct {
	RedemptionDate string  `json:"redemption_date"`
	Amount         float64 `json:"amount"`
	DiscountAmount float64 `json:"discount_amount"`
	Notes          string  `json:"notes"`
}

// RedeemContract records the payoff and flips the contract to redeemed in one
// transaction. When no amount is given the payoff is computed from the
// contract terms, including the per-day penalty once the due date has passed.
func (s *ContractService) RedeemContract(ctx context.Context, contractID int64, req *RedeemContractRequest) (*models.Redemption, error) {
	ctx, span := util.StartSpan(ctx, "ContractService.RedeemContract")
	defer span.End()

	contract, err := s.store.GetContractByID(ctx, contractID)
	if err != nil {
		return nil, err
	}

	redemptionDate := req.RedemptionDate
	if redemptionDate == "" {
		redemptionDate = s.now().Format(models.DateLayout)
	}

	amount := req.Amount
	if amount == 0 {
		amount, err = s.computePayoff(contract, redemptionDate, req.DiscountAmount)
		if err != nil {
			return nil, err
		}
	}

	redemption := &models.Redemption{
		ContractID:     contract.ID,
		RedemptionDate: redemptionDate,
		Amount:         amount,
		Notes:          req.Notes,
	}

	if err := s.store.RedeemContract(ctx, redemption); err != nil {
		util.ContractsFailedTotal.WithLabelValues("redeem").Inc()
		return nil, err
	}

	util.ContractsRedeemedTotal.Inc()
	s.logger.Info("Contract redeemed",
		zap.String("contract_number", contract.ContractNumber),
		zap.Float64("amount", amount))

	if s.events != nil {
		event := &models.ContractRedeemedEvent{
			BaseEvent:      newBaseEvent(models.EventTypeContractRedeemed),
			ContractID:     contract.ID,
			ContractNumber: contract.ContractNumber,
			Amount:         amount,
			RedemptionDate: redemptionDate,
		}
		if err := s.events.PublishContractRedeemed(ctx, event); err != nil {
			s.logger.Error("Failed to publish ContractRedeemed event", zap.Error(err))
		}
	}
	s.invalidateDay(ctx, redemptionDate)

	return redemption, nil
}

// computePayoff applies the contract arithmetic for a payoff on the given date
func (s *ContractService) computePayoff(contract *models.Contract, redemptionDate string, discount float64) (float64, error) {
	interest := finance.Interest(contract.PawnAmount, contract.InterestRate, contract.DaysCount)

	var penalty float64
	end, err := time.Parse(models.DateLayout, contract.EndDate)
	if err != nil {
		return 0, fmt.Errorf("contract %d has malformed end date %q: %w", contract.ID, contract.EndDate, err)
	}
	redeemed, err := time.Parse(models.DateLayout, redemptionDate)
	if err != nil {
		return 0, fmt.Errorf("invalid redemption date %q: %w", redemptionDate, err)
	}
	if overdue := int(redeemed.Sub(end).Hours() / 24); overdue > 0 {
		penalty = finance.Penalty(contract.PawnAmount, overdue, finance.DefaultPenaltyRate)
	}

	return finance.RedemptionTotal(contract.PawnAmount, interest, contract.FeeAmount, penalty, discount), nil
}

// RecordInterestPaymentRequest represents an interest payment
type RecordInterestPaymentRequest struct {
	PaymentDate    string  `json:"payment_date"`
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	PenaltyAmount  float64 `json:"penalty_amount"`
	DiscountAmount float64 `json:"discount_amount"`
	PaymentType    string  `json:"payment_type"`
	Notes          string  `json:"notes"`
}

// RecordInterestPayment records a dated interest payment against a contract
func (s *ContractService) RecordInterestPayment(ctx context.Context, contractID int64, req *RecordInterestPaymentRequest) (*models.InterestPayment, error) {
	ctx, span := util.StartSpan(ctx, "ContractService.RecordInterestPayment")
	defer span.End()

	if _, err := s.store.GetContractByID(ctx, contractID); err != nil {
		return nil, err
	}

	paymentDate := req.PaymentDate
	if paymentDate == "" {
		paymentDate = s.now().Format(models.DateLayout)
	}

	paymentType := req.PaymentType
	if paymentType == "" {
		paymentType = models.PaymentTypeInterest
	}

	payment := &models.InterestPayment{
		ContractID:     contractID,
		PaymentDate:    paymentDate,
		Amount:         req.Amount,
		PenaltyAmount:  req.PenaltyAmount,
		DiscountAmount: req.DiscountAmount,
		TotalAmount:    req.Amount + req.PenaltyAmount - req.DiscountAmount,
		PaymentType:    paymentType,
		Notes:          req.Notes,
	}

	if err := s.store.AddInterestPayment(ctx, payment); err != nil {
		return nil, err
	}

	util.InterestPaymentsTotal.Inc()
	s.invalidateDay(ctx, paymentDate)

	return payment, nil
}

// MarkLost transitions an active contract to the terminal lost state
func (s *ContractService) MarkLost(ctx context.Context, contractID int64) error {
	if err := s.store.MarkContractLost(ctx, contractID); err != nil {
		return err
	}
	util.ContractsLostTotal.Inc()
	return nil
}

// GetContract retrieves a contract by ID
func (s *ContractService) GetContract(ctx context.Context, id int64) (*models.Contract, error) {
	return s.store.GetContractByID(ctx, id)
}

// GetContractDetail retrieves the fully resolved record consumed by document
// generation
func (s *ContractService) GetContractDetail(ctx context.Context, id int64) (*models.ContractDetail, error) {
	return s.store.GetContractDetail(ctx, id)
}

// SearchContracts searches by free text and status filter
func (s *ContractService) SearchContracts(ctx context.Context, term, status string) ([]models.Contract, error) {
	return s.store.SearchContracts(ctx, term, status)
}

// UpdateContract performs a full-row update (last writer wins)
func (s *ContractService) UpdateContract(ctx context.Context, c *models.Contract) error {
	return s.store.UpdateContract(ctx, c)
}

// DeleteContract removes a contract with no child records
func (s *ContractService) DeleteContract(ctx context.Context, id int64) error {
	return s.store.DeleteContract(ctx, id)
}

// GetExpiringContracts returns active contracts due within the next n days
func (s *ContractService) GetExpiringContracts(ctx context.Context, days int) ([]models.Contract, error) {
	today := s.now().Format(models.DateLayout)
	return s.store.GetExpiringContracts(ctx, today, days)
}

// GetForfeitedContracts returns active contracts already past their due date
func (s *ContractService) GetForfeitedContracts(ctx context.Context) ([]models.Contract, error) {
	today := s.now().Format(models.DateLayout)
	return s.store.GetForfeitedContracts(ctx, today)
}

// ScanForfeited detects overdue contracts and publishes a forfeiture event
// for each. Run at startup and on a timer by the worker.
func (s *ContractService) ScanForfeited(ctx context.Context) (int, error) {
	ctx, span := util.StartSpan(ctx, "ContractService.ScanForfeited")
	defer span.End()

	contracts, err := s.GetForfeitedContracts(ctx)
	if err != nil {
		return 0, err
	}

	today := s.now()
	for _, c := range contracts {
		util.ForfeitedDetectedTotal.Inc()

		if s.events == nil {
			continue
		}

		overdue := 0
		if end, err := time.Parse(models.DateLayout, c.EndDate); err == nil {
			overdue = int(today.Sub(end).Hours() / 24)
		}

		event := &models.ContractForfeitedEvent{
			BaseEvent:      newBaseEvent(models.EventTypeContractForfeited),
			ContractID:     c.ID,
			ContractNumber: c.ContractNumber,
			EndDate:        c.EndDate,
			OverdueDays:    overdue,
		}
		if err := s.events.PublishContractForfeited(ctx, event); err != nil {
			s.logger.Error("Failed to publish ContractForfeited event",
				zap.String("contract_number", c.ContractNumber),
				zap.Error(err))
		}
	}

	return len(contracts), nil
}

// nextContractNumber generates prefix + max sequence + 1, serialized behind a
// redis lock when one is available. Without redis the bare max+1 read is kept
// as-is; it is only racy with multiple concurrent writers.
func (s *ContractService) nextContractNumber(ctx context.Context) (string, error) {
	prefix := s.settingOr(ctx, models.SettingContractPrefix, s.defaults.ContractPrefix)

	if s.redis != nil {
		locked, err := s.redis.AcquireLock(ctx, "contract-number", numberLockTTL)
		if err != nil {
			s.logger.Warn("Number lock unavailable, generating without it", zap.Error(err))
		} else if locked {
			defer func() {
				if err := s.redis.ReleaseLock(context.Background(), "contract-number"); err != nil {
					s.logger.Warn("Failed to release number lock", zap.Error(err))
				}
			}()
		}
	}

	seq, err := s.store.NextContractSequence(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to read contract sequence: %w", err)
	}
	return finance.FormatContractNumber(prefix, seq), nil
}

// Settings and fee rates

// GetSetting reads one configuration value
func (s *ContractService) GetSetting(ctx context.Context, key string) (string, error) {
	return s.store.GetSetting(ctx, key)
}

// PutSetting writes one configuration value
func (s *ContractService) PutSetting(ctx context.Context, key, value string) error {
	return s.store.SetSetting(ctx, key, value)
}

// ListSettings returns all configuration rows
func (s *ContractService) ListSettings(ctx context.Context) ([]models.Setting, error) {
	return s.store.ListSettings(ctx)
}

// ListFeeRates returns the fee-rate table
func (s *ContractService) ListFeeRates(ctx context.Context) ([]models.FeeRate, error) {
	return s.store.ListFeeRates(ctx)
}

// PutFeeRate inserts or updates the rate for a duration
func (s *ContractService) PutFeeRate(ctx context.Context, months int, ratePercent float64) error {
	return s.store.UpsertFeeRate(ctx, months, ratePercent)
}

// feeForDuration computes the renewal fee from the fee-rate table, rounding
// the duration up to whole months. Missing rates mean no fee.
func (s *ContractService) feeForDuration(ctx context.Context, principal float64, days int) float64 {
	months := (days + 29) / 30
	rate, err := s.store.GetFeeRate(ctx, months)
	if err != nil {
		return 0
	}
	return principal * rate.RatePercent / 100
}

func (s *ContractService) defaultDays(ctx context.Context) int {
	if v := s.settingOr(ctx, models.SettingDefaultDays, ""); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			return days
		}
	}
	return s.defaults.Days
}

func (s *ContractService) defaultInterestRate(ctx context.Context) float64 {
	if v := s.settingOr(ctx, models.SettingDefaultInterestRate, ""); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil && rate > 0 {
			return rate
		}
	}
	return s.defaults.InterestRate
}

func (s *ContractService) settingOr(ctx context.Context, key, fallback string) string {
	value, err := s.store.GetSetting(ctx, key)
	if err != nil {
		return fallback
	}
	return value
}

func (s *ContractService) publishCreated(ctx context.Context, contract *models.Contract) {
	if s.events == nil {
		return
	}

	customerName := ""
	if customer, err := s.store.GetCustomerByID(ctx, contract.CustomerID); err == nil {
		customerName = customer.FirstName + " " + customer.LastName
	}
	productName := ""
	if product, err := s.store.GetProductByID(ctx, contract.ProductID); err == nil {
		productName = product.Name
	}

	event := &models.ContractCreatedEvent{
		BaseEvent:      newBaseEvent(models.EventTypeContractCreated),
		ContractID:     contract.ID,
		ContractNumber: contract.ContractNumber,
		CustomerName:   customerName,
		ProductName:    productName,
		PawnAmount:     contract.PawnAmount,
		EndDate:        contract.EndDate,
	}
	if err := s.events.PublishContractCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish ContractCreated event", zap.Error(err))
	}
}

// invalidateDay drops the cached daily summary touched by a write
func (s *ContractService) invalidateDay(ctx context.Context, date string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.InvalidateReport(ctx, "daily:"+date); err != nil {
		s.logger.Warn("Failed to invalidate report cache", zap.String("date", date), zap.Error(err))
	}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
