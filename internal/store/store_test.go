package store

import (
	"context"
	"testing"

	"pawnshop-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func mustCreateCustomer(t *testing.T, s *Store, code, first, last string) *models.Customer {
	t.Helper()

	c := &models.Customer{
		CustomerCode: code,
		FirstName:    first,
		LastName:     last,
	}
	require.NoError(t, s.CreateCustomer(context.Background(), c))
	return c
}

func mustCreateProduct(t *testing.T, s *Store, name string) *models.Product {
	t.Helper()

	p := &models.Product{Name: name}
	require.NoError(t, s.CreateProduct(context.Background(), p))
	return p
}

func mustCreateContract(t *testing.T, s *Store, number string, customerID, productID int64, startDate, endDate string) *models.Contract {
	t.Helper()

	c := &models.Contract{
		ContractNumber: number,
		CustomerID:     customerID,
		ProductID:      productID,
		PawnAmount:     50000,
		InterestRate:   3,
		StartDate:      startDate,
		EndDate:        endDate,
		DaysCount:      30,
		Status:         models.ContractStatusActive,
	}
	require.NoError(t, s.CreateContract(context.Background(), c))
	return c
}

func TestCustomerCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := &models.Customer{
		CustomerCode: "C0001",
		FirstName:    "Somchai",
		LastName:     "Jaidee",
		IDCard:       "1234567890123",
		Province:     "Bangkok",
		Phone:        "0812345678",
	}
	require.NoError(t, s.CreateCustomer(ctx, c))
	assert.NotZero(t, c.ID)

	got, err := s.GetCustomerByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Somchai", got.FirstName)
	assert.Equal(t, "1234567890123", got.IDCard)

	byCode, err := s.GetCustomerByCode(ctx, "C0001")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byCode.ID)

	got.Phone = "0899999999"
	require.NoError(t, s.UpdateCustomer(ctx, got))

	updated, err := s.GetCustomerByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "0899999999", updated.Phone)

	_, err = s.GetCustomerByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDuplicateCustomerCode(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateCustomer(t, s, "C0001", "Somchai", "Jaidee")

	err := s.CreateCustomer(ctx, &models.Customer{CustomerCode: "C0001", FirstName: "Other"})
	assert.ErrorIs(t, err, ErrDuplicateCustomerCode)
}

func TestDuplicateIDCard(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateCustomer(ctx, &models.Customer{
		CustomerCode: "C0001", FirstName: "A", IDCard: "1234567890123",
	}))

	err := s.CreateCustomer(ctx, &models.Customer{
		CustomerCode: "C0002", FirstName: "B", IDCard: "1234567890123",
	})
	assert.ErrorIs(t, err, ErrDuplicateIDCard)

	// Customers without an ID card on file never collide
	require.NoError(t, s.CreateCustomer(ctx, &models.Customer{CustomerCode: "C0003", FirstName: "C"}))
	require.NoError(t, s.CreateCustomer(ctx, &models.Customer{CustomerCode: "C0004", FirstName: "D"}))
}

func TestSearchCustomers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateCustomer(t, s, "C0001", "Somchai", "Jaidee")
	mustCreateCustomer(t, s, "C0002", "Somsri", "Deejai")
	mustCreateCustomer(t, s, "C0003", "Wichai", "Boonmee")

	all, err := s.SearchCustomers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	som, err := s.SearchCustomers(ctx, "som")
	require.NoError(t, err)
	assert.Len(t, som, 2)

	byCode, err := s.SearchCustomers(ctx, "C0003")
	require.NoError(t, err)
	require.Len(t, byCode, 1)
	assert.Equal(t, "Wichai", byCode[0].FirstName)
}

func TestDeleteCustomerReferentialGuard(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := mustCreateCustomer(t, s, "C0001", "Somchai", "Jaidee")
	product := mustCreateProduct(t, s, "iPhone 15")
	mustCreateContract(t, s, "CN0001", customer.ID, product.ID, "2024-01-01", "2024-01-31")

	// Referenced customer cannot be deleted and stays intact
	err := s.DeleteCustomer(ctx, customer.ID)
	assert.ErrorIs(t, err, ErrStillReferenced)

	still, err := s.GetCustomerByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "C0001", still.CustomerCode)

	// An unreferenced customer deletes cleanly
	free := mustCreateCustomer(t, s, "C0002", "Somsri", "Deejai")
	require.NoError(t, s.DeleteCustomer(ctx, free.ID))

	_, err = s.GetCustomerByID(ctx, free.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductLookupBySerial(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := &models.Product{Name: "Gold necklace", SerialNumber: "SN-77"}
	require.NoError(t, s.CreateProduct(ctx, p))

	// Serial numbers are not unique; the first match by ID wins
	p2 := &models.Product{Name: "Gold ring", SerialNumber: "SN-77"}
	require.NoError(t, s.CreateProduct(ctx, p2))

	got, err := s.GetProductBySerial(ctx, "SN-77")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = s.GetProductBySerial(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProductReferentialGuard(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := mustCreateCustomer(t, s, "C0001", "Somchai", "Jaidee")
	product := mustCreateProduct(t, s, "iPhone 15")
	mustCreateContract(t, s, "CN0001", customer.ID, product.ID, "2024-01-01", "2024-01-31")

	assert.ErrorIs(t, s.DeleteProduct(ctx, product.ID), ErrStillReferenced)

	free := mustCreateProduct(t, s, "Gold ring")
	require.NoError(t, s.DeleteProduct(ctx, free.ID))
}

func TestDuplicateContractNumber(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := mustCreateCustomer(t, s, "C0001", "Somchai", "Jaidee")
	product := mustCreateProduct(t, s, "iPhone 15")
	mustCreateContract(t, s, "CN0001", customer.ID, product.ID, "2024-01-01", "2024-01-31")

	dup := &models.Contract{
		ContractNumber: "CN0001",
		CustomerID:     customer.ID,
		ProductID:      product.ID,
		PawnAmount:     1000,
		StartDate:      "2024-02-01",
		EndDate:        "2024-03-02",
		DaysCount:      30,
		Status:         models.ContractStatusActive,
	}
	err := s.CreateContract(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicateContractNumber)

	// Exactly one row remains for that number
	contracts, err := s.SearchContracts(ctx, "CN0001", "all")
	require.NoError(t, err)
	assert.Len(t, contracts, 1)
}

func TestExpiringWindowBoundaries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := mustCreateCustomer(t, s, "C0001", "Somchai", "Jaidee")
	product := mustCreateProduct(t, s, "iPhone 15")

	today := "2024-01-01"
	mustCreateContract(t, s, "CN0001", customer.ID, product.ID, "2023-12-01", "2024-01-01") // today
	mustCreateContract(t, s, "CN0002", customer.ID, product.ID, "2023-12-01", "2024-01-04") // +3
	mustCreateContract(t, s, "CN0003", customer.ID, product.ID, "2023-12-01", "2024-01-08") // +7
	mustCreateContract(t, s, "CN0004", customer.ID, product.ID, "2023-12-01", "2024-01-09") // +8

	expiring, err := s.GetExpiringContracts(ctx, today, 7)
	require.NoError(t, err)
	require.Len(t, expiring, 3)
	assert.Equal(t, "CN0001", expiring[0].ContractNumber)
	assert.Equal(t, "CN0002", expiring[1].ContractNumber)
	assert.Equal(t, "CN0003", expiring[2].ContractNumber)
}

func TestExpiringOrderIsDeterministic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := mustCreateCustomer(t, s, "C0001", "Somchai", "Jaidee")
	product := mustCreateProduct(t, s, "iPhone 15")

	// Same end date: insertion order breaks the tie
	mustCreateContract(t, s, "CN0002", customer.ID, product.ID, "2023-12-01", "2024-01-05")
	mustCreateContract(t, s, "CN0001", customer.ID, product.ID, "2023-12-01", "2024-01-05")

	expiring, err := s.GetExpiringContracts(ctx, "2024-01-01", 7)
	require.NoError(t, err)
	require.Len(t, expiring, 2)
	assert.Equal(t, "CN0002", expiring[0].ContractNumber)
	assert.Equal(t, "CN0001", expiring[1].ContractNumber)
}

func TestForfeitedBoundary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := mustCreateCustomer(t, s, "C0001", "Somchai", "Jaidee")
	product := mustCreateProduct(t, s, "iPhone 15")

	mustCreateContract(t, s, "CN0001", customer.ID, product.ID, "2023-11-01", "2023-12-31") // overdue
	mustCreateContract(t, s, "CN0002", customer.ID, product.ID, "2023-12-01", "2024-01-01") // due today
	redeemed := mustCreateContract(t, s, "CN0003", customer.ID, product.ID, "2023-11-01", "2023-12-15")

	require.NoError(t, s.RedeemContract(ctx, &models.Redemption{
		ContractID:     redeemed.ID,
		RedemptionDate: "2023-12-10",
		Amount:         51500,
	}))

	forfeited, err := s.GetForfeitedContracts(ctx, "2024-01-01")
	require.NoError(t, err)
	require.Len(t, forfeited, 1)
	assert.Equal(t, "CN0001", forfeited[0].ContractNumber)
}

func TestRedeemContract(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := mustCreateCustomer(t, s, "C0001", "Somchai", "Jaidee")
	product := mustCreateProduct(t, s, "iPhone 15")
	contract := mustCreateContract(t, s, "CN0001", customer.ID, product.ID, "2024-01-01", "2024-01-31")

	require.NoError(t, s.RedeemContract(ctx, &models.Redemption{
		ContractID:     contract.ID,
		RedemptionDate: "2024-01-20",
		Amount:         51500,
	}))

	got, err := s.GetContractByID(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusRedeemed, got.Status)
	assert.Equal(t, 51500.0, got.TotalRedemption)
}

func TestRedeemTwiceDoesNotDoubleCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := mustCreateCustomer(t, s, "C0001", "Somchai", "Jaidee")
	product := mustCreateProduct(t, s, "iPhone 15")
	contract := mustCreateContract(t, s, "CN0001", customer.ID, product.ID, "2024-01-01", "2024-01-31")

	first := &models.Redemption{ContractID: contract.ID, RedemptionDate: "2024-01-20", Amount: 51500}
	require.NoError(t, s.RedeemContract(ctx, first))

	second := &models.Redemption{ContractID: contract.ID, RedemptionDate: "2024-01-20", Amount: 51500}
	assert.ErrorIs(t, s.RedeemContract(ctx, second), ErrContractNotActive)

	summary, err := s.GetDailySummary(ctx, "2024-01-20")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.RedemptionCount)
	assert.Equal(t, 51500.0, summary.RedemptionAmount)
}

func TestRedeemMissingContract(t *testing.T) {
	s := newTestStore(t)

	err := s.RedeemContract(context.Background(), &models.Redemption{
		ContractID:     9999,
		RedemptionDate: "2024-01-20",
		Amount:         100,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkContractLost(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := mustCreateCustomer(t, s, "C0001", "Somchai", "Jaidee")
	product := mustCreateProduct(t, s, "iPhone 15")
	contract := mustCreateContract(t, s, "CN0001", customer.ID, product.ID, "2023-11-01", "2023-12-01")

	require.NoError(t, s.MarkContractLost(ctx, contract.ID))

	got, err := s.GetContractByID(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusLost, got.Status)

	// Terminal: cannot mark lost again, nor redeem
	assert.ErrorIs(t, s.MarkContractLost(ctx, contract.ID), ErrContractNotActive)
	assert.ErrorIs(t, s.RedeemContract(ctx, &models.Redemption{
		ContractID: contract.ID, RedemptionDate: "2024-01-01", Amount: 100,
	}), ErrContractNotActive)
}

func TestAddRenewal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := mustCreateCustomer(t, s, "C0001", "Somchai", "Jaidee")
	product := mustCreateProduct(t, s, "iPhone 15")
	contract := mustCreateContract(t, s, "CN0001", customer.ID, product.ID, "2024-01-01", "2024-01-31")

	renewal := &models.Renewal{
		ContractID:  contract.ID,
		RenewalDate: "2024-01-25",
		FeeAmount:   1000,
		TotalAmount: 1000,
		NewEndDate:  "2024-03-01",
	}

	// Without moveEndDate the contract keeps its original due date
	require.NoError(t, s.AddRenewal(ctx, renewal, false))
	got, err := s.GetContractByID(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-31", got.EndDate)

	// With moveEndDate the due date advances in the same transaction
	renewal2 := &models.Renewal{
		ContractID:  contract.ID,
		RenewalDate: "2024-01-26",
		FeeAmount:   1000,
		TotalAmount: 1000,
		NewEndDate:  "2024-03-01",
	}
	require.NoError(t, s.AddRenewal(ctx, renewal2, true))
	got, err = s.GetContractByID(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", got.EndDate)

	renewals, err := s.GetRenewalsByContract(ctx, contract.ID)
	require.NoError(t, err)
	assert.Len(t, renewals, 2)
}

func TestAddInterestPaymentAccumulatesTotalPaid(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := mustCreateCustomer(t, s, "C0001", "Somchai", "Jaidee")
	product := mustCreateProduct(t, s, "iPhone 15")
	contract := mustCreateContract(t, s, "CN0001", customer.ID, product.ID, "2024-01-01", "2024-01-31")

	require.NoError(t, s.AddInterestPayment(ctx, &models.InterestPayment{
		ContractID:  contract.ID,
		PaymentDate: "2024-01-15",
		Amount:      1500,
		TotalAmount: 1500,
		PaymentType: models.PaymentTypeInterest,
	}))
	require.NoError(t, s.AddInterestPayment(ctx, &models.InterestPayment{
		ContractID:  contract.ID,
		PaymentDate: "2024-02-15",
		Amount:      1500,
		TotalAmount: 1500,
		PaymentType: models.PaymentTypeInterest,
	}))

	got, err := s.GetContractByID(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, got.TotalPaid)
}

func TestDeleteContractChildGuard(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := mustCreateCustomer(t, s, "C0001", "Somchai", "Jaidee")
	product := mustCreateProduct(t, s, "iPhone 15")
	contract := mustCreateContract(t, s, "CN0001", customer.ID, product.ID, "2024-01-01", "2024-01-31")

	require.NoError(t, s.AddInterestPayment(ctx, &models.InterestPayment{
		ContractID:  contract.ID,
		PaymentDate: "2024-01-15",
		Amount:      1500,
		TotalAmount: 1500,
		PaymentType: models.PaymentTypeInterest,
	}))

	assert.ErrorIs(t, s.DeleteContract(ctx, contract.ID), ErrHasChildren)

	bare := mustCreateContract(t, s, "CN0002", customer.ID, product.ID, "2024-01-01", "2024-01-31")
	require.NoError(t, s.DeleteContract(ctx, bare.ID))
	_, err := s.GetContractByID(ctx, bare.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchContractsStatusFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := mustCreateCustomer(t, s, "C0001", "Somchai", "Jaidee")
	product := mustCreateProduct(t, s, "iPhone 15")

	mustCreateContract(t, s, "CN0001", customer.ID, product.ID, "2024-01-01", "2024-01-31")
	toRedeem := mustCreateContract(t, s, "CN0002", customer.ID, product.ID, "2024-01-01", "2024-01-31")
	require.NoError(t, s.RedeemContract(ctx, &models.Redemption{
		ContractID: toRedeem.ID, RedemptionDate: "2024-01-20", Amount: 51500,
	}))

	all, err := s.SearchContracts(ctx, "", "all")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	activeOnly, err := s.SearchContracts(ctx, "", models.ContractStatusActive)
	require.NoError(t, err)
	require.Len(t, activeOnly, 1)
	assert.Equal(t, "CN0001", activeOnly[0].ContractNumber)

	redeemedOnly, err := s.SearchContracts(ctx, "", models.ContractStatusRedeemed)
	require.NoError(t, err)
	require.Len(t, redeemedOnly, 1)
	assert.Equal(t, "CN0002", redeemedOnly[0].ContractNumber)

	// Text filter combines with status via AND
	byName, err := s.SearchContracts(ctx, "Somchai", models.ContractStatusActive)
	require.NoError(t, err)
	assert.Len(t, byName, 1)

	none, err := s.SearchContracts(ctx, "nobody", "all")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDailySummaryZeroWhenEmpty(t *testing.T) {
	s := newTestStore(t)

	summary, err := s.GetDailySummary(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.ContractCount)
	assert.Equal(t, 0.0, summary.ContractAmount)
	assert.Equal(t, 0, summary.InterestCount)
	assert.Equal(t, 0.0, summary.InterestAmount)
	assert.Equal(t, 0, summary.RedemptionCount)
	assert.Equal(t, 0.0, summary.RedemptionAmount)
}

func TestMonthlySummary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := mustCreateCustomer(t, s, "C0001", "Somchai", "Jaidee")
	product := mustCreateProduct(t, s, "iPhone 15")

	mustCreateContract(t, s, "CN0001", customer.ID, product.ID, "2024-01-05", "2024-02-04")
	mustCreateContract(t, s, "CN0002", customer.ID, product.ID, "2024-01-20", "2024-02-19")
	mustCreateContract(t, s, "CN0003", customer.ID, product.ID, "2024-02-01", "2024-03-02")

	jan, err := s.GetMonthlySummary(ctx, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, jan.ContractCount)
	assert.Equal(t, 100000.0, jan.ContractAmount)

	feb, err := s.GetMonthlySummary(ctx, 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, feb.ContractCount)
}

func TestNextContractSequence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seq, err := s.NextContractSequence(ctx, "CN")
	require.NoError(t, err)
	assert.Equal(t, 1, seq)

	customer := mustCreateCustomer(t, s, "C0001", "Somchai", "Jaidee")
	product := mustCreateProduct(t, s, "iPhone 15")
	mustCreateContract(t, s, "CN0001", customer.ID, product.ID, "2024-01-01", "2024-01-31")
	mustCreateContract(t, s, "CN0007", customer.ID, product.ID, "2024-01-01", "2024-01-31")

	seq, err = s.NextContractSequence(ctx, "CN")
	require.NoError(t, err)
	assert.Equal(t, 8, seq)

	// Other prefixes have their own sequence
	seq, err = s.NextContractSequence(ctx, "PN")
	require.NoError(t, err)
	assert.Equal(t, 1, seq)
}

func TestSettings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetSetting(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetSetting(ctx, "contract_prefix", "CN"))
	require.NoError(t, s.SetSetting(ctx, "contract_prefix", "PW"))

	value, err := s.GetSetting(ctx, "contract_prefix")
	require.NoError(t, err)
	assert.Equal(t, "PW", value)

	settings, err := s.ListSettings(ctx)
	require.NoError(t, err)
	assert.Len(t, settings, 1)
}

func TestFeeRates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertFeeRate(ctx, 1, 2.0))
	require.NoError(t, s.UpsertFeeRate(ctx, 3, 5.0))
	require.NoError(t, s.UpsertFeeRate(ctx, 1, 2.5))

	rate, err := s.GetFeeRate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.5, rate.RatePercent)

	_, err = s.GetFeeRate(ctx, 6)
	assert.ErrorIs(t, err, ErrNotFound)

	rates, err := s.ListFeeRates(ctx)
	require.NoError(t, err)
	assert.Len(t, rates, 2)
}

func TestGetContractDetail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := mustCreateCustomer(t, s, "C0001", "Somchai", "Jaidee")
	product := mustCreateProduct(t, s, "iPhone 15")
	contract := mustCreateContract(t, s, "CN0001", customer.ID, product.ID, "2024-01-01", "2024-01-31")

	require.NoError(t, s.AddInterestPayment(ctx, &models.InterestPayment{
		ContractID: contract.ID, PaymentDate: "2024-01-15",
		Amount: 1500, TotalAmount: 1500, PaymentType: models.PaymentTypeInterest,
	}))
	require.NoError(t, s.AddRenewal(ctx, &models.Renewal{
		ContractID: contract.ID, RenewalDate: "2024-01-25",
		FeeAmount: 1000, TotalAmount: 1000, NewEndDate: "2024-03-01",
	}, false))

	detail, err := s.GetContractDetail(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, "CN0001", detail.Contract.ContractNumber)
	assert.Equal(t, "Somchai", detail.Customer.FirstName)
	assert.Equal(t, "iPhone 15", detail.Product.Name)
	assert.Len(t, detail.Payments, 1)
	assert.Len(t, detail.Renewals, 1)
	assert.Nil(t, detail.Redemption)

	require.NoError(t, s.RedeemContract(ctx, &models.Redemption{
		ContractID: contract.ID, RedemptionDate: "2024-01-28", Amount: 51500,
	}))

	detail, err = s.GetContractDetail(ctx, contract.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Redemption)
	assert.Equal(t, 51500.0, detail.Redemption.Amount)
}

// Mirrors the full walkthrough: create customer and product, write CN0001,
// redeem before the due date, and verify it never shows up as forfeited.
func TestContractLifecycleScenario(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := mustCreateCustomer(t, s, "C0001", "Somchai", "Jaidee")
	product := mustCreateProduct(t, s, "iPhone 15")
	contract := mustCreateContract(t, s, "CN0001", customer.ID, product.ID, "2024-01-01", "2024-01-31")
	assert.Equal(t, "2024-01-31", contract.EndDate)

	require.NoError(t, s.RedeemContract(ctx, &models.Redemption{
		ContractID:     contract.ID,
		RedemptionDate: "2024-01-20",
		Amount:         51500,
	}))

	got, err := s.GetContractByID(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusRedeemed, got.Status)

	// Past the due date, the redeemed contract is still excluded
	forfeited, err := s.GetForfeitedContracts(ctx, "2024-02-01")
	require.NoError(t, err)
	assert.Empty(t, forfeited)
}
