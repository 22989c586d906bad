package service

import (
	"context"
	"testing"

	"pawnshop-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailySummaryWithoutCache(t *testing.T) {
	st, err := store.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	contracts := NewContractService(st, nil, nil, testDefaults)
	reports := NewReportService(st, nil)
	customerID, productID := seedCustomerAndProduct(t, st)
	ctx := context.Background()

	contract, err := contracts.CreateContract(ctx, &CreateContractRequest{
		CustomerID: customerID,
		ProductID:  productID,
		PawnAmount: 50000,
		StartDate:  "2024-01-01",
	})
	require.NoError(t, err)

	_, err = contracts.RedeemContract(ctx, contract.ID, &RedeemContractRequest{
		RedemptionDate: "2024-01-20",
		Amount:         51500,
	})
	require.NoError(t, err)

	day, err := reports.GetDailySummary(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 1, day.ContractCount)
	assert.Equal(t, 50000.0, day.ContractAmount)
	assert.Equal(t, 0, day.RedemptionCount)

	payoffDay, err := reports.GetDailySummary(ctx, "2024-01-20")
	require.NoError(t, err)
	assert.Equal(t, 1, payoffDay.RedemptionCount)
	assert.Equal(t, 51500.0, payoffDay.RedemptionAmount)

	month, err := reports.GetMonthlySummary(ctx, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, month.ContractCount)
	assert.Equal(t, 1, month.RedemptionCount)

	empty, err := reports.GetDailySummary(ctx, "2024-06-01")
	require.NoError(t, err)
	assert.Zero(t, empty.ContractCount)
	assert.Zero(t, empty.ContractAmount)
}
