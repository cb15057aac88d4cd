package expenses

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"max.ks1230/expenses-tracker/internal/entity/client"
	"max.ks1230/expenses-tracker/internal/entity/expense"
	"max.ks1230/expenses-tracker/internal/entity/user"
	"max.ks1230/expenses-tracker/internal/model/customerr"
	"max.ks1230/expenses-tracker/internal/model/storage"
)

func newTestService(t *testing.T) (*Service, int64) {
	st := storage.NewInMemStorage()
	_, c, err := st.CreateAccount(context.Background(),
		user.Record{Username: "john", Enabled: true},
		client.Record{FirstName: "John"},
	)
	require.NoError(t, err)
	return NewService(st), c.ID
}

func Test_OnCreate_ShouldResolveCategoryAndSplitDateTime(t *testing.T) {
	ctx := context.Background()
	service, clientID := newTestService(t)

	id, err := service.Create(ctx, clientID, Input{
		Amount:      50,
		DateTime:    "2024-01-15T09:30:00",
		Description: "groceries",
		Category:    "Food",
	})
	require.NoError(t, err)

	d, err := service.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(50), d.Amount)
	assert.Equal(t, "Food", d.CategoryName)
	assert.Equal(t, "2024-01-15", d.Date)
	assert.Equal(t, "09:30:00", d.Time)
	assert.Equal(t, clientID, d.ClientID)
}

func Test_OnCreate_ShouldRejectUnknownCategory(t *testing.T) {
	ctx := context.Background()
	service, clientID := newTestService(t)

	_, err := service.Create(ctx, clientID, Input{
		Amount:   10,
		DateTime: "2024-01-15T09:30:00",
		Category: "Gadgets",
	})
	assert.True(t, customerr.IsValidation(err))
}

func Test_OnCreate_ShouldRejectMalformedDateTime(t *testing.T) {
	ctx := context.Background()
	service, clientID := newTestService(t)

	_, err := service.Create(ctx, clientID, Input{
		Amount:   10,
		DateTime: "15/01/2024 09:30",
		Category: "Food",
	})
	assert.True(t, customerr.IsValidation(err))
}

func Test_OnUpdate_ShouldIgnoreMissingExpense(t *testing.T) {
	ctx := context.Background()
	service, clientID := newTestService(t)

	err := service.Update(ctx, 9999, Input{
		Amount:   10,
		DateTime: "2024-01-15T09:30:00",
		Category: "Food",
	})
	assert.NoError(t, err)

	details, err := service.ListByClient(ctx, clientID)
	require.NoError(t, err)
	assert.Empty(t, details)
}

func Test_OnUpdate_ShouldReplaceEveryField(t *testing.T) {
	ctx := context.Background()
	service, clientID := newTestService(t)

	id, err := service.Create(ctx, clientID, Input{
		Amount:      50,
		DateTime:    "2024-01-15T09:30:00",
		Description: "groceries",
		Category:    "Food",
	})
	require.NoError(t, err)

	err = service.Update(ctx, id, Input{
		Amount:      75,
		DateTime:    "2024-02-01T18:00:00",
		Description: "cinema",
		Category:    "Entertainment",
	})
	require.NoError(t, err)

	d, err := service.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(75), d.Amount)
	assert.Equal(t, "Entertainment", d.CategoryName)
	assert.Equal(t, "cinema", d.Description)
	assert.Equal(t, "2024-02-01", d.Date)
	assert.Equal(t, clientID, d.ClientID)
}

func Test_OnDelete_ShouldBeIdempotent(t *testing.T) {
	ctx := context.Background()
	service, clientID := newTestService(t)

	id, err := service.Create(ctx, clientID, Input{
		Amount:   50,
		DateTime: "2024-01-15T09:30:00",
		Category: "Food",
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, id))
	assert.NoError(t, service.Delete(ctx, id))

	_, err = service.Get(ctx, id)
	assert.True(t, customerr.IsNotFound(err))
}

func seedExpenses(t *testing.T, service *Service, clientID int64) {
	t.Helper()
	ctx := context.Background()
	for _, in := range []Input{
		{Amount: 10, DateTime: "2023-12-31T23:59:59", Category: "Food"},
		{Amount: 50, DateTime: "2024-01-15T09:30:00", Category: "Food"},
		{Amount: 100, DateTime: "2024-02-20T12:00:00", Category: "Transport"},
	} {
		_, err := service.Create(ctx, clientID, in)
		require.NoError(t, err)
	}
}

func Test_OnFilter_ShouldApplyAmountRangeInclusive(t *testing.T) {
	ctx := context.Background()
	service, clientID := newTestService(t)
	seedExpenses(t, service, clientID)

	details, err := service.Filter(ctx, clientID, expense.Filter{
		Category: "all", From: 10, To: 50, Year: "all", Month: "all",
	})
	require.NoError(t, err)
	assert.Len(t, details, 2)
}

func Test_OnFilter_ShouldSkipAllCriteriaCaseInsensitively(t *testing.T) {
	ctx := context.Background()
	service, clientID := newTestService(t)
	seedExpenses(t, service, clientID)

	details, err := service.Filter(ctx, clientID, expense.Filter{
		Category: "All", From: 0, To: 1000, Year: "ALL", Month: "all",
	})
	require.NoError(t, err)
	assert.Len(t, details, 3)
}

func Test_OnFilter_ShouldMatchYearAndMonth(t *testing.T) {
	ctx := context.Background()
	service, clientID := newTestService(t)
	seedExpenses(t, service, clientID)

	details, err := service.Filter(ctx, clientID, expense.Filter{
		Category: "all", From: 0, To: 1000, Year: "2024", Month: "1",
	})
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, int64(50), details[0].Amount)
}

func Test_OnFilter_ShouldAbortOnUnknownCategory(t *testing.T) {
	ctx := context.Background()
	service, clientID := newTestService(t)
	seedExpenses(t, service, clientID)

	_, err := service.Filter(ctx, clientID, expense.Filter{
		Category: "Gadgets", From: 0, To: 1000, Year: "all", Month: "all",
	})
	assert.True(t, customerr.IsNotFound(err))
}

func Test_OnFilter_ShouldRejectNonNumericYear(t *testing.T) {
	ctx := context.Background()
	service, clientID := newTestService(t)

	_, err := service.Filter(ctx, clientID, expense.Filter{
		Category: "all", From: 0, To: 1000, Year: "twenty", Month: "all",
	})
	assert.True(t, customerr.IsValidation(err))
}

func Test_OnFilter_ShouldScopeToClient(t *testing.T) {
	ctx := context.Background()
	st := storage.NewInMemStorage()
	_, john, err := st.CreateAccount(ctx, user.Record{Username: "john", Enabled: true}, client.Record{})
	require.NoError(t, err)
	_, jane, err := st.CreateAccount(ctx, user.Record{Username: "jane", Enabled: true}, client.Record{})
	require.NoError(t, err)
	service := NewService(st)

	_, err = service.Create(ctx, john.ID, Input{Amount: 10, DateTime: "2024-01-15T09:30:00", Category: "Food"})
	require.NoError(t, err)
	_, err = service.Create(ctx, jane.ID, Input{Amount: 20, DateTime: "2024-01-15T09:30:00", Category: "Food"})
	require.NoError(t, err)

	details, err := service.Filter(ctx, john.ID, expense.Filter{
		Category: "all", From: 0, To: 1000, Year: "all", Month: "all",
	})
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, int64(10), details[0].Amount)
}
