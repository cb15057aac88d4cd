package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"max.ks1230/expenses-tracker/internal/entity/client"
	"max.ks1230/expenses-tracker/internal/entity/expense"
	"max.ks1230/expenses-tracker/internal/entity/user"
	"max.ks1230/expenses-tracker/internal/model/customerr"
	"max.ks1230/expenses-tracker/internal/model/storage"
)

func seedAccount(t *testing.T, st *storage.InMemStorage) int64 {
	t.Helper()
	_, c, err := st.CreateAccount(context.Background(),
		user.Record{Username: "john", Enabled: true},
		client.Record{},
	)
	require.NoError(t, err)
	return c.ID
}

func addExpense(t *testing.T, st *storage.InMemStorage, clientID int64, category string, amount int64, dateTime string) {
	t.Helper()
	ctx := context.Background()
	cat, err := st.GetCategoryByName(ctx, category)
	require.NoError(t, err)
	_, err = st.CreateExpense(ctx, expense.Record{
		Amount:     amount,
		DateTime:   dateTime,
		CategoryID: cat.ID,
		ClientID:   clientID,
	})
	require.NoError(t, err)
}

func Test_OnGenerate_ShouldGroupByCategoryLargestFirst(t *testing.T) {
	ctx := context.Background()
	st := storage.NewInMemStorage()
	clientID := seedAccount(t, st)

	addExpense(t, st, clientID, "Food", 100, "2024-01-10T12:00:00")
	addExpense(t, st, clientID, "Food", 50, "2024-01-11T12:00:00")
	addExpense(t, st, clientID, "Transport", 200, "2024-01-12T12:00:00")

	report, err := NewGenerator(st).Generate(ctx, clientID, "")
	require.NoError(t, err)

	assert.Equal(t, clientID, report.ClientID)
	assert.Equal(t, int64(350), report.Total)
	require.Len(t, report.Records, 2)
	assert.Equal(t, Record{Category: "Transport", Amount: 200}, report.Records[0])
	assert.Equal(t, Record{Category: "Food", Amount: 150}, report.Records[1])
}

func Test_OnGenerate_ShouldLimitToPeriod(t *testing.T) {
	ctx := context.Background()
	st := storage.NewInMemStorage()
	clientID := seedAccount(t, st)

	addExpense(t, st, clientID, "Food", 100, "2000-01-01T00:00:00")
	addExpense(t, st, clientID, "Food", 40, time.Now().Format(expense.DateTimeLayout))

	report, err := NewGenerator(st).Generate(ctx, clientID, "year")
	require.NoError(t, err)
	assert.Equal(t, int64(40), report.Total)
}

func Test_OnGenerate_ShouldRejectUnknownPeriod(t *testing.T) {
	ctx := context.Background()
	st := storage.NewInMemStorage()
	clientID := seedAccount(t, st)

	_, err := NewGenerator(st).Generate(ctx, clientID, "decade")
	assert.True(t, customerr.IsValidation(err))
}

func Test_OnPeriods_ShouldIncludeAllTime(t *testing.T) {
	assert.Contains(t, Periods(), "")
	assert.True(t, IsSupported("week"))
	assert.False(t, IsSupported("decade"))
}
