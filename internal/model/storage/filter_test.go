package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFilterSQL(t *testing.T, q ExpenseQuery) (string, []interface{}) {
	t.Helper()
	sqlText, args, err := psql.Select(expenseColumns...).
		From("expenses").
		Where(expenseConditions(q)).
		ToSql()
	require.NoError(t, err)
	return sqlText, args
}

func Test_OnEmptyCriteria_ShouldScopeByClientAndAmountOnly(t *testing.T) {
	sqlText, args := buildFilterSQL(t, ExpenseQuery{
		ClientID:   7,
		AmountFrom: 10,
		AmountTo:   100,
	})

	assert.Equal(t,
		"SELECT id, amount, date_time, description, category_id, client_id "+
			"FROM expenses WHERE (client_id = $1 AND amount BETWEEN $2 AND $3)",
		sqlText)
	assert.Equal(t, []interface{}{int64(7), int64(10), int64(100)}, args)
}

func Test_OnFullCriteria_ShouldBindEveryValue(t *testing.T) {
	categoryID := int64(3)
	year, month := 2023, 5

	sqlText, args := buildFilterSQL(t, ExpenseQuery{
		ClientID:   7,
		CategoryID: &categoryID,
		AmountFrom: 0,
		AmountTo:   500,
		Year:       &year,
		Month:      &month,
	})

	assert.Equal(t,
		"SELECT id, amount, date_time, description, category_id, client_id "+
			"FROM expenses WHERE (client_id = $1 AND category_id = $2 "+
			"AND amount BETWEEN $3 AND $4 "+
			"AND CAST(SUBSTR(date_time, 1, 4) AS INTEGER) = $5 "+
			"AND CAST(SUBSTR(date_time, 6, 2) AS INTEGER) = $6)",
		sqlText)
	assert.Equal(t, []interface{}{int64(7), int64(3), int64(0), int64(500), 2023, 5}, args)
}

func Test_OnAnyCriteria_ShouldNeverInterpolateValues(t *testing.T) {
	categoryID := int64(42)
	year, month := 2024, 12

	sqlText, _ := buildFilterSQL(t, ExpenseQuery{
		ClientID:   99,
		CategoryID: &categoryID,
		AmountFrom: 123,
		AmountTo:   456,
		Year:       &year,
		Month:      &month,
	})

	for _, literal := range []string{"42", "99", "123", "456", "2024"} {
		assert.False(t, strings.Contains(sqlText, literal),
			"criterion value %s leaked into SQL text", literal)
	}
}

func Test_OnYearOnly_ShouldSkipMonthCondition(t *testing.T) {
	year := 2022

	sqlText, args := buildFilterSQL(t, ExpenseQuery{
		ClientID:   1,
		AmountFrom: 0,
		AmountTo:   1000,
		Year:       &year,
	})

	assert.Contains(t, sqlText, "SUBSTR(date_time, 1, 4)")
	assert.NotContains(t, sqlText, "SUBSTR(date_time, 6, 2)")
	assert.Equal(t, []interface{}{int64(1), int64(0), int64(1000), 2022}, args)
}
