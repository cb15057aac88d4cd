package storage

import (
	sq "github.com/Masterminds/squirrel"
)

// ExpenseQuery is a fully resolved expense filter: the category name is
// already mapped to its id and year/month are parsed numbers. Nil optional
// fields mean "all".
type ExpenseQuery struct {
	ClientID   int64
	CategoryID *int64
	AmountFrom int64
	AmountTo   int64
	Year       *int
	Month      *int
}

// expenseConditions builds the conjunctive predicate for one filter run.
// The amount range is inclusive on both bounds, and year/month match on
// the leading and the 6th-7th characters of the stored date-time string.
// Every criterion value is a bound placeholder; none reaches the query text.
func expenseConditions(q ExpenseQuery) sq.And {
	cond := sq.And{sq.Eq{"client_id": q.ClientID}}

	if q.CategoryID != nil {
		cond = append(cond, sq.Eq{"category_id": *q.CategoryID})
	}

	cond = append(cond, sq.Expr("amount BETWEEN ? AND ?", q.AmountFrom, q.AmountTo))

	if q.Year != nil {
		cond = append(cond, sq.Expr("CAST(SUBSTR(date_time, 1, 4) AS INTEGER) = ?", *q.Year))
	}
	if q.Month != nil {
		cond = append(cond, sq.Expr("CAST(SUBSTR(date_time, 6, 2) AS INTEGER) = ?", *q.Month))
	}

	return cond
}
