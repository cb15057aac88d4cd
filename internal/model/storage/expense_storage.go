package storage

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"max.ks1230/expenses-tracker/internal/entity/expense"
	"max.ks1230/expenses-tracker/internal/model/customerr"
)

var expenseColumns = []string{"id", "amount", "date_time", "description", "category_id", "client_id"}

func (s *PostgresStorage) CreateExpense(ctx context.Context, rec expense.Record) (int64, error) {
	query := psql.Insert("expenses").
		Columns("amount", "date_time", "description", "category_id", "client_id").
		Values(rec.Amount, rec.DateTime, rec.Description, rec.CategoryID, rec.ClientID).
		Suffix("RETURNING id")

	var id int64
	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&id)
	if isForeignKeyViolation(err) {
		return 0, &customerr.ValidationError{Err: "unknown client or category reference"}
	}
	if err != nil {
		return 0, errors.Wrap(err, "create expense")
	}
	return id, nil
}

// UpdateExpense replaces every mutable field of the record. A missing id
// is deliberately a no-op, not an error; callers must not read success as
// proof the row exists.
func (s *PostgresStorage) UpdateExpense(ctx context.Context, rec expense.Record) error {
	query := psql.Update("expenses").
		Set("amount", rec.Amount).
		Set("date_time", rec.DateTime).
		Set("description", rec.Description).
		Set("category_id", rec.CategoryID).
		Where(sq.Eq{"id": rec.ID})

	_, err := query.RunWith(s.db).ExecContext(ctx)
	return errors.Wrap(err, "update expense")
}

// DeleteExpense is idempotent: deleting an absent id succeeds.
func (s *PostgresStorage) DeleteExpense(ctx context.Context, id int64) error {
	query := psql.Delete("expenses").
		Where(sq.Eq{"id": id})

	_, err := query.RunWith(s.db).ExecContext(ctx)
	return errors.Wrap(err, "delete expense")
}

func (s *PostgresStorage) GetExpenseByID(ctx context.Context, id int64) (expense.Record, error) {
	query := psql.Select(expenseColumns...).
		From("expenses").
		Where(sq.Eq{"id": id})

	var res expense.Record
	err := query.RunWith(s.db).QueryRowContext(ctx).
		Scan(&res.ID, &res.Amount, &res.DateTime, &res.Description, &res.CategoryID, &res.ClientID)
	if errors.Is(err, sql.ErrNoRows) {
		return expense.Record{}, &customerr.NotFoundError{Entity: "expense"}
	}
	if err != nil {
		return expense.Record{}, errors.Wrap(err, "get expense")
	}
	return res, nil
}

func (s *PostgresStorage) GetClientExpenses(ctx context.Context, clientID int64) ([]expense.Record, error) {
	query := psql.Select(expenseColumns...).
		From("expenses").
		Where(sq.Eq{"client_id": clientID})

	return s.queryExpenses(ctx, query)
}

// GetClientExpensesSince returns the client's expenses at or after the
// given ISO-8601 date-time. The stored form sorts lexicographically, so a
// plain string comparison is a date comparison.
func (s *PostgresStorage) GetClientExpensesSince(ctx context.Context, clientID int64, since string) ([]expense.Record, error) {
	query := psql.Select(expenseColumns...).
		From("expenses").
		Where(sq.And{
			sq.Eq{"client_id": clientID},
			sq.GtOrEq{"date_time": since},
		})

	return s.queryExpenses(ctx, query)
}

// FilterExpenses executes a resolved filter query. Every criterion value
// travels as a bound parameter; see expenseConditions.
func (s *PostgresStorage) FilterExpenses(ctx context.Context, q ExpenseQuery) ([]expense.Record, error) {
	query := psql.Select(expenseColumns...).
		From("expenses").
		Where(expenseConditions(q))

	return s.queryExpenses(ctx, query)
}

func (s *PostgresStorage) queryExpenses(ctx context.Context, query sq.SelectBuilder) ([]expense.Record, error) {
	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "query expenses")
	}
	defer closeRows(rows)

	exps := make([]expense.Record, 0)
	for rows.Next() {
		var e expense.Record
		err = rows.Scan(&e.ID, &e.Amount, &e.DateTime, &e.Description, &e.CategoryID, &e.ClientID)
		if err != nil {
			return nil, errors.Wrap(err, "query expenses")
		}
		exps = append(exps, e)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "query expenses")
	}
	return exps, nil
}
