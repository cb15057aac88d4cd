package expenses

import (
	"context"
	"strconv"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"

	"max.ks1230/expenses-tracker/internal/entity/category"
	"max.ks1230/expenses-tracker/internal/entity/expense"
	"max.ks1230/expenses-tracker/internal/model/customerr"
	"max.ks1230/expenses-tracker/internal/model/storage"
)

type expenseStorage interface {
	CreateExpense(ctx context.Context, rec expense.Record) (int64, error)
	UpdateExpense(ctx context.Context, rec expense.Record) error
	DeleteExpense(ctx context.Context, id int64) error
	GetExpenseByID(ctx context.Context, id int64) (expense.Record, error)
	GetClientExpenses(ctx context.Context, clientID int64) ([]expense.Record, error)
	FilterExpenses(ctx context.Context, q storage.ExpenseQuery) ([]expense.Record, error)
	GetCategoryByName(ctx context.Context, name string) (category.Record, error)
	GetCategoryByID(ctx context.Context, id int64) (category.Record, error)
	ListCategories(ctx context.Context) ([]category.Record, error)
}

// Input carries the client-supplied fields of one expense, with the
// category referenced by display name.
type Input struct {
	Amount      int64
	DateTime    string
	Description string
	Category    string
}

type Service struct {
	storage expenseStorage
}

func NewService(storage expenseStorage) *Service {
	return &Service{storage: storage}
}

func (s *Service) Create(ctx context.Context, clientID int64, in Input) (int64, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "createExpense")
	defer span.Finish()

	rec, err := s.resolveInput(ctx, in)
	if err != nil {
		ext.Error.Set(span, true)
		return 0, errors.Wrap(err, "create expense")
	}
	rec.ClientID = clientID

	id, err := s.storage.CreateExpense(ctx, rec)
	if err != nil {
		ext.Error.Set(span, true)
		return 0, errors.Wrap(err, "create expense")
	}
	return id, nil
}

// Update replaces every field of the expense except its id and owner.
// A missing id is silently ignored; callers cannot use Update to probe
// for existence.
func (s *Service) Update(ctx context.Context, id int64, in Input) error {
	rec, err := s.resolveInput(ctx, in)
	if err != nil {
		return errors.Wrap(err, "update expense")
	}
	rec.ID = id

	return errors.Wrap(s.storage.UpdateExpense(ctx, rec), "update expense")
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return errors.Wrap(s.storage.DeleteExpense(ctx, id), "delete expense")
}

func (s *Service) Get(ctx context.Context, id int64) (expense.Details, error) {
	rec, err := s.storage.GetExpenseByID(ctx, id)
	if err != nil {
		return expense.Details{}, err
	}

	details, err := s.enrich(ctx, []expense.Record{rec})
	if err != nil {
		return expense.Details{}, errors.Wrap(err, "get expense")
	}
	return details[0], nil
}

func (s *Service) ListByClient(ctx context.Context, clientID int64) ([]expense.Details, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "listExpenses")
	defer span.Finish()

	recs, err := s.storage.GetClientExpenses(ctx, clientID)
	if err != nil {
		ext.Error.Set(span, true)
		return nil, errors.Wrap(err, "list expenses")
	}
	return s.enrich(ctx, recs)
}

// Filter runs one filtered listing. Criteria set to "all" are skipped;
// the amount range always applies and is inclusive on both bounds. An
// unknown category name aborts with NotFoundError.
func (s *Service) Filter(ctx context.Context, clientID int64, f expense.Filter) ([]expense.Details, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "filterExpenses")
	defer span.Finish()

	q := storage.ExpenseQuery{
		ClientID:   clientID,
		AmountFrom: f.From,
		AmountTo:   f.To,
	}

	if f.HasCategory() {
		cat, err := s.storage.GetCategoryByName(ctx, f.Category)
		if err != nil {
			ext.Error.Set(span, true)
			return nil, err
		}
		q.CategoryID = &cat.ID
	}

	if f.HasYear() {
		year, err := strconv.Atoi(f.Year)
		if err != nil {
			return nil, &customerr.ValidationError{Err: "year must be a number or \"all\""}
		}
		q.Year = &year
	}

	if f.HasMonth() {
		month, err := strconv.Atoi(f.Month)
		if err != nil {
			return nil, &customerr.ValidationError{Err: "month must be a number or \"all\""}
		}
		q.Month = &month
	}

	recs, err := s.storage.FilterExpenses(ctx, q)
	if err != nil {
		ext.Error.Set(span, true)
		return nil, errors.Wrap(err, "filter expenses")
	}
	return s.enrich(ctx, recs)
}

func (s *Service) Categories(ctx context.Context) ([]category.Record, error) {
	return s.storage.ListCategories(ctx)
}

func (s *Service) resolveInput(ctx context.Context, in Input) (expense.Record, error) {
	if in.Amount == 0 {
		return expense.Record{}, &customerr.ValidationError{Err: "amount is mandatory"}
	}
	if _, err := time.Parse(expense.DateTimeLayout, in.DateTime); err != nil {
		return expense.Record{}, &customerr.ValidationError{Err: "dateTime must be an ISO-8601 local date-time"}
	}

	cat, err := s.storage.GetCategoryByName(ctx, in.Category)
	if customerr.IsNotFound(err) {
		return expense.Record{}, &customerr.ValidationError{Err: "unknown category " + in.Category}
	}
	if err != nil {
		return expense.Record{}, err
	}

	return expense.Record{
		Amount:      in.Amount,
		DateTime:    in.DateTime,
		Description: in.Description,
		CategoryID:  cat.ID,
	}, nil
}

// enrich turns raw records into their display form: the category id
// resolved back to its name and the date-time split in two.
func (s *Service) enrich(ctx context.Context, recs []expense.Record) ([]expense.Details, error) {
	cats, err := s.storage.ListCategories(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "enrich expenses")
	}
	names := make(map[int64]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	details := make([]expense.Details, 0, len(recs))
	for _, rec := range recs {
		name, ok := names[rec.CategoryID]
		if !ok {
			return nil, &customerr.NotFoundError{Entity: "category"}
		}
		date, clock, err := expense.SplitDateTime(rec.DateTime)
		if err != nil {
			return nil, errors.Wrap(err, "enrich expenses")
		}
		details = append(details, expense.Details{
			Record:       rec,
			CategoryName: name,
			Date:         date,
			Time:         clock,
		})
	}
	return details, nil
}
