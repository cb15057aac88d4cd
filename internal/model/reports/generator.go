package reports

import (
	"context"
	"sort"
	"time"

	"github.com/jinzhu/now"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"max.ks1230/expenses-tracker/internal/entity/category"
	"max.ks1230/expenses-tracker/internal/entity/expense"
	"max.ks1230/expenses-tracker/internal/logger"
	"max.ks1230/expenses-tracker/internal/model/customerr"
)

// Request asks for one period summary for one client. It travels as JSON
// over the reports topic.
type Request struct {
	ClientID int64  `json:"clientId"`
	Period   string `json:"period"`
}

type Record struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

// Report is a per-category expense summary over one period, largest
// category first.
type Report struct {
	ClientID int64    `json:"clientId"`
	Period   string   `json:"period"`
	Records  []Record `json:"records"`
	Total    int64    `json:"total"`
}

var periodStarts = map[string]func() time.Time{
	"":      func() time.Time { return time.Time{} },
	"week":  now.BeginningOfWeek,
	"month": now.BeginningOfMonth,
	"year":  now.BeginningOfYear,
}

// Periods lists every supported report period, the empty one (all time)
// included.
func Periods() []string {
	res := make([]string, 0, len(periodStarts))
	for k := range periodStarts {
		res = append(res, k)
	}
	return res
}

func IsSupported(period string) bool {
	_, ok := periodStarts[period]
	return ok
}

type expensesStorage interface {
	GetClientExpensesSince(ctx context.Context, clientID int64, since string) ([]expense.Record, error)
	ListCategories(ctx context.Context) ([]category.Record, error)
}

type Generator struct {
	storage expensesStorage
}

func NewGenerator(storage expensesStorage) *Generator {
	return &Generator{storage: storage}
}

func (g *Generator) Generate(ctx context.Context, clientID int64, period string) (Report, error) {
	logger.Info("Generate report - start", zap.Int64("clientID", clientID), zap.String("period", period))
	defer logger.Info("Generate report - end")

	span, ctx := opentracing.StartSpanFromContext(ctx, "generateReport")
	defer span.Finish()

	start, ok := periodStarts[period]
	if !ok {
		return Report{}, &customerr.ValidationError{Err: "report period " + period + " is not supported"}
	}

	since := ""
	if s := start(); !s.IsZero() {
		since = s.Format(expense.DateTimeLayout)
	}

	exps, err := g.storage.GetClientExpensesSince(ctx, clientID, since)
	if err != nil {
		ext.Error.Set(span, true)
		return Report{}, errors.Wrap(err, "generate report")
	}

	names, err := g.categoryNames(ctx)
	if err != nil {
		ext.Error.Set(span, true)
		return Report{}, errors.Wrap(err, "generate report")
	}

	report := groupExpenses(exps, names)
	report.ClientID = clientID
	report.Period = period
	return report, nil
}

func (g *Generator) categoryNames(ctx context.Context) (map[int64]string, error) {
	cats, err := g.storage.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	return names, nil
}

func groupExpenses(exps []expense.Record, names map[int64]string) Report {
	m := make(map[string]int64)
	var total int64
	for _, exp := range exps {
		m[names[exp.CategoryID]] += exp.Amount
		total += exp.Amount
	}

	records := make([]Record, 0, len(m))
	for cat, amount := range m {
		records = append(records, Record{Category: cat, Amount: amount})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Amount > records[j].Amount
	})

	return Report{Records: records, Total: total}
}
