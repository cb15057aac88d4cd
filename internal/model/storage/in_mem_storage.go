package storage

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"max.ks1230/expenses-tracker/internal/entity/category"
	"max.ks1230/expenses-tracker/internal/entity/client"
	"max.ks1230/expenses-tracker/internal/entity/expense"
	"max.ks1230/expenses-tracker/internal/entity/user"
	"max.ks1230/expenses-tracker/internal/model/customerr"
)

// DefaultCategories mirrors the reference data seeded by migration.
var DefaultCategories = []string{
	"Food", "Transport", "Entertainment", "Shopping", "Utilities", "Health", "Other",
}

// InMemStorage is a map-backed stand-in for PostgresStorage, used in
// tests and local development. It reproduces the store's observable
// semantics, including the soft-fail update and idempotent delete.
type InMemStorage struct {
	mu         sync.Mutex
	users      map[int64]user.Record
	clients    map[int64]client.Record
	categories map[int64]category.Record
	expenses   map[int64]expense.Record
	nextID     int64
}

func NewInMemStorage(categories ...string) *InMemStorage {
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	s := &InMemStorage{
		users:      make(map[int64]user.Record),
		clients:    make(map[int64]client.Record),
		categories: make(map[int64]category.Record),
		expenses:   make(map[int64]expense.Record),
	}
	for _, name := range categories {
		id := s.id()
		s.categories[id] = category.Record{ID: id, Name: name}
	}
	return s
}

func (s *InMemStorage) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *InMemStorage) GetUserByUsername(_ context.Context, username string) (user.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return user.Record{}, &customerr.NotFoundError{Entity: "user"}
}

func (s *InMemStorage) CreateAccount(_ context.Context, u user.Record, c client.Record) (user.Record, client.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == u.Username {
			return user.Record{}, client.Record{}, &customerr.ValidationError{Err: "username is already taken"}
		}
	}

	c.ID = s.id()
	s.clients[c.ID] = c

	u.ID = s.id()
	u.ClientID = c.ID
	s.users[u.ID] = u
	return u, c, nil
}

func (s *InMemStorage) GetClientByID(_ context.Context, id int64) (client.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[id]
	if !ok {
		return client.Record{}, &customerr.NotFoundError{Entity: "client"}
	}
	return c, nil
}

func (s *InMemStorage) GetCategoryByName(_ context.Context, name string) (category.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return category.Record{}, &customerr.NotFoundError{Entity: "category"}
}

func (s *InMemStorage) GetCategoryByID(_ context.Context, id int64) (category.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return category.Record{}, &customerr.NotFoundError{Entity: "category"}
	}
	return c, nil
}

func (s *InMemStorage) ListCategories(_ context.Context) ([]category.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cats := make([]category.Record, 0, len(s.categories))
	for _, c := range s.categories {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	return cats, nil
}

func (s *InMemStorage) CreateExpense(_ context.Context, rec expense.Record) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[rec.ClientID]; !ok {
		return 0, &customerr.ValidationError{Err: "unknown client or category reference"}
	}
	if _, ok := s.categories[rec.CategoryID]; !ok {
		return 0, &customerr.ValidationError{Err: "unknown client or category reference"}
	}

	rec.ID = s.id()
	s.expenses[rec.ID] = rec
	return rec.ID, nil
}

func (s *InMemStorage) UpdateExpense(_ context.Context, rec expense.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.expenses[rec.ID]
	if !ok {
		return nil
	}
	existing.Amount = rec.Amount
	existing.DateTime = rec.DateTime
	existing.Description = rec.Description
	existing.CategoryID = rec.CategoryID
	s.expenses[rec.ID] = existing
	return nil
}

func (s *InMemStorage) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.expenses, id)
	return nil
}

func (s *InMemStorage) GetExpenseByID(_ context.Context, id int64) (expense.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.expenses[id]
	if !ok {
		return expense.Record{}, &customerr.NotFoundError{Entity: "expense"}
	}
	return e, nil
}

func (s *InMemStorage) GetClientExpenses(_ context.Context, clientID int64) ([]expense.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exps := make([]expense.Record, 0)
	for _, e := range s.expenses {
		if e.ClientID == clientID {
			exps = append(exps, e)
		}
	}
	return exps, nil
}

func (s *InMemStorage) GetClientExpensesSince(_ context.Context, clientID int64, since string) ([]expense.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exps := make([]expense.Record, 0)
	for _, e := range s.expenses {
		if e.ClientID == clientID && e.DateTime >= since {
			exps = append(exps, e)
		}
	}
	return exps, nil
}

func (s *InMemStorage) FilterExpenses(_ context.Context, q ExpenseQuery) ([]expense.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exps := make([]expense.Record, 0)
	for _, e := range s.expenses {
		if matchesQuery(e, q) {
			exps = append(exps, e)
		}
	}
	return exps, nil
}

func matchesQuery(e expense.Record, q ExpenseQuery) bool {
	if e.ClientID != q.ClientID {
		return false
	}
	if q.CategoryID != nil && e.CategoryID != *q.CategoryID {
		return false
	}
	if e.Amount < q.AmountFrom || e.Amount > q.AmountTo {
		return false
	}
	if q.Year != nil && dateTimePart(e.DateTime, 0, 4) != *q.Year {
		return false
	}
	if q.Month != nil && dateTimePart(e.DateTime, 5, 7) != *q.Month {
		return false
	}
	return true
}

func dateTimePart(dateTime string, from, to int) int {
	if len(dateTime) < to {
		return -1
	}
	n, err := strconv.Atoi(dateTime[from:to])
	if err != nil {
		return -1
	}
	return n
}
