package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"max.ks1230/expenses-tracker/internal/entity/category"
	"max.ks1230/expenses-tracker/internal/entity/client"
	"max.ks1230/expenses-tracker/internal/entity/user"
	"max.ks1230/expenses-tracker/internal/logger"
	"max.ks1230/expenses-tracker/internal/model/customerr"
)

const dsnTemplate = "user=%s password=%s host=%s dbname=%s sslmode=disable"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type config interface {
	Host() string
	Username() string
	Password() string
	Database() string
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config config) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", fmt.Sprintf(dsnTemplate,
		config.Username(),
		config.Password(),
		config.Host(),
		config.Database()))
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	return &PostgresStorage{db}, nil
}

func (s *PostgresStorage) GetUserByUsername(ctx context.Context, username string) (user.Record, error) {
	query := psql.Select("id", "username", "password_hash", "enabled", "client_id").
		From("users").
		Where(sq.Eq{"username": username})

	var res user.Record
	err := query.RunWith(s.db).QueryRowContext(ctx).
		Scan(&res.ID, &res.Username, &res.PasswordHash, &res.Enabled, &res.ClientID)
	if errors.Is(err, sql.ErrNoRows) {
		return user.Record{}, &customerr.NotFoundError{Entity: "user"}
	}
	if err != nil {
		return user.Record{}, errors.Wrap(err, "get user")
	}

	res.Roles, err = s.getUserRoles(ctx, res.ID)
	if err != nil {
		return user.Record{}, errors.Wrap(err, "get user")
	}
	return res, nil
}

func (s *PostgresStorage) getUserRoles(ctx context.Context, userID int64) ([]string, error) {
	query := psql.Select("role").
		From("user_roles").
		Where(sq.Eq{"user_id": userID})

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get user roles")
	}
	defer closeRows(rows)

	roles := make([]string, 0)
	for rows.Next() {
		var role string
		if err = rows.Scan(&role); err != nil {
			return nil, errors.Wrap(err, "get user roles")
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// CreateAccount persists the auth user and its client profile in one
// transaction. Either both rows exist afterwards or neither does.
func (s *PostgresStorage) CreateAccount(ctx context.Context, u user.Record, c client.Record) (user.Record, client.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return user.Record{}, client.Record{}, errors.Wrap(err, "create account")
	}
	defer rollback(tx)

	query := psql.Insert("clients").
		Columns("first_name", "last_name", "email").
		Values(c.FirstName, c.LastName, c.Email).
		Suffix("RETURNING id")
	err = query.RunWith(tx).QueryRowContext(ctx).Scan(&c.ID)
	if err != nil {
		return user.Record{}, client.Record{}, errors.Wrap(err, "create account")
	}

	u.ClientID = c.ID
	query = psql.Insert("users").
		Columns("username", "password_hash", "enabled", "client_id").
		Values(u.Username, u.PasswordHash, u.Enabled, u.ClientID).
		Suffix("RETURNING id")
	err = query.RunWith(tx).QueryRowContext(ctx).Scan(&u.ID)
	if isUniqueViolation(err) {
		return user.Record{}, client.Record{}, &customerr.ValidationError{Err: "username is already taken"}
	}
	if err != nil {
		return user.Record{}, client.Record{}, errors.Wrap(err, "create account")
	}

	for _, role := range u.Roles {
		roleQuery := psql.Insert("user_roles").
			Columns("user_id", "role").
			Values(u.ID, role)
		if _, err = roleQuery.RunWith(tx).ExecContext(ctx); err != nil {
			return user.Record{}, client.Record{}, errors.Wrap(err, "create account")
		}
	}

	if err = tx.Commit(); err != nil {
		return user.Record{}, client.Record{}, errors.Wrap(err, "create account")
	}
	return u, c, nil
}

func (s *PostgresStorage) GetClientByID(ctx context.Context, id int64) (client.Record, error) {
	query := psql.Select("id", "first_name", "last_name", "email").
		From("clients").
		Where(sq.Eq{"id": id})

	var res client.Record
	err := query.RunWith(s.db).QueryRowContext(ctx).
		Scan(&res.ID, &res.FirstName, &res.LastName, &res.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return client.Record{}, &customerr.NotFoundError{Entity: "client"}
	}
	if err != nil {
		return client.Record{}, errors.Wrap(err, "get client")
	}
	return res, nil
}

func (s *PostgresStorage) GetCategoryByName(ctx context.Context, name string) (category.Record, error) {
	query := psql.Select("id", "name").
		From("categories").
		Where(sq.Eq{"name": name})

	var res category.Record
	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&res.ID, &res.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return category.Record{}, &customerr.NotFoundError{Entity: "category"}
	}
	if err != nil {
		return category.Record{}, errors.Wrap(err, "get category")
	}
	return res, nil
}

func (s *PostgresStorage) GetCategoryByID(ctx context.Context, id int64) (category.Record, error) {
	query := psql.Select("id", "name").
		From("categories").
		Where(sq.Eq{"id": id})

	var res category.Record
	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&res.ID, &res.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return category.Record{}, &customerr.NotFoundError{Entity: "category"}
	}
	if err != nil {
		return category.Record{}, errors.Wrap(err, "get category")
	}
	return res, nil
}

func (s *PostgresStorage) ListCategories(ctx context.Context) ([]category.Record, error) {
	query := psql.Select("id", "name").
		From("categories").
		OrderBy("name")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	defer closeRows(rows)

	cats := make([]category.Record, 0)
	for rows.Next() {
		var c category.Record
		if err = rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, errors.Wrap(err, "list categories")
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation"
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation"
}

func rollback(tx *sql.Tx) {
	err := tx.Rollback()
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		logger.Warn("error when transaction rollback", zap.Error(err))
	}
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		logger.Warn("error closing rows", zap.Error(err))
	}
}
