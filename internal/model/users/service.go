package users

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"max.ks1230/expenses-tracker/internal/entity/client"
	"max.ks1230/expenses-tracker/internal/entity/user"
	"max.ks1230/expenses-tracker/internal/model/customerr"
)

// ErrInvalidCredentials hides whether the username or the password was
// wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

type accountStorage interface {
	GetUserByUsername(ctx context.Context, username string) (user.Record, error)
	CreateAccount(ctx context.Context, u user.Record, c client.Record) (user.Record, client.Record, error)
	GetClientByID(ctx context.Context, id int64) (client.Record, error)
}

// Registration is the sign-up form: auth credentials plus the client
// profile created alongside them.
type Registration struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
}

type Service struct {
	storage accountStorage
}

func NewService(storage accountStorage) *Service {
	return &Service{storage: storage}
}

// Register creates the auth user and its client profile atomically. A
// duplicate username leaves the store untouched and reports a
// ValidationError.
func (s *Service) Register(ctx context.Context, reg Registration) (client.Record, error) {
	if reg.Username == "" || reg.Password == "" {
		return client.Record{}, &customerr.ValidationError{Err: "username and password are mandatory"}
	}

	_, err := s.storage.GetUserByUsername(ctx, reg.Username)
	if err == nil {
		return client.Record{}, &customerr.ValidationError{Err: "username is already taken"}
	}
	if !customerr.IsNotFound(err) {
		return client.Record{}, errors.Wrap(err, "register")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return client.Record{}, errors.Wrap(err, "register")
	}

	u := user.Record{
		Username:     reg.Username,
		PasswordHash: string(hash),
		Enabled:      true,
		Roles:        []string{user.RoleStandard},
	}
	c := client.Record{
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Email:     reg.Email,
	}

	_, created, err := s.storage.CreateAccount(ctx, u, c)
	if err != nil {
		return client.Record{}, err
	}
	return created, nil
}

// Authenticate verifies the credentials and returns the user together
// with the owning client profile.
func (s *Service) Authenticate(ctx context.Context, username, password string) (user.Record, client.Record, error) {
	u, err := s.storage.GetUserByUsername(ctx, username)
	if customerr.IsNotFound(err) {
		return user.Record{}, client.Record{}, ErrInvalidCredentials
	}
	if err != nil {
		return user.Record{}, client.Record{}, errors.Wrap(err, "authenticate")
	}
	if !u.Enabled {
		return user.Record{}, client.Record{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return user.Record{}, client.Record{}, ErrInvalidCredentials
	}

	c, err := s.storage.GetClientByID(ctx, u.ClientID)
	if err != nil {
		return user.Record{}, client.Record{}, errors.Wrap(err, "authenticate")
	}
	return u, c, nil
}

func (s *Service) ClientByID(ctx context.Context, id int64) (client.Record, error) {
	return s.storage.GetClientByID(ctx, id)
}
