package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"max.ks1230/expenses-tracker/internal/entity/client"
	"max.ks1230/expenses-tracker/internal/entity/user"
	"max.ks1230/expenses-tracker/internal/model/customerr"
	"max.ks1230/expenses-tracker/internal/model/storage"
)

func Test_OnRegister_ShouldCreateEnabledStandardUser(t *testing.T) {
	ctx := context.Background()
	st := storage.NewInMemStorage()
	service := NewService(st)

	created, err := service.Register(ctx, Registration{
		Username:  "john",
		Password:  "secret",
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "John", created.FirstName)
	assert.NotZero(t, created.ID)

	u, err := st.GetUserByUsername(ctx, "john")
	require.NoError(t, err)
	assert.True(t, u.Enabled)
	assert.Equal(t, []string{user.RoleStandard}, u.Roles)
	assert.NotEqual(t, "secret", u.PasswordHash)
}

func Test_OnRegister_ShouldRejectDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	_, err := service.Register(ctx, Registration{Username: "john", Password: "secret"})
	require.NoError(t, err)

	_, err = service.Register(ctx, Registration{Username: "john", Password: "other"})
	assert.True(t, customerr.IsValidation(err))

	_, _, err = service.Authenticate(ctx, "john", "secret")
	assert.NoError(t, err)
}

func Test_OnRegister_ShouldRequireCredentials(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	_, err := service.Register(ctx, Registration{Username: "", Password: "secret"})
	assert.True(t, customerr.IsValidation(err))

	_, err = service.Register(ctx, Registration{Username: "john", Password: ""})
	assert.True(t, customerr.IsValidation(err))
}

func Test_OnAuthenticate_ShouldReturnUserAndClient(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	created, err := service.Register(ctx, Registration{
		Username: "john", Password: "secret", FirstName: "John",
	})
	require.NoError(t, err)

	u, c, err := service.Authenticate(ctx, "john", "secret")
	require.NoError(t, err)
	assert.Equal(t, "john", u.Username)
	assert.Equal(t, created.ID, c.ID)
	assert.Equal(t, "John", c.FirstName)
}

func Test_OnAuthenticate_ShouldRejectWrongPassword(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	_, err := service.Register(ctx, Registration{Username: "john", Password: "secret"})
	require.NoError(t, err)

	_, _, err = service.Authenticate(ctx, "john", "guess")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func Test_OnAuthenticate_ShouldRejectUnknownUser(t *testing.T) {
	ctx := context.Background()
	service := NewService(storage.NewInMemStorage())

	_, _, err := service.Authenticate(ctx, "nobody", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func Test_OnAuthenticate_ShouldRejectDisabledUser(t *testing.T) {
	ctx := context.Background()
	st := storage.NewInMemStorage()
	service := NewService(st)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)
	require.NoError(t, err)
	_, _, err = st.CreateAccount(ctx,
		user.Record{Username: "john", PasswordHash: string(hash), Enabled: false},
		client.Record{},
	)
	require.NoError(t, err)

	_, _, err = service.Authenticate(ctx, "john", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
