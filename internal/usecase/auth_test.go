package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/flowtada/crm/internal/entity"
	"github.com/flowtada/crm/internal/usecase"
)

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestLoginSuccess(t *testing.T) {
	ctx := context.Background()

	users := new(MockUserRepository)
	user := &entity.User{
		ID:           "user-1",
		Username:     "jane@acme.com",
		Email:        "jane@acme.com",
		Active:       true,
		PasswordSet:  true,
		PasswordHash: hashOf(t, "correct horse"),
	}
	users.On("FindByUsername", ctx, "jane@acme.com").Return(user, nil)

	uc := usecase.NewAuthUseCase(users, new(MockTokenStore), zap.NewNop())

	got, err := uc.Login(ctx, "jane@acme.com", "correct horse")

	assert.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestLoginEnumerationResistance(t *testing.T) {
	ctx := context.Background()

	users := new(MockUserRepository)
	users.On("FindByUsername", ctx, "nobody@acme.com").Return(nil, entity.ErrUserNotFound)
	users.On("FindByUsername", ctx, "jane@acme.com").Return(&entity.User{
		Username:     "jane@acme.com",
		Email:        "jane@acme.com",
		Active:       true,
		PasswordSet:  true,
		PasswordHash: hashOf(t, "right password"),
	}, nil)

	uc := usecase.NewAuthUseCase(users, nil, zap.NewNop())

	_, errUnknown := uc.Login(ctx, "nobody@acme.com", "whatever")
	_, errWrongPass := uc.Login(ctx, "jane@acme.com", "wrong password")

	assert.Error(t, errUnknown)
	assert.Error(t, errWrongPass)
	// Byte-identical messages: no user enumeration through error text.
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

func TestLoginInactiveUser(t *testing.T) {
	ctx := context.Background()

	users := new(MockUserRepository)
	users.On("FindByUsername", ctx, "gone@acme.com").Return(&entity.User{
		Username:     "gone@acme.com",
		Active:       false,
		PasswordSet:  true,
		PasswordHash: hashOf(t, "still right"),
	}, nil)

	uc := usecase.NewAuthUseCase(users, nil, zap.NewNop())

	_, err := uc.Login(ctx, "gone@acme.com", "still right")

	assert.ErrorIs(t, err, usecase.ErrInvalidCredentials)
}

func tokenOnlyUser(t *testing.T, token string) *entity.User {
	t.Helper()
	return &entity.User{
		ID:           "user-1",
		Username:     "new@acme.com",
		Email:        "new@acme.com",
		Active:       true,
		PasswordSet:  false,
		PasswordHash: hashOf(t, token),
	}
}

func TestLoginTokenIsSingleUse(t *testing.T) {
	ctx := context.Background()
	token := "one-time-token"

	users := new(MockUserRepository)
	tokens := new(MockTokenStore)

	users.On("FindByUsername", ctx, "new@acme.com").Return(tokenOnlyUser(t, token), nil)
	tokens.On("Get", ctx, "new@acme.com").Return(token, nil).Once()
	users.On("RotatePassword", ctx, "user-1", mock.AnythingOfType("string")).Return(nil).Once()
	tokens.On("Revoke", ctx, "new@acme.com").Return(nil).Once()

	uc := usecase.NewAuthUseCase(users, tokens, zap.NewNop())

	_, err := uc.Login(ctx, "new@acme.com", token)
	assert.NoError(t, err)
	users.AssertExpectations(t)
	tokens.AssertExpectations(t)

	// The token is gone from the store now; replaying it must fail.
	tokens.On("Get", ctx, "new@acme.com").Return("", nil)

	_, err = uc.Login(ctx, "new@acme.com", token)
	assert.ErrorIs(t, err, usecase.ErrInvalidCredentials)
}

func TestLoginStoredHashAloneNeverGrantsAccess(t *testing.T) {
	ctx := context.Background()
	token := "expired-token"

	users := new(MockUserRepository)
	tokens := new(MockTokenStore)

	// The account still carries the bcrypt hash of the token, but the store
	// entry has expired: the hash match must not count.
	users.On("FindByUsername", ctx, "new@acme.com").Return(tokenOnlyUser(t, token), nil)
	tokens.On("Get", ctx, "new@acme.com").Return("", nil)

	uc := usecase.NewAuthUseCase(users, tokens, zap.NewNop())

	_, err := uc.Login(ctx, "new@acme.com", token)

	assert.ErrorIs(t, err, usecase.ErrInvalidCredentials)
	users.AssertNotCalled(t, "RotatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginTokenMismatch(t *testing.T) {
	ctx := context.Background()

	users := new(MockUserRepository)
	tokens := new(MockTokenStore)

	users.On("FindByUsername", ctx, "new@acme.com").Return(tokenOnlyUser(t, "real-token"), nil)
	tokens.On("Get", ctx, "new@acme.com").Return("real-token", nil)

	uc := usecase.NewAuthUseCase(users, tokens, zap.NewNop())

	_, err := uc.Login(ctx, "new@acme.com", "guessed-token")

	assert.ErrorIs(t, err, usecase.ErrInvalidCredentials)
	users.AssertNotCalled(t, "RotatePassword", mock.Anything, mock.Anything, mock.Anything)
	tokens.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
}

func TestLoginTokenRevokeFailureDeniesLogin(t *testing.T) {
	ctx := context.Background()
	token := "one-time-token"

	users := new(MockUserRepository)
	tokens := new(MockTokenStore)

	users.On("FindByUsername", ctx, "new@acme.com").Return(tokenOnlyUser(t, token), nil)
	tokens.On("Get", ctx, "new@acme.com").Return(token, nil)
	users.On("RotatePassword", ctx, "user-1", mock.AnythingOfType("string")).Return(nil)
	tokens.On("Revoke", ctx, "new@acme.com").Return(assert.AnError)

	uc := usecase.NewAuthUseCase(users, tokens, zap.NewNop())

	// If the store entry cannot be dropped the login is denied rather than
	// leaving a live replayable token behind a successful session.
	_, err := uc.Login(ctx, "new@acme.com", token)

	assert.Error(t, err)
	assert.True(t, usecase.IsTechnicalError(err))
}

func TestSetPasswordTooShort(t *testing.T) {
	ctx := context.Background()

	users := new(MockUserRepository)
	uc := usecase.NewAuthUseCase(users, nil, zap.NewNop())

	err := uc.SetPassword(ctx, "jane@acme.com", "short")

	assert.True(t, usecase.IsDomainError(err))
	assert.Equal(t, "Password must be at least 8 characters.", err.Error())
	users.AssertNotCalled(t, "SetPassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetPasswordStoresChosenPassword(t *testing.T) {
	ctx := context.Background()

	users := new(MockUserRepository)
	users.On("FindByUsername", ctx, "new@acme.com").Return(&entity.User{
		ID:       "user-1",
		Username: "new@acme.com",
		Email:    "new@acme.com",
		Active:   true,
	}, nil)

	var storedHash string
	users.On("SetPassword", ctx, "user-1", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { storedHash = args.String(2) }).
		Return(nil)

	uc := usecase.NewAuthUseCase(users, nil, zap.NewNop())

	err := uc.SetPassword(ctx, "new@acme.com", "a real password")

	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("a real password")))
}
