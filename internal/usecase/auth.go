package usecase

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/flowtada/crm/internal/entity"
)

// ErrInvalidCredentials is the single failure returned by Login. Unknown
// user, wrong password, disabled account and expired token all collapse into
// this one value so responses cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("Invalid email or password")

type AuthUseCase struct {
	Users  UserRepositoryInterface
	Tokens TokenStore
	Logger *zap.Logger
}

func NewAuthUseCase(users UserRepositoryInterface, tokens TokenStore, logger *zap.Logger) *AuthUseCase {
	return &AuthUseCase{Users: users, Tokens: tokens, Logger: logger}
}

// Login verifies the credential. Username is always the email. Accounts that
// have chosen a password are checked against the stored bcrypt hash. Trial
// accounts that never set one can only be opened with their outstanding
// one-time token, and only while that token is still in the store; the first
// use rotates the stored hash and revokes the token, so a delivered token
// never opens the account twice.
func (uc *AuthUseCase) Login(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := uc.Users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, &TechnicalError{Code: CodeInternalError, Message: err.Error()}
	}

	if !user.Active {
		return nil, ErrInvalidCredentials
	}

	if !user.PasswordSet {
		return uc.loginWithToken(ctx, user, password)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	uc.Logger.Info("portal login", zap.String("username", user.Username))
	return user, nil
}

// loginWithToken consumes the one-time token. The stored bcrypt hash alone
// never grants access here: once the store entry is revoked or expires, the
// emailed token is dead even though its hash is still on the account.
func (uc *AuthUseCase) loginWithToken(ctx context.Context, user *entity.User, password string) (*entity.User, error) {
	if uc.Tokens == nil {
		return nil, ErrInvalidCredentials
	}

	token, err := uc.Tokens.Get(ctx, user.Email)
	if err != nil {
		return nil, &TechnicalError{Code: CodeInternalError, Message: err.Error()}
	}
	if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(password)) != 1 {
		return nil, ErrInvalidCredentials
	}

	// Burn the token: overwrite the hash with an unguessable throwaway and
	// drop the store entry. A rotate-then-revoke failure denies this login;
	// the token stays replayable only until the retry or the TTL wins.
	rotated, err := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), bcrypt.DefaultCost)
	if err != nil {
		return nil, &TechnicalError{Code: CodeInternalError, Message: err.Error()}
	}
	if err := uc.Users.RotatePassword(ctx, user.ID, string(rotated)); err != nil {
		return nil, &TechnicalError{Code: CodeInternalError, Message: err.Error()}
	}
	if err := uc.Tokens.Revoke(ctx, user.Email); err != nil {
		return nil, &TechnicalError{Code: CodeInternalError, Message: err.Error()}
	}

	uc.Logger.Info("portal login with one-time token", zap.String("username", user.Username))
	return user, nil
}

// SetPassword stores a user-chosen password for the authenticated account,
// moving it off the one-time-token path for good.
func (uc *AuthUseCase) SetPassword(ctx context.Context, email, password string) error {
	if len(password) < 8 {
		return &DomainError{
			Code:    CodeValidationError,
			Message: "Password must be at least 8 characters.",
		}
	}

	user, err := uc.Users.FindByUsername(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return &DomainError{Code: CodeValidationError, Message: "No portal account found for this session."}
		}
		return &TechnicalError{Code: CodeInternalError, Message: err.Error()}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return &TechnicalError{Code: CodeInternalError, Message: err.Error()}
	}
	if err := uc.Users.SetPassword(ctx, user.ID, string(hash)); err != nil {
		return &TechnicalError{Code: CodeInternalError, Message: err.Error()}
	}

	uc.Logger.Info("portal password set", zap.String("username", user.Username))
	return nil
}
