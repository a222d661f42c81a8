package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/flowtada/crm/internal/entity"
)

// CredentialService provisions portal accounts for trial signups. The
// credential is a random single-use token: its bcrypt hash becomes the
// account password, the plaintext goes to the token store with a TTL and is
// delivered out-of-band by the mail worker. No fixed placeholder password
// exists anywhere in the system.
type CredentialService struct {
	Users    UserRepositoryInterface
	Tokens   TokenStore
	Notifier Notifier
	LoginURL string
	Logger   *zap.Logger
}

func NewCredentialService(users UserRepositoryInterface, tokens TokenStore, notifier Notifier, loginURL string, logger *zap.Logger) *CredentialService {
	return &CredentialService{
		Users:    users,
		Tokens:   tokens,
		Notifier: notifier,
		LoginURL: loginURL,
		Logger:   logger,
	}
}

func (s *CredentialService) Issue(ctx context.Context, email, firstName, lastName string) error {
	token := uuid.New().String()

	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user, err := entity.NewUser(email, firstName, lastName, string(hash))
	if err != nil {
		return err
	}

	// Username == email. When an account already exists the insert resolves
	// to it and the freshly generated token is discarded: existing users
	// keep their password.
	_, created, err := s.Users.GetOrCreate(ctx, user)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	if err := s.Tokens.Save(ctx, email, token); err != nil {
		return err
	}

	if s.Notifier != nil {
		err := s.Notifier.PublishCredentialIssued(ctx, CredentialIssuedNotification{
			Email:     email,
			FirstName: firstName,
			Token:     token,
			LoginURL:  s.LoginURL,
		})
		if err != nil {
			s.Logger.Warn("credential notification publish failed",
				zap.String("email", email), zap.Error(err))
		}
	}

	s.Logger.Info("portal credential issued", zap.String("email", email))
	return nil
}
