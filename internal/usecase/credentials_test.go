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

func TestIssueCreatesUserWithTokenPassword(t *testing.T) {
	ctx := context.Background()

	users := new(MockUserRepository)
	tokens := new(MockTokenStore)
	notifier := new(MockNotifier)

	var createdUser *entity.User
	users.On("GetOrCreate", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.Username == "new@acme.com" && u.Email == "new@acme.com" && u.Active
	})).Run(func(args mock.Arguments) {
		createdUser = args.Get(1).(*entity.User)
	}).Return(&entity.User{ID: "user-1"}, true, nil)

	var savedToken string
	tokens.On("Save", ctx, "new@acme.com", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { savedToken = args.String(2) }).
		Return(nil)

	notifier.On("PublishCredentialIssued", ctx, mock.MatchedBy(func(n usecase.CredentialIssuedNotification) bool {
		return n.Email == "new@acme.com" && n.Token != "" && n.LoginURL == "https://example.com/portal/login/"
	})).Return(nil)

	svc := usecase.NewCredentialService(users, tokens, notifier, "https://example.com/portal/login/", zap.NewNop())

	err := svc.Issue(ctx, "new@acme.com", "Jane", "Doe")

	assert.NoError(t, err)
	assert.NotEmpty(t, savedToken)
	// The account password is the bcrypt hash of the delivered token, never
	// a fixed literal.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(createdUser.PasswordHash), []byte(savedToken)))
	tokens.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestIssueKeepsExistingUserPassword(t *testing.T) {
	ctx := context.Background()

	users := new(MockUserRepository)
	tokens := new(MockTokenStore)
	notifier := new(MockNotifier)

	existing := &entity.User{ID: "user-1", Username: "old@acme.com", PasswordHash: "$2a$10$existing"}
	users.On("GetOrCreate", ctx, mock.Anything).Return(existing, false, nil)

	svc := usecase.NewCredentialService(users, tokens, notifier, "https://example.com/portal/login/", zap.NewNop())

	err := svc.Issue(ctx, "old@acme.com", "Jane", "Doe")

	assert.NoError(t, err)
	// Existing accounts are untouched: no new token, no delivery.
	tokens.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "PublishCredentialIssued", mock.Anything, mock.Anything)
}

func TestIssueTokensAreUnique(t *testing.T) {
	ctx := context.Background()

	users := new(MockUserRepository)
	tokens := new(MockTokenStore)

	users.On("GetOrCreate", ctx, mock.Anything).Return(&entity.User{ID: "u"}, true, nil)

	var seen []string
	tokens.On("Save", ctx, mock.Anything, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { seen = append(seen, args.String(2)) }).
		Return(nil)

	svc := usecase.NewCredentialService(users, tokens, nil, "", zap.NewNop())

	assert.NoError(t, svc.Issue(ctx, "a@acme.com", "A", ""))
	assert.NoError(t, svc.Issue(ctx, "b@acme.com", "B", ""))

	assert.Len(t, seen, 2)
	assert.NotEqual(t, seen[0], seen[1])
}
