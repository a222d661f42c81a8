package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/flowtada/crm/internal/entity"
	"github.com/flowtada/crm/internal/usecase"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetOrCreate(ctx context.Context, c *entity.Customer) (*entity.Customer, bool, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*entity.Customer), args.Bool(1), args.Error(2)
}

func (m *MockCustomerRepository) Update(ctx context.Context, c *entity.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) GetOrCreate(ctx context.Context, c *entity.Company) (*entity.Company, bool, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*entity.Company), args.Bool(1), args.Error(2)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetOrCreate(ctx context.Context, u *entity.User) (*entity.User, bool, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*entity.User), args.Bool(1), args.Error(2)
}

func (m *MockUserRepository) RotatePassword(ctx context.Context, userID, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) SetPassword(ctx context.Context, userID, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

type MockDealRepository struct {
	mock.Mock
}

func (m *MockDealRepository) ListByCustomer(ctx context.Context, customerID string, limit int) ([]*entity.Deal, error) {
	args := m.Called(ctx, customerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Deal), args.Error(1)
}

type MockInteractionRepository struct {
	mock.Mock
}

func (m *MockInteractionRepository) ListByCustomer(ctx context.Context, customerID string, limit int) ([]*entity.Interaction, error) {
	args := m.Called(ctx, customerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Interaction), args.Error(1)
}

type MockCredentialIssuer struct {
	mock.Mock
}

func (m *MockCredentialIssuer) Issue(ctx context.Context, email, firstName, lastName string) error {
	args := m.Called(ctx, email, firstName, lastName)
	return args.Error(0)
}

type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Save(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)
	return args.Error(0)
}

func (m *MockTokenStore) Get(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockTokenStore) Revoke(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) PublishLeadCaptured(ctx context.Context, n usecase.LeadCapturedNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotifier) PublishCredentialIssued(ctx context.Context, n usecase.CredentialIssuedNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
