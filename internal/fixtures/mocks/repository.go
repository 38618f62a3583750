// Package mocks holds mockery-style testify mocks of the repository and
// event bus contracts. Return values may be given as functions with the
// method's signature; they are called with the actual arguments.
package mocks

import (
	"context"

	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/domain/customer"
	"github.com/amirasaad/minibank/pkg/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockUnitOfWork is a mock type for the UnitOfWork type
type MockUnitOfWork struct {
	mock.Mock
}

type MockUnitOfWork_Expecter struct {
	mock *mock.Mock
}

func (_m *MockUnitOfWork) EXPECT() *MockUnitOfWork_Expecter {
	return &MockUnitOfWork_Expecter{mock: &_m.Mock}
}

// Do provides a mock function with given fields: ctx, fn
func (_m *MockUnitOfWork) Do(ctx context.Context, fn func(repository.UnitOfWork) error) error {
	ret := _m.Called(ctx, fn)
	if rf, ok := ret.Get(0).(func(context.Context, func(repository.UnitOfWork) error) error); ok {
		return rf(ctx, fn)
	}
	return ret.Error(0)
}

func (_e *MockUnitOfWork_Expecter) Do(ctx, fn any) *mock.Call {
	return _e.mock.On("Do", ctx, fn)
}

// CustomerRepository provides a mock function with given fields:
func (_m *MockUnitOfWork) CustomerRepository() (repository.CustomerRepository, error) {
	ret := _m.Called()
	r0, _ := ret.Get(0).(repository.CustomerRepository)
	return r0, ret.Error(1)
}

func (_e *MockUnitOfWork_Expecter) CustomerRepository() *mock.Call {
	return _e.mock.On("CustomerRepository")
}

// AccountRepository provides a mock function with given fields:
func (_m *MockUnitOfWork) AccountRepository() (repository.AccountRepository, error) {
	ret := _m.Called()
	r0, _ := ret.Get(0).(repository.AccountRepository)
	return r0, ret.Error(1)
}

func (_e *MockUnitOfWork_Expecter) AccountRepository() *mock.Call {
	return _e.mock.On("AccountRepository")
}

// TransactionRepository provides a mock function with given fields:
func (_m *MockUnitOfWork) TransactionRepository() (repository.TransactionRepository, error) {
	ret := _m.Called()
	r0, _ := ret.Get(0).(repository.TransactionRepository)
	return r0, ret.Error(1)
}

func (_e *MockUnitOfWork_Expecter) TransactionRepository() *mock.Call {
	return _e.mock.On("TransactionRepository")
}

// NewMockUnitOfWork creates a new instance of MockUnitOfWork. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockUnitOfWork(t testingT) *MockUnitOfWork {
	m := &MockUnitOfWork{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockCustomerRepository is a mock type for the CustomerRepository type
type MockCustomerRepository struct {
	mock.Mock
}

type MockCustomerRepository_Expecter struct {
	mock *mock.Mock
}

func (_m *MockCustomerRepository) EXPECT() *MockCustomerRepository_Expecter {
	return &MockCustomerRepository_Expecter{mock: &_m.Mock}
}

func (_m *MockCustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	ret := _m.Called(ctx, c)
	if rf, ok := ret.Get(0).(func(context.Context, *customer.Customer) error); ok {
		return rf(ctx, c)
	}
	return ret.Error(0)
}

func (_e *MockCustomerRepository_Expecter) Create(ctx, c any) *mock.Call {
	return _e.mock.On("Create", ctx, c)
}

func (_m *MockCustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	ret := _m.Called(ctx, c)
	if rf, ok := ret.Get(0).(func(context.Context, *customer.Customer) error); ok {
		return rf(ctx, c)
	}
	return ret.Error(0)
}

func (_e *MockCustomerRepository_Expecter) Update(ctx, c any) *mock.Call {
	return _e.mock.On("Update", ctx, c)
}

func (_m *MockCustomerRepository) GetByCode(ctx context.Context, code uuid.UUID) (*customer.Customer, error) {
	ret := _m.Called(ctx, code)
	r0, _ := ret.Get(0).(*customer.Customer)
	return r0, ret.Error(1)
}

func (_e *MockCustomerRepository_Expecter) GetByCode(ctx, code any) *mock.Call {
	return _e.mock.On("GetByCode", ctx, code)
}

func (_m *MockCustomerRepository) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	ret := _m.Called(ctx, email)
	r0, _ := ret.Get(0).(*customer.Customer)
	return r0, ret.Error(1)
}

func (_e *MockCustomerRepository_Expecter) GetByEmail(ctx, email any) *mock.Call {
	return _e.mock.On("GetByEmail", ctx, email)
}

func (_m *MockCustomerRepository) List(ctx context.Context) ([]*customer.Customer, error) {
	ret := _m.Called(ctx)
	r0, _ := ret.Get(0).([]*customer.Customer)
	return r0, ret.Error(1)
}

func (_e *MockCustomerRepository_Expecter) List(ctx any) *mock.Call {
	return _e.mock.On("List", ctx)
}

// NewMockCustomerRepository creates a new instance of MockCustomerRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockCustomerRepository(t testingT) *MockCustomerRepository {
	m := &MockCustomerRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockAccountRepository is a mock type for the AccountRepository type
type MockAccountRepository struct {
	mock.Mock
}

type MockAccountRepository_Expecter struct {
	mock *mock.Mock
}

func (_m *MockAccountRepository) EXPECT() *MockAccountRepository_Expecter {
	return &MockAccountRepository_Expecter{mock: &_m.Mock}
}

func (_m *MockAccountRepository) Create(ctx context.Context, a *account.Account) error {
	ret := _m.Called(ctx, a)
	if rf, ok := ret.Get(0).(func(context.Context, *account.Account) error); ok {
		return rf(ctx, a)
	}
	return ret.Error(0)
}

func (_e *MockAccountRepository_Expecter) Create(ctx, a any) *mock.Call {
	return _e.mock.On("Create", ctx, a)
}

func (_m *MockAccountRepository) GetByCode(ctx context.Context, code uuid.UUID) (*account.Account, error) {
	ret := _m.Called(ctx, code)
	r0, _ := ret.Get(0).(*account.Account)
	return r0, ret.Error(1)
}

func (_e *MockAccountRepository_Expecter) GetByCode(ctx, code any) *mock.Call {
	return _e.mock.On("GetByCode", ctx, code)
}

func (_m *MockAccountRepository) GetByCustomerID(ctx context.Context, customerID uint) (*account.Account, error) {
	ret := _m.Called(ctx, customerID)
	r0, _ := ret.Get(0).(*account.Account)
	return r0, ret.Error(1)
}

func (_e *MockAccountRepository_Expecter) GetByCustomerID(ctx, customerID any) *mock.Call {
	return _e.mock.On("GetByCustomerID", ctx, customerID)
}

func (_m *MockAccountRepository) GetForUpdate(ctx context.Context, codes ...uuid.UUID) (map[uuid.UUID]*account.Account, error) {
	ret := _m.Called(ctx, codes)
	r0, _ := ret.Get(0).(map[uuid.UUID]*account.Account)
	return r0, ret.Error(1)
}

// GetForUpdate matches the codes as one []uuid.UUID argument.
func (_e *MockAccountRepository_Expecter) GetForUpdate(ctx, codes any) *mock.Call {
	return _e.mock.On("GetForUpdate", ctx, codes)
}

func (_m *MockAccountRepository) UpdateBalance(ctx context.Context, a *account.Account) error {
	ret := _m.Called(ctx, a)
	if rf, ok := ret.Get(0).(func(context.Context, *account.Account) error); ok {
		return rf(ctx, a)
	}
	return ret.Error(0)
}

func (_e *MockAccountRepository_Expecter) UpdateBalance(ctx, a any) *mock.Call {
	return _e.mock.On("UpdateBalance", ctx, a)
}

func (_m *MockAccountRepository) List(ctx context.Context) ([]*account.Account, error) {
	ret := _m.Called(ctx)
	r0, _ := ret.Get(0).([]*account.Account)
	return r0, ret.Error(1)
}

func (_e *MockAccountRepository_Expecter) List(ctx any) *mock.Call {
	return _e.mock.On("List", ctx)
}

// NewMockAccountRepository creates a new instance of MockAccountRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockAccountRepository(t testingT) *MockAccountRepository {
	m := &MockAccountRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockTransactionRepository is a mock type for the TransactionRepository type
type MockTransactionRepository struct {
	mock.Mock
}

type MockTransactionRepository_Expecter struct {
	mock *mock.Mock
}

func (_m *MockTransactionRepository) EXPECT() *MockTransactionRepository_Expecter {
	return &MockTransactionRepository_Expecter{mock: &_m.Mock}
}

func (_m *MockTransactionRepository) Create(ctx context.Context, tx *account.Transaction) error {
	ret := _m.Called(ctx, tx)
	if rf, ok := ret.Get(0).(func(context.Context, *account.Transaction) error); ok {
		return rf(ctx, tx)
	}
	return ret.Error(0)
}

func (_e *MockTransactionRepository_Expecter) Create(ctx, tx any) *mock.Call {
	return _e.mock.On("Create", ctx, tx)
}

func (_m *MockTransactionRepository) ListSent(ctx context.Context, accountID uint) ([]*account.Transaction, error) {
	ret := _m.Called(ctx, accountID)
	r0, _ := ret.Get(0).([]*account.Transaction)
	return r0, ret.Error(1)
}

func (_e *MockTransactionRepository_Expecter) ListSent(ctx, accountID any) *mock.Call {
	return _e.mock.On("ListSent", ctx, accountID)
}

func (_m *MockTransactionRepository) ListReceived(ctx context.Context, accountID uint) ([]*account.Transaction, error) {
	ret := _m.Called(ctx, accountID)
	r0, _ := ret.Get(0).([]*account.Transaction)
	return r0, ret.Error(1)
}

func (_e *MockTransactionRepository_Expecter) ListReceived(ctx, accountID any) *mock.Call {
	return _e.mock.On("ListReceived", ctx, accountID)
}

func (_m *MockTransactionRepository) ListByAccount(ctx context.Context, accountID uint) ([]*account.Transaction, error) {
	ret := _m.Called(ctx, accountID)
	r0, _ := ret.Get(0).([]*account.Transaction)
	return r0, ret.Error(1)
}

func (_e *MockTransactionRepository_Expecter) ListByAccount(ctx, accountID any) *mock.Call {
	return _e.mock.On("ListByAccount", ctx, accountID)
}

// NewMockTransactionRepository creates a new instance of MockTransactionRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockTransactionRepository(t testingT) *MockTransactionRepository {
	m := &MockTransactionRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var (
	_ repository.UnitOfWork            = (*MockUnitOfWork)(nil)
	_ repository.CustomerRepository    = (*MockCustomerRepository)(nil)
	_ repository.AccountRepository     = (*MockAccountRepository)(nil)
	_ repository.TransactionRepository = (*MockTransactionRepository)(nil)
)
