package endpoints

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/loandesk/loandesk/pkg/model"
	"github.com/loandesk/loandesk/pkg/server/store"
)

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	args := m.Called()
	return args.Error(0)
}

// MockLoansStore implements store.LoansStore for testing using testify/mock
type MockLoansStore struct {
	mock.Mock
}

func (m *MockLoansStore) CreateLoan(ctx context.Context, loan *model.LoanApplication) error {
	args := m.Called(loan)
	return args.Error(0)
}

func (m *MockLoansStore) FetchLoan(ctx context.Context, id string) (*model.LoanApplication, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoanApplication), args.Error(1)
}

func (m *MockLoansStore) ListLoans(ctx context.Context) ([]model.LoanApplication, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LoanApplication), args.Error(1)
}

func (m *MockLoansStore) ListLoansByOwner(ctx context.Context, query store.LoanQuery) ([]model.LoanApplication, int64, error) {
	args := m.Called(query)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.LoanApplication), args.Get(1).(int64), args.Error(2)
}

func (m *MockLoansStore) UpdateLoanStatus(ctx context.Context, id string, status model.Status, updatedAt time.Time) (*model.LoanApplication, error) {
	args := m.Called(id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoanApplication), args.Error(1)
}

var (
	_ store.HealthStore = (*MockHealthStore)(nil)
	_ store.LoansStore  = (*MockLoansStore)(nil)
)
