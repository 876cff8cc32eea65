package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/money_tracker/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Ledger repository ---

// MockLedgerRepository runs fn against Tx unless RunInTx is stubbed to fail.
type MockLedgerRepository struct {
	mock.Mock
	Tx *MockLedgerTx
}

func (m *MockLedgerRepository) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m.Tx)
}

func (m *MockLedgerRepository) FindDebtByID(ctx context.Context, userID, debtID string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) FindPaymentsByDebtID(ctx context.Context, debtID string) ([]domain.Payment, error) {
	args := m.Called(ctx, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

type MockLedgerTx struct {
	mock.Mock
}

func (m *MockLedgerTx) LockDebt(ctx context.Context, userID, debtID string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Hand out a copy so a retried attempt starts from the stored row again.
	debt := *args.Get(0).(*domain.Transaction)
	return &debt, args.Error(1)
}

func (m *MockLedgerTx) FindPaymentsByDebtID(ctx context.Context, debtID string) ([]domain.Payment, error) {
	args := m.Called(ctx, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockLedgerTx) SaveDebt(ctx context.Context, debt domain.Transaction) error {
	return m.Called(ctx, debt).Error(0)
}

func (m *MockLedgerTx) UpdateDebt(ctx context.Context, debt domain.Transaction) error {
	return m.Called(ctx, debt).Error(0)
}

func (m *MockLedgerTx) SetDebtStatus(ctx context.Context, debtID string, status domain.PaymentStatus, updatedBy string, updatedAt time.Time) error {
	return m.Called(ctx, debtID, status, updatedBy, updatedAt).Error(0)
}

func (m *MockLedgerTx) DeleteDebt(ctx context.Context, debtID string) error {
	return m.Called(ctx, debtID).Error(0)
}

func (m *MockLedgerTx) SavePayment(ctx context.Context, payment domain.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockLedgerTx) UpdatePayment(ctx context.Context, payment domain.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockLedgerTx) DeletePayment(ctx context.Context, debtID, paymentID string) error {
	return m.Called(ctx, debtID, paymentID).Error(0)
}

// --- Person / category repositories ---

type MockPersonRepository struct {
	mock.Mock
}

func (m *MockPersonRepository) FindPersonByID(ctx context.Context, userID, personID string) (*domain.Person, error) {
	args := m.Called(ctx, userID, personID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Person), args.Error(1)
}

func (m *MockPersonRepository) ListPersons(ctx context.Context, userID string) ([]domain.Person, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Person), args.Error(1)
}

func (m *MockPersonRepository) SavePerson(ctx context.Context, person domain.Person) error {
	return m.Called(ctx, person).Error(0)
}

func (m *MockPersonRepository) UpdatePerson(ctx context.Context, person domain.Person) error {
	return m.Called(ctx, person).Error(0)
}

func (m *MockPersonRepository) DeletePerson(ctx context.Context, userID, personID string) error {
	return m.Called(ctx, userID, personID).Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, userID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context, userID string, categoryType *domain.CategoryType) ([]domain.Category, error) {
	args := m.Called(ctx, userID, categoryType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	return m.Called(ctx, userID, categoryID).Error(0)
}

// --- Transaction repository ---

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	txn := *args.Get(0).(*domain.Transaction)
	return &txn, args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, userID, filter)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	return m.Called(ctx, txn).Error(0)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	return m.Called(ctx, txn).Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	return m.Called(ctx, userID, transactionID).Error(0)
}

// --- User repository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	return m.Called(ctx, user).Error(0)
}

// --- Reporting repository ---

type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) ListDebtBalances(ctx context.Context, userID string, filter domain.DebtFilter) ([]domain.DebtBalance, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Copy so the service's Remaining writes do not leak between calls.
	src := args.Get(0).([]domain.DebtBalance)
	out := make([]domain.DebtBalance, len(src))
	copy(out, src)
	return out, args.Error(1)
}

func (m *MockReportingRepository) ListPaymentsInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.PaymentReportRow, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentReportRow), args.Error(1)
}

// --- Ledger writer and parser used by the transaction service ---

type MockDebtLedgerWriter struct {
	mock.Mock
}

func (m *MockDebtLedgerWriter) CreateDebt(ctx context.Context, userID string, params domain.TransactionParams) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockDebtLedgerWriter) UpdateDebt(ctx context.Context, userID, debtID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, debtID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockDebtLedgerWriter) DeleteDebt(ctx context.Context, userID, debtID string) error {
	return m.Called(ctx, userID, debtID).Error(0)
}

func (m *MockDebtLedgerWriter) UpdateDebtStatus(ctx context.Context, userID, debtID string, status domain.PaymentStatus) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, debtID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockDebtLedgerWriter) RecalculateDebtStatus(ctx context.Context, userID, debtID string) (*domain.DebtTotals, error) {
	args := m.Called(ctx, userID, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebtTotals), args.Error(1)
}

type MockTransactionParser struct {
	mock.Mock
}

func (m *MockTransactionParser) ParseTransaction(ctx context.Context, input string, txnType domain.TransactionType) (*domain.ParsedTransaction, error) {
	args := m.Called(ctx, input, txnType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParsedTransaction), args.Error(1)
}
