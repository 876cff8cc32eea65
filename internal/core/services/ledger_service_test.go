package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/SscSPs/money_tracker/internal/core/services"
	"github.com/SscSPs/money_tracker/internal/dto"
	"github.com/SscSPs/money_tracker/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	ledgerRepo   *MockLedgerRepository
	tx           *MockLedgerTx
	personRepo   *MockPersonRepository
	categoryRepo *MockCategoryRepository
	metrics      *metrics.Metrics
	service      portssvc.DebtLedgerSvcFacade
	now          time.Time
	userID       string
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.tx = new(MockLedgerTx)
	suite.ledgerRepo = &MockLedgerRepository{Tx: suite.tx}
	suite.personRepo = new(MockPersonRepository)
	suite.categoryRepo = new(MockCategoryRepository)
	suite.metrics = metrics.New(prometheus.NewRegistry())
	suite.now = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	suite.userID = "user_1"

	suite.service = services.NewLedgerService(
		suite.ledgerRepo,
		suite.personRepo,
		suite.categoryRepo,
		services.WithLedgerMetrics(suite.metrics),
		services.WithRetryPolicy(services.RetryPolicy{MaxRetries: 2, Backoff: time.Millisecond}),
		services.WithClock(func() time.Time { return suite.now }),
	)
}

func (suite *LedgerServiceTestSuite) debt(id, amount string, status domain.PaymentStatus) *domain.Transaction {
	person := "person_1"
	debtType := domain.Lent
	return &domain.Transaction{
		TransactionID: id,
		UserID:        suite.userID,
		Type:          domain.Debt,
		Amount:        decimal.RequireFromString(amount),
		PersonID:      &person,
		DebtType:      &debtType,
		PaymentStatus: &status,
	}
}

func payment(id, debtID, amount string) domain.Payment {
	return domain.Payment{PaymentID: id, DebtID: debtID, Amount: decimal.RequireFromString(amount)}
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func (suite *LedgerServiceTestSuite) TestAddPayment_RecomputesStatus() {
	suite.ledgerRepo.On("RunInTx", suite.ctx).Return(nil).Once()
	suite.tx.On("LockDebt", suite.ctx, suite.userID, "debt_1").Return(suite.debt("debt_1", "100.00", domain.StatusPartial), nil).Once()
	suite.tx.On("FindPaymentsByDebtID", suite.ctx, "debt_1").Return([]domain.Payment{payment("p1", "debt_1", "40.00")}, nil).Once()
	suite.tx.On("SavePayment", suite.ctx, mock.MatchedBy(func(p domain.Payment) bool {
		return p.DebtID == "debt_1" && p.Amount.Equal(dec("30.00")) && p.PaymentDate.Equal(suite.now) && p.Notes == nil
	})).Return(nil).Once()
	suite.tx.On("SetDebtStatus", suite.ctx, "debt_1", domain.StatusPartial, suite.userID, suite.now).Return(nil).Once()

	result, err := suite.service.AddPayment(suite.ctx, suite.userID, "debt_1", dto.CreatePaymentRequest{Amount: dec("30.00")})

	suite.Require().NoError(err)
	suite.NotEmpty(result.Payment.PaymentID)
	suite.True(result.Totals.TotalPaid.Equal(dec("70.00")))
	suite.True(result.Totals.Remaining.Equal(dec("30.00")))
	suite.Equal(domain.StatusPartial, result.Totals.Status)
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.LedgerOperations.WithLabelValues("add_payment", metrics.OutcomeOK)))
	suite.tx.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestAddPayment_ReachesPaidAtExactAmount() {
	suite.ledgerRepo.On("RunInTx", suite.ctx).Return(nil).Once()
	suite.tx.On("LockDebt", suite.ctx, suite.userID, "debt_1").Return(suite.debt("debt_1", "1000.00", domain.StatusPartial), nil).Once()
	suite.tx.On("FindPaymentsByDebtID", suite.ctx, "debt_1").Return([]domain.Payment{payment("p1", "debt_1", "600.00")}, nil).Once()
	suite.tx.On("SavePayment", suite.ctx, mock.AnythingOfType("domain.Payment")).Return(nil).Once()
	suite.tx.On("SetDebtStatus", suite.ctx, "debt_1", domain.StatusPaid, suite.userID, suite.now).Return(nil).Once()

	notes := "  final installment "
	result, err := suite.service.AddPayment(suite.ctx, suite.userID, "debt_1", dto.CreatePaymentRequest{Amount: dec("400.00"), Notes: &notes})

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPaid, result.Totals.Status)
	suite.True(result.Totals.Remaining.IsZero())
	suite.Require().NotNil(result.Payment.Notes)
	suite.Equal("final installment", *result.Payment.Notes)
}

func (suite *LedgerServiceTestSuite) TestAddPayment_DebtNotFound() {
	suite.ledgerRepo.On("RunInTx", suite.ctx).Return(nil).Once()
	suite.tx.On("LockDebt", suite.ctx, suite.userID, "missing").Return(nil, apperrors.NewNotFoundError("debt")).Once()

	result, err := suite.service.AddPayment(suite.ctx, suite.userID, "missing", dto.CreatePaymentRequest{Amount: dec("10.00")})

	suite.Nil(result)
	suite.True(errors.Is(err, apperrors.ErrNotFound))
	suite.tx.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything)
	suite.tx.AssertNotCalled(suite.T(), "SetDebtStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.ledgerRepo.AssertNumberOfCalls(suite.T(), "RunInTx", 1)
}

func (suite *LedgerServiceTestSuite) TestAddPayment_RejectsInvalidAmount() {
	for _, amount := range []string{"0", "-5.00", "1.005"} {
		_, err := suite.service.AddPayment(suite.ctx, suite.userID, "debt_1", dto.CreatePaymentRequest{Amount: dec(amount)})
		suite.True(errors.Is(err, apperrors.ErrValidation), "amount %s", amount)
	}
	suite.ledgerRepo.AssertNotCalled(suite.T(), "RunInTx", mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestAddPayment_RetriesTransactionFailure() {
	suite.ledgerRepo.On("RunInTx", suite.ctx).Return(apperrors.NewTransactionFailure("lock timeout", errors.New("busy"))).Once()
	suite.ledgerRepo.On("RunInTx", suite.ctx).Return(nil).Once()
	suite.tx.On("LockDebt", suite.ctx, suite.userID, "debt_1").Return(suite.debt("debt_1", "100.00", domain.StatusUnpaid), nil).Once()
	suite.tx.On("FindPaymentsByDebtID", suite.ctx, "debt_1").Return([]domain.Payment{}, nil).Once()
	suite.tx.On("SavePayment", suite.ctx, mock.AnythingOfType("domain.Payment")).Return(nil).Once()
	suite.tx.On("SetDebtStatus", suite.ctx, "debt_1", domain.StatusPartial, suite.userID, suite.now).Return(nil).Once()

	result, err := suite.service.AddPayment(suite.ctx, suite.userID, "debt_1", dto.CreatePaymentRequest{Amount: dec("40.00")})

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPartial, result.Totals.Status)
	suite.ledgerRepo.AssertNumberOfCalls(suite.T(), "RunInTx", 2)
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.LedgerRetries.WithLabelValues("add_payment")))
}

func (suite *LedgerServiceTestSuite) TestAddPayment_GivesUpAfterMaxRetries() {
	suite.ledgerRepo.On("RunInTx", suite.ctx).Return(apperrors.NewTransactionFailure("commit failed", errors.New("io")))

	_, err := suite.service.AddPayment(suite.ctx, suite.userID, "debt_1", dto.CreatePaymentRequest{Amount: dec("40.00")})

	suite.True(errors.Is(err, apperrors.ErrTransactionFailure))
	suite.ledgerRepo.AssertNumberOfCalls(suite.T(), "RunInTx", 3)
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.LedgerOperations.WithLabelValues("add_payment", apperrors.KindTransactionFailure)))
}

func (suite *LedgerServiceTestSuite) TestUpdatePayment_ExcludesPreviousAmount() {
	suite.ledgerRepo.On("RunInTx", suite.ctx).Return(nil).Once()
	suite.tx.On("LockDebt", suite.ctx, suite.userID, "debt_1").Return(suite.debt("debt_1", "100.00", domain.StatusPaid), nil).Once()
	suite.tx.On("FindPaymentsByDebtID", suite.ctx, "debt_1").Return([]domain.Payment{
		payment("p1", "debt_1", "60.00"),
		payment("p2", "debt_1", "40.00"),
	}, nil).Once()
	suite.tx.On("UpdatePayment", suite.ctx, mock.MatchedBy(func(p domain.Payment) bool {
		return p.PaymentID == "p2" && p.Amount.Equal(dec("10.00")) && p.LastUpdatedBy == suite.userID
	})).Return(nil).Once()
	suite.tx.On("SetDebtStatus", suite.ctx, "debt_1", domain.StatusPartial, suite.userID, suite.now).Return(nil).Once()

	result, err := suite.service.UpdatePayment(suite.ctx, suite.userID, "debt_1", "p2", dto.UpdatePaymentRequest{Amount: decPtr("10.00")})

	suite.Require().NoError(err)
	suite.True(result.Totals.TotalPaid.Equal(dec("70.00")))
	suite.True(result.Totals.Remaining.Equal(dec("30.00")))
	suite.Equal(domain.StatusPartial, result.Totals.Status)
}

func (suite *LedgerServiceTestSuite) TestUpdatePayment_PaymentOfAnotherDebt() {
	suite.ledgerRepo.On("RunInTx", suite.ctx).Return(nil).Once()
	suite.tx.On("LockDebt", suite.ctx, suite.userID, "debt_1").Return(suite.debt("debt_1", "100.00", domain.StatusPartial), nil).Once()
	suite.tx.On("FindPaymentsByDebtID", suite.ctx, "debt_1").Return([]domain.Payment{payment("p1", "debt_1", "60.00")}, nil).Once()

	_, err := suite.service.UpdatePayment(suite.ctx, suite.userID, "debt_1", "p_other", dto.UpdatePaymentRequest{Amount: decPtr("10.00")})

	suite.True(errors.Is(err, apperrors.ErrNotFound))
	suite.tx.AssertNotCalled(suite.T(), "UpdatePayment", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestUpdatePayment_NothingToUpdate() {
	_, err := suite.service.UpdatePayment(suite.ctx, suite.userID, "debt_1", "p1", dto.UpdatePaymentRequest{})

	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.ledgerRepo.AssertNotCalled(suite.T(), "RunInTx", mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestDeletePayment_OnlyPaymentRevertsToUnpaid() {
	suite.ledgerRepo.On("RunInTx", suite.ctx).Return(nil).Once()
	suite.tx.On("LockDebt", suite.ctx, suite.userID, "debt_1").Return(suite.debt("debt_1", "200.00", domain.StatusPaid), nil).Once()
	suite.tx.On("FindPaymentsByDebtID", suite.ctx, "debt_1").Return([]domain.Payment{payment("p1", "debt_1", "200.00")}, nil).Once()
	suite.tx.On("DeletePayment", suite.ctx, "debt_1", "p1").Return(nil).Once()
	suite.tx.On("SetDebtStatus", suite.ctx, "debt_1", domain.StatusUnpaid, suite.userID, suite.now).Return(nil).Once()

	totals, err := suite.service.DeletePayment(suite.ctx, suite.userID, "debt_1", "p1")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusUnpaid, totals.Status)
	suite.True(totals.TotalPaid.IsZero())
	suite.True(totals.Remaining.Equal(dec("200.00")))
	suite.tx.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestDeletePayment_UnknownPayment() {
	suite.ledgerRepo.On("RunInTx", suite.ctx).Return(nil).Once()
	suite.tx.On("LockDebt", suite.ctx, suite.userID, "debt_1").Return(suite.debt("debt_1", "200.00", domain.StatusPaid), nil).Once()
	suite.tx.On("FindPaymentsByDebtID", suite.ctx, "debt_1").Return([]domain.Payment{payment("p1", "debt_1", "200.00")}, nil).Once()

	_, err := suite.service.DeletePayment(suite.ctx, suite.userID, "debt_1", "p9")

	suite.True(errors.Is(err, apperrors.ErrNotFound))
	suite.tx.AssertNotCalled(suite.T(), "DeletePayment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestUpdateDebtStatus_RejectsPartial() {
	_, err := suite.service.UpdateDebtStatus(suite.ctx, suite.userID, "debt_1", domain.StatusPartial)

	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.Equal(apperrors.KindBadRequest, apperrors.Kind(err))
	suite.ledgerRepo.AssertNotCalled(suite.T(), "RunInTx", mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestUpdateDebtStatus_Override() {
	suite.ledgerRepo.On("RunInTx", suite.ctx).Return(nil).Once()
	suite.tx.On("LockDebt", suite.ctx, suite.userID, "debt_1").Return(suite.debt("debt_1", "200.00", domain.StatusPartial), nil).Once()
	suite.tx.On("SetDebtStatus", suite.ctx, "debt_1", domain.StatusPaid, suite.userID, suite.now).Return(nil).Once()

	debt, err := suite.service.UpdateDebtStatus(suite.ctx, suite.userID, "debt_1", domain.StatusPaid)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPaid, debt.Status())
	suite.Equal(suite.now, debt.LastUpdatedAt)
	suite.tx.AssertNotCalled(suite.T(), "FindPaymentsByDebtID", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestRecalculateDebtStatus_ClearsOverride() {
	suite.ledgerRepo.On("RunInTx", suite.ctx).Return(nil).Once()
	suite.tx.On("LockDebt", suite.ctx, suite.userID, "debt_1").Return(suite.debt("debt_1", "100.00", domain.StatusPaid), nil).Once()
	suite.tx.On("FindPaymentsByDebtID", suite.ctx, "debt_1").Return([]domain.Payment{payment("p1", "debt_1", "25.00")}, nil).Once()
	suite.tx.On("SetDebtStatus", suite.ctx, "debt_1", domain.StatusPartial, suite.userID, suite.now).Return(nil).Once()

	totals, err := suite.service.RecalculateDebtStatus(suite.ctx, suite.userID, "debt_1")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPartial, totals.Status)
	suite.True(totals.Remaining.Equal(dec("75.00")))
}

func (suite *LedgerServiceTestSuite) TestGetDebtSummary_TrustsStoredStatus() {
	person := &domain.Person{PersonID: "person_1", Name: "Omar"}
	suite.ledgerRepo.On("FindDebtByID", suite.ctx, suite.userID, "debt_1").Return(suite.debt("debt_1", "100.00", domain.StatusPaid), nil).Once()
	suite.ledgerRepo.On("FindPaymentsByDebtID", suite.ctx, "debt_1").Return([]domain.Payment{}, nil).Once()
	suite.personRepo.On("FindPersonByID", suite.ctx, suite.userID, "person_1").Return(person, nil).Once()

	summary, err := suite.service.GetDebtSummary(suite.ctx, suite.userID, "debt_1")

	suite.Require().NoError(err)
	suite.Equal("Omar", summary.PersonName)
	suite.Equal(domain.StatusPaid, summary.Totals.Status)
	suite.True(summary.Totals.TotalPaid.IsZero())
	suite.True(summary.Totals.Remaining.Equal(dec("100.00")))
	suite.ledgerRepo.AssertNotCalled(suite.T(), "RunInTx", mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestListPayments_DebtMissing() {
	suite.ledgerRepo.On("FindDebtByID", suite.ctx, suite.userID, "debt_x").Return(nil, apperrors.NewNotFoundError("debt")).Once()

	_, err := suite.service.ListPayments(suite.ctx, suite.userID, "debt_x")

	suite.True(errors.Is(err, apperrors.ErrNotFound))
	suite.ledgerRepo.AssertNotCalled(suite.T(), "FindPaymentsByDebtID", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateDebt_StartsUnpaid() {
	person := "person_1"
	debtType := domain.Borrowed
	suite.personRepo.On("FindPersonByID", suite.ctx, suite.userID, person).Return(&domain.Person{PersonID: person}, nil).Once()
	suite.ledgerRepo.On("RunInTx", suite.ctx).Return(nil).Once()
	suite.tx.On("SaveDebt", suite.ctx, mock.MatchedBy(func(d domain.Transaction) bool {
		return d.IsDebt() && d.Status() == domain.StatusUnpaid && d.TransactionID != "" && d.Date.Equal(suite.now)
	})).Return(nil).Once()

	debt, err := suite.service.CreateDebt(suite.ctx, suite.userID, domain.TransactionParams{
		Type:     domain.Expense, // forced to debt
		Amount:   dec("1000.00"),
		PersonID: &person,
		DebtType: &debtType,
	})

	suite.Require().NoError(err)
	suite.Equal(domain.Debt, debt.Type)
	suite.Equal(domain.StatusUnpaid, debt.Status())
	suite.tx.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateDebt_UnknownPerson() {
	person := "ghost"
	debtType := domain.Borrowed
	suite.personRepo.On("FindPersonByID", suite.ctx, suite.userID, person).Return(nil, apperrors.NewNotFoundError("person")).Once()

	_, err := suite.service.CreateDebt(suite.ctx, suite.userID, domain.TransactionParams{
		Amount:   dec("10.00"),
		PersonID: &person,
		DebtType: &debtType,
	})

	suite.True(errors.Is(err, apperrors.ErrNotFound))
	suite.ledgerRepo.AssertNotCalled(suite.T(), "RunInTx", mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateDebt_MissingPerson() {
	debtType := domain.Lent

	_, err := suite.service.CreateDebt(suite.ctx, suite.userID, domain.TransactionParams{
		Amount:   dec("10.00"),
		DebtType: &debtType,
	})

	suite.True(errors.Is(err, apperrors.ErrValidation))
}

func (suite *LedgerServiceTestSuite) TestUpdateDebt_AmountChangeRecomputes() {
	newAmount := dec("80.00")
	suite.ledgerRepo.On("RunInTx", suite.ctx).Return(nil).Once()
	suite.tx.On("LockDebt", suite.ctx, suite.userID, "debt_1").Return(suite.debt("debt_1", "100.00", domain.StatusPartial), nil).Once()
	suite.tx.On("FindPaymentsByDebtID", suite.ctx, "debt_1").Return([]domain.Payment{payment("p1", "debt_1", "80.00")}, nil).Once()
	suite.tx.On("UpdateDebt", suite.ctx, mock.MatchedBy(func(d domain.Transaction) bool {
		return d.Amount.Equal(newAmount) && d.Status() == domain.StatusPaid
	})).Return(nil).Once()

	debt, err := suite.service.UpdateDebt(suite.ctx, suite.userID, "debt_1", dto.UpdateTransactionRequest{Amount: &newAmount})

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPaid, debt.Status())
}

func (suite *LedgerServiceTestSuite) TestUpdateDebt_ClearingPersonRejected() {
	empty := " "

	_, err := suite.service.UpdateDebt(suite.ctx, suite.userID, "debt_1", dto.UpdateTransactionRequest{PersonID: &empty})

	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.ledgerRepo.AssertNotCalled(suite.T(), "RunInTx", mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestDeleteDebt() {
	suite.ledgerRepo.On("RunInTx", suite.ctx).Return(nil).Once()
	suite.tx.On("LockDebt", suite.ctx, suite.userID, "debt_1").Return(suite.debt("debt_1", "100.00", domain.StatusPartial), nil).Once()
	suite.tx.On("DeleteDebt", suite.ctx, "debt_1").Return(nil).Once()

	suite.Require().NoError(suite.service.DeleteDebt(suite.ctx, suite.userID, "debt_1"))
	suite.tx.AssertExpectations(suite.T())
}

func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
