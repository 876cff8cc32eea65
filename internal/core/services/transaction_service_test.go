package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/SscSPs/money_tracker/internal/core/services"
	"github.com/SscSPs/money_tracker/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	txnRepo      *MockTransactionRepository
	ledger       *MockDebtLedgerWriter
	categoryRepo *MockCategoryRepository
	parser       *MockTransactionParser
	service      portssvc.TransactionSvcFacade
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.txnRepo = new(MockTransactionRepository)
	suite.ledger = new(MockDebtLedgerWriter)
	suite.categoryRepo = new(MockCategoryRepository)
	suite.parser = new(MockTransactionParser)
	suite.service = services.NewTransactionService(
		suite.txnRepo,
		suite.ledger,
		suite.categoryRepo,
		services.WithTransactionParser(suite.parser),
	)
}

func strPtr(s string) *string {
	return &s
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_Expense() {
	amount := dec("12.50")
	suite.categoryRepo.On("FindCategoryByID", suite.ctx, "u1", "cat_food").
		Return(&domain.Category{CategoryID: "cat_food", Name: "Food", Type: domain.ExpenseCategory}, nil).Once()
	suite.txnRepo.On("SaveTransaction", suite.ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.Type == domain.Expense && t.Amount.Equal(amount) && t.PaymentStatus == nil && t.TransactionID != ""
	})).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(suite.ctx, "u1", dto.CreateTransactionRequest{
		Type:       "expense",
		Amount:     &amount,
		CategoryID: strPtr("cat_food"),
	})

	suite.Require().NoError(err)
	suite.Equal(domain.Expense, txn.Type)
	suite.Nil(txn.PaymentStatus)
	suite.txnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_CategoryOfOtherType() {
	amount := dec("12.50")
	suite.categoryRepo.On("FindCategoryByID", suite.ctx, "u1", "cat_salary").
		Return(&domain.Category{CategoryID: "cat_salary", Name: "Salary", Type: domain.IncomeCategory}, nil).Once()

	_, err := suite.service.CreateTransaction(suite.ctx, "u1", dto.CreateTransactionRequest{
		Type:       "expense",
		Amount:     &amount,
		CategoryID: strPtr("cat_salary"),
	})

	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.txnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_IncomeWithDebtFieldsRejected() {
	amount := dec("100.00")

	_, err := suite.service.CreateTransaction(suite.ctx, "u1", dto.CreateTransactionRequest{
		Type:     "income",
		Amount:   &amount,
		PersonID: strPtr("p1"),
	})

	suite.True(errors.Is(err, apperrors.ErrValidation))
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_DebtRoutedToLedger() {
	amount := dec("250.00")
	created := &domain.Transaction{TransactionID: "debt_1", Type: domain.Debt}
	suite.ledger.On("CreateDebt", suite.ctx, "u1", mock.MatchedBy(func(p domain.TransactionParams) bool {
		return p.Type == domain.Debt && p.Amount.Equal(amount) && *p.DebtType == domain.Lent && *p.PersonID == "p1"
	})).Return(created, nil).Once()

	txn, err := suite.service.CreateTransaction(suite.ctx, "u1", dto.CreateTransactionRequest{
		Type:     "debt",
		Amount:   &amount,
		DebtType: strPtr("lent"),
		PersonID: strPtr("p1"),
	})

	suite.Require().NoError(err)
	suite.Equal("debt_1", txn.TransactionID)
	suite.txnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_ParserFillsMissingFields() {
	parsedAmount := dec("250.00")
	lent := domain.Lent
	suite.parser.On("ParseTransaction", suite.ctx, "lent Omar 250 for rent", domain.Debt).
		Return(&domain.ParsedTransaction{Amount: &parsedAmount, Description: "rent", DebtType: &lent}, nil).Once()
	suite.ledger.On("CreateDebt", suite.ctx, "u1", mock.MatchedBy(func(p domain.TransactionParams) bool {
		// the explicit description wins over the parsed one
		return p.Amount.Equal(parsedAmount) && p.Description == "April rent" && *p.DebtType == domain.Lent
	})).Return(&domain.Transaction{TransactionID: "debt_2", Type: domain.Debt}, nil).Once()

	_, err := suite.service.CreateTransaction(suite.ctx, "u1", dto.CreateTransactionRequest{
		Type:        "debt",
		Input:       "lent Omar 250 for rent",
		Description: strPtr("April rent"),
		PersonID:    strPtr("p1"),
	})

	suite.Require().NoError(err)
	suite.ledger.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_ParserMissingAmount() {
	suite.parser.On("ParseTransaction", suite.ctx, "paid back something", domain.Expense).
		Return(&domain.ParsedTransaction{Description: "something"}, nil).Once()

	_, err := suite.service.CreateTransaction(suite.ctx, "u1", dto.CreateTransactionRequest{
		Type:  "expense",
		Input: "paid back something",
	})

	suite.True(errors.Is(err, apperrors.ErrValidation))
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_InputWithoutParser() {
	svc := services.NewTransactionService(suite.txnRepo, suite.ledger, suite.categoryRepo)

	_, err := svc.CreateTransaction(suite.ctx, "u1", dto.CreateTransactionRequest{Type: "expense", Input: "coffee 3"})

	suite.Equal(apperrors.KindBadRequest, apperrors.Kind(err))
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_AmountRequired() {
	_, err := suite.service.CreateTransaction(suite.ctx, "u1", dto.CreateTransactionRequest{Type: "income"})

	suite.True(errors.Is(err, apperrors.ErrValidation))
}

func (suite *TransactionServiceTestSuite) TestListTransactionsByType_Totals() {
	income := domain.Income
	suite.txnRepo.On("ListTransactions", suite.ctx, "u1", domain.TransactionFilter{Type: &income}).
		Return([]domain.Transaction{
			{TransactionID: "t1", Type: domain.Income, Amount: dec("0.10")},
			{TransactionID: "t2", Type: domain.Income, Amount: dec("0.20")},
		}, nil, nil).Once()

	result, err := suite.service.ListTransactionsByType(suite.ctx, "u1", domain.Income, domain.TransactionFilter{Limit: 50})

	suite.Require().NoError(err)
	suite.Len(result.Transactions, 2)
	suite.True(result.Total.Equal(dec("0.30")))
}

func (suite *TransactionServiceTestSuite) TestListTransactionsByType_RejectsDebt() {
	_, err := suite.service.ListTransactionsByType(suite.ctx, "u1", domain.Debt, domain.TransactionFilter{})

	suite.True(errors.Is(err, apperrors.ErrValidation))
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_DebtDelegated() {
	amount := dec("90.00")
	req := dto.UpdateTransactionRequest{Amount: &amount}
	suite.txnRepo.On("FindTransactionByID", suite.ctx, "u1", "debt_1").Return(&domain.Transaction{TransactionID: "debt_1", Type: domain.Debt}, nil).Once()
	suite.ledger.On("UpdateDebt", suite.ctx, "u1", "debt_1", req).Return(&domain.Transaction{TransactionID: "debt_1", Type: domain.Debt}, nil).Once()

	_, err := suite.service.UpdateTransaction(suite.ctx, "u1", "debt_1", req)

	suite.Require().NoError(err)
	suite.ledger.AssertExpectations(suite.T())
	suite.txnRepo.AssertNotCalled(suite.T(), "UpdateTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_Expense() {
	amount := dec("15.00")
	suite.txnRepo.On("FindTransactionByID", suite.ctx, "u1", "t1").
		Return(&domain.Transaction{TransactionID: "t1", Type: domain.Expense, Amount: dec("10.00")}, nil).Once()
	suite.txnRepo.On("UpdateTransaction", suite.ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.Amount.Equal(amount) && t.LastUpdatedBy == "u1"
	})).Return(nil).Once()

	txn, err := suite.service.UpdateTransaction(suite.ctx, "u1", "t1", dto.UpdateTransactionRequest{Amount: &amount})

	suite.Require().NoError(err)
	suite.True(txn.Amount.Equal(amount))
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_Routes() {
	suite.txnRepo.On("FindTransactionByID", suite.ctx, "u1", "debt_1").Return(&domain.Transaction{TransactionID: "debt_1", Type: domain.Debt}, nil).Once()
	suite.ledger.On("DeleteDebt", suite.ctx, "u1", "debt_1").Return(nil).Once()
	suite.txnRepo.On("FindTransactionByID", suite.ctx, "u1", "t1").Return(&domain.Transaction{TransactionID: "t1", Type: domain.Income}, nil).Once()
	suite.txnRepo.On("DeleteTransaction", suite.ctx, "u1", "t1").Return(nil).Once()

	suite.Require().NoError(suite.service.DeleteTransaction(suite.ctx, "u1", "debt_1"))
	suite.Require().NoError(suite.service.DeleteTransaction(suite.ctx, "u1", "t1"))

	suite.ledger.AssertExpectations(suite.T())
	suite.txnRepo.AssertExpectations(suite.T())
}

func TestTransactionService(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
