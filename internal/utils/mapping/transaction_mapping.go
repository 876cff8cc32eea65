package mapping

import (
	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/SscSPs/money_tracker/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID: d.TransactionID,
		UserID:        d.UserID,
		Type:          string(d.Type),
		Amount:        d.Amount,
		Description:   d.Description,
		Date:          d.Date,
		CategoryID:    d.CategoryID,
		PersonID:      d.PersonID,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
	if d.DebtType != nil {
		debtType := string(*d.DebtType)
		m.DebtType = &debtType
	}
	if d.PaymentStatus != nil {
		status := string(*d.PaymentStatus)
		m.PaymentStatus = &status
	}
	return m
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		TransactionID: m.TransactionID,
		UserID:        m.UserID,
		Type:          domain.TransactionType(m.Type),
		Amount:        m.Amount,
		Description:   m.Description,
		Date:          m.Date,
		CategoryID:    m.CategoryID,
		PersonID:      m.PersonID,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
	if m.DebtType != nil {
		debtType := domain.DebtType(*m.DebtType)
		d.DebtType = &debtType
	}
	if m.PaymentStatus != nil {
		status := domain.PaymentStatus(*m.PaymentStatus)
		d.PaymentStatus = &status
	}
	return d
}

// ToDomainTransactionSlice converts model transactions to domain transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:   d.PaymentID,
		DebtID:      d.DebtID,
		Amount:      d.Amount,
		PaymentDate: d.PaymentDate,
		Notes:       d.Notes,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:   m.PaymentID,
		DebtID:      m.DebtID,
		Amount:      m.Amount,
		PaymentDate: m.PaymentDate,
		Notes:       m.Notes,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
