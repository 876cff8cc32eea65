package services

import (
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/SscSPs/money_tracker/internal/platform/config"
	"github.com/SscSPs/money_tracker/internal/platform/metrics"
)

// ContainerOption is a functional option for configuring the service container
type ContainerOption func(*containerDeps)

type containerDeps struct {
	parser  portssvc.TransactionParser
	metrics *metrics.Metrics
}

// WithParser enables free text transaction input.
func WithParser(parser portssvc.TransactionParser) ContainerOption {
	return func(d *containerDeps) {
		d.parser = parser
	}
}

// WithMetrics records ledger outcomes on m.
func WithMetrics(m *metrics.Metrics) ContainerOption {
	return func(d *containerDeps) {
		d.metrics = m
	}
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, options ...ContainerOption) *portssvc.ServiceContainer {
	deps := &containerDeps{}
	for _, option := range options {
		option(deps)
	}

	container := &portssvc.ServiceContainer{}

	// The ledger goes first: transactions route every debt write through it.
	container.Ledger = NewLedgerService(
		repos.LedgerRepo,
		repos.PersonRepo,
		repos.CategoryRepo,
		WithLedgerMetrics(deps.metrics),
		WithRetryPolicy(RetryPolicy{
			MaxRetries: cfg.LedgerTxMaxRetries,
			Backoff:    cfg.LedgerTxRetryBackoff,
		}),
	)

	txnOptions := []TransactionServiceOption{}
	if deps.parser != nil {
		txnOptions = append(txnOptions, WithTransactionParser(deps.parser))
	}
	container.Transaction = NewTransactionService(repos.TransactionRepo, container.Ledger, repos.CategoryRepo, txnOptions...)

	container.Person = NewPersonService(repos.PersonRepo)
	container.Category = NewCategoryService(repos.CategoryRepo)
	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg)
	container.Reporting = NewReportingService(repos.ReportingRepo)

	return container
}
