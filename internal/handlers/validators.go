package handlers

import (
	"strings"
	"sync"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/SscSPs/money_tracker/internal/utils/daterange"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// lowered adapts a string predicate to a case-insensitive validator.
func lowered(valid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return valid(strings.ToLower(strings.TrimSpace(fl.Field().String())))
	}
}

func validPeriod(v string) bool {
	switch v {
	case daterange.PeriodToday, daterange.PeriodYesterday, daterange.PeriodMonth, daterange.PeriodCustom:
		return true
	}
	return false
}

var bindingValidators = map[string]validator.Func{
	"txtype":        lowered(func(v string) bool { return domain.TransactionType(v).IsValid() }),
	"debttype":      lowered(func(v string) bool { return domain.DebtType(v).IsValid() }),
	"categorytype":  lowered(func(v string) bool { return domain.CategoryType(v).IsValid() }),
	"paymentstatus": lowered(func(v string) bool { return domain.PaymentStatus(v).IsValid() }),
	"period":        lowered(validPeriod),
}

// registerValidators installs the domain enum validators on gin's validator engine.
func registerValidators() error {
	var err error
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		for tag, fn := range bindingValidators {
			if err = v.RegisterValidation(tag, fn); err != nil {
				return
			}
		}
	})
	return err
}
