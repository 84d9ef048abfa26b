package handlers

import (
	"fmt"
	"sync"

	"github.com/SscSPs/shop_ledger/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// registerValidators adds the ledger's enum tags to gin's validator:
//
//	billmode       cash, online or credit
//	settlementmode cash, online or cheque
//	partytype      CUSTOMER or SUPPLIER
func registerValidators() error {
	var err error
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		tags := map[string]validator.Func{
			"billmode": func(fl validator.FieldLevel) bool {
				return domain.PaymentMode(fl.Field().String()).ValidForBill()
			},
			"settlementmode": func(fl validator.FieldLevel) bool {
				return domain.PaymentMode(fl.Field().String()).ValidForSettlement()
			},
			"partytype": func(fl validator.FieldLevel) bool {
				return domain.PartyType(fl.Field().String()).IsValid()
			},
		}
		for tag, fn := range tags {
			if err = v.RegisterValidation(tag, fn); err != nil {
				return
			}
		}
	})
	return err
}
