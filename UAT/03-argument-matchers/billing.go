package billing

import (
	"fmt"
	"time"
)

// Gateway charges customers.
type Gateway interface {
	Charge(customer string, cents int64, at time.Time) (receipt string, err error)
	Refund(receipt string) error
}

// Invoice is an amount owed by one customer.
type Invoice struct {
	Customer string
	Cents    int64
}

// Collect charges every invoice with a positive amount and returns the receipts. It refunds what it already
// charged when a later charge fails.
func Collect(gw Gateway, invoices []Invoice, now func() time.Time) ([]string, error) {
	var receipts []string

	for _, inv := range invoices {
		if inv.Cents <= 0 {
			continue
		}

		receipt, err := gw.Charge(inv.Customer, inv.Cents, now())
		if err != nil {
			for _, r := range receipts {
				_ = gw.Refund(r)
			}

			return nil, fmt.Errorf("charging %s: %w", inv.Customer, err)
		}

		receipts = append(receipts, receipt)
	}

	return receipts, nil
}
