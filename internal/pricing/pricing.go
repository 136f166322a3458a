// Package pricing holds the static camp package price table. All amounts
// are integer minor currency units (euro cents).
package pricing

import (
	"errors"
	"fmt"

	"camp-service/internal/models"
)

var ErrUnknownPackage = errors.New("unknown package")

// Price holds the two chargeable amounts for a package.
type Price struct {
	Full    int64
	Deposit int64
}

var table = map[string]Price{
	"junior-week":   {Full: 35000, Deposit: 10000},
	"junior-biweek": {Full: 62000, Deposit: 20000},
	"elite-month":   {Full: 110000, Deposit: 30000},
}

// PriceFor returns the charge amount in cents for a package and payment type.
func PriceFor(pkg, paymentType string) (int64, error) {
	p, ok := table[pkg]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownPackage, pkg)
	}

	switch paymentType {
	case models.PaymentTypeFull:
		return p.Full, nil
	case models.PaymentTypeDeposit:
		return p.Deposit, nil
	default:
		return 0, fmt.Errorf("unknown payment type: %s", paymentType)
	}
}

// Known reports whether pkg exists in the price table.
func Known(pkg string) bool {
	_, ok := table[pkg]
	return ok
}

// Packages returns the price table (copy) keyed by package identifier.
func Packages() map[string]Price {
	out := make(map[string]Price, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out
}

// Label renders a cent amount as a display price, e.g. "€350.00".
func Label(amount int64) string {
	return fmt.Sprintf("€%d.%02d", amount/100, amount%100)
}
