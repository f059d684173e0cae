package validate

import (
	"github.com/ShiraazMoollatjie/goluhn"
)

// IsLuhn checks the Luhn digit of a card number supplied as payout payment
// details.
func IsLuhn(s string) bool {
	err := goluhn.Validate(s)
	return err == nil
}
