package consensus

import (
	"errors"
	"fmt"

	"github.com/phoenixkonsole/papara/types"
)

// ValidateCoinbase checks that the coinbase outputs of the block at height
// pay out no more than the block value plus the collected fees.
func ValidateCoinbase(n *Network, height uint64, outputs []types.Currency, fees types.Currency) error {
	value, err := BlockValue(n, height)
	if err != nil {
		return fmt.Errorf("failed to compute block value: %w", err)
	}
	maxPayout, overflow := value.AddWithOverflow(fees)
	if overflow {
		return errors.New("block value + fees overflows")
	}

	var sum types.Currency
	for i, out := range outputs {
		if out.IsZero() {
			return fmt.Errorf("coinbase output %d has zero value", i)
		}
		sum, overflow = sum.AddWithOverflow(out)
		if overflow {
			return errors.New("coinbase outputs overflow")
		}
	}
	if sum.Cmp(maxPayout) > 0 {
		return fmt.Errorf("coinbase pays %d, exceeding block value + fees (%d)", sum, maxPayout)
	}
	return nil
}
