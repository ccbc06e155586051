package model

import (
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// GenerateUUIDWithSuffix generates a UUID prefixed with a module name.
// Useful for creating identifiers with context-specific prefixes.
func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	return fmt.Sprintf("%s_%s", module, id.String())
}

// ParseAmount parses a base-10 integer string into a non-negative *big.Int
// amount in the vault's native unit.
func ParseAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q: expected a base-10 integer", s)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q: must not be negative", s)
	}
	return amount, nil
}
