package protect

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseTradeAmount parses amount of the input asset entered by the user
func ParseTradeAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrMissingAmount
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidAmount, err.Error())
	}
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}

// ToBaseUnits converts amount of the input asset to lamports, rounding down
func ToBaseUnits(amount decimal.Decimal) (uint64, error) {
	units := amount.Shift(SourceDecimals).Floor()
	if !units.IsPositive() {
		return 0, ErrInvalidAmount
	}
	bi := units.BigInt()
	if !bi.IsUint64() {
		return 0, ErrInvalidAmount
	}
	return bi.Uint64(), nil
}

func FromBaseUnits(units uint64, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(units), -decimals)
}

// ParseBaseUnits parses positive integer amount in base units as it arrives in the quote request
func ParseBaseUnits(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMissingAmount
	}
	units, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidAmount, err.Error())
	}
	if units == 0 {
		return 0, ErrInvalidAmount
	}
	return units, nil
}
