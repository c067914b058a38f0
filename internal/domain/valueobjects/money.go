package valueobjects

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

// Money - сумма в основных единицах валюты.
type Money struct {
	amount   *big.Rat
	currency Currency
}

var (
	ErrNonPositiveAmount = errors.New("amount must be greater than 0")
	ErrAmountOverflow    = errors.New("amount is too large")
	ErrInvalidAmount     = errors.New("invalid amount format")
)

// NewMoneyFromInt создаёт сумму из целого числа основных единиц (рублей, рупий).
func NewMoneyFromInt(amount int64, currency Currency) (Money, error) {
	if currency.IsZero() {
		return Money{}, ErrInvalidCurrency
	}
	if amount <= 0 {
		return Money{}, ErrNonPositiveAmount
	}
	return Money{amount: big.NewRat(amount, 1), currency: currency}, nil
}

// NewMoney разбирает десятичную строку: "499", "499.50".
func NewMoney(amount string, currency Currency) (Money, error) {
	if currency.IsZero() {
		return Money{}, ErrInvalidCurrency
	}
	r, ok := new(big.Rat).SetString(amount)
	if !ok {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	if r.Sign() <= 0 {
		return Money{}, ErrNonPositiveAmount
	}
	return Money{amount: r, currency: currency}, nil
}

// Currency returns the currency.
func (m Money) Currency() Currency { return m.currency }

// MinorUnits переводит сумму в минимальные единицы (пайсы, центы).
// Дробь мельче минимальной единицы и выход за int64 - ошибка.
func (m Money) MinorUnits() (int64, error) {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(m.currency.decimals)), nil)
	scaled := new(big.Rat).Mul(m.amount, new(big.Rat).SetInt(scale))
	if !scaled.IsInt() {
		return 0, fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, m.currency.decimals)
	}
	n := scaled.Num()
	if !n.IsInt64() || n.Int64() > math.MaxInt64 {
		return 0, ErrAmountOverflow
	}
	return n.Int64(), nil
}

// String returns e.g. "499.00 INR".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.FloatString(m.currency.decimals), m.currency.code)
}
