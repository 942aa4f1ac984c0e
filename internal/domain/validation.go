package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidCurrency    = errors.New("invalid currency code")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidUserID      = errors.New("invalid user id")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
)

// MaxTransactionAmount caps a single operation.
const MaxTransactionAmount = "1000000000000" // 1 trillion

// Valid currency codes (ISO 4217)
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "AUD": true, "CAD": true, "CHF": true,
	"SEK": true, "NZD": true, "KRW": true, "SGD": true,
	"NOK": true, "MXN": true, "INR": true, "BRL": true,
	"ZAR": true, "RUB": true, "TRY": true, "HKD": true,
}

var validAccountTypes = map[string]bool{
	"checking": true,
	"savings":  true,
	"wallet":   true,
}

// ValidateCurrency validates a currency code.
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s is not a valid ISO 4217 currency code", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateAccountType validates an account type.
func ValidateAccountType(accountType string) error {
	if !validAccountTypes[strings.ToLower(strings.TrimSpace(accountType))] {
		return fmt.Errorf("%w: %s", ErrInvalidAccountType, accountType)
	}

	return nil
}

// ValidateUserID validates the owning user reference.
func ValidateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrInvalidUserID
	}

	return nil
}

// ValidateAmount validates an operation amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxTransactionAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxTransactionAmount)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
