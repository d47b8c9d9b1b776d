// Package currency defines currency codes and a process-wide registry of
// supported currencies with their exchange rates.
package currency

import (
	"errors"
	"regexp"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the fallback currency code (USD).
const DefaultCurrency Code = "USD"

var (
	// ErrUnsupportedCurrency is returned when a currency code is not present in the registry.
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	// ErrInvalidCurrencyCode is returned when a currency code is not three uppercase letters.
	ErrInvalidCurrencyCode = errors.New("invalid currency code format")
)

var codeFormat = regexp.MustCompile(`^[A-Z]{3}$`)

// Code represents an ISO 4217 currency code (e.g. "USD", "EUR").
type Code string

func (c Code) String() string { return string(c) }

// IsValidFormat reports whether code looks like an ISO 4217 code
// (three uppercase letters). It does not check registry membership.
func IsValidFormat(code string) bool {
	return codeFormat.MatchString(code)
}

// Currency is a registered currency with its conversion rate against
// the default currency. Currencies are shared by reference: many
// accounts and transactions point at the same registry entry.
type Currency struct {
	ID   int64
	Code Code
	Rate decimal.Decimal
}

// Registry is a concurrency-safe lookup of supported currencies.
type Registry struct {
	mu     sync.RWMutex
	byCode map[Code]Currency
	nextID int64
}

// NewRegistry creates a registry seeded with the default currency set.
func NewRegistry() *Registry {
	r := &Registry{byCode: make(map[Code]Currency), nextID: 1}

	defaults := []struct {
		code Code
		rate string
	}{
		{"USD", "1"},
		{"EUR", "0.92"},
		{"GBP", "0.79"},
		{"JPY", "148.5"},
		{"CHF", "0.88"},
		{"CAD", "1.36"},
	}
	for _, d := range defaults {
		r.Register(d.code, decimal.RequireFromString(d.rate)) //nolint:errcheck
	}
	return r
}

// Register adds or updates a currency. The code must be three uppercase letters.
func (r *Registry) Register(code Code, rate decimal.Decimal) (Currency, error) {
	if !IsValidFormat(string(code)) {
		return Currency{}, ErrInvalidCurrencyCode
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byCode[code]
	if !ok {
		c = Currency{ID: r.nextID, Code: code}
		r.nextID++
	}
	c.Rate = rate
	r.byCode[code] = c
	return c, nil
}

// Get returns the registered currency for code.
func (r *Registry) Get(code Code) (Currency, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byCode[code]
	if !ok {
		return Currency{}, ErrUnsupportedCurrency
	}
	return c, nil
}

// IsSupported reports whether code is registered.
func (r *Registry) IsSupported(code Code) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byCode[code]
	return ok
}

// Codes returns all registered codes in lexical order.
func (r *Registry) Codes() []Code {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]Code, 0, len(r.byCode))
	for c := range r.byCode {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
