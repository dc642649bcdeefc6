// Package validation implements the pluggable country-aware validation
// contract: phone number formats, currency whitelists and mobile-money
// provider availability. A missing country configuration means "no
// constraint", never a hard failure.
package validation

import "fmt"

// Validator is the default table-driven implementation.
type Validator struct{}

// New returns a validator backed by the built-in country table.
func New() Validator { return Validator{} }

// ValidatePhone checks number against the country's pattern. Empty
// numbers and unknown countries pass.
func (Validator) ValidatePhone(number, country string) error {
	if number == "" {
		return nil
	}
	cfg, ok := countries[country]
	if !ok {
		return nil
	}
	if !cfg.PhonePattern.MatchString(number) {
		return fmt.Errorf("invalid phone number format for %s", cfg.Name)
	}
	return nil
}

// ValidateCurrency checks code against the union of per-country and
// international currencies. Empty codes pass.
func (Validator) ValidateCurrency(code string) error {
	if code == "" {
		return nil
	}
	for _, cfg := range countries {
		if cfg.Currency == code {
			return nil
		}
	}
	for _, c := range internationalCurrencies {
		if c == code {
			return nil
		}
	}
	return fmt.Errorf("currency %s is not supported", code)
}

// ValidateMobileMoney checks that the provider operates in the country
// and that the phone number matches the country's pattern.
func (v Validator) ValidateMobileMoney(provider, number, country string) error {
	supported, ok := mobileMoneyProviders[provider]
	if !ok {
		return fmt.Errorf("mobile money provider %s is not supported", provider)
	}
	available := false
	for _, c := range supported {
		if c == country {
			available = true
			break
		}
	}
	if !available {
		return fmt.Errorf("%s is not available in %s", provider, country)
	}
	return v.ValidatePhone(number, country)
}
