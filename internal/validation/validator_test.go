package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	v := New()

	valid := map[string]string{
		"KE": "+254712345678",
		"NG": "+2348012345678",
		"GH": "+233241234567",
		"ZA": "+27821234567",
		"EG": "+201012345678",
		"TZ": "+255712345678",
		"UG": "+256771234567",
		"RW": "+250781234567",
	}
	for country, number := range valid {
		assert.NoError(t, v.ValidatePhone(number, country), country)
	}

	invalid := map[string]string{
		"KE": "0712345678",     // missing country code
		"NG": "+254712345678",  // wrong country prefix
		"GH": "+23324123456",   // too short
		"ZA": "+278212345678",  // too long
	}
	for country, number := range invalid {
		assert.Error(t, v.ValidatePhone(number, country), country)
	}

	// No constraint without a number or a known country.
	assert.NoError(t, v.ValidatePhone("", "KE"))
	assert.NoError(t, v.ValidatePhone("anything", "FR"))
	assert.NoError(t, v.ValidatePhone("anything", ""))
}

func TestValidateCurrency(t *testing.T) {
	v := New()

	for _, code := range []string{"KES", "NGN", "GHS", "ZAR", "EGP", "TZS", "UGX", "RWF", "USD", "EUR", ""} {
		assert.NoError(t, v.ValidateCurrency(code), code)
	}
	for _, code := range []string{"GBP", "JPY", "kes", "XXX"} {
		assert.Error(t, v.ValidateCurrency(code), code)
	}
}

func TestValidateMobileMoney(t *testing.T) {
	v := New()

	assert.NoError(t, v.ValidateMobileMoney("m_pesa", "+254712345678", "KE"))
	assert.NoError(t, v.ValidateMobileMoney("mtn_momo", "+256771234567", "UG"))

	// Provider not operating in the country.
	assert.Error(t, v.ValidateMobileMoney("m_pesa", "+2348012345678", "NG"))
	// Unknown provider.
	assert.Error(t, v.ValidateMobileMoney("pay_pal", "+254712345678", "KE"))
	// Provider available but number malformed.
	assert.Error(t, v.ValidateMobileMoney("m_pesa", "0712345678", "KE"))
}
