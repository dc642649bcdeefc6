package validation

import "regexp"

// Country holds the per-country validation configuration: the national
// mobile number pattern and the local currency.
type Country struct {
	Name         string
	PhonePattern *regexp.Regexp
	Currency     string
}

// countries is the default configuration table, keyed by ISO 3166-1
// alpha-2 code. A country missing from this table imposes no constraint.
var countries = map[string]Country{
	"KE": {Name: "Kenya", PhonePattern: regexp.MustCompile(`^\+254[17]\d{8}$`), Currency: "KES"},
	"NG": {Name: "Nigeria", PhonePattern: regexp.MustCompile(`^\+234[789]\d{9}$`), Currency: "NGN"},
	"GH": {Name: "Ghana", PhonePattern: regexp.MustCompile(`^\+233[2345]\d{8}$`), Currency: "GHS"},
	"ZA": {Name: "South Africa", PhonePattern: regexp.MustCompile(`^\+27[1-9]\d{8}$`), Currency: "ZAR"},
	"EG": {Name: "Egypt", PhonePattern: regexp.MustCompile(`^\+20(10|11|12|15)\d{8}$`), Currency: "EGP"},
	"TZ": {Name: "Tanzania", PhonePattern: regexp.MustCompile(`^\+255[67]\d{8}$`), Currency: "TZS"},
	"UG": {Name: "Uganda", PhonePattern: regexp.MustCompile(`^\+256[37]\d{8}$`), Currency: "UGX"},
	"RW": {Name: "Rwanda", PhonePattern: regexp.MustCompile(`^\+2507[2389]\d{7}$`), Currency: "RWF"},
}

// internationalCurrencies are accepted alongside the per-country ones.
var internationalCurrencies = []string{"USD", "EUR"}

// mobileMoneyProviders maps a provider to the countries it operates in.
var mobileMoneyProviders = map[string][]string{
	"m_pesa":       {"KE", "TZ"},
	"mtn_momo":     {"GH", "UG", "RW"},
	"airtel_money": {"KE", "TZ", "UG", "RW"},
	"orange_money": {"EG"},
}
