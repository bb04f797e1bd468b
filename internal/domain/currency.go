package domain

import "sort"

// CryptoCurrency is a supported crypto currency code, eg "BTC".
type CryptoCurrency string

// FiatCurrency is a supported fiat currency code, eg "EUR".
type FiatCurrency string

// CryptoCurrencyInfo describes a crypto currency offered on the sign-up form.
type CryptoCurrencyInfo struct {
	Code             CryptoCurrency `json:"code"`
	Name             string         `json:"name"`
	FAIcon           string         `json:"fa_icon"`
	CheckedByDefault bool           `json:"checked_by_default"`
	Slug             string         `json:"slug"` // CoinMarketCap slug
}

// FiatCurrencyInfo describes a fiat currency quotes can be expressed in.
type FiatCurrencyInfo struct {
	Code   FiatCurrency `json:"code"`
	Name   string       `json:"name"`
	FAIcon string       `json:"fa_icon"`
	Symbol string       `json:"symbol"`
}

var cryptoCurrencies = map[CryptoCurrency]CryptoCurrencyInfo{
	"BTC": {Code: "BTC", Name: "Bitcoin", FAIcon: "fa-bitcoin", CheckedByDefault: true, Slug: "bitcoin"},
	"ETH": {Code: "ETH", Name: "Ethereum", FAIcon: "fa-ethereum", Slug: "ethereum"},
}

var fiatCurrencies = map[FiatCurrency]FiatCurrencyInfo{
	"USD": {Code: "USD", Name: "Dollar", FAIcon: "fa-dollar-sign", Symbol: "$"},
	"EUR": {Code: "EUR", Name: "Euro", FAIcon: "fa-euro-sign", Symbol: "€"},
	"BRL": {Code: "BRL", Name: "Brazilian Real", FAIcon: "fa-brazilian-real-sign", Symbol: "R$"},
	"GBP": {Code: "GBP", Name: "Pound Sterling", FAIcon: "fa-pound-sign", Symbol: "£"},
	"AUD": {Code: "AUD", Name: "Australian Dollar", FAIcon: "fa-dollar-sign", Symbol: "$A"},
}

func LookupCrypto(code CryptoCurrency) (CryptoCurrencyInfo, bool) {
	c, ok := cryptoCurrencies[code]
	return c, ok
}

func LookupFiat(code FiatCurrency) (FiatCurrencyInfo, bool) {
	f, ok := fiatCurrencies[code]
	return f, ok
}

func IsSupportedCrypto(code string) bool {
	_, ok := cryptoCurrencies[CryptoCurrency(code)]
	return ok
}

func IsSupportedFiat(code string) bool {
	_, ok := fiatCurrencies[FiatCurrency(code)]
	return ok
}

// CryptoCurrencies lists the supported crypto currencies sorted by code.
func CryptoCurrencies() []CryptoCurrencyInfo {
	out := make([]CryptoCurrencyInfo, 0, len(cryptoCurrencies))
	for _, c := range cryptoCurrencies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// FiatCurrencies lists the supported fiat currencies sorted by code.
func FiatCurrencies() []FiatCurrencyInfo {
	out := make([]FiatCurrencyInfo, 0, len(fiatCurrencies))
	for _, f := range fiatCurrencies {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
