package domain

// NotificationRequest is what a user asks for on the sign-up form: updates on
// CryptoCurrencies priced in FiatCurrency, mailed to Email.
// CryptoCurrencies keeps the submitted order; duplicates are allowed.
type NotificationRequest struct {
	FiatCurrency     FiatCurrency     `json:"fiat_currency" validate:"required,fiat"`
	CryptoCurrencies []CryptoCurrency `json:"crypto_currencies" validate:"required,min=1,dive,crypto"`
	Email            string           `json:"email" validate:"required,email"`
}

// Clone returns a copy that shares no memory with r.
func (r NotificationRequest) Clone() NotificationRequest {
	out := r
	out.CryptoCurrencies = append([]CryptoCurrency(nil), r.CryptoCurrencies...)
	return out
}

// Symbols returns the crypto codes as plain strings, in request order.
func (r NotificationRequest) Symbols() []string {
	out := make([]string, len(r.CryptoCurrencies))
	for i, c := range r.CryptoCurrencies {
		out[i] = string(c)
	}
	return out
}
