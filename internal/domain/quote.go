package domain

import "github.com/shopspring/decimal"

// Quote is the market data for one crypto currency expressed in FiatCurrency.
type Quote struct {
	FiatCurrency       FiatCurrency    `json:"fiat_currency"`
	Price              decimal.Decimal `json:"price"`
	Volume24h          decimal.Decimal `json:"volume_24h"`
	VolumeChange24h    float64         `json:"volume_change_24h"`
	MarketCap          decimal.Decimal `json:"market_cap"`
	MarketCapDominance float64         `json:"market_cap_dominance"`
	PercentChange1h    float64         `json:"percent_change_1h"`
	PercentChange24h   float64         `json:"percent_change_24h"`
	PercentChange7d    float64         `json:"percent_change_7d"`
}

// QuoteResult maps a crypto symbol to its quote.
type QuoteResult map[string]Quote
