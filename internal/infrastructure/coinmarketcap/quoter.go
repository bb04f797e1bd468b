package coinmarketcap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/crypto-notifier/internal/config"
	"github.com/crypto-notifier/internal/domain"
	"github.com/shopspring/decimal"
)

// authHeader is the header CoinMarketCap uses to authenticate requests.
const authHeader = "X-CMC_PRO_API_KEY"

// Status is the status block CoinMarketCap attaches to every response.
type Status struct {
	Timestamp    string `json:"timestamp"`
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	Elapsed      int    `json:"elapsed"`
	CreditCount  int    `json:"credit_count"`
	Notice       string `json:"notice"`
}

// ProviderError is returned when CoinMarketCap answers without quote data.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("CoinMarketCap Error code %d: %s", e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error { return domain.ErrProvider }

type quoteResponse struct {
	Status Status               `json:"status"`
	Data   map[string]quoteItem `json:"data"`
}

type quoteItem struct {
	Symbol string               `json:"symbol"`
	Quote  map[string]fiatQuote `json:"quote"`
}

type fiatQuote struct {
	Price              decimal.Decimal `json:"price"`
	Volume24h          decimal.Decimal `json:"volume_24h"`
	VolumeChange24h    float64         `json:"volume_change_24h"`
	MarketCap          decimal.Decimal `json:"market_cap"`
	MarketCapDominance float64         `json:"market_cap_dominance"`
	PercentChange1h    float64         `json:"percent_change_1h"`
	PercentChange24h   float64         `json:"percent_change_24h"`
	PercentChange7d    float64         `json:"percent_change_7d"`
}

// Quoter fetches latest quotes from the CoinMarketCap pro API.
type Quoter struct {
	server        string
	quoteEndpoint string
	apiKey        string
	httpClient    *http.Client
}

func NewQuoter(cfg *config.Config) *Quoter {
	return &Quoter{
		server:        strings.TrimRight(cfg.CoinMarketCapServer, "/"),
		quoteEndpoint: strings.TrimLeft(cfg.CoinMarketCapQuoteEndpoint, "/"),
		apiKey:        cfg.CoinMarketCapKey,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Quote returns one quote per requested crypto currency, keyed by symbol and
// expressed in fiat.
func (q *Quoter) Quote(ctx context.Context, cryptos []domain.CryptoCurrency, fiat domain.FiatCurrency) (domain.QuoteResult, error) {
	slugs, err := slugsFor(cryptos)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("slug", strings.Join(slugs, ","))
	params.Set("convert", string(fiat))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.server+"/"+q.quoteEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build quote request: %w", err)
	}
	req.Header.Set(authHeader, q.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request: %w", err)
	}
	defer resp.Body.Close()

	var body quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode quote response (HTTP %d): %w", resp.StatusCode, err)
	}
	// the result has an error if the data field is not present
	if body.Data == nil {
		code := body.Status.ErrorCode
		if code == 0 {
			code = resp.StatusCode
		}
		return nil, &ProviderError{Code: code, Message: body.Status.ErrorMessage}
	}
	return parseResult(fiat, body.Data), nil
}

func slugsFor(cryptos []domain.CryptoCurrency) ([]string, error) {
	seen := make(map[string]bool, len(cryptos))
	slugs := make([]string, 0, len(cryptos))
	for _, c := range cryptos {
		info, ok := domain.LookupCrypto(c)
		if !ok {
			return nil, fmt.Errorf("unsupported crypto currency %q: %w", c, domain.ErrBadRequest)
		}
		if seen[info.Slug] {
			continue
		}
		seen[info.Slug] = true
		slugs = append(slugs, info.Slug)
	}
	return slugs, nil
}

// parseResult flattens data, keyed by CoinMarketCap id, into a result keyed by symbol.
func parseResult(fiat domain.FiatCurrency, data map[string]quoteItem) domain.QuoteResult {
	out := make(domain.QuoteResult, len(data))
	for _, item := range data {
		fq, ok := item.Quote[string(fiat)]
		if !ok {
			continue
		}
		out[item.Symbol] = domain.Quote{
			FiatCurrency:       fiat,
			Price:              fq.Price,
			Volume24h:          fq.Volume24h,
			VolumeChange24h:    fq.VolumeChange24h,
			MarketCap:          fq.MarketCap,
			MarketCapDominance: fq.MarketCapDominance,
			PercentChange1h:    fq.PercentChange1h,
			PercentChange24h:   fq.PercentChange24h,
			PercentChange7d:    fq.PercentChange7d,
		}
	}
	return out
}
