package notification

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/crypto-notifier/internal/domain"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var emails = template.Must(template.New("emails").
	Funcs(template.FuncMap{"join": strings.Join}).
	ParseFS(templateFS, "templates/*.tmpl"))

type confirmationView struct {
	Fiat        domain.FiatCurrencyInfo
	Cryptos     []string
	ConfirmLink string
}

type quoteLine struct {
	Symbol          string
	Name            string
	Available       bool
	Price           string
	Change1h        string
	Change24h       string
	Change7d        string
	MarketCap       string
	Dominance       string
	Volume24h       string
	VolumeChange24h string
}

type updateView struct {
	Fiat       domain.FiatCurrencyInfo
	Lines      []quoteLine
	CancelLink string
}

func renderConfirmation(req domain.NotificationRequest, confirmLink string) (string, error) {
	return execute("confirmation.tmpl", confirmationView{
		Fiat:        fiatInfo(req.FiatCurrency),
		Cryptos:     req.Symbols(),
		ConfirmLink: confirmLink,
	})
}

// renderUpdate lists the quotes in the order the user asked for them.
func renderUpdate(req domain.NotificationRequest, quotes domain.QuoteResult, cancelLink string) (string, error) {
	fiat := fiatInfo(req.FiatCurrency)
	lines := make([]quoteLine, 0, len(req.CryptoCurrencies))
	for _, c := range req.CryptoCurrencies {
		line := quoteLine{Symbol: string(c), Name: string(c)}
		if info, ok := domain.LookupCrypto(c); ok {
			line.Name = info.Name
		}
		if q, ok := quotes[string(c)]; ok {
			line.Available = true
			line.Price = formatMoney(fiat.Symbol, q.Price, 2)
			line.Change1h = formatPercent(q.PercentChange1h)
			line.Change24h = formatPercent(q.PercentChange24h)
			line.Change7d = formatPercent(q.PercentChange7d)
			line.MarketCap = formatMoney(fiat.Symbol, q.MarketCap, 0)
			line.Dominance = fmt.Sprintf("%.2f%%", q.MarketCapDominance)
			line.Volume24h = formatMoney(fiat.Symbol, q.Volume24h, 0)
			line.VolumeChange24h = formatPercent(q.VolumeChange24h)
		}
		lines = append(lines, line)
	}
	return execute("price_update.tmpl", updateView{Fiat: fiat, Lines: lines, CancelLink: cancelLink})
}

func execute(name string, data any) (string, error) {
	var b strings.Builder
	if err := emails.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func fiatInfo(code domain.FiatCurrency) domain.FiatCurrencyInfo {
	if info, ok := domain.LookupFiat(code); ok {
		return info
	}
	return domain.FiatCurrencyInfo{Code: code, Name: string(code), Symbol: string(code) + " "}
}

// formatMoney renders d with the currency symbol and thousands separators, eg "€58,123.46".
func formatMoney(symbol string, d decimal.Decimal, places int32) string {
	s := d.Abs().StringFixed(places)
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	sign := ""
	if d.IsNegative() && !d.Round(places).IsZero() {
		sign = "-"
	}
	return sign + symbol + b.String()
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%+.2f%%", p)
}
