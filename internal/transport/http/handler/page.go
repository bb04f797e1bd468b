package handler

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/crypto-notifier/internal/domain"
)

//go:embed templates/index.html
var pageFS embed.FS

var indexPage = template.Must(template.ParseFS(pageFS, "templates/index.html"))

type pageView struct {
	Fiats   []domain.FiatCurrencyInfo
	Cryptos []domain.CryptoCurrencyInfo
	Fiat    domain.FiatCurrency
	Email   string
	Success string
	Errors  []string
}

func newPageView() pageView {
	return pageView{
		Fiats:   domain.FiatCurrencies(),
		Cryptos: domain.CryptoCurrencies(),
		Fiat:    "USD",
	}
}

func renderPage(w http.ResponseWriter, status int, view pageView) {
	var buf bytes.Buffer
	if err := indexPage.Execute(&buf, view); err != nil {
		slog.Error("failed to render page", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
