package models

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseRatesResponse(t *testing.T) {
	body := []byte(`{"result":"success","rates":{"USD":1,"INR":83.2,"AED":3.67}}`)
	rates, err := parseRatesResponse(body)
	if err != nil {
		t.Fatal(err)
	}
	if rates["INR"] != 83.2 {
		t.Errorf("INR rate = %v", rates["INR"])
	}

	if _, err := parseRatesResponse([]byte(`{"result":"error"}`)); err == nil {
		t.Error("error response accepted")
	}
	if _, err := parseRatesResponse([]byte(`not json`)); err == nil {
		t.Error("garbage accepted")
	}
}

func TestFetchRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"success","rates":{"USD":1,"INR":83.5}}`))
	}))
	defer srv.Close()

	rates, err := FetchRates(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if rates["INR"] != 83.5 {
		t.Errorf("INR = %v", rates["INR"])
	}
}

func TestFetchRatesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := FetchRates(context.Background(), srv.Client(), srv.URL); err == nil {
		t.Error("5xx accepted")
	}
}

func TestCrossRate(t *testing.T) {
	rates := FallbackRates()

	// identity
	if !CrossRate(rates, "INR", "INR").Equal(decimal.NewFromInt(1)) {
		t.Error("identity rate != 1")
	}

	// USD -> INR is the table value itself
	if CrossRate(rates, "USD", "INR").String() != "83.5" {
		t.Errorf("USD->INR = %s", CrossRate(rates, "USD", "INR"))
	}

	// AED -> INR crosses through USD: 83.50 / 3.67
	got := CrossRate(rates, "AED", "INR")
	want := decimal.NewFromFloat(83.50).Div(decimal.NewFromFloat(3.67)).Round(6)
	if !got.Equal(want) {
		t.Errorf("AED->INR = %s, want %s", got, want)
	}

	// unknown currency degrades to 1
	if !CrossRate(rates, "XYZ", "INR").Equal(decimal.NewFromInt(1)) {
		t.Error("unknown currency did not default to 1")
	}
}

func TestFallbackRatesCoverage(t *testing.T) {
	rates := FallbackRates()
	for _, c := range []string{"USD", "INR", "AED", "GBP", "EUR", "SGD", "THB", "MYR", "SAR", "QAR"} {
		if rates[c] <= 0 {
			t.Errorf("missing fallback rate for %s", c)
		}
	}
}
