package models

// Currency is one entry of the supported-currency catalog. The catalog is
// seeded out of band and read-only from the API's point of view.
type Currency struct {
	Code   string
	Name   string
	Symbol string
}

type SpotRate struct {
	From          string  `json:"from"`
	To            string  `json:"to"`
	Rate          float64 `json:"rate"`
	LastRefreshed string  `json:"lastRefreshed"`
}

type Candle struct {
	Date  string  `json:"date"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

type RateSeries struct {
	From   string   `json:"from"`
	To     string   `json:"to"`
	Series []Candle `json:"series"`
}
