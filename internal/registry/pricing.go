package registry

import "github.com/tribunal-ai/tribunal/internal/models"

// Price is USD per 1K tokens, split input/output.
type Price struct {
	InputPer1K  float64
	OutputPer1K float64
}

// defaultPrice is the fallback tier for backend models missing from the
// table. Unknown models are billed, not rejected.
var defaultPrice = Price{InputPer1K: 0.005, OutputPer1K: 0.015}

// prices is keyed by backend model identifier. Rates are list prices at the
// time the catalog was last reviewed; cost output is an estimate, not an
// invoice.
var prices = map[string]Price{
	"gpt-4-turbo":                {InputPer1K: 0.010, OutputPer1K: 0.030},
	"gpt-4o":                     {InputPer1K: 0.0025, OutputPer1K: 0.010},
	"gpt-4o-mini":                {InputPer1K: 0.00015, OutputPer1K: 0.0006},
	"claude-3-opus-20240229":     {InputPer1K: 0.015, OutputPer1K: 0.075},
	"claude-3-5-sonnet-20241022": {InputPer1K: 0.003, OutputPer1K: 0.015},
	"claude-3-haiku-20240307":    {InputPer1K: 0.00025, OutputPer1K: 0.00125},
	"claude-sonnet-4":            {InputPer1K: 0.003, OutputPer1K: 0.015},
}

// PriceFor returns the price tier for a backend model, falling back to the
// default tier for unknown models.
func PriceFor(backendModel string) Price {
	if p, ok := prices[backendModel]; ok {
		return p
	}
	return defaultPrice
}

// EstimateCost computes the USD cost of one call from its token usage.
func EstimateCost(backendModel string, tokens models.TokenUsage) float64 {
	p := PriceFor(backendModel)
	return float64(tokens.Input)/1000.0*p.InputPer1K + float64(tokens.Output)/1000.0*p.OutputPer1K
}
