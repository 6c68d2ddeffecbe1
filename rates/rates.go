package rates

import (
	"fmt"
	"math"
)

// UGXPerUSDC is the fixed exchange rate used across the app.
const UGXPerUSDC = 3800.0

// Source supplies the UGX price of one USDC. The default is the fixed
// constant; a live feed can be swapped in without touching call sites.
type Source interface {
	UGXPerUSDC() float64
}

type Fixed struct {
	Rate float64
}

func (f Fixed) UGXPerUSDC() float64 {
	return f.Rate
}

// Default is the rate source used by the handlers.
var Default Source = Fixed{Rate: UGXPerUSDC}

// ToUSDC converts a UGX amount to USDC. Non-positive or NaN input yields 0;
// bounds checking belongs to the validator, not here.
func ToUSDC(ugx float64) float64 {
	if math.IsNaN(ugx) || ugx <= 0 {
		return 0
	}
	return ugx / Default.UGXPerUSDC()
}

// ToUGX converts a USDC amount to UGX with the same guard as ToUSDC.
func ToUGX(usdc float64) float64 {
	if math.IsNaN(usdc) || usdc <= 0 {
		return 0
	}
	return usdc * Default.UGXPerUSDC()
}

// FormatUSDC renders a USDC amount with the 4 decimal places shown in the app.
func FormatUSDC(usdc float64) string {
	return fmt.Sprintf("%.4f", usdc)
}
