package protect

import (
	"math"
	"strconv"
)

var outputScale = math.Pow10(OutputDecimals)

// ExposureRateForSize returns share of the output that bots take from a trade of the given size (in SOL)
func ExposureRateForSize(size float64) float64 {
	if size < SmallTradeLimit {
		return SmallTradeExposure
	}
	if size <= LargeTradeLimit {
		return MediumTradeExposure
	}
	return LargeTradeExposure
}

func RiskTierForSize(size float64) RiskTier {
	if size < SmallTradeLimit {
		return RiskLow
	}
	if size <= LargeTradeLimit {
		return RiskMedium
	}
	return RiskHigh
}

// ComputeOutcomes derives baseline and protected outcomes for a trade of amount (in SOL) from the quote.
// Protected output is always baseline * (1 + exposure - fee), it is never sourced independently.
func ComputeOutcomes(amount float64, quote Quote) Comparison {
	baselineOutput := float64(quote.OutAmount) / outputScale
	exposure := ExposureRateForSize(amount)
	mevSavings := baselineOutput * exposure
	fee := baselineOutput * PlatformFeeRate
	protectedOutput := baselineOutput + mevSavings - fee

	var lossPct, improvementPct float64
	if baselineOutput != 0 {
		lossPct = mevSavings / baselineOutput * 100
		improvementPct = (protectedOutput - baselineOutput) / baselineOutput * 100
	}

	return Comparison{
		Amount:         amount,
		Quote:          quote,
		ExposureRate:   exposure,
		MevSavings:     mevSavings,
		PlatformFee:    fee,
		NetSavings:     mevSavings - fee,
		LossPct:        lossPct,
		ImprovementPct: improvementPct,
		Baseline:       newOutcomeRecord(PathBaseline, baselineOutput, RiskTierForSize(amount), BaselineSlippageBound),
		// protected path always gets the lowest tier
		Protected: newOutcomeRecord(PathProtected, protectedOutput, RiskLow, ProtectedSlippageBound),
	}
}

func newOutcomeRecord(path Path, output float64, risk RiskTier, slippageBound float64) OutcomeRecord {
	return OutcomeRecord{
		Path:             path,
		Output:           output,
		RiskTier:         risk,
		SlippageBoundPct: slippageBound * 100,
		RangeLow:         output * (1 - slippageBound),
		RangeHigh:        output,
	}
}

// EstimateLoss is a preview of the loss for the amount (in SOL) using the reference price, no quote needed
func EstimateLoss(amount float64) float64 {
	return amount * ReferencePrice * ExposureRateForSize(amount)
}

// FormatAmount formats value with a fixed number of decimal places, rounding the exact binary value
// e.g. FormatAmount(976.4625, 2) = "976.46"
func FormatAmount(value float64, places int) string {
	return strconv.FormatFloat(value, 'f', places, 64)
}
