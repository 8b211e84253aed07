package protect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExposureRateForSize(t *testing.T) {
	tests := []struct {
		size     float64
		exposure float64
		risk     RiskTier
	}{
		{size: 0.1, exposure: 0.0010, risk: RiskLow},
		{size: 0.999, exposure: 0.0010, risk: RiskLow},
		{size: 0.9999999, exposure: 0.0010, risk: RiskLow},
		{size: 1, exposure: 0.0025, risk: RiskMedium},
		{size: 3, exposure: 0.0025, risk: RiskMedium},
		{size: 5, exposure: 0.0025, risk: RiskMedium},
		{size: 5.001, exposure: 0.0040, risk: RiskHigh},
		{size: 1000, exposure: 0.0040, risk: RiskHigh},
	}
	for _, tt := range tests {
		require.Equal(t, tt.exposure, ExposureRateForSize(tt.size), "size %v", tt.size)
		require.Equal(t, tt.risk, RiskTierForSize(tt.size), "size %v", tt.size)
	}
}

func TestExposureRateMonotonic(t *testing.T) {
	prev := ExposureRateForSize(0.01)
	for size := 0.01; size < 20; size += 0.01 {
		exposure := ExposureRateForSize(size)
		require.GreaterOrEqual(t, exposure, prev, "size %v", size)
		prev = exposure
	}
}

func TestComputeOutcomes(t *testing.T) {
	// 5 SOL with the mock quote
	comparison := ComputeOutcomes(5, MockQuote(5_000_000_000))

	require.True(t, comparison.Quote.IsMock)
	require.Equal(t, 0.0025, comparison.ExposureRate)
	require.Equal(t, 975.0, comparison.Baseline.Output)
	require.InDelta(t, 2.4375, comparison.MevSavings, 1e-9)
	require.InDelta(t, 0.975, comparison.PlatformFee, 1e-9)
	require.InDelta(t, 1.4625, comparison.NetSavings, 1e-9)
	require.InDelta(t, 976.4625, comparison.Protected.Output, 1e-9)

	require.Equal(t, "975.00", FormatAmount(comparison.Baseline.Output, 2))
	require.Equal(t, "976.46", FormatAmount(comparison.Protected.Output, 2))
	require.Equal(t, "2.44", FormatAmount(comparison.MevSavings, 2))
	require.Equal(t, "1.46", FormatAmount(comparison.NetSavings, 2))

	require.Equal(t, PathBaseline, comparison.Baseline.Path)
	require.Equal(t, RiskMedium, comparison.Baseline.RiskTier)
	require.Equal(t, 0.5, comparison.Baseline.SlippageBoundPct)
	require.InDelta(t, 970.125, comparison.Baseline.RangeLow, 1e-9)
	require.Equal(t, comparison.Baseline.Output, comparison.Baseline.RangeHigh)

	require.Equal(t, PathProtected, comparison.Protected.Path)
	require.Equal(t, RiskLow, comparison.Protected.RiskTier)
	require.Equal(t, 0.3, comparison.Protected.SlippageBoundPct)
	require.InDelta(t, 976.4625*0.997, comparison.Protected.RangeLow, 1e-9)
	require.Equal(t, comparison.Protected.Output, comparison.Protected.RangeHigh)

	require.InDelta(t, 0.25, comparison.LossPct, 1e-9)
	require.InDelta(t, 0.15, comparison.ImprovementPct, 1e-9)
}

func TestComputeOutcomes_ProtectedFormula(t *testing.T) {
	sizes := []float64{0.1, 0.5, 0.999, 1, 2.5, 5, 5.001, 12, 100}
	outAmounts := []uint64{1, 19_500_000, 975_000_000, 123_456_789, 2_340_000_000}
	for _, size := range sizes {
		for _, outAmount := range outAmounts {
			comparison := ComputeOutcomes(size, Quote{OutAmount: outAmount})
			baseline := float64(outAmount) / 1e6
			expected := baseline * (1 + ExposureRateForSize(size) - PlatformFeeRate)
			require.InDelta(t, expected, comparison.Protected.Output, 1e-9, "size %v out %v", size, outAmount)
			require.LessOrEqual(t, comparison.Baseline.RangeLow, comparison.Baseline.RangeHigh)
			require.LessOrEqual(t, comparison.Protected.RangeLow, comparison.Protected.RangeHigh)
		}
	}
}

func TestComputeOutcomes_Idempotent(t *testing.T) {
	quote := Quote{OutAmount: 1_234_567_891, PriceImpactPct: "0.12"}
	require.Equal(t, ComputeOutcomes(6.33, quote), ComputeOutcomes(6.33, quote))
}

func TestComputeOutcomes_ZeroQuote(t *testing.T) {
	comparison := ComputeOutcomes(2, Quote{OutAmount: 0})
	require.Equal(t, 0.0, comparison.Baseline.Output)
	require.Equal(t, 0.0, comparison.Protected.Output)
	require.Equal(t, 0.0, comparison.LossPct)
	require.Equal(t, 0.0, comparison.ImprovementPct)
	require.Equal(t, 0.0, comparison.Baseline.RangeLow)
}

func TestEstimateLoss(t *testing.T) {
	require.Equal(t, "2.44", FormatAmount(EstimateLoss(5), 2))
	require.Equal(t, "0.10", FormatAmount(EstimateLoss(0.5), 2))
	require.Equal(t, "7.80", FormatAmount(EstimateLoss(10), 2))
}
