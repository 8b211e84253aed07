// Package protect implements the swap comparison behind the demo
// Here is a full flow of data through the service:
//
// page / REST / JSON-RPC -> API sends:
//   - quote request (amount in lamports)
//   - comparison request (amount in SOL)
//   - feedback record
//
// API -> QuoteService fetches quote from QuoteBackend (jupiter), falls back to MockQuote
// API -> ComputeOutcomes derives baseline and protected outcome records from the quote
// API -> FeedbackStorage appends feedback row (postgres)
// API -> FeedbackNotifier publishes accepted feedback (redis)
package protect

const (
	// SourceDecimals is the number of decimals of the input asset (SOL lamports)
	SourceDecimals = 9
	// OutputDecimals is the number of decimals of the output asset (USDC)
	OutputDecimals = 6

	// ReferencePrice is the fixed SOL/USDC rate used by the mock quote and by the loss preview
	ReferencePrice = 195
	// MockPriceImpactPct is reported for every mock quote
	MockPriceImpactPct = "0.01"

	DefaultSlippageBps = 50

	PlatformFeeRate = 0.0010

	BaselineSlippageBound  = 0.005
	ProtectedSlippageBound = 0.003

	SmallTradeLimit = 1
	LargeTradeLimit = 5

	SmallTradeExposure  = 0.0010
	MediumTradeExposure = 0.0025
	LargeTradeExposure  = 0.0040

	SOLMint  = "So11111111111111111111111111111111111111112"
	USDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

	DefaultQuoteEndpoint = "https://quote-api.jup.ag/v6/quote"
)
