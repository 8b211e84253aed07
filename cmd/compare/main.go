// compare asks a running demo service for a swap comparison over JSON-RPC and prints it
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/flashbots/go-utils/cli"
	"github.com/flashbots/mev-protect-demo/jsonrpcserver"
	"github.com/flashbots/mev-protect-demo/protect"
	"github.com/ybbus/jsonrpc/v3"
	"go.uber.org/zap"
)

var (
	defaultRPCEndpoint = cli.GetEnv("DEMO_RPC_ENDPOINT", "http://127.0.0.1:8080/rpc")

	rpcPtr     = flag.String("rpc", defaultRPCEndpoint, "demo service json-rpc endpoint")
	amountPtr  = flag.String("amount", "5", "amount of SOL to swap")
	timeoutPtr = flag.Duration("timeout", 10*time.Second, "request timeout")
)

func main() {
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer func() { _ = logger.Sync() }()

	client := jsonrpc.NewClientWithOpts(*rpcPtr, &jsonrpc.RPCClientOpts{
		CustomHeaders: map[string]string{
			jsonrpcserver.OriginHeader: "compare-cli",
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutPtr)
	defer cancel()

	var comparison protect.Comparison
	if err := client.CallFor(ctx, &comparison, protect.CompareSwapsEndpointName, *amountPtr); err != nil {
		logger.Fatal("Failed to compare swaps", zap.Error(err), zap.String("amount", *amountPtr))
	}

	printComparison(&comparison)
}

func printComparison(c *protect.Comparison) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	if c.Quote.IsMock {
		fmt.Fprintln(w, "live quote unavailable, using reference price")
	}
	fmt.Fprintf(w, "swap\t%s SOL -> USDC\n", protect.FormatAmount(c.Amount, 4))
	fmt.Fprintln(w, "path\toutput\trisk\trange")
	for _, o := range []protect.OutcomeRecord{c.Baseline, c.Protected} {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s - %s\n", o.Path,
			protect.FormatAmount(o.Output, 2), o.RiskTier,
			protect.FormatAmount(o.RangeLow, 2), protect.FormatAmount(o.RangeHigh, 2))
	}
	fmt.Fprintf(w, "lost to bots\t%s\n", protect.FormatAmount(c.MevSavings, 3))
	fmt.Fprintf(w, "platform fee\t%s\n", protect.FormatAmount(c.PlatformFee, 3))
	fmt.Fprintf(w, "you keep\t%s (%s%%)\n", protect.FormatAmount(c.NetSavings, 2), protect.FormatAmount(c.ImprovementPct, 3))
}
