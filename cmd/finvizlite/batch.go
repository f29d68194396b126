package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/finvizlite/pkg/models"
)

// batchResult is the outcome for one ticker of a batch run.
type batchResult struct {
	Ticker string             `json:"ticker"`
	Info   *models.TickerInfo `json:"info,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// runBatch fetches FullInfo for every ticker, at most limit at a time.
// A failing ticker is reported in its result and does not stop the others.
// Results keep the order of tickers.
func runBatch(ctx context.Context, tickers []string, limit int, raw bool, fetch func(ctx context.Context, ticker string, raw bool) (models.TickerInfo, error)) ([]batchResult, error) {
	results := make([]batchResult, len(tickers))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, ticker := range tickers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			info, err := fetch(ctx, ticker, raw)
			if err != nil {
				results[i] = batchResult{Ticker: ticker, Error: err.Error()}
				return nil
			}
			results[i] = batchResult{Ticker: info.Ticker, Info: &info}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// fetchFull opens a session and extracts fundamentals and news.
func fetchFull(ctx context.Context, ticker string, raw bool) (models.TickerInfo, error) {
	sess, err := openSession(ctx, ticker)
	if err != nil {
		return models.TickerInfo{}, err
	}
	info, err := sess.FullInfo(raw)
	if err != nil {
		return models.TickerInfo{}, err
	}
	record(sess)
	return info, nil
}

func printBatch(w io.Writer, results []batchResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TICKER\tCOMPANY\tSECTOR\tP/E\tMARKET CAP\tNEWS\tERROR")
	for _, r := range results {
		if r.Info == nil {
			fmt.Fprintf(tw, "%s\t\t\t\t\t\t%s\n", r.Ticker, r.Error)
			continue
		}
		f := r.Info.Fundamentals
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t\n",
			r.Ticker, formatValue(f["Company"]), formatValue(f["Sector"]),
			formatValue(f["P/E"]), formatValue(f["Market Cap"]), len(r.Info.News))
	}
	return tw.Flush()
}

// --- Batch Command ---

var batchCmd = &cobra.Command{
	Use:   "batch [ticker...]",
	Short: "Fetch fundamentals and news for several tickers concurrently",
	Long: `Fetch fundamentals and news for several tickers, batch.concurrency at a time.
Each ticker is fetched once; failures are reported per ticker.

Examples:
  finvizlite batch AAPL MSFT NVDA
  finvizlite batch AAPL MSFT --concurrency 2 --json --record ./history.db`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit := cfg.Batch.Concurrency
		if cmd.Flags().Changed("concurrency") {
			limit, _ = cmd.Flags().GetInt("concurrency")
		}
		if limit <= 0 {
			return fmt.Errorf("concurrency must be positive, got %d", limit)
		}

		start := time.Now()
		results, err := runBatch(cmd.Context(), args, limit, rawFlag(cmd), fetchFull)
		if err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			if r.Error != "" {
				failed++
			}
		}
		log.WithFields(logrus.Fields{
			"tickers": len(results),
			"failed":  failed,
			"elapsed": time.Since(start).Round(time.Millisecond),
		}).Info("batch finished")

		if jsonOutput() {
			if err := printJSON(os.Stdout, results); err != nil {
				return err
			}
		} else if err := printBatch(os.Stdout, results); err != nil {
			return err
		}
		if failed == len(results) {
			return fmt.Errorf("all %d tickers failed", failed)
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().Int("concurrency", 4, "tickers fetched in parallel (default: batch.concurrency)")
	batchCmd.Flags().Bool("raw", true, "keep values as printed on the page (default: output.raw)")
}
