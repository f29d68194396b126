package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seenimoa/finvizlite/internal/finviz"
	"github.com/seenimoa/finvizlite/internal/recorder"
	"github.com/seenimoa/finvizlite/pkg/utils"
)

// openSession fetches the quote page for ticker with the shared client.
func openSession(ctx context.Context, ticker string) (*finviz.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Finviz.Timeout())
	defer cancel()

	sess, err := finviz.NewSession(ctx, client, ticker)
	if err != nil {
		return nil, err
	}
	sess.SetLogger(log)
	return sess, nil
}

// record writes whatever sess extracted to the configured recorder. Failures
// are logged, never fatal.
func record(sess *finviz.Session) {
	if err := recorder.RecordInfo(rec, sess.Info()); err != nil {
		log.WithError(err).WithField("ticker", sess.Ticker()).Warn("record snapshot failed")
	}
}

// rawFlag returns --raw when given, else output.raw.
func rawFlag(cmd *cobra.Command) bool {
	if cmd.Flags().Changed("raw") {
		raw, _ := cmd.Flags().GetBool("raw")
		return raw
	}
	return cfg.Output.Raw
}

func jsonOutput() bool { return cfg.Output.Format == "json" }

// --- Price Command ---

var priceCmd = &cobra.Command{
	Use:   "price [ticker]",
	Short: "Print the last price",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker := utils.NormalizeTicker(args[0])
		if !utils.IsValidTicker(ticker) {
			return &finviz.ValidationError{Field: "ticker", Value: args[0]}
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Finviz.Timeout())
		defer cancel()
		price, err := client.CurrentPrice(ctx, ticker)
		if err != nil {
			return err
		}

		if jsonOutput() {
			return printJSON(os.Stdout, map[string]string{
				"ticker":        ticker,
				"price":         price,
				"market_status": utils.MarketStatus(),
			})
		}
		fmt.Printf("%s  %s  (%s)\n", ticker, price, utils.MarketStatus())
		return nil
	},
}

// --- Fundamentals Command ---

var fundamentalsCmd = &cobra.Command{
	Use:   "fundamentals [ticker]",
	Short: "Print the fundamentals snapshot table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		f, err := sess.Fundamentals(rawFlag(cmd))
		if err != nil {
			return err
		}
		record(sess)

		if jsonOutput() {
			return printJSON(os.Stdout, f)
		}
		return printFundamentals(os.Stdout, f)
	},
}

// --- Description Command ---

var descriptionCmd = &cobra.Command{
	Use:   "description [ticker]",
	Short: "Print the company description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		d, err := sess.Description()
		if err != nil {
			return err
		}

		if jsonOutput() {
			return printJSON(os.Stdout, map[string]string{"ticker": sess.Ticker(), "description": d})
		}
		fmt.Println(d)
		return nil
	},
}

// --- Ratings Command ---

var ratingsCmd = &cobra.Command{
	Use:   "ratings [ticker]",
	Short: "Print analyst rating changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		ratings, err := sess.Ratings()
		if err != nil {
			return err
		}
		record(sess)

		if jsonOutput() {
			return printJSON(os.Stdout, ratings)
		}
		return printRatings(os.Stdout, ratings)
	},
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news [ticker]",
	Short: "Print the news feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		news, err := sess.News()
		if err != nil {
			return err
		}
		record(sess)

		if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && limit < len(news) {
			news = news[:limit]
		}
		if jsonOutput() {
			return printJSON(os.Stdout, news)
		}
		return printNews(os.Stdout, news, utils.NowET())
	},
}

func init() {
	fundamentalsCmd.Flags().Bool("raw", true, "keep values as printed on the page (default: output.raw)")
	newsCmd.Flags().Int("limit", 0, "print at most this many items (0 = all)")
}

// --- Full Command ---

var fullCmd = &cobra.Command{
	Use:   "full [ticker]",
	Short: "Print fundamentals and news (plus description and ratings when present)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if _, err := sess.FullInfo(rawFlag(cmd)); err != nil {
			return err
		}
		_, err = sess.Description()
		bestEffort(sess, "description", err)
		_, err = sess.Ratings()
		bestEffort(sess, "ratings", err)
		record(sess)

		info := sess.Info()
		if jsonOutput() {
			return printJSON(os.Stdout, info)
		}
		return printInfo(os.Stdout, info, utils.NowET())
	},
}

func init() {
	fullCmd.Flags().Bool("raw", true, "keep values as printed on the page (default: output.raw)")
}

// bestEffort logs a failed optional section. A page without the section is
// not worth a warning.
func bestEffort(sess *finviz.Session, section string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, finviz.ErrSectionMissing):
		log.WithField("ticker", sess.Ticker()).Debugf("no %s on page", section)
	default:
		log.WithError(err).WithField("ticker", sess.Ticker()).Warnf("skipping %s", section)
	}
}

// --- Chart Command ---

var chartCmd = &cobra.Command{
	Use:   "chart [ticker]",
	Short: "Download the chart image (or print its URL)",
	Long: `Download the finviz chart image for a ticker to <out>/<TICKER>.png.

Examples:
  finvizlite chart AAPL
  finvizlite chart AAPL --timeframe weekly --type line --out ./charts
  finvizlite chart AAPL --url-only`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := finviz.ChartOptions{
			Timeframe: finviz.Timeframe(cfg.Chart.Timeframe),
			Type:      finviz.ChartType(cfg.Chart.Type),
			OutDir:    cfg.Chart.OutDir,
		}
		if cmd.Flags().Changed("timeframe") {
			tf, _ := cmd.Flags().GetString("timeframe")
			opts.Timeframe = finviz.Timeframe(tf)
		}
		if cmd.Flags().Changed("type") {
			ct, _ := cmd.Flags().GetString("type")
			opts.Type = finviz.ChartType(ct)
		}
		if cmd.Flags().Changed("out") {
			opts.OutDir, _ = cmd.Flags().GetString("out")
		}
		opts.URLOnly, _ = cmd.Flags().GetBool("url-only")

		// Reject bad options before fetching anything.
		if _, err := finviz.NewChartCodes(opts.Timeframe, opts.Type); err != nil {
			return err
		}

		sess, err := openSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		u, err := sess.Chart(cmd.Context(), opts)
		if err != nil {
			return err
		}

		if opts.URLOnly {
			fmt.Println(u)
		} else {
			fmt.Printf("saved %s chart for %s to %s\n", opts.Timeframe, sess.Ticker(), chartPath(opts.OutDir, sess.Ticker()))
		}
		return nil
	},
}

func init() {
	chartCmd.Flags().String("timeframe", "daily", "daily, weekly or monthly (default: chart.timeframe)")
	chartCmd.Flags().String("type", "advanced", "candle, line or advanced (default: chart.type)")
	chartCmd.Flags().String("out", ".", "output directory (default: chart.out_dir)")
	chartCmd.Flags().Bool("url-only", false, "print the chart URL instead of downloading")
}
