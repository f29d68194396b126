package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/seenimoa/finvizlite/pkg/models"
	"github.com/seenimoa/finvizlite/pkg/utils"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// formatValue renders a fundamentals value for text output. Large numbers
// use SI suffixes, the rest get thousands separators.
func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		if math.Abs(x) >= 1e6 {
			return humanize.SIWithDigits(x, 2, "")
		}
		return humanize.CommafWithDigits(x, 2)
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	case string:
		if x == "" {
			return "-"
		}
		return x
	default:
		return fmt.Sprint(x)
	}
}

func printFundamentals(w io.Writer, f models.Fundamentals) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, label := range f.Labels() {
		fmt.Fprintf(tw, "%s\t%s\n", label, formatValue(f[label]))
	}
	return tw.Flush()
}

func printRatings(w io.Writer, ratings []models.Rating) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tACTION\tFIRM\tRATING\tPRICE TARGET")
	for _, r := range ratings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.Date.Format("2006-01-02"), r.Status, r.Outer, r.Rating, r.Price)
	}
	return tw.Flush()
}

func printNews(w io.Writer, news []models.NewsItem, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, n := range news {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			utils.FormatDateTimeET(n.Date), humanize.RelTime(n.Date, now, "ago", "from now"), n.Source, n.Title)
		fmt.Fprintf(tw, "\t\t\t%s\n", n.Link)
	}
	return tw.Flush()
}

func printInfo(w io.Writer, info models.TickerInfo, now time.Time) error {
	section := func(title string) {
		fmt.Fprintf(w, "\n── %s %s\n", title, strings.Repeat("─", max(0, 40-len(title))))
	}

	fmt.Fprintf(w, "%s  (fetched %s)\n", info.Ticker, utils.FormatDateTimeET(info.FetchedAt))

	section("Fundamentals")
	if err := printFundamentals(w, info.Fundamentals); err != nil {
		return err
	}
	if info.Description != nil {
		section("Description")
		fmt.Fprintln(w, *info.Description)
	}
	if len(info.Ratings) > 0 {
		section("Ratings")
		if err := printRatings(w, info.Ratings); err != nil {
			return err
		}
	}
	if len(info.News) > 0 {
		section("News")
		if err := printNews(w, info.News, now); err != nil {
			return err
		}
	}
	return nil
}

func chartPath(dir, ticker string) string {
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, ticker+".png")
}
