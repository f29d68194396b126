package finviz

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/seenimoa/finvizlite/pkg/utils"
)

var testNow = time.Date(2026, 10, 16, 14, 30, 0, 0, utils.ET)

func TestExtractFundamentals(t *testing.T) {
	doc := mustParse(t, quotePage)

	f, err := ExtractFundamentals(doc, false)
	if err != nil {
		t.Fatalf("ExtractFundamentals() error: %v", err)
	}

	header := map[string]string{
		"Company":  "Apple Inc",
		"Sector":   "Technology",
		"Industry": "Consumer Electronics",
		"Country":  "USA",
		"Exchange": "NASD",
	}
	for label, want := range header {
		if got, _ := f.String(label); got != want {
			t.Errorf("%s = %q, want %q", label, got, want)
		}
	}

	numbers := map[string]float64{
		"P/E":                   29.47,
		"EPS next Y":            7.45,
		"EPS next Y Percentage": 10.71,
		"52W Range From":        164.08,
		"52W Range To":          199.62,
		"Volatility W":          1.21,
		"Volatility M":          1.34,
		"Volume":                1234567,
	}
	for label, want := range numbers {
		if got, ok := f.Float(label); !ok || got != want {
			t.Errorf("%s = %v (numeric %v), want %v", label, f[label], ok, want)
		}
	}
	if got, _ := f.Float("Market Cap"); got < 2.94e12 || got > 2.96e12 {
		t.Errorf("Market Cap = %v, want ~2.95e12", got)
	}

	if b, ok := f.Bool("Optionable"); !ok || !b {
		t.Errorf("Optionable = %v, want true", f["Optionable"])
	}
	if b, ok := f.Bool("Shortable"); !ok || b {
		t.Errorf("Shortable = %v, want false", f["Shortable"])
	}
	if s, _ := f.String("Earnings"); s != "Jan 30 AMC" {
		t.Errorf("Earnings = %v, want raw string", f["Earnings"])
	}
	if s, _ := f.String("Dividend %"); s != "-" {
		t.Errorf("Dividend %% = %v, want \"-\"", f["Dividend %"])
	}
	if _, ok := f["Employees"]; !ok {
		t.Error("label without value must still be present")
	}
}

func TestExtractFundamentalsRaw(t *testing.T) {
	f, err := ExtractFundamentals(mustParse(t, quotePage), true)
	if err != nil {
		t.Fatalf("ExtractFundamentals() error: %v", err)
	}
	if s, _ := f.String("Market Cap"); s != "2.95T" {
		t.Errorf("raw Market Cap = %v, want 2.95T", f["Market Cap"])
	}
	if s, _ := f.String("Optionable"); s != "Yes" {
		t.Errorf("raw Optionable = %v, want Yes", f["Optionable"])
	}
}

func TestExtractFundamentalsLayoutErrors(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"no header", `<html><body><div class="quote-links"><a>a</a><a>b</a><a>c</a><a>d</a></div><table class="snapshot-table2"></table></body></html>`},
		{"no links block", `<html><body><h2 class="quote-header_ticker-wrapper_company">X</h2><table class="snapshot-table2"></table></body></html>`},
		{"three links", `<html><body><h2 class="quote-header_ticker-wrapper_company">X</h2><div class="quote-links"><a>a</a><a>b</a><a>c</a></div><table class="snapshot-table2"></table></body></html>`},
		{"no table", `<html><body><h2 class="quote-header_ticker-wrapper_company">X</h2><div class="quote-links"><a>a</a><a>b</a><a>c</a><a>d</a></div></body></html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractFundamentals(mustParse(t, tt.html), false)
			var le *LayoutError
			if !errors.As(err, &le) {
				t.Fatalf("error = %v, want *LayoutError", err)
			}
			if le.Section != "fundamentals" {
				t.Errorf("Section = %q, want fundamentals", le.Section)
			}
		})
	}
}

func TestExtractDescription(t *testing.T) {
	d, err := ExtractDescription(mustParse(t, quotePage))
	if err != nil {
		t.Fatalf("ExtractDescription() error: %v", err)
	}
	if !strings.HasPrefix(d, "Apple Inc. designs") {
		t.Errorf("description = %q", d)
	}

	bio := `<html><body><div class="quote_profile-bio"> Newer layout. </div></body></html>`
	d, err = ExtractDescription(mustParse(t, bio))
	if err != nil || d != " Newer layout. " {
		t.Errorf("ExtractDescription(bio) = %q, %v; want verbatim text", d, err)
	}

	if _, err := ExtractDescription(mustParse(t, "<html></html>")); !errors.Is(err, ErrSectionMissing) {
		t.Errorf("error = %v, want ErrSectionMissing", err)
	}
}

func TestExtractRatingsNested(t *testing.T) {
	ratings, err := ExtractRatings(mustParse(t, quotePage), testNow)
	if err != nil {
		t.Fatalf("ExtractRatings() error: %v", err)
	}
	if len(ratings) != 2 {
		t.Fatalf("got %d ratings, want 2", len(ratings))
	}

	today := ratings[0]
	if !today.Date.Equal(utils.StartOfDay(testNow)) {
		t.Errorf("Today resolved to %v, want %v", today.Date, utils.StartOfDay(testNow))
	}
	if today.Status != "Upgrade" || today.Outer != "Barclays" ||
		today.Rating != "Underweight → Equal Weight" || today.Price != "$160 → $170" {
		t.Errorf("unexpected rating: %+v", today)
	}

	if got := utils.FormatFinvizDate(ratings[1].Date); got != "Jan-05-24" {
		t.Errorf("second rating date = %s, want Jan-05-24", got)
	}
}

func TestExtractRatingsFlatLayout(t *testing.T) {
	ratings, err := ExtractRatings(mustParse(t, flatRatingsPage), testNow)
	if err != nil {
		t.Fatalf("ExtractRatings() error: %v", err)
	}
	if len(ratings) != 2 {
		t.Fatalf("got %d ratings, want 2 (header row skipped)", len(ratings))
	}
	if ratings[0].Outer != "Loop Capital" {
		t.Errorf("first rating = %+v", ratings[0])
	}
	if !ratings[1].Date.Equal(utils.StartOfDay(testNow)) {
		t.Errorf("TODAY should resolve case-insensitively, got %v", ratings[1].Date)
	}
}

func TestExtractRatingsMissing(t *testing.T) {
	_, err := ExtractRatings(mustParse(t, "<html><body></body></html>"), testNow)
	if !errors.Is(err, ErrSectionMissing) {
		t.Errorf("error = %v, want ErrSectionMissing", err)
	}
}

func TestExtractRatingsFailClosed(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"short row", `<table class="js-table-ratings"><tr><th>h</th></tr>
			<tr><td>Feb-14-24</td><td>Initiated</td><td>Loop</td><td>Buy</td><td>$230</td></tr>
			<tr><td>Feb-13-24</td><td>Initiated</td></tr></table>`},
		{"bad date", `<table class="js-table-ratings"><tr><th>h</th></tr>
			<tr><td>Feb-14-24</td><td>Initiated</td><td>Loop</td><td>Buy</td><td>$230</td></tr>
			<tr><td>yesterday</td><td>Initiated</td><td>Loop</td><td>Buy</td><td>$230</td></tr></table>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratings, err := ExtractRatings(mustParse(t, tt.html), testNow)
			var le *LayoutError
			if !errors.As(err, &le) {
				t.Fatalf("error = %v, want *LayoutError", err)
			}
			if ratings != nil {
				t.Errorf("partial results returned: %+v", ratings)
			}
		})
	}
}

func TestExtractNews(t *testing.T) {
	news, err := ExtractNews(mustParse(t, quotePage), testNow)
	if err != nil {
		t.Fatalf("ExtractNews() error: %v", err)
	}
	if len(news) != 3 {
		t.Fatalf("got %d items, want 3 (malformed row skipped)", len(news))
	}

	wantDates := []string{"2024-01-01 10:00", "2024-01-01 11:00", "2024-01-01 08:05"}
	for i, want := range wantDates {
		if got := news[i].Date.Format("2006-01-02 15:04"); got != want {
			t.Errorf("news[%d].Date = %s, want %s", i, got, want)
		}
	}

	first := news[0]
	if first.Title != "Apple tops estimates" || first.Link != "https://example.com/n1" || first.Source != "Reuters" {
		t.Errorf("unexpected first item: %+v", first)
	}
	if news[1].Source != "Bloomberg" || news[2].Source != "MarketWatch" {
		t.Errorf("sources = %q, %q", news[1].Source, news[2].Source)
	}
}

func TestExtractNewsCarryForward(t *testing.T) {
	html := `<table class="fullview-news-outer">
		<tr><td>Jan-01-24 10:00AM</td><td><a href="/a">A</a><span>(X)</span></td></tr>
		<tr><td>11:00AM</td><td><a href="/b">B</a><span>(Y)</span></td></tr>
	</table>`
	news, err := ExtractNews(mustParse(t, html), testNow)
	if err != nil {
		t.Fatalf("ExtractNews() error: %v", err)
	}
	if len(news) != 2 {
		t.Fatalf("got %d items, want 2", len(news))
	}
	for i, clock := range []string{"10:00AM", "11:00AM"} {
		if got := news[i].Date.Format("Jan-02-06 03:04PM"); got != "Jan-01-24 "+clock {
			t.Errorf("news[%d] = %s, want Jan-01-24 %s", i, got, clock)
		}
	}
}

func TestExtractNewsToday(t *testing.T) {
	html := `<table class="fullview-news-outer">
		<tr><td>Today 09:15AM</td><td><a href="/a">A</a><span>(X)</span></td></tr>
		<tr><td>08:00AM</td><td><a href="/b">B</a><span>(Y)</span></td></tr>
	</table>`
	news, err := ExtractNews(mustParse(t, html), testNow)
	if err != nil {
		t.Fatalf("ExtractNews() error: %v", err)
	}
	if len(news) != 2 {
		t.Fatalf("got %d items, want 2", len(news))
	}
	want := time.Date(2026, 10, 16, 8, 0, 0, 0, utils.ET)
	if !news[1].Date.Equal(want) {
		t.Errorf("inherited Today date = %v, want %v", news[1].Date, want)
	}
}

func TestExtractNewsLeadingTimeOnly(t *testing.T) {
	html := `<table class="fullview-news-outer">
		<tr><td>09:00AM</td><td><a href="/a">orphan</a><span>(X)</span></td></tr>
		<tr><td>Jan-02-24 08:00AM</td><td><a href="/b">B</a><span>(Y)</span></td></tr>
	</table>`
	var skipped []int
	news, err := extractNews(mustParse(t, html), testNow, func(row int, _ error) {
		skipped = append(skipped, row)
	})
	if err != nil {
		t.Fatalf("extractNews() error: %v", err)
	}
	if len(news) != 1 || news[0].Title != "B" {
		t.Errorf("news = %+v, want only B", news)
	}
	if len(skipped) != 1 || skipped[0] != 0 {
		t.Errorf("skipped rows = %v, want [0]", skipped)
	}
}

func TestExtractNewsMissing(t *testing.T) {
	_, err := ExtractNews(mustParse(t, "<html></html>"), testNow)
	if !errors.Is(err, ErrSectionMissing) {
		t.Errorf("error = %v, want ErrSectionMissing", err)
	}
}

func TestStripDelimiters(t *testing.T) {
	tests := map[string]string{
		"(Reuters)":     "Reuters",
		"[Zacks]":       "Zacks",
		"(Motley Fool)": "Motley Fool",
		"x":             "",
		"":              "",
	}
	for in, want := range tests {
		if got := stripDelimiters(in); got != want {
			t.Errorf("stripDelimiters(%q) = %q, want %q", in, got, want)
		}
	}
}
