package finviz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/seenimoa/finvizlite/pkg/models"
	"github.com/seenimoa/finvizlite/pkg/utils"
)

// notFoundSelector holds the status message finviz renders for unknown tickers.
const notFoundSelector = "td.body-text"

// Session holds the quote page of one ticker. The page is fetched once, in
// NewSession; every extraction reads the same in-memory document.
//
// A Session is not safe for concurrent use.
type Session struct {
	ticker  string
	fetcher Fetcher
	doc     Node
	info    models.TickerInfo
	now     func() time.Time
	log     *logrus.Entry
}

// NewSession fetches the quote page for ticker. It returns ErrTickerNotFound
// when finviz does not know the symbol.
func NewSession(ctx context.Context, fetcher Fetcher, ticker string) (*Session, error) {
	symbol := utils.NormalizeTicker(ticker)
	if !utils.IsValidTicker(symbol) {
		return nil, &ValidationError{Field: "ticker", Value: ticker}
	}

	quoteURL := fmt.Sprintf("%s/quote.ashx?t=%s", fetcher.BaseURL(), symbol)
	doc, err := fetcher.FetchDocument(ctx, quoteURL)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s: %w", symbol, ErrTickerNotFound)
		}
		return nil, fmt.Errorf("fetch quote page %s: %w", symbol, err)
	}
	if tickerMissing(doc) {
		return nil, fmt.Errorf("%s: %w", symbol, ErrTickerNotFound)
	}

	s := &Session{
		ticker:  symbol,
		fetcher: fetcher,
		doc:     doc,
		now:     utils.NowET,
		log:     logrus.WithField("ticker", symbol),
	}
	s.info = models.TickerInfo{Ticker: symbol, FetchedAt: s.now()}
	return s, nil
}

// tickerMissing reports whether the page is finviz's "not found" page.
// A page without the status cell is treated as an existing ticker.
func tickerMissing(doc Node) bool {
	status, ok := doc.Find(notFoundSelector)
	return ok && strings.Contains(strings.ToLower(status.Text()), "not found")
}

// Ticker returns the normalized symbol.
func (s *Session) Ticker() string { return s.ticker }

// SetLogger replaces the session logger.
func (s *Session) SetLogger(l *logrus.Logger) {
	s.log = logrus.NewEntry(l).WithField("ticker", s.ticker)
}

// Fundamentals extracts the company header and snapshot table.
// raw keeps values as printed on the page.
func (s *Session) Fundamentals(raw bool) (models.Fundamentals, error) {
	f, err := ExtractFundamentals(s.doc, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.ticker, err)
	}
	s.info.Fundamentals = f
	return f, nil
}

// Description returns the company profile text.
func (s *Session) Description() (string, error) {
	d, err := ExtractDescription(s.doc)
	if err != nil {
		return "", fmt.Errorf("%s description: %w", s.ticker, err)
	}
	s.info.Description = &d
	return d, nil
}

// Ratings returns the analyst ratings. A page without ratings yields
// ErrSectionMissing; a malformed table yields a *LayoutError.
func (s *Session) Ratings() ([]models.Rating, error) {
	r, err := ExtractRatings(s.doc, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s ratings: %w", s.ticker, err)
	}
	s.info.Ratings = r
	return r, nil
}

// News returns the news feed. A page without news yields ErrSectionMissing.
func (s *Session) News() ([]models.NewsItem, error) {
	n, err := extractNews(s.doc, s.now(), func(row int, err error) {
		s.log.WithField("row", row).WithError(err).Debug("skipping news row")
	})
	if err != nil {
		return nil, fmt.Errorf("%s news: %w", s.ticker, err)
	}
	s.info.News = n
	return n, nil
}

// FullInfo extracts fundamentals and news and returns everything extracted by
// this session so far. A page without news leaves News nil.
func (s *Session) FullInfo(raw bool) (models.TickerInfo, error) {
	if _, err := s.Fundamentals(raw); err != nil {
		return models.TickerInfo{}, err
	}
	if _, err := s.News(); err != nil && !errors.Is(err, ErrSectionMissing) {
		return models.TickerInfo{}, err
	}
	return s.Info(), nil
}

// Info returns the sections extracted so far.
func (s *Session) Info() models.TickerInfo {
	return s.info
}

// Chart builds the chart URL and, unless opts.URLOnly, downloads the image
// to opts.OutDir/<TICKER>.png. Invalid options fail before any request.
func (s *Session) Chart(ctx context.Context, opts ChartOptions) (string, error) {
	chartURL, err := ChartURL(s.fetcher.BaseURL(), s.ticker, opts.Timeframe, opts.Type)
	if err != nil {
		return "", err
	}
	if opts.URLOnly {
		return chartURL, nil
	}
	path, err := s.fetcher.DownloadImage(ctx, chartURL, s.ticker, opts.OutDir)
	if err != nil {
		return "", fmt.Errorf("download chart %s: %w", s.ticker, err)
	}
	s.log.WithField("path", path).Info("chart saved")
	return chartURL, nil
}
