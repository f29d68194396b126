// Package recorder keeps a history of scraped quote data.
package recorder

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/seenimoa/finvizlite/pkg/models"
)

// Recorder persists scraped snapshots for later analysis. Recorded data is
// write-only from finvizlite's point of view; it never replaces a fetch.
type Recorder interface {
	RecordFundamentals(ticker string, at time.Time, f models.Fundamentals) error
	RecordNews(ticker string, items []models.NewsItem) error
	RecordRatings(ticker string, items []models.Rating) error
	Close() error
}

// Open returns a SQLite recorder for path, or a NoopRecorder when path is empty.
func Open(path string, log *logrus.Logger) (Recorder, error) {
	if path == "" {
		return NewNoopRecorder(), nil
	}
	r, err := NewSQLiteRecorder(path, log)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// RecordInfo writes every section present in info.
func RecordInfo(r Recorder, info models.TickerInfo) error {
	if info.Fundamentals != nil {
		if err := r.RecordFundamentals(info.Ticker, info.FetchedAt, info.Fundamentals); err != nil {
			return err
		}
	}
	if len(info.News) > 0 {
		if err := r.RecordNews(info.Ticker, info.News); err != nil {
			return err
		}
	}
	if len(info.Ratings) > 0 {
		if err := r.RecordRatings(info.Ticker, info.Ratings); err != nil {
			return err
		}
	}
	return nil
}
