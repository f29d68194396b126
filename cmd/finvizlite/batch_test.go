package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/seenimoa/finvizlite/pkg/models"
)

func TestRunBatchOrderAndErrors(t *testing.T) {
	fetch := func(_ context.Context, ticker string, raw bool) (models.TickerInfo, error) {
		if ticker == "BAD" {
			return models.TickerInfo{}, errors.New("BAD: ticker not found")
		}
		if !raw {
			t.Error("raw flag not passed through")
		}
		return models.TickerInfo{Ticker: ticker, Fundamentals: models.Fundamentals{"P/E": 10.0}}, nil
	}

	results, err := runBatch(context.Background(), []string{"AAPL", "BAD", "MSFT"}, 2, true, fetch)
	if err != nil {
		t.Fatalf("runBatch() error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, want := range []string{"AAPL", "BAD", "MSFT"} {
		if results[i].Ticker != want {
			t.Errorf("results[%d].Ticker = %q, want %q", i, results[i].Ticker, want)
		}
	}
	if results[1].Error == "" || results[1].Info != nil {
		t.Errorf("BAD result = %+v, want an error", results[1])
	}
	if results[0].Info == nil || results[2].Info == nil {
		t.Error("successful tickers should carry info")
	}

	var buf bytes.Buffer
	if err := printBatch(&buf, results); err != nil {
		t.Fatalf("printBatch() error: %v", err)
	}
	if !strings.Contains(buf.String(), "ticker not found") {
		t.Errorf("batch table should show the error:\n%s", buf.String())
	}
}

func TestRunBatchRespectsLimit(t *testing.T) {
	var running, peak atomic.Int32
	fetch := func(_ context.Context, ticker string, _ bool) (models.TickerInfo, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		running.Add(-1)
		return models.TickerInfo{Ticker: ticker}, nil
	}

	tickers := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	if _, err := runBatch(context.Background(), tickers, 3, false, fetch); err != nil {
		t.Fatalf("runBatch() error: %v", err)
	}
	if got := peak.Load(); got > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", got)
	}
}

func TestRunBatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetch := func(context.Context, string, bool) (models.TickerInfo, error) {
		t.Error("fetch should not run after cancellation")
		return models.TickerInfo{}, nil
	}
	if _, err := runBatch(ctx, []string{"AAPL"}, 1, false, fetch); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
