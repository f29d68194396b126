package finviz

import (
	"fmt"
	"net/url"
)

// Timeframe is the period of one chart candle.
type Timeframe string

const (
	TimeframeDaily   Timeframe = "daily"
	TimeframeWeekly  Timeframe = "weekly"
	TimeframeMonthly Timeframe = "monthly"
)

// ChartType selects how the chart is drawn.
type ChartType string

const (
	ChartCandle   ChartType = "candle"
	ChartLine     ChartType = "line"
	ChartAdvanced ChartType = "advanced" // candles plus trend-line overlay (daily only)
)

var timeframeCodes = map[Timeframe]string{
	TimeframeDaily:   "d",
	TimeframeWeekly:  "w",
	TimeframeMonthly: "m",
}

// ChartCodes are the query parameters finviz uses to select a chart image.
type ChartCodes struct {
	Type      string // ty: "c" candle, "l" line
	TA        string // ta: "1" draws the trend-line overlay
	Timeframe string // p: "d", "w" or "m"
}

// NewChartCodes validates a timeframe / chart type pair and maps it to codes.
// The overlay is only available on daily charts; weekly and monthly advanced
// charts fall back to plain candles.
func NewChartCodes(tf Timeframe, ct ChartType) (ChartCodes, error) {
	tfCode, ok := timeframeCodes[tf]
	if !ok {
		return ChartCodes{}, &ValidationError{Field: "timeframe", Value: string(tf)}
	}

	codes := ChartCodes{Type: "c", TA: "0", Timeframe: tfCode}
	switch ct {
	case ChartCandle:
	case ChartLine:
		codes.Type = "l"
	case ChartAdvanced:
		if tf == TimeframeDaily {
			codes.TA = "1"
		}
	default:
		return ChartCodes{}, &ValidationError{Field: "chart type", Value: string(ct)}
	}
	return codes, nil
}

// ChartURL builds the chart image URL for ticker.
func ChartURL(baseURL, ticker string, tf Timeframe, ct ChartType) (string, error) {
	codes, err := NewChartCodes(tf, ct)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/chart.ashx?t=%s&ty=%s&ta=%s&p=%s",
		baseURL, url.QueryEscape(ticker), codes.Type, codes.TA, codes.Timeframe), nil
}

// ChartOptions configures Session.Chart.
type ChartOptions struct {
	Timeframe Timeframe
	Type      ChartType
	OutDir    string // download directory; "" is the working directory
	URLOnly   bool   // only build the URL, do not download the image
}
