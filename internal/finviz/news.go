package finviz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/seenimoa/finvizlite/pkg/models"
	"github.com/seenimoa/finvizlite/pkg/utils"
)

const selNewsTable = "table.fullview-news-outer"

// ExtractNews reads the news table in page order (most recent first).
//
// finviz prints the date only on the first headline of each day; later rows
// carry just the time and inherit the last date seen. Malformed rows are
// skipped and the remaining rows are still returned. A missing table yields
// ErrSectionMissing.
func ExtractNews(doc Node, now time.Time) ([]models.NewsItem, error) {
	return extractNews(doc, now, nil)
}

// extractNews is ExtractNews with a hook called for every skipped row.
func extractNews(doc Node, now time.Time, onSkip func(row int, err error)) ([]models.NewsItem, error) {
	table, ok := doc.Find(selNewsTable)
	if !ok {
		return nil, ErrSectionMissing
	}

	var (
		news     []models.NewsItem
		lastDate string
	)
	for i, row := range table.FindAll("tr") {
		item, date, err := parseNewsRow(row, lastDate, now)
		if err != nil {
			if onSkip != nil {
				onSkip(i, err)
			}
			continue
		}
		lastDate = date
		news = append(news, item)
	}
	return news, nil
}

var errNoDate = errors.New("time without a preceding date")

// parseNewsRow parses one news row. It returns the item and the date the row
// resolved to, which becomes the inherited date for the following rows.
func parseNewsRow(row Node, lastDate string, now time.Time) (models.NewsItem, string, error) {
	cols := row.FindAll("td")
	if len(cols) < 2 {
		return models.NewsItem{}, "", fmt.Errorf("%d cells, want 2", len(cols))
	}

	anchor, ok := cols[1].Find("a")
	if !ok {
		return models.NewsItem{}, "", errors.New("headline link not found")
	}
	href, ok := anchor.Attr("href")
	if !ok {
		return models.NewsItem{}, "", errors.New("headline link has no href")
	}
	span, ok := cols[1].Find("span")
	if !ok {
		return models.NewsItem{}, "", errors.New("source not found")
	}

	var date, clock string
	switch tokens := strings.Fields(cols[0].Text()); len(tokens) {
	case 1:
		date, clock = lastDate, tokens[0]
	case 2:
		date, clock = tokens[0], tokens[1]
	default:
		return models.NewsItem{}, "", fmt.Errorf("date cell %q", cols[0].Text())
	}
	if date == "" {
		return models.NewsItem{}, "", errNoDate
	}
	if strings.EqualFold(date, "today") {
		date = utils.FormatFinvizDate(now)
	}

	ts, err := utils.ParseFinvizDateTime(date, clock)
	if err != nil {
		return models.NewsItem{}, "", err
	}

	return models.NewsItem{
		Date:   ts,
		Title:  strings.TrimSpace(anchor.Text()),
		Link:   href,
		Source: stripDelimiters(strings.TrimSpace(span.Text())),
	}, date, nil
}

// stripDelimiters drops the first and last character, e.g. "(Reuters)" → "Reuters".
func stripDelimiters(s string) string {
	r := []rune(s)
	if len(r) < 2 {
		return ""
	}
	return string(r[1 : len(r)-1])
}
