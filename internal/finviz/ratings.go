package finviz

import (
	"strings"
	"time"

	"github.com/seenimoa/finvizlite/pkg/models"
	"github.com/seenimoa/finvizlite/pkg/utils"
)

const (
	selRatingsTable = "table.js-table-ratings"
	selRatingsInner = "td.fullview-ratings-inner"
	ratingCells     = 5
)

// ExtractRatings reads the analyst ratings table.
//
// Two layouts exist: one wraps every rating in a td.fullview-ratings-inner
// cell holding its own row, the other has one row per rating below a header
// row. A missing table yields ErrSectionMissing. Any malformed row fails the
// whole section with a *LayoutError; partial results are never returned.
//
// now resolves "Today" dates.
func ExtractRatings(doc Node, now time.Time) ([]models.Rating, error) {
	table, ok := doc.Find(selRatingsTable)
	if !ok {
		return nil, ErrSectionMissing
	}

	rows := table.FindAll(selRatingsInner)
	if len(rows) == 0 {
		rows = table.FindAll("tr")
		if len(rows) > 0 {
			rows = rows[1:]
		}
	}

	ratings := make([]models.Rating, 0, len(rows))
	for i, row := range rows {
		if inner, ok := row.Find("tr"); ok {
			row = inner
		}
		r, err := parseRatingRow(texts(row.FindAll("td")), now)
		if err != nil {
			return nil, layoutErrorf("ratings", "row %d: %v", i, err)
		}
		ratings = append(ratings, r)
	}
	return ratings, nil
}

func parseRatingRow(cols []string, now time.Time) (models.Rating, error) {
	if len(cols) < ratingCells {
		return models.Rating{}, layoutErrorf("ratings", "%d cells, want %d", len(cols), ratingCells)
	}

	date, err := parseRatingDate(cols[0], now)
	if err != nil {
		return models.Rating{}, err
	}

	return models.Rating{
		Date:   date,
		Status: cols[1],
		Outer:  cols[2],
		Rating: cols[3],
		Price:  cols[4],
	}, nil
}

// parseRatingDate parses "Jan-02-06"; any text starting with "today" is the
// calendar day of now.
func parseRatingDate(s string, now time.Time) (time.Time, error) {
	if strings.HasPrefix(strings.ToLower(s), "today") {
		return utils.StartOfDay(now), nil
	}
	return utils.ParseFinvizDate(s)
}
