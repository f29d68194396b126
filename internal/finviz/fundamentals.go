package finviz

import (
	"strings"

	"github.com/seenimoa/finvizlite/pkg/models"
)

// Quote page selectors for the fundamentals section.
const (
	selCompany       = "h2.quote-header_ticker-wrapper_company"
	selQuoteLinks    = "div.quote-links"
	selSnapshotTable = "table.snapshot-table2"
)

// headerLinkLabels are the labels of the first four quote-links anchors, in
// page order.
var headerLinkLabels = []string{"Sector", "Industry", "Country", "Exchange"}

// ExtractFundamentals reads the company header and the snapshot table.
// The header and the table are required; a page without them yields a
// *LayoutError.
func ExtractFundamentals(doc Node, raw bool) (models.Fundamentals, error) {
	const section = "fundamentals"

	company, ok := doc.Find(selCompany)
	if !ok {
		return nil, layoutErrorf(section, "company header %s not found", selCompany)
	}

	linksBlock, ok := doc.Find(selQuoteLinks)
	if !ok {
		return nil, layoutErrorf(section, "links block %s not found", selQuoteLinks)
	}
	links := linksBlock.FindAll("a")
	if len(links) < len(headerLinkLabels) {
		return nil, layoutErrorf(section, "links block has %d entries, want at least %d",
			len(links), len(headerLinkLabels))
	}

	table, ok := doc.Find(selSnapshotTable)
	if !ok {
		return nil, layoutErrorf(section, "snapshot table %s not found", selSnapshotTable)
	}

	var cells []string
	for _, row := range table.FindAll("tr") {
		rowCells := texts(row.FindAll("td"))
		if len(rowCells)%2 == 1 {
			rowCells = append(rowCells, "")
		}
		cells = append(cells, rowCells...)
	}

	info := models.Fundamentals{
		"Company": strings.TrimSpace(company.Text()),
	}
	for i, label := range headerLinkLabels {
		info[label] = strings.TrimSpace(links[i].Text())
	}
	for label, value := range ParseFields(cells, raw) {
		info[label] = value
	}
	return info, nil
}
