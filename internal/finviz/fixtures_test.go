package finviz

import "testing"

// quotePage is a trimmed-down finviz quote page.
const quotePage = `<!DOCTYPE html>
<html><head><title>AAPL Apple Inc. Stock Quote</title></head><body>
<h2 class="quote-header_ticker-wrapper_company">
  Apple Inc
</h2>
<div class="quote-links">
  <a href="/screener.ashx?v=111&f=sec_technology">Technology</a>
  <a href="/screener.ashx?v=111&f=ind_consumerelectronics">Consumer Electronics</a>
  <a href="/screener.ashx?v=111&f=geo_usa">USA</a>
  <a href="/screener.ashx?v=111&f=exch_nasd">NASD</a>
  <a href="/screener.ashx?v=111&f=idx_sp500">S&amp;P 500</a>
</div>
<table class="snapshot-table2">
  <tr><td>Index</td><td>DJIA, NDX, S&amp;P 500</td><td>P/E</td><td>29.47</td><td>EPS next Y</td><td>7.45</td></tr>
  <tr><td>Market Cap</td><td>2.95T</td><td>Forward P/E</td><td>26.51</td><td>EPS next Y</td><td>10.71%</td></tr>
  <tr><td>52W Range</td><td>164.08 - 199.62</td><td>Volatility</td><td>1.21% 1.34%</td><td>Optionable</td><td>Yes</td></tr>
  <tr><td>Shortable</td><td>No</td><td>Dividend %</td><td>-</td><td>Earnings</td><td>Jan 30 AMC</td></tr>
  <tr><td>Avg Volume</td><td>55.31M</td><td>Volume</td><td>1,234,567</td><td>Employees</td></tr>
</table>
<table><tr><td class="fullview-profile">Apple Inc. designs, manufactures, and markets smartphones.</td></tr></table>
<table class="js-table-ratings">
  <tr><td class="fullview-ratings-inner"><table><tr>
    <td>Today 09:30</td><td>Upgrade</td><td>Barclays</td><td>Underweight → Equal Weight</td><td>$160 → $170</td>
  </tr></table></td></tr>
  <tr><td class="fullview-ratings-inner"><table><tr>
    <td>Jan-05-24</td><td>Downgrade</td><td>Piper Sandler</td><td>Overweight → Neutral</td><td>$220</td>
  </tr></table></td></tr>
</table>
<table class="fullview-news-outer">
  <tr><td>Jan-01-24 10:00AM</td><td><div><a href="https://example.com/n1">Apple tops estimates</a></div><div><span>(Reuters)</span></div></td></tr>
  <tr><td>11:00AM</td><td><a href="https://example.com/n2">Second headline</a> <span>(Bloomberg)</span></td></tr>
  <tr><td>Dec-31-23 09:15PM</td><td>no link in this row</td></tr>
  <tr><td>08:05AM</td><td><a href="https://example.com/n3">Third headline</a><span>(MarketWatch)</span></td></tr>
</table>
</body></html>`

// notFoundPage is what finviz serves for unknown symbols.
const notFoundPage = `<html><body><table><tr>
<td class="body-text">Ticker not found. Please try again.</td>
</tr></table></body></html>`

// flatRatingsPage uses the one-row-per-rating layout with a header row.
const flatRatingsPage = `<html><body>
<table class="js-table-ratings">
  <thead><tr><th>Date</th><th>Action</th><th>Analyst</th><th>Rating Change</th><th>Price Target Change</th></tr></thead>
  <tbody>
    <tr><td>Feb-14-24</td><td>Initiated</td><td>Loop Capital</td><td>Buy</td><td>$230</td></tr>
    <tr><td>TODAY</td><td>Reiterated</td><td>Wedbush</td><td>Outperform</td><td>$250</td></tr>
  </tbody>
</table>
</body></html>`

func mustParse(t *testing.T, html string) Node {
	t.Helper()
	doc, err := ParseHTMLString(html)
	if err != nil {
		t.Fatalf("ParseHTMLString() error: %v", err)
	}
	return doc
}
