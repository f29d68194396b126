package finviz

// descriptionSelectors lists the company profile containers, oldest layout first.
var descriptionSelectors = []string{
	"td.fullview-profile",
	".quote_profile-bio",
}

// ExtractDescription returns the company profile text exactly as it appears
// on the page.
func ExtractDescription(doc Node) (string, error) {
	for _, sel := range descriptionSelectors {
		if n, ok := doc.Find(sel); ok {
			return n.Text(), nil
		}
	}
	return "", ErrSectionMissing
}
