package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// fold lower-cases s for keyword and search matching. A Caser is not safe for
// concurrent use, so one is built per call.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// itemText is the folded product name and description of an item
func itemText(item OrderItem) string {
	if item.Description == "" {
		return fold(item.ProductName)
	}
	return fold(item.ProductName + " " + item.Description)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, fold(kw)) {
			return true
		}
	}
	return false
}
