// utils/normalize.go
package utils

import (
	"strings"

	"github.com/gosimple/slug"
	"golang.org/x/text/unicode/norm"
)

// Corporate suffix tokens that appear inconsistently in the source sheets.
var companySuffixReplacer = strings.NewReplacer(
	"(주)", "",
	"(유)", "",
	"㈜", "",
	"주식회사", "",
	"유한회사", "",
)

// NormalizeCompanyKey folds a company name into a comparison key: NFKC
// normalization (full-width forms are common in the rosters), corporate
// suffix tokens stripped, whitespace removed, then slugified for case and
// punctuation folding. Two names refer to the same company iff their keys
// are equal.
func NormalizeCompanyKey(name string) string {
	if name == "" {
		return ""
	}
	n := norm.NFKC.String(name)
	n = companySuffixReplacer.Replace(n)
	n = strings.Join(strings.Fields(n), "")
	return slug.Make(n)
}
