package reference

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// FoldKey maps a display name onto its lookup key. Names that differ only in
// case, surrounding space or Unicode composition share a key, so "ÖRJAN
// Kihlström" and "örjan kihlström" resolve to the same driver.
func FoldKey(name string) string {
	// Casers are stateful, so each call gets its own.
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(name)))
}
