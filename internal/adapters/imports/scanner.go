// Package imports extracts module specifiers from JavaScript, TypeScript and
// CSS sources.
package imports

import (
	"regexp"

	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.ImportScanner = (*Scanner)(nil)

// specifierPattern matches, leftmost first:
//
//	import x from "a" / export { x } from "a"
//	import("a")
//	require("a")
//	@import "a" / @import url("a")
//	import "a"
//
// The from clause may span lines but never a semicolon or a quote.
var specifierPattern = regexp.MustCompile(
	`(?:\b(?:import|export)\b[^'"` + "`" + `;]*?\bfrom\s*` +
		`|\bimport\s*\(\s*` +
		`|\brequire\s*\(\s*` +
		`|@import\s+(?:url\(\s*)?` +
		`|\bimport\s*)` +
		`['"]([^'"\r\n]+)['"]`,
)

// Scanner implements ports.ImportScanner with a regular expression.
// It does not parse the source, so specifiers inside comments are reported too.
type Scanner struct{}

// New creates a new Scanner.
func New() *Scanner {
	return &Scanner{}
}

// Scan returns the specifiers in source in first-occurrence order without duplicates.
func (s *Scanner) Scan(source string) []string {
	matches := specifierPattern.FindAllStringSubmatch(source, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	specifiers := make([]string, 0, len(matches))
	for _, m := range matches {
		spec := m[1]
		if seen[spec] {
			continue
		}
		seen[spec] = true
		specifiers = append(specifiers, spec)
	}
	return specifiers
}
