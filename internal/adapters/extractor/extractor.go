// Package extractor scans chtl source for import statements without a full parse.
package extractor

import (
	"regexp"
	"strings"

	"go.trai.ch/chtl/internal/core/domain"
	"go.trai.ch/chtl/internal/core/ports"
)

var _ ports.ImportExtractor = (*Extractor)(nil)

var (
	// Comments must start a line or follow whitespace so "dir/*" spellings survive.
	commentPattern = regexp.MustCompile(`(?s)(^|\s)(?:/\*.*?\*/|//[^\n]*)`)

	// [Import] ... from <path>
	fromPattern = regexp.MustCompile(`\[Import\][^;\n]*?\bfrom\s+("[^"]*"|'[^']*'|[^\s;]+)`)

	// [Import] [Custom|Template]? @Kind symbol? from <path> (as alias)?
	requestPattern = regexp.MustCompile(
		`\[Import\]\s*(\[(?:Custom|Template)\]\s*)?(@[A-Za-z]+)\s+` +
			`(?:([A-Za-z_][\w-]*)\s+)?from\s+("[^"]*"|'[^']*'|[^\s;]+)` +
			`(?:\s+as\s+([A-Za-z_][\w-]*))?`,
	)
)

// Extractor implements ports.ImportExtractor with regular expressions.
type Extractor struct{}

// New creates a new Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the unquoted target spelling of every import statement in content,
// in source order. Statements inside comments are ignored.
func (e *Extractor) Extract(content string) []string {
	content = commentPattern.ReplaceAllString(content, "$1")

	var spellings []string
	for _, m := range fromPattern.FindAllStringSubmatch(content, -1) {
		if s := unquote(m[1]); s != "" {
			spellings = append(spellings, s)
		}
	}
	return spellings
}

// Requests returns every import statement with a recognized kind as a request.
func (e *Extractor) Requests(content string) []domain.ImportRequest {
	content = commentPattern.ReplaceAllString(content, "$1")

	var reqs []domain.ImportRequest
	for _, m := range requestPattern.FindAllStringSubmatch(content, -1) {
		kind, ok := domain.ParseImportKind(strings.TrimSpace(m[1]) + " " + m[2])
		if !ok {
			continue
		}
		req := domain.NewImportRequest(kind, unquote(m[4]))
		req.Symbol = m[3]
		req.Alias = m[5]
		reqs = append(reqs, req)
	}
	return reqs
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}
