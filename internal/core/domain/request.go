package domain

import "strings"

// ImportKind is the resource category named by an import statement.
type ImportKind uint8

const (
	// ImportChtl imports a chtl module or file.
	ImportChtl ImportKind = iota
	// ImportHTML imports a raw html file.
	ImportHTML
	// ImportStyle imports a stylesheet.
	ImportStyle
	// ImportJavaScript imports a script.
	ImportJavaScript
	// ImportCustomElement imports a [Custom] @Element symbol.
	ImportCustomElement
	// ImportCustomStyle imports a [Custom] @Style symbol.
	ImportCustomStyle
	// ImportCustomVar imports a [Custom] @Var symbol.
	ImportCustomVar
	// ImportTemplateElement imports a [Template] @Element symbol.
	ImportTemplateElement
	// ImportTemplateStyle imports a [Template] @Style symbol.
	ImportTemplateStyle
	// ImportTemplateVar imports a [Template] @Var symbol.
	ImportTemplateVar
)

var importKindNames = map[ImportKind]string{
	ImportChtl:            "@Chtl",
	ImportHTML:            "@Html",
	ImportStyle:           "@Style",
	ImportJavaScript:      "@JavaScript",
	ImportCustomElement:   "[Custom] @Element",
	ImportCustomStyle:     "[Custom] @Style",
	ImportCustomVar:       "[Custom] @Var",
	ImportTemplateElement: "[Template] @Element",
	ImportTemplateStyle:   "[Template] @Style",
	ImportTemplateVar:     "[Template] @Var",
}

// String returns the kind as written in source.
func (k ImportKind) String() string {
	if s, ok := importKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseImportKind maps an import kind spelling such as "@Style" or "[Custom] @Element".
func ParseImportKind(s string) (ImportKind, bool) {
	s = strings.Join(strings.Fields(s), " ")
	for k, name := range importKindNames {
		if strings.EqualFold(name, s) {
			return k, true
		}
	}
	return 0, false
}

// ImportRequest describes one import statement: [Import] <kind> [symbol] from <path> [as <alias>].
type ImportRequest struct {
	Kind     ImportKind
	Path     string
	Symbol   string
	Alias    string
	Wildcard bool
}

// NewImportRequest builds a request for a plain path, detecting wildcard spellings.
func NewImportRequest(kind ImportKind, path string) ImportRequest {
	return ImportRequest{
		Kind:     kind,
		Path:     path,
		Wildcard: IsWildcard(path),
	}
}

// IsWildcard reports whether a path spelling ends in a "*" or "*.ext" segment.
func IsWildcard(path string) bool {
	p := strings.TrimSpace(path)
	i := strings.LastIndexAny(p, "/\\")
	return strings.HasPrefix(p[i+1:], "*")
}
