package ports

import "go.trai.ch/chtl/internal/core/domain"

// ImportExtractor scans file content for import statements without a full parse.
//
//go:generate mockgen -source=extractor.go -destination=mocks/mock_extractor.go -package=mocks
type ImportExtractor interface {
	// Extract returns the target spelling of every import statement in content.
	Extract(content string) []string
	// Requests returns every import statement in content as a request.
	Requests(content string) []domain.ImportRequest
}
