package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/chtl/internal/core/domain"
)

func TestIsWildcard(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"module/ui/*", true},
		{"module/ui/*.chtl", true},
		{`module\ui\*.css`, true},
		{"*", true},
		{"module/ui/button.chtl", false},
		{"module/*/button.chtl", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.IsWildcard(tt.path))
		})
	}
}

func TestParseImportKind(t *testing.T) {
	k, ok := domain.ParseImportKind("[Custom]   @Element")
	assert.True(t, ok)
	assert.Equal(t, domain.ImportCustomElement, k)

	k, ok = domain.ParseImportKind("@style")
	assert.True(t, ok)
	assert.Equal(t, domain.ImportStyle, k)

	_, ok = domain.ParseImportKind("@Unknown")
	assert.False(t, ok)
}

func TestParsePolicy(t *testing.T) {
	for _, name := range domain.PolicyNames() {
		pol, ok := domain.ParsePolicy(name)
		assert.True(t, ok)
		assert.Equal(t, name, pol.String())
	}

	_, ok := domain.ParsePolicy("modules-please")
	assert.False(t, ok)
}
