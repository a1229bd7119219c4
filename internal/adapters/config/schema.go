package config

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.trai.ch/chtl/internal/core/domain"
	"go.trai.ch/zerr"
)

// Chtlfile represents the structure of the chtl.yaml configuration file.
type Chtlfile struct {
	Version    string   `yaml:"version"`
	ModuleRoot string   `yaml:"moduleRoot"`
	WorkingDir string   `yaml:"workingDir"`
	Policy     string   `yaml:"policy"`
	Cache      CacheDTO `yaml:"cache"`
	Extensions []string `yaml:"extensions"`
}

// CacheDTO represents the resolver content cache settings.
type CacheDTO struct {
	Enabled  *bool `yaml:"enabled"`
	Capacity int   `yaml:"capacity"`
}

// Validate validates the configuration file.
func (c *Chtlfile) Validate() error {
	policies := make([]any, 0, 3)
	for _, name := range domain.PolicyNames() {
		policies = append(policies, name)
	}

	if err := validation.ValidateStruct(c,
		validation.Field(&c.Version, validation.In("1")),
		validation.Field(&c.Policy, validation.In(policies...)),
		validation.Field(&c.Extensions, validation.Each(validation.By(isExtension))),
	); err != nil {
		return err
	}
	return c.Cache.Validate()
}

// Validate validates the cache settings.
func (c *CacheDTO) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Capacity, validation.Min(0)),
	)
}

func isExtension(value any) error {
	s, _ := value.(string)
	if len(s) < 2 || !strings.HasPrefix(s, ".") || strings.ContainsAny(s, `/\`) {
		return zerr.New("must look like .ext")
	}
	return nil
}
