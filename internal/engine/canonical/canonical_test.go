package canonical_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/chtl/internal/core/domain"
	"go.trai.ch/chtl/internal/core/ports/mocks"
	"go.trai.ch/chtl/internal/engine/canonical"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	fs      *mocks.MockFileSystem
	catalog *mocks.MockModuleCatalog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	return &fixture{
		fs:      mocks.NewMockFileSystem(ctrl),
		catalog: mocks.NewMockModuleCatalog(ctrl),
	}
}

// build registers catch-all expectations after any specific ones so that the
// specific expectations are matched first.
func (f *fixture) build(policy domain.ResolutionPolicy) *canonical.Canonicalizer {
	f.fs.EXPECT().RealPath(gomock.Any()).Return("", false).AnyTimes()
	f.fs.EXPECT().Exists(gomock.Any()).Return(false).AnyTimes()
	f.fs.EXPECT().IsDir(gomock.Any()).Return(false).AnyTimes()
	f.catalog.EXPECT().IsKnownModule(gomock.Any()).Return(false).AnyTimes()

	cfg := domain.DefaultConfig("/work")
	cfg.Policy = policy
	return canonical.New(f.fs, f.catalog, cfg)
}

func TestLexical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`a\b.x`, "a/b.x"},
		{"a//b.x", "a/b.x"},
		{"a/./b.x", "a/b.x"},
		{"a/c/../b.x", "a/b.x"},
		{"../x.chtl", "../x.chtl"},
		{"../../x.chtl", "../../x.chtl"},
		{"/../x.chtl", "/x.chtl"},
		{"a/b/", "a/b"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, canonical.Lexical(tt.in))
		})
	}
}

func TestNormalize_EquivalentSpellings(t *testing.T) {
	c := newFixture(t).build(domain.PolicyModuleFirst)

	spellings := []string{"a/b.x", "a/./b.x", "a/c/../b.x", `a\b.x`, "a//b.x", "/work/a/b.x"}
	for _, s := range spellings {
		assert.True(t, c.Equivalent("a/b.x", s), "expected %q to be equivalent to a/b.x", s)
	}
	assert.Equal(t, "/work/a/b.x", c.Normalize("a/b.x").String())

	assert.False(t, c.Equivalent("a/b.x", "a/c.x"))
	assert.False(t, c.Equivalent("a/b.x", "b/b.x"))
}

func TestNormalize_Idempotent(t *testing.T) {
	c := newFixture(t).build(domain.PolicyModuleFirst)

	for _, s := range []string{"a/b.x", "../up.chtl", `x\y\..\z.css`, "/abs//dir/./f.js", "plain"} {
		once := c.Normalize(s)
		assert.Equal(t, once, c.Normalize(once.String()), "normalize not idempotent for %q", s)
	}
}

func TestNormalize_EmptyIsZero(t *testing.T) {
	c := newFixture(t).build(domain.PolicyModuleFirst)

	assert.True(t, c.Normalize("").IsZero())
	assert.True(t, c.Normalize("   ").IsZero())
}

func TestNormalize_ResolvesSymlinks(t *testing.T) {
	f := newFixture(t)
	f.fs.EXPECT().RealPath("/work/link.chtl").Return("/store/real.chtl", true).AnyTimes()
	f.fs.EXPECT().RealPath("/store/real.chtl").Return("/store/real.chtl", true).AnyTimes()
	c := f.build(domain.PolicyModuleFirst)

	assert.Equal(t, "/store/real.chtl", c.Normalize("link.chtl").String())
	assert.True(t, c.Equivalent("link.chtl", "/store/real.chtl"))
}

func TestNormalize_Policies(t *testing.T) {
	t.Run("module-first prefers the module root", func(t *testing.T) {
		f := newFixture(t)
		f.catalog.EXPECT().IsKnownModule("ui.chtl").Return(true).AnyTimes()
		f.catalog.EXPECT().ModulePathFor("ui.chtl").Return("/mods/ui.chtl").AnyTimes()
		c := f.build(domain.PolicyModuleFirst)

		assert.Equal(t, "/mods/ui.chtl", c.Normalize("ui.chtl").String())
	})

	t.Run("relative module path is anchored to the working directory", func(t *testing.T) {
		f := newFixture(t)
		f.catalog.EXPECT().IsKnownModule("ui.chtl").Return(true).AnyTimes()
		f.catalog.EXPECT().ModulePathFor("ui.chtl").Return("module/ui.chtl").AnyTimes()
		c := f.build(domain.PolicyModuleFirst)

		assert.Equal(t, "/work/module/ui.chtl", c.Normalize("ui.chtl").String())
	})

	t.Run("working-dir-first uses an existing local file", func(t *testing.T) {
		f := newFixture(t)
		f.fs.EXPECT().Exists("/work/ui.chtl").Return(true).AnyTimes()
		f.catalog.EXPECT().IsKnownModule("ui.chtl").Return(true).AnyTimes()
		f.catalog.EXPECT().ModulePathFor("ui.chtl").Return("/mods/ui.chtl").AnyTimes()
		c := f.build(domain.PolicyWorkingDirFirst)

		assert.Equal(t, "/work/ui.chtl", c.Normalize("ui.chtl").String())
	})

	t.Run("working-dir-first falls back to the module", func(t *testing.T) {
		f := newFixture(t)
		f.catalog.EXPECT().IsKnownModule("ui.chtl").Return(true).AnyTimes()
		f.catalog.EXPECT().ModulePathFor("ui.chtl").Return("/mods/ui.chtl").AnyTimes()
		c := f.build(domain.PolicyWorkingDirFirst)

		assert.Equal(t, "/mods/ui.chtl", c.Normalize("ui.chtl").String())
	})

	t.Run("working-dir-only never consults the catalog", func(t *testing.T) {
		// No catalog expectations: any call fails the test.
		f := newFixture(t)
		f.fs.EXPECT().RealPath(gomock.Any()).Return("", false).AnyTimes()
		cfg := domain.DefaultConfig("/work")
		cfg.Policy = domain.PolicyWorkingDirOnly
		c := canonical.New(f.fs, f.catalog, cfg)

		assert.Equal(t, "/work/ui.chtl", c.Normalize("ui.chtl").String())
	})
}

func TestResolveFrom(t *testing.T) {
	source := domain.NewCanonicalPath("/src/pages/main.chtl")

	t.Run("explicit relative resolves against the source directory", func(t *testing.T) {
		c := newFixture(t).build(domain.PolicyModuleFirst)

		assert.Equal(t, "/src/pages/style.css", c.ResolveFrom("./style.css", source).String())
		assert.Equal(t, "/src/shared/x.css", c.ResolveFrom(`..\shared\x.css`, source).String())
		assert.Equal(t, "/src/pages/style.css", c.ResolveFrom(`"./style.css"`, source).String())
	})

	t.Run("bare spelling resolves against the working directory", func(t *testing.T) {
		c := newFixture(t).build(domain.PolicyModuleFirst)

		assert.Equal(t, "/work/style.css", c.ResolveFrom("style.css", source).String())
	})

	t.Run("dotted module names become directories", func(t *testing.T) {
		f := newFixture(t)
		f.fs.EXPECT().Exists("/work/ui/widgets/button.chtl").Return(true).AnyTimes()
		f.fs.EXPECT().Exists("/work/ui/layout.chtl").Return(true).AnyTimes()
		c := f.build(domain.PolicyModuleFirst)

		assert.Equal(t, "/work/ui/widgets/button.chtl", c.ResolveFrom("ui.widgets.button", source).String())
		assert.Equal(t, "/work/ui/layout.chtl", c.ResolveFrom("ui.layout.chtl", source).String())
	})

	t.Run("dotted file names that exist are kept", func(t *testing.T) {
		f := newFixture(t)
		f.fs.EXPECT().Exists("/work/theme.min.css").Return(true).AnyTimes()
		f.fs.EXPECT().Exists("/work/notes.txt").Return(true).AnyTimes()
		f.fs.EXPECT().Exists("/src/pages/theme.min.css").Return(true).AnyTimes()
		c := f.build(domain.PolicyModuleFirst)

		assert.Equal(t, "/work/theme.min.css", c.ResolveFrom("theme.min.css", source).String())
		assert.Equal(t, "/work/notes.txt", c.ResolveFrom("notes.txt", source).String())
		assert.Equal(t, "/src/pages/theme.min.css", c.ResolveFrom("./theme.min.css", source).String())
	})

	t.Run("dotted spelling naming nothing keeps the literal form", func(t *testing.T) {
		c := newFixture(t).build(domain.PolicyModuleFirst)

		assert.Equal(t, "/work/ui.ghost", c.ResolveFrom("ui.ghost", source).String())
	})

	t.Run("extension probing picks the first existing candidate", func(t *testing.T) {
		f := newFixture(t)
		f.fs.EXPECT().Exists("/src/pages/theme.css").Return(true).AnyTimes()
		c := f.build(domain.PolicyModuleFirst)

		assert.Equal(t, "/src/pages/theme.css", c.ResolveFrom("./theme", source).String())
	})

	t.Run("no extension and nothing exists keeps the lexical form", func(t *testing.T) {
		c := newFixture(t).build(domain.PolicyModuleFirst)

		assert.Equal(t, "/src/pages/ghost", c.ResolveFrom("./ghost", source).String())
	})

	t.Run("empty spelling is the zero path", func(t *testing.T) {
		c := newFixture(t).build(domain.PolicyModuleFirst)

		assert.True(t, c.ResolveFrom(`""`, source).IsZero())
	})
}

func TestAnalyze(t *testing.T) {
	f := newFixture(t)
	f.fs.EXPECT().Exists("/work/pages/index.chtl").Return(true).AnyTimes()
	c := f.build(domain.PolicyModuleFirst)

	info := c.Analyze(`pages\index.chtl`)
	assert.Equal(t, `pages\index.chtl`, info.Original)
	assert.Equal(t, "pages/index.chtl", info.Normalized)
	assert.Equal(t, "/work/pages/index.chtl", info.Canonical.String())
	assert.Equal(t, "index.chtl", info.FileName)
	assert.Equal(t, ".chtl", info.Extension)
	assert.Equal(t, "/work/pages", info.Directory)
	assert.False(t, info.IsAbsolute)
	assert.False(t, info.IsModule)
	assert.True(t, info.Exists)
}

func TestExpandWildcard(t *testing.T) {
	source := domain.NewCanonicalPath("/src/main.chtl")

	t.Run("lists matching files sorted", func(t *testing.T) {
		f := newFixture(t)
		f.fs.EXPECT().IsDir("/src/ui").Return(true)
		f.fs.EXPECT().ListDirectory("/src/ui").Return([]string{"b.chtl", "a.chtl", "notes.txt", "theme.css"}, nil)
		c := f.build(domain.PolicyModuleFirst)

		got, err := c.ExpandWildcard("./ui/*", source)
		require.NoError(t, err)
		assert.Equal(t, []domain.CanonicalPath{
			domain.NewCanonicalPath("/src/ui/a.chtl"),
			domain.NewCanonicalPath("/src/ui/b.chtl"),
			domain.NewCanonicalPath("/src/ui/theme.css"),
		}, got)
	})

	t.Run("extension pattern filters", func(t *testing.T) {
		f := newFixture(t)
		f.fs.EXPECT().IsDir("/src/ui").Return(true)
		f.fs.EXPECT().ListDirectory("/src/ui").Return([]string{"b.chtl", "a.chtl", "theme.css"}, nil)
		c := f.build(domain.PolicyModuleFirst)

		got, err := c.ExpandWildcard("./ui/*.css", source)
		require.NoError(t, err)
		assert.Equal(t, []domain.CanonicalPath{domain.NewCanonicalPath("/src/ui/theme.css")}, got)
	})

	t.Run("missing directory is not found", func(t *testing.T) {
		c := newFixture(t).build(domain.PolicyModuleFirst)

		_, err := c.ExpandWildcard("./missing/*", source)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("non-wildcard spelling is an invalid request", func(t *testing.T) {
		c := newFixture(t).build(domain.PolicyModuleFirst)

		_, err := c.ExpandWildcard("./ui/a.chtl", source)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})
}
