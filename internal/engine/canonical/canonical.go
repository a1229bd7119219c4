// Package canonical turns import path spellings into canonical file identities.
package canonical

import (
	"path"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/chtl/internal/core/domain"
	"go.trai.ch/chtl/internal/core/ports"
	"go.trai.ch/zerr"
)

// Canonicalizer normalizes path spellings so that every spelling of the same
// file yields the same domain.CanonicalPath.
type Canonicalizer struct {
	fs         ports.FileSystem
	catalog    ports.ModuleCatalog
	policy     domain.ResolutionPolicy
	workDir    string
	extensions []string
}

// New creates a Canonicalizer for one compilation run.
func New(fs ports.FileSystem, catalog ports.ModuleCatalog, cfg domain.Config) *Canonicalizer {
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = domain.DefaultExtensions
	}
	return &Canonicalizer{
		fs:         fs,
		catalog:    catalog,
		policy:     cfg.Policy,
		workDir:    absoluteDir(fs, cfg.WorkingDir),
		extensions: exts,
	}
}

func absoluteDir(fs ports.FileSystem, dir string) string {
	dir = Lexical(dir)
	if dir == "" {
		dir = "."
	}
	if isAbs(dir) {
		return dir
	}
	if resolved, ok := fs.RealPath(dir); ok && isAbs(Lexical(resolved)) {
		return Lexical(resolved)
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return Lexical(abs)
	}
	return "/" + dir
}

// WorkingDir returns the absolute directory relative spellings are anchored to.
func (c *Canonicalizer) WorkingDir() string {
	return c.workDir
}

// Lexical replaces backslashes, collapses slashes and resolves "." and ".." segments.
// A leading ".." of a relative path is kept. The empty string stays empty.
func Lexical(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	return path.Clean(strings.ReplaceAll(p, `\`, "/"))
}

func isAbs(p string) bool {
	if strings.HasPrefix(p, "/") {
		return true
	}
	// Drive-letter paths such as C:/x.
	return len(p) >= 3 && p[1] == ':' && p[2] == '/' &&
		(p[0] >= 'a' && p[0] <= 'z' || p[0] >= 'A' && p[0] <= 'Z')
}

// Normalize returns the canonical identity of p.
// Relative paths are anchored according to the resolution policy, then symbolic
// links are resolved when the file exists. Nonexistent files keep their lexical form.
func (c *Canonicalizer) Normalize(p string) domain.CanonicalPath {
	lex := Lexical(p)
	if lex == "" {
		return domain.CanonicalPath{}
	}
	return domain.NewCanonicalPath(c.realPath(c.anchor(lex)))
}

func (c *Canonicalizer) anchor(lex string) string {
	if isAbs(lex) {
		return lex
	}
	switch c.policy {
	case domain.PolicyWorkingDirOnly:
		return c.fromWorkDir(lex)
	case domain.PolicyWorkingDirFirst:
		wd := c.fromWorkDir(lex)
		if c.fs.Exists(wd) || !c.catalog.IsKnownModule(lex) {
			return wd
		}
		return c.fromModule(lex)
	default:
		if c.catalog.IsKnownModule(lex) {
			return c.fromModule(lex)
		}
		return c.fromWorkDir(lex)
	}
}

func (c *Canonicalizer) fromWorkDir(lex string) string {
	return path.Join(c.workDir, lex)
}

func (c *Canonicalizer) fromModule(name string) string {
	mod := Lexical(c.catalog.ModulePathFor(name))
	if isAbs(mod) {
		return mod
	}
	return c.fromWorkDir(mod)
}

func (c *Canonicalizer) realPath(p string) string {
	if r, ok := c.fs.RealPath(p); ok {
		if lex := Lexical(r); isAbs(lex) {
			return lex
		}
	}
	return p
}

// Exists reports whether p names an existing file.
func (c *Canonicalizer) Exists(p domain.CanonicalPath) bool {
	return !p.IsZero() && c.fs.Exists(p.String()) && !c.fs.IsDir(p.String())
}

// Equivalent reports whether a and b denote the same file.
func (c *Canonicalizer) Equivalent(a, b string) bool {
	return c.Normalize(a) == c.Normalize(b)
}

// ResolveFrom canonicalizes an import spelling written inside source.
// Spellings starting with "./" or "../" resolve against the directory of source.
// A spelling without an extension picks the first configured extension that exists.
// A bare dotted spelling that names no file is retried as a module name, so
// "ui.widgets.button" finds "ui/widgets/button" while "theme.min.css" stays a file.
func (c *Canonicalizer) ResolveFrom(spelling string, source domain.CanonicalPath) domain.CanonicalPath {
	s := unquote(spelling)
	if s == "" {
		return domain.CanonicalPath{}
	}

	literal, ok := c.locate(s, source)
	if ok {
		return literal
	}
	if dotted := c.convertDotted(s); dotted != s {
		if p, ok := c.locate(dotted, source); ok {
			return p
		}
	}
	return literal
}

// locate canonicalizes s and reports whether the result is an existing file.
func (c *Canonicalizer) locate(s string, source domain.CanonicalPath) (domain.CanonicalPath, bool) {
	lex := Lexical(s)

	resolve := c.Normalize
	if isExplicitRelative(s) && !source.IsZero() {
		dir := source.Dir()
		resolve = func(p string) domain.CanonicalPath {
			return domain.NewCanonicalPath(c.realPath(path.Join(dir, Lexical(p))))
		}
	}

	if path.Ext(lex) == "" {
		for _, ext := range c.extensions {
			if candidate := resolve(lex + ext); c.Exists(candidate) {
				return candidate, true
			}
		}
	}
	p := resolve(lex)
	return p, c.Exists(p)
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

func isExplicitRelative(s string) bool {
	s = strings.ReplaceAll(s, `\`, "/")
	return s == "." || s == ".." || strings.HasPrefix(s, "./") || strings.HasPrefix(s, "../")
}

// convertDotted turns a module spelling such as "ui.widgets.button" into
// "ui/widgets/button", keeping a trailing configured extension.
func (c *Canonicalizer) convertDotted(s string) string {
	if strings.ContainsAny(s, `/\`) || strings.HasPrefix(s, ".") || !strings.Contains(s, ".") {
		return s
	}
	if ext := path.Ext(s); slices.Contains(c.extensions, ext) {
		return strings.ReplaceAll(strings.TrimSuffix(s, ext), ".", "/") + ext
	}
	return strings.ReplaceAll(s, ".", "/")
}

// Analyze reports the diagnostic view of p.
func (c *Canonicalizer) Analyze(p string) domain.PathInfo {
	lex := Lexical(p)
	canon := c.Normalize(p)
	return domain.PathInfo{
		Original:   p,
		Normalized: lex,
		Canonical:  canon,
		FileName:   canon.Base(),
		Extension:  canon.Ext(),
		Directory:  canon.Dir(),
		IsAbsolute: isAbs(lex),
		IsModule:   lex != "" && !isAbs(lex) && c.policy != domain.PolicyWorkingDirOnly && c.catalog.IsKnownModule(lex),
		Exists:     !canon.IsZero() && c.fs.Exists(canon.String()),
	}
}

// ExpandWildcard lists the files matched by a "dir/*" or "dir/*.ext" spelling.
// Only files carrying a configured extension are returned, sorted.
func (c *Canonicalizer) ExpandWildcard(spelling string, source domain.CanonicalPath) ([]domain.CanonicalPath, error) {
	s := unquote(spelling)
	if !domain.IsWildcard(s) {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidRequest, "not a wildcard import"), "spelling", spelling)
	}

	dirPart, pattern := path.Split(Lexical(s))
	var dir string
	switch {
	case dirPart == "":
		if source.IsZero() {
			dir = c.workDir
		} else {
			dir = source.Dir()
		}
	case isExplicitRelative(s) && !source.IsZero():
		dir = c.realPath(path.Join(source.Dir(), Lexical(dirPart)))
	default:
		dir = c.Normalize(dirPart).String()
	}

	if !c.fs.IsDir(dir) {
		return nil, domain.PathError(domain.ErrNotFound, dir)
	}

	names, err := c.fs.ListDirectory(dir)
	if err != nil {
		return nil, zerr.With(domain.PathError(domain.ErrUnreadable, dir), "cause", err.Error())
	}

	var matches []domain.CanonicalPath
	for _, name := range names {
		if ok, _ := path.Match(pattern, name); !ok {
			continue
		}
		if !slices.Contains(c.extensions, path.Ext(name)) {
			continue
		}
		full := path.Join(dir, name)
		if c.fs.IsDir(full) {
			continue
		}
		matches = append(matches, c.Normalize(full))
	}
	domain.SortPaths(matches)

	return matches, nil
}
