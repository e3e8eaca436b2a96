// Package generator renders skeleton source trees from a snapshot.
package generator

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/morler/scaff/apperrors"
	"github.com/morler/scaff/code_analyzer/models"
	"github.com/morler/scaff/snapshot"
	"github.com/morler/scaff/utils"
	"github.com/pterm/pterm"
)

// target describes how one snapshot language is generated.
type target struct {
	extensions []string
	template   string
	manifest   string
	// render produces the manifest contents.
	render func(g *CodeGenerator, snap *snapshot.Snapshot) ([]byte, error)
}

var targets = map[string]target{
	"Rust": {
		extensions: []string{"rs"},
		template:   "rust_file",
		manifest:   "Cargo.toml",
		render:     cargoManifest,
	},
	"JavaScript": {
		extensions: []string{"js", "jsx"},
		template:   "js_file",
		manifest:   "package.json",
		render:     packageJSONManifest,
	},
	"TypeScript": {
		extensions: []string{"ts", "tsx"},
		template:   "ts_file",
		manifest:   "package.json",
		render:     packageJSONManifest,
	},
	"JavaScript/TypeScript": {
		extensions: []string{"js", "jsx", "ts", "tsx"},
		template:   "js_file",
		manifest:   "package.json",
		render:     packageJSONManifest,
	},
	"Python": {
		extensions: []string{"py", "pyi"},
		template:   "python_file",
		manifest:   "pyproject.toml",
		render:     pyprojectManifest,
	},
	"Go": {
		extensions: []string{"go"},
		template:   "go_file",
		manifest:   "go.mod",
		render:     goModManifest,
	},
}

// SupportedLanguages lists the snapshot languages that can be generated, sorted.
func SupportedLanguages() []string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FileData is the context every per-file template is executed with.
type FileData struct {
	SnapshotName          string
	OriginalPath          string
	FileName              string
	Extension             string
	PackageName           string
	TypeDeclarations      []string
	Callables             []string
	CompositeDeclarations []string
	ImplementationBlocks  []string
	// Classes are the composite declarations that are not interfaces.
	Classes []string
	// Interfaces are interface composites with the marker stripped.
	Interfaces []string
}

// Report lists what Generate wrote.
type Report struct {
	OutputDir       string
	Files           []string
	Manifest        string
	ManifestWritten bool
}

// CodeGenerator renders snapshots through built-in or overriding templates.
type CodeGenerator struct {
	templates map[string]*template.Template
	logger    *pterm.Logger
}

// NewCodeGenerator loads the built-in templates and any overrides in templatesDir.
func NewCodeGenerator(templatesDir string, logger *pterm.Logger) (*CodeGenerator, error) {
	logger = utils.LoggerOrDiscard(logger)
	templates, err := loadTemplates(templatesDir, logger)
	if err != nil {
		return nil, err
	}
	return &CodeGenerator{templates: templates, logger: logger}, nil
}

func targetFor(language string) (target, error) {
	t, ok := targets[language]
	if !ok {
		return target{}, apperrors.UnsupportedLanguage("generate", language).
			WithHint("Generation supports: " + strings.Join(SupportedLanguages(), ", "))
	}
	return t, nil
}

// Files returns the fingerprints of snap that Generate would render.
func (g *CodeGenerator) Files(snap *snapshot.Snapshot) ([]models.FileFingerprint, error) {
	t, err := targetFor(snap.Language)
	if err != nil {
		return nil, err
	}
	var out []models.FileFingerprint
	for _, fp := range snap.Files {
		if hasExtension(t.extensions, fp.Extension) {
			out = append(out, fp)
		}
	}
	return out, nil
}

// Generate writes one skeleton file per matching fingerprint under outputDir and
// the target's manifest if it does not exist yet.
func (g *CodeGenerator) Generate(snap *snapshot.Snapshot, outputDir string) (*Report, error) {
	t, err := targetFor(snap.Language)
	if err != nil {
		return nil, err
	}
	files, err := g.Files(snap)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, apperrors.IOFailure("create output directory", outputDir, err)
	}

	report := &Report{OutputDir: outputDir, Files: []string{}}
	for _, fp := range files {
		dest, err := safeJoin(outputDir, fp.Path)
		if err != nil {
			return report, err
		}

		content, err := g.Render(snap, fp)
		if err != nil {
			return report, err
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return report, apperrors.IOFailure("create directory", filepath.Dir(dest), err)
		}
		if err := os.WriteFile(dest, content, 0644); err != nil {
			return report, apperrors.IOFailure("write file", dest, err)
		}
		g.logger.Debug("Generated file", g.logger.Args("file", dest))
		report.Files = append(report.Files, fp.Path)
	}

	manifestPath := filepath.Join(outputDir, t.manifest)
	report.Manifest = t.manifest
	if _, err := os.Stat(manifestPath); err == nil {
		g.logger.Debug("Manifest exists, leaving it untouched", g.logger.Args("file", manifestPath))
		return report, nil
	}

	manifest, err := t.render(g, snap)
	if err != nil {
		return report, fmt.Errorf("failed to render %s: %w", t.manifest, err)
	}
	if err := os.WriteFile(manifestPath, manifest, 0644); err != nil {
		return report, apperrors.IOFailure("write file", manifestPath, err)
	}
	report.ManifestWritten = true
	return report, nil
}

// Render returns the skeleton text for one fingerprint of snap.
func (g *CodeGenerator) Render(snap *snapshot.Snapshot, fp models.FileFingerprint) ([]byte, error) {
	t, err := targetFor(snap.Language)
	if err != nil {
		return nil, err
	}
	return g.execute(t.template, newFileData(snap, fp))
}

func (g *CodeGenerator) execute(name string, data any) ([]byte, error) {
	tmpl, ok := g.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q is not defined", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func newFileData(snap *snapshot.Snapshot, fp models.FileFingerprint) FileData {
	fp.Normalize()
	data := FileData{
		SnapshotName:          snap.Name,
		OriginalPath:          fp.Path,
		FileName:              strings.TrimSuffix(path.Base(fp.Path), path.Ext(fp.Path)),
		Extension:             fp.Extension,
		PackageName:           goPackageName(fp.Path),
		TypeDeclarations:      fp.TypeDeclarations,
		Callables:             fp.Callables,
		CompositeDeclarations: fp.CompositeDeclarations,
		ImplementationBlocks:  fp.ImplementationBlocks,
		Classes:               []string{},
		Interfaces:            []string{},
	}
	for _, name := range fp.CompositeDeclarations {
		if IsInterface(name) {
			data.Interfaces = append(data.Interfaces, StripInterface(name))
		} else {
			data.Classes = append(data.Classes, name)
		}
	}
	return data
}

// goPackageName derives a package clause from the directory a file lives in.
func goPackageName(relPath string) string {
	dir := path.Base(path.Dir(relPath))
	if dir == "." || dir == "/" {
		return "main"
	}
	var b strings.Builder
	for _, r := range strings.ToLower(dir) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		return "main"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "p" + name
	}
	return name
}

// safeJoin joins a snapshot path onto root, rejecting paths that leave root.
func safeJoin(root, relPath string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if relPath == "" || filepath.IsAbs(clean) || filepath.VolumeName(clean) != "" ||
		clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", apperrors.InvalidInput("generate", fmt.Sprintf("path %q escapes the output directory", relPath))
	}
	return filepath.Join(root, clean), nil
}

func hasExtension(extensions []string, ext string) bool {
	for _, e := range extensions {
		if e == ext {
			return true
		}
	}
	return false
}
