package generator

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"unicode"

	"github.com/morler/scaff/embed_data"
	"github.com/pterm/pterm"
)

const templateExt = ".tmpl"

// interfacePrefix marks composite declarations that came from interfaces or traits.
const interfacePrefix = "interface "

// templateFuncs are the helpers available to built-in and override templates.
var templateFuncs = template.FuncMap{
	"uppercase":       strings.ToUpper,
	"lowercase":       strings.ToLower,
	"pascal_case":     PascalCase,
	"snake_case":      SnakeCase,
	"is_interface":    IsInterface,
	"strip_interface": StripInterface,
	"unique":          unique,
	"join":            strings.Join,
	"hasPrefix":       strings.HasPrefix,
}

// PascalCase uppercases the first letter of every underscore-separated word
// and drops the underscores: "hello_world" becomes "HelloWorld".
func PascalCase(s string) string {
	var b strings.Builder
	for _, word := range strings.Split(s, "_") {
		runes := []rune(word)
		if len(runes) == 0 {
			continue
		}
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// SnakeCase lowercases s and puts an underscore before every uppercase letter
// except the first: "HelloWorld" becomes "hello_world".
func SnakeCase(s string) string {
	var b strings.Builder
	for i, r := range []rune(s) {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsInterface reports whether a composite name carries the interface marker.
func IsInterface(name string) bool {
	return strings.HasPrefix(name, interfacePrefix)
}

// StripInterface removes the interface marker from a composite name.
func StripInterface(name string) string {
	return strings.TrimPrefix(name, interfacePrefix)
}

func unique(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// loadTemplates parses the built-in templates and then every *.tmpl file in
// overrideDir, whose stems replace built-ins of the same name. A missing
// overrideDir is not an error; an unparsable override is logged and skipped.
func loadTemplates(overrideDir string, logger *pterm.Logger) (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template)

	builtins, err := fs.Glob(embed_data.Templates, "templates/*"+templateExt)
	if err != nil {
		return nil, fmt.Errorf("failed to list built-in templates: %w", err)
	}
	for _, name := range builtins {
		content, err := embed_data.Templates.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read built-in template %s: %w", name, err)
		}
		stem := strings.TrimSuffix(filepath.Base(name), templateExt)
		tmpl, err := template.New(stem).Funcs(templateFuncs).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse built-in template %s: %w", stem, err)
		}
		templates[stem] = tmpl
	}

	if overrideDir == "" {
		return templates, nil
	}
	entries, err := os.ReadDir(overrideDir)
	if os.IsNotExist(err) {
		logger.Debug("Templates directory not found, using built-in templates", logger.Args("dir", overrideDir))
		return templates, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read templates directory %s: %w", overrideDir, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != templateExt {
			continue
		}
		path := filepath.Join(overrideDir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Failed to read template", logger.Args("file", path, "error", err))
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), templateExt)
		tmpl, err := template.New(stem).Funcs(templateFuncs).Parse(string(content))
		if err != nil {
			logger.Warn("Failed to parse template", logger.Args("file", path, "error", err))
			continue
		}
		templates[stem] = tmpl
		logger.Debug("Loaded template override", logger.Args("template", stem))
	}
	return templates, nil
}
