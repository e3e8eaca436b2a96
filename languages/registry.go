// Package languages is the static table of source languages scaff can fingerprint.
package languages

import "strings"

// LanguageDescriptor describes one supported language.
type LanguageDescriptor struct {
	ID          string
	Extensions  []string
	DisplayName string
}

// HasExtension reports whether ext (with or without a leading dot) belongs to the language.
func (d LanguageDescriptor) HasExtension(ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	for _, e := range d.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

var supportedLanguages = []LanguageDescriptor{
	{ID: "rust", Extensions: []string{"rs"}, DisplayName: "Rust"},
	{ID: "javascript", Extensions: []string{"js", "jsx"}, DisplayName: "JavaScript"},
	{ID: "typescript", Extensions: []string{"ts", "tsx"}, DisplayName: "TypeScript"},
	{ID: "python", Extensions: []string{"py", "pyi"}, DisplayName: "Python"},
	{ID: "java", Extensions: []string{"java"}, DisplayName: "Java"},
	{ID: "go", Extensions: []string{"go"}, DisplayName: "Go"},
	{ID: "json", Extensions: []string{"json"}, DisplayName: "JSON"},
	{ID: "html", Extensions: []string{"html", "htm"}, DisplayName: "HTML"},
	{ID: "css", Extensions: []string{"css"}, DisplayName: "CSS"},
}

var aliases = map[string]string{
	"rs":     "rust",
	"js":     "javascript",
	"ts":     "typescript",
	"py":     "python",
	"golang": "go",
}

// Lookup returns the descriptor registered under id.
func Lookup(id string) (LanguageDescriptor, bool) {
	for _, d := range supportedLanguages {
		if d.ID == id {
			return clone(d), true
		}
	}
	return LanguageDescriptor{}, false
}

// All returns every registered language in registry order.
func All() []LanguageDescriptor {
	out := make([]LanguageDescriptor, 0, len(supportedLanguages))
	for _, d := range supportedLanguages {
		out = append(out, clone(d))
	}
	return out
}

// IDs returns the registered language ids in registry order.
func IDs() []string {
	ids := make([]string, 0, len(supportedLanguages))
	for _, d := range supportedLanguages {
		ids = append(ids, d.ID)
	}
	return ids
}

// DisplayName returns the display name for id, or id itself when unknown.
func DisplayName(id string) string {
	if d, ok := Lookup(id); ok {
		return d.DisplayName
	}
	return id
}

// ResolveAlias maps command-line shorthands such as "js" or "py" to a language id.
// Input that is not an alias is returned lowercased and unchanged otherwise.
func ResolveAlias(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if id, ok := aliases[input]; ok {
		return id
	}
	return input
}

func clone(d LanguageDescriptor) LanguageDescriptor {
	d.Extensions = append([]string(nil), d.Extensions...)
	return d
}
