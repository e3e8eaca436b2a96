package code_analyzer

import (
	"context"
	"path"
	"strings"
	"testing"

	"github.com/morler/scaff/code_analyzer/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractSource(t *testing.T, languageID, relPath, source string) models.FileFingerprint {
	t.Helper()
	tree, input, err := parseSource(context.Background(), languageID, strings.TrimPrefix(path.Ext(relPath), "."), []byte(source))
	require.NoError(t, err)
	defer tree.Close()
	return Extract(tree.RootNode(), input, relPath, languageID)
}

func TestExtract_PerLanguage(t *testing.T) {
	tests := []struct {
		name       string
		languageID string
		path       string
		source     string
		types      []string
		callables  []string
		composites []string
		impls      []string
	}{
		{
			name:       "rust",
			languageID: "rust",
			path:       "src/main.rs",
			source: `struct TestStruct { f: i32 }
enum Color { Red }
trait Shape { fn area(&self) -> f64; }
impl TestStruct { fn new() -> Self { TestStruct { f: 0 } } }
fn main() {}
`,
			types:      []string{"TestStruct", "Color"},
			callables:  []string{"area", "new", "main"},
			composites: []string{"interface Shape"},
			impls:      []string{"TestStruct"},
		},
		{
			name:       "go grouped type declaration",
			languageID: "go",
			path:       "pkg/types.go",
			source: `package pkg

type (
	X struct{}
	Y int
)

func F() {}

func (x X) M() {}
`,
			types:     []string{"X", "Y"},
			callables: []string{"F", "M"},
		},
		{
			name:       "python",
			languageID: "python",
			path:       "app/models.py",
			source: `class Foo:
    def bar(self):
        pass

def baz():
    pass
`,
			callables:  []string{"bar", "baz"},
			composites: []string{"Foo"},
		},
		{
			name:       "java",
			languageID: "java",
			path:       "src/Circle.java",
			source: `interface Shape { double area(); }
public class Circle implements Shape {
    public Circle() {}
    public double area() { return 0; }
}
enum Kind { A }
`,
			types:      []string{"Kind"},
			callables:  []string{"area", "Circle", "area"},
			composites: []string{"interface Shape", "Circle"},
		},
		{
			name:       "javascript",
			languageID: "javascript",
			path:       "web/app.js",
			source: `class A { m() {} }
function f() {}
function* g() {}
`,
			callables:  []string{"m", "f", "g"},
			composites: []string{"A"},
		},
		{
			name:       "typescript",
			languageID: "typescript",
			path:       "web/api.ts",
			source: `interface I { x: number; m(): void }
type T = string;
enum E { A }
abstract class B { n() {} abstract o(): void; }
function f(): void {}
`,
			types:      []string{"T", "E"},
			callables:  []string{"m", "n", "o", "f"},
			composites: []string{"interface I", "B"},
		},
		{
			name:       "tsx",
			languageID: "typescript",
			path:       "web/App.tsx",
			source:     "function App() { return <div className=\"x\" />; }\n",
			callables:  []string{"App"},
		},
		{
			name:       "html dedupes tags",
			languageID: "html",
			path:       "public/index.html",
			source:     "<html><body><div></div><div></div><div></div><script>var x = 1;</script></body></html>\n",
			composites: []string{"html", "body", "div", "script"},
		},
		{
			name:       "css selectors",
			languageID: "css",
			path:       "public/site.css",
			source: `.a, #b { color: red; }
.a { margin: 0; }
div > p { padding: 0; }
`,
			composites: []string{".a", "#b", "div > p"},
		},
		{
			name:       "css comments between selectors",
			languageID: "css",
			path:       "public/legacy.css",
			source:     ".a /* legacy */, .b { color: red; }\n",
			composites: []string{".a", ".b"},
		},
		{
			name:       "json keys",
			languageID: "json",
			path:       "config/settings.json",
			source:     `{"name": "x", "nested": {"inner": 1, "name": 2}, "list": [1, 2]}`,
			types:      []string{"name", "nested", "inner", "list"},
		},
		{
			name:       "json escaped keys",
			languageID: "json",
			path:       "config/escaped.json",
			source:     `{"a\"b": 1, "tab\tkey": 2}`,
			types:      []string{"a\"b", "tab\tkey"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := extractSource(t, tt.languageID, tt.path, tt.source)

			assert.Equal(t, tt.path, fp.Path)
			assert.Equal(t, strings.TrimPrefix(path.Ext(tt.path), "."), fp.Extension)
			assert.Equal(t, orEmpty(tt.types), fp.TypeDeclarations)
			assert.Equal(t, orEmpty(tt.callables), fp.Callables)
			assert.Equal(t, orEmpty(tt.composites), fp.CompositeDeclarations)
			assert.Equal(t, orEmpty(tt.impls), fp.ImplementationBlocks)
		})
	}
}

func TestExtract_UnknownLanguageIsEmpty(t *testing.T) {
	tree, input, err := parseSource(context.Background(), "javascript", "js", []byte("function f() {}"))
	require.NoError(t, err)
	defer tree.Close()

	fp := Extract(tree.RootNode(), input, "a.js", "cobol")
	assert.True(t, fp.IsEmpty())
	assert.Equal(t, []string{}, fp.Callables)
}

func TestExtract_NilRoot(t *testing.T) {
	fp := NewExtractor("rust").Extract(nil, nil, `src\lib.rs`)
	assert.Equal(t, "src/lib.rs", fp.Path)
	assert.Equal(t, "rs", fp.Extension)
	assert.True(t, fp.IsEmpty())
}

func TestExtract_SyntaxErrorsStillYieldNames(t *testing.T) {
	fp := extractSource(t, "python", "broken.py", "def ok():\n    pass\n\ndef broken(:\n")
	assert.Contains(t, fp.Callables, "ok")
}

func TestParseSource_NoGrammar(t *testing.T) {
	_, _, err := parseSource(context.Background(), "cobol", "cbl", []byte("IDENTIFICATION DIVISION."))
	assert.Error(t, err)
}

func orEmpty(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
