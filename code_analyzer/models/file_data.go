package models

// Category is one of the four structural buckets a declaration name falls into.
type Category string

const (
	CategoryTypeDeclaration      Category = "type-declaration"
	CategoryCallable             Category = "callable"
	CategoryCompositeDeclaration Category = "composite-declaration"
	CategoryImplementationBlock  Category = "implementation-block"
)

// AllCategories lists the categories in reporting order.
var AllCategories = []Category{
	CategoryTypeDeclaration,
	CategoryCallable,
	CategoryCompositeDeclaration,
	CategoryImplementationBlock,
}

// FileFingerprint is the structural summary of one source file.
type FileFingerprint struct {
	Path                  string   `json:"path" yaml:"path"`
	Extension             string   `json:"extension" yaml:"extension"`
	TypeDeclarations      []string `json:"typeDeclarations" yaml:"typeDeclarations"`
	Callables             []string `json:"callables" yaml:"callables"`
	CompositeDeclarations []string `json:"compositeDeclarations" yaml:"compositeDeclarations"`
	ImplementationBlocks  []string `json:"implementationBlocks" yaml:"implementationBlocks"`
}

// LanguageScan groups the fingerprints found for one language.
type LanguageScan struct {
	LanguageID  string            `json:"languageId" yaml:"languageId"`
	DisplayName string            `json:"language" yaml:"language"`
	Files       []FileFingerprint `json:"files" yaml:"files"`
}

// NewFileFingerprint returns a fingerprint with empty, non-nil category lists.
func NewFileFingerprint(path, extension string) FileFingerprint {
	return FileFingerprint{
		Path:                  path,
		Extension:             extension,
		TypeDeclarations:      []string{},
		Callables:             []string{},
		CompositeDeclarations: []string{},
		ImplementationBlocks:  []string{},
	}
}

// Names returns the names recorded under c.
func (f *FileFingerprint) Names(c Category) []string {
	switch c {
	case CategoryTypeDeclaration:
		return f.TypeDeclarations
	case CategoryCallable:
		return f.Callables
	case CategoryCompositeDeclaration:
		return f.CompositeDeclarations
	case CategoryImplementationBlock:
		return f.ImplementationBlocks
	}
	return nil
}

// Add appends name under c.
func (f *FileFingerprint) Add(c Category, name string) {
	switch c {
	case CategoryTypeDeclaration:
		f.TypeDeclarations = append(f.TypeDeclarations, name)
	case CategoryCallable:
		f.Callables = append(f.Callables, name)
	case CategoryCompositeDeclaration:
		f.CompositeDeclarations = append(f.CompositeDeclarations, name)
	case CategoryImplementationBlock:
		f.ImplementationBlocks = append(f.ImplementationBlocks, name)
	}
}

// AddUnique appends name under c unless it is already recorded there.
func (f *FileFingerprint) AddUnique(c Category, name string) {
	for _, existing := range f.Names(c) {
		if existing == name {
			return
		}
	}
	f.Add(c, name)
}

// ItemCount is the number of names across all four categories.
func (f *FileFingerprint) ItemCount() int {
	return len(f.TypeDeclarations) + len(f.Callables) + len(f.CompositeDeclarations) + len(f.ImplementationBlocks)
}

// IsEmpty reports whether no names were recorded.
func (f *FileFingerprint) IsEmpty() bool {
	return f.ItemCount() == 0
}

// Normalize replaces nil category lists with empty ones so they encode as [].
func (f *FileFingerprint) Normalize() {
	if f.TypeDeclarations == nil {
		f.TypeDeclarations = []string{}
	}
	if f.Callables == nil {
		f.Callables = []string{}
	}
	if f.CompositeDeclarations == nil {
		f.CompositeDeclarations = []string{}
	}
	if f.ImplementationBlocks == nil {
		f.ImplementationBlocks = []string{}
	}
}

// TotalItems sums ItemCount over files.
func TotalItems(files []FileFingerprint) int {
	total := 0
	for i := range files {
		total += files[i].ItemCount()
	}
	return total
}
