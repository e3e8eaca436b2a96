package embed_data

import "embed"

// SnapshotSchema is the JSON schema every stored snapshot document must satisfy.
//
//go:embed snapshot.schema.json
var SnapshotSchema []byte

// Templates holds the built-in skeleton templates, one per *.tmpl file.
//
//go:embed templates/*.tmpl
var Templates embed.FS
