package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/morler/scaff/snapshot"
)

type cargoPackage struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Edition string `toml:"edition"`
}

type cargoToml struct {
	Package      cargoPackage      `toml:"package"`
	Dependencies map[string]string `toml:"dependencies"`
}

type pyProject struct {
	Name           string `toml:"name"`
	Version        string `toml:"version"`
	Description    string `toml:"description"`
	RequiresPython string `toml:"requires-python"`
}

type pyprojectToml struct {
	Project pyProject `toml:"project"`
}

type packageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Description     string            `json:"description"`
	Main            string            `json:"main"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// goModData feeds the go_mod template.
type goModData struct {
	SnapshotName string
	ProjectName  string
}

func generatedFrom(snap *snapshot.Snapshot) string {
	return "Generated from scaff snapshot: " + snap.Name
}

// dashedName is the snapshot key with underscores turned into dashes, as npm and PyPI prefer.
func dashedName(snap *snapshot.Snapshot) string {
	return strings.ReplaceAll(snap.Key(), "_", "-")
}

func cargoManifest(_ *CodeGenerator, snap *snapshot.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", generatedFrom(snap))
	err := toml.NewEncoder(&buf).Encode(cargoToml{
		Package:      cargoPackage{Name: snap.Key(), Version: "0.1.0", Edition: "2021"},
		Dependencies: map[string]string{},
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pyprojectManifest(_ *CodeGenerator, snap *snapshot.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", generatedFrom(snap))
	err := toml.NewEncoder(&buf).Encode(pyprojectToml{
		Project: pyProject{
			Name:           dashedName(snap),
			Version:        "0.1.0",
			Description:    generatedFrom(snap),
			RequiresPython: ">=3.9",
		},
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func packageJSONManifest(_ *CodeGenerator, snap *snapshot.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	err := enc.Encode(packageJSON{
		Name:        dashedName(snap),
		Version:     "1.0.0",
		Description: generatedFrom(snap),
		Main:        "index.js",
		Scripts: map[string]string{
			"start": "node index.js",
			"test":  "echo \"Error: no test specified\" && exit 1",
		},
		Dependencies:    map[string]string{},
		DevDependencies: map[string]string{},
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func goModManifest(g *CodeGenerator, snap *snapshot.Snapshot) ([]byte, error) {
	return g.execute("go_mod", goModData{SnapshotName: snap.Name, ProjectName: snap.Key()})
}
