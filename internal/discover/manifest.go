// Package discover detects well-known project manifests at a repository
// root so repository info can name the ecosystems in play.
package discover

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/mod/modfile"
)

// Manifest kinds reported by DetectManifests.
const (
	ManifestKindGoModule      = "go-module"
	ManifestKindNodePackage   = "node-package"
	ManifestKindPythonProject = "python-project"
	ManifestKindRustCrate     = "rust-crate"
)

// Manifest names one recognized project manifest file.
type Manifest struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
	Name string `json:"name,omitempty"`
}

// DetectManifests inspects rootPath for well-known manifests. Detection is
// best effort: unreadable or malformed manifests are reported without a
// project name rather than failing initialization.
func DetectManifests(rootPath string) []Manifest {
	var manifests []Manifest
	if manifest, found := detectGoModule(rootPath); found {
		manifests = append(manifests, manifest)
	}
	if manifest, found := detectNodePackage(rootPath); found {
		manifests = append(manifests, manifest)
	}
	if manifest, found := detectTOMLManifest(rootPath, "pyproject.toml", ManifestKindPythonProject, "project.name"); found {
		manifests = append(manifests, manifest)
	}
	if manifest, found := detectTOMLManifest(rootPath, "Cargo.toml", ManifestKindRustCrate, "package.name"); found {
		manifests = append(manifests, manifest)
	}
	return manifests
}

func detectGoModule(rootPath string) (Manifest, bool) {
	const manifestFileName = "go.mod"
	manifestContent, readError := os.ReadFile(filepath.Join(rootPath, manifestFileName))
	if readError != nil {
		return Manifest{}, false
	}
	manifest := Manifest{Kind: ManifestKindGoModule, Path: manifestFileName}
	if parsedFile, parseError := modfile.Parse(manifestFileName, manifestContent, nil); parseError == nil && parsedFile.Module != nil {
		manifest.Name = parsedFile.Module.Mod.Path
	}
	return manifest, true
}

func detectNodePackage(rootPath string) (Manifest, bool) {
	const manifestFileName = "package.json"
	manifestContent, readError := os.ReadFile(filepath.Join(rootPath, manifestFileName))
	if readError != nil {
		return Manifest{}, false
	}
	manifest := Manifest{Kind: ManifestKindNodePackage, Path: manifestFileName}
	var packageFields struct {
		Name string `json:"name"`
	}
	if json.Unmarshal(manifestContent, &packageFields) == nil {
		manifest.Name = packageFields.Name
	}
	return manifest, true
}

func detectTOMLManifest(rootPath string, manifestFileName string, manifestKind string, nameKey string) (Manifest, bool) {
	manifestPath := filepath.Join(rootPath, manifestFileName)
	if _, statError := os.Stat(manifestPath); statError != nil {
		return Manifest{}, false
	}
	manifest := Manifest{Kind: manifestKind, Path: manifestFileName}
	manifestReader := viper.New()
	manifestReader.SetConfigFile(manifestPath)
	manifestReader.SetConfigType("toml")
	if readError := manifestReader.ReadInConfig(); readError == nil {
		manifest.Name = strings.TrimSpace(manifestReader.GetString(nameKey))
	}
	return manifest, true
}
