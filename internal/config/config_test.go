package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/saiprashanths/code-analysis-mcp/internal/config"
)

func TestDefaultLimits(t *testing.T) {
	limits := config.DefaultLimits()
	if limits.MaxDepth != config.DefaultMaxDepth {
		t.Fatalf("unexpected default depth %d", limits.MaxDepth)
	}
	if limits.MaxChildren != config.DefaultMaxChildren {
		t.Fatalf("unexpected default children %d", limits.MaxChildren)
	}
	if limits.MaxFileSizeBytes != config.DefaultMaxFileSizeBytes {
		t.Fatalf("unexpected default file size %d", limits.MaxFileSizeBytes)
	}
	if limits.MaxLines != config.DefaultMaxLines {
		t.Fatalf("unexpected default lines %d", limits.MaxLines)
	}
}

func TestLoadAnalysisConfigurationReadsLocalFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	workingDirectory := t.TempDir()
	localConfiguration := "structure:\n  max_depth: 5\nreader:\n  max_lines: 50\ntokens:\n  enabled: true\n  model: gpt-4\n"
	localPath := filepath.Join(workingDirectory, config.LocalConfigFileName)
	if writeError := os.WriteFile(localPath, []byte(localConfiguration), 0o600); writeError != nil {
		t.Fatalf("write configuration: %v", writeError)
	}

	loaded, loadError := config.LoadAnalysisConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		t.Fatalf("load: %v", loadError)
	}

	limits := loaded.Limits()
	if limits.MaxDepth != 5 {
		t.Fatalf("expected configured depth 5, got %d", limits.MaxDepth)
	}
	if limits.MaxLines != 50 {
		t.Fatalf("expected configured lines 50, got %d", limits.MaxLines)
	}
	if limits.MaxChildren != config.DefaultMaxChildren {
		t.Fatalf("unset children bound should stay at default, got %d", limits.MaxChildren)
	}

	tokensEnabled, tokenModel := loaded.TokenSettings()
	if !tokensEnabled {
		t.Fatalf("expected tokens enabled from configuration")
	}
	if tokenModel != "gpt-4" {
		t.Fatalf("expected configured model gpt-4, got %s", tokenModel)
	}
}

func TestLoadAnalysisConfigurationWithoutFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	loaded, loadError := config.LoadAnalysisConfiguration(config.LoadOptions{WorkingDirectory: t.TempDir()})
	if loadError != nil {
		t.Fatalf("load: %v", loadError)
	}
	if loaded.Limits() != config.DefaultLimits() {
		t.Fatalf("expected defaults when no configuration files exist")
	}
	tokensEnabled, tokenModel := loaded.TokenSettings()
	if tokensEnabled {
		t.Fatalf("tokens should default to disabled")
	}
	if tokenModel != config.DefaultTokenizerModel {
		t.Fatalf("unexpected default model %s", tokenModel)
	}
}

func TestLoadAnalysisConfigurationLocalOverridesGlobal(t *testing.T) {
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	globalDirectory := filepath.Join(homeDirectory, config.GlobalConfigDirectoryName)
	if mkdirError := os.MkdirAll(globalDirectory, 0o755); mkdirError != nil {
		t.Fatalf("mkdir global config directory: %v", mkdirError)
	}
	globalConfiguration := "structure:\n  max_depth: 2\n  max_children: 20\n"
	if writeError := os.WriteFile(filepath.Join(globalDirectory, config.GlobalConfigFileName), []byte(globalConfiguration), 0o600); writeError != nil {
		t.Fatalf("write global configuration: %v", writeError)
	}

	workingDirectory := t.TempDir()
	localConfiguration := "structure:\n  max_depth: 7\n"
	if writeError := os.WriteFile(filepath.Join(workingDirectory, config.LocalConfigFileName), []byte(localConfiguration), 0o600); writeError != nil {
		t.Fatalf("write local configuration: %v", writeError)
	}

	loaded, loadError := config.LoadAnalysisConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		t.Fatalf("load: %v", loadError)
	}
	limits := loaded.Limits()
	if limits.MaxDepth != 7 {
		t.Fatalf("local depth should win, got %d", limits.MaxDepth)
	}
	if limits.MaxChildren != 20 {
		t.Fatalf("global children bound should survive, got %d", limits.MaxChildren)
	}
}

func TestMergePrefersOverrideValues(t *testing.T) {
	baseDepth, overrideDepth := 2, 6
	baseLines := 10

	base := config.AnalysisConfiguration{}
	base.Structure.MaxDepth = &baseDepth
	base.Reader.MaxLines = &baseLines

	override := config.AnalysisConfiguration{}
	override.Structure.MaxDepth = &overrideDepth

	merged := base.Merge(override)
	if merged.Structure.MaxDepth == nil || *merged.Structure.MaxDepth != overrideDepth {
		t.Fatalf("override depth not applied")
	}
	if merged.Reader.MaxLines == nil || *merged.Reader.MaxLines != baseLines {
		t.Fatalf("unset override field should keep base value")
	}
}
