// Package config loads analysis bounds from optional global and local
// configuration files. Files are merged in order, local over global, and
// unset values fall back to compiled defaults. The resolved limits are fixed
// for the lifetime of an analysis session.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// GlobalConfigDirectoryName is the directory under the user home holding
	// the global configuration file.
	GlobalConfigDirectoryName = ".code-analysis"
	// GlobalConfigFileName is the global configuration file name.
	GlobalConfigFileName = "config.yaml"
	// LocalConfigFileName is the per-repository configuration file name.
	LocalConfigFileName = ".code-analysis.yaml"
)

// Default analysis bounds, applied wherever configuration files leave a
// value unset.
const (
	DefaultMaxDepth         = 3
	DefaultMaxChildren      = 100
	DefaultMaxFileSizeBytes = int64(1 << 20)
	DefaultMaxLines         = 1000
	DefaultTokenizerModel   = "gpt-4o"
)

// LoadOptions controls how configuration files are discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// AnalysisConfiguration holds the raw, possibly partial values decoded from
// configuration files. Pointer fields distinguish "unset" from zero values
// during merging.
type AnalysisConfiguration struct {
	Structure StructureConfiguration `mapstructure:"structure"`
	Reader    ReaderConfiguration    `mapstructure:"reader"`
	Tokens    TokenConfiguration     `mapstructure:"tokens"`
}

// StructureConfiguration bounds directory traversal.
type StructureConfiguration struct {
	MaxDepth    *int `mapstructure:"max_depth"`
	MaxChildren *int `mapstructure:"max_children"`
}

// ReaderConfiguration bounds single-file reads.
type ReaderConfiguration struct {
	MaxFileSizeBytes *int64 `mapstructure:"max_file_size_bytes"`
	MaxLines         *int   `mapstructure:"max_lines"`
}

// TokenConfiguration controls optional token counting on file reads.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// Limits are the fully resolved session bounds consumed by the analysis core.
type Limits struct {
	MaxDepth         int
	MaxChildren      int
	MaxFileSizeBytes int64
	MaxLines         int
}

// DefaultLimits returns the compiled default bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:         DefaultMaxDepth,
		MaxChildren:      DefaultMaxChildren,
		MaxFileSizeBytes: DefaultMaxFileSizeBytes,
		MaxLines:         DefaultMaxLines,
	}
}

// Limits resolves the configuration into concrete bounds, substituting
// defaults for unset or non-positive values.
func (configuration AnalysisConfiguration) Limits() Limits {
	resolved := DefaultLimits()
	if configuration.Structure.MaxDepth != nil && *configuration.Structure.MaxDepth >= 0 {
		resolved.MaxDepth = *configuration.Structure.MaxDepth
	}
	if configuration.Structure.MaxChildren != nil && *configuration.Structure.MaxChildren > 0 {
		resolved.MaxChildren = *configuration.Structure.MaxChildren
	}
	if configuration.Reader.MaxFileSizeBytes != nil && *configuration.Reader.MaxFileSizeBytes > 0 {
		resolved.MaxFileSizeBytes = *configuration.Reader.MaxFileSizeBytes
	}
	if configuration.Reader.MaxLines != nil && *configuration.Reader.MaxLines > 0 {
		resolved.MaxLines = *configuration.Reader.MaxLines
	}
	return resolved
}

// TokenSettings resolves the token-counting configuration into an enabled
// flag and a tokenizer model name.
func (configuration AnalysisConfiguration) TokenSettings() (bool, string) {
	enabled := false
	if configuration.Tokens.Enabled != nil {
		enabled = *configuration.Tokens.Enabled
	}
	model := configuration.Tokens.Model
	if model == "" {
		model = DefaultTokenizerModel
	}
	return enabled, model
}

// LoadAnalysisConfiguration merges the global configuration file under the
// user home with the local file in the working directory. Missing files are
// not errors.
func LoadAnalysisConfiguration(options LoadOptions) (AnalysisConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return AnalysisConfiguration{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged AnalysisConfiguration

	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, GlobalConfigDirectoryName, GlobalConfigFileName)
		globalConfiguration, loadError := loadConfigurationFromPath(globalPath)
		if loadError != nil {
			return AnalysisConfiguration{}, loadError
		}
		merged = merged.Merge(globalConfiguration)
	}

	localPath := options.ExplicitFilePath
	if localPath == "" {
		localPath = filepath.Join(workingDirectory, LocalConfigFileName)
	} else if !filepath.IsAbs(localPath) {
		localPath = filepath.Join(workingDirectory, localPath)
	}
	localConfiguration, loadError := loadConfigurationFromPath(localPath)
	if loadError != nil {
		return AnalysisConfiguration{}, loadError
	}
	merged = merged.Merge(localConfiguration)

	return merged, nil
}

// loadConfigurationFromPath reads one configuration file through viper.
// A missing file yields an empty configuration.
func loadConfigurationFromPath(path string) (AnalysisConfiguration, error) {
	fileInformation, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return AnalysisConfiguration{}, nil
		}
		return AnalysisConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statError)
	}
	if fileInformation.IsDir() {
		return AnalysisConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	configurationReader := viper.New()
	configurationReader.SetConfigFile(path)
	if readError := configurationReader.ReadInConfig(); readError != nil {
		return AnalysisConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var decoded AnalysisConfiguration
	if decodeError := configurationReader.Unmarshal(&decoded); decodeError != nil {
		return AnalysisConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	return decoded, nil
}

// Merge overlays override onto the receiver, returning the combination.
// Set fields in override win; unset pointer fields keep the receiver value.
func (configuration AnalysisConfiguration) Merge(override AnalysisConfiguration) AnalysisConfiguration {
	result := configuration
	if override.Structure.MaxDepth != nil {
		result.Structure.MaxDepth = cloneInt(override.Structure.MaxDepth)
	}
	if override.Structure.MaxChildren != nil {
		result.Structure.MaxChildren = cloneInt(override.Structure.MaxChildren)
	}
	if override.Reader.MaxFileSizeBytes != nil {
		result.Reader.MaxFileSizeBytes = cloneInt64(override.Reader.MaxFileSizeBytes)
	}
	if override.Reader.MaxLines != nil {
		result.Reader.MaxLines = cloneInt(override.Reader.MaxLines)
	}
	if override.Tokens.Enabled != nil {
		result.Tokens.Enabled = cloneBool(override.Tokens.Enabled)
	}
	if override.Tokens.Model != "" {
		result.Tokens.Model = override.Tokens.Model
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt64(value *int64) *int64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
