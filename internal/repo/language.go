package repo

import (
	"path/filepath"
	"strings"
)

// LanguageUnknown tags files whose extension has no table entry.
const LanguageUnknown = "text"

// extensionLanguages maps lower-case file extensions to language tags.
var extensionLanguages = map[string]string{
	// Programming languages
	".py":    "python",
	".js":    "javascript",
	".jsx":   "javascript",
	".mjs":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".java":  "java",
	".cpp":   "cpp",
	".cc":    "cpp",
	".cxx":   "cpp",
	".hpp":   "cpp",
	".c":     "c",
	".h":     "c",
	".cs":    "csharp",
	".rb":    "ruby",
	".php":   "php",
	".go":    "go",
	".rs":    "rust",
	".swift": "swift",
	".kt":    "kotlin",
	".scala": "scala",
	".m":     "objective-c",
	".mm":    "objective-c",
	".lua":   "lua",
	".pl":    "perl",
	".dart":  "dart",
	".zig":   "zig",

	// Web technologies
	".html":   "html",
	".htm":    "html",
	".css":    "css",
	".scss":   "scss",
	".sass":   "scss",
	".less":   "less",
	".vue":    "vue",
	".svelte": "svelte",

	// Data and configuration
	".json":  "json",
	".xml":   "xml",
	".yaml":  "yaml",
	".yml":   "yaml",
	".toml":  "toml",
	".ini":   "ini",
	".conf":  "config",
	".proto": "protobuf",

	// Documentation
	".md":       "markdown",
	".markdown": "markdown",
	".rst":      "restructuredtext",
	".tex":      "latex",
	".txt":      "text",

	// Shell and scripts
	".sh":   "shell",
	".bash": "shell",
	".zsh":  "shell",
	".fish": "shell",
	".bat":  "batch",
	".cmd":  "batch",
	".ps1":  "powershell",

	// Other common types
	".sql":        "sql",
	".r":          "r",
	".gradle":     "gradle",
	".dockerfile": "dockerfile",
	".env":        "env",
	".gitignore":  "gitignore",
	".tf":         "terraform",
}

// wellKnownFileLanguages maps extensionless lower-case file names to tags.
var wellKnownFileLanguages = map[string]string{
	"dockerfile":  "dockerfile",
	"makefile":    "makefile",
	"jenkinsfile": "jenkinsfile",
	"vagrantfile": "ruby",
	"gemfile":     "ruby",
	"rakefile":    "ruby",
	".env":        "env",
	".gitignore":  "gitignore",
}

// DetectLanguage classifies the file at path by its extension, falling back
// to a table of well-known extensionless names. Unrecognized files are
// tagged LanguageUnknown rather than failing.
func DetectLanguage(path string) string {
	extension := strings.ToLower(filepath.Ext(path))
	fileName := strings.ToLower(filepath.Base(path))

	// Dotfiles such as .gitignore return the whole name from filepath.Ext.
	if extension == "" || extension == fileName {
		if language, known := wellKnownFileLanguages[fileName]; known {
			return language
		}
		return LanguageUnknown
	}
	if language, known := extensionLanguages[extension]; known {
		return language
	}
	return LanguageUnknown
}
