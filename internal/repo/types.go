// Package repo implements the repository analysis core: gitignore-aware
// structure traversal, bounded file reading, and the session facade tying
// them to one initialized root.
package repo

import "github.com/saiprashanths/code-analysis-mcp/internal/discover"

// Node kinds reported in structure results.
const (
	NodeKindFile      = "file"
	NodeKindDirectory = "directory"
)

// Summary replaces child enumeration for directories whose visible entry
// count exceeds the configured cap. TotalSizeBytes sums the sizes of the
// directory's immediate visible files; deeper levels are not walked.
type Summary struct {
	FileCount      int      `json:"fileCount"`
	DirectoryCount int      `json:"directoryCount"`
	TotalSizeBytes int64    `json:"totalSizeBytes"`
	Samples        []string `json:"samples,omitempty"`
}

// StructureNode describes one filesystem entry in a traversal result. Nodes
// are constructed fresh per call and never mutated after being returned.
// Directories carry either Children, a Summary, or the Unexpanded marker;
// files carry SizeBytes. Directory nodes have no size of their own.
type StructureNode struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	Depth     int    `json:"depth"`
	SizeBytes int64  `json:"sizeBytes,omitempty"`

	Children []*StructureNode `json:"children,omitempty"`
	Summary  *Summary         `json:"summary,omitempty"`

	// Unexpanded marks a directory past the depth bound or unreadable in
	// place: it exists, but its children were not enumerated.
	Unexpanded bool `json:"unexpanded,omitempty"`
	// SkippedEntries counts children dropped because they could not be
	// inspected (typically permission failures).
	SkippedEntries int `json:"skippedEntries,omitempty"`
}

// FileContent is the result of one bounded file read.
type FileContent struct {
	Path          string `json:"path"`
	AbsolutePath  string `json:"absolutePath"`
	Language      string `json:"language"`
	Encoding      string `json:"encoding"`
	SizeBytes     int64  `json:"sizeBytes"`
	TotalLines    int    `json:"totalLines"`
	ReturnedLines int    `json:"returnedLines"`
	Truncated     bool   `json:"truncated"`
	Tokens        int    `json:"tokens,omitempty"`
	TokenModel    string `json:"tokenModel,omitempty"`
	Content       string `json:"content"`
}

// Info describes the currently initialized repository.
type Info struct {
	Root         string              `json:"root"`
	HasGitignore bool                `json:"hasGitignore"`
	Manifests    []discover.Manifest `json:"manifests,omitempty"`
}
