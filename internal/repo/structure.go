package repo

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/saiprashanths/code-analysis-mcp/internal/config"
	"github.com/saiprashanths/code-analysis-mcp/internal/ignore"
)

const summarySampleNameCount = 5

const rootRelativePath = "."

// StructureAnalyzer walks an initialized repository and produces bounded
// directory trees. Ignore rules are applied before descent, so excluded
// subtrees are never read.
type StructureAnalyzer struct {
	rootPath string
	matcher  *ignore.Matcher
	limits   config.Limits
}

// NewStructureAnalyzer creates an analyzer rooted at the symlink-resolved
// repository path.
func NewStructureAnalyzer(rootPath string, matcher *ignore.Matcher, limits config.Limits) *StructureAnalyzer {
	return &StructureAnalyzer{rootPath: rootPath, matcher: matcher, limits: limits}
}

// Structure builds the tree rooted at subPath. An empty subPath starts at the
// repository root; a negative maxDepth selects the configured default.
func (analyzer *StructureAnalyzer) Structure(subPath string, maxDepth int) (*StructureNode, error) {
	if maxDepth < 0 {
		maxDepth = analyzer.limits.MaxDepth
	}
	if subPath == "" {
		subPath = rootRelativePath
	}

	startPath, startRelativePath, resolveError := resolveWithinRoot(analyzer.rootPath, subPath)
	if resolveError != nil {
		return nil, resolveError
	}
	if startRelativePath != rootRelativePath && analyzer.matcher.Matches(startRelativePath, true) {
		return nil, fmt.Errorf("%s is excluded by ignore rules: %w", subPath, ErrNotFound)
	}

	startInfo, statError := os.Stat(startPath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return nil, fmt.Errorf("%s: %w", subPath, ErrNotFound)
		}
		if os.IsPermission(statError) {
			return nil, fmt.Errorf("%s: %w", subPath, ErrPermissionDenied)
		}
		return nil, fmt.Errorf("stat %s: %w", subPath, statError)
	}
	if !startInfo.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", subPath, ErrNotADirectory)
	}

	rootNode := &StructureNode{
		Kind:  NodeKindDirectory,
		Name:  startInfo.Name(),
		Path:  startRelativePath,
		Depth: 0,
	}
	if startRelativePath == rootRelativePath {
		rootNode.Name = filepath.Base(analyzer.rootPath)
	}
	if expandError := analyzer.expandDirectory(rootNode, startPath, maxDepth, true); expandError != nil {
		return nil, expandError
	}
	return rootNode, nil
}

// expandDirectory fills node with the visible children of directoryPath.
// atStart distinguishes the requested directory, whose read failures are
// reported as errors, from nested directories, which degrade to unexpanded
// markers.
func (analyzer *StructureAnalyzer) expandDirectory(node *StructureNode, directoryPath string, maxDepth int, atStart bool) error {
	if node.Depth > maxDepth {
		node.Unexpanded = true
		return nil
	}

	entries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		if atStart {
			if os.IsPermission(readError) {
				return fmt.Errorf("%s: %w", node.Path, ErrPermissionDenied)
			}
			return fmt.Errorf("read %s: %w", node.Path, readError)
		}
		node.Unexpanded = true
		return nil
	}

	visible := analyzer.visibleEntries(node, entries)
	if len(visible) > analyzer.limits.MaxChildren {
		node.Summary = analyzer.summarize(node, visible)
		return nil
	}

	sortDirectoryEntries(visible)
	for _, entry := range visible {
		childNode := &StructureNode{
			Name:  entry.Name(),
			Path:  childRelativePath(node.Path, entry.Name()),
			Depth: node.Depth + 1,
		}
		if entry.IsDir() {
			childNode.Kind = NodeKindDirectory
			if expandError := analyzer.expandDirectory(childNode, filepath.Join(directoryPath, entry.Name()), maxDepth, false); expandError != nil {
				return expandError
			}
		} else {
			childNode.Kind = NodeKindFile
			entryInfo, infoError := entry.Info()
			if infoError != nil {
				node.SkippedEntries++
				continue
			}
			childNode.SizeBytes = entryInfo.Size()
		}
		node.Children = append(node.Children, childNode)
	}
	return nil
}

// visibleEntries filters out symlinks and ignored entries, counting
// entries whose metadata could not be read.
func (analyzer *StructureAnalyzer) visibleEntries(node *StructureNode, entries []fs.DirEntry) []fs.DirEntry {
	visible := make([]fs.DirEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Type()&fs.ModeSymlink != 0 {
			continue
		}
		entryRelativePath := childRelativePath(node.Path, entry.Name())
		if analyzer.matcher.Matches(entryRelativePath, entry.IsDir()) {
			continue
		}
		visible = append(visible, entry)
	}
	return visible
}

// summarize replaces an over-limit directory listing with aggregate counts,
// the summed size of its immediate files, and a few sample names.
func (analyzer *StructureAnalyzer) summarize(node *StructureNode, visible []fs.DirEntry) *Summary {
	summary := &Summary{}
	sortDirectoryEntries(visible)
	for _, entry := range visible {
		if entry.IsDir() {
			summary.DirectoryCount++
		} else {
			summary.FileCount++
			entryInfo, infoError := entry.Info()
			if infoError != nil {
				node.SkippedEntries++
				continue
			}
			summary.TotalSizeBytes += entryInfo.Size()
		}
		if len(summary.Samples) < summarySampleNameCount {
			summary.Samples = append(summary.Samples, entry.Name())
		}
	}
	return summary
}

func childRelativePath(parentRelativePath string, entryName string) string {
	if parentRelativePath == rootRelativePath {
		return entryName
	}
	return path.Join(parentRelativePath, entryName)
}

// sortDirectoryEntries orders directories before files, each group sorted by
// name.
func sortDirectoryEntries(entries []fs.DirEntry) {
	sort.SliceStable(entries, func(firstIndex int, secondIndex int) bool {
		firstEntry, secondEntry := entries[firstIndex], entries[secondIndex]
		if firstEntry.IsDir() != secondEntry.IsDir() {
			return firstEntry.IsDir()
		}
		return firstEntry.Name() < secondEntry.Name()
	})
}
