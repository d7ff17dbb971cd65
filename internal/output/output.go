// Package output renders analysis results as human-readable text or JSON.
// The text forms are tuned for language models: compact, hierarchical, and
// free of escaping noise.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/saiprashanths/code-analysis-mcp/internal/repo"
	"github.com/saiprashanths/code-analysis-mcp/internal/utils"
)

const (
	directoryGlyph = "📁"
	fileGlyph      = "📄"

	indentUnit = "  "

	notExpandedMarker       = "(not expanded)"
	truncationTrailerFormat = "[File truncated after %d lines]"
)

// RenderStructureText renders a structure tree as an indented glyph
// listing.
func RenderStructureText(rootNode *repo.StructureNode) string {
	var builder strings.Builder
	renderStructureNode(&builder, rootNode, 0)
	return builder.String()
}

func renderStructureNode(builder *strings.Builder, node *repo.StructureNode, indentLevel int) {
	indent := strings.Repeat(indentUnit, indentLevel)
	if node.Kind == repo.NodeKindFile {
		fmt.Fprintf(builder, "%s%s %s (%s)\n", indent, fileGlyph, node.Name, utils.FormatSize(node.SizeBytes))
		return
	}

	fmt.Fprintf(builder, "%s%s %s/", indent, directoryGlyph, node.Name)
	if node.Unexpanded {
		builder.WriteString(" " + notExpandedMarker)
	}
	builder.WriteString("\n")

	childIndent := strings.Repeat(indentUnit, indentLevel+1)
	if node.Summary != nil {
		fmt.Fprintf(builder, "%sContains: %d files, %d directories, %s\n",
			childIndent,
			node.Summary.FileCount,
			node.Summary.DirectoryCount,
			utils.FormatSize(node.Summary.TotalSizeBytes))
		if len(node.Summary.Samples) > 0 {
			fmt.Fprintf(builder, "%sSample entries: %s\n", childIndent, strings.Join(node.Summary.Samples, ", "))
		}
	}
	for _, childNode := range node.Children {
		renderStructureNode(builder, childNode, indentLevel+1)
	}
	if node.SkippedEntries > 0 {
		fmt.Fprintf(builder, "%s(%d entries skipped)\n", childIndent, node.SkippedEntries)
	}
}

// RenderReadText renders file content with a short metadata header.
func RenderReadText(content *repo.FileContent) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "File: %s\n", content.Path)
	fmt.Fprintf(&builder, "Language: %s\n", content.Language)
	fmt.Fprintf(&builder, "Encoding: %s\n", content.Encoding)
	fmt.Fprintf(&builder, "Size: %s\n", utils.FormatSize(content.SizeBytes))
	if content.Truncated {
		fmt.Fprintf(&builder, "Lines: %d of %d\n", content.ReturnedLines, content.TotalLines)
	} else {
		fmt.Fprintf(&builder, "Lines: %d\n", content.TotalLines)
	}
	if content.TokenModel != "" {
		fmt.Fprintf(&builder, "Tokens: %d (%s)\n", content.Tokens, content.TokenModel)
	}
	builder.WriteString("\n")
	builder.WriteString(content.Content)
	if content.Truncated {
		if !strings.HasSuffix(content.Content, "\n") {
			builder.WriteString("\n")
		}
		fmt.Fprintf(&builder, truncationTrailerFormat+"\n", content.ReturnedLines)
	}
	return builder.String()
}

// RenderInfoText renders repository info as a short key listing.
func RenderInfoText(repositoryInfo *repo.Info) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Repository: %s\n", repositoryInfo.Root)
	if repositoryInfo.HasGitignore {
		builder.WriteString("Gitignore: present\n")
	} else {
		builder.WriteString("Gitignore: absent\n")
	}
	for _, manifest := range repositoryInfo.Manifests {
		if manifest.Name != "" {
			fmt.Fprintf(&builder, "Manifest: %s (%s, %s)\n", manifest.Path, manifest.Kind, manifest.Name)
		} else {
			fmt.Fprintf(&builder, "Manifest: %s (%s)\n", manifest.Path, manifest.Kind)
		}
	}
	return builder.String()
}

// RenderJSON renders any result as indented JSON.
func RenderJSON(value any) (string, error) {
	serialized, marshalError := json.MarshalIndent(value, "", "  ")
	if marshalError != nil {
		return "", fmt.Errorf("marshal result: %w", marshalError)
	}
	return string(serialized) + "\n", nil
}
