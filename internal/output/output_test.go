package output_test

import (
	"strings"
	"testing"

	"github.com/saiprashanths/code-analysis-mcp/internal/discover"
	"github.com/saiprashanths/code-analysis-mcp/internal/output"
	"github.com/saiprashanths/code-analysis-mcp/internal/repo"
)

func TestRenderStructureText(t *testing.T) {
	structureRoot := &repo.StructureNode{
		Kind: repo.NodeKindDirectory,
		Name: "project",
		Path: ".",
		Children: []*repo.StructureNode{
			{
				Kind:  repo.NodeKindDirectory,
				Name:  "src",
				Path:  "src",
				Depth: 1,
				Children: []*repo.StructureNode{
					{Kind: repo.NodeKindFile, Name: "main.go", Path: "src/main.go", Depth: 2, SizeBytes: 2048},
				},
			},
			{
				Kind:       repo.NodeKindDirectory,
				Name:       "deep",
				Path:       "deep",
				Depth:      1,
				Unexpanded: true,
			},
			{
				Kind:  repo.NodeKindDirectory,
				Name:  "assets",
				Path:  "assets",
				Depth: 1,
				Summary: &repo.Summary{
					FileCount:      150,
					DirectoryCount: 2,
					TotalSizeBytes: 1 << 20,
					Samples:        []string{"logo.png", "icon.svg"},
				},
			},
			{Kind: repo.NodeKindFile, Name: "README.md", Path: "README.md", Depth: 1, SizeBytes: 100},
		},
	}

	rendered := output.RenderStructureText(structureRoot)

	expectedLines := []string{
		"📁 project/",
		"  📁 src/",
		"    📄 main.go (2.0 KB)",
		"  📁 deep/ (not expanded)",
		"  📁 assets/",
		"    Contains: 150 files, 2 directories, 1.0 MB",
		"    Sample entries: logo.png, icon.svg",
		"  📄 README.md (100 B)",
	}
	for _, expectedLine := range expectedLines {
		if !strings.Contains(rendered, expectedLine+"\n") {
			t.Fatalf("rendered structure missing line %q:\n%s", expectedLine, rendered)
		}
	}
}

func TestRenderReadTextTruncated(t *testing.T) {
	fileContent := &repo.FileContent{
		Path:          "src/main.py",
		Language:      "python",
		Encoding:      repo.EncodingUTF8,
		SizeBytes:     4096,
		TotalLines:    1200,
		ReturnedLines: 1000,
		Truncated:     true,
		Content:       "print('hello')\n",
	}

	rendered := output.RenderReadText(fileContent)

	if !strings.Contains(rendered, "File: src/main.py\n") {
		t.Fatalf("missing file header:\n%s", rendered)
	}
	if !strings.Contains(rendered, "Lines: 1000 of 1200\n") {
		t.Fatalf("missing truncated line count:\n%s", rendered)
	}
	if !strings.Contains(rendered, "[File truncated after 1000 lines]") {
		t.Fatalf("missing truncation trailer:\n%s", rendered)
	}
}

func TestRenderReadTextWithTokens(t *testing.T) {
	fileContent := &repo.FileContent{
		Path:          "main.go",
		Language:      "go",
		Encoding:      repo.EncodingUTF8,
		SizeBytes:     64,
		TotalLines:    3,
		ReturnedLines: 3,
		Tokens:        17,
		TokenModel:    "gpt-4o",
		Content:       "package main\n",
	}

	rendered := output.RenderReadText(fileContent)
	if !strings.Contains(rendered, "Tokens: 17 (gpt-4o)\n") {
		t.Fatalf("missing token line:\n%s", rendered)
	}
	if strings.Contains(rendered, "[File truncated") {
		t.Fatalf("unexpected truncation trailer:\n%s", rendered)
	}
}

func TestRenderInfoText(t *testing.T) {
	repositoryInfo := &repo.Info{
		Root:         "/work/project",
		HasGitignore: true,
		Manifests: []discover.Manifest{
			{Kind: discover.ManifestKindGoModule, Path: "go.mod", Name: "example.com/demo"},
			{Kind: discover.ManifestKindNodePackage, Path: "package.json"},
		},
	}

	rendered := output.RenderInfoText(repositoryInfo)
	for _, expectedLine := range []string{
		"Repository: /work/project",
		"Gitignore: present",
		"Manifest: go.mod (go-module, example.com/demo)",
		"Manifest: package.json (node-package)",
	} {
		if !strings.Contains(rendered, expectedLine+"\n") {
			t.Fatalf("rendered info missing line %q:\n%s", expectedLine, rendered)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	rendered, renderError := output.RenderJSON(&repo.Summary{FileCount: 3})
	if renderError != nil {
		t.Fatalf("render json: %v", renderError)
	}
	if !strings.Contains(rendered, "\"fileCount\": 3") {
		t.Fatalf("unexpected json output:\n%s", rendered)
	}
}
