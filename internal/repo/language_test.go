package repo_test

import (
	"testing"

	"github.com/saiprashanths/code-analysis-mcp/internal/repo"
)

func TestDetectLanguage(t *testing.T) {
	testCases := []struct {
		path     string
		expected string
	}{
		{"main.go", "go"},
		{"src/app.py", "python"},
		{"SCRIPT.PY", "python"},
		{"web/index.tsx", "typescript"},
		{"Dockerfile", "dockerfile"},
		{"Makefile", "makefile"},
		{"Gemfile", "ruby"},
		{".gitignore", "gitignore"},
		{"deploy/main.tf", "terraform"},
		{"notes", repo.LanguageUnknown},
		{"archive.xyz", repo.LanguageUnknown},
	}

	for _, testCase := range testCases {
		t.Run(testCase.path, func(t *testing.T) {
			if detected := repo.DetectLanguage(testCase.path); detected != testCase.expected {
				t.Fatalf("DetectLanguage(%q) = %q, expected %q", testCase.path, detected, testCase.expected)
			}
		})
	}
}
