package repo_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/saiprashanths/code-analysis-mcp/internal/config"
	"github.com/saiprashanths/code-analysis-mcp/internal/repo"
)

func TestReadReturnsDecodedContent(t *testing.T) {
	rootPath := t.TempDir()
	fileBody := "import os\n\nprint(os.getcwd())\n"
	if writeError := os.WriteFile(filepath.Join(rootPath, "a.py"), []byte(fileBody), 0o600); writeError != nil {
		t.Fatalf("write file: %v", writeError)
	}

	analysisService := newInitializedService(t, rootPath, config.DefaultLimits())
	fileContent, readError := analysisService.Read("a.py")
	if readError != nil {
		t.Fatalf("read: %v", readError)
	}

	if fileContent.Language != "python" {
		t.Fatalf("expected python language, got %s", fileContent.Language)
	}
	if fileContent.Encoding != repo.EncodingUTF8 {
		t.Fatalf("expected utf-8 encoding, got %s", fileContent.Encoding)
	}
	if fileContent.TotalLines != 3 {
		t.Fatalf("expected 3 lines, got %d", fileContent.TotalLines)
	}
	if fileContent.Truncated {
		t.Fatalf("did not expect truncation")
	}
	if fileContent.Content != fileBody {
		t.Fatalf("content altered by read")
	}
	if fileContent.SizeBytes != int64(len(fileBody)) {
		t.Fatalf("expected %d bytes, got %d", len(fileBody), fileContent.SizeBytes)
	}
}

func TestReadMissingAndDirectoryPaths(t *testing.T) {
	rootPath := t.TempDir()
	if mkdirError := os.Mkdir(filepath.Join(rootPath, "subdir"), 0o755); mkdirError != nil {
		t.Fatalf("mkdir: %v", mkdirError)
	}

	analysisService := newInitializedService(t, rootPath, config.DefaultLimits())

	if _, readError := analysisService.Read("absent.txt"); !errors.Is(readError, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing file, got %v", readError)
	}
	if _, readError := analysisService.Read("subdir"); !errors.Is(readError, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for directory path, got %v", readError)
	}
	if _, readError := analysisService.Read("../outside.txt"); !errors.Is(readError, repo.ErrPathEscape) {
		t.Fatalf("expected ErrPathEscape for traversal, got %v", readError)
	}
}

func TestReadRejectsOversizedFiles(t *testing.T) {
	rootPath := t.TempDir()
	if writeError := os.WriteFile(filepath.Join(rootPath, "big.txt"), []byte(strings.Repeat("x", 64)), 0o600); writeError != nil {
		t.Fatalf("write file: %v", writeError)
	}

	limits := config.DefaultLimits()
	limits.MaxFileSizeBytes = 32
	analysisService := newInitializedService(t, rootPath, limits)

	if _, readError := analysisService.Read("big.txt"); !errors.Is(readError, repo.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", readError)
	}
}

func TestReadRejectsBinaryFiles(t *testing.T) {
	rootPath := t.TempDir()
	binaryBody := []byte{0x7f, 'E', 'L', 'F', 0x00, 0x01, 0x02}
	if writeError := os.WriteFile(filepath.Join(rootPath, "tool.bin"), binaryBody, 0o600); writeError != nil {
		t.Fatalf("write file: %v", writeError)
	}

	analysisService := newInitializedService(t, rootPath, config.DefaultLimits())
	if _, readError := analysisService.Read("tool.bin"); !errors.Is(readError, repo.ErrBinaryFile) {
		t.Fatalf("expected ErrBinaryFile, got %v", readError)
	}
}

func TestReadTruncatesAtLineLimit(t *testing.T) {
	rootPath := t.TempDir()
	var builder strings.Builder
	for lineNumber := 1; lineNumber <= 10; lineNumber++ {
		builder.WriteString("line\n")
	}
	if writeError := os.WriteFile(filepath.Join(rootPath, "long.txt"), []byte(builder.String()), 0o600); writeError != nil {
		t.Fatalf("write file: %v", writeError)
	}

	limits := config.DefaultLimits()
	limits.MaxLines = 4
	analysisService := newInitializedService(t, rootPath, limits)

	fileContent, readError := analysisService.Read("long.txt")
	if readError != nil {
		t.Fatalf("read: %v", readError)
	}
	if !fileContent.Truncated {
		t.Fatalf("expected truncation")
	}
	if fileContent.TotalLines != 10 {
		t.Fatalf("expected 10 total lines, got %d", fileContent.TotalLines)
	}
	if fileContent.ReturnedLines != 4 {
		t.Fatalf("expected 4 returned lines, got %d", fileContent.ReturnedLines)
	}
	if strings.Count(fileContent.Content, "\n") != 4 {
		t.Fatalf("expected 4 newlines in truncated content, got %d", strings.Count(fileContent.Content, "\n"))
	}
}

func TestReadFallsBackToWindows1252(t *testing.T) {
	rootPath := t.TempDir()
	legacyBody := []byte{'c', 'a', 'f', 0xe9, '\n'}
	if writeError := os.WriteFile(filepath.Join(rootPath, "legacy.txt"), legacyBody, 0o600); writeError != nil {
		t.Fatalf("write file: %v", writeError)
	}

	analysisService := newInitializedService(t, rootPath, config.DefaultLimits())
	fileContent, readError := analysisService.Read("legacy.txt")
	if readError != nil {
		t.Fatalf("read: %v", readError)
	}
	if fileContent.Encoding != repo.EncodingWindows1252 {
		t.Fatalf("expected windows-1252 encoding, got %s", fileContent.Encoding)
	}
	if fileContent.Content != "café\n" {
		t.Fatalf("unexpected decoded content: %q", fileContent.Content)
	}
}

func TestReadRejectsUndecodableBytes(t *testing.T) {
	rootPath := t.TempDir()
	undecodableBody := []byte{'o', 'k', 0xc3, 0x28, 0x81, '\n'}
	if writeError := os.WriteFile(filepath.Join(rootPath, "mystery.dat"), undecodableBody, 0o600); writeError != nil {
		t.Fatalf("write file: %v", writeError)
	}

	analysisService := newInitializedService(t, rootPath, config.DefaultLimits())
	if _, readError := analysisService.Read("mystery.dat"); !errors.Is(readError, repo.ErrDecodeError) {
		t.Fatalf("expected ErrDecodeError, got %v", readError)
	}
}

func TestReadRefusesIgnoredFiles(t *testing.T) {
	rootPath := t.TempDir()
	if writeError := os.WriteFile(filepath.Join(rootPath, ".gitignore"), []byte("*.secret\n"), 0o600); writeError != nil {
		t.Fatalf("write gitignore: %v", writeError)
	}
	if writeError := os.WriteFile(filepath.Join(rootPath, "api.secret"), []byte("token\n"), 0o600); writeError != nil {
		t.Fatalf("write file: %v", writeError)
	}

	analysisService := newInitializedService(t, rootPath, config.DefaultLimits())
	if _, readError := analysisService.Read("api.secret"); !errors.Is(readError, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for ignored file, got %v", readError)
	}
}
