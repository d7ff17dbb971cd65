package repo

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/saiprashanths/code-analysis-mcp/internal/config"
	"github.com/saiprashanths/code-analysis-mcp/internal/ignore"
	"github.com/saiprashanths/code-analysis-mcp/internal/utils"
)

// Encodings reported in read results.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
)

// TokenCounter reports token counts for text under a named model. A nil
// counter disables token reporting.
type TokenCounter interface {
	Name() string
	CountString(text string) int
}

// FileReader performs bounded, ignore-aware file reads inside one
// repository root.
type FileReader struct {
	rootPath     string
	matcher      *ignore.Matcher
	limits       config.Limits
	tokenCounter TokenCounter
}

// NewFileReader creates a reader rooted at the symlink-resolved repository
// path. tokenCounter may be nil.
func NewFileReader(rootPath string, matcher *ignore.Matcher, limits config.Limits, tokenCounter TokenCounter) *FileReader {
	return &FileReader{rootPath: rootPath, matcher: matcher, limits: limits, tokenCounter: tokenCounter}
}

// Read returns the decoded content of filePath, capped at the configured
// line limit. Files excluded by ignore rules are reported as not found, the
// same answer structure traversal gives for them.
func (reader *FileReader) Read(filePath string) (*FileContent, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, fmt.Errorf("empty file path: %w", ErrNotFound)
	}

	absolutePath, relativePath, resolveError := resolveWithinRoot(reader.rootPath, filePath)
	if resolveError != nil {
		return nil, resolveError
	}
	if reader.matcher.Matches(relativePath, false) {
		return nil, fmt.Errorf("%s is excluded by ignore rules: %w", filePath, ErrNotFound)
	}

	fileInfo, statError := os.Stat(absolutePath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return nil, fmt.Errorf("%s: %w", filePath, ErrNotFound)
		}
		if os.IsPermission(statError) {
			return nil, fmt.Errorf("%s: %w", filePath, ErrPermissionDenied)
		}
		return nil, fmt.Errorf("stat %s: %w", filePath, statError)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file: %w", filePath, ErrNotFound)
	}
	if fileInfo.Size() > reader.limits.MaxFileSizeBytes {
		return nil, fmt.Errorf("%s is %s, above the %s read limit: %w",
			filePath,
			utils.FormatSize(fileInfo.Size()),
			utils.FormatSize(reader.limits.MaxFileSizeBytes),
			ErrTooLarge)
	}

	rawContent, readError := os.ReadFile(absolutePath)
	if readError != nil {
		if os.IsPermission(readError) {
			return nil, fmt.Errorf("%s: %w", filePath, ErrPermissionDenied)
		}
		return nil, fmt.Errorf("read %s: %w", filePath, readError)
	}
	if utils.IsBinary(rawContent) {
		return nil, fmt.Errorf("%s appears to be binary: %w", filePath, ErrBinaryFile)
	}

	textContent, encodingName, decodeError := decodeFileContent(rawContent)
	if decodeError != nil {
		return nil, fmt.Errorf("%s: %w", filePath, decodeError)
	}

	totalLines, returnedContent, returnedLines, truncated := capLines(textContent, reader.limits.MaxLines)

	result := &FileContent{
		Path:          relativePath,
		AbsolutePath:  absolutePath,
		Language:      DetectLanguage(relativePath),
		Encoding:      encodingName,
		SizeBytes:     fileInfo.Size(),
		TotalLines:    totalLines,
		ReturnedLines: returnedLines,
		Truncated:     truncated,
		Content:       returnedContent,
	}
	if reader.tokenCounter != nil {
		result.Tokens = reader.tokenCounter.CountString(returnedContent)
		result.TokenModel = reader.tokenCounter.Name()
	}
	return result, nil
}

// decodeFileContent interprets raw bytes as UTF-8, falling back to
// Windows-1252 for legacy single-byte content. The five byte values
// Windows-1252 leaves undefined decode to C1 control runes; content
// producing them is rejected rather than silently mojibaked.
func decodeFileContent(rawContent []byte) (string, string, error) {
	if utf8.Valid(rawContent) {
		return string(rawContent), EncodingUTF8, nil
	}
	decodedContent, decodeError := charmap.Windows1252.NewDecoder().Bytes(rawContent)
	if decodeError != nil {
		return "", "", fmt.Errorf("not valid UTF-8 or Windows-1252 text: %w", ErrDecodeError)
	}
	if strings.ContainsAny(string(decodedContent), "") {
		return "", "", fmt.Errorf("not valid UTF-8 or Windows-1252 text: %w", ErrDecodeError)
	}
	return string(decodedContent), EncodingWindows1252, nil
}

// capLines counts the lines of textContent and truncates it to the first
// maxLines of them. A trailing newline does not open an extra empty line.
func capLines(textContent string, maxLines int) (int, string, int, bool) {
	if textContent == "" {
		return 0, "", 0, false
	}
	lines := strings.Split(textContent, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	totalLines := len(lines)
	if totalLines <= maxLines {
		return totalLines, textContent, totalLines, false
	}
	return totalLines, strings.Join(lines[:maxLines], "\n") + "\n", maxLines, true
}
