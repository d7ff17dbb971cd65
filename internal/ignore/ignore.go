// Package ignore compiles gitignore-style exclusion patterns into a matcher
// evaluated against repository-relative paths.
//
// The supported pattern subset is deliberately small: single-segment globs
// with filepath.Match semantics, a trailing slash marking a pattern as
// directory-only, and a leading slash (or any interior slash) anchoring the
// pattern at the repository root. Negation patterns ("!"), double-star
// globs ("**"), and backslash escapes are not supported; such lines are
// dropped during compilation.
package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// GitignoreFileName is the ignore file loaded from the repository root.
const GitignoreFileName = ".gitignore"

const pathSegmentSeparator = "/"

// defaultDirectoryNames are always excluded, as exact directory-name matches
// at any depth: version-control metadata, dependency caches, bytecode caches,
// and common build-output directories.
var defaultDirectoryNames = []string{
	".git",
	".hg",
	".svn",
	"node_modules",
	"__pycache__",
	".venv",
	"dist",
	"build",
	"target",
}

// rule is a single compiled pattern. Rules come either from the built-in
// defaults or from the root .gitignore; both forms reduce to segment globs.
type rule struct {
	pattern  string
	segments []string
	anchored bool
	dirOnly  bool
}

// Matcher evaluates compiled exclusion rules against relative paths. A
// Matcher is built once per analysis session and is safe for concurrent use.
type Matcher struct {
	rules []rule
}

// DefaultPatterns returns a copy of the built-in exclusion names.
func DefaultPatterns() []string {
	return append([]string(nil), defaultDirectoryNames...)
}

// NewMatcher compiles the built-in defaults plus the provided gitignore
// lines. Comment lines, blank lines, and lines outside the supported subset
// are skipped.
func NewMatcher(gitignoreLines []string) *Matcher {
	matcher := &Matcher{}
	for _, directoryName := range defaultDirectoryNames {
		matcher.rules = append(matcher.rules, rule{
			pattern:  directoryName,
			segments: []string{directoryName},
			dirOnly:  true,
		})
	}
	for _, line := range gitignoreLines {
		if compiledRule, ok := compileLine(line); ok {
			matcher.rules = append(matcher.rules, compiledRule)
		}
	}
	return matcher
}

// Load builds a Matcher for the repository rooted at rootPath, reading the
// root .gitignore when one exists. A missing .gitignore is not an error; the
// built-in defaults alone apply.
func Load(rootPath string) (*Matcher, error) {
	gitignorePath := filepath.Join(rootPath, GitignoreFileName)
	fileHandle, openError := os.Open(gitignorePath)
	if openError != nil {
		if os.IsNotExist(openError) {
			return NewMatcher(nil), nil
		}
		return nil, openError
	}
	defer fileHandle.Close()

	var lines []string
	lineScanner := bufio.NewScanner(fileHandle)
	for lineScanner.Scan() {
		lines = append(lines, lineScanner.Text())
	}
	if scanError := lineScanner.Err(); scanError != nil {
		return nil, scanError
	}
	return NewMatcher(lines), nil
}

// HasGitignore reports whether a .gitignore file exists at rootPath.
func HasGitignore(rootPath string) bool {
	fileInformation, statError := os.Stat(filepath.Join(rootPath, GitignoreFileName))
	return statError == nil && !fileInformation.IsDir()
}

// compileLine turns one .gitignore line into a rule. The second return value
// is false for blank lines, comments, and unsupported patterns.
func compileLine(line string) (rule, bool) {
	trimmedLine := strings.TrimRight(line, " \t")
	if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
		return rule{}, false
	}
	// Outside the supported subset: negation, double-star, escapes.
	if strings.HasPrefix(trimmedLine, "!") || strings.Contains(trimmedLine, "**") || strings.Contains(trimmedLine, "\\") {
		return rule{}, false
	}

	compiledRule := rule{pattern: trimmedLine}
	patternBody := trimmedLine
	if strings.HasSuffix(patternBody, pathSegmentSeparator) {
		compiledRule.dirOnly = true
		patternBody = strings.TrimSuffix(patternBody, pathSegmentSeparator)
	}
	if strings.HasPrefix(patternBody, pathSegmentSeparator) {
		compiledRule.anchored = true
		patternBody = strings.TrimPrefix(patternBody, pathSegmentSeparator)
	} else if strings.Contains(patternBody, pathSegmentSeparator) {
		compiledRule.anchored = true
	}
	if patternBody == "" {
		return rule{}, false
	}

	for _, segmentValue := range strings.Split(patternBody, pathSegmentSeparator) {
		if segmentValue == "" {
			return rule{}, false
		}
		if _, matchError := filepath.Match(segmentValue, "probe"); matchError != nil {
			return rule{}, false
		}
		compiledRule.segments = append(compiledRule.segments, segmentValue)
	}
	return compiledRule, true
}

// Matches reports whether the entry at relativePath is excluded. The path is
// evaluated segment by segment from the root down, so a rule matching any
// ancestor directory excludes the whole subtree. Callers prune matched
// directories before descending; an excluded subtree is never listed.
func (matcher *Matcher) Matches(relativePath string, isDirectory bool) bool {
	normalizedPath := filepath.ToSlash(relativePath)
	if normalizedPath == "" || normalizedPath == "." {
		return false
	}
	pathSegments := strings.Split(normalizedPath, pathSegmentSeparator)
	for _, candidateRule := range matcher.rules {
		if candidateRule.matches(pathSegments, isDirectory) {
			return true
		}
	}
	return false
}

// matches evaluates one rule against pre-split path segments.
func (compiledRule rule) matches(pathSegments []string, isDirectory bool) bool {
	if compiledRule.anchored {
		if len(pathSegments) < len(compiledRule.segments) {
			return false
		}
		for segmentIndex, patternSegment := range compiledRule.segments {
			if !segmentMatches(patternSegment, pathSegments[segmentIndex]) {
				return false
			}
		}
		if len(pathSegments) == len(compiledRule.segments) {
			return !compiledRule.dirOnly || isDirectory
		}
		// The rule matched a proper ancestor, which is necessarily a
		// directory, so dirOnly is satisfied and the subtree is excluded.
		return true
	}

	patternSegment := compiledRule.segments[0]
	lastSegmentIndex := len(pathSegments) - 1
	for segmentIndex, pathSegment := range pathSegments {
		if !segmentMatches(patternSegment, pathSegment) {
			continue
		}
		if segmentIndex < lastSegmentIndex {
			return true
		}
		return !compiledRule.dirOnly || isDirectory
	}
	return false
}

// segmentMatches applies filepath.Match semantics to a single segment.
func segmentMatches(patternSegment string, pathSegment string) bool {
	matched, matchError := filepath.Match(patternSegment, pathSegment)
	return matchError == nil && matched
}
