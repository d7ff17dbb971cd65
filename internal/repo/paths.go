package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const parentDirectorySegment = ".."

// resolveWithinRoot resolves requestPath (absolute or root-relative) against
// the symlink-realized rootPath and verifies the result stays inside it.
// Both the lexical form and the symlink-realized form are checked, so
// neither ".." segments nor symlinks can escape the root. It returns the
// resolved absolute path and the root-relative path in slash form.
func resolveWithinRoot(rootPath string, requestPath string) (string, string, error) {
	candidatePath := requestPath
	if !filepath.IsAbs(candidatePath) {
		candidatePath = filepath.Join(rootPath, candidatePath)
	}
	candidatePath = filepath.Clean(candidatePath)

	relativePath, relativeError := filepath.Rel(rootPath, candidatePath)
	if relativeError != nil || isOutsideRelativePath(relativePath) {
		return "", "", fmt.Errorf("%s resolves outside the repository: %w", requestPath, ErrPathEscape)
	}

	resolvedPath, resolveError := filepath.EvalSymlinks(candidatePath)
	if resolveError != nil {
		if os.IsNotExist(resolveError) {
			return "", "", fmt.Errorf("%s: %w", requestPath, ErrNotFound)
		}
		if os.IsPermission(resolveError) {
			return "", "", fmt.Errorf("%s: %w", requestPath, ErrPermissionDenied)
		}
		return "", "", fmt.Errorf("resolve %s: %w", requestPath, resolveError)
	}

	resolvedRelativePath, resolvedRelativeError := filepath.Rel(rootPath, resolvedPath)
	if resolvedRelativeError != nil || isOutsideRelativePath(resolvedRelativePath) {
		return "", "", fmt.Errorf("%s resolves outside the repository: %w", requestPath, ErrPathEscape)
	}

	return resolvedPath, filepath.ToSlash(resolvedRelativePath), nil
}

// isOutsideRelativePath reports whether a filepath.Rel result leaves the base.
func isOutsideRelativePath(relativePath string) bool {
	return relativePath == parentDirectorySegment ||
		strings.HasPrefix(relativePath, parentDirectorySegment+string(filepath.Separator))
}
