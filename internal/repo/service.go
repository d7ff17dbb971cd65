package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/saiprashanths/code-analysis-mcp/internal/config"
	"github.com/saiprashanths/code-analysis-mcp/internal/discover"
	"github.com/saiprashanths/code-analysis-mcp/internal/ignore"
)

// ServiceOptions configures a Service. Zero-value limits fall back to the
// built-in defaults; TokenCounter may be nil.
type ServiceOptions struct {
	Limits       config.Limits
	TokenCounter TokenCounter
}

// session holds everything derived from one initialized root. A new
// initialization replaces the whole session atomically.
type session struct {
	rootPath     string
	matcher      *ignore.Matcher
	analyzer     *StructureAnalyzer
	reader       *FileReader
	manifests    []discover.Manifest
	hasGitignore bool
}

// Service is the facade over repository analysis. It serializes
// initialization against concurrent queries; queries themselves run
// concurrently against the current session.
type Service struct {
	options ServiceOptions

	mutex   sync.RWMutex
	current *session
}

// NewService creates an uninitialized Service.
func NewService(options ServiceOptions) *Service {
	if options.Limits == (config.Limits{}) {
		options.Limits = config.DefaultLimits()
	}
	return &Service{options: options}
}

// Initialize points the service at rootPath, loading its ignore rules and
// manifests. Re-initialization replaces any previous repository.
func (service *Service) Initialize(rootPath string) (*Info, error) {
	if rootPath == "" {
		return nil, fmt.Errorf("empty repository path: %w", ErrInvalidRepository)
	}
	absolutePath, absoluteError := filepath.Abs(rootPath)
	if absoluteError != nil {
		return nil, fmt.Errorf("%s: %w", rootPath, ErrInvalidRepository)
	}
	resolvedPath, resolveError := filepath.EvalSymlinks(absolutePath)
	if resolveError != nil {
		return nil, fmt.Errorf("%s: %w", rootPath, ErrInvalidRepository)
	}
	rootInfo, statError := os.Stat(resolvedPath)
	if statError != nil || !rootInfo.IsDir() {
		return nil, fmt.Errorf("%s is not an accessible directory: %w", rootPath, ErrInvalidRepository)
	}

	matcher, loadError := ignore.Load(resolvedPath)
	if loadError != nil {
		return nil, fmt.Errorf("load ignore rules for %s: %w", rootPath, loadError)
	}

	newSession := &session{
		rootPath:     resolvedPath,
		matcher:      matcher,
		analyzer:     NewStructureAnalyzer(resolvedPath, matcher, service.options.Limits),
		reader:       NewFileReader(resolvedPath, matcher, service.options.Limits, service.options.TokenCounter),
		manifests:    discover.DetectManifests(resolvedPath),
		hasGitignore: ignore.HasGitignore(resolvedPath),
	}

	service.mutex.Lock()
	service.current = newSession
	service.mutex.Unlock()

	return service.infoFor(newSession), nil
}

// Info describes the currently initialized repository.
func (service *Service) Info() (*Info, error) {
	currentSession, sessionError := service.session()
	if sessionError != nil {
		return nil, sessionError
	}
	return service.infoFor(currentSession), nil
}

// Structure builds the bounded tree rooted at subPath within the
// initialized repository. A negative maxDepth selects the configured
// default.
func (service *Service) Structure(subPath string, maxDepth int) (*StructureNode, error) {
	currentSession, sessionError := service.session()
	if sessionError != nil {
		return nil, sessionError
	}
	return currentSession.analyzer.Structure(subPath, maxDepth)
}

// Read performs a bounded read of filePath within the initialized
// repository.
func (service *Service) Read(filePath string) (*FileContent, error) {
	currentSession, sessionError := service.session()
	if sessionError != nil {
		return nil, sessionError
	}
	return currentSession.reader.Read(filePath)
}

func (service *Service) session() (*session, error) {
	service.mutex.RLock()
	currentSession := service.current
	service.mutex.RUnlock()
	if currentSession == nil {
		return nil, ErrNotInitialized
	}
	return currentSession, nil
}

func (service *Service) infoFor(currentSession *session) *Info {
	return &Info{
		Root:         currentSession.rootPath,
		HasGitignore: ignore.HasGitignore(currentSession.rootPath),
		Manifests:    currentSession.manifests,
	}
}
