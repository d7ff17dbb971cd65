// Package mcp exposes repository analysis over the Model Context Protocol.
// The server speaks JSON-RPC on stdin/stdout, so all logging goes to stderr.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/saiprashanths/code-analysis-mcp/internal/output"
	"github.com/saiprashanths/code-analysis-mcp/internal/repo"
)

const (
	serverName = "code-analysis"

	initializeToolName = "initialize_repository"
	repoInfoToolName   = "get_repo_info"
	structureToolName  = "get_repo_structure"
	readFileToolName   = "read_file"
	analyzePromptName  = "analyze_code_repository"

	pathArgumentName     = "path"
	subPathArgumentName  = "sub_path"
	depthArgumentName    = "depth"
	filePathArgumentName = "file_path"
	codebaseArgumentName = "codebase_path"

	useDefaultDepth = -1

	notInitializedMessage = "No code repository has been initialized yet. Please use initialize_repository first."
)

// Server hosts the analysis tools over MCP stdio transport.
type Server struct {
	analysisService *repo.Service
	logger          *zap.Logger
	version         string
	inputStream     io.Reader
	outputStream    io.Writer
}

// NewServer creates an MCP server around an analysis service. The server
// reads requests from stdin and writes responses to stdout.
func NewServer(analysisService *repo.Service, logger *zap.Logger, version string) *Server {
	return &Server{
		analysisService: analysisService,
		logger:          logger,
		version:         version,
		inputStream:     os.Stdin,
		outputStream:    os.Stdout,
	}
}

// Run serves MCP requests until ctx is cancelled or the input stream
// closes.
func (analysisServer *Server) Run(ctx context.Context) error {
	mcpServer := server.NewMCPServer(
		serverName,
		analysisServer.version,
		server.WithToolCapabilities(true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
	)

	mcpServer.AddTool(newInitializeTool(), analysisServer.handleInitialize)
	mcpServer.AddTool(newRepoInfoTool(), analysisServer.handleRepoInfo)
	mcpServer.AddTool(newStructureTool(), analysisServer.handleStructure)
	mcpServer.AddTool(newReadFileTool(), analysisServer.handleReadFile)
	mcpServer.AddPrompt(newAnalyzePrompt(), analysisServer.handleAnalyzePrompt)

	analysisServer.logger.Info("serving MCP over stdio",
		zap.String("server", serverName),
		zap.String("version", analysisServer.version))

	listenError := server.NewStdioServer(mcpServer).Listen(ctx, analysisServer.inputStream, analysisServer.outputStream)
	if listenError != nil && !errors.Is(listenError, context.Canceled) {
		return fmt.Errorf("stdio transport: %w", listenError)
	}
	return nil
}

func newInitializeTool() mcp.Tool {
	return mcp.NewTool(initializeToolName,
		mcp.WithDescription("Initialize a code repository for analysis. Required before any other tool."),
		mcp.WithString(pathArgumentName,
			mcp.Required(),
			mcp.Description("Absolute path to the repository root directory"),
		),
	)
}

func newRepoInfoTool() mcp.Tool {
	return mcp.NewTool(repoInfoToolName,
		mcp.WithDescription("Show the initialized repository path, gitignore status, and detected project manifests."),
	)
}

func newStructureTool() mcp.Tool {
	return mcp.NewTool(structureToolName,
		mcp.WithDescription("Render a depth-bounded tree of the repository's files and directories, honoring gitignore rules."),
		mcp.WithString(subPathArgumentName,
			mcp.Description("Subdirectory to start from, relative to the repository root"),
		),
		mcp.WithNumber(depthArgumentName,
			mcp.Description("Maximum directory depth to expand (default 3)"),
		),
	)
}

func newReadFileTool() mcp.Tool {
	return mcp.NewTool(readFileToolName,
		mcp.WithDescription("Read a text file from the repository, bounded by size and line limits."),
		mcp.WithString(filePathArgumentName,
			mcp.Required(),
			mcp.Description("File path relative to the repository root"),
		),
	)
}

func (analysisServer *Server) handleInitialize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repositoryPath, argumentError := request.RequireString(pathArgumentName)
	if argumentError != nil {
		return mcp.NewToolResultError(argumentError.Error()), nil
	}

	repositoryInfo, initializeError := analysisServer.analysisService.Initialize(repositoryPath)
	if initializeError != nil {
		analysisServer.logger.Warn("repository initialization failed",
			zap.String("path", repositoryPath),
			zap.Error(initializeError))
		return mcp.NewToolResultError(friendlyMessage(initializeError)), nil
	}

	analysisServer.logger.Info("repository initialized", zap.String("root", repositoryInfo.Root))
	return mcp.NewToolResultText("Repository initialized.\n" + output.RenderInfoText(repositoryInfo)), nil
}

func (analysisServer *Server) handleRepoInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repositoryInfo, infoError := analysisServer.analysisService.Info()
	if infoError != nil {
		return mcp.NewToolResultError(friendlyMessage(infoError)), nil
	}
	return mcp.NewToolResultText(output.RenderInfoText(repositoryInfo)), nil
}

func (analysisServer *Server) handleStructure(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subPath := request.GetString(subPathArgumentName, "")
	maxDepth := request.GetInt(depthArgumentName, useDefaultDepth)

	structureRoot, structureError := analysisServer.analysisService.Structure(subPath, maxDepth)
	if structureError != nil {
		return mcp.NewToolResultError(friendlyMessage(structureError)), nil
	}
	return mcp.NewToolResultText(output.RenderStructureText(structureRoot)), nil
}

func (analysisServer *Server) handleReadFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath, argumentError := request.RequireString(filePathArgumentName)
	if argumentError != nil {
		return mcp.NewToolResultError(argumentError.Error()), nil
	}

	fileContent, readError := analysisServer.analysisService.Read(filePath)
	if readError != nil {
		return mcp.NewToolResultError(friendlyMessage(readError)), nil
	}
	return mcp.NewToolResultText(output.RenderReadText(fileContent)), nil
}

func newAnalyzePrompt() mcp.Prompt {
	return mcp.NewPrompt(analyzePromptName,
		mcp.WithPromptDescription("Analyze a code repository at the specified path."),
		mcp.WithArgument(codebaseArgumentName,
			mcp.RequiredArgument(),
			mcp.ArgumentDescription("Absolute path to the code repository"),
		),
	)
}

func (analysisServer *Server) handleAnalyzePrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	codebasePath := request.Params.Arguments[codebaseArgumentName]
	if codebasePath == "" {
		return nil, fmt.Errorf("missing required argument %s", codebaseArgumentName)
	}
	promptText := fmt.Sprintf(analyzePromptTemplate, codebasePath)
	return mcp.NewGetPromptResult(
		"Guided analysis of a code repository",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(promptText)),
		},
	), nil
}

// friendlyMessage maps analysis errors to messages an LLM client can act
// on without sentinel knowledge.
func friendlyMessage(analysisError error) string {
	switch {
	case errors.Is(analysisError, repo.ErrNotInitialized):
		return notInitializedMessage
	case errors.Is(analysisError, repo.ErrPathEscape):
		return "Error: Invalid path - directory traversal not allowed"
	default:
		return "Error: " + analysisError.Error()
	}
}

const analyzePromptTemplate = `You are an AI assistant specialized in codebase analysis, operating as part of an MCP server named code-analysis. Your task is to analyze codebases and answer user questions about them using a set of specialized tools.

The codebase we are going to analyze is located at %s
The user will ask specific questions about this codebase. To answer the user's questions, follow these steps:

1. Initialize Repository:
   - Use the initialize_repository tool with the full path to the repository root directory.
   - This step is required before using any other tools.

2. Verify Initialization:
   - Use the get_repo_info tool to confirm successful initialization.
   - This shows the resolved path, gitignore status, and detected project manifests.

3. Get Repository Structure:
   - Use the get_repo_structure tool to generate a tree view of the repository's file structure.
   - Start with the default depth for an overview, then use sub_path to explore specific directories of interest.
   - Increase depth only for detailed investigation of specific areas.

4. Read Files:
   - Use the read_file tool to read file contents with language recognition.
   - Reads are bounded by file size and line limits.
   - Start with README files and other documentation to gain initial context.

5. Systematic Investigation:
   - Generate an initial hypothesis about the system based on the repository structure and documentation.
   - Use the tools strategically, focusing on areas relevant to the user's question.
   - Continuously update your understanding as you gather more information.

6. Evidence-Based Analysis:
   - Support all claims with concrete evidence from the codebase.
   - Clearly distinguish between directly verified code, inferred patterns, and areas requiring further investigation.

If you encounter any errors or limitations with the tools, clearly state them in your analysis.

Now, you are ready to begin your analysis of the codebase. Please do the necessary steps to initialize.
Let me know when you are ready and I will provide the question I want to investigate.`
