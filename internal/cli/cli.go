// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/saiprashanths/code-analysis-mcp/internal/config"
	"github.com/saiprashanths/code-analysis-mcp/internal/output"
	"github.com/saiprashanths/code-analysis-mcp/internal/repo"
	"github.com/saiprashanths/code-analysis-mcp/internal/services/clipboard"
	"github.com/saiprashanths/code-analysis-mcp/internal/services/mcp"
	"github.com/saiprashanths/code-analysis-mcp/internal/tokenizer"
	"github.com/saiprashanths/code-analysis-mcp/internal/utils"
)

const (
	rootFlagName    = "root"
	configFlagName  = "config"
	depthFlagName   = "depth"
	formatFlagName  = "format"
	copyFlagName    = "copy"
	tokensFlagName  = "tokens"
	modelFlagName   = "model"
	versionFlagName = "version"

	formatRaw  = "raw"
	formatJSON = "json"

	versionTemplate      = "code-analysis-mcp version: %s\n"
	rootUse              = "code-analysis-mcp"
	rootShortDescription = "code-analysis-mcp command line interface"
	rootLongDescription  = `code-analysis-mcp explores code repositories for language model consumption.
It serves the analysis tools over MCP stdio and exposes the same operations
as direct subcommands. Traversal honors gitignore rules, and file reads are
bounded by size and line limits.`

	serveUse              = "serve"
	serveShortDescription = "serve analysis tools over MCP stdio"
	structureUse          = "structure [sub_path]"
	structureAlias        = "s"
	structureShort        = "display repository structure (" + structureAlias + ")"
	readUse               = "read <file_path>"
	readAlias             = "r"
	readShort             = "show file content (" + readAlias + ")"
	infoUse               = "info"
	infoShort             = "show repository information"

	rootFlagDescription    = "repository root directory"
	configFlagDescription  = "configuration file path"
	depthFlagDescription   = "maximum directory depth to expand"
	formatFlagDescription  = "output format (raw or json)"
	copyFlagDescription    = "copy the output to the system clipboard"
	tokensFlagDescription  = "include token counts"
	modelFlagDescription   = "tokenizer model to use for token counting"
	versionFlagDescription = "display application version"

	invalidFormatMessage = "Invalid format value '%s'"

	useConfiguredDepth = -1
	defaultRootPath    = "."
)

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case formatRaw, formatJSON:
		return true
	default:
		return false
	}
}

// Execute runs the code-analysis-mcp application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool
	var configFilePath string

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().StringVar(&configFilePath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		createServeCommand(&configFilePath),
		createStructureCommand(&configFilePath),
		createReadCommand(&configFilePath),
		createInfoCommand(&configFilePath),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// analysisOptions stores flag values shared by the query subcommands.
type analysisOptions struct {
	rootPath     string
	outputFormat string
	copyOutput   bool
	tokenCounts  bool
	tokenModel   string
}

// addAnalysisFlags registers the shared repository and output flags.
func addAnalysisFlags(command *cobra.Command, options *analysisOptions) {
	command.Flags().StringVar(&options.rootPath, rootFlagName, defaultRootPath, rootFlagDescription)
	command.Flags().StringVar(&options.outputFormat, formatFlagName, formatRaw, formatFlagDescription)
	command.Flags().BoolVar(&options.copyOutput, copyFlagName, false, copyFlagDescription)
	command.Flags().BoolVar(&options.tokenCounts, tokensFlagName, false, tokensFlagDescription)
	command.Flags().StringVar(&options.tokenModel, modelFlagName, config.DefaultTokenizerModel, modelFlagDescription)
}

// createServeCommand returns the MCP stdio server subcommand.
func createServeCommand(configFilePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   serveUse,
		Short: serveShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			analysisService, _, buildError := buildAnalysisService(*configFilePath, analysisOptions{})
			if buildError != nil {
				return buildError
			}

			loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
			if loggerInitializationError != nil {
				return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError)
			}
			defer loggerInstance.Sync()

			signalContext, stopSignalHandling := signal.NotifyContext(command.Context(), os.Interrupt, syscall.SIGTERM)
			defer stopSignalHandling()

			mcpServer := mcp.NewServer(analysisService, loggerInstance, utils.GetApplicationVersion())
			serveGroup, serveContext := errgroup.WithContext(signalContext)
			serveGroup.Go(func() error {
				return mcpServer.Run(serveContext)
			})
			return serveGroup.Wait()
		},
	}
}

// createStructureCommand returns the structure subcommand.
func createStructureCommand(configFilePath *string) *cobra.Command {
	var options analysisOptions
	var maxDepth int

	structureCommand := &cobra.Command{
		Use:     structureUse,
		Aliases: []string{structureAlias},
		Short:   structureShort,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			subPath := ""
			if len(arguments) == 1 {
				subPath = arguments[0]
			}
			analysisService, _, buildError := buildAnalysisService(*configFilePath, options)
			if buildError != nil {
				return buildError
			}
			structureRoot, structureError := analysisService.Structure(subPath, maxDepth)
			if structureError != nil {
				return structureError
			}
			return emitResult(options, structureRoot, output.RenderStructureText(structureRoot))
		},
	}

	addAnalysisFlags(structureCommand, &options)
	structureCommand.Flags().IntVar(&maxDepth, depthFlagName, useConfiguredDepth, depthFlagDescription)
	return structureCommand
}

// createReadCommand returns the read subcommand.
func createReadCommand(configFilePath *string) *cobra.Command {
	var options analysisOptions

	readCommand := &cobra.Command{
		Use:     readUse,
		Aliases: []string{readAlias},
		Short:   readShort,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			analysisService, _, buildError := buildAnalysisService(*configFilePath, options)
			if buildError != nil {
				return buildError
			}
			fileContent, readError := analysisService.Read(arguments[0])
			if readError != nil {
				return readError
			}
			return emitResult(options, fileContent, output.RenderReadText(fileContent))
		},
	}

	addAnalysisFlags(readCommand, &options)
	return readCommand
}

// createInfoCommand returns the info subcommand.
func createInfoCommand(configFilePath *string) *cobra.Command {
	var options analysisOptions

	infoCommand := &cobra.Command{
		Use:   infoUse,
		Short: infoShort,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			_, repositoryInfo, buildError := buildAnalysisService(*configFilePath, options)
			if buildError != nil {
				return buildError
			}
			return emitResult(options, repositoryInfo, output.RenderInfoText(repositoryInfo))
		},
	}

	addAnalysisFlags(infoCommand, &options)
	return infoCommand
}

// buildAnalysisService loads configuration, constructs the analysis
// service, and initializes it at the requested root. The serve command
// passes zero options and skips initialization: repositories are
// initialized by MCP clients there.
func buildAnalysisService(configFilePath string, options analysisOptions) (*repo.Service, *repo.Info, error) {
	configuration, configurationError := config.LoadAnalysisConfiguration(config.LoadOptions{
		ExplicitFilePath: configFilePath,
	})
	if configurationError != nil {
		return nil, nil, configurationError
	}

	serviceOptions := repo.ServiceOptions{Limits: configuration.Limits()}

	tokensEnabled, tokenModel := configuration.TokenSettings()
	if options.tokenCounts {
		tokensEnabled = true
	}
	if options.tokenModel != "" && options.tokenModel != config.DefaultTokenizerModel {
		tokenModel = options.tokenModel
	}
	if tokensEnabled {
		tokenCounter, counterError := tokenizer.NewCounter(tokenModel)
		if counterError != nil {
			return nil, nil, counterError
		}
		serviceOptions.TokenCounter = tokenCounter
	}

	analysisService := repo.NewService(serviceOptions)
	if options.rootPath == "" {
		return analysisService, nil, nil
	}

	repositoryInfo, initializeError := analysisService.Initialize(options.rootPath)
	if initializeError != nil {
		return nil, nil, initializeError
	}
	return analysisService, repositoryInfo, nil
}

// emitResult prints the result in the selected format and optionally
// copies it to the clipboard.
func emitResult(options analysisOptions, jsonValue any, rawText string) error {
	outputFormat := strings.ToLower(options.outputFormat)
	if outputFormat == "" {
		outputFormat = formatRaw
	}
	if !isSupportedFormat(outputFormat) {
		return fmt.Errorf(invalidFormatMessage, outputFormat)
	}

	renderedOutput := rawText
	if outputFormat == formatJSON {
		serialized, marshalError := output.RenderJSON(jsonValue)
		if marshalError != nil {
			return marshalError
		}
		renderedOutput = serialized
	}

	fmt.Print(renderedOutput)
	if options.copyOutput {
		if copyError := clipboard.NewService().Copy(renderedOutput); copyError != nil {
			return fmt.Errorf("copy output to clipboard: %w", copyError)
		}
	}
	return nil
}
