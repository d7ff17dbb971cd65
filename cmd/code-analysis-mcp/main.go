package main

import (
	"fmt"

	"github.com/saiprashanths/code-analysis-mcp/internal/cli"
	"github.com/saiprashanths/code-analysis-mcp/internal/utils"
)

// main is the entry point for the code-analysis-mcp command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
