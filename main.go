// ./main.go
package main

import (
	"github.com/amitgur2000/web-tasks-bot/cmd"
)

// main is the entry point for the web-tasks-bot application.
func main() {
	// Execute the root command defined in the cmd package.
	// This handles all command-line parsing, configuration, and execution.
	cmd.Execute()
}
