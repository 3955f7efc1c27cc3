package cmd

import (
	"github.com/crytic/sollink/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// rootCmd is the root CLI command object which all other commands are attached to.
var rootCmd = &cobra.Command{
	Use:   "sollink",
	Short: "A Solidity compilation-report linking stage",
	Long:  "sollink converts solc standard-json output into a dependency-resolved project representation for code generation",
}

// cmdLogger is the logger used by the command package, writing unstructured, colorized output to console.
var cmdLogger = logging.NewLogger(zerolog.InfoLevel, true)

// Execute runs the root CLI command.
func Execute() error {
	return rootCmd.Execute()
}
