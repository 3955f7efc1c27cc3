package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/crytic/sollink/cmd/exitcodes"
	"github.com/crytic/sollink/compiler"
	"github.com/crytic/sollink/logging/colors"
	"github.com/crytic/sollink/project"
	"github.com/crytic/sollink/yul"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/exp/slices"
)

// linkCmd represents the command provider for linking
var linkCmd = &cobra.Command{
	Use:               "link [report]",
	Short:             "Links a solc compilation report into a project",
	Long:              `Links a solc compilation report into a project`,
	Args:              cmdValidateLinkArgs,
	ValidArgsFunction: cmdValidLinkArgs,
	RunE:              cmdRunLink,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add all the flags allowed for the link command
	addLinkFlags()

	// Add the link command and its associated flags to the root command
	rootCmd.AddCommand(linkCmd)
}

// cmdValidLinkArgs will return which flags are valid for dynamic completion for the link command
func cmdValidLinkArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	// Gather a list of flags that are available to be used in the current command but have not been used yet
	var unusedFlags []string
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			unusedFlags = append(unusedFlags, "--"+flag.Name)
		}
	})
	return unusedFlags, cobra.ShellCompDirectiveDefault
}

// cmdValidateLinkArgs makes sure that exactly one positional argument, the report path, is provided to the link
// command
func cmdValidateLinkArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		err = fmt.Errorf("link accepts exactly one positional argument: %v", ReportArgDescription)
		cmdLogger.Error("Failed to validate args to the link command", err)
		return err
	}
	return nil
}

// cmdRunLink executes the CLI link command: it reads the compilation report, merges AST-derived diagnostics,
// resolves dependencies and assembles the project, then writes the project JSON to the requested destination.
func cmdRunLink(cmd *cobra.Command, args []string) error {
	// Read the compilation report from the given path, or stdin when "-" is provided.
	reportPath := args[0]
	var reportData []byte
	var err error
	if reportPath == "-" {
		reportData, err = io.ReadAll(os.Stdin)
	} else {
		reportData, err = os.ReadFile(reportPath)
	}
	if err != nil {
		cmdLogger.Error("Failed to read the compilation report", err)
		return err
	}

	output := &compiler.Output{}
	if err = json.Unmarshal(reportData, output); err != nil {
		err = fmt.Errorf("failed to decode the compilation report: %v", err)
		cmdLogger.Error("Failed to run the link command", err)
		return err
	}

	// Determine which pipeline the report was produced with.
	pipelineName, err := cmd.Flags().GetString("pipeline")
	if err != nil {
		return err
	}
	pipeline, err := compiler.ParsePipeline(pipelineName)
	if err != nil {
		cmdLogger.Error("Failed to run the link command", err)
		return err
	}

	// Merge AST-derived diagnostics into the report's error list, unless asked not to.
	skipASTChecks, err := cmd.Flags().GetBool("skip-ast-checks")
	if err != nil {
		return err
	}
	if !skipASTChecks {
		if err = output.MergeASTMessages(compiler.ValueTransferAnalyzer{}); err != nil {
			cmdLogger.Error("Failed to merge AST diagnostics", err)
			return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeLinkError)
		}
	}

	// Resolve the compiler version: the flag wins over the version carried by the report.
	versionString, err := cmd.Flags().GetString("solc-version")
	if err != nil {
		return err
	}
	if versionString == "" {
		versionString = output.Version
	}
	if versionString == "" {
		err = fmt.Errorf("the report carries no compiler version; provide one with --solc-version")
		cmdLogger.Error("Failed to run the link command", err)
		return err
	}
	compilerVersion, err := semver.NewVersion(versionString)
	if err != nil {
		err = fmt.Errorf("failed to parse the compiler version `%v`: %v", versionString, err)
		cmdLogger.Error("Failed to run the link command", err)
		return err
	}

	// Parse the library linking table.
	libraryArgs, err := cmd.Flags().GetStringSlice("libraries")
	if err != nil {
		return err
	}
	libraries, err := parseLibraries(libraryArgs)
	if err != nil {
		cmdLogger.Error("Failed to run the link command", err)
		return err
	}

	// Set up the optional IR dump sink.
	var debugSink project.DebugSink
	debugDirectory, err := cmd.Flags().GetString("debug-dir")
	if err != nil {
		return err
	}
	if debugDirectory != "" {
		debugSink = project.NewDirectoryDump(debugDirectory)
	}

	// Assemble the project.
	cmdLogger.Info("Linking the compilation report with the ", colors.Bold, pipeline, colors.Reset, " pipeline")
	assembledProject, err := project.FromCompilerOutput(output, libraries, pipeline, compilerVersion, yul.NewParser(), debugSink)
	if err != nil {
		cmdLogger.Error("Failed to assemble the project", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeLinkError)
	}
	logProjectSummary(assembledProject)

	// Write the project JSON to the requested destination.
	encodedProject, err := json.MarshalIndent(assembledProject, "", "  ")
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if outputPath == "" {
		fmt.Println(string(encodedProject))
		return nil
	}
	if err = os.WriteFile(outputPath, encodedProject, 0644); err != nil {
		cmdLogger.Error("Failed to write the project", err)
		return err
	}
	cmdLogger.Info("Wrote the project to ", colors.Bold, outputPath, colors.Reset)
	return nil
}

// logProjectSummary logs one line per assembled contract, in sorted path order.
func logProjectSummary(assembledProject *project.Project) {
	cmdLogger.Info("Assembled ", colors.Bold, len(assembledProject.Contracts), colors.Reset, " contract(s)")

	fullPaths := make([]string, 0, len(assembledProject.Contracts))
	for fullPath := range assembledProject.Contracts {
		fullPaths = append(fullPaths, fullPath)
	}
	slices.Sort(fullPaths)
	for _, fullPath := range fullPaths {
		contract := assembledProject.Contracts[fullPath]
		cmdLogger.Info(colors.Bold, fullPath, colors.Reset, " (", contractSummary(contract), ")")
	}
}

// contractSummary describes one assembled contract: its source kind plus, for assemblies carrying a decodable
// metadata trailer, the bytecode hash and the compiler version embedded in it.
func contractSummary(contract *project.Contract) string {
	details := contract.Source.Pipeline.String()
	if assembly := contract.Source.Assembly; assembly != nil {
		if metadata := assembly.ContractMetadata(); metadata != nil {
			if bytecodeHash := metadata.ExtractBytecodeHash(); bytecodeHash != nil {
				details += ", bytecode hash " + hex.EncodeToString(bytecodeHash)
			}
			if embeddedVersion := metadata.SolcVersion(); embeddedVersion != "" {
				details += ", solc " + embeddedVersion
			}
		}
	}
	return details
}

// parseLibraries converts repeated `file.sol:Library=0xADDRESS` arguments into the two-level library linking
// table keyed by file path and then library name.
func parseLibraries(args []string) (map[string]map[string]string, error) {
	if len(args) == 0 {
		return nil, nil
	}

	libraries := make(map[string]map[string]string)
	for _, arg := range args {
		nameAndAddress := strings.SplitN(arg, "=", 2)
		if len(nameAndAddress) != 2 || nameAndAddress[1] == "" {
			return nil, fmt.Errorf("invalid library specifier `%v`, expected file.sol:Library=0xADDRESS", arg)
		}
		separator := strings.LastIndex(nameAndAddress[0], ":")
		if separator <= 0 || separator == len(nameAndAddress[0])-1 {
			return nil, fmt.Errorf("invalid library name `%v`, expected file.sol:Library", nameAndAddress[0])
		}

		filePath := nameAndAddress[0][:separator]
		libraryName := nameAndAddress[0][separator+1:]
		if libraries[filePath] == nil {
			libraries[filePath] = make(map[string]string)
		}
		libraries[filePath][libraryName] = nameAndAddress[1]
	}
	return libraries, nil
}
