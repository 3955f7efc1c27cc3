package cmd

// addLinkFlags adds the various flags for the link command
func addLinkFlags() {
	// Prevent alphabetical sorting of usage message
	linkCmd.Flags().SortFlags = false

	// Pipeline selection
	linkCmd.Flags().String("pipeline", DefaultPipeline,
		"code-generation pipeline the report was produced with (evmla or yul)")

	// Compiler version override
	linkCmd.Flags().String("solc-version", "",
		"solc version to record in the project (overrides the version carried by the report)")

	// Library linking table
	linkCmd.Flags().StringSlice("libraries", []string{},
		"library address(es) to link, each as file.sol:Library=0xADDRESS")

	// Project output destination
	linkCmd.Flags().String("output", "",
		"path the assembled project JSON is written to (default is standard output)")

	// IR dump sink
	linkCmd.Flags().String("debug-dir", "",
		"directory the per-contract IR dumps are written into (yul pipeline only)")

	// AST diagnostics
	linkCmd.Flags().Bool("skip-ast-checks", false,
		"do not merge AST-derived diagnostic messages into the report's error list")
}
