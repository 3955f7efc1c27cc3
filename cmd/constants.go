package cmd

// DefaultPipeline describes the pipeline assumed when --pipeline is not provided.
const DefaultPipeline = "evmla"

// ReportArgDescription describes the positional argument of the link command.
const ReportArgDescription = "path to the solc standard-json output file, or `-` for standard input"
