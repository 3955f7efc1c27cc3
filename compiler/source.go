package compiler

// Source describes one source file of the compilation report.
type Source struct {
	// ID is the source unit identifier solc assigned to the file.
	ID *int `json:"id,omitempty"`

	// AST is the abstract syntax tree of the file, present when the caller requested AST output.
	AST *AST `json:"ast,omitempty"`
}
