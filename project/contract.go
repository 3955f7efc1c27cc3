package project

import "github.com/crytic/sollink/compiler"

// Contract is one fully extracted contract of the project, ready for code generation.
type Contract struct {
	// Path is the fully-qualified "file:contract" identifier of the contract within the compilation unit.
	Path string `json:"path"`

	// Source is the pipeline-specific code representation.
	Source *Source `json:"source"`

	// Metadata carries the front-end contract artifacts (ABI, documentation, storage layout) through to
	// downstream stages unchanged.
	Metadata *compiler.Contract `json:"metadata,omitempty"`
}

// NewContract wraps an extracted source and its pass-through metadata into a project contract.
func NewContract(path string, source *Source, metadata *compiler.Contract) *Contract {
	return &Contract{
		Path:     path,
		Source:   source,
		Metadata: metadata,
	}
}
