package project

import (
	"github.com/crytic/sollink/compiler"
	"github.com/crytic/sollink/evmla"
)

// IRParser turns optimized Yul IR text into a parsed object consumable by code generation. The yul package
// provides the in-repo implementation; any external front end satisfying the interface can be plugged in.
type IRParser interface {
	// Parse returns the parsed IR object, or an error describing where parsing failed.
	Parse(text string) (any, error)
}

// DebugSink receives each contract's raw IR text before parsing, for tracing dumps.
type DebugSink interface {
	// DumpYul records the IR text of the contract identified by fullPath.
	DumpYul(fullPath string, source string) error
}

// Source is the pipeline-specific code representation of a project contract. The variant is tagged by the pipeline
// the whole run was driven with: the Yul variant owns the raw IR text and its parsed object, while the EVMLA
// variant owns the fully dependency-resolved assembly.
type Source struct {
	// Pipeline tags which variant is populated.
	Pipeline compiler.Pipeline `json:"pipeline"`

	// IR is the optimized IR text, set for the Yul pipeline.
	IR string `json:"ir,omitempty"`

	// IRObject is the parsed IR object, set for the Yul pipeline. It is opaque to this stage and handed to code
	// generation as-is.
	IRObject any `json:"-"`

	// Assembly is the dependency-resolved assembly tree, set for the EVMLA pipeline.
	Assembly *evmla.Assembly `json:"assembly,omitempty"`
}

// NewYulSource wraps an IR text and its parsed object into a Yul-pipeline contract source.
func NewYulSource(ir string, object any) *Source {
	return &Source{
		Pipeline: compiler.PipelineYul,
		IR:       ir,
		IRObject: object,
	}
}

// NewEVMLASource wraps a resolved assembly into an EVMLA-pipeline contract source.
func NewEVMLASource(assembly *evmla.Assembly) *Source {
	return &Source{
		Pipeline: compiler.PipelineEVMLA,
		Assembly: assembly,
	}
}
