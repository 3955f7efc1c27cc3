package compiler

import "fmt"

// Pipeline identifies the code-generation pipeline the front-end compiler was driven with. It is chosen once per
// compilation run, not per contract.
type Pipeline int

const (
	// PipelineEVMLA is the legacy bytecode-assembly pipeline, producing a tree of opcode/operand instructions with
	// nested data sections whose cross-contract dependencies require hash-based linking.
	PipelineEVMLA Pipeline = iota

	// PipelineYul is the intermediate-representation pipeline, producing optimized Yul text whose dependencies are
	// resolved structurally at parse time.
	PipelineYul
)

// String returns the wire/CLI name of the pipeline.
func (p Pipeline) String() string {
	switch p {
	case PipelineEVMLA:
		return "evmla"
	case PipelineYul:
		return "yul"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler so pipelines serialize by name.
func (p Pipeline) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so pipelines deserialize by name.
func (p *Pipeline) UnmarshalText(b []byte) error {
	parsed, err := ParsePipeline(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePipeline parses a pipeline name, as provided on the command line.
func ParsePipeline(name string) (Pipeline, error) {
	switch name {
	case "evmla":
		return PipelineEVMLA, nil
	case "yul":
		return PipelineYul, nil
	default:
		return 0, fmt.Errorf("unknown pipeline `%v`, expected one of: evmla, yul", name)
	}
}
