package project

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver"
	"github.com/crytic/sollink/compiler"
	"golang.org/x/exp/slices"
)

// Project is the final artifact of the linking stage: the dependency-resolved compilation unit, ready for code
// generation. It is constructed once per compiler run and owned exclusively by its consumer.
type Project struct {
	// Version is the version of the front-end compiler that produced the report.
	Version *semver.Version `json:"version"`

	// Contracts maps fully-qualified contract identifiers to their resolved representations. Keys are unique by
	// construction: a duplicate fully-qualified path silently overwrites the earlier entry.
	Contracts map[string]*Contract `json:"contracts"`

	// Libraries is the caller-supplied library-address linking table, keyed by file path and then library name.
	Libraries map[string]map[string]string `json:"libraries,omitempty"`
}

// NewProject bundles the compiler version, the contract map and the library table into a project.
func NewProject(version *semver.Version, contracts map[string]*Contract, libraries map[string]map[string]string) *Project {
	return &Project{
		Version:   version,
		Contracts: contracts,
		Libraries: libraries,
	}
}

// FromCompilerOutput converts the front-end compilation report into a project. For the EVMLA pipeline it first runs
// dependency resolution over the whole unit; it then extracts every contract's pipeline-specific source and
// assembles the final contract map. A report without contracts is fatal, surfacing any existing diagnostics
// (pretty-printed) or a generic message. Contracts that produced no code (absent or empty IR, absent assembly) are
// skipped; an IR parse failure is fatal and tagged with the contract's full path. The debug sink is optional; the
// parser is required only for the Yul pipeline.
func FromCompilerOutput(output *compiler.Output, libraries map[string]map[string]string, pipeline compiler.Pipeline, version *semver.Version, parser IRParser, debug DebugSink) (*Project, error) {
	// The IR pipeline resolves dependencies structurally at parse time; only the legacy assembly needs linking.
	if pipeline == compiler.PipelineEVMLA {
		if err := output.ResolveDependencies(); err != nil {
			return nil, err
		}
	}

	if output.Contracts == nil {
		if message := output.ErrorsJSON(); message != "" {
			return nil, errors.New(message)
		}
		return nil, errors.New("unknown project assembling error")
	}

	contracts := make(map[string]*Contract)
	for _, path := range sortedKeys(output.Contracts) {
		fileContracts := output.Contracts[path]
		for _, name := range sortedKeys(fileContracts) {
			contract := fileContracts[name]
			fullPath := fmt.Sprintf("%v:%v", path, name)

			var source *Source
			switch pipeline {
			case compiler.PipelineYul:
				ir := contract.TakeIROptimized()
				if ir == "" {
					// The contract produced no code, e.g. an interface.
					continue
				}

				if debug != nil {
					if err := debug.DumpYul(fullPath, ir); err != nil {
						return nil, fmt.Errorf("failed to dump the IR of contract `%v`: %v", fullPath, err)
					}
				}

				if parser == nil {
					return nil, fmt.Errorf("contract `%v` requires an IR parser, but none was provided", fullPath)
				}
				object, err := parser.Parse(ir)
				if err != nil {
					return nil, fmt.Errorf("contract `%v` parsing error: %v", fullPath, err)
				}
				source = NewYulSource(ir, object)
			case compiler.PipelineEVMLA:
				assembly := contract.Assembly()
				if assembly == nil {
					continue
				}
				source = NewEVMLASource(assembly.Clone())
			}

			contracts[fullPath] = NewContract(fullPath, source, contract)
		}
	}

	return NewProject(version, contracts, libraries), nil
}

// sortedKeys returns the map's keys in sorted order, so contract extraction, the winner of a duplicate
// fully-qualified path, and the first-surfaced failure are all deterministic across runs.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
