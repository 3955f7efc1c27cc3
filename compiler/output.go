package compiler

import (
	"encoding/json"
	"fmt"

	"github.com/crytic/sollink/evmla"
	"golang.org/x/exp/slices"
)

// Output is the root artifact of the front-end compiler: the `solc --standard-json` output representation. Every
// field is optional on the wire; fields absent in the source JSON remain absent on re-serialization.
type Output struct {
	// Contracts maps file paths to contract names to compiled contracts. When absent, no project can be assembled.
	Contracts map[string]map[string]*Contract `json:"contracts,omitempty"`

	// Sources maps file paths to source descriptors, each optionally carrying an AST.
	Sources map[string]*Source `json:"sources,omitempty"`

	// Errors is the ordered sequence of diagnostic messages emitted during compilation.
	Errors []*Error `json:"errors,omitempty"`

	// Version is the solc compiler version.
	Version string `json:"version,omitempty"`

	// LongVersion is the full solc compiler version string.
	LongVersion string `json:"long_version,omitempty"`

	// ZkVersion is the back-end compiler version, when the report came through a zk toolchain.
	ZkVersion string `json:"zk_version,omitempty"`
}

// ResolveDependencies discovers every content-hash dependency reference across the compilation unit and rewrites
// it to the fully-qualified path of the contract that produced it, so later stages can address dependencies
// symbolically. It runs in two phases: first the hash of every contract's assembly is collected into a global
// hash-to-path mapping, then each contract's assembly is rewritten against that frozen mapping (deploy code first,
// then runtime code). Only the EVMLA pipeline needs this pass; contracts without an assembly are skipped. Any
// unresolved reference aborts the whole resolution.
func (o *Output) ResolveDependencies() error {
	if o.Contracts == nil {
		return nil
	}

	// Phase 1: collect every contract's assembly hash. Two contracts hashing identically means identical bytecode;
	// the last registered path wins.
	hashPathMapping := make(map[string]string)
	for _, path := range sortedKeys(o.Contracts) {
		contracts := o.Contracts[path]
		for _, name := range sortedKeys(contracts) {
			assembly := contracts[name].Assembly()
			if assembly == nil {
				continue
			}
			hashPathMapping[assembly.Keccak256()] = fmt.Sprintf("%v:%v", path, name)
		}
	}

	// Phase 2: rewrite each contract against the now-frozen mapping.
	for _, path := range sortedKeys(o.Contracts) {
		contracts := o.Contracts[path]
		for _, name := range sortedKeys(contracts) {
			assembly := contracts[name].Assembly()
			if assembly == nil {
				continue
			}
			fullPath := fmt.Sprintf("%v:%v", path, name)
			if err := resolveAssemblyDependencies(fullPath, assembly, hashPathMapping); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveAssemblyDependencies assigns one assembly's identity and rewrites its two code scopes. The deploy pass
// completes fully before the runtime pass begins; the two scopes are independent, so the ordering is for clarity
// rather than correctness.
func resolveAssemblyDependencies(fullPath string, assembly *evmla.Assembly, hashPathMapping map[string]string) error {
	assembly.FullPath = fullPath

	deployMapping, err := assembly.DeployDependenciesPass(fullPath, hashPathMapping)
	if err != nil {
		return err
	}
	evmla.ReplaceDataAliases(assembly.Code, deployMapping)

	runtimeMapping, err := assembly.RuntimeDependenciesPass(fullPath, hashPathMapping)
	if err != nil {
		return err
	}
	if runtime := assembly.RuntimeAssembly(); runtime != nil {
		evmla.ReplaceDataAliases(runtime.Code, runtimeMapping)
	}
	return nil
}

// MergeASTMessages runs the given AST analyzers over every source carrying an AST, tags the produced messages with
// their originating file path, and appends them to the report's diagnostic list, preserving prior order and
// content. Reports without sources are a no-op success; an analyzer failure aborts the whole aggregation.
func (o *Output) MergeASTMessages(analyzers ...ASTAnalyzer) error {
	if o.Sources == nil {
		return nil
	}

	var messages []*Error
	for _, path := range sortedKeys(o.Sources) {
		source := o.Sources[path]
		if source == nil || source.AST == nil {
			continue
		}
		for _, analyzer := range analyzers {
			sourceMessages, err := analyzer.Analyze(source.AST)
			if err != nil {
				return fmt.Errorf("failed to analyze the AST of source `%v`: %v", path, err)
			}
			for _, message := range sourceMessages {
				message.PushContractPath(path)
			}
			messages = append(messages, sourceMessages...)
		}
	}

	o.Errors = append(o.Errors, messages...)
	return nil
}

// ErrorsJSON returns the report's diagnostic messages as pretty-printed JSON, or the empty string when the report
// carries none. It is used to surface existing diagnostics when project assembly fails outright.
func (o *Output) ErrorsJSON() string {
	if len(o.Errors) == 0 {
		return ""
	}
	encoded, err := json.MarshalIndent(o.Errors, "", "  ")
	if err != nil {
		return ""
	}
	return string(encoded)
}

// sortedKeys returns the map's keys in sorted order, so traversal of the report is deterministic across runs.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
