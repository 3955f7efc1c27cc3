package evmla

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/exp/slices"
)

// RuntimeCodeKey is the reserved data-section key at which a contract's own runtime code sub-assembly is stored.
// Every other data-section entry describes a dependency (a sub-contract creation or a linked piece of code).
const RuntimeCodeKey = "0"

// referenceLength is the character length of a zero-extended data-section reference, i.e. a 32-byte word in hex.
const referenceLength = 64

// Assembly represents one contract's bytecode in the legacy (EVMLA) compilation pipeline. It is a recursive tree:
// the deployment-time code lives at the top level, while the runtime code and any nested sub-creations live in the
// data section as further Assembly values.
type Assembly struct {
	// FullPath is the fully-qualified "file:contract" identity of the assembly. It is unknown at parse time and is
	// assigned top-down during dependency resolution.
	FullPath string `json:"-"`

	// Code is the ordered deployment-time instruction sequence. It is absent for pure-data assemblies.
	Code []*Instruction `json:".code,omitempty"`

	// Data maps small integer-like keys to data-section entries. The reserved key RuntimeCodeKey holds the
	// contract's own runtime code sub-assembly, when present.
	Data map[string]*Data `json:".data,omitempty"`

	// AuxData is the hex-encoded CBOR metadata trailer appended to the bytecode by solc.
	AuxData string `json:".auxdata,omitempty"`
}

// UnresolvedDependencyError indicates that a data-section entry's content hash did not match any contract known to
// the compilation unit. It aborts the whole resolution pass.
type UnresolvedDependencyError struct {
	// Hash is the content hash of the dependency that could not be resolved.
	Hash string

	// Path is the fully-qualified path of the contract whose data section holds the unresolved reference.
	Path string
}

// Error returns the error message string, implementing the `error` interface.
func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("dependency with hash `%v` of contract `%v` not found in the compilation unit", e.Hash, e.Path)
}

// Keccak256 computes the content hash of the assembly over its canonical JSON encoding. Object keys are serialized
// in sorted order, so structurally identical assemblies hash identically regardless of the surrounding compilation
// context. The digest is used only as a transient lookup key and is never persisted.
func (a *Assembly) Keccak256() string {
	// The identity (FullPath) is excluded from the encoding, as it is not known when hashes are collected.
	encoded, err := json.Marshal(a)
	if err != nil {
		// The assembly model contains no unserializable types, so this is unreachable on well-formed trees.
		panic(fmt.Sprintf("failed to encode assembly for hashing: %v", err))
	}
	return hex.EncodeToString(crypto.Keccak256(encoded))
}

// RuntimeAssembly returns the nested assembly stored at the reserved runtime-code slot of the data section, or nil
// when the assembly carries no runtime code.
func (a *Assembly) RuntimeAssembly() *Assembly {
	if a.Data == nil {
		return nil
	}
	entry := a.Data[RuntimeCodeKey]
	if entry == nil {
		return nil
	}
	return entry.Assembly
}

// Clone returns a deep copy of the assembly tree. Each node owns its children outright, so cloning never shares
// state with the original.
func (a *Assembly) Clone() *Assembly {
	if a == nil {
		return nil
	}
	cloned := &Assembly{
		FullPath: a.FullPath,
		AuxData:  a.AuxData,
	}
	if a.Code != nil {
		cloned.Code = make([]*Instruction, len(a.Code))
		for i, instruction := range a.Code {
			if instruction == nil {
				continue
			}
			clonedInstruction := *instruction
			if instruction.Source != nil {
				source := *instruction.Source
				clonedInstruction.Source = &source
			}
			if instruction.ModifierDepth != nil {
				depth := *instruction.ModifierDepth
				clonedInstruction.ModifierDepth = &depth
			}
			cloned.Code[i] = &clonedInstruction
		}
	}
	if a.Data != nil {
		cloned.Data = make(map[string]*Data, len(a.Data))
		for key, entry := range a.Data {
			if entry == nil {
				cloned.Data[key] = nil
				continue
			}
			cloned.Data[key] = &Data{
				Assembly: entry.Assembly.Clone(),
				Value:    entry.Value,
			}
		}
	}
	return cloned
}

// DeployDependenciesPass resolves the dependencies of the assembly's deployment code. It scans the data section for
// entries denoting other contracts (nested assemblies or 32-byte content hashes), resolves each through the global
// hash-to-path mapping, and returns the local mapping from data-section references to fully-qualified paths that is
// later applied to the deployment code body. The reserved runtime-code entry is not a dependency and is skipped;
// raw data blobs are skipped as well. An entry whose hash has no match yields an UnresolvedDependencyError.
func (a *Assembly) DeployDependenciesPass(fullPath string, hashPathMapping map[string]string) (map[string]string, error) {
	// A reference to data slot zero denotes the contract's own runtime code.
	indexPathMapping := map[string]string{extendReference(RuntimeCodeKey): fullPath}

	if a.Data == nil {
		return indexPathMapping, nil
	}
	for _, key := range sortedDataKeys(a.Data) {
		if key == RuntimeCodeKey {
			continue
		}
		if err := resolveDataEntry(a.Data[key], key, fullPath, hashPathMapping, indexPathMapping); err != nil {
			return nil, err
		}
	}
	return indexPathMapping, nil
}

// RuntimeDependenciesPass resolves the dependencies of the assembly's runtime code. The procedure is identical to
// the deploy pass, but it is scoped to the sub-assembly at the reserved runtime-code slot, operating on that
// sub-assembly's own data section. There is no reserved slot within that scope, so every entry is examined. If the
// assembly carries no runtime code, the pass is a no-op beyond the self-reference.
func (a *Assembly) RuntimeDependenciesPass(fullPath string, hashPathMapping map[string]string) (map[string]string, error) {
	indexPathMapping := map[string]string{extendReference(RuntimeCodeKey): fullPath}

	runtime := a.RuntimeAssembly()
	if runtime == nil || runtime.Data == nil {
		return indexPathMapping, nil
	}
	for _, key := range sortedDataKeys(runtime.Data) {
		if err := resolveDataEntry(runtime.Data[key], key, fullPath, hashPathMapping, indexPathMapping); err != nil {
			return nil, err
		}
	}
	return indexPathMapping, nil
}

// resolveDataEntry resolves a single data-section entry against the global hash-to-path mapping. Resolvable entries
// are rewritten in place to their fully-qualified path and recorded in indexPathMapping under both their
// zero-extended data-section key and their content hash, covering both initial operand forms of data-alias
// instructions. Entries carrying no dependency information are left untouched.
func resolveDataEntry(entry *Data, key string, ownerPath string, hashPathMapping map[string]string, indexPathMapping map[string]string) error {
	if entry == nil {
		return nil
	}

	// Determine the entry's content hash: nested assemblies are hashed, hash-shaped strings are taken verbatim.
	var hash string
	switch {
	case entry.Assembly != nil:
		hash = entry.Assembly.Keccak256()
	case isContentHash(entry.Value):
		hash = entry.Value
	default:
		// Raw data blobs carry no dependency information.
		return nil
	}

	fullPath, ok := hashPathMapping[hash]
	if !ok {
		return &UnresolvedDependencyError{Hash: hash, Path: ownerPath}
	}
	indexPathMapping[extendReference(key)] = fullPath
	indexPathMapping[hash] = fullPath

	// The dependency is addressed symbolically from here on, so the local copy is dropped.
	entry.Assembly = nil
	entry.Value = fullPath
	return nil
}

// sortedDataKeys returns the data-section keys in sorted order, so that resolution and its error reporting are
// deterministic across runs.
func sortedDataKeys(data map[string]*Data) []string {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// extendReference zero-extends a data-section key to the 32-byte reference form used by data-alias instruction
// operands.
func extendReference(key string) string {
	if len(key) >= referenceLength {
		return key
	}
	return strings.Repeat("0", referenceLength-len(key)) + key
}

// isContentHash reports whether the given string is shaped like a 32-byte content hash. Strings of any other shape
// are raw data blobs or already-resolved paths.
func isContentHash(value string) bool {
	if len(value) != referenceLength {
		return false
	}
	for _, c := range value {
		isDigit := c >= '0' && c <= '9'
		isLowerHex := c >= 'a' && c <= 'f'
		isUpperHex := c >= 'A' && c <= 'F'
		if !isDigit && !isLowerHex && !isUpperHex {
			return false
		}
	}
	return true
}
