package compiler

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/crytic/sollink/evmla"
	"github.com/stretchr/testify/assert"
)

// newTestOutput builds a two-contract report in which A.sol:A depends on B.sol:B twice: its deploy code creates B
// (a nested assembly at data slot 1) and its runtime code references B by content hash. The returned hash is B's
// assembly content hash.
func newTestOutput() (*Output, string) {
	dependencyAssembly := &evmla.Assembly{
		Code: []*evmla.Instruction{{Begin: 0, End: 10, Name: "PUSH", Value: "60"}},
		Data: map[string]*evmla.Data{
			evmla.RuntimeCodeKey: {Assembly: &evmla.Assembly{
				Code: []*evmla.Instruction{{Begin: 0, End: 10, Name: "STOP"}},
			}},
		},
	}
	dependencyHash := dependencyAssembly.Keccak256()

	ownerAssembly := &evmla.Assembly{
		Code: []*evmla.Instruction{
			{Begin: 0, End: 20, Name: evmla.InstructionPushDataSize, Value: strings.Repeat("0", 63) + "1"},
			{Begin: 0, End: 20, Name: evmla.InstructionPushDataOffset, Value: strings.Repeat("0", 64)},
		},
		Data: map[string]*evmla.Data{
			evmla.RuntimeCodeKey: {Assembly: &evmla.Assembly{
				Code: []*evmla.Instruction{
					{Begin: 0, End: 20, Name: evmla.InstructionPushData, Value: dependencyHash},
				},
				Data: map[string]*evmla.Data{
					"1": {Value: dependencyHash},
				},
			}},
			"1": {Assembly: dependencyAssembly.Clone()},
		},
	}

	output := &Output{
		Contracts: map[string]map[string]*Contract{
			"A.sol": {"A": {EVM: &ContractEVM{Assembly: ownerAssembly}}},
			"B.sol": {"B": {EVM: &ContractEVM{Assembly: dependencyAssembly}}},
		},
	}
	return output, dependencyHash
}

// TestResolveDependencies ensures the two-phase resolution assigns identities, rewrites data-alias operands in both
// code scopes, and replaces resolved data entries with the referenced contract's path.
func TestResolveDependencies(t *testing.T) {
	output, _ := newTestOutput()
	assert.NoError(t, output.ResolveDependencies())

	ownerAssembly := output.Contracts["A.sol"]["A"].Assembly()
	dependencyAssembly := output.Contracts["B.sol"]["B"].Assembly()

	// Identities were assigned top-down.
	assert.Equal(t, "A.sol:A", ownerAssembly.FullPath)
	assert.Equal(t, "B.sol:B", dependencyAssembly.FullPath)

	// The deploy code's aliases now address dependencies symbolically: slot 1 is B, slot 0 is A itself.
	assert.Equal(t, "B.sol:B", ownerAssembly.Code[0].Value)
	assert.Equal(t, "A.sol:A", ownerAssembly.Code[1].Value)

	// The runtime code's content-hash alias resolved as well.
	runtime := ownerAssembly.RuntimeAssembly()
	assert.Equal(t, "B.sol:B", runtime.Code[0].Value)

	// Resolved data entries were replaced by the dependency's path in both scopes.
	assert.Nil(t, ownerAssembly.Data["1"].Assembly)
	assert.Equal(t, "B.sol:B", ownerAssembly.Data["1"].Value)
	assert.Equal(t, "B.sol:B", runtime.Data["1"].Value)
}

// TestResolveDependenciesUnresolved ensures a reference to a contract outside the compilation unit fails the whole
// resolution with an error naming the hash and the owning contract.
func TestResolveDependenciesUnresolved(t *testing.T) {
	unknownHash := strings.Repeat("ef", 32)
	output := &Output{
		Contracts: map[string]map[string]*Contract{
			"A.sol": {"A": {EVM: &ContractEVM{Assembly: &evmla.Assembly{
				Code: []*evmla.Instruction{{Name: evmla.InstructionPushData, Value: unknownHash}},
				Data: map[string]*evmla.Data{"1": {Value: unknownHash}},
			}}}},
		},
	}

	err := output.ResolveDependencies()
	assert.Error(t, err)

	var unresolvedErr *evmla.UnresolvedDependencyError
	assert.ErrorAs(t, err, &unresolvedErr)
	assert.Equal(t, unknownHash, unresolvedErr.Hash)
	assert.Equal(t, "A.sol:A", unresolvedErr.Path)
}

// TestResolveDependenciesNoContracts ensures resolution on a report without contracts is a no-op success.
func TestResolveDependenciesNoContracts(t *testing.T) {
	output := &Output{}
	assert.NoError(t, output.ResolveDependencies())
}

// TestOutputRoundTrip ensures fields absent in the source JSON stay absent after re-serialization, and present
// fields survive unchanged.
func TestOutputRoundTrip(t *testing.T) {
	input := `{
		"contracts": {
			"A.sol": {
				"A": {
					"evm": {
						"legacyAssembly": {
							".code": [
								{"begin": 0, "end": 5, "name": "PUSH", "value": "80"},
								{"begin": 0, "end": 5, "name": "MSTORE", "source": 0}
							],
							".data": {
								"0": {".code": [{"begin": 0, "end": 5, "name": "STOP"}]},
								"1": "deadbeef"
							},
							".auxdata": "a165627a7a72"
						}
					}
				}
			}
		},
		"version": "0.8.21"
	}`

	output := &Output{}
	assert.NoError(t, json.Unmarshal([]byte(input), output))
	assert.Equal(t, "0.8.21", output.Version)

	encoded, err := json.Marshal(output)
	assert.NoError(t, err)
	reencoded := string(encoded)

	// Absent optional fields stay absent.
	assert.NotContains(t, reencoded, "\"errors\"")
	assert.NotContains(t, reencoded, "\"sources\"")
	assert.NotContains(t, reencoded, "\"long_version\"")
	assert.NotContains(t, reencoded, "\"zk_version\"")
	assert.NotContains(t, reencoded, "\"modifierDepth\"")

	// Present fields survive, including the union forms of the data section.
	assert.Contains(t, reencoded, "\".auxdata\":\"a165627a7a72\"")
	assert.Contains(t, reencoded, "\"deadbeef\"")
	assert.Contains(t, reencoded, "\"source\":0")

	// A second decode agrees with the first, so the model is wire-stable.
	reparsed := &Output{}
	assert.NoError(t, json.Unmarshal(encoded, reparsed))
	assert.Equal(t, output.Contracts["A.sol"]["A"].Assembly().Keccak256(),
		reparsed.Contracts["A.sol"]["A"].Assembly().Keccak256())
}

// TestMergeASTMessages ensures analyzer messages are tagged with their source path and appended after the existing
// diagnostics, which stay unchanged.
func TestMergeASTMessages(t *testing.T) {
	astJSON := `{
		"nodeType": "SourceUnit",
		"nodes": [
			{"nodeType": "MemberAccess", "memberName": "transfer", "src": "120:30:0"},
			{"nodeType": "MemberAccess", "memberName": "balance"}
		]
	}`

	sourceID := 0
	ast := &AST{}
	assert.NoError(t, json.Unmarshal([]byte(astJSON), ast))

	existing := &Error{Message: "prior message", Severity: SeverityError}
	output := &Output{
		Sources: map[string]*Source{
			"A.sol": {ID: &sourceID, AST: ast},
			"B.sol": {ID: &sourceID},
		},
		Errors: []*Error{existing},
	}

	assert.NoError(t, output.MergeASTMessages(ValueTransferAnalyzer{}))
	assert.Len(t, output.Errors, 2)

	// The pre-existing message comes first and is untouched.
	assert.Same(t, existing, output.Errors[0])
	assert.Equal(t, "prior message", output.Errors[0].Message)

	// The analyzer message is tagged with the originating file.
	merged := output.Errors[1]
	assert.Equal(t, SeverityWarning, merged.Severity)
	assert.Contains(t, merged.Message, "transfer")
	assert.Contains(t, merged.FormattedMessage, "--> A.sol")
	assert.Equal(t, "A.sol", merged.SourceLocation.File)
	assert.Equal(t, 120, merged.SourceLocation.Start)
	assert.Equal(t, 150, merged.SourceLocation.End)
}

// TestMergeASTMessagesNoSources ensures a report without sources is a no-op success.
func TestMergeASTMessagesNoSources(t *testing.T) {
	output := &Output{}
	assert.NoError(t, output.MergeASTMessages(ValueTransferAnalyzer{}))
	assert.Nil(t, output.Errors)
}

// TestErrorsJSON ensures diagnostics render as pretty-printed JSON and an empty list renders as the empty string.
func TestErrorsJSON(t *testing.T) {
	output := &Output{}
	assert.Equal(t, "", output.ErrorsJSON())

	output.Errors = []*Error{NewWarning("something looks off")}
	rendered := output.ErrorsJSON()
	assert.Contains(t, rendered, "something looks off")
	assert.Contains(t, rendered, "\n  ")

	var decoded []*Error
	assert.NoError(t, json.Unmarshal([]byte(rendered), &decoded))
	assert.Len(t, decoded, 1)
}
