package compiler

import (
	"encoding/json"

	"github.com/crytic/sollink/evmla"
)

// Contract is one compiled unit of the report. Besides the two pipeline-specific code artifacts (optimized IR text
// and the legacy assembly tree), it carries opaque metadata which passes through to the project unchanged.
type Contract struct {
	// ABI is the contract's application binary interface description, passed through unchanged.
	ABI json.RawMessage `json:"abi,omitempty"`

	// Metadata is the compiler-emitted metadata JSON, passed through unchanged.
	Metadata json.RawMessage `json:"metadata,omitempty"`

	// Devdoc is the developer documentation, passed through unchanged.
	Devdoc json.RawMessage `json:"devdoc,omitempty"`

	// Userdoc is the user documentation, passed through unchanged.
	Userdoc json.RawMessage `json:"userdoc,omitempty"`

	// StorageLayout is the storage slot layout, passed through unchanged.
	StorageLayout json.RawMessage `json:"storageLayout,omitempty"`

	// IROptimized is the optimized intermediate-representation text produced by the Yul pipeline. It is consumed
	// at most once: project extraction moves it out of the contract.
	IROptimized string `json:"irOptimized,omitempty"`

	// EVM groups the EVM-specific artifacts, including the legacy assembly tree.
	EVM *ContractEVM `json:"evm,omitempty"`
}

// ContractEVM groups the EVM artifacts of a contract.
type ContractEVM struct {
	// Assembly is the legacy bytecode-assembly tree, present in the EVMLA pipeline. It is mutated in place by
	// dependency resolution.
	Assembly *evmla.Assembly `json:"legacyAssembly,omitempty"`

	// Bytecode is the deployment bytecode artifact, passed through unchanged.
	Bytecode json.RawMessage `json:"bytecode,omitempty"`

	// DeployedBytecode is the runtime bytecode artifact, passed through unchanged.
	DeployedBytecode json.RawMessage `json:"deployedBytecode,omitempty"`

	// MethodIdentifiers maps function signatures to selectors, passed through unchanged.
	MethodIdentifiers json.RawMessage `json:"methodIdentifiers,omitempty"`
}

// Assembly returns the contract's legacy assembly tree, or nil when the contract carries none (pure-interface or
// IR-only contracts).
func (c *Contract) Assembly() *evmla.Assembly {
	if c.EVM == nil {
		return nil
	}
	return c.EVM.Assembly
}

// TakeIROptimized moves the optimized IR text out of the contract, returning it. Subsequent calls return the empty
// string.
func (c *Contract) TakeIROptimized() string {
	ir := c.IROptimized
	c.IROptimized = ""
	return ir
}
