package evmla

import (
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor"
)

// ContractMetadata is the CBOR-encoded structure describing contract information which the Solidity compiler
// appends to bytecode (unless explicitly directed not to). In assembly form it is carried by the auxdata section.
// Reference: https://docs.soliditylang.org/en/latest/metadata.html
type ContractMetadata map[string]any

// byteCodeHashMetadataKeys defines the keys in the CBOR-encoded ContractMetadata which contain bytecode hashes.
var byteCodeHashMetadataKeys = [...]string{
	"bzzr0",
	"bzzr1",
	"ipfs",
}

// ContractMetadata decodes the assembly's auxdata section into contract metadata. If the assembly carries no
// auxdata, or the auxdata is not decodable, nil is returned.
func (a *Assembly) ContractMetadata() *ContractMetadata {
	if a.AuxData == "" {
		return nil
	}
	raw, err := hex.DecodeString(a.AuxData)
	if err != nil {
		return nil
	}

	var metadata ContractMetadata
	if err := cbor.Unmarshal(raw, &metadata); err != nil {
		return nil
	}
	return &metadata
}

// ExtractBytecodeHash extracts the bytecode hash from the contract metadata and returns the bytes representing the
// hash. If it could not be detected or extracted, nil is returned.
func (m ContractMetadata) ExtractBytecodeHash() []byte {
	// Try every known metadata key to see if we can resolve the bytecode hash
	for _, possibleMetadataKey := range byteCodeHashMetadataKeys {
		if bytecodeHashData, keyExists := m[possibleMetadataKey]; keyExists {
			if bytecodeHash, ok := bytecodeHashData.([]byte); ok {
				return bytecodeHash
			}
		}
	}
	return nil
}

// SolcVersion extracts the compiler version embedded in the contract metadata, when present. solc stores it as a
// three-byte major/minor/patch tuple under the "solc" key.
func (m ContractMetadata) SolcVersion() string {
	versionData, keyExists := m["solc"]
	if !keyExists {
		return ""
	}
	versionBytes, ok := versionData.([]byte)
	if !ok || len(versionBytes) != 3 {
		return ""
	}
	return fmt.Sprintf("%d.%d.%d", versionBytes[0], versionBytes[1], versionBytes[2])
}
