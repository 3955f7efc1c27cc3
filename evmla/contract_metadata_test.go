package evmla

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// testAuxData is a hex-encoded CBOR map of the shape solc appends to bytecode:
// {"bzzr1": <32 bytes of 0x11>, "solc": 0x000815}.
var testAuxData = "a265627a7a72315820" + strings.Repeat("11", 32) + "64736f6c6343000815"

// TestContractMetadataDecoding ensures the auxdata trailer decodes into contract metadata carrying the bytecode
// hash and the embedded compiler version.
func TestContractMetadataDecoding(t *testing.T) {
	assembly := &Assembly{AuxData: testAuxData}
	metadata := assembly.ContractMetadata()
	assert.NotNil(t, metadata)

	bytecodeHash := metadata.ExtractBytecodeHash()
	assert.True(t, bytes.Equal(bytecodeHash, bytes.Repeat([]byte{0x11}, 32)))

	assert.Equal(t, "0.8.21", metadata.SolcVersion())
}

// TestContractMetadataUndecodable ensures absent or malformed auxdata yields no metadata rather than an error.
func TestContractMetadataUndecodable(t *testing.T) {
	// No auxdata at all.
	assert.Nil(t, (&Assembly{}).ContractMetadata())

	// Not valid hex.
	assert.Nil(t, (&Assembly{AuxData: "zz"}).ContractMetadata())

	// Valid hex, not valid CBOR.
	assert.Nil(t, (&Assembly{AuxData: "ff"}).ContractMetadata())
}

// TestContractMetadataMissingKeys ensures extraction handles metadata without the expected keys.
func TestContractMetadataMissingKeys(t *testing.T) {
	// {"solc": 0x000815} only, no bytecode-hash key.
	assembly := &Assembly{AuxData: "a164736f6c6343000815"}
	metadata := assembly.ContractMetadata()
	assert.NotNil(t, metadata)
	assert.Nil(t, metadata.ExtractBytecodeHash())
	assert.Equal(t, "0.8.21", metadata.SolcVersion())

	// {"ipfs": <32 bytes of 0x22>} only, no version key.
	assembly = &Assembly{AuxData: "a164697066735820" + strings.Repeat("22", 32)}
	metadata = assembly.ContractMetadata()
	assert.NotNil(t, metadata)
	assert.True(t, bytes.Equal(metadata.ExtractBytecodeHash(), bytes.Repeat([]byte{0x22}, 32)))
	assert.Equal(t, "", metadata.SolcVersion())
}
