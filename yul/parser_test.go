package yul

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseObject ensures a representative solc IR text parses into the expected object tree, with code bodies
// captured as raw text and data entries decoded.
func TestParseObject(t *testing.T) {
	ir := `/// @use-src 0:"A.sol"
object "A_25" {
    code {
        {
            /* allocator setup */
            let x := "brace { in string"
            mstore(64, memoryguard(0x80))
        }
    }
    object "A_25_deployed" {
        code {
            { revert(0, 0) }
        }
        data ".metadata" hex"a26469706673"
    }
    data "greeting" "hello \"world\""
}`

	object, err := ParseObject(ir)
	assert.NoError(t, err)
	assert.Equal(t, "A_25", object.Name)

	// The code body is raw text, braces included, with brace-bearing strings and comments captured intact.
	assert.Contains(t, object.Code, "memoryguard(0x80)")
	assert.Contains(t, object.Code, `"brace { in string"`)
	assert.Equal(t, byte('{'), object.Code[0])
	assert.Equal(t, byte('}'), object.Code[len(object.Code)-1])

	// The runtime object is found by its name suffix and carries its own code and data.
	runtime := object.RuntimeObject()
	assert.NotNil(t, runtime)
	assert.Equal(t, "A_25_deployed", runtime.Name)
	assert.Contains(t, runtime.Code, "revert(0, 0)")
	assert.Equal(t, "a26469706673", runtime.Data[".metadata"])

	// Escapes inside data string literals are decoded.
	assert.Equal(t, `hello "world"`, object.Data["greeting"])
}

// TestParseObjectMinimal ensures the smallest valid object parses.
func TestParseObjectMinimal(t *testing.T) {
	object, err := ParseObject(`object "A" { code { } }`)
	assert.NoError(t, err)
	assert.Equal(t, "A", object.Name)
	assert.Equal(t, "{ }", object.Code)
	assert.Nil(t, object.RuntimeObject())
}

// TestParseObjectErrors ensures malformed IR texts fail with positioned errors.
func TestParseObjectErrors(t *testing.T) {
	for _, text := range []string{
		``,
		`code { }`,
		`object A { code { } }`,
		`object "A" { code { }`,
		`object "A" { code { } code { } }`,
		`object "A" { code { } } trailing`,
		`object "A" { data "d" }`,
	} {
		_, err := ParseObject(text)
		assert.Error(t, err, "expected a parse failure for %q", text)

		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr)
		assert.GreaterOrEqual(t, parseErr.Line, 1)
	}
}

// TestParseErrorPosition ensures the failure position points at the offending line.
func TestParseErrorPosition(t *testing.T) {
	_, err := ParseObject("object \"A\" {\n    code { }\n    banana\n}")
	assert.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 3, parseErr.Line)
}
