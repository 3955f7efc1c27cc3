package yul

import "fmt"

// Object is the parsed structure of one Yul IR object: its name, its raw code body, its nested objects (the
// deployed runtime object among them) and its data entries. Code bodies are preserved as raw text; this stage only
// needs the object structure, the full statement grammar belongs to the code-generation front end.
type Object struct {
	// Name is the object name, e.g. "Contract_42" or "Contract_42_deployed".
	Name string `json:"name"`

	// Code is the raw text of the object's code block, braces included.
	Code string `json:"code"`

	// Objects are the nested objects, in source order.
	Objects []*Object `json:"objects,omitempty"`

	// Data maps data entry names to their literal payloads.
	Data map[string]string `json:"data,omitempty"`
}

// RuntimeObject returns the nested object holding the contract's runtime code, identified by the "_deployed" name
// suffix convention, or nil when the object carries none.
func (o *Object) RuntimeObject() *Object {
	for _, nested := range o.Objects {
		if nested.Name == o.Name+"_deployed" {
			return nested
		}
	}
	return nil
}

// ParseError describes where and why parsing of an IR text failed.
type ParseError struct {
	// Line is the 1-based line number of the failure.
	Line int

	// Column is the 1-based column number of the failure.
	Column int

	// Message describes what was expected or found.
	Message string
}

// Error returns the error message string, implementing the `error` interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%v:%v: %v", e.Line, e.Column, e.Message)
}
