package evmla

// Data-alias instruction names emitted by solc for references into an assembly's data section. Their operands are
// initially opaque local references (a zero-extended data-section key or a raw content hash) and are rewritten to
// fully-qualified contract paths during dependency resolution.
const (
	// InstructionPushDataSize pushes the byte size of a data-section entry ("dataSize").
	InstructionPushDataSize = "PUSH #[$]"

	// InstructionPushDataOffset pushes the code offset of a data-section entry ("dataOffset").
	InstructionPushDataOffset = "PUSH [$]"

	// InstructionPushData pushes a data-section entry by its content hash.
	InstructionPushData = "PUSH data"
)

// Instruction is one element of a bytecode-assembly code body: an opcode name plus its operand and source
// coordinates, exactly as solc emits them.
type Instruction struct {
	// Begin is the offset in the source file where the instruction's source construct begins.
	Begin int `json:"begin"`

	// End is the offset in the source file where the instruction's source construct ends.
	End int `json:"end"`

	// Name is the opcode name.
	Name string `json:"name"`

	// Value is the operand. For data-alias instructions it carries the local data-section reference before
	// resolution and the referenced contract's fully-qualified path afterwards.
	Value string `json:"value,omitempty"`

	// Source is the index of the source file the instruction originates from, when solc provides one.
	Source *int `json:"source,omitempty"`

	// ModifierDepth is the modifier call depth at the instruction, when solc provides one.
	ModifierDepth *int `json:"modifierDepth,omitempty"`
}

// IsDataAlias reports whether the instruction's operand is a local data-section reference subject to rewriting.
func (i *Instruction) IsDataAlias() bool {
	switch i.Name {
	case InstructionPushDataSize, InstructionPushDataOffset, InstructionPushData:
		return true
	default:
		return false
	}
}

// ReplaceDataAliases rewrites the operand of every data-alias instruction whose local reference appears in
// indexPathMapping, replacing it with the referenced contract's fully-qualified path. All other instructions, and
// alias instructions with no matching local reference, are left untouched.
func ReplaceDataAliases(code []*Instruction, indexPathMapping map[string]string) {
	for _, instruction := range code {
		if instruction == nil || !instruction.IsDataAlias() {
			continue
		}

		// Operands may carry the reference either verbatim or without its zero extension.
		if fullPath, ok := indexPathMapping[instruction.Value]; ok {
			instruction.Value = fullPath
		} else if fullPath, ok = indexPathMapping[extendReference(instruction.Value)]; ok {
			instruction.Value = fullPath
		}
	}
}
