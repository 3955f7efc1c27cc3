package compiler

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AST is the abstract syntax tree solc attaches to a compiled source file. The raw tree is preserved verbatim so
// the report round-trips byte-compatibly; analyzers access it through Walk.
type AST struct {
	raw json.RawMessage
}

// UnmarshalJSON captures the raw tree.
func (a *AST) UnmarshalJSON(b []byte) error {
	a.raw = append(json.RawMessage(nil), b...)
	return nil
}

// MarshalJSON emits the raw tree unchanged.
func (a AST) MarshalJSON() ([]byte, error) {
	if a.raw == nil {
		return []byte("null"), nil
	}
	return a.raw, nil
}

// Walk invokes the visitor for every JSON object node of the tree, parents before children. The visitor must not
// retain the node map beyond the call.
func (a *AST) Walk(visit func(node map[string]any)) error {
	var root any
	if err := json.Unmarshal(a.raw, &root); err != nil {
		return fmt.Errorf("failed to decode the AST: %v", err)
	}
	walkASTValue(root, visit)
	return nil
}

// walkASTValue recursively descends into objects and arrays, visiting every object node. Object children are
// traversed in sorted key order, so visit order is deterministic across runs.
func walkASTValue(value any, visit func(node map[string]any)) {
	switch typedValue := value.(type) {
	case map[string]any:
		visit(typedValue)
		for _, key := range sortedKeys(typedValue) {
			walkASTValue(typedValue[key], visit)
		}
	case []any:
		for _, child := range typedValue {
			walkASTValue(child, visit)
		}
	}
}

// ASTAnalyzer produces supplemental diagnostic messages from a source file's AST. Analyzers are collaborators of
// the diagnostics aggregation: the aggregator tags and merges whatever they emit, and an analyzer failure aborts
// the whole aggregation step.
type ASTAnalyzer interface {
	// Analyze returns the diagnostics derived from the given AST. Returned messages need not carry a file path;
	// the aggregator tags them with the originating source file afterwards.
	Analyze(ast *AST) ([]*Error, error)
}

// ValueTransferAnalyzer flags `.send` and `.transfer` member accesses. Their fixed gas stipend makes the callee
// fail on targets where basic transfers cost more than 2300 gas, so their use is surfaced as a warning.
type ValueTransferAnalyzer struct{}

// flaggedMemberNames are the member accesses the analyzer reports.
var flaggedMemberNames = map[string]struct{}{
	"send":     {},
	"transfer": {},
}

// Analyze walks the AST and emits one warning per flagged member access.
func (v ValueTransferAnalyzer) Analyze(ast *AST) ([]*Error, error) {
	var messages []*Error
	err := ast.Walk(func(node map[string]any) {
		nodeType, ok := node["nodeType"].(string)
		if !ok || nodeType != "MemberAccess" {
			return
		}
		memberName, ok := node["memberName"].(string)
		if !ok {
			return
		}
		if _, flagged := flaggedMemberNames[memberName]; !flagged {
			return
		}

		message := NewWarning(fmt.Sprintf(
			"`%v` is called with a fixed gas stipend and may fail on targets where transfers cost more gas; "+
				"consider using `call` with an explicit gas value instead", memberName))
		if location := sourceLocationFromNode(node); location != nil {
			message.SourceLocation = location
		}
		messages = append(messages, message)
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// sourceLocationFromNode converts a node's "start:length:file" src attribute into a source location, or nil when
// the attribute is missing or malformed. The file component is an index, not a path; the aggregator fills the path
// in afterwards.
func sourceLocationFromNode(node map[string]any) *SourceLocation {
	src, ok := node["src"].(string)
	if !ok {
		return nil
	}
	parts := strings.Split(src, ":")
	if len(parts) != 3 {
		return nil
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil
	}
	length, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil
	}
	return &SourceLocation{Start: start, End: start + length}
}
