package yul

import (
	"fmt"
	"strings"
)

// Parser is the structural IR parser: it extracts the object tree out of optimized Yul text, leaving code bodies
// as raw text. It satisfies the project package's IRParser interface.
type Parser struct{}

// NewParser returns a structural IR parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses the IR text into an *Object. The returned value is typed `any` to satisfy the parser collaborator
// interface consumed by project assembly.
func (p *Parser) Parse(text string) (any, error) {
	return ParseObject(text)
}

// ParseObject parses the top-level Yul object of the IR text.
func ParseObject(text string) (*Object, error) {
	cursor := &cursor{text: text}
	cursor.skipTrivia()
	object, err := cursor.parseObject()
	if err != nil {
		return nil, err
	}
	cursor.skipTrivia()
	if !cursor.atEnd() {
		return nil, cursor.errorf("unexpected trailing input after the top-level object")
	}
	return object, nil
}

// cursor tracks a position within the IR text.
type cursor struct {
	text   string
	offset int
}

// parseObject parses `object "name" { code {...} [object ...]* [data "name" literal]* }` at the cursor.
func (c *cursor) parseObject() (*Object, error) {
	if !c.consumeKeyword("object") {
		return nil, c.errorf("expected the `object` keyword")
	}
	c.skipTrivia()

	name, err := c.parseStringLiteral()
	if err != nil {
		return nil, err
	}
	object := &Object{Name: name}

	c.skipTrivia()
	if !c.consumeByte('{') {
		return nil, c.errorf("expected `{` after the object name")
	}

	for {
		c.skipTrivia()
		switch {
		case c.consumeByte('}'):
			return object, nil
		case c.consumeKeyword("code"):
			c.skipTrivia()
			block, err := c.parseBlock()
			if err != nil {
				return nil, err
			}
			if object.Code != "" {
				return nil, c.errorf("object `%v` carries more than one code block", name)
			}
			object.Code = block
		case c.peekKeyword("object"):
			nested, err := c.parseObject()
			if err != nil {
				return nil, err
			}
			object.Objects = append(object.Objects, nested)
		case c.consumeKeyword("data"):
			c.skipTrivia()
			dataName, err := c.parseStringLiteral()
			if err != nil {
				return nil, err
			}
			c.skipTrivia()
			payload, err := c.parseDataLiteral()
			if err != nil {
				return nil, err
			}
			if object.Data == nil {
				object.Data = make(map[string]string)
			}
			object.Data[dataName] = payload
		case c.atEnd():
			return nil, c.errorf("unexpected end of input inside object `%v`", name)
		default:
			return nil, c.errorf("unexpected input inside object `%v`", name)
		}
	}
}

// parseBlock captures a balanced `{ ... }` block as raw text, braces included. String literals and comments inside
// the block are skipped over so their brace characters do not unbalance the capture.
func (c *cursor) parseBlock() (string, error) {
	if c.atEnd() || c.text[c.offset] != '{' {
		return "", c.errorf("expected `{` to open a code block")
	}
	start := c.offset
	depth := 0
	for !c.atEnd() {
		switch c.text[c.offset] {
		case '{':
			depth++
			c.offset++
		case '}':
			depth--
			c.offset++
			if depth == 0 {
				return c.text[start:c.offset], nil
			}
		case '"':
			if _, err := c.parseStringLiteral(); err != nil {
				return "", err
			}
		case '/':
			if !c.skipComment() {
				c.offset++
			}
		default:
			c.offset++
		}
	}
	return "", c.errorf("unexpected end of input inside a code block")
}

// parseStringLiteral parses a double-quoted string at the cursor, handling backslash escapes.
func (c *cursor) parseStringLiteral() (string, error) {
	if c.atEnd() || c.text[c.offset] != '"' {
		return "", c.errorf("expected a string literal")
	}
	c.offset++
	var builder strings.Builder
	for !c.atEnd() {
		ch := c.text[c.offset]
		switch ch {
		case '"':
			c.offset++
			return builder.String(), nil
		case '\\':
			if c.offset+1 >= len(c.text) {
				return "", c.errorf("unterminated escape sequence")
			}
			builder.WriteByte(c.text[c.offset+1])
			c.offset += 2
		case '\n':
			return "", c.errorf("unterminated string literal")
		default:
			builder.WriteByte(ch)
			c.offset++
		}
	}
	return "", c.errorf("unterminated string literal")
}

// parseDataLiteral parses the payload of a data entry: either a plain string literal or a hex string of the form
// hex"abcdef".
func (c *cursor) parseDataLiteral() (string, error) {
	if c.consumeKeyword("hex") {
		return c.parseStringLiteral()
	}
	return c.parseStringLiteral()
}

// skipTrivia advances the cursor past whitespace and comments.
func (c *cursor) skipTrivia() {
	for !c.atEnd() {
		ch := c.text[c.offset]
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			c.offset++
			continue
		}
		if ch == '/' && c.skipComment() {
			continue
		}
		return
	}
}

// skipComment skips a `//` or `/* */` comment at the cursor, reporting whether one was present.
func (c *cursor) skipComment() bool {
	if strings.HasPrefix(c.text[c.offset:], "//") {
		end := strings.IndexByte(c.text[c.offset:], '\n')
		if end < 0 {
			c.offset = len(c.text)
		} else {
			c.offset += end + 1
		}
		return true
	}
	if strings.HasPrefix(c.text[c.offset:], "/*") {
		end := strings.Index(c.text[c.offset+2:], "*/")
		if end < 0 {
			c.offset = len(c.text)
		} else {
			c.offset += end + 4
		}
		return true
	}
	return false
}

// consumeKeyword consumes the given identifier at the cursor, reporting whether it was present.
func (c *cursor) consumeKeyword(keyword string) bool {
	if !c.peekKeyword(keyword) {
		return false
	}
	c.offset += len(keyword)
	return true
}

// peekKeyword reports whether the given identifier starts at the cursor, without consuming it.
func (c *cursor) peekKeyword(keyword string) bool {
	if !strings.HasPrefix(c.text[c.offset:], keyword) {
		return false
	}
	// The next character must not extend the identifier.
	next := c.offset + len(keyword)
	if next < len(c.text) {
		ch := c.text[next]
		if ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			return false
		}
	}
	return true
}

// consumeByte consumes the given byte at the cursor, reporting whether it was present.
func (c *cursor) consumeByte(b byte) bool {
	if c.atEnd() || c.text[c.offset] != b {
		return false
	}
	c.offset++
	return true
}

// atEnd reports whether the cursor has consumed the whole text.
func (c *cursor) atEnd() bool {
	return c.offset >= len(c.text)
}

// errorf builds a ParseError at the cursor's current line and column.
func (c *cursor) errorf(format string, args ...any) error {
	line := 1 + strings.Count(c.text[:c.offset], "\n")
	column := c.offset - strings.LastIndexByte(c.text[:c.offset], '\n')
	return &ParseError{Line: line, Column: column, Message: fmt.Sprintf(format, args...)}
}
