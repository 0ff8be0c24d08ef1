// Package parser turns free-form model output into typed results.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"IceBreaker/backend/go/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
)

const formatTemplate = `The output should be formatted as a JSON instance that conforms to the JSON schema below.

As an example, for the schema {"properties": {"foo": {"title": "Foo", "description": "a list of strings", "type": "array", "items": {"type": "string"}}}, "required": ["foo"]}
the object {"foo": ["bar", "baz"]} is a well-formatted instance of the schema. The object {"properties": {"foo": ["bar", "baz"]}} is not well-formatted.

Here is the output schema:
` + "```" + `
%s
` + "```"

// ParseError reports model output that does not match the expected structure.
// It matches both models.ErrParse and the underlying cause under errors.Is.
type ParseError struct {
	Type string
	Raw  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Type, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{models.ErrParse, e.Err}
}

var errNoObject = errors.New("no JSON object found in output")

// Parser parses model output into T. It is safe for concurrent use.
type Parser[T any] struct {
	typeName     string
	instructions string
	validate     *validator.Validate
}

// New builds a Parser for T, deriving the format instructions from T's JSON schema.
func New[T any]() (*Parser[T], error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	var zero T
	schema := r.Reflect(&zero)
	schema.Version = ""
	schema.ID = ""

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema for %T: %w", zero, err)
	}
	return &Parser[T]{
		typeName:     fmt.Sprintf("%T", zero),
		instructions: fmt.Sprintf(formatTemplate, raw),
		validate:     validator.New(),
	}, nil
}

// FormatInstructions is the text to append to a prompt so the model answers in T's shape.
func (p *Parser[T]) FormatInstructions() string {
	return p.instructions
}

// Parse extracts the JSON object from text, decodes it into T and checks required fields.
// There is no retry and no repair of malformed output.
func (p *Parser[T]) Parse(text string) (*T, error) {
	obj, err := extractObject(text)
	if err != nil {
		return nil, &ParseError{Type: p.typeName, Raw: text, Err: err}
	}
	var out T
	if err := json.Unmarshal([]byte(obj), &out); err != nil {
		return nil, &ParseError{Type: p.typeName, Raw: text, Err: err}
	}
	if err := p.validate.Struct(&out); err != nil {
		return nil, &ParseError{Type: p.typeName, Raw: text, Err: err}
	}
	return &out, nil
}

// extractObject tolerates markdown fences and prose around a single JSON object.
func extractObject(text string) (string, error) {
	s := strings.TrimSpace(text)
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+3:]
		rest = strings.TrimPrefix(rest, "json")
		if j := strings.Index(rest, "```"); j >= 0 {
			s = rest[:j]
		}
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", errNoObject
	}
	return s[start : end+1], nil
}
