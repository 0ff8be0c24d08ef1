package parser

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"IceBreaker/backend/go/internal/models"
)

func TestFormatInstructionsDescribeSchema(t *testing.T) {
	p, err := New[models.Summary]()
	if err != nil {
		t.Fatal(err)
	}
	got := p.FormatInstructions()
	for _, want := range []string{
		"conforms to the JSON schema below",
		`"summary"`,
		`"facts"`,
		"interesting facts about them",
		`"required":["summary","facts"]`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("format instructions missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "$defs") || strings.Contains(got, "$ref") {
		t.Errorf("schema should be inlined:\n%s", got)
	}
}

func TestParse(t *testing.T) {
	p, err := New[models.IceBreaker]()
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		in   string
	}{
		{"plain", `{"ice_breakers": ["a", "b"]}`},
		{"fenced", "```json\n{\"ice_breakers\": [\"a\", \"b\"]}\n```"},
		{"prose", "Sure! Here you go:\n{\"ice_breakers\": [\"a\", \"b\"]}\nHope this helps."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if !reflect.DeepEqual(got.IceBreakers, []string{"a", "b"}) {
				t.Errorf("got %+v", got)
			}
		})
	}
}

func TestParseFailures(t *testing.T) {
	p, err := New[models.Summary]()
	if err != nil {
		t.Fatal(err)
	}
	for _, in := range []string{
		"I cannot help with that.",
		`{"summary": "x", "facts": [1, 2]}`,
		`{"facts": ["a"]}`,
		`{"summary": "x"}`,
		`{"summary": "x", "facts": `,
	} {
		_, err := p.Parse(in)
		if !errors.Is(err, models.ErrParse) {
			t.Errorf("Parse(%q) = %v, want ErrParse", in, err)
		}
		var pe *ParseError
		if !errors.As(err, &pe) || pe.Raw != in {
			t.Errorf("expected *ParseError carrying raw output, got %v", err)
		}
	}
}
