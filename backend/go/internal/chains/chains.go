// Package chains renders prompts, calls the model and parses the answers
// for the three generated sections of an ice-break result.
package chains

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"IceBreaker/backend/go/internal/llm"
	"IceBreaker/backend/go/internal/models"
	"IceBreaker/backend/go/internal/parser"
)

const summaryPrompt = `given the information about a person from linkedin {{.Information}},
and their latest twitter posts {{.TwitterPosts}} I want you to create:
1. a short summary
2. two interesting facts about them

Use both information from twitter and Linkedin
{{.FormatInstructions}}
`

const interestsPrompt = `given the information about a person from linkedin {{.Information}},
and twitter posts {{.TwitterPosts}} I want you to create:
3 topics that might interest them
{{.FormatInstructions}}
`

const iceBreakerPrompt = `given the information about a person from linkedin {{.Information}},
and twitter posts {{.TwitterPosts}} I want you to create:
2 creative Ice breakers with them that are derived from their activity on Linkedin and twitter, preferably on latest tweets
{{.FormatInstructions}}
`

// ChainInput is what every chain is invoked with.
type ChainInput struct {
	Profile models.ProfileRecord
	Posts   []models.Post
}

type promptData struct {
	Information        string
	TwitterPosts       string
	FormatInstructions string
}

// Chain is one prompt → model → parser pipeline producing T.
type Chain[T any] struct {
	name   string
	prompt *template.Template
	model  llm.LLM
	parser *parser.Parser[T]
}

func newChain[T any](name, prompt string, model llm.LLM) (*Chain[T], error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(prompt)
	if err != nil {
		return nil, fmt.Errorf("parse %s prompt: %w", name, err)
	}
	p, err := parser.New[T]()
	if err != nil {
		return nil, err
	}
	return &Chain[T]{name: name, prompt: tmpl, model: model, parser: p}, nil
}

// NewSummaryChain produces a short summary and two facts.
func NewSummaryChain(model llm.LLM) (*Chain[models.Summary], error) {
	return newChain[models.Summary]("summary", summaryPrompt, model)
}

// NewInterestsChain produces three topics of interest.
func NewInterestsChain(model llm.LLM) (*Chain[models.TopicOfInterest], error) {
	return newChain[models.TopicOfInterest]("interests", interestsPrompt, model)
}

// NewIceBreakerChain produces two ice breakers.
func NewIceBreakerChain(model llm.LLM) (*Chain[models.IceBreaker], error) {
	return newChain[models.IceBreaker]("ice_breakers", iceBreakerPrompt, model)
}

// Name identifies the chain in logs.
func (c *Chain[T]) Name() string { return c.name }

// Render fills the prompt template for in.
func (c *Chain[T]) Render(in ChainInput) (string, error) {
	info, err := json.Marshal(in.Profile)
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}
	posts := in.Posts
	if posts == nil {
		posts = []models.Post{}
	}
	tweets, err := json.Marshal(posts)
	if err != nil {
		return "", fmt.Errorf("encode posts: %w", err)
	}
	var buf bytes.Buffer
	err = c.prompt.Execute(&buf, promptData{
		Information:        string(info),
		TwitterPosts:       string(tweets),
		FormatInstructions: c.parser.FormatInstructions(),
	})
	if err != nil {
		return "", fmt.Errorf("render %s prompt: %w", c.name, err)
	}
	return buf.String(), nil
}

// Invoke renders the prompt, calls the model once and parses its answer.
func (c *Chain[T]) Invoke(ctx context.Context, in ChainInput) (*T, error) {
	prompt, err := c.Render(in)
	if err != nil {
		return nil, err
	}
	resp, err := c.model.GenerateContent(ctx, models.NewTextRequest(prompt))
	if err != nil {
		return nil, models.WrapUpstream(c.name+" generation", err)
	}
	return c.parser.Parse(resp.Text())
}
