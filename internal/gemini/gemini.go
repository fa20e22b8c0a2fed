package gemini

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	DefaultModel = "gemini-1.5-flash"

	maxSummaryChars = 400
)

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("no response from Gemini")

// Item is one headline handed to the model.
type Item struct {
	Title   string
	Summary string
	Country string
}

type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{client: client, model: model}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Commentary asks the model for a short HTML digest of items and returns the
// fragment with any Markdown code fence removed.
func (c *Client) Commentary(ctx context.Context, items []Item) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.4)

	resp, err := model.GenerateContent(ctx, genai.Text(BuildPrompt(items)))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	text := responseText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return StripCodeFence(b.String())
}

// BuildPrompt renders the instruction followed by one numbered line per item.
func BuildPrompt(items []Item) string {
	var b strings.Builder
	b.WriteString(`You are the editor of a live Middle East and Caucasus news page.
Write a short analytical digest of the headlines below as an HTML fragment.

REQUIREMENTS:
- Use only <h3>, <p>, <ul>, <li>, <strong> and <em> tags.
- Group related headlines by country or theme, at most five groups.
- Do not invent facts that are not in the headlines.
- Do not wrap the answer in Markdown or code fences.

HEADLINES:
`)
	for i, it := range items {
		country := it.Country
		if country == "" {
			country = "Other"
		}
		fmt.Fprintf(&b, "%d. [%s] %s", i+1, country, strings.TrimSpace(it.Title))
		if s := truncate(strings.TrimSpace(it.Summary), maxSummaryChars); s != "" {
			b.WriteString(" :: ")
			b.WriteString(s)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, maxChars int) string {
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:maxChars])) + "…"
}

var fenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\\n?(.*?)\\n?```$")

// StripCodeFence removes a surrounding ``` or ```html fence.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}
