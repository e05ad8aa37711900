// Package agent is the AI fallback for facilities whose search snippets
// defeat the regex extractor: it hands the raw snippets to Claude and
// asks for the email convention directly. Agent-derived formats are
// always medium confidence and never override a regex-derived entry.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/provider-outreach/internal/email"
	"github.com/sells-group/provider-outreach/internal/model"
	"github.com/sells-group/provider-outreach/pkg/anthropic"
)

// maxSnippets caps how many organic snippets are sent per facility.
const maxSnippets = 5

const systemPrompt = `You are analyzing web search results to determine an organization's email address convention.

The recognized format templates are:
[first], [last], [first].[last], [first]_[last], [first]-[last], [first][last], [first_initial][last], [first][last_initial]

Respond with ONLY valid JSON, no other text:
{"format": "template or empty string if unknown", "domain": "lowercase domain or empty string"}`

type agentReply struct {
	Format string `json:"format"`
	Domain string `json:"domain"`
}

// Extractor infers email formats from snippets via Claude.
type Extractor struct {
	ai    anthropic.Client
	model string
}

// New creates an Extractor using the given model.
func New(ai anthropic.Client, model string) *Extractor {
	return &Extractor{ai: ai, model: model}
}

// Extract asks Claude for the facility's email convention. Returns
// (nil, nil) when the model cannot determine one; an error only for
// transport or parse failures, which callers treat as a skip.
func (e *Extractor) Extract(ctx context.Context, facilityKey string, results model.FacilityResults) (*model.EmailFormatRecord, error) {
	prompt := buildPrompt(facilityKey, results)
	if prompt == "" {
		return nil, nil
	}

	resp, err := e.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: 128,
		System:    systemPrompt,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, eris.Wrap(err, "agent: claude request")
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, eris.New("agent: empty claude response")
	}

	// The reply may have surrounding prose; take the outermost JSON.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, eris.Errorf("agent: no JSON in response: %s", text)
	}

	var reply agentReply
	if err := json.Unmarshal([]byte(text[start:end+1]), &reply); err != nil {
		return nil, eris.Wrap(err, "agent: parse response JSON")
	}

	format := model.Format(strings.TrimSpace(reply.Format))
	domain := strings.ToLower(strings.TrimSpace(reply.Domain))
	if !format.Known() || domain == "" {
		return nil, nil
	}

	return &model.EmailFormatRecord{
		Format:     format,
		Domain:     domain,
		Example:    email.Generate("Jane", "Doe", format, domain),
		Source:     "agent",
		SourceType: model.SourceAgent,
		Confidence: model.ConfidenceMedium,
	}, nil
}

// buildPrompt assembles the snippet context. Returns "" when there is
// nothing worth sending.
func buildPrompt(facilityKey string, results model.FacilityResults) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Organization: %s\n\nSearch results:\n", facilityKey)

	n := 0
	if ab := results.AnswerBox; ab != nil && ab.Snippet != "" {
		fmt.Fprintf(&b, "\n[answer box] %s\n%s\n", ab.Link, ab.Snippet)
		n++
	}
	for i, o := range results.Organic {
		if i >= maxSnippets {
			break
		}
		if o.Snippet == "" {
			continue
		}
		fmt.Fprintf(&b, "\n%d. %s\n%s\n", i+1, o.Link, o.Snippet)
		n++
	}

	if n == 0 {
		return ""
	}
	return b.String()
}
