package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/provider-outreach/internal/model"
	"github.com/sells-group/provider-outreach/pkg/anthropic"
)

// fakeAI returns a canned text block.
type fakeAI struct {
	reply string
	err   error
	last  anthropic.MessageRequest
}

func (f *fakeAI) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: f.reply}},
	}, nil
}

func testResults() model.FacilityResults {
	return model.FacilityResults{
		AnswerBox: &model.AnswerBox{Snippet: "emails look like jane.doe@acme.com", Link: "l"},
		Organic: []model.OrganicResult{
			{Link: "o1", Snippet: "some snippet"},
		},
	}
}

func TestExtract_ParsesReply(t *testing.T) {
	fake := &fakeAI{reply: `{"format": "[first].[last]", "domain": "acme.com"}`}
	e := New(fake, "claude-haiku-4-5-20251001")

	rec, err := e.Extract(context.Background(), "ACME HEALTH, SPRINGFIELD, IL", testResults())
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, model.FormatFirstDotLast, rec.Format)
	assert.Equal(t, "acme.com", rec.Domain)
	assert.Equal(t, "jane.doe@acme.com", rec.Example)
	assert.Equal(t, model.SourceAgent, rec.SourceType)
	assert.Equal(t, model.ConfidenceMedium, rec.Confidence)
	assert.Equal(t, "claude-haiku-4-5-20251001", fake.last.Model)
}

func TestExtract_ToleratesSurroundingProse(t *testing.T) {
	fake := &fakeAI{reply: "Sure! Here is the convention:\n{\"format\": \"[first_initial][last]\", \"domain\": \"acme.com\"}\nHope that helps."}
	e := New(fake, "m")

	rec, err := e.Extract(context.Background(), "K, C, S", testResults())
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, model.FormatFirstInitialLast, rec.Format)
}

func TestExtract_UnknownFormatReturnsNil(t *testing.T) {
	fake := &fakeAI{reply: `{"format": "[made-up]", "domain": "acme.com"}`}
	e := New(fake, "m")

	rec, err := e.Extract(context.Background(), "K, C, S", testResults())
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestExtract_EmptyReplyFields(t *testing.T) {
	fake := &fakeAI{reply: `{"format": "", "domain": ""}`}
	e := New(fake, "m")

	rec, err := e.Extract(context.Background(), "K, C, S", testResults())
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestExtract_NoJSONInReply(t *testing.T) {
	fake := &fakeAI{reply: "I cannot determine the format."}
	e := New(fake, "m")

	_, err := e.Extract(context.Background(), "K, C, S", testResults())
	assert.Error(t, err)
}

func TestExtract_TransportError(t *testing.T) {
	fake := &fakeAI{err: assert.AnError}
	e := New(fake, "m")

	_, err := e.Extract(context.Background(), "K, C, S", testResults())
	assert.Error(t, err)
}

func TestExtract_NoSnippetsSkipsCall(t *testing.T) {
	fake := &fakeAI{reply: `{"format": "[first]", "domain": "acme.com"}`}
	e := New(fake, "m")

	rec, err := e.Extract(context.Background(), "K, C, S", model.FacilityResults{})
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Empty(t, fake.last.Model, "no request should have been sent")
}

func TestBuildPrompt_CapsOrganicSnippets(t *testing.T) {
	results := model.FacilityResults{}
	for i := 0; i < 10; i++ {
		results.Organic = append(results.Organic, model.OrganicResult{Link: "l", Snippet: "s"})
	}
	prompt := buildPrompt("K", results)
	assert.Contains(t, prompt, "5. l")
	assert.NotContains(t, prompt, "6. l")
}
