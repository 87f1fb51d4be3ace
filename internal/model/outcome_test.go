package model_test

import (
	"testing"

	"prompt-server/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestOutcome_DisplayText(t *testing.T) {
	tests := []struct {
		name    string
		outcome model.Outcome
		kind    model.OutcomeKind
		want    string
	}{
		{"zero value", model.Outcome{}, model.NotRequested, model.PlaceholderText},
		{"not requested", model.NotRequestedOutcome(), model.NotRequested, "Submit a prompt to see the response."},
		{"missing prompt", model.MissingPromptOutcome(), model.MissingPrompt, "Error: Prompt is missing."},
		{"success", model.SuccessOutcome("Hi there"), model.Success, "Hi there"},
		{
			"failure",
			model.FailureOutcome("quota exceeded"),
			model.Failure,
			"Error: Failed to get response from Gemini. Check your API key and server logs. Details: quota exceeded",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.outcome.Kind())
			assert.Equal(t, tt.want, tt.outcome.DisplayText())
		})
	}
}

func TestOutcome_SuccessKeepsTextVerbatim(t *testing.T) {
	text := "  line one\nline two  "
	o := model.SuccessOutcome(text)

	assert.Equal(t, text, o.Text())
	assert.Equal(t, text, o.DisplayText())
}

func TestOutcomeKind_String(t *testing.T) {
	assert.Equal(t, "not_requested", model.NotRequested.String())
	assert.Equal(t, "missing_prompt", model.MissingPrompt.String())
	assert.Equal(t, "success", model.Success.String())
	assert.Equal(t, "failure", model.Failure.String())
	assert.Equal(t, "unknown", model.OutcomeKind(42).String())
}
