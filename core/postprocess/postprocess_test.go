package postprocess

import (
	"testing"

	"github.com/modelgate/modelgate/aierrors"
	"github.com/modelgate/modelgate/providers/ai"
)

func chatResult(contents ...string) *ai.GenerationResult {
	result := &ai.GenerationResult{Object: ai.ObjectChatCompletion, ID: "r1"}
	for i, content := range contents {
		result.Choices = append(result.Choices, ai.Choice{
			Index:   i,
			Message: ai.Message{Role: ai.RoleAssistant, Content: content},
		})
	}
	return result
}

func thinkingSettings(policy ai.MissingTagPolicy) ai.ResolvedSettings {
	return ai.ResolvedSettings{
		Thinking: ai.ResolvedThinking{Enabled: true, TagName: "thinking", OnMissingTag: policy},
	}
}

func TestSplitThinking(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		tag           string
		wantExtracted string
		wantRemainder string
		wantFound     bool
	}{
		{
			name:          "leading block",
			content:       "<thinking>plan the answer</thinking>Paris.",
			tag:           "thinking",
			wantExtracted: "plan the answer",
			wantRemainder: "Paris.",
			wantFound:     true,
		},
		{
			name:          "leading whitespace tolerated",
			content:       "\n  <thinking>hm</thinking>\n\nParis.",
			tag:           "thinking",
			wantExtracted: "hm",
			wantRemainder: "Paris.",
			wantFound:     true,
		},
		{
			name:          "tag mid-text does not count",
			content:       "Paris. <thinking>late musing</thinking>",
			tag:           "thinking",
			wantRemainder: "Paris. <thinking>late musing</thinking>",
		},
		{
			name:          "unclosed tag",
			content:       "<thinking>never closed... Paris.",
			tag:           "thinking",
			wantRemainder: "<thinking>never closed... Paris.",
		},
		{
			name:          "custom tag name",
			content:       "<scratchpad>notes</scratchpad>done",
			tag:           "scratchpad",
			wantExtracted: "notes",
			wantRemainder: "done",
			wantFound:     true,
		},
		{
			name:          "wrong tag name",
			content:       "<scratchpad>notes</scratchpad>done",
			tag:           "thinking",
			wantRemainder: "<scratchpad>notes</scratchpad>done",
		},
		{
			name:          "empty block",
			content:       "<thinking></thinking>Paris.",
			tag:           "thinking",
			wantExtracted: "",
			wantRemainder: "Paris.",
			wantFound:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extracted, remainder, found := SplitThinking(tt.content, tt.tag)
			if found != tt.wantFound {
				t.Fatalf("found: got %v, want %v", found, tt.wantFound)
			}
			if extracted != tt.wantExtracted {
				t.Errorf("extracted: got %q, want %q", extracted, tt.wantExtracted)
			}
			if remainder != tt.wantRemainder {
				t.Errorf("remainder: got %q, want %q", remainder, tt.wantRemainder)
			}
		})
	}
}

func TestApplyExtractsIntoReasoning(t *testing.T) {
	p := New(nil)
	result := chatResult("<thinking>consider geography</thinking>Paris.")

	result, envelope := p.Apply(result, thinkingSettings(ai.MissingTagError))
	if envelope != nil {
		t.Fatalf("expected success, got %v", envelope)
	}
	msg := result.Choices[0].Message
	if msg.Content != "Paris." {
		t.Errorf("Content: got %q, want %q", msg.Content, "Paris.")
	}
	if msg.Reasoning != "consider geography" {
		t.Errorf("Reasoning: got %q, want %q", msg.Reasoning, "consider geography")
	}
}

func TestApplyPreservesNativeReasoning(t *testing.T) {
	p := New(nil)
	result := chatResult("<thinking>extracted part</thinking>Paris.")
	result.Choices[0].Message.Reasoning = "native part"

	result, envelope := p.Apply(result, thinkingSettings(ai.MissingTagError))
	if envelope != nil {
		t.Fatalf("expected success, got %v", envelope)
	}
	reasoning := result.Choices[0].Message.Reasoning
	want := "native part" + extractionMarker + "extracted part"
	if reasoning != want {
		t.Errorf("Reasoning: got %q, want native content first, then the extracted block", reasoning)
	}
}

func TestApplyMissingTagPolicies(t *testing.T) {
	tests := []struct {
		name     string
		settings ai.ResolvedSettings
		wantErr  bool
	}{
		{name: "error", settings: thinkingSettings(ai.MissingTagError), wantErr: true},
		{name: "warn", settings: thinkingSettings(ai.MissingTagWarn)},
		{name: "ignore", settings: thinkingSettings(ai.MissingTagIgnore)},
		{
			name: "auto with native reasoning active",
			settings: func() ai.ResolvedSettings {
				s := thinkingSettings(ai.MissingTagAuto)
				s.Reasoning = &ai.ResolvedReasoning{Enabled: true}
				return s
			}(),
		},
		{name: "auto without native reasoning", settings: thinkingSettings(ai.MissingTagAuto), wantErr: true},
		{
			name: "auto with reasoning present but disabled",
			settings: func() ai.ResolvedSettings {
				s := thinkingSettings(ai.MissingTagAuto)
				s.Reasoning = &ai.ResolvedReasoning{Enabled: false}
				return s
			}(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(nil)
			result := chatResult("Paris, no tag here.")

			returned, envelope := p.Apply(result, tt.settings)
			if returned == nil {
				t.Fatal("Apply must always return the result, even on failure")
			}
			if !tt.wantErr {
				if envelope != nil {
					t.Fatalf("expected no envelope, got %v", envelope)
				}
				return
			}
			if envelope == nil {
				t.Fatal("expected a missing-tag envelope")
			}
			if envelope.Code != aierrors.CodeMissingExpectedTag {
				t.Errorf("Code: got %q, want %q", envelope.Code, aierrors.CodeMissingExpectedTag)
			}
		})
	}
}

func TestApplyPartialExtraction(t *testing.T) {
	// One choice carries the tag, one does not: the error policy still fails
	// the request, but the tagged choice is already rewritten.
	p := New(nil)
	result := chatResult("<thinking>a</thinking>first", "second without tag")

	returned, envelope := p.Apply(result, thinkingSettings(ai.MissingTagError))
	if envelope == nil {
		t.Fatal("expected a missing-tag envelope")
	}
	if returned.Choices[0].Message.Reasoning != "a" {
		t.Errorf("tagged choice should be extracted, got %+v", returned.Choices[0].Message)
	}
}

func TestApplySkips(t *testing.T) {
	p := New(nil)

	t.Run("extraction disabled", func(t *testing.T) {
		result := chatResult("<thinking>x</thinking>y")
		settings := ai.ResolvedSettings{Thinking: ai.ResolvedThinking{Enabled: false, OnMissingTag: ai.MissingTagError}}
		returned, envelope := p.Apply(result, settings)
		if envelope != nil {
			t.Fatalf("expected no envelope, got %v", envelope)
		}
		if returned.Choices[0].Message.Content != "<thinking>x</thinking>y" {
			t.Error("disabled extraction must leave the content untouched")
		}
	})

	t.Run("image result", func(t *testing.T) {
		result := &ai.GenerationResult{Object: ai.ObjectImageResult, Data: []ai.ImageData{{URL: "u"}}}
		returned, envelope := p.Apply(result, thinkingSettings(ai.MissingTagError))
		if envelope != nil || len(returned.Data) != 1 {
			t.Errorf("image results pass through untouched, got %v %v", returned, envelope)
		}
	})

	t.Run("nil result", func(t *testing.T) {
		returned, envelope := p.Apply(nil, thinkingSettings(ai.MissingTagError))
		if returned != nil || envelope != nil {
			t.Errorf("nil in, nil out: got %v %v", returned, envelope)
		}
	})
}
