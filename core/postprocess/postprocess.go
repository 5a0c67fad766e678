// Package postprocess rewrites adapter responses after execution. Its one
// concern is thinking extraction: relocating a leading tagged block from the
// visible completion content into the reasoning field, for models that lack
// a native reasoning channel and were instead instructed to emit their
// reasoning inside a tag.
package postprocess

import (
	"strings"

	"github.com/modelgate/modelgate/aierrors"
	"github.com/modelgate/modelgate/providers/ai"
	"github.com/modelgate/modelgate/providers/observability"
)

// extractionMarker separates natively-produced reasoning from extracted
// reasoning when both are present.
const extractionMarker = "\n\n--- extracted from response ---\n\n"

// Processor applies thinking extraction to chat results.
type Processor struct {
	logger observability.Logger
}

// New creates a response post-processor.
func New(logger observability.Logger) *Processor {
	return &Processor{logger: observability.OrNop(logger)}
}

// Apply runs thinking extraction on result according to the resolved
// settings. It mutates the request-scoped result in place and returns it.
// A non-nil envelope means the whole request must fail (missing-tag policy
// "error"); the partially processed result is still returned so the caller
// can attach it for diagnostics.
func (p *Processor) Apply(result *ai.GenerationResult, settings ai.ResolvedSettings) (*ai.GenerationResult, *aierrors.Envelope) {
	if result == nil || !settings.Thinking.Enabled || result.Object != ai.ObjectChatCompletion {
		return result, nil
	}

	tag := settings.Thinking.TagName
	missing := 0
	for i := range result.Choices {
		if !extractChoice(&result.Choices[i], tag) {
			missing++
		}
	}
	if missing == 0 {
		return result, nil
	}

	switch p.effectivePolicy(settings) {
	case ai.MissingTagIgnore:
		return result, nil
	case ai.MissingTagWarn:
		p.logger.Warn("expected thinking tag missing from response",
			observability.String("tag", tag),
			observability.Int("choices_missing", missing))
		return result, nil
	default: // error
		return result, aierrors.Newf(aierrors.CodeMissingExpectedTag, aierrors.TypeInvalidRequest,
			"response is missing the expected leading <%s> block", tag)
	}
}

// effectivePolicy resolves the auto policy: a tag instruction is only
// mandatory when the model has no other channel for exposing its reasoning,
// so auto becomes ignore when native reasoning was active for this request
// and error otherwise.
func (p *Processor) effectivePolicy(settings ai.ResolvedSettings) ai.MissingTagPolicy {
	policy := settings.Thinking.OnMissingTag
	if policy != ai.MissingTagAuto {
		return policy
	}
	if settings.Reasoning != nil && settings.Reasoning.Enabled {
		return ai.MissingTagIgnore
	}
	return ai.MissingTagError
}

// extractChoice moves a leading <tag>...</tag> block from the choice content
// into its reasoning field. Reports whether a block was found.
func extractChoice(choice *ai.Choice, tag string) bool {
	extracted, remainder, found := SplitThinking(choice.Message.Content, tag)
	if !found {
		return false
	}

	choice.Message.Content = remainder
	if choice.Message.Reasoning != "" {
		// Never overwrite reasoning that arrived through a native channel.
		choice.Message.Reasoning += extractionMarker + extracted
	} else {
		choice.Message.Reasoning = extracted
	}
	return true
}

// SplitThinking splits content into the body of a leading tagged block and
// the remaining visible content. Only a block at the very start of the
// content (ignoring leading whitespace) counts; a tag later in the text is
// left alone.
func SplitThinking(content, tag string) (extracted, remainder string, found bool) {
	openTag := "<" + tag + ">"
	closeTag := "</" + tag + ">"

	trimmed := strings.TrimLeft(content, " \t\r\n")
	if !strings.HasPrefix(trimmed, openTag) {
		return "", content, false
	}

	rest := trimmed[len(openTag):]
	end := strings.Index(rest, closeTag)
	if end < 0 {
		return "", content, false
	}

	extracted = strings.TrimSpace(rest[:end])
	remainder = strings.TrimLeft(rest[end+len(closeTag):], " \t\r\n")
	return extracted, remainder, true
}
