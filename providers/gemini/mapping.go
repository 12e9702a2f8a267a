package gemini

import (
	"strings"

	"github.com/petal-labs/voiceprint/core"
)

// buildRequest creates a generateContent request from a canonical request.
func buildRequest(req *core.Request) *geminiRequest {
	return &geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: req.SystemMessage}},
		},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.UserMessage}}},
		},
	}
}

// candidateText returns the first non-thought text part of the first candidate.
func candidateText(resp *geminiResponse) (string, bool) {
	if len(resp.Candidates) == 0 {
		return "", false
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Thought != nil && *part.Thought {
			continue
		}
		if strings.TrimSpace(part.Text) != "" {
			return part.Text, true
		}
	}
	return "", false
}

// blockedReason reports why a 200 response carries no text because of safety filtering.
func blockedReason(resp *geminiResponse) (string, bool) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return resp.PromptFeedback.BlockReason, true
	}
	if len(resp.Candidates) > 0 {
		switch reason := resp.Candidates[0].FinishReason; reason {
		case "SAFETY", "PROHIBITED_CONTENT", "BLOCKLIST", "SPII", "RECITATION":
			return reason, true
		}
	}
	return "", false
}
