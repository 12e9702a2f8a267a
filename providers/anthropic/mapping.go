package anthropic

import (
	"strings"

	"github.com/petal-labs/voiceprint/core"
)

// buildRequest creates a Messages request. The system prompt is a top-level
// field; only the user turn goes into messages.
func (p *Anthropic) buildRequest(req *core.Request) *anthropicRequest {
	return &anthropicRequest{
		Model:     string(req.Model),
		MaxTokens: p.config.MaxTokens,
		System:    req.SystemMessage,
		Messages: []anthropicMessage{
			{Role: string(core.RoleUser), Content: req.UserMessage},
		},
	}
}

// firstText returns the first non-empty block with type "text".
func firstText(resp *anthropicResponse) (string, bool) {
	for _, block := range resp.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return block.Text, true
		}
	}
	return "", false
}
