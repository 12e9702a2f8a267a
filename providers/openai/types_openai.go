package openai

// openAIRequest represents a request to the chat completions API.
type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

// openAIMessage represents a message in the OpenAI format.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIResponse represents a response from the chat completions API.
type openAIResponse struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Choices []openAIChoice `json:"choices"`
}

// openAIChoice represents a single choice in a response.
type openAIChoice struct {
	Index        int           `json:"index"`
	Message      openAIRespMsg `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

// openAIRespMsg represents the assistant message in a response.
// Content is a pointer because some compatible servers send null.
type openAIRespMsg struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

// openAIModelList is the body of GET /models.
type openAIModelList struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}
