package chat

import "github.com/kepler-college/campusbot/internal/llm"

const (
	// SystemPrompt is sent as the system-role message of every request.
	SystemPrompt = "You are a helpful assistant for Kepler College."
	// Preamble introduces the Q&A context inside the user-role message.
	Preamble = "You are Kepler CampusBot. Use this Q&A to help answer:"
	// Temperature is fixed for every completion.
	Temperature = 0.5
)

// BuildPrompt assembles the user-role prompt from the context blob and the
// question.
func BuildPrompt(contextBlob, question string) string {
	return Preamble + "\n" + contextBlob + "\n\nUser: " + question + "\nAnswer:"
}

// BuildRequest wraps the prompt with the system instruction. Earlier turns of
// the transcript are deliberately not included.
func BuildRequest(model, contextBlob, question string) llm.CompletionRequest {
	return llm.CompletionRequest{
		Model: model,
		Messages: []llm.Message{
			llm.SystemMessage(SystemPrompt),
			llm.UserMessage(BuildPrompt(contextBlob, question)),
		},
		Temperature: Temperature,
	}
}
