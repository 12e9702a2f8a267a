// Package ollama implements the self-hosted Ollama adapter.
//
// Generation goes through Ollama's OpenAI-compatible endpoint, so the adapter
// reuses providers/openai for the chat call. What is specific to Ollama is
// the native model listing:
//
//	GET http://localhost:11434/api/tags
//
// used by preflight to tell "server not running" apart from "model not
// pulled", and the pull hint added to model-not-found errors.
//
// The configured base URL is the OpenAI-compatible one (ending in /v1);
// TagsURL derives the native listing URL from it.
package ollama
