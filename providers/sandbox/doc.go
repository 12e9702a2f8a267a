// Package sandbox implements the zero-configuration provider.
//
// The sandbox is reached through an in-process chat SDK rather than a raw
// HTTP call: the adapter hands the SDK a system and a user message plus a
// model name and reads response.message.content back. The default SDK is
// backed by github.com/openai/openai-go pointed at the sandbox's
// OpenAI-compatible gateway; tests and embedders can supply their own ChatSDK.
//
// The sandbox is the only provider whose errors are fallback-eligible.
// Exhausted free usage, an expired session and a temporary outage all mean the
// user should be offered another provider instead of a retry.
package sandbox
