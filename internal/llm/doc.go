// Package llm abstracts the language-model reasoning capability behind the
// Client interface and provides an implementation for OpenAI-compatible
// chat completion APIs. Groq is the default provider.
package llm
