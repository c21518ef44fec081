// Package openai implements the ai interfaces against OpenAI-compatible
// embedding APIs.
//
// It works with any service that speaks the OpenAI embeddings protocol,
// including local servers such as Ollama, LocalAI, and vLLM. The client is
// built on langchaingo's openai LLM and embeddings wrappers.
package openai
