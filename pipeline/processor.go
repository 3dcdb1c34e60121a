// Package pipeline implements the extraction contract against a locally
// running Ollama server and xlsx workbooks. Inference itself happens in the
// external server; everything here is transport, workbook plumbing, and
// reply parsing.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

const defaultOllamaHost = "http://localhost:11434"

// ollamaTags maps the catalog model identifiers onto Ollama model tags.
var ollamaTags = map[string]string{
	"mistralai/Mistral-7B-Instruct-v0.2": "mistral:7b-instruct",
	"meta-llama/Llama-2-7b-chat-hf":      "llama2:7b-chat",
	"THUDM/chatglm2-6b":                  "chatglm2:6b",
	"mosaicml/mpt-7b-instruct":           "mpt:7b-instruct",
}

// ollamaTag resolves a catalog identifier to the server-side model tag.
// use8Bit picks the q8_0 quantization of the same model. Unknown
// identifiers pass through lowercased so a user-pulled tag still works.
func ollamaTag(model string, use8Bit bool) string {
	tag, ok := ollamaTags[model]
	if !ok {
		if i := strings.LastIndex(model, "/"); i >= 0 {
			model = model[i+1:]
		}
		tag = strings.ToLower(model)
	}
	if use8Bit {
		tag += "-q8_0"
	}
	return tag
}

// OllamaProcessor satisfies extract.Processor by delegating generation to
// an Ollama server.
type OllamaProcessor struct {
	llm *ollama.LLM
	tag string
}

// NewOllamaProcessor connects to the server named by OLLAMA_HOST (default
// http://localhost:11434) and binds the requested model.
func NewOllamaProcessor(_ context.Context, model string, use8Bit bool) (*OllamaProcessor, error) {
	host := os.Getenv("OLLAMA_HOST")
	if host == "" {
		host = defaultOllamaHost
	}
	host = strings.TrimSuffix(host, "/")

	tag := ollamaTag(model, use8Bit)
	llm, err := ollama.New(ollama.WithModel(tag), ollama.WithServerURL(host))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &OllamaProcessor{llm: llm, tag: tag}, nil
}

// Generate sends one prompt and returns the raw completion text.
func (p *OllamaProcessor) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.llm.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeHuman, prompt),
		},
		llms.WithTemperature(0.1),
		llms.WithMaxTokens(256),
	)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from model %s", p.tag)
	}
	return resp.Choices[0].Content, nil
}
