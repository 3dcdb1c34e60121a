package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOllamaTag_Catalog(t *testing.T) {
	tests := []struct {
		model   string
		use8Bit bool
		want    string
	}{
		{"mistralai/Mistral-7B-Instruct-v0.2", false, "mistral:7b-instruct"},
		{"mistralai/Mistral-7B-Instruct-v0.2", true, "mistral:7b-instruct-q8_0"},
		{"meta-llama/Llama-2-7b-chat-hf", false, "llama2:7b-chat"},
		{"meta-llama/Llama-2-7b-chat-hf", true, "llama2:7b-chat-q8_0"},
		{"THUDM/chatglm2-6b", false, "chatglm2:6b"},
		{"mosaicml/mpt-7b-instruct", false, "mpt:7b-instruct"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ollamaTag(tt.model, tt.use8Bit), tt.model)
	}
}

func TestOllamaTag_UnknownPassesThrough(t *testing.T) {
	assert.Equal(t, "my-custom:latest", ollamaTag("someone/My-Custom:latest", false))
	assert.Equal(t, "phi3-q8_0", ollamaTag("phi3", true))
}
