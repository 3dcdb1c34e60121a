package extract

// DefaultModel is pre-selected when the window opens.
const DefaultModel = "mistralai/Mistral-7B-Instruct-v0.2"

// Models is the fixed catalog surfaced in the model selector.
var Models = []string{
	"mistralai/Mistral-7B-Instruct-v0.2",
	"meta-llama/Llama-2-7b-chat-hf",
	"THUDM/chatglm2-6b",
	"mosaicml/mpt-7b-instruct",
}
