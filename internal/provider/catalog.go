package provider

// ModelInfo describes one selectable model for the UI layer.
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Info describes one backend family for the UI layer.
type Info struct {
	Kind           Kind        `json:"kind"`
	Name           string      `json:"name"`
	RequiresAPIKey bool        `json:"requires_api_key"`
	Models         []ModelInfo `json:"models"`
}

// Catalog lists the wired backend families and their suggested models.
func Catalog() []Info {
	return []Info{
		{
			Kind:           KindOpenAI,
			Name:           "OpenAI",
			RequiresAPIKey: true,
			Models: []ModelInfo{
				{ID: "gpt-4o-mini", Name: "GPT-4o mini", Description: "Fast and cost-effective model with good general capabilities."},
				{ID: "gpt-4o", Name: "GPT-4o", Description: "OpenAI's most capable model with advanced reasoning."},
			},
		},
		{
			Kind:           KindHuggingFace,
			Name:           "Hugging Face",
			RequiresAPIKey: true,
			Models: []ModelInfo{
				{ID: "google/flan-t5-base", Name: "Flan-T5 Base", Description: "A good general-purpose model for text generation and summarization."},
				{ID: "google/flan-t5-large", Name: "Flan-T5 Large", Description: "A larger Flan-T5 with better quality but slower processing."},
				{ID: "mistralai/Mistral-7B-Instruct-v0.2", Name: "Mistral 7B Instruct", Description: "A strong instruction-tuned open model."},
			},
		},
		{
			Kind:           KindOllama,
			Name:           "Local Models (Ollama)",
			RequiresAPIKey: false,
			Models: []ModelInfo{
				{ID: "llama3", Name: "Llama 3", Description: "Open model served by a local Ollama instance."},
				{ID: "mistral", Name: "Mistral", Description: "Open model served by a local Ollama instance."},
			},
		},
	}
}
