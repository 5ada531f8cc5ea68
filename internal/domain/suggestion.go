package domain

// PromptSuggestion es una sugerencia de pregunta que se muestra como botón.
type PromptSuggestion struct {
	Title   [2]string `json:"title"`
	Content string    `json:"content"`
}
