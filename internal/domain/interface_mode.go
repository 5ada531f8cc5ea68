package domain

// ModeID identifica un modo de interacción con el chat.
type ModeID string

const (
	ModeVoiceInput    ModeID = "voice_input"
	ModeTextInput     ModeID = "text_input"
	ModePhotoUpload   ModeID = "photo_upload"
	ModePromptButtons ModeID = "prompt_buttons"
)

// AllModeIDs devuelve todos los modos en orden de catálogo.
func AllModeIDs() []ModeID {
	return []ModeID{ModeVoiceInput, ModeTextInput, ModePhotoUpload, ModePromptButtons}
}

// InterfaceMode describe COMO puede interactuar un niño con el chat.
// Invariante: AutoSelectFor ⊆ RecommendedFor ⊆ PiagetStages.
type InterfaceMode struct {
	ID             ModeID       `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	Icon           string       `json:"icon,omitempty"`
	PiagetStages   []AgeGroupID `json:"piaget_stages"`
	RecommendedFor []AgeGroupID `json:"recommended_for"`
	AutoSelectFor  []AgeGroupID `json:"auto_select_for"`
}
