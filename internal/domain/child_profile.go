package domain

// VirtualChildProfileID es el id del perfil sintético que recibe un usuario
// con rol child sin perfil en el backend.
const VirtualChildProfileID = "virtual-child-profile"

// ChildProfile es el perfil de un niño tal como lo devuelve el backend.
// SelectedInterfaceModes vacío significa "todos los modos" (default legacy);
// Normalize aplica esa regla una sola vez al cargar el perfil.
type ChildProfile struct {
	ID                       string   `json:"id"`
	UserID                   string   `json:"user_id"`
	Name                     string   `json:"name"`
	ChildAge                 *int     `json:"child_age,omitempty"`
	ChildGender              string   `json:"child_gender,omitempty"`
	ChildCharacteristics     string   `json:"child_characteristics,omitempty"`
	ChildEmail               string   `json:"child_email,omitempty"`
	IsOnlyChild              *bool    `json:"is_only_child,omitempty"`
	ChildHasAIUse            string   `json:"child_has_ai_use,omitempty"`
	ChildAIUseContexts       []string `json:"child_ai_use_contexts,omitempty"`
	ParentLLMMonitoringLevel string   `json:"parent_llm_monitoring_level,omitempty"`
	SessionNumber            *int     `json:"session_number,omitempty"`
	AttemptNumber            *int     `json:"attempt_number,omitempty"`
	IsCurrent                *bool    `json:"is_current,omitempty"`
	SelectedFeatures         []string `json:"selected_features"`
	SelectedInterfaceModes   []ModeID `json:"selected_interface_modes"`
	GeneratedPassword        string   `json:"generated_password,omitempty"`
	CreatedAt                int64    `json:"created_at"`
	UpdatedAt                int64    `json:"updated_at"`

	// ModesDefaulted queda en true cuando Normalize completó los modos vacíos.
	ModesDefaulted bool `json:"-"`
}

// ChildProfileForm es el payload de alta/edición de un perfil.
type ChildProfileForm struct {
	Name                     string   `json:"name" binding:"required"`
	ChildAge                 *int     `json:"child_age,omitempty"`
	ChildGender              string   `json:"child_gender,omitempty"`
	ChildCharacteristics     string   `json:"child_characteristics,omitempty"`
	ChildEmail               string   `json:"child_email,omitempty"`
	IsOnlyChild              *bool    `json:"is_only_child,omitempty"`
	ChildHasAIUse            string   `json:"child_has_ai_use,omitempty"`
	ChildAIUseContexts       []string `json:"child_ai_use_contexts,omitempty"`
	ParentLLMMonitoringLevel string   `json:"parent_llm_monitoring_level,omitempty"`
	SessionNumber            *int     `json:"session_number,omitempty"`
	SelectedFeatures         []string `json:"selected_features,omitempty"`
	SelectedInterfaceModes   []ModeID `json:"selected_interface_modes,omitempty"`
}

// Normalize devuelve una copia con los defaults legacy aplicados.
func (p ChildProfile) Normalize() ChildProfile {
	out := p
	out.SelectedFeatures = append([]string{}, p.SelectedFeatures...)
	if len(p.SelectedInterfaceModes) == 0 {
		out.SelectedInterfaceModes = AllModeIDs()
		out.ModesDefaulted = true
	} else {
		out.SelectedInterfaceModes = append([]ModeID{}, p.SelectedInterfaceModes...)
	}
	return out
}

// HasFeature indica si la feature está seleccionada.
func (p ChildProfile) HasFeature(id string) bool {
	for _, f := range p.SelectedFeatures {
		if f == id {
			return true
		}
	}
	return false
}

// HasMode indica si el modo está seleccionado. No aplica el default legacy;
// usar sobre un perfil normalizado.
func (p ChildProfile) HasMode(id ModeID) bool {
	for _, m := range p.SelectedInterfaceModes {
		if m == id {
			return true
		}
	}
	return false
}

// ApplyForm mezcla un formulario sobre el perfil (edición local sin backend).
func (p ChildProfile) ApplyForm(form ChildProfileForm, updatedAt int64) ChildProfile {
	out := p
	out.Name = form.Name
	out.ChildAge = form.ChildAge
	out.ChildGender = form.ChildGender
	out.ChildCharacteristics = form.ChildCharacteristics
	if form.ChildEmail != "" {
		out.ChildEmail = form.ChildEmail
	}
	out.IsOnlyChild = form.IsOnlyChild
	out.ChildHasAIUse = form.ChildHasAIUse
	out.ChildAIUseContexts = form.ChildAIUseContexts
	out.ParentLLMMonitoringLevel = form.ParentLLMMonitoringLevel
	if form.SessionNumber != nil {
		out.SessionNumber = form.SessionNumber
	}
	out.SelectedFeatures = form.SelectedFeatures
	out.SelectedInterfaceModes = form.SelectedInterfaceModes
	out.UpdatedAt = updatedAt
	return out
}
