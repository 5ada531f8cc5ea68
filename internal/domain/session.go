package domain

const (
	RoleChild  = "child"
	RoleParent = "parent"
	RoleAdmin  = "admin"
	RoleUser   = "user"
)

// Session es la identidad del usuario autenticado para el request en curso.
// Token es el bearer que se reenvía al backend upstream.
type Session struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role"`
	Token  string `json:"-"`
}

// UserSettings es el bloque "ui" de /users/user/settings.
// SelectedChildID es la única fuente de verdad del hijo seleccionado.
type UserSettings struct {
	UI map[string]any `json:"ui,omitempty"`
}

// SelectedChildID lee ui.selectedChildId.
func (s UserSettings) SelectedChildID() (string, bool) {
	if s.UI == nil {
		return "", false
	}
	raw, ok := s.UI["selectedChildId"]
	if !ok {
		return "", false
	}
	id, ok := raw.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// WithSelectedChildID devuelve settings con el puntero actualizado; id vacío lo elimina.
func (s UserSettings) WithSelectedChildID(id string) UserSettings {
	ui := make(map[string]any, len(s.UI)+1)
	for k, v := range s.UI {
		ui[k] = v
	}
	if id == "" {
		delete(ui, "selectedChildId")
	} else {
		ui["selectedChildId"] = id
	}
	return UserSettings{UI: ui}
}
