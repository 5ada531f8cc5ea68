package domain

// FeatureCapability es una capacidad concreta dentro de una feature.
type FeatureCapability struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
}

// ChildFeature describe QUE contenido puede usar un niño (p.ej. ayuda con tareas).
type ChildFeature struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	Icon           string              `json:"icon,omitempty"`
	AgeGroups      []AgeGroupID        `json:"age_groups"`
	RecommendedFor []AgeGroupID        `json:"recommended_for"`
	Capabilities   []FeatureCapability `json:"capabilities"`
}

// Capability busca una capacidad por id.
func (f ChildFeature) Capability(id string) (FeatureCapability, bool) {
	for _, c := range f.Capabilities {
		if c.ID == id {
			return c, true
		}
	}
	return FeatureCapability{}, false
}
