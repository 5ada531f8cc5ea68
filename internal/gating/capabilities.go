package gating

import (
	"kidsflow/internal/catalog"
	"kidsflow/internal/domain"
)

// Capabilities responde qué features y modos puede usar la sesión.
type Capabilities struct {
	gated   bool
	profile *domain.ChildProfile
}

// NewCapabilities arma el set de capacidades para un rol y su perfil resuelto.
// Roles que no son child ni parent no tienen gating. child/parent sin perfil
// niegan todo.
func NewCapabilities(role string, profile *domain.ChildProfile) Capabilities {
	c := Capabilities{gated: role == domain.RoleChild || role == domain.RoleParent}
	if profile != nil {
		p := profile.Normalize()
		c.profile = &p
	}
	return c
}

func (c Capabilities) Gated() bool {
	return c.gated
}

// Profile devuelve el perfil normalizado, o nil.
func (c Capabilities) Profile() *domain.ChildProfile {
	return c.profile
}

func (c Capabilities) IsFeatureEnabled(featureID string) bool {
	if !c.gated {
		return true
	}
	if c.profile == nil {
		return false
	}
	return c.profile.HasFeature(featureID)
}

func (c Capabilities) IsInterfaceModeEnabled(mode domain.ModeID) bool {
	if !c.gated {
		return true
	}
	if c.profile == nil {
		return false
	}
	return c.profile.HasMode(mode)
}

// IsCapabilityEnabled exige la feature habilitada y la capacidad declarada en
// el catálogo.
func (c Capabilities) IsCapabilityEnabled(featureID, capabilityID string) bool {
	if !c.IsFeatureEnabled(featureID) {
		return false
	}
	feature, ok := catalog.FeatureByID(featureID)
	if !ok {
		return false
	}
	_, ok = feature.Capability(capabilityID)
	return ok
}

// EnabledModes lista los modos habilitados en el orden del catálogo.
func (c Capabilities) EnabledModes() []domain.ModeID {
	out := []domain.ModeID{}
	for _, id := range domain.AllModeIDs() {
		if c.IsInterfaceModeEnabled(id) {
			out = append(out, id)
		}
	}
	return out
}

// EnabledFeatures lista las features habilitadas que existen en el catálogo.
func (c Capabilities) EnabledFeatures() []string {
	out := []string{}
	for _, f := range catalog.ChildFeatures() {
		if c.IsFeatureEnabled(f.ID) {
			out = append(out, f.ID)
		}
	}
	return out
}
