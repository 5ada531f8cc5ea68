package catalog

import (
	"fmt"

	"kidsflow/internal/domain"
)

var allGroups = []domain.AgeGroupID{
	domain.AgeGroup6To8,
	domain.AgeGroup9To12,
	domain.AgeGroup13To15,
	domain.AgeGroup16To18,
}

var olderGroups = []domain.AgeGroupID{
	domain.AgeGroup9To12,
	domain.AgeGroup13To15,
	domain.AgeGroup16To18,
}

var teenGroups = []domain.AgeGroupID{
	domain.AgeGroup13To15,
	domain.AgeGroup16To18,
}

var interfaceModes = []domain.InterfaceMode{
	{
		ID:             domain.ModeVoiceInput,
		Name:           "Voice Input",
		Description:    "Speak your questions using your microphone",
		Icon:           "🎤",
		PiagetStages:   allGroups,
		RecommendedFor: allGroups,
		AutoSelectFor:  allGroups,
	},
	{
		ID:             domain.ModeTextInput,
		Name:           "Text Input",
		Description:    "Type your questions in a text box",
		Icon:           "⌨️",
		PiagetStages:   allGroups,
		RecommendedFor: olderGroups,
		AutoSelectFor:  olderGroups,
	},
	{
		// Disponible para todos; auto-seleccionado solo desde 13.
		ID:             domain.ModePhotoUpload,
		Name:           "Photo Upload",
		Description:    "Take a picture or upload a photo of your assignment",
		Icon:           "📷",
		PiagetStages:   allGroups,
		RecommendedFor: teenGroups,
		AutoSelectFor:  teenGroups,
	},
	{
		ID:             domain.ModePromptButtons,
		Name:           "Prompt Buttons",
		Description:    "Choose from suggested questions and prompts",
		Icon:           "🔘",
		PiagetStages:   allGroups,
		RecommendedFor: allGroups,
		AutoSelectFor:  allGroups,
	},
}

const FeatureSchoolAssignment = "school_assignment"

var childFeatures = []domain.ChildFeature{
	{
		ID:             FeatureSchoolAssignment,
		Name:           "School Assignment",
		Description:    "Take a picture and upload assignments, get help with academic questions",
		Icon:           "📚",
		AgeGroups:      olderGroups,
		RecommendedFor: olderGroups,
		Capabilities: []domain.FeatureCapability{
			{
				ID:          "photo_upload",
				Name:        "Photo Upload",
				Description: "Take a picture and upload homework or assignments",
				Enabled:     true,
			},
			{
				ID:          "academic_help",
				Name:        "Academic Questions",
				Description: "Get help with school assignments and academic questions",
				Enabled:     true,
			},
		},
	},
}

// InterfaceModes devuelve el catálogo de modos.
func InterfaceModes() []domain.InterfaceMode {
	out := make([]domain.InterfaceMode, len(interfaceModes))
	copy(out, interfaceModes)
	return out
}

// ChildFeatures devuelve el catálogo de features.
func ChildFeatures() []domain.ChildFeature {
	out := make([]domain.ChildFeature, len(childFeatures))
	copy(out, childFeatures)
	return out
}

// ModeByID busca un modo por id.
func ModeByID(id domain.ModeID) (domain.InterfaceMode, bool) {
	for _, m := range interfaceModes {
		if m.ID == id {
			return m, true
		}
	}
	return domain.InterfaceMode{}, false
}

// FeatureByID busca una feature por id.
func FeatureByID(id string) (domain.ChildFeature, bool) {
	for _, f := range childFeatures {
		if f.ID == id {
			return f, true
		}
	}
	return domain.ChildFeature{}, false
}

func hasGroup(ids []domain.AgeGroupID, id domain.AgeGroupID) bool {
	for _, g := range ids {
		if g == id {
			return true
		}
	}
	return false
}

func filterModes(pick func(domain.InterfaceMode) []domain.AgeGroupID, g domain.AgeGroupID) []domain.InterfaceMode {
	out := []domain.InterfaceMode{}
	for _, m := range interfaceModes {
		if hasGroup(pick(m), g) {
			out = append(out, m)
		}
	}
	return out
}

func filterFeatures(pick func(domain.ChildFeature) []domain.AgeGroupID, g domain.AgeGroupID) []domain.ChildFeature {
	out := []domain.ChildFeature{}
	for _, f := range childFeatures {
		if hasGroup(pick(f), g) {
			out = append(out, f)
		}
	}
	return out
}

// AvailableModes filtra los modos habilitados para el rango.
func AvailableModes(g domain.AgeGroupID) []domain.InterfaceMode {
	return filterModes(func(m domain.InterfaceMode) []domain.AgeGroupID { return m.PiagetStages }, g)
}

// RecommendedModes filtra los modos recomendados para el rango.
func RecommendedModes(g domain.AgeGroupID) []domain.InterfaceMode {
	return filterModes(func(m domain.InterfaceMode) []domain.AgeGroupID { return m.RecommendedFor }, g)
}

// AutoSelectedModes devuelve los ids que se preseleccionan para el rango.
func AutoSelectedModes(g domain.AgeGroupID) []domain.ModeID {
	modes := filterModes(func(m domain.InterfaceMode) []domain.AgeGroupID { return m.AutoSelectFor }, g)
	ids := make([]domain.ModeID, 0, len(modes))
	for _, m := range modes {
		ids = append(ids, m.ID)
	}
	return ids
}

// AvailableFeatures filtra las features habilitadas para el rango.
func AvailableFeatures(g domain.AgeGroupID) []domain.ChildFeature {
	return filterFeatures(func(f domain.ChildFeature) []domain.AgeGroupID { return f.AgeGroups }, g)
}

// RecommendedFeatures filtra las features recomendadas para el rango.
func RecommendedFeatures(g domain.AgeGroupID) []domain.ChildFeature {
	return filterFeatures(func(f domain.ChildFeature) []domain.AgeGroupID { return f.RecommendedFor }, g)
}

// AvailableModesForAge es AvailableModes sobre una edad; vacío si no clasifica.
func AvailableModesForAge(age int) []domain.InterfaceMode {
	g, ok := ClassifyAge(age)
	if !ok {
		return []domain.InterfaceMode{}
	}
	return AvailableModes(g.ID)
}

func RecommendedModesForAge(age int) []domain.InterfaceMode {
	g, ok := ClassifyAge(age)
	if !ok {
		return []domain.InterfaceMode{}
	}
	return RecommendedModes(g.ID)
}

func AutoSelectedModesForAge(age int) []domain.ModeID {
	g, ok := ClassifyAge(age)
	if !ok {
		return []domain.ModeID{}
	}
	return AutoSelectedModes(g.ID)
}

func AvailableFeaturesForAge(age int) []domain.ChildFeature {
	g, ok := ClassifyAge(age)
	if !ok {
		return []domain.ChildFeature{}
	}
	return AvailableFeatures(g.ID)
}

func RecommendedFeaturesForAge(age int) []domain.ChildFeature {
	g, ok := ClassifyAge(age)
	if !ok {
		return []domain.ChildFeature{}
	}
	return RecommendedFeatures(g.ID)
}

func subset(sub, super []domain.AgeGroupID) bool {
	for _, id := range sub {
		if !hasGroup(super, id) {
			return false
		}
	}
	return true
}

// Check verifica los invariantes de inclusión del catálogo estático.
func Check() error {
	for _, m := range interfaceModes {
		if !subset(m.AutoSelectFor, m.RecommendedFor) {
			return fmt.Errorf("mode %s: auto_select_for not within recommended_for", m.ID)
		}
		if !subset(m.RecommendedFor, m.PiagetStages) {
			return fmt.Errorf("mode %s: recommended_for not within piaget_stages", m.ID)
		}
	}
	for _, f := range childFeatures {
		if !subset(f.RecommendedFor, f.AgeGroups) {
			return fmt.Errorf("feature %s: recommended_for not within age_groups", f.ID)
		}
		for _, id := range f.AgeGroups {
			if _, ok := AgeGroupByID(id); !ok {
				return fmt.Errorf("feature %s: unknown age group %s", f.ID, id)
			}
		}
	}
	return nil
}
