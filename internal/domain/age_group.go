package domain

// AgeGroupID identifica un rango de edad ("6-8", "9-12", ...).
type AgeGroupID string

const (
	AgeGroup6To8   AgeGroupID = "6-8"
	AgeGroup9To12  AgeGroupID = "9-12"
	AgeGroup13To15 AgeGroupID = "13-15"
	AgeGroup16To18 AgeGroupID = "16-18"
)

// CognitiveLevel es la etapa de Piaget asociada a un rango de edad.
type CognitiveLevel string

const (
	CognitivePreoperational      CognitiveLevel = "preoperational"
	CognitiveConcreteOperational CognitiveLevel = "concrete_operational"
	CognitiveFormalOperational   CognitiveLevel = "formal_operational"
)

// AgeGroup es un rango de edad disjunto con su metadata de etapa cognitiva.
type AgeGroup struct {
	ID             AgeGroupID     `json:"id"`
	MinAge         int            `json:"min_age"`
	MaxAge         int            `json:"max_age"`
	Label          string         `json:"label"`         // "Ages 6-8"
	DisplayLabel   string         `json:"display_label"` // "6-8 years", usado en formularios
	CognitiveLevel CognitiveLevel `json:"cognitive_level"`
	Description    string         `json:"description,omitempty"`
}

// Contains indica si age cae dentro de [MinAge, MaxAge].
func (g AgeGroup) Contains(age int) bool {
	return age >= g.MinAge && age <= g.MaxAge
}

// Value es el número que se persiste para el grupo (el mínimo del rango).
func (g AgeGroup) Value() int {
	return g.MinAge
}
