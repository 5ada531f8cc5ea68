package catalog

import (
	"regexp"
	"strconv"

	"kidsflow/internal/domain"
)

// ageGroups son los rangos alineados con las etapas de Piaget. Ordenados,
// disjuntos y sin huecos entre 6 y 18.
var ageGroups = []domain.AgeGroup{
	{
		ID:             domain.AgeGroup6To8,
		MinAge:         6,
		MaxAge:         8,
		Label:          "Ages 6-8",
		DisplayLabel:   "6-8 years",
		CognitiveLevel: domain.CognitivePreoperational,
		Description:    "Preoperational stage: Magical thinking, egocentric, literal, limited writing skills",
	},
	{
		ID:             domain.AgeGroup9To12,
		MinAge:         9,
		MaxAge:         12,
		Label:          "Ages 9-12",
		DisplayLabel:   "9-12 years",
		CognitiveLevel: domain.CognitiveConcreteOperational,
		Description:    "Concrete operational stage: Logical about concrete situations, rule-based reasoning, developing writing fluency",
	},
	{
		ID:             domain.AgeGroup13To15,
		MinAge:         13,
		MaxAge:         15,
		Label:          "Ages 13-15",
		DisplayLabel:   "13-15 years",
		CognitiveLevel: domain.CognitiveFormalOperational,
		Description:    "Early formal operational stage: Beginning abstract reasoning, can consider counterfactuals, more independence",
	},
	{
		ID:             domain.AgeGroup16To18,
		MinAge:         16,
		MaxAge:         18,
		Label:          "Ages 16-18",
		DisplayLabel:   "16-18 years",
		CognitiveLevel: domain.CognitiveFormalOperational,
		Description:    "Formal operational stage: Abstract/hypothetical reasoning, metacognition, adult-like interaction",
	},
}

var firstNumber = regexp.MustCompile(`\d+`)

// AgeGroups devuelve una copia de la tabla de rangos.
func AgeGroups() []domain.AgeGroup {
	out := make([]domain.AgeGroup, len(ageGroups))
	copy(out, ageGroups)
	return out
}

// AgeGroupByID busca un rango por id.
func AgeGroupByID(id domain.AgeGroupID) (domain.AgeGroup, bool) {
	for _, g := range ageGroups {
		if g.ID == id {
			return g, true
		}
	}
	return domain.AgeGroup{}, false
}

// ClassifyAge devuelve el único rango que contiene age. false fuera de 6-18:
// el llamador debe tratarlo como "edad desconocida" y denegar.
func ClassifyAge(age int) (domain.AgeGroup, bool) {
	for _, g := range ageGroups {
		if g.Contains(age) {
			return g, true
		}
	}
	return domain.AgeGroup{}, false
}

// ParseAge extrae el primer entero de una descripción libre ("9 years old").
func ParseAge(description string) (int, bool) {
	match := firstNumber.FindString(description)
	if match == "" {
		return 0, false
	}
	age, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return age, true
}

// ParseAgeDescription combina ParseAge y ClassifyAge.
func ParseAgeDescription(description string) (domain.AgeGroup, bool) {
	age, ok := ParseAge(description)
	if !ok {
		return domain.AgeGroup{}, false
	}
	return ClassifyAge(age)
}

// AgeGroupForValue busca el rango cuyo valor persistido (mínimo) es value.
func AgeGroupForValue(value int) (domain.AgeGroup, bool) {
	for _, g := range ageGroups {
		if g.Value() == value {
			return g, true
		}
	}
	return domain.AgeGroup{}, false
}

// AgeLabel devuelve la etiqueta de formulario ("6-8 years") de un valor persistido.
func AgeLabel(value int) (string, bool) {
	g, ok := AgeGroupForValue(value)
	if !ok {
		return "", false
	}
	return g.DisplayLabel, true
}

// AgeValueFromLabel es la inversa de AgeLabel.
func AgeValueFromLabel(label string) (int, bool) {
	for _, g := range ageGroups {
		if g.DisplayLabel == label {
			return g.Value(), true
		}
	}
	return 0, false
}
