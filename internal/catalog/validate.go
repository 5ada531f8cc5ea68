package catalog

import "kidsflow/internal/domain"

// ValidationResult indica qué ids seleccionados no corresponden a la edad.
type ValidationResult struct {
	Valid      bool     `json:"valid"`
	InvalidIDs []string `json:"invalid_ids"`
}

func validate(selected []string, available map[string]struct{}) ValidationResult {
	invalid := []string{}
	for _, id := range selected {
		if _, ok := available[id]; !ok {
			invalid = append(invalid, id)
		}
	}
	return ValidationResult{Valid: len(invalid) == 0, InvalidIDs: invalid}
}

// ValidateModesForAge marca como inválido todo modo no disponible para la
// edad. Si la edad no clasifica, todos los ids son inválidos.
func ValidateModesForAge(selected []domain.ModeID, age int) ValidationResult {
	available := map[string]struct{}{}
	for _, m := range AvailableModesForAge(age) {
		available[string(m.ID)] = struct{}{}
	}
	ids := make([]string, 0, len(selected))
	for _, id := range selected {
		ids = append(ids, string(id))
	}
	return validate(ids, available)
}

// ValidateFeaturesForAge es el equivalente para features de contenido.
func ValidateFeaturesForAge(selected []string, age int) ValidationResult {
	available := map[string]struct{}{}
	for _, f := range AvailableFeaturesForAge(age) {
		available[f.ID] = struct{}{}
	}
	return validate(selected, available)
}
