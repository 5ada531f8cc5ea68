package domain

// ProgressBySection es el progreso por sección que reporta el backend.
// Invariante: 0 <= ModerationCompletedCount <= ModerationTotal.
type ProgressBySection struct {
	HasChildProfile          bool `json:"has_child_profile"`
	ModerationCompletedCount int  `json:"moderation_completed_count"`
	ModerationTotal          int  `json:"moderation_total"`
	ExitSurveyCompleted      bool `json:"exit_survey_completed"`
}

// Valid verifica el invariante de conteos.
func (p ProgressBySection) Valid() bool {
	return p.ModerationCompletedCount >= 0 && p.ModerationCompletedCount <= p.ModerationTotal
}

// ModerationDone indica si todos los escenarios de moderación están completos.
func (p ProgressBySection) ModerationDone() bool {
	return p.ModerationCompletedCount >= p.ModerationTotal
}

// Sequential indica que el progreso respeta el orden de pasos: no hay
// moderación completa sin perfil ni encuesta sin moderación.
func (p ProgressBySection) Sequential() bool {
	if p.ExitSurveyCompleted && !p.ModerationDone() {
		return false
	}
	if p.ModerationCompletedCount > 0 && !p.HasChildProfile {
		return false
	}
	if p.ExitSurveyCompleted && !p.HasChildProfile {
		return false
	}
	return true
}

// WorkflowState es el snapshot de GET /workflow/state. Se consume en modo lectura.
type WorkflowState struct {
	NextRoute         string            `json:"next_route"`
	Substep           *string           `json:"substep,omitempty"`
	ProgressBySection ProgressBySection `json:"progress_by_section"`
}
