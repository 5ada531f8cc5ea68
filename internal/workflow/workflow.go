// Package workflow decide la ruta y la navegabilidad de los cuatro pasos del
// estudio a partir del snapshot de progreso que reporta el backend. Todas las
// funciones son puras: no guardan estado entre llamadas.
package workflow

import (
	"strings"

	"kidsflow/internal/domain"
)

// Step es un paso del flujo (1-4).
type Step int

const (
	StepChildProfile Step = 1
	StepModeration   Step = 2
	StepExitSurvey   Step = 3
	StepCompletion   Step = 4
)

const (
	RouteChildProfile = "/kids/profile"
	RouteModeration   = "/moderation-scenario"
	RouteExitSurvey   = "/exit-survey"
	RouteCompletion   = "/completion"
	// RouteInstructions es la ruta de fallback para pasos desconocidos.
	RouteInstructions = "/assignment-instructions"
)

// State es el estado del flujo derivado del progreso.
type State string

const (
	StateNoChildProfile       State = "no_child_profile"
	StateModerationInProgress State = "moderation_in_progress"
	StateExitSurveyPending    State = "exit_survey_pending"
	StateCompleted            State = "completed"
)

// AllSteps devuelve los pasos en orden.
func AllSteps() []Step {
	return []Step{StepChildProfile, StepModeration, StepExitSurvey, StepCompletion}
}

// Classify mapea el progreso a su estado (primera regla que aplica).
func Classify(p domain.ProgressBySection) State {
	switch {
	case !p.HasChildProfile:
		return StateNoChildProfile
	case p.ModerationCompletedCount < p.ModerationTotal:
		return StateModerationInProgress
	case !p.ExitSurveyCompleted:
		return StateExitSurveyPending
	default:
		return StateCompleted
	}
}

// StateStep devuelve el paso que corresponde a un estado.
func StateStep(s State) Step {
	switch s {
	case StateNoChildProfile:
		return StepChildProfile
	case StateModerationInProgress:
		return StepModeration
	case StateExitSurveyPending:
		return StepExitSurvey
	default:
		return StepCompletion
	}
}

// Decide calcula la ruta canónica siguiente para el progreso dado.
func Decide(p domain.ProgressBySection) string {
	return StepRoute(StateStep(Classify(p)))
}

// StepRoute devuelve la ruta de un paso.
func StepRoute(step Step) string {
	switch step {
	case StepChildProfile:
		return RouteChildProfile
	case StepModeration:
		return RouteModeration
	case StepExitSurvey:
		return RouteExitSurvey
	case StepCompletion:
		return RouteCompletion
	default:
		return RouteInstructions
	}
}

// StepFromRoute resuelve el paso de una ruta por prefijo; 0 si no es del flujo.
func StepFromRoute(route string) Step {
	switch {
	case strings.HasPrefix(route, RouteChildProfile):
		return StepChildProfile
	case strings.HasPrefix(route, RouteModeration):
		return StepModeration
	case strings.HasPrefix(route, RouteExitSurvey):
		return StepExitSurvey
	case strings.HasPrefix(route, RouteCompletion):
		return StepCompletion
	default:
		return 0
	}
}

// StepLabel devuelve la etiqueta visible del paso.
func StepLabel(step Step) string {
	switch step {
	case StepChildProfile:
		return "Child Profile"
	case StepModeration:
		return "Moderation"
	case StepExitSurvey:
		return "Exit Survey"
	case StepCompletion:
		return "Completion"
	default:
		return "Unknown"
	}
}

// IsStepCompleted indica si el paso está terminado según el snapshot.
func IsStepCompleted(step Step, state domain.WorkflowState) bool {
	p := state.ProgressBySection
	switch step {
	case StepChildProfile:
		return p.HasChildProfile
	case StepModeration:
		return p.ModerationDone()
	case StepExitSurvey, StepCompletion:
		return p.ExitSurveyCompleted
	default:
		return false
	}
}

// preconditionMet evalúa las precondiciones duras de cada paso. Ninguna otra
// regla puede abrir un paso cuya precondición falla.
func preconditionMet(step Step, p domain.ProgressBySection) bool {
	switch step {
	case StepChildProfile:
		return true
	case StepModeration:
		return p.HasChildProfile
	case StepExitSurvey:
		return p.ModerationDone()
	case StepCompletion:
		return p.ExitSurveyCompleted
	default:
		return false
	}
}

func isCurrentRoute(step Step, nextRoute string) bool {
	route := StepRoute(step)
	return nextRoute == route || strings.HasPrefix(nextRoute, route)
}

// CanAccessStep indica si el usuario puede navegar al paso: el paso actual y
// los pasos completados sí, los pasos futuros no.
func CanAccessStep(step Step, state domain.WorkflowState) bool {
	p := state.ProgressBySection
	if !preconditionMet(step, p) {
		return false
	}
	if isCurrentRoute(step, state.NextRoute) {
		return true
	}
	if IsStepCompleted(step, state) {
		return true
	}

	current := StepFromRoute(state.NextRoute)
	switch step {
	case StepChildProfile, StepModeration:
		// Ya pasamos por aquí si next_route apunta a un paso posterior.
		return current > step
	case StepExitSurvey:
		return current >= StepExitSurvey
	case StepCompletion:
		return current == StepCompletion
	default:
		return false
	}
}

// StepView es la representación de un paso para la navegación.
type StepView struct {
	Step       Step   `json:"step"`
	Label      string `json:"label"`
	Route      string `json:"route"`
	Completed  bool   `json:"completed"`
	Accessible bool   `json:"accessible"`
	Current    bool   `json:"current"`
}

// Steps arma la vista de los cuatro pasos para el snapshot.
func Steps(state domain.WorkflowState) []StepView {
	views := make([]StepView, 0, 4)
	for _, step := range AllSteps() {
		views = append(views, StepView{
			Step:       step,
			Label:      StepLabel(step),
			Route:      StepRoute(step),
			Completed:  IsStepCompleted(step, state),
			Accessible: CanAccessStep(step, state),
			Current:    isCurrentRoute(step, state.NextRoute),
		})
	}
	return views
}

// Locked es la vista cuando el snapshot no se pudo cargar: nada es navegable.
func Locked() []StepView {
	views := make([]StepView, 0, 4)
	for _, step := range AllSteps() {
		views = append(views, StepView{
			Step:  step,
			Label: StepLabel(step),
			Route: StepRoute(step),
		})
	}
	return views
}
