package workflow

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsflow/internal/domain"
)

func progress(hasProfile bool, done, total int, survey bool) domain.ProgressBySection {
	return domain.ProgressBySection{
		HasChildProfile:          hasProfile,
		ModerationCompletedCount: done,
		ModerationTotal:          total,
		ExitSurveyCompleted:      survey,
	}
}

func TestDecide_Table(t *testing.T) {
	cases := []struct {
		name string
		p    domain.ProgressBySection
		want string
	}{
		{"no profile", progress(false, 0, 12, false), RouteChildProfile},
		{"no profile ignores other fields", progress(false, 12, 12, true), RouteChildProfile},
		{"moderation in progress", progress(true, 5, 12, false), RouteModeration},
		{"exit survey pending", progress(true, 12, 12, false), RouteExitSurvey},
		{"completed", progress(true, 12, 12, true), RouteCompletion},
		{"no scenarios assigned", progress(true, 0, 0, false), RouteExitSurvey},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decide(tc.p))
		})
	}
}

func TestStepRoutes(t *testing.T) {
	for _, step := range AllSteps() {
		assert.Equal(t, step, StepFromRoute(StepRoute(step)))
	}
	assert.Equal(t, StepModeration, StepFromRoute("/moderation-scenario/3"))
	assert.Equal(t, Step(0), StepFromRoute("/chat"))
	assert.Equal(t, RouteInstructions, StepRoute(0))
	assert.Equal(t, RouteInstructions, StepRoute(7))
	assert.Equal(t, "Unknown", StepLabel(9))
	assert.Equal(t, "Exit Survey", StepLabel(StepExitSurvey))
}

func TestIsStepCompleted(t *testing.T) {
	s := domain.WorkflowState{NextRoute: RouteExitSurvey, ProgressBySection: progress(true, 12, 12, false)}
	assert.True(t, IsStepCompleted(StepChildProfile, s))
	assert.True(t, IsStepCompleted(StepModeration, s))
	assert.False(t, IsStepCompleted(StepExitSurvey, s))
	assert.False(t, IsStepCompleted(StepCompletion, s))
	assert.False(t, IsStepCompleted(0, s))

	s.ProgressBySection.ExitSurveyCompleted = true
	assert.True(t, IsStepCompleted(StepCompletion, s))
}

func TestCanAccessStep_NoSkipForward(t *testing.T) {
	s := domain.WorkflowState{NextRoute: RouteModeration, ProgressBySection: progress(true, 5, 12, false)}
	assert.True(t, CanAccessStep(StepChildProfile, s), "finished steps are revisitable")
	assert.True(t, CanAccessStep(StepModeration, s), "current step is accessible")
	assert.False(t, CanAccessStep(StepExitSurvey, s))
	assert.False(t, CanAccessStep(StepCompletion, s))
	assert.False(t, CanAccessStep(0, s))
	assert.False(t, CanAccessStep(5, s))
}

func TestCanAccessStep_ModerationNeedsProfile(t *testing.T) {
	routes := []string{RouteChildProfile, RouteModeration, RouteExitSurvey, RouteCompletion, ""}
	for _, route := range routes {
		for total := 0; total <= 3; total++ {
			for done := 0; done <= total; done++ {
				for _, survey := range []bool{false, true} {
					s := domain.WorkflowState{NextRoute: route, ProgressBySection: progress(false, done, total, survey)}
					assert.Falsef(t, CanAccessStep(StepModeration, s), "state %+v", s)
				}
			}
		}
	}
}

func TestCanAccessStep_HardPreconditionsBeatStaleRoute(t *testing.T) {
	// next_route adelantado respecto del progreso: las precondiciones ganan.
	s := domain.WorkflowState{NextRoute: RouteCompletion, ProgressBySection: progress(true, 12, 12, false)}
	assert.False(t, CanAccessStep(StepCompletion, s))
	assert.True(t, CanAccessStep(StepExitSurvey, s))

	s = domain.WorkflowState{NextRoute: RouteExitSurvey, ProgressBySection: progress(true, 3, 12, false)}
	assert.False(t, CanAccessStep(StepExitSurvey, s))
}

func TestCanAccessStep_ProfileStepWithStaleRoute(t *testing.T) {
	s := domain.WorkflowState{NextRoute: RouteChildProfile, ProgressBySection: progress(true, 0, 12, false)}
	assert.True(t, CanAccessStep(StepChildProfile, s))
	// El perfil existe pero el backend no avanzó next_route: no se salta hacia adelante.
	assert.False(t, CanAccessStep(StepModeration, s))
}

func TestCanAccessStep_CompletedImpliesAccessible(t *testing.T) {
	var checked int
	for _, hasProfile := range []bool{false, true} {
		for total := 1; total <= 4; total++ {
			for done := 0; done <= total; done++ {
				for _, survey := range []bool{false, true} {
					p := progress(hasProfile, done, total, survey)
					require.True(t, p.Valid())
					if !p.Sequential() {
						continue
					}
					routes := []string{Decide(p), RouteChildProfile, RouteModeration, RouteExitSurvey, RouteCompletion}
					for _, route := range routes {
						s := domain.WorkflowState{NextRoute: route, ProgressBySection: p}
						for _, step := range AllSteps() {
							if IsStepCompleted(step, s) {
								checked++
								assert.Truef(t, CanAccessStep(step, s), "step %d completed but inaccessible: %+v", step, s)
							}
						}
					}
				}
			}
		}
	}
	require.Greater(t, checked, 0)
}

func TestCanAccessStep_CurrentRouteIsAccessibleForDecidedStates(t *testing.T) {
	for _, hasProfile := range []bool{false, true} {
		for total := 0; total <= 3; total++ {
			for done := 0; done <= total; done++ {
				for _, survey := range []bool{false, true} {
					p := progress(hasProfile, done, total, survey)
					s := domain.WorkflowState{NextRoute: Decide(p), ProgressBySection: p}
					step := StepFromRoute(s.NextRoute)
					assert.True(t, CanAccessStep(step, s), fmt.Sprintf("%+v", s))
				}
			}
		}
	}
}

func TestSteps_ViewAndLocked(t *testing.T) {
	s := domain.WorkflowState{NextRoute: RouteExitSurvey, ProgressBySection: progress(true, 12, 12, false)}
	views := Steps(s)
	require.Len(t, views, 4)
	assert.True(t, views[2].Current)
	assert.True(t, views[2].Accessible)
	assert.False(t, views[2].Completed)
	assert.False(t, views[3].Accessible)

	for _, v := range Locked() {
		assert.False(t, v.Accessible)
		assert.False(t, v.Completed)
		assert.NotEmpty(t, v.Route)
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, StateNoChildProfile, Classify(progress(false, 0, 1, false)))
	assert.Equal(t, StateModerationInProgress, Classify(progress(true, 0, 1, false)))
	assert.Equal(t, StateExitSurveyPending, Classify(progress(true, 1, 1, false)))
	assert.Equal(t, StateCompleted, Classify(progress(true, 1, 1, true)))
}
