package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsflow/internal/domain"
	"kidsflow/internal/workflow"
)

func TestWorkflowService_FillsMissingRoute(t *testing.T) {
	up := &fakeUpstream{state: domain.WorkflowState{
		ProgressBySection: domain.ProgressBySection{HasChildProfile: true, ModerationCompletedCount: 1, ModerationTotal: 3},
	}}
	svc := NewWorkflowService(nil, up)

	state, err := svc.State(context.Background(), parentSess)
	require.NoError(t, err)
	assert.Equal(t, workflow.RouteModeration, state.NextRoute)
}

func TestWorkflowService_KeepsServerRoute(t *testing.T) {
	up := &fakeUpstream{state: domain.WorkflowState{
		NextRoute:         "/exit-survey?step=2",
		ProgressBySection: domain.ProgressBySection{HasChildProfile: true, ModerationCompletedCount: 3, ModerationTotal: 3},
	}}
	svc := NewWorkflowService(nil, up)

	state, err := svc.State(context.Background(), parentSess)
	require.NoError(t, err)
	assert.Equal(t, "/exit-survey?step=2", state.NextRoute)
}

func TestWorkflowService_AlwaysReadsFreshSnapshot(t *testing.T) {
	up := &fakeUpstream{state: domain.WorkflowState{
		ProgressBySection: domain.ProgressBySection{HasChildProfile: false},
	}}
	svc := NewWorkflowService(nil, up)

	first, err := svc.State(context.Background(), parentSess)
	require.NoError(t, err)
	assert.Equal(t, workflow.RouteChildProfile, first.NextRoute)

	up.state.ProgressBySection = domain.ProgressBySection{HasChildProfile: true, ModerationTotal: 0, ExitSurveyCompleted: true}
	second, err := svc.State(context.Background(), parentSess)
	require.NoError(t, err)
	assert.Equal(t, workflow.RouteCompletion, second.NextRoute)
}

func TestWorkflowService_FailureLocksNavigation(t *testing.T) {
	up := &fakeUpstream{stateErr: errors.New("connection refused")}
	svc := NewWorkflowService(nil, up)

	_, err := svc.State(context.Background(), parentSess)
	assert.ErrorIs(t, err, ErrWorkflowUnavailable)

	steps, err := svc.Steps(context.Background(), parentSess)
	assert.ErrorIs(t, err, ErrWorkflowUnavailable)
	require.Len(t, steps, 4)
	for _, s := range steps {
		assert.False(t, s.Accessible, s.Label)
	}

	ok, err := svc.CanAccess(context.Background(), parentSess, workflow.StepChildProfile)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestWorkflowService_StepsFromSnapshot(t *testing.T) {
	up := &fakeUpstream{state: domain.WorkflowState{
		NextRoute:         workflow.RouteExitSurvey,
		ProgressBySection: domain.ProgressBySection{HasChildProfile: true, ModerationCompletedCount: 2, ModerationTotal: 2},
	}}
	svc := NewWorkflowService(nil, up)

	steps, err := svc.Steps(context.Background(), parentSess)
	require.NoError(t, err)
	accessible := []bool{}
	for _, s := range steps {
		accessible = append(accessible, s.Accessible)
	}
	assert.Equal(t, []bool{true, true, true, false}, accessible)
}
