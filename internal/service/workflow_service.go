package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"kidsflow/internal/domain"
	"kidsflow/internal/workflow"
)

var ErrWorkflowUnavailable = errors.New("workflow state unavailable")

// WorkflowSource entrega el snapshot de progreso del backend.
type WorkflowSource interface {
	GetWorkflowState(ctx context.Context, token string) (domain.WorkflowState, error)
}

// WorkflowService expone el estado del flujo. No guarda snapshots: cada
// consulta va al backend.
type WorkflowService struct {
	logger *zap.Logger
	source WorkflowSource
}

func NewWorkflowService(logger *zap.Logger, source WorkflowSource) *WorkflowService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkflowService{logger: logger, source: source}
}

// State trae un snapshot fresco. Si el backend no informa next_route se
// completa con la decisión local.
func (s *WorkflowService) State(ctx context.Context, sess domain.Session) (domain.WorkflowState, error) {
	if s.source == nil {
		return domain.WorkflowState{}, ErrWorkflowUnavailable
	}
	state, err := s.source.GetWorkflowState(ctx, sess.Token)
	if err != nil {
		s.logger.Warn("fetch workflow state failed", zap.String("user_id", sess.UserID), zap.Error(err))
		return domain.WorkflowState{}, fmt.Errorf("%w: %v", ErrWorkflowUnavailable, err)
	}

	p := state.ProgressBySection
	if !p.Valid() {
		s.logger.Warn("workflow progress out of range",
			zap.String("user_id", sess.UserID),
			zap.Int("completed", p.ModerationCompletedCount),
			zap.Int("total", p.ModerationTotal),
		)
	}

	decided := workflow.Decide(p)
	switch {
	case state.NextRoute == "":
		state.NextRoute = decided
	case workflow.StepFromRoute(state.NextRoute) != workflow.StepFromRoute(decided):
		s.logger.Info("workflow route drift",
			zap.String("user_id", sess.UserID),
			zap.String("next_route", state.NextRoute),
			zap.String("decided_route", decided),
		)
	}
	return state, nil
}

// Steps devuelve la vista de pasos; si el snapshot falla todos quedan bloqueados.
func (s *WorkflowService) Steps(ctx context.Context, sess domain.Session) ([]workflow.StepView, error) {
	state, err := s.State(ctx, sess)
	if err != nil {
		return workflow.Locked(), err
	}
	return workflow.Steps(state), nil
}

// CanAccess evalúa un paso contra un snapshot fresco.
func (s *WorkflowService) CanAccess(ctx context.Context, sess domain.Session, step workflow.Step) (bool, error) {
	state, err := s.State(ctx, sess)
	if err != nil {
		return false, err
	}
	return workflow.CanAccessStep(step, state), nil
}
