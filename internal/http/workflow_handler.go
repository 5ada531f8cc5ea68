package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kidsflow/internal/service"
	"kidsflow/internal/workflow"
)

// WorkflowHandler expone el estado del flujo y la navegabilidad de los pasos.
type WorkflowHandler struct {
	logger      *zap.Logger
	workflowSvc *service.WorkflowService
}

func NewWorkflowHandler(logger *zap.Logger, workflowSvc *service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{logger: logger, workflowSvc: workflowSvc}
}

// State maneja GET /workflow/state.
func (h *WorkflowHandler) State(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	state, err := h.workflowSvc.State(c.Request.Context(), sess)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "workflow state unavailable",
			"steps": workflow.Locked(),
		})
		return
	}
	wfState := workflow.Classify(state.ProgressBySection)
	c.JSON(http.StatusOK, gin.H{
		"state":          state,
		"workflow_state": wfState,
		"current_step":   workflow.StepFromRoute(state.NextRoute),
		"decided_route":  workflow.Decide(state.ProgressBySection),
	})
}

// Steps maneja GET /workflow/steps.
func (h *WorkflowHandler) Steps(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	steps, err := h.workflowSvc.Steps(c.Request.Context(), sess)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "workflow state unavailable", "steps": steps})
		return
	}
	c.JSON(http.StatusOK, gin.H{"steps": steps})
}

// Step maneja GET /workflow/steps/:step.
func (h *WorkflowHandler) Step(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	n, err := strconv.Atoi(c.Param("step"))
	if err != nil || n < int(workflow.StepChildProfile) || n > int(workflow.StepCompletion) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "step must be between 1 and 4"})
		return
	}
	step := workflow.Step(n)

	state, err := h.workflowSvc.State(c.Request.Context(), sess)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":      "workflow state unavailable",
			"step":       step,
			"route":      workflow.StepRoute(step),
			"accessible": false,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"step":       step,
		"label":      workflow.StepLabel(step),
		"route":      workflow.StepRoute(step),
		"completed":  workflow.IsStepCompleted(step, state),
		"accessible": workflow.CanAccessStep(step, state),
	})
}
