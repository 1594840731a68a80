package handler

import (
	"solana-sweeper/internal/core/domain"
	"solana-sweeper/internal/core/ports"
	"solana-sweeper/pkg/apperror"
	"solana-sweeper/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RunHandler serves sweep run reports.
type RunHandler struct {
	sweepSvc ports.SweepService
	runs     ports.RunRepository
}

// NewRunHandler creates a new RunHandler. runs may be nil.
func NewRunHandler(sweepSvc ports.SweepService, runs ports.RunRepository) *RunHandler {
	return &RunHandler{sweepSvc: sweepSvc, runs: runs}
}

// RunView is a run report plus its tallies.
type RunView struct {
	*domain.RunReport
	Summary domain.RunSummary `json:"summary"`
}

func newRunView(r *domain.RunReport) RunView {
	return RunView{RunReport: r, Summary: r.Summary()}
}

// Current handles GET /api/v1/runs/current.
func (h *RunHandler) Current(c *gin.Context) {
	run := h.sweepSvc.Progress()
	if run == nil {
		response.Error(c, apperror.ErrRunNotFound())
		return
	}
	response.OK(c, newRunView(run))
}

// Get handles GET /api/v1/runs/:id. The in-flight run is served from memory,
// older runs from the run repository.
func (h *RunHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrRunNotFound())
		return
	}

	if run := h.sweepSvc.Progress(); run != nil && run.ID == id {
		response.OK(c, newRunView(run))
		return
	}

	if h.runs == nil {
		response.Error(c, apperror.ErrRunNotFound())
		return
	}

	run, err := h.runs.GetRun(c.Request.Context(), id)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}
	if run == nil {
		response.Error(c, apperror.ErrRunNotFound())
		return
	}
	response.OK(c, newRunView(run))
}
