package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"solana-sweeper/internal/core/domain"
	"solana-sweeper/internal/core/ports"

	"github.com/google/uuid"
)

// --- In-Memory Run Repo ---

type inMemoryRunRepo struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]*domain.RunReport
}

var _ ports.RunRepository = (*inMemoryRunRepo)(nil)

func newInMemoryRunRepo() *inMemoryRunRepo {
	return &inMemoryRunRepo{runs: make(map[uuid.UUID]*domain.RunReport)}
}

func (r *inMemoryRunRepo) CreateRun(_ context.Context, run *domain.RunReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.runs[run.ID]; ok {
		return fmt.Errorf("run %s already exists", run.ID)
	}
	r.runs[run.ID] = &domain.RunReport{
		ID:        run.ID,
		StartedAt: run.StartedAt,
		DryRun:    run.DryRun,
		Total:     run.Total,
	}
	return nil
}

func (r *inMemoryRunRepo) SaveOutcome(_ context.Context, runID uuid.UUID, o *domain.AccountOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[runID]
	if !ok {
		return fmt.Errorf("run %s not found", runID)
	}
	for i := range run.Outcomes {
		if run.Outcomes[i].Index == o.Index {
			run.Outcomes[i] = *o
			return nil
		}
	}
	run.Outcomes = append(run.Outcomes, *o)
	sort.Slice(run.Outcomes, func(i, j int) bool { return run.Outcomes[i].Index < run.Outcomes[j].Index })
	return nil
}

func (r *inMemoryRunRepo) FinishRun(_ context.Context, run *domain.RunReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.runs[run.ID]
	if !ok {
		return fmt.Errorf("run %s not found", run.ID)
	}
	stored.FinishedAt = run.FinishedAt
	return nil
}

func (r *inMemoryRunRepo) GetRun(_ context.Context, id uuid.UUID) (*domain.RunReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, nil
	}
	cp := *run
	cp.Outcomes = append([]domain.AccountOutcome(nil), run.Outcomes...)
	return &cp, nil
}
