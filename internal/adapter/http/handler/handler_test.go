package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"solana-sweeper/internal/core/domain"
	"solana-sweeper/internal/core/ports"
	"solana-sweeper/internal/core/ports/mocks"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRun() *domain.RunReport {
	return &domain.RunReport{
		ID:        uuid.New(),
		StartedAt: time.Now().UTC(),
		Total:     3,
		Outcomes: []domain.AccountOutcome{
			{Index: 0, State: domain.AccountStateCompleted},
			{Index: 1, State: domain.AccountStateSkippedLoad},
		},
	}
}

func serve(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// --- Run Handler Tests ---

func TestCurrent_InFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sweep := mocks.NewMockSweepService(ctrl)
	run := testRun()
	sweep.EXPECT().Progress().Return(run)

	r := SetupRouter(RouterDeps{SweepSvc: sweep, Logger: zerolog.Nop()})
	w := serve(r, "/api/v1/runs/current")

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, run.ID.String(), data["id"])
	summary := data["summary"].(map[string]interface{})
	assert.Equal(t, float64(2), summary["processed"])
	assert.Equal(t, float64(1), summary["completed"])
	assert.Equal(t, float64(1), summary["skipped"])
	assert.Len(t, data["outcomes"], 2)
}

func TestCurrent_NoRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sweep := mocks.NewMockSweepService(ctrl)
	sweep.EXPECT().Progress().Return(nil)

	r := SetupRouter(RouterDeps{SweepSvc: sweep, Logger: zerolog.Nop()})
	w := serve(r, "/api/v1/runs/current")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "RUN_003", decode(t, w)["error_code"])
}

func TestGet_InFlightRunServedFromMemory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sweep := mocks.NewMockSweepService(ctrl)
	runs := mocks.NewMockRunRepository(ctrl)
	run := testRun()
	sweep.EXPECT().Progress().Return(run)

	r := SetupRouter(RouterDeps{SweepSvc: sweep, Runs: runs, Logger: zerolog.Nop()})
	w := serve(r, "/api/v1/runs/"+run.ID.String())

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGet_StoredRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sweep := mocks.NewMockSweepService(ctrl)
	runs := mocks.NewMockRunRepository(ctrl)
	stored := testRun()
	finished := stored.StartedAt.Add(time.Minute)
	stored.FinishedAt = &finished

	sweep.EXPECT().Progress().Return(testRun())
	runs.EXPECT().GetRun(gomock.Any(), stored.ID).Return(stored, nil)

	r := SetupRouter(RouterDeps{SweepSvc: sweep, Runs: runs, Logger: zerolog.Nop()})
	w := serve(r, "/api/v1/runs/"+stored.ID.String())

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, stored.ID.String(), data["id"])
	assert.NotEmpty(t, data["finished_at"])
}

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sweep := mocks.NewMockSweepService(ctrl)
	runs := mocks.NewMockRunRepository(ctrl)
	id := uuid.New()

	sweep.EXPECT().Progress().Return(nil)
	runs.EXPECT().GetRun(gomock.Any(), id).Return(nil, nil)

	r := SetupRouter(RouterDeps{SweepSvc: sweep, Runs: runs, Logger: zerolog.Nop()})
	w := serve(r, "/api/v1/runs/"+id.String())

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "RUN_003", decode(t, w)["error_code"])
}

func TestGet_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sweep := mocks.NewMockSweepService(ctrl)

	r := SetupRouter(RouterDeps{SweepSvc: sweep, Logger: zerolog.Nop()})
	w := serve(r, "/api/v1/runs/not-a-uuid")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "RUN_003", decode(t, w)["error_code"])
}

func TestGet_WithoutRepository(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sweep := mocks.NewMockSweepService(ctrl)
	sweep.EXPECT().Progress().Return(nil)

	r := SetupRouter(RouterDeps{SweepSvc: sweep, Logger: zerolog.Nop()})
	w := serve(r, "/api/v1/runs/"+uuid.New().String())

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGet_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sweep := mocks.NewMockSweepService(ctrl)
	runs := mocks.NewMockRunRepository(ctrl)
	id := uuid.New()

	sweep.EXPECT().Progress().Return(nil)
	runs.EXPECT().GetRun(gomock.Any(), id).Return(nil, errors.New("db down"))

	r := SetupRouter(RouterDeps{SweepSvc: sweep, Runs: runs, Logger: zerolog.Nop()})
	w := serve(r, "/api/v1/runs/"+id.String())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "SYS_001", decode(t, w)["error_code"])
}

// --- Health Check Tests ---

func TestHealthCheck_AllHealthy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rpc := mocks.NewMockHealthChecker(ctrl)
	rpc.EXPECT().Ping(gomock.Any()).Return(nil)
	rpc.EXPECT().Name().Return("solana-rpc").AnyTimes()

	r := SetupRouter(RouterDeps{
		SweepSvc:       mocks.NewMockSweepService(ctrl),
		HealthCheckers: []ports.HealthChecker{rpc},
		Logger:         zerolog.Nop(),
	})
	w := serve(r, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "healthy", resp["status"])
}

func TestHealthCheck_Degraded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rpc := mocks.NewMockHealthChecker(ctrl)
	rpc.EXPECT().Ping(gomock.Any()).Return(nil)
	rpc.EXPECT().Name().Return("solana-rpc").AnyTimes()
	rdb := mocks.NewMockHealthChecker(ctrl)
	rdb.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))
	rdb.EXPECT().Name().Return("redis").AnyTimes()

	r := SetupRouter(RouterDeps{
		SweepSvc:       mocks.NewMockSweepService(ctrl),
		HealthCheckers: []ports.HealthChecker{rpc, rdb},
		Logger:         zerolog.Nop(),
	})
	w := serve(r, "/health")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "degraded", resp["status"])
	deps := resp["dependencies"].(map[string]interface{})
	assert.Equal(t, "unhealthy", deps["redis"].(map[string]interface{})["status"])
	assert.Equal(t, "healthy", deps["solana-rpc"].(map[string]interface{})["status"])
}

// --- Metrics Route Tests ---

func TestMetrics_Served(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("sweeper_accounts_total 1\n"))
	})
	r := SetupRouter(RouterDeps{SweepSvc: mocks.NewMockSweepService(ctrl), Metrics: metrics, Logger: zerolog.Nop()})

	w := serve(r, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sweeper_accounts_total")
}

func TestMetrics_DisabledWithoutHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := SetupRouter(RouterDeps{SweepSvc: mocks.NewMockSweepService(ctrl), Logger: zerolog.Nop()})

	w := serve(r, "/metrics")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
