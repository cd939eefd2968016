package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func up(ctx context.Context) ComponentHealth { return ComponentHealth{Status: StatusUp} }

func TestRun_WorstStatusWins(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]Check
		want   Status
	}{
		{name: "no checks", checks: nil, want: StatusUp},
		{name: "all up", checks: map[string]Check{"a": up, "b": up}, want: StatusUp},
		{
			name: "degraded",
			checks: map[string]Check{
				"a": up,
				"cache": PingCheck(func(context.Context) error { return errors.New("refused") }, StatusDegraded),
			},
			want: StatusDegraded,
		},
		{
			name: "down beats degraded",
			checks: map[string]Check{
				"cache": PingCheck(func(context.Context) error { return errors.New("refused") }, StatusDegraded),
				"index": CountCheck("documents", func() int { return 0 }, 1),
			},
			want: StatusDown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker()
			for name, check := range tt.checks {
				c.Register(name, check)
			}
			report := c.Run(context.Background())
			assert.Equal(t, tt.want, report.Status)
			assert.Len(t, report.Components, len(tt.checks))
		})
	}
}

func TestCountCheck(t *testing.T) {
	got := CountCheck("documents", func() int { return 3 }, 1)(context.Background())
	assert.Equal(t, StatusUp, got.Status)
	assert.Equal(t, "3 documents", got.Message)
}

func TestReadyHandler(t *testing.T) {
	c := NewChecker()
	c.Register("index", CountCheck("documents", func() int { return 0 }, 1))

	rec := httptest.NewRecorder()
	c.ReadyHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var report Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, StatusDown, report.Status)
	assert.Contains(t, report.Components["index"].Message, "need at least 1")
}

func TestLiveHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewChecker().LiveHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"alive"`)
}
