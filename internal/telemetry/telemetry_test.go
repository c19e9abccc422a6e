package telemetry

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/fridgeview/internal/logger"
)

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "fridgeview_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Add(3)

	s := New(reg, uuid.New(), nil)
	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "fridgeview_test_total 3") {
		t.Errorf("metrics body missing counter:\n%s", body)
	}
}

func TestHealthEndpoint(t *testing.T) {
	id := uuid.New()
	s := New(prometheus.NewRegistry(), id, nil)
	s.Publish(Status{Objects: 3, Selected: "apple", Frames: 60})

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got Status
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	want := Status{Session: id.String(), Objects: 3, Selected: "apple", Frames: 60}
	if got != want {
		t.Errorf("health = %+v, want %+v", got, want)
	}
}

func TestUnknownRoute(t *testing.T) {
	s := New(prometheus.NewRegistry(), uuid.New(), nil)
	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestLogLevelEndpoint(t *testing.T) {
	lvl := logger.Level()
	prev := lvl.Level()
	defer lvl.SetLevel(prev)
	lvl.SetLevel(zapcore.InfoLevel)

	s := New(prometheus.NewRegistry(), uuid.New(), nil)

	tests := []struct {
		name   string
		method string
		body   string
		status int
		want   string
	}{
		{"read", http.MethodGet, "", http.StatusOK, "info"},
		{"raise verbosity", http.MethodPut, `{"level":"debug"}`, http.StatusOK, "debug"},
		{"reject unknown", http.MethodPut, `{"level":"loud"}`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/log/level", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := s.App().Test(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.want == "" {
				return
			}
			var got struct {
				Level string `json:"level"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if got.Level != tt.want {
				t.Errorf("level = %q, want %q", got.Level, tt.want)
			}
		})
	}

	if lvl.Level() != zapcore.DebugLevel {
		t.Errorf("live level = %v, want debug", lvl.Level())
	}
}
