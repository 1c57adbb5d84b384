package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"foundry/internal/game"
	"foundry/internal/metrics"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server, *game.Service) {
	t.Helper()
	svc := game.NewService(nil, nil)
	srv := New(nil, svc, metrics.New())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	t.Cleanup(srv.SnapshotHub().Close)
	return srv, ts, svc
}

func postAction(t *testing.T, ts *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	resp, err := http.Post(ts.URL+path, "application/json", &buf)
	require.NoError(t, err)
	return resp
}

func TestStateEndpoint(t *testing.T) {
	_, ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap game.State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	require.Equal(t, game.StartingMoneyMicros, snap.MoneyMicros)
	require.Len(t, snap.Lines, 1)
	require.Len(t, snap.Workers, 1)
}

func TestHireWorkerAction(t *testing.T) {
	_, ts, svc := newTestServer(t)

	resp := postAction(t, ts, "/v1/actions/hire-worker", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap game.State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	require.Len(t, snap.Workers, 2)
	require.Equal(t, int64(0), snap.MoneyMicros)
	require.Len(t, svc.Snapshot().Workers, 2)
}

func TestDomainErrorMapping(t *testing.T) {
	_, ts, _ := newTestServer(t)

	// Unknown order id.
	resp := postAction(t, ts, "/v1/actions/accept-order", map[string]any{"order_id": 99})
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Vehicle owned but nothing to load.
	resp = postAction(t, ts, "/v1/actions/ship", map[string]any{
		"vehicle_id": "wheelbarrow",
		"pallets":    map[string]int{},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// No unresolved strike.
	resp = postAction(t, ts, "/v1/actions/resolve-strike", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown research project.
	resp = postAction(t, ts, "/v1/actions/start-research", map[string]any{"project_id": "cold_fusion"})
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRejectedActionLeavesStateUntouched(t *testing.T) {
	_, ts, svc := newTestServer(t)

	resp := postAction(t, ts, "/v1/actions/upgrade-worker", map[string]any{
		"worker_id": 1,
		"stat":      "charisma",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, game.StartingMoneyMicros, svc.Snapshot().MoneyMicros)
}

func TestUnknownJSONFieldRejected(t *testing.T) {
	_, ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/v1/actions/accept-order", "application/json",
		strings.NewReader(`{"order_id": 1, "bogus": true}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHeadlinesEndpointEmpty(t *testing.T) {
	_, ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/state/headlines")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Headlines []game.Headline `json:"headlines"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotNil(t, out.Headlines)
	require.Empty(t, out.Headlines)
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "foundry_ticks_total")
}

func TestWebsocketFeed(t *testing.T) {
	_, ts, svc := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Primed with the current snapshot on connect.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	var snap game.State
	require.NoError(t, json.Unmarshal(payload, &snap))
	require.Equal(t, game.StartingMoneyMicros, snap.MoneyMicros)

	// An applied action produces a fresh frame.
	_, err = svc.Do(t.Context(), game.HireWorker{})
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err = conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, &snap))
	require.Equal(t, int64(0), snap.MoneyMicros)
	require.Len(t, snap.Workers, 2)
}
