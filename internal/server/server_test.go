package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/polyorder/layout"
)

const threeSquares = `{"predictions": [
  {"class_id": 1, "points": [{"x": 0, "y": 0}, {"x": 1, "y": 0}, {"x": 1, "y": 1}, {"x": 0, "y": 1}]},
  {"class_id": 2, "points": [{"x": 5, "y": 0}, {"x": 6, "y": 0}, {"x": 6, "y": 1}, {"x": 5, "y": 1}]},
  {"class_id": 3, "points": [{"x": 0, "y": 5}, {"x": 1, "y": 5}, {"x": 1, "y": 6}, {"x": 0, "y": 6}]}
]}`

func newTestServer() *Server {
	return New(log.New(io.Discard), layout.DefaultReadingOrderConfig())
}

func doSort(t *testing.T, s *Server, query, body string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/sort"+query, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func classIDs(t *testing.T, raw json.RawMessage) []int {
	t.Helper()
	var preds []struct {
		ClassID int `json:"class_id"`
	}
	require.NoError(t, json.Unmarshal(raw, &preds))
	ids := make([]int, len(preds))
	for i, p := range preds {
		ids[i] = p.ClassID
	}
	return ids
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestSort(t *testing.T) {
	rec, out := doSort(t, newTestServer(), "", threeSquares)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, []int{2, 1, 3}, classIDs(t, out["predictions"]))
	_, hasRows := out["rows"]
	assert.False(t, hasRows)
}

func TestSort_LeftToRightWithRows(t *testing.T) {
	rec, out := doSort(t, newTestServer(), "?direction=ltr&rows=true", threeSquares)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{1, 2, 3}, classIDs(t, out["predictions"]))

	var rows [][]int
	require.NoError(t, json.Unmarshal(out["rows"], &rows))
	assert.Equal(t, [][]int{{0, 1}, {2}}, rows)
}

func TestSort_RowsReferToRequestOrder(t *testing.T) {
	_, out := doSort(t, newTestServer(), "?rows=1", threeSquares)

	var rows [][]int
	require.NoError(t, json.Unmarshal(out["rows"], &rows))
	assert.Equal(t, [][]int{{1, 0}, {2}}, rows)
}

func TestSort_ThresholdRatio(t *testing.T) {
	_, out := doSort(t, newTestServer(), "?threshold_ratio=6&rows=true", threeSquares)

	var rows [][]int
	require.NoError(t, json.Unmarshal(out["rows"], &rows))
	assert.Len(t, rows, 1)
}

func TestSort_BadRequests(t *testing.T) {
	tests := []struct {
		name  string
		query string
		body  string
	}{
		{"malformed json", "", `{"predictions": [`},
		{"missing predictions", "", `{"items": []}`},
		{"empty predictions", "", `{"predictions": []}`},
		{"polygon without points", "", `{"predictions": [{"class_id": 0, "points": []}]}`},
		{"negative class", "", `{"predictions": [{"class_id": -2, "points": [{"x": 1, "y": 1}]}]}`},
		{"bad direction", "?direction=up", threeSquares},
		{"bad threshold", "?threshold_ratio=abc", threeSquares},
		{"negative threshold", "?threshold_ratio=-1", threeSquares},
	}

	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := doSort(t, s, tt.query, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, out, "error")
		})
	}
}

func TestSort_BodyTooLarge(t *testing.T) {
	s := newTestServer()
	s.maxBody = 16

	rec, out := doSort(t, s, "", threeSquares)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, out, "error")

	s.maxBody = int64(len(threeSquares))
	rec, _ = doSort(t, s, "", threeSquares)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSort_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sort", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	// grab a free port
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newTestServer().ListenAndServe(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
