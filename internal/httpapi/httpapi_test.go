package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hidbridge/internal/stats"
)

type recordingInjector struct {
	got []byte
}

func (r *recordingInjector) InjectFrame(data []byte) {
	r.got = append([]byte(nil), data...)
}

func newTestServer(reporter *stats.Reporter, injector FrameInjector) *Server {
	return New(reporter, injector, func() time.Duration { return 90 * time.Second })
}

func TestHandleHealth(t *testing.T) {
	reporter := stats.New(0, func() int { return 0 }, func() bool { return false })
	srv := newTestServer(reporter, &recordingInjector{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHandleStatsReflectsSnapshot(t *testing.T) {
	reporter := stats.New(0, func() int { return 4 }, func() bool { return true })
	reporter.RecordPacket()
	reporter.RecordAckSuccess()
	srv := newTestServer(reporter, &recordingInjector{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 1, body["packets_total"])
	assert.EqualValues(t, 4, body["queue_size"])
	assert.Equal(t, true, body["timed_action_active"])
	assert.EqualValues(t, 90, body["uptime_seconds"])
}

func TestHandleFrameInjectsDecodedBytes(t *testing.T) {
	reporter := stats.New(0, func() int { return 0 }, func() bool { return false })
	injector := &recordingInjector{}
	srv := newTestServer(reporter, injector)

	body := bytes.NewBufferString(`{"hex_frame":"aa0102fa"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/frame", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []byte{0xaa, 0x01, 0x02, 0xfa}, injector.got)
}

func TestHandleFrameRejectsInvalidHex(t *testing.T) {
	reporter := stats.New(0, func() int { return 0 }, func() bool { return false })
	injector := &recordingInjector{}
	srv := newTestServer(reporter, injector)

	body := bytes.NewBufferString(`{"hex_frame":"not-hex"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/frame", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, injector.got)
}

func TestHandleFrameRejectsMissingField(t *testing.T) {
	reporter := stats.New(0, func() int { return 0 }, func() bool { return false })
	srv := newTestServer(reporter, &recordingInjector{})

	body := bytes.NewBufferString(`{}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/frame", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
