package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/ssargent/gamehdr/pkg/storage"
	"github.com/ssargent/gamehdr/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	server  *Server
	handler http.Handler
	log     *store.HeaderLog
}

func setupTestServer(t *testing.T, config ServerConfig) (*testServer, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "gamehdr_api_test")
	require.NoError(t, err)

	headerLog, err := store.NewHeaderLog(store.HeaderLogConfig{DataDir: tmpDir})
	require.NoError(t, err)
	_, err = headerLog.Open()
	require.NoError(t, err)

	batches, err := storage.NewBatchStorage(filepath.Join(tmpDir, "batches"), nil)
	require.NoError(t, err)

	server := NewServer(headerLog, batches, config, NewMetrics(), zerolog.Nop())

	cleanup := func() {
		headerLog.Close()
		batches.Close()
		os.RemoveAll(tmpDir)
	}

	return &testServer{server: server, handler: server.Router(), log: headerLog}, cleanup
}

func (ts *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)

	var response APIResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&response))
	}
	return w, response
}

func dataMap(t *testing.T, response APIResponse) map[string]interface{} {
	t.Helper()
	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok, "expected object data, got %T", response.Data)
	return data
}

func TestServer_Health(t *testing.T) {
	ts, cleanup := setupTestServer(t, ServerConfig{})
	defer cleanup()

	w, response := ts.do(t, "GET", "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, response.Success)
	assert.Equal(t, "healthy", dataMap(t, response)["status"])
}

func TestServer_Encode(t *testing.T) {
	ts, cleanup := setupTestServer(t, ServerConfig{})
	defer cleanup()

	testCases := []struct {
		name       string
		body       string
		wantStatus int
		wantByte   float64
		wantHex    string
	}{
		{
			name:       "rated correspondence full",
			body:       `{"mode":"rated","speed":"correspondence","games":15}`,
			wantStatus: http.StatusOK,
			wantByte:   251,
			wantHex:    "0xfb",
		},
		{
			name:       "casual blitz",
			body:       `{"mode":"casual","speed":"blitz","games":3}`,
			wantStatus: http.StatusOK,
			wantByte:   52,
			wantHex:    "0x34",
		},
		{
			name:       "too many games",
			body:       `{"mode":"rated","speed":"blitz","games":16}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown speed",
			body:       `{"mode":"rated","speed":"hyperbullet","games":1}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{"mode":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, response := ts.do(t, "POST", "/api/v1/headers/encode", tc.body)
			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantStatus != http.StatusOK {
				assert.False(t, response.Success)
				assert.NotEmpty(t, response.Error)
				return
			}
			data := dataMap(t, response)
			assert.Equal(t, tc.wantByte, data["byte"])
			assert.Equal(t, tc.wantHex, data["hex"])
		})
	}
}

func TestServer_Decode(t *testing.T) {
	ts, cleanup := setupTestServer(t, ServerConfig{})
	defer cleanup()

	for _, value := range []string{"251", "0xFB", "0b11111011"} {
		t.Run(value, func(t *testing.T) {
			w, response := ts.do(t, "GET", "/api/v1/headers/decode/"+value, "")
			require.Equal(t, http.StatusOK, w.Code)

			header, ok := dataMap(t, response)["header"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, "rated", header["mode"])
			assert.Equal(t, "correspondence", header["speed"])
			assert.Equal(t, float64(15), header["games"])
			assert.Equal(t, "0b11111011", dataMap(t, response)["binary"])
		})
	}

	t.Run("invalid speed code", func(t *testing.T) {
		w, response := ts.do(t, "GET", "/api/v1/headers/decode/14", "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, response.Error, "invalid header encoding")
		assert.Equal(t, float64(1), testutil.ToFloat64(ts.server.metrics.invalidEncodingsTotal))
	})

	t.Run("not a byte", func(t *testing.T) {
		w, _ := ts.do(t, "GET", "/api/v1/headers/decode/256", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w, _ = ts.do(t, "GET", "/api/v1/headers/decode/abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestServer_Log(t *testing.T) {
	ts, cleanup := setupTestServer(t, ServerConfig{})
	defer cleanup()

	bodies := []string{
		`{"mode":"rated","speed":"blitz","games":5}`,
		`{"mode":"casual","speed":"rapid","games":2}`,
		`{"mode":"rated","speed":"blitz","games":4}`,
	}
	for i, body := range bodies {
		w, response := ts.do(t, "POST", "/api/v1/log", body)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, float64(i), dataMap(t, response)["index"])
	}
	assert.Equal(t, int64(3), ts.log.Len())

	t.Run("get entry", func(t *testing.T) {
		w, response := ts.do(t, "GET", "/api/v1/log/1", "")
		require.Equal(t, http.StatusOK, w.Code)
		header := dataMap(t, response)["header"].(map[string]interface{})
		assert.Equal(t, "rapid", header["speed"])
	})

	t.Run("missing entry", func(t *testing.T) {
		w, _ := ts.do(t, "GET", "/api/v1/log/3", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad index", func(t *testing.T) {
		w, _ := ts.do(t, "GET", "/api/v1/log/-1", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("scan", func(t *testing.T) {
		w, response := ts.do(t, "GET", "/api/v1/log?start=1&limit=5", "")
		require.Equal(t, http.StatusOK, w.Code)
		data := dataMap(t, response)
		entries := data["entries"].([]interface{})
		assert.Len(t, entries, 2)
		assert.Equal(t, float64(3), data["total"])
		assert.Equal(t, float64(1), entries[0].(map[string]interface{})["index"])
	})

	t.Run("scan bad limit", func(t *testing.T) {
		w, _ := ts.do(t, "GET", "/api/v1/log?limit=0", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("stats", func(t *testing.T) {
		w, response := ts.do(t, "GET", "/api/v1/stats", "")
		require.Equal(t, http.StatusOK, w.Code)
		data := dataMap(t, response)
		assert.Equal(t, float64(3), data["headers"])
		assert.Equal(t, float64(11), data["games"])
		bySpeed := data["by_speed"].(map[string]interface{})
		assert.Equal(t, float64(9), bySpeed["blitz"])
		assert.Equal(t, float64(3), testutil.ToFloat64(ts.server.metrics.logHeadersTotal))
	})

	t.Run("append invalid", func(t *testing.T) {
		w, _ := ts.do(t, "POST", "/api/v1/log", `{"mode":"rated","speed":"blitz","games":99}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, int64(3), ts.log.Len())
	})
}

func TestServer_Batches(t *testing.T) {
	ts, cleanup := setupTestServer(t, ServerConfig{})
	defer cleanup()

	w, response := ts.do(t, "POST", "/api/v1/batches",
		`{"headers":[{"mode":"rated","speed":"bullet","games":7},{"mode":"casual","speed":"classical","games":1}]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	id := dataMap(t, response)["id"].(string)
	require.NotEmpty(t, id)

	w, response = ts.do(t, "GET", "/api/v1/batches/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	headers := dataMap(t, response)["headers"].([]interface{})
	assert.Len(t, headers, 2)

	w, response = ts.do(t, "GET", "/api/v1/batches", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := response.Data.([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].(map[string]interface{})["id"])

	w, _ = ts.do(t, "PUT", "/api/v1/batches/"+id, `{"headers":[{"mode":"rated","speed":"rapid","games":15}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, response = ts.do(t, "GET", "/api/v1/batches/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	headers = dataMap(t, response)["headers"].([]interface{})
	assert.Len(t, headers, 1)

	w, _ = ts.do(t, "DELETE", "/api/v1/batches/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = ts.do(t, "GET", "/api/v1/batches/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = ts.do(t, "PUT", "/api/v1/batches/"+id, `{"headers":[]}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = ts.do(t, "GET", "/api/v1/batches/not-a-ksuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = ts.do(t, "POST", "/api/v1/batches", `{"headers":[{"mode":"rated","speed":"rapid","games":16}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_APIKey(t *testing.T) {
	ts, cleanup := setupTestServer(t, ServerConfig{APIKey: "secret"})
	defer cleanup()

	w, response := ts.do(t, "GET", "/api/v1/health", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Missing X-API-Key header", response.Error)

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest("GET", "/api/v1/health", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Metrics stay reachable without a key
	w, _ = ts.do(t, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_Metrics(t *testing.T) {
	ts, cleanup := setupTestServer(t, ServerConfig{})
	defer cleanup()

	ts.do(t, "POST", "/api/v1/headers/encode", `{"mode":"rated","speed":"blitz","games":1}`)
	ts.do(t, "GET", "/api/v1/headers/decode/12", "")

	m := ts.server.metrics
	assert.Equal(t, float64(1), testutil.ToFloat64(m.codecOperationsTotal.WithLabelValues("encode", statusSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.codecOperationsTotal.WithLabelValues("decode", statusError)))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.httpRequestsTotal.WithLabelValues("GET", "/api/v1/headers/decode/{value}", "422")))

	w, _ := ts.do(t, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gamehdr_invalid_encodings_total 1")
}

func TestNewMetrics_Independent(t *testing.T) {
	// Separate registries must not collide
	m1 := NewMetrics()
	m2 := NewMetrics()

	m1.RecordInvalidEncoding()
	assert.Equal(t, float64(1), testutil.ToFloat64(m1.invalidEncodingsTotal))
	assert.Equal(t, float64(0), testutil.ToFloat64(m2.invalidEncodingsTotal))
}
