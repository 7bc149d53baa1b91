package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"apidiff/internal/capture"
	"apidiff/internal/db"
	"apidiff/internal/diff"
	"apidiff/internal/migrations"
	"apidiff/internal/security"
	"apidiff/internal/view"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func setup(t *testing.T) *echo.Echo {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "progress.db")
	require.NoError(t, migrations.Up(dbPath))
	require.NoError(t, db.Init(dbPath))
	t.Cleanup(func() { db.DB.Close() })

	security.Init()

	resultsDir := t.TempDir()
	folder := filepath.Join(resultsDir, "case1_login")
	require.NoError(t, os.MkdirAll(folder, 0o755))
	left := `{"success":true,"response_data":{"status":"ok"}}`
	right := `{"success":true,"response_data":{"status":"fail"}}`
	require.NoError(t, os.WriteFile(filepath.Join(folder, "case1_login_local_response.json"), []byte(left), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "case1_login_remote_response.json"), []byte(right), 0o644))

	Init(view.NewService(capture.NewScanner(resultsDir), diff.NewDiffer(nil)))
	return echo.New()
}

func doJSON(e *echo.Echo, handler echo.HandlerFunc, method, target, body string, params ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	names := make([]string, 0, len(params)/2)
	values := make([]string, 0, len(params)/2)
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	_ = handler(c)
	return rec
}

func TestHealthCheck(t *testing.T) {
	e := setup(t)

	rec := doJSON(e, HealthCheck, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", gjson.Get(rec.Body.String(), "status").String())
}

func TestSaveProgress_Validation(t *testing.T) {
	e := setup(t)

	rec := doJSON(e, SaveProgress, http.MethodPost, "/api/progress/save", `{"comment":"no key"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "file_key is required")

	rec = doJSON(e, SaveProgress, http.MethodPost, "/api/progress/save", `{"file_key":"case1_login","flag":"urgent"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "flag must be one of")
}

func TestSaveProgress_ThenLoad(t *testing.T) {
	e := setup(t)

	rec := doJSON(e, SaveProgress, http.MethodPost, "/api/progress/save",
		`{"file_key":"case1_login","flag":"high","resolved_diffs":{"status":true}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, LoadProgress, http.MethodGet, "/api/progress/load/case1_login", "", "fileKey", "case1_login")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Equal(t, "high", gjson.Get(body, "data.flag").String())
	assert.True(t, gjson.Get(body, "data.resolved_diffs.status").Bool())
}

func TestGetFileDiff(t *testing.T) {
	e := setup(t)

	rec := doJSON(e, GetFileDiff, http.MethodGet, "/api/file/case1_login", "", "fileKey", "case1_login")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, gjson.Get(body, "success").Bool())
	assert.True(t, gjson.Get(body, "data.has_differences").Bool())
	assert.Equal(t, "status", gjson.Get(body, "data.differences.0.path").String())
	assert.Equal(t, "local", gjson.Get(body, "data.left_api").String())

	rec = doJSON(e, GetFileDiff, http.MethodGet, "/api/file/nope", "", "fileKey", "nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetStructure(t *testing.T) {
	e := setup(t)

	rec := doJSON(e, GetStructure, http.MethodGet, "/api/structure", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, gjson.Get(body, "success").Bool())
	assert.Equal(t, int64(1), gjson.Get(body, "stats.total_files").Int())
	assert.Equal(t, "login", gjson.Get(body, "folder_groups.case1.0.sub_filename").String())
}
