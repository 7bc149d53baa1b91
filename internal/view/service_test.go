package view

import (
	"os"
	"path/filepath"
	"testing"

	"apidiff/internal/capture"
	"apidiff/internal/diff"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCase(t *testing.T, resultsDir, fileKey string, leftBody, rightBody string) {
	t.Helper()
	folder := filepath.Join(resultsDir, fileKey)
	require.NoError(t, os.MkdirAll(folder, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(folder, fileKey+"_local_response.json"), []byte(leftBody), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(folder, fileKey+"_remote_response.json"), []byte(rightBody), 0o644))
}

func newTestService(t *testing.T, resultsDir string) *Service {
	t.Helper()
	return NewService(capture.NewScanner(resultsDir), diff.NewDiffer(nil))
}

func TestService_CompareProducesPresentationContract(t *testing.T) {
	dir := t.TempDir()
	writeCase(t, dir, "case1_login",
		`{"success":true,"processing_time_seconds":1.5,"response_data":{"status":"ok","items":[1,2]}}`,
		`{"success":true,"processing_time_seconds":2.0,"response_data":{"status":"fail","items":[1,2,3]}}`,
	)

	result := newTestService(t, dir).Compare("case1_login")

	require.True(t, result.Success)
	assert.Equal(t, "local", result.LeftAPI)
	assert.Equal(t, "remote", result.RightAPI)
	assert.True(t, result.HasDifferences)
	assert.Equal(t, 2, result.DifferenceCount)

	require.Len(t, result.Differences, 2)
	first := result.Differences[0]
	assert.Equal(t, "status", first.Path)
	assert.Equal(t, diff.ValueChanged, first.Kind)
	require.NotNil(t, first.LineLeft)
	require.NotNil(t, first.LineRight)
	assert.Equal(t, 1, *first.LineLeft)
	assert.Equal(t, 1, *first.LineRight)

	second := result.Differences[1]
	assert.Equal(t, "items[2]", second.Path)
	assert.Nil(t, second.LineLeft)
	require.NotNil(t, second.LineRight)

	assert.Equal(t, "{", result.LeftContent[0])
	assert.NotEmpty(t, result.RightContent)
	assert.Equal(t, 1.5, result.ResponseTimes["local"])
	assert.Equal(t, 2.0, result.ResponseTimes["remote"])
	assert.False(t, result.Stale)
}

func TestService_ResponseTimesKeepBothSidesOnLabelCollision(t *testing.T) {
	dir := t.TempDir()
	folder := filepath.Join(dir, "a")
	require.NoError(t, os.MkdirAll(folder, 0o755))
	// both filenames trim to the label "local"
	require.NoError(t, os.WriteFile(filepath.Join(folder, "a_local_response.json"),
		[]byte(`{"success":true,"processing_time_seconds":1.0,"response_data":{"x":1}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "local_response.json"),
		[]byte(`{"success":true,"processing_time_seconds":2.0,"response_data":{"x":1}}`), 0o644))

	result := newTestService(t, dir).Compare("a")

	require.True(t, result.Success)
	assert.NotEqual(t, result.LeftAPI, result.RightAPI)
	require.Len(t, result.ResponseTimes, 2)
	assert.Equal(t, 1.0, result.ResponseTimes[result.LeftAPI])
	assert.Equal(t, 2.0, result.ResponseTimes[result.RightAPI])
}

func TestService_IdenticalSidesHaveNoDifferences(t *testing.T) {
	dir := t.TempDir()
	body := `{"response_data":{"a":1}}`
	writeCase(t, dir, "case2_same", body, body)

	result := newTestService(t, dir).Compare("case2_same")

	require.True(t, result.Success)
	assert.False(t, result.HasDifferences)
	assert.Empty(t, result.Differences)
}

func TestService_OneSideUnreadableStillProjectsTheOther(t *testing.T) {
	dir := t.TempDir()
	writeCase(t, dir, "case3_broken",
		`{"response_data":{"status":"ok"}}`,
		`{not valid json`,
	)

	result := newTestService(t, dir).Compare("case3_broken")

	require.True(t, result.Success)
	assert.Empty(t, result.LeftError)
	assert.NotEmpty(t, result.RightError)
	assert.Equal(t, []string{"{", `  "status": "ok"`, "}"}, result.LeftContent)
	assert.Equal(t, []string{diff.AbsentPlaceholder}, result.RightContent)
	assert.Empty(t, result.Differences)
}

func TestService_MissingResponseDataIsStructuredFailure(t *testing.T) {
	dir := t.TempDir()
	writeCase(t, dir, "case4_malformed",
		`{"response_data":{"a":1}}`,
		`{"something_else":true}`,
	)

	result := newTestService(t, dir).Compare("case4_malformed")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "response_data")
}

func TestService_UnknownFolderFails(t *testing.T) {
	result := newTestService(t, t.TempDir()).Compare("nope")

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestService_StaleTokenAfterNewerSelection(t *testing.T) {
	dir := t.TempDir()
	body := `{"response_data":{"a":1}}`
	writeCase(t, dir, "case5_token", body, body)

	svc := newTestService(t, dir)
	token := svc.selector.Next()
	result := svc.Compare("case5_token")

	assert.False(t, svc.selector.Latest(token), "Compare started a newer selection")
	assert.False(t, result.Stale, "latest selection renders")
}
