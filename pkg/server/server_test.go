package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/iam-atlas/pkg/models/api"
	"github.com/de-tools/iam-atlas/pkg/services/advisor"
	"github.com/de-tools/iam-atlas/pkg/services/inventory"
	"github.com/de-tools/iam-atlas/pkg/store/sqlite"
	advisorstore "github.com/de-tools/iam-atlas/pkg/store/sqlite/advisor"
	uploadstore "github.com/de-tools/iam-atlas/pkg/store/sqlite/uploads"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	response string
}

func (s *stubGenerator) Generate(_ context.Context, _ string) (string, error) {
	return s.response, nil
}

func newTestServer(t *testing.T, llmDisabled bool, model string) *httptest.Server {
	t.Helper()

	db, err := sqlite.NewDB(sqlite.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	uploads, err := uploadstore.NewStore(db)
	require.NoError(t, err)
	artifacts, err := advisorstore.NewStore(db)
	require.NoError(t, err)

	logger := zerolog.New(zerolog.NewTestWriter(t))
	webAPI := NewWebAPI(logger, Config{
		Addr:            ":0",
		ShutdownTimeout: 10 * time.Second,
		LLMDisabled:     llmDisabled,
		Dependencies: Dependencies{
			Inventory: inventory.NewExplorer(uploads),
			Advisor:   advisor.NewService(&stubGenerator{response: model}, artifacts),
		},
	})

	testServer := httptest.NewServer(webAPI.Router())
	t.Cleanup(testServer.Close)
	return testServer
}

func uploadRequestBody(t *testing.T) []byte {
	t.Helper()

	req := api.UploadRequest{
		Name:             "prod account",
		OriginalFilename: "prod-export.json",
		Size:             2048,
		Data: api.AccountData{
			Users: map[string]api.User{
				"AIDAEXAMPLEUSER00001": {
					UserID:   "AIDAEXAMPLEUSER00001",
					UserName: "deploy-bot",
					Arn:      "arn:aws:iam::123456789012:user/deploy-bot",
				},
			},
			Roles: map[string]api.Role{},
			Policies: map[string]api.Policy{
				"ANPAEXAMPLEPOLICY001": {
					PolicyID:         "ANPAEXAMPLEPOLICY001",
					PolicyName:       "deploy-access",
					Arn:              "arn:aws:iam::123456789012:policy/deploy-access",
					DefaultVersionID: "v2",
					PolicyVersionList: []api.PolicyVersion{
						{
							VersionID:        "v2",
							IsDefaultVersion: true,
							Document: map[string]any{
								"Version": "2012-10-17",
								"Statement": []any{
									map[string]any{
										"Effect":   "Allow",
										"Action":   []any{"iam:PassRole", "ec2:RunInstances"},
										"Resource": "*",
									},
								},
							},
						},
					},
				},
			},
			Groups: map[string]api.Group{},
		},
	}

	body, err := json.Marshal(req)
	require.NoError(t, err)
	return body
}

func getJSON[T any](t *testing.T, testServer *httptest.Server, path string, expectedStatus int) T {
	t.Helper()

	resp, err := http.Get(testServer.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, expectedStatus, resp.StatusCode, "unexpected status for %s: %s", path, body)

	var result T
	require.NoError(t, json.Unmarshal(body, &result))
	return result
}

func postJSON[T any](t *testing.T, testServer *httptest.Server, path string, body []byte, expectedStatus int) T {
	t.Helper()

	resp, err := http.Post(testServer.URL+path, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, expectedStatus, resp.StatusCode, "unexpected status for %s: %s", path, respBody)

	var result T
	require.NoError(t, json.Unmarshal(respBody, &result))
	return result
}

func TestWebAPI_UploadAndInspectionFlow(t *testing.T) {
	testServer := newTestServer(t, false, "- tighten the policy\nRationale: wildcard resources.")

	status := getJSON[map[string]string](t, testServer, "/health", http.StatusOK)
	assert.Equal(t, "healthy", status["status"])

	cfg := getJSON[api.RuntimeConfig](t, testServer, "/api/config", http.StatusOK)
	assert.False(t, cfg.LLMDisabled)

	current := getJSON[api.CurrentUpload](t, testServer, "/api/uploads/current/id", http.StatusOK)
	assert.Nil(t, current.UploadID)

	upload := postJSON[api.Upload](t, testServer, "/api/uploads", uploadRequestBody(t), http.StatusOK)
	require.NotEmpty(t, upload.ID)
	assert.Equal(t, "prod account", upload.Name)

	uploads := getJSON[[]api.Upload](t, testServer, "/api/uploads", http.StatusOK)
	require.Len(t, uploads, 1)

	current = getJSON[api.CurrentUpload](t, testServer, "/api/uploads/current/id", http.StatusOK)
	require.NotNil(t, current.UploadID)
	assert.Equal(t, upload.ID, *current.UploadID)

	user := getJSON[api.User](t, testServer, "/api/iam/users/AIDAEXAMPLEUSER00001", http.StatusOK)
	assert.Equal(t, "deploy-bot", user.UserName)

	missing := getJSON[api.Error](t, testServer, "/api/iam/users/AIDANOSUCHUSER000000", http.StatusNotFound)
	assert.Equal(t, "User not found", missing.Detail)

	analysis := getJSON[api.PolicyAnalysis](t, testServer, "/api/iam/policies/ANPAEXAMPLEPOLICY001/analysis", http.StatusOK)
	assert.True(t, analysis.IsHighRisk)
	assert.NotEmpty(t, analysis.Flags)

	summary := getJSON[api.SecuritySummary](t, testServer, "/api/iam/summary", http.StatusOK)
	assert.Equal(t, 1, summary.TotalPolicies)
	assert.Equal(t, 1, summary.HighRiskPolicies)

	dataset := getJSON[api.AccountData](t, testServer, "/api/uploads/"+upload.ID, http.StatusOK)
	assert.Contains(t, dataset.Users, "AIDAEXAMPLEUSER00001")
	assert.Contains(t, dataset.Policies, "ANPAEXAMPLEPOLICY001")
}

func TestWebAPI_AdvisorFlow(t *testing.T) {
	testServer := newTestServer(t, false, "- replace the wildcard resource\n- pin PassRole to one role\nRationale:\nlimits escalation paths.")

	upload := postJSON[api.Upload](t, testServer, "/api/uploads", uploadRequestBody(t), http.StatusOK)

	advisorRequest, err := json.Marshal(api.AdvisorRequest{
		Policy: api.PolicyContext{
			PolicyName: "deploy-access",
			PolicyID:   "ANPAEXAMPLEPOLICY001",
			Statements: []map[string]any{
				{"Effect": "Allow", "Action": "iam:PassRole", "Resource": "*"},
			},
			DetectedFlags: []api.SecurityFlag{
				{Key: "passrole-any", Severity: "high", Title: "Unrestricted PassRole"},
			},
		},
	})
	require.NoError(t, err)

	notStored := getJSON[api.Error](t, testServer,
		"/api/llm/recommendations/"+upload.ID+"/ANPAEXAMPLEPOLICY001", http.StatusNotFound)
	assert.Equal(t, "Recommendation not found", notStored.Detail)

	generated := postJSON[api.Recommendation](t, testServer, "/api/llm/recommendations", advisorRequest, http.StatusOK)
	assert.Len(t, generated.Recommendations, 2)
	assert.Empty(t, generated.UploadID)

	regenerated := postJSON[api.Recommendation](t, testServer, "/api/llm/recommendations/regenerate", advisorRequest, http.StatusOK)
	assert.Equal(t, upload.ID, regenerated.UploadID)
	assert.NotEmpty(t, regenerated.CreatedAt)

	stored := getJSON[api.Recommendation](t, testServer,
		"/api/llm/recommendations/"+upload.ID+"/ANPAEXAMPLEPOLICY001", http.StatusOK)
	assert.Equal(t, regenerated.Recommendations, stored.Recommendations)
	assert.Equal(t, "limits escalation paths.", stored.Rationale)
}

func TestWebAPI_AdvisorDisabled(t *testing.T) {
	testServer := newTestServer(t, true, "")

	cfg := getJSON[api.RuntimeConfig](t, testServer, "/api/config", http.StatusOK)
	assert.True(t, cfg.LLMDisabled)

	response := postJSON[api.Error](t, testServer, "/api/llm/recommendations", []byte(`{}`), http.StatusServiceUnavailable)
	assert.Equal(t, "LLM is disabled by configuration", response.Detail)
}
