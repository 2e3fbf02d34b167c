package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/predict-service/handlers"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/predict-service/services"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/classifier"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/models"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/store"
)

const customersCSV = `tenure,Contract,MonthlyCharges
1,Month-to-month,29.85
34,One year,56.95
2,Month-to-month,53.85
`

type predictionEnvelope struct {
	Error   bool                      `json:"error"`
	Message string                    `json:"message"`
	Data    models.PredictionResponse `json:"data"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	model, err := classifier.New(&classifier.Artifact{
		Kind:         classifier.KindDecisionTree,
		FeatureNames: []string{"tenure", "MonthlyCharges", "Contract_Month-to-month"},
		Classes:      []string{"No", "Yes"},
		Tree: &classifier.Tree{
			ChildrenLeft:  []int{1, -1, -1},
			ChildrenRight: []int{2, -1, -1},
			Feature:       []int{0, -2, -2},
			Threshold:     []float64{12.5, -2, -2},
			Value:         [][]float64{{11, 9}, {2, 8}, {9, 1}},
		},
	})
	require.NoError(t, err)

	results := store.NewMemoryStore()
	t.Cleanup(func() { _ = results.Close() })

	lggr := zap.NewNop().Sugar()
	sm := services.NewServiceManager(model, results, time.Hour, lggr)
	return SetupRoutes(handlers.NewHandlerManager(sm), []string{"*"}, lggr)
}

func uploadRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predictions", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPredictionFlow(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)

	w := serve(r, uploadRequest(t, "file", "customers.csv", customersCSV))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp predictionEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Error)
	assert.Equal(t, 2, resp.Data.TotalPredictedChurns)
	assert.InDelta(t, (0.8+0.1+0.8)/3, resp.Data.AverageChurnProbability, 1e-9)
	require.NotEmpty(t, resp.Data.DownloadID)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/predictions/"+resp.Data.DownloadID+"/download", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "churn_predictions.csv")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "tenure,Contract,MonthlyCharges,Churn Prediction,Churn Probability", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,Month-to-month,29.85,Yes,0.8"), lines[1])

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/predictions/"+resp.Data.DownloadID+"/chart", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}

func TestPredict_BadUploads(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)

	tests := []struct {
		name        string
		req         *http.Request
		wantMessage string
	}{
		{
			name:        "header only",
			req:         uploadRequest(t, "file", "customers.csv", "tenure,Contract\n"),
			wantMessage: "an error occurred while processing your file:",
		},
		{
			name:        "not a csv file",
			req:         uploadRequest(t, "file", "customers.xlsx", customersCSV),
			wantMessage: "an error occurred while processing your file:",
		},
		{
			name:        "wrong field",
			req:         uploadRequest(t, "upload", "customers.csv", customersCSV),
			wantMessage: "please choose a CSV file to upload",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.req)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp models.GenericResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.True(t, resp.Error)
			assert.True(t, strings.HasPrefix(resp.Message, tt.wantMessage), resp.Message)
		})
	}
}

func TestPrediction_NotFound(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)

	for _, path := range []string{
		"/api/v1/predictions/4b0c3f0e-3c1e-4f7e-9a57-8f1d7a9c2b11/download",
		"/api/v1/predictions/not-an-id/download",
		"/api/v1/predictions/not-an-id/chart",
	} {
		w := serve(r, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestHealthAndModel(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"predict"}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/model", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"decision_tree"`)
	assert.Contains(t, w.Body.String(), `"feature_count":3`)
}
