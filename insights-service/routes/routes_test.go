package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/insights-service/handlers"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/insights-service/services"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/classifier"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/config"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/credentials"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/db"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/insights"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/middleware"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/models"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/store"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/utils"
)

const telcoCSV = `customerID,tenure,Contract,MonthlyCharges,Churn
7590-VHVEG,1,Month-to-month,29.85,No
5575-GNVDE,34,One year,56.95,No
3668-QPYBK,2,Month-to-month,53.85,Yes
`

type envelope struct {
	Error   bool            `json:"error"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	lggr := zap.NewNop().Sugar()

	database, err := db.NewDB(context.Background(), config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "users.db"),
	}, lggr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(database) })

	model, err := classifier.New(&classifier.Artifact{
		Kind:         classifier.KindLogisticRegression,
		FeatureNames: []string{"tenure", "Contract_Month-to-month"},
		Classes:      []string{"No", "Yes"},
		Intercept:    0.5,
		Coefficients: []float64{-0.1, 1},
	})
	require.NoError(t, err)

	datasets := store.NewMemoryStore()
	t.Cleanup(func() { _ = datasets.Close() })

	users := credentials.NewStore(database, credentials.NewBcryptHasher(bcrypt.MinCost), lggr)
	issuer := utils.NewTokenIssuer("test-secret", time.Hour)
	sm := services.NewServiceManager(users, issuer, model, datasets, time.Hour, lggr)

	return SetupRoutes(handlers.NewHandlerManager(sm), Options{
		Issuer:      issuer,
		Users:       users,
		CORSOrigins: []string{"*"},
		Logger:      lggr,
	})
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonRequest(t *testing.T, method, path, token string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func uploadRequest(t *testing.T, token, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dataset", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func login(t *testing.T, r http.Handler, username, password string) string {
	t.Helper()
	w := serve(r, jsonRequest(t, http.MethodPost, "/api/v1/signup", "", models.SignupRequest{
		Username: username, Password: password, ConfirmPassword: password,
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = serve(r, jsonRequest(t, http.MethodPost, "/api/v1/login", "", models.LoginRequest{
		Username: username, Password: password,
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestAuthentication(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	tests := []struct {
		name     string
		path     string
		body     any
		wantCode int
		wantMsg  string
	}{
		{
			name:     "signup",
			path:     "/api/v1/signup",
			body:     models.SignupRequest{Username: "alice", Password: "pw", ConfirmPassword: "pw"},
			wantCode: http.StatusCreated,
			wantMsg:  handlers.MsgSignupSuccess,
		},
		{
			name:     "signup with taken username",
			path:     "/api/v1/signup",
			body:     models.SignupRequest{Username: "alice", Password: "pw", ConfirmPassword: "pw"},
			wantCode: http.StatusConflict,
			wantMsg:  handlers.MsgUsernameTaken,
		},
		{
			name:     "signup with mismatched passwords",
			path:     "/api/v1/signup",
			body:     models.SignupRequest{Username: "bob", Password: "pw", ConfirmPassword: "pw2"},
			wantCode: http.StatusBadRequest,
			wantMsg:  handlers.MsgPasswordMismatch,
		},
		{
			name:     "signup without username",
			path:     "/api/v1/signup",
			body:     map[string]string{"password": "pw"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "login with wrong password",
			path:     "/api/v1/login",
			body:     models.LoginRequest{Username: "alice", Password: "nope"},
			wantCode: http.StatusUnauthorized,
			wantMsg:  handlers.MsgInvalidLogin,
		},
		{
			name:     "login",
			path:     "/api/v1/login",
			body:     models.LoginRequest{Username: "alice", Password: "pw"},
			wantCode: http.StatusOK,
			wantMsg:  handlers.MsgLoginSuccess,
		},
	}

	// cases share one database and run in order
	for _, tt := range tests {
		w := serve(r, jsonRequest(t, http.MethodPost, tt.path, "", tt.body))
		require.Equal(t, tt.wantCode, w.Code, "%s: %s", tt.name, w.Body.String())
		env := decode(t, w)
		assert.Equal(t, tt.wantCode >= 400, env.Error, tt.name)
		if tt.wantMsg != "" {
			assert.Equal(t, tt.wantMsg, env.Message, tt.name)
		}
	}
}

func TestAuthentication_LongPassword(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	token := login(t, r, "carol", strings.Repeat("p", 100))
	assert.NotEmpty(t, token)

	w := serve(r, jsonRequest(t, http.MethodPost, "/api/v1/login", "", models.LoginRequest{
		Username: "carol", Password: strings.Repeat("p", 72),
	}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireLogin(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	for _, path := range []string{"/api/v1/dataset", "/api/v1/insights", "/api/v1/prediction/form", "/api/v1/about"} {
		w := serve(r, jsonRequest(t, http.MethodGet, path, "", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := serve(r, jsonRequest(t, http.MethodGet, "/api/v1/about", "not-a-token", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPublicRoutes(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"insights"}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/menu", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var menu models.MenuResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &menu))
	assert.Len(t, menu.Pages, 6)
	assert.Equal(t, "Developed by Sanjay using Decision Tree Model", menu.Footer)
}

func TestDatasetFlow(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)
	token := login(t, r, "alice", "pw")

	// nothing uploaded yet
	for _, path := range []string{"/api/v1/dataset", "/api/v1/insights", "/api/v1/prediction/form"} {
		w := serve(r, jsonRequest(t, http.MethodGet, path, token, nil))
		require.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, handlers.MsgUploadFirst, decode(t, w).Message)
	}

	w := serve(r, uploadRequest(t, token, "customers.txt", telcoCSV))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.HasPrefix(decode(t, w).Message, "an error occurred while processing your file"))

	w = serve(r, uploadRequest(t, token, "customers.csv", telcoCSV))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, handlers.MsgUploadSuccess, decode(t, w).Message)

	w = serve(r, jsonRequest(t, http.MethodGet, "/api/v1/dataset", token, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var ds models.DatasetResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &ds))
	assert.Equal(t, 3, ds.Rows)

	w = serve(r, jsonRequest(t, http.MethodGet, "/api/v1/insights", token, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report insights.Report
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &report))
	assert.Equal(t, 3, report.Overview.Rows)
	assert.Empty(t, report.Notices)

	w = serve(r, jsonRequest(t, http.MethodGet, "/api/v1/insights/features/tenure", token, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = serve(r, jsonRequest(t, http.MethodGet, "/api/v1/insights/features/Contract", token, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, jsonRequest(t, http.MethodGet, "/api/v1/insights/categorical/unknown", token, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, jsonRequest(t, http.MethodGet, "/api/v1/insights/charts/churn", token, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = serve(r, jsonRequest(t, http.MethodGet, "/api/v1/insights/charts/categorical/Contract", token, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	// another user does not see alice's dataset
	other := login(t, r, "bob", "pw")
	w = serve(r, jsonRequest(t, http.MethodGet, "/api/v1/dataset", other, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestManualPrediction(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)
	token := login(t, r, "alice", "pw")

	w := serve(r, uploadRequest(t, token, "customers.csv", telcoCSV))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = serve(r, jsonRequest(t, http.MethodGet, "/api/v1/prediction/form", token, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var form models.PredictionFormResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &form))
	require.Len(t, form.Fields, 4)
	assert.Equal(t, "tenure", form.Fields[1].Name)

	// 0.5 - 0.1*2 + 1 = 1.3 > 0
	w = serve(r, jsonRequest(t, http.MethodPost, "/api/v1/prediction", token, models.ManualPredictionRequest{
		Values: map[string]string{"tenure": "2", "Contract": "Month-to-month"},
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decode(t, w)
	assert.Equal(t, "Predicted Churn Status: Yes", env.Message)

	// 0.5 - 0.1*40 = -3.5 < 0
	w = serve(r, jsonRequest(t, http.MethodPost, "/api/v1/prediction", token, models.ManualPredictionRequest{
		Values: map[string]string{"tenure": "40", "Contract": "One year"},
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.ManualPredictionResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &resp))
	assert.Equal(t, "No", resp.Status)

	w = serve(r, jsonRequest(t, http.MethodPost, "/api/v1/prediction", token, map[string]any{}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAboutPage(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)
	token := login(t, r, "alice", "pw")

	w := serve(r, jsonRequest(t, http.MethodGet, "/api/v1/about", token, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var about models.AboutResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &about))
	assert.Equal(t, []string{"Retain valuable customers", "Enhance customer service", "Improve profitability"}, about.Benefits)
	assert.Equal(t, "Customer Focus is Key", about.Caption)
}

func TestDeletedUserLosesAccess(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	issuer := utils.NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.GenerateJWT(utils.JWTUser{UserID: 99, Username: "ghost"})
	require.NoError(t, err)

	w := serve(r, jsonRequest(t, http.MethodGet, "/api/v1/about", token, nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	env := decode(t, w)
	assert.True(t, env.Error)
	assert.Equal(t, middleware.LoginRequiredMessage, env.Message)
}
