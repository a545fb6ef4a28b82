package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/avdoshkin/task-manager/internal/authz"
	"github.com/avdoshkin/task-manager/internal/services"
	"github.com/avdoshkin/task-manager/internal/storage"
)

func newTestRouter(t *testing.T) (*gin.Engine, *storage.MemoryTaskStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zerolog.Nop()
	taskStore := storage.NewMemoryTaskStore()
	userStore := storage.NewMemoryUserStore()
	sessionStore := storage.NewMemorySessionStore()

	authService := services.NewAuthService(
		logger,
		userStore,
		sessionStore,
		"task-manager-test",
		[]byte("test-signing-key"),
		15*time.Minute,
		24*time.Hour,
	)
	sessionService := services.NewSessionService(logger, sessionStore)
	taskService := services.NewTaskService(
		logger,
		taskStore,
		authz.NewPolicy(false),
		authz.SurfaceAPI,
		storage.OrderByDueDate,
	)

	router := gin.New()
	RegisterRoutes(router, New(logger, authService, sessionService, taskService))
	return router, taskStore
}

func doJSON(router *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// registerAndLogin creates the user and returns its ID and a bearer token.
func registerAndLogin(t *testing.T, router *gin.Engine, username, password string) (userID, token string) {
	t.Helper()

	w := doJSON(router, http.MethodPost, "/api/register/", "", gin.H{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	userID = decodeBody(t, w)["id"].(string)

	w = doJSON(router, http.MethodPost, "/api/login/", "", gin.H{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)
	token = decodeBody(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return userID, token
}

func TestRegister(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/register/", "", gin.H{
		"username": "testuser",
		"password": "testpassword",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "testuser", body["username"])
	require.NotEmpty(t, body["id"])
}

func TestRegisterDuplicate(t *testing.T) {
	router, _ := newTestRouter(t)
	registerAndLogin(t, router, "testuser", "testpassword")

	w := doJSON(router, http.MethodPost, "/api/register/", "", gin.H{
		"username": "testuser",
		"password": "otherpassword",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	router, _ := newTestRouter(t)
	registerAndLogin(t, router, "testuser", "testpassword")

	w := doJSON(router, http.MethodPost, "/api/login/", "", gin.H{
		"username": "testuser",
		"password": "wrongpassword",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	require.NotContains(t, body, "token")
}

func TestTasksRequireAuthentication(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/tasks/", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateTaskValidation(t *testing.T) {
	router, _ := newTestRouter(t)
	_, token := registerAndLogin(t, router, "testuser", "testpassword")

	w := doJSON(router, http.MethodPost, "/api/tasks/", token, gin.H{
		"description": "Description",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	errs := body["errors"].(map[string]any)
	require.Contains(t, errs, "title")
	require.Contains(t, errs, "due_date")
}

func TestCreateTaskIgnoresSuppliedAssignee(t *testing.T) {
	router, _ := newTestRouter(t)
	userID, token := registerAndLogin(t, router, "testuser", "testpassword")

	w := doJSON(router, http.MethodPost, "/api/tasks/", token, gin.H{
		"title":       "Test Task",
		"description": "Description",
		"due_date":    "2023-09-30",
		"status":      "pending",
		"assignee":    "someone-else",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, userID, body["assignee"])
	require.Equal(t, "pending", body["status"])
}

func TestTaskScenario(t *testing.T) {
	router, _ := newTestRouter(t)
	userID, token := registerAndLogin(t, router, "testuser", "testpassword")

	w := doJSON(router, http.MethodPost, "/api/tasks/", token, gin.H{
		"title":       "Test Task",
		"due_date":    "2023-09-30",
		"description": "Description",
		"status":      "pending",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	created := decodeBody(t, w)
	require.Equal(t, userID, created["assignee"])
	taskID := int64(created["id"].(float64))

	w = doJSON(router, http.MethodPatch, taskPath(taskID), token, gin.H{
		"status": "in_progress",
	})
	require.Equal(t, http.StatusOK, w.Code)

	patched := decodeBody(t, w)
	require.Equal(t, "in_progress", patched["status"])
	require.Equal(t, "Test Task", patched["title"])
}

func TestListReturnsOnlyOwnTasksOrderedByDueDate(t *testing.T) {
	router, _ := newTestRouter(t)
	_, tokenA := registerAndLogin(t, router, "usera", "testpassword")

	w := doJSON(router, http.MethodPost, "/api/tasks/", tokenA, gin.H{
		"title":       "Later",
		"description": "Description",
		"due_date":    "2023-10-15",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/api/tasks/", tokenA, gin.H{
		"title":       "Sooner",
		"description": "Description",
		"due_date":    "2023-09-30",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	_, tokenB := registerAndLogin(t, router, "userb", "testpassword")
	w = doJSON(router, http.MethodPost, "/api/tasks/", tokenB, gin.H{
		"title":       "Foreign",
		"description": "Description",
		"due_date":    "2023-01-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodGet, "/api/tasks/", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tasks []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Len(t, tasks, 2)
	require.Equal(t, "Sooner", tasks[0]["title"])
	require.Equal(t, "Later", tasks[1]["title"])
}

func TestForeignTaskAccess(t *testing.T) {
	router, taskStore := newTestRouter(t)
	_, tokenA := registerAndLogin(t, router, "usera", "testpassword")
	_, tokenB := registerAndLogin(t, router, "userb", "testpassword")

	w := doJSON(router, http.MethodPost, "/api/tasks/", tokenA, gin.H{
		"title":       "Test Task",
		"description": "Description",
		"due_date":    "2023-09-30",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := int64(decodeBody(t, w)["id"].(float64))

	w = doJSON(router, http.MethodGet, taskPath(taskID), tokenB, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(router, http.MethodPut, taskPath(taskID), tokenB, gin.H{
		"title":       "Hijacked",
		"description": "Description",
		"due_date":    "2023-09-30",
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(router, http.MethodDelete, taskPath(taskID), tokenB, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, 1, taskStore.Count())

	w = doJSON(router, http.MethodDelete, taskPath(taskID), tokenA, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, 0, taskStore.Count())

	w = doJSON(router, http.MethodGet, taskPath(taskID), tokenA, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func taskPath(taskID int64) string {
	return "/api/tasks/" + strconv.FormatInt(taskID, 10) + "/"
}
