package responses

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func run(t *testing.T, h gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h(c)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestErrorResponse(t *testing.T) {
	w, body := run(t, func(c *gin.Context) { ErrorResponse(c, http.StatusNotFound, "Tournament not found") })
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Tournament not found", body["message"])
	assert.EqualValues(t, 404, body["code"])

	_, body = run(t, func(c *gin.Context) { ErrorResponse(c, http.StatusInternalServerError, "boom") })
	assert.Equal(t, "fail", body["status"])
}

func TestFieldErrorResponse(t *testing.T) {
	w, body := run(t, func(c *gin.Context) { FieldErrorResponse(c, "players", "too few") })
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]interface{}{"players": "too few"}, body["errors"])
}

func TestValidationErrorResponse_NonValidatorError(t *testing.T) {
	w, body := run(t, func(c *gin.Context) { ValidationErrorResponse(c, errors.New("unexpected EOF")) })
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request payload: unexpected EOF", body["message"])
	assert.Nil(t, body["errors"])
}

func TestSuccessResponse_LiftsMessage(t *testing.T) {
	_, body := run(t, func(c *gin.Context) {
		SuccessResponse(c, http.StatusCreated, gin.H{"message": "created", "code": "ABCD2345"})
	})
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "created", body["message"])
	assert.Equal(t, map[string]interface{}{"code": "ABCD2345"}, body["data"])
}

func TestPaginatedResponse(t *testing.T) {
	_, body := run(t, func(c *gin.Context) {
		PaginatedResponse(c, http.StatusOK, []string{"a", "b"}, 2, 2, 5)
	})
	p := body["pagination"].(map[string]interface{})
	assert.EqualValues(t, 3, p["total_pages"])
	assert.Equal(t, true, p["has_next_page"])
	assert.Equal(t, true, p["has_prev_page"])
	assert.EqualValues(t, 3, p["next_page"])
	assert.EqualValues(t, 1, p["previous_page"])
}
