package gatekeeper

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runResponder(t *testing.T, handler fiber.Handler) (*http.Response, ErrorResponse) {
	t.Helper()

	app := fiber.New()
	app.Get("/probe", handler)

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/probe", nil))
	require.NoError(t, err)

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	defer res.Body.Close()

	body := ErrorResponse{}
	require.NoError(t, json.Unmarshal(raw, &body))

	return res, body
}

func TestResponderUnauthenticated(t *testing.T) {
	responder := NewResponder()

	res, body := runResponder(t, responder.Unauthenticated)

	// The default policy answers missing authentication with 403, not 401.
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, http.StatusForbidden, body.HTTPStatusCode)
	assert.Equal(t, "FORBIDDEN", body.HTTPStatus)
	assert.Equal(t, "FORBIDDEN", body.Reason)
	assert.Equal(t, ForbiddenMessage, body.Message)
}

func TestResponderAccessDenied(t *testing.T) {
	responder := NewResponder()

	res, body := runResponder(t, responder.AccessDenied)

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body.HTTPStatus)
	assert.Equal(t, AccessDeniedMessage, body.Message)
}

func TestResponderConventionalPolicy(t *testing.T) {
	responder := NewResponder(WithResponderPolicy(ResponderPolicy{
		UnauthenticatedStatus: http.StatusUnauthorized,
		AccessDeniedStatus:    http.StatusForbidden,
	}))

	res, _ := runResponder(t, responder.Unauthenticated)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = runResponder(t, responder.AccessDenied)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestResponderInternalError(t *testing.T) {
	responder := NewResponder()

	res, body := runResponder(t, func(c *fiber.Ctx) error {
		return responder.InternalError(c, errors.New("database on fire", errors.CategoryInternal))
	})

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body.HTTPStatus)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Reason)
	// The underlying cause never leaks to the client.
	assert.Equal(t, InternalMessage, body.Message)
}

func TestErrorResponseShape(t *testing.T) {
	raw, err := json.Marshal(NewErrorResponse(http.StatusForbidden, ForbiddenMessage))
	require.NoError(t, err)

	decoded := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Len(t, decoded, 4)
	assert.Contains(t, decoded, "httpStatusCode")
	assert.Contains(t, decoded, "httpStatus")
	assert.Contains(t, decoded, "reason")
	assert.Contains(t, decoded, "message")
	assert.Equal(t, float64(403), decoded["httpStatusCode"])
}
