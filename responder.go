package gatekeeper

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
)

// Messages returned to the client for the two rejection outcomes. These are
// user facing copy, keep them stable.
const (
	ForbiddenMessage    = "You need to log in to access this page."
	AccessDeniedMessage = "You do not have enough permission."
	InternalMessage     = "An error occurred while processing the request"
)

// ErrorResponse is the JSON body sent on every rejected request.
type ErrorResponse struct {
	HTTPStatusCode int    `json:"httpStatusCode"`
	HTTPStatus     string `json:"httpStatus"`
	Reason         string `json:"reason"`
	Message        string `json:"message"`
}

// NewErrorResponse builds the body for a given status code and message. The
// httpStatus field carries the constant-style name of the status (FORBIDDEN,
// INTERNAL_SERVER_ERROR) and reason its uppercased text.
func NewErrorResponse(status int, message string) ErrorResponse {
	return ErrorResponse{
		HTTPStatusCode: status,
		HTTPStatus:     statusName(status),
		Reason:         strings.ToUpper(http.StatusText(status)),
		Message:        message,
	}
}

func statusName(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "UNKNOWN"
	}
	text = strings.ReplaceAll(text, " ", "_")
	text = strings.ReplaceAll(text, "-", "_")
	return strings.ToUpper(text)
}

// ResponderPolicy maps rejection outcomes to status codes. The defaults keep
// an intentional historical quirk: missing authentication answers 403 and
// insufficient permission answers 401, the inverse of the usual REST mapping.
// Deployments that want the conventional pairing override the two fields.
type ResponderPolicy struct {
	UnauthenticatedStatus int
	AccessDeniedStatus    int
}

// DefaultResponderPolicy returns the historical status mapping.
func DefaultResponderPolicy() ResponderPolicy {
	return ResponderPolicy{
		UnauthenticatedStatus: fiber.StatusForbidden,
		AccessDeniedStatus:    fiber.StatusUnauthorized,
	}
}

// Responder writes the rejection bodies for the HTTP surface.
type Responder struct {
	policy ResponderPolicy
	logger Logger
}

func NewResponder(opts ...ResponderOption) *Responder {
	r := &Responder{
		policy: DefaultResponderPolicy(),
		logger: defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

type ResponderOption func(*Responder)

func WithResponderPolicy(policy ResponderPolicy) ResponderOption {
	return func(r *Responder) {
		if policy.UnauthenticatedStatus != 0 && policy.AccessDeniedStatus != 0 {
			r.policy = policy
		}
	}
}

func WithResponderLogger(logger Logger) ResponderOption {
	return func(r *Responder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Unauthenticated answers a request that reached a protected resource without
// a valid principal.
func (r *Responder) Unauthenticated(c *fiber.Ctx) error {
	body := NewErrorResponse(r.policy.UnauthenticatedStatus, ForbiddenMessage)
	return c.Status(body.HTTPStatusCode).JSON(body)
}

// AccessDenied answers an authenticated request that lacks the required
// authority.
func (r *Responder) AccessDenied(c *fiber.Ctx) error {
	body := NewErrorResponse(r.policy.AccessDeniedStatus, AccessDeniedMessage)
	return c.Status(body.HTTPStatusCode).JSON(body)
}

// InternalError answers with the generic 500 body and logs the underlying
// error, which is never exposed to the client.
func (r *Responder) InternalError(c *fiber.Ctx, err error) error {
	body := NewErrorResponse(fiber.StatusInternalServerError, InternalMessage)
	if err != nil {
		r.logger.Error("request failed: %s %s", err, print.MaybePrettyJSON(body))
	}
	return c.Status(body.HTTPStatusCode).JSON(body)
}

// Error renders an arbitrary status with the given message, used by the login
// controller to surface credential and account-state failures.
func (r *Responder) Error(c *fiber.Ctx, status int, message string) error {
	body := NewErrorResponse(status, message)
	return c.Status(body.HTTPStatusCode).JSON(body)
}
