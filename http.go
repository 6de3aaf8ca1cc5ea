package gatekeeper

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
)

// HeaderJWTToken is the response header carrying the freshly issued token on
// a successful login.
const HeaderJWTToken = "Jwt-Token"

// LoginPayload is the credentials body accepted by the login endpoint.
type LoginPayload struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required),
		validation.Field(&p.Password, validation.Required),
	)
}

// TokenResponse is the JSON body returned on successful login.
type TokenResponse struct {
	Token string `json:"token"`
}

// LoginController handles credential exchange over HTTP.
type LoginController struct {
	auth      Authenticator
	responder *Responder
	logger    Logger
}

func NewLoginController(auth Authenticator, opts ...LoginControllerOption) *LoginController {
	ctrl := &LoginController{
		auth:      auth,
		responder: NewResponder(),
		logger:    defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ctrl)
		}
	}
	return ctrl
}

type LoginControllerOption func(*LoginController)

func WithControllerResponder(responder *Responder) LoginControllerOption {
	return func(ctrl *LoginController) {
		if responder != nil {
			ctrl.responder = responder
		}
	}
}

func WithControllerLogger(logger Logger) LoginControllerOption {
	return func(ctrl *LoginController) {
		if logger != nil {
			ctrl.logger = logger
		}
	}
}

// Login exchanges a username/password pair for a signed token. The token is
// returned both in the Jwt-Token response header and the JSON body.
func (ctrl *LoginController) Login(c *fiber.Ctx) error {
	payload := LoginPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return ctrl.responder.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := payload.Validate(); err != nil {
		return ctrl.responder.Error(c, fiber.StatusBadRequest, err.Error())
	}

	token, err := ctrl.auth.Login(c.UserContext(), payload.Username, payload.Password)
	if err != nil {
		return ctrl.renderLoginError(c, err)
	}

	c.Set(HeaderJWTToken, token)

	return c.JSON(TokenResponse{Token: token})
}

func (ctrl *LoginController) renderLoginError(c *fiber.Ctx, err error) error {
	switch {
	case IsAccountLockedError(err):
		return ctrl.responder.Error(c, fiber.StatusUnauthorized, ErrAccountLocked.Message)
	case IsAccountDisabledError(err):
		return ctrl.responder.Error(c, fiber.StatusBadRequest, ErrAccountDisabled.Message)
	case IsBadCredentialsError(err):
		return ctrl.responder.Error(c, fiber.StatusBadRequest, ErrMismatchedHashAndPassword.Message)
	default:
		return ctrl.responder.InternalError(c, err)
	}
}

// RegisterRoutes mounts the login endpoint under the given router.
func (ctrl *LoginController) RegisterRoutes(router fiber.Router) {
	router.Post("/login", ctrl.Login)
}
