// Package auth implements signup, login and the authenticated profile
// endpoint. Tokens are HS256 JWTs carrying user_id and role.
package auth

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jualabs/juajobs/internal/domain/user"
	"github.com/jualabs/juajobs/internal/store"
	"github.com/jualabs/juajobs/internal/workflow"
)

const tokenTTL = 72 * time.Hour

// Handler serves the auth routes.
type Handler struct {
	store    store.Store
	notify   workflow.Notifier
	contacts workflow.ContactValidator
	secret   []byte
	validate *validator.Validate
	log      zerolog.Logger
}

// NewHandler wires the auth routes. notify and contacts may be nil.
func NewHandler(st store.Store, notify workflow.Notifier, contacts workflow.ContactValidator, secret []byte, log zerolog.Logger) *Handler {
	return &Handler{
		store:    st,
		notify:   notify,
		contacts: contacts,
		secret:   secret,
		validate: validator.New(),
		log:      log,
	}
}

type SignupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Username    string `json:"username" validate:"required,min=2,max=64"`
	Password    string `json:"password" validate:"required,min=6"`
	Role        string `json:"role" validate:"required"`
	PhoneNumber string `json:"phone_number"`
	Country     string `json:"country" validate:"omitempty,len=2"`
	City        string `json:"city"`
}

// Signup registers a marketplace account and returns a signed token.
func (h *Handler) Signup(c echo.Context) error {
	req := new(SignupRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if !user.ValidRole(req.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be client or worker"})
	}
	if h.contacts != nil {
		if err := h.contacts.ValidatePhone(req.PhoneNumber, req.Country); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	u, err := h.store.CreateUser(c.Request().Context(), user.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hashed),
		Role:         req.Role,
		PhoneNumber:  req.PhoneNumber,
		Country:      req.Country,
		City:         req.City,
	})
	if err != nil {
		if err == store.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered", "code": workflow.ReasonDuplicateEmail})
		}
		h.log.Error().Err(err).Msg("signup failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	if h.notify != nil {
		h.notify.WelcomeUser(u)
	}

	signed, err := h.sign(u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"token": signed, "user": u})
}

func (h *Handler) sign(u user.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": u.ID,
		"role":    u.Role,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
}
