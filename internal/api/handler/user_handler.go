package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/peerlend/loan-tracker/internal/core/domain"
	"github.com/peerlend/loan-tracker/internal/core/ports"
)

const (
	msgInvalidUserID = "Invalid user ID format"
	msgUserRequired  = "Name and email are required"
)

// UserHandler handles HTTP requests for user registration and lookup.
type UserHandler struct {
	service ports.UserService
	log     zerolog.Logger
}

func NewUserHandler(service ports.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{service: service, log: log}
}

// List handles GET /users.
//
// @Summary      List users ordered by name
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      500  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Create handles POST /users.
//
// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string             false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createUserRequest  true   "User details"
// @Success      201              {object}  domain.User
// @Failure      400              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewError(domain.ErrValidation, msgInvalidPayload)
	}
	if err := c.Validate(&req); err != nil {
		h.log.Debug().Err(err).Msg("user request failed schema validation")
		return domain.NewError(domain.ErrValidation, msgUserRequired)
	}

	user, err := h.service.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Name:       req.Name,
		Email:      req.Email,
		IsBorrower: req.IsBorrower,
		IsLender:   req.IsLender,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Get handles GET /users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id (UUID v4)"
// @Success      200  {object}  domain.User
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if !domain.IsValidUUID(id) {
		h.log.Warn().Str("id", id).Msg("invalid user id")
		return domain.NewError(domain.ErrValidation, msgInvalidUserID)
	}
	user, err := h.service.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
