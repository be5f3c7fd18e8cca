package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/middleware"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

// DataResponse is the success envelope for a single document.
type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// ListResponse is the success envelope for listings.
type ListResponse struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Data    interface{} `json:"data"`
}

// MessageResponse is the success envelope for operations without a document.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TokenResponse is returned by every operation that starts a session.
type TokenResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

// CookieOptions configures the session cookie.
type CookieOptions struct {
	Expiry time.Duration
	Secure bool
}

func sendData(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, DataResponse{Success: true, Data: data})
}

func sendList[T any](c echo.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, ListResponse{Success: true, Count: len(items), Data: items})
}

// sendToken writes the token as JSON and as an HttpOnly cookie.
func sendToken(c echo.Context, status int, opts CookieOptions, user *model.User, token string) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(opts.Expiry),
		HttpOnly: true,
		Secure:   opts.Secure,
	})

	msg := user.Email + " logged in"
	if user.IsAdmin() {
		msg = "Our Admin " + user.Name + " has arrived"
	}
	return c.JSON(status, TokenResponse{Success: true, Message: msg, Token: token})
}

// bindAndValidate decodes the request body into req and runs struct validation.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return apperrors.Validation(err.Error())
	}
	return nil
}

func paramID(c echo.Context, name, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.NotFound("no " + what + " with the id of " + c.Param(name))
	}
	return id, nil
}

func pageFromQuery(c echo.Context) repository.Page {
	number, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("limit"))
	return repository.NewPage(number, size)
}
