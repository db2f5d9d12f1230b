package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"meteo-server/internal/app"
	"meteo-server/internal/model"
	"meteo-server/internal/transport/http/middleware"
	"meteo-server/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
}

type RegisterRequest struct {
	UserType string `json:"user_type" binding:"required,oneof=MENTOR MENTEE"`
	Name     string `json:"name" binding:"required,min=2,max=64"`
	Email    string `json:"email" binding:"required,email,max=128"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Intro    string `json:"intro" binding:"max=2000"`
}

type LoginRequest struct {
	UserType string `json:"user_type" binding:"required,oneof=MENTOR MENTEE"`
	Email    string `json:"email" binding:"required,email,max=128"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

func NewAuthHandler(authService *app.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid request payload")
		return
	}

	result, err := h.authService.Register(app.RegisterInput{
		Role:     model.Role(req.UserType),
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Intro:    req.Intro,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
		case errors.Is(err, app.ErrEmailExists):
			response.Error(c, http.StatusBadRequest, response.CodeEmailExists, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "register failed")
		}
		return
	}

	response.OK(c, authPayload(result))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid request payload")
		return
	}

	result, err := h.authService.Login(app.LoginInput{
		Role:     model.Role(req.UserType),
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
		case errors.Is(err, app.ErrInvalidCredential):
			response.Error(c, http.StatusUnauthorized, response.CodeInvalidCredentials, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "login failed")
		}
		return
	}

	response.OK(c, authPayload(result))
}

func (h *AuthHandler) Me(c *gin.Context) {
	ref, ok := middleware.UserRefFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	account, err := h.authService.GetAccount(ref)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch current account failed")
		return
	}
	if account == nil {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "account not found")
		return
	}

	response.OK(c, gin.H{
		"user_type": ref.Role,
		"account":   account,
	})
}

func authPayload(result *app.AuthResult) gin.H {
	return gin.H{
		"token":     result.Token,
		"user_type": result.Role,
		"account":   result.Account,
	}
}
