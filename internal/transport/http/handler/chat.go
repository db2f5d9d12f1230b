package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"meteo-server/internal/app"
	"meteo-server/internal/model"
	"meteo-server/internal/transport/http/middleware"
	"meteo-server/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
}

type SendMessageRequest struct {
	ChatListsID uint   `json:"chat_lists_id" binding:"required,gt=0"`
	Message     string `json:"message" binding:"required"`
}

type EnsureThreadRequest struct {
	UserType string `json:"user_type" binding:"required,oneof=MENTOR MENTEE"`
	ID       uint   `json:"id" binding:"required,gt=0"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	sender, ok := middleware.UserRefFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid request payload")
		return
	}

	message, err := h.chatService.SendMessage(c.Request.Context(), app.SendMessageInput{
		Sender:   sender,
		ThreadID: req.ChatListsID,
		Body:     req.Message,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInsufficientHomi):
			response.Error(c, http.StatusPaymentRequired, response.CodeInsufficientHomi, err.Error())
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrMessageEmpty):
			response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
		case errors.Is(err, app.ErrThreadNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case errors.Is(err, app.ErrNotParticipant):
			response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "send message failed")
		}
		return
	}

	response.OK(c, message)
}

func (h *ChatHandler) GetMessage(c *gin.Context) {
	messageID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || messageID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid message id")
		return
	}

	message, err := h.chatService.GetMessage(uint(messageID))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrMessageNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get message failed")
		}
		return
	}

	response.OK(c, message)
}

// MessageLists returns one page of a thread, newest first.
func (h *ChatHandler) MessageLists(c *gin.Context) {
	threadID, err := strconv.ParseUint(c.Param("chat_lists_id"), 10, 64)
	if err != nil || threadID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid chat_lists_id")
		return
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		if parsed, parseErr := strconv.Atoi(raw); parseErr == nil && parsed > 0 {
			page = parsed
		}
	}

	messages, err := h.chatService.ListThread(uint(threadID), page)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list messages failed")
		return
	}

	response.OK(c, messages)
}

// ChatLists returns the caller's chat threads.
func (h *ChatHandler) ChatLists(c *gin.Context) {
	ref, ok := middleware.UserRefFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	threads, err := h.chatService.ListThreadsForUser(ref)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list chat threads failed")
		return
	}

	response.OK(c, threads)
}

// EnsureThread finds or creates the thread between the caller and the
// requested peer.
func (h *ChatHandler) EnsureThread(c *gin.Context) {
	caller, ok := middleware.UserRefFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req EnsureThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid request payload")
		return
	}

	peer := model.UserRef{Role: model.Role(req.UserType), ID: req.ID}
	thread, err := h.chatService.EnsureThread(caller, peer)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "ensure chat thread failed")
		}
		return
	}

	response.OK(c, thread)
}
