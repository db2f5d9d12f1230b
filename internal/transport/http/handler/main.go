package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"meteo-server/internal/app"
	"meteo-server/internal/transport/http/response"
)

// MainHandler serves the landing page data.
type MainHandler struct {
	mentorService *app.MentorService
}

func NewMainHandler(mentorService *app.MentorService) *MainHandler {
	return &MainHandler{mentorService: mentorService}
}

func (h *MainHandler) Index(c *gin.Context) {
	mentors, err := h.mentorService.RandomMentors()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list mentors failed")
		return
	}
	response.OK(c, mentors)
}
