package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"meteo-server/internal/app"
	"meteo-server/internal/transport/http/response"
)

type SnsHandler struct {
	snsService *app.SnsService
}

type CrawlRequest struct {
	Source string `json:"source" binding:"required,oneof=TWITTER NAVER_BLOG"`
}

func NewSnsHandler(snsService *app.SnsService) *SnsHandler {
	return &SnsHandler{snsService: snsService}
}

func (h *SnsHandler) List(c *gin.Context) {
	posts, err := h.snsService.List()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list sns posts failed")
		return
	}
	response.OK(c, posts)
}

// EnqueueCrawl schedules a crawl run; the worker picks it up off the
// queue.
func (h *SnsHandler) EnqueueCrawl(c *gin.Context) {
	var req CrawlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid crawl source")
		return
	}

	if err := h.snsService.EnqueueCrawl(c.Request.Context(), req.Source); err != nil {
		switch {
		case errors.Is(err, app.ErrUnknownCrawlSource):
			response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
		default:
			response.Error(c, http.StatusServiceUnavailable, response.CodeInternalServer, "enqueue crawl failed")
		}
		return
	}

	response.OK(c, gin.H{"enqueued": req.Source})
}
