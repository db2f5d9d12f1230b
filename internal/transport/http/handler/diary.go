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

type DiaryHandler struct {
	diaryService *app.DiaryService
}

func NewDiaryHandler(diaryService *app.DiaryService) *DiaryHandler {
	return &DiaryHandler{diaryService: diaryService}
}

// menteeFromContext resolves the caller and enforces the mentee role;
// diaries belong to mentees only.
func menteeFromContext(c *gin.Context) (uint, bool) {
	ref, ok := middleware.UserRefFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return 0, false
	}
	if ref.Role != model.RoleMentee {
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "diaries are available to mentees only")
		return 0, false
	}
	return ref.ID, true
}

// Create accepts multipart form data: title, contents and an optional
// photo file.
func (h *DiaryHandler) Create(c *gin.Context) {
	menteeSrl, ok := menteeFromContext(c)
	if !ok {
		return
	}

	input := app.DiaryInput{
		MenteeSrl: menteeSrl,
		Title:     c.PostForm("title"),
		Contents:  c.PostForm("contents"),
	}
	if file, err := c.FormFile("photo"); err == nil {
		opened, openErr := file.Open()
		if openErr != nil {
			response.Error(c, http.StatusBadRequest, response.CodeValidation, "unreadable photo upload")
			return
		}
		defer opened.Close()
		input.Photo = opened
		input.PhotoSize = file.Size
		input.PhotoContentType = file.Header.Get("Content-Type")
		input.PhotoFilename = file.Filename
	}

	diary, err := h.diaryService.Create(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create diary failed")
		}
		return
	}

	response.OK(c, diary)
}

func (h *DiaryHandler) Show(c *gin.Context) {
	diarySrl, err := strconv.ParseUint(c.Param("diary_srl"), 10, 64)
	if err != nil || diarySrl == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid diary_srl")
		return
	}

	diary, err := h.diaryService.Get(uint(diarySrl))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrDiaryNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get diary failed")
		}
		return
	}

	response.OK(c, diary)
}

func (h *DiaryHandler) Update(c *gin.Context) {
	menteeSrl, ok := menteeFromContext(c)
	if !ok {
		return
	}

	diarySrl, err := strconv.ParseUint(c.Param("diary_srl"), 10, 64)
	if err != nil || diarySrl == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid diary_srl")
		return
	}

	input := app.DiaryInput{
		MenteeSrl: menteeSrl,
		Title:     c.PostForm("title"),
		Contents:  c.PostForm("contents"),
	}
	if file, formErr := c.FormFile("photo"); formErr == nil {
		opened, openErr := file.Open()
		if openErr != nil {
			response.Error(c, http.StatusBadRequest, response.CodeValidation, "unreadable photo upload")
			return
		}
		defer opened.Close()
		input.Photo = opened
		input.PhotoSize = file.Size
		input.PhotoContentType = file.Header.Get("Content-Type")
		input.PhotoFilename = file.Filename
	}

	diary, err := h.diaryService.Update(c.Request.Context(), uint(diarySrl), input)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrDiaryNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case errors.Is(err, app.ErrDiaryForbidden):
			response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update diary failed")
		}
		return
	}

	response.OK(c, diary)
}

func (h *DiaryHandler) Destroy(c *gin.Context) {
	menteeSrl, ok := menteeFromContext(c)
	if !ok {
		return
	}

	diarySrl, err := strconv.ParseUint(c.Param("diary_srl"), 10, 64)
	if err != nil || diarySrl == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid diary_srl")
		return
	}

	if err := h.diaryService.Destroy(uint(diarySrl), menteeSrl); err != nil {
		switch {
		case errors.Is(err, app.ErrDiaryNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case errors.Is(err, app.ErrDiaryForbidden):
			response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete diary failed")
		}
		return
	}

	response.OK(c, gin.H{"deleted_diary_srl": uint(diarySrl)})
}

// UserDiary lists one mentee's diaries with content previews.
func (h *DiaryHandler) UserDiary(c *gin.Context) {
	menteeSrl, err := strconv.ParseUint(c.Param("mentee_srl"), 10, 64)
	if err != nil || menteeSrl == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid mentee_srl")
		return
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		if parsed, parseErr := strconv.Atoi(raw); parseErr == nil && parsed > 0 {
			page = parsed
		}
	}

	diaries, err := h.diaryService.UserDiary(uint(menteeSrl), page)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list diaries failed")
		return
	}

	response.OK(c, diaries)
}

func (h *DiaryHandler) All(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		if parsed, parseErr := strconv.Atoi(raw); parseErr == nil && parsed > 0 {
			page = parsed
		}
	}

	diaries, err := h.diaryService.All(page)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list diaries failed")
		return
	}

	response.OK(c, diaries)
}
