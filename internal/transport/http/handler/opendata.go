package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"meteo-server/internal/opendata"
	"meteo-server/internal/transport/http/response"
)

// OpenDataHandler proxies the government open-data APIs. Queries keep the
// upstream parameter names the legacy clients already send.
type OpenDataHandler struct {
	client *opendata.Client
}

type machinesQuery struct {
	CTPRVN string `form:"CTPRVN" binding:"required"`
	FchKnd string `form:"FCH_KND"`
}

type dictionaryQuery struct {
	ClNm string `form:"CL_NM" binding:"required"`
}

type specialCropsQuery struct {
	Year   string `form:"year" binding:"required"`
	Ctprvn string `form:"ctprvn" binding:"required"`
}

type emptyHousesQuery struct {
	Sidonm     string `form:"sidonm" binding:"required"`
	Gubuncd    string `form:"gubuncd" binding:"required,oneof=F U"`
	Dealtypecd string `form:"dealtypecd" binding:"required,oneof=DLTC01 DLTC02 DLTC03 DLTC04 DLTC05"`
}

type educationFarmsQuery struct {
	Page  int    `form:"page"`
	SType string `form:"sType" binding:"omitempty,oneof=sThema sLocplc sCntntsSj"`
	SText string `form:"sText"`
}

type weatherQuery struct {
	Nx int `form:"nx" binding:"required"`
	Ny int `form:"ny" binding:"required"`
}

func NewOpenDataHandler(client *opendata.Client) *OpenDataHandler {
	return &OpenDataHandler{client: client}
}

func (h *OpenDataHandler) Machines(c *gin.Context) {
	var q machinesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "CTPRVN is required")
		return
	}

	body, err := h.client.Machines(c.Request.Context(), q.CTPRVN, q.FchKnd)
	if err != nil {
		response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailure, "machine rental lookup failed")
		return
	}
	c.JSON(http.StatusOK, body)
}

func (h *OpenDataHandler) Dictionary(c *gin.Context) {
	var q dictionaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "CL_NM is required")
		return
	}

	body, err := h.client.Dictionary(c.Request.Context(), q.ClNm)
	if err != nil {
		response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailure, "crop dictionary lookup failed")
		return
	}
	c.JSON(http.StatusOK, body)
}

func (h *OpenDataHandler) SpecialCrops(c *gin.Context) {
	var q specialCropsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "year and ctprvn are required")
		return
	}

	body, err := h.client.SpecialCrops(c.Request.Context(), q.Year, q.Ctprvn)
	if err != nil {
		response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailure, "special crops lookup failed")
		return
	}
	c.JSON(http.StatusOK, body)
}

func (h *OpenDataHandler) EmptyHouses(c *gin.Context) {
	var q emptyHousesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "sidonm, gubuncd and dealtypecd are required")
		return
	}

	body, err := h.client.EmptyHouses(c.Request.Context(), q.Sidonm, q.Gubuncd, q.Dealtypecd)
	if err != nil {
		response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailure, "empty houses lookup failed")
		return
	}
	c.JSON(http.StatusOK, body)
}

func (h *OpenDataHandler) EducationFarms(c *gin.Context) {
	var q educationFarmsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid sType/sText filter")
		return
	}
	// A search text without a type (or vice versa) mirrors the legacy
	// behavior of ignoring the filter entirely.
	if q.SType == "" || q.SText == "" {
		q.SType, q.SText = "", ""
	}

	list, err := h.client.EducationFarms(c.Request.Context(), q.Page, q.SType, q.SText)
	if err != nil {
		response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailure, "education farms lookup failed")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *OpenDataHandler) EducationFarmsDetail(c *gin.Context) {
	cntntsNo := c.Param("cntntsNo")
	if cntntsNo == "" {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "cntntsNo is required")
		return
	}

	detail, err := h.client.EducationFarmsDetail(c.Request.Context(), cntntsNo)
	if err != nil {
		response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailure, "education farm detail lookup failed")
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *OpenDataHandler) WeekFarmInfo(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}

	info, err := h.client.WeekFarmInfo(c.Request.Context(), page)
	if err != nil {
		response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailure, "week farm info lookup failed")
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *OpenDataHandler) Weather(c *gin.Context) {
	var q weatherQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "nx and ny are required")
		return
	}

	body, err := h.client.Weather(c.Request.Context(), q.Nx, q.Ny)
	if err != nil {
		response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailure, "weather lookup failed")
		return
	}
	c.JSON(http.StatusOK, body)
}
