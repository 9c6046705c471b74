package requests

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shareit/internal/platform/apierr"
	"shareit/internal/platform/httpx"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/requests", h.Create)
	r.GET("/requests", h.ListOwn)
	r.GET("/requests/all", h.ListOthers)
	r.GET("/requests/:id", h.GetByID)
}

func (h *Handler) Create(c *gin.Context) {
	userID, err := httpx.UserID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apierr.InvalidArgument("invalid json body"))
		return
	}
	res, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListOwn(c *gin.Context) {
	userID, err := httpx.UserID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	res, err := h.svc.ListOwn(c.Request.Context(), userID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListOthers(c *gin.Context) {
	userID, err := httpx.UserID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	from, size, err := pageParams(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	res, err := h.svc.ListOthers(c.Request.Context(), userID, from, size)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetByID(c *gin.Context) {
	userID, err := httpx.UserID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Error(c, apierr.InvalidArgument("id must be a positive integer"))
		return
	}
	res, err := h.svc.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func pageParams(c *gin.Context) (from, size int, err error) {
	from, size = 0, 10
	if v := c.Query("from"); v != "" {
		from, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, apierr.InvalidArgument("from must be an integer")
		}
	}
	if v := c.Query("size"); v != "" {
		size, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, apierr.InvalidArgument("size must be an integer")
		}
	}
	return from, size, nil
}
