package users

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

	r.POST("/users", h.AddUser)
	r.GET("/users", h.ListUsers)
	r.GET("/users/:id", h.GetUser)
	r.PATCH("/users/:id", h.UpdateUser)
	r.DELETE("/users/:id", h.DeleteUser)
}

func (h *Handler) AddUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apierr.InvalidArgument("invalid json body"))
		return
	}
	res, err := h.svc.AddUser(c.Request.Context(), req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListUsers(c *gin.Context) {
	res, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	res, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apierr.InvalidArgument("invalid json body"))
		return
	}
	res, err := h.svc.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	if err := h.svc.DeleteUser(c.Request.Context(), id); err != nil {
		httpx.Error(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierr.InvalidArgument("id must be a positive integer")
	}
	return id, nil
}
