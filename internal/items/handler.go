package items

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

	r.POST("/items", h.AddItem)
	r.PATCH("/items/:id", h.UpdateItem)
	r.GET("/items/search", h.Search)
	r.GET("/items/:id", h.GetItem)
	r.GET("/items", h.GetItems)
	r.POST("/items/:id/comment", h.AddComment)
}

func (h *Handler) AddItem(c *gin.Context) {
	userID, err := httpx.UserID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apierr.InvalidArgument("invalid json body"))
		return
	}
	res, err := h.svc.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) UpdateItem(c *gin.Context) {
	userID, err := httpx.UserID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	id, err := pathID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apierr.InvalidArgument("invalid json body"))
		return
	}
	res, err := h.svc.UpdateItem(c.Request.Context(), userID, id, req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetItem(c *gin.Context) {
	userID, err := httpx.UserID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	id, err := pathID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	res, err := h.svc.GetItem(c.Request.Context(), userID, id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetItems(c *gin.Context) {
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
	res, err := h.svc.GetItems(c.Request.Context(), userID, from, size)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Search(c *gin.Context) {
	if _, err := httpx.UserID(c); err != nil {
		httpx.Error(c, err)
		return
	}
	from, size, err := pageParams(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	res, err := h.svc.Search(c.Request.Context(), c.Query("text"), from, size)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) AddComment(c *gin.Context) {
	userID, err := httpx.UserID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	id, err := pathID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apierr.InvalidArgument("invalid json body"))
		return
	}
	res, err := h.svc.AddComment(c.Request.Context(), userID, id, req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierr.InvalidArgument("id must be a positive integer")
	}
	return id, nil
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
