package bookings

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shareit/internal/platform/apierr"
	"shareit/internal/platform/httpx"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/bookings", h.AddBooking)
	r.PATCH("/bookings/:id", h.Approve)
	r.GET("/bookings/owner", h.ListForOwner)
	r.GET("/bookings/:id", h.GetBooking)
	r.GET("/bookings", h.ListForBooker)
}

func (h *Handler) AddBooking(c *gin.Context) {
	userID, err := httpx.UserID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apierr.InvalidArgument("invalid json body"))
		return
	}
	res, err := h.svc.AddBooking(c.Request.Context(), userID, req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Approve(c *gin.Context) {
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
	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		httpx.Error(c, apierr.InvalidArgument("approved must be true or false"))
		return
	}
	res, err := h.svc.Approve(c.Request.Context(), userID, id, approved)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetBooking(c *gin.Context) {
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
	res, err := h.svc.GetBooking(c.Request.Context(), userID, id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListForBooker(c *gin.Context) {
	h.list(c, h.svc.ListForBooker)
}

func (h *Handler) ListForOwner(c *gin.Context) {
	h.list(c, h.svc.ListForOwner)
}

type listFn func(ctx context.Context, userID int64, state string, from, size int) ([]BookingResponse, error)

func (h *Handler) list(c *gin.Context, fn listFn) {
	userID, err := httpx.UserID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	state := c.DefaultQuery("state", StateAll)
	from, size, err := pageParams(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	res, err := fn(c.Request.Context(), userID, state, from, size)
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

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierr.InvalidArgument("id must be a positive integer")
	}
	return id, nil
}
