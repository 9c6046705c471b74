package gateway

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"shareit/internal/platform/apierr"
	"shareit/internal/platform/httpx"
)

// Handler validates request shape and forwards everything else to the
// server. No business rules live here.
type Handler struct {
	client *Client
}

func RegisterRoutes(r gin.IRoutes, client *Client) {
	h := &Handler{client: client}

	r.POST("/users", h.AddUser)
	r.GET("/users", h.ListUsers)
	r.GET("/users/:id", h.GetUser)
	r.PATCH("/users/:id", h.UpdateUser)
	r.DELETE("/users/:id", h.DeleteUser)

	r.POST("/items", h.AddItem)
	r.PATCH("/items/:id", h.UpdateItem)
	r.GET("/items/search", h.SearchItems)
	r.GET("/items/:id", h.GetItem)
	r.GET("/items", h.GetItems)
	r.POST("/items/:id/comment", h.AddComment)

	r.POST("/bookings", h.AddBooking)
	r.PATCH("/bookings/:id", h.ApproveBooking)
	r.GET("/bookings/owner", h.ListOwnerBookings)
	r.GET("/bookings/:id", h.GetBooking)
	r.GET("/bookings", h.ListBookings)

	r.POST("/requests", h.AddRequest)
	r.GET("/requests", h.ListOwnRequests)
	r.GET("/requests/all", h.ListOtherRequests)
	r.GET("/requests/:id", h.GetRequest)
}

// ----- request shapes (validation only, forwarded as-is) -----

type createUserBody struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type updateUserBody struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
}

type createItemBody struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"requestId"`
}

type updateItemBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
	RequestID   *int64  `json:"requestId"`
}

type createCommentBody struct {
	Text string `json:"text" binding:"required"`
}

type createBookingBody struct {
	ItemID int64      `json:"itemId" binding:"required"`
	Start  *time.Time `json:"start" binding:"required"`
	End    *time.Time `json:"end" binding:"required"`
}

type createRequestBody struct {
	Description string `json:"description" binding:"required"`
}

// ----- users -----

func (h *Handler) AddUser(c *gin.Context) {
	var body createUserBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httpx.Error(c, apierr.InvalidArgument("name and a valid email are required"))
		return
	}
	h.forward(c, http.MethodPost, "/users", 0, body)
}

func (h *Handler) ListUsers(c *gin.Context) {
	h.forward(c, http.MethodGet, "/users", 0, nil)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	h.forward(c, http.MethodGet, fmt.Sprintf("/users/%d", id), 0, nil)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	var body updateUserBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httpx.Error(c, apierr.InvalidArgument("email must be a valid address"))
		return
	}
	h.forward(c, http.MethodPatch, fmt.Sprintf("/users/%d", id), 0, body)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	h.forward(c, http.MethodDelete, fmt.Sprintf("/users/%d", id), 0, nil)
}

// ----- items -----

func (h *Handler) AddItem(c *gin.Context) {
	userID, err := httpx.UserID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	var body createItemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httpx.Error(c, apierr.InvalidArgument("name, description and available are required"))
		return
	}
	h.forward(c, http.MethodPost, "/items", userID, body)
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
	var body updateItemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httpx.Error(c, apierr.InvalidArgument("invalid json body"))
		return
	}
	h.forward(c, http.MethodPatch, fmt.Sprintf("/items/%d", id), userID, body)
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
	h.forward(c, http.MethodGet, fmt.Sprintf("/items/%d", id), userID, nil)
}

func (h *Handler) GetItems(c *gin.Context) {
	userID, err := httpx.UserID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	if err := checkPaging(c); err != nil {
		httpx.Error(c, err)
		return
	}
	h.forward(c, http.MethodGet, "/items", userID, nil)
}

func (h *Handler) SearchItems(c *gin.Context) {
	userID, err := httpx.UserID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	if err := checkPaging(c); err != nil {
		httpx.Error(c, err)
		return
	}
	h.forward(c, http.MethodGet, "/items/search", userID, nil)
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
	var body createCommentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httpx.Error(c, apierr.InvalidArgument("text is required"))
		return
	}
	h.forward(c, http.MethodPost, fmt.Sprintf("/items/%d/comment", id), userID, body)
}

// ----- bookings -----

func (h *Handler) AddBooking(c *gin.Context) {
	userID, err := httpx.UserID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	var body createBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httpx.Error(c, apierr.InvalidArgument("itemId, start and end are required"))
		return
	}
	h.forward(c, http.MethodPost, "/bookings", userID, body)
}

func (h *Handler) ApproveBooking(c *gin.Context) {
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
	if _, err := strconv.ParseBool(c.Query("approved")); err != nil {
		httpx.Error(c, apierr.InvalidArgument("approved must be true or false"))
		return
	}
	h.forward(c, http.MethodPatch, fmt.Sprintf("/bookings/%d", id), userID, nil)
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
	h.forward(c, http.MethodGet, fmt.Sprintf("/bookings/%d", id), userID, nil)
}

func (h *Handler) ListBookings(c *gin.Context) {
	h.listBookings(c, "/bookings")
}

func (h *Handler) ListOwnerBookings(c *gin.Context) {
	h.listBookings(c, "/bookings/owner")
}

func (h *Handler) listBookings(c *gin.Context, path string) {
	userID, err := httpx.UserID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	if err := checkPaging(c); err != nil {
		httpx.Error(c, err)
		return
	}
	h.forward(c, http.MethodGet, path, userID, nil)
}

// ----- requests -----

func (h *Handler) AddRequest(c *gin.Context) {
	userID, err := httpx.UserID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	var body createRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httpx.Error(c, apierr.InvalidArgument("description is required"))
		return
	}
	h.forward(c, http.MethodPost, "/requests", userID, body)
}

func (h *Handler) ListOwnRequests(c *gin.Context) {
	userID, err := httpx.UserID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	h.forward(c, http.MethodGet, "/requests", userID, nil)
}

func (h *Handler) ListOtherRequests(c *gin.Context) {
	userID, err := httpx.UserID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	if err := checkPaging(c); err != nil {
		httpx.Error(c, err)
		return
	}
	h.forward(c, http.MethodGet, "/requests/all", userID, nil)
}

func (h *Handler) GetRequest(c *gin.Context) {
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
	h.forward(c, http.MethodGet, fmt.Sprintf("/requests/%d", id), userID, nil)
}

// ----- helpers -----

func (h *Handler) forward(c *gin.Context, method, path string, userID int64, body any) {
	status, payload, err := h.client.Do(c.Request.Context(), method, path, userID, c.Request.URL.Query(), body)
	if err != nil {
		c.JSON(http.StatusBadGateway, apierr.Body{Message: "server unavailable"})
		return
	}
	if len(payload) == 0 {
		c.Status(status)
		return
	}
	c.Data(status, "application/json; charset=utf-8", payload)
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierr.InvalidArgument("id must be a positive integer")
	}
	return id, nil
}

// checkPaging rejects malformed from/size before the call leaves the
// gateway; range rules beyond the shape stay on the server.
func checkPaging(c *gin.Context) error {
	if v := c.Query("from"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return apierr.InvalidArgument("from must be a non-negative integer")
		}
	}
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return apierr.InvalidArgument("size must be a positive integer")
		}
	}
	return nil
}
