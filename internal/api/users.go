package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/apperror"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

// UserHandler serves accounts and subscriptions
type UserHandler struct {
	authService         service.IAuthService
	subscriptionService service.ISubscriptionService
	presenter           *Presenter
}

func NewUserHandler(authService service.IAuthService, subscriptionService service.ISubscriptionService, presenter *Presenter) *UserHandler {
	return &UserHandler{
		authService:         authService,
		subscriptionService: subscriptionService,
		presenter:           presenter,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.RequireAuth(h.authService)
	optionalAuth := middleware.OptionalAuth(h.authService)

	users := router.Group("/users")
	{
		users.GET("", optionalAuth, h.ListUsers)
		users.POST("", h.Register)
		users.GET("/me", requireAuth, h.Me)
		users.GET("/subscriptions", requireAuth, h.Subscriptions)
		users.GET("/:id", optionalAuth, h.GetUser)
		users.POST("/:id/subscribe", requireAuth, h.Subscribe)
		users.DELETE("/:id/subscribe", requireAuth, h.Unsubscribe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}

	resp, err := h.presenter.User(c.Request.Context(), nil, user)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	resp, err := h.presenter.Users(c.Request.Context(), middleware.Viewer(c), users)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	user, err := h.authService.GetUser(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	resp, err := h.presenter.User(c.Request.Context(), middleware.Viewer(c), user)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	resp, err := h.presenter.User(c.Request.Context(), &userID, user)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Subscriptions lists followed users, each with at most recipes_limit recipes
func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	limit := 0
	if raw := c.Query("recipes_limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fail(c, apperror.ValidationFailed("recipes_limit", "recipes_limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	feed, err := h.subscriptionService.SubscriptionFeed(c.Request.Context(), userID, limit)
	if err != nil {
		fail(c, err)
		return
	}
	resp := make([]types.SubscriptionResponse, 0, len(feed))
	for _, entry := range feed {
		resp = append(resp, h.presenter.Subscription(entry))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	targetID, ok := userIDParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.subscriptionService.Subscribe(ctx, userID, targetID); err != nil {
		fail(c, err)
		return
	}

	feed, err := h.subscriptionService.SubscriptionFeed(ctx, userID, 0)
	if err != nil {
		fail(c, err)
		return
	}
	for _, entry := range feed {
		if entry.User.ID == targetID {
			c.JSON(http.StatusCreated, h.presenter.Subscription(entry))
			return
		}
	}
	c.Status(http.StatusCreated)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	targetID, ok := userIDParam(c)
	if !ok {
		return
	}
	if err := h.subscriptionService.Unsubscribe(c.Request.Context(), userID, targetID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
