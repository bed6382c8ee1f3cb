package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"user-directory/internal/service"
	"user-directory/internal/validation"
)

// Handler wires HTTP routes to the user service.
type Handler struct {
	users      service.UserService
	logger     *logrus.Logger
	production bool
}

func NewHandler(users service.UserService, logger *logrus.Logger, production bool) *Handler {
	return &Handler{
		users:      users,
		logger:     logger,
		production: production,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(), requestIDMiddleware(), requestLogger(h.logger))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		users := api.Group("/users")
		{
			users.GET("/stats", h.getUserStats)
			users.GET("", h.listUsers)
			users.GET("/:id", h.getUser)
			users.POST("", h.createUser)
			users.PUT("/:id", h.updateUser)
			users.DELETE("/:id", h.deleteUser)
		}
	}
}

func (h *Handler) listUsers(c *gin.Context) {
	cfg, errs := validation.ValidateListQuery(validation.ListQueryRaw{
		Page:   c.Query("page"),
		Limit:  c.Query("limit"),
		Sort:   c.Query("sort"),
		Status: c.Query("status"),
	})
	if errs != nil {
		respondValidation(c, "Invalid query parameters", errs)
		return
	}

	result, err := h.users.ListUsers(c.Request.Context(), cfg)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, "Users retrieved successfully", gin.H{
		"users":      result.Users,
		"pagination": result.Pagination,
	})
}

func (h *Handler) getUser(c *gin.Context) {
	id := c.Param("id")
	if errs := validation.ValidateUserID(id); errs != nil {
		respondValidation(c, "Invalid ID format", errs)
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, "User retrieved successfully", gin.H{"user": user})
}

func (h *Handler) createUser(c *gin.Context) {
	var in validation.CreateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.ValidateCreate(&in); errs != nil {
		respondValidation(c, "Validation error", errs)
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), in)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, "User created successfully", gin.H{"user": user})
}

func (h *Handler) updateUser(c *gin.Context) {
	id := c.Param("id")
	if errs := validation.ValidateUserID(id); errs != nil {
		respondValidation(c, "Invalid ID format", errs)
		return
	}

	var in validation.UpdateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.ValidateUpdate(&in); errs != nil {
		respondValidation(c, "Validation error", errs)
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), id, in)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, "User updated successfully", gin.H{"user": user})
}

func (h *Handler) deleteUser(c *gin.Context) {
	id := c.Param("id")
	if errs := validation.ValidateUserID(id); errs != nil {
		respondValidation(c, "Invalid ID format", errs)
		return
	}

	deleted, err := h.users.DeleteUser(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, "User deleted successfully", gin.H{"user": deleted})
}

func (h *Handler) getUserStats(c *gin.Context) {
	stats, err := h.users.GetStats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, "User statistics retrieved successfully", gin.H{"stats": stats})
}
