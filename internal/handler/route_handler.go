package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/application"
	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/auth"
	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/middleware"
	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/response"
)

// RouteHandler handles HTTP requests for route planning operations.
type RouteHandler struct {
	service *application.PlannerService
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(service *application.PlannerService) *RouteHandler {
	return &RouteHandler{service: service}
}

// RegisterRoutes registers all route planning routes on the given router group.
func (h *RouteHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	routes := r.Group("/api/v1/routes")
	routes.Use(authMW)
	{
		routes.POST("/plan", h.PlanRoute)
		routes.GET("", h.ListComparisons)
		routes.GET("/:id", h.GetComparison)
	}
}

// PlanRoute handles POST /api/v1/routes/plan.
func (h *RouteHandler) PlanRoute(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.PlanAndCompare(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetComparison handles GET /api/v1/routes/:id.
func (h *RouteHandler) GetComparison(c *gin.Context) {
	comparisonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid comparison ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.GetComparison(c.Request.Context(), userID, comparisonID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListComparisons handles GET /api/v1/routes.
func (h *RouteHandler) ListComparisons(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, limit := parsePagination(c)

	results, total, err := h.service.ListComparisons(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, results, total, page, limit)
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
