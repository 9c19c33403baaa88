package handlers

import (
	"net/http"

	"creerlio_backend/internal/middleware"
	"creerlio_backend/internal/models"
	"creerlio_backend/internal/services"
	"creerlio_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// PortfolioHandler обслуживает публикацию снапшотов портфолио
// и их просмотр бизнесом.
type PortfolioHandler struct {
	*BaseHandler
	snapshotService      services.SnapshotService
	portfolioViewService services.PortfolioViewService
	profileService       services.ProfileService
}

func NewPortfolioHandler(
	base *BaseHandler,
	snapshotService services.SnapshotService,
	portfolioViewService services.PortfolioViewService,
	profileService services.ProfileService,
) *PortfolioHandler {
	return &PortfolioHandler{
		BaseHandler:          base,
		snapshotService:      snapshotService,
		portfolioViewService: portfolioViewService,
		profileService:       profileService,
	}
}

func (h *PortfolioHandler) RegisterRoutes(r *gin.RouterGroup) {
	portfolio := r.Group("/portfolio")
	portfolio.Use(middleware.AuthMiddleware())
	{
		portfolio.POST("/snapshots", middleware.RequireRoles(models.UserRoleTalent), h.CreateSnapshot)
		portfolio.GET("/snapshots", middleware.RequireRoles(models.UserRoleTalent), h.ListSnapshots)
		portfolio.GET("/view", h.ViewPortfolio)
	}

	profiles := r.Group("/profiles")
	profiles.Use(middleware.AuthMiddleware())
	{
		profiles.GET("/talent/me", middleware.RequireRoles(models.UserRoleTalent), h.GetMyTalentProfile)
		profiles.PUT("/talent/me", middleware.RequireRoles(models.UserRoleTalent), h.UpdateMyTalentProfile)
		profiles.GET("/business/me", middleware.RequireRoles(models.UserRoleBusiness), h.GetMyBusinessProfile)
		profiles.PUT("/business/me", middleware.RequireRoles(models.UserRoleBusiness), h.UpdateMyBusinessProfile)
	}
}

// --- Snapshots ---

func (h *PortfolioHandler) CreateSnapshot(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateSnapshotRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	snapshot, err := h.snapshotService.CreateSnapshot(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}

func (h *PortfolioHandler) ListSnapshots(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	limit := ParseQueryInt(c, "limit", 20)
	snapshots, err := h.snapshotService.ListSnapshots(c.Request.Context(), h.GetDB(c), userID, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": snapshots, "total": len(snapshots)})
}

// ViewPortfolio резолвит снапшот и рендерит его с подписанными URL
func (h *PortfolioHandler) ViewPortfolio(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.ResolveSnapshotQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	db := h.GetDB(c)
	snapshot, err := h.snapshotService.Resolve(c.Request.Context(), db, query, userID, h.GetCallerRole(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	view, err := h.portfolioViewService.RenderSnapshot(c.Request.Context(), db, snapshot)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// --- Profiles ---

func (h *PortfolioHandler) GetMyTalentProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	profile, err := h.profileService.GetTalentProfile(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *PortfolioHandler) UpdateMyTalentProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateTalentProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	profile, err := h.profileService.UpdateTalentProfile(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *PortfolioHandler) GetMyBusinessProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	profile, err := h.profileService.GetBusinessProfile(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *PortfolioHandler) UpdateMyBusinessProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateBusinessProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	profile, err := h.profileService.UpdateBusinessProfile(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
