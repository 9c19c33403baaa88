package handlers

import (
	"net/http"

	"creerlio_backend/internal/middleware"
	"creerlio_backend/internal/models"
	"creerlio_backend/internal/services"
	"creerlio_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type TalentBankHandler struct {
	*BaseHandler
	talentBankService services.TalentBankService
}

func NewTalentBankHandler(base *BaseHandler, talentBankService services.TalentBankService) *TalentBankHandler {
	return &TalentBankHandler{
		BaseHandler:       base,
		talentBankService: talentBankService,
	}
}

func (h *TalentBankHandler) RegisterRoutes(r *gin.RouterGroup) {
	bank := r.Group("/talent-bank")
	bank.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleTalent))
	{
		bank.POST("/items", h.CreateItem)
		bank.GET("/items", h.ListItems)
		bank.DELETE("/items/:itemId", h.DeleteItem)
	}
}

func (h *TalentBankHandler) CreateItem(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTalentBankItemRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	item, err := h.talentBankService.CreateItem(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *TalentBankHandler) ListItems(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	items, err := h.talentBankService.ListItems(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (h *TalentBankHandler) DeleteItem(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	itemID, err := ParseParamInt64(c, "itemId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.talentBankService.DeleteItem(c.Request.Context(), h.GetDB(c), userID, itemID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}
