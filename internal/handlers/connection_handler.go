package handlers

import (
	"net/http"

	"creerlio_backend/internal/middleware"
	"creerlio_backend/internal/services"
	"creerlio_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ConnectionHandler struct {
	*BaseHandler
	connectionService services.ConnectionService
}

func NewConnectionHandler(base *BaseHandler, connectionService services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{
		BaseHandler:       base,
		connectionService: connectionService,
	}
}

func (h *ConnectionHandler) RegisterRoutes(r *gin.RouterGroup) {
	connections := r.Group("/connections")
	connections.Use(middleware.AuthMiddleware())
	{
		connections.POST("", h.CreateConnection)
		connections.GET("", h.ListConnections)
		connections.POST("/:requestId/respond", h.Respond)
		connections.POST("/:requestId/discontinue", h.Discontinue)
		connections.POST("/:requestId/request-reconnect", h.RequestReconnect)
		connections.POST("/accept-reconnect", h.AcceptReconnect)
	}
}

func (h *ConnectionHandler) CreateConnection(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateConnectionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	connection, err := h.connectionService.CreateConnection(c.Request.Context(), h.GetDB(c), userID, h.GetCallerRole(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, connection)
}

func (h *ConnectionHandler) ListConnections(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.ListConnectionsQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	connections, err := h.connectionService.ListConnections(c.Request.Context(), h.GetDB(c), userID, h.GetCallerRole(c), query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, connections)
}

func (h *ConnectionHandler) Respond(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RespondConnectionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	connection, err := h.connectionService.Respond(c.Request.Context(), h.GetDB(c), userID, h.GetCallerRole(c), c.Param("requestId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, connection)
}

func (h *ConnectionHandler) Discontinue(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	connection, err := h.connectionService.Discontinue(c.Request.Context(), h.GetDB(c), userID, h.GetCallerRole(c), c.Param("requestId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, connection)
}

func (h *ConnectionHandler) RequestReconnect(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	connection, err := h.connectionService.RequestReconnect(c.Request.Context(), h.GetDB(c), userID, h.GetCallerRole(c), c.Param("requestId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, connection)
}

func (h *ConnectionHandler) AcceptReconnect(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AcceptReconnectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.connectionService.AcceptReconnect(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
