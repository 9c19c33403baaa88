package dto

import (
	"time"

	"creerlio_backend/internal/models"
)

// CreateConnectionRequest - инициация запроса на подключение.
// Таргетом выступает профиль контрагента; инициатор определяется ролью.
type CreateConnectionRequest struct {
	TalentID   string `json:"talent_id" binding:"required_without=BusinessID,omitempty,uuid"`
	BusinessID string `json:"business_id" binding:"required_without=TalentID,omitempty,uuid"`

	// Секции, которые талант готов раскрыть при акцепте
	SelectedSections []string `json:"selected_sections,omitempty"`
}

// RespondConnectionRequest - ответ получателя на pending-запрос
type RespondConnectionRequest struct {
	Action string `json:"action" binding:"required,oneof=accept decline"`
}

// AcceptReconnectRequest - акцепт повторного подключения по id запроса
type AcceptReconnectRequest struct {
	ConnectionRequestID string `json:"connection_request_id" binding:"required"`
}

// AcceptReconnectResponse - формат ответа акцепта реконнекта
type AcceptReconnectResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	TalentName string `json:"talent_name,omitempty"`
}

// ListConnectionsQuery - фильтры списка подключений
type ListConnectionsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending accepted declined discontinued"`
}

// CounterpartyDTO - публичная карточка контрагента в списке
type CounterpartyDTO struct {
	ProfileID string `json:"profile_id"`
	Name      string `json:"name"`
	Title     string `json:"title,omitempty"`
	Industry  string `json:"industry,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
}

// ConnectionDTO - запрос на подключение глазами одной из сторон
type ConnectionDTO struct {
	ID                   string                  `json:"id"`
	Status               models.ConnectionStatus `json:"status"`
	RequestedBy          models.Party            `json:"requested_by"`
	ReconnectRequestedBy *models.Party           `json:"reconnect_requested_by,omitempty"`
	SelectedSections     []string                `json:"selected_sections,omitempty"`
	Counterparty         CounterpartyDTO         `json:"counterparty"`
	RespondedAt          *time.Time              `json:"responded_at,omitempty"`
	CreatedAt            time.Time               `json:"created_at"`
	UpdatedAt            time.Time               `json:"updated_at"`
}

// ConnectionListResponse - список подключений стороны
type ConnectionListResponse struct {
	Connections []ConnectionDTO `json:"connections"`
	Total       int             `json:"total"`
}
