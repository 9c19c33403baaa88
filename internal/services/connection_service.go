package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"creerlio_backend/internal/logger"
	"creerlio_backend/internal/models"
	"creerlio_backend/internal/repositories"
	"creerlio_backend/internal/services/dto"
	"creerlio_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ConnectionService interface {
	CreateConnection(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, req *dto.CreateConnectionRequest) (*dto.ConnectionDTO, error)
	ListConnections(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, query dto.ListConnectionsQuery) (*dto.ConnectionListResponse, error)
	Respond(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, requestID string, req *dto.RespondConnectionRequest) (*dto.ConnectionDTO, error)
	Discontinue(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, requestID string) (*dto.ConnectionDTO, error)
	RequestReconnect(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, requestID string) (*dto.ConnectionDTO, error)
	AcceptReconnect(ctx context.Context, db *gorm.DB, userID string, req *dto.AcceptReconnectRequest) (*dto.AcceptReconnectResponse, error)
}

type connectionService struct {
	connectionRepo repositories.ConnectionRepository
	profileRepo    repositories.ProfileRepository
	notifications  NotificationService
	grantTTL       time.Duration
}

func NewConnectionService(
	connectionRepo repositories.ConnectionRepository,
	profileRepo repositories.ProfileRepository,
	notifications NotificationService,
	grantTTLDays int,
) ConnectionService {
	if grantTTLDays <= 0 {
		grantTTLDays = 30
	}
	return &connectionService{
		connectionRepo: connectionRepo,
		profileRepo:    profileRepo,
		notifications:  notifications,
		grantTTL:       time.Duration(grantTTLDays) * 24 * time.Hour,
	}
}

// participant - сторона запроса, разрезолвленная из userID
type participant struct {
	Party     models.Party
	ProfileID string
	Name      string
}

func (s *connectionService) resolveParticipant(db *gorm.DB, userID string, role models.UserRole) (*participant, error) {
	switch role {
	case models.UserRoleTalent:
		profile, err := s.profileRepo.FindTalentByUserID(db, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrTalentProfileNotFound) {
				return nil, apperrors.ErrProfileNotFound
			}
			return nil, apperrors.DatabaseError("connection", "failed to resolve talent profile", err)
		}
		return &participant{Party: models.PartyTalent, ProfileID: profile.ID, Name: profile.DisplayName()}, nil
	case models.UserRoleBusiness:
		profile, err := s.profileRepo.FindBusinessByUserID(db, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrBusinessProfileNotFound) {
				return nil, apperrors.ErrProfileNotFound
			}
			return nil, apperrors.DatabaseError("connection", "failed to resolve business profile", err)
		}
		return &participant{Party: models.PartyBusiness, ProfileID: profile.ID, Name: profile.DisplayName()}, nil
	}
	return nil, apperrors.NewForbiddenError("role cannot participate in connections")
}

// sideOf возвращает сторону запроса, которой владеет участник, или ошибку владения
func sideOf(req *models.ConnectionRequest, p *participant) (models.Party, error) {
	switch {
	case p.Party == models.PartyTalent && req.TalentID == p.ProfileID:
		return models.PartyTalent, nil
	case p.Party == models.PartyBusiness && req.BusinessID == p.ProfileID:
		return models.PartyBusiness, nil
	}
	return "", apperrors.ErrConnectionOwnership
}

func (s *connectionService) CreateConnection(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, req *dto.CreateConnectionRequest) (*dto.ConnectionDTO, error) {
	caller, err := s.resolveParticipant(db, userID, role)
	if err != nil {
		return nil, err
	}

	var talentID, businessID string
	switch caller.Party {
	case models.PartyTalent:
		talentID = caller.ProfileID
		businessID = req.BusinessID
		if businessID == "" {
			return nil, apperrors.NewBadRequestError("business_id is required")
		}
		if _, err := s.profileRepo.FindBusinessByID(db, businessID); err != nil {
			if errors.Is(err, repositories.ErrBusinessProfileNotFound) {
				return nil, apperrors.NewNotFoundError("connection", "business profile not found")
			}
			return nil, apperrors.DatabaseError("connection", "failed to find business", err)
		}
	case models.PartyBusiness:
		businessID = caller.ProfileID
		talentID = req.TalentID
		if talentID == "" {
			return nil, apperrors.NewBadRequestError("talent_id is required")
		}
		if _, err := s.profileRepo.FindTalentByID(db, talentID); err != nil {
			if errors.Is(err, repositories.ErrTalentProfileNotFound) {
				return nil, apperrors.NewNotFoundError("connection", "talent profile not found")
			}
			return nil, apperrors.DatabaseError("connection", "failed to find talent", err)
		}
	}

	// Дубликаты: пока есть живой (pending/accepted) запрос для пары,
	// новый не создается. Declined и discontinued пару не блокируют.
	if _, err := s.connectionRepo.FindActiveByPair(db, talentID, businessID); err == nil {
		return nil, apperrors.ErrDuplicateConnection
	} else if !errors.Is(err, repositories.ErrConnectionRequestNotFound) {
		return nil, apperrors.DatabaseError("connection", "failed to check existing request", err)
	}

	request := &models.ConnectionRequest{
		TalentID:    talentID,
		BusinessID:  businessID,
		Status:      models.ConnectionStatusPending,
		RequestedBy: caller.Party,
		Version:     1,
	}
	if len(req.SelectedSections) > 0 {
		request.SetSelectedSections(req.SelectedSections)
	}

	if err := s.connectionRepo.Create(db, request); err != nil {
		return nil, apperrors.DatabaseError("connection", "failed to create request", err)
	}

	logger.CtxInfo(ctx, "connection request created",
		"request_id", request.ID,
		"talent_id", talentID,
		"business_id", businessID,
		"requested_by", caller.Party)

	recipientID := talentID
	if caller.Party == models.PartyTalent {
		recipientID = businessID
	}
	s.notifications.Emit(ctx, db, ConnectionEvent{
		RecipientProfileID:  recipientID,
		RecipientRole:       caller.Party.Counterparty(),
		ConnectionRequestID: request.ID,
		Type:                repositories.NotificationTypeConnectionRequest,
		Title:               "New connection request",
		Message:             fmt.Sprintf("%s wants to connect with you", caller.Name),
		Metadata:            map[string]any{"requested_by": string(caller.Party)},
	})

	return s.toConnectionDTO(db, request, caller.Party), nil
}

func (s *connectionService) ListConnections(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, query dto.ListConnectionsQuery) (*dto.ConnectionListResponse, error) {
	caller, err := s.resolveParticipant(db, userID, role)
	if err != nil {
		return nil, err
	}

	var statuses []models.ConnectionStatus
	if query.Status != "" {
		status, err := models.ParseConnectionStatus(query.Status)
		if err != nil {
			return nil, apperrors.NewBadRequestError("unknown status filter")
		}
		statuses = []models.ConnectionStatus{status}
	}

	var requests []models.ConnectionRequest
	if caller.Party == models.PartyTalent {
		requests, err = s.connectionRepo.ListByTalent(db, caller.ProfileID, statuses)
	} else {
		requests, err = s.connectionRepo.ListByBusiness(db, caller.ProfileID, statuses)
	}
	if err != nil {
		return nil, apperrors.DatabaseError("connection", "failed to list requests", err)
	}

	connections := make([]dto.ConnectionDTO, 0, len(requests))
	for i := range requests {
		connections = append(connections, *s.toConnectionDTO(db, &requests[i], caller.Party))
	}
	return &dto.ConnectionListResponse{Connections: connections, Total: len(connections)}, nil
}

func (s *connectionService) Respond(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, requestID string, req *dto.RespondConnectionRequest) (*dto.ConnectionDTO, error) {
	caller, err := s.resolveParticipant(db, userID, role)
	if err != nil {
		return nil, err
	}

	request, err := s.findRequest(db, requestID)
	if err != nil {
		return nil, err
	}
	side, err := sideOf(request, caller)
	if err != nil {
		return nil, err
	}
	// Отвечает только контрагент инициатора
	if side == request.RequestedBy {
		return nil, apperrors.NewForbiddenError("requester cannot respond to own request")
	}

	target := models.ConnectionStatusAccepted
	if req.Action == "decline" {
		target = models.ConnectionStatusDeclined
	}
	if request.Status != models.ConnectionStatusPending {
		return nil, apperrors.ErrInvalidStatus("connection",
			fmt.Sprintf("cannot %s a request in status %q", req.Action, request.Status))
	}

	now := time.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":       target,
			"responded_at": now,
		}
		if err := s.connectionRepo.UpdateVersioned(tx, request, updates); err != nil {
			return err
		}
		if target == models.ConnectionStatusAccepted {
			return s.connectionRepo.CreateAccessGrant(tx, &models.TalentAccessGrant{
				TalentID:   request.TalentID,
				BusinessID: request.BusinessID,
				ExpiresAt:  now.Add(s.grantTTL),
			})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrStaleConnectionVersion) {
			return nil, apperrors.NewConflictError("connection", "request was modified concurrently, retry")
		}
		return nil, apperrors.DatabaseError("connection", "failed to update request", err)
	}
	request.Status = target
	request.RespondedAt = &now

	logger.CtxInfo(ctx, "connection request resolved",
		"request_id", request.ID, "status", target, "responded_by", side)

	eventType := repositories.NotificationTypeConnectionAccepted
	title := "Connection accepted"
	message := fmt.Sprintf("%s accepted your connection request", caller.Name)
	if target == models.ConnectionStatusDeclined {
		eventType = repositories.NotificationTypeConnectionDeclined
		title = "Connection declined"
		message = fmt.Sprintf("%s declined your connection request", caller.Name)
	}
	s.notifications.Emit(ctx, db, ConnectionEvent{
		RecipientProfileID:  s.profileIDOf(request, side.Counterparty()),
		RecipientRole:       side.Counterparty(),
		ConnectionRequestID: request.ID,
		Type:                eventType,
		Title:               title,
		Message:             message,
		Metadata:            map[string]any{"status": string(target)},
	})
	// Призыв к действию у ответившего больше не актуален
	s.notifications.RetireForConnectionRequest(ctx, db, request.ID, caller.ProfileID)

	return s.toConnectionDTO(db, request, side), nil
}

func (s *connectionService) Discontinue(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, requestID string) (*dto.ConnectionDTO, error) {
	caller, err := s.resolveParticipant(db, userID, role)
	if err != nil {
		return nil, err
	}
	request, err := s.findRequest(db, requestID)
	if err != nil {
		return nil, err
	}
	side, err := sideOf(request, caller)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(request.Status, models.ConnectionStatusDiscontinued) {
		return nil, apperrors.ErrInvalidStatus("connection",
			fmt.Sprintf("cannot discontinue a request in status %q", request.Status))
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":                 models.ConnectionStatusDiscontinued,
			"reconnect_requested_by": nil,
		}
		if err := s.connectionRepo.UpdateVersioned(tx, request, updates); err != nil {
			return err
		}
		return s.connectionRepo.RevokeAccessGrants(tx, request.TalentID, request.BusinessID)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrStaleConnectionVersion) {
			return nil, apperrors.NewConflictError("connection", "request was modified concurrently, retry")
		}
		return nil, apperrors.DatabaseError("connection", "failed to discontinue request", err)
	}
	request.Status = models.ConnectionStatusDiscontinued
	request.ReconnectRequestedBy = nil

	logger.CtxInfo(ctx, "connection discontinued", "request_id", request.ID, "by", side)

	s.notifications.Emit(ctx, db, ConnectionEvent{
		RecipientProfileID:  s.profileIDOf(request, side.Counterparty()),
		RecipientRole:       side.Counterparty(),
		ConnectionRequestID: request.ID,
		Type:                repositories.NotificationTypeConnectionDiscontinued,
		Title:               "Connection discontinued",
		Message:             fmt.Sprintf("%s discontinued the connection", caller.Name),
	})

	return s.toConnectionDTO(db, request, side), nil
}

func (s *connectionService) RequestReconnect(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, requestID string) (*dto.ConnectionDTO, error) {
	caller, err := s.resolveParticipant(db, userID, role)
	if err != nil {
		return nil, err
	}
	request, err := s.findRequest(db, requestID)
	if err != nil {
		return nil, err
	}
	side, err := sideOf(request, caller)
	if err != nil {
		return nil, err
	}
	if request.Status != models.ConnectionStatusDiscontinued {
		return nil, apperrors.ErrInvalidStatus("connection",
			fmt.Sprintf("cannot request reconnect in status %q", request.Status))
	}

	updates := map[string]interface{}{
		"status":                 models.ConnectionStatusPending,
		"reconnect_requested_by": side,
	}
	if err := s.connectionRepo.UpdateVersioned(db, request, updates); err != nil {
		if errors.Is(err, repositories.ErrStaleConnectionVersion) {
			return nil, apperrors.NewConflictError("connection", "request was modified concurrently, retry")
		}
		return nil, apperrors.DatabaseError("connection", "failed to request reconnect", err)
	}
	request.Status = models.ConnectionStatusPending
	request.ReconnectRequestedBy = &side

	logger.CtxInfo(ctx, "reconnect requested", "request_id", request.ID, "by", side)

	s.notifications.Emit(ctx, db, ConnectionEvent{
		RecipientProfileID:  s.profileIDOf(request, side.Counterparty()),
		RecipientRole:       side.Counterparty(),
		ConnectionRequestID: request.ID,
		Type:                repositories.NotificationTypeReconnectRequested,
		Title:               "Reconnect requested",
		Message:             fmt.Sprintf("%s wants to reconnect", caller.Name),
	})

	return s.toConnectionDTO(db, request, side), nil
}

// AcceptReconnect восстанавливает разорванное подключение. Вход толерантен
// к гонке саб-шагов реконнекта: запрос принимается и из pending, и из
// discontinued. Единственный жесткий отказ - повторный акцепт уже
// принятого запроса; responded_at при этом не трогается.
func (s *connectionService) AcceptReconnect(ctx context.Context, db *gorm.DB, userID string, req *dto.AcceptReconnectRequest) (*dto.AcceptReconnectResponse, error) {
	request, err := s.findRequest(db, req.ConnectionRequestID)
	if err != nil {
		return nil, err
	}

	// Акцептует владелец одной из сторон запроса
	caller, err := s.resolveAnyParticipant(db, userID, request)
	if err != nil {
		return nil, err
	}
	side, err := sideOf(request, caller)
	if err != nil {
		return nil, err
	}

	if request.Status == models.ConnectionStatusAccepted {
		return nil, apperrors.New(
			apperrors.CodeInvalidStatus,
			"connection",
			"Connection already accepted",
			403,
		).WithDetails(map[string]interface{}{"current_status": string(request.Status)})
	}
	if !models.CanTransition(request.Status, models.ConnectionStatusAccepted) {
		return nil, apperrors.ErrInvalidStatus("connection",
			fmt.Sprintf("cannot accept reconnect in status %q", request.Status))
	}
	// Pending-запрос акцептует только контрагент его инициатора
	// (для реконнекта инициатор - сторона из reconnect_requested_by,
	// для свежего запроса - requested_by). Discontinued без этой
	// отметки - гонка саб-шагов, принимается любой стороной.
	if request.Status == models.ConnectionStatusPending {
		initiator := request.RequestedBy
		if request.ReconnectRequestedBy != nil {
			initiator = *request.ReconnectRequestedBy
		}
		if side == initiator {
			return nil, apperrors.NewForbiddenError("requester cannot accept own request")
		}
	}

	now := time.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":                 models.ConnectionStatusAccepted,
			"responded_at":           now,
			"reconnect_requested_by": nil,
		}
		if err := s.connectionRepo.UpdateVersioned(tx, request, updates); err != nil {
			return err
		}
		return s.connectionRepo.CreateAccessGrant(tx, &models.TalentAccessGrant{
			TalentID:   request.TalentID,
			BusinessID: request.BusinessID,
			ExpiresAt:  now.Add(s.grantTTL),
		})
	})
	if err != nil {
		if errors.Is(err, repositories.ErrStaleConnectionVersion) {
			return nil, apperrors.NewConflictError("connection", "request was modified concurrently, retry")
		}
		return nil, apperrors.DatabaseError("connection", "failed to accept reconnect", err)
	}
	request.Status = models.ConnectionStatusAccepted
	request.RespondedAt = &now
	request.ReconnectRequestedBy = nil

	talentName := ""
	if talent, err := s.profileRepo.FindTalentByID(db, request.TalentID); err == nil {
		talentName = talent.DisplayName()
	}

	logger.CtxInfo(ctx, "reconnect accepted", "request_id", request.ID, "by", side)

	s.notifications.Emit(ctx, db, ConnectionEvent{
		RecipientProfileID:  s.profileIDOf(request, side.Counterparty()),
		RecipientRole:       side.Counterparty(),
		ConnectionRequestID: request.ID,
		Type:                repositories.NotificationTypeReconnectAccepted,
		Title:               "Reconnect accepted",
		Message:             fmt.Sprintf("%s accepted the reconnect request", caller.Name),
	})
	s.notifications.RetireForConnectionRequest(ctx, db, request.ID, caller.ProfileID)

	return &dto.AcceptReconnectResponse{
		Success:    true,
		Message:    "Connection reinstated",
		TalentName: talentName,
	}, nil
}

// ---------------- helpers ----------------

func (s *connectionService) findRequest(db *gorm.DB, requestID string) (*models.ConnectionRequest, error) {
	if requestID == "" {
		return nil, apperrors.NewBadRequestError("connection request id is required")
	}
	request, err := s.connectionRepo.FindByIDForUpdate(db, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrConnectionRequestNotFound) {
			return nil, apperrors.ErrConnectionNotFound
		}
		return nil, apperrors.DatabaseError("connection", "failed to find request", err)
	}
	return request, nil
}

// resolveAnyParticipant разрезолвливает вызывающего в ту роль, которой он
// реально владеет в данном запросе, не полагаясь на роль из токена.
func (s *connectionService) resolveAnyParticipant(db *gorm.DB, userID string, request *models.ConnectionRequest) (*participant, error) {
	if business, err := s.profileRepo.FindBusinessByUserID(db, userID); err == nil && business.ID == request.BusinessID {
		return &participant{Party: models.PartyBusiness, ProfileID: business.ID, Name: business.DisplayName()}, nil
	}
	if talent, err := s.profileRepo.FindTalentByUserID(db, userID); err == nil && talent.ID == request.TalentID {
		return &participant{Party: models.PartyTalent, ProfileID: talent.ID, Name: talent.DisplayName()}, nil
	}
	return nil, apperrors.ErrConnectionOwnership
}

func (s *connectionService) profileIDOf(request *models.ConnectionRequest, party models.Party) string {
	if party == models.PartyTalent {
		return request.TalentID
	}
	return request.BusinessID
}

func (s *connectionService) toConnectionDTO(db *gorm.DB, request *models.ConnectionRequest, viewer models.Party) *dto.ConnectionDTO {
	result := &dto.ConnectionDTO{
		ID:                   request.ID,
		Status:               request.Status,
		RequestedBy:          request.RequestedBy,
		ReconnectRequestedBy: request.ReconnectRequestedBy,
		SelectedSections:     request.GetSelectedSections(),
		RespondedAt:          request.RespondedAt,
		CreatedAt:            request.CreatedAt,
		UpdatedAt:            request.UpdatedAt,
	}

	// Контрагент глазами просматривающей стороны
	if viewer == models.PartyTalent {
		business := request.Business
		if business == nil {
			business, _ = s.profileRepo.FindBusinessByID(db, request.BusinessID)
		}
		if business != nil {
			result.Counterparty = dto.CounterpartyDTO{
				ProfileID: business.ID,
				Name:      business.DisplayName(),
				Industry:  business.Industry,
				City:      business.City,
				Country:   business.Country,
			}
		}
	} else {
		talent := request.Talent
		if talent == nil {
			talent, _ = s.profileRepo.FindTalentByID(db, request.TalentID)
		}
		if talent != nil {
			result.Counterparty = dto.CounterpartyDTO{
				ProfileID: talent.ID,
				Name:      talent.DisplayName(),
				Title:     talent.Title,
				City:      talent.City,
				Country:   talent.Country,
			}
		}
	}
	return result
}
