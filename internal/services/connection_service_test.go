package services

import (
	"context"
	"testing"
	"time"

	"creerlio_backend/internal/models"
	"creerlio_backend/internal/repositories"
	"creerlio_backend/internal/services/dto"
	"creerlio_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createPendingRequest(t *testing.T, svc ConnectionService, db *gorm.DB, pair testPair) *dto.ConnectionDTO {
	t.Helper()
	conn, err := svc.CreateConnection(context.Background(), db, pair.TalentUser.ID, models.UserRoleTalent, &dto.CreateConnectionRequest{
		BusinessID:       pair.Business.ID,
		SelectedSections: []string{"skills", "experience"},
	})
	require.NoError(t, err)
	return conn
}

func TestCreateConnection(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestConnectionService()

	conn := createPendingRequest(t, svc, db, pair)

	assert.Equal(t, models.ConnectionStatusPending, conn.Status)
	assert.Equal(t, models.PartyTalent, conn.RequestedBy)
	assert.Equal(t, []string{"skills", "experience"}, conn.SelectedSections)
	assert.Equal(t, "Acme Studios", conn.Counterparty.Name)
	assert.Nil(t, conn.RespondedAt)

	// Получатель (бизнес) видит уведомление о новом запросе
	var notifications []models.Notification
	require.NoError(t, db.Where("recipient_id = ?", pair.Business.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, repositories.NotificationTypeConnectionRequest, notifications[0].NotificationType)
	assert.Equal(t, conn.ID, notifications[0].ConnectionRequestID)
}

func TestCreateConnectionRejectsDuplicateWhileActive(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestConnectionService()

	createPendingRequest(t, svc, db, pair)

	// Повторный запрос для той же пары (с любой стороны) отклоняется
	_, err := svc.CreateConnection(context.Background(), db, pair.BusinessUser.ID, models.UserRoleBusiness, &dto.CreateConnectionRequest{
		TalentID: pair.Talent.ID,
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.HTTPCode)
}

func TestRespondAcceptSetsStatusAndNotifies(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestConnectionService()

	conn := createPendingRequest(t, svc, db, pair)

	accepted, err := svc.Respond(context.Background(), db, pair.BusinessUser.ID, models.UserRoleBusiness, conn.ID, &dto.RespondConnectionRequest{Action: "accept"})
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusAccepted, accepted.Status)
	require.NotNil(t, accepted.RespondedAt)

	// Талант-инициатор получает уведомление об акцепте
	var notification models.Notification
	require.NoError(t, db.Where("recipient_id = ? AND notification_type = ?",
		pair.Talent.ID, repositories.NotificationTypeConnectionAccepted).First(&notification).Error)

	// Акцепт создает грант доступа для пары
	var grant models.TalentAccessGrant
	require.NoError(t, db.Where("talent_id = ? AND business_id = ?", pair.Talent.ID, pair.Business.ID).First(&grant).Error)
	assert.Nil(t, grant.RevokedAt)
	assert.True(t, grant.ExpiresAt.After(time.Now()))
}

func TestRespondRequiresCounterparty(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestConnectionService()

	conn := createPendingRequest(t, svc, db, pair)

	// Инициатор не может ответить на собственный запрос
	_, err := svc.Respond(context.Background(), db, pair.TalentUser.ID, models.UserRoleTalent, conn.ID, &dto.RespondConnectionRequest{Action: "accept"})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.HTTPCode)
}

func TestDeclineIsTerminal(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestConnectionService()

	conn := createPendingRequest(t, svc, db, pair)

	declined, err := svc.Respond(context.Background(), db, pair.BusinessUser.ID, models.UserRoleBusiness, conn.ID, &dto.RespondConnectionRequest{Action: "decline"})
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusDeclined, declined.Status)

	// Из declined нет пути ни в accepted, ни обратно в pending
	_, err = svc.AcceptReconnect(context.Background(), db, pair.BusinessUser.ID, &dto.AcceptReconnectRequest{ConnectionRequestID: conn.ID})
	require.Error(t, err)

	_, err = svc.RequestReconnect(context.Background(), db, pair.TalentUser.ID, models.UserRoleTalent, conn.ID)
	require.Error(t, err)

	// Declined не блокирует создание нового запроса для пары
	_, err = svc.CreateConnection(context.Background(), db, pair.TalentUser.ID, models.UserRoleTalent, &dto.CreateConnectionRequest{
		BusinessID: pair.Business.ID,
	})
	require.NoError(t, err)
}

func TestDiscontinueRevokesGrants(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestConnectionService()

	conn := createPendingRequest(t, svc, db, pair)
	_, err := svc.Respond(context.Background(), db, pair.BusinessUser.ID, models.UserRoleBusiness, conn.ID, &dto.RespondConnectionRequest{Action: "accept"})
	require.NoError(t, err)

	discontinued, err := svc.Discontinue(context.Background(), db, pair.TalentUser.ID, models.UserRoleTalent, conn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusDiscontinued, discontinued.Status)

	var grant models.TalentAccessGrant
	require.NoError(t, db.Where("talent_id = ?", pair.Talent.ID).First(&grant).Error)
	assert.NotNil(t, grant.RevokedAt)
}

func TestReconnectFlow(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestConnectionService()

	conn := createPendingRequest(t, svc, db, pair)
	_, err := svc.Respond(context.Background(), db, pair.BusinessUser.ID, models.UserRoleBusiness, conn.ID, &dto.RespondConnectionRequest{Action: "accept"})
	require.NoError(t, err)
	_, err = svc.Discontinue(context.Background(), db, pair.BusinessUser.ID, models.UserRoleBusiness, conn.ID)
	require.NoError(t, err)

	// Талант просит восстановить подключение
	reconnect, err := svc.RequestReconnect(context.Background(), db, pair.TalentUser.ID, models.UserRoleTalent, conn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusPending, reconnect.Status)
	require.NotNil(t, reconnect.ReconnectRequestedBy)
	assert.Equal(t, models.PartyTalent, *reconnect.ReconnectRequestedBy)

	// Бизнес акцептует
	resp, err := svc.AcceptReconnect(context.Background(), db, pair.BusinessUser.ID, &dto.AcceptReconnectRequest{ConnectionRequestID: conn.ID})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Jane Doe", resp.TalentName)

	var stored models.ConnectionRequest
	require.NoError(t, db.First(&stored, "id = ?", conn.ID).Error)
	assert.Equal(t, models.ConnectionStatusAccepted, stored.Status)
	assert.Nil(t, stored.ReconnectRequestedBy)
	assert.NotNil(t, stored.RespondedAt)
}

// Акцепт реконнекта обязан «пережить» гонку саб-шагов: запрос все еще
// в discontinued (под-шаг "mark as pending" не применился), акцепт
// все равно проходит.
func TestAcceptReconnectToleratesDiscontinuedInput(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestConnectionService()

	conn := createPendingRequest(t, svc, db, pair)
	_, err := svc.Respond(context.Background(), db, pair.BusinessUser.ID, models.UserRoleBusiness, conn.ID, &dto.RespondConnectionRequest{Action: "accept"})
	require.NoError(t, err)
	_, err = svc.Discontinue(context.Background(), db, pair.BusinessUser.ID, models.UserRoleBusiness, conn.ID)
	require.NoError(t, err)

	// Без RequestReconnect: статус остался discontinued
	resp, err := svc.AcceptReconnect(context.Background(), db, pair.BusinessUser.ID, &dto.AcceptReconnectRequest{ConnectionRequestID: conn.ID})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	var stored models.ConnectionRequest
	require.NoError(t, db.First(&stored, "id = ?", conn.ID).Error)
	assert.Equal(t, models.ConnectionStatusAccepted, stored.Status)
}

// Повторный акцепт уже принятого запроса - единственный жесткий отказ:
// current_status возвращается в деталях, responded_at не переписывается.
func TestAcceptReconnectIsIdempotencyGuarded(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestConnectionService()

	conn := createPendingRequest(t, svc, db, pair)
	_, err := svc.Respond(context.Background(), db, pair.BusinessUser.ID, models.UserRoleBusiness, conn.ID, &dto.RespondConnectionRequest{Action: "accept"})
	require.NoError(t, err)

	var before models.ConnectionRequest
	require.NoError(t, db.First(&before, "id = ?", conn.ID).Error)
	require.NotNil(t, before.RespondedAt)

	_, err = svc.AcceptReconnect(context.Background(), db, pair.BusinessUser.ID, &dto.AcceptReconnectRequest{ConnectionRequestID: conn.ID})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.HTTPCode)
	details, ok := appErr.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "accepted", details["current_status"])

	var after models.ConnectionRequest
	require.NoError(t, db.First(&after, "id = ?", conn.ID).Error)
	assert.Equal(t, before.RespondedAt.Unix(), after.RespondedAt.Unix())
	assert.Equal(t, before.Version, after.Version)
}

// Pending-запрос через accept-reconnect принимает только контрагент:
// инициатор (свежего запроса или реконнекта) не может акцептовать сам себя.
func TestAcceptReconnectRejectsSelfAccept(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestConnectionService()

	conn := createPendingRequest(t, svc, db, pair)

	// Талант-инициатор пытается принять собственный свежий запрос
	_, err := svc.AcceptReconnect(context.Background(), db, pair.TalentUser.ID, &dto.AcceptReconnectRequest{ConnectionRequestID: conn.ID})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.HTTPCode)

	var stored models.ConnectionRequest
	require.NoError(t, db.First(&stored, "id = ?", conn.ID).Error)
	assert.Equal(t, models.ConnectionStatusPending, stored.Status)

	// То же для реконнекта: запросивший восстановление не акцептует его сам
	_, err = svc.Respond(context.Background(), db, pair.BusinessUser.ID, models.UserRoleBusiness, conn.ID, &dto.RespondConnectionRequest{Action: "accept"})
	require.NoError(t, err)
	_, err = svc.Discontinue(context.Background(), db, pair.BusinessUser.ID, models.UserRoleBusiness, conn.ID)
	require.NoError(t, err)
	_, err = svc.RequestReconnect(context.Background(), db, pair.TalentUser.ID, models.UserRoleTalent, conn.ID)
	require.NoError(t, err)

	_, err = svc.AcceptReconnect(context.Background(), db, pair.TalentUser.ID, &dto.AcceptReconnectRequest{ConnectionRequestID: conn.ID})
	require.Error(t, err)
	appErr, ok = apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.HTTPCode)
}

func TestAcceptReconnectUnknownIDIsBadRequest(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestConnectionService()

	_, err := svc.AcceptReconnect(context.Background(), db, pair.BusinessUser.ID, &dto.AcceptReconnectRequest{ConnectionRequestID: "11111111-2222-3333-4444-555555555555"})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestAcceptReconnectRequiresOwnership(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestConnectionService()

	conn := createPendingRequest(t, svc, db, pair)

	// Посторонний бизнес не владеет ни одной из сторон запроса
	stranger := &models.User{Email: "other@example.com", PasswordHash: "x", Role: models.UserRoleBusiness, Status: models.UserStatusActive}
	require.NoError(t, db.Create(stranger).Error)
	require.NoError(t, db.Create(&models.BusinessProfile{UserID: stranger.ID, BusinessName: "Other Co"}).Error)

	_, err := svc.AcceptReconnect(context.Background(), db, stranger.ID, &dto.AcceptReconnectRequest{ConnectionRequestID: conn.ID})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.HTTPCode)
}

// Сбой нотификаций не должен откатывать или валить основной переход.
// Симулируем отставшую схему: таблицы уведомлений вообще нет.
func TestNotificationFailureDoesNotFailTransition(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestConnectionService()

	require.NoError(t, db.Migrator().DropTable(&models.Notification{}))

	conn, err := svc.CreateConnection(context.Background(), db, pair.TalentUser.ID, models.UserRoleTalent, &dto.CreateConnectionRequest{
		BusinessID: pair.Business.ID,
	})
	require.NoError(t, err)

	accepted, err := svc.Respond(context.Background(), db, pair.BusinessUser.ID, models.UserRoleBusiness, conn.ID, &dto.RespondConnectionRequest{Action: "accept"})
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusAccepted, accepted.Status)
}

func TestListConnectionsFiltersByStatus(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestConnectionService()

	conn := createPendingRequest(t, svc, db, pair)
	_, err := svc.Respond(context.Background(), db, pair.BusinessUser.ID, models.UserRoleBusiness, conn.ID, &dto.RespondConnectionRequest{Action: "accept"})
	require.NoError(t, err)

	list, err := svc.ListConnections(context.Background(), db, pair.TalentUser.ID, models.UserRoleTalent, dto.ListConnectionsQuery{Status: "accepted"})
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Acme Studios", list.Connections[0].Counterparty.Name)

	empty, err := svc.ListConnections(context.Background(), db, pair.TalentUser.ID, models.UserRoleTalent, dto.ListConnectionsQuery{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Total)
}
