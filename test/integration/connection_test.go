package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"creerlio_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createConnectionRequest(t *testing.T, ts *helpers.TestServer, talentToken, businessProfileID string) string {
	t.Helper()

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/connections", talentToken, map[string]interface{}{
		"business_id": businessProfileID,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "создание запроса должно проходить. Ответ: "+body)

	var conn struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &conn))
	require.NotEmpty(t, conn.ID)
	return conn.ID
}

// Полный контракт статус-кодов accept-reconnect через живой HTTP-стек:
// биндинг, auth-middleware и маппинг ошибок в коды.
func TestAcceptReconnectHTTPContract(t *testing.T) {
	ts := helpers.NewTestServer(t)
	talentToken, _ := helpers.RegisterTalent(t, ts, "Jane Doe")
	businessToken, business := helpers.RegisterBusiness(t, ts, "Acme Studios")

	requestID := createConnectionRequest(t, ts, talentToken, business.ID)

	// Без токена - 401
	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/connections/accept-reconnect", "", map[string]interface{}{
		"connection_request_id": requestID,
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// Тело без connection_request_id - 400 еще на биндинге
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/connections/accept-reconnect", businessToken, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// Несуществующий id - 400
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/connections/accept-reconnect", businessToken, map[string]interface{}{
		"connection_request_id": "11111111-2222-3333-4444-555555555555",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// Посторонний бизнес - 403
	strangerToken, _ := helpers.RegisterBusiness(t, ts, "Rival Co")
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/connections/accept-reconnect", strangerToken, map[string]interface{}{
		"connection_request_id": requestID,
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// Контрагент принимает - 200 с телом success/message/talent_name
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/connections/accept-reconnect", businessToken, map[string]interface{}{
		"connection_request_id": requestID,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+body)

	var resp struct {
		Success    bool   `json:"success"`
		Message    string `json:"message"`
		TalentName string `json:"talent_name"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Connection reinstated", resp.Message)
	assert.Equal(t, "Jane Doe", resp.TalentName)

	// Повторный акцепт - 403 с current_status в деталях
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/connections/accept-reconnect", businessToken, map[string]interface{}{
		"connection_request_id": requestID,
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Details struct {
				CurrentStatus string `json:"current_status"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &errResp))
	assert.Equal(t, "Connection already accepted", errResp.Error.Message)
	assert.Equal(t, "accepted", errResp.Error.Details.CurrentStatus)
}

// Запрос и ответ через HTTP: create -> respond(accept) -> discontinue ->
// request-reconnect, со статусами в теле ответов
func TestConnectionLifecycleOverHTTP(t *testing.T) {
	ts := helpers.NewTestServer(t)
	talentToken, _ := helpers.RegisterTalent(t, ts, "Jane Doe")
	businessToken, business := helpers.RegisterBusiness(t, ts, "Acme Studios")

	requestID := createConnectionRequest(t, ts, talentToken, business.ID)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/connections/"+requestID+"/respond", businessToken, map[string]interface{}{
		"action": "accept",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+body)

	var conn struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &conn))
	assert.Equal(t, "accepted", conn.Status)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/connections/"+requestID+"/discontinue", talentToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+body)
	require.NoError(t, json.Unmarshal([]byte(body), &conn))
	assert.Equal(t, "discontinued", conn.Status)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/connections/"+requestID+"/request-reconnect", businessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+body)
	require.NoError(t, json.Unmarshal([]byte(body), &conn))
	assert.Equal(t, "pending", conn.Status)

	// Списки видят оба участника
	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/connections?status=pending", talentToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var list struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	assert.Equal(t, 1, list.Total)
}
