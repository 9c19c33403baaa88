package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from ConnectionStatus
		to   ConnectionStatus
		want bool
	}{
		{"pending to accepted", ConnectionStatusPending, ConnectionStatusAccepted, true},
		{"pending to declined", ConnectionStatusPending, ConnectionStatusDeclined, true},
		{"pending to discontinued", ConnectionStatusPending, ConnectionStatusDiscontinued, false},
		{"accepted to discontinued", ConnectionStatusAccepted, ConnectionStatusDiscontinued, true},
		{"accepted to accepted (re-accept)", ConnectionStatusAccepted, ConnectionStatusAccepted, false},
		{"accepted to declined", ConnectionStatusAccepted, ConnectionStatusDeclined, false},
		{"discontinued to pending (reconnect request)", ConnectionStatusDiscontinued, ConnectionStatusPending, true},
		{"discontinued to accepted (reconnect accept race)", ConnectionStatusDiscontinued, ConnectionStatusAccepted, true},
		{"discontinued to declined", ConnectionStatusDiscontinued, ConnectionStatusDeclined, false},
		{"declined is terminal", ConnectionStatusDeclined, ConnectionStatusPending, false},
		{"declined never becomes accepted", ConnectionStatusDeclined, ConnectionStatusAccepted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestParseConnectionStatus(t *testing.T) {
	for _, valid := range []string{"pending", "accepted", "declined", "discontinued"} {
		status, err := ParseConnectionStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, ConnectionStatus(valid), status)
	}

	_, err := ParseConnectionStatus("cancelled")
	assert.Error(t, err)
}

func TestIsTerminalConnectionStatus(t *testing.T) {
	assert.True(t, IsTerminalConnectionStatus(ConnectionStatusDeclined))
	assert.False(t, IsTerminalConnectionStatus(ConnectionStatusPending))
	assert.False(t, IsTerminalConnectionStatus(ConnectionStatusAccepted))
	assert.False(t, IsTerminalConnectionStatus(ConnectionStatusDiscontinued))
}

func TestIsActiveConnectionStatus(t *testing.T) {
	assert.True(t, IsActiveConnectionStatus(ConnectionStatusPending))
	assert.True(t, IsActiveConnectionStatus(ConnectionStatusAccepted))
	assert.False(t, IsActiveConnectionStatus(ConnectionStatusDeclined))
	assert.False(t, IsActiveConnectionStatus(ConnectionStatusDiscontinued))
}

func TestPartyCounterparty(t *testing.T) {
	assert.Equal(t, PartyBusiness, PartyTalent.Counterparty())
	assert.Equal(t, PartyTalent, PartyBusiness.Counterparty())
}
