package models

import "fmt"

type UserStatus string
type UserRole string
type ConnectionStatus string
type Party string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"

	UserRoleTalent   UserRole = "talent"
	UserRoleBusiness UserRole = "business"
	UserRoleAdmin    UserRole = "admin"

	// Статусы запроса на подключение.
	// Граф переходов:
	//
	//	pending ──► accepted ──► discontinued ──► pending (reconnect request)
	//	    │                         │
	//	    └──► declined             └──► accepted (reconnect accept)
	//
	// declined - терминальный статус эпизода.
	ConnectionStatusPending      ConnectionStatus = "pending"
	ConnectionStatusAccepted     ConnectionStatus = "accepted"
	ConnectionStatusDeclined     ConnectionStatus = "declined"
	ConnectionStatusDiscontinued ConnectionStatus = "discontinued"

	PartyTalent   Party = "talent"
	PartyBusiness Party = "business"
)

// validConnectionTransitions перечисляет все разрешенные пары (from → to).
var validConnectionTransitions = map[ConnectionStatus][]ConnectionStatus{
	ConnectionStatusPending:  {ConnectionStatusAccepted, ConnectionStatusDeclined},
	ConnectionStatusAccepted: {ConnectionStatusDiscontinued},
	// discontinued → pending ставит request-reconnect;
	// discontinued → accepted допускается accept-reconnect'ом напрямую,
	// если шаг "mark as pending" еще не успел примениться (гонка двух под-операций)
	ConnectionStatusDiscontinued: {ConnectionStatusPending, ConnectionStatusAccepted},
	// declined - терминальный, исходящих переходов нет
}

// ParseConnectionStatus конвертирует строку в ConnectionStatus
func ParseConnectionStatus(s string) (ConnectionStatus, error) {
	st := ConnectionStatus(s)
	switch st {
	case ConnectionStatusPending, ConnectionStatusAccepted, ConnectionStatusDeclined, ConnectionStatusDiscontinued:
		return st, nil
	}
	return "", fmt.Errorf("unknown connection status %q", s)
}

// CanTransition возвращает true, если переход from → to разрешен
func CanTransition(from, to ConnectionStatus) bool {
	allowed, ok := validConnectionTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminalConnectionStatus - true для статусов без исходящих переходов
func IsTerminalConnectionStatus(s ConnectionStatus) bool {
	_, ok := validConnectionTransitions[s]
	return !ok
}

// IsActiveConnectionStatus - true для статусов, которые блокируют создание
// нового запроса между той же парой (pending и accepted)
func IsActiveConnectionStatus(s ConnectionStatus) bool {
	return s == ConnectionStatusPending || s == ConnectionStatusAccepted
}

// ParseParty конвертирует строку в Party
func ParseParty(s string) (Party, error) {
	p := Party(s)
	switch p {
	case PartyTalent, PartyBusiness:
		return p, nil
	}
	return "", fmt.Errorf("unknown party %q", s)
}

// Counterparty возвращает противоположную сторону
func (p Party) Counterparty() Party {
	if p == PartyTalent {
		return PartyBusiness
	}
	return PartyTalent
}
