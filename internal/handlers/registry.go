package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	ConnectionHandler   *ConnectionHandler
	PortfolioHandler    *PortfolioHandler
	NotificationHandler *NotificationHandler
	TalentBankHandler   *TalentBankHandler
	AdminHandler        *AdminHandler
}
