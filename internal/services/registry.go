package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService          AuthService
	UserService          UserService
	ProfileService       ProfileService
	ConnectionService    ConnectionService
	SnapshotService      SnapshotService
	PortfolioViewService PortfolioViewService
	NotificationService  NotificationService
	TalentBankService    TalentBankService
}
