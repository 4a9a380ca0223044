package services

// ServiceContainer aggregates the service facades handed to route
// registration.
type ServiceContainer struct {
	User   UserSvcFacade
	Wallet WalletSvcFacade
	Escrow EscrowSvcFacade
	Job    JobSvcFacade
}
