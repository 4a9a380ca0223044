package repositories

// RepositoryProvider bundles the repository implementations handed to the
// service container.
type RepositoryProvider struct {
	UserRepo        UserRepository
	WalletRepo      WalletRepository
	TransactionRepo TransactionRepository
	JobRepo         JobRepository
	EscrowRepo      EscrowRepository
}
