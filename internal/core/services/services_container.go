package services

import (
	portsrepo "github.com/jobhive/jobhive_backend/internal/core/ports/repositories"
	portssvc "github.com/jobhive/jobhive_backend/internal/core/ports/services"
	"github.com/jobhive/jobhive_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier portssvc.Notifier) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Wallet = NewWalletService(repos.WalletRepo, repos.TransactionRepo, repos.UserRepo)
	container.Escrow = NewEscrowService(repos.EscrowRepo, repos.UserRepo, notifier, cfg.AdminUserID, cfg.JobPostingFee)
	container.Job = NewJobService(repos.JobRepo, repos.UserRepo, container.Escrow)

	return container
}
