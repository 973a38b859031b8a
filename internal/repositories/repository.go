package repositories

import "context"

// Repository aggregates all entity repositories behind one handle so
// services can run multi-entity operations in a single transaction.
type Repository interface {
	// Catalog domain
	Category() CategoryRepository
	Course() CourseRepository
	Documentation() DocumentationRepository

	// Entitlement domain
	Purchase() PurchaseRepository
	Enrollment() EnrollmentRepository

	// Consumption domain
	Progress() ProgressRepository
	Review() ReviewRepository

	// User domain (read-only for this service)
	User() UserRepository

	// Newsletter
	Newsletter() NewsletterRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
