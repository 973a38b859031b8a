package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"gorm.io/gorm"

	"github.com/course-platform/catalog-service/internal/models"
	"github.com/course-platform/catalog-service/internal/repositories"
)

// mockRepository is an in-memory Repository for service tests. The
// uniqueness and guarded-update behavior mirrors what the Postgres
// implementation enforces with constraints and conditional updates.
type mockRepository struct {
	categories  *mockCategoryRepo
	courses     *mockCourseRepo
	docs        *mockDocumentationRepo
	purchases   *mockPurchaseRepo
	enrollments *mockEnrollmentRepo
	progress    *mockProgressRepo
	reviews     *mockReviewRepo
	users       *mockUserRepo
	newsletter  *mockNewsletterRepo
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		categories:  &mockCategoryRepo{items: map[uint]*models.Category{}},
		courses:     &mockCourseRepo{courses: map[uint]*models.Course{}, sections: map[uint]*models.CourseSection{}},
		docs:        &mockDocumentationRepo{docs: map[uint]*models.Documentation{}, edges: map[uint][]uint{}},
		purchases:   &mockPurchaseRepo{items: map[uint]*models.Purchase{}},
		enrollments: &mockEnrollmentRepo{items: map[uint]*models.Enrollment{}},
		progress:    &mockProgressRepo{items: map[uint]*models.CourseProgress{}},
		reviews:     &mockReviewRepo{items: map[uint]*models.CourseReview{}},
		users:       &mockUserRepo{},
		newsletter:  &mockNewsletterRepo{items: map[string]*models.NewsletterSubscriber{}},
	}
}

func (m *mockRepository) Category() repositories.CategoryRepository           { return m.categories }
func (m *mockRepository) Course() repositories.CourseRepository               { return m.courses }
func (m *mockRepository) Documentation() repositories.DocumentationRepository { return m.docs }
func (m *mockRepository) Purchase() repositories.PurchaseRepository           { return m.purchases }
func (m *mockRepository) Enrollment() repositories.EnrollmentRepository       { return m.enrollments }
func (m *mockRepository) Progress() repositories.ProgressRepository           { return m.progress }
func (m *mockRepository) Review() repositories.ReviewRepository               { return m.reviews }
func (m *mockRepository) User() repositories.UserRepository                   { return m.users }
func (m *mockRepository) Newsletter() repositories.NewsletterRepository       { return m.newsletter }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ===== CATEGORY =====

type mockCategoryRepo struct {
	items  map[uint]*models.Category
	nextID uint
}

func (m *mockCategoryRepo) Create(ctx context.Context, tx *gorm.DB, category *models.Category) error {
	m.nextID++
	category.ID = m.nextID
	copied := *category
	m.items[category.ID] = &copied
	return nil
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Category, error) {
	if c, ok := m.items[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCategoryRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.Category, error) {
	for _, c := range m.items {
		if c.Slug == slug {
			copied := *c
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCategoryRepo) Update(ctx context.Context, tx *gorm.DB, category *models.Category) error {
	if _, ok := m.items[category.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *category
	m.items[category.ID] = &copied
	return nil
}

func (m *mockCategoryRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	delete(m.items, id)
	return nil
}

func (m *mockCategoryRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.CategoryFilters) ([]*models.Category, int64, error) {
	var out []*models.Category
	for _, c := range m.items {
		copied := *c
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (m *mockCategoryRepo) ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	_, ok := m.items[id]
	return ok, nil
}

func (m *mockCategoryRepo) ExistsByTitle(ctx context.Context, tx *gorm.DB, title string, excludeID *uint) (bool, error) {
	for _, c := range m.items {
		if c.Title == title && (excludeID == nil || c.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

// ===== COURSE =====

type mockCourseRepo struct {
	courses       map[uint]*models.Course
	sections      map[uint]*models.CourseSection
	nextCourseID  uint
	nextSectionID uint
}

func (m *mockCourseRepo) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	m.nextCourseID++
	course.ID = m.nextCourseID
	copied := *course
	m.courses[course.ID] = &copied
	return nil
}

func (m *mockCourseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetByIDWithSections(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	course, err := m.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	for _, s := range m.sections {
		if s.CourseID == id {
			course.Sections = append(course.Sections, *s)
		}
	}
	return course, nil
}

func (m *mockCourseRepo) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	if _, ok := m.courses[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *course
	m.courses[course.ID] = &copied
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	delete(m.courses, id)
	return nil
}

func (m *mockCourseRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	var out []*models.Course
	for _, c := range m.courses {
		copied := *c
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (m *mockCourseRepo) CreateSection(ctx context.Context, tx *gorm.DB, section *models.CourseSection) error {
	m.nextSectionID++
	section.ID = m.nextSectionID
	copied := *section
	m.sections[section.ID] = &copied
	return nil
}

func (m *mockCourseRepo) GetSectionByID(ctx context.Context, tx *gorm.DB, id uint) (*models.CourseSection, error) {
	if s, ok := m.sections[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) UpdateSection(ctx context.Context, tx *gorm.DB, section *models.CourseSection) error {
	if _, ok := m.sections[section.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *section
	m.sections[section.ID] = &copied
	return nil
}

func (m *mockCourseRepo) DeleteSection(ctx context.Context, tx *gorm.DB, id uint) error {
	delete(m.sections, id)
	return nil
}

func (m *mockCourseRepo) GetSections(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.CourseSection, error) {
	var out []*models.CourseSection
	for _, s := range m.sections {
		if s.CourseID == courseID {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockCourseRepo) CountSections(ctx context.Context, tx *gorm.DB, courseID uint) (int, error) {
	count := 0
	for _, s := range m.sections {
		if s.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (m *mockCourseRepo) IncrementStudentCount(ctx context.Context, tx *gorm.DB, courseID uint, delta int) error {
	if c, ok := m.courses[courseID]; ok {
		c.StudentCount += delta
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) UpdateRating(ctx context.Context, tx *gorm.DB, courseID uint, rating float64) error {
	if c, ok := m.courses[courseID]; ok {
		c.Rating = rating
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	_, ok := m.courses[id]
	return ok, nil
}

func (m *mockCourseRepo) GetEngagementStats(ctx context.Context, tx *gorm.DB, courseID uint) (*repositories.CourseEngagementStats, error) {
	return &repositories.CourseEngagementStats{}, nil
}

// ===== DOCUMENTATION =====

type mockDocumentationRepo struct {
	docs   map[uint]*models.Documentation
	edges  map[uint][]uint
	nextID uint
}

func (m *mockDocumentationRepo) Create(ctx context.Context, tx *gorm.DB, doc *models.Documentation) error {
	for _, d := range m.docs {
		if d.Slug == doc.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	doc.ID = m.nextID
	if doc.Version == 0 {
		doc.Version = 1
	}
	copied := *doc
	m.docs[doc.ID] = &copied
	return nil
}

func (m *mockDocumentationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Documentation, error) {
	if d, ok := m.docs[id]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDocumentationRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.Documentation, error) {
	for _, d := range m.docs {
		if d.Slug == slug {
			copied := *d
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDocumentationRepo) Update(ctx context.Context, tx *gorm.DB, doc *models.Documentation) error {
	if _, ok := m.docs[doc.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *doc
	m.docs[doc.ID] = &copied
	return nil
}

func (m *mockDocumentationRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	delete(m.docs, id)
	delete(m.edges, id)
	return nil
}

func (m *mockDocumentationRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.DocumentationFilters) ([]*models.Documentation, int64, error) {
	var out []*models.Documentation
	for _, d := range m.docs {
		copied := *d
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (m *mockDocumentationRepo) GetSectionIDs(ctx context.Context, tx *gorm.DB, docID uint) ([]uint, error) {
	return append([]uint(nil), m.edges[docID]...), nil
}

func (m *mockDocumentationRepo) ReplaceSections(ctx context.Context, tx *gorm.DB, parentID uint, childIDs []uint) error {
	m.edges[parentID] = append([]uint(nil), childIDs...)
	return nil
}

func (m *mockDocumentationRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	return int64(len(m.docs)), nil
}

func (m *mockDocumentationRepo) UpdateWithVersion(ctx context.Context, tx *gorm.DB, doc *models.Documentation, expectedVersion int) error {
	stored, ok := m.docs[doc.ID]
	if !ok || stored.Version != expectedVersion {
		return gorm.ErrRecordNotFound
	}
	doc.Version = expectedVersion + 1
	copied := *doc
	m.docs[doc.ID] = &copied
	return nil
}

func (m *mockDocumentationRepo) ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	_, ok := m.docs[id]
	return ok, nil
}

func (m *mockDocumentationRepo) ExistAllByID(ctx context.Context, tx *gorm.DB, ids []uint) (bool, error) {
	for _, id := range ids {
		if _, ok := m.docs[id]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// ===== PURCHASE =====

type mockPurchaseRepo struct {
	items  map[uint]*models.Purchase
	nextID uint

	// missLookups forces that many GetByUserAndDocument calls to
	// report not-found, standing in for a concurrent insert that
	// lands between the lookup and the create.
	missLookups int

	// beforeGuardedUpdate runs at the top of UpdateStatusGuarded,
	// letting a test mutate the stored row as a racing writer would.
	beforeGuardedUpdate func()
}

func (m *mockPurchaseRepo) Create(ctx context.Context, tx *gorm.DB, purchase *models.Purchase) error {
	for _, p := range m.items {
		if p.UserID == purchase.UserID && p.DocumentID == purchase.DocumentID {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	purchase.ID = m.nextID
	copied := *purchase
	m.items[purchase.ID] = &copied
	return nil
}

func (m *mockPurchaseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Purchase, error) {
	if p, ok := m.items[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPurchaseRepo) GetByUserAndDocument(ctx context.Context, tx *gorm.DB, userID string, documentID uint) (*models.Purchase, error) {
	if m.missLookups > 0 {
		m.missLookups--
		return nil, gorm.ErrRecordNotFound
	}
	for _, p := range m.items {
		if p.UserID == userID && p.DocumentID == documentID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPurchaseRepo) GetByProviderRef(ctx context.Context, tx *gorm.DB, sessionRef, paymentRef *string) (*models.Purchase, error) {
	if sessionRef == nil && paymentRef == nil {
		return nil, gorm.ErrRecordNotFound
	}
	for _, p := range m.items {
		if sessionRef != nil && p.ProviderSessionRef != nil && *p.ProviderSessionRef == *sessionRef {
			copied := *p
			return &copied, nil
		}
		if paymentRef != nil && p.ProviderPaymentRef != nil && *p.ProviderPaymentRef == *paymentRef {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPurchaseRepo) Update(ctx context.Context, tx *gorm.DB, purchase *models.Purchase) error {
	if _, ok := m.items[purchase.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *purchase
	m.items[purchase.ID] = &copied
	return nil
}

func (m *mockPurchaseRepo) UpdateStatusGuarded(ctx context.Context, tx *gorm.DB, id uint, from, to models.PurchaseStatus, paymentRef *string) (int64, error) {
	if m.beforeGuardedUpdate != nil {
		m.beforeGuardedUpdate()
	}
	p, ok := m.items[id]
	if !ok || p.Status != from {
		return 0, nil
	}
	p.Status = to
	if paymentRef != nil {
		p.ProviderPaymentRef = paymentRef
	}
	return 1, nil
}

func (m *mockPurchaseRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters repositories.PurchaseFilters) ([]*models.Purchase, int64, error) {
	var out []*models.Purchase
	for _, p := range m.items {
		if p.UserID != userID {
			continue
		}
		if filters.Status != nil && p.Status != *filters.Status {
			continue
		}
		copied := *p
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (m *mockPurchaseRepo) TotalSpent(ctx context.Context, tx *gorm.DB, userID string) (float64, error) {
	var total float64
	for _, p := range m.items {
		if p.UserID == userID && p.Status == models.PurchaseCompleted {
			total += p.Amount
		}
	}
	return total, nil
}

func (m *mockPurchaseRepo) GetSummary(ctx context.Context, tx *gorm.DB, userID string) (*repositories.PurchaseSummary, error) {
	summary := &repositories.PurchaseSummary{}
	for _, p := range m.items {
		if p.UserID != userID {
			continue
		}
		summary.TotalPurchases++
		switch p.Status {
		case models.PurchaseCompleted:
			summary.CompletedPurchases++
			summary.TotalSpent += p.Amount
		case models.PurchaseRefunded:
			summary.RefundedPurchases++
		}
	}
	return summary, nil
}

// ===== ENROLLMENT =====

type mockEnrollmentRepo struct {
	items  map[uint]*models.Enrollment
	nextID uint
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	for _, e := range m.items {
		if e.UserID == enrollment.UserID && e.CourseID == enrollment.CourseID {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	enrollment.ID = m.nextID
	copied := *enrollment
	m.items[enrollment.ID] = &copied
	return nil
}

func (m *mockEnrollmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error) {
	if e, ok := m.items[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID string, courseID uint) (*models.Enrollment, error) {
	for _, e := range m.items {
		if e.UserID == userID && e.CourseID == courseID {
			copied := *e
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	if _, ok := m.items[enrollment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *enrollment
	m.items[enrollment.ID] = &copied
	return nil
}

func (m *mockEnrollmentRepo) UpdateStatusGuarded(ctx context.Context, tx *gorm.DB, id uint, from, to models.EnrollmentStatus) (int64, error) {
	e, ok := m.items[id]
	if !ok || e.Status != from {
		return 0, nil
	}
	e.Status = to
	return 1, nil
}

func (m *mockEnrollmentRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	var out []*models.Enrollment
	for _, e := range m.items {
		copied := *e
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

// ===== PROGRESS =====

type mockProgressRepo struct {
	items  map[uint]*models.CourseProgress
	nextID uint
}

func (m *mockProgressRepo) Create(ctx context.Context, tx *gorm.DB, progress *models.CourseProgress) error {
	for _, p := range m.items {
		if p.UserID == progress.UserID && p.CourseID == progress.CourseID {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	progress.ID = m.nextID
	copied := *progress
	m.items[progress.ID] = &copied
	return nil
}

func (m *mockProgressRepo) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID string, courseID uint) (*models.CourseProgress, error) {
	for _, p := range m.items {
		if p.UserID == userID && p.CourseID == courseID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgressRepo) Update(ctx context.Context, tx *gorm.DB, progress *models.CourseProgress) error {
	if _, ok := m.items[progress.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *progress
	m.items[progress.ID] = &copied
	return nil
}

func (m *mockProgressRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string, limit, offset int) ([]*models.CourseProgress, int64, error) {
	var out []*models.CourseProgress
	for _, p := range m.items {
		if p.UserID == userID {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockProgressRepo) AverageProgress(ctx context.Context, tx *gorm.DB, courseID uint) (float64, error) {
	var sum, count float64
	for _, p := range m.items {
		if p.CourseID == courseID {
			sum += float64(p.ProgressPercentage)
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return sum / count, nil
}

// ===== REVIEW =====

type mockReviewRepo struct {
	items  map[uint]*models.CourseReview
	nextID uint
}

func (m *mockReviewRepo) Create(ctx context.Context, tx *gorm.DB, review *models.CourseReview) error {
	for _, r := range m.items {
		if r.UserID == review.UserID && r.CourseID == review.CourseID {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	review.ID = m.nextID
	copied := *review
	m.items[review.ID] = &copied
	return nil
}

func (m *mockReviewRepo) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID string, courseID uint) (*models.CourseReview, error) {
	for _, r := range m.items {
		if r.UserID == userID && r.CourseID == courseID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReviewRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	delete(m.items, id)
	return nil
}

func (m *mockReviewRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.ReviewFilters) ([]*models.CourseReview, int64, error) {
	var out []*models.CourseReview
	for _, r := range m.items {
		copied := *r
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (m *mockReviewRepo) AverageRating(ctx context.Context, tx *gorm.DB, courseID uint) (float64, int, error) {
	var sum, count int
	for _, r := range m.items {
		if r.CourseID == courseID {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

// ===== USER =====

type mockUserRepo struct{}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	return nil, 0, nil
}

func (m *mockUserRepo) ExistsByID(ctx context.Context, id string) (bool, error) { return true, nil }

func (m *mockUserRepo) HasRole(ctx context.Context, id string, role models.UserRole) (bool, error) {
	return false, nil
}

// ===== NEWSLETTER =====

type mockNewsletterRepo struct {
	items  map[string]*models.NewsletterSubscriber
	nextID uint
}

func (m *mockNewsletterRepo) Subscribe(ctx context.Context, tx *gorm.DB, email string) (*models.NewsletterSubscriber, error) {
	if existing, ok := m.items[email]; ok {
		copied := *existing
		return &copied, nil
	}
	m.nextID++
	sub := &models.NewsletterSubscriber{ID: m.nextID, Email: email}
	m.items[email] = sub
	copied := *sub
	return &copied, nil
}

func (m *mockNewsletterRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.NewsletterSubscriber, int64, error) {
	var out []*models.NewsletterSubscriber
	for _, s := range m.items {
		copied := *s
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}
