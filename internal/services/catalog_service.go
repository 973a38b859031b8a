package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/course-platform/catalog-service/internal/models"
	"github.com/course-platform/catalog-service/internal/repositories"
	"github.com/course-platform/catalog-service/internal/validator"
)

type catalogService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCatalogService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) CatalogService {
	return &catalogService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// ===== CATEGORIES =====

func (s *catalogService) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*models.Category, error) {
	s.logger.Info("Creating category", "title", req.Title)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.Category().ExistsByTitle(ctx, nil, req.Title, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check category title: %w", err)
	}
	if exists {
		return nil, ErrCategoryTitleTaken
	}

	category := &models.Category{
		Title:       req.Title,
		Slug:        slug.Make(req.Title),
		Description: req.Description,
		Icon:        req.Icon,
		BgColor:     req.BgColor,
	}
	if req.Order != nil {
		category.Order = *req.Order
	}

	if err := s.repo.Category().Create(ctx, nil, category); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrCategoryTitleTaken
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info("Category created", "category_id", category.ID, "slug", category.Slug)
	return category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uint, req *UpdateCategoryRequest) (*models.Category, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	category, err := s.repo.Category().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	if req.Title != nil && *req.Title != category.Title {
		exists, err := s.repo.Category().ExistsByTitle(ctx, nil, *req.Title, &id)
		if err != nil {
			return nil, fmt.Errorf("failed to check category title: %w", err)
		}
		if exists {
			return nil, ErrCategoryTitleTaken
		}
		category.Title = *req.Title
		category.Slug = slug.Make(*req.Title)
	}
	if req.Description != nil {
		category.Description = req.Description
	}
	if req.Icon != nil {
		category.Icon = req.Icon
	}
	if req.BgColor != nil {
		category.BgColor = req.BgColor
	}
	if req.Order != nil {
		category.Order = *req.Order
	}

	if err := s.repo.Category().Update(ctx, nil, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

func (s *catalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.repo.Category().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (s *catalogService) GetCategoryBySlug(ctx context.Context, categorySlug string) (*models.Category, error) {
	category, err := s.repo.Category().GetBySlug(ctx, nil, strings.ToLower(categorySlug))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (s *catalogService) ListCategories(ctx context.Context, filters repositories.CategoryFilters) ([]*models.Category, int64, error) {
	return s.repo.Category().List(ctx, nil, filters)
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.repo.Category().GetByID(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to get category: %w", err)
	}
	return s.repo.Category().Delete(ctx, nil, id)
}

// ===== COURSES =====

func (s *catalogService) CreateCourse(ctx context.Context, req *CreateCourseRequest) (*models.Course, error) {
	s.logger.Info("Creating course", "title", req.Title, "category_id", req.CategoryID)

	if errors := s.validator.GetBusinessValidator().ValidateCourseCreate(req); len(errors) > 0 {
		return nil, errors
	}

	exists, err := s.repo.Category().ExistsByID(ctx, nil, req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return nil, ErrCategoryNotFound
	}

	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Level:       models.LevelBeginner,
		Duration:    req.Duration,
		Instructor:  req.Instructor,
		BgColor:     req.BgColor,
		Price:       req.Price,
	}
	if req.Level != "" {
		course.Level = req.Level
	}
	if req.IsPremium != nil {
		course.IsPremium = *req.IsPremium
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}

	if err := s.repo.Course().Create(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info("Course created", "course_id", course.ID)
	return course, nil
}

func (s *catalogService) UpdateCourse(ctx context.Context, id uint, req *UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if req.CategoryID != nil {
		exists, err := s.repo.Category().ExistsByID(ctx, nil, *req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("failed to check category: %w", err)
		}
		if !exists {
			return nil, ErrCategoryNotFound
		}
		course.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.Duration != nil {
		course.Duration = req.Duration
	}
	if req.Instructor != nil {
		course.Instructor = req.Instructor
	}
	if req.BgColor != nil {
		course.BgColor = req.BgColor
	}
	if req.Price != nil {
		course.Price = req.Price
	}
	if req.IsPremium != nil {
		course.IsPremium = *req.IsPremium
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}

	if err := s.repo.Course().Update(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	return course, nil
}

func (s *catalogService) GetCourse(ctx context.Context, id uint) (*CourseResponse, error) {
	course, err := s.repo.Course().GetByIDWithSections(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return &CourseResponse{
		Course:       course,
		SectionCount: len(course.Sections),
	}, nil
}

func (s *catalogService) ListCourses(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error) {
	courses, total, err := s.repo.Course().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}
	return &CourseListResponse{
		Courses: courses,
		Total:   total,
		Page:    page,
		Size:    len(courses),
	}, nil
}

func (s *catalogService) DeleteCourse(ctx context.Context, id uint) error {
	if _, err := s.repo.Course().GetByID(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to get course: %w", err)
	}
	return s.repo.Course().Delete(ctx, nil, id)
}

// ===== COURSE SECTIONS =====

func (s *catalogService) AddSection(ctx context.Context, courseID uint, req *CreateSectionRequest) (*models.CourseSection, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.Course().ExistsByID(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check course: %w", err)
	}
	if !exists {
		return nil, ErrCourseNotFound
	}

	section := &models.CourseSection{
		CourseID: courseID,
		Title:    req.Title,
		Content:  req.Content,
	}
	if req.Order != nil {
		section.Order = *req.Order
	} else {
		count, err := s.repo.Course().CountSections(ctx, nil, courseID)
		if err != nil {
			return nil, fmt.Errorf("failed to count sections: %w", err)
		}
		section.Order = count + 1
	}

	if err := s.repo.Course().CreateSection(ctx, nil, section); err != nil {
		return nil, fmt.Errorf("failed to create section: %w", err)
	}
	return section, nil
}

func (s *catalogService) UpdateSection(ctx context.Context, sectionID uint, req *UpdateSectionRequest) (*models.CourseSection, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	section, err := s.repo.Course().GetSectionByID(ctx, nil, sectionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}

	if req.Title != nil {
		section.Title = *req.Title
	}
	if req.Content != nil {
		section.Content = *req.Content
	}
	if req.Order != nil {
		section.Order = *req.Order
	}

	if err := s.repo.Course().UpdateSection(ctx, nil, section); err != nil {
		return nil, fmt.Errorf("failed to update section: %w", err)
	}
	return section, nil
}

func (s *catalogService) DeleteSection(ctx context.Context, sectionID uint) error {
	if _, err := s.repo.Course().GetSectionByID(ctx, nil, sectionID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSectionNotFound
		}
		return fmt.Errorf("failed to get section: %w", err)
	}
	return s.repo.Course().DeleteSection(ctx, nil, sectionID)
}

// ===== DOCUMENTATION =====

func (s *catalogService) CreateDocumentation(ctx context.Context, req *CreateDocumentationRequest) (*models.Documentation, error) {
	s.logger.Info("Creating documentation", "title", req.Title, "category_id", req.CategoryID)

	if errors := s.validator.GetBusinessValidator().ValidateDocumentationCreate(req); len(errors) > 0 {
		return nil, errors
	}

	exists, err := s.repo.Category().ExistsByID(ctx, nil, req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return nil, ErrCategoryNotFound
	}

	docSlug := slug.Make(req.Title)
	if req.Slug != nil {
		docSlug = *req.Slug
	}

	doc := &models.Documentation{
		Title:       req.Title,
		Slug:        docSlug,
		Description: req.Description,
		Content:     req.Content,
		CategoryID:  req.CategoryID,
		ReadTime:    req.ReadTime,
		ProTip:      req.ProTip,
		Price:       req.Price,
		Currency:    "usd",
		IsPublished: true,
		Version:     1,
	}
	if req.Currency != nil {
		doc.Currency = *req.Currency
	}
	if req.IsPublished != nil {
		doc.IsPublished = *req.IsPublished
	}
	if err := setJSONFields(doc, req.KeyFeatures, req.CodeExamples, req.QuickLinks); err != nil {
		return nil, err
	}

	if err := s.repo.Documentation().Create(ctx, nil, doc); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create documentation: %w", err)
	}

	s.logger.Info("Documentation created", "document_id", doc.ID, "slug", doc.Slug)
	return doc, nil
}

func (s *catalogService) UpdateDocumentation(ctx context.Context, id uint, req *UpdateDocumentationRequest) (*models.Documentation, error) {
	if errors := s.validator.GetBusinessValidator().ValidateDocumentationUpdate(req); len(errors) > 0 {
		return nil, errors
	}

	doc, err := s.repo.Documentation().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDocumentationNotFound
		}
		return nil, fmt.Errorf("failed to get documentation: %w", err)
	}

	if req.CategoryID != nil {
		exists, err := s.repo.Category().ExistsByID(ctx, nil, *req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("failed to check category: %w", err)
		}
		if !exists {
			return nil, ErrCategoryNotFound
		}
		doc.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.Description != nil {
		doc.Description = req.Description
	}
	if req.Content != nil {
		doc.Content = *req.Content
	}
	if req.ReadTime != nil {
		doc.ReadTime = req.ReadTime
	}
	if req.ProTip != nil {
		doc.ProTip = req.ProTip
	}
	if req.Price != nil {
		doc.Price = req.Price
	}
	if req.Currency != nil {
		doc.Currency = *req.Currency
	}
	if req.IsPublished != nil {
		doc.IsPublished = *req.IsPublished
	}
	if err := setJSONFields(doc, req.KeyFeatures, req.CodeExamples, req.QuickLinks); err != nil {
		return nil, err
	}

	if err := s.repo.Documentation().Update(ctx, nil, doc); err != nil {
		return nil, fmt.Errorf("failed to update documentation: %w", err)
	}
	return doc, nil
}

func (s *catalogService) GetDocumentation(ctx context.Context, id uint) (*DocumentationResponse, error) {
	doc, err := s.repo.Documentation().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDocumentationNotFound
		}
		return nil, fmt.Errorf("failed to get documentation: %w", err)
	}
	return s.buildDocumentationResponse(ctx, doc)
}

func (s *catalogService) GetDocumentationBySlug(ctx context.Context, docSlug string) (*DocumentationResponse, error) {
	doc, err := s.repo.Documentation().GetBySlug(ctx, nil, strings.ToLower(docSlug))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDocumentationNotFound
		}
		return nil, fmt.Errorf("failed to get documentation: %w", err)
	}
	return s.buildDocumentationResponse(ctx, doc)
}

func (s *catalogService) ListDocumentation(ctx context.Context, filters repositories.DocumentationFilters) (*DocumentationListResponse, error) {
	docs, total, err := s.repo.Documentation().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list documentation: %w", err)
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}
	return &DocumentationListResponse{
		Documents: docs,
		Total:     total,
		Page:      page,
		Size:      len(docs),
	}, nil
}

func (s *catalogService) DeleteDocumentation(ctx context.Context, id uint) error {
	if _, err := s.repo.Documentation().GetByID(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrDocumentationNotFound
		}
		return fmt.Errorf("failed to get documentation: %w", err)
	}
	return s.repo.Documentation().Delete(ctx, nil, id)
}

// ===== NEWSLETTER =====

func (s *catalogService) Subscribe(ctx context.Context, req *SubscribeRequest) (*models.NewsletterSubscriber, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	subscriber, err := s.repo.Newsletter().Subscribe(ctx, nil, strings.ToLower(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	return subscriber, nil
}

// ===== HELPERS =====

func (s *catalogService) buildDocumentationResponse(ctx context.Context, doc *models.Documentation) (*DocumentationResponse, error) {
	sectionIDs, err := s.repo.Documentation().GetSectionIDs(ctx, nil, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get section ids: %w", err)
	}
	return &DocumentationResponse{
		Documentation: doc,
		SectionIDs:    sectionIDs,
	}, nil
}

func setJSONFields(doc *models.Documentation, keyFeatures []string, codeExamples []models.CodeExample, quickLinks []string) error {
	if keyFeatures != nil {
		data, err := json.Marshal(keyFeatures)
		if err != nil {
			return fmt.Errorf("failed to encode key features: %w", err)
		}
		doc.KeyFeatures = data
	}
	if codeExamples != nil {
		data, err := json.Marshal(codeExamples)
		if err != nil {
			return fmt.Errorf("failed to encode code examples: %w", err)
		}
		doc.CodeExamples = data
	}
	if quickLinks != nil {
		data, err := json.Marshal(quickLinks)
		if err != nil {
			return fmt.Errorf("failed to encode quick links: %w", err)
		}
		doc.QuickLinks = data
	}
	return nil
}
