package identity

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/identity"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CampusService manages campuses
type CampusService struct {
	campusRepo identity.CampusRepository
	userRepo   identity.UserRepository
	logger     *zap.Logger
}

// NewCampusService creates a new campus service
func NewCampusService(campusRepo identity.CampusRepository, userRepo identity.UserRepository, logger *zap.Logger) *CampusService {
	return &CampusService{
		campusRepo: campusRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// CreateCampusInput contains input for campus creation
type CreateCampusInput struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	EmailDomain string `json:"email_domain"`
}

// Create registers a new campus with a unique email domain
func (s *CampusService) Create(ctx context.Context, input CreateCampusInput) (*CampusDTO, error) {
	s.logger.Info("Creating campus",
		zap.String("name", input.Name),
		zap.String("email_domain", input.EmailDomain))

	if _, err := s.campusRepo.FindByEmailDomain(ctx, input.EmailDomain); err == nil {
		return nil, shared.NewDomainError("EMAIL_DOMAIN_EXISTS", "A campus with this email domain already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to check email domain", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email domain")
	}

	campus, err := identity.NewCampus(input.Name, input.Location, input.EmailDomain)
	if err != nil {
		return nil, err
	}

	if err := s.campusRepo.Save(ctx, campus); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("EMAIL_DOMAIN_EXISTS", "A campus with this email domain already exists")
		}
		s.logger.Error("Failed to save campus", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create campus")
	}

	s.logger.Info("Campus created", zap.String("campus_id", campus.ID.String()))
	return toCampusDTO(campus), nil
}

// GetByID retrieves a campus by ID
func (s *CampusService) GetByID(ctx context.Context, id uuid.UUID) (*CampusDTO, error) {
	campus, err := s.campusRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CAMPUS_NOT_FOUND", "Campus not found")
		}
		s.logger.Error("Failed to find campus", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find campus")
	}
	return toCampusDTO(campus), nil
}

// ListCampusesInput contains list filter options
type ListCampusesInput struct {
	Page     int
	PageSize int
	Search   string
	SortBy   string
	SortDir  string
	IsActive *bool
}

// List retrieves a paginated campus list
func (s *CampusService) List(ctx context.Context, input ListCampusesInput) (*CampusListResult, error) {
	filter := buildFilter(input.Page, input.PageSize, input.Search, input.SortBy, input.SortDir)
	if input.IsActive != nil {
		filter.Filters["is_active"] = *input.IsActive
	}

	page, err := s.campusRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list campuses", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list campuses")
	}

	items := make([]CampusDTO, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *toCampusDTO(&page.Items[i]))
	}
	return &CampusListResult{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// UpdateCampusInput contains input for campus updates
type UpdateCampusInput struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Update changes a campus's name and location. The email domain is
// immutable once users hold addresses under it.
func (s *CampusService) Update(ctx context.Context, id uuid.UUID, input UpdateCampusInput) (*CampusDTO, error) {
	campus, err := s.campusRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CAMPUS_NOT_FOUND", "Campus not found")
		}
		s.logger.Error("Failed to find campus", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find campus")
	}

	if err := campus.Update(input.Name, input.Location); err != nil {
		return nil, err
	}

	if err := s.campusRepo.Update(ctx, campus); err != nil {
		s.logger.Error("Failed to update campus", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update campus")
	}
	return toCampusDTO(campus), nil
}

// SetActive activates or deactivates a campus
func (s *CampusService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*CampusDTO, error) {
	campus, err := s.campusRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CAMPUS_NOT_FOUND", "Campus not found")
		}
		s.logger.Error("Failed to find campus", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find campus")
	}

	if active {
		err = campus.Activate()
	} else {
		err = campus.Deactivate()
	}
	if err != nil {
		return nil, err
	}

	if err := s.campusRepo.Update(ctx, campus); err != nil {
		s.logger.Error("Failed to update campus", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update campus")
	}
	return toCampusDTO(campus), nil
}

// Delete removes a campus. Campuses with enrolled users cannot be deleted.
func (s *CampusService) Delete(ctx context.Context, id uuid.UUID) error {
	filter := shared.DefaultFilter()
	filter.PageSize = 1
	users, err := s.userRepo.FindByCampus(ctx, id, filter)
	if err != nil {
		s.logger.Error("Failed to count campus users", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete campus")
	}
	if users.Total > 0 {
		return shared.NewDomainError("CAMPUS_HAS_USERS", "Campus with enrolled users cannot be deleted")
	}

	if err := s.campusRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("CAMPUS_NOT_FOUND", "Campus not found")
		}
		s.logger.Error("Failed to delete campus", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete campus")
	}

	s.logger.Info("Campus deleted", zap.String("campus_id", id.String()))
	return nil
}

// buildFilter assembles a repository filter from paging and sorting inputs
func buildFilter(page, pageSize int, search, sortBy, sortDir string) shared.Filter {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 && pageSize <= 100 {
		filter.PageSize = pageSize
	}
	filter.Search = search
	if sortBy != "" {
		filter.OrderBy = sortBy
	}
	if sortDir != "" {
		filter.OrderDir = sortDir
	}
	return filter
}
