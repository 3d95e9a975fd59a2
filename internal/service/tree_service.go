package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "canopy/internal/errors"
	"canopy/internal/model"
	"canopy/internal/queue"
	"canopy/internal/repository"
)

// NotificationDispatcher persists and pushes a notification to a user.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, userID, treeID uint, typeTag, message string) error
}

// Geocoder resolves coordinates to a human-readable place name.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (string, error)
}

// EventPublisher emits verification events to the broker.
type EventPublisher interface {
	PublishTreeVerified(ctx context.Context, event queue.TreeVerifiedEvent) error
}

// TreeSubmission is the validated input of a tree registration. SpeciesID and
// PlantingReasonID arrive as strings because they come from form selects.
type TreeSubmission struct {
	Name             string   `json:"tree_name" validate:"required,min=1,max=50"`
	Image            string   `json:"tree_image" validate:"required,url"`
	Lat              float64  `json:"tree_lat" validate:"min=-90,max=90"`
	Lng              float64  `json:"tree_lng" validate:"min=-180,max=180"`
	Height           *float64 `json:"tree_height,omitempty" validate:"omitempty,min=0,max=100"`
	Age              *int     `json:"tree_age,omitempty" validate:"omitempty,min=0,max=100"`
	SpeciesID        string   `json:"tree_species"`
	PlanterType      string   `json:"planter_type" validate:"required,oneof=INDIVIDUAL ORGANIZATION"`
	OrganizationName *string  `json:"organization_name,omitempty" validate:"omitempty,max=255"`
	PlantingReasonID string   `json:"planting_reason_id,omitempty"`
	Hashtags         *string  `json:"hashtags,omitempty" validate:"omitempty,max=500"`
	Quantity         *int     `json:"quantity,omitempty" validate:"omitempty,min=1"`
	AreaHectares     *float64 `json:"area_hectares,omitempty" validate:"omitempty,min=0"`
}

// TreeListing is a tree enriched with a best-effort readable location.
type TreeListing struct {
	model.Tree
	Location string `json:"location_readable,omitempty"`
}

// TreeService covers submission, verification, listing, and deletion of trees.
type TreeService interface {
	Submit(ctx context.Context, user *model.User, sub TreeSubmission) (*model.Tree, error)
	SubmitBatch(ctx context.Context, user *model.User, subs []TreeSubmission) ([]uint, error)
	Verify(ctx context.Context, user *model.User, treeID uint, approved bool) (*model.Tree, error)
	ListPending(ctx context.Context, user *model.User) ([]model.Tree, error)
	Explore(ctx context.Context) ([]model.Tree, error)
	ManageList(ctx context.Context, user *model.User) ([]model.Tree, error)
	Search(ctx context.Context, filter repository.TreeFilter) ([]TreeListing, error)
	Delete(ctx context.Context, user *model.User, treeID uint) error
}

type treeService struct {
	treeRepo repository.TreeRepository
	notifier NotificationDispatcher
	geocoder Geocoder
	events   EventPublisher
}

// NewTreeService builds a TreeService. geocoder and events may be nil.
func NewTreeService(treeRepo repository.TreeRepository, notifier NotificationDispatcher, geocoder Geocoder, events EventPublisher) TreeService {
	return &treeService{
		treeRepo: treeRepo,
		notifier: notifier,
		geocoder: geocoder,
		events:   events,
	}
}

// Submit validates and inserts a new tree in PENDING status owned by the
// caller. Anonymous callers are rejected before any field validation.
func (s *treeService) Submit(ctx context.Context, user *model.User, sub TreeSubmission) (*model.Tree, error) {
	if user == nil {
		return nil, apperrors.ErrUnauthenticated
	}

	tree, err := s.buildTree(user, sub)
	if err != nil {
		return nil, err
	}

	if err := s.treeRepo.Create(ctx, tree); err != nil {
		return nil, fmt.Errorf("create tree: %w", err)
	}

	// The insert populates tree.ID; no re-read needed.
	return tree, nil
}

// SubmitBatch processes submissions sequentially and stops at the first
// failure. Rows created before the failing item are kept.
func (s *treeService) SubmitBatch(ctx context.Context, user *model.User, subs []TreeSubmission) ([]uint, error) {
	if user == nil {
		return nil, apperrors.ErrUnauthenticated
	}

	created := make([]uint, 0, len(subs))
	for _, sub := range subs {
		tree, err := s.buildTree(user, sub)
		if err != nil {
			return created, fmt.Errorf("tree %q: %w", sub.Name, err)
		}
		if err := s.treeRepo.Create(ctx, tree); err != nil {
			return created, fmt.Errorf("tree %q: create: %w", sub.Name, err)
		}
		created = append(created, tree.ID)
	}
	return created, nil
}

// buildTree validates a submission and shapes it into a model row. Status is
// forced to PENDING regardless of caller input.
func (s *treeService) buildTree(user *model.User, sub TreeSubmission) (*model.Tree, error) {
	if err := validateSubmission(sub); err != nil {
		return nil, err
	}

	speciesID, err := parseSpeciesID(sub.SpeciesID)
	if err != nil {
		return nil, err
	}

	var reasonID *uint
	if strings.TrimSpace(sub.PlantingReasonID) != "" {
		parsed, err := strconv.ParseUint(strings.TrimSpace(sub.PlantingReasonID), 10, 32)
		if err != nil {
			return nil, apperrors.NewValidationError("planting_reason_id", apperrors.ErrInvalidReason.Error())
		}
		id := uint(parsed)
		reasonID = &id
	}

	height := 0.0
	if sub.Height != nil {
		height = *sub.Height
	}
	age := 0
	if sub.Age != nil {
		age = *sub.Age
	}
	quantity := 1
	if sub.Quantity != nil {
		quantity = *sub.Quantity
	}

	userID := user.ID
	return &model.Tree{
		Name:             sub.Name,
		SpeciesID:        &speciesID,
		Height:           height,
		Health:           model.HealthExcellent,
		Status:           model.StatusPending,
		Age:              age,
		Image:            sub.Image,
		Lat:              sub.Lat,
		Lng:              sub.Lng,
		PlantedByID:      &userID,
		PlantedOn:        time.Now(),
		PlanterType:      model.PlanterType(sub.PlanterType),
		OrganizationName: sub.OrganizationName,
		PlantingReasonID: reasonID,
		Hashtags:         sub.Hashtags,
		Quantity:         quantity,
		AreaHectares:     sub.AreaHectares,
	}, nil
}

// Verify moves a PENDING tree to APPROVED or DECLINED. Only administrators
// may verify. The submitting user is notified after a successful update;
// notification and event publishing are detached and best-effort.
func (s *treeService) Verify(ctx context.Context, user *model.User, treeID uint, approved bool) (*model.Tree, error) {
	if user == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	if !user.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	tree, err := s.treeRepo.FindByID(ctx, treeID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrTreeNotFound
		}
		return nil, fmt.Errorf("load tree: %w", err)
	}

	status := model.StatusApproved
	if !approved {
		status = model.StatusDeclined
	}

	if err := s.treeRepo.UpdateStatus(ctx, tree.ID, status); err != nil {
		return nil, fmt.Errorf("update tree status: %w", err)
	}
	tree.Status = status
	tree.UpdatedAt = time.Now()

	if tree.PlantedByID != nil {
		ownerID := *tree.PlantedByID
		message := fmt.Sprintf("Your tree submission for %s has been %s.", tree.Name, strings.ToLower(string(status)))
		go func() {
			if err := s.notifier.Dispatch(context.Background(), ownerID, tree.ID, model.NotificationStatusChange, message); err != nil {
				log.Printf("verify: notification dispatch failed for tree %d: %v", tree.ID, err)
			}
		}()

		if s.events != nil {
			event := queue.TreeVerifiedEvent{
				TreeID:     tree.ID,
				UserID:     ownerID,
				Status:     string(status),
				VerifiedAt: time.Now().UTC(),
			}
			go func() {
				_ = s.events.PublishTreeVerified(context.Background(), event)
			}()
		}
	} else {
		log.Printf("verify: tree %d has no submitting user, skipping notification", tree.ID)
	}

	return tree, nil
}

// ListPending returns the admin review queue, oldest first.
func (s *treeService) ListPending(ctx context.Context, user *model.User) ([]model.Tree, error) {
	if user == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	if !user.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	return s.treeRepo.ListPending(ctx)
}

// Explore returns the public view: approved trees only.
func (s *treeService) Explore(ctx context.Context) ([]model.Tree, error) {
	return s.treeRepo.List(ctx, repository.TreeFilter{Status: model.StatusApproved})
}

// ManageList returns all trees regardless of status for the management view.
func (s *treeService) ManageList(ctx context.Context, user *model.User) ([]model.Tree, error) {
	if user == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	return s.treeRepo.List(ctx, repository.TreeFilter{})
}

// Search lists approved trees matching the filter and annotates each result
// with a reverse-geocoded location when the upstream cooperates.
func (s *treeService) Search(ctx context.Context, filter repository.TreeFilter) ([]TreeListing, error) {
	filter.Status = model.StatusApproved
	trees, err := s.treeRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	listings := make([]TreeListing, 0, len(trees))
	for _, tree := range trees {
		listing := TreeListing{Tree: tree}
		if s.geocoder != nil {
			if place, err := s.geocoder.Reverse(ctx, tree.Lat, tree.Lng); err == nil {
				listing.Location = place
			}
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

// Delete removes a tree. Plain users may not delete.
func (s *treeService) Delete(ctx context.Context, user *model.User, treeID uint) error {
	if user == nil {
		return apperrors.ErrUnauthenticated
	}
	if user.RoleID == model.RoleIDUser {
		return apperrors.ErrForbidden
	}
	if err := s.treeRepo.Delete(ctx, treeID); err != nil {
		return fmt.Errorf("delete tree: %w", err)
	}
	return nil
}

// validateSubmission enforces the field-level constraints of a submission.
func validateSubmission(sub TreeSubmission) error {
	name := strings.TrimSpace(sub.Name)
	if name == "" || len(name) > 50 {
		return apperrors.NewValidationError("tree_name", "name must be between 1 and 50 characters")
	}
	if _, err := url.ParseRequestURI(sub.Image); err != nil {
		return apperrors.NewValidationError("tree_image", "image must be a valid URL")
	}
	if sub.Lat < -90 || sub.Lat > 90 {
		return apperrors.NewValidationError("tree_lat", apperrors.ErrInvalidCoordinates.Error())
	}
	if sub.Lng < -180 || sub.Lng > 180 {
		return apperrors.NewValidationError("tree_lng", apperrors.ErrInvalidCoordinates.Error())
	}
	if sub.Height != nil && (*sub.Height < 0 || *sub.Height > 100) {
		return apperrors.NewValidationError("tree_height", "height must be between 0 and 100 meters")
	}
	if sub.Age != nil && (*sub.Age < 0 || *sub.Age > 100) {
		return apperrors.NewValidationError("tree_age", "age must be between 0 and 100 years")
	}
	pt := model.PlanterType(sub.PlanterType)
	if pt != model.PlanterIndividual && pt != model.PlanterOrganization {
		return apperrors.NewValidationError("planter_type", "planter type must be INDIVIDUAL or ORGANIZATION")
	}
	if sub.OrganizationName != nil && len(*sub.OrganizationName) > 255 {
		return apperrors.NewValidationError("organization_name", "organization name too long")
	}
	if sub.Hashtags != nil && len(*sub.Hashtags) > 500 {
		return apperrors.NewValidationError("hashtags", "hashtags too long")
	}
	if sub.Quantity != nil && *sub.Quantity < 1 {
		return apperrors.NewValidationError("quantity", "quantity must be at least 1")
	}
	if sub.AreaHectares != nil && *sub.AreaHectares < 0 {
		return apperrors.NewValidationError("area_hectares", "area must not be negative")
	}
	return nil
}

// parseSpeciesID parses the species select value. Missing and non-numeric
// values are distinct failures; there is no default species.
func parseSpeciesID(raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperrors.NewValidationError("tree_species", apperrors.ErrSpeciesRequired.Error())
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, apperrors.NewValidationError("tree_species", apperrors.ErrInvalidSpecies.Error())
	}
	return uint(parsed), nil
}
