package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"kidsflow/internal/cache"
	"kidsflow/internal/catalog"
	"kidsflow/internal/domain"
	"kidsflow/internal/gating"
	"kidsflow/internal/prompts"
)

var (
	ErrInvalidSelection = errors.New("selection not available for child age")
	ErrSelectionDenied  = errors.New("only parents can select a child profile")
)

// SelectionError detalla los ids rechazados por edad.
type SelectionError struct {
	Modes    catalog.ValidationResult `json:"modes"`
	Features catalog.ValidationResult `json:"features"`
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("%s: modes %v, features %v", ErrInvalidSelection, e.Modes.InvalidIDs, e.Features.InvalidIDs)
}

func (e *SelectionError) Is(target error) bool {
	return target == ErrInvalidSelection
}

// SelectionWriter escribe ui.selectedChildId en los settings del usuario.
type SelectionWriter interface {
	SetSelectedChildID(ctx context.Context, token, id string) error
}

// CapabilitiesView es lo que el UI necesita para habilitar controles.
type CapabilitiesView struct {
	Role            string               `json:"role"`
	Gated           bool                 `json:"gated"`
	Profile         *domain.ChildProfile `json:"profile"`
	EnabledModes    []domain.ModeID      `json:"enabled_modes"`
	EnabledFeatures []string             `json:"enabled_features"`
	SystemPrompt    string               `json:"system_prompt,omitempty"`
}

// ProfileService coordina el cache de perfiles, la selección y el gating.
type ProfileService struct {
	logger   *zap.Logger
	profiles *cache.ProfileSync
	selector SelectionWriter
	resolver *gating.Resolver
}

func NewProfileService(logger *zap.Logger, profiles *cache.ProfileSync, selector SelectionWriter, resolver *gating.Resolver) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		logger:   logger,
		profiles: profiles,
		selector: selector,
		resolver: resolver,
	}
}

func (s *ProfileService) List(ctx context.Context, sess domain.Session) ([]domain.ChildProfile, error) {
	return s.profiles.ListProfiles(ctx, sess)
}

func (s *ProfileService) Create(ctx context.Context, sess domain.Session, form domain.ChildProfileForm) (domain.ChildProfile, error) {
	if err := validateSelection(form); err != nil {
		return domain.ChildProfile{}, err
	}
	profile, err := s.profiles.CreateProfile(ctx, sess, form)
	if err != nil {
		return domain.ChildProfile{}, err
	}
	s.resolver.Forget(sess)
	s.logger.Info("child profile created", zap.String("user_id", sess.UserID), zap.String("profile_id", profile.ID))
	return profile, nil
}

func (s *ProfileService) Update(ctx context.Context, sess domain.Session, id string, form domain.ChildProfileForm) (domain.ChildProfile, error) {
	if err := validateSelection(form); err != nil {
		return domain.ChildProfile{}, err
	}
	profile, err := s.profiles.UpdateProfile(ctx, sess, id, form)
	if err != nil {
		return domain.ChildProfile{}, err
	}
	s.resolver.Forget(sess)
	return profile, nil
}

func (s *ProfileService) Delete(ctx context.Context, sess domain.Session, id string) error {
	if err := s.profiles.DeleteProfile(ctx, sess, id); err != nil {
		return err
	}
	s.resolver.Forget(sess)
	return nil
}

// Select fija el hijo activo del padre. La escritura va solo al endpoint de
// settings; id vacío limpia la selección.
func (s *ProfileService) Select(ctx context.Context, sess domain.Session, id string) error {
	if sess.Role != domain.RoleParent {
		return ErrSelectionDenied
	}
	id = strings.TrimSpace(id)
	if id != "" {
		profiles, err := s.profiles.ListProfiles(ctx, sess)
		if err != nil {
			return err
		}
		found := false
		for _, p := range profiles {
			if p.ID == id {
				found = true
				break
			}
		}
		if !found {
			return cache.ErrProfileNotFound
		}
	}
	if err := s.selector.SetSelectedChildID(ctx, sess.Token, id); err != nil {
		s.logger.Error("update selected child failed", zap.String("user_id", sess.UserID), zap.Error(err))
		return fmt.Errorf("select child profile: %w", err)
	}
	s.resolver.Forget(sess)
	return nil
}

// Acting devuelve el perfil que aplica a la sesión, o nil.
func (s *ProfileService) Acting(ctx context.Context, sess domain.Session) (*domain.ChildProfile, error) {
	return s.resolver.Resolve(ctx, sess)
}

// Capabilities resuelve el perfil y arma el set de capacidades con su system prompt.
func (s *ProfileService) Capabilities(ctx context.Context, sess domain.Session) (CapabilitiesView, error) {
	profile, err := s.resolver.Resolve(ctx, sess)
	if err != nil {
		return CapabilitiesView{}, err
	}
	caps := gating.NewCapabilities(sess.Role, profile)
	view := CapabilitiesView{
		Role:            sess.Role,
		Gated:           caps.Gated(),
		Profile:         caps.Profile(),
		EnabledModes:    caps.EnabledModes(),
		EnabledFeatures: caps.EnabledFeatures(),
	}
	if caps.Gated() {
		view.SystemPrompt = prompts.BuildChildSystemPrompt(view.EnabledFeatures)
	}
	return view, nil
}

// validateSelection rechaza modos o features no disponibles para la edad del
// formulario. Sin edad clasificable toda selección no vacía es inválida.
func validateSelection(form domain.ChildProfileForm) error {
	if len(form.SelectedInterfaceModes) == 0 && len(form.SelectedFeatures) == 0 {
		return nil
	}
	age := -1
	if form.ChildAge != nil {
		age = *form.ChildAge
	}
	modes := catalog.ValidateModesForAge(form.SelectedInterfaceModes, age)
	features := catalog.ValidateFeaturesForAge(form.SelectedFeatures, age)
	if modes.Valid && features.Valid {
		return nil
	}
	return &SelectionError{Modes: modes, Features: features}
}
