package service

import (
	"context"
	"sync"

	"kidsflow/internal/cache"
	"kidsflow/internal/domain"
	"kidsflow/internal/gating"
)

// fakeUpstream cubre las partes del backend que usan los servicios.
type fakeUpstream struct {
	mu          sync.Mutex
	state       domain.WorkflowState
	stateErr    error
	profiles    []domain.ChildProfile
	listErr     error
	selectedID  string
	settingsErr error
	writes      []string
}

func (f *fakeUpstream) GetWorkflowState(_ context.Context, _ string) (domain.WorkflowState, error) {
	return f.state, f.stateErr
}

func (f *fakeUpstream) ListChildProfiles(_ context.Context, _ string) ([]domain.ChildProfile, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ChildProfile{}, f.profiles...), nil
}

func (f *fakeUpstream) CreateChildProfile(_ context.Context, _ string, form domain.ChildProfileForm) (domain.ChildProfile, error) {
	p := domain.ChildProfile{
		ID:                     "created",
		Name:                   form.Name,
		ChildAge:               form.ChildAge,
		SelectedFeatures:       form.SelectedFeatures,
		SelectedInterfaceModes: form.SelectedInterfaceModes,
	}
	f.mu.Lock()
	f.profiles = append(f.profiles, p)
	f.mu.Unlock()
	return p, nil
}

func (f *fakeUpstream) UpdateChildProfile(_ context.Context, _ string, id string, form domain.ChildProfileForm) (domain.ChildProfile, error) {
	return domain.ChildProfile{ID: id, Name: form.Name, ChildAge: form.ChildAge}, nil
}

func (f *fakeUpstream) DeleteChildProfile(_ context.Context, _ string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.profiles[:0]
	for _, p := range f.profiles {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.profiles = kept
	return nil
}

func (f *fakeUpstream) SelectedChildID(_ context.Context, _ string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settingsErr != nil {
		return "", false, f.settingsErr
	}
	return f.selectedID, f.selectedID != "", nil
}

func (f *fakeUpstream) SetSelectedChildID(_ context.Context, _ string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settingsErr != nil {
		return f.settingsErr
	}
	f.selectedID = id
	f.writes = append(f.writes, id)
	return nil
}

// setFeatures cambia las features de un perfil como lo haría otra sesión.
func (f *fakeUpstream) setFeatures(id string, features []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.profiles {
		if f.profiles[i].ID == id {
			f.profiles[i].SelectedFeatures = features
		}
	}
}

func newProfileStack(up *fakeUpstream) (*cache.ProfileSync, *gating.Resolver, *ProfileService) {
	profiles := cache.NewProfileSync(nil, cache.NewMemoryStore(), up, up)
	resolver := gating.NewResolver(nil, up, up)
	return profiles, resolver, NewProfileService(nil, profiles, up, resolver)
}

func intPtr(v int) *int { return &v }

var (
	parentSess = domain.Session{UserID: "p1", Role: domain.RoleParent, Token: "tok"}
	childSess  = domain.Session{UserID: "k1", Role: domain.RoleChild, Token: "tok"}
	adminSess  = domain.Session{UserID: "a1", Role: domain.RoleAdmin, Token: "tok"}
)
