package gating

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"kidsflow/internal/domain"
)

// ProfileLister lista los perfiles de hijos del usuario autenticado directo
// del backend; la resolución nunca lee el cache de perfiles.
type ProfileLister interface {
	ListChildProfiles(ctx context.Context, token string) ([]domain.ChildProfile, error)
}

// SettingsReader lee ui.selectedChildId desde los settings del usuario.
type SettingsReader interface {
	SelectedChildID(ctx context.Context, token string) (string, bool, error)
}

// Resolver determina el perfil de hijo que actúa en la sesión.
type Resolver struct {
	logger   *zap.Logger
	profiles ProfileLister
	settings SettingsReader
	flight   singleflight.Group
}

func NewResolver(logger *zap.Logger, profiles ProfileLister, settings SettingsReader) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		logger:   logger,
		profiles: profiles,
		settings: settings,
	}
}

// VirtualProfile es el perfil sintético de un child sin perfil en el backend:
// todos los modos, ninguna feature.
func VirtualProfile(userID string) *domain.ChildProfile {
	p := domain.ChildProfile{
		ID:     domain.VirtualChildProfileID,
		UserID: userID,
		Name:   "Child",
	}.Normalize()
	return &p
}

// Resolve devuelve el perfil normalizado que aplica a la sesión, o nil.
//
// child: el primer perfil propio, o el perfil virtual si no hay ninguno o el
// backend falla. parent: el perfil apuntado por ui.selectedChildId, nil si el
// puntero falta o no coincide. Otros roles: nil.
func (r *Resolver) Resolve(ctx context.Context, sess domain.Session) (*domain.ChildProfile, error) {
	switch sess.Role {
	case domain.RoleChild, domain.RoleParent:
	default:
		return nil, nil
	}

	// El fetch compartido no hereda la cancelación del request que lo inicia.
	fetchCtx := context.WithoutCancel(ctx)
	v, err, shared := r.flight.Do(sess.Role+":"+sess.UserID, func() (interface{}, error) {
		if sess.Role == domain.RoleChild {
			return r.resolveChild(fetchCtx, sess), nil
		}
		return r.resolveParent(fetchCtx, sess), nil
	})
	if shared {
		r.logger.Debug("child profile resolution deduplicated", zap.String("user_id", sess.UserID))
	}
	if err != nil {
		return nil, err
	}
	p, _ := v.(*domain.ChildProfile)
	if p == nil {
		return nil, nil
	}
	out := p.Normalize()
	return &out, nil
}

// Forget descarta una resolución en vuelo del usuario; la próxima llamada
// vuelve a consultar el backend.
func (r *Resolver) Forget(sess domain.Session) {
	r.flight.Forget(sess.Role + ":" + sess.UserID)
}

func (r *Resolver) resolveChild(ctx context.Context, sess domain.Session) *domain.ChildProfile {
	profiles, err := r.profiles.ListChildProfiles(ctx, sess.Token)
	if err != nil {
		r.logger.Warn("load child profile failed, using virtual profile", zap.String("user_id", sess.UserID), zap.Error(err))
		return VirtualProfile(sess.UserID)
	}
	if len(profiles) == 0 {
		r.logger.Debug("child has no profile, using virtual profile", zap.String("user_id", sess.UserID))
		return VirtualProfile(sess.UserID)
	}
	p := profiles[0].Normalize()
	return &p
}

func (r *Resolver) resolveParent(ctx context.Context, sess domain.Session) *domain.ChildProfile {
	if r.settings == nil {
		return nil
	}
	id, ok, err := r.settings.SelectedChildID(ctx, sess.Token)
	if err != nil {
		r.logger.Warn("read selected child failed", zap.String("user_id", sess.UserID), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	profiles, err := r.profiles.ListChildProfiles(ctx, sess.Token)
	if err != nil {
		r.logger.Warn("load child profiles failed", zap.String("user_id", sess.UserID), zap.Error(err))
		return nil
	}
	for _, p := range profiles {
		if p.ID == id {
			n := p.Normalize()
			return &n
		}
	}
	r.logger.Debug("selected child not found among profiles", zap.String("user_id", sess.UserID), zap.String("child_id", id))
	return nil
}
