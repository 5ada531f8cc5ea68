package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"kidsflow/internal/domain"
)

var (
	ErrOffline          = errors.New("cannot create child profile: backend is offline")
	ErrNotAuthenticated = errors.New("cannot create child profile: authentication token not found")
	ErrProfileNotFound  = errors.New("child profile not found")
)

const (
	profileCachePrefix = "child-profiles-cache:"
	profileSyncPrefix  = "child-profiles-synced:"
)

// ProfileBackend es el subconjunto del backend que usa el cache de perfiles.
type ProfileBackend interface {
	ListChildProfiles(ctx context.Context, token string) ([]domain.ChildProfile, error)
	CreateChildProfile(ctx context.Context, token string, form domain.ChildProfileForm) (domain.ChildProfile, error)
	UpdateChildProfile(ctx context.Context, token, id string, form domain.ChildProfileForm) (domain.ChildProfile, error)
	DeleteChildProfile(ctx context.Context, token, id string) error
}

// SelectionReader lee el puntero al hijo seleccionado desde los settings.
type SelectionReader interface {
	SelectedChildID(ctx context.Context, token string) (string, bool, error)
}

// ProfileSync mantiene un cache por usuario de los perfiles de hijos,
// sincronizado con el backend y con fallback local para edición y borrado.
type ProfileSync struct {
	logger   *zap.Logger
	store    Store
	backend  ProfileBackend
	settings SelectionReader
	online   atomic.Bool
	flight   singleflight.Group
	now      func() time.Time

	// generation invalida las marcas de sincronización escritas antes de
	// una reconexión.
	generation atomic.Uint64
}

func NewProfileSync(logger *zap.Logger, store Store, backend ProfileBackend, settings SelectionReader) *ProfileSync {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = NewMemoryStore()
	}
	s := &ProfileSync{
		logger:   logger,
		store:    store,
		backend:  backend,
		settings: settings,
		now:      time.Now,
	}
	s.online.Store(true)
	return s
}

// SetOnline actualiza la conectividad con el backend. Al pasar de offline a
// online marca los caches como vencidos para reconciliar las ediciones locales.
func (s *ProfileSync) SetOnline(online bool) {
	if was := s.online.Swap(online); online && !was {
		s.MarkStale()
		s.logger.Info("backend reachable again, child profile caches marked stale")
	}
}

// MarkStale hace que la próxima lectura de cada usuario vuelva al backend.
func (s *ProfileSync) MarkStale() {
	s.generation.Add(1)
}

func (s *ProfileSync) syncMark() string {
	return strconv.FormatUint(s.generation.Load(), 10)
}

// Online indica si el backend se considera alcanzable.
func (s *ProfileSync) Online() bool {
	return s.online.Load()
}

func cacheKey(userID string) string { return profileCachePrefix + userID }
func syncKey(userID string) string  { return profileSyncPrefix + userID }

// ValidateAndClean descarta un payload corrupto del cache del usuario.
func (s *ProfileSync) ValidateAndClean(ctx context.Context, userID string) {
	if _, ok := s.readCache(ctx, userID); !ok {
		s.logger.Warn("clearing corrupted child profile cache", zap.String("user_id", userID))
		s.ClearCache(ctx, userID)
	}
}

// SyncFromBackend trae los perfiles del backend y los guarda en cache. Ante
// cualquier falla devuelve el contenido del cache. Las llamadas concurrentes
// del mismo usuario comparten un solo request.
func (s *ProfileSync) SyncFromBackend(ctx context.Context, sess domain.Session) ([]domain.ChildProfile, error) {
	if !s.Online() || strings.TrimSpace(sess.Token) == "" {
		return s.fromCache(ctx, sess.UserID), nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	v, err, shared := s.flight.Do(sess.UserID, func() (interface{}, error) {
		mark := s.syncMark()
		profiles, err := s.backend.ListChildProfiles(fetchCtx, sess.Token)
		if err != nil {
			return nil, err
		}
		if profiles == nil {
			profiles = []domain.ChildProfile{}
		}
		s.writeCache(fetchCtx, sess.UserID, profiles)
		if err := s.store.Set(fetchCtx, syncKey(sess.UserID), mark); err != nil {
			s.logger.Warn("mark child profiles synced failed", zap.Error(err))
		}
		return profiles, nil
	})
	if shared {
		s.logger.Debug("child profile sync deduplicated", zap.String("user_id", sess.UserID))
	}
	if err != nil {
		s.logger.Warn("sync child profiles from backend failed", zap.String("user_id", sess.UserID), zap.Error(err))
		return s.fromCache(ctx, sess.UserID), nil
	}
	return cloneProfiles(v.([]domain.ChildProfile)), nil
}

// ListProfiles devuelve el cache si ya se sincronizó desde la última
// reconexión; si no, sincroniza.
func (s *ProfileSync) ListProfiles(ctx context.Context, sess domain.Session) ([]domain.ChildProfile, error) {
	_, cached, err := s.store.Get(ctx, cacheKey(sess.UserID))
	if err != nil {
		s.logger.Warn("read child profile cache failed", zap.Error(err))
	}
	mark, synced, err := s.store.Get(ctx, syncKey(sess.UserID))
	if err != nil {
		s.logger.Warn("read child profile sync flag failed", zap.Error(err))
	}
	if !cached || !synced || mark != s.syncMark() {
		return s.SyncFromBackend(ctx, sess)
	}
	return s.fromCache(ctx, sess.UserID), nil
}

// CreateProfile crea el perfil en el backend. No hay fallback local: la
// identidad del perfil la emite el backend.
func (s *ProfileSync) CreateProfile(ctx context.Context, sess domain.Session, form domain.ChildProfileForm) (domain.ChildProfile, error) {
	if !s.Online() {
		return domain.ChildProfile{}, ErrOffline
	}
	if strings.TrimSpace(sess.Token) == "" {
		return domain.ChildProfile{}, ErrNotAuthenticated
	}

	profile, err := s.backend.CreateChildProfile(ctx, sess.Token, form)
	if err != nil {
		s.logger.Error("create child profile on backend failed", zap.String("user_id", sess.UserID), zap.Error(err))
		return domain.ChildProfile{}, fmt.Errorf("create child profile: %w", err)
	}

	profiles := s.fromCache(ctx, sess.UserID)
	profiles = append(profiles, profile)
	s.writeCache(ctx, sess.UserID, profiles)
	return profile, nil
}

// UpdateProfile intenta el backend primero y cae a una edición local si el
// backend no está disponible o falla.
func (s *ProfileSync) UpdateProfile(ctx context.Context, sess domain.Session, id string, form domain.ChildProfileForm) (domain.ChildProfile, error) {
	if s.Online() && strings.TrimSpace(sess.Token) != "" {
		updated, err := s.backend.UpdateChildProfile(ctx, sess.Token, id, form)
		if err == nil {
			profiles := s.fromCache(ctx, sess.UserID)
			for i := range profiles {
				if profiles[i].ID == id {
					profiles[i] = updated
					s.writeCache(ctx, sess.UserID, profiles)
					break
				}
			}
			return updated, nil
		}
		s.logger.Warn("update child profile on backend failed, updating locally", zap.String("profile_id", id), zap.Error(err))
	}

	profiles := s.fromCache(ctx, sess.UserID)
	for i := range profiles {
		if profiles[i].ID == id {
			profiles[i] = profiles[i].ApplyForm(form, s.now().Unix())
			s.writeCache(ctx, sess.UserID, profiles)
			return profiles[i], nil
		}
	}
	return domain.ChildProfile{}, ErrProfileNotFound
}

// DeleteProfile borra en el backend si puede y siempre del cache local.
func (s *ProfileSync) DeleteProfile(ctx context.Context, sess domain.Session, id string) error {
	if s.Online() && strings.TrimSpace(sess.Token) != "" {
		if err := s.backend.DeleteChildProfile(ctx, sess.Token, id); err != nil {
			s.logger.Warn("delete child profile on backend failed, deleting locally", zap.String("profile_id", id), zap.Error(err))
		}
	}

	profiles := s.fromCache(ctx, sess.UserID)
	kept := profiles[:0]
	for _, p := range profiles {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.writeCache(ctx, sess.UserID, kept)
	return nil
}

// CurrentChild devuelve el perfil apuntado por ui.selectedChildId, o nil.
// El puntero se lee siempre de los settings, nunca del cache.
func (s *ProfileSync) CurrentChild(ctx context.Context, sess domain.Session) (*domain.ChildProfile, error) {
	if sess.UserID == "" || s.settings == nil {
		return nil, nil
	}
	id, ok, err := s.settings.SelectedChildID(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	profiles, err := s.ListProfiles(ctx, sess)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

// ClearCache borra el cache y la marca de sincronización del usuario.
func (s *ProfileSync) ClearCache(ctx context.Context, userID string) {
	if err := s.store.Delete(ctx, cacheKey(userID), syncKey(userID)); err != nil {
		s.logger.Warn("clear child profile cache failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *ProfileSync) fromCache(ctx context.Context, userID string) []domain.ChildProfile {
	profiles, ok := s.readCache(ctx, userID)
	if !ok {
		s.logger.Warn("child profile cache contained invalid data, discarding", zap.String("user_id", userID))
		s.ClearCache(ctx, userID)
		return []domain.ChildProfile{}
	}
	return profiles
}

// readCache devuelve false solo si el payload existe y no es un arreglo válido.
func (s *ProfileSync) readCache(ctx context.Context, userID string) ([]domain.ChildProfile, bool) {
	raw, found, err := s.store.Get(ctx, cacheKey(userID))
	if err != nil {
		s.logger.Warn("read child profile cache failed", zap.Error(err))
		return []domain.ChildProfile{}, true
	}
	if !found {
		return []domain.ChildProfile{}, true
	}
	trimmed := bytes.TrimSpace([]byte(raw))
	if !bytes.HasPrefix(trimmed, []byte("[")) {
		return nil, false
	}
	var profiles []domain.ChildProfile
	if err := json.Unmarshal(trimmed, &profiles); err != nil {
		return nil, false
	}
	if profiles == nil {
		profiles = []domain.ChildProfile{}
	}
	return profiles, true
}

func (s *ProfileSync) writeCache(ctx context.Context, userID string, profiles []domain.ChildProfile) {
	payload, err := json.Marshal(profiles)
	if err != nil {
		s.logger.Warn("marshal child profile cache failed", zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, cacheKey(userID), string(payload)); err != nil {
		s.logger.Warn("save child profile cache failed", zap.Error(err))
	}
}

func cloneProfiles(in []domain.ChildProfile) []domain.ChildProfile {
	out := make([]domain.ChildProfile, len(in))
	copy(out, in)
	return out
}
