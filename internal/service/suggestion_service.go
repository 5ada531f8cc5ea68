package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"kidsflow/internal/cache"
	"kidsflow/internal/domain"
	"kidsflow/internal/llm"
	"kidsflow/internal/prompts"
)

// ActingProfileResolver resuelve el perfil de hijo de la sesión.
type ActingProfileResolver interface {
	Resolve(ctx context.Context, sess domain.Session) (*domain.ChildProfile, error)
}

// SuggestionService genera sugerencias de preguntas para el perfil activo.
// Cada usuario tiene su propio cache, que vive hasta el logout.
type SuggestionService struct {
	logger   *zap.Logger
	llm      llm.Client
	model    string
	resolver ActingProfileResolver

	mu     sync.Mutex
	caches map[string]*cache.SuggestionCache
}

func NewSuggestionService(logger *zap.Logger, client llm.Client, model string, resolver ActingProfileResolver) *SuggestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionService{
		logger:   logger,
		llm:      client,
		model:    model,
		resolver: resolver,
		caches:   make(map[string]*cache.SuggestionCache),
	}
}

// Suggestions nunca falla: cualquier error degrada a una lista vacía.
func (s *SuggestionService) Suggestions(ctx context.Context, sess domain.Session) []domain.PromptSuggestion {
	var age *int
	var features []string
	if s.resolver != nil {
		profile, err := s.resolver.Resolve(ctx, sess)
		if err != nil {
			s.logger.Warn("resolve profile for suggestions failed", zap.String("user_id", sess.UserID), zap.Error(err))
		}
		if profile != nil {
			age = profile.ChildAge
			features = profile.SelectedFeatures
		}
	}

	out, err := s.cacheFor(sess.UserID).Get(ctx, age, features, s.model, s.generate)
	if err != nil {
		s.logger.Warn("generate suggestions failed", zap.String("user_id", sess.UserID), zap.Error(err))
		return []domain.PromptSuggestion{}
	}
	return out
}

// ClearUser descarta el cache del usuario.
func (s *SuggestionService) ClearUser(userID string) {
	s.mu.Lock()
	c, ok := s.caches[userID]
	delete(s.caches, userID)
	s.mu.Unlock()
	if ok {
		c.Clear()
	}
}

func (s *SuggestionService) cacheFor(userID string) *cache.SuggestionCache {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.caches[userID]
	if !ok {
		c = cache.NewSuggestionCache(s.logger)
		s.caches[userID] = c
	}
	return c
}

func (s *SuggestionService) generate(ctx context.Context, model string, age *int, features []string) ([]domain.PromptSuggestion, error) {
	if s.llm == nil {
		return nil, llm.ErrNotConfigured
	}
	raw, err := s.llm.Generate(ctx, model, prompts.BuildSuggestionPrompt(age, features))
	if err != nil {
		return nil, fmt.Errorf("llm generate: %w", err)
	}
	return prompts.ParseSuggestions(raw)
}
