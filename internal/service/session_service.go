package service

import (
	"go.uber.org/zap"

	"kidsflow/internal/domain"
)

// SessionForgetter descarta el estado de resolución de la sesión.
type SessionForgetter interface {
	Forget(sess domain.Session)
}

// SessionService maneja el cierre de sesión del lado del BFF.
type SessionService struct {
	logger      *zap.Logger
	suggestions *SuggestionService
	resolver    SessionForgetter
}

func NewSessionService(logger *zap.Logger, suggestions *SuggestionService, resolver SessionForgetter) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{logger: logger, suggestions: suggestions, resolver: resolver}
}

// Logout limpia el cache de sugerencias y la resolución de perfil del usuario.
func (s *SessionService) Logout(sess domain.Session) {
	if s.suggestions != nil {
		s.suggestions.ClearUser(sess.UserID)
	}
	if s.resolver != nil {
		s.resolver.Forget(sess)
	}
	s.logger.Info("session closed", zap.String("user_id", sess.UserID))
}
