package session

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/exceptions"
)

type sessionService struct {
	redisRepository contracts.RedisRepository
}

func NewSessionService(redisRepository contracts.RedisRepository) contracts.SessionService {
	return &sessionService{
		redisRepository: redisRepository,
	}
}

func (s *sessionService) GetSessionData(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.redisRepository.GetSession(ctx, sessionID)
	if err != nil {
		return nil, exceptions.ErrInvalidSession(err)
	}
	return session, nil
}
