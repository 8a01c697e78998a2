package service

import (
	"context"
	"fmt"
	"time"

	"hotelbot/internal/domain"
	"hotelbot/internal/events"
	"hotelbot/internal/hotelapi"
	"hotelbot/internal/models"
	"hotelbot/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

type AuthService struct {
	api      *hotelapi.API
	store    *session.Store
	eventBus domain.EventPublisher
	validate *validator.Validate
	logger   *zerolog.Logger
}

func NewAuthService(api *hotelapi.API, store *session.Store, eventBus domain.EventPublisher, logger *zerolog.Logger) *AuthService {
	return &AuthService{
		api:      api,
		store:    store,
		eventBus: eventBus,
		validate: validator.New(),
		logger:   logger,
	}
}

// Login обменивает учетные данные на пару токенов и подтягивает профиль.
func (s *AuthService) Login(ctx context.Context, username, password string) error {
	pair, err := s.api.Login(ctx, hotelapi.Credentials{Username: username, Password: password})
	if err != nil {
		return err
	}

	s.store.SetTokens(ctx, pair.Access, pair.Refresh)

	// Профиль не критичен для входа, но нужен для приветствия
	profile, err := s.api.Profile(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to fetch profile after login")
	} else {
		s.store.SetProfile(&profile)
	}

	if s.eventBus != nil {
		s.eventBus.PublishJSON(events.EventLoggedIn, events.SessionEventPayload{Username: username})
	}

	s.logger.Info().Str("username", username).Msg("logged in")
	return nil
}

// Register создает аккаунт и сразу входит под ним.
func (s *AuthService) Register(ctx context.Context, form domain.RegisterForm) error {
	if form.Password != form.Password2 {
		return ErrPasswordMismatch
	}

	req := hotelapi.RegisterRequest{
		Username:    form.Username,
		Password:    form.Password,
		Password2:   form.Password2,
		Email:       form.Email,
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		PhoneNumber: form.PhoneNumber,
	}
	if err := validateStruct(s.validate, req); err != nil {
		return err
	}

	if err := s.api.Register(ctx, req); err != nil {
		return err
	}

	return s.Login(ctx, form.Username, form.Password)
}

// Logout сбрасывает сессию локально; серверного endpoint выхода нет.
func (s *AuthService) Logout(ctx context.Context) error {
	sess := s.store.Get()
	s.store.Clear(ctx)

	if s.eventBus != nil {
		username := ""
		if sess.Profile != nil {
			username = sess.Profile.Username
		}
		s.eventBus.PublishJSON(events.EventLoggedOut, events.SessionEventPayload{Username: username})
	}

	s.logger.Info().Msg("logged out")
	return nil
}

func (s *AuthService) IsAuthenticated() bool {
	return s.store.Get().Authenticated()
}

// Profile возвращает профиль из кеша сессии или запрашивает его у API.
func (s *AuthService) Profile(ctx context.Context) (models.UserProfile, error) {
	sess := s.store.Get()
	if !sess.Authenticated() {
		return models.UserProfile{}, ErrNotAuthenticated
	}
	if sess.Profile != nil {
		return *sess.Profile, nil
	}

	profile, err := s.api.Profile(ctx)
	if err != nil {
		return models.UserProfile{}, err
	}
	s.store.SetProfile(&profile)
	return profile, nil
}

// RestoreSession поднимает токены из хранилища после рестарта. Если refresh
// токен уже истек, сессия сбрасывается и пользователю придется войти заново.
func (s *AuthService) RestoreSession(ctx context.Context) error {
	if err := s.store.Restore(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	sess := s.store.Get()
	if !sess.Authenticated() {
		return nil
	}

	if sess.RefreshToken != "" && tokenExpired(sess.RefreshToken) {
		s.logger.Info().Msg("persisted refresh token expired, clearing session")
		s.store.Clear(ctx)
		return nil
	}

	// Профиль в хранилище не живет, восстанавливаем его отдельным запросом
	profile, err := s.api.Profile(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to restore profile")
		return nil
	}
	s.store.SetProfile(&profile)
	return nil
}

// tokenExpired заглядывает в exp без проверки подписи: ключа подписи у
// клиента нет, а решение здесь чисто оптимизационное.
func tokenExpired(token string) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
