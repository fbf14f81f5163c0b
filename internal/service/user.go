package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tiendalabs/tienda/internal/auth"
	"github.com/tiendalabs/tienda/internal/domain"
	"github.com/tiendalabs/tienda/internal/repository"
	"github.com/tiendalabs/tienda/internal/telemetry"
)

// UserService implements domain.UserService with bcrypt passwords and
// database-backed session tokens.
type UserService struct {
	store   repository.Store
	metrics *telemetry.BusinessMetrics
	logger  *slog.Logger
}

func NewUserService(store repository.Store, metrics *telemetry.BusinessMetrics, logger *slog.Logger) *UserService {
	return &UserService{store: store, metrics: metrics, logger: logger}
}

var _ domain.UserService = (*UserService)(nil)

func (s *UserService) Register(ctx context.Context, name, email, password, phone, address, city string) (*domain.User, error) {
	const op = "UserService.Register"

	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	var verr error
	if name == "" {
		verr = domain.AddFieldError(verr, "name", "Name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		verr = domain.AddFieldError(verr, "email", "A valid email address is required")
	}
	if len(password) < auth.MinPasswordLength {
		verr = domain.AddFieldError(verr, "password", "Password must be at least 8 characters")
	}
	if verr != nil {
		return nil, verr
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, domain.Internal(err, op, "hashing password")
	}

	created, err := s.store.CreateUser(ctx, repository.CreateUserParams{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(phone),
		Address:      strings.TrimSpace(address),
		City:         strings.TrimSpace(city),
	})
	if err != nil {
		if repository.IsUniqueViolation(err, "users_email_key") {
			return nil, domain.ErrEmailTaken
		}
		return nil, domain.Internal(err, op, "creating user")
	}

	if s.metrics != nil {
		s.metrics.Signups.Inc()
	}
	s.logger.Info("user registered", "user_id", created.ID)

	user := userFromRepo(created)
	return &user, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	const op = "UserService.Login"

	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			if s.metrics != nil {
				s.metrics.LoginFailed.Inc()
			}
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", domain.Internal(err, op, "loading user")
	}

	if !u.Active || !auth.VerifyPassword(u.PasswordHash, password) {
		if s.metrics != nil {
			s.metrics.LoginFailed.Inc()
		}
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := newSessionToken()
	if err != nil {
		return nil, "", domain.Internal(err, op, "generating session token")
	}

	if _, err := s.store.CreateSession(ctx, repository.CreateSessionParams{
		Token:     token,
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(domain.SessionDuration),
	}); err != nil {
		return nil, "", domain.Internal(err, op, "creating session")
	}

	if s.metrics != nil {
		s.metrics.Logins.Inc()
	}
	s.logger.Info("user logged in", "user_id", u.ID)

	user := userFromRepo(u)
	return &user, token, nil
}

func (s *UserService) Logout(ctx context.Context, token string) error {
	const op = "UserService.Logout"

	if token == "" {
		return nil
	}
	if err := s.store.DeleteSession(ctx, token); err != nil {
		return domain.Internal(err, op, "deleting session")
	}
	return nil
}

func (s *UserService) GetUserBySessionToken(ctx context.Context, token string) (*domain.User, error) {
	const op = "UserService.GetUserBySessionToken"

	if token == "" {
		return nil, domain.ErrSessionNotFound
	}

	session, err := s.store.GetSessionByToken(ctx, token)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, domain.Internal(err, op, "loading session")
	}

	u, err := s.store.GetUserByID(ctx, session.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, domain.Internal(err, op, "loading user")
	}
	if !u.Active {
		return nil, domain.ErrSessionNotFound
	}

	user := userFromRepo(u)
	return &user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	const op = "UserService.GetUser"

	u, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Internal(err, op, "loading user")
	}

	user := userFromRepo(u)
	return &user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, update domain.ProfileUpdate) (*domain.User, error) {
	const op = "UserService.UpdateProfile"

	params := repository.UpdateUserProfileParams{ID: userID}
	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, domain.NewValidationError(op, "name", "Name cannot be empty")
		}
		params.Name = pgtype.Text{String: strings.TrimSpace(*update.Name), Valid: true}
	}
	if update.Phone != nil {
		params.Phone = pgtype.Text{String: strings.TrimSpace(*update.Phone), Valid: true}
	}
	if update.Address != nil {
		params.Address = pgtype.Text{String: strings.TrimSpace(*update.Address), Valid: true}
	}
	if update.City != nil {
		params.City = pgtype.Text{String: strings.TrimSpace(*update.City), Valid: true}
	}

	u, err := s.store.UpdateUserProfile(ctx, params)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Internal(err, op, "updating profile")
	}

	user := userFromRepo(u)
	return &user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	const op = "UserService.ChangePassword"

	u, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return domain.ErrUserNotFound
		}
		return domain.Internal(err, op, "loading user")
	}

	if !auth.VerifyPassword(u.PasswordHash, current) {
		return domain.Unauthorized(op, "Current password is incorrect")
	}
	if len(next) < auth.MinPasswordLength {
		return domain.NewValidationError(op, "password", "Password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return domain.Internal(err, op, "hashing password")
	}

	if err := s.store.UpdateUserPassword(ctx, repository.UpdateUserPasswordParams{
		ID:           userID,
		PasswordHash: hash,
	}); err != nil {
		return domain.Internal(err, op, "updating password")
	}
	return nil
}

// CleanupExpiredSessions removes dead session rows. Run periodically from
// the worker pool.
func (s *UserService) CleanupExpiredSessions(ctx context.Context) error {
	n, err := s.store.DeleteExpiredSessions(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Debug("expired sessions removed", "count", n)
	}
	return nil
}

func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
