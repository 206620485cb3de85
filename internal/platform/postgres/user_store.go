package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/platform/logger"
	"github.com/phrazzld/places-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.UserStore.Create
// Returns store.ErrEmailExists if the email is already taken.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	query := `
		INSERT INTO users (id, name, email, hashed_password, image_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Email,
		user.HashedPassword,
		user.ImageRef,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("email already registered", slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	log.Info("user created successfully", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, name, email, hashed_password, image_ref, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return s.getOne(ctx, query, id)
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, name, email, hashed_password, image_ref, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return s.getOne(ctx, query, domain.NormalizeEmail(email))
}

func (s *PostgresUserStore) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user domain.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.HashedPassword,
		&user.ImageRef,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found")
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	places, err := s.placeIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Places = places

	return &user, nil
}

func (s *PostgresUserStore) placeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT place_id
		FROM user_places
		WHERE user_id = $1
		ORDER BY added_at, place_id
	`, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan place id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return ids, nil
}

// List implements store.UserStore.List
func (s *PostgresUserStore) List(ctx context.Context) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, hashed_password, image_ref, created_at, updated_at
		FROM users
		ORDER BY created_at, id
	`)
	if err != nil {
		log.Error("failed to list users", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	users := []*domain.User{}
	byID := make(map[uuid.UUID]*domain.User)
	for rows.Next() {
		user := &domain.User{Places: []uuid.UUID{}}
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.HashedPassword,
			&user.ImageRef,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
		byID[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	links, err := s.db.QueryContext(ctx, `
		SELECT user_id, place_id
		FROM user_places
		ORDER BY added_at, place_id
	`)
	if err != nil {
		log.Error("failed to list place sets", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = links.Close() }()

	for links.Next() {
		var userID, placeID uuid.UUID
		if err := links.Scan(&userID, &placeID); err != nil {
			return nil, fmt.Errorf("failed to scan place set entry: %w", err)
		}
		if user, ok := byID[userID]; ok {
			user.Places = append(user.Places, placeID)
		}
	}
	if err := links.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("users listed", slog.Int("count", len(users)))
	return users, nil
}

// AddPlace implements store.UserStore.AddPlace
// The owner row is updated first so concurrent writers to the same set queue on its row lock.
func (s *PostgresUserStore) AddPlace(ctx context.Context, userID, placeID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := time.Now().UTC()

	if err := s.touch(ctx, userID, now); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_places (user_id, place_id, added_at)
		VALUES ($1, $2, $3)
	`, userID, placeID, now)
	if err != nil {
		log.Error("failed to add place to user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("place_id", placeID.String()))
		return MapError(err)
	}

	log.Debug("place added to user",
		slog.String("user_id", userID.String()),
		slog.String("place_id", placeID.String()))
	return nil
}

// RemovePlace implements store.UserStore.RemovePlace
func (s *PostgresUserStore) RemovePlace(ctx context.Context, userID, placeID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.touch(ctx, userID, time.Now().UTC()); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM user_places
		WHERE user_id = $1 AND place_id = $2
	`, userID, placeID)
	if err != nil {
		log.Error("failed to remove place from user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("place_id", placeID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, fmt.Errorf("%w: place %s not in user's set", store.ErrNotFound, placeID)); err != nil {
		log.Warn("place missing from user's set",
			slog.String("user_id", userID.String()),
			slog.String("place_id", placeID.String()))
		return err
	}

	log.Debug("place removed from user",
		slog.String("user_id", userID.String()),
		slog.String("place_id", placeID.String()))
	return nil
}

func (s *PostgresUserStore) touch(ctx context.Context, userID uuid.UUID, at time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET updated_at = $2
		WHERE id = $1
	`, userID, at)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}
