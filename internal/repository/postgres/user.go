package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/St1cky1/todo-service/internal/entity"
	"github.com/St1cky1/todo-service/internal/infrastructure/client"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `id, username, email, password_hash, avatar, created_at, updated_at`

type UserRepository struct {
	db *client.PostgresClient
}

func NewUserRepository(db *client.PostgresClient) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// создаем пользователя
func (r *UserRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	pool, err := r.db.Pool(ctx)
	if err != nil {
		return nil, err
	}

	query := `
	INSERT INTO users (id, username, email, password_hash, avatar, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING ` + userColumns

	created, err := scanUser(pool.QueryRow(ctx, query,
		uuid.New(),
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Avatar,
		user.CreatedAt,
		user.UpdatedAt,
	))
	if err != nil {
		return nil, translateUserError("create user", err)
	}

	return created, nil
}

// получаем данные по id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, entity.ErrUserNotFound
	}
	return r.getBy(ctx, "id", uid)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, "email", email)
}

// column приходит только из кода репозитория
func (r *UserRepository) getBy(ctx context.Context, column string, value interface{}) (*entity.User, error) {
	pool, err := r.db.Pool(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`

	user, err := scanUser(pool.QueryRow(ctx, query, value))
	if err != nil {
		return nil, translateUserError("get user by "+column, err)
	}

	return user, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		user entity.User
		id   uuid.UUID
	)

	err := row.Scan(
		&id,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Avatar,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.ID = id.String()
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()

	return &user, nil
}

func translateUserError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.ErrUserNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return entity.ErrUserExists
	}

	return fmt.Errorf("%s: %w", op, err)
}
