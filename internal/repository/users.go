package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/manojmanivannan/MealPlanner/internal/models"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, user models.User) (models.User, error)
}

type SQLiteUserRepository struct {
	database DB
}

func NewUserRepository(database DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{database: database}
}

func (repository *SQLiteUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := repository.database.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = ?", id,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("finding user by id: %w", err)
	}
	return user, nil
}

func (repository *SQLiteUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := repository.database.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = ?", email,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("finding user by email: %w", err)
	}
	return user, nil
}

func (repository *SQLiteUserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return models.User{}, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}
