package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/manojmanivannan/MealPlanner/internal/config"
	"github.com/manojmanivannan/MealPlanner/internal/models"
	"github.com/manojmanivannan/MealPlanner/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const minPasswordLength = 8

type AuthService struct {
	db            *sql.DB
	users         repository.UserRepository
	secret        []byte
	tokenTTL      time.Duration
	demoUserEmail string
}

func NewAuthService(db *sql.DB, cfg config.Config) *AuthService {
	return &AuthService{
		db:            db,
		users:         repository.NewUserRepository(db),
		secret:        []byte(cfg.JWTSecret),
		tokenTTL:      time.Duration(cfg.TokenTTLMinutes) * time.Minute,
		demoUserEmail: cfg.DemoUserEmail,
	}
}

// Signup registers a new user. If a demo user exists, its ingredients and
// recipes are cloned to the new account inside the same transaction, with
// availability reset on every cloned ingredient.
func (service *AuthService) Signup(ctx context.Context, email, password string) (models.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return models.User{}, fmt.Errorf("%w: malformed email address", ErrValidation)
	}
	if len(password) < minPasswordLength {
		return models.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	if _, err := service.users.FindByEmail(ctx, email); err == nil {
		return models.User{}, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("checking email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hashing password: %w", err)
	}

	tx, err := service.db.BeginTx(ctx, nil)
	if err != nil {
		return models.User{}, fmt.Errorf("beginning signup transaction: %w", err)
	}
	defer tx.Rollback()

	userRepo := repository.NewUserRepository(tx)
	user, err := userRepo.Create(ctx, models.User{Email: email, PasswordHash: string(hash)})
	if err != nil {
		return models.User{}, err
	}

	if err := service.cloneDemoData(ctx, tx, user.ID); err != nil {
		return models.User{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.User{}, fmt.Errorf("committing signup: %w", err)
	}

	slog.Info("registered new user", "id", user.ID, "email", user.Email)
	return user, nil
}

func (service *AuthService) cloneDemoData(ctx context.Context, tx *sql.Tx, userID string) error {
	userRepo := repository.NewUserRepository(tx)
	demo, err := userRepo.FindByEmail(ctx, service.demoUserEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("looking up demo user: %w", err)
	}
	if demo.ID == userID {
		return nil
	}

	ingredientRepo := repository.NewIngredientRepository(tx)
	demoIngredients, err := ingredientRepo.FindOwnedBy(ctx, demo.ID)
	if err != nil {
		return err
	}
	for _, ingredient := range demoIngredients {
		ingredient.ID = ""
		ingredient.Owner = models.OwnedBy(userID)
		ingredient.Available = false
		ingredient.LastAvailable = nil
		if _, err := ingredientRepo.Create(ctx, ingredient); err != nil {
			return fmt.Errorf("cloning demo ingredient %q: %w", ingredient.Name, err)
		}
	}

	recipeRepo := repository.NewRecipeRepository(tx)
	demoRecipes, err := recipeRepo.FindOwnedBy(ctx, demo.ID)
	if err != nil {
		return err
	}
	for _, recipe := range demoRecipes {
		recipe.ID = ""
		recipe.Owner = models.OwnedBy(userID)
		if _, err := recipeRepo.Create(ctx, recipe); err != nil {
			return fmt.Errorf("cloning demo recipe %q: %w", recipe.Name, err)
		}
	}

	slog.Info("cloned demo data", "user_id", userID,
		"ingredients", len(demoIngredients), "recipes", len(demoRecipes))
	return nil
}

// Login verifies credentials and returns a signed access token.
func (service *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := service.users.FindByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(service.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a bearer token and returns the subject user id.
func (service *AuthService) ParseToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// CurrentUser resolves a validated token subject to the stored user.
func (service *AuthService) CurrentUser(ctx context.Context, tokenString string) (models.User, error) {
	userID, err := service.ParseToken(tokenString)
	if err != nil {
		return models.User{}, err
	}
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, ErrInvalidToken
	}
	return user, nil
}
