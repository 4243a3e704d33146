package casdoor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"

	"github.com/matricula-cloud/matricula-service/internal/models"
	"github.com/matricula-cloud/matricula-service/internal/repositories"
)

// CasdoorConfig holds the configuration for Casdoor connection
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

// AuthCasdoor implements repositories.AuthRepository against Casdoor
type AuthCasdoor struct {
	client *casdoorsdk.Client
	oauth  *oauth2.Config
	redis  *redis.Client
	config CasdoorConfig

	// Cache settings
	cachePrefix string
	cacheTTL    time.Duration
}

func NewAuthCasdoor(config CasdoorConfig, redisClient *redis.Client) repositories.AuthRepository {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	oauthConfig := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  fmt.Sprintf("%s/login/oauth/authorize", config.Endpoint),
			TokenURL: fmt.Sprintf("%s/api/login/oauth/access_token", config.Endpoint),
		},
	}

	return &AuthCasdoor{
		client:      client,
		oauth:       oauthConfig,
		redis:       redisClient,
		config:      config,
		cachePrefix: "user:",
		cacheTTL:    15 * time.Minute,
	}
}

// ===== CACHE METHODS =====

func (a *AuthCasdoor) getCacheKey(key string) string {
	return fmt.Sprintf("%s%s", a.cachePrefix, key)
}

func (a *AuthCasdoor) getUserFromCache(ctx context.Context, key string) (*models.User, error) {
	if a.redis == nil {
		return nil, nil // Cache not available
	}

	data, err := a.redis.Get(ctx, a.getCacheKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Not found in cache
		}
		return nil, fmt.Errorf("failed to get from cache: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached user: %w", err)
	}

	return &user, nil
}

func (a *AuthCasdoor) setUserCache(ctx context.Context, key string, user *models.User) error {
	if a.redis == nil {
		return nil // Cache not available
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user for cache: %w", err)
	}

	return a.redis.Set(ctx, a.getCacheKey(key), data, a.cacheTTL).Err()
}

// ===== CONVERSION METHODS =====

func (a *AuthCasdoor) convertCasdoorUserToModel(casdoorUser *casdoorsdk.User) *models.User {
	if casdoorUser == nil {
		return nil
	}

	var createdAt, updatedAt time.Time
	if casdoorUser.CreatedTime != "" {
		createdAt, _ = time.Parse(time.RFC3339, casdoorUser.CreatedTime)
	}
	if casdoorUser.UpdatedTime != "" {
		updatedAt, _ = time.Parse(time.RFC3339, casdoorUser.UpdatedTime)
	}

	return &models.User{
		ID:            casdoorUser.Id,
		FullName:      casdoorUser.DisplayName,
		Email:         casdoorUser.Email,
		Role:          a.convertCasdoorRolesToModel(casdoorUser),
		AvatarURL:     &casdoorUser.Avatar,
		EmailVerified: casdoorUser.EmailVerified,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}

func (a *AuthCasdoor) convertCasdoorRolesToModel(casdoorUser *casdoorsdk.User) models.UserRole {
	if casdoorUser.IsAdmin {
		return models.RoleAdmin
	}

	for _, casdoorRole := range casdoorUser.Roles {
		switch strings.ToLower(casdoorRole.Name) {
		case "admin", "administrator":
			return models.RoleAdmin
		case "teacher", "instructor", "profesor":
			return models.RoleTeacher
		case "secretary", "secretaria":
			return models.RoleSecretary
		}
	}

	// Default role
	return models.RoleSecretary
}

// ===== AUTH OPERATIONS =====

// SignIn exchanges credentials for a provider session using the
// resource-owner password grant
func (a *AuthCasdoor) SignIn(ctx context.Context, email, password string) (*repositories.Session, error) {
	token, err := a.oauth.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign in failed: %w", err)
	}

	claims, err := a.client.ParseJwtToken(token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}

	user := a.convertCasdoorUserToModel(&claims.User)
	if user != nil {
		_ = a.setUserCache(ctx, user.ID, user)
	}

	return &repositories.Session{
		User:        user,
		AccessToken: token.AccessToken,
	}, nil
}

// SignOut invalidates cached identity for the token. Casdoor access
// tokens are self-contained JWTs, so there is nothing to revoke
// provider-side; they expire on their own.
func (a *AuthCasdoor) SignOut(ctx context.Context, token string) error {
	claims, err := a.client.ParseJwtToken(token)
	if err != nil {
		// An unparseable token has no cached identity to clear
		return nil
	}

	if a.redis != nil {
		_ = a.redis.Del(ctx, a.getCacheKey(claims.User.Id)).Err()
	}
	return nil
}

// GetSession returns the live session for a token, or nil when the
// token no longer maps to one
func (a *AuthCasdoor) GetSession(ctx context.Context, token string) (*repositories.Session, error) {
	claims, err := a.client.ParseJwtToken(token)
	if err != nil {
		return nil, nil // Expired or invalid token is not an error
	}

	user := a.convertCasdoorUserToModel(&claims.User)
	return &repositories.Session{
		User:        user,
		AccessToken: token,
	}, nil
}

// GetUserByID resolves a provider identity, with caching
func (a *AuthCasdoor) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if cached, err := a.getUserFromCache(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	casdoorUser, err := a.client.GetUserByUserId(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user from casdoor: %w", err)
	}
	if casdoorUser == nil {
		return nil, fmt.Errorf("user not found: %s", id)
	}

	user := a.convertCasdoorUserToModel(casdoorUser)
	_ = a.setUserCache(ctx, id, user)

	return user, nil
}
