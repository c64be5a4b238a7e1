package authguard

import (
	"context"
	"fmt"
	"settlement-service/internal/app/config"
	"settlement-service/internal/app/contracts"
	"settlement-service/internal/app/models"
	"settlement-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

var (
	authGuardInstance contracts.AuthGuard
	onceAuthGuard     sync.Once
)

type jwtAuthGuard struct {
	secret          []byte
	validateTimeout time.Duration
	Log             *zap.Logger
}

// NewJWTAuthGuard verifies HS256 bearer tokens issued by the auth
// collaborator. Verification is local but still timeboxed so the guard
// contract stays uniform with remote validators.
func NewJWTAuthGuard(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.AuthGuard {
	onceAuthGuard.Do(func() {
		timeout := time.Duration(internalConfig.JWT.GuardValidateTimeoutInSeconds) * time.Second
		if timeout <= 0 {
			timeout = 2 * time.Second
		}
		instance := &jwtAuthGuard{
			secret:          []byte(internalConfig.JWT.Secret),
			validateTimeout: timeout,
			Log:             logger,
		}
		authGuardInstance = instance
	})
	return authGuardInstance
}

func (g *jwtAuthGuard) Validate(ctx context.Context, credential string) (*models.Identity, error) {
	if credential == "" {
		return nil, exceptions.ErrTokenMissing(nil)
	}

	ctx, cancel := context.WithTimeout(ctx, g.validateTimeout)
	defer cancel()

	type result struct {
		identity *models.Identity
		err      error
	}
	done := make(chan result, 1)
	go func() {
		identity, err := g.parse(credential)
		done <- result{identity: identity, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, exceptions.ErrTokenInvalidOrExpired(ctx.Err())
	case res := <-done:
		return res.identity, res.err
	}
}

func (g *jwtAuthGuard) parse(credential string) (*models.Identity, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(credential, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, exceptions.ErrTokenInvalidOrExpired(err)
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, exceptions.ErrTokenInvalidOrExpired(fmt.Errorf("missing user_id claim"))
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if role == "" {
		role = "user"
	}

	return &models.Identity{
		UserID: userID,
		Email:  email,
		Role:   role,
	}, nil
}
