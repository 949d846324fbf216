package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/mentora/backend/core"
)

// appJWTConfig is the default JWT auth middleware config; the signing key is
// filled in from the app config on server setup.
var appJWTConfig = middleware.JWTConfig{
	SigningMethod: middleware.AlgorithmHS256,
	ContextKey:    "actorToken",
	Claims:        new(Claims),
}

// Claims represents the authorization claims transmitted via a JWT. Tokens are
// issued by the identity service; this API only verifies them.
type Claims struct {
	jwt.StandardClaims
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	IsMentor bool   `json:"is_mentor,omitempty"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
}

// GetActorClaims builds fresh Claims for the given actor.
func GetActorClaims(conf *core.Config, actor core.Actor, mentor, admin bool) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   actor.ID,
			Audience:  "Mentora",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:     actor.Name,
		Email:    actor.Email,
		IsMentor: mentor,
		IsAdmin:  admin,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextActor identifies the authenticated caller from their claims.
func getContextActor(ctx echo.Context) (core.Actor, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return core.Actor{}, err
	}
	return core.Actor{ID: claims.Subject, Name: claims.Name, Email: claims.Email}, nil
}
