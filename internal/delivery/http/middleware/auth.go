package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/LavaJover/shvark-settlement-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actorKey = "actor"

// Claims выпускает внешний сервис авторизации. Subject - идентификатор актора.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type TokenParser struct {
	secret []byte
	opts   []jwt.ParserOption
}

func NewTokenParser(secret, issuer string) *TokenParser {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &TokenParser{secret: []byte(secret), opts: opts}
}

// Parse validates the token and returns the actor it was issued for.
func (p *TokenParser) Parse(tokenString string) (domain.Actor, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	}, p.opts...)
	if err != nil {
		return domain.Actor{}, err
	}
	actor := domain.Actor{
		ID:   claims.Subject,
		Role: domain.ActorRole(strings.ToUpper(claims.Role)),
	}
	if err := actor.Validate(); err != nil {
		return domain.Actor{}, err
	}
	return actor, nil
}

// Issue подписывает токен, используется системными клиентами и тестами.
func (p *TokenParser) Issue(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

func JWTAuth(parser *TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "bearer token is required"})
			return
		}
		actor, err := parser.Parse(token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: msg})
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireRoles пропускает только перечисленные роли.
func RequireRoles(roles ...domain.ActorRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthenticated"})
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorResponse{Error: "role " + string(actor.Role) + " is not allowed"})
	}
}

func ActorFromContext(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}
