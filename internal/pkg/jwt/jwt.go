package jwt

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"

	sseTokenTTL = 5 * time.Minute
)

// Claims is the decoded session.
type Claims struct {
	TokenID    string
	AccountID  string
	EmployeeID string
	Email      string
	Role       user.Role
	ExpiresAt  int64
}

type Service interface {
	GenerateAccessToken(accountID, employeeID, email string, role user.Role) (token string, expiresAt int64, err error)
	GenerateSSEToken(employeeID string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (employeeID string, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	tokenAuth       *jwtauth.JWTAuth
	accessExpiresIn time.Duration
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	expDuration, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration %q: %w", accessTokenExpirationTime, err)
	}
	return &JWTService{
		tokenAuth:       jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		accessExpiresIn: expDuration,
	}, nil
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(accountID, employeeID, email string, role user.Role) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessExpiresIn).Unix()

	claims := map[string]interface{}{
		"jti":         uuid.NewString(),
		"account_id":  accountID,
		"employee_id": employeeID,
		"email":       email,
		"role":        string(role),
		"type":        TokenTypeAccess,
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(employeeID string) (token string, expiresIn int, err error) {
	expiresAt := time.Now().Add(sseTokenTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"type":        TokenTypeSSE,
		"exp":         expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, int(sseTokenTTL.Seconds()), nil
}

// ValidateSSEToken validates an SSE token and returns the employee ID
func (j *JWTService) ValidateSSEToken(tokenString string) (employeeID string, err error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeSSE {
		return "", jwt.ErrInvalidJWT()
	}

	val, ok := token.Get("employee_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	employeeID, ok = val.(string)
	if !ok || employeeID == "" {
		return "", jwt.ErrInvalidJWT()
	}

	return employeeID, nil
}

// ClaimsFromMap reads a verified access token's claims.
func ClaimsFromMap(m map[string]interface{}) (Claims, bool) {
	if t, _ := m["type"].(string); t != TokenTypeAccess {
		return Claims{}, false
	}
	var c Claims
	c.TokenID, _ = m["jti"].(string)
	c.AccountID, _ = m["account_id"].(string)
	c.EmployeeID, _ = m["employee_id"].(string)
	c.Email, _ = m["email"].(string)
	role, _ := m["role"].(string)
	c.Role = user.Role(role)

	switch exp := m["exp"].(type) {
	case time.Time:
		c.ExpiresAt = exp.Unix()
	case float64:
		c.ExpiresAt = int64(exp)
	case int64:
		c.ExpiresAt = exp
	}

	if c.AccountID == "" || !c.Role.Valid() {
		return Claims{}, false
	}
	return c, true
}

// Actor converts claims into the service-level caller.
func (c Claims) Actor() user.Actor {
	return user.Actor{
		AccountID:  c.AccountID,
		EmployeeID: c.EmployeeID,
		Email:      c.Email,
		Role:       c.Role,
	}
}
