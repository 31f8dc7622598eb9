package authtoken

import (
	"github.com/golang-jwt/jwt/v5"
)

// Identity is what the identity provider attests about the caller. The
// subject id is the stable key users are stored under; email and name
// are optional profile fields refreshed on every authenticated write.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// IdentityClaims represents the claims carried by the provider's ID tokens
type IdentityClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates identity-provider bearer tokens
type Verifier struct {
	signingKey []byte
}

// NewVerifier creates a Verifier for tokens signed with the given key
func NewVerifier(signingKey string) *Verifier {
	return &Verifier{signingKey: []byte(signingKey)}
}

// Verify validates and parses the token, returning the caller's identity
func (v *Verifier) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		return v.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}

	name := claims.Name
	if name == "" {
		name = "User"
	}

	return &Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    name,
	}, nil
}
