package utils

import (
	"fmt"
	"os"

	"github.com/dgrijalva/jwt-go"
)

// JwtCustomClaim mirrors the tokens minted by the identity service.
// This service only validates; it never issues tokens.
type JwtCustomClaim struct {
	UserId    string   `json:"user_id"`
	OrgId     string   `json:"org_id"`
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	OutletIds []string `json:"outlet_ids"`
	jwt.StandardClaims
}

var jwtSecret = []byte(getJwtSecret())

func getJwtSecret() string {
	secret := os.Getenv("API_SECRET")
	if secret == "" {
		return "FinSight-Secret"
	}
	return secret
}

func JwtValidate(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &JwtCustomClaim{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("there's a problem with the signing method")
		}
		return jwtSecret, nil
	})
}
