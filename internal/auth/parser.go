package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hmorales/fleet-visits/internal/model"
)

// Parser validates access tokens issued by the identity service and
// extracts the caller's principal.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

type claims struct {
	Role   string `json:"role"`
	Vendor string `json:"vendor,omitempty"`
	jwt.RegisteredClaims
}

func (p *Parser) Parse(tokenString string) (model.Principal, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return model.Principal{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return model.Principal{}, fmt.Errorf("invalid token")
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return model.Principal{}, fmt.Errorf("invalid subject: %w", err)
	}

	return model.Principal{
		UserID: userID,
		Role:   c.Role,
		Vendor: c.Vendor,
	}, nil
}
