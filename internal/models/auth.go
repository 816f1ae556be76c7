package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the JWT payload for access tokens. Orgs lists the
// organizations the caller administers.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Orgs   []string `json:"orgs"`
	jwt.RegisteredClaims
}

// AccessRule names who may read or modify a resource: any listed user, or an
// admin of any listed org.
type AccessRule struct {
	UserIDs []string
	OrgIDs  []string
}
