package utils // package utils provides helpers for token creation and key hashing

import (
    "errors" // errors reports malformed claims
    "time"   // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// Roles carried in the token's "role" claim.  VIP and REGULAR are
// requester classes; OPERATOR may submit batches on behalf of others.
const (
    RoleVIP      = "VIP"
    RoleRegular  = "REGULAR"
    RoleOperator = "OPERATOR"
)

// AccessToken represents a signed JWT access token along with its expiry.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a requester.  The
// subject is the requester ID and the role claim carries its class.
func NewAccessToken(secret, requesterID, role string, ttlMin int) (AccessToken, error) {
    if requesterID == "" {
        return AccessToken{}, errors.New("requester id required")
    }
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  requesterID,
        "role": role,
        "exp":  exp.Unix(),
        "iat":  now.Unix(),
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw with secret and returns its subject and
// role.  Only HMAC-signed tokens are accepted.
func ParseAccessToken(secret, raw string) (sub, role string, err error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, errors.New("unexpected signing method")
        }
        return []byte(secret), nil
    })
    if err != nil {
        return "", "", err
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok || !tok.Valid {
        return "", "", errors.New("invalid claims")
    }
    sub, _ = claims["sub"].(string)
    role, _ = claims["role"].(string)
    if sub == "" {
        return "", "", errors.New("missing subject")
    }
    return sub, role, nil
}
