package handler

import (
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // token expiry in responses

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/seat-arbiter/internal/config" // app configuration
	"github.com/iliyamo/seat-arbiter/internal/utils"  // key verification and token issuing
)

// AuthHandler mints access tokens for requesters.  There are no user
// accounts: an operator holding the admin key vouches for the requester
// id and class.
type AuthHandler struct {
	Cfg config.Config
}

func NewAuthHandler(cfg config.Config) *AuthHandler { return &AuthHandler{Cfg: cfg} }

type tokenReq struct {
	AdminKey    string `json:"admin_key"`
	RequesterID string `json:"requester_id"`
	Role        string `json:"role"` // VIP | REGULAR | OPERATOR
}

type tokenResp struct {
	RequesterID string    `json:"requester_id"`
	Role        string    `json:"role"`
	Token       string    `json:"token"`
	Expires     time.Time `json:"expires"`
}

// normalizeRole maps the requested role onto a known one; anything
// unrecognised becomes REGULAR.
func normalizeRole(raw string) string {
	switch r := strings.ToUpper(strings.TrimSpace(raw)); r {
	case utils.RoleVIP, utils.RoleOperator:
		return r
	default:
		return utils.RoleRegular
	}
}

// IssueToken handles POST /v1/auth/token.  It returns 404 when no admin
// key is configured, 401 when the key does not match and 201 with the
// token otherwise.
func (h *AuthHandler) IssueToken(c echo.Context) error {
	if h.Cfg.AdminKeyHash == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "token issuing disabled"})
	}
	var req tokenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.RequesterID = strings.TrimSpace(req.RequesterID)
	if req.RequesterID == "" || req.AdminKey == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "admin_key/requester_id required"})
	}
	if !utils.VerifyKey(h.Cfg.AdminKeyHash, req.AdminKey) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid admin key"})
	}

	role := normalizeRole(req.Role)
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, req.RequesterID, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusCreated, tokenResp{
		RequesterID: req.RequesterID,
		Role:        role,
		Token:       access.Token,
		Expires:     access.Exp,
	})
}
