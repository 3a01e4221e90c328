package embed

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued embed token stays valid.
const TokenTTL = 600 * time.Second

// DefaultParamsID is the value of params.id when none is configured.
const DefaultParamsID uint32 = 1

var (
	ErrMissingParameter     = errors.New("missing dashboard parameter")
	ErrInvalidParameter     = errors.New("invalid dashboard parameter")
	ErrDashboardNotAllowed  = errors.New("dashboard not allowed")
	ErrSigning              = errors.New("failed to sign embed token")
	ErrResponseConstruction = errors.New("failed to construct embed link")
)

type Resource struct {
	Dashboard uint32 `json:"dashboard"`
}

type Params struct {
	ID uint32 `json:"id"`
}

// Claims is the payload Metabase expects in a signed embedding token.
// Field order matters for the serialized form: resource, params, exp.
type Claims struct {
	Resource Resource `json:"resource"`
	Params   Params   `json:"params"`
	jwt.RegisteredClaims
}

// Link is the result of issuing an embed token for one dashboard.
type Link struct {
	URL       string
	Token     string
	Claims    *Claims
	ExpiresAt time.Time
}

func NewClaims(dashboardID, paramsID uint32, now time.Time) *Claims {
	return &Claims{
		Resource: Resource{Dashboard: dashboardID},
		Params:   Params{ID: paramsID},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
}
