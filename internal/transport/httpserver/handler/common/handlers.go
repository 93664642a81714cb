package common

import (
	"family-finance-go/internal/auth"
	identitydomain "family-finance-go/internal/domain/identity"
	"family-finance-go/pkg/logger"
)

// Handlers serves health, authentication and user account endpoints.
type Handlers struct {
	Identity *identitydomain.Service
	Tokens   *auth.TokenManager
	log      logger.Logger
}

func New(identity *identitydomain.Service, tokens *auth.TokenManager, log logger.Logger) *Handlers {
	return &Handlers{
		Identity: identity,
		Tokens:   tokens,
		log:      log,
	}
}
