package application

import "github.com/bnema/selfcord/internal/domain"

type SetTokenCommand struct {
	ID domain.AccountID
	// SecretRef defaults to domain.TokenSecretRef(ID).
	SecretRef string
	Token     string
}
