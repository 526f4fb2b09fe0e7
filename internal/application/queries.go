package application

import "github.com/bnema/selfcord/internal/domain"

type Status struct {
	Account     domain.Account
	HasToken    bool
	LastSession *domain.SessionSnapshot
}
