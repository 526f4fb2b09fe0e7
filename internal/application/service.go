package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/selfcord/internal/domain"
	"github.com/bnema/selfcord/internal/ports"
)

var ErrEmptyToken = errors.New("token is empty")

type Service struct {
	repo  ports.AccountRepository
	store ports.SecretStore
	clock ports.Clock
}

func NewService(repo ports.AccountRepository, store ports.SecretStore, clock ports.Clock) *Service {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Service{
		repo:  repo,
		store: store,
		clock: clock,
	}
}

// SetToken stores token under secretRef and points the account at it. The
// account is created when missing. A previous secret under another ref is
// deleted once the account is saved; on failure the old state is restored.
func (s *Service) SetToken(ctx context.Context, cmd SetTokenCommand) error {
	token := strings.TrimSpace(cmd.Token)
	if token == "" {
		return ErrEmptyToken
	}
	secretRef := cmd.SecretRef
	if secretRef == "" {
		secretRef = domain.TokenSecretRef(cmd.ID)
	}

	account, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return fmt.Errorf("get account by id: %w", err)
		}
		account = domain.Account{ID: cmd.ID, Name: fmt.Sprintf("Account %s", cmd.ID)}
	}
	original := account
	previousRef := account.Auth.SecretRef

	if err := s.store.Put(ctx, secretRef, token); err != nil {
		return fmt.Errorf("store token secret: %w", err)
	}

	account.Auth = domain.Auth{SecretRef: secretRef}
	// A new token invalidates whatever the last login reported.
	account.Session = nil

	if err := s.repo.Save(ctx, account); err != nil {
		if rollbackErr := s.store.Delete(ctx, secretRef); rollbackErr != nil {
			return fmt.Errorf("save account token and rollback stored secret: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("save account token: %w", err)
	}

	if previousRef == "" || previousRef == secretRef {
		return nil
	}

	if err := s.store.Delete(ctx, previousRef); err != nil {
		var rollbackErr error
		if restoreErr := s.repo.Save(ctx, original); restoreErr != nil {
			rollbackErr = errors.Join(rollbackErr, restoreErr)
		}
		if newSecretDeleteErr := s.store.Delete(ctx, secretRef); newSecretDeleteErr != nil {
			rollbackErr = errors.Join(rollbackErr, newSecretDeleteErr)
		}
		if rollbackErr != nil {
			return fmt.Errorf("delete previous token secret and rollback token update: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("delete previous token secret: %w", err)
	}

	return nil
}

// RemoveToken clears the account token. The account itself is kept.
func (s *Service) RemoveToken(ctx context.Context, id domain.AccountID) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get account by id: %w", err)
	}
	original := account
	secretRef := account.Auth.SecretRef

	account.Auth = domain.Auth{}
	account.Session = nil

	if err := s.repo.Save(ctx, account); err != nil {
		return fmt.Errorf("save account token: %w", err)
	}

	if secretRef == "" {
		return nil
	}

	if err := s.store.Delete(ctx, secretRef); err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
		if restoreErr := s.repo.Save(ctx, original); restoreErr != nil {
			return fmt.Errorf("delete token secret and restore account: %w", errors.Join(err, restoreErr))
		}
		return fmt.Errorf("delete token secret: %w", err)
	}

	return nil
}

// RemoveAccount deletes the token, then the account.
func (s *Service) RemoveAccount(ctx context.Context, id domain.AccountID) error {
	if err := s.RemoveToken(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

func (s *Service) SetAccountName(ctx context.Context, id domain.AccountID, name string) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get account by id: %w", err)
	}

	account.Name = name

	if err := s.repo.Save(ctx, account); err != nil {
		return fmt.Errorf("save account name: %w", err)
	}

	return nil
}

// ResolveToken reads the account token from the secret store.
func (s *Service) ResolveToken(ctx context.Context, id domain.AccountID) (string, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get account by id: %w", err)
	}
	if !account.HasToken() {
		return "", fmt.Errorf("account %s has no token: %w", id, domain.ErrSecretNotFound)
	}

	token, err := s.store.Get(ctx, account.Auth.SecretRef)
	if err != nil {
		return "", fmt.Errorf("read token secret: %w", err)
	}
	return token, nil
}

// RecordSession stores what the gateway reported on a successful login.
func (s *Service) RecordSession(ctx context.Context, id domain.AccountID, info domain.SessionInfo) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get account by id: %w", err)
	}

	account.Session = &domain.SessionSnapshot{
		UserID:      info.User.ID,
		UserTag:     info.User.Tag(),
		SessionID:   info.SessionID,
		GuildCount:  len(info.Guilds),
		LastLoginAt: s.clock.Now(),
	}

	if err := s.repo.Save(ctx, account); err != nil {
		return fmt.Errorf("save account session: %w", err)
	}

	return nil
}

func (s *Service) GetStatus(ctx context.Context, id domain.AccountID) (Status, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Status{}, fmt.Errorf("get account by id: %w", err)
	}

	return statusFromAccount(account), nil
}

func (s *Service) GetStatusAll(ctx context.Context) ([]Status, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	statuses := make([]Status, 0, len(accounts))
	for _, account := range accounts {
		statuses = append(statuses, statusFromAccount(account))
	}

	return statuses, nil
}

func statusFromAccount(account domain.Account) Status {
	status := Status{
		Account:  account,
		HasToken: account.HasToken(),
	}
	if account.Session != nil {
		snapshot := *account.Session
		status.LastSession = &snapshot
	}
	return status
}
