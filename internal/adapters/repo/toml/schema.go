package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Accounts []accountSchema `toml:"accounts"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported accounts schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type accountSchema struct {
	ID      string         `toml:"id"`
	Name    string         `toml:"name"`
	Auth    authSchema     `toml:"auth"`
	Session *sessionSchema `toml:"session,omitempty"`
}

type authSchema struct {
	SecretRef string `toml:"secret_ref"`
}

type sessionSchema struct {
	UserID      string `toml:"user_id"`
	UserTag     string `toml:"user_tag"`
	SessionID   string `toml:"session_id"`
	GuildCount  int    `toml:"guild_count"`
	LastLoginAt string `toml:"last_login_at"`
}
