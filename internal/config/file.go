package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/bnema/selfcord/internal/adapters/discord/credentials"
	"github.com/spf13/viper"
)

// LoadFile reads the TOML config at path. A missing file yields an empty
// config.
func LoadFile(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return v, nil
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return v, nil
}

// Identity applies the [identity] overrides from v and cookieURL on top of
// the default client identity.
func Identity(v *viper.Viper, cookieURL string) credentials.Identity {
	id := credentials.DefaultIdentity()

	if s := v.GetString("identity.user_agent"); s != "" {
		id.UserAgent = s
	}
	if s := v.GetString("identity.client_version"); s != "" {
		id.SuperProperties.ClientVersion = s
	}
	if s := v.GetString("identity.client_build_number"); s != "" {
		id.SuperProperties.ClientBuildNumber = s
	}
	if s := v.GetString("identity.os_version"); s != "" {
		id.SuperProperties.OSVersion = s
	}
	if s := v.GetString("identity.system_locale"); s != "" {
		id.SuperProperties.SystemLocale = s
	}
	if cookieURL != "" {
		id.CookieURL = cookieURL
	}

	return id
}
