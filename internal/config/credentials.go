package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Credentials holds the posting secrets. Twitter needs the four OAuth 1.0a
// values; Telegram needs a bot token and a channel chat ID.
type Credentials struct {
	ConsumerKey       string `yaml:"consumer_key"`
	ConsumerSecret    string `yaml:"consumer_secret"`
	AccessTokenKey    string `yaml:"access_token_key"`
	AccessTokenSecret string `yaml:"access_token_secret"`

	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`
}

// LoadCredentials reads the credential file and checks that it carries
// everything the given platform needs.
func LoadCredentials(path, platform string) (*Credentials, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied credentials path
	if err != nil {
		return nil, fmt.Errorf("%w: read credentials: %w", ErrInvalid, err)
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("%w: parse credentials %s: %w", ErrInvalid, path, err)
	}

	switch platform {
	case PlatformTwitter:
		for key, v := range map[string]string{
			"consumer_key":        creds.ConsumerKey,
			"consumer_secret":     creds.ConsumerSecret,
			"access_token_key":    creds.AccessTokenKey,
			"access_token_secret": creds.AccessTokenSecret,
		} {
			if v == "" {
				return nil, fmt.Errorf("%w: credentials: %s is required", ErrInvalid, key)
			}
		}
	case PlatformTelegram:
		if creds.TelegramToken == "" {
			return nil, fmt.Errorf("%w: credentials: telegram_token is required", ErrInvalid)
		}
		if creds.TelegramChatID == 0 {
			return nil, fmt.Errorf("%w: credentials: telegram_chat_id is required", ErrInvalid)
		}
	default:
		return nil, fmt.Errorf("%w: unknown platform %q", ErrInvalid, platform)
	}

	return &creds, nil
}
