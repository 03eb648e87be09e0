package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/stremhub/internal/flagx"
	"github.com/dmitrijs2005/stremhub/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "30m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, set fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr                string            `json:"endpoint_addr"`
	DatabaseDSN                 string            `json:"database_dsn"`
	SecretKey                   string            `json:"secret_key"`
	SigningAlgorithm            string            `json:"signing_algorithm"`
	AccessTokenValidityDuration timex.Duration    `json:"access_token_validity_duration"`
	TraktClientID               string            `json:"trakt_client_id"`
	TraktClientSecret           string            `json:"trakt_client_secret"`
	TraktAuthorizeURL           string            `json:"trakt_authorize_url"`
	TraktTokenURL               string            `json:"trakt_token_url"`
	TraktRedirectURL            string            `json:"trakt_redirect_url"`
	OAuthExchangeTimeout        timex.Duration    `json:"oauth_exchange_timeout"`
	TorrentioBaseURL            string            `json:"torrentio_base_url"`
	TorboxAPIKey                string            `json:"torbox_api_key"`
	AggregatorHost              string            `json:"aggregator_host"`
	AggregatorAddons            []AggregatorAddon `json:"aggregator_addons"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. Empty fields in the file
// leave the current Config values untouched.
func parseJson(config *Config) error {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("config file read error: %w", err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("config file parse error: %w", err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.SigningAlgorithm != "" {
		config.SigningAlgorithm = c.SigningAlgorithm
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	}
	if c.TraktClientID != "" {
		config.TraktClientID = c.TraktClientID
	}
	if c.TraktClientSecret != "" {
		config.TraktClientSecret = c.TraktClientSecret
	}
	if c.TraktAuthorizeURL != "" {
		config.TraktAuthorizeURL = c.TraktAuthorizeURL
	}
	if c.TraktTokenURL != "" {
		config.TraktTokenURL = c.TraktTokenURL
	}
	if c.TraktRedirectURL != "" {
		config.TraktRedirectURL = c.TraktRedirectURL
	}
	if c.OAuthExchangeTimeout.Duration != 0 {
		config.OAuthExchangeTimeout = time.Duration(c.OAuthExchangeTimeout.Duration)
	}
	if c.TorrentioBaseURL != "" {
		config.TorrentioBaseURL = c.TorrentioBaseURL
	}
	if c.TorboxAPIKey != "" {
		config.TorboxAPIKey = c.TorboxAPIKey
	}
	if c.AggregatorHost != "" {
		config.AggregatorHost = c.AggregatorHost
	}
	if len(c.AggregatorAddons) > 0 {
		config.AggregatorAddons = c.AggregatorAddons
	}

	return nil
}
