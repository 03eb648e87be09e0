package config

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid duration for %s, using default: %v", key, err)
		return def
	}
	return d
}

// parseEnv overlays Config fields from environment variables. A .env file in
// the working directory is loaded first, if present; real environment
// variables win over the file.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	config.EndpointAddr = getenv("ENDPOINT_ADDR", config.EndpointAddr)
	config.DatabaseDSN = getenv("DATABASE_DSN", config.DatabaseDSN)
	config.SecretKey = getenv("SECRET_KEY", config.SecretKey)
	config.SigningAlgorithm = getenv("SIGNING_ALGORITHM", config.SigningAlgorithm)
	config.AccessTokenValidityDuration = getDuration("ACCESS_TOKEN_VALIDITY", config.AccessTokenValidityDuration)
	config.TraktClientID = getenv("TRAKT_CLIENT_ID", config.TraktClientID)
	config.TraktClientSecret = getenv("TRAKT_CLIENT_SECRET", config.TraktClientSecret)
	config.TraktAuthorizeURL = getenv("TRAKT_AUTHORIZE_URL", config.TraktAuthorizeURL)
	config.TraktTokenURL = getenv("TRAKT_TOKEN_URL", config.TraktTokenURL)
	config.TraktRedirectURL = getenv("TRAKT_REDIRECT_URL", config.TraktRedirectURL)
	config.OAuthExchangeTimeout = getDuration("OAUTH_EXCHANGE_TIMEOUT", config.OAuthExchangeTimeout)
	config.TorrentioBaseURL = getenv("TORRENTIO_BASE_URL", config.TorrentioBaseURL)
	config.TorboxAPIKey = getenv("TORBOX_API_KEY", config.TorboxAPIKey)
	config.AggregatorHost = getenv("AGGREGATOR_HOST", config.AggregatorHost)

	if v := os.Getenv("AGGREGATOR_ADDONS"); v != "" {
		var addons []AggregatorAddon
		if err := json.Unmarshal([]byte(v), &addons); err != nil {
			log.Printf("invalid json for AGGREGATOR_ADDONS, using default: %v", err)
		} else {
			config.AggregatorAddons = addons
		}
	}
}
