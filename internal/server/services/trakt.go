package services

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/dmitrijs2005/stremhub/internal/common"
	"github.com/dmitrijs2005/stremhub/internal/server/config"
	"github.com/dmitrijs2005/stremhub/internal/server/models"
	"github.com/dmitrijs2005/stremhub/internal/server/repositories/repomanager"
)

// TraktService correlates the three-legged OAuth flow with local users
// and persists the resulting provider tokens, one link per user.
type TraktService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	oauth           *oauth2.Config
	exchangeTimeout time.Duration

	// httpClient is injected into the exchange via the oauth2 context;
	// tests point it at a stub token endpoint.
	httpClient *http.Client
}

func NewTraktService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *TraktService {
	return &TraktService{
		db:          db,
		repomanager: m,
		oauth: &oauth2.Config{
			ClientID:     cfg.TraktClientID,
			ClientSecret: cfg.TraktClientSecret,
			RedirectURL:  cfg.TraktRedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.TraktAuthorizeURL,
				TokenURL:  cfg.TraktTokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		exchangeTimeout: cfg.OAuthExchangeTimeout,
		httpClient:      http.DefaultClient,
	}
}

// BeginLink returns the provider authorization URL for the given user.
// The user id rides in the state parameter so the callback can be
// correlated back without server-side session storage.
func (s *TraktService) BeginLink(userID int64) string {
	return s.oauth.AuthCodeURL(strconv.FormatInt(userID, 10))
}

// CompleteLink redeems the authorization code at the provider and stores
// the resulting token for the user carried in state. An existing link is
// replaced in place; on any failure the stored link is left untouched.
// Provider-side failures, including exchange timeouts, are reported as
// ErrOAuthExchange with the provider detail attached.
func (s *TraktService) CompleteLink(ctx context.Context, code, state string) (*models.TraktToken, error) {

	userID, err := strconv.ParseInt(state, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed state %q", common.ErrOAuthExchange, state)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	ctx, cancel := context.WithTimeout(ctx, s.exchangeTimeout)
	defer cancel()

	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrOAuthExchange, err)
	}

	token := &models.TraktToken{
		UserID:       userID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Scope:        extraString(tok, "scope"),
		ExpiresIn:    extraInt64(tok, "expires_in"),
		CreatedAt:    extraInt64(tok, "created_at"),
	}
	if token.TokenType == "" {
		token.TokenType = "bearer"
	}
	if token.CreatedAt == 0 {
		token.CreatedAt = time.Now().Unix()
	}

	token, err = s.repomanager.TraktTokens(s.db).Upsert(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("error saving trakt token: %w", err)
	}

	return token, nil
}

// GetLink returns the stored provider token for a user, or ErrorNotFound
// when the account was never linked.
func (s *TraktService) GetLink(ctx context.Context, userID int64) (*models.TraktToken, error) {
	return s.repomanager.TraktTokens(s.db).GetByUserID(ctx, userID)
}

// extraString pulls a string field out of the non-standard part of the
// token response. Trakt sends scope as a plain string; some providers
// send a list, which is joined with spaces.
func extraString(tok *oauth2.Token, key string) string {
	switch v := tok.Extra(key).(type) {
	case string:
		return v
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, p := range v {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// extraInt64 pulls a numeric field out of the token response extras.
// JSON numbers arrive as float64.
func extraInt64(tok *oauth2.Token, key string) int64 {
	switch v := tok.Extra(key).(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	default:
		return 0
	}
}
