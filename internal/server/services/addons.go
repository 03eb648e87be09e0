package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/stremhub/internal/server/config"
	"github.com/dmitrijs2005/stremhub/internal/server/models"
	"github.com/dmitrijs2005/stremhub/internal/server/repositories/repomanager"
)

// InstallMode selects which kind of install URL to issue.
type InstallMode string

const (
	// ModeTorrentio issues a single-addon URL for the Torrentio/Torbox pairing.
	ModeTorrentio InstallMode = "torrentio"
	// ModeAggregator issues a multi-addon URL carrying the configured
	// manifest list as an encoded path segment.
	ModeAggregator InstallMode = "aggregator"
)

// InstallRequest describes one install-URL issuance.
// For ModeAggregator an empty Addons list means "use the configured list".
type InstallRequest struct {
	Mode   InstallMode
	Addons []config.AggregatorAddon
}

// aggregatorConfig is the document encoded into the multi-addon URL.
// Field order matters to clients that compare encoded segments verbatim,
// so entries serialize name first, then manifestUrl.
type aggregatorConfig struct {
	Addons []config.AggregatorAddon `json:"addons"`
}

// AddonService issues deterministic Stremio install URLs and records one
// usage entry per successfully issued URL.
type AddonService struct {
	db               *sql.DB
	repomanager      repomanager.RepositoryManager
	torrentioBaseURL string
	torboxAPIKey     string
	aggregatorHost   string
	aggregatorAddons []config.AggregatorAddon
}

func NewAddonService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AddonService {
	return &AddonService{
		db:               db,
		repomanager:      m,
		torrentioBaseURL: cfg.TorrentioBaseURL,
		torboxAPIKey:     cfg.TorboxAPIKey,
		aggregatorHost:   cfg.AggregatorHost,
		aggregatorAddons: cfg.AggregatorAddons,
	}
}

// InstallURL builds the install URL for the requested mode and appends a
// usage entry for the user. URL construction and the usage append succeed
// or fail as one operation: a construction error records nothing, and a
// failed append fails the whole call.
func (s *AddonService) InstallURL(ctx context.Context, userID int64, req InstallRequest) (string, error) {

	var (
		u   string
		err error
	)
	switch req.Mode {
	case ModeTorrentio:
		u, err = s.torrentioURL()
	case ModeAggregator:
		u, err = s.aggregatorURL(req.Addons)
	default:
		return "", fmt.Errorf("unknown install mode %q", req.Mode)
	}
	if err != nil {
		return "", err
	}

	if _, err := s.repomanager.UsageLogs(s.db).Create(ctx, userID); err != nil {
		return "", fmt.Errorf("error recording addon usage: %w", err)
	}

	return u, nil
}

// UsageLogs lists recorded usage entries, oldest first.
func (s *AddonService) UsageLogs(ctx context.Context, offset, limit int) ([]*models.UsageLog, error) {
	return s.repomanager.UsageLogs(s.db).List(ctx, offset, limit)
}

// torrentioURL rewrites the configured base URL into the stremio://
// scheme and splices the Torbox key into the path.
func (s *AddonService) torrentioURL() (string, error) {
	base, err := url.Parse(s.torrentioBaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid torrentio base url: %w", err)
	}
	if base.Host == "" {
		return "", fmt.Errorf("invalid torrentio base url %q: missing host", s.torrentioBaseURL)
	}
	return fmt.Sprintf("stremio://%s/torbox=%s/manifest.json", base.Host, s.torboxAPIKey), nil
}

// aggregatorURL encodes the ordered manifest list into a base64 path
// segment understood by the multi-addon wrapper.
func (s *AddonService) aggregatorURL(addons []config.AggregatorAddon) (string, error) {
	if len(addons) == 0 {
		addons = s.aggregatorAddons
	}

	doc, err := json.Marshal(aggregatorConfig{Addons: addons})
	if err != nil {
		return "", fmt.Errorf("error encoding aggregator config: %w", err)
	}

	seg := base64.StdEncoding.EncodeToString(doc)
	return fmt.Sprintf("stremio://%s/%s/manifest.json", s.aggregatorHost, seg), nil
}
