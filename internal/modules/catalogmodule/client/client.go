// Package client implements the external show catalog client. It is a
// thin read-only wrapper over the remote catalog's REST endpoints with
// a flat per-call timeout and no retries; failures propagate to the
// caller, which may safely re-invoke ingestion.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/skoller/showsync/internal/errors"
)

// Client is the read-only contract against the remote show catalog.
type Client interface {
	GetShow(ctx context.Context, externalID int64) (*ShowMetadata, error)
	GetSeasons(ctx context.Context, externalID int64) ([]SeasonMetadata, error)
	GetEpisodes(ctx context.Context, seasonExternalID int64) ([]EpisodeMetadata, error)
	GetCrew(ctx context.Context, externalID int64) ([]CrewCredit, error)
}

// ShowMetadata is a show as returned by the remote catalog.
type ShowMetadata struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Summary   string   `json:"summary"` // raw HTML, stripped before storage
	Premiered string   `json:"premiered"`
	Genres    []string `json:"genres"`
	Rating    struct {
		Average *float64 `json:"average"`
	} `json:"rating"`
	Image *ImageRef `json:"image"`
}

// SeasonMetadata is a season as returned by the remote catalog.
// EpisodeOrder is the catalog's authoritative episode count for the
// season and may be null for in-progress seasons.
type SeasonMetadata struct {
	ID           int64 `json:"id"`
	Number       int   `json:"number"`
	EpisodeOrder *int  `json:"episodeOrder"`
}

// EpisodeMetadata is an episode as returned by the remote catalog.
// Number is null for specials and other non-canonical entries.
type EpisodeMetadata struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Number  *int      `json:"number"`
	Runtime int       `json:"runtime"`
	AirDate string    `json:"airdate"`
	Image   *ImageRef `json:"image"`
}

// CrewCredit is a crew entry with its role tag.
type CrewCredit struct {
	Type   string `json:"type"` // e.g. "Creator", "Executive Producer"
	Person struct {
		Name string `json:"name"`
	} `json:"person"`
}

// ImageRef holds poster URLs in two sizes.
type ImageRef struct {
	Medium   string `json:"medium"`
	Original string `json:"original"`
}

// httpClient is the production implementation over net/http.
type httpClient struct {
	baseURL   string
	userAgent string
	httpc     *http.Client
	log       hclog.Logger
}

// Options configures a catalog client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Logger    hclog.Logger
}

// New creates a catalog client.
func New(opts Options) Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	return &httpClient{
		baseURL:   opts.BaseURL,
		userAgent: opts.UserAgent,
		httpc:     &http.Client{Timeout: opts.Timeout},
		log:       opts.Logger.Named("catalog"),
	}
}

// GetShow fetches a show by its external id.
func (c *httpClient) GetShow(ctx context.Context, externalID int64) (*ShowMetadata, error) {
	var show ShowMetadata
	url := fmt.Sprintf("%s/shows/%d", c.baseURL, externalID)
	if err := c.doGET(ctx, url, fmt.Sprintf("show %d", externalID), &show); err != nil {
		return nil, err
	}
	return &show, nil
}

// GetSeasons fetches the ordered season list of a show.
func (c *httpClient) GetSeasons(ctx context.Context, externalID int64) ([]SeasonMetadata, error) {
	var seasons []SeasonMetadata
	url := fmt.Sprintf("%s/shows/%d/seasons", c.baseURL, externalID)
	if err := c.doGET(ctx, url, fmt.Sprintf("seasons of show %d", externalID), &seasons); err != nil {
		return nil, err
	}
	return seasons, nil
}

// GetEpisodes fetches the ordered episode list of a season.
func (c *httpClient) GetEpisodes(ctx context.Context, seasonExternalID int64) ([]EpisodeMetadata, error) {
	var episodes []EpisodeMetadata
	url := fmt.Sprintf("%s/seasons/%d/episodes", c.baseURL, seasonExternalID)
	if err := c.doGET(ctx, url, fmt.Sprintf("episodes of season %d", seasonExternalID), &episodes); err != nil {
		return nil, err
	}
	return episodes, nil
}

// GetCrew fetches the crew list of a show with role tags.
func (c *httpClient) GetCrew(ctx context.Context, externalID int64) ([]CrewCredit, error) {
	var crew []CrewCredit
	url := fmt.Sprintf("%s/shows/%d/crew", c.baseURL, externalID)
	if err := c.doGET(ctx, url, fmt.Sprintf("crew of show %d", externalID), &crew); err != nil {
		return nil, err
	}
	return crew, nil
}

func (c *httpClient) doGET(ctx context.Context, url, operation string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.NewUpstreamError(operation, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Error("catalog request failed", "url", url, "error", err)
		return errors.NewUpstreamError(operation, err)
	}
	defer resp.Body.Close()

	c.log.Debug("catalog request", "url", url, "status", resp.StatusCode, "duration", time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.NewNotFoundError("catalog entry", operation)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return errors.NewUpstreamError(operation, fmt.Errorf("unexpected status %s", resp.Status))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.NewUpstreamError(operation, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

// ParseAirDate converts the catalog's YYYY-MM-DD date strings; empty or
// malformed dates map to nil.
func ParseAirDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// PosterURL selects the preferred poster size from an image reference.
func PosterURL(img *ImageRef) string {
	if img == nil {
		return ""
	}
	if img.Original != "" {
		return img.Original
	}
	return img.Medium
}
