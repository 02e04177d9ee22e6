package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/errors"
	"github.com/skoller/showsync/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalogService returns canned data and records ingest calls
type fakeCatalogService struct {
	show        *database.Show
	ingestCalls int
	ingestErr   error
}

func (f *fakeCatalogService) EnsureSeriesIngested(ctx context.Context, externalID int64) (*database.Show, error) {
	f.ingestCalls++
	if f.ingestErr != nil {
		return nil, f.ingestErr
	}
	if f.show == nil || f.show.ExternalID != externalID {
		return nil, errors.NewNotFoundError("show", fmt.Sprintf("%d", externalID))
	}
	return f.show, nil
}

func (f *fakeCatalogService) GetShow(ctx context.Context, externalID int64) (*database.Show, error) {
	return f.show, nil
}

func (f *fakeCatalogService) ListSeasons(ctx context.Context, showExternalID int64) ([]database.Season, error) {
	return []database.Season{{ExternalID: 101, ShowExternalID: showExternalID, Number: 1}}, nil
}

func (f *fakeCatalogService) ListEpisodes(ctx context.Context, seasonExternalID int64) ([]database.Episode, error) {
	return nil, nil
}

func (f *fakeCatalogService) FindEpisode(ctx context.Context, externalID int64) (*database.Episode, error) {
	return nil, errors.NewNotFoundError("episode", fmt.Sprintf("%d", externalID))
}

func (f *fakeCatalogService) SeasonOrders(ctx context.Context, showExternalID int64) ([]services.SeasonOrder, error) {
	return nil, nil
}

func setupRouter(svc services.CatalogService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, NewHandler(svc))
	return r
}

func TestGetShowTriggersIngestion(t *testing.T) {
	fake := &fakeCatalogService{show: &database.Show{ExternalID: 82, Title: "Game of Thrones"}}
	r := setupRouter(fake)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/shows/82", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Game of Thrones")
	assert.Equal(t, 1, fake.ingestCalls)
}

func TestGetShowNotFound(t *testing.T) {
	r := setupRouter(&fakeCatalogService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/shows/999", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"NOT_FOUND"`)
}

func TestGetShowUpstreamFailure(t *testing.T) {
	fake := &fakeCatalogService{ingestErr: errors.NewUpstreamError("show 82", fmt.Errorf("timeout"))}
	r := setupRouter(fake)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/shows/82", nil))

	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"UPSTREAM_FAILURE"`)
}

func TestGetShowRejectsMalformedID(t *testing.T) {
	fake := &fakeCatalogService{}
	r := setupRouter(fake)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/shows/abc", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, fake.ingestCalls)
}

func TestGetSeasons(t *testing.T) {
	fake := &fakeCatalogService{show: &database.Show{ExternalID: 82}}
	r := setupRouter(fake)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/shows/82/seasons", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"external_id":101`)
}
