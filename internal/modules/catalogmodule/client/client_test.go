package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/skoller/showsync/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetShowDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shows/82", r.URL.Path)
		assert.Equal(t, "showsync-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 82,
			"name": "Game of Thrones",
			"premiered": "2011-04-17",
			"genres": ["Drama", "Fantasy"],
			"rating": {"average": 8.9},
			"summary": "<p>Epic.</p>",
			"image": {"medium": "http://img/m.jpg", "original": "http://img/o.jpg"}
		}`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, UserAgent: "showsync-test"})
	show, err := c.GetShow(context.Background(), 82)
	require.NoError(t, err)

	assert.Equal(t, int64(82), show.ID)
	assert.Equal(t, "Game of Thrones", show.Name)
	assert.Equal(t, []string{"Drama", "Fantasy"}, show.Genres)
	require.NotNil(t, show.Rating.Average)
	assert.InDelta(t, 8.9, *show.Rating.Average, 0.001)
	assert.Equal(t, "http://img/o.jpg", PosterURL(show.Image))
}

func TestGetSeasonsNullEpisodeOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 101, "number": 1, "episodeOrder": 10},
			{"id": 102, "number": 2, "episodeOrder": null}
		]`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	seasons, err := c.GetSeasons(context.Background(), 82)
	require.NoError(t, err)
	require.Len(t, seasons, 2)

	require.NotNil(t, seasons[0].EpisodeOrder)
	assert.Equal(t, 10, *seasons[0].EpisodeOrder)
	assert.Nil(t, seasons[1].EpisodeOrder)
}

func TestNotFoundMapsToTaxonomy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	_, err := c.GetShow(context.Background(), 999999)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.False(t, errors.IsUpstream(err))
}

func TestServerErrorMapsToUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	_, err := c.GetEpisodes(context.Background(), 101)
	require.Error(t, err)
	assert.True(t, errors.IsUpstream(err))
}

func TestMalformedBodyMapsToUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	_, err := c.GetShow(context.Background(), 82)
	require.Error(t, err)
	assert.True(t, errors.IsUpstream(err))
}

func TestParseAirDate(t *testing.T) {
	parsed := ParseAirDate("2011-04-17")
	require.NotNil(t, parsed)
	assert.Equal(t, "2011-04-17", parsed.Format("2006-01-02"))

	assert.Nil(t, ParseAirDate(""))
	assert.Nil(t, ParseAirDate("not-a-date"))
}
