package jobspy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobspy-service/internal/config"
	"jobspy-service/internal/proxy"
	"jobspy-service/pkg/models"
)

func newTestClient(baseURL string) *Client {
	cfg := &config.Config{}
	cfg.JobSpy.BaseURL = baseURL
	cfg.JobSpy.Timeout = 5 * time.Second
	return NewClient(cfg, nil)
}

func TestScrapeNormalizesNaN(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/scrape", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		// Pandas-style payload with a bare NaN numeric
		w.Write([]byte(`{"jobs":[{"title":"Engineer","company":"Acme","min_amount": NaN,"max_amount":90000.0}],"count":1}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	jobs, err := client.Scrape(context.Background(), &models.ScrapeRequest{
		SearchTerm: "engineer",
		SiteNames:  []string{"indeed"},
	})
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	assert.Nil(t, jobs[0].MinAmount)
	require.NotNil(t, jobs[0].MaxAmount)
	assert.Equal(t, 90000.0, *jobs[0].MaxAmount)
}

func TestScrapeRotatesPoolProxy(t *testing.T) {
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		bodies = append(bodies, string(buf))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jobs":[],"count":0}`))
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.JobSpy.BaseURL = server.URL
	cfg.JobSpy.Timeout = 5 * time.Second
	pool := proxy.NewPool([]string{"http://u:p@proxy-a:8080", "http://u:p@proxy-b:8080"})
	client := NewClient(cfg, pool)

	for i := 0; i < 2; i++ {
		_, err := client.Scrape(context.Background(), &models.ScrapeRequest{SearchTerm: "engineer"})
		require.NoError(t, err)
	}

	require.Len(t, bodies, 2)
	assert.Contains(t, bodies[0], "proxy-a")
	assert.Contains(t, bodies[1], "proxy-b")
}

func TestScrapeErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Scrape(context.Background(), &models.ScrapeRequest{SearchTerm: "engineer"})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	assert.NoError(t, newTestClient(server.URL).Health(context.Background()))
}
