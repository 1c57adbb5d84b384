package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"foundry/internal/game"
)

func TestClientGenerateOrders(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		var in game.GenerationInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, 1, in.LineCount)
		json.NewEncoder(w).Encode(ordersResponse{Orders: []GeneratedOrder{validOrder()}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	orders, err := c.GenerateOrders(context.Background(), game.GenerationInput{LineCount: 1})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, "FM Radio Kit", orders[0].ProductName)
	require.Equal(t, "/v1/orders/generate", gotPath)
	require.Equal(t, "Bearer secret", gotAuth)
}

func TestClientGenerateEventAndNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/events/generate":
			json.NewEncoder(w).Encode(eventResponse{Event: GeneratedEvent{
				Name: "Strike", Description: "Walkout.",
				Type: game.EventWorkerStrike, Duration: 120, StrikeDemand: 5_000,
			}})
		case "/v1/news/generate":
			json.NewEncoder(w).Encode(newsResponse{News: GeneratedNews{Headline: "Markets rally"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	ev, err := c.GenerateEvent(context.Background(), game.GenerationInput{})
	require.NoError(t, err)
	require.Equal(t, game.EventWorkerStrike, ev.Type)

	news, err := c.GenerateNews(context.Background(), game.GenerationInput{})
	require.NoError(t, err)
	require.Equal(t, "Markets rally", news.Headline)
}

func TestClientSurfacesServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.GenerateOrders(context.Background(), game.GenerationInput{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "503")
}
