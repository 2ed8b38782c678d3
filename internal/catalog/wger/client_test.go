package wger_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/catalog"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/catalog/wger"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/provider/resilience"
)

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/exercise/", r.URL.Path)
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		assert.Equal(t, "chest,shoulders", r.URL.Query().Get("muscles"))
		assert.Equal(t, "barbell", r.URL.Query().Get("equipment"))
		assert.Equal(t, "Bearer ****", r.Header.Get("Authorization"))

		response := map[string]interface{}{
			"count":    2,
			"next":     nil,
			"previous": nil,
			"results": []map[string]interface{}{
				{
					"id":          101,
					"name":        "Bench Press",
					"description": "Press the barbell up from the chest.",
					"muscles": []map[string]interface{}{
						{"id": 4, "name": "chest"},
					},
					"equipment": []map[string]interface{}{
						{"id": 1, "name": "barbell"},
					},
					"difficulty":   "intermediate",
					"instructions": []string{"Lie on the bench.", "Lower the bar to your chest.", "Press up."},
					"images": []map[string]interface{}{
						{"image": "https://example.com/bench-side.png", "is_main": false},
						{"image": "https://example.com/bench.png", "is_main": true},
					},
					"videos": []map[string]interface{}{
						{"video": "https://example.com/bench.mp4"},
					},
				},
				{
					"id":          102,
					"name":        "Overhead Press",
					"description": "Press the barbell overhead.",
					"muscles": []map[string]interface{}{
						{"id": 2, "name": "shoulders"},
					},
					"equipment": []map[string]interface{}{
						{"id": 1, "name": "barbell"},
					},
					"difficulty":   "intermediate",
					"instructions": []string{"Stand tall.", "Press overhead."},
					"images":       []interface{}{},
					"videos":       []interface{}{},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := wger.NewClient(wger.ClientConfig{
		APIKey:     "****",
		BaseURL:    server.URL,
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig("test")),
	})

	exercises, err := client.Search(context.Background(), catalog.Filters{
		Muscles:   []string{"chest", "shoulders"},
		Equipment: []string{"barbell"},
	})
	require.NoError(t, err)
	require.Len(t, exercises, 2)

	bench := exercises[0]
	assert.Equal(t, "101", bench.ID)
	assert.Equal(t, "Bench Press", bench.Name)
	assert.Equal(t, []string{"chest"}, bench.MuscleGroups)
	assert.Equal(t, []string{"barbell"}, bench.Equipment)
	assert.Equal(t, "intermediate", bench.Difficulty)
	assert.Len(t, bench.Instructions, 3)
	assert.Equal(t, "https://example.com/bench.png", bench.ImageURL, "main image should win")
	assert.Equal(t, "https://example.com/bench.mp4", bench.VideoURL)

	press := exercises[1]
	assert.Equal(t, "Overhead Press", press.Name)
	assert.Empty(t, press.ImageURL)
	assert.Empty(t, press.VideoURL)
}

func TestClient_GetByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/exercise/101/", r.URL.Path)

		response := map[string]interface{}{
			"id":          101,
			"name":        "Bench Press",
			"description": "Press the barbell up from the chest.",
			"muscles": []map[string]interface{}{
				{"id": 4, "name": "chest"},
			},
			"equipment":    []interface{}{},
			"difficulty":   "intermediate",
			"instructions": []string{"Press up."},
			"images":       []interface{}{},
			"videos":       []interface{}{},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := wger.NewClient(wger.ClientConfig{
		APIKey:     "****",
		BaseURL:    server.URL,
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig("test")),
	})

	exercise, err := client.GetByID(context.Background(), "101")
	require.NoError(t, err)
	require.NotNil(t, exercise)
	assert.Equal(t, "Bench Press", exercise.Name)
}

func TestClient_GetByID_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Not found."})
	}))
	defer server.Close()

	client := wger.NewClient(wger.ClientConfig{
		APIKey:     "****",
		BaseURL:    server.URL,
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig("test")),
	})

	_, err := client.GetByID(context.Background(), "99999")
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrExerciseNotFound)
}

func TestClient_Search_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := resilience.DefaultClientConfig("test")
	cfg.MaxRetries = 0

	client := wger.NewClient(wger.ClientConfig{
		APIKey:     "****",
		BaseURL:    server.URL,
		HTTPClient: resilience.NewClient(cfg),
	})

	_, err := client.Search(context.Background(), catalog.Filters{})
	require.Error(t, err)
}

func TestClient_Search_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := wger.NewClient(wger.ClientConfig{
		APIKey:     "****",
		BaseURL:    server.URL,
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig("test")),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, catalog.Filters{})
	require.Error(t, err)
}

func TestClient_Name(t *testing.T) {
	client := wger.NewClient(wger.ClientConfig{APIKey: "****"})
	assert.Equal(t, "wger", client.Name())
}
