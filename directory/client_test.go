package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/entities", func(w http.ResponseWriter, r *http.Request) {
		entities := []*EntityRecord{
			{EntityId: "light.living_room", Domain: "light", FriendlyName: "Living Room Light", State: "on"},
			{EntityId: "sensor.kitchen_temp", Domain: "sensor", FriendlyName: "Kitchen Temperature", State: "21.5"},
		}
		if domain := r.URL.Query().Get("domain"); domain != "" {
			var filtered []*EntityRecord
			for _, e := range entities {
				if e.Domain == domain {
					filtered = append(filtered, e)
				}
			}
			entities = filtered
		}
		json.NewEncoder(w).Encode(entities)
	})

	mux.HandleFunc("/api/entities/light.living_room", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(&EntityRecord{
			EntityId:     "light.living_room",
			Domain:       "light",
			FriendlyName: "Living Room Light",
			State:        "on",
			AreaId:       "living_room",
			Attributes:   map[string]any{"brightness": 128.0},
		})
	})

	mux.HandleFunc("/api/areas", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]*Area{
			{AreaId: "living_room", Name: "Living Room", Aliases: []string{"lounge"}},
		})
	})

	mux.HandleFunc("/api/devices", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]*Device{
			{Id: "dev1", Name: "Hue Bridge", Manufacturer: "Signify"},
		})
	})

	mux.HandleFunc("/api/automations", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]*Automation{{Id: "auto1", Alias: "Night mode"}})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClientGetEntities(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL, WithToken("secret"))
	ctx := context.Background()

	t.Run("all entities", func(t *testing.T) {
		entities, err := client.GetEntities(ctx, "", "", 0)
		require.NoError(t, err)
		assert.Len(t, entities, 2)
	})

	t.Run("domain filter", func(t *testing.T) {
		entities, err := client.GetEntities(ctx, "light", "", 0)
		require.NoError(t, err)
		require.Len(t, entities, 1)
		assert.Equal(t, "light.living_room", entities[0].EntityId)
	})
}

func TestClientGetEntityState(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL, WithToken("secret"))
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		entity, err := client.GetEntityState(ctx, "light.living_room")
		require.NoError(t, err)
		assert.Equal(t, "on", entity.State)
		assert.Equal(t, "living_room", entity.AreaId)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := client.GetEntityState(ctx, "light.nonexistent")
		assert.ErrorIs(t, err, ErrEntityNotFound)
	})
}

func TestClientCollections(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL, WithToken("secret"))
	ctx := context.Background()

	areas, err := client.GetAreas(ctx)
	require.NoError(t, err)
	require.Len(t, areas, 1)
	assert.Equal(t, []string{"lounge"}, areas[0].Aliases)

	devices, err := client.GetDevices(ctx)
	require.NoError(t, err)
	assert.Len(t, devices, 1)

	automations, err := client.GetAutomations(ctx)
	require.NoError(t, err)
	assert.Len(t, automations, 1)
}

func TestClientUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	_, err := client.GetAreas(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDomainOf(t *testing.T) {
	assert.Equal(t, "light", DomainOf("light.living_room"))
	assert.Equal(t, "media_player", DomainOf("media_player.tv"))
	assert.Equal(t, "oddball", DomainOf("oddball"))
}
