package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/poiesic/hearth"
	"github.com/poiesic/hearth/directory"
	dirmock "github.com/poiesic/hearth/directory/mock"
)

// A small demo home: four areas, a handful of devices, and the entities
// they expose. Enough to exercise indexing, search, and the graph without
// a running Entity Directory.
var areas = []*directory.Area{
	{AreaId: "living_room", Name: "Living Room", Aliases: []string{"lounge"}},
	{AreaId: "kitchen", Name: "Kitchen"},
	{AreaId: "bedroom", Name: "Bedroom", Aliases: []string{"master bedroom"}},
	{AreaId: "garage", Name: "Garage"},
}

var devices = []*directory.Device{
	{
		Id: "hue_bridge", Name: "Hue Bridge",
		Manufacturer: "Signify", Model: "BSB002", AreaId: "living_room",
	},
	{
		Id: "hue_bulb_lr", Name: "Hue Bulb Living Room",
		Manufacturer: "Signify", Model: "LCA006", AreaId: "living_room",
		ViaDeviceId: "hue_bridge",
		Entities:    []string{"light.living_room_ceiling"},
	},
	{
		Id: "hue_bulb_br", Name: "Hue Bulb Bedroom",
		Manufacturer: "Signify", Model: "LCA006", AreaId: "bedroom",
		ViaDeviceId: "hue_bridge",
		Entities:    []string{"light.bedroom_lamp"},
	},
	{
		Id: "nest_thermostat", Name: "Nest Thermostat",
		Manufacturer: "Google", Model: "T3007ES", AreaId: "living_room",
		Entities: []string{"climate.living_room", "sensor.living_room_temperature"},
	},
	{
		Id: "aqara_door", Name: "Garage Door Sensor",
		Manufacturer: "Aqara", Model: "MCCGQ11LM", AreaId: "garage",
		Entities: []string{"binary_sensor.garage_door"},
	},
}

var entities = []*directory.EntityRecord{
	{
		EntityId: "light.living_room_ceiling", FriendlyName: "Living Room Ceiling Light",
		State: "off", AreaId: "living_room", DeviceId: "hue_bulb_lr",
	},
	{
		EntityId: "light.bedroom_lamp", FriendlyName: "Bedroom Lamp",
		State: "on", AreaId: "bedroom", DeviceId: "hue_bulb_br",
		Attributes: map[string]any{"brightness": 128},
	},
	{
		EntityId: "light.kitchen_strip", FriendlyName: "Kitchen LED Strip",
		State: "off", AreaId: "kitchen",
	},
	{
		EntityId: "climate.living_room", FriendlyName: "Living Room Thermostat",
		State: "heat", AreaId: "living_room", DeviceId: "nest_thermostat",
		Attributes: map[string]any{"temperature": 21.5, "current_temperature": 20.0},
	},
	{
		EntityId: "sensor.living_room_temperature", FriendlyName: "Living Room Temperature",
		State: "20.0", AreaId: "living_room", DeviceId: "nest_thermostat",
		Attributes: map[string]any{"device_class": "temperature", "unit_of_measurement": "°C"},
	},
	{
		EntityId: "binary_sensor.garage_door", FriendlyName: "Garage Door",
		State: "off", AreaId: "garage", DeviceId: "aqara_door",
		Attributes: map[string]any{"device_class": "door"},
	},
	{
		EntityId: "switch.coffee_maker", FriendlyName: "Coffee Maker",
		State: "off", AreaId: "kitchen",
	},
	{
		EntityId: "media_player.living_room_tv", FriendlyName: "Living Room TV",
		State: "idle", AreaId: "living_room",
	},
	{
		EntityId: "lock.front_door", FriendlyName: "Front Door Lock",
		State: "locked",
	},
	{
		EntityId: "cover.garage_door", FriendlyName: "Garage Door Opener",
		State: "closed", AreaId: "garage",
	},
}

var dbPath = flag.String("db", "./hearth_db", "path to the BadgerDB store")

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

func demoDirectory() *dirmock.Directory {
	dir := dirmock.NewDirectory()
	for _, area := range areas {
		dir.AddArea(area)
	}
	for _, device := range devices {
		dir.AddDevice(device)
	}
	for _, entity := range entities {
		dir.AddEntity(entity)
	}
	return dir
}

func main() {
	resolver, err := hearth.NewResolver(
		hearth.NewConfig(hearth.WithStorePath(*dbPath)),
		hearth.WithDirectory(demoDirectory()),
	)
	if err != nil {
		panic(err)
	}
	defer resolver.Close()

	ctx := context.Background()

	indexer, err := resolver.NewIndexer(ctx)
	if err != nil {
		panic(err)
	}
	defer indexer.Release()

	result, err := indexer.IndexEntities(ctx, nil)
	if err != nil {
		panic(err)
	}
	slog.Info("indexed demo entities",
		"total", result.Total, "succeeded", result.Succeeded, "failed", result.Failed)

	builder, err := resolver.NewBuilder(ctx)
	if err != nil {
		panic(err)
	}
	graphResult, err := builder.Build(ctx)
	if err != nil {
		panic(err)
	}
	slog.Info("built relationship graph",
		"edges", graphResult.Succeeded, "failed", graphResult.Failed)

	engine, err := resolver.NewEngine(ctx)
	if err != nil {
		panic(err)
	}
	matches, err := engine.Search(ctx, "warm lights in the living room", nil)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Sample search returned %d matches\n", len(matches))
	for i, match := range matches {
		fmt.Printf("%d: %s [%0.3f] %s\n", i+1, match.EntityId, match.Score, match.Explanation)
	}
}
