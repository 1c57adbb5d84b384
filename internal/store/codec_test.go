package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"foundry/internal/game"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := game.NewInitialState()
	s.MoneyMicros = 123 * game.MicrosPerCredit
	s.RawMaterials["Resistors"] = 42
	s.Pallets["Widget"] = game.StoredPallet{Quantity: 3, ValueMicros: 10 * game.MicrosPerCredit}
	s.Headlines = []game.Headline{{Text: "hello", At: time.Now().UTC()}}

	data, err := EncodeState(s)
	require.NoError(t, err)

	got, err := DecodeState(data)
	require.NoError(t, err)
	require.Equal(t, s.MoneyMicros, got.MoneyMicros)
	require.Equal(t, 42, got.RawMaterials["Resistors"])
	require.Equal(t, 3, got.Pallets["Widget"].Quantity)
	require.Len(t, got.Headlines, 1)
	require.Len(t, got.Workers, 1)
}

func TestDecodeDoesNotResurrectConsumedEntries(t *testing.T) {
	s := game.NewInitialState()
	// The player bought the pickup: the unlock upgrade is gone.
	delete(s.Upgrades, "unlock_pickup")
	s.Vehicles["pickup"] = game.Vehicle{ID: "pickup", Name: "Pickup Truck", Capacity: 10, TimePerPallet: 10}

	data, err := EncodeState(s)
	require.NoError(t, err)

	got, err := DecodeState(data)
	require.NoError(t, err)
	_, ok := got.Upgrades["unlock_pickup"]
	require.False(t, ok, "consumed upgrade resurrected from defaults")
	_, ok = got.Vehicles["pickup"]
	require.True(t, ok)
}

func TestDecodeMergesDefaultsForMissingFields(t *testing.T) {
	// A save from before research or achievements existed.
	data := []byte(`{"money_micros": 7000000, "warehouse_capacity": 40}`)

	got, err := DecodeState(data)
	require.NoError(t, err)
	require.Equal(t, int64(7_000_000), got.MoneyMicros)
	require.Equal(t, 40, got.WarehouseCapacity)
	require.Len(t, got.Research.Projects, 8, "defaults should fill missing fields")
	require.Len(t, got.Achievements, 15)
	require.Len(t, got.Workers, 1)
}

func TestDecodeNullContainersNormalized(t *testing.T) {
	data := []byte(`{"pallets": null, "raw_materials": null, "upgrades": null, "vehicles": null, "achievements": null, "research": {"projects": null}}`)

	got, err := DecodeState(data)
	require.NoError(t, err)
	require.NotNil(t, got.Pallets)
	require.NotNil(t, got.RawMaterials)
	require.NotNil(t, got.Upgrades)
	require.NotNil(t, got.Vehicles)
	require.NotNil(t, got.Achievements)
	require.NotNil(t, got.Research.Projects)
	require.Empty(t, got.Upgrades)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := DecodeState([]byte(`not json`))
	require.Error(t, err)
}
