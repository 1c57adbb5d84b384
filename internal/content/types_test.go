package content

import (
	"testing"

	"github.com/stretchr/testify/require"

	"foundry/internal/game"
)

func validOrder() GeneratedOrder {
	return GeneratedOrder{
		ProductName:   "FM Radio Kit",
		Quantity:      50,
		RewardCredits: 4_500,
		TimeToProduce: 120,
		MaterialRequirements: map[string]int{
			"Resistors":  40,
			"Capacitors": 30,
		},
	}
}

func TestGeneratedOrderValidate(t *testing.T) {
	require.NoError(t, validOrder().Validate())

	o := validOrder()
	o.Quantity = 4
	require.Error(t, o.Validate(), "quantity below floor")

	o = validOrder()
	o.Quantity = 501
	require.Error(t, o.Validate(), "quantity above cap")

	o = validOrder()
	o.RewardCredits = 50
	require.Error(t, o.Validate(), "reward below floor")

	o = validOrder()
	o.MaterialRequirements = map[string]int{"Unobtainium": 30}
	require.Error(t, o.Validate(), "unknown material")

	o = validOrder()
	o.MaterialRequirements["Resistors"] = 10
	require.NoError(t, o.Validate(), "light per-unit requirements are fine")

	o = validOrder()
	o.MaterialRequirements["Resistors"] = 0
	require.Error(t, o.Validate(), "per-unit requirement below floor")

	o = validOrder()
	o.MaterialRequirements["Resistors"] = 101
	require.Error(t, o.Validate(), "per-unit requirement above cap")

	o = validOrder()
	o.MaterialRequirements = map[string]int{
		"Resistors": 30, "Capacitors": 30, "LEDs": 30, "Diodes": 30,
	}
	require.Error(t, o.Validate(), "too many materials")

	o = validOrder()
	o.IsContract = true
	require.Error(t, o.Validate(), "contract without reputation")
	o.ReputationReward = 10
	require.NoError(t, o.Validate())
	o.ReputationReward = 21
	require.Error(t, o.Validate(), "reputation above cap")
}

func TestGeneratedOrderToOrder(t *testing.T) {
	o := validOrder()
	got := o.ToOrder()
	require.Equal(t, int64(4_500)*game.MicrosPerCredit, got.RewardMicros)
	require.Equal(t, 50, got.Quantity)
	require.Zero(t, got.ID, "engine assigns ids")
}

func TestGeneratedEventValidate(t *testing.T) {
	base := GeneratedEvent{
		Name:        "Component Shortage",
		Description: "Resistor prices spike worldwide.",
		Type:        game.EventRawMaterialPriceChange,
		Duration:    120,
		TargetItem:  "Resistors", PriceMultiplier: 2.5,
	}
	require.NoError(t, base.Validate())

	e := base
	e.Duration = 30
	require.Error(t, e.Validate(), "too short")
	e.Duration = 600
	require.Error(t, e.Validate(), "too long")

	e = base
	e.Type = "ALIEN_INVASION"
	require.Error(t, e.Validate(), "unknown type")

	e = base
	e.TargetItem = "Stardust"
	require.Error(t, e.Validate(), "unknown material target")

	e = GeneratedEvent{
		Name: "Strike", Description: "Workers walk out.",
		Type: game.EventWorkerStrike, Duration: 180,
	}
	require.Error(t, e.Validate(), "strike without demand")
	e.StrikeDemand = 10_000
	require.NoError(t, e.Validate())

	e = GeneratedEvent{
		Name: "Boost", Description: "Everything hums.",
		Type: game.EventGlobalEfficiencyBoost, Duration: 120,
		EfficiencyBoost: 0.9,
	}
	require.Error(t, e.Validate(), "boost must exceed 1")

	e = GeneratedEvent{
		Name: "Port Congestion", Description: "Deliveries stall.",
		Type: game.EventSupplyChainDelay, Duration: 120,
	}
	require.Error(t, e.Validate(), "delay without delay time")
}

func TestGeneratedEventToEvent(t *testing.T) {
	e := GeneratedEvent{
		Name: "Strike", Description: "Workers walk out.",
		Type: game.EventWorkerStrike, Duration: 180,
		StrikeDemand: 10_000,
	}
	got := e.ToEvent()
	require.Equal(t, int64(10_000)*game.MicrosPerCredit, got.StrikeDemandMicros)
	require.False(t, got.Resolved)
	require.Zero(t, got.ID)
}

func TestGeneratedNewsValidate(t *testing.T) {
	require.NoError(t, GeneratedNews{Headline: "Factory output hits record high"}.Validate())
	require.Error(t, GeneratedNews{}.Validate())

	long := make([]byte, 71)
	for i := range long {
		long[i] = 'x'
	}
	require.Error(t, GeneratedNews{Headline: string(long)}.Validate())
}
