package content

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"foundry/internal/game"
)

var validate = validator.New()

// GeneratedOrder is the generator service's order payload. Rewards are in
// whole credits on the wire; the engine stores micros.
type GeneratedOrder struct {
	ProductName          string         `json:"product_name" validate:"required,max=64"`
	Quantity             int            `json:"quantity" validate:"required,gte=5,lte=500"`
	RewardCredits        float64        `json:"reward" validate:"required,gte=100"`
	TimeToProduce        float64        `json:"time_to_produce" validate:"required,gt=0"`
	MaterialRequirements map[string]int `json:"material_requirements" validate:"required,min=1,max=3"`
	IsContract           bool           `json:"is_contract"`
	ReputationReward     int            `json:"reputation_reward" validate:"gte=0,lte=20"`
}

// Validate applies the schema plus the catalog checks the tags cannot express.
func (o GeneratedOrder) Validate() error {
	if err := validate.Struct(o); err != nil {
		return err
	}
	for material, perUnit := range o.MaterialRequirements {
		if _, ok := game.MaterialCatalog[material]; !ok {
			return fmt.Errorf("unknown material %q", material)
		}
		if perUnit < 1 || perUnit > 100 {
			return fmt.Errorf("material %q requirement %d outside 1..100", material, perUnit)
		}
	}
	if o.IsContract && o.ReputationReward == 0 {
		return fmt.Errorf("contract order carries no reputation reward")
	}
	return nil
}

func (o GeneratedOrder) ToOrder() game.Order {
	return game.Order{
		ProductName:          o.ProductName,
		Quantity:             o.Quantity,
		RewardMicros:         game.CreditsToMicros(o.RewardCredits),
		TimeToProduce:        o.TimeToProduce,
		MaterialRequirements: o.MaterialRequirements,
		IsContract:           o.IsContract,
		ReputationReward:     o.ReputationReward,
	}
}

// GeneratedEvent is the generator service's event payload. StrikeDemand is in
// whole credits on the wire.
type GeneratedEvent struct {
	Name            string  `json:"name" validate:"required,max=64"`
	Description     string  `json:"description" validate:"required,max=280"`
	Type            string  `json:"type" validate:"required,oneof=RAW_MATERIAL_PRICE_CHANGE PRODUCT_DEMAND_SURGE GLOBAL_EFFICIENCY_BOOST WORKER_STRIKE SUPPLY_CHAIN_DELAY"`
	Duration        float64 `json:"duration" validate:"required,gte=60,lte=300"`
	TargetItem      string  `json:"target_item,omitempty"`
	PriceMultiplier float64 `json:"price_multiplier,omitempty"`
	EfficiencyBoost float64 `json:"efficiency_boost,omitempty"`
	StrikeDemand    float64 `json:"strike_demand,omitempty"`
	DelayTime       float64 `json:"delay_time,omitempty"`
}

func (e GeneratedEvent) Validate() error {
	if err := validate.Struct(e); err != nil {
		return err
	}
	switch e.Type {
	case game.EventRawMaterialPriceChange:
		if _, ok := game.MaterialCatalog[e.TargetItem]; !ok {
			return fmt.Errorf("price change targets unknown material %q", e.TargetItem)
		}
		if e.PriceMultiplier <= 0 {
			return fmt.Errorf("price change needs a positive multiplier")
		}
	case game.EventProductDemandSurge:
		if e.TargetItem == "" {
			return fmt.Errorf("demand surge needs a target product")
		}
		if e.PriceMultiplier <= 1 {
			return fmt.Errorf("demand surge multiplier must exceed 1")
		}
	case game.EventGlobalEfficiencyBoost:
		if e.EfficiencyBoost <= 1 {
			return fmt.Errorf("efficiency boost must exceed 1")
		}
	case game.EventWorkerStrike:
		if e.StrikeDemand <= 0 {
			return fmt.Errorf("strike needs a positive demand")
		}
	case game.EventSupplyChainDelay:
		if e.DelayTime <= 0 {
			return fmt.Errorf("supply delay needs a positive delay time")
		}
	}
	return nil
}

func (e GeneratedEvent) ToEvent() game.SpecialEvent {
	return game.SpecialEvent{
		Name:               e.Name,
		Description:        e.Description,
		Type:               e.Type,
		Duration:           e.Duration,
		TargetItem:         e.TargetItem,
		PriceMultiplier:    e.PriceMultiplier,
		EfficiencyBoost:    e.EfficiencyBoost,
		StrikeDemandMicros: game.CreditsToMicros(e.StrikeDemand),
		DelayTime:          e.DelayTime,
	}
}

type GeneratedNews struct {
	Headline string `json:"headline" validate:"required,max=70"`
}

func (n GeneratedNews) Validate() error {
	return validate.Struct(n)
}
