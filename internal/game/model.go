package game

import (
	"errors"
	"math"
)

const (
	MicrosPerCredit = int64(1_000_000)

	StartingMoneyMicros   = int64(50_000) * MicrosPerCredit
	WorkerHireCostMicros  = int64(50_000) * MicrosPerCredit
	WorkerBaseWageMicros  = int64(100_000) // 0.1 credits per second
	WageRaisePerUpgrade   = int64(50_000)
	WorkerUpgradeBaseCost = 25_000.0
	LineUpgradeBaseCost   = 400.0

	WarehouseExpansionBaseCost = 7_500.0
	WarehouseUpgradeBaseAmount = 20.0
	WarehouseUpgradePower      = 1.6
	PowerGridBaseCost          = 30_000.0
	PowerUpgradeBaseAmount     = 15.0
	CertificationBaseCost      = 25_000.0

	MaxProductionLines   = 12
	MaxWarehouseCapacity = 1500
	MaxCertification     = 5
	ProductionQueueCap   = 10

	LinePowerConsumptionMW = 5
	UnitsPerPalletSpace    = 1000

	BaseEnergyDepletion = 0.5
	EnergyRegenPerTick  = 0.25

	WorkerEfficiencyCap = 3.0
	WorkerStaminaCap    = 8.0
	LineEfficiencyCap   = 5.0

	HeadlineRingSize = 10
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownOrder      = errors.New("order not found")
	ErrQueueFull         = errors.New("production queue is full")
	ErrUnknownUpgrade    = errors.New("upgrade not found")
	ErrUnknownWorker     = errors.New("worker not found")
	ErrUnknownLine       = errors.New("production line not found")
	ErrUnknownVehicle    = errors.New("vehicle not owned")
	ErrUnknownMaterial   = errors.New("material not in catalog")
	ErrUnknownInvoice    = errors.New("invoice not found")
	ErrUnknownProject    = errors.New("research project not found")
	ErrCapReached        = errors.New("upgrade cap reached")
	ErrWorkerExhausted   = errors.New("worker has no energy")
	ErrResearchBusy      = errors.New("another research project is in progress")
	ErrNoActiveStrike    = errors.New("no unresolved strike")
	ErrEventActive       = errors.New("an event is already active")
	ErrDuplicateOrder    = errors.New("duplicate order id")
	ErrEmptyShipment     = errors.New("shipment has no pallets")
	ErrOverCapacity      = errors.New("shipment exceeds vehicle capacity")
	ErrInvoiceNotPayable = errors.New("invoice is not payable")
)

func CreditsToMicros(v float64) int64 {
	return int64(math.Round(v * float64(MicrosPerCredit)))
}

func MicrosToCredits(v int64) float64 {
	return float64(v) / float64(MicrosPerCredit)
}

// tierCost computes an escalating upgrade price: floor(base * level^exp) credits.
func tierCost(base float64, level int, exp float64) int64 {
	return int64(math.Floor(base*math.Pow(float64(level), exp))) * MicrosPerCredit
}
