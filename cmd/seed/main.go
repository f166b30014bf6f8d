package main

import (
	"fmt"
	"time"

	"github.com/bixmobil/vest/internal/config"
	"github.com/bixmobil/vest/internal/constants"
	"github.com/bixmobil/vest/internal/logger"
	"github.com/bixmobil/vest/internal/models"
	"github.com/bixmobil/vest/internal/service"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.InitDefaultAgent("Demo Agent", "agent@bixmobilvest.ng"); err != nil {
		stdLog.Fatalf("Failed to init default agent: %v", err)
	}
	var agent models.Agent
	if err := models.DB.Where("email = ?", "agent@bixmobilvest.ng").First(&agent).Error; err != nil {
		stdLog.Fatalf("Failed to load default agent: %v", err)
	}

	// One committed batch per network with a few printed cards.
	now := time.Now()
	seedPlans := []struct {
		Network       string
		BatchNo       string
		Denominations []int64
	}{
		{Network: constants.NetworkMTN, BatchNo: "seed-demo-mtn", Denominations: []int64{100, 200, 500, 500}},
		{Network: constants.NetworkGlo, BatchNo: "seed-demo-glo", Denominations: []int64{1000, 1000, 2000}},
	}

	for _, plan := range seedPlans {
		var batch models.CardBatch
		if err := models.DB.Where("batch_no = ?", plan.BatchNo).First(&batch).Error; err == nil {
			stdLog.Printf("Batch already exists: %s", plan.BatchNo)
			continue
		}

		totalValue := int64(0)
		for _, d := range plan.Denominations {
			totalValue += d
		}
		commission := service.CalculateCommission(decimal.NewFromInt(totalValue), plan.Network)
		printedAt := now
		batch = models.CardBatch{
			BatchNo:    plan.BatchNo,
			AgentID:    agent.ID,
			Network:    plan.Network,
			TotalCards: len(plan.Denominations),
			TotalValue: models.NewMoneyFromDecimal(decimal.NewFromInt(totalValue)),
			Commission: models.NewMoneyFromDecimal(commission),
			PrintedAt:  printedAt,
		}
		if err := models.DB.Create(&batch).Error; err != nil {
			stdLog.Printf("Failed to create batch %s: %v", plan.BatchNo, err)
			continue
		}

		for i, denomination := range plan.Denominations {
			pin := service.GeneratePIN()
			serial := service.GenerateSerialNumber(plan.Network, now.Add(time.Duration(i)*time.Millisecond))
			card := models.RechargeCard{
				BatchID:      batch.ID,
				AgentID:      agent.ID,
				Network:      plan.Network,
				Denomination: denomination,
				PIN:          pin,
				SerialNumber: serial,
				Status:       models.CardStatusPrinted,
				PrintedAt:    &printedAt,
			}
			if err := models.DB.Create(&card).Error; err != nil {
				stdLog.Printf("Failed to create card %s: %v", serial, err)
			}
		}

		stdLog.Printf("Seeded batch %s: cards=%d value=%d commission=%s",
			plan.BatchNo, len(plan.Denominations), totalValue, commission.String())
	}

	fmt.Println("\nSeed data created.")
	fmt.Println("Summary:")
	fmt.Println("- 1 demo agent with wallet account")
	fmt.Println("- 2 printed batches (mtn, glo) with sample cards")
}
