package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/pawsworks/petshop/internal/domain"
)

type customerStatsRow struct {
	CustomerId int64
	Purchases  int64
	Spent      float64
}

// ReconcileCustomerStats recomputes total_purchases/total_spent for every
// customer from the orders currently in Completed status and repairs any
// counter that has drifted. The transition rule keeps the counters correct
// in the normal case; this job heals drift caused by direct database edits
// or interrupted requests.
func (a *Application) ReconcileCustomerStats() error {
	var rows []customerStatsRow
	err := a.gormDB.Model(&domain.Order{}).
		Select("customer_id, COUNT(*) AS purchases, COALESCE(SUM(total_amount), 0) AS spent").
		Where("status = ?", domain.OrderStatusCompleted).
		Group("customer_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	truth := make(map[int64]customerStatsRow, len(rows))
	for _, row := range rows {
		truth[row.CustomerId] = row
	}

	var customers []domain.Customer
	if err := a.gormDB.Find(&customers).Error; err != nil {
		return err
	}

	repaired := 0
	for _, cust := range customers {
		want := truth[cust.ID]
		if cust.TotalPurchases == want.Purchases && cust.TotalSpent == want.Spent {
			continue
		}
		err := a.gormDB.Model(&domain.Customer{}).Where("id = ?", cust.ID).
			Updates(map[string]interface{}{
				"total_purchases": want.Purchases,
				"total_spent":     want.Spent,
				"updated_at":      time.Now(),
			}).Error
		if err != nil {
			zap.L().Error("failed to repair customer stats",
				zap.Int64("customer_id", cust.ID), zap.Error(err))
			continue
		}
		repaired++
		zap.L().Warn("repaired drifted customer stats",
			zap.Int64("customer_id", cust.ID),
			zap.Int64("purchases", want.Purchases),
			zap.Float64("spent", want.Spent))
	}

	if repaired > 0 {
		zap.L().Info("customer stats reconciliation finished", zap.Int("repaired", repaired))
	}
	return nil
}
