package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pawsworks/petshop/internal/domain"
	"github.com/pawsworks/petshop/pkg/common"
)

func testApp(t *testing.T) *Application {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	t.Cleanup(func() {
		_ = db.Migrator().DropTable(domain.Tables...)
	})
	return &Application{gormDB: db}
}

func TestReconcileRepairsDriftedCounters(t *testing.T) {
	a := testApp(t)

	cust := domain.Customer{
		ID:    common.UUIDint64(),
		Name:  "Sam Park",
		Email: "sam@example.com",
		// drifted values
		TotalPurchases: 9,
		TotalSpent:     999,
	}
	require.NoError(t, a.gormDB.Create(&cust).Error)

	orders := []domain.Order{
		{ID: common.UUIDint64(), OrderNo: "ORD-260901-0001", CustomerId: cust.ID, TotalAmount: 108, Status: domain.OrderStatusCompleted},
		{ID: common.UUIDint64(), OrderNo: "ORD-260901-0002", CustomerId: cust.ID, TotalAmount: 54, Status: domain.OrderStatusCompleted},
		{ID: common.UUIDint64(), OrderNo: "ORD-260901-0003", CustomerId: cust.ID, TotalAmount: 200, Status: domain.OrderStatusPending},
	}
	for i := range orders {
		require.NoError(t, a.gormDB.Create(&orders[i]).Error)
	}

	require.NoError(t, a.ReconcileCustomerStats())

	var got domain.Customer
	require.NoError(t, a.gormDB.First(&got, cust.ID).Error)
	assert.Equal(t, int64(2), got.TotalPurchases)
	assert.InDelta(t, 162.0, got.TotalSpent, 1e-9)
}

func TestReconcileZeroesCustomerWithoutCompletedOrders(t *testing.T) {
	a := testApp(t)

	cust := domain.Customer{
		ID:             common.UUIDint64(),
		Name:           "Alex Kim",
		Email:          "alex@example.com",
		TotalPurchases: 3,
		TotalSpent:     300,
	}
	require.NoError(t, a.gormDB.Create(&cust).Error)

	require.NoError(t, a.ReconcileCustomerStats())

	var got domain.Customer
	require.NoError(t, a.gormDB.First(&got, cust.ID).Error)
	assert.Equal(t, int64(0), got.TotalPurchases)
	assert.Equal(t, 0.0, got.TotalSpent)
}

func TestReconcileLeavesConsistentCustomerAlone(t *testing.T) {
	a := testApp(t)

	cust := domain.Customer{
		ID:             common.UUIDint64(),
		Name:           "Riley Chen",
		Email:          "riley@example.com",
		TotalPurchases: 1,
		TotalSpent:     108,
	}
	require.NoError(t, a.gormDB.Create(&cust).Error)
	require.NoError(t, a.gormDB.Create(&domain.Order{
		ID: common.UUIDint64(), OrderNo: "ORD-260901-0009",
		CustomerId: cust.ID, TotalAmount: 108, Status: domain.OrderStatusCompleted,
	}).Error)

	before := cust.UpdatedAt
	require.NoError(t, a.ReconcileCustomerStats())

	var got domain.Customer
	require.NoError(t, a.gormDB.First(&got, cust.ID).Error)
	assert.Equal(t, int64(1), got.TotalPurchases)
	assert.InDelta(t, 108.0, got.TotalSpent, 1e-9)
	assert.Equal(t, before.Unix(), got.UpdatedAt.Unix())
}
