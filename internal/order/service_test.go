package order

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pawsworks/petshop/internal/domain"
	"github.com/pawsworks/petshop/pkg/common"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	t.Cleanup(func() {
		_ = db.Migrator().DropTable(domain.Tables...)
	})
	return db
}

func seedCustomer(t *testing.T, db *gorm.DB) *domain.Customer {
	t.Helper()
	cust := &domain.Customer{
		ID:    common.UUIDint64(),
		Name:  "Jordan Lee",
		Email: "jordan@example.com",
	}
	require.NoError(t, db.Create(cust).Error)
	return cust
}

func seedPet(t *testing.T, db *gorm.DB, name string, price float64) *domain.Pet {
	t.Helper()
	pet := &domain.Pet{
		ID:      common.UUIDint64(),
		Name:    name,
		Species: "dog",
		Price:   price,
		Status:  domain.PetStatusAvailable,
	}
	require.NoError(t, db.Create(pet).Error)
	return pet
}

func reloadCustomer(t *testing.T, db *gorm.DB, id int64) *domain.Customer {
	t.Helper()
	var cust domain.Customer
	require.NoError(t, db.First(&cust, id).Error)
	return &cust
}

func TestCreateOrderTotals(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	cust := seedCustomer(t, db)
	pet := seedPet(t, db, "Rex", 100)

	ord, err := svc.Create(context.Background(), CreateInput{
		CustomerId: cust.ID,
		PetIds:     []int64{pet.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, 100.0, ord.Subtotal)
	assert.InDelta(t, 8.0, ord.Tax, 1e-9)
	assert.InDelta(t, 108.0, ord.TotalAmount, 1e-9)
	assert.Equal(t, domain.OrderStatusPending, ord.Status)
	assert.Equal(t, domain.PaymentStatusUnpaid, ord.PaymentStatus)
	require.Len(t, ord.Items, 1)
	assert.Equal(t, pet.ID, ord.Items[0].PetId)
	assert.Equal(t, "Rex", ord.Items[0].PetName)

	// creation must not touch customer stats
	got := reloadCustomer(t, db, cust.ID)
	assert.Equal(t, int64(0), got.TotalPurchases)
	assert.Equal(t, 0.0, got.TotalSpent)

	// pet leaves the catalog with the order
	var petAfter domain.Pet
	require.NoError(t, db.First(&petAfter, pet.ID).Error)
	assert.Equal(t, domain.PetStatusSold, petAfter.Status)
}

func TestCreateOrderMultiplePets(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	cust := seedCustomer(t, db)
	p1 := seedPet(t, db, "Milo", 50)
	p2 := seedPet(t, db, "Luna", 70)

	ord, err := svc.Create(context.Background(), CreateInput{
		CustomerId: cust.ID,
		PetIds:     []int64{p1.ID, p2.ID},
	})
	require.NoError(t, err)

	assert.InDelta(t, 120.0, ord.Subtotal, 1e-9)
	assert.InDelta(t, 9.6, ord.Tax, 1e-9)
	assert.InDelta(t, 129.6, ord.TotalAmount, 1e-9)
	assert.Len(t, ord.Items, 2)
}

func TestCreateOrderAppliesDiscount(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	cust := seedCustomer(t, db)
	pet := seedPet(t, db, "Rex", 100)

	ord, err := svc.Create(context.Background(), CreateInput{
		CustomerId: cust.ID,
		PetIds:     []int64{pet.ID},
		Discount:   20,
	})
	require.NoError(t, err)

	assert.InDelta(t, 20.0, ord.Discount, 1e-9)
	assert.InDelta(t, 88.0, ord.TotalAmount, 1e-9)
}

func TestCreateOrderRejectsUnavailablePet(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	cust := seedCustomer(t, db)
	pet := seedPet(t, db, "Rex", 100)
	require.NoError(t, db.Model(pet).Update("status", domain.PetStatusSold).Error)

	_, err := svc.Create(context.Background(), CreateInput{
		CustomerId: cust.ID,
		PetIds:     []int64{pet.ID},
	})
	assert.ErrorIs(t, err, ErrPetUnavailable)
}

func TestCreateOrderValidation(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	cust := seedCustomer(t, db)

	_, err := svc.Create(context.Background(), CreateInput{CustomerId: cust.ID})
	assert.ErrorIs(t, err, ErrNoItems)

	pet := seedPet(t, db, "Rex", 100)
	_, err = svc.Create(context.Background(), CreateInput{CustomerId: 999999, PetIds: []int64{pet.ID}})
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	_, err = svc.Create(context.Background(), CreateInput{CustomerId: cust.ID, PetIds: []int64{pet.ID, 424242}})
	assert.ErrorIs(t, err, ErrPetNotFound)
}

func TestOrderNoFormat(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	cust := seedCustomer(t, db)
	pet := seedPet(t, db, "Rex", 100)

	ord, err := svc.Create(context.Background(), CreateInput{
		CustomerId: cust.ID,
		PetIds:     []int64{pet.ID},
	})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{6}-\d{4}$`), ord.OrderNo)
}

func TestCompleteOrderUpdatesCustomerStats(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	cust := seedCustomer(t, db)
	pet := seedPet(t, db, "Rex", 100)

	ord, err := svc.Create(context.Background(), CreateInput{
		CustomerId: cust.ID,
		PetIds:     []int64{pet.ID},
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), ord.ID, UpdateInput{Status: domain.OrderStatusCompleted})
	require.NoError(t, err)

	got := reloadCustomer(t, db, cust.ID)
	assert.Equal(t, int64(1), got.TotalPurchases)
	assert.InDelta(t, ord.TotalAmount, got.TotalSpent, 1e-9)
}

func TestNonBoundaryTransitionsLeaveStatsAlone(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	cust := seedCustomer(t, db)
	pet := seedPet(t, db, "Rex", 100)

	ord, err := svc.Create(context.Background(), CreateInput{
		CustomerId: cust.ID,
		PetIds:     []int64{pet.ID},
	})
	require.NoError(t, err)

	for _, next := range []string{
		domain.OrderStatusProcessing,
		domain.OrderStatusCancelled,
		domain.OrderStatusPending,
	} {
		_, err = svc.Update(context.Background(), ord.ID, UpdateInput{Status: next})
		require.NoError(t, err)

		got := reloadCustomer(t, db, cust.ID)
		assert.Equal(t, int64(0), got.TotalPurchases, "after transition to %s", next)
		assert.Equal(t, 0.0, got.TotalSpent, "after transition to %s", next)
	}
}

func TestCompletedRoundTripRestoresStats(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	cust := seedCustomer(t, db)
	pet := seedPet(t, db, "Rex", 100)

	ord, err := svc.Create(context.Background(), CreateInput{
		CustomerId: cust.ID,
		PetIds:     []int64{pet.ID},
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), ord.ID, UpdateInput{Status: domain.OrderStatusCompleted})
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), ord.ID, UpdateInput{Status: domain.OrderStatusPending})
	require.NoError(t, err)

	got := reloadCustomer(t, db, cust.ID)
	assert.Equal(t, int64(0), got.TotalPurchases)
	assert.Equal(t, 0.0, got.TotalSpent)
}

func TestSameStatusUpdateIsNoop(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	cust := seedCustomer(t, db)
	pet := seedPet(t, db, "Rex", 100)

	ord, err := svc.Create(context.Background(), CreateInput{
		CustomerId: cust.ID,
		PetIds:     []int64{pet.ID},
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), ord.ID, UpdateInput{Status: domain.OrderStatusCompleted})
	require.NoError(t, err)

	// repeating Completed must not double count
	_, err = svc.Update(context.Background(), ord.ID, UpdateInput{Status: domain.OrderStatusCompleted})
	require.NoError(t, err)

	got := reloadCustomer(t, db, cust.ID)
	assert.Equal(t, int64(1), got.TotalPurchases)
	assert.InDelta(t, ord.TotalAmount, got.TotalSpent, 1e-9)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	cust := seedCustomer(t, db)
	pet := seedPet(t, db, "Rex", 100)

	ord, err := svc.Create(context.Background(), CreateInput{
		CustomerId: cust.ID,
		PetIds:     []int64{pet.ID},
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), ord.ID, UpdateInput{Status: "Shipped"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDeleteCompletedOrderReversesStatsOnce(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	cust := seedCustomer(t, db)
	pet := seedPet(t, db, "Rex", 100)

	ord, err := svc.Create(context.Background(), CreateInput{
		CustomerId: cust.ID,
		PetIds:     []int64{pet.ID},
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), ord.ID, UpdateInput{Status: domain.OrderStatusCompleted})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), ord.ID))

	got := reloadCustomer(t, db, cust.ID)
	assert.Equal(t, int64(0), got.TotalPurchases)
	assert.Equal(t, 0.0, got.TotalSpent)

	// pets return to the catalog
	var petAfter domain.Pet
	require.NoError(t, db.First(&petAfter, pet.ID).Error)
	assert.Equal(t, domain.PetStatusAvailable, petAfter.Status)

	// items are gone with the order
	var itemCount int64
	require.NoError(t, db.Model(&domain.OrderItem{}).Where("order_id = ?", ord.ID).Count(&itemCount).Error)
	assert.Equal(t, int64(0), itemCount)

	_, err = svc.Get(context.Background(), ord.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestDeletePendingOrderLeavesStatsAlone(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	cust := seedCustomer(t, db)
	pet := seedPet(t, db, "Rex", 100)

	ord, err := svc.Create(context.Background(), CreateInput{
		CustomerId: cust.ID,
		PetIds:     []int64{pet.ID},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), ord.ID))

	got := reloadCustomer(t, db, cust.ID)
	assert.Equal(t, int64(0), got.TotalPurchases)
	assert.Equal(t, 0.0, got.TotalSpent)
}

func TestGetByOrderNo(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	cust := seedCustomer(t, db)
	pet := seedPet(t, db, "Rex", 100)

	ord, err := svc.Create(context.Background(), CreateInput{
		CustomerId: cust.ID,
		PetIds:     []int64{pet.ID},
	})
	require.NoError(t, err)

	got, err := svc.GetByOrderNo(context.Background(), ord.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, ord.ID, got.ID)
	require.Len(t, got.Items, 1)

	_, err = svc.GetByOrderNo(context.Background(), "ORD-000000-0000")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
