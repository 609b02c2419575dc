package order

import (
	"context"
	"fmt"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/labstack/gommon/random"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pawsworks/petshop/internal/domain"
	"github.com/pawsworks/petshop/pkg/common"
)

// TaxRate is the flat tax applied to order subtotals at creation time.
const TaxRate = 0.08

// orderNoAttempts bounds the retry loop on order number collisions.
const orderNoAttempts = 5

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrPetNotFound      = errors.New("pet not found")
	ErrPetUnavailable   = errors.New("pet is not available")
	ErrInvalidStatus    = errors.New("invalid order status")
	ErrNoItems          = errors.New("order requires at least one pet")
	ErrOrderNoExhausted = errors.New("could not allocate a unique order number")
)

// Service owns order lifecycle operations and the customer statistics rule:
// total_purchases/total_spent on the customer record always equal the count
// and amount sum of that customer's Completed orders. The rule fires only on
// transitions that cross the Completed boundary, and every read-modify-write
// runs inside a single database transaction.
type Service struct {
	db  *gorm.DB
	bus EventBus.Bus
}

func NewService(db *gorm.DB, bus EventBus.Bus) *Service {
	return &Service{db: db, bus: bus}
}

// CreateInput carries the order creation request
type CreateInput struct {
	CustomerId    int64
	PetIds        []int64
	Discount      float64
	PaymentMethod string
	Remark        string
}

// Create snapshots the referenced pets into line items, computes the order
// totals (subtotal + flat tax - discount) and marks the pets sold.
// Customer statistics are never touched here; only the transition into
// Completed affects the counters.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	if len(in.PetIds) == 0 {
		return nil, ErrNoItems
	}

	var created *domain.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer domain.Customer
		if err := tx.First(&customer, in.CustomerId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return errors.Wrap(err, "query customer")
		}

		var pets []domain.Pet
		if err := tx.Where("id IN ?", in.PetIds).Find(&pets).Error; err != nil {
			return errors.Wrap(err, "query pets")
		}
		if len(pets) != len(in.PetIds) {
			return ErrPetNotFound
		}

		var subtotal float64
		items := make([]domain.OrderItem, 0, len(pets))
		for _, pet := range pets {
			if pet.Status != domain.PetStatusAvailable {
				return errors.Wrapf(ErrPetUnavailable, "pet %d status %s", pet.ID, pet.Status)
			}
			items = append(items, domain.OrderItem{
				ID:         common.UUIDint64(),
				PetId:      pet.ID,
				PetName:    pet.Name,
				PetSpecies: pet.Species,
				Price:      pet.Price,
			})
			subtotal += pet.Price
		}

		tax := subtotal * TaxRate
		now := time.Now()
		ord := &domain.Order{
			ID:            common.UUIDint64(),
			CustomerId:    customer.ID,
			Items:         items,
			Subtotal:      subtotal,
			Tax:           tax,
			Discount:      in.Discount,
			TotalAmount:   subtotal + tax - in.Discount,
			PaymentMethod: in.PaymentMethod,
			PaymentStatus: domain.PaymentStatusUnpaid,
			Status:        domain.OrderStatusPending,
			Remark:        in.Remark,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		no, err := s.nextOrderNo(tx)
		if err != nil {
			return err
		}
		ord.OrderNo = no

		if err := tx.Create(ord).Error; err != nil {
			return errors.Wrap(err, "create order")
		}

		if err := tx.Model(&domain.Pet{}).Where("id IN ?", in.PetIds).
			Updates(map[string]interface{}{
				"status":     domain.PetStatusSold,
				"updated_at": now,
			}).Error; err != nil {
			return errors.Wrap(err, "mark pets sold")
		}

		created = ord
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("order created",
		zap.String("order_no", created.OrderNo),
		zap.Int64("customer_id", created.CustomerId),
		zap.Float64("total_amount", created.TotalAmount))
	return created, nil
}

// nextOrderNo allocates an order number of the form ORD-YYMMDD-RRRR.
// The 4 digit suffix gives 10000 possibilities per day, so collisions are
// checked and retried; the unique index on order_no is the backstop for
// concurrent allocations.
func (s *Service) nextOrderNo(tx *gorm.DB) (string, error) {
	prefix := time.Now().Format("060102")
	for i := 0; i < orderNoAttempts; i++ {
		no := fmt.Sprintf("ORD-%s-%s", prefix, random.String(4, random.Numeric))
		var count int64
		if err := tx.Model(&domain.Order{}).Where("order_no = ?", no).Count(&count).Error; err != nil {
			return "", errors.Wrap(err, "check order number")
		}
		if count == 0 {
			return no, nil
		}
	}
	return "", ErrOrderNoExhausted
}

// UpdateInput carries the mutable order fields. Totals, items, tax and
// discount are immutable after creation so a Completed reversal always
// restores exactly the originally applied amount.
type UpdateInput struct {
	Status        string
	PaymentStatus string
	PaymentMethod string
	Remark        string
}

// Update applies the mutable fields and runs the statistics transition rule
// when the status crosses the Completed boundary. The previous status read,
// the order update and the counter adjustment share one transaction.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*domain.Order, error) {
	if in.Status != "" && !domain.ValidOrderStatus(in.Status) {
		return nil, ErrInvalidStatus
	}

	var updated *domain.Order
	var change *StatusChange
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ord domain.Order
		if err := tx.First(&ord, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return errors.Wrap(err, "query order")
		}

		updates := map[string]interface{}{"updated_at": time.Now()}
		if in.PaymentStatus != "" {
			updates["payment_status"] = in.PaymentStatus
		}
		if in.PaymentMethod != "" {
			updates["payment_method"] = in.PaymentMethod
		}
		if in.Remark != "" {
			updates["remark"] = in.Remark
		}

		prev := ord.Status
		if in.Status != "" && in.Status != prev {
			updates["status"] = in.Status
		}

		if err := tx.Model(&domain.Order{}).Where("id = ?", ord.ID).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "update order")
		}

		if in.Status != "" && in.Status != prev {
			if err := s.applyStatsTransition(tx, &ord, prev, in.Status); err != nil {
				return err
			}
			change = &StatusChange{
				OrderId:    ord.ID,
				OrderNo:    ord.OrderNo,
				CustomerId: ord.CustomerId,
				From:       prev,
				To:         in.Status,
				Amount:     ord.TotalAmount,
			}
		}

		if err := tx.Preload("Items").First(&ord, ord.ID).Error; err != nil {
			return errors.Wrap(err, "reload order")
		}
		updated = &ord
		return nil
	})
	if err != nil {
		return nil, err
	}

	if change != nil && s.bus != nil {
		s.bus.Publish(TopicOrderStatusChanged, *change)
	}
	return updated, nil
}

// applyStatsTransition adjusts the customer counters when exactly one side
// of the transition is Completed. A missing customer row makes the update
// affect zero rows rather than erroring; the reconciliation job reports it.
func (s *Service) applyStatsTransition(tx *gorm.DB, ord *domain.Order, prev, next string) error {
	completedBefore := prev == domain.OrderStatusCompleted
	completedAfter := next == domain.OrderStatusCompleted
	if completedBefore == completedAfter {
		return nil
	}

	delta := 1
	amount := ord.TotalAmount
	if completedBefore {
		delta = -1
		amount = -amount
	}

	err := tx.Model(&domain.Customer{}).Where("id = ?", ord.CustomerId).
		Updates(map[string]interface{}{
			"total_purchases": gorm.Expr("total_purchases + ?", delta),
			"total_spent":     gorm.Expr("total_spent + ?", amount),
			"updated_at":      time.Now(),
		}).Error
	if err != nil {
		return errors.Wrap(err, "adjust customer stats")
	}
	return nil
}

// Delete removes the order and its items, reverses the statistics
// contribution if the order was Completed, and restores every referenced pet
// to available regardless of order status. The whole operation is one
// transaction and is irreversible.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ord domain.Order
		if err := tx.Preload("Items").First(&ord, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return errors.Wrap(err, "query order")
		}

		if ord.Status == domain.OrderStatusCompleted {
			if err := s.applyStatsTransition(tx, &ord, domain.OrderStatusCompleted, domain.OrderStatusCancelled); err != nil {
				return err
			}
		}

		petIds := make([]int64, 0, len(ord.Items))
		for _, item := range ord.Items {
			petIds = append(petIds, item.PetId)
		}
		if len(petIds) > 0 {
			if err := tx.Model(&domain.Pet{}).Where("id IN ?", petIds).
				Updates(map[string]interface{}{
					"status":     domain.PetStatusAvailable,
					"updated_at": time.Now(),
				}).Error; err != nil {
				return errors.Wrap(err, "restore pets")
			}
		}

		if err := tx.Where("order_id = ?", ord.ID).Delete(&domain.OrderItem{}).Error; err != nil {
			return errors.Wrap(err, "delete order items")
		}
		if err := tx.Delete(&domain.Order{}, ord.ID).Error; err != nil {
			return errors.Wrap(err, "delete order")
		}
		return nil
	})
}

// Get loads an order with its items
func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	var ord domain.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&ord, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query order")
	}
	return &ord, nil
}

// GetByOrderNo loads an order by its public order number
func (s *Service) GetByOrderNo(ctx context.Context, orderNo string) (*domain.Order, error) {
	var ord domain.Order
	err := s.db.WithContext(ctx).Preload("Items").Where("order_no = ?", orderNo).First(&ord).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query order")
	}
	return &ord, nil
}
