package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"go.uber.org/zap"

	"orderbuilder/internal/logging"
	"orderbuilder/internal/models"
)

// ErrOrderNotFound is returned when no order matches a lookup.
var ErrOrderNotFound = models.ErrOrderNotFound

// CatalogRepository reads catalog items.
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository wraps db.
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// List returns every catalog item ordered by category then name.
func (r *CatalogRepository) List(ctx context.Context) ([]models.CatalogItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items := []models.CatalogItem{}
	if err := r.db.Order("category asc").Order("name asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	return items, nil
}

// FindByIDs returns the items for ids keyed by id. Missing ids are absent
// from the result.
func (r *CatalogRepository) FindByIDs(ctx context.Context, ids []string) (map[string]models.CatalogItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var items []models.CatalogItem
	if err := r.db.Where("id IN (?)", ids).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("find catalog items: %w", err)
	}
	byID := make(map[string]models.CatalogItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return byID, nil
}

// OrderRepository stores submitted orders.
type OrderRepository struct {
	db      *gorm.DB
	catalog *CatalogRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewOrderRepository wraps db. A nil logger disables logging.
func NewOrderRepository(db *gorm.DB, logger *zap.Logger) *OrderRepository {
	return &OrderRepository{
		db:      db,
		catalog: NewCatalogRepository(db),
		logger:  logging.OrNop(logger),
		now:     time.Now,
	}
}

// Create validates ingredientIDs against the catalog and stores a new pending
// order under the next sequential number.
func (r *OrderRepository) Create(ctx context.Context, ingredientIDs []string) (*models.Order, error) {
	if len(ingredientIDs) == 0 {
		return nil, models.ErrEmptyOrder
	}
	known, err := r.catalog.FindByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range ingredientIDs {
		if _, ok := known[id]; !ok {
			return nil, fmt.Errorf("%w: %s", models.ErrUnknownIngredient, id)
		}
	}

	order := &models.Order{
		PublicID: uuid.NewString(),
		Name:     OrderName(ingredientIDs, known),
		Status:   string(models.OrderStatusPending),
	}
	for i, id := range ingredientIDs {
		order.Items = append(order.Items, models.OrderItem{Position: i, IngredientID: id})
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		var last struct{ LastNumber int }
		if err := tx.Model(&models.Order{}).Unscoped().Select("COALESCE(MAX(number), 0) AS last_number").Scan(&last).Error; err != nil {
			return fmt.Errorf("next order number: %w", err)
		}
		order.Number = last.LastNumber + 1
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("order created",
		zap.Int("number", order.Number),
		zap.String("name", order.Name),
		zap.Int("ingredients", len(ingredientIDs)))
	return order, nil
}

// Recent returns up to limit orders, newest first, with the total and today's
// order counts.
func (r *OrderRepository) Recent(ctx context.Context, limit int) (models.FeedSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return models.FeedSnapshot{}, err
	}

	var orders []models.Order
	err := r.withItems().Order("number desc").Limit(limit).Find(&orders).Error
	if err != nil {
		return models.FeedSnapshot{}, fmt.Errorf("list orders: %w", err)
	}

	var total, today int
	if err := r.db.Model(&models.Order{}).Count(&total).Error; err != nil {
		return models.FeedSnapshot{}, fmt.Errorf("count orders: %w", err)
	}
	if err := r.db.Model(&models.Order{}).Where("created_at >= ?", startOfDay(r.now())).Count(&today).Error; err != nil {
		return models.FeedSnapshot{}, fmt.Errorf("count today's orders: %w", err)
	}

	snapshot := models.FeedSnapshot{
		Orders:     make([]models.FeedOrder, 0, len(orders)),
		Total:      total,
		TotalToday: today,
	}
	for i := range orders {
		snapshot.Orders = append(snapshot.Orders, orders[i].FeedOrder())
	}
	return snapshot, nil
}

// FindByNumber returns the order with the given display number.
func (r *OrderRepository) FindByNumber(ctx context.Context, number int) (*models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var order models.Order
	err := r.withItems().Where("number = ?", number).First(&order).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order %d: %w", number, err)
	}
	return &order, nil
}

// UpdateStatus moves the order with the given number to status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, number int, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid order status %q", status)
	}
	order, err := r.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if err := r.db.Model(order).Update("status", string(status)).Error; err != nil {
		return nil, fmt.Errorf("update order %d: %w", number, err)
	}
	order.Status = string(status)
	r.logger.Info("order status updated", zap.Int("number", number), zap.String("status", string(status)))
	return order, nil
}

func (r *OrderRepository) withItems() *gorm.DB {
	return r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	})
}

// OrderName derives a display name from the first word of each distinct
// ingredient name, in placement order.
func OrderName(ingredientIDs []string, items map[string]models.CatalogItem) string {
	seen := make(map[string]bool, len(ingredientIDs))
	words := make([]string, 0, len(ingredientIDs)+1)
	for _, id := range ingredientIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		fields := strings.Fields(items[id].Name)
		if len(fields) == 0 {
			continue
		}
		words = append(words, fields[0])
	}
	words = append(words, "burger")
	return strings.Join(words, " ")
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
