package services

import (
	"context"
	"time"

	"github.com/sigitdim/fortisapp-sub001/models"
	"github.com/sigitdim/fortisapp-sub001/utils"
	"gorm.io/gorm"
)

// PriceNotifier receives ingredient price changes.
type PriceNotifier interface {
	BroadcastPriceChanged(ownerID uint, data interface{})
}

// PriceChange is the payload of an ingredient_price_changed event.
type PriceChange struct {
	IngredientID uint      `json:"ingredient_id"`
	Name         string    `json:"name"`
	OldPrice     int64     `json:"old_price"`
	NewPrice     int64     `json:"new_price"`
	OldQty       float64   `json:"old_qty"`
	NewQty       float64   `json:"new_qty"`
	UnitPrice    float64   `json:"unit_price"`
	ChangedAt    time.Time `json:"changed_at"`
}

// rescanWindow is how far behind the cursor each poll looks again. Auto-increment
// ids are assigned before commit, so a slow transaction can land below ids
// that were already read. Rows that commit further back than this are missed.
const rescanWindow uint = 50

// ChangeMonitor follows the ingredient price history and pushes recomputed
// HPP for every product that uses a changed ingredient.
type ChangeMonitor struct {
	DB       *gorm.DB
	HPP      *HPPService
	Notifier PriceNotifier
	StopChan chan struct{}
	Interval time.Duration

	lastID uint
	floor  uint
	seen   map[uint]struct{}
}

func NewChangeMonitor(db *gorm.DB, hpp *HPPService, notifier PriceNotifier) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		HPP:      hpp,
		Notifier: notifier,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
		seen:     make(map[uint]struct{}),
	}
}

// Start skips history written before the monitor started.
func (cm *ChangeMonitor) Start() {
	var last models.IngredientPriceHistory
	if err := cm.DB.Order("id DESC").Limit(1).Find(&last).Error; err != nil {
		utils.ErrorLogger.Printf("Error reading price history cursor: %v", err)
	}
	cm.lastID = last.ID
	cm.floor = last.ID

	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.CheckChanges(context.Background())
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

// CheckChanges processes history rows not handled yet and returns how many
// were handled. Each poll re-reads rescanWindow ids behind the cursor.
func (cm *ChangeMonitor) CheckChanges(ctx context.Context) int {
	if cm.seen == nil {
		cm.seen = make(map[uint]struct{})
	}
	from := cm.floor
	if cm.lastID > rescanWindow && cm.lastID-rescanWindow > from {
		from = cm.lastID - rescanWindow
	}

	var changes []models.IngredientPriceHistory
	if err := cm.DB.WithContext(ctx).
		Preload("Ingredient").
		Where("id > ?", from).
		Order("id ASC").
		Limit(int(rescanWindow) + 100).
		Find(&changes).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching price changes: %v", err)
		return 0
	}

	handled := 0
	for _, change := range changes {
		if _, ok := cm.seen[change.ID]; ok {
			continue
		}
		cm.seen[change.ID] = struct{}{}
		if change.ID > cm.lastID {
			cm.lastID = change.ID
		}
		handled++
		if change.Ingredient.ID == 0 {
			// ingredient deleted since
			continue
		}
		ownerID := change.Ingredient.OwnerID

		if cm.Notifier != nil {
			cm.Notifier.BroadcastPriceChanged(ownerID, PriceChange{
				IngredientID: change.IngredientID,
				Name:         change.Ingredient.Name,
				OldPrice:     change.OldPrice,
				NewPrice:     change.NewPrice,
				OldQty:       change.OldQty,
				NewQty:       change.NewQty,
				UnitPrice:    change.Ingredient.UnitPrice(),
				ChangedAt:    change.ChangedAt,
			})
		}
		if cm.HPP != nil {
			cm.HPP.NotifyIngredient(ctx, ownerID, change.IngredientID)
		}
	}

	if cm.lastID > rescanWindow {
		for id := range cm.seen {
			if id <= cm.lastID-rescanWindow {
				delete(cm.seen, id)
			}
		}
	}

	if handled > 0 {
		utils.InfoLogger.Printf("Processed %d ingredient price changes", handled)
	}
	return handled
}
