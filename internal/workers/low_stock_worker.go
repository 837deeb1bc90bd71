package workers

import (
	"context"
	"time"

	"uniplug_backend/internal/logger"
	"uniplug_backend/internal/models"
	"uniplug_backend/internal/repositories"
	"uniplug_backend/internal/services"
)

// LowStockWorker periodically sweeps product inventory and alerts store
// owners whose products are running out.
type LowStockWorker struct {
	productRepo     repositories.ProductRepository
	dispatchService services.DispatchService
	interval        time.Duration
	threshold       int
}

func NewLowStockWorker(productRepo repositories.ProductRepository, dispatchService services.DispatchService, interval time.Duration, threshold int) *LowStockWorker {
	return &LowStockWorker{
		productRepo:     productRepo,
		dispatchService: dispatchService,
		interval:        interval,
		threshold:       threshold,
	}
}

func (w *LowStockWorker) Start(ctx context.Context) {
	go w.sweep(ctx)
}

func (w *LowStockWorker) sweep(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Low stock worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *LowStockWorker) runOnce(ctx context.Context) {
	byOwner, err := w.productRepo.FindLowStockByOwner(w.threshold)
	if err != nil {
		logger.WorkerLog("low_stock", "sweep", err)
		return
	}

	for ownerID, products := range byOwner {
		for storeName, items := range groupByStore(products) {
			ev := services.LowStockEvent{
				StoreName: storeName,
				Products:  items,
			}
			outcome := w.dispatchService.NotifyLowStock(ctx, ownerID, ev)
			logger.Info("Low stock alert dispatched",
				"owner_id", ownerID,
				"store", storeName,
				"products", len(items),
				"push_sent", outcome.PushSent,
				"push_failed", outcome.PushFailed,
				"email_sent", outcome.EmailSent,
			)
		}
	}

	logger.WorkerLog("low_stock", "sweep", nil)
}

// An owner can run several stores; each gets its own alert.
func groupByStore(products []models.Product) map[string][]services.LowStockProduct {
	grouped := make(map[string][]services.LowStockProduct)
	for _, p := range products {
		storeName := ""
		if p.Store != nil {
			storeName = p.Store.Name
		}
		grouped[storeName] = append(grouped[storeName], services.LowStockProduct{
			Name:  p.Name,
			Stock: p.StockQuantity,
		})
	}
	return grouped
}
