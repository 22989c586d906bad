package worker

import (
	"context"
	"log"
	"time"

	"pawnshop-service/internal/broker"
	"pawnshop-service/internal/models"
	"pawnshop-service/internal/notify"
	"pawnshop-service/internal/service"
	"pawnshop-service/internal/util"
)

// NotificationWorker consumes contract lifecycle events and pushes a LINE
// summary for each one. Push failures never fail the message; the event is
// committed either way.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	line         *notify.LineClient
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, line *notify.LineClient) *NotificationWorker {
	w := &NotificationWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		line:         line,
	}

	w.eventHandler.OnContractCreated(func(ctx context.Context, e *models.ContractCreatedEvent) error {
		w.push(ctx, notify.ContractCreatedMessage(e))
		return nil
	})
	w.eventHandler.OnContractRenewed(func(ctx context.Context, e *models.ContractRenewedEvent) error {
		w.push(ctx, notify.ContractRenewedMessage(e))
		return nil
	})
	w.eventHandler.OnContractRedeemed(func(ctx context.Context, e *models.ContractRedeemedEvent) error {
		w.push(ctx, notify.ContractRedeemedMessage(e))
		return nil
	})
	w.eventHandler.OnContractForfeited(func(ctx context.Context, e *models.ContractForfeitedEvent) error {
		w.push(ctx, notify.ContractForfeitedMessage(e))
		return nil
	})

	return w
}

func (w *NotificationWorker) push(ctx context.Context, text string) {
	util.NotificationsSentTotal.Inc()
	w.line.Push(ctx, text)
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}

// ForfeitureScanner runs the overdue-contract detection at startup and then
// on an interval, publishing a forfeiture event per overdue contract.
type ForfeitureScanner struct {
	contracts *service.ContractService
	interval  time.Duration
}

// NewForfeitureScanner creates a new scanner
func NewForfeitureScanner(contracts *service.ContractService, interval time.Duration) *ForfeitureScanner {
	return &ForfeitureScanner{
		contracts: contracts,
		interval:  interval,
	}
}

// Start runs the scan loop until the context is cancelled
func (fs *ForfeitureScanner) Start(ctx context.Context) error {
	log.Println("Starting forfeiture scanner...")

	fs.scan(ctx)

	ticker := time.NewTicker(fs.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fs.scan(ctx)
		}
	}
}

func (fs *ForfeitureScanner) scan(ctx context.Context) {
	n, err := fs.contracts.ScanForfeited(ctx)
	if err != nil {
		log.Printf("Forfeiture scan failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Forfeiture scan found %d overdue contracts", n)
	}
}
