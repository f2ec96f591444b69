// Package notify delivers best-effort order notifications. Nothing in this package ever returns an
// error to the order pipeline; failures end up in the log.
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"quickbite/order-svc/internal/domain"
	"quickbite/order-svc/internal/pricing"
)

const DefaultTimeout = 5 * time.Second

type Sender interface {
	Send(ctx context.Context, chatID, text string) error
}

type Dispatcher struct {
	sender    Sender
	calc      *pricing.Calculator
	opsChatID string
	timeout   time.Duration
	logger    *zap.Logger
	wg        sync.WaitGroup
}

func NewDispatcher(sender Sender, calc *pricing.Calculator, opsChatID string, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if calc == nil {
		calc = pricing.NewCalculator(pricing.ModeLenient)
	}
	return &Dispatcher{
		sender:    sender,
		calc:      calc,
		opsChatID: opsChatID,
		timeout:   timeout,
		logger:    logger,
	}
}

// NotifyOrder sends the new-order message to the operations channel in the background.
func (d *Dispatcher) NotifyOrder(summary OrderSummary) {
	msg, err := BuildOrderMessage(d.calc, summary)
	if err != nil {
		d.logger.Warn("order notification not built", zap.String("order_id", summary.OrderID), zap.Error(err))
		return
	}
	d.dispatch(d.opsChatID, msg.Text, zap.String("order_id", summary.OrderID), zap.String("kind", "order_created"))
}

// NotifyStatus tells the order's owner about a status change on their registered channel.
func (d *Dispatcher) NotifyStatus(chatID string, order domain.Order) {
	d.dispatch(chatID, BuildStatusMessage(order), zap.String("order_id", order.ID), zap.String("kind", "status_changed"))
}

// Wait blocks until every in-flight send has finished or timed out.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) dispatch(chatID, text string, fields ...zap.Field) {
	if d.sender == nil || chatID == "" {
		d.logger.Debug("notification skipped, channel not configured", fields...)
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("notification panicked", append(fields, zap.Any("panic", r))...)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.sender.Send(ctx, chatID, text); err != nil {
			d.logger.Warn("notification failed", append(fields, zap.Error(err))...)
			return
		}
		d.logger.Debug("notification sent", fields...)
	}()
}
