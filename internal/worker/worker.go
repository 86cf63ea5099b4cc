// Package worker consumes hunt tasks from the queue and drives them through
// the pipeline to a terminal status.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Yy2z/crypto-hunter/common/logger"
	"github.com/Yy2z/crypto-hunter/internal/queue"
)

// Processor turns one queue message into a terminal hunt status.
type Processor interface {
	Process(ctx context.Context, msg queue.Message) error
}

type Worker struct {
	consumer  *queue.RedisConsumer
	processor Processor

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer *queue.RedisConsumer, processor Processor) *Worker {
	return &Worker{
		consumer:  consumer,
		processor: processor,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	slog.InfoContext(ctx, "worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				// Brief backoff on error
				time.Sleep(time.Second)
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		w.processMessage(ctx, msg)
	}

	return nil
}

func (w *Worker) processMessage(ctx context.Context, msg queue.Message) {
	sc := logger.StartSpanFromTraceID(ctx, msg.TraceID, "worker.process_hunt")
	defer sc.End()

	msgCtx := logger.WithLogFields(sc.Context(), logger.LogFields{
		HuntID:    logger.Ptr(msg.HuntID),
		MessageID: logger.Ptr(msg.ID),
		Component: "hunter.worker",
	})

	if err := w.processSafe(msgCtx, msg); err != nil {
		slog.ErrorContext(msgCtx, "hunt processing failed", "error", err)
		// Failed runs are terminal; the DLQ is for inspection, not retry.
		if dlqErr := w.consumer.SendDLQ(msgCtx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(msgCtx, "failed to send to DLQ", "error", dlqErr)
		}
		return
	}

	if err := w.consumer.Ack(msgCtx, msg); err != nil {
		// Message will be redelivered; Process is idempotent on terminal hunts.
		slog.WarnContext(msgCtx, "failed to ACK message", "error", err)
	}
}

func (w *Worker) processSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in hunt processing", "panic", r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.processor.Process(ctx, msg)
}
