package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/simonkvalheim/fjord-ledger/internal/model"
)

// Transferer executes transfers between two accounts
type Transferer interface {
	Transfer(ctx context.Context, fromID, toID uuid.UUID, amount decimal.Decimal, description string) (model.Transaction, error)
}

// Payer executes external payments
type Payer interface {
	Pay(ctx context.Context, fromID uuid.UUID, amount decimal.Decimal, description string) (model.Transaction, error)
}

// Worker consumes commands from the queue and executes them against the ledger
type Worker struct {
	client      *redis.Client
	transfers   Transferer
	payments    Payer
	lockTimeout time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewWorker creates a new Worker. A positive lockTimeout bounds how long
// each command may wait for account guards.
func NewWorker(client *redis.Client, transfers Transferer, payments Payer, lockTimeout time.Duration) *Worker {
	return &Worker{
		client:      client,
		transfers:   transfers,
		payments:    payments,
		lockTimeout: lockTimeout,
		stopCh:      make(chan struct{}),
	}
}

// Start begins consuming commands from the queue
// This runs in a loop until Stop() is called
func (w *Worker) Start(ctx context.Context) {
	log.Println("Worker started, listening for commands...")

	for {
		select {
		case <-ctx.Done():
			log.Println("Worker stopping due to context cancellation")
			return
		case <-w.stopCh:
			log.Println("Worker stopping due to stop signal")
			return
		default:
			// Wait up to 5 seconds for a message, then loop to check for stop signal
			result, err := w.client.BLPop(ctx, 5*time.Second, QueueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				log.Printf("Error reading from queue: %v", err)
				time.Sleep(1 * time.Second)
				continue
			}

			// result[0] is the queue name, result[1] is the message
			if len(result) < 2 {
				continue
			}

			w.processMessage(ctx, result[1])
		}
	}
}

// Stop signals the worker to stop processing. It is safe to call more than once.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

// processMessage executes a single command and records its outcome
func (w *Worker) processMessage(ctx context.Context, data string) {
	var cmd Command
	if err := json.Unmarshal([]byte(data), &cmd); err != nil {
		log.Printf("Failed to unmarshal command: %v", err)
		return
	}

	log.Printf("Processing command %s (type: %s)", cmd.ID, cmd.Type)

	status := CommandStatus{ID: cmd.ID, Type: cmd.Type}
	tx, err := w.execute(ctx, cmd)
	if err != nil {
		status.State = CommandStateFailed
		status.Error = err.Error()
		log.Printf("Command %s failed: %v", cmd.ID, err)
	} else {
		status.State = CommandStateCompleted
		status.TransactionID = &tx.ID
		log.Printf("Command %s completed as transaction %s", cmd.ID, tx.ID)
	}
	status.UpdatedAt = time.Now()

	if err := w.setStatus(ctx, status); err != nil {
		log.Printf("Failed to record status of command %s: %v", cmd.ID, err)
	}
}

func (w *Worker) execute(ctx context.Context, cmd Command) (model.Transaction, error) {
	amount, err := model.ParsePositiveAmount(cmd.Amount)
	if err != nil {
		return model.Transaction{}, model.Invalid("amount", err)
	}

	if w.lockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.lockTimeout)
		defer cancel()
	}

	switch cmd.Type {
	case CommandTypeTransfer:
		if cmd.ToAccountID == nil {
			return model.Transaction{}, model.AccountNotFound(uuid.Nil)
		}
		return w.transfers.Transfer(ctx, cmd.FromAccountID, *cmd.ToAccountID, amount, cmd.Description)
	case CommandTypePayment:
		return w.payments.Pay(ctx, cmd.FromAccountID, amount, cmd.Description)
	default:
		return model.Transaction{}, fmt.Errorf("unknown command type %q", cmd.Type)
	}
}

func (w *Worker) setStatus(ctx context.Context, status CommandStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	return w.client.HSet(ctx, StatusKey, status.ID.String(), data).Err()
}

// ProcessOne processes a single message synchronously (useful for testing)
func (w *Worker) ProcessOne(ctx context.Context) error {
	result, err := w.client.LPop(ctx, QueueName).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil // No message available
		}
		return err
	}

	w.processMessage(ctx, result)
	return nil
}
