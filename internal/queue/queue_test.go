package queue

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/simonkvalheim/fjord-ledger/internal/model"
	"github.com/simonkvalheim/fjord-ledger/internal/processor"
	"github.com/simonkvalheim/fjord-ledger/internal/repository"
	"github.com/simonkvalheim/fjord-ledger/internal/service"
)

type fixture struct {
	store     *repository.Store
	publisher *Publisher
	worker    *Worker
	from, to  *model.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := repository.NewStore()
	customer, err := store.AddCustomer("Alice", "alice@example.com")
	if err != nil {
		t.Fatalf("AddCustomer() error = %v", err)
	}
	from, _ := store.AddAccount(customer.ID, model.AccountTypeChecking, decimal.NewFromInt(100))
	to, _ := store.AddAccount(customer.ID, model.AccountTypeSavings, decimal.Zero)

	return &fixture{
		store:     store,
		publisher: NewPublisher(client),
		worker: NewWorker(client, processor.NewTransferProcessor(store),
			service.NewPaymentService(store), time.Second),
		from: from,
		to:   to,
	}
}

func TestPublisher_PublishTransfer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cmd, err := f.publisher.PublishTransfer(ctx, f.from.ID, f.to.ID, decimal.RequireFromString("12.5"), "rent")
	if err != nil {
		t.Fatalf("PublishTransfer() error = %v", err)
	}
	if cmd.Amount != "12.50" || cmd.Type != CommandTypeTransfer {
		t.Errorf("PublishTransfer() = %+v, want transfer of 12.50", cmd)
	}

	length, err := f.publisher.QueueLength(ctx)
	if err != nil || length != 1 {
		t.Errorf("QueueLength() = %d, %v; want 1", length, err)
	}

	status, err := f.publisher.Status(ctx, cmd.ID)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if status.State != CommandStatePending {
		t.Errorf("Status().State = %s, want pending", status.State)
	}

	// Nothing moves until the worker runs.
	if !f.from.Balance().Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance changed before processing: %s", f.from.Balance())
	}
}

func TestWorker_ProcessOne(t *testing.T) {
	tests := []struct {
		name        string
		publish     func(f *fixture) (*Command, error)
		wantState   CommandState
		wantFrom    string
		wantTo      string
		errContains string
	}{
		{
			name: "transfer completes",
			publish: func(f *fixture) (*Command, error) {
				return f.publisher.PublishTransfer(context.Background(), f.from.ID, f.to.ID, decimal.NewFromInt(40), "")
			},
			wantState: CommandStateCompleted,
			wantFrom:  "60",
			wantTo:    "40",
		},
		{
			name: "payment completes",
			publish: func(f *fixture) (*Command, error) {
				return f.publisher.PublishPayment(context.Background(), f.from.ID, decimal.NewFromInt(25), "phone bill")
			},
			wantState: CommandStateCompleted,
			wantFrom:  "75",
			wantTo:    "0",
		},
		{
			name: "insufficient funds fails",
			publish: func(f *fixture) (*Command, error) {
				return f.publisher.PublishTransfer(context.Background(), f.from.ID, f.to.ID, decimal.NewFromInt(500), "")
			},
			wantState:   CommandStateFailed,
			wantFrom:    "100",
			wantTo:      "0",
			errContains: "insufficient funds",
		},
		{
			name: "unknown account fails",
			publish: func(f *fixture) (*Command, error) {
				return f.publisher.PublishPayment(context.Background(), uuid.New(), decimal.NewFromInt(1), "")
			},
			wantState:   CommandStateFailed,
			wantFrom:    "100",
			wantTo:      "0",
			errContains: "account not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			cmd, err := tt.publish(f)
			if err != nil {
				t.Fatalf("publish error = %v", err)
			}
			if err := f.worker.ProcessOne(ctx); err != nil {
				t.Fatalf("ProcessOne() error = %v", err)
			}

			status, err := f.publisher.Status(ctx, cmd.ID)
			if err != nil {
				t.Fatalf("Status() error = %v", err)
			}
			if status.State != tt.wantState {
				t.Errorf("State = %s, want %s (error %q)", status.State, tt.wantState, status.Error)
			}
			if tt.wantState == CommandStateCompleted && status.TransactionID == nil {
				t.Error("completed command has no transaction id")
			}
			if tt.errContains != "" && !strings.Contains(status.Error, tt.errContains) {
				t.Errorf("Error = %q, want it to contain %q", status.Error, tt.errContains)
			}

			if !f.from.Balance().Equal(decimal.RequireFromString(tt.wantFrom)) {
				t.Errorf("from balance = %s, want %s", f.from.Balance(), tt.wantFrom)
			}
			if !f.to.Balance().Equal(decimal.RequireFromString(tt.wantTo)) {
				t.Errorf("to balance = %s, want %s", f.to.Balance(), tt.wantTo)
			}
		})
	}
}

func TestWorker_ProcessOneEmptyQueue(t *testing.T) {
	f := newFixture(t)
	if err := f.worker.ProcessOne(context.Background()); err != nil {
		t.Errorf("ProcessOne() on empty queue error = %v", err)
	}
}

func TestWorker_StartStop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cmd, err := f.publisher.PublishTransfer(ctx, f.from.ID, f.to.ID, decimal.NewFromInt(10), "")
	if err != nil {
		t.Fatalf("PublishTransfer() error = %v", err)
	}

	stopped := make(chan struct{})
	go func() {
		f.worker.Start(ctx)
		close(stopped)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for {
		status, err := f.publisher.Status(ctx, cmd.ID)
		if err == nil && status.State == CommandStateCompleted {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("command not completed in time: %+v, %v", status, err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	f.worker.Stop()
	select {
	case <-stopped:
	case <-time.After(10 * time.Second):
		t.Fatal("worker did not stop")
	}

	// A second Stop, as a shutdown path may issue, is a no-op.
	f.worker.Stop()
}

func TestPublisher_StatusUnknown(t *testing.T) {
	f := newFixture(t)
	if _, err := f.publisher.Status(context.Background(), uuid.New()); !errors.Is(err, ErrCommandNotFound) {
		t.Errorf("Status() error = %v, want ErrCommandNotFound", err)
	}
}
