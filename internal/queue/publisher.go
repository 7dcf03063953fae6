package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/simonkvalheim/fjord-ledger/internal/model"
)

const (
	// QueueName is the Redis list key for pending commands
	QueueName = "ledger:commands:pending"

	// StatusKey is the Redis hash holding the latest status of every command
	StatusKey = "ledger:commands:status"
)

// ErrCommandNotFound is returned when no status exists for a command id.
var ErrCommandNotFound = errors.New("command not found")

// CommandType names the operation a command runs
type CommandType string

const (
	CommandTypeTransfer CommandType = "transfer"
	CommandTypePayment  CommandType = "payment"
)

// CommandState is the processing state of a command
type CommandState string

const (
	CommandStatePending   CommandState = "pending"
	CommandStateCompleted CommandState = "completed"
	CommandStateFailed    CommandState = "failed"
)

// Command is the message published to the queue
type Command struct {
	ID            uuid.UUID   `json:"id"`
	Type          CommandType `json:"type"`
	FromAccountID uuid.UUID   `json:"from_account_id"`
	ToAccountID   *uuid.UUID  `json:"to_account_id,omitempty"`
	Amount        string      `json:"amount"`
	Description   string      `json:"description,omitempty"`
	PublishedAt   time.Time   `json:"published_at"`
}

// CommandStatus records what happened to a command
type CommandStatus struct {
	ID            uuid.UUID    `json:"id"`
	Type          CommandType  `json:"type"`
	State         CommandState `json:"state"`
	TransactionID *uuid.UUID   `json:"transaction_id,omitempty"`
	Error         string       `json:"error,omitempty"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Publisher handles publishing commands to Redis
type Publisher struct {
	client *redis.Client
}

// NewPublisher creates a new Publisher
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishTransfer queues a transfer between two accounts
func (p *Publisher) PublishTransfer(ctx context.Context, fromID, toID uuid.UUID, amount decimal.Decimal, description string) (*Command, error) {
	return p.publish(ctx, Command{
		ID:            uuid.New(),
		Type:          CommandTypeTransfer,
		FromAccountID: fromID,
		ToAccountID:   &toID,
		Amount:        model.FormatAmount(amount),
		Description:   description,
	})
}

// PublishPayment queues an external payment from an account
func (p *Publisher) PublishPayment(ctx context.Context, fromID uuid.UUID, amount decimal.Decimal, description string) (*Command, error) {
	return p.publish(ctx, Command{
		ID:            uuid.New(),
		Type:          CommandTypePayment,
		FromAccountID: fromID,
		Amount:        model.FormatAmount(amount),
		Description:   description,
	})
}

func (p *Publisher) publish(ctx context.Context, cmd Command) (*Command, error) {
	cmd.PublishedAt = time.Now()

	data, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal command: %w", err)
	}

	status, err := json.Marshal(CommandStatus{
		ID:        cmd.ID,
		Type:      cmd.Type,
		State:     CommandStatePending,
		UpdatedAt: cmd.PublishedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status: %w", err)
	}

	// Status first, so a worker that pops the command immediately never
	// has its result overwritten by "pending".
	_, err = p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, StatusKey, cmd.ID.String(), status)
		pipe.RPush(ctx, QueueName, data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to publish to queue: %w", err)
	}

	return &cmd, nil
}

// Status returns the latest recorded status of a command
func (p *Publisher) Status(ctx context.Context, id uuid.UUID) (*CommandStatus, error) {
	data, err := p.client.HGet(ctx, StatusKey, id.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCommandNotFound
		}
		return nil, fmt.Errorf("failed to read command status: %w", err)
	}

	var status CommandStatus
	if err := json.Unmarshal([]byte(data), &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal command status: %w", err)
	}
	return &status, nil
}

// QueueLength returns the current number of messages in the queue
func (p *Publisher) QueueLength(ctx context.Context) (int64, error) {
	return p.client.LLen(ctx, QueueName).Result()
}
