package events

import (
	"context"

	"github.com/bankledger/account-ledger-service/internal/interfaces"
)

// NoopPublisher discards every event. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event any) error { return nil }

func (NoopPublisher) Close() error { return nil }

var _ interfaces.EventPublisher = NoopPublisher{}
