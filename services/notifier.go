package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"event-hub/config"
	"event-hub/utils"

	"github.com/google/uuid"
	pubnub "github.com/pubnub/go/v7"
)

const (
	EventCreated  = "event_created"
	EventUpdated  = "event_updated"
	EventDeleted  = "event_deleted"
	EventAttendee = "event_joined"
)

// EventChange is broadcast to realtime subscribers after a successful write.
type EventChange struct {
	Type    string `json:"type"`
	EventID string `json:"event_id"`
	Email   string `json:"email,omitempty"`
}

type Notifier interface {
	Notify(change EventChange)
}

// NopNotifier drops every change. Used when realtime publishing is not configured.
type NopNotifier struct{}

func (NopNotifier) Notify(EventChange) {}

type publishFunc func(ctx context.Context, channel string, message any) error

// PubNubNotifier publishes changes in the background. Failures are logged and
// never reach the caller.
type PubNubNotifier struct {
	channel string
	publish publishFunc
	breaker *utils.CircuitBreaker
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewPubNubClient(cfg *config.Config) *pubnub.PubNub {
	pnConfig := pubnub.NewConfigWithUserId(pubnub.UserId("event-hub-" + uuid.NewString()))
	pnConfig.PublishKey = cfg.PubNubPublishKey
	pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
	pnConfig.SecretKey = cfg.PubNubSecretKey
	return pubnub.NewPubNub(pnConfig)
}

// NewNotifier returns a PubNub backed notifier, or a NopNotifier when no publish key is set.
func NewNotifier(cfg *config.Config) Notifier {
	if cfg.PubNubPublishKey == "" {
		return NopNotifier{}
	}
	return NewPubNubNotifier(NewPubNubClient(cfg), cfg.PubNubChannel)
}

func NewPubNubNotifier(pn *pubnub.PubNub, channel string) *PubNubNotifier {
	return newPubNubNotifier(channel, func(ctx context.Context, channel string, message any) error {
		_, status, err := pn.PublishWithContext(ctx).
			Channel(channel).
			Message(message).
			Execute()
		if err != nil {
			return err
		}
		return status.Error
	})
}

func newPubNubNotifier(channel string, publish publishFunc) *PubNubNotifier {
	return &PubNubNotifier{
		channel: channel,
		publish: publish,
		breaker: utils.NewCircuitBreaker("pubnub"),
		timeout: 5 * time.Second,
	}
}

func (n *PubNubNotifier) Notify(change EventChange) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		err := n.breaker.Execute(ctx, func(ctx context.Context) error {
			return n.publish(ctx, n.channel, change)
		})
		if err != nil {
			slog.Warn("Failed to publish event change",
				"type", change.Type, "event_id", change.EventID, "error", err)
		}
	}()
}

// Wait blocks until in-flight publishes finish.
func (n *PubNubNotifier) Wait() {
	n.wg.Wait()
}
