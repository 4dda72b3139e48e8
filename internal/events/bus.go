// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/urbanwaste/internal/config"
	"github.com/tomtom215/urbanwaste/internal/logging"
	"github.com/tomtom215/urbanwaste/internal/metrics"
	"github.com/tomtom215/urbanwaste/internal/store"
)

// Backends
const (
	BackendChannel = "channel"
	BackendNATS    = "nats"
)

// ErrClosed is returned by a closed bus.
var ErrClosed = errors.New("event bus is closed")

// Bus publishes and subscribes to change events on one topic.
type Bus struct {
	backend string
	topic   string
	pub     message.Publisher
	sub     message.Subscriber
	server  *EmbeddedServer
	logger  watermill.LoggerAdapter

	mu     sync.RWMutex
	closed bool
}

// New creates the bus described by cfg. For the nats backend with
// EmbeddedNATS set, an in-process server is started on NATSPort.
func New(cfg config.EventsConfig) (*Bus, error) {
	logger := logging.NewWatermillAdapter()
	b := &Bus{backend: cfg.Backend, topic: cfg.Topic, logger: logger}
	if b.topic == "" {
		b.topic = "waste.changes"
	}

	switch cfg.Backend {
	case BackendChannel, "":
		b.backend = BackendChannel
		ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, logger)
		b.pub, b.sub = ch, ch
		return b, nil

	case BackendNATS:
		url := cfg.NATSURL
		if cfg.EmbeddedNATS {
			srv, err := StartEmbeddedServer("127.0.0.1", cfg.NATSPort)
			if err != nil {
				return nil, err
			}
			b.server = srv
			url = srv.ClientURL()
		}
		if err := b.connectNATS(url); err != nil {
			if b.server != nil {
				b.server.Shutdown()
			}
			return nil, err
		}
		return b, nil
	}
	return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
}

func (b *Bus) natsOptions() []natsgo.Option {
	return []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				b.logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			b.logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}
}

func (b *Bus) connectNATS(url string) error {
	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: b.natsOptions(),
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, b.logger)
	if err != nil {
		return fmt.Errorf("create watermill publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		SubscribersCount: 1,
		AckWaitTimeout:   30 * time.Second,
		CloseTimeout:     5 * time.Second,
		NatsOptions:      b.natsOptions(),
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, b.logger)
	if err != nil {
		_ = pub.Close()
		return fmt.Errorf("create watermill subscriber: %w", err)
	}

	b.pub, b.sub = pub, sub
	return nil
}

// Backend returns "channel" or "nats".
func (b *Bus) Backend() string { return b.backend }

// Topic returns the topic events are published on.
func (b *Bus) Topic() string { return b.topic }

// Publish sends one event.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	data, err := SerializeEvent(&e)
	if err != nil {
		return err
	}
	msg := message.NewMessage(e.EventID, data)
	msg.Metadata.Set("entity", e.Entity)
	msg.Metadata.Set("action", e.Action)
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set("correlation_id", id)
	}
	msg.SetContext(ctx)

	err = b.pub.Publish(b.topic, msg)
	metrics.RecordEventPublish(b.backend, err)
	if err != nil {
		return fmt.Errorf("publish %s %s: %w", e.Entity, e.Action, err)
	}
	return nil
}

// Subscribe returns the events on the bus topic until ctx ends.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, ErrClosed
	}
	return b.sub.Subscribe(ctx, b.topic)
}

// Attach publishes every change of s. The returned function detaches.
func (b *Bus) Attach(s *store.Store) (detach func()) {
	return s.Subscribe(func(c store.Change) {
		if err := b.Publish(context.Background(), NewEvent(c, time.Now())); err != nil && !errors.Is(err, ErrClosed) {
			logging.Warn().Err(err).Str("entity", c.Entity).Str("action", c.Action).Msg("Failed to publish change event")
		}
	})
}

// Close stops publishing, closes subscriptions and the embedded server.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	var errs []error
	if err := b.pub.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	// gochannel is both publisher and subscriber
	if b.backend != BackendChannel {
		if err := b.sub.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	if b.server != nil {
		b.server.Shutdown()
	}
	return errors.Join(errs...)
}
