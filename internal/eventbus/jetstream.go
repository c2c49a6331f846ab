package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/nats-io/nkeys"
)

// DefaultStreams maps stream names to the subject prefix they capture.
var DefaultStreams = map[string]string{
	"DISCORD":      "discord",
	"GUILD":        "guild",
	"LEVELING":     "leveling",
	"MILESTONE":    "milestone",
	"REACTIONROLE": "reactionrole",
	"MODERATION":   "moderation",
}

// JetStreamConfig configures the NATS connection.
type JetStreamConfig struct {
	URL          string
	ConsumerName string
	NKeySeed     string
	Streams      map[string]string
}

// JetStreamEventBus implements EventBus on NATS JetStream.
type JetStreamEventBus struct {
	cfg         JetStreamConfig
	logger      *slog.Logger
	wmLogger    watermill.LoggerAdapter
	natsOptions []nc.Option
	conn        *nc.Conn
	publisher   *wmnats.Publisher

	mu          sync.Mutex
	subscribers map[string]*wmnats.Subscriber
}

var _ EventBus = (*JetStreamEventBus)(nil)

// NewJetStreamEventBus connects to NATS, provisions the streams and builds the publisher.
func NewJetStreamEventBus(ctx context.Context, cfg JetStreamConfig, logger *slog.Logger) (*JetStreamEventBus, error) {
	if cfg.ConsumerName == "" {
		cfg.ConsumerName = "senshi"
	}
	if cfg.Streams == nil {
		cfg.Streams = DefaultStreams
	}

	options := []nc.Option{
		nc.Name(cfg.ConsumerName),
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(1 * time.Second),
		nc.ErrorHandler(func(_ *nc.Conn, s *nc.Subscription, err error) {
			if s != nil {
				logger.Error("Error in subscription", attr.String("subject", s.Subject), attr.Error(err))
				return
			}
			logger.Error("Error in connection", attr.Error(err))
		}),
	}

	if cfg.NKeySeed != "" {
		opt, err := nkeyOption(cfg.NKeySeed)
		if err != nil {
			return nil, err
		}
		options = append(options, opt)
	}

	conn, err := nc.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	if err := ensureStreams(ctx, conn, cfg.Streams); err != nil {
		conn.Close()
		return nil, err
	}

	wmLogger := watermill.NewSlogLogger(logger)
	publisher, err := wmnats.NewPublisher(
		wmnats.PublisherConfig{
			URL:         cfg.URL,
			NatsOptions: options,
			Marshaler:   &wmnats.NATSMarshaler{},
			JetStream: wmnats.JetStreamConfig{
				Disabled:      false,
				AutoProvision: false,
				TrackMsgId:    true,
			},
		},
		wmLogger,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create Watermill NATS publisher: %w", err)
	}

	return &JetStreamEventBus{
		cfg:         cfg,
		logger:      logger,
		wmLogger:    wmLogger,
		natsOptions: options,
		conn:        conn,
		publisher:   publisher,
		subscribers: make(map[string]*wmnats.Subscriber),
	}, nil
}

func (b *JetStreamEventBus) Publish(topic string, messages ...*message.Message) error {
	return publishRouted(b.publisher, topic, messages...)
}

// Subscribe uses the default consumer group.
func (b *JetStreamEventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	sub, err := b.Subscriber("default")
	if err != nil {
		return nil, err
	}
	return sub.Subscribe(ctx, topic)
}

// Subscriber returns a durable JetStream subscriber for group, creating it on first use.
func (b *JetStreamEventBus) Subscriber(group string) (message.Subscriber, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subscribers[group]; ok {
		return sub, nil
	}

	durablePrefix := b.cfg.ConsumerName + "_" + group
	sub, err := wmnats.NewSubscriber(
		wmnats.SubscriberConfig{
			URL:              b.cfg.URL,
			QueueGroupPrefix: durablePrefix,
			SubscribersCount: 1,
			AckWaitTimeout:   30 * time.Second,
			CloseTimeout:     10 * time.Second,
			NatsOptions:      b.natsOptions,
			Unmarshaler:      &wmnats.NATSMarshaler{},
			JetStream: wmnats.JetStreamConfig{
				Disabled:          false,
				AutoProvision:     false,
				DurablePrefix:     durablePrefix,
				DurableCalculator: durableName,
				SubscribeOptions:  []nc.SubOpt{nc.DeliverNew(), nc.AckExplicit()},
			},
		},
		b.wmLogger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Watermill NATS subscriber for %s: %w", group, err)
	}

	b.subscribers[group] = sub
	return sub, nil
}

// Close shuts down every subscriber, the publisher and the connection.
func (b *JetStreamEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for group, sub := range b.subscribers {
		if err := sub.Close(); err != nil {
			errs = append(errs, fmt.Errorf("subscriber %s: %w", group, err))
		}
	}
	if err := b.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("publisher: %w", err))
	}
	b.conn.Close()
	return errors.Join(errs...)
}

// durableName derives a consumer name that is valid for JetStream.
func durableName(prefix, topic string) string {
	r := strings.NewReplacer(".", "_", "*", "any", ">", "all", " ", "_")
	return r.Replace(prefix + "_" + topic)
}

func ensureStreams(ctx context.Context, conn *nc.Conn, streams map[string]string) error {
	js, err := jetstream.New(conn)
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}
	for name, prefix := range streams {
		_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
			Name:      name,
			Subjects:  []string{prefix + ".>"},
			Retention: jetstream.InterestPolicy,
			MaxAge:    24 * time.Hour,
		})
		if err != nil {
			return fmt.Errorf("failed to provision stream %s: %w", name, err)
		}
	}
	return nil
}

func nkeyOption(seed string) (nc.Option, error) {
	kp, err := nkeys.FromSeed([]byte(seed))
	if err != nil {
		return nil, fmt.Errorf("failed to parse nkey seed: %w", err)
	}
	pub, err := kp.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive nkey public key: %w", err)
	}
	return nc.Nkey(pub, kp.Sign), nil
}
