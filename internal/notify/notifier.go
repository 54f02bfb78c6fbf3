package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// Notifier hands a composed notice to an out-of-band transport.
type Notifier interface {
	Send(ctx context.Context, n Notice) error
	Close() error
}

// LogNotifier only logs notices. It is the default when no Pub/Sub project is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier writing to logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Send(_ context.Context, n Notice) error {
	l.logger.Info("Out-of-band notice",
		slog.String("event", string(n.Event)),
		slog.String("to_account", n.To.AccountID),
		slog.String("subject", n.Subject),
		slog.Bool("has_phone", n.To.Phone != ""),
	)
	return nil
}

func (l *LogNotifier) Close() error { return nil }

// PubSubNotifier publishes each notice as JSON to a Pub/Sub topic consumed by the mail and
// WhatsApp worker.
type PubSubNotifier struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// PubSubConfig selects the project and topic. Without CredentialsJSON the client falls back
// to Application Default Credentials.
type PubSubConfig struct {
	ProjectID       string
	Topic           string
	CredentialsJSON string
}

// NewPubSubNotifier connects to Pub/Sub and checks that the topic exists.
func NewPubSubNotifier(ctx context.Context, cfg PubSubConfig) (*PubSubNotifier, error) {
	if cfg.ProjectID == "" || cfg.Topic == "" {
		return nil, fmt.Errorf("pubsub project and topic are required")
	}
	var opts []option.ClientOption
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}
	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	topic := client.Topic(cfg.Topic)
	ok, err := topic.Exists(ctx)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("check topic %q: %w", cfg.Topic, err)
	}
	if !ok {
		_ = client.Close()
		return nil, fmt.Errorf("topic %q does not exist", cfg.Topic)
	}
	return &PubSubNotifier{client: client, topic: topic}, nil
}

func (p *PubSubNotifier) Send(ctx context.Context, n Notice) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notice: %w", err)
	}
	result := p.topic.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event":      string(n.Event),
			"account_id": n.To.AccountID,
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish notice: %w", err)
	}
	return nil
}

func (p *PubSubNotifier) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
