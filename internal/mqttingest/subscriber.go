// Package mqttingest feeds scans published on an MQTT topic into the same
// ingestion path as POST /api/scans.
package mqttingest

import (
	"context"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"

	"github.com/PratikDhanave/lightscan-service/internal/ingest"
	"github.com/PratikDhanave/lightscan-service/pkg/logger"
)

const (
	subscribeQoS   = 1
	connectTimeout = 10 * time.Second
	handleTimeout  = 5 * time.Second
	quiesceMillis  = 250
)

// Options describe the broker connection.
type Options struct {
	Broker   string
	Topic    string
	ClientID string
}

// Subscriber consumes scan payloads from a broker topic.
type Subscriber struct {
	opts   Options
	svc    *ingest.Service
	log    logger.Logger
	client mqtt.Client
}

// NewSubscriber returns an unconnected Subscriber.
func NewSubscriber(opts Options, svc *ingest.Service, log logger.Logger) *Subscriber {
	return &Subscriber{opts: opts, svc: svc, log: log.Named("mqtt")}
}

// Start connects and subscribes. The subscription is renewed on every
// reconnect.
func (s *Subscriber) Start(ctx context.Context) error {
	co := mqtt.NewClientOptions().
		AddBroker(s.opts.Broker).
		SetClientID(s.opts.ClientID).
		SetAutoReconnect(true).
		SetOrderMatters(false).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			s.log.Warn(context.Background(), "broker connection lost", logger.Error(err))
		}).
		SetOnConnectHandler(s.subscribe)

	s.client = mqtt.NewClient(co)
	tok := s.client.Connect()
	select {
	case <-tok.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(connectTimeout):
		return errors.Errorf("mqtt connect to %s timed out", s.opts.Broker)
	}
	if err := tok.Error(); err != nil {
		return errors.Wrapf(err, "mqtt connect to %s", s.opts.Broker)
	}
	return nil
}

// subscribe runs on every (re)connect.
func (s *Subscriber) subscribe(c mqtt.Client) {
	ctx := context.Background()
	tok := c.Subscribe(s.opts.Topic, subscribeQoS, s.HandleMessage)
	if !tok.WaitTimeout(connectTimeout) {
		s.log.Warn(ctx, "subscribe timed out",
			logger.String("topic", s.opts.Topic), logger.String("timeout", connectTimeout.String()))
		return
	}
	if err := tok.Error(); err != nil {
		s.log.Error(ctx, "subscribe failed", logger.String("topic", s.opts.Topic), logger.Error(err))
		return
	}
	s.log.Info(ctx, "subscribed",
		logger.String("broker", s.opts.Broker), logger.String("topic", s.opts.Topic))
}

// HandleMessage ingests one payload. Failures are logged and the message is
// acknowledged either way.
func (s *Subscriber) HandleMessage(_ mqtt.Client, msg mqtt.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	id, err := s.svc.Ingest(ctx, ingest.SourceMQTT, msg.Payload())
	if err != nil {
		var ie *ingest.Error
		if errors.As(err, &ie) && ie.Kind != ingest.KindInternal {
			s.log.Warn(ctx, "scan rejected",
				logger.String("topic", msg.Topic()),
				logger.String("reason", ie.Message))
			return
		}
		s.log.Error(ctx, "scan ingest failed", logger.String("topic", msg.Topic()), logger.Error(err))
		return
	}
	s.log.Debug(ctx, "scan added", logger.String("topic", msg.Topic()), logger.String("scanId", id))
}

// Stop disconnects from the broker.
func (s *Subscriber) Stop() {
	if s.client != nil && s.client.IsConnected() {
		s.client.Disconnect(quiesceMillis)
	}
}
