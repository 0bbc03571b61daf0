// Package ingest feeds samples published over MQTT into the monitor.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hydration_monitor/internal/config"
	"hydration_monitor/internal/logger"
	"hydration_monitor/internal/models"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// ErrMalformedPayload marks a message that is not a sample.
var ErrMalformedPayload = errors.New("malformed sample payload")

// SampleSink receives decoded samples. service.Bottle satisfies it.
type SampleSink interface {
	SubmitSample(ctx context.Context, s models.Sample) ([]models.EventRecord, error)
}

type wirePayload struct {
	WeightG     *float64       `json:"weight_g"`
	Orientation *models.Vector `json:"orientation"`
}

// Decode parses {"weight_g":..., "orientation":{"x":..,"y":..,"z":..}}.
// Both fields are required.
func Decode(payload []byte) (models.Sample, error) {
	var w wirePayload
	if err := json.Unmarshal(payload, &w); err != nil {
		return models.Sample{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if w.WeightG == nil {
		return models.Sample{}, fmt.Errorf("%w: missing weight_g", ErrMalformedPayload)
	}
	if w.Orientation == nil {
		return models.Sample{}, fmt.Errorf("%w: missing orientation", ErrMalformedPayload)
	}
	return models.Sample{WeightG: *w.WeightG, Orientation: *w.Orientation}, nil
}

// Subscriber consumes the sample topic of one broker.
type Subscriber struct {
	client paho.Client
	topic  string
	sink   SampleSink
	log    *logger.Logger
}

// NewSubscriber connects to cfg.Broker.
func NewSubscriber(cfg config.MQTTConfig, sink SampleSink, log *logger.Logger) (*Subscriber, error) {
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connect to %s: timeout", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return &Subscriber{
		client: client,
		topic:  cfg.Topic,
		sink:   sink,
		log:    log.Component("ingest"),
	}, nil
}

// Run subscribes and blocks until ctx is canceled, then disconnects.
func (s *Subscriber) Run(ctx context.Context) error {
	// QoS 1 so a reconnect does not silently drop readings
	token := s.client.Subscribe(s.topic, 1, func(_ paho.Client, msg paho.Message) {
		s.handle(ctx, msg.Payload())
	})
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("subscribe %s: timeout", s.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", s.topic, err)
	}
	if s.log != nil {
		s.log.Infow("mqtt_subscribed", "topic", s.topic)
	}

	<-ctx.Done()
	s.client.Unsubscribe(s.topic).WaitTimeout(time.Second)
	s.client.Disconnect(1000)
	return nil
}

// handle decodes and submits one message. Bad messages are logged and dropped.
func (s *Subscriber) handle(ctx context.Context, payload []byte) {
	sample, err := Decode(payload)
	if err != nil {
		if s.log != nil {
			s.log.Warnw("mqtt_payload_dropped", "err", err, "topic", s.topic)
		}
		return
	}
	recs, err := s.sink.SubmitSample(ctx, sample)
	if err != nil {
		if s.log != nil {
			s.log.Warnw("mqtt_sample_rejected", "err", err)
		}
		return
	}
	if s.log != nil && len(recs) > 0 {
		s.log.Debugw("mqtt_sample_applied", "events", len(recs))
	}
}
