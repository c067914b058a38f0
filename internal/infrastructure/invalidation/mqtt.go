package invalidation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Haleralex/jobportal/internal/application/ports"
)

const (
	defaultMQTTConnectTimeout = 10 * time.Second
	defaultMQTTKeepAlive      = 60 * time.Second
	mqttDisconnectQuiesce     = 250 // milliseconds
)

// MQTTConfig configures the MQTT sink.
type MQTTConfig struct {
	Broker   string // tcp://host:1883 or ssl://host:8883
	ClientID string
	Username string
	Password string
	Topic    string
	QoS      byte
	Timeout  time.Duration
}

type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
	Disconnect(quiesce uint)
}

type mqttConnector interface {
	mqttClient
	Connect() pahomqtt.Token
}

// MQTTPublisher publishes each path on an MQTT topic.
type MQTTPublisher struct {
	client  mqttClient
	topic   string
	qos     byte
	timeout time.Duration
	logger  *slog.Logger
}

var _ ports.Invalidator = (*MQTTPublisher)(nil)

// NewMQTTPublisher connects to the broker and waits for the first connection.
func NewMQTTPublisher(cfg MQTTConfig, log *slog.Logger) (*MQTTPublisher, error) {
	if cfg.QoS > 2 {
		return nil, fmt.Errorf("mqtt qos %d out of range", cfg.QoS)
	}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(defaultMQTTConnectTimeout)
	opts.SetKeepAlive(defaultMQTTKeepAlive)

	return connectMQTT(pahomqtt.NewClient(opts), defaultMQTTConnectTimeout, cfg, log)
}

// connectMQTT waits for the first connection. On failure the client is
// disconnected so its connect loop stops.
func connectMQTT(client mqttConnector, wait time.Duration, cfg MQTTConfig, log *slog.Logger) (*MQTTPublisher, error) {
	token := client.Connect()
	if !token.WaitTimeout(wait) {
		client.Disconnect(0)
		return nil, errors.New("mqtt connect timed out")
	}
	if err := token.Error(); err != nil {
		client.Disconnect(0)
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}

	return newMQTTPublisher(client, cfg, log), nil
}

func newMQTTPublisher(client mqttClient, cfg MQTTConfig, log *slog.Logger) *MQTTPublisher {
	if log == nil {
		log = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &MQTTPublisher{
		client:  client,
		topic:   cfg.Topic,
		qos:     cfg.QoS,
		timeout: timeout,
		logger:  log,
	}
}

// Invalidate publishes path and waits for the broker acknowledgement up to the timeout.
func (p *MQTTPublisher) Invalidate(ctx context.Context, path string) {
	token := p.client.Publish(p.topic, p.qos, false, path)

	var err error
	if !token.WaitTimeout(p.timeout) {
		err = errors.New("mqtt publish timed out")
	} else {
		err = token.Error()
	}
	report(ctx, p.logger, "mqtt", path, err)
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(mqttDisconnectQuiesce)
	return nil
}
