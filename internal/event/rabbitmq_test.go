package event

import (
	"testing"

	"ledger-service/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerURL_EscapesCredentials(t *testing.T) {
	url, err := brokerURL(config.RabbitMQConfig{
		Host:     "mq.internal",
		Port:     "5673",
		Username: "ledger",
		Password: "p@ss:w/rd",
		VHost:    "ledger",
	})
	require.NoError(t, err)

	parsed, err := amqp.ParseURI(url)
	require.NoError(t, err)
	assert.Equal(t, "mq.internal", parsed.Host)
	assert.Equal(t, 5673, parsed.Port)
	assert.Equal(t, "ledger", parsed.Username)
	assert.Equal(t, "p@ss:w/rd", parsed.Password)
	assert.Equal(t, "ledger", parsed.Vhost)
}

func TestBrokerURL_DefaultsVhost(t *testing.T) {
	url, err := brokerURL(config.RabbitMQConfig{Host: "localhost", Port: "5672", Username: "u", Password: "p"})
	require.NoError(t, err)

	parsed, err := amqp.ParseURI(url)
	require.NoError(t, err)
	assert.Equal(t, "/", parsed.Vhost)
}

func TestBrokerURL_RejectsBadPort(t *testing.T) {
	_, err := brokerURL(config.RabbitMQConfig{Host: "localhost", Port: "amqp"})
	assert.ErrorContains(t, err, "invalid RabbitMQ port")
}

func TestRabbitMQConnection_NilIsClosed(t *testing.T) {
	var conn *RabbitMQConnection
	assert.True(t, conn.IsClosed())
	assert.True(t, (&RabbitMQConnection{}).IsClosed())
}
