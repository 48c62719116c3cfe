// Package queue abstracts the event broker carrying transfer lifecycle
// events between the transfer service and its subscribers (receipt
// emails, the websocket announcer). Config selects NATS or RabbitMQ.
package queue

type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	IsConnected() bool
	Close() error
}
