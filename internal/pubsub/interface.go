package pubsub

type PubSubClient interface {
	// Enabled reports whether messages actually leave the process.
	Enabled() bool
	SendMessage(topic EventType, data any) error
	ProcessMessage(data []byte, returnValue any) error
	Close()
}
