package rabbitmq

const (
	// ExchangeNotifications direct-обменник уведомлений.
	ExchangeNotifications = "notifications"
	// QueueEmail очередь писем для notification-sender.
	QueueEmail = "notifications.email"
	// RoutingKeyEmail ключ маршрутизации писем.
	RoutingKeyEmail = "email"

	prefetchCount = 10
)

// QueueConfig очередь и ключ, которым она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// NotificationQueues очереди, которые объявляют и API, и notification-sender.
func NotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueEmail, RoutingKey: RoutingKeyEmail},
	}
}
