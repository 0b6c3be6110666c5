package types

// Actions attached to log records of infrastructure events.
const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionRabbitReconnected       = "rabbitmq_reconnection_success"

	ActionDatabaseTransactionFailed = "database_transaction_failed"
	ActionExternalServiceFailed     = "external_service_failed"
	ActionEventPublishFailed        = "event_publish_failed"
	ActionLiveFeedPushFailed        = "live_feed_push_failed"
	ActionCircuitStateChanged       = "circuit_state_changed"
)
