// Package metrics provides Prometheus metrics for the chat backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConnectedUsers tracks the number of users with a live connection.
	ConnectedUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_connected_users",
			Help: "Number of users currently holding a live connection",
		},
	)

	// MessagesSent counts persisted outbound messages.
	MessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_messages_sent_total",
			Help: "Total number of messages persisted",
		},
	)

	// MessagesDelivered counts messages advanced to delivered on a live push.
	MessagesDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_messages_delivered_total",
			Help: "Total number of messages delivered to a live receiver",
		},
	)

	// MessagesRead counts messages advanced to read.
	MessagesRead = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_messages_read_total",
			Help: "Total number of messages marked read",
		},
	)

	// NotificationsDelivered counts realtime events that reached a connection.
	NotificationsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_notifications_delivered_total",
			Help: "Total number of realtime notifications delivered, by event",
		},
		[]string{"event"},
	)

	// NotificationsDropped counts realtime events that could not be delivered.
	NotificationsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_notifications_dropped_total",
			Help: "Total number of realtime notifications dropped, by event",
		},
		[]string{"event"},
	)

	// StatusesCreated counts ephemeral status posts created.
	StatusesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_statuses_created_total",
			Help: "Total number of status posts created",
		},
	)

	// StatusesSwept counts expired status posts removed by the sweep task.
	StatusesSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_statuses_swept_total",
			Help: "Total number of expired status posts removed",
		},
	)
)
