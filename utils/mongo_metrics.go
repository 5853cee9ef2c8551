package utils

import "go.mongodb.org/mongo-driver/event"

// MongoPoolMonitor feeds checkout/check-in events into the pool gauge.
func MongoPoolMonitor() *event.PoolMonitor {
	return &event.PoolMonitor{
		Event: func(e *event.PoolEvent) {
			switch e.Type {
			case event.GetSucceeded:
				MongoConnectionsInUse.Inc()
			case event.ConnectionReturned:
				MongoConnectionsInUse.Dec()
			}
		},
	}
}
