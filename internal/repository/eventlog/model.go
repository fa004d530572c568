package eventlog

import "time"

type EventLogDB struct {
	ID         int64
	OrderID    int64
	ProviderID int64
	EventType  string
	Timestamp  time.Time
	Metadata   []byte
}
