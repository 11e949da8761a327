package ports

import "time"

// Clock supplies the current time to operations that stamp deliveries.
type Clock interface {
	Now() time.Time
}
