package models

const (
	KindEquipment = "equipment"
	KindWorker    = "worker"
)

const (
	StatusActive   = "active"
	StatusCanceled = "canceled"
)

const (
	// DateLayout is the wire format for booking and cart dates.
	DateLayout = "2006-01-02"

	// DefaultTaxRate applies to cart subtotals when config leaves it unset.
	DefaultTaxRate = 0.08

	// DefaultSessionTTL is how long an idle session survives in seconds.
	DefaultSessionTTL = 24 * 60 * 60

	// ExportQueueSize bounds the export worker's task queue.
	ExportQueueSize = 100
)
