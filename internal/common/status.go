package common

const (
	GigOpen     = "open"
	GigAssigned = "assigned"
)

const (
	BidPending  = "pending"
	BidHired    = "hired"
	BidRejected = "rejected"
)
