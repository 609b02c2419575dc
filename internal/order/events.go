package order

// Event bus topics published by the order service
const (
	TopicOrderStatusChanged = "order:status_changed"
)

// StatusChange is the payload published on TopicOrderStatusChanged
type StatusChange struct {
	OrderId    int64
	OrderNo    string
	CustomerId int64
	From       string
	To         string
	Amount     float64
}
