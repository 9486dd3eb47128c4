package orders

import "strconv"

const (
	TopicNotifications = "shop.notifications"
)

// Partition key = order id, so every notification of one order stays ordered.
func PartitionKey(orderID int64) []byte { return []byte(strconv.FormatInt(orderID, 10)) }
