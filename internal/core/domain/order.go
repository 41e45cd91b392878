package domain

import (
	"errors"
	"time"
)

var ErrOrderNotFound = errors.New("order not found")
var ErrStoredDroneNotFound = errors.New("stored drone not found")

// ActiveOrder is a timed protocol a drone has self-declared. One per drone
// at a time; removed by the completion sweep once finish_time has passed.
type ActiveOrder struct {
	ID         string    `bson:"_id"`
	DroneID    string    `bson:"drone_id"`
	Protocol   string    `bson:"protocol"`
	FinishTime time.Time `bson:"finish_time"`
}

// Expired reports whether the order's finish time is strictly in the past.
func (o ActiveOrder) Expired(now time.Time) bool {
	return now.After(o.FinishTime)
}
