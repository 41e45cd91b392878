package domain

import (
	"strings"
	"time"
)

// RoleSeparator joins the captured role names into the single string stored
// in the storage collection. Role names on the platform cannot contain it.
const RoleSeparator = "|"

// StoredDrone is a drone held in the Hive Storage Chambers: its removable
// roles have been swapped for the stored role until release_time, or until
// the Hive Mxtress releases it by command.
type StoredDrone struct {
	ID          string    `bson:"_id"`
	DroneID     string    `bson:"drone_id"` // initiator
	TargetID    string    `bson:"target_id"`
	Purpose     string    `bson:"purpose"`
	Roles       string    `bson:"roles"` // RoleSeparator-joined, order preserved
	ReleaseTime time.Time `bson:"release_time"`
}

// Expired reports whether the release time is strictly in the past.
func (s StoredDrone) Expired(now time.Time) bool {
	return now.After(s.ReleaseTime)
}

// SavedRoles returns the captured role names in their original order.
func (s StoredDrone) SavedRoles() []string {
	return SplitRoles(s.Roles)
}

// JoinRoles serializes role names for persistence.
func JoinRoles(names []string) string {
	return strings.Join(names, RoleSeparator)
}

// SplitRoles reverses JoinRoles. An empty string yields no roles.
func SplitRoles(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, RoleSeparator)
}
