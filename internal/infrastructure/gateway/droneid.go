package gateway

import "regexp"

// droneIDPattern captures the 4-digit drone identifier embedded in a display
// name, e.g. "⬡-Drone #9813" or "HexDrone 3287".
var droneIDPattern = regexp.MustCompile(`\b(\d{4})\b`)

// ParseDroneID derives a drone's identifier from its display name. Members
// without an embedded identifier are not drones.
func ParseDroneID(displayName string) (string, bool) {
	m := droneIDPattern.FindStringSubmatch(displayName)
	if m == nil {
		return "", false
	}
	return m[1], true
}
