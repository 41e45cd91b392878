package ports

import "context"

// StorageService manages the storage lifecycle: the store command, the
// manual release command, and the two background sweeps.
type StorageService interface {
	MessageHandler // the store command handler

	// SweepReleases releases every stored drone whose release time has
	// passed, restoring its saved roles. One sweep pass.
	SweepReleases(ctx context.Context) error
	// ReportStorage posts the periodic storage status to the storage
	// chambers channel. One report pass.
	ReportStorage(ctx context.Context) error
}
