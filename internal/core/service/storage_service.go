package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hexcorp/hive-ai/internal/api/metrics"
	"github.com/hexcorp/hive-ai/internal/core/domain"
	"github.com/hexcorp/hive-ai/internal/core/ports"
)

const maxStorageHours = 24

// storePattern matches `[DRONE ID] :: [TARGET DRONE] :: [HOURS] :: [PURPOSE]`.
// The whitespace around the separators is significant.
var storePattern = regexp.MustCompile(`^(\d{4}) :: (\d{4}) :: (\d+) :: (.*)`)

const storeRejectMessage = "Invalid input format. Use `[DRONE ID HERE] :: [TARGET DRONE HERE] :: [INTEGER BETWEEN 1 - 24 HERE] :: [RECORDED PURPOSE OF STORAGE HERE]` (exclude brackets)."

// StorageConfig carries the role and channel names the storage lifecycle
// operates on. ProtectedRoles are never stripped from a stored drone.
type StorageConfig struct {
	DroneRole       string
	StoredRole      string
	ElevatedRole    string
	ProtectedRoles  []string
	ChambersChannel string
}

// StorageService manages the Hive Storage Chambers: the store command, the
// authorized manual release, the timed release sweep, and the periodic
// status report.
type StorageService struct {
	repo      ports.StorageRepository
	gateway   ports.Gateway
	resolveID ports.DroneIDResolver
	cfg       StorageConfig
	protected map[string]struct{}
	logger    zerolog.Logger
}

func NewStorageService(
	repo ports.StorageRepository,
	gateway ports.Gateway,
	resolveID ports.DroneIDResolver,
	cfg StorageConfig,
	logger zerolog.Logger,
) *StorageService {
	protected := make(map[string]struct{}, len(cfg.ProtectedRoles))
	for _, r := range cfg.ProtectedRoles {
		protected[r] = struct{}{}
	}
	return &StorageService{
		repo:      repo,
		gateway:   gateway,
		resolveID: resolveID,
		cfg:       cfg,
		protected: protected,
		logger:    logger,
	}
}

// Handle processes a store command posted in the storage facility channel.
// A bare "help" is left for the help system; anything else is claimed, with
// malformed input answered by the fixed format rejection.
func (s *StorageService) Handle(ctx context.Context, msg ports.InboundMessage) (bool, error) {
	// ignore help commands
	if strings.EqualFold(msg.Content, "help") {
		return false, nil
	}

	m := storePattern.FindStringSubmatch(msg.Content)
	if m == nil {
		return true, s.gateway.Send(ctx, msg.Channel, storeRejectMessage)
	}
	droneID, targetID, hoursRaw, purpose := m[1], m[2], m[3], m[4]
	s.logger.Debug().Str("target_id", targetID).Msg("message is valid for storage")

	// check if drone is already in storage
	existing, err := s.repo.FindByTargetID(ctx, targetID)
	if err != nil && !errors.Is(err, domain.ErrStoredDroneNotFound) {
		return true, fmt.Errorf("store: %w", err)
	}
	if existing != nil {
		return true, s.gateway.Send(ctx, msg.Channel, fmt.Sprintf("%s is already in storage.", targetID))
	}

	hours, err := strconv.Atoi(hoursRaw)
	if err != nil || hours <= 0 || hours > maxStorageHours {
		return true, s.gateway.Send(ctx, msg.Channel, fmt.Sprintf("%s is not between 0 and 24.", hoursRaw))
	}

	members, err := s.gateway.Members(ctx)
	if err != nil {
		return true, fmt.Errorf("store: %w", err)
	}
	for _, member := range members {
		id, ok := s.resolveID(member.DisplayName)
		if !ok || id != targetID || !member.HasRole(s.cfg.DroneRole) {
			continue
		}
		if err := s.storeMember(ctx, member, droneID, targetID, hours, purpose); err != nil {
			return true, fmt.Errorf("store: %w", err)
		}
		return true, nil
	}

	// if no drone was stored answer with error
	return true, s.gateway.Send(ctx, msg.Channel, fmt.Sprintf("Drone with ID %s could not be found.", targetID))
}

// storeMember swaps the member's removable roles for the stored role,
// persists the record, and announces the storage in the chambers channel.
func (s *StorageService) storeMember(ctx context.Context, member domain.Member, droneID, targetID string, hours int, purpose string) error {
	formerRoles := s.removableRoles(member.Roles)
	if err := s.gateway.RemoveRoles(ctx, member.ID, formerRoles); err != nil {
		return fmt.Errorf("strip roles: %w", err)
	}
	if err := s.gateway.AddRoles(ctx, member.ID, []string{s.cfg.StoredRole}); err != nil {
		return fmt.Errorf("grant stored role: %w", err)
	}

	stored := &domain.StoredDrone{
		ID:          newRecordID(),
		DroneID:     droneID,
		TargetID:    targetID,
		Purpose:     purpose,
		Roles:       domain.JoinRoles(formerRoles),
		ReleaseTime: time.Now().UTC().Add(time.Duration(hours) * time.Hour),
	}
	if err := s.repo.Insert(ctx, stored); err != nil {
		return err
	}
	metrics.DronesStoredTotal.Inc()
	s.logger.Info().
		Str("target_id", targetID).
		Str("stored_by", droneID).
		Int("hours", hours).
		Msg("drone stored")

	// Inform the drone that they have been stored.
	plural := "hours"
	if hours == 1 {
		plural = "hour"
	}
	by := droneID
	if droneID == targetID {
		by = "yourself"
	}
	content := fmt.Sprintf(
		"Greetings %s. You have been stored away in the Hive Storage Chambers by %s for %d %s and for the following reason: %s",
		member.Mention, by, hours, plural, purpose)
	return s.gateway.Send(ctx, s.cfg.ChambersChannel, content)
}

// HandleRelease processes the authorized `release @drone` command. Any
// message starting with "release" is claimed; unauthorized or unmatched
// invocations stay silent.
func (s *StorageService) HandleRelease(ctx context.Context, msg ports.InboundMessage) (bool, error) {
	if !strings.HasPrefix(strings.ToLower(msg.Content), "release") {
		return false, nil
	}
	if !hasRole(msg.Author.Roles, s.cfg.ElevatedRole) {
		s.logger.Debug().Str("author", msg.Author.DisplayName).Msg("release command from unauthorized member ignored")
		return true, nil
	}
	if len(msg.Mentions) == 0 {
		return true, nil
	}

	target := msg.Mentions[0]
	targetID, ok := s.resolveID(target.DisplayName)
	if !ok {
		return true, nil
	}
	stored, err := s.repo.FindByTargetID(ctx, targetID)
	if err != nil {
		if errors.Is(err, domain.ErrStoredDroneNotFound) {
			return true, nil
		}
		return true, fmt.Errorf("release: %w", err)
	}

	if err := s.releaseMember(ctx, target.ID, stored); err != nil {
		return true, fmt.Errorf("release: %w", err)
	}
	metrics.DronesReleasedTotal.WithLabelValues("manual").Inc()
	s.logger.Info().Str("target_id", targetID).Msg("drone released from storage by command")
	return true, nil
}

// SweepReleases releases every stored drone whose release time has passed.
// The row is deleted even when the member has left; a vanished member is
// logged as accepted loss. A failure on one row must not stop the rest.
func (s *StorageService) SweepReleases(ctx context.Context) error {
	stored, err := s.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("release sweep: %w", err)
	}

	now := time.Now().UTC()
	var members []domain.Member
	for _, rec := range stored {
		if !rec.Expired(now) {
			continue
		}
		if members == nil {
			if members, err = s.gateway.Members(ctx); err != nil {
				return fmt.Errorf("release sweep: %w", err)
			}
		}
		if err := s.releaseExpired(ctx, rec, members); err != nil {
			s.logger.Error().Err(err).Str("record_id", rec.ID).Str("target_id", rec.TargetID).Msg("timed release failed")
		}
	}
	return nil
}

func (s *StorageService) releaseExpired(ctx context.Context, rec *domain.StoredDrone, members []domain.Member) error {
	member, found := findByDroneID(members, s.resolveID, rec.TargetID)
	if !found {
		s.logger.Warn().Str("target_id", rec.TargetID).Msg("stored drone left before release, cleaning up")
		if err := s.repo.Delete(ctx, rec.ID); err != nil {
			return fmt.Errorf("delete storage record: %w", err)
		}
		metrics.DronesReleasedTotal.WithLabelValues("timed").Inc()
		return nil
	}

	if err := s.releaseMember(ctx, member.ID, rec); err != nil {
		return err
	}
	metrics.DronesReleasedTotal.WithLabelValues("timed").Inc()
	s.logger.Info().Str("target_id", rec.TargetID).Msg("drone released from storage")
	return nil
}

// releaseMember restores the member's saved roles (skipping any name that no
// longer resolves), removes the stored role, and deletes the record.
func (s *StorageService) releaseMember(ctx context.Context, memberID string, rec *domain.StoredDrone) error {
	roleNames, err := s.gateway.RoleNames(ctx)
	if err != nil {
		return fmt.Errorf("list roles: %w", err)
	}
	restorable := resolvableRoles(rec.SavedRoles(), roleNames)
	if skipped := len(rec.SavedRoles()) - len(restorable); skipped > 0 {
		s.logger.Warn().Str("target_id", rec.TargetID).Int("skipped", skipped).Msg("saved roles no longer resolve, skipping")
	}

	if err := s.gateway.RemoveRoles(ctx, memberID, []string{s.cfg.StoredRole}); err != nil {
		return fmt.Errorf("remove stored role: %w", err)
	}
	if err := s.gateway.AddRoles(ctx, memberID, restorable); err != nil {
		return fmt.Errorf("restore roles: %w", err)
	}
	if err := s.repo.Delete(ctx, rec.ID); err != nil {
		return fmt.Errorf("delete storage record: %w", err)
	}
	return nil
}

// ReportStorage posts the periodic storage status to the chambers channel.
func (s *StorageService) ReportStorage(ctx context.Context) error {
	stored, err := s.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("storage report: %w", err)
	}
	metrics.DronesInStorage.Set(float64(len(stored)))

	if len(stored) == 0 {
		return s.gateway.Send(ctx, s.cfg.ChambersChannel, "No drones in storage.")
	}

	now := time.Now().UTC()
	for _, rec := range stored {
		remaining := rec.ReleaseTime.Sub(now).Hours()
		content := fmt.Sprintf("`Drone #%s`, stored away by `Drone #%s`. Remaining time in storage: %.2f hours",
			rec.TargetID, rec.DroneID, remaining)
		if err := s.gateway.Send(ctx, s.cfg.ChambersChannel, content); err != nil {
			s.logger.Error().Err(err).Str("target_id", rec.TargetID).Msg("storage report message failed")
		}
	}
	return nil
}

// removableRoles filters the member's roles down to the ones the AI may
// strip and later restore, preserving order.
func (s *StorageService) removableRoles(roleNames []string) []string {
	removable := make([]string, 0, len(roleNames))
	for _, name := range roleNames {
		if _, ok := s.protected[name]; !ok {
			removable = append(removable, name)
		}
	}
	return removable
}

// resolvableRoles keeps only the saved names that still exist in the
// community role set, preserving the saved order.
func resolvableRoles(saved, current []string) []string {
	existing := make(map[string]struct{}, len(current))
	for _, name := range current {
		existing[name] = struct{}{}
	}
	kept := make([]string, 0, len(saved))
	for _, name := range saved {
		if _, ok := existing[name]; ok {
			kept = append(kept, name)
		}
	}
	return kept
}

func hasRole(roleNames []string, want string) bool {
	for _, name := range roleNames {
		if name == want {
			return true
		}
	}
	return false
}
