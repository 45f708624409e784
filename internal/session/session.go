package session

import (
	"sync"
	"time"

	"github.com/spec-kit/barber-portal/internal/domain"
	"github.com/spec-kit/barber-portal/internal/repository"
)

// Record is the durable proof of authentication persisted across restarts.
type Record struct {
	StaffID   string    `json:"staff_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the record's age exceeds the TTL at the given
// instant. Expired records are treated as absent.
func (r Record) Expired(ttl time.Duration, now time.Time) bool {
	return now.Sub(r.CreatedAt) >= ttl
}

// Session holds the signed-in staff member and the in-memory cache of
// their appointments, blocks, catalog and settings, plus the derived
// earnings summary. It is the single source of truth for the identity;
// all mutations go through the services, which write the remote store
// first and mirror the change here only after acknowledgment.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu           sync.RWMutex
	staff        domain.StaffMember
	appointments []domain.Appointment
	blocks       []domain.ScheduleBlock
	services     []domain.Service
	settings     *domain.Settings
	earnings     domain.EarningsSummary

	lockMu    sync.Mutex
	apptLocks map[string]*sync.Mutex
}

// New builds a session for an authenticated staff member.
func New(id string, staff domain.StaffMember, createdAt time.Time) *Session {
	return &Session{
		ID:        id,
		CreatedAt: createdAt,
		staff:     staff,
		apptLocks: make(map[string]*sync.Mutex),
	}
}

// Staff returns a copy of the active identity.
func (s *Session) Staff() domain.StaffMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.staff
}

// StaffID returns the active staff id.
func (s *Session) StaffID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.staff.ID
}

// Appointments returns a copy of the cached appointment collection.
func (s *Session) Appointments() []domain.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Appointment, len(s.appointments))
	copy(out, s.appointments)
	return out
}

// Blocks returns a copy of the cached block collection.
func (s *Session) Blocks() []domain.ScheduleBlock {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ScheduleBlock, len(s.blocks))
	copy(out, s.blocks)
	return out
}

// Services returns a copy of the cached service catalog.
func (s *Session) Services() []domain.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Service, len(s.services))
	copy(out, s.services)
	return out
}

// Settings returns the cached settings document, which may be nil.
func (s *Session) Settings() *domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Earnings returns the current derived earnings summary.
func (s *Session) Earnings() domain.EarningsSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.earnings
}

// ReplaceAppointments swaps the cached appointment collection.
func (s *Session) ReplaceAppointments(appts []domain.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = appts
}

// ReplaceBlocks swaps the cached block collection.
func (s *Session) ReplaceBlocks(blocks []domain.ScheduleBlock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks = blocks
}

// ReplaceCatalog swaps the cached service catalog and settings.
func (s *Session) ReplaceCatalog(services []domain.Service, settings *domain.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services = services
	if settings != nil {
		s.settings = settings
	}
}

// SetEarnings stores a freshly recomputed earnings summary.
func (s *Session) SetEarnings(summary domain.EarningsSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.earnings = summary
}

// FindAppointment returns a copy of the cached appointment with the id.
func (s *Session) FindAppointment(id string) (domain.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, appt := range s.appointments {
		if appt.ID == id {
			return appt, true
		}
	}
	return domain.Appointment{}, false
}

// MirrorStatus applies an acknowledged remote status write to the cached
// appointment. Only the status and transition timestamps change; every
// other field is left untouched.
func (s *Session) MirrorStatus(id string, status domain.AppointmentStatus, startedAt, completedAt *time.Time, updatedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.appointments {
		if s.appointments[i].ID != id {
			continue
		}
		s.appointments[i].Status = status
		if startedAt != nil {
			s.appointments[i].StartedAt = startedAt
		}
		if completedAt != nil {
			s.appointments[i].CompletedAt = completedAt
		}
		s.appointments[i].UpdatedAt = updatedAt
		return
	}
}

// AppendBlock adds a newly persisted block to the cache.
func (s *Session) AppendBlock(block domain.ScheduleBlock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks = append([]domain.ScheduleBlock{block}, s.blocks...)
}

// FindBlock returns a copy of the cached block with the id.
func (s *Session) FindBlock(id string) (domain.ScheduleBlock, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, block := range s.blocks {
		if block.ID == id {
			return block, true
		}
	}
	return domain.ScheduleBlock{}, false
}

// DropBlock removes a block from the cache after confirmed remote deletion.
func (s *Session) DropBlock(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.blocks {
		if s.blocks[i].ID == id {
			s.blocks = append(s.blocks[:i], s.blocks[i+1:]...)
			return
		}
	}
}

// ApplyProfile merges acknowledged profile changes into the identity.
func (s *Session) ApplyProfile(update repository.ProfileUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if update.Name != nil {
		s.staff.Name = *update.Name
	}
	if update.AvatarURL != nil {
		s.staff.AvatarURL = update.AvatarURL
	}
	if update.Location != nil {
		s.staff.Location = *update.Location
	}
}

// SetPasswordHash mirrors an acknowledged credential change.
func (s *Session) SetPasswordHash(hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staff.PasswordHash = hash
}

// AppointmentLock returns the mutex serializing mutations for one
// appointment id. Overlapping transition calls against the same id are
// ordered instead of racing.
func (s *Session) AppointmentLock(id string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	lock, ok := s.apptLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.apptLocks[id] = lock
	}
	return lock
}
