package service

import (
	"context"
	"errors"
	"sync"

	"formai/internal/modules/session/domain"
	sessionout "formai/internal/modules/session/port/out"
	apperrors "formai/internal/platform/errors"
)

// SessionService is the single writer of session state. All mutating
// operations serialize through it; everything else observes snapshots.
type SessionService struct {
	mu       sync.Mutex
	gateway  sessionout.Gateway
	identity sessionout.IdentityStore

	snap domain.Snapshot

	// authBusy refuses a second login/register while one is in flight.
	// pending counts every in-flight identity operation; the Loading flag
	// is its projection. The boot pending slot is owned by whichever
	// identity operation runs first, tracked by booted.
	authBusy bool
	pending  int
	booted   bool

	// Reload ordering: each operation that ends in a context reload takes
	// a ticket at its start. A reload response whose ticket is older than
	// the last applied one is discarded, so a late response cannot
	// overwrite newer state during rapid sport switching.
	reloadSeq     uint64
	reloadApplied uint64

	observers map[int]func(domain.Snapshot)
	nextObsID int
}

func NewSessionService(gateway sessionout.Gateway, identity sessionout.IdentityStore) *SessionService {
	return &SessionService{
		gateway:  gateway,
		identity: identity,
		// The process boots in the loading state until Resume settles.
		snap:      domain.Snapshot{Session: domain.Session{Loading: true}},
		pending:   1,
		observers: map[int]func(domain.Snapshot){},
	}
}

func (s *SessionService) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

func (s *SessionService) Subscribe(fn func(domain.Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// Resume restores the remembered identity, if any, and reloads its
// context before settling the boot loading state.
func (s *SessionService) Resume(ctx context.Context) error {
	s.mu.Lock()
	s.adoptBootLocked()
	s.snap.Session.Loading = true
	s.mu.Unlock()
	defer s.settle()
	userID, err := s.identity.Load(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoRememberedIdentity) {
			return nil
		}
		return err
	}
	ticket := s.takeTicket()
	s.mu.Lock()
	s.snap.Session.UserID = userID
	s.mu.Unlock()
	s.reload(ctx, userID, ticket)
	return nil
}

// Login authenticates and fully resolves the context reload before
// returning, so navigation never transiently sees an active state with
// missing sport data. Failure leaves prior state untouched.
func (s *SessionService) Login(ctx context.Context, username, password string) error {
	if err := s.beginAuth(); err != nil {
		return err
	}
	defer s.settleAuth()
	userID, err := s.gateway.Login(ctx, username, password)
	if err != nil {
		return err
	}
	s.adopt(ctx, userID)
	return nil
}

// Register creates the identity server-side first, then follows the same
// contract as Login.
func (s *SessionService) Register(ctx context.Context, reg domain.Registration) error {
	if err := s.beginAuth(); err != nil {
		return err
	}
	defer s.settleAuth()
	userID, err := s.gateway.Register(ctx, reg)
	if err != nil {
		return err
	}
	s.adopt(ctx, userID)
	return nil
}

// Logout is synchronous and unconditional. No network call.
func (s *SessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	loading := s.pending > 0
	s.snap = domain.Snapshot{Session: domain.Session{Loading: loading}}
	s.reloadApplied = s.reloadSeq
	s.mu.Unlock()
	_ = s.identity.Clear(ctx)
	s.notify()
}

// Onboard sets or replaces the active sport. On failure the current
// profile is left untouched.
func (s *SessionService) Onboard(ctx context.Context, sportID string, skill domain.SkillRequest) error {
	s.mu.Lock()
	userID := s.snap.Session.UserID
	s.mu.Unlock()
	if userID == "" {
		return apperrors.ErrNotAuthenticated
	}
	ticket := s.takeTicket()
	s.begin()
	defer s.settle()
	if err := s.gateway.Onboard(ctx, userID, sportID, skill); err != nil {
		return err
	}
	s.reload(ctx, userID, ticket)
	return nil
}

// SwitchSport reuses the onboard endpoint while preserving the server-side
// skill history.
func (s *SessionService) SwitchSport(ctx context.Context, sportID string) error {
	return s.Onboard(ctx, sportID, domain.PreserveSkill())
}

// Reload refreshes the derived context for the current identity.
func (s *SessionService) Reload(ctx context.Context) error {
	s.mu.Lock()
	userID := s.snap.Session.UserID
	s.mu.Unlock()
	if userID == "" {
		return apperrors.ErrNotAuthenticated
	}
	ticket := s.takeTicket()
	s.begin()
	defer s.settle()
	s.reload(ctx, userID, ticket)
	return nil
}

// adopt installs a freshly authenticated identity and resolves its context.
func (s *SessionService) adopt(ctx context.Context, userID string) {
	ticket := s.takeTicket()
	s.mu.Lock()
	s.snap.Session.UserID = userID
	s.mu.Unlock()
	s.notify()
	_ = s.identity.Save(ctx, userID)
	s.reload(ctx, userID, ticket)
}

// reload fetches the dashboard-config bundle and atomically replaces all
// derived fields together. A connectivity failure collapses them to absent
// (fail safe to onboarding) rather than keeping stale data; the failure is
// recorded so the UI can distinguish it from a confirmed empty profile.
func (s *SessionService) reload(ctx context.Context, userID string, ticket uint64) {
	bundle, err := s.gateway.DashboardConfig(ctx, userID)

	s.mu.Lock()
	if ticket <= s.reloadApplied || s.snap.Session.UserID != userID {
		s.mu.Unlock()
		return
	}
	s.reloadApplied = ticket
	if err != nil {
		s.snap.Context = nil
		s.snap.ReloadFailed = errors.Is(err, apperrors.ErrUnavailable)
	} else {
		s.snap.Context = bundle
		s.snap.ReloadFailed = false
	}
	s.mu.Unlock()
	s.notify()
}

func (s *SessionService) takeTicket() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadSeq++
	return s.reloadSeq
}

func (s *SessionService) beginAuth() error {
	s.mu.Lock()
	if s.authBusy {
		s.mu.Unlock()
		return apperrors.ErrOperationInFlight
	}
	s.authBusy = true
	s.adoptBootLocked()
	s.snap.Session.Loading = true
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *SessionService) settleAuth() {
	s.mu.Lock()
	s.authBusy = false
	s.mu.Unlock()
	s.settle()
}

func (s *SessionService) begin() {
	s.mu.Lock()
	s.adoptBootLocked()
	s.snap.Session.Loading = true
	s.mu.Unlock()
	s.notify()
}

// adoptBootLocked claims the boot pending slot for the calling operation.
// The first identity operation after construction inherits it; later ones
// take a fresh slot. A direct Login or Register with no prior Resume, as
// the one-shot CLI commands issue, therefore still settles the boot
// loading state when it resolves.
func (s *SessionService) adoptBootLocked() {
	if s.booted {
		s.pending++
	}
	s.booted = true
}

func (s *SessionService) settle() {
	s.mu.Lock()
	if s.pending > 0 {
		s.pending--
	}
	s.snap.Session.Loading = s.pending > 0
	s.mu.Unlock()
	s.notify()
}

func (s *SessionService) notify() {
	s.mu.Lock()
	snap := s.copyLocked()
	observers := make([]func(domain.Snapshot), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()
	for _, fn := range observers {
		fn(snap)
	}
}

// copyLocked deep-copies the snapshot so readers never share the bundle
// pointer with the writer.
func (s *SessionService) copyLocked() domain.Snapshot {
	snap := s.snap
	if s.snap.Context != nil {
		bundle := *s.snap.Context
		snap.Context = &bundle
	}
	return snap
}
