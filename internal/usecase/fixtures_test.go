package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/billing"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/eligibility"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/session"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/team"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/infrastructure/repository/memory"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/logging"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/profanity"
)

// Valid national IDs for roster fixtures.
const (
	nidAli    = "0013542419"
	nidSara   = "1234567891"
	nidReza   = "0048392723"
	nidMina   = "7863456126"
	nidOmid   = "3354678909"
	nidLeila  = "1123456781"
	nidKian   = "9987654320"
	nidNarges = "5572446807"
)

type seqIDGenerator struct {
	mu   sync.Mutex
	next int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%03d", g.next), nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
	phones   []string
	fail     bool
}

func (n *fakeNotifier) SendSMS(_ context.Context, phone, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return fmt.Errorf("gateway down")
	}
	n.phones = append(n.phones, phone)
	n.messages = append(n.messages, message)
	return nil
}

type fakeSessionStore struct {
	mu      sync.Mutex
	next    int
	issued  map[string]session.Principal
	revoked []string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{issued: make(map[string]session.Principal)}
}

func (s *fakeSessionStore) Issue(_ context.Context, p session.Principal) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	token := fmt.Sprintf("token-%03d", s.next)
	s.issued[token] = p
	return token, nil
}

func (s *fakeSessionStore) Verify(_ context.Context, token string) (session.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.issued[token]
	if !ok {
		return session.Principal{}, fmt.Errorf("unknown token")
	}
	return p, nil
}

func (s *fakeSessionStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.issued, token)
	s.revoked = append(s.revoked, token)
	return nil
}

type stubReceiptStore struct {
	failSave bool
}

func (s stubReceiptStore) Save(_ context.Context, r io.Reader, _ int64, _ string) (string, error) {
	if s.failSave {
		return "", fmt.Errorf("disk full")
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	return "receipt-token", nil
}

func (s stubReceiptStore) Open(_ context.Context, _ string) (io.ReadCloser, string, error) {
	return io.NopCloser(strings.NewReader("receipt-bytes")), "image/png", nil
}

func (s stubReceiptStore) Delete(_ context.Context, _ string) error {
	return nil
}

func testAgeTable() map[team.EducationLevel]eligibility.AgeRange {
	intp := func(v int) *int { return &v }
	return map[team.EducationLevel]eligibility.AgeRange{
		team.LevelElementary: {Min: intp(7), Max: intp(13)},
		team.LevelJuniorHigh: {Min: intp(12), Max: intp(16)},
		team.LevelSeniorHigh: {Min: intp(15), Max: intp(19)},
		team.LevelUniversity: {Min: intp(17)},
		team.LevelOpen:       {},
	}
}

func testPricing() billing.Pricing {
	return billing.Pricing{
		FeePerMember:         9_500_000,
		TeamFee:              4_500_000,
		SecondLeagueDiscount: 20,
	}
}

// fixture wires every service against fresh memory repositories.
type fixture struct {
	clients  *memory.ClientRepository
	teams    *memory.TeamRepository
	members  *memory.MemberRepository
	payments *memory.PaymentRepository
	audits   *memory.AuditLogRepository
	leagues  *memory.LeagueRepository
	geos     *memory.GeoRepository

	notifier *fakeNotifier
	sessions *fakeSessionStore
	idGen    *seqIDGenerator

	roster     *RosterService
	fees       *FeeService
	audit      *AuditService
	resolution *ResolutionService
	clientsSvc *ClientService
	reconcile  *ReconcileService
	admin      *AdminService
}

func newFixture() *fixture {
	f := &fixture{
		teams:    memory.NewTeamRepository(),
		members:  memory.NewMemberRepository(),
		audits:   memory.NewAuditLogRepository(),
		leagues:  memory.NewLeagueRepository(memory.SeedLeagues()),
		geos:     memory.NewGeoRepository(memory.SeedProvinces(), memory.SeedCities()),
		notifier: &fakeNotifier{},
		sessions: newFakeSessionStore(),
		idGen:    &seqIDGenerator{},
	}
	f.clients = memory.NewClientRepository(f.teams, f.members)
	f.payments = memory.NewPaymentRepository(f.teams, f.members, f.audits)

	logger := logging.NewNop()
	validator := eligibility.NewValidator(testAgeTable())
	filter := profanity.NewFilter([]string{"badword"})

	f.roster = NewRosterService(
		f.clients, f.teams, f.members, f.leagues, f.geos,
		validator, filter, f.idGen, logger, 3, 6,
	)
	f.fees = NewFeeService(f.teams, f.members, f.payments, testPricing(), f.roster)
	f.audit = NewAuditService(f.teams, f.members, validator, logger)
	f.resolution = NewResolutionService(f.clients, f.audit, f.sessions, logger)
	f.clientsSvc = NewClientService(
		f.clients, f.idGen, f.notifier, logger,
		6, 5*time.Minute, 90*time.Second,
	)
	f.reconcile = NewReconcileService(
		f.payments, f.clients, f.audits, f.notifier, f.idGen, logger,
	)
	f.admin = NewAdminService(f.clients, f.audits, f.audit, f.idGen, logger)

	return f
}

// birthDateForAge returns a birth date making the person exactly that
// many completed years old relative to now.
func birthDateForAge(age int) time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year()-age, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
}

func (f *fixture) mustRegisterClient(ctx context.Context, phone string) string {
	c, err := f.clientsSvc.RegisterClient(ctx, RegisterClientInput{
		FullName: "Parisa Ahmadi",
		Phone:    phone,
	})
	if err != nil {
		panic(fmt.Sprintf("register client: %v", err))
	}
	return c.ID
}

func (f *fixture) mustCreateTeam(ctx context.Context, clientID, name, leagueOne, leagueTwo string) string {
	t, err := f.roster.CreateTeam(ctx, CreateTeamInput{
		ClientID:       clientID,
		Name:           name,
		LeagueOneID:    leagueOne,
		LeagueTwoID:    leagueTwo,
		EducationLevel: string(team.LevelSeniorHigh),
	})
	if err != nil {
		panic(fmt.Sprintf("create team: %v", err))
	}
	return t.ID
}

func (f *fixture) mustAddMember(ctx context.Context, clientID, teamID, name, nid, role string, age int) string {
	m, err := f.roster.AddMember(ctx, UpsertMemberInput{
		ClientID:   clientID,
		TeamID:     teamID,
		FullName:   name,
		NationalID: nid,
		Role:       role,
		BirthDate:  birthDateForAge(age),
		CityID:     "thr-tehran",
	})
	if err != nil {
		panic(fmt.Sprintf("add member: %v", err))
	}
	return m.ID
}
