package game

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// memStore is a minimal Store for engine tests.
type memStore struct {
	mu     sync.RWMutex
	byID   map[string]*Game
	byCode map[string]*Game
}

func newMemStore() *memStore {
	return &memStore{byID: make(map[string]*Game), byCode: make(map[string]*Game)}
}

func (m *memStore) Get(id string) (*Game, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.byID[id]
	return g, ok
}

func (m *memStore) GetByCode(code string) (*Game, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.byCode[code]
	return g, ok
}

func (m *memStore) Put(g *Game) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[g.ID] = g
	m.byCode[g.Code] = g
}

func (m *memStore) HasCode(code string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byCode[code]
	return ok
}

// recordingNotifier captures emitted events for assertions.
type recordingNotifier struct {
	mu       sync.Mutex
	public   []string
	private  map[string][]string // playerID -> events
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{private: make(map[string][]string)}
}

func (n *recordingNotifier) PublishGameEvent(gameID, event string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.public = append(n.public, event)
}

func (n *recordingNotifier) PublishPlayerEvent(gameID, playerID, event string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.private[playerID] = append(n.private[playerID], event)
}

func (n *recordingNotifier) hasPublic(event string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, e := range n.public {
		if e == event {
			return true
		}
	}
	return false
}

func newTestEngine() (*Engine, *recordingNotifier) {
	e := NewEngine(newMemStore(), time.Hour, zerolog.Nop())
	n := newRecordingNotifier()
	e.SetNotifier(n)
	return e, n
}

func TestCreateGame(t *testing.T) {
	e, n := newTestEngine()
	g, host, err := e.CreateGame("Alice")
	if err != nil {
		t.Fatalf("should be able to create game: %v", err)
	}
	if len(g.Code) != 6 {
		t.Fatalf("expected 6-char join code, got %q", g.Code)
	}
	if !host.IsHost {
		t.Fatal("creator should be host")
	}
	if g.HostID != host.ID {
		t.Fatal("hostId should reference the host player")
	}
	if g.Status != StatusWaiting || g.Phase != PhaseLobby {
		t.Fatalf("new game should be WAITING/LOBBY, got %s/%s", g.Status, g.Phase)
	}
	if !n.hasPublic(EventGameCreated) {
		t.Fatal("game:created should have been emitted")
	}

	got, err := e.Game(g.ID)
	if err != nil {
		t.Fatalf("should be able to retrieve created game: %v", err)
	}
	if got != g {
		t.Fatal("store should return the same game instance")
	}
}

func TestCreateGameRequiresHostName(t *testing.T) {
	e, _ := newTestEngine()
	if _, _, err := e.CreateGame(""); err == nil {
		t.Fatal("empty host name should be rejected")
	}
}

func TestJoinGame(t *testing.T) {
	e, n := newTestEngine()
	g, _, err := e.CreateGame("Alice")
	if err != nil {
		t.Fatalf("should be able to create game: %v", err)
	}

	joined, p, err := e.JoinGame(g.Code, "Bob")
	if err != nil {
		t.Fatalf("should be able to join by code: %v", err)
	}
	if joined.ID != g.ID {
		t.Fatal("join should resolve the same game")
	}
	if p.IsHost {
		t.Fatal("joining player should not be host")
	}
	if len(g.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(g.Players))
	}
	if !n.hasPublic(EventPlayerJoined) {
		t.Fatal("player:joined should have been emitted")
	}

	if _, _, err := e.JoinGame("ZZZZZZ", "Carol"); err == nil {
		t.Fatal("unknown code should fail")
	}
}

func TestStartGameValidation(t *testing.T) {
	e, _ := newTestEngine()
	g, host, err := e.CreateGame("Alice")
	if err != nil {
		t.Fatalf("should be able to create game: %v", err)
	}

	// too few players
	if _, err := e.StartGame(g.ID, host.ID); err == nil {
		t.Fatal("starting with 1 player should fail")
	}

	for i := 0; i < 9; i++ {
		if _, _, err := e.JoinGame(g.Code, fmt.Sprintf("player%d", i)); err != nil {
			t.Fatalf("join failed: %v", err)
		}
	}

	// non-host cannot start
	if _, err := e.StartGame(g.ID, g.Players[1].ID); err == nil {
		t.Fatal("non-host start should fail")
	}

	if _, err := e.StartGame(g.ID, host.ID); err != nil {
		t.Fatalf("host should be able to start with 10 players: %v", err)
	}
}

func TestFullFirstNightFlow(t *testing.T) {
	e, n := newTestEngine()
	g, host, err := e.CreateGame("Alice")
	if err != nil {
		t.Fatalf("should be able to create game: %v", err)
	}
	for i := 0; i < 9; i++ {
		if _, _, err := e.JoinGame(g.Code, fmt.Sprintf("player%d", i)); err != nil {
			t.Fatalf("join failed: %v", err)
		}
	}
	if _, err := e.StartGame(g.ID, host.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// every player holds exactly one role from the 10-player multiset
	want, _ := RolesFor(10)
	counts := make(map[Role]int)
	killers := 0
	for _, p := range g.Players {
		if p.Role == "" || p.Team == "" {
			t.Fatalf("player %s missing role or team", p.ID)
		}
		counts[p.Role]++
		if isKillCapable(p.Role) {
			killers++
		}
	}
	wantCounts := make(map[Role]int)
	for _, r := range want {
		wantCounts[r]++
	}
	for r, c := range wantCounts {
		if counts[r] != c {
			t.Fatalf("expected %d of %s, got %d", c, r, counts[r])
		}
	}
	if killers != 2 {
		t.Fatalf("10-player game should seat 2 kill-capable villains, got %d", killers)
	}

	// each player gets a private role reveal
	for _, p := range g.Players {
		found := false
		for _, ev := range n.private[p.ID] {
			if ev == EventRoleAssigned {
				found = true
			}
		}
		if !found {
			t.Fatalf("player %s got no private role reveal", p.ID)
		}
	}

	// everyone acts: killers pick a victim, the rest skip
	var victim string
	for _, p := range g.Players {
		if !isKillCapable(p.Role) {
			victim = p.ID
			break
		}
	}
	for _, p := range g.Players {
		action, target := ActionSkip, ""
		if isKillCapable(p.Role) {
			action, target = ActionAssassinKill, victim
		}
		if err := e.RegisterNightAction(g.ID, p.ID, action, target); err != nil {
			t.Fatalf("action for %s (%s) failed: %v", p.ID, p.Role, err)
		}
	}

	// the last action auto-resolves the night
	if g.CurrentPhase() != PhaseDayDiscussion {
		t.Fatalf("expected DAY_DISCUSSION after full night, got %s", g.CurrentPhase())
	}
	if g.Round != 1 {
		t.Fatalf("expected round 1, got %d", g.Round)
	}
	if len(g.NightResults) != 1 {
		t.Fatalf("expected 1 night result, got %d", len(g.NightResults))
	}
	if !n.hasPublic(EventNightEnded) {
		t.Fatal("night:ended should have been emitted")
	}
	if !n.hasPublic(EventPhaseChanged) {
		t.Fatal("phase:changed should have been emitted")
	}

	dead := 0
	for _, p := range g.Players {
		if !p.IsAlive {
			dead++
		}
	}
	if dead != 1 {
		t.Fatalf("expected exactly one night death, got %d", dead)
	}
}

func TestJoinAfterStartRejected(t *testing.T) {
	e, _ := newTestEngine()
	g, host, err := e.CreateGame("Alice")
	if err != nil {
		t.Fatalf("should be able to create game: %v", err)
	}
	for i := 0; i < 9; i++ {
		if _, _, err := e.JoinGame(g.Code, fmt.Sprintf("player%d", i)); err != nil {
			t.Fatalf("join failed: %v", err)
		}
	}
	if _, err := e.StartGame(g.ID, host.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, _, err := e.JoinGame(g.Code, "latecomer"); err == nil {
		t.Fatal("joining a started game should fail")
	}
}
