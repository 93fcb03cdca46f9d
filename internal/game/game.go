package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewGame creates a WAITING game with its host already seated.
func NewGame(code, hostName string) *Game {
	host := &Player{
		ID:       uuid.NewString(),
		Name:     hostName,
		IsAlive:  true,
		IsHost:   true,
		JoinedAt: time.Now().UTC(),
	}
	return &Game{
		ID:           uuid.NewString(),
		Code:         code,
		HostID:       host.ID,
		Players:      []*Player{host},
		Status:       StatusWaiting,
		Phase:        PhaseLobby,
		WitchPotions: WitchPotions{HasHealPotion: true, HasKillPotion: true},
		CreatedAt:    time.Now().UTC(),
		currentVotes: make(map[string]string),
	}
}

// Join seats a new player. Only possible while the game is WAITING and
// below the seat limit.
func (g *Game) Join(name string) (*Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Status != StatusWaiting {
		return nil, fmt.Errorf("%w: game already started", ErrInvalidState)
	}
	if len(g.Players) >= MaxPlayers {
		return nil, fmt.Errorf("%w: game is full", ErrInvalidInput)
	}
	p := &Player{
		ID:       uuid.NewString(),
		Name:     name,
		IsAlive:  true,
		JoinedAt: time.Now().UTC(),
	}
	g.Players = append(g.Players, p)
	return p, nil
}

// Start assigns roles and enters the first night. Host-only.
func (g *Game) Start(hostID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if hostID != g.HostID {
		return fmt.Errorf("%w: only the host can start the game", ErrForbidden)
	}
	if g.Status != StatusWaiting {
		return fmt.Errorf("%w: game already started", ErrInvalidState)
	}
	if len(g.Players) < MinPlayers || len(g.Players) > MaxPlayers {
		return fmt.Errorf("%w: player count must be between %d and %d, got %d",
			ErrInvalidInput, MinPlayers, MaxPlayers, len(g.Players))
	}
	if err := assignRoles(g.Players); err != nil {
		return err
	}
	now := time.Now().UTC()
	g.Status = StatusPlaying
	g.Phase = PhaseNight
	g.Round = 1
	g.StartedAt = now
	g.PhaseStartedAt = now
	g.nightActions = nil
	return nil
}

// CurrentPhase returns the phase under the game lock.
func (g *Game) CurrentPhase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Phase
}

// PlayerByRole finds the (first) player holding a role.
func (g *Game) PlayerByRole(r Role) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range g.Players {
		if p.Role == r {
			return p
		}
	}
	return nil
}

func (g *Game) player(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *Game) alivePlayers() []*Player {
	out := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		if p.IsAlive {
			out = append(out, p)
		}
	}
	return out
}

func (g *Game) aliveKillers() []*Player {
	out := make([]*Player, 0, 3)
	for _, p := range g.Players {
		if p.IsAlive && isKillCapable(p.Role) {
			out = append(out, p)
		}
	}
	return out
}

// finish ends the game. Nothing mutates a FINISHED game afterwards.
func (g *Game) finish(w Winner) {
	g.stopDiscussionTimer()
	g.Status = StatusFinished
	g.Phase = PhaseEnded
	g.Winner = w
	g.EndedAt = time.Now().UTC()
	g.PhaseDeadline = time.Time{}
}
