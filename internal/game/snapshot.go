package game

import "time"

// PlayerView is a player as seen on a shared channel: no role, no team.
type PlayerView struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	IsAlive  bool      `json:"isAlive"`
	IsHost   bool      `json:"isHost"`
	HasVoted bool      `json:"hasVoted"`
	JoinedAt time.Time `json:"joinedAt"`
}

// NightResultView is the public slice of a resolved night.
type NightResultView struct {
	FinalDeaths []string `json:"finalDeaths"`
}

// Snapshot is the redacted game state that goes out on shared channels.
type Snapshot struct {
	ID             string            `json:"id"`
	Code           string            `json:"code"`
	HostID         string            `json:"hostId"`
	Players        []PlayerView      `json:"players"`
	Status         Status            `json:"status"`
	Phase          Phase             `json:"phase"`
	Round          int               `json:"round"`
	NightResults   []NightResultView `json:"nightResults"`
	VotingHistory  []*VotingResult   `json:"votingHistory"`
	Winner         Winner            `json:"winner,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	StartedAt      *time.Time        `json:"startedAt,omitempty"`
	EndedAt        *time.Time        `json:"endedAt,omitempty"`
	PhaseStartedAt *time.Time        `json:"phaseStartedAt,omitempty"`
	PhaseDeadline  *time.Time        `json:"phaseDeadline,omitempty"`
}

// You is the private section for one player: their own role and their
// own private night results, never anyone else's.
type You struct {
	PlayerID         string                `json:"playerId"`
	Name             string                `json:"name"`
	IsAlive          bool                  `json:"isAlive"`
	IsHost           bool                  `json:"isHost"`
	Role             Role                  `json:"role,omitempty"`
	Team             Team                  `json:"team,omitempty"`
	Description      string                `json:"description,omitempty"`
	Potions          *WitchPotions         `json:"potions,omitempty"`
	AvailableActions []NightActionType     `json:"availableActions,omitempty"`
	Investigations   []InvestigationResult `json:"investigations,omitempty"`
	Reveals          []RevealResult        `json:"reveals,omitempty"`
}

// PublicSnapshot builds the redacted state for shared channels.
func (g *Game) PublicSnapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

func (g *Game) snapshot() Snapshot {
	s := Snapshot{
		ID:            g.ID,
		Code:          g.Code,
		HostID:        g.HostID,
		Status:        g.Status,
		Phase:         g.Phase,
		Round:         g.Round,
		Winner:        g.Winner,
		CreatedAt:     g.CreatedAt,
		StartedAt:     timePtr(g.StartedAt),
		EndedAt:       timePtr(g.EndedAt),
		PhaseStartedAt: timePtr(g.PhaseStartedAt),
		PhaseDeadline: timePtr(g.PhaseDeadline),
		NightResults:  make([]NightResultView, 0, len(g.NightResults)),
		VotingHistory: append([]*VotingResult{}, g.VotingHistory...),
	}
	for _, p := range g.Players {
		s.Players = append(s.Players, PlayerView{
			ID:       p.ID,
			Name:     p.Name,
			IsAlive:  p.IsAlive,
			IsHost:   p.IsHost,
			HasVoted: p.VotedFor != "",
			JoinedAt: p.JoinedAt,
		})
	}
	for _, nr := range g.NightResults {
		s.NightResults = append(s.NightResults, NightResultView{FinalDeaths: nr.FinalDeaths})
	}
	return s
}

// PlayerSnapshot is the public snapshot plus the player's private view.
func (g *Game) PlayerSnapshot(playerID string) (Snapshot, You, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.player(playerID)
	if p == nil {
		return Snapshot{}, You{}, ErrNotFound
	}
	you := You{
		PlayerID: p.ID,
		Name:     p.Name,
		IsAlive:  p.IsAlive,
		IsHost:   p.IsHost,
		Role:     p.Role,
		Team:     p.Team,
	}
	if cfg, ok := CatalogEntry(p.Role); ok {
		you.Description = cfg.Description
	}
	switch p.Role {
	case RoleWitch:
		potions := g.WitchPotions
		you.Potions = &potions
	case RoleDetective:
		for _, nr := range g.NightResults {
			if nr.Detective != nil {
				you.Investigations = append(you.Investigations, *nr.Detective)
			}
		}
	case RoleSeer:
		for _, nr := range g.NightResults {
			if nr.Seer != nil {
				you.Reveals = append(you.Reveals, *nr.Seer)
			}
		}
	}
	if g.Phase == PhaseNight && p.IsAlive {
		you.AvailableActions = g.availableActions(p)
	}
	return g.snapshot(), you, nil
}

func (g *Game) availableActions(p *Player) []NightActionType {
	if p.Role == RoleWitch {
		out := []NightActionType{}
		if g.WitchPotions.HasHealPotion {
			out = append(out, ActionWitchHeal)
		}
		if g.WitchPotions.HasKillPotion {
			out = append(out, ActionWitchKill)
		}
		return append(out, ActionSkip)
	}
	return append(append([]NightActionType{}, allowedActions(p.Role)...), ActionSkip)
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
