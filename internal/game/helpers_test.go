package game

import (
	"fmt"
	"time"
)

// newTestGame builds a PLAYING game in the NIGHT phase with fixed roles,
// so tests don't depend on the shuffle. Player ids are p1..pN in roster
// order; p1 is the host.
func newTestGame(roles []Role) *Game {
	g := &Game{
		ID:           "g1",
		Code:         "ABC123",
		Status:       StatusPlaying,
		Phase:        PhaseNight,
		Round:        1,
		WitchPotions: WitchPotions{HasHealPotion: true, HasKillPotion: true},
		CreatedAt:    time.Now().UTC(),
		StartedAt:    time.Now().UTC(),
		currentVotes: make(map[string]string),
	}
	for i, r := range roles {
		p := &Player{
			ID:      fmt.Sprintf("p%d", i+1),
			Name:    fmt.Sprintf("player%d", i+1),
			IsAlive: true,
			Role:    r,
			Team:    teamForRole(r),
		}
		if i == 0 {
			p.IsHost = true
			g.HostID = p.ID
		}
		g.Players = append(g.Players, p)
	}
	return g
}

// tenPlayerRoles is the fixed 10-seat multiset in roster order.
func tenPlayerRoles() []Role {
	return []Role{
		RoleAssassin, RoleAssassinLeader, RoleSuicida,
		RoleDetective, RoleDoctor, RoleSeer, RoleWitch,
		RoleJudge, RoleDelegate, RoleCitizen,
	}
}

// enterVoting pushes a night-phase test game straight to DAY_VOTING.
func enterVoting(g *Game) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Phase = PhaseDayVoting
	g.clearVotes()
}
