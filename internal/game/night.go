package game

import (
	"fmt"
	"time"
)

// RegisterNightAction validates and records one night action. A second
// action of the same type from the same player replaces the first; a
// witch may hold a heal and a kill action at once. The returned flag
// reports whether every living player has now acted, so the caller can
// auto-resolve the night.
func (g *Game) RegisterNightAction(playerID string, actionType NightActionType, targetID string) (complete bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Phase != PhaseNight {
		return false, fmt.Errorf("%w: night actions only during NIGHT", ErrInvalidState)
	}
	p := g.player(playerID)
	if p == nil || !p.IsAlive {
		return false, fmt.Errorf("%w: actor is dead or unknown", ErrInvalidInput)
	}
	if !actionAllowed(p.Role, actionType) {
		return false, fmt.Errorf("%w: %s cannot perform %s", ErrRoleActionMismatch, p.Role, actionType)
	}
	if actionNeedsTarget(actionType) {
		t := g.player(targetID)
		if t == nil || !t.IsAlive {
			return false, fmt.Errorf("%w: target is dead or unknown", ErrInvalidInput)
		}
	}

	// last write wins per (player, type)
	kept := g.nightActions[:0]
	for _, a := range g.nightActions {
		if a.PlayerID != playerID || a.ActionType != actionType {
			kept = append(kept, a)
		}
	}
	g.nightActions = append(kept, NightAction{
		PlayerID:   playerID,
		ActionType: actionType,
		TargetID:   targetID,
		CreatedAt:  time.Now().UTC(),
	})
	return g.allPlayersActed(), nil
}

// allPlayersActed reports whether every living player has at least one
// recorded action this night.
func (g *Game) allPlayersActed() bool {
	acted := make(map[string]bool, len(g.nightActions))
	for _, a := range g.nightActions {
		acted[a.PlayerID] = true
	}
	for _, p := range g.alivePlayers() {
		if !acted[p.ID] {
			return false
		}
	}
	return true
}

// killersHaveActed reports whether every living kill-capable villain has
// registered a kill. Gate for the host's manual night advance.
func (g *Game) killersHaveActed() bool {
	killed := make(map[string]bool)
	for _, a := range g.nightActions {
		if a.ActionType == ActionAssassinKill {
			killed[a.PlayerID] = true
		}
	}
	for _, p := range g.aliveKillers() {
		if !killed[p.ID] {
			return false
		}
	}
	return true
}

// resolveNight runs the fixed resolution pipeline, applies the deaths
// and appends the result to the night history. A night with no actions
// resolves to no deaths.
func (g *Game) resolveNight() *NightResult {
	res := &NightResult{FinalDeaths: []string{}}

	// 1. assassins pick the primary kill
	res.KilledByAssassins = g.assassinTarget()

	// 2. doctor save
	for _, a := range g.nightActions {
		if a.ActionType == ActionDoctorSave {
			res.SavedByDoctor = a.TargetID
			break
		}
	}

	// 3. detective investigation (private)
	for _, a := range g.nightActions {
		if a.ActionType != ActionInvestigate {
			continue
		}
		if t := g.player(a.TargetID); t != nil && t.IsAlive {
			res.Detective = &InvestigationResult{TargetID: t.ID, IsVillain: t.Team == TeamVillains}
		}
		break
	}

	// 4. seer reveal (private)
	for _, a := range g.nightActions {
		if a.ActionType != ActionSeerReveal {
			continue
		}
		if t := g.player(a.TargetID); t != nil && t.Role != "" {
			res.Seer = &RevealResult{TargetID: t.ID, Role: t.Role}
		}
		break
	}

	// 5. witch potions, each usable once per game
	for _, a := range g.nightActions {
		switch a.ActionType {
		case ActionWitchHeal:
			if g.WitchPotions.HasHealPotion {
				// the heal potion always aims at the primary kill victim
				res.HealedByWitch = res.KilledByAssassins
				g.WitchPotions.HasHealPotion = false
			}
		case ActionWitchKill:
			if a.TargetID != "" && g.WitchPotions.HasKillPotion {
				res.KilledByWitch = a.TargetID
				g.WitchPotions.HasKillPotion = false
			}
		}
	}

	// 6. final deaths: save and heal each cancel the primary kill, the
	// potion kill is independent
	res.FinalDeaths = finalDeaths(res)

	// 7. apply
	for _, id := range res.FinalDeaths {
		if p := g.player(id); p != nil {
			p.IsAlive = false
		}
	}
	g.NightResults = append(g.NightResults, res)
	g.nightActions = nil
	return res
}

// assassinTarget resolves the primary kill. The leader's choice wins
// when several assassins disagree; otherwise the first registered kill.
func (g *Game) assassinTarget() string {
	var kills []NightAction
	for _, a := range g.nightActions {
		if a.ActionType == ActionAssassinKill {
			kills = append(kills, a)
		}
	}
	if len(kills) == 0 {
		return ""
	}
	if len(kills) > 1 {
		for _, a := range kills {
			if p := g.player(a.PlayerID); p != nil && p.Role == RoleAssassinLeader {
				return a.TargetID
			}
		}
	}
	return kills[0].TargetID
}

// finalDeaths de-duplicates the kill set and cancels the primary kill
// when the doctor's save or the witch's heal matched it. The poison kill
// on a distinct target is independent of both.
func finalDeaths(res *NightResult) []string {
	deaths := make([]string, 0, 2)
	add := func(id string) {
		for _, d := range deaths {
			if d == id {
				return
			}
		}
		deaths = append(deaths, id)
	}
	if res.KilledByAssassins != "" {
		add(res.KilledByAssassins)
	}
	if res.KilledByWitch != "" {
		add(res.KilledByWitch)
	}
	saved := res.KilledByAssassins != "" &&
		(res.KilledByAssassins == res.SavedByDoctor || res.KilledByAssassins == res.HealedByWitch)
	if saved {
		kept := deaths[:0]
		for _, d := range deaths {
			if d != res.KilledByAssassins {
				kept = append(kept, d)
			}
		}
		deaths = kept
	}
	return deaths
}

// AvailableActions lists what a player may still do tonight. The witch's
// list shrinks as potions are consumed.
func (g *Game) AvailableActions(playerID string) []NightActionType {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.player(playerID)
	if p == nil || !p.IsAlive || p.Role == "" {
		return nil
	}
	return g.availableActions(p)
}
