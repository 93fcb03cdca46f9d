package game

import (
	"fmt"
	"math/rand"
)

// RoleConfig is the static catalog entry for a role.
type RoleConfig struct {
	Team          Team
	CanActAtNight bool
	Actions       []NightActionType
	Description   string
}

var roleCatalog = map[Role]RoleConfig{
	RoleAssassin: {
		Team:          TeamVillains,
		CanActAtNight: true,
		Actions:       []NightActionType{ActionAssassinKill},
		Description:   "Mata um jogador durante a noite",
	},
	RoleAssassinLeader: {
		Team:          TeamVillains,
		CanActAtNight: true,
		Actions:       []NightActionType{ActionAssassinKill},
		Description:   "Líder dos assassinos com voto de desempate",
	},
	RoleSuicida: {
		Team:        TeamVillains,
		Description: "Vence se for eliminado por votação durante o dia",
	},
	RoleDetective: {
		Team:          TeamCitizens,
		CanActAtNight: true,
		Actions:       []NightActionType{ActionInvestigate},
		Description:   "Investiga se um jogador é vilão ou não",
	},
	RoleSeer: {
		Team:          TeamCitizens,
		CanActAtNight: true,
		Actions:       []NightActionType{ActionSeerReveal},
		Description:   "Descobre o papel exato de um jogador",
	},
	RoleDoctor: {
		Team:          TeamCitizens,
		CanActAtNight: true,
		Actions:       []NightActionType{ActionDoctorSave},
		Description:   "Salva um jogador da morte durante a noite",
	},
	RoleWitch: {
		Team:          TeamCitizens,
		CanActAtNight: true,
		Actions:       []NightActionType{ActionWitchHeal, ActionWitchKill},
		Description:   "Possui uma poção de cura e uma de morte",
	},
	RoleJudge: {
		Team:        TeamCitizens,
		Description: "Decide o eliminado em caso de empate na votação",
	},
	RoleDelegate: {
		Team:        TeamCitizens,
		Description: "Seu voto vale por dois",
	},
	RoleGhost: {
		Team:        TeamCitizens,
		Description: "Após morrer, pode ajudar com gestos",
	},
	RoleCitizen: {
		Team:        TeamCitizens,
		Description: "Cidadão comum sem habilidades especiais",
	},
}

// Fixed role multiset per player count. 12 players get a second assassin.
var roleDistribution = map[int][]Role{
	10: {
		RoleAssassin, RoleAssassinLeader, RoleSuicida,
		RoleDetective, RoleDoctor, RoleSeer, RoleWitch,
		RoleJudge, RoleDelegate, RoleCitizen,
	},
	11: {
		RoleAssassin, RoleAssassinLeader, RoleSuicida,
		RoleDetective, RoleDoctor, RoleSeer, RoleWitch,
		RoleJudge, RoleDelegate, RoleGhost, RoleCitizen,
	},
	12: {
		RoleAssassin, RoleAssassin, RoleAssassinLeader, RoleSuicida,
		RoleDetective, RoleDoctor, RoleSeer, RoleWitch,
		RoleJudge, RoleDelegate, RoleGhost, RoleCitizen,
	},
}

const (
	MinPlayers = 10
	MaxPlayers = 12
)

// CatalogEntry returns the static config for a role.
func CatalogEntry(r Role) (RoleConfig, bool) {
	cfg, ok := roleCatalog[r]
	return cfg, ok
}

// RolesFor returns the fixed role multiset for a player count.
func RolesFor(count int) ([]Role, error) {
	roles, ok := roleDistribution[count]
	if !ok {
		return nil, fmt.Errorf("%w: player count must be between %d and %d, got %d",
			ErrInvalidInput, MinPlayers, MaxPlayers, count)
	}
	out := make([]Role, len(roles))
	copy(out, roles)
	return out, nil
}

func teamForRole(r Role) Team {
	return roleCatalog[r].Team
}

// assignRoles shuffles the fixed multiset for the roster size onto the
// players. Must only run once per game; the LOBBY status guard in Start
// prevents a re-shuffle.
func assignRoles(players []*Player) error {
	roles, err := RolesFor(len(players))
	if err != nil {
		return err
	}
	rand.Shuffle(len(roles), func(i, j int) { roles[i], roles[j] = roles[j], roles[i] })
	for i, p := range players {
		p.Role = roles[i]
		p.Team = teamForRole(roles[i])
	}
	return nil
}

func isKillCapable(r Role) bool {
	return r == RoleAssassin || r == RoleAssassinLeader
}

func allowedActions(r Role) []NightActionType {
	return roleCatalog[r].Actions
}

func actionAllowed(r Role, t NightActionType) bool {
	if t == ActionSkip {
		return true
	}
	for _, a := range allowedActions(r) {
		if a == t {
			return true
		}
	}
	return false
}

func actionNeedsTarget(t NightActionType) bool {
	switch t {
	case ActionAssassinKill, ActionDoctorSave, ActionInvestigate, ActionSeerReveal, ActionWitchKill:
		return true
	}
	// The heal potion implicitly targets the night's primary kill victim.
	return false
}
