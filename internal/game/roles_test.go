package game

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRolesForFixedMultisets(t *testing.T) {
	for _, tc := range []struct {
		count     int
		assassins int
		ghosts    int
	}{
		{count: 10, assassins: 1, ghosts: 0},
		{count: 11, assassins: 1, ghosts: 1},
		{count: 12, assassins: 2, ghosts: 1},
	} {
		roles, err := RolesFor(tc.count)
		require.NoError(t, err)
		assert.Len(t, roles, tc.count)

		byRole := make(map[Role]int)
		for _, r := range roles {
			byRole[r]++
		}
		assert.Equal(t, tc.assassins, byRole[RoleAssassin], "%d players", tc.count)
		assert.Equal(t, tc.ghosts, byRole[RoleGhost], "%d players", tc.count)
		// exactly one of each authority role at every size
		for _, r := range []Role{RoleAssassinLeader, RoleSuicida, RoleDetective, RoleDoctor, RoleSeer, RoleWitch, RoleJudge, RoleDelegate, RoleCitizen} {
			assert.Equal(t, 1, byRole[r], "%s at %d players", r, tc.count)
		}
	}
}

func TestRolesForOutOfRange(t *testing.T) {
	for _, n := range []int{0, 1, 9, 13, 20} {
		_, err := RolesFor(n)
		assert.ErrorIs(t, err, ErrInvalidInput, "count %d", n)
	}
}

func TestAssignRolesTeamPartition(t *testing.T) {
	players := make([]*Player, 12)
	for i := range players {
		players[i] = &Player{ID: fmt.Sprintf("p%d", i+1), IsAlive: true}
	}
	require.NoError(t, assignRoles(players))

	villains := 0
	for _, p := range players {
		require.NotEmpty(t, p.Role, "every player gets a role")
		require.NotEmpty(t, p.Team, "every player gets a team")
		switch p.Role {
		case RoleAssassin, RoleAssassinLeader, RoleSuicida:
			assert.Equal(t, TeamVillains, p.Team)
			villains++
		default:
			assert.Equal(t, TeamCitizens, p.Team)
		}
	}
	// 12 players: 2 assassins + leader + suicida
	assert.Equal(t, 4, villains)
}

func TestAssignRolesInvalidCountMutatesNothing(t *testing.T) {
	players := make([]*Player, 9)
	for i := range players {
		players[i] = &Player{ID: fmt.Sprintf("p%d", i+1), IsAlive: true}
	}
	err := assignRoles(players)
	assert.ErrorIs(t, err, ErrInvalidInput)
	for _, p := range players {
		assert.Empty(t, p.Role)
		assert.Empty(t, p.Team)
	}
}

func TestStartIsGuardedAgainstReshuffle(t *testing.T) {
	g := NewGame("ABC123", "host")
	for i := 0; i < 9; i++ {
		_, err := g.Join(fmt.Sprintf("player%d", i+1))
		require.NoError(t, err)
	}
	require.NoError(t, g.Start(g.HostID))
	assert.Equal(t, StatusPlaying, g.Status)
	assert.Equal(t, PhaseNight, g.Phase)
	assert.Equal(t, 1, g.Round)
	assert.False(t, g.StartedAt.IsZero())
	assert.True(t, g.StartedAt.Before(time.Now().Add(time.Second)))

	err := g.Start(g.HostID)
	assert.ErrorIs(t, err, ErrInvalidState, "starting twice must not re-shuffle")
}

func TestCatalogEntry(t *testing.T) {
	cfg, ok := CatalogEntry(RoleWitch)
	require.True(t, ok)
	assert.Equal(t, TeamCitizens, cfg.Team)
	assert.True(t, cfg.CanActAtNight)
	assert.ElementsMatch(t, []NightActionType{ActionWitchHeal, ActionWitchKill}, cfg.Actions)

	_, ok = CatalogEntry(Role("NOPE"))
	assert.False(t, ok)
}
