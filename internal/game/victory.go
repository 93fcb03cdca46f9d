package game

// evaluateVictory checks the win conditions in fixed priority order.
//
// The suicida only wins through a day vote: the check inspects the last
// voting-history entry, which night deaths never touch, so a night kill
// of the suicida does not end the game on its own.
func (g *Game) evaluateVictory() (Winner, bool) {
	if g.suicidaWon() {
		return WinnerSuicida, true
	}
	killers := len(g.aliveKillers())
	if killers == 0 {
		return WinnerCitizens, true
	}
	citizens := 0
	for _, p := range g.Players {
		if p.IsAlive && p.Team == TeamCitizens {
			citizens++
		}
	}
	if killers >= citizens {
		return WinnerVillains, true
	}
	return "", false
}

func (g *Game) suicidaWon() bool {
	if len(g.VotingHistory) == 0 {
		return false
	}
	last := g.VotingHistory[len(g.VotingHistory)-1]
	if last.Eliminated == "" {
		return false
	}
	p := g.player(last.Eliminated)
	return p != nil && p.Role == RoleSuicida && !p.IsAlive
}

// Stats is a liveness summary used in the game:ended payload.
type Stats struct {
	TotalPlayers   int `json:"totalPlayers"`
	AlivePlayers   int `json:"alivePlayers"`
	AliveAssassins int `json:"aliveAssassins"`
	AliveCitizens  int `json:"aliveCitizens"`
	DeadPlayers    int `json:"deadPlayers"`
	Round          int `json:"round"`
}

func (g *Game) GameStats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats()
}

func (g *Game) stats() Stats {
	s := Stats{TotalPlayers: len(g.Players), Round: g.Round}
	for _, p := range g.Players {
		if !p.IsAlive {
			continue
		}
		s.AlivePlayers++
		if isKillCapable(p.Role) {
			s.AliveAssassins++
		}
		if p.Team == TeamCitizens {
			s.AliveCitizens++
		}
	}
	s.DeadPlayers = s.TotalPlayers - s.AlivePlayers
	return s
}
