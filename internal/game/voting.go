package game

import "fmt"

// CastVote records or overwrites the voter's current vote. The returned
// flag reports whether every living player has now voted, so the caller
// can auto-tally.
func (g *Game) CastVote(voterID, targetID string) (complete bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Phase != PhaseDayVoting {
		return false, fmt.Errorf("%w: voting only during DAY_VOTING", ErrInvalidState)
	}
	voter := g.player(voterID)
	if voter == nil || !voter.IsAlive {
		return false, fmt.Errorf("%w: voter is dead or unknown", ErrInvalidInput)
	}
	target := g.player(targetID)
	if target == nil || !target.IsAlive {
		return false, fmt.Errorf("%w: target is dead or unknown", ErrInvalidInput)
	}
	voter.VotedFor = targetID
	g.currentVotes[voterID] = targetID
	return g.allVotesCast(), nil
}

func (g *Game) allVotesCast() bool {
	for _, p := range g.alivePlayers() {
		if p.VotedFor == "" {
			return false
		}
	}
	return true
}

// VotingStatus reports progress of the current vote.
func (g *Game) VotingStatus() (total, voted int, missing []string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range g.alivePlayers() {
		total++
		if p.VotedFor != "" {
			voted++
		} else {
			missing = append(missing, p.ID)
		}
	}
	return total, voted, missing
}

// tallyVotes resolves the vote: weighted counts, tie detection, judge
// tie-break, elimination. Appends to history and clears the scratch vote
// state.
func (g *Game) tallyVotes() *VotingResult {
	counts := make(map[string]int)
	byTarget := make(map[string][]string)
	for _, voter := range g.Players {
		if !voter.IsAlive || voter.VotedFor == "" {
			continue
		}
		counts[voter.VotedFor] += voteWeight(voter)
		byTarget[voter.VotedFor] = append(byTarget[voter.VotedFor], voter.ID)
	}

	res := &VotingResult{Votes: byTarget}
	if len(counts) > 0 {
		max := 0
		for _, c := range counts {
			if c > max {
				max = c
			}
		}
		var top []string
		for id, c := range counts {
			if c == max {
				top = append(top, id)
			}
		}
		if len(top) == 1 {
			res.Eliminated = top[0]
		} else {
			res.IsTie = true
			// a living judge who voted for one of the tied candidates
			// decides; otherwise nobody falls this round
			if pick := g.judgeDecision(top); pick != "" {
				res.JudgeDecision = pick
				res.Eliminated = pick
			}
		}
	}

	if res.Eliminated != "" {
		if p := g.player(res.Eliminated); p != nil {
			p.IsAlive = false
		}
	}
	g.VotingHistory = append(g.VotingHistory, res)
	g.clearVotes()
	return res
}

// voteWeight is 2 for the delegate, 1 for everyone else.
func voteWeight(p *Player) int {
	if p.Role == RoleDelegate {
		return 2
	}
	return 1
}

func (g *Game) judgeDecision(candidates []string) string {
	for _, p := range g.Players {
		if p.Role != RoleJudge || !p.IsAlive {
			continue
		}
		for _, c := range candidates {
			if p.VotedFor == c {
				return c
			}
		}
		return ""
	}
	return ""
}

func (g *Game) clearVotes() {
	g.currentVotes = make(map[string]string)
	for _, p := range g.Players {
		p.VotedFor = ""
	}
}
