package game

import (
	"fmt"
	"time"
)

// Transition describes one completed phase change so the caller can fan
// out the right events.
type Transition struct {
	From  Phase
	To    Phase
	Night *NightResult
	Vote  *VotingResult
	Ended bool
}

// EndNight resolves the current night and either enters DAY_DISCUSSION
// or ends the game.
func (g *Game) EndNight() (*Transition, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Phase != PhaseNight {
		return nil, fmt.Errorf("%w: not in NIGHT phase", ErrInvalidState)
	}
	return g.endNight(), nil
}

func (g *Game) endNight() *Transition {
	tr := &Transition{From: g.Phase}
	tr.Night = g.resolveNight()
	if w, ended := g.evaluateVictory(); ended {
		g.finish(w)
		tr.Ended = true
	} else {
		g.Phase = PhaseDayDiscussion
		g.PhaseStartedAt = time.Now().UTC()
	}
	tr.To = g.Phase
	return tr
}

// BeginVoting moves DAY_DISCUSSION to DAY_VOTING, clearing stale votes.
func (g *Game) BeginVoting() (*Transition, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Phase != PhaseDayDiscussion {
		return nil, fmt.Errorf("%w: not in DAY_DISCUSSION phase", ErrInvalidState)
	}
	g.stopDiscussionTimer()
	return g.beginVoting(), nil
}

func (g *Game) beginVoting() *Transition {
	tr := &Transition{From: g.Phase}
	g.clearVotes()
	g.Phase = PhaseDayVoting
	g.PhaseStartedAt = time.Now().UTC()
	g.PhaseDeadline = time.Time{}
	tr.To = g.Phase
	return tr
}

// EndVoting tallies the vote and either re-enters NIGHT for the next
// round or ends the game.
func (g *Game) EndVoting() (*Transition, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Phase != PhaseDayVoting {
		return nil, fmt.Errorf("%w: not in DAY_VOTING phase", ErrInvalidState)
	}
	return g.endVoting(), nil
}

func (g *Game) endVoting() *Transition {
	tr := &Transition{From: g.Phase}
	tr.Vote = g.tallyVotes()
	if w, ended := g.evaluateVictory(); ended {
		g.finish(w)
		tr.Ended = true
	} else {
		g.Round++
		g.Phase = PhaseNight
		g.PhaseStartedAt = time.Now().UTC()
		g.nightActions = nil
	}
	tr.To = g.Phase
	return tr
}

// Advance is the host's manual phase advance. NIGHT requires every
// living assassin to have picked a kill, DAY_VOTING requires a full
// vote, DAY_DISCUSSION advances unconditionally.
func (g *Game) Advance(hostID string) (*Transition, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if hostID != g.HostID {
		return nil, fmt.Errorf("%w: only the host can advance the phase", ErrForbidden)
	}
	switch g.Phase {
	case PhaseNight:
		if !g.killersHaveActed() {
			return nil, fmt.Errorf("%w: assassins have not chosen a target", ErrInvalidState)
		}
		return g.endNight(), nil
	case PhaseDayDiscussion:
		g.stopDiscussionTimer()
		return g.beginVoting(), nil
	case PhaseDayVoting:
		if !g.allVotesCast() {
			return nil, fmt.Errorf("%w: not everyone has voted", ErrInvalidState)
		}
		return g.endVoting(), nil
	default:
		return nil, fmt.Errorf("%w: cannot advance from %s", ErrInvalidState, g.Phase)
	}
}

// ScheduleDiscussion arms the discussion deadline timer. The expire
// callback receives a sequence number it must hand back to
// ExpireDiscussion, which rejects stale fires.
func (g *Game) ScheduleDiscussion(d time.Duration, expire func(seq int)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Phase != PhaseDayDiscussion {
		return
	}
	g.stopDiscussionTimer()
	g.timerSeq++
	seq := g.timerSeq
	g.PhaseDeadline = time.Now().UTC().Add(d)
	g.discussionTimer = time.AfterFunc(d, func() { expire(seq) })
}

// ExpireDiscussion is the timer's entry point. It only acts when the
// game is still in DAY_DISCUSSION and the sequence matches the armed
// timer; a fire that lost the race with a manual advance is a no-op.
func (g *Game) ExpireDiscussion(seq int) (*Transition, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Phase != PhaseDayDiscussion || seq != g.timerSeq {
		return nil, false
	}
	g.discussionTimer = nil
	return g.beginVoting(), true
}

// stopDiscussionTimer cancels any pending deadline. Bumping the sequence
// also invalidates a timer that already fired but has not run yet.
func (g *Game) stopDiscussionTimer() {
	g.timerSeq++
	if g.discussionTimer != nil {
		g.discussionTimer.Stop()
		g.discussionTimer = nil
	}
	g.PhaseDeadline = time.Time{}
}
