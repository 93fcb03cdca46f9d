package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// Event names published after successful mutations.
const (
	EventGameCreated  = "game:created"
	EventPlayerJoined = "player:joined"
	EventGameStarted  = "game:started"
	EventRoleAssigned = "role:assigned"
	EventNightAction  = "night:action_registered"
	EventNightEnded   = "night:ended"
	EventNightPrivate = "night:private_result"
	EventVoteCast     = "vote:cast"
	EventVotingEnded  = "voting:ended"
	EventPhaseChanged = "phase:changed"
	EventGameEnded    = "game:ended"
)

// Notifier delivers events to connected clients. Delivery is
// best-effort: the engine never waits on it and never rolls state back
// because of it.
type Notifier interface {
	PublishGameEvent(gameID, event string, payload any)
	PublishPlayerEvent(gameID, playerID, event string, payload any)
}

// Store holds game instances. The reference implementation is in-memory;
// anything honoring this contract (and leaving per-game serialization to
// the Game mutex) can back it.
type Store interface {
	Get(id string) (*Game, bool)
	GetByCode(code string) (*Game, bool)
	Put(g *Game)
	HasCode(code string) bool
}

// Engine routes player intents to game instances and fans out events.
type Engine struct {
	store      Store
	notifier   Notifier
	discussion time.Duration
	log        zerolog.Logger
}

func NewEngine(store Store, discussion time.Duration, logger zerolog.Logger) *Engine {
	return &Engine{
		store:      store,
		discussion: discussion,
		log:        logger.With().Str("component", "engine").Logger(),
	}
}

// SetNotifier wires the realtime transport. A nil notifier is fine;
// events are then dropped.
func (e *Engine) SetNotifier(n Notifier) { e.notifier = n }

// CreateGame opens a new lobby with the given host.
func (e *Engine) CreateGame(hostName string) (*Game, *Player, error) {
	if hostName == "" {
		return nil, nil, fmt.Errorf("%w: host name is required", ErrInvalidInput)
	}
	code := randomCode(6)
	for e.store.HasCode(code) {
		code = randomCode(6)
	}
	g := NewGame(code, hostName)
	e.store.Put(g)
	host := g.Players[0]
	e.log.Info().Str("gameId", g.ID).Str("code", code).Msg("game created")
	e.emit(g.ID, EventGameCreated, g.PublicSnapshot())
	return g, host, nil
}

// JoinGame seats a player in the lobby identified by its join code.
func (e *Engine) JoinGame(code, playerName string) (*Game, *Player, error) {
	if playerName == "" {
		return nil, nil, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}
	g, ok := e.store.GetByCode(code)
	if !ok {
		return nil, nil, fmt.Errorf("%w: no game with code %s", ErrNotFound, code)
	}
	p, err := g.Join(playerName)
	if err != nil {
		return nil, nil, err
	}
	e.log.Info().Str("gameId", g.ID).Str("playerId", p.ID).Msg("player joined")
	e.emit(g.ID, EventPlayerJoined, g.PublicSnapshot())
	return g, p, nil
}

// StartGame assigns roles and enters the first night. Each player gets a
// private role reveal on their own channel.
func (e *Engine) StartGame(gameID, hostID string) (*Game, error) {
	g, err := e.Game(gameID)
	if err != nil {
		return nil, err
	}
	if err := g.Start(hostID); err != nil {
		return nil, err
	}
	e.log.Info().Str("gameId", g.ID).Int("players", len(g.Players)).Msg("game started")
	snap := g.PublicSnapshot()
	e.emit(g.ID, EventGameStarted, snap)
	for _, p := range g.Players {
		if _, you, err := g.PlayerSnapshot(p.ID); err == nil {
			e.emitTo(g.ID, p.ID, EventRoleAssigned, you)
		}
	}
	e.emit(g.ID, EventPhaseChanged, phasePayload(PhaseLobby, PhaseNight, snap))
	return g, nil
}

// RegisterNightAction records an action; once every living player has
// acted the night resolves immediately.
func (e *Engine) RegisterNightAction(gameID, playerID string, actionType NightActionType, targetID string) error {
	g, err := e.Game(gameID)
	if err != nil {
		return err
	}
	complete, err := g.RegisterNightAction(playerID, actionType, targetID)
	if err != nil {
		return err
	}
	e.emit(g.ID, EventNightAction, g.PublicSnapshot())
	if complete {
		// a concurrent trigger may have resolved the night already;
		// the registration itself still succeeded
		if tr, err := g.EndNight(); err == nil {
			e.fanOut(g, tr)
		}
	}
	return nil
}

// EndNight resolves the night on request. Phase-guarded, not host-gated.
func (e *Engine) EndNight(gameID string) (*Transition, error) {
	g, err := e.Game(gameID)
	if err != nil {
		return nil, err
	}
	tr, err := g.EndNight()
	if err != nil {
		return nil, err
	}
	e.fanOut(g, tr)
	return tr, nil
}

// CastVote records a vote; once every living player has voted the tally
// runs immediately.
func (e *Engine) CastVote(gameID, voterID, targetID string) error {
	g, err := e.Game(gameID)
	if err != nil {
		return err
	}
	complete, err := g.CastVote(voterID, targetID)
	if err != nil {
		return err
	}
	total, voted, missing := g.VotingStatus()
	e.emit(g.ID, EventVoteCast, map[string]any{
		"game":         g.PublicSnapshot(),
		"totalPlayers": total,
		"votedCount":   voted,
		"missingVotes": missing,
	})
	if complete {
		if tr, err := g.EndVoting(); err == nil {
			e.fanOut(g, tr)
		}
	}
	return nil
}

// EndVoting tallies the vote on request. Phase-guarded, not host-gated.
func (e *Engine) EndVoting(gameID string) (*Transition, error) {
	g, err := e.Game(gameID)
	if err != nil {
		return nil, err
	}
	tr, err := g.EndVoting()
	if err != nil {
		return nil, err
	}
	e.fanOut(g, tr)
	return tr, nil
}

// AdvancePhase is the host's manual trigger for the current phase's
// natural transition.
func (e *Engine) AdvancePhase(gameID, hostID string) (*Transition, error) {
	g, err := e.Game(gameID)
	if err != nil {
		return nil, err
	}
	tr, err := g.Advance(hostID)
	if err != nil {
		return nil, err
	}
	e.fanOut(g, tr)
	return tr, nil
}

// Game looks up a game by id.
func (e *Engine) Game(gameID string) (*Game, error) {
	g, ok := e.store.Get(gameID)
	if !ok {
		return nil, fmt.Errorf("%w: no game %s", ErrNotFound, gameID)
	}
	return g, nil
}

// fanOut publishes everything a completed transition implies: vote or
// night results, private deliveries, the phase change, the game end, and
// the discussion deadline timer.
func (e *Engine) fanOut(g *Game, tr *Transition) {
	snap := g.PublicSnapshot()
	if tr.Night != nil {
		e.emit(g.ID, EventNightEnded, map[string]any{
			"game":        snap,
			"finalDeaths": tr.Night.FinalDeaths,
		})
		e.deliverPrivateResults(g, tr.Night)
	}
	if tr.Vote != nil {
		e.emit(g.ID, EventVotingEnded, map[string]any{
			"game":   snap,
			"result": tr.Vote,
		})
	}
	e.emit(g.ID, EventPhaseChanged, phasePayload(tr.From, tr.To, snap))
	if tr.Ended {
		e.log.Info().Str("gameId", g.ID).Str("winner", string(g.Winner)).Msg("game ended")
		e.emit(g.ID, EventGameEnded, map[string]any{
			"game":   snap,
			"winner": g.Winner,
			"stats":  g.GameStats(),
		})
		return
	}
	if tr.To == PhaseDayDiscussion {
		g.ScheduleDiscussion(e.discussion, func(seq int) {
			if tr, ok := g.ExpireDiscussion(seq); ok {
				e.log.Info().Str("gameId", g.ID).Msg("discussion deadline elapsed")
				e.fanOut(g, tr)
			}
		})
	}
}

func (e *Engine) deliverPrivateResults(g *Game, res *NightResult) {
	if res.Detective != nil {
		if p := g.PlayerByRole(RoleDetective); p != nil {
			e.emitTo(g.ID, p.ID, EventNightPrivate, map[string]any{"investigation": res.Detective})
		}
	}
	if res.Seer != nil {
		if p := g.PlayerByRole(RoleSeer); p != nil {
			e.emitTo(g.ID, p.ID, EventNightPrivate, map[string]any{"reveal": res.Seer})
		}
	}
}

func (e *Engine) emit(gameID, event string, payload any) {
	if e.notifier == nil {
		return
	}
	e.notifier.PublishGameEvent(gameID, event, payload)
}

func (e *Engine) emitTo(gameID, playerID, event string, payload any) {
	if e.notifier == nil {
		return
	}
	e.notifier.PublishPlayerEvent(gameID, playerID, event, payload)
}

func phasePayload(from, to Phase, snap Snapshot) map[string]any {
	return map[string]any{"from": from, "to": to, "game": snap}
}

func randomCode(n int) string {
	letters := []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
