package game

import (
	"sync"
	"time"
)

type Phase string

const (
	PhaseLobby         Phase = "LOBBY"
	PhaseNight         Phase = "NIGHT"
	PhaseDayDiscussion Phase = "DAY_DISCUSSION"
	PhaseDayVoting     Phase = "DAY_VOTING"
	PhaseEnded         Phase = "ENDED"
)

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusPlaying  Status = "PLAYING"
	StatusFinished Status = "FINISHED"
)

type Team string

const (
	TeamVillains Team = "VILLAINS"
	TeamCitizens Team = "CITIZENS"
)

// Role values keep the original Portuguese wire strings so existing
// clients keep working.
type Role string

const (
	RoleAssassin       Role = "ASSASSINO"
	RoleAssassinLeader Role = "LIDER_ASSASSINOS"
	RoleSuicida        Role = "SUICIDA"
	RoleDetective      Role = "DETETIVE"
	RoleSeer           Role = "VIDENTE"
	RoleDoctor         Role = "MEDICO"
	RoleWitch          Role = "BRUXA"
	RoleJudge          Role = "JUIZ"
	RoleDelegate       Role = "DELEGADO"
	RoleGhost          Role = "FANTASMA"
	RoleCitizen        Role = "CIDADAO"
)

// Winner is either a team or the suicida's solo win.
type Winner string

const (
	WinnerVillains Winner = "VILLAINS"
	WinnerCitizens Winner = "CITIZENS"
	WinnerSuicida  Winner = "SUICIDA"
)

type NightActionType string

const (
	ActionAssassinKill NightActionType = "ASSASSIN_KILL"
	ActionDoctorSave   NightActionType = "DOCTOR_SAVE"
	ActionInvestigate  NightActionType = "DETECTIVE_INVESTIGATE"
	ActionSeerReveal   NightActionType = "SEER_REVEAL"
	ActionWitchHeal    NightActionType = "WITCH_HEAL"
	ActionWitchKill    NightActionType = "WITCH_KILL"
	// ActionSkip lets roles without a night ability mark themselves done.
	ActionSkip NightActionType = "SKIP"
)

type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Role     Role      `json:"role,omitempty"`
	Team     Team      `json:"team,omitempty"`
	IsAlive  bool      `json:"isAlive"`
	IsHost   bool      `json:"isHost"`
	VotedFor string    `json:"votedFor,omitempty"`
	JoinedAt time.Time `json:"joinedAt"`
}

type WitchPotions struct {
	HasHealPotion bool `json:"hasHealPotion"`
	HasKillPotion bool `json:"hasKillPotion"`
}

type NightAction struct {
	PlayerID   string          `json:"playerId"`
	ActionType NightActionType `json:"actionType"`
	TargetID   string          `json:"targetId,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type InvestigationResult struct {
	TargetID  string `json:"targetId"`
	IsVillain bool   `json:"isVillain"`
}

type RevealResult struct {
	TargetID string `json:"targetId"`
	Role     Role   `json:"role"`
}

// NightResult is one resolved night. The Detective and Seer fields are
// private to their respective actors and stripped from public snapshots.
type NightResult struct {
	KilledByAssassins string               `json:"killedByAssassins,omitempty"`
	SavedByDoctor     string               `json:"savedByDoctor,omitempty"`
	KilledByWitch     string               `json:"killedByWitch,omitempty"`
	HealedByWitch     string               `json:"healedByWitch,omitempty"`
	FinalDeaths       []string             `json:"finalDeaths"`
	Detective         *InvestigationResult `json:"detectiveResult,omitempty"`
	Seer              *RevealResult        `json:"seerResult,omitempty"`
}

type VotingResult struct {
	Votes         map[string][]string `json:"votes"` // targetID -> voter IDs
	Eliminated    string              `json:"eliminated,omitempty"`
	IsTie         bool                `json:"isTie"`
	JudgeDecision string              `json:"judgeDecision,omitempty"`
}

// Game is one game instance. Exported methods take the mutex; unexported
// helpers assume it is already held.
type Game struct {
	ID      string
	Code    string
	HostID  string
	Players []*Player
	Status  Status
	Phase   Phase
	Round   int

	NightResults  []*NightResult
	VotingHistory []*VotingResult
	WitchPotions  WitchPotions
	Winner        Winner

	CreatedAt      time.Time
	StartedAt      time.Time
	EndedAt        time.Time
	PhaseStartedAt time.Time
	PhaseDeadline  time.Time

	// per-night / per-vote scratch state
	nightActions []NightAction
	currentVotes map[string]string // voterID -> targetID

	discussionTimer *time.Timer
	timerSeq        int

	mu sync.Mutex
}
