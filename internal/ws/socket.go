// Package ws delivers game events over Socket.IO. Public events go to
// the game's room; private payloads (role reveals, investigation
// results) go only to the connection bound to that player.
package ws

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"

	"github.com/cidadedorme/server/internal/game"
)

type ConnCtx struct {
	GameID   string
	PlayerID string
}

type Server struct {
	engine *game.Engine

	mu      sync.RWMutex
	members map[string]map[string]socketio.Conn // gameID -> socketID -> conn
	players map[string]map[string]socketio.Conn // gameID -> playerID -> conn
}

func New(engine *game.Engine) *Server {
	return &Server{
		engine:  engine,
		members: make(map[string]map[string]socketio.Conn),
		players: make(map[string]map[string]socketio.Conn),
	}
}

// Mount attaches the Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	// game:subscribe binds a connection to a game room and, when a
	// playerId is given, to that player's private channel.
	io.OnEvent("/", "game:subscribe", func(s socketio.Conn, payload struct {
		GameID   string `json:"gameId"`
		PlayerID string `json:"playerId"`
	}) map[string]any {
		g, err := srv.engine.Game(payload.GameID)
		if err != nil {
			return srv.err(s, "game_not_found", "Game not found")
		}
		s.SetContext(&ConnCtx{GameID: g.ID, PlayerID: payload.PlayerID})
		s.Join(room(g.ID))
		srv.addMember(g.ID, payload.PlayerID, s)
		log.Info().Str("sid", s.ID()).Str("gameId", g.ID).Str("playerId", payload.PlayerID).Msg("game:subscribe")

		// initial state for this connection only
		if payload.PlayerID != "" {
			if snap, you, err := g.PlayerSnapshot(payload.PlayerID); err == nil {
				s.Emit("game:state", map[string]any{"game": snap, "you": you})
				return map[string]any{"ok": true}
			}
		}
		s.Emit("game:state", map[string]any{"game": g.PublicSnapshot()})
		return map[string]any{"ok": true}
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		if ctx, ok := s.Context().(*ConnCtx); ok && ctx.GameID != "" {
			srv.removeMember(ctx.GameID, ctx.PlayerID, s)
		}
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go func() {
		if err := io.Serve(); err != nil {
			log.Error().Err(err).Msg("socket.io serve")
		}
	}()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

// PublishGameEvent implements game.Notifier for the shared room channel.
func (srv *Server) PublishGameEvent(gameID, event string, payload any) {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	for _, c := range srv.members[gameID] {
		c.Emit(event, payload)
	}
}

// PublishPlayerEvent implements game.Notifier for private deliveries.
func (srv *Server) PublishPlayerEvent(gameID, playerID, event string, payload any) {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	if c, ok := srv.players[gameID][playerID]; ok {
		c.Emit(event, payload)
	}
}

func (srv *Server) addMember(gameID, playerID string, c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.members[gameID] == nil {
		srv.members[gameID] = make(map[string]socketio.Conn)
	}
	srv.members[gameID][c.ID()] = c
	if playerID != "" {
		if srv.players[gameID] == nil {
			srv.players[gameID] = make(map[string]socketio.Conn)
		}
		srv.players[gameID][playerID] = c
	}
}

func (srv *Server) removeMember(gameID, playerID string, c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if m := srv.members[gameID]; m != nil {
		delete(m, c.ID())
	}
	if p := srv.players[gameID]; p != nil && playerID != "" {
		if p[playerID] == c {
			delete(p, playerID)
		}
	}
}

func (srv *Server) err(s socketio.Conn, code, message string) map[string]any {
	s.Emit("error", map[string]any{"code": code, "message": message})
	return map[string]any{"error": message}
}

func room(gameID string) string {
	return "game:" + gameID
}
