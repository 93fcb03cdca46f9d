// Package httpapi is the thin request layer: route dispatch, shape
// validation and HTTP status mapping around the game engine.
package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/cidadedorme/server/internal/game"
)

type Server struct {
	engine *game.Engine
}

func New(engine *game.Engine) *Server {
	return &Server{engine: engine}
}

// Mount registers all API routes on the given Gin engine.
func (s *Server) Mount(r *gin.Engine) {
	api := r.Group("/api")
	api.POST("/games", s.createGame)
	api.POST("/games/join", s.joinGame)
	api.GET("/games/:id", s.getGame)
	api.GET("/games/:id/players/:playerId", s.getGameForPlayer)
	api.GET("/games/:id/qr", s.joinCodeQR)
	api.POST("/games/:id/start", s.startGame)
	api.POST("/games/:id/night-action", s.nightAction)
	api.POST("/games/:id/end-night", s.endNight)
	api.POST("/games/:id/vote", s.castVote)
	api.POST("/games/:id/end-voting", s.endVoting)
	api.POST("/games/:id/advance", s.advancePhase)
}

func (s *Server) createGame(c *gin.Context) {
	var req struct {
		HostName string `json:"hostName"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}
	g, host, err := s.engine.CreateGame(req.HostName)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"game": g.PublicSnapshot(), "hostId": host.ID})
}

func (s *Server) joinGame(c *gin.Context) {
	var req struct {
		Code       string `json:"code"`
		PlayerName string `json:"playerName"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}
	g, p, err := s.engine.JoinGame(req.Code, req.PlayerName)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game": g.PublicSnapshot(), "playerId": p.ID})
}

func (s *Server) getGame(c *gin.Context) {
	g, err := s.engine.Game(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, g.PublicSnapshot())
}

func (s *Server) getGameForPlayer(c *gin.Context) {
	g, err := s.engine.Game(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	snap, you, err := g.PlayerSnapshot(c.Param("playerId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game": snap, "you": you})
}

// joinCodeQR renders the join code as a QR PNG for sharing the lobby.
func (s *Server) joinCodeQR(c *gin.Context) {
	g, err := s.engine.Game(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	png, err := qrcode.Encode(g.Code, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "qr_failed"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) startGame(c *gin.Context) {
	var req struct {
		HostID string `json:"hostId"`
	}
	if err := c.BindJSON(&req); err != nil || req.HostID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hostId is required"})
		return
	}
	g, err := s.engine.StartGame(c.Param("id"), req.HostID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "game": g.PublicSnapshot()})
}

func (s *Server) nightAction(c *gin.Context) {
	var req struct {
		PlayerID   string `json:"playerId"`
		ActionType string `json:"actionType"`
		TargetID   string `json:"targetId"`
	}
	if err := c.BindJSON(&req); err != nil || req.PlayerID == "" || req.ActionType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "playerId and actionType are required"})
		return
	}
	err := s.engine.RegisterNightAction(c.Param("id"), req.PlayerID, game.NightActionType(req.ActionType), req.TargetID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) endNight(c *gin.Context) {
	tr, err := s.engine.EndNight(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "phase": tr.To})
}

func (s *Server) castVote(c *gin.Context) {
	var req struct {
		VoterID  string `json:"voterId"`
		TargetID string `json:"targetId"`
	}
	if err := c.BindJSON(&req); err != nil || req.VoterID == "" || req.TargetID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "voterId and targetId are required"})
		return
	}
	if err := s.engine.CastVote(c.Param("id"), req.VoterID, req.TargetID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) endVoting(c *gin.Context) {
	tr, err := s.engine.EndVoting(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "phase": tr.To, "result": tr.Vote})
}

func (s *Server) advancePhase(c *gin.Context) {
	var req struct {
		HostID string `json:"hostId"`
	}
	if err := c.BindJSON(&req); err != nil || req.HostID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hostId is required"})
		return
	}
	tr, err := s.engine.AdvancePhase(c.Param("id"), req.HostID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "phase": tr.To})
}

// writeError maps domain errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, game.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, game.ErrInvalidInput), errors.Is(err, game.ErrRoleActionMismatch):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": fmt.Sprintf("%v", err)})
}
