package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KevinKickass/OpenSignalLab/internal/signal"
	"github.com/KevinKickass/OpenSignalLab/internal/types"
)

// GET /api/v1/signal/frame
func (s *Server) getLatestFrame(c *gin.Context) {
	frame, ok := s.engine.LastFrame()
	if !ok {
		c.JSON(http.StatusNotFound, types.NewErrorResponse("SIGNAL_404", "No frame produced yet", nil))
		return
	}
	c.JSON(http.StatusOK, frame)
}

// GET /api/v1/signal/status
func (s *Server) getEngineStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.Status())
}

// POST /api/v1/signal/mode
func (s *Server) switchMode(c *gin.Context) {
	var req struct {
		Mode string `json:"mode" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("SIGNAL_400", "Invalid request body", err.Error()))
		return
	}

	mode, err := signal.ParseMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("SIGNAL_400", "Invalid mode", err.Error()))
		return
	}

	s.engine.SwitchMode(mode)
	s.logger.Info("Mode switch requested", zap.String("mode", req.Mode))

	c.JSON(http.StatusOK, gin.H{
		"message": "Mode switched",
		"mode":    mode,
	})
}

// POST /api/v1/signal/start
func (s *Server) startEngine(c *gin.Context) {
	s.engine.Start()
	c.JSON(http.StatusOK, s.engine.Status())
}

// POST /api/v1/signal/stop
func (s *Server) stopEngine(c *gin.Context) {
	s.engine.Stop()
	c.JSON(http.StatusOK, s.engine.Status())
}

// GET /api/v1/profiles
func (s *Server) listProfiles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"profiles": s.loader.List(),
	})
}

// GET /api/v1/profiles/:name
func (s *Server) getProfile(c *gin.Context) {
	profile, err := s.loader.Load(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse("PROFILE_404", "Profile not available", err.Error()))
		return
	}
	c.JSON(http.StatusOK, profile)
}
