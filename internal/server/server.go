// Package server exposes the HTTP control surface: liveness, session
// status, live tuning, stored profiles, pipeline pause/resume, and the
// websocket event stream.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/ayusman/maestro/internal/actuator"
	"github.com/ayusman/maestro/internal/app"
	"github.com/ayusman/maestro/internal/store"
)

// Config holds the server dependencies.
type Config struct {
	App      *app.App
	Store    *store.Store
	Actuator actuator.Actuator
	Hub      *Hub
	Log      *zap.Logger
}

// Server is the HTTP control API.
type Server struct {
	echo *echo.Echo
	cfg  Config
	log  *zap.Logger
	proc *process.Process
}

// New wires a Server and its routes.
func New(cfg Config) *Server {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{echo: e, cfg: cfg, log: log}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		s.proc = proc
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/health", s.handleHealth)

	v1 := s.echo.Group("/api/v1")
	v1.GET("/status", s.handleStatus)
	v1.GET("/tuning", s.handleGetTuning)
	v1.PUT("/tuning", s.handlePutTuning)
	v1.GET("/profiles", s.handleListProfiles)
	v1.POST("/profiles", s.handleCreateProfile)
	v1.GET("/profiles/:id", s.handleGetProfile)
	v1.PUT("/profiles/:id", s.handleUpdateProfile)
	v1.DELETE("/profiles/:id", s.handleDeleteProfile)
	v1.POST("/profiles/:id/apply", s.handleApplyProfile)
	v1.POST("/pause", s.handlePause)
	v1.POST("/resume", s.handleResume)

	s.echo.GET("/ws", func(c echo.Context) error {
		return HandleWebSocket(s.cfg.Hub, c, s.log)
	})
}

// Start begins serving on addr and blocks until the server stops.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP implements http.Handler, mainly for tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "maestro",
	})
}

func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{
		Service:       "maestro",
		Pipeline:      s.cfg.App.Stats(),
		Actuator:      s.cfg.Actuator.Status(),
		StreamClients: s.cfg.Hub.ClientCount(),
		Process:       s.processStats(),
	})
}

func (s *Server) processStats() ProcessStats {
	var st ProcessStats
	if s.proc == nil {
		return st
	}
	if cpu, err := s.proc.CPUPercent(); err == nil {
		st.CPUPercent = cpu
	}
	if mem, err := s.proc.MemoryInfo(); err == nil && mem != nil {
		st.MemoryMB = float64(mem.RSS) / (1 << 20)
	}
	return st
}

func (s *Server) handleGetTuning(c echo.Context) error {
	return c.JSON(http.StatusOK, s.cfg.App.Tuning())
}

func (s *Server) handlePutTuning(c echo.Context) error {
	// Bind over the live tuning so a partial body only changes the
	// fields it names, matching the YAML overlay behavior.
	t := s.cfg.App.Tuning()
	if err := c.Bind(&t); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "body must be a tuning document",
		})
	}
	if err := s.cfg.App.ApplyTuning(t); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_tuning",
			Message: err.Error(),
		})
	}
	s.log.Info("tuning updated")
	return c.JSON(http.StatusOK, t)
}

func (s *Server) handleListProfiles(c echo.Context) error {
	profiles, err := s.cfg.Store.Profiles().List()
	if err != nil {
		s.log.Error("list profiles", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "storage_error"})
	}
	if profiles == nil {
		profiles = []*store.Profile{}
	}
	return c.JSON(http.StatusOK, profiles)
}

func (s *Server) handleCreateProfile(c echo.Context) error {
	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_name",
			Message: "profile name is required",
		})
	}

	// Omitting the tuning snapshots the live parameters under a name.
	tuning := s.cfg.App.Tuning()
	if req.Tuning != nil {
		tuning = *req.Tuning
	}
	if err := tuning.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_tuning",
			Message: err.Error(),
		})
	}

	p := &store.Profile{Name: req.Name, Tuning: tuning}
	if err := s.cfg.Store.Profiles().Create(p); err != nil {
		s.log.Warn("create profile", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "create_failed",
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) handleGetProfile(c echo.Context) error {
	p, err := s.cfg.Store.Profiles().GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found"})
		}
		s.log.Error("get profile", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "storage_error"})
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleUpdateProfile(c echo.Context) error {
	p, err := s.cfg.Store.Profiles().GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found"})
		}
		s.log.Error("get profile", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "storage_error"})
	}

	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request"})
	}
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Tuning != nil {
		if err := req.Tuning.Validate(); err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_tuning",
				Message: err.Error(),
			})
		}
		p.Tuning = *req.Tuning
	}

	if err := s.cfg.Store.Profiles().Update(p); err != nil {
		s.log.Warn("update profile", zap.String("id", p.ID), zap.Error(err))
		return c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "update_failed",
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleDeleteProfile(c echo.Context) error {
	err := s.cfg.Store.Profiles().Delete(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found"})
		}
		s.log.Error("delete profile", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "storage_error"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleApplyProfile(c echo.Context) error {
	p, err := s.cfg.Store.Profiles().GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found"})
		}
		s.log.Error("get profile", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "storage_error"})
	}

	if err := s.cfg.App.ApplyTuning(p.Tuning); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_tuning",
			Message: err.Error(),
		})
	}
	if err := s.cfg.Store.Settings().Set(store.SettingActiveProfile, p.ID); err != nil {
		s.log.Warn("record active profile", zap.Error(err))
	}
	s.log.Info("profile applied", zap.String("profile", p.Name))
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handlePause(c echo.Context) error {
	s.cfg.App.SetEnabled(false)
	return c.JSON(http.StatusOK, EnabledResponse{Enabled: false})
}

func (s *Server) handleResume(c echo.Context) error {
	s.cfg.App.SetEnabled(true)
	return c.JSON(http.StatusOK, EnabledResponse{Enabled: true})
}
