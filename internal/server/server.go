// Package server exposes the backend command channel over a websocket for skiffd.
package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/justyntemme/skiff/internal/backend"
	"github.com/justyntemme/skiff/internal/log"
	"github.com/justyntemme/skiff/internal/metrics"
	"github.com/justyntemme/skiff/internal/safego"
)

const writeWait = 10 * time.Second

// Options configures the daemon.
type Options struct {
	// Backend returns the options for each session's System.
	Backend func() backend.Options
}

// Server owns the gin engine and the live sessions.
type Server struct {
	opts   Options
	engine *gin.Engine
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  32 * 1024,
	WriteBufferSize: 32 * 1024,
	// skiffd binds to loopback by default and carries no browser UI.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func New(opts Options) *Server {
	if opts.Backend == nil {
		opts.Backend = func() backend.Options { return backend.Options{} }
	}
	s := &Server{
		opts:     opts,
		logger:   log.Named("server"),
		sessions: make(map[string]*session),
	}
	s.engine = s.newRouter()
	return s
}

func (s *Server) newRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.logMiddleware())

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/ws", s.handleWS)
	return r
}

// Handler returns the HTTP handler for http.Server or httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Sessions returns the number of connected clients.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Shutdown closes every session.
func (s *Server) Shutdown() {
	s.mu.Lock()
	live := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		live = append(live, sess)
	}
	s.mu.Unlock()
	for _, sess := range live {
		sess.close()
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.Sessions()})
}

func (s *Server) logMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

func (s *Server) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	id := uuid.NewString()
	bopts := s.opts.Backend()
	bopts.Observe = observe(bopts.Observe)
	sess := &session{
		id:     id,
		conn:   conn,
		sys:    backend.NewSystem(bopts),
		logger: s.logger.With(zap.String("session", id)),
		done:   make(chan struct{}),
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	metrics.SessionOpened()
	sess.logger.Info("session opened", zap.String("remote", c.Request.RemoteAddr))

	defer func() {
		sess.close()
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		metrics.SessionClosed()
		sess.logger.Info("session closed")
	}()

	safego.Go(sess.sys.Start)
	safego.Go(sess.writeLoop)
	sess.readLoop()
}

// observe records every handled command, then calls next if set.
func observe(next func(backend.Command, *backend.Failure, time.Duration)) func(backend.Command, *backend.Failure, time.Duration) {
	return func(cmd backend.Command, f *backend.Failure, elapsed time.Duration) {
		status := "ok"
		if f != nil {
			status = string(f.Kind)
		}
		metrics.RecordCommand(string(cmd), status, elapsed)
		if next != nil {
			next(cmd, f, elapsed)
		}
	}
}

// session is one websocket connection with its own backend.
type session struct {
	id     string
	conn   *websocket.Conn
	sys    *backend.System
	logger *zap.Logger

	done      chan struct{}
	closeOnce sync.Once
}

func (ss *session) readLoop() {
	for {
		var req backend.Request
		if err := ss.conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				ss.logger.Debug("read ended", zap.Error(err))
			}
			return
		}
		if err := ss.sys.Dispatch(req); err != nil {
			ss.logger.Warn("dispatch failed", zap.String("command", string(req.Command)), zap.Error(err))
			return
		}
	}
}

func (ss *session) writeLoop() {
	for {
		select {
		case <-ss.done:
			return
		case resp := <-ss.sys.Responses():
			_ = ss.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ss.conn.WriteJSON(resp); err != nil {
				metrics.ResponseDropped()
				ss.logger.Debug("write failed", zap.String("command", string(resp.Command)), zap.Error(err))
				ss.close()
				return
			}
		}
	}
}

func (ss *session) close() {
	ss.closeOnce.Do(func() {
		close(ss.done)
		ss.sys.Close()
		ss.conn.Close()
	})
}
