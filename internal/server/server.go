// Package server exposes decoded stage data over a read-only HTTP API
// for editors and tooling. It serves structure, never pixels.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/stagectl/internal/observability"
	"github.com/danmuck/stagectl/internal/stage"
)

const version = "0.1.0"

type Server struct {
	ID       string
	Appeared time.Time

	router *gin.Engine
	stages map[string]*stage.Stage
	order  []string
}

func New(id string, corsOrigins []string, stages []*stage.Stage) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(id))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(corsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		ID:       id,
		Appeared: time.Now(),
		router:   r,
		stages:   make(map[string]*stage.Stage, len(stages)),
	}
	for _, st := range stages {
		s.stages[st.Name] = st
		s.order = append(s.order, st.Name)
	}
	return s
}

func (s *Server) HTTPRouter() *gin.Engine {
	return s.router
}

func (s *Server) Run(addr string) error {
	s.RegisterRoutes()
	return s.router.Run(addr)
}

func (s *Server) RegisterRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.ID,
			"version": version,
		})
	})

	s.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   true,
			"stages":  len(s.order),
			"service": s.ID,
			"version": version,
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/stages", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"stages": s.order,
		})
	})

	s.router.GET("/stages/:name", func(c *gin.Context) {
		st, ok := s.stages[c.Param("name")]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown stage"})
			return
		}
		c.JSON(http.StatusOK, summarize(st))
	})

	s.router.GET("/stages/:name/entities", func(c *gin.Context) {
		st, ok := s.stages[c.Param("name")]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown stage"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"stage":    st.Name,
			"entities": st.Entities,
		})
	})
}

func summarize(st *stage.Stage) gin.H {
	defined := 0
	for _, a := range st.Map.Attrib {
		if a != 0 {
			defined++
		}
	}
	return gin.H{
		"name":           st.Name,
		"width":          st.Map.Width,
		"height":         st.Map.Height,
		"tiles":          len(st.Map.Tiles),
		"entities":       len(st.Entities),
		"attrib_defined": defined,
	}
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
