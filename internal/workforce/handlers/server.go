package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gartstein/workforce/internal/workforce/auth"
	"github.com/gartstein/workforce/internal/workforce/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server owns the HTTP server and the gin router serving the REST API.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer constructs a Server listening on the given port.
func NewServer(port int, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	return &Server{
		engine: engine,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: engine,
		},
		logger: logger,
	}
}

// RegisterRoutes wires the public API. The route table mirrors the source
// system's paths; the auth column of the contract is expressed as
// middleware: Authenticate gates every protected route, RequireType
// narrows it to one principal kind where required.
func (s *Server) RegisterRoutes(h *Handler, tokens *auth.TokenService) {
	authenticate := auth.Authenticate(tokens)
	companyOnly := auth.RequireType(models.PrincipalCompany)
	employeeOnly := auth.RequireType(models.PrincipalEmployee)

	companies := s.engine.Group("/companies")
	companies.POST("/register", h.RegisterCompany)
	companies.POST("/login", h.LoginCompany)
	companies.GET("/profile", authenticate, companyOnly, h.CompanyProfile)

	employees := s.engine.Group("/employees")
	employees.POST("/add", authenticate, companyOnly, h.AddEmployee)
	employees.POST("/login", h.LoginEmployee)
	employees.GET("/company-employees", authenticate, companyOnly, h.CompanyEmployees)

	tasks := s.engine.Group("/tasks", authenticate)
	tasks.POST("/create", companyOnly, h.CreateTask)
	tasks.GET("/company-tasks", companyOnly, h.CompanyTasks)
	tasks.GET("/employee-tasks", employeeOnly, h.EmployeeTasks)
	tasks.PATCH("/:id/status", h.UpdateTaskStatus)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP serve error: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	s.logger.Info("Server stopped")
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
