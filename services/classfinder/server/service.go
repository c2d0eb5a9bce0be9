// Package server is the HTTP boundary of the classfinder service. it
// maps scan outcomes onto the status codes the browser front end
// expects: 400 bad input, 401 dead session, 500 anything unexpected.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"classfinder-backend/services/classfinder"

	"github.com/gin-gonic/gin"
)

// SessionAcquirer produces a portal session through an interactive
// login. lib/browser implements it; it is an interface here so the
// server can run without a display attached.
type SessionAcquirer interface {
	Acquire(ctx context.Context) (string, error)
	Release() error
}

type Service struct {
	scanner  classfinder.Service
	acquirer SessionAcquirer
}

func NewService(scanner classfinder.Service, acquirer SessionAcquirer) Service {
	return Service{
		scanner:  scanner,
		acquirer: acquirer,
	}
}

func (s Service) Register(router gin.IRouter) {
	api := router.Group("/api")
	api.POST("/search", s.handleSearch)
	api.GET("/session", s.handleAcquireSession)
	api.POST("/session/release", s.handleReleaseSession)
}

type searchRequest struct {
	NRP       string `json:"nrp" binding:"required"`
	SessionID string `json:"sessionId" binding:"required"`
}

type searchResponse struct {
	Results []classfinder.Match `json:"results"`
}

type errorResponse struct {
	Error        string `json:"error"`
	RequireLogin bool   `json:"requireLogin,omitempty"`
}

func (s Service) handleSearch(c *gin.Context) {
	var req searchRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{
			Error: "NRP and session ID are required",
		})
		return
	}

	results, err := s.scanner.Scan(c.Request.Context(), req.NRP, req.SessionID)
	switch {
	case errors.Is(err, classfinder.ErrMissingInput):
		c.JSON(http.StatusBadRequest, errorResponse{
			Error: "NRP and session ID are required",
		})
	case errors.Is(err, classfinder.ErrInvalidSession):
		c.JSON(http.StatusUnauthorized, errorResponse{
			Error:        "Invalid or expired session. Please get a new session ID.",
			RequireLogin: true,
		})
	case err != nil:
		// detail stays in the log, not in the response body
		slog.ErrorContext(c.Request.Context(), "scan failed", "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{
			Error: "Failed to search classes. Please check your session ID.",
		})
	default:
		c.JSON(http.StatusOK, searchResponse{Results: results})
	}
}

func (s Service) handleAcquireSession(c *gin.Context) {
	if s.acquirer == nil {
		c.JSON(http.StatusInternalServerError, errorResponse{
			Error: "Session acquisition is not available on this deployment.",
		})
		return
	}

	sessionID, err := s.acquirer.Acquire(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "session acquisition failed", "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{
			Error: "Failed to get session.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID})
}

func (s Service) handleReleaseSession(c *gin.Context) {
	if s.acquirer == nil {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	err := s.acquirer.Release()
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "session release failed", "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{
			Error: "Failed to release the browser session.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
