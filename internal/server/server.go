// Package server exposes the bridge's HTTP surface: ticket listing,
// commit comments, code generation and repository pushes.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	gh "github.com/google/go-github/v45/github"
	"github.com/hellausefulsoftware/ticketbridge/internal/jira"
	"github.com/hellausefulsoftware/ticketbridge/internal/logging"
	"github.com/hellausefulsoftware/ticketbridge/internal/models"
	"github.com/rs/cors"
)

// TicketService is the tracker capability set the handlers depend on.
type TicketService interface {
	ListTickets(ctx context.Context) []models.Ticket
	GetTicket(ctx context.Context, id string) *models.Ticket
	IssueExists(ctx context.Context, key string) (bool, error)
	AddCommitComment(ctx context.Context, key, commitMessage, commitURL string) (*jira.Comment, error)
}

// CodeGenerator turns a feature description into generated code.
type CodeGenerator interface {
	GenerateCode(ctx context.Context, description string) (string, error)
}

// RepoService is the code-hosting capability set the handlers depend on.
type RepoService interface {
	ListRepositories(ctx context.Context) ([]*gh.Repository, error)
	CreateOrUpdateFile(ctx context.Context, repo, path string, content []byte, message, branch string) (*gh.RepositoryContentResponse, error)
}

// Server wires the three external services behind the HTTP endpoints.
type Server struct {
	tickets TicketService
	codegen CodeGenerator
	repos   RepoService
}

// New constructs a Server from its service dependencies.
func New(tickets TicketService, codegen CodeGenerator, repos RepoService) *Server {
	return &Server{
		tickets: tickets,
		codegen: codegen,
		repos:   repos,
	}
}

// Handler returns the routed handler with CORS enabled for all origins.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/tickets", s.handleListTickets)
	mux.HandleFunc("GET /api/tickets/{id}", s.handleGetTicket)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /add-commit-comment", s.handleAddCommitComment)
	mux.HandleFunc("POST /generate_code", s.handleGenerateCode)
	mux.HandleFunc("GET /repos", s.handleListRepos)
	mux.HandleFunc("POST /push-file", s.handlePushFile)

	return cors.AllowAll().Handler(requestLog(mux))
}

// requestLog logs every request with its duration.
func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Info("Handled request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"duration", time.Since(start).String())
	})
}

// decodeJSON decodes a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// writeJSON writes payload as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error("Failed to encode response", "error", err)
	}
}
