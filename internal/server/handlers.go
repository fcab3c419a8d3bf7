package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/hellausefulsoftware/ticketbridge/internal/logging"
)

// maxUploadMemory bounds the in-memory portion of multipart uploads.
const maxUploadMemory = 32 << 20

func (s *Server) handleListTickets(w http.ResponseWriter, r *http.Request) {
	tickets := s.tickets.ListTickets(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    tickets,
		"count":   len(tickets),
	})
}

func (s *Server) handleGetTicket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ticket := s.tickets.GetTicket(r.Context(), id)
	if ticket == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"success": false,
			"error":   fmt.Sprintf("Ticket %s not found", id),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    ticket,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"message": "ticketbridge API is running",
	})
}

// commitCommentRequest is the /add-commit-comment request body. The
// field names match the external contract.
type commitCommentRequest struct {
	JiraTicket    string `json:"jira_ticket"`
	CommitMessage string `json:"commit_message"`
	CommitURL     string `json:"commit_url"`
}

func (s *Server) handleAddCommitComment(w http.ResponseWriter, r *http.Request) {
	var req commitCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Invalid JSON body",
		})
		return
	}

	// Validation happens before any outbound call.
	if req.JiraTicket == "" || req.CommitMessage == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Missing required fields: jira_ticket and commit_message",
		})
		return
	}

	exists, err := s.tickets.IssueExists(r.Context(), req.JiraTicket)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	if !exists {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"success": false,
			"error":   fmt.Sprintf("Jira ticket %s not found", req.JiraTicket),
		})
		return
	}

	comment, err := s.tickets.AddCommitComment(r.Context(), req.JiraTicket, req.CommitMessage, req.CommitURL)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   fmt.Sprintf("Failed to add comment: %s", err),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"comment": comment,
	})
}

// generateCodeRequest is the /generate_code request body.
type generateCodeRequest struct {
	Description string `json:"description"`
}

// handleGenerateCode keeps its historical bare {code}/{error} response
// shape, unlike the enveloped endpoints.
func (s *Server) handleGenerateCode(w http.ResponseWriter, r *http.Request) {
	var req generateCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Invalid JSON body",
		})
		return
	}

	if req.Description == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Missing 'description' in request body",
		})
		return
	}

	code, err := s.codegen.GenerateCode(r.Context(), req.Description)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"code": code,
	})
}

func (s *Server) handleListRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := s.repos.ListRepositories(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	names := make([]string, 0, len(repos))
	for _, repo := range repos {
		names = append(names, repo.GetName())
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"repos":   names,
		"count":   len(names),
	})
}

func (s *Server) handlePushFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Invalid multipart form",
		})
		return
	}

	repo := r.FormValue("repo")
	filePath := r.FormValue("file_path")
	commitMessage := r.FormValue("commit_message")

	file, _, fileErr := r.FormFile("file")
	if repo == "" || filePath == "" || fileErr != nil {
		if fileErr == nil {
			file.Close()
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Missing repo, file_path or file",
		})
		return
	}
	defer file.Close()

	if commitMessage == "" {
		commitMessage = fmt.Sprintf("Add/update %s", filePath)
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   fmt.Sprintf("Failed to read upload: %s", err),
		})
		return
	}

	logging.Info("Pushing file", "repo", repo, "path", filePath, "bytes", len(content))

	result, err := s.repos.CreateOrUpdateFile(r.Context(), repo, filePath, content, commitMessage, "")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"result":  result,
	})
}
