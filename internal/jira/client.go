// Package jira is a minimal client for the Jira Cloud REST API (v3),
// covering the issue search, single-issue fetch and comment operations
// this service needs.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hellausefulsoftware/ticketbridge/internal/adf"
	"github.com/hellausefulsoftware/ticketbridge/internal/config"
	"github.com/hellausefulsoftware/ticketbridge/internal/logging"
	"github.com/hellausefulsoftware/ticketbridge/internal/models"
)

// searchFields is the fixed field projection requested on every search.
const searchFields = "summary,status,assignee,priority,issuetype,description,labels"

// maxSearchResults caps a project fetch at a single page of 100 issues.
const maxSearchResults = 100

// Client talks to the tracker on behalf of one configured project.
type Client struct {
	baseURL    string
	email      string
	token      string
	projectKey string
	httpClient *http.Client
}

// NewClient constructs a Jira client from the supplied configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.Jira.BaseURL, "/"),
		email:      cfg.Jira.Email,
		token:      cfg.Jira.APIToken,
		projectKey: cfg.Jira.ProjectKey,
		httpClient: &http.Client{},
	}
}

// ListTickets fetches all issues of the configured project, up to 100,
// and normalizes each into a Ticket. Any failure is logged and yields an
// empty list; callers cannot distinguish "no issues" from "fetch failed".
func (c *Client) ListTickets(ctx context.Context) []models.Ticket {
	q := url.Values{}
	q.Set("jql", "project="+c.projectKey)
	q.Set("maxResults", fmt.Sprint(maxSearchResults))
	q.Set("fields", searchFields)

	u := c.baseURL + "/rest/api/3/search?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		logging.Warn("Failed to build issue search request", "error", err)
		return []models.Ticket{}
	}
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.email, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Warn("Failed to fetch issues", "error", err)
		return []models.Ticket{}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		logging.Warn("Failed to fetch issues",
			"status", resp.StatusCode,
			"body", preview(string(body), 400))
		return []models.Ticket{}
	}

	var out searchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		logging.Warn("Failed to decode issue search response", "error", err)
		return []models.Ticket{}
	}

	tickets := make([]models.Ticket, 0, len(out.Issues))
	for _, issue := range out.Issues {
		tickets = append(tickets, normalize(issue))
	}
	return tickets
}

// GetTicket returns the ticket with the given id, or nil when absent.
// It re-fetches the whole project and scans linearly.
func (c *Client) GetTicket(ctx context.Context, id string) *models.Ticket {
	for _, t := range c.ListTickets(ctx) {
		if t.ID == id {
			ticket := t
			return &ticket
		}
	}
	return nil
}

// IssueExists fetches a single issue by key and reports whether the
// tracker knows it. Any non-200 response means "no"; only transport
// failures surface as errors.
func (c *Client) IssueExists(ctx context.Context, key string) (bool, error) {
	u := fmt.Sprintf("%s/rest/api/3/issue/%s", c.baseURL, url.PathEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("build issue request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.email, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("fetch issue %s: %w", key, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK, nil
}

// AddCommitComment posts a commit-message comment on the given issue.
// The body is an ADF document: a "Commit Message:" label paragraph, the
// message itself, and, when commitURL is non-empty, a trailing paragraph
// linking to the commit. HTTP failures are propagated to the caller.
func (c *Client) AddCommitComment(ctx context.Context, key, commitMessage, commitURL string) (*Comment, error) {
	payload := commentRequest{Body: CommitCommentBody(commitMessage, commitURL)}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode comment payload: %w", err)
	}

	u := fmt.Sprintf("%s/rest/api/3/issue/%s/comment", c.baseURL, url.PathEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("build comment request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.email, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post comment on %s: %w", key, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("jira comment status=%d body=%s", resp.StatusCode, preview(string(body), 400))
	}

	var comment Comment
	if err := json.Unmarshal(body, &comment); err != nil {
		return nil, fmt.Errorf("decode comment response: %w", err)
	}
	return &comment, nil
}

// CommitCommentBody builds the ADF body for a commit comment. The link
// paragraph is only present when commitURL is non-empty.
func CommitCommentBody(commitMessage, commitURL string) adf.Document {
	nodes := []adf.Node{
		adf.Paragraph(adf.Text("Commit Message:")),
		adf.Paragraph(adf.Text(commitMessage)),
	}
	if commitURL != "" {
		nodes = append(nodes, adf.Paragraph(adf.Link("View Commit in GitHub", commitURL)))
	}
	return adf.NewDocument(nodes...)
}

// normalize maps a raw tracker issue onto the Ticket entity, applying
// the assignee and priority defaults.
func normalize(issue rawIssue) models.Ticket {
	assignee := models.DefaultAssignee
	if issue.Fields.Assignee != nil && issue.Fields.Assignee.DisplayName != "" {
		assignee = issue.Fields.Assignee.DisplayName
	}
	priority := models.DefaultPriority
	if issue.Fields.Priority != nil && issue.Fields.Priority.Name != "" {
		priority = issue.Fields.Priority.Name
	}
	labels := issue.Fields.Labels
	if labels == nil {
		labels = []string{}
	}
	return models.Ticket{
		ID:          issue.Key,
		Title:       issue.Fields.Summary,
		Assignee:    assignee,
		Status:      issue.Fields.Status.Name,
		Priority:    priority,
		Type:        issue.Fields.IssueType.Name,
		Description: adf.FlattenRaw(issue.Fields.Description),
		Labels:      labels,
	}
}

// preview truncates long upstream bodies for log and error messages.
func preview(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[:n] + "…"
	}
	return s
}
