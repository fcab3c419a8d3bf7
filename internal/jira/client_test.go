package jira

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hellausefulsoftware/ticketbridge/internal/config"
)

// mockJiraClient points a Client at a mock tracker.
func mockJiraClient(server *httptest.Server) *Client {
	cfg := &config.Config{}
	cfg.Jira.BaseURL = server.URL
	cfg.Jira.Email = "bot@example.com"
	cfg.Jira.APIToken = "test-token"
	cfg.Jira.ProjectKey = "ABC"
	return NewClient(cfg)
}

const searchBody = `{
	"issues": [
		{
			"key": "ABC-1",
			"fields": {
				"summary": "Fix login",
				"status": {"name": "In Progress"},
				"assignee": {"displayName": "Dana Dev"},
				"priority": {"name": "High"},
				"issuetype": {"name": "Bug"},
				"description": {
					"type": "doc",
					"version": 1,
					"content": [
						{"type": "paragraph", "content": [{"type": "text", "text": "Login"}, {"type": "text", "text": "breaks"}]}
					]
				},
				"labels": ["auth", "urgent"]
			}
		},
		{
			"key": "ABC-2",
			"fields": {
				"summary": "Add search",
				"status": {"name": "To Do"},
				"assignee": null,
				"priority": null,
				"issuetype": {"name": "Story"},
				"description": null
			}
		}
	]
}`

func TestListTickets(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/3/search", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("jql"); got != "project=ABC" {
			t.Errorf("jql = %q, want %q", got, "project=ABC")
		}
		if got := r.URL.Query().Get("maxResults"); got != "100" {
			t.Errorf("maxResults = %q, want 100", got)
		}
		if got := r.URL.Query().Get("fields"); got != searchFields {
			t.Errorf("fields = %q, want %q", got, searchFields)
		}
		if _, _, ok := r.BasicAuth(); !ok {
			t.Error("expected basic auth on search request")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchBody))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	tickets := mockJiraClient(server).ListTickets(context.Background())
	if len(tickets) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(tickets))
	}

	first := tickets[0]
	if first.ID != "ABC-1" || first.Title != "Fix login" || first.Status != "In Progress" {
		t.Errorf("unexpected first ticket: %+v", first)
	}
	if first.Assignee != "Dana Dev" || first.Priority != "High" || first.Type != "Bug" {
		t.Errorf("unexpected first ticket fields: %+v", first)
	}
	if first.Description != "Login breaks" {
		t.Errorf("description = %q, want %q", first.Description, "Login breaks")
	}
	if len(first.Labels) != 2 || first.Labels[0] != "auth" {
		t.Errorf("labels = %v", first.Labels)
	}

	second := tickets[1]
	if second.Assignee != "Unassigned" {
		t.Errorf("missing assignee should default, got %q", second.Assignee)
	}
	if second.Priority != "Medium" {
		t.Errorf("missing priority should default, got %q", second.Priority)
	}
	if second.Description != "" {
		t.Errorf("null description should flatten to empty, got %q", second.Description)
	}
	if second.Labels == nil || len(second.Labels) != 0 {
		t.Errorf("missing labels should normalize to empty slice, got %#v", second.Labels)
	}
}

func TestListTicketsFailureYieldsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "upstream 500",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "upstream 401",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			},
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			tickets := mockJiraClient(server).ListTickets(context.Background())
			if len(tickets) != 0 {
				t.Errorf("expected empty list, got %d tickets", len(tickets))
			}
		})
	}
}

func TestGetTicket(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(searchBody))
	}))
	defer server.Close()

	client := mockJiraClient(server)

	ticket := client.GetTicket(context.Background(), "ABC-2")
	if ticket == nil {
		t.Fatal("expected ABC-2 to be found")
	}
	if ticket.ID != "ABC-2" {
		t.Errorf("ticket ID = %q, want ABC-2", ticket.ID)
	}

	if got := client.GetTicket(context.Background(), "ABC-999"); got != nil {
		t.Errorf("expected nil for unknown id, got %+v", got)
	}
}

func TestIssueExists(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/3/issue/ABC-1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"key":"ABC-1"}`))
	})
	mux.HandleFunc("/rest/api/3/issue/ABC-404", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := mockJiraClient(server)

	exists, err := client.IssueExists(context.Background(), "ABC-1")
	if err != nil {
		t.Fatalf("IssueExists returned error: %v", err)
	}
	if !exists {
		t.Error("expected ABC-1 to exist")
	}

	exists, err = client.IssueExists(context.Background(), "ABC-404")
	if err != nil {
		t.Fatalf("IssueExists returned error: %v", err)
	}
	if exists {
		t.Error("expected ABC-404 to be absent")
	}
}

func TestAddCommitComment(t *testing.T) {
	var received commentRequest

	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/3/issue/ABC-1/comment", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Fatalf("decode comment payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		// Echo the body back, the way the tracker does.
		_, _ = w.Write([]byte(`{"id":"10001","body":` + string(mustMarshal(t, received.Body)) + `}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := mockJiraClient(server)

	comment, err := client.AddCommitComment(context.Background(), "ABC-1", "fix bug", "")
	if err != nil {
		t.Fatalf("AddCommitComment returned error: %v", err)
	}
	if comment.ID != "10001" {
		t.Errorf("comment ID = %q", comment.ID)
	}
	if len(received.Body.Content) != 2 {
		t.Fatalf("expected 2 paragraphs without commit URL, got %d", len(received.Body.Content))
	}
	if got := received.Body.Content[0].Content[0].Text; got != "Commit Message:" {
		t.Errorf("first paragraph = %q, want %q", got, "Commit Message:")
	}
	if got := received.Body.Content[1].Content[0].Text; got != "fix bug" {
		t.Errorf("second paragraph = %q, want %q", got, "fix bug")
	}

	_, err = client.AddCommitComment(context.Background(), "ABC-1", "fix bug", "https://github.com/o/r/commit/abc")
	if err != nil {
		t.Fatalf("AddCommitComment returned error: %v", err)
	}
	if len(received.Body.Content) != 3 {
		t.Fatalf("expected 3 paragraphs with commit URL, got %d", len(received.Body.Content))
	}
	link := received.Body.Content[2].Content[0]
	if len(link.Marks) != 1 || link.Marks[0].Type != "link" {
		t.Fatalf("expected link mark on third paragraph, got %+v", link)
	}
	if link.Marks[0].Attrs == nil || link.Marks[0].Attrs.Href != "https://github.com/o/r/commit/abc" {
		t.Errorf("link href = %+v", link.Marks[0].Attrs)
	}
}

func TestAddCommitCommentHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	_, err := mockJiraClient(server).AddCommitComment(context.Background(), "ABC-1", "fix bug", "")
	if err == nil {
		t.Fatal("expected error on upstream failure")
	}
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}
