package jira

import (
	"encoding/json"

	"github.com/hellausefulsoftware/ticketbridge/internal/adf"
)

// searchResponse models the /rest/api/3/search response. Only the
// fields this service reads are defined.
type searchResponse struct {
	Issues []rawIssue `json:"issues"`
}

// rawIssue is a single issue as returned by the tracker.
type rawIssue struct {
	Key    string      `json:"key"`
	Fields issueFields `json:"fields"`
}

type issueFields struct {
	Summary string `json:"summary"`
	Status  struct {
		Name string `json:"name"`
	} `json:"status"`
	Assignee *struct {
		DisplayName string `json:"displayName"`
	} `json:"assignee"`
	Priority *struct {
		Name string `json:"name"`
	} `json:"priority"`
	IssueType struct {
		Name string `json:"name"`
	} `json:"issuetype"`
	// Description may be an ADF object, a bare string, or absent; it is
	// flattened lazily so a malformed value never fails the whole fetch.
	Description json.RawMessage `json:"description"`
	Labels      []string        `json:"labels"`
}

// Comment is the tracker's representation of a posted comment. The body
// echoes the ADF document that was submitted.
type Comment struct {
	ID      string       `json:"id"`
	Self    string       `json:"self,omitempty"`
	Created string       `json:"created,omitempty"`
	Body    adf.Document `json:"body"`
}

// commentRequest is the outbound payload for the add-comment endpoint.
type commentRequest struct {
	Body adf.Document `json:"body"`
}
