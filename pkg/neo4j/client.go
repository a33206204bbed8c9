package neo4j

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Statement is one query plus its optional named parameters, as accepted by
// the transactional endpoint.
type Statement struct {
	Statement  string         `json:"statement"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

type requestBody struct {
	Statements []Statement `json:"statements"`
}

// ResultSet is one tabular result from the store: column names plus rows.
// Columns and row cells are zipped positionally; the payload carries no
// per-cell key.
type ResultSet struct {
	Columns []string `json:"columns"`
	Data    []struct {
		Row []any `json:"row"`
	} `json:"data"`
}

// Response is the decoded payload of a transactional query call.
type Response struct {
	Results []ResultSet `json:"results"`
	Errors  []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// ExecutionError reports a failed query call: a transport failure, a
// non-success status, or store-side query errors. Status is zero when the
// request never reached the store.
type ExecutionError struct {
	Status int
	Body   string
	Err    error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("graph query failed: %v", e.Err)
	}
	return fmt.Sprintf("graph query failed: status %d: %s", e.Status, e.Body)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Client talks to a Neo4j-compatible transactional HTTP query endpoint
// using a fixed basic-auth credential pair.
//
// A Client should be created using NewClient.
type Client struct {
	baseURL  string
	database string
	username string
	password string

	httpClient *http.Client
}

// NewClientParams defines the configuration for creating a new Client.
type NewClientParams struct {
	BaseURL  string
	Database string
	Username string
	Password string

	Timeout time.Duration
}

// NewClient creates a Client for the store at BaseURL. Database defaults to
// "neo4j" and Timeout to 30 seconds.
func NewClient(params NewClientParams) *Client {
	database := params.Database
	if database == "" {
		database = "neo4j"
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(params.BaseURL, "/"),
		database: database,
		username: params.Username,
		password: params.Password,

		httpClient: &http.Client{Timeout: timeout},
	}
}

// Execute runs the given statements in one auto-committed transaction and
// returns the decoded response. Any transport failure, non-2xx status, or
// store-reported query error yields an *ExecutionError.
func (c *Client) Execute(ctx context.Context, statements ...Statement) (*Response, error) {
	payload, err := json.Marshal(requestBody{Statements: statements})
	if err != nil {
		return nil, &ExecutionError{Err: err}
	}

	endpoint := fmt.Sprintf("%s/db/%s/tx/commit", c.baseURL, c.database)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &ExecutionError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.username, c.password)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ExecutionError{Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &ExecutionError{Status: res.StatusCode, Err: err}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &ExecutionError{Status: res.StatusCode, Body: string(body)}
	}

	var decoded Response
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &ExecutionError{Status: res.StatusCode, Body: string(body), Err: err}
	}
	if len(decoded.Errors) > 0 {
		first := decoded.Errors[0]
		return nil, &ExecutionError{
			Status: res.StatusCode,
			Body:   fmt.Sprintf("%s: %s", first.Code, first.Message),
		}
	}
	return &decoded, nil
}

// Ping verifies connectivity by running a constant query.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Execute(ctx, Statement{Statement: "RETURN 1"})
	return err
}
