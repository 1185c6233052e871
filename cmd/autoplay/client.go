package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wricardo/mcp-training/solitaire/game/engine"
	"github.com/wricardo/mcp-training/solitaire/game/service"
)

// Client plays one session through the REST API
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) do(method, path string, body, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, bytes.TrimSpace(data))
	}
	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse %s response: %w", path, err)
		}
	}
	return nil
}

func (c *Client) sessionPath(suffix string) string {
	return fmt.Sprintf("/api/sessions/%s%s", c.sessionID, suffix)
}

// CreateSession starts a session and remembers its ID
func (c *Client) CreateSession(configName string, seed *int64) (*engine.GameState, error) {
	body := map[string]interface{}{}
	if configName != "" {
		body["config_id"] = configName
	}
	if seed != nil {
		body["seed"] = *seed
	}

	var session service.SessionInfo
	if err := c.do("POST", "/api/sessions", body, &session); err != nil {
		return nil, err
	}
	c.sessionID = session.ID
	return session.GameState, nil
}

// GetState fetches the current board
func (c *Client) GetState() (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do("GET", c.sessionPath("/state"), nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// PossibleMoves lists every legal move
func (c *Client) PossibleMoves() ([]engine.Move, error) {
	var resp struct {
		Moves []engine.Move `json:"moves"`
	}
	if err := c.do("GET", c.sessionPath("/moves"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Moves, nil
}

type locationBody struct {
	Zone      engine.ZoneKind `json:"zone"`
	Index     int             `json:"index"`
	CardIndex *int            `json:"card_index,omitempty"`
}

func toBody(loc engine.Location) locationBody {
	body := locationBody{Zone: loc.Zone, Index: loc.Index}
	if loc.CardIndex >= 0 {
		cardIndex := loc.CardIndex
		body.CardIndex = &cardIndex
	}
	return body
}

// Move applies m. A rejected move is returned as an error.
func (c *Client) Move(m engine.Move) (*engine.GameState, error) {
	var result service.MoveResult
	body := map[string]locationBody{"from": toBody(m.From), "to": toBody(m.To)}
	if err := c.do("POST", c.sessionPath("/move"), body, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return result.GameState, fmt.Errorf("move %s -> %s rejected: %s", m.From, m.To, result.Reason)
	}
	return result.GameState, nil
}

// Draw turns a stock card, or recycles the waste
func (c *Client) Draw() (*engine.GameState, error) {
	return c.postResult("/draw")
}

// Undo takes back the last action
func (c *Client) Undo() (*engine.GameState, error) {
	return c.postResult("/undo")
}

func (c *Client) postResult(suffix string) (*engine.GameState, error) {
	var result service.MoveResult
	if err := c.do("POST", c.sessionPath(suffix), nil, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return result.GameState, fmt.Errorf("%s rejected: %s", suffix, result.Message)
	}
	return result.GameState, nil
}

// NewGame redeals the session with seed
func (c *Client) NewGame(seed int64) (*engine.GameState, error) {
	var resp struct {
		State *engine.GameState `json:"state"`
	}
	if err := c.do("POST", c.sessionPath("/new-game"), map[string]int64{"seed": seed}, &resp); err != nil {
		return nil, err
	}
	return resp.State, nil
}

// AutoSolve sends every playable card home, unpaced
func (c *Client) AutoSolve() (*engine.GameState, error) {
	var result service.AutoSolveResult
	if err := c.do("POST", c.sessionPath("/auto-solve"), map[string]int{"delay_ms": 0}, &result); err != nil {
		return nil, err
	}
	return result.GameState, nil
}
