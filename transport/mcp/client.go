package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/solitaire/game/engine"
	"github.com/wricardo/mcp-training/solitaire/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Solitaire",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Solitaire - MCP Interface

This is a thin client that proxies all requests to the REST API server.
Two variants are available: FreeCell and Klondike.

GAME OBJECTIVE:
Build all four foundations from Ace to King by suit. The game is won when
all 52 cards are on the foundations.

AVAILABLE TOOLS:
- create_session: Start a new game (optional config and seed)
- list_sessions / get_session: Inspect running games
- game_state: Show the board
- move: Move a card or run between zones
- draw: Klondike only, turn a stock card onto the waste
- undo: Take back the last action
- new_game: Deal again in the same session
- auto_solve: Send every playable card to the foundations
- legal_destinations: Where can the card at a location go?
- possible_moves: Every legal move on the board
- move_history: Paged log of applied actions
- list_configs: Available game configurations
- game_instructions: Rules and notation

NOTE: The 'intent' parameter on move serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func zoneProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"tableau", "freecell", "foundation", "waste", "stock"},
		"description": description,
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection and deal seed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Config to use, e.g. freecell or klondike (optional)",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Deal seed for a reproducible shuffle (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the top card (or, on a tableau, the run starting at card_index) from one zone to another",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"from_zone":  zoneProperty("Source zone"),
				"from_index": map[string]interface{}{
					"type":        "integer",
					"description": "Source zone index (0-based)",
				},
				"card_index": map[string]interface{}{
					"type":        "integer",
					"description": "Tableau only: index of the first card of the run to lift. Omit for the top card.",
				},
				"to_zone": zoneProperty("Destination zone"),
				"to_index": map[string]interface{}{
					"type":        "integer",
					"description": "Destination zone index (0-based). Foundations are spades, hearts, diamonds, clubs.",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "from_zone", "from_index", "to_zone", "to_index"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "draw",
		Description: "Klondike: turn the top stock card onto the waste, or recycle the waste when the stock is empty",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleDraw)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "undo",
		Description: "Take back the last move, draw or recycle",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleUndo)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Deal a new game in the same session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Deal seed (optional, random when omitted)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleNewGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "auto_solve",
		Description: "Repeatedly send exposed cards to the foundations until nothing more can go home",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"delay_ms": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("Pause between steps in milliseconds (0-%d)", engine.MaxAutoSolveDelayMS),
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleAutoSolve)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "legal_destinations",
		Description: "List every location the card or run at a source location may legally move to",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"zone":       zoneProperty("Source zone"),
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Source zone index (0-based)",
				},
				"card_index": map[string]interface{}{
					"type":        "integer",
					"description": "Tableau only: first card of the run. Omit for the top card.",
				},
			},
			Required: []string{"session_id", "zone", "index"},
		},
	}, c.handleLegalDestinations)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "possible_moves",
		Description: "List every legal move on the board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handlePossibleMoves)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of both variants and the board notation",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument. ok is false when it is absent.
func intArg(args map[string]interface{}, name string) (int, bool) {
	switch v := args[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}

func sessionPath(args map[string]interface{}, suffix string) (string, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix, nil
}

// locationArg builds the wire form of a location from zone, index and optional card_index arguments
func locationArg(args map[string]interface{}, zoneKey, indexKey, cardKey string) (map[string]interface{}, error) {
	zone, _ := args[zoneKey].(string)
	if zone == "" {
		return nil, fmt.Errorf("%s is required", zoneKey)
	}
	index, ok := intArg(args, indexKey)
	if !ok {
		return nil, fmt.Errorf("%s is required", indexKey)
	}
	loc := map[string]interface{}{"zone": zone, "index": index}
	if cardKey != "" {
		if cardIndex, ok := intArg(args, cardKey); ok {
			loc["card_index"] = cardIndex
		}
	}
	return loc, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configName, _ := args["config_name"].(string)

	body := map[string]interface{}{}
	if configName != "" {
		body["config_name"] = configName
	}
	if seed, ok := intArg(args, "seed"); ok {
		body["seed"] = seed
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigName)
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Config: %s, Variant: %s, Created: %s)\n",
			s.ID, s.ConfigName, s.Variant, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", path, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/move")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	intent, _ := args["intent"].(string)
	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	from, err := locationArg(args, "from_zone", "from_index", "card_index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := locationArg(args, "to_zone", "to_index", "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", path, map[string]interface{}{"from": from, "to": to}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleDraw(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.postMoveResult(ctx, request, "/draw")
}

func (c *Client) handleUndo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.postMoveResult(ctx, request, "/undo")
}

func (c *Client) postMoveResult(ctx context.Context, request mcp.CallToolRequest, suffix string) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), suffix)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", path, nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/new-game")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]interface{}{}
	if seed, ok := intArg(args, "seed"); ok {
		body["seed"] = seed
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", path, body, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleAutoSolve(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/auto-solve")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]interface{}{}
	if delay, ok := intArg(args, "delay_ms"); ok {
		body["delay_ms"] = delay
	}

	var result service.AutoSolveResult
	if err := c.apiCall(ctx, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatAutoSolveResult(&result)), nil
}

func (c *Client) handleLegalDestinations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/destinations")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	from, err := locationArg(args, "zone", "index", "card_index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := url.Values{}
	query.Set("zone", from["zone"].(string))
	query.Set("index", fmt.Sprint(from["index"]))
	if cardIndex, ok := from["card_index"]; ok {
		query.Set("card_index", fmt.Sprint(cardIndex))
	}

	var response struct {
		From         engine.Location   `json:"from"`
		Destinations []engine.Location `json:"destinations"`
	}
	if err := c.apiCall(ctx, "GET", path+"?"+query.Encode(), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(response.Destinations) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No legal destinations from %s", response.From)), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Legal destinations from %s:\n", response.From)
	for _, d := range response.Destinations {
		fmt.Fprintf(&b, "- %s\n", d)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handlePossibleMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/moves")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Count int           `json:"count"`
		Moves []engine.Move `json:"moves"`
	}
	if err := c.apiCall(ctx, "GET", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPossibleMoves(response.Moves)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/history")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		query.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		query.Set("limit", fmt.Sprint(limit))
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		rules := config.Variant
		if config.SingleCardMoves {
			rules += ", single-card moves"
		}
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Rules: %s\n\n",
			config.Name, config.ConfigID, config.Description, rules)
	}

	return mcp.NewToolResultText(result), nil
}

const gameInstructions = `Solitaire - Complete Instructions

GAME OBJECTIVE:
Move all 52 cards onto the four foundations. Each foundation holds one suit,
built up from Ace to King. Foundations are indexed 0-3 as spades, hearts,
diamonds, clubs.

NOTATION:
• Cards read rank then suit: A♠ 10♥ Q♦ K♣
• ## is a face-down card
• -- is an empty free cell or foundation
• Tableau cards are listed bottom to top; the last card is the top card

FREECELL:
• All cards are dealt face up across 8 tableaus (the first four get 7 cards)
• 4 free cells each hold a single card
• Tableau builds go down by one rank in alternating colors
• Any card may go to an empty tableau
• A run may move as a unit when it fits the free space:
  (1 + empty free cells) x (1 + empty tableaus), not counting the destination
• Single-card configs only ever lift the top card

KLONDIKE:
• 7 tableaus dealt 1..7 cards, only the top card face up
• The remaining 24 cards form the stock; draw turns one onto the waste
• Drawing from an empty stock turns the waste back over
• Only a King (or a run led by a King) may fill an empty tableau
• Exposing a face-down tableau card turns it face up

MOVES:
• move: from_zone/from_index to to_zone/to_index
• On a tableau, card_index picks the first card of the run to lift
• Illegal moves are rejected and leave the board unchanged
• undo takes back one action at a time

HELPERS:
• legal_destinations answers "where can this go?"
• possible_moves lists every legal move
• auto_solve sends every card that can go home to the foundations

STRATEGY TIPS:
• Free aces and twos early
• Keep free cells and empty tableaus open; they multiply run capacity
• In Klondike, prefer moves that turn face-down cards over
• Use undo to explore; max_undo in the config caps how far back you can go

VICTORY CONDITIONS:
- All four foundations complete (52 cards)
- The board displays "VICTORY!" when the last card goes home

Good luck!`

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions), nil
}
