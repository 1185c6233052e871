// Command autoplay plays solitaire deals through the REST API with a greedy
// strategy. It is a smoke test for a running server: every action goes over
// HTTP exactly as an agent would send it, so WebSocket viewers can watch the
// game unfold.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/solitaire/game/engine"
)

// PlayOptions bounds a single game
type PlayOptions struct {
	MaxSteps int
	Delay    time.Duration
	Verbose  bool
	Out      io.Writer
}

// PlayResult summarizes a finished game
type PlayResult struct {
	SessionID  string
	Seed       int64
	Won        bool
	Steps      int
	Moves      int
	Draws      int
	Undos      int
	Foundation int
}

func main() {
	cmd := &cli.Command{
		Name:  "autoplay",
		Usage: "Play seeded solitaire deals against a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Server base URL"},
			&cli.StringFlag{Name: "config", Value: "freecell", Usage: "Config id to play"},
			&cli.IntFlag{Name: "seed", Value: 1, Usage: "Seed of the first deal"},
			&cli.IntFlag{Name: "games", Value: 1, Usage: "Number of consecutive seeds to play"},
			&cli.IntFlag{Name: "max-steps", Value: 2000, Usage: "Maximum actions per game"},
			&cli.DurationFlag{Name: "delay", Value: 0, Usage: "Pause between actions"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Print every action"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := PlayOptions{
				MaxSteps: int(cmd.Int("max-steps")),
				Delay:    cmd.Duration("delay"),
				Verbose:  cmd.Bool("verbose"),
				Out:      os.Stdout,
			}
			return run(ctx, cmd.String("url"), cmd.String("config"), int64(cmd.Int("seed")), int(cmd.Int("games")), opts)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, url, configName string, seed int64, games int, opts PlayOptions) error {
	if games <= 0 {
		return fmt.Errorf("games must be positive, got %d", games)
	}

	fmt.Fprintf(opts.Out, "Playing %d game(s) of %s at %s\n", games, configName, url)
	wins := 0
	for i := 0; i < games; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		dealSeed := seed + int64(i)
		result, err := Play(ctx, NewClient(url), configName, dealSeed, opts)
		if err != nil {
			return fmt.Errorf("seed %d: %w", dealSeed, err)
		}
		status := "stuck"
		if result.Won {
			status = "WON"
			wins++
		}
		fmt.Fprintf(opts.Out, "seed %-6d %-5s home %2d/%d  moves %4d  draws %4d  undos %3d  session %s\n",
			result.Seed, status, result.Foundation, engine.DeckSize, result.Moves, result.Draws, result.Undos, result.SessionID)
	}
	fmt.Fprintf(opts.Out, "Won %d of %d\n", wins, games)
	return nil
}

// Play deals one game and plays it until it is won, stuck or out of steps
func Play(ctx context.Context, c *Client, configName string, seed int64, opts PlayOptions) (*PlayResult, error) {
	if opts.Out == nil {
		opts.Out = io.Discard
	}

	state, err := c.CreateSession(configName, &seed)
	if err != nil {
		return nil, err
	}
	result := &PlayResult{SessionID: c.sessionID, Seed: seed}

	strategy := NewGreedyStrategy(seed)
	strategy.Visit(state)
	drawsSinceMove := 0

	for result.Steps < opts.MaxSteps && !state.Won {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if opts.Delay > 0 {
			time.Sleep(opts.Delay)
		}
		result.Steps++

		moves, err := c.PossibleMoves()
		if err != nil {
			return nil, err
		}

		if m, ok := strategy.NextMove(state, moves); ok {
			next, err := c.Move(m)
			if err != nil {
				if next == nil {
					return nil, err
				}
				strategy.Reject(state, m)
				continue
			}
			if !strategy.Visit(next) {
				if opts.Verbose {
					fmt.Fprintf(opts.Out, "  %s -> %s repeats a position, undoing\n", m.From, m.To)
				}
				if _, err := c.Undo(); err != nil {
					return nil, err
				}
				strategy.Reject(state, m)
				result.Undos++
				continue
			}
			if opts.Verbose {
				fmt.Fprintf(opts.Out, "  %s -> %s (%d card(s))\n", m.From, m.To, m.Cards)
			}
			state = next
			result.Moves++
			drawsSinceMove = 0
			continue
		}

		// A full trip through stock and waste without a move means no draw can help
		if state.Variant == engine.Klondike && drawsSinceMove <= len(state.Stock)+len(state.Waste) {
			next, err := c.Draw()
			if err != nil {
				break
			}
			if opts.Verbose {
				fmt.Fprintf(opts.Out, "  draw (stock %d, waste %d)\n", len(next.Stock), len(next.Waste))
			}
			state = next
			strategy.Visit(state)
			result.Draws++
			drawsSinceMove++
			continue
		}
		break
	}

	if !state.Won {
		if final, err := c.AutoSolve(); err == nil && final != nil {
			state = final
		}
	}

	result.Won = state.Won
	result.Foundation = engine.FoundationTotal(state)
	return result, nil
}
