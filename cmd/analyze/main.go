// Command analyze prints quick, human-readable statistics about the game
// configurations in the configs directory. For each config it deals a run of
// seeded games and reports how many legal moves a fresh deal offers and how
// far auto-solve gets on its own. Klondike deals are also played through
// one pass of the stock, auto-solving after every draw.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/solitaire/game/config"
	"github.com/wricardo/mcp-training/solitaire/game/engine"
)

// Report summarizes a config over a run of deals
type Report struct {
	ConfigID     string
	Name         string
	Variant      engine.Variant
	Deals        int
	DeadDeals    int // no legal move on the deal
	InitialMoves int // summed over deals
	AutoHome     int // cards auto-solve sent home from the deal, summed
	MaxAutoHome  int
	StockHome    int // Klondike: cards home after one stock pass, summed
	Wins         int
}

// AvgInitialMoves is the mean number of legal moves on a fresh deal
func (r *Report) AvgInitialMoves() float64 {
	return ratio(r.InitialMoves, r.Deals)
}

// AvgAutoHome is the mean number of cards auto-solve sends home from a fresh deal
func (r *Report) AvgAutoHome() float64 {
	return ratio(r.AutoHome, r.Deals)
}

// AvgStockHome is the mean foundation total after one stock pass
func (r *Report) AvgStockHome() float64 {
	return ratio(r.StockHome, r.Deals)
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "Deal seeded games per config and report auto-solve statistics",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "Directory containing game configurations"},
			&cli.IntFlag{Name: "deals", Value: 100, Usage: "Number of deals per config"},
			&cli.IntFlag{Name: "seed", Value: 1, Usage: "Seed of the first deal; later deals use seed+1, seed+2, ..."},
		},
		ArgsUsage: "[config ...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(os.Stdout, cmd.String("config-dir"), cmd.Args().Slice(), int(cmd.Int("deals")), int64(cmd.Int("seed")))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// run analyzes the named configs, or every config in dir when names is empty
func run(w io.Writer, dir string, names []string, deals int, seed int64) error {
	if deals <= 0 {
		return fmt.Errorf("deals must be positive, got %d", deals)
	}

	manager, err := config.NewManager(dir)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		infos, err := manager.ListConfigs()
		if err != nil {
			return err
		}
		for _, info := range infos {
			names = append(names, info.ConfigID)
		}
	}

	for _, name := range names {
		cfg, err := manager.LoadConfig(name)
		if err != nil {
			fmt.Fprintf(w, "\n=== %s ===\nError: %v\n", name, err)
			continue
		}
		report, err := analyzeConfig(name, cfg, deals, seed)
		if err != nil {
			fmt.Fprintf(w, "\n=== %s ===\nError: %v\n", name, err)
			continue
		}
		printReport(w, report)
	}
	return nil
}

// analyzeConfig deals seed..seed+deals-1 under cfg
func analyzeConfig(id string, cfg *engine.GameConfig, deals int, seed int64) (*Report, error) {
	report := &Report{
		ConfigID: id,
		Name:     cfg.Name,
		Variant:  cfg.Variant,
		Deals:    deals,
	}

	for i := 0; i < deals; i++ {
		game, err := engine.NewEngineWithSeed(cfg, seed+int64(i))
		if err != nil {
			return nil, err
		}

		moves := len(game.GetPossibleMoves())
		report.InitialMoves += moves
		if moves == 0 {
			report.DeadDeals++
		}

		home := game.AutoSolve()
		report.AutoHome += home
		report.MaxAutoHome = max(report.MaxAutoHome, home)

		if game.Rules().HasStock() {
			playStockPass(game)
			report.StockHome += engine.FoundationTotal(game.GetState())
		}
		if game.IsWon() {
			report.Wins++
		}
	}
	return report, nil
}

// playStockPass draws through the stock once, auto-solving after every draw
func playStockPass(game *engine.GameEngine) {
	for len(game.GetState().Stock) > 0 && !game.IsWon() {
		if err := game.Draw(); err != nil {
			return
		}
		game.AutoSolve()
	}
}

func printReport(w io.Writer, r *Report) {
	fmt.Fprintf(w, "\n=== Analyzing %s ===\n", r.ConfigID)
	fmt.Fprintf(w, "Name: %s\n", r.Name)
	fmt.Fprintf(w, "Variant: %s\n", r.Variant)
	fmt.Fprintf(w, "Deals: %d\n", r.Deals)
	fmt.Fprintf(w, "Avg legal moves on deal: %.2f\n", r.AvgInitialMoves())
	fmt.Fprintf(w, "Avg cards auto-solved from deal: %.2f (max %d)\n", r.AvgAutoHome(), r.MaxAutoHome)
	if r.Variant == engine.Klondike {
		fmt.Fprintf(w, "Avg cards home after one stock pass: %.2f\n", r.AvgStockHome())
	}
	if r.Wins > 0 {
		fmt.Fprintf(w, "✅ %d deal(s) solved without a player move\n", r.Wins)
	}
	if r.DeadDeals > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d deal(s) have no legal move at all\n", r.DeadDeals)
	} else {
		fmt.Fprintf(w, "✅ Every deal has at least one legal move\n")
	}
}
