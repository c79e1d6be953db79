// README: Operator CLI: import spreadsheets, score loads for a truck, delete loads.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"loadrec/internal/config"
	"loadrec/internal/excel"
	"loadrec/internal/infra"
	mapsvc "loadrec/internal/maps"
	"loadrec/internal/modules/detour"
	"loadrec/internal/modules/load"
	"loadrec/internal/modules/scoring"
	"loadrec/internal/service"
)

const usage = `usage: loadctl <command> [flags]

commands:
  import  <file.xlsx>                      add loads from a spreadsheet
  score   -location <addr> -capacity <t>   rank stored loads for a truck
  delete  <load_id>                        remove a load
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, cfgErr := config.Load()
	infra.SetupLogger(cfg.Log.Level, "development")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loads, closeStore, err := openLoads(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open load store")
	}
	defer closeStore()

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "import":
		err = runImport(ctx, loads, args)
	case "score":
		if cfgErr != nil {
			log.Fatal().Err(cfgErr).Msg("config")
		}
		err = runScore(ctx, cfg, loads, args)
	case "delete":
		err = runDelete(ctx, loads, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Str("command", cmd).Msg("failed")
		os.Exit(1)
	}
}

func openLoads(ctx context.Context, cfg config.Config) (*load.Service, func(), error) {
	if cfg.Store.Backend != config.StorePostgres {
		return load.NewService(load.NewFileStore(cfg.Store.LoadsFile)), func() {}, nil
	}
	if err := infra.Migrate(cfg.DB.Migrations, cfg.DB.DSN); err != nil {
		return nil, nil, err
	}
	db, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return nil, nil, err
	}
	return load.NewService(load.NewPGStore(db)), db.Close, nil
}

func runImport(ctx context.Context, loads *load.Service, args []string) error {
	if len(args) != 1 {
		return errors.New("import needs exactly one .xlsx path")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := excel.ReadRows(f)
	if err != nil {
		return err
	}
	report, err := loads.Import(ctx, rows)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func runScore(ctx context.Context, cfg config.Config, loads *load.Service, args []string) error {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	location := fs.String("location", "", "truck location (free-text address)")
	capacity := fs.Float64("capacity", 0, "truck capacity in tons")
	_ = fs.Parse(args)

	client, err := mapsvc.NewClient(cfg.Maps.APIKey, cfg.Maps.QPS)
	if err != nil {
		return err
	}
	scorer := scoring.NewScorer(
		mapsvc.NewGeocoder(client),
		detour.NewEstimator(mapsvc.NewRouteService(client), cfg.Detour.FuelCostPerKm),
		cfg.Scoring.Workers,
	)
	rec := service.NewRecommender(loads, scorer, nil, nil, 0)

	scored, err := rec.Recommend(ctx, scoring.Truck{Location: *location, Capacity: *capacity})
	if err != nil {
		return err
	}
	if len(scored) == 0 {
		fmt.Println("no suitable loads")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LOAD\tPICKUP\tDESTINATION\tRATE\tSCORE\tEXTRA KM\tFUEL")
	for _, s := range scored {
		rate, _ := s.Load.RateText()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%.1f\t%.2f\n",
			s.Load.LoadID, s.Load.Pickup(), s.Load.Destination, rate, s.Score, s.Detour.ExtraKm, s.Detour.FuelCost)
	}
	return tw.Flush()
}

func runDelete(ctx context.Context, loads *load.Service, args []string) error {
	if len(args) != 1 {
		return errors.New("delete needs exactly one load id")
	}
	if err := loads.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Load with ID '%s' successfully deleted.\n", args[0])
	return nil
}
