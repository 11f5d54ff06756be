package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/announce"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/config"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/deck"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/history"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/ops"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/scoring"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/settings"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/telemetry"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "play":
		err = cmdPlay(os.Args[2:])
	case "history":
		err = cmdHistory(os.Args[2:])
	case "settings":
		err = cmdSettings(os.Args[2:])
	case "backup":
		err = cmdBackup(os.Args[2:])
	case "restore":
		err = cmdRestore(os.Args[2:])
	default:
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

// loadConfig reads the optional YAML file, then the environment, then the
// data-dir flag.
func loadConfig(path, dataDir string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, cfg.Validate()
}

func newLogger(dataDir string) (*log.Logger, func(), error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dataDir, "solitario.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return log.New(f, "", log.LstdFlags), func() { _ = f.Close() }, nil
}

func cmdPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "path to YAML config")
	dataDir := fs.String("data-dir", "", "override data directory")
	seed := fs.Int64("seed", 0, "deal seed (0 = random)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath, *dataDir)
	if err != nil {
		return err
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	logger, closeLog, err := newLogger(cfg.DataDir)
	if err != nil {
		return err
	}
	defer closeLog()

	bus := telemetry.NewBus(logger)
	prefs, err := settings.NewFileRepo(cfg.DataDir, cfg.SettingsFile, logger, bus)
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := newSession(sessionDeps{
		Config: cfg,
		Prefs:  prefs,
		Store:  store,
		Bus:    bus,
		Logger: logger,
		Out:    os.Stdout,
	})
	logger.Printf("session start data_dir=%s seed=%d", cfg.DataDir, cfg.Seed)
	return s.run(ctx, os.Stdin, cfg.TickInterval())
}

func cmdHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "path to YAML config")
	dataDir := fs.String("data-dir", "", "override data directory")
	n := fs.Int("n", 10, "number of games to list")
	kind := fs.String("deck", "", "list best scores for this deck (french|neapolitan)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(*cfgPath, *dataDir)
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return err
	}
	defer store.Close()
	return printHistory(os.Stdout, store, deck.Kind(*kind), *n)
}

func printHistory(w io.Writer, store *history.Store, kind deck.Kind, n int) error {
	rows, err := store.Recent(n)
	title := "Ultime partite"
	if kind != "" {
		if !kind.Valid() {
			return settings.ErrInvalidDeck
		}
		rows, err = store.Best(kind, n)
		title = "Migliori punteggi, mazzo " + announce.Deck(kind)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(w, title+":")
	for _, r := range rows {
		fmt.Fprintf(w, "  %s  %-10s livello %d  %-8s  %5d punti  %3d mosse  %s\n",
			r.EndedAt.Local().Format("2006-01-02 15:04"), announce.Deck(r.Deck), r.Difficulty,
			r.Reason, r.Score, r.Moves, announce.Clock(r.Elapsed))
	}
	sum, err := store.Summary(kind)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Giocate %d, vinte %d (%.0f%%), abbandonate %d, tempo scaduto %d. Record %d.\n",
		sum.Played, sum.Won, sum.WinRate*100, sum.Abandoned, sum.TimedOut, sum.BestScore)
	return nil
}

func cmdSettings(args []string) error {
	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "path to YAML config")
	dataDir := fs.String("data-dir", "", "override data directory")
	level := fs.Int("level", 0, "difficulty level 1..5 (applies its preset)")
	kind := fs.String("deck", "", "french|neapolitan")
	draw := fs.Int("draw", 0, "cards per draw 1..3")
	maxTime := fs.Int("time", -1, "time limit in seconds (0 = none)")
	warnings := fs.String("warnings", "", "score warnings: disabled|minimal|balanced|complete")
	toggles := map[settings.Option]*string{
		settings.OptionTimerStrict:     fs.String("strict", "", "strict timer on|off"),
		settings.OptionShuffleDiscards: fs.String("shuffle", "", "shuffle discards on recycle on|off"),
		settings.OptionScoring:         fs.String("scoring", "", "scoring on|off"),
		settings.OptionCommandHints:    fs.String("hints", "", "command hints on|off"),
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(*cfgPath, *dataDir)
	if err != nil {
		return err
	}

	bus := telemetry.NewBus(nil)
	bus.Subscribe(func(e telemetry.Event) {
		if msg := announce.Event(e); msg != "" {
			fmt.Println(msg)
		}
	})
	repo, err := settings.NewFileRepo(cfg.DataDir, cfg.SettingsFile, nil, bus)
	if err != nil {
		return err
	}
	s := repo.Load()
	dirty := false
	if *level != 0 {
		if err := s.ApplyPreset(*level); err != nil {
			return err
		}
		dirty = true
	}

	menu := settings.NewMenu(&s, bus)
	var changes []func() error
	if *kind != "" {
		changes = append(changes, func() error { return menu.Set(settings.OptionDeckKind, deck.Kind(*kind)) })
	}
	if *draw != 0 {
		changes = append(changes, func() error { return menu.Set(settings.OptionDrawCount, *draw) })
	}
	if *maxTime >= 0 {
		if *maxTime%settings.TimeStepSecond != 0 {
			return fmt.Errorf("%w: use a multiple of %d seconds", settings.ErrInvalidTimerDuration, settings.TimeStepSecond)
		}
		changes = append(changes, func() error { return menu.Set(settings.OptionMaxTime, *maxTime) })
	}
	if *warnings != "" {
		l, err := scoring.ParseWarningLevel(*warnings)
		if err != nil {
			return err
		}
		changes = append(changes, func() error { return menu.Set(settings.OptionWarningLevel, l) })
	}
	for _, o := range settings.Options {
		raw, ok := toggles[o]
		if !ok || *raw == "" {
			continue
		}
		on, err := parseSwitch(*raw)
		if err != nil {
			return fmt.Errorf("%s: %w", o, err)
		}
		o := o
		changes = append(changes, func() error { return menu.Set(o, on) })
	}
	for _, change := range changes {
		if err := change(); err != nil {
			return err
		}
		dirty = true
	}

	if dirty {
		if err := repo.Save(menu.Settings()); err != nil {
			return err
		}
	}
	printSettings(os.Stdout, menu.Settings())
	return nil
}

func parseSwitch(v string) (bool, error) {
	switch v {
	case "on", "si", "sì":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(v)
}

func printSettings(w io.Writer, s settings.Settings) {
	p := s.Preset()
	fmt.Fprintf(w, "Livello %d (%s)\n", s.DifficultyLevel, p.Name)
	for _, o := range settings.Options {
		v, err := s.Get(o)
		if err != nil {
			continue
		}
		lock := ""
		if s.IsLocked(o) {
			lock = " [bloccato]"
		}
		fmt.Fprintf(w, "  %-24s %s%s\n", announce.Option(o), announce.Value(o, v), lock)
	}
}

func cmdBackup(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "path to YAML config")
	dataDir := fs.String("data-dir", "", "override data directory")
	out := fs.String("out", "", "output archive path (.tar.gz)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(*cfgPath, *dataDir)
	if err != nil {
		return err
	}
	if *out == "" {
		ts := time.Now().UTC().Format("20060102T150405Z")
		*out = filepath.Join("backups", "solitario-"+ts+".tar.gz")
	}

	names, err := ops.Backup(profile(cfg), *out, nil)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Println("added:", n)
	}
	fmt.Println(*out)
	return nil
}

func cmdRestore(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "path to YAML config")
	dataDir := fs.String("data-dir", "", "override data directory")
	archive := fs.String("archive", "", "input backup archive (.tar.gz)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *archive == "" {
		return fmt.Errorf("archive is required")
	}
	cfg, err := loadConfig(*cfgPath, *dataDir)
	if err != nil {
		return err
	}
	names, err := ops.Restore(*archive, profile(cfg))
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Println("restored:", n)
	}
	return nil
}

func profile(cfg *config.Config) ops.Profile {
	return ops.Profile{
		DataDir:      cfg.DataDir,
		SettingsFile: cfg.SettingsFile,
		HistoryDB:    cfg.HistoryDB,
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  solitario play [-config solitario.yaml] [-data-dir DIR] [-seed N]")
	fmt.Println("  solitario history [-n 10] [-deck french|neapolitan]")
	fmt.Println("  solitario settings [-level N] [-deck K] [-draw N] [-time S] [-strict on|off] [-shuffle on|off] [-scoring on|off] [-hints on|off] [-warnings L]")
	fmt.Println("  solitario backup [-data-dir DIR] [-out backups/solitario.tar.gz]")
	fmt.Println("  solitario restore -archive backups/solitario.tar.gz [-data-dir DIR]")
}
