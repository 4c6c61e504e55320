package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/neelbansal/leetion/internal/config"
	"github.com/neelbansal/leetion/internal/domain"
	"github.com/neelbansal/leetion/internal/notion"
	"github.com/neelbansal/leetion/internal/review"
	"github.com/neelbansal/leetion/internal/source"
	"github.com/neelbansal/leetion/internal/storage"
	"github.com/neelbansal/leetion/internal/sync"
)

// command is the typed request kind dispatched by the CLI.
type command int

const (
	cmdSync command = iota
	cmdCheck
	cmdStats
	cmdDue
	cmdSchema
	cmdReschedule
	cmdImport
	cmdVerify
)

func parseCommand(name string) (command, error) {
	switch name {
	case "sync":
		return cmdSync, nil
	case "check":
		return cmdCheck, nil
	case "stats":
		return cmdStats, nil
	case "due":
		return cmdDue, nil
	case "schema":
		return cmdSchema, nil
	case "reschedule":
		return cmdReschedule, nil
	case "import":
		return cmdImport, nil
	case "verify":
		return cmdVerify, nil
	}
	return 0, fmt.Errorf("unknown command: %s", name)
}

const usage = `Usage: leetion <command> [flags]

Commands:
  sync         Save or update a problem (reads --record JSON)
  check        Look up a problem by number
  stats        Show tracked problem counts
  due          List problems due for review
  schema       Ensure the database has all required columns
  reschedule   Push a page's review date out by --days
  import       Import solution files from a directory or git URL
  verify       Check the API key and database connection
`

type app struct {
	cfg    config.Config
	logger zerolog.Logger
	client *notion.Client
	engine *sync.Engine
}

func main() {
	flags := pflag.NewFlagSet("leetion", pflag.ExitOnError)
	configPath := flags.String("config", "leetion.yml", "Path to the config file")
	flags.String("api-key", "", "Notion integration token")
	flags.String("database-id", "", "Notion database ID")
	flags.String("cache-path", "leetion.db", "Path to the local snapshot cache")
	flags.String("repos-dir", "repos", "Directory for imported git checkouts")
	flags.Int("spaced-repetition-days", 30, "Review interval stamped on synced pages (0 disables)")
	flags.Bool("verbose", false, "Enable debug logging")
	recordPath := flags.StringP("record", "r", "", "Path to a problem record JSON file (sync)")
	pageID := flags.String("page-id", "", "Existing page ID to update (sync, reschedule)")
	days := flags.Int("days", 0, "Days until the next review (reschedule)")
	attempts := flags.Int("attempts", 0, "New attempt count (reschedule)")

	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage+"\nFlags:\n"+flags.FlagUsages())
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if flags.NArg() == 0 {
		flags.Usage()
		os.Exit(2)
	}
	cmd, err := parseCommand(flags.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flags.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	if cfg.APIKey == "" || cfg.DatabaseID == "" {
		logger.Fatal().Msg("api_key and database_id must be configured (flags, LEETION_* env, or config file)")
	}

	client := notion.NewClient(cfg.APIKey, notion.WithLogger(logger))
	a := &app{
		cfg:    cfg,
		logger: logger,
		client: client,
		engine: sync.NewEngine(client, cfg.DatabaseID,
			sync.WithLogger(logger),
			sync.WithSpacedRepetitionDays(cfg.SpacedRepetitionDays)),
	}

	ctx := context.Background()
	switch cmd {
	case cmdSync:
		err = a.runSync(ctx, *recordPath, *pageID)
	case cmdCheck:
		err = a.runCheck(ctx, flags.Args())
	case cmdStats:
		err = a.runStats(ctx)
	case cmdDue:
		err = a.runDue(ctx)
	case cmdSchema:
		err = a.runSchema(ctx)
	case cmdReschedule:
		id := *pageID
		if id == "" && flags.NArg() > 1 {
			id = flags.Arg(1)
		}
		err = a.runReschedule(ctx, id, *days, *attempts)
	case cmdImport:
		err = a.runImport(flags.Args())
	case cmdVerify:
		err = a.runVerify(ctx)
	}
	if err != nil {
		logger.Fatal().Msg(notion.GuidanceFor(err))
	}
}

// runSync reads a record file, fills in cached snapshots and draft notes the
// caller left out, and syncs the problem.
func (a *app) runSync(ctx context.Context, recordPath, pageID string) error {
	if recordPath == "" {
		return fmt.Errorf("sync requires --record")
	}
	data, err := os.ReadFile(recordPath)
	if err != nil {
		return fmt.Errorf("reading record: %w", err)
	}
	var record domain.ProblemRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("parsing record %s: %w", recordPath, err)
	}

	cache, err := storage.Open(a.cfg.CachePath)
	if err != nil {
		return err
	}
	defer cache.Close()

	if len(record.Snapshots) == 0 {
		snaps, err := cache.SnapshotsForProblem(record.Number)
		if err != nil {
			return err
		}
		record.Snapshots = snaps
	}
	if record.Notes == "" {
		draft, err := cache.LoadDraft(record.Number)
		if err != nil {
			return err
		}
		if draft != nil {
			record.Notes = draft.Notes
		}
	}

	if pageID == "" {
		existing, err := a.engine.CheckExisting(ctx, record.Number)
		if err != nil {
			return err
		}
		pageID = existing.PageID
	}

	result, err := a.engine.SyncProblem(ctx, record, pageID)
	if err != nil {
		return err
	}
	if result.ContentUpdated {
		if err := cache.DeleteDraft(record.Number); err != nil {
			a.logger.Warn().Err(err).Msg("could not clear draft")
		}
	}
	fmt.Printf("Synced problem %d: page %s (updated=%v, content=%v)\n",
		record.Number, result.PageID, result.Updated, result.ContentUpdated)
	return nil
}

func (a *app) runCheck(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("check requires a problem number")
	}
	var number int
	if _, err := fmt.Sscanf(args[1], "%d", &number); err != nil {
		return fmt.Errorf("invalid problem number %q", args[1])
	}

	existing, err := a.engine.CheckExisting(ctx, number)
	if err != nil {
		return err
	}
	if !existing.Exists {
		fmt.Printf("Problem %d is not tracked yet.\n", number)
		return nil
	}
	fmt.Printf("Problem %d: %s\n", number, existing.Title)
	fmt.Printf("  Page:       %s\n", existing.PageID)
	fmt.Printf("  Done:       %v, attempts: %d\n", existing.Done, existing.Attempts)
	if len(existing.Tags) > 0 {
		fmt.Printf("  Tags:       %v\n", existing.Tags)
	}
	if existing.Expertise != "" {
		fmt.Printf("  Expertise:  %s\n", existing.Expertise)
	}
	fmt.Printf("  Solutions:  %d saved\n", len(existing.Solutions))
	if existing.Notes != "" {
		fmt.Printf("  Notes:\n%s\n", existing.Notes)
	}
	return nil
}

func (a *app) runStats(ctx context.Context) error {
	svc := review.NewService(a.client, a.cfg.DatabaseID, a.logger)
	stats, err := svc.Stats(ctx, time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Tracked: %d (easy %d / medium %d / hard %d), due for review: %d\n",
		stats.Total, stats.Easy, stats.Medium, stats.Hard, stats.DueForReview)
	return nil
}

func (a *app) runDue(ctx context.Context) error {
	svc := review.NewService(a.client, a.cfg.DatabaseID, a.logger)
	due, err := svc.Due(ctx, time.Now())
	if err != nil {
		return err
	}
	if len(due) == 0 {
		fmt.Println("Nothing due for review today.")
		return nil
	}
	fmt.Printf("%d problem(s) due for review:\n", len(due))
	for _, p := range due {
		fmt.Printf("  #%d %s (%s, due %s)\n", p.Number, p.Title, p.Difficulty, p.DueDate)
	}
	return nil
}

func (a *app) runSchema(ctx context.Context) error {
	res := notion.EnsureSchema(ctx, a.client, a.cfg.DatabaseID)
	if res.Err != nil {
		return res.Err
	}
	if len(res.Created) == 0 {
		fmt.Println("Database schema is up to date.")
	} else {
		fmt.Printf("Created %d missing column(s): %v\n", len(res.Created), res.Created)
	}
	return nil
}

func (a *app) runReschedule(ctx context.Context, pageID string, days, attempts int) error {
	if pageID == "" {
		return fmt.Errorf("reschedule requires a page ID")
	}
	if days <= 0 {
		days = review.DefaultParams().NextInterval(attempts)
	}
	svc := review.NewService(a.client, a.cfg.DatabaseID, a.logger)
	next, err := svc.Reschedule(ctx, pageID, days, attempts)
	if err != nil {
		return err
	}
	fmt.Printf("Next review on %s.\n", next.Format("2006-01-02"))
	return nil
}

func (a *app) runImport(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("import requires a directory or git URL")
	}
	path := args[1]

	cache, err := storage.Open(a.cfg.CachePath)
	if err != nil {
		return err
	}
	defer cache.Close()

	var report source.Report
	if source.IsGitURL(path) {
		report, err = source.ImportRepo(cache, path, a.cfg.ReposDir, a.logger)
	} else {
		report, err = source.ImportDir(cache, path, a.logger)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d solution(s), skipped %d, %d error(s).\n",
		report.Imported, report.Skipped, len(report.Errors))
	for _, e := range report.Errors {
		fmt.Printf("- %s\n", e)
	}
	return nil
}

func (a *app) runVerify(ctx context.Context) error {
	name, err := a.engine.VerifyConnection(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Connected to %q.\n", name)
	return nil
}
