// Command migrate manages the schema of the SQLite state database that
// arxivbot uses when state.driver is sqlite.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"arxivbot/internal/config"
	"arxivbot/migrations"
)

type command struct {
	help string
	run  func(db *sql.DB, dir string) error
}

var commands = map[string]command{
	"up":      {"Migrate to the latest version", func(db *sql.DB, dir string) error { return goose.Up(db, dir) }},
	"up-one":  {"Migrate one version up", func(db *sql.DB, dir string) error { return goose.UpByOne(db, dir) }},
	"down":    {"Roll back one version", func(db *sql.DB, dir string) error { return goose.Down(db, dir) }},
	"status":  {"Show migration status", func(db *sql.DB, dir string) error { return goose.Status(db, dir) }},
	"version": {"Show current version", func(db *sql.DB, dir string) error { return goose.Version(db, dir) }},
	"reset":   {"Roll back all migrations", func(db *sql.DB, dir string) error { return goose.Reset(db, dir) }},
}

func main() {
	dbPath := flag.String("db", "", "path to sqlite database (default: state.path from the config, or $DATABASE_PATH)")
	cfgPath := flag.String("config", "", "path to config file")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		log.Fatalf("unknown command: %s", args[0])
	}

	path := *dbPath
	if path == "" {
		path = resolvePath(*cfgPath)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		log.Fatalf("open database %s: %v", path, err)
	}
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		log.Fatalf("set dialect: %v", err)
	}

	if err := cmd.run(db, "."); err != nil {
		log.Fatalf("%s: %v", args[0], err)
	}
}

// resolvePath takes the database from the bot's own config so both binaries
// agree on the location. A config using the file driver falls back to the
// conventional database path.
func resolvePath(cfgPath string) string {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.State.Driver == config.DriverSQLite {
		return cfg.State.Path
	}
	return "./data/arxivbot.db"
}

func usage() {
	out := flag.CommandLine.Output()
	_, _ = fmt.Fprintln(out, "Usage: migrate [-db path] [-config path] <command>")
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "Commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, _ = fmt.Fprintf(out, "  %-10s %s\n", name, commands[name].help)
	}
	_, _ = fmt.Fprintln(out)
	flag.PrintDefaults()
}
