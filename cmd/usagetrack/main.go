package main

import (
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/actionsum/usagetrack/internal/config"
	"github.com/actionsum/usagetrack/internal/console"
	"github.com/actionsum/usagetrack/internal/reporter"
	"github.com/actionsum/usagetrack/internal/tracker"
	"github.com/actionsum/usagetrack/pkg/detector"
)

var (
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)

const appName = "usagetrack"

type options struct {
	configPath   string
	intervalMs   int
	maxIntervals int
	unbounded    bool
	queryTimeout time.Duration
	logFile      string
	headless     bool
	yes          bool
	showVersion  bool
	help         bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	opts := &options{}
	fs.StringVarP(&opts.configPath, "config", "c", "", "Path to config file")
	fs.IntVarP(&opts.intervalMs, "interval-ms", "i", 0, "Poll interval in milliseconds")
	fs.IntVarP(&opts.maxIntervals, "max-intervals", "n", 0, "Maximum number of stored intervals")
	fs.BoolVar(&opts.unbounded, "unbounded", false, "Keep every interval")
	fs.DurationVar(&opts.queryTimeout, "query-timeout", 0, "Deadline for one window query")
	fs.StringVar(&opts.logFile, "log-file", "", "Write logs to this file in interactive mode")
	fs.BoolVar(&opts.headless, "headless", false, "Log changes instead of drawing the table")
	fs.BoolVarP(&opts.yes, "yes", "y", false, "Start tracking without waiting for ENTER")
	fs.BoolVarP(&opts.showVersion, "version", "v", false, "Show version information")
	fs.BoolVarP(&opts.help, "help", "h", false, "Show this help message")
	fs.Usage = printUsage

	// pflag reports parse errors and prints usage itself.
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if opts.help {
		printUsage()
		return 0
	}
	if opts.showVersion {
		fmt.Printf("%s version %s\n", appName, version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}
	if err := applyFlags(cfg, fs, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 1
	}
	loc, err := cfg.Location()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	det, err := detector.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize window detector: %v\n", err)
		return 1
	}
	defer det.Close()

	poller := tracker.NewPoller(det, tracker.New(cfg.Tracker.MaxIntervals), cfg.Tracker.QueryTimeout)
	rep := reporter.New(loc)

	if opts.headless || !console.Interactive() {
		err = runHeadless(cfg, det, poller, rep)
	} else {
		err = runInteractive(cfg, det, poller, rep, opts.yes)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// applyFlags overrides file and environment settings with explicit flags.
func applyFlags(cfg *config.Config, fs *flag.FlagSet, opts *options) error {
	if fs.Changed("interval-ms") {
		if err := cfg.SetPollInterval(time.Duration(opts.intervalMs) * time.Millisecond); err != nil {
			return err
		}
	}
	if fs.Changed("max-intervals") {
		if err := cfg.SetMaxIntervals(opts.maxIntervals); err != nil {
			return err
		}
	}
	if opts.unbounded {
		cfg.Tracker.MaxIntervals = 0
	}
	if fs.Changed("query-timeout") {
		cfg.Tracker.QueryTimeout = opts.queryTimeout
	}
	if fs.Changed("log-file") {
		cfg.Log.File = opts.logFile
	}
	return nil
}

func printUsage() {
	fmt.Printf(`%[1]s - Foreground window usage tracker

Records when the foreground window or its title changes and shows the
intervals as a table.

Usage:
  %[1]s [options]

Options:
  -c, --config PATH         Config file (default $XDG_CONFIG_HOME/usagetrack/config.yaml)
  -i, --interval-ms N       Poll interval in milliseconds (default 500)
  -n, --max-intervals N     Keep at most N intervals, dropping the oldest (default 20000)
      --unbounded           Keep every interval
      --query-timeout D     Deadline for one window query (default 2s)
      --log-file PATH       Write logs to PATH in interactive mode
      --headless            Log changes to stderr instead of drawing the table
  -y, --yes                 Start tracking without waiting for ENTER
  -v, --version             Show version information
  -h, --help                Show this help message

Keys:
  ENTER                     Start tracking
  q                         Stop tracking

Environment Variables:
  USAGETRACK_CONFIG          Config file path
  USAGETRACK_POLL_INTERVAL   Poll interval in milliseconds (50-60000)
  USAGETRACK_MAX_INTERVALS   Maximum stored intervals (0 = unbounded)
  USAGETRACK_QUERY_TIMEOUT   Query deadline (e.g. 2s)
  USAGETRACK_TIMEZONE        Time zone for displayed times (default Local)
  USAGETRACK_LOG_FILE        Log file for interactive mode

Version: %[2]s
`, appName, version)
}
