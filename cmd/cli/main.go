// Command webscan crawls a target site and probes every discovered
// endpoint for common web vulnerabilities.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/webscan/webscan/pkg/config"
	"github.com/webscan/webscan/pkg/defaults"
	"github.com/webscan/webscan/pkg/finding"
	"github.com/webscan/webscan/pkg/output"
	"github.com/webscan/webscan/pkg/scanner"
	"github.com/webscan/webscan/pkg/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		targetURL    = flag.String("url", "", "Target URL to scan (required)")
		depth        = flag.Int("depth", defaults.CrawlDepth, "Maximum crawl depth")
		threads      = flag.Int("threads", defaults.Threads, "Number of concurrent probe workers")
		delay        = flag.Duration("delay", defaults.RequestDelay, "Delay before each request")
		timeout      = flag.Duration("timeout", defaults.RequestTimeout, "Per-request timeout")
		rps          = flag.Float64("rps", 0, "Cap aggregate requests per second (0 = no cap)")
		cookie       = flag.String("cookie", "", "Cookie string sent with every request (name=value; ...)")
		proxy        = flag.String("proxy", "", "Proxy URL for all requests")
		sameHost     = flag.Bool("same-host", false, "Restrict crawling to the target host")
		randomAgent  = flag.Bool("random-agent", false, "Identify as a random browser User-Agent")
		ignoreRobots = flag.Bool("ignore-robots", false, "Do not fetch or honor robots.txt")
		outFile      = flag.String("output", "", "Write results to file instead of stdout")
		format       = flag.String("format", "json", "Output format: json or csv")
		configPath   = flag.String("config", "", "Scan config file (YAML or JSON); flags override it")
		quiet        = flag.Bool("quiet", false, "Suppress banner and progress output")
		debug        = flag.Bool("debug", false, "Enable debug logging")
		showVersion  = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("webscan " + ui.Version)
		return 0
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "webscan:", err)
			return 1
		}
		cfg = loaded
	}

	// Explicitly set flags win over the config file.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["url"] || cfg.Target == "" {
		cfg.Target = *targetURL
	}
	if set["depth"] {
		cfg.Depth = *depth
	}
	if set["threads"] {
		cfg.Threads = *threads
	}
	if set["delay"] {
		cfg.Delay = config.Duration(*delay)
	}
	if set["timeout"] {
		cfg.Timeout = config.Duration(*timeout)
	}
	if set["same-host"] {
		cfg.SameHost = *sameHost
	}
	if set["ignore-robots"] {
		cfg.IgnoreRobots = *ignoreRobots
	}
	if set["cookie"] {
		cfg.Cookies = *cookie
	}
	if set["proxy"] {
		cfg.Proxy = *proxy
	}
	if set["output"] {
		cfg.Output = *outFile
	}
	if set["format"] {
		cfg.Format = *format
	}

	ui.SetQuiet(*quiet)
	ui.SetDebug(*debug)
	if ui.IsDebug() {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if cfg.Target == "" {
		fmt.Fprintln(os.Stderr, "webscan: -url is required")
		flag.Usage()
		return 2
	}

	userAgent := ""
	if *randomAgent {
		userAgent = ui.RandomBrowserAgent()
	}

	s, err := scanner.New(scanner.Config{
		Target:       cfg.Target,
		UserAgent:    userAgent,
		Depth:        cfg.Depth,
		Threads:      cfg.Threads,
		Delay:        cfg.Delay.STD(),
		Timeout:      cfg.Timeout.STD(),
		RPS:          *rps,
		SameHost:     cfg.SameHost,
		IgnoreRobots: cfg.IgnoreRobots,
		Cookies:      cfg.Cookies,
		Proxy:        cfg.Proxy,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "webscan:", err)
		return 2
	}

	ui.Banner(cfg.Target)
	ui.Debugf("depth=%d threads=%d delay=%s timeout=%s", cfg.Depth, cfg.Threads, cfg.Delay.STD(), cfg.Timeout.STD())

	// Ctrl-C cancels the scan; partial results are still reported.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	result, err := s.Run(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "webscan:", err)
		return 1
	}

	if result.Interrupted {
		ui.Infof("scan interrupted, reporting partial results")
	}
	printSummary(result, time.Since(start))

	if cfg.Output != "" {
		if err := output.WriteFile(cfg.Output, result, cfg.Format); err != nil {
			fmt.Fprintln(os.Stderr, "webscan:", err)
			return 1
		}
		ui.Infof("results written to %s", cfg.Output)
		return 0
	}
	if err := output.Write(os.Stdout, result, cfg.Format); err != nil {
		fmt.Fprintln(os.Stderr, "webscan:", err)
		return 1
	}
	return 0
}

func printSummary(result *finding.ScanResult, elapsed time.Duration) {
	if ui.IsQuiet() {
		return
	}

	ui.Infof("%d endpoints, %d findings in %s",
		len(result.Endpoints), len(result.Findings), elapsed.Round(time.Millisecond))

	for _, tech := range result.Technologies {
		ui.Infof("  tech: %s (%s)", tech.Name, tech.Category)
	}

	bySeverity := map[finding.Severity]int{}
	for _, f := range result.Findings {
		bySeverity[f.Severity]++
	}
	severities := make([]finding.Severity, 0, len(bySeverity))
	for sev := range bySeverity {
		severities = append(severities, sev)
	}
	sort.Slice(severities, func(i, j int) bool {
		return severities[i].Score() > severities[j].Score()
	})
	for _, sev := range severities {
		fmt.Fprintf(os.Stderr, "  %s %d\n", ui.SeverityBadge(sev), bySeverity[sev])
	}
	for _, f := range result.Findings {
		fmt.Fprintf(os.Stderr, "  %s %s %s\n",
			ui.SeverityBadge(f.Severity), f.Type, ui.URLStyle.Render(f.URL))
	}
}
