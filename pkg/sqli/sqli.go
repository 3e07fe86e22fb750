// Package sqli detects SQL injection through two oracles: database error
// signatures leaking into the response body, and response delays induced
// by sleep/benchmark payloads.
package sqli

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/webscan/webscan/pkg/defaults"
	"github.com/webscan/webscan/pkg/finding"
	"github.com/webscan/webscan/pkg/iohelper"
	"github.com/webscan/webscan/pkg/mutation"
	"github.com/webscan/webscan/pkg/probe"
	"github.com/webscan/webscan/pkg/regexcache"
	"github.com/webscan/webscan/pkg/session"
)

// Dialect labels the database engine an error signature belongs to.
type Dialect string

const (
	DialectMySQL      Dialect = "mysql"
	DialectPostgreSQL Dialect = "postgresql"
	DialectMSSQL      Dialect = "mssql"
	DialectOracle     Dialect = "oracle"
	DialectSQLite     Dialect = "sqlite"
	DialectGeneric    Dialect = "generic"
)

// errorPayloads provoke syntax errors and tautology behavior.
var errorPayloads = []string{
	"' OR '1'='1",
	`" OR "1"="1`,
	"' OR 1=1--",
	`" OR 1=1--`,
	"' OR 1=1#",
	"' UNION SELECT NULL--",
	"' UNION SELECT NULL,NULL--",
	"') OR ('1'='1",
	`") OR ("1"="1`,
}

// timePayloads induce a measurable server-side delay when they execute.
var timePayloads = []string{
	"' AND SLEEP(5)--",
	`" AND SLEEP(5)--`,
	"' OR SLEEP(5)--",
	"' AND SLEEP(5)#",
	"' AND (SELECT * FROM (SELECT(SLEEP(5)))a)--",
	"' AND BENCHMARK(10000000,SHA1(1))--",
	"'; SELECT pg_sleep(5)--",
	"';WAITFOR DELAY '0:0:5'--",
}

// errorSignatures map database error text to the dialect that produced it.
var errorSignatures = []struct {
	dialect Dialect
	pattern *regexp.Regexp
}{
	{DialectMySQL, regexcache.MustGet(`(?i)SQL syntax.*MySQL`)},
	{DialectMySQL, regexcache.MustGet(`(?i)Warning.*mysqli?_`)},
	{DialectMySQL, regexcache.MustGet(`(?i)valid MySQL result`)},
	{DialectMySQL, regexcache.MustGet(`(?i)MySqlClient\.`)},
	{DialectMySQL, regexcache.MustGet(`(?i)You have an error in your SQL syntax`)},
	{DialectPostgreSQL, regexcache.MustGet(`(?i)PostgreSQL.*ERROR`)},
	{DialectPostgreSQL, regexcache.MustGet(`(?i)PG::SyntaxError`)},
	{DialectPostgreSQL, regexcache.MustGet(`(?i)org\.postgresql\.util\.PSQLException`)},
	{DialectMSSQL, regexcache.MustGet(`(?i)SQLServer JDBC Driver`)},
	{DialectMSSQL, regexcache.MustGet(`(?i)Unclosed quotation mark after`)},
	{DialectMSSQL, regexcache.MustGet(`(?i)Msg \d+, Level \d+, State \d+`)},
	{DialectOracle, regexcache.MustGet(`(?i)\bORA-[0-9]{4,}`)},
	{DialectOracle, regexcache.MustGet(`(?i)Oracle error`)},
	{DialectSQLite, regexcache.MustGet(`(?i)SQLite error`)},
	{DialectSQLite, regexcache.MustGet(`(?i)SQLite.*Exception`)},
	{DialectSQLite, regexcache.MustGet(`(?i)System\.Data\.SQLite\.SQLiteException`)},
	{DialectGeneric, regexcache.MustGet(`(?i)org\.hibernate\.QueryException`)},
	{DialectGeneric, regexcache.MustGet(`(?i)java\.sql\.SQLException`)},
	{DialectGeneric, regexcache.MustGet(`(?i)syntax error`)},
}

// quick keywords gate the regex pass; most responses contain none of them.
var sqlKeywords = []string{"sql", "syntax", "mysql", "postgres", "ora-", "sqlite", "odbc", "jdbc", "hibernate", "quotation"}

// Config tunes the checker. Zero values use scanner defaults.
type Config struct {
	// TimeThreshold is the minimum round-trip time the timing oracle
	// accepts as evidence of an injected delay.
	TimeThreshold time.Duration

	// MaxPayloads caps payloads tried per input point (0 = all).
	MaxPayloads int
}

// Checker is the SQL injection probe.
type Checker struct {
	cfg     Config
	mutator *mutation.Engine
}

// New creates a SQL injection checker using the given mutation engine.
func New(mutator *mutation.Engine, cfg Config) *Checker {
	if cfg.TimeThreshold <= 0 {
		cfg.TimeThreshold = defaults.TimeThreshold
	}
	return &Checker{cfg: cfg, mutator: mutator}
}

// Name implements probe.Probe.
func (c *Checker) Name() string { return "SQL Injection" }

// Check tests every query parameter of endpoint, stopping at the first
// confirmed injection.
func (c *Checker) Check(ctx context.Context, s *session.Session, endpoint string) (*finding.Finding, bool) {
	for _, point := range probe.QueryPoints(endpoint) {
		if f, ok := c.checkErrorBased(ctx, s, endpoint, point); ok {
			return f, true
		}
		if f, ok := c.checkTimeBased(ctx, s, endpoint, point); ok {
			return f, true
		}
	}
	return nil, false
}

func (c *Checker) checkErrorBased(ctx context.Context, s *session.Session, endpoint string, point probe.InputPoint) (*finding.Finding, bool) {
	for i, payload := range errorPayloads {
		if c.cfg.MaxPayloads > 0 && i >= c.cfg.MaxPayloads {
			break
		}
		for _, variant := range c.mutator.Variants(payload) {
			if ctx.Err() != nil {
				return nil, false
			}
			resp, _, err := probe.Send(ctx, s, point, variant)
			if err != nil {
				continue
			}
			body, _ := iohelper.ReadBodyDefault(resp.Body)
			iohelper.DrainAndClose(resp.Body)
			if resp.StatusCode >= 400 {
				continue
			}
			if dialect, evidence, ok := matchError(string(body)); ok {
				return &finding.Finding{
					Type:     "SQL Injection",
					Severity: finding.Critical,
					URL:      endpoint,
					Evidence: fmt.Sprintf("error-based SQL injection (%s) in parameter %s: %s", dialect, point.Name, evidence),
					Description: "SQL injection allows attackers to manipulate database queries through user input. " +
						"The response leaked a database error when a crafted value was injected.",
				}, true
			}
		}
	}
	return nil, false
}

func (c *Checker) checkTimeBased(ctx context.Context, s *session.Session, endpoint string, point probe.InputPoint) (*finding.Finding, bool) {
	for i, payload := range timePayloads {
		if c.cfg.MaxPayloads > 0 && i >= c.cfg.MaxPayloads {
			break
		}
		for _, variant := range c.mutator.Variants(payload) {
			if ctx.Err() != nil {
				return nil, false
			}
			resp, rtt, err := probe.Send(ctx, s, point, variant)
			if err != nil {
				continue
			}
			iohelper.DrainAndClose(resp.Body)
			// One slow success is accepted as evidence; recall over
			// precision.
			if resp.StatusCode < 400 && rtt >= c.cfg.TimeThreshold {
				return &finding.Finding{
					Type:     "SQL Injection",
					Severity: finding.Critical,
					URL:      endpoint,
					Evidence: fmt.Sprintf("time-based SQL injection in parameter: %s (response delayed %v)", point.Name, rtt.Round(time.Millisecond)),
					Description: "Time-based blind SQL injection allows attackers to extract data by steering " +
						"query execution time with injected sleep expressions.",
				}, true
			}
		}
	}
	return nil, false
}

// matchError scans body for database error signatures, returning the
// dialect and surrounding evidence on a match.
func matchError(body string) (Dialect, string, bool) {
	lower := strings.ToLower(body)
	gated := false
	for _, kw := range sqlKeywords {
		if strings.Contains(lower, kw) {
			gated = true
			break
		}
	}
	if !gated {
		return "", "", false
	}

	for _, sig := range errorSignatures {
		if loc := sig.pattern.FindStringIndex(body); loc != nil {
			start := max(loc[0]-40, 0)
			end := min(loc[1]+40, len(body))
			return sig.dialect, strings.TrimSpace(body[start:end]), true
		}
	}
	return "", "", false
}
