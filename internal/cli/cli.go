// Package cli interprets the positional command line arguments: plain
// lookup tokens print monitor descriptions, name=value assignments change
// input sources, and name=v1,v2 assignments toggle between them.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"minput/internal/ddc"
	"minput/internal/monitor"
)

// Options holds the run-scoped settings. They are established once before
// any monitor operation and read-only during the run.
type Options struct {
	// Backend removes monitors whose backend label does not contain this
	// substring before any argument is processed. Empty keeps all.
	Backend string

	// NeedsCapabilities refreshes each visited monitor's capabilities
	// before substring matching. Failures are logged, never fatal.
	NeedsCapabilities bool

	// DryRun logs intended input changes without touching hardware.
	DryRun bool

	Verbose int
}

// CLI executes lookup and assignment arguments against the enumerated
// monitors.
type CLI struct {
	// Monitors is the working list. Indices into it are the numeric
	// indices accepted on the command line.
	Monitors []*monitor.Monitor

	// Out receives the lookup output. Defaults to stdout.
	Out io.Writer

	opts Options
}

// New creates a CLI over an enumerated monitor list.
func New(monitors []*monitor.Monitor, opts Options) *CLI {
	return &CLI{Monitors: monitors, Out: os.Stdout, opts: opts}
}

// setPattern splits an assignment argument on the first "=". The left side
// must be non-empty and free of "="; the right side must be non-empty.
var setPattern = regexp.MustCompile(`^([^=]+)=(.+)$`)

// Run processes the positional arguments in order and settles every monitor
// once at the end. The first fatal error aborts the remaining arguments and
// is returned, after the settle pass.
func (c *CLI) Run(args []string) error {
	start := time.Now()
	c.applyFilters()
	defer func() {
		c.sleepAllIfNeeded()
		slog.Debug("run finished", "elapsed", time.Since(start))
	}()

	if len(args) == 0 {
		return c.printList("")
	}
	for _, arg := range args {
		if captures := setPattern.FindStringSubmatch(arg); captures != nil {
			if err := c.set(captures[1], captures[2]); err != nil {
				return err
			}
			continue
		}
		if err := c.printList(arg); err != nil {
			return err
		}
	}
	return nil
}

// applyFilters narrows the working list by the backend filter.
func (c *CLI) applyFilters() {
	if c.opts.Backend == "" {
		return
	}
	kept := c.Monitors[:0]
	for _, m := range c.Monitors {
		if m.ContainsBackend(c.opts.Backend) {
			kept = append(kept, m)
		}
	}
	c.Monitors = kept
}

// forEach resolves token to monitors and invokes callback on each. A token
// that parses as a non-negative integer indexes the list directly, without
// capability refresh; anything else is a substring match over all monitors,
// where the empty token matches everything. Zero substring matches is an
// error naming the token.
func (c *CLI) forEach(token string, callback func(index int, m *monitor.Monitor) error) error {
	if index, err := strconv.Atoi(token); err == nil && index >= 0 {
		if index >= len(c.Monitors) {
			return fmt.Errorf("monitor index %d out of range, have %d monitors", index, len(c.Monitors))
		}
		return callback(index, c.Monitors[index])
	}

	matched := false
	for index, m := range c.Monitors {
		if c.opts.NeedsCapabilities {
			// Capability data is best-effort; warn and keep looking.
			if err := m.UpdateCapabilities(); err != nil {
				slog.Warn("capability refresh failed", "monitor", m.String(), "error", err)
			}
		}
		if token != "" && !m.Contains(token) {
			continue
		}
		matched = true
		if err := callback(index, m); err != nil {
			return err
		}
	}
	if !matched {
		return fmt.Errorf("no display monitors found for %q", token)
	}
	return nil
}

// computeToggleSetIndex picks the target position in a toggle cycle: the
// position after the current value, or 0 when the current value is not in
// the cycle.
func computeToggleSetIndex(current ddc.InputSource, sources []ddc.InputSource) int {
	for i, source := range sources {
		if source == current {
			return i + 1
		}
	}
	return 0
}

// toggle advances every matched monitor through the cycle given by values.
// The cycle position is resolved once, from the first matched monitor's
// current value, and reused for the rest of the matches of this argument.
func (c *CLI) toggle(token string, values []string) error {
	sources := make([]ddc.InputSource, 0, len(values))
	for _, value := range values {
		source, err := ddc.ParseInputSource(value)
		if err != nil {
			return err
		}
		sources = append(sources, source)
	}

	setIndex := -1
	return c.forEach(token, func(_ int, m *monitor.Monitor) error {
		if setIndex < 0 {
			current, err := m.CurrentInputSource()
			if err != nil {
				// A failed read aborts the argument rather than silently
				// toggling to the first value.
				return err
			}
			setIndex = computeToggleSetIndex(current, sources)
			slog.Debug("toggle position resolved",
				"index", setIndex, "monitor", m.String(), "current", current.String())
		}
		used := setIndex
		if last := len(sources) - 1; used > last {
			used = last
		}
		return m.SetCurrentInputSource(sources[used])
	})
}

// set assigns value to every monitor matched by token. A comma-separated
// value is a toggle cycle.
func (c *CLI) set(token, value string) error {
	if values := strings.Split(value, ","); len(values) > 1 {
		return c.toggle(token, values)
	}
	source, err := ddc.ParseInputSource(value)
	if err != nil {
		return err
	}
	return c.forEach(token, func(_ int, m *monitor.Monitor) error {
		return m.SetCurrentInputSource(source)
	})
}

// printList writes one indexed description block per matched monitor.
func (c *CLI) printList(token string) error {
	return c.forEach(token, func(index int, m *monitor.Monitor) error {
		fmt.Fprintf(c.Out, "%d: %s\n", index, m.LongString())
		return nil
	})
}

// sleepAllIfNeeded settles every monitor that was written to, exactly once,
// after all arguments are done. Batching the delay here means repeated
// writes to one monitor pay it a single time.
func (c *CLI) sleepAllIfNeeded() {
	start := time.Now()
	for _, m := range c.Monitors {
		m.SleepIfNeeded()
	}
	slog.Debug("settle pass finished", "elapsed", time.Since(start))
}
