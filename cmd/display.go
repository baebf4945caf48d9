package cmd

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ANSI colors for terminal output
const (
	ColorReset  = "\033[0m"
	ColorBold   = "\033[1m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
)

var titleCaser = cases.Title(language.English)

// PerformanceTimer records named event durations for command summaries
type PerformanceTimer struct {
	mu      sync.Mutex
	start   time.Time
	started map[string]time.Time
	events  map[string]time.Duration
}

// NewPerformanceTimer creates a timer whose total duration starts now
func NewPerformanceTimer() *PerformanceTimer {
	return &PerformanceTimer{
		start:   time.Now(),
		started: make(map[string]time.Time),
		events:  make(map[string]time.Duration),
	}
}

// StartEvent marks the beginning of a named event
func (pt *PerformanceTimer) StartEvent(name string) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.started[name] = time.Now()
}

// EndEvent records the elapsed time of a started event
func (pt *PerformanceTimer) EndEvent(name string) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if start, ok := pt.started[name]; ok {
		pt.events[name] = time.Since(start)
		delete(pt.started, name)
	}
}

// GetDuration returns the recorded duration of an event, or zero
func (pt *PerformanceTimer) GetDuration(name string) time.Duration {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.events[name]
}

// GetTotalDuration returns the time since the timer was created
func (pt *PerformanceTimer) GetTotalDuration() time.Duration {
	return time.Since(pt.start)
}

func printHeader(title, subject string) {
	fmt.Printf("%s%s%s%s: %s%s%s\n", ColorBold, ColorBlue, title, ColorReset, ColorCyan, subject, ColorReset)
	fmt.Printf("%s%s%s\n\n", ColorBlue, strings.Repeat("═", 80), ColorReset)
}

func printStep(num int, title string) {
	fmt.Printf("%s%s%d%s %s%s%s\n", ColorBold, ColorPurple, num, ColorReset, ColorWhite, title, ColorReset)
}

func printSectionHeader(title string) {
	fmt.Printf("%s%s%s%s\n", ColorBold, ColorBlue, title, ColorReset)
}

func printSuccess(format string, args ...any) {
	fmt.Printf("   %s✓%s %s\n", ColorGreen, ColorReset, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Printf("   %s⚠%s %s\n", ColorYellow, ColorReset, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Printf("   %s✗%s %s\n", ColorRed, ColorReset, fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	fmt.Printf("   %s•%s %s\n", ColorCyan, ColorReset, fmt.Sprintf(format, args...))
}

func printResult(name string, success bool) {
	if success {
		fmt.Printf("%-20s %s✓ PASS%s\n", name+":", ColorGreen, ColorReset)
	} else {
		fmt.Printf("%-20s %s✗ FAIL%s\n", name+":", ColorRed, ColorReset)
	}
}

// displayPerformanceSummary prints the durations of the named events that ran
func displayPerformanceSummary(timer *PerformanceTimer, events ...string) {
	printInfo("Performance Breakdown:")
	for _, event := range events {
		duration := timer.GetDuration(event)
		if duration > 0 {
			fmt.Printf("      %s: %v\n", titleCaser.String(strings.ReplaceAll(event, "_", " ")), duration)
		}
	}
}
