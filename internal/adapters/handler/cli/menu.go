package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/comitanigiacomo/habits/internal/core/domain"
	"github.com/comitanigiacomo/habits/internal/core/services"
)

// HabitTracker is the subset of the tracker the menu drives.
type HabitTracker interface {
	Add(ctx context.Context, name string, target int) (*domain.Habit, error)
	MarkComplete(ctx context.Context, index int) (services.CompletionResult, error)
	Delete(ctx context.Context, index int) (string, error)
	Filter(kind domain.FilterKind) []domain.IndexedHabit
	AggregateStats() domain.AggregateStats
	Profile() domain.ProfileSummary
	SeedDemo(ctx context.Context) error
	Len() int
	Now() time.Time
}

// SyncWriter serializes writes so reminder output from the worker goroutine
// never interleaves with a menu block.
type SyncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewSyncWriter(w io.Writer) *SyncWriter {
	return &SyncWriter{w: w}
}

func (s *SyncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Printf writes one formatted block atomically.
func (s *SyncWriter) Printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format, args...)
}

// Block renders fn's output into a buffer and writes it with a single Write.
func (s *SyncWriter) Block(fn func(w io.Writer)) {
	var b strings.Builder
	fn(&b)
	_, _ = s.Write([]byte(b.String()))
}

type Menu struct {
	tracker HabitTracker
	in      *bufio.Scanner
	out     *SyncWriter
	logger  *slog.Logger

	readerOnce sync.Once
	lines      chan string
	done       chan struct{}
}

func NewMenu(tracker HabitTracker, in io.Reader, out *SyncWriter, logger *slog.Logger) *Menu {
	if logger == nil {
		logger = slog.Default()
	}

	return &Menu{
		tracker: tracker,
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logger,
		lines:   make(chan string),
		done:    make(chan struct{}),
	}
}

// Notify prints a reminder for name. It is safe to call from any goroutine.
func (m *Menu) Notify(name string) {
	m.out.Block(func(w io.Writer) { RenderReminder(w, name) })
}

// Run drives the prompt loop until the user exits, input ends or ctx is done.
func (m *Menu) Run(ctx context.Context) error {
	defer m.stopReader()

	if err := ctx.Err(); err != nil {
		return nil
	}

	if m.tracker.Len() == 0 {
		if err := m.offerDemo(ctx); err != nil {
			return err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		m.out.Block(printMenu)
		choice, ok := m.prompt(ctx, "Choose a menu option: ")
		if !ok {
			m.logger.Debug("input closed, leaving menu")
			return nil
		}

		if m.dispatch(ctx, choice) {
			m.out.Block(func(w io.Writer) {
				fmt.Fprintf(w, "\n%s\nThanks for using Habit Tracker!\nYour data has been saved automatically.\n%s\n\n", rule, rule)
			})
			return nil
		}
	}
}

func printMenu(w io.Writer) {
	header(w, "HABIT TRACKER - MAIN MENU")
	fmt.Fprintln(w, "1. View Profile")
	fmt.Fprintln(w, "2. View All Habits")
	fmt.Fprintln(w, "3. View Active Habits")
	fmt.Fprintln(w, "4. View Completed Habits")
	fmt.Fprintln(w, "5. Add New Habit")
	fmt.Fprintln(w, "6. Mark Habit Complete")
	fmt.Fprintln(w, "7. Delete Habit")
	fmt.Fprintln(w, "8. View Statistics")
	fmt.Fprintln(w, "0. Exit")
	fmt.Fprintln(w, rule)
}

// dispatch runs one menu choice and reports whether the user asked to exit.
func (m *Menu) dispatch(ctx context.Context, choice string) bool {
	switch choice {
	case "1":
		m.out.Block(func(w io.Writer) { RenderProfile(w, m.tracker.Profile()) })
	case "2":
		m.showHabits("ALL HABITS", domain.FilterAll)
	case "3":
		m.showHabits("ACTIVE HABITS", domain.FilterActive)
	case "4":
		m.showHabits("COMPLETED HABITS", domain.FilterCompleted)
	case "5":
		m.addHabit(ctx)
	case "6":
		m.markComplete(ctx)
	case "7":
		m.deleteHabit(ctx)
	case "8":
		m.out.Block(func(w io.Writer) { RenderStats(w, m.tracker.AggregateStats()) })
	case "0":
		return true
	default:
		m.reject("Invalid choice! Please choose 0-8.")
	}
	return false
}

func (m *Menu) showHabits(title string, kind domain.FilterKind) {
	items := m.tracker.Filter(kind)
	ref := m.tracker.Now()
	m.out.Block(func(w io.Writer) { RenderHabits(w, title, items, ref) })
}

func (m *Menu) addHabit(ctx context.Context) {
	m.out.Printf("\n--- ADD NEW HABIT ---\n")

	name, ok := m.prompt(ctx, "Habit name: ")
	if !ok {
		return
	}
	rawTarget, ok := m.prompt(ctx, "Target per week (1-7): ")
	if !ok {
		return
	}

	target, err := strconv.Atoi(rawTarget)
	if err != nil || target < domain.MinTargetFrequency || target > domain.MaxTargetFrequency {
		m.reject(targetRangeMessage)
		return
	}

	habit, err := m.tracker.Add(ctx, name, target)
	if err != nil {
		m.reject(Rejection(err))
		return
	}
	m.accept(fmt.Sprintf("Habit %q added!", habit.Name))
}

func (m *Menu) markComplete(ctx context.Context) {
	if !m.showAllBeforePick() {
		return
	}

	index, ok := m.promptIndex(ctx, "Habit number to mark complete: ")
	if !ok {
		return
	}

	res, err := m.tracker.MarkComplete(ctx, index)
	if err != nil {
		m.reject(Rejection(err))
		return
	}
	m.reportCompletion(res)
}

func (m *Menu) deleteHabit(ctx context.Context) {
	if !m.showAllBeforePick() {
		return
	}

	index, ok := m.promptIndex(ctx, "Habit number to delete: ")
	if !ok {
		return
	}

	name, err := m.tracker.Delete(ctx, index)
	if err != nil {
		m.reject(Rejection(err))
		return
	}
	m.accept(fmt.Sprintf("Habit %q deleted.", name))
}

func (m *Menu) reportCompletion(res services.CompletionResult) {
	if res.Newly() {
		m.accept(fmt.Sprintf("Habit %q completed for today!", res.Name))
		return
	}
	m.reject(fmt.Sprintf("Habit %q was already completed today.", res.Name))
}

func (m *Menu) offerDemo(ctx context.Context) error {
	answer, ok := m.prompt(ctx, "No habits yet. Load demo data? (y/n): ")
	if !ok || !strings.EqualFold(answer, "y") {
		return nil
	}

	if err := m.tracker.SeedDemo(ctx); err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}
	m.out.Printf("\n[INFO] Demo data loaded.\n")
	return nil
}

// showAllBeforePick lists every habit so the user can see the numbers, and
// reports false when there is nothing to pick from.
func (m *Menu) showAllBeforePick() bool {
	m.showHabits("ALL HABITS", domain.FilterAll)
	return m.tracker.Len() > 0
}

func (m *Menu) promptIndex(ctx context.Context, label string) (int, bool) {
	raw, ok := m.prompt(ctx, label)
	if !ok {
		return 0, false
	}

	index, err := strconv.Atoi(raw)
	if err != nil {
		m.reject("Please enter a habit number.")
		return 0, false
	}
	return index, true
}

// prompt prints label and waits for one trimmed line. It reports false at
// end of input or when ctx is done, so a pending read never holds up shutdown.
func (m *Menu) prompt(ctx context.Context, label string) (string, bool) {
	m.readerOnce.Do(func() { go m.readLines() })
	m.out.Printf("%s", label)

	select {
	case line, ok := <-m.lines:
		return line, ok
	case <-ctx.Done():
		m.logger.Debug("prompt cancelled", "error", ctx.Err())
		return "", false
	}
}

// readLines feeds input lines to prompt until end of input or until the menu
// stops. It may stay blocked in Scan after Run returns; that only happens when
// the process is shutting down.
func (m *Menu) readLines() {
	defer close(m.lines)

	for m.in.Scan() {
		select {
		case m.lines <- strings.TrimSpace(m.in.Text()):
		case <-m.done:
			return
		}
	}
	if err := m.in.Err(); err != nil {
		m.logger.Error("failed to read input", "error", err)
	}
}

func (m *Menu) stopReader() {
	select {
	case <-m.done:
	default:
		close(m.done)
	}
}

func (m *Menu) accept(msg string) {
	m.out.Printf("\n✓ %s\n\n", msg)
}

func (m *Menu) reject(msg string) {
	m.out.Printf("\n✗ %s\n\n", msg)
}
