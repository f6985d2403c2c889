package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/EasterCompany/package-builder-service/internal/storage"
)

// ListSessions prints every locally stored session.
func ListSessions(ctx context.Context, store *storage.Manager, out io.Writer) error {
	ids, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch session IDs: %w", err)
	}
	if len(ids) == 0 {
		_, _ = fmt.Fprintln(out, "No sessions found")
		return nil
	}

	_, _ = fmt.Fprintf(out, "Total sessions: %d\n\n", len(ids))
	for i, id := range ids {
		rec, err := store.Stored(ctx, id)
		if err != nil {
			_, _ = fmt.Fprintf(out, "%4d. %s  [unreadable: %v]\n", i+1, id, err)
			continue
		}
		_, _ = fmt.Fprintf(out, "%4d. %s  [%s, v%d, %s]\n", i+1, id, rec.Current, rec.Version,
			rec.LastUpdated.Format("2006-01-02 15:04"))
	}
	return nil
}

// DeleteSessions clears every session whose id matches one of the glob
// patterns, after the operator types "yes".
func DeleteSessions(ctx context.Context, store *storage.Manager, patterns []string, in io.Reader, out io.Writer, logger *zap.Logger) (int, error) {
	ids, err := store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch session IDs: %w", err)
	}

	var matching []string
	for _, id := range ids {
		if matchesAnyPattern(id, patterns) {
			matching = append(matching, id)
		}
	}
	if len(matching) == 0 {
		_, _ = fmt.Fprintf(out, "No sessions matched the patterns: %v\n", patterns)
		return 0, nil
	}

	_, _ = fmt.Fprintf(out, "\nWARNING: About to delete %d session(s):\n", len(matching))
	if len(matching) <= 10 {
		for _, id := range matching {
			_, _ = fmt.Fprintf(out, "  - %s\n", id)
		}
	} else {
		for _, id := range matching[:5] {
			_, _ = fmt.Fprintf(out, "  - %s\n", id)
		}
		_, _ = fmt.Fprintf(out, "  ... and %d more\n", len(matching)-5)
	}
	_, _ = fmt.Fprintf(out, "\nThis action CANNOT be undone.\nType 'yes' to confirm deletion: ")

	confirmation, _ := bufio.NewReader(in).ReadString('\n')
	if strings.TrimSpace(confirmation) != "yes" {
		_, _ = fmt.Fprintln(out, "Deletion cancelled")
		return 0, nil
	}

	deleted := 0
	for _, id := range matching {
		if err := store.Clear(ctx, id); err != nil {
			logger.Warn("Error deleting session", zap.String("session", id), zap.Error(err))
			continue
		}
		deleted++
	}
	store.Wait()
	_, _ = fmt.Fprintf(out, "Deleted %d out of %d sessions\n", deleted, len(matching))
	return deleted, nil
}

func matchesAnyPattern(id string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchesPattern(id, pattern) {
			return true
		}
	}
	return false
}

// matchesPattern matches id against a glob where * is any run and ? is one
// character.
func matchesPattern(id, pattern string) bool {
	expr := regexp.QuoteMeta(pattern)
	expr = strings.ReplaceAll(expr, `\*`, ".*")
	expr = strings.ReplaceAll(expr, `\?`, ".")
	matched, err := regexp.MatchString("^"+expr+"$", id)
	return err == nil && matched
}
