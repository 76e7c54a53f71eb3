package booking

import (
	"fmt"
	"medibook-service/internal/pkg/core_dto"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// NormalizeMedicalHistory reconciles every stored-history shape the upstream
// emits into structured entries plus the stored-history text kept for later
// merging. A plain string is first tried as encoded JSON; if that fails it is
// legacy free text and returned verbatim with no structured entries. A single
// object is wrapped as a one-entry list.
func NormalizeMedicalHistory(raw json.RawMessage) ([]core_dto.MedicalHistoryEntry, string) {
	if len(raw) == 0 {
		return nil, ""
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		trimmed := strings.TrimSpace(asString)
		if trimmed == "" {
			return nil, ""
		}
		if entries, ok := decodeHistoryEntries([]byte(trimmed)); ok {
			entries = SortHistoryEntries(entries)
			return entries, RenderMedicalHistory(entries)
		}
		// Legacy unstructured text is kept as-is.
		return nil, trimmed
	}

	if entries, ok := decodeHistoryEntries(raw); ok {
		entries = SortHistoryEntries(entries)
		return entries, RenderMedicalHistory(entries)
	}

	return nil, ""
}

func decodeHistoryEntries(data []byte) ([]core_dto.MedicalHistoryEntry, bool) {
	var list []core_dto.MedicalHistoryEntry
	if err := json.Unmarshal(data, &list); err == nil {
		return normalizeEntries(list), true
	}

	var single core_dto.MedicalHistoryEntry
	if err := json.Unmarshal(data, &single); err == nil && single.Condition != "" {
		return normalizeEntries([]core_dto.MedicalHistoryEntry{single}), true
	}

	return nil, false
}

func normalizeEntries(entries []core_dto.MedicalHistoryEntry) []core_dto.MedicalHistoryEntry {
	normalized := make([]core_dto.MedicalHistoryEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Medications == nil {
			entry.Medications = []string{}
		}
		normalized = append(normalized, entry)
	}
	return normalized
}

// SortHistoryEntries orders entries newest first. An entry without a date is
// always treated as older than a dated one; placement is stable.
func SortHistoryEntries(entries []core_dto.MedicalHistoryEntry) []core_dto.MedicalHistoryEntry {
	sorted := make([]core_dto.MedicalHistoryEntry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		di, okI := parseHistoryDate(sorted[i].Date)
		dj, okJ := parseHistoryDate(sorted[j].Date)
		if okI && okJ {
			return di.After(dj)
		}
		return okI && !okJ
	})
	return sorted
}

// RenderMedicalHistory produces the plain-text form retained as stored
// history, one block per entry separated by a blank line.
func RenderMedicalHistory(entries []core_dto.MedicalHistoryEntry) string {
	blocks := make([]string, 0, len(entries))
	for _, entry := range entries {
		var lines []string
		lines = append(lines, "Condition: "+entry.Condition)
		if entry.Date != "" {
			lines = append(lines, "Date: "+formatHistoryDate(entry.Date))
		}
		if len(entry.Medications) > 0 {
			lines = append(lines, "Medications: "+strings.Join(entry.Medications, ", "))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// MergeMedicalHistory combines previously stored history text with newly
// entered free text. Merging with empty new text returns the stored text
// unchanged apart from end trimming.
func MergeMedicalHistory(storedHistoryText, newFreeText string) string {
	stored := strings.TrimSpace(storedHistoryText)
	entered := strings.TrimSpace(newFreeText)

	switch {
	case stored == "" && entered == "":
		return ""
	case stored == "":
		return entered
	case entered == "":
		return stored
	default:
		return stored + "\n\n" + entered
	}
}

var historyDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02",
	"2006/01/02",
}

func parseHistoryDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range historyDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// formatHistoryDate renders a date as m/d/yyyy; values that do not parse are
// shown verbatim.
func formatHistoryDate(value string) string {
	parsed, ok := parseHistoryDate(value)
	if !ok {
		return value
	}
	return fmt.Sprintf("%d/%d/%d", int(parsed.Month()), parsed.Day(), parsed.Year())
}
