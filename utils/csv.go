// utils/csv.go
package utils

import (
	"encoding/csv"
	"regexp"
	"strings"
)

var titleSuffixRegex = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// ParseCSV parses comma- or tab-delimited text with a header row into one
// map per data row. The delimiter is sniffed from the first line (tab wins
// when present), quoted fields with doubled internal quotes are handled, and
// rows that are entirely empty are skipped.
func ParseCSV(text string) []map[string]string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var kept []string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	delimiter := ','
	if strings.Contains(kept[0], "\t") {
		delimiter = '\t'
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(kept, "\n")))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil || len(records) == 0 {
		return nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	var rows []map[string]string
	for _, record := range records[1:] {
		empty := true
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			value := ""
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			if value != "" {
				empty = false
			}
			row[header] = value
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows
}

// NormalizeHeader strips all whitespace and parentheses and lowercases, so
// externally sourced headers like "참석자 성함(직위)" and "참석자성함직위"
// compare equal.
func NormalizeHeader(header string) string {
	h := strings.TrimSpace(header)
	h = strings.NewReplacer(" ", "", "\t", "", "(", "", ")", "").Replace(h)
	return strings.ToLower(h)
}

var keywordSplitRegex = regexp.MustCompile(`[^가-힣a-z0-9]+`)

// FindField locates a value in a parsed row by trying each pattern through a
// prioritized matcher pipeline: exact header → normalized header → substring
// → keyword set. The first hit wins; a miss returns "". The fallback chain
// exists because the input sheets are externally maintained and the headers
// drift between Korean/English and spacing variants.
func FindField(row map[string]string, patterns ...string) string {
	for _, pattern := range patterns {
		if v, ok := row[pattern]; ok && v != "" {
			return strings.TrimSpace(v)
		}
	}

	normalized := make(map[string]string, len(row))
	for key, value := range row {
		normalized[NormalizeHeader(key)] = value
	}

	for _, pattern := range patterns {
		if v, ok := normalized[NormalizeHeader(pattern)]; ok && v != "" {
			return strings.TrimSpace(v)
		}
	}

	for _, pattern := range patterns {
		np := NormalizeHeader(pattern)
		for key, value := range normalized {
			if value == "" {
				continue
			}
			if strings.Contains(key, np) || strings.Contains(np, key) {
				return strings.TrimSpace(value)
			}
		}
	}

	for _, pattern := range patterns {
		keywords := splitKeywords(NormalizeHeader(pattern))
		if len(keywords) == 0 {
			continue
		}
		for key, value := range normalized {
			if value == "" {
				continue
			}
			all := true
			for _, kw := range keywords {
				if !strings.Contains(key, kw) {
					all = false
					break
				}
			}
			if all {
				return strings.TrimSpace(value)
			}
		}
	}

	return ""
}

func splitKeywords(s string) []string {
	var keywords []string
	for _, kw := range keywordSplitRegex.Split(s, -1) {
		if len([]rune(kw)) > 1 {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// StripTitleSuffix drops a trailing parenthetical from a person's name,
// e.g. "홍길동(대표)" -> "홍길동".
func StripTitleSuffix(name string) string {
	return strings.TrimSpace(titleSuffixRegex.ReplaceAllString(name, ""))
}
