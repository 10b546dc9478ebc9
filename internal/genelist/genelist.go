// Package genelist loads batches of gene symbols.
package genelist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// DefaultSymbols is the batch used when no gene list is configured.
var DefaultSymbols = []string{"ESPN", "BRAF", "PRR29-AS1", "PRR29", "ICAM2", "BRCA2"}

// hugoColumn is the symbol column of an OncoKB-style cancer gene list.
const hugoColumn = "Hugo Symbol"

// Load reads gene symbols from path.
// A tab-separated file whose header has a "Hugo Symbol" column (such as the
// OncoKB cancerGeneList.tsv) is read by that column; any other file is read
// as one symbol per line. Blank lines and lines starting with '#' are
// skipped, and duplicates keep their first position.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gene list: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	col := -1
	var symbols []string
	first := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if first {
			first = false
			if idx := headerIndex(line); idx >= 0 {
				col = idx
				continue
			}
		}
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		sym := line
		if col >= 0 {
			fields := strings.Split(line, "\t")
			if len(fields) <= col {
				continue
			}
			sym = fields[col]
		}
		sym = strings.TrimSpace(sym)
		if sym == "" {
			continue
		}
		symbols = append(symbols, sym)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading gene list: %w", err)
	}

	symbols = Dedup(symbols)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("gene list %s: no symbols", path)
	}
	return symbols, nil
}

// Parse splits a comma-separated symbol list such as "BRAF, BRCA2".
func Parse(s string) []string {
	var symbols []string
	for _, part := range strings.Split(s, ",") {
		if sym := strings.TrimSpace(part); sym != "" {
			symbols = append(symbols, sym)
		}
	}
	return Dedup(symbols)
}

// Dedup drops repeated symbols, keeping the first occurrence.
func Dedup(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := symbols[:0:0]
	for _, s := range symbols {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func headerIndex(line string) int {
	if !strings.Contains(line, "\t") {
		return -1
	}
	for i, c := range strings.Split(line, "\t") {
		if strings.TrimSpace(c) == hugoColumn {
			return i
		}
	}
	return -1
}
