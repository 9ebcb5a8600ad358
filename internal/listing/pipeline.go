// Package listing fetches resource listings from the novem API and turns
// them into sorted, filtered records ready for the table renderer.
package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/novem-code/novem-cli/internal/novem"
	"github.com/novem-code/novem-cli/internal/table"
)

// Source reads a raw resource body from the API.
type Source interface {
	Read(ctx context.Context, path string) (string, error)
}

// Fetch reads path and decodes it as a JSON array of objects.
// A missing resource is an empty listing.
func Fetch(ctx context.Context, src Source, path string) ([]table.Record, error) {
	body, err := src.Read(ctx, path)
	if err != nil {
		if novem.IsNotFound(err) {
			slog.Debug("listing not found, treating as empty", "path", path)
			return []table.Record{}, nil
		}
		return nil, err
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var objs []map[string]interface{}
	if err := dec.Decode(&objs); err != nil {
		return nil, fmt.Errorf("failed to decode listing %s: %w", path, err)
	}
	return table.NewRecords(objs), nil
}

// CompileFilter turns a user filter term into a case-insensitive pattern.
// Terms without a leading ^ or trailing $ match anywhere in the field.
func CompileFilter(term string) (*regexp.Regexp, error) {
	if term == "" {
		return nil, nil
	}
	if !strings.HasPrefix(term, "^") {
		term = ".*" + term
	}
	if !strings.HasSuffix(term, "$") {
		term += ".*"
	}
	re, err := regexp.Compile("(?i)^(?:" + term + ")")
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	return re, nil
}

var filterKeys = []string{"id", "name", "type"}

// Filter keeps the records whose id, name or type matches re.
// A nil pattern keeps everything.
func Filter(records []table.Record, re *regexp.Regexp) []table.Record {
	if re == nil {
		return records
	}
	out := make([]table.Record, 0, len(records))
	for _, rec := range records {
		for _, key := range filterKeys {
			if v, ok := rec.Get(key); ok && re.MatchString(v) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// SortByKey orders records by the raw string under key.
func SortByKey(records []table.Record, key string) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i][key] < records[j][key]
	})
}

// NormalizeDates rewrites the date under key into the display layout.
// Values that do not parse are left as they are.
func NormalizeDates(records []table.Record, key string) {
	for _, rec := range records {
		v, ok := rec.Get(key)
		if !ok {
			continue
		}
		d, err := table.NormalizeDate(v)
		if err != nil {
			slog.Debug("leaving date unnormalized", "key", key, "value", v, "error", err)
			continue
		}
		rec[key] = d
	}
}

// Options selects how a listing is printed.
type Options struct {
	// Names prints one identifier per line instead of a table.
	Names bool
	Table table.Options
}

// Print writes records either as a table or, in names mode, as the values
// under nameKey one per line.
func Print(w io.Writer, records []table.Record, cols []table.Column, nameKey string, opts Options) error {
	if opts.Names {
		for _, rec := range records {
			if _, err := fmt.Fprintln(w, rec[nameKey]); err != nil {
				return err
			}
		}
		return nil
	}
	_, err := fmt.Fprintln(w, table.Render(records, cols, opts.Table))
	return err
}
