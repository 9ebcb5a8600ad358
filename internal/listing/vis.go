package listing

import (
	"context"
	"io"

	"github.com/novem-code/novem-cli/internal/novem"
	"github.com/novem-code/novem-cli/internal/table"
)

// VisQuery selects whose visualizations are listed.
type VisQuery struct {
	// User lists another user's visualizations.
	User string
	// Group lists a user or organisation group. Values starting with @ or +
	// are used as-is.
	Group string
	// Org qualifies Group as an organisation group.
	Org string
	// Filter is a case-insensitive pattern matched against id, name and type.
	Filter string
}

// VisPath returns the listing path for kind. username is the authenticated
// user and is used when q names no other user.
func VisPath(kind novem.VisKind, username string, q VisQuery) string {
	usr := username
	if q.User != "" {
		usr = q.User
	}
	path := "u/" + usr + "/" + string(kind) + "/"

	if q.Group == "" {
		return path
	}
	var query string
	switch {
	case q.Group[0] == '@' || q.Group[0] == '+':
		query = q.Group
	case q.User != "":
		query = "@" + q.User + "~" + q.Group
	case q.Org != "":
		query = "+" + q.Org + "~" + q.Group
	}
	if query != "" {
		path = "o/" + query + "/" + string(kind) + "/"
	}
	return path
}

// LoadVis fetches, filters and sorts a visualization listing and normalizes
// its created dates.
func LoadVis(ctx context.Context, src Source, kind novem.VisKind, username string, q VisQuery) ([]table.Record, error) {
	re, err := CompileFilter(q.Filter)
	if err != nil {
		return nil, err
	}
	records, err := Fetch(ctx, src, VisPath(kind, username, q))
	if err != nil {
		return nil, err
	}
	records = Filter(records, re)
	SortByKey(records, "id")
	NormalizeDates(records, "created")
	return records, nil
}

// ListVis prints the visualization listing to w.
func ListVis(ctx context.Context, w io.Writer, src Source, kind novem.VisKind, username string, q VisQuery, opts Options) error {
	records, err := LoadVis(ctx, src, kind, username, q)
	if err != nil {
		return err
	}
	return Print(w, records, VisColumns(kind), "id", opts)
}
