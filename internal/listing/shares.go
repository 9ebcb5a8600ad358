package listing

import (
	"context"
	"io"
	"regexp"

	"github.com/novem-code/novem-cli/internal/novem"
	"github.com/novem-code/novem-cli/internal/table"
)

var (
	userGroupShare = regexp.MustCompile(`^@.+~.+$`)
	orgGroupShare  = regexp.MustCompile(`^\+.+~.+$`)
)

// AnnotateShares fills in type and summary for the well-known share targets.
func AnnotateShares(records []table.Record) {
	for _, rec := range records {
		name := rec["name"]
		switch {
		case name == "public":
			rec["type"] = "special"
			rec["summary"] = "Shared with the entire world"
		case userGroupShare.MatchString(name):
			rec["type"] = "user group"
			rec["summary"] = "Shared with all members of the given user group"
		case orgGroupShare.MatchString(name):
			rec["type"] = "org group"
			rec["summary"] = "Shared with all members of the given organisation group"
		}
	}
}

// LoadShares fetches the shares of a visualization in the order the API
// returns them.
func LoadShares(ctx context.Context, src Source, kind novem.VisKind, name string) ([]table.Record, error) {
	records, err := Fetch(ctx, src, novem.VisPath(kind, name, "shared"))
	if err != nil {
		return nil, err
	}
	AnnotateShares(records)
	NormalizeDates(records, "created_on")
	return records, nil
}

// ListShares prints the share listing of a visualization to w.
func ListShares(ctx context.Context, w io.Writer, src Source, kind novem.VisKind, name string, opts Options) error {
	records, err := LoadShares(ctx, src, kind, name)
	if err != nil {
		return err
	}
	return Print(w, records, ShareColumns(), "name", opts)
}
