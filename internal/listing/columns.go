package listing

import (
	"github.com/novem-code/novem-cli/internal/novem"
	"github.com/novem-code/novem-cli/internal/table"
)

// VisColumns describes the plot and mail listings.
func VisColumns(kind novem.VisKind) []table.Column {
	return []table.Column{
		{Key: "id", Header: kind.Title() + " ID", Type: table.TypeText, Overflow: table.OverflowKeep},
		{Key: "type", Header: "Type", Type: table.TypeText, Color: table.ColorCyan, Overflow: table.OverflowKeep},
		{Key: "name", Header: "Name", Type: table.TypeText, Overflow: table.OverflowTruncate},
		{Key: "uri", Header: "Url", Type: table.TypeURL, Overflow: table.OverflowKeep},
		{Key: "created", Header: "Created", Type: table.TypeDate, Overflow: table.OverflowKeep},
		{Key: "summary", Header: "Summary", Type: table.TypeText, Formatter: table.FormatStripNewlines, Overflow: table.OverflowTruncate},
	}
}

// ShareColumns describes the share listing of a single visualization.
func ShareColumns() []table.Column {
	return []table.Column{
		{Key: "name", Header: "Share Name", Type: table.TypeText, Overflow: table.OverflowKeep},
		{Key: "type", Header: "Type", Type: table.TypeText, Color: table.ColorCyan, Overflow: table.OverflowKeep},
		{Key: "created_on", Header: "Shared on", Type: table.TypeDate, Overflow: table.OverflowKeep},
		{Key: "summary", Header: "Summary", Type: table.TypeText, Formatter: table.FormatStripNewlines, Overflow: table.OverflowTruncate},
	}
}

// InviteColumns describes the pending invitation listing.
func InviteColumns() []table.Column {
	return []table.Column{
		{Key: "id", Header: "Invitation ID", Type: table.TypeText, Overflow: table.OverflowKeep},
		{Key: "type", Header: "Type", Type: table.TypeText, Color: table.ColorCyan, Overflow: table.OverflowKeep},
		{Key: "group", Header: "Group", Type: table.TypeText, Overflow: table.OverflowTruncate},
		{Key: "org_user", Header: "Org / User", Type: table.TypeText, Overflow: table.OverflowTruncate},
		{Key: "created", Header: "Created", Type: table.TypeDate, Overflow: table.OverflowKeep},
	}
}
