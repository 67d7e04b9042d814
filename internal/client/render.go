package client

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/MKhiriev/crypto-vault/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// renderRecords draws the list command output.
func renderRecords(records []models.RawVaultRecord) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "VERSION", "CREATED", "UPDATED").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, r := range records {
		t.Row(r.Name, strconv.FormatInt(r.Version, 10), formatTime(r.CreatedAt), formatTime(r.UpdatedAt))
	}

	return t.Render()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}
