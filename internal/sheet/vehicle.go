package sheet

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/hmorales/fleet-visits/internal/model"
)

var (
	isoDatePattern   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	slashDatePattern = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
)

// ExtractVehicleInfo pulls the vehicle metadata block that tracker
// exports place above the header row. The plate falls back to the file
// name and the date falls back to scanning every cell for a date-shaped
// token.
func ExtractVehicleInfo(rows [][]string, fileName string) model.VehicleInfo {
	info := model.VehicleInfo{}

	limit := len(rows)
	if limit > headerScanRows {
		limit = headerScanRows
	}
	for i := 0; i < limit; i++ {
		row := rows[i]
		if rowMatchesGroups(row, tripKeywordGroups) {
			// Reached the header row; the metadata block sits above it.
			break
		}
		for j, cell := range row {
			label := normalizeCell(cell)
			value := ""
			if j+1 < len(row) {
				value = strings.TrimSpace(row[j+1])
			}
			switch {
			case info.Description == "" && strings.Contains(label, "descripcion"), info.Description == "" && strings.Contains(label, "descripción"):
				info.Description = value
			case info.VehicleType == "" && strings.Contains(label, "tipo"):
				info.VehicleType = value
			case info.Plate == "" && strings.Contains(label, "placa"):
				info.Plate = value
			}
		}
	}

	if info.Plate == "" {
		base := filepath.Base(fileName)
		info.Plate = strings.TrimSuffix(base, filepath.Ext(base))
	}

	info.Date = findDateToken(rows)
	return info
}

// findDateToken scans the raw rows for the first date-shaped token and
// normalizes it to YYYY-MM-DD. Slash dates are read day-first, which is
// how the tracker vendor writes them.
func findDateToken(rows [][]string) string {
	for _, row := range rows {
		for _, cell := range row {
			if m := isoDatePattern.FindStringSubmatch(cell); m != nil {
				return fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
			}
			if m := slashDatePattern.FindStringSubmatch(cell); m != nil {
				day, _ := strconv.Atoi(m[1])
				month, _ := strconv.Atoi(m[2])
				return fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
			}
		}
	}
	return ""
}
