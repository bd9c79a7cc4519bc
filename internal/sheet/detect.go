// Package sheet locates the meaningful parts of loosely structured
// tracker and client spreadsheets: the header row, the columns holding
// each logical field, and the vehicle metadata above the header.
package sheet

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingHeader = errors.New("no se encontró la fila de encabezados en el archivo de viaje")
	ErrWrongFileType = errors.New("el archivo parece ser una lista de clientes, no un archivo de viaje")
	ErrMissingColumn = errors.New("falta una columna requerida en el archivo")
)

// headerScanRows bounds the search for a header row; tracker exports
// put a short metadata block above it, never more than a screenful.
const headerScanRows = 20

// Keyword groups: a row is a header when every group has at least one
// matching cell. Matching is case-insensitive substring.
var (
	tripKeywordGroups = [][]string{
		{"latitud"},
		{"longitud"},
		{"velocidad"},
	}
	clientKeywordGroupsNew = [][]string{
		{"vend"},
		{"#cliente"},
	}
	clientKeywordGroupsOld = [][]string{
		{"clave"},
		{"razon", "razón"},
		{"gps"},
	}
)

// TripColumns holds the resolved column index of each logical field.
type TripColumns struct {
	Time        int
	Description int
	Speed       int
	Lat         int
	Lng         int
}

// FindHeaderRow scans the first rows for one where every keyword group
// matches at least one cell. Returns -1 when no row qualifies.
func FindHeaderRow(rows [][]string, groups [][]string) int {
	limit := len(rows)
	if limit > headerScanRows {
		limit = headerScanRows
	}
	for i := 0; i < limit; i++ {
		if rowMatchesGroups(rows[i], groups) {
			return i
		}
	}
	return -1
}

// DetectTripHeader finds the trip-file header row. When none exists but
// the sheet looks like a client master file, the error says so instead
// of a generic missing-header message.
func DetectTripHeader(rows [][]string) (int, error) {
	if idx := FindHeaderRow(rows, tripKeywordGroups); idx >= 0 {
		return idx, nil
	}
	if FindHeaderRow(rows, clientKeywordGroupsNew) >= 0 || FindHeaderRow(rows, clientKeywordGroupsOld) >= 0 {
		return -1, ErrWrongFileType
	}
	return -1, ErrMissingHeader
}

// DetectClientHeader finds the master-file header row and reports which
// schema it carries: "new" (VEND/#CLIENTE) or "old" (VND/CLAVE).
func DetectClientHeader(rows [][]string) (int, string, error) {
	if idx := FindHeaderRow(rows, clientKeywordGroupsNew); idx >= 0 {
		return idx, "new", nil
	}
	if idx := FindHeaderRow(rows, clientKeywordGroupsOld); idx >= 0 {
		return idx, "old", nil
	}
	return -1, "", ErrMissingHeader
}

// Literal header names tried per logical field. Tracker exports differ
// in language and abbreviation, never in meaning.
var (
	timeHeaders  = []string{"hora", "tiempo", "time", "hora del evento"}
	descHeaders  = []string{"descripcion", "descripción", "evento", "description", "descripcion del evento"}
	speedHeaders = []string{"velocidad", "vel", "vel.", "speed", "velocidad (km/h)"}
	latHeaders   = []string{"latitud", "lat", "latitude"}
	lngHeaders   = []string{"longitud", "lon", "lng", "long", "longitude"}
)

// ResolveTripColumns resolves the column index of every trip field
// within a detected header row.
func ResolveTripColumns(header []string) (TripColumns, error) {
	cols := TripColumns{}
	fields := []struct {
		name     string
		variants []string
		dest     *int
	}{
		{"hora", timeHeaders, &cols.Time},
		{"descripción", descHeaders, &cols.Description},
		{"velocidad", speedHeaders, &cols.Speed},
		{"latitud", latHeaders, &cols.Lat},
		{"longitud", lngHeaders, &cols.Lng},
	}
	for _, f := range fields {
		idx := FindColumn(header, f.variants)
		if idx < 0 {
			return TripColumns{}, fmt.Errorf("%w: %s", ErrMissingColumn, f.name)
		}
		*f.dest = idx
	}
	return cols, nil
}

// FindColumn returns the index of the first header cell equal to one of
// the variants, falling back to a substring match. -1 when absent.
func FindColumn(header []string, variants []string) int {
	for i, cell := range header {
		normalized := normalizeCell(cell)
		for _, v := range variants {
			if normalized == v {
				return i
			}
		}
	}
	for i, cell := range header {
		normalized := normalizeCell(cell)
		for _, v := range variants {
			if normalized != "" && strings.Contains(normalized, v) {
				return i
			}
		}
	}
	return -1
}

func rowMatchesGroups(row []string, groups [][]string) bool {
	for _, group := range groups {
		if !rowMatchesGroup(row, group) {
			return false
		}
	}
	return true
}

func rowMatchesGroup(row []string, keywords []string) bool {
	for _, cell := range row {
		normalized := normalizeCell(cell)
		for _, kw := range keywords {
			if strings.Contains(normalized, kw) {
				return true
			}
		}
	}
	return false
}

func normalizeCell(cell string) string {
	return strings.ToLower(strings.TrimSpace(cell))
}
