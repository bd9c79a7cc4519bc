// Package clients parses the master client file: the authoritative
// spreadsheet enumerating all clients, their salesperson owner, and
// GPS coordinates. Two schema generations are supported.
package clients

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hmorales/fleet-visits/internal/model"
	"github.com/hmorales/fleet-visits/internal/sheet"
)

var (
	ErrNoClientRows = errors.New("el archivo maestro no contiene filas válidas de clientes")
	ErrEmptyClients = errors.New("la lista de clientes resultó vacía")
)

// DefaultHomeBaseSentinel is the commercial name the master file uses
// to mark a salesperson's home address as a pseudo-client.
const DefaultHomeBaseSentinel = "EMPLEADO TME"

type columns struct {
	vendor       int
	key          int
	name         int
	gps          int
	branchNumber int
	branchName   int
	commercial   int
}

// ParseMasterFile converts a master client spreadsheet into a uniform
// client list plus the distinct, sorted set of salesperson ids. Rows
// with no usable GPS are kept with (0,0) coordinates; spatial matching
// filters them by coordinate validity.
func ParseMasterFile(rows [][]string, homeBaseSentinel string) (*model.MasterClientData, error) {
	if homeBaseSentinel == "" {
		homeBaseSentinel = DefaultHomeBaseSentinel
	}

	headerIdx, schema, err := sheet.DetectClientHeader(rows)
	if err != nil {
		return nil, fmt.Errorf("archivo maestro: %w", err)
	}

	cols, err := resolveColumns(rows[headerIdx], schema)
	if err != nil {
		return nil, err
	}

	var clients []model.Client
	vendorSet := map[string]bool{}
	dataRows := 0

	for _, row := range rows[headerIdx+1:] {
		if !rowHasContent(row) {
			continue
		}
		dataRows++

		key := cellAt(row, cols.key)
		name := cellAt(row, cols.name)
		if key == "" || name == "" {
			continue
		}

		client := model.Client{
			Key:    key,
			Name:   name,
			Vendor: cellAt(row, cols.vendor),
		}
		client.Lat, client.Lng = parseGPS(cellAt(row, cols.gps))

		if schema == "new" {
			client.BranchNumber = cellAt(row, cols.branchNumber)
			client.BranchName = cellAt(row, cols.branchName)
			commercial := cellAt(row, cols.commercial)
			if strings.EqualFold(strings.TrimSpace(commercial), homeBaseSentinel) {
				client.IsHomeBase = true
				client.HomeBaseInitial = initialOf(client.Name)
			}
		}

		client.DisplayName = buildDisplayName(client)

		if client.Vendor != "" {
			vendorSet[client.Vendor] = true
		}
		clients = append(clients, client)
	}

	if dataRows == 0 {
		return nil, ErrNoClientRows
	}
	if len(clients) == 0 {
		return nil, ErrEmptyClients
	}

	vendors := make([]string, 0, len(vendorSet))
	for v := range vendorSet {
		vendors = append(vendors, v)
	}
	sort.Strings(vendors)

	return &model.MasterClientData{Clients: clients, Vendors: vendors}, nil
}

func rowHasContent(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}

func resolveColumns(header []string, schema string) (columns, error) {
	cols := columns{branchNumber: -1, branchName: -1, commercial: -1}

	type field struct {
		name     string
		variants []string
		dest     *int
		required bool
	}

	var fields []field
	switch schema {
	case "new":
		fields = []field{
			{"vendedor", []string{"vend"}, &cols.vendor, true},
			{"#cliente", []string{"#cliente"}, &cols.key, true},
			{"razón social", []string{"razon social", "razón social", "nombre cliente", "razon"}, &cols.name, true},
			{"gps", []string{"gps"}, &cols.gps, true},
			{"# sucursal", []string{"# suc", "#suc", "sucursal #", "suc"}, &cols.branchNumber, false},
			{"nombre sucursal", []string{"nombre suc", "nombre sucursal"}, &cols.branchName, false},
			{"nombre comercial", []string{"nombre comercial", "comercial"}, &cols.commercial, false},
		}
	default:
		fields = []field{
			{"vendedor", []string{"vnd"}, &cols.vendor, true},
			{"clave", []string{"clave"}, &cols.key, true},
			{"razón", []string{"razon", "razón"}, &cols.name, true},
			{"gps", []string{"gps"}, &cols.gps, true},
		}
	}

	for _, f := range fields {
		idx := sheet.FindColumn(header, f.variants)
		if idx < 0 {
			if f.required {
				return columns{}, fmt.Errorf("%w: %s", sheet.ErrMissingColumn, f.name)
			}
			continue
		}
		*f.dest = idx
	}
	return cols, nil
}

// parseGPS reads a "lat,lng" cell, also tolerating "&" as separator.
// Anything unparsable becomes (0,0), the no-GPS marker.
func parseGPS(raw string) (float64, float64) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, 0
	}
	sep := ","
	if strings.Contains(raw, "&") {
		sep = "&"
	}
	parts := strings.SplitN(raw, sep, 2)
	if len(parts) != 2 {
		return 0, 0
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0
	}
	return lat, lng
}

func buildDisplayName(c model.Client) string {
	if branch := c.FormatBranchInfo(); branch != "" {
		return c.Name + " (" + branch + ")"
	}
	return c.Name
}

func initialOf(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.ToUpper(string([]rune(name)[0]))
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
