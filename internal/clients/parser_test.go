package clients

import (
	"errors"
	"reflect"
	"testing"
)

func newFormatRows() [][]string {
	return [][]string{
		{"Clientes activos"},
		{"VEND", "#CLIENTE", "RAZON SOCIAL", "NOMBRE COMERCIAL", "# SUC", "NOMBRE SUC", "GPS"},
		{"V02", "C001", "ABARROTES LUPITA", "LA LUPITA", "", "", "32.5101,-117.0305"},
		{"V01", "C002", "FARMACIA DEL SOL", "DEL SOL", "5", "Centro", "32.5200&-117.0400"},
		{"V01", "C003", "RAMIREZ GOMEZ JUAN", "EMPLEADO TME", "", "", "32.5300,-117.0500"},
		{"V03", "C004", "MINISUPER EL PARQUE", "EL PARQUE", "", "", "sin gps"},
	}
}

func TestParseMasterFileNewFormat(t *testing.T) {
	data, err := ParseMasterFile(newFormatRows(), "")
	if err != nil {
		t.Fatalf("ParseMasterFile: %v", err)
	}
	if len(data.Clients) != 4 {
		t.Fatalf("clients = %d, want 4", len(data.Clients))
	}

	if got, want := data.Vendors, []string{"V01", "V02", "V03"}; !reflect.DeepEqual(got, want) {
		t.Errorf("vendors = %v, want %v", got, want)
	}

	first := data.Clients[0]
	if first.Key != "C001" || first.Lat != 32.5101 || first.Lng != -117.0305 {
		t.Errorf("first client = %+v", first)
	}

	branch := data.Clients[1]
	if branch.BranchNumber != "5" || branch.BranchName != "Centro" {
		t.Errorf("branch fields = %q/%q", branch.BranchNumber, branch.BranchName)
	}
	if branch.Lat != 32.52 || branch.Lng != -117.04 {
		t.Errorf("ampersand GPS = %v,%v", branch.Lat, branch.Lng)
	}
	if branch.DisplayName != "FARMACIA DEL SOL (Suc. Centro)" {
		t.Errorf("display name = %q", branch.DisplayName)
	}

	home := data.Clients[2]
	if !home.IsHomeBase {
		t.Error("sentinel commercial name should mark home base")
	}
	if home.HomeBaseInitial != "R" {
		t.Errorf("home base initial = %q, want R", home.HomeBaseInitial)
	}

	noGPS := data.Clients[3]
	if noGPS.HasGPS() {
		t.Error("unparsable GPS should leave the record without coordinates")
	}
	if noGPS.Lat != 0 || noGPS.Lng != 0 {
		t.Errorf("no-GPS coordinates = %v,%v, want 0,0", noGPS.Lat, noGPS.Lng)
	}
}

func TestParseMasterFileOldFormat(t *testing.T) {
	rows := [][]string{
		{"VND", "CLAVE", "RAZON", "GPS"},
		{"V09", "K100", "TIENDA LA ESQUINA", "32.49,-117.01"},
		{"V09", "K101", "PAPELERIA CENTRAL", ""},
	}
	data, err := ParseMasterFile(rows, "")
	if err != nil {
		t.Fatalf("ParseMasterFile: %v", err)
	}
	if len(data.Clients) != 2 {
		t.Fatalf("clients = %d, want 2", len(data.Clients))
	}
	if data.Clients[0].Vendor != "V09" || data.Clients[0].Key != "K100" {
		t.Errorf("first client = %+v", data.Clients[0])
	}
	if data.Clients[1].HasGPS() {
		t.Error("empty GPS cell should default to (0,0)")
	}
	if got, want := data.Vendors, []string{"V09"}; !reflect.DeepEqual(got, want) {
		t.Errorf("vendors = %v, want %v", got, want)
	}
}

func TestParseMasterFileNoDataRows(t *testing.T) {
	rows := [][]string{
		{"VND", "CLAVE", "RAZON", "GPS"},
		{"", "", ""},
	}
	_, err := ParseMasterFile(rows, "")
	if !errors.Is(err, ErrNoClientRows) {
		t.Errorf("err = %v, want ErrNoClientRows", err)
	}
}

func TestParseMasterFileEmptyList(t *testing.T) {
	rows := [][]string{
		{"VND", "CLAVE", "RAZON", "GPS"},
		{"V01", "", "SIN CLAVE", "32.5,-117.0"},
	}
	_, err := ParseMasterFile(rows, "")
	if !errors.Is(err, ErrEmptyClients) {
		t.Errorf("err = %v, want ErrEmptyClients", err)
	}
}
