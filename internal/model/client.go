package model

import "github.com/google/uuid"

// Client is a located business entity from the master file or the
// remote store. Lat/Lng of (0,0) means the record has no GPS fix and
// must be skipped by spatial matching.
type Client struct {
	ID              uuid.UUID `json:"id,omitempty"`
	Key             string    `json:"key"`
	Name            string    `json:"name"`
	Lat             float64   `json:"lat"`
	Lng             float64   `json:"lng"`
	Vendor          string    `json:"vendor"`
	BranchNumber    string    `json:"branchNumber,omitempty"`
	BranchName      string    `json:"branchName,omitempty"`
	DisplayName     string    `json:"displayName"`
	IsHomeBase      bool      `json:"isHomeBase"`
	HomeBaseInitial string    `json:"homeBaseInitial,omitempty"`
}

func (c Client) HasGPS() bool {
	return c.Lat != 0 && c.Lng != 0
}

// FormatBranchInfo renders the branch label shown next to a client
// name: "Suc. Centro" when a branch name exists, "Suc. 5" with only a
// number, empty string when the client has no branch.
func (c Client) FormatBranchInfo() string {
	if c.BranchName != "" {
		return "Suc. " + c.BranchName
	}
	if c.BranchNumber != "" {
		return "Suc. " + c.BranchNumber
	}
	return ""
}

// MasterClientData is the result of parsing a master client file.
type MasterClientData struct {
	Clients []Client `json:"clients"`
	Vendors []string `json:"vendors"`
}
