package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hmorales/fleet-visits/internal/model"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// ReplaceAll swaps the entire client catalog for the parsed master
// file. The remote store contract is replace-all, not merge.
func (r *ClientRepository) ReplaceAll(ctx context.Context, clientList []model.Client) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM clients`).Error; err != nil {
			return fmt.Errorf("clear clients: %w", err)
		}
		for _, c := range clientList {
			err := tx.Exec(`
				INSERT INTO clients (
					key, name, lat, lng, vendor,
					branch_number, branch_name, display_name,
					is_home_base, home_base_initial
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, c.Key, c.Name, c.Lat, c.Lng, c.Vendor,
				c.BranchNumber, c.BranchName, c.DisplayName,
				c.IsHomeBase, c.HomeBaseInitial).Error
			if err != nil {
				return fmt.Errorf("insert client %s: %w", c.Key, err)
			}
		}
		return nil
	})
}

func (r *ClientRepository) List(ctx context.Context) ([]model.Client, error) {
	return r.selectClients(ctx, `
		SELECT id, key, name, lat, lng, vendor,
			branch_number, branch_name, display_name,
			is_home_base, home_base_initial
		FROM clients
		ORDER BY key ASC
	`)
}

func (r *ClientRepository) ListByVendor(ctx context.Context, vendor string) ([]model.Client, error) {
	return r.selectClients(ctx, `
		SELECT id, key, name, lat, lng, vendor,
			branch_number, branch_name, display_name,
			is_home_base, home_base_initial
		FROM clients
		WHERE vendor = ?
		ORDER BY key ASC
	`, vendor)
}

func (r *ClientRepository) Vendors(ctx context.Context) ([]string, error) {
	var vendors []string
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT vendor
		FROM clients
		WHERE vendor <> ''
		ORDER BY vendor ASC
	`).Scan(&vendors).Error
	if err != nil {
		return nil, err
	}
	return vendors, nil
}

func (r *ClientRepository) selectClients(ctx context.Context, query string, args ...interface{}) ([]model.Client, error) {
	var rows []struct {
		ID              string
		Key             string
		Name            string
		Lat             float64
		Lng             float64
		Vendor          string
		BranchNumber    string
		BranchName      string
		DisplayName     string
		IsHomeBase      bool
		HomeBaseInitial string
	}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	clients := make([]model.Client, 0, len(rows))
	for _, row := range rows {
		c := model.Client{
			Key:             row.Key,
			Name:            row.Name,
			Lat:             row.Lat,
			Lng:             row.Lng,
			Vendor:          row.Vendor,
			BranchNumber:    row.BranchNumber,
			BranchName:      row.BranchName,
			DisplayName:     row.DisplayName,
			IsHomeBase:      row.IsHomeBase,
			HomeBaseInitial: row.HomeBaseInitial,
		}
		if id, err := uuid.Parse(row.ID); err == nil {
			c.ID = id
		}
		clients = append(clients, c)
	}
	return clients, nil
}
