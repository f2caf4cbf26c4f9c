package repositories

import (
	"context"
	"database/sql"
	"dispatch-planning-service/internal/domain"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

type LocationSeed struct {
	ID          string     `json:"id"`
	Lat         float64    `json:"lat"`
	Lng         float64    `json:"lng"`
	Address     string     `json:"address"`
	Priority    int        `json:"priority"`
	WindowStart *time.Time `json:"window_start,omitempty"`
	WindowEnd   *time.Time `json:"window_end,omitempty"`
}

type ItemSeed struct {
	ID            string  `json:"id"`
	ProductID     string  `json:"product_id"`
	Quantity      int     `json:"quantity"`
	WeightPerUnit float64 `json:"weight_per_unit"`
	VolumePerUnit float64 `json:"volume_per_unit"`
	LengthPerUnit float64 `json:"length_per_unit"`
	WidthPerUnit  float64 `json:"width_per_unit"`
	HeightPerUnit float64 `json:"height_per_unit"`
	Priority      int     `json:"priority"`
}

type ShipmentSeed struct {
	ShipmentID string         `json:"shipment_id"`
	Depot      LocationSeed   `json:"depot"`
	Items      []ItemSeed     `json:"items"`
	Stops      []LocationSeed `json:"stops"`
}

func (l LocationSeed) location() domain.Location {
	loc := domain.Location{ID: l.ID, Lat: l.Lat, Lng: l.Lng, Address: l.Address, Priority: l.Priority}
	if l.WindowStart != nil || l.WindowEnd != nil {
		loc.TimeWindow = &domain.TimeWindow{}
		if l.WindowStart != nil {
			loc.TimeWindow.Start = *l.WindowStart
		}
		if l.WindowEnd != nil {
			loc.TimeWindow.End = *l.WindowEnd
		}
	}
	return loc
}

func (i ItemSeed) item() domain.ItemDimensions {
	return domain.ItemDimensions{
		ID: i.ID, ProductID: i.ProductID, Quantity: i.Quantity,
		WeightPerUnit: i.WeightPerUnit, VolumePerUnit: i.VolumePerUnit,
		LengthPerUnit: i.LengthPerUnit, WidthPerUnit: i.WidthPerUnit, HeightPerUnit: i.HeightPerUnit,
		Priority: i.Priority,
	}
}

// Shipment converts the seed to a validated domain shipment.
func (s ShipmentSeed) Shipment() (domain.Shipment, error) {
	id := strings.TrimSpace(s.ShipmentID)
	if id == "" {
		return domain.Shipment{}, fmt.Errorf("shipment_id cannot be empty")
	}

	sh := domain.Shipment{ID: id, Depot: s.Depot.location()}
	for _, it := range s.Items {
		sh.Items = append(sh.Items, it.item())
	}
	for _, st := range s.Stops {
		sh.Stops = append(sh.Stops, st.location())
	}

	if err := sh.Depot.Validate(); err != nil {
		return domain.Shipment{}, fmt.Errorf("shipment %s: depot: %w", id, err)
	}
	if err := domain.ValidateItems(sh.Items); err != nil {
		return domain.Shipment{}, fmt.Errorf("shipment %s: %w", id, err)
	}
	if err := domain.ValidateLocations(sh.Stops); err != nil {
		return domain.Shipment{}, fmt.Errorf("shipment %s: %w", id, err)
	}
	return sh, nil
}

// LoadShipmentSeeds reads and validates shipments from a JSON seed file.
func LoadShipmentSeeds(jsonPath string) ([]domain.Shipment, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load shipment seeds: read %q: %w", jsonPath, err)
	}

	var data []ShipmentSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("load shipment seeds: parse json: %w", err)
	}

	shipments := make([]domain.Shipment, 0, len(data))
	for i, s := range data {
		sh, err := s.Shipment()
		if err != nil {
			return nil, fmt.Errorf("load shipment seeds: index %d: %w", i+1, err)
		}
		shipments = append(shipments, sh)
	}
	return shipments, nil
}

// Populate the database with pending shipments from a JSON file.
func SeedShipmentsFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	shipments, err := LoadShipmentSeeds(jsonPath)
	if err != nil {
		return fmt.Errorf("seed shipments: %w", err)
	}
	return InsertShipments(ctx, db, shipments)
}

// InsertShipments stores shipments as pending in one transaction,
// replacing any existing rows with the same id.
func InsertShipments(ctx context.Context, db *sql.DB, shipments []domain.Shipment) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed shipments: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, sh := range shipments {
		if err := insertShipment(ctx, tx, sh); err != nil {
			return fmt.Errorf("seed shipments: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed shipments: commit tx: %w", err)
	}

	return nil
}

// insertShipment replaces a shipment with its items and stops and resets
// it to pending.
func insertShipment(ctx context.Context, tx *sql.Tx, sh domain.Shipment) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM shipments WHERE shipment_id = $1;`, sh.ID); err != nil {
		return fmt.Errorf("delete shipment_id=%s: %w", sh.ID, err)
	}

	_, err := tx.ExecContext(ctx, `
	INSERT INTO shipments (shipment_id, depot_id, depot_lat, depot_lng, depot_address, status)
	VALUES ($1, $2, $3, $4, $5, 'pending');
	`, sh.ID, sh.Depot.ID, sh.Depot.Lat, sh.Depot.Lng, sh.Depot.Address)
	if err != nil {
		return fmt.Errorf("insert shipment_id=%s: %w", sh.ID, err)
	}

	for i, it := range sh.Items {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO shipment_items (
			shipment_id, line_no, item_id, product_id, quantity,
			weight_per_unit, volume_per_unit, length_per_unit, width_per_unit, height_per_unit, priority
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
		`, sh.ID, i+1, it.ID, it.ProductID, it.Quantity,
			it.WeightPerUnit, it.VolumePerUnit, it.LengthPerUnit, it.WidthPerUnit, it.HeightPerUnit, it.Priority)
		if err != nil {
			return fmt.Errorf("insert item shipment_id=%s item_id=%s: %w", sh.ID, it.ID, err)
		}
	}

	for i, st := range sh.Stops {
		var start, end sql.NullTime
		if tw := st.TimeWindow; tw != nil {
			start = sql.NullTime{Time: tw.Start, Valid: !tw.Start.IsZero()}
			end = sql.NullTime{Time: tw.End, Valid: !tw.End.IsZero()}
		}
		_, err := tx.ExecContext(ctx, `
		INSERT INTO shipment_stops (shipment_id, position, stop_id, lat, lng, address, priority, window_start, window_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
		`, sh.ID, i+1, st.ID, st.Lat, st.Lng, st.Address, st.Priority, start, end)
		if err != nil {
			return fmt.Errorf("insert stop shipment_id=%s stop_id=%s: %w", sh.ID, st.ID, err)
		}
	}

	return nil
}
