package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/chargeplan/core/model"
)

// SQLiteStore persists the catalog and bookings to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	// mu serializes check-and-insert across pooled connections.
	mu sync.Mutex
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS stations (
    id TEXT PRIMARY KEY,
    location TEXT,
    lat REAL,
    lon REAL
);
CREATE TABLE IF NOT EXISTS chargers (
    id TEXT PRIMARY KEY,
    station_id TEXT,
    type TEXT,
    power_kw REAL,
    price_per_kwh REAL,
    seq INTEGER
);
CREATE TABLE IF NOT EXISTS bookings (
    id TEXT PRIMARY KEY,
    user_id TEXT,
    station_id TEXT,
    charger_id TEXT,
    date TEXT,
    start_min INTEGER,
    end_min INTEGER,
    energy_kwh REAL,
    price REAL,
    status TEXT,
    payment_status TEXT
);
CREATE INDEX IF NOT EXISTS idx_bookings_charger_date ON bookings (charger_id, date);
`

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// UpsertStation writes or replaces a station.
func (s *SQLiteStore) UpsertStation(ctx context.Context, st model.Station) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO stations (id, location, lat, lon) VALUES (?, ?, ?, ?)`,
		st.ID, st.Location, st.Coord.Lat, st.Coord.Lon)
	return err
}

// UpsertCharger writes or updates a charger. An existing charger keeps its
// seq so updates do not reorder ListChargers.
func (s *SQLiteStore) UpsertCharger(ctx context.Context, c model.Charger) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chargers (id, station_id, type, power_kw, price_per_kwh, seq)
		 VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM chargers))
		 ON CONFLICT (id) DO UPDATE SET station_id = excluded.station_id, type = excluded.type,
		     power_kw = excluded.power_kw, price_per_kwh = excluded.price_per_kwh`,
		c.ID, c.StationID, c.Type, c.PowerKW, c.PricePerKWh)
	return err
}

// ListStations returns all stations.
func (s *SQLiteStore) ListStations(ctx context.Context) ([]model.Station, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, location, lat, lon FROM stations ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Station
	for rows.Next() {
		var st model.Station
		if err := rows.Scan(&st.ID, &st.Location, &st.Coord.Lat, &st.Coord.Lon); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// ListChargers returns the chargers of one station in insertion order.
func (s *SQLiteStore) ListChargers(ctx context.Context, stationID string) ([]model.Charger, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, station_id, type, power_kw, price_per_kwh FROM chargers WHERE station_id = ? ORDER BY seq`,
		stationID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Charger
	for rows.Next() {
		var c model.Charger
		if err := rows.Scan(&c.ID, &c.StationID, &c.Type, &c.PowerKW, &c.PricePerKWh); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCharger returns one charger by id.
func (s *SQLiteStore) GetCharger(ctx context.Context, chargerID string) (model.Charger, error) {
	var c model.Charger
	err := s.db.QueryRowContext(ctx,
		`SELECT id, station_id, type, power_kw, price_per_kwh FROM chargers WHERE id = ?`,
		chargerID).Scan(&c.ID, &c.StationID, &c.Type, &c.PowerKW, &c.PricePerKWh)
	if err == sql.ErrNoRows {
		return model.Charger{}, ErrNotFound
	}
	if err != nil {
		return model.Charger{}, err
	}
	return c, nil
}

// ListBookings returns the confirmed windows of a charger for a date.
func (s *SQLiteStore) ListBookings(ctx context.Context, chargerID string, date time.Time) ([]model.TimeWindow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT start_min, end_min FROM bookings WHERE charger_id = ? AND date = ? AND status = ? ORDER BY start_min`,
		chargerID, model.Day(date).Format("2006-01-02"), string(model.StatusConfirmed))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.TimeWindow
	for rows.Next() {
		var start, end int
		if err := rows.Scan(&start, &end); err != nil {
			return nil, err
		}
		out = append(out, model.TimeWindow{Start: model.ClockTime(start), End: model.ClockTime(end)})
	}
	return out, rows.Err()
}

// InsertBooking checks for an overlapping confirmed booking and inserts in
// one transaction.
func (s *SQLiteStore) InsertBooking(ctx context.Context, b model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	date := model.Day(b.Date).Format("2006-01-02")
	var overlapping int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM bookings
		 WHERE charger_id = ? AND date = ? AND status = ? AND start_min < ? AND end_min > ?`,
		b.ChargerID, date, string(model.StatusConfirmed), int(b.Window.End), int(b.Window.Start)).
		Scan(&overlapping)
	if err != nil {
		return err
	}
	if overlapping > 0 {
		return model.ConflictError{ChargerID: b.ChargerID, Date: model.Day(b.Date), Window: b.Window}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bookings (id, user_id, station_id, charger_id, date, start_min, end_min, energy_kwh, price, status, payment_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.StationID, b.ChargerID, date,
		int(b.Window.Start), int(b.Window.End), b.EnergyKWh, b.Price,
		string(b.Status), string(b.PaymentStatus))
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
