package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kilianp07/chargeplan/core/model"
)

const (
	defaultMaxOpenConns = 25
	defaultMaxIdleConns = 5
	defaultConnLifetime = time.Hour
	defaultPingTimeout  = 5 * time.Second
)

// PostgresStore persists the catalog and bookings in PostgreSQL using the
// pgx stdlib driver. The overlap check and the insert run as a single
// statement so concurrent commits are resolved by the database.
type PostgresStore struct {
	db *sql.DB
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS stations (
    id TEXT PRIMARY KEY,
    location TEXT,
    lat DOUBLE PRECISION,
    lon DOUBLE PRECISION
);
CREATE TABLE IF NOT EXISTS chargers (
    id TEXT PRIMARY KEY,
    station_id TEXT REFERENCES stations (id),
    type TEXT,
    power_kw DOUBLE PRECISION,
    price_per_kwh DOUBLE PRECISION,
    seq BIGSERIAL
);
CREATE TABLE IF NOT EXISTS bookings (
    id TEXT PRIMARY KEY,
    user_id TEXT,
    station_id TEXT,
    charger_id TEXT,
    date DATE,
    start_min INT,
    end_min INT,
    energy_kwh DOUBLE PRECISION,
    price DOUBLE PRECISION,
    status TEXT,
    payment_status TEXT
);
CREATE INDEX IF NOT EXISTS idx_bookings_charger_date ON bookings (charger_id, date);
`

// NewPostgresStore connects, validates the connection and ensures schema.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("store: empty DSN")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), defaultPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

// UpsertStation writes or replaces a station.
func (s *PostgresStore) UpsertStation(ctx context.Context, st model.Station) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stations (id, location, lat, lon) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET location = EXCLUDED.location, lat = EXCLUDED.lat, lon = EXCLUDED.lon`,
		st.ID, st.Location, st.Coord.Lat, st.Coord.Lon)
	return err
}

// UpsertCharger writes or replaces a charger.
func (s *PostgresStore) UpsertCharger(ctx context.Context, c model.Charger) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chargers (id, station_id, type, power_kw, price_per_kwh) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET station_id = EXCLUDED.station_id, type = EXCLUDED.type,
		     power_kw = EXCLUDED.power_kw, price_per_kwh = EXCLUDED.price_per_kwh`,
		c.ID, c.StationID, c.Type, c.PowerKW, c.PricePerKWh)
	return err
}

// ListStations returns all stations.
func (s *PostgresStore) ListStations(ctx context.Context) ([]model.Station, error) {
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
func (s *PostgresStore) ListChargers(ctx context.Context, stationID string) ([]model.Charger, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, station_id, type, power_kw, price_per_kwh FROM chargers WHERE station_id = $1 ORDER BY seq`,
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
func (s *PostgresStore) GetCharger(ctx context.Context, chargerID string) (model.Charger, error) {
	var c model.Charger
	err := s.db.QueryRowContext(ctx,
		`SELECT id, station_id, type, power_kw, price_per_kwh FROM chargers WHERE id = $1`,
		chargerID).Scan(&c.ID, &c.StationID, &c.Type, &c.PowerKW, &c.PricePerKWh)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Charger{}, ErrNotFound
	}
	if err != nil {
		return model.Charger{}, err
	}
	return c, nil
}

// ListBookings returns the confirmed windows of a charger for a date.
func (s *PostgresStore) ListBookings(ctx context.Context, chargerID string, date time.Time) ([]model.TimeWindow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT start_min, end_min FROM bookings WHERE charger_id = $1 AND date = $2 AND status = $3 ORDER BY start_min`,
		chargerID, model.Day(date), string(model.StatusConfirmed))
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

// InsertBooking inserts only when no overlapping confirmed booking exists,
// in one statement, so the race between two commits is decided by the
// database rather than the process.
func (s *PostgresStore) InsertBooking(ctx context.Context, b model.Booking) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO bookings (id, user_id, station_id, charger_id, date, start_min, end_min, energy_kwh, price, status, payment_status)
		 SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		 WHERE NOT EXISTS (
		     SELECT 1 FROM bookings
		     WHERE charger_id = $4 AND date = $5 AND status = 'confirmed' AND start_min < $7 AND end_min > $6
		 )`,
		b.ID, b.UserID, b.StationID, b.ChargerID, model.Day(b.Date),
		int(b.Window.Start), int(b.Window.End), b.EnergyKWh, b.Price,
		string(b.Status), string(b.PaymentStatus))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ConflictError{ChargerID: b.ChargerID, Date: model.Day(b.Date), Window: b.Window}
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error { return s.db.Close() }
