package repositories

import (
	"commuter-destination-service/internal/domain"
	"commuter-destination-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// SQL-backed implementation of the WorldRepository port.
type SQLWorldRepository struct {
	DB *sql.DB
}

func NewSQLWorldRepository(db *sql.DB) *SQLWorldRepository {
	return &SQLWorldRepository{DB: db}
}

// Load stops, lines and citizens. The three tables are read concurrently.
func (r *SQLWorldRepository) LoadWorld(ctx context.Context) (_ *domain.WorldData, err error) {
	defer obs.Time(ctx, "world.repository.LoadWorld")(&err)

	if r.DB == nil {
		return nil, errors.New("sql world repository: DB is nil")
	}

	var data domain.WorldData
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stops, err := r.listStops(gctx)
		data.Stops = stops
		return err
	})
	g.Go(func() error {
		lines, err := r.listLines(gctx)
		data.Lines = lines
		return err
	})
	g.Go(func() error {
		citizens, err := r.listCitizens(gctx)
		data.Citizens = citizens
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load world: %w", err)
	}
	return &data, nil
}

func (r *SQLWorldRepository) listStops(ctx context.Context) ([]domain.Stop, error) {
	rows, err := r.DB.QueryContext(ctx, `
	SELECT stop_id, x, y, z, mode, line_id
	FROM stops
	ORDER BY stop_id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list stops: query stops table: %w", err)
	}
	defer rows.Close()

	stops := make([]domain.Stop, 0, 64)
	for rows.Next() {
		var id, lineID int
		var x, y, z float64
		var mode string
		if err := rows.Scan(&id, &x, &y, &z, &mode, &lineID); err != nil {
			return nil, fmt.Errorf("list stops: scan row: %w", err)
		}
		m, err := domain.ParseTransportMode(mode)
		if err != nil {
			return nil, fmt.Errorf("list stops: stop_id=%d: %w", id, err)
		}
		stops = append(stops, domain.Stop{
			ID:       domain.StopID(id),
			Position: domain.Position{X: x, Y: y, Z: z},
			Mode:     m,
			LineID:   domain.LineID(lineID),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stops: row iteration: %w", err)
	}

	return stops, nil
}

func (r *SQLWorldRepository) listLines(ctx context.Context) ([]domain.TransitLine, error) {
	rows, err := r.DB.QueryContext(ctx, `
	SELECT l.line_id, l.mode, s.stop_id
	FROM transit_lines l
	LEFT JOIN line_stops s ON s.line_id = l.line_id
	ORDER BY l.line_id, s.seq;
	`)
	if err != nil {
		return nil, fmt.Errorf("list lines: query transit_lines table: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.TransitLine, 0, 16)
	for rows.Next() {
		var id int
		var mode string
		var stopID sql.NullInt64
		if err := rows.Scan(&id, &mode, &stopID); err != nil {
			return nil, fmt.Errorf("list lines: scan row: %w", err)
		}

		if n := len(lines); n == 0 || lines[n-1].ID != domain.LineID(id) {
			m, err := domain.ParseTransportMode(mode)
			if err != nil {
				return nil, fmt.Errorf("list lines: line_id=%d: %w", id, err)
			}
			lines = append(lines, domain.TransitLine{ID: domain.LineID(id), Mode: m})
		}
		if stopID.Valid {
			l := &lines[len(lines)-1]
			l.Stops = append(l.Stops, domain.StopID(stopID.Int64))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list lines: row iteration: %w", err)
	}

	return lines, nil
}

func (r *SQLWorldRepository) listCitizens(ctx context.Context) ([]domain.CitizenInstance, error) {
	rows, err := r.DB.QueryContext(ctx, `
	SELECT c.instance_id, c.x, c.y, c.z, c.flags, c.mode, c.target_building,
		c.wait_x, c.wait_y, c.wait_z, p.stop_id
	FROM citizen_instances c
	LEFT JOIN citizen_path p ON p.instance_id = c.instance_id
	ORDER BY c.instance_id, p.seq;
	`)
	if err != nil {
		return nil, fmt.Errorf("list citizens: query citizen_instances table: %w", err)
	}
	defer rows.Close()

	citizens := make([]domain.CitizenInstance, 0, 256)
	for rows.Next() {
		var id, target int
		var flags int64
		var x, y, z, wx, wy, wz float64
		var mode string
		var stopID sql.NullInt64
		if err := rows.Scan(&id, &x, &y, &z, &flags, &mode, &target, &wx, &wy, &wz, &stopID); err != nil {
			return nil, fmt.Errorf("list citizens: scan row: %w", err)
		}

		if n := len(citizens); n == 0 || citizens[n-1].ID != domain.CitizenInstanceID(id) {
			m, err := domain.ParseTransportMode(mode)
			if err != nil {
				return nil, fmt.Errorf("list citizens: instance_id=%d: %w", id, err)
			}
			citizens = append(citizens, domain.CitizenInstance{
				ID:             domain.CitizenInstanceID(id),
				Position:       domain.Position{X: x, Y: y, Z: z},
				Flags:          domain.CitizenFlags(flags),
				Mode:           m,
				TargetBuilding: domain.BuildingID(target),
				WaitTarget:     domain.Position{X: wx, Y: wy, Z: wz},
			})
		}
		if stopID.Valid {
			c := &citizens[len(citizens)-1]
			c.Path = append(c.Path, domain.StopID(stopID.Int64))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list citizens: row iteration: %w", err)
	}

	return citizens, nil
}
