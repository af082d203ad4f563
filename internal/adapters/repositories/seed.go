package repositories

import (
	"commuter-destination-service/internal/domain"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

type PositionSeed struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type StopSeed struct {
	StopID   int          `json:"stop_id"`
	Position PositionSeed `json:"position"`
	Mode     string       `json:"mode"`
	LineID   int          `json:"line_id"`
}

type LineSeed struct {
	LineID int    `json:"line_id"`
	Mode   string `json:"mode"`
	Stops  []int  `json:"stops"`
}

type CitizenSeed struct {
	InstanceID     int          `json:"instance_id"`
	Position       PositionSeed `json:"position"`
	Waiting        bool         `json:"waiting"`
	BoardingDenied bool         `json:"boarding_denied"`
	Mode           string       `json:"mode"`
	TargetBuilding int          `json:"target_building"`
	WaitTarget     PositionSeed `json:"wait_target"`
	Path           []int        `json:"path"`
}

type WorldSeed struct {
	Stops    []StopSeed    `json:"stops"`
	Lines    []LineSeed    `json:"lines"`
	Citizens []CitizenSeed `json:"citizens"`
}

func (p PositionSeed) position() domain.Position {
	return domain.Position{X: p.X, Y: p.Y, Z: p.Z}
}

func (c CitizenSeed) flags() domain.CitizenFlags {
	f := domain.FlagCreated
	if c.Waiting {
		f |= domain.FlagWaitingTransport
	}
	if c.BoardingDenied {
		f |= domain.FlagBoardingDenied
	}
	return f
}

// Convert seed records into validated world data.
func (s WorldSeed) WorldData() (*domain.WorldData, error) {
	data := &domain.WorldData{
		Stops:    make([]domain.Stop, 0, len(s.Stops)),
		Lines:    make([]domain.TransitLine, 0, len(s.Lines)),
		Citizens: make([]domain.CitizenInstance, 0, len(s.Citizens)),
	}

	for i, st := range s.Stops {
		id, err := handle(st.StopID)
		if err != nil {
			return nil, fmt.Errorf("world seed: stop at index %d: %w", i+1, err)
		}
		lineID, err := handle(st.LineID)
		if err != nil {
			return nil, fmt.Errorf("world seed: stop_id=%d line: %w", id, err)
		}
		mode, err := domain.ParseTransportMode(st.Mode)
		if err != nil {
			return nil, fmt.Errorf("world seed: stop_id=%d: %w", id, err)
		}
		data.Stops = append(data.Stops, domain.Stop{
			ID:       domain.StopID(id),
			Position: st.Position.position(),
			Mode:     mode,
			LineID:   domain.LineID(lineID),
		})
	}

	for i, l := range s.Lines {
		id, err := handle(l.LineID)
		if err != nil {
			return nil, fmt.Errorf("world seed: line at index %d: %w", i+1, err)
		}
		mode, err := domain.ParseTransportMode(l.Mode)
		if err != nil {
			return nil, fmt.Errorf("world seed: line_id=%d: %w", id, err)
		}
		stops, err := stopIDs(l.Stops)
		if err != nil {
			return nil, fmt.Errorf("world seed: line_id=%d stops: %w", id, err)
		}
		data.Lines = append(data.Lines, domain.TransitLine{ID: domain.LineID(id), Mode: mode, Stops: stops})
	}

	for i, c := range s.Citizens {
		id, err := handle(c.InstanceID)
		if err != nil {
			return nil, fmt.Errorf("world seed: citizen at index %d: %w", i+1, err)
		}
		mode, err := domain.ParseTransportMode(c.Mode)
		if err != nil {
			return nil, fmt.Errorf("world seed: instance_id=%d: %w", id, err)
		}
		if c.TargetBuilding < 0 || c.TargetBuilding > 0xFFFF {
			return nil, fmt.Errorf("world seed: instance_id=%d: target_building %d out of range", id, c.TargetBuilding)
		}
		path, err := stopIDs(c.Path)
		if err != nil {
			return nil, fmt.Errorf("world seed: instance_id=%d path: %w", id, err)
		}
		data.Citizens = append(data.Citizens, domain.CitizenInstance{
			ID:             domain.CitizenInstanceID(id),
			Position:       c.Position.position(),
			Flags:          c.flags(),
			Mode:           mode,
			TargetBuilding: domain.BuildingID(c.TargetBuilding),
			WaitTarget:     c.WaitTarget.position(),
			Path:           path,
		})
	}

	return data, nil
}

// Read a world seed file.
func ReadSeed(jsonPath string) (*WorldSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read seed: read %q: %w", jsonPath, err)
	}

	var seed WorldSeed
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return nil, fmt.Errorf("read seed: parse json: %w", err)
	}
	return &seed, nil
}

// Populate the database with world data from a JSON seed file.
func SeedFromJSON(ctx context.Context, db *sql.DB, driver string, jsonPath string) error {
	seed, err := ReadSeed(jsonPath)
	if err != nil {
		return fmt.Errorf("seed world: %w", err)
	}

	data, err := seed.WorldData()
	if err != nil {
		return fmt.Errorf("seed world: %w", err)
	}

	if err := WriteWorld(ctx, db, driver, data); err != nil {
		return fmt.Errorf("seed world: %w", err)
	}
	return nil
}

// Upsert every record of data in a single transaction.
func WriteWorld(ctx context.Context, db *sql.DB, driver string, data *domain.WorldData) error {
	if db == nil {
		return errors.New("write world: DB is nil")
	}
	d := dialectFor(driver)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write world: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stopStmt, err := tx.PrepareContext(ctx, d.rebind(`
	INSERT INTO stops (stop_id, x, y, z, mode, line_id)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (stop_id) DO UPDATE
	SET x = excluded.x, y = excluded.y, z = excluded.z,
		mode = excluded.mode, line_id = excluded.line_id;
	`))
	if err != nil {
		return fmt.Errorf("write world: prepare stops: %w", err)
	}
	defer stopStmt.Close()

	for _, st := range data.Stops {
		p := st.Position
		if _, err := stopStmt.ExecContext(ctx, int(st.ID), p.X, p.Y, p.Z, st.Mode.String(), int(st.LineID)); err != nil {
			return fmt.Errorf("write world: insert stop_id=%d: %w", st.ID, err)
		}
	}

	for _, l := range data.Lines {
		if err := writeLine(ctx, tx, d, l); err != nil {
			return fmt.Errorf("write world: %w", err)
		}
	}

	for _, c := range data.Citizens {
		if err := writeCitizen(ctx, tx, d, c); err != nil {
			return fmt.Errorf("write world: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write world: commit tx: %w", err)
	}
	return nil
}

func writeLine(ctx context.Context, tx *sql.Tx, d dialect, l domain.TransitLine) error {
	if _, err := tx.ExecContext(ctx, d.rebind(`
	INSERT INTO transit_lines (line_id, mode) VALUES (?, ?)
	ON CONFLICT (line_id) DO UPDATE SET mode = excluded.mode;
	`), int(l.ID), l.Mode.String()); err != nil {
		return fmt.Errorf("insert line_id=%d: %w", l.ID, err)
	}

	if _, err := tx.ExecContext(ctx, d.rebind(`DELETE FROM line_stops WHERE line_id = ?;`), int(l.ID)); err != nil {
		return fmt.Errorf("clear stops of line_id=%d: %w", l.ID, err)
	}
	for seq, stopID := range l.Stops {
		if _, err := tx.ExecContext(ctx, d.rebind(`
		INSERT INTO line_stops (line_id, seq, stop_id) VALUES (?, ?, ?);
		`), int(l.ID), seq, int(stopID)); err != nil {
			return fmt.Errorf("insert line_id=%d seq=%d: %w", l.ID, seq, err)
		}
	}
	return nil
}

func writeCitizen(ctx context.Context, tx *sql.Tx, d dialect, c domain.CitizenInstance) error {
	p, w := c.Position, c.WaitTarget
	if _, err := tx.ExecContext(ctx, d.rebind(`
	INSERT INTO citizen_instances (
		instance_id, x, y, z, flags, mode, target_building, wait_x, wait_y, wait_z
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (instance_id) DO UPDATE
	SET x = excluded.x, y = excluded.y, z = excluded.z,
		flags = excluded.flags, mode = excluded.mode,
		target_building = excluded.target_building,
		wait_x = excluded.wait_x, wait_y = excluded.wait_y, wait_z = excluded.wait_z;
	`), int(c.ID), p.X, p.Y, p.Z, int64(c.Flags), c.Mode.String(), int(c.TargetBuilding), w.X, w.Y, w.Z); err != nil {
		return fmt.Errorf("insert instance_id=%d: %w", c.ID, err)
	}

	if _, err := tx.ExecContext(ctx, d.rebind(`DELETE FROM citizen_path WHERE instance_id = ?;`), int(c.ID)); err != nil {
		return fmt.Errorf("clear path of instance_id=%d: %w", c.ID, err)
	}
	for seq, stopID := range c.Path {
		if _, err := tx.ExecContext(ctx, d.rebind(`
		INSERT INTO citizen_path (instance_id, seq, stop_id) VALUES (?, ?, ?);
		`), int(c.ID), seq, int(stopID)); err != nil {
			return fmt.Errorf("insert path instance_id=%d seq=%d: %w", c.ID, seq, err)
		}
	}
	return nil
}

// Validate a 16-bit world handle. Zero is reserved for "none".
func handle(v int) (int, error) {
	if v <= 0 || v > 0xFFFF {
		return 0, fmt.Errorf("id %d out of range [1, 65535]", v)
	}
	return v, nil
}

func stopIDs(raw []int) ([]domain.StopID, error) {
	out := make([]domain.StopID, 0, len(raw))
	for _, v := range raw {
		id, err := handle(v)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.StopID(id))
	}
	return out, nil
}

type dialect struct{ dollar bool }

// Drivers other than pgx use SQLite-style "?" placeholders.
func dialectFor(driver string) dialect {
	return dialect{dollar: strings.EqualFold(driver, "pgx")}
}

// Rewrite "?" placeholders into "$n" for PostgreSQL.
func (d dialect) rebind(q string) string {
	if !d.dollar {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
