package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"fabtopo/internal/domain"
	"fabtopo/internal/repository"
)

// Repository implements repository.Archive using SQLite
type Repository struct {
	db *sql.DB
}

var _ repository.Archive = (*Repository)(nil)

// New opens (creating if needed) an SQLite archive. ":memory:" gives a
// private in-memory archive.
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn = "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory database exists per connection
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	PRAGMA foreign_keys = ON;

	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		source TEXT,
		format TEXT NOT NULL,
		mode TEXT NOT NULL,
		label TEXT NOT NULL,
		diagnostics JSON
	);

	CREATE TABLE IF NOT EXISTS subnets (
		run_id TEXT NOT NULL,
		id TEXT NOT NULL,
		position INTEGER NOT NULL,
		nodes INTEGER NOT NULL,
		adjacencies INTEGER NOT NULL,
		directed_links INTEGER NOT NULL,
		path TEXT,
		digest TEXT,
		bytes INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, id),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS nodes (
		run_id TEXT NOT NULL,
		subnet TEXT NOT NULL,
		position INTEGER NOT NULL,
		id TEXT NOT NULL,
		description TEXT NOT NULL,
		name TEXT,
		type_code INTEGER NOT NULL,
		capacity INTEGER NOT NULL,
		partitions JSON,
		PRIMARY KEY (run_id, subnet, id),
		FOREIGN KEY (run_id, subnet) REFERENCES subnets(run_id, id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS links (
		run_id TEXT NOT NULL,
		subnet TEXT NOT NULL,
		id INTEGER NOT NULL,
		other_id INTEGER NOT NULL,
		src_id TEXT NOT NULL,
		src_port TEXT NOT NULL,
		dst_id TEXT NOT NULL,
		dst_port TEXT NOT NULL,
		width TEXT,
		speed TEXT,
		gbits INTEGER NOT NULL,
		PRIMARY KEY (run_id, id),
		FOREIGN KEY (run_id, subnet) REFERENCES subnets(run_id, id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS partitions (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		PRIMARY KEY (run_id, name),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_nodes_subnet ON nodes(run_id, subnet, position);
	CREATE INDEX IF NOT EXISTS idx_links_subnet ON links(run_id, subnet, id);
	`

	_, err := r.db.Exec(schema)
	return err
}

// SaveRun stores a run with its topology in a single transaction
func (r *Repository) SaveRun(ctx context.Context, run *domain.Run) error {
	if run == nil || run.Topology == nil {
		return errors.New("run and topology are required")
	}

	diagnosticsJSON, err := marshalToNull(run.Diagnostics)
	if err != nil {
		return fmt.Errorf("marshal diagnostics: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, source, format, mode, label, diagnostics)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.CreatedAt.UnixNano(), stringToNull(run.Source), run.Format, run.Mode,
		run.Topology.Label, diagnosticsJSON)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	files := make(map[string]domain.OutputFile, len(run.Files))
	for _, f := range run.Files {
		files[f.Subnet] = f
	}

	nodePos := 0
	for i, subnet := range run.Topology.Subnets() {
		file := files[subnet.ID]
		_, err = tx.ExecContext(ctx, `
			INSERT INTO subnets (run_id, id, position, nodes, adjacencies, directed_links, path, digest, bytes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, subnet.ID, i, subnet.Nodes.Len(), subnet.Links.Len(), subnet.Links.LinkCount(),
			stringToNull(file.Path), stringToNull(file.Digest), file.Bytes)
		if err != nil {
			return fmt.Errorf("failed to insert subnet %s: %w", subnet.ID, err)
		}

		for _, node := range subnet.Nodes.Nodes() {
			args, err := nodeInsertArgs(run.ID, subnet.ID, nodePos, node)
			if err != nil {
				return fmt.Errorf("node %s: %w", node.ID, err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO nodes (run_id, subnet, position, id, description, name, type_code, capacity, partitions)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, args...)
			if err != nil {
				return fmt.Errorf("failed to insert node %s: %w", node.ID, err)
			}
			nodePos++
		}

		for _, link := range subnet.Links.DirectedLinks() {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO links (run_id, subnet, id, other_id, src_id, src_port, dst_id, dst_port, width, speed, gbits)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, linkInsertArgs(run.ID, subnet.ID, link)...)
			if err != nil {
				return fmt.Errorf("failed to insert link %d: %w", link.ID, err)
			}
		}
	}

	for i, name := range run.Topology.Partitions() {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO partitions (run_id, position, name) VALUES (?, ?, ?)
		`, run.ID, i, name)
		if err != nil {
			return fmt.Errorf("failed to insert partition %s: %w", name, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns archived runs, newest first. A limit of zero or less
// returns every run.
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]*domain.RunInfo, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}

	var runs []*domain.RunInfo
	for rows.Next() {
		var row runRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		info, err := row.toDomain()
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("run %s: %w", row.ID, err)
		}
		runs = append(runs, info)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	// Release the connection before loading details
	rows.Close()

	for _, info := range runs {
		if err := r.loadRunDetails(ctx, info); err != nil {
			return nil, err
		}
	}

	return runs, nil
}

// GetRun returns a single run with its subnets and partitions
func (r *Repository) GetRun(ctx context.Context, id string) (*domain.RunInfo, error) {
	var row runRow
	err := r.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE id = ?
	`, id).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", repository.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	info, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}
	if err := r.loadRunDetails(ctx, info); err != nil {
		return nil, err
	}

	return info, nil
}

func (r *Repository) loadRunDetails(ctx context.Context, info *domain.RunInfo) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, nodes, adjacencies, directed_links, path, digest, bytes
		FROM subnets
		WHERE run_id = ?
		ORDER BY position
	`, info.ID)
	if err != nil {
		return fmt.Errorf("failed to query subnets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			s            domain.SubnetInfo
			path, digest sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Nodes, &s.Adjacencies, &s.DirectedLinks, &path, &digest, &s.Bytes); err != nil {
			return fmt.Errorf("failed to scan subnet: %w", err)
		}
		s.Path = nullToString(path)
		s.Digest = nullToString(digest)
		info.Subnets = append(info.Subnets, s)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating subnets: %w", err)
	}
	rows.Close()

	partRows, err := r.db.QueryContext(ctx, `
		SELECT name FROM partitions WHERE run_id = ? ORDER BY position
	`, info.ID)
	if err != nil {
		return fmt.Errorf("failed to query partitions: %w", err)
	}
	defer partRows.Close()

	info.Partitions = []string{}
	for partRows.Next() {
		var name string
		if err := partRows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan partition: %w", err)
		}
		info.Partitions = append(info.Partitions, name)
	}

	return partRows.Err()
}

// ListNodes returns the nodes of a run in registration order. An empty
// subnet selects every subnet.
func (r *Repository) ListNodes(ctx context.Context, runID, subnet string) ([]*domain.Node, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+nodeColumns+`
		FROM nodes
		WHERE run_id = ? AND (? = '' OR subnet = ?)
		ORDER BY position
	`, runID, subnet, subnet)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	var nodes []*domain.Node
	for rows.Next() {
		var row nodeRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		node, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", row.ID, err)
		}
		nodes = append(nodes, node)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nodes: %w", err)
	}

	return nodes, nil
}

// ListLinks returns the directed links of a run ordered by link id. An empty
// subnet selects every subnet.
func (r *Repository) ListLinks(ctx context.Context, runID, subnet string) ([]domain.DirectedLink, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+linkColumns+`
		FROM links
		WHERE run_id = ? AND (? = '' OR subnet = ?)
		ORDER BY id
	`, runID, subnet, subnet)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	var links []domain.DirectedLink
	for rows.Next() {
		var row linkRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, row.toDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
