package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"fabtopo/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// ============================================================================
// JSON Marshaling Helpers
// ============================================================================

// unmarshalJSONField safely unmarshals JSON from nullable string into target
func unmarshalJSONField(ns sql.NullString, target interface{}) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), target)
}

// marshalToNull marshals a slice to a nullable JSON string.
// Returns empty NullString for nil or empty slices.
func marshalToNull[T any](v []T) (sql.NullString, error) {
	if len(v) == 0 {
		return sql.NullString{}, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// ============================================================================
// Schema Evolution Guide
// ============================================================================
//
// To add a new column to the nodes table:
// 1. Add field to nodeRow struct (below)
// 2. Update scanArgs() - APPEND to end to match column order
// 3. Update nodeColumns constant - APPEND to end
// 4. Update toDomain() to map new field to domain.Node
// 5. Update nodeInsertArgs() and the INSERT in SaveRun
// 6. Add the column to the schema in sqlite.go migrate()
//
// CRITICAL: Column order must match between:
// - nodeColumns constant
// - scanArgs() return slice
// - All SELECT queries using nodeColumns
//
// Same pattern applies to links and runs.

// ============================================================================
// Run Row Scanner
// ============================================================================

// runRow holds all columns from a run query for scanning
type runRow struct {
	ID              string
	CreatedAt       int64
	Source          sql.NullString
	Format          string
	Mode            string
	Label           string
	DiagnosticsJSON sql.NullString
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match runColumns order exactly:
// id, created_at, source, format, mode, label, diagnostics
func (r *runRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,              // 1
		&r.CreatedAt,       // 2
		&r.Source,          // 3
		&r.Format,          // 4
		&r.Mode,            // 5
		&r.Label,           // 6
		&r.DiagnosticsJSON, // 7
	}
}

// toDomain converts the scanned row to a domain.RunInfo without subnets or
// partitions
func (r *runRow) toDomain() (*domain.RunInfo, error) {
	info := &domain.RunInfo{
		ID:        r.ID,
		CreatedAt: time.Unix(0, r.CreatedAt).UTC(),
		Source:    nullToString(r.Source),
		Format:    r.Format,
		Mode:      r.Mode,
		Label:     r.Label,
	}

	if err := unmarshalJSONField(r.DiagnosticsJSON, &info.Diagnostics); err != nil {
		return nil, fmt.Errorf("unmarshal diagnostics: %w", err)
	}

	return info, nil
}

// runColumns returns the SELECT column list for run queries
const runColumns = `id, created_at, source, format, mode, label, diagnostics`

// ============================================================================
// Node Row Scanner
// ============================================================================

// nodeRow holds all columns from a node query for scanning
type nodeRow struct {
	ID             string
	Description    string
	Name           sql.NullString
	TypeCode       int
	Capacity       int
	PartitionsJSON sql.NullString
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match nodeColumns order exactly:
// id, description, name, type_code, capacity, partitions
func (r *nodeRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,             // 1
		&r.Description,    // 2
		&r.Name,           // 3
		&r.TypeCode,       // 4
		&r.Capacity,       // 5
		&r.PartitionsJSON, // 6
	}
}

// toDomain converts the scanned row to a domain.Node
func (r *nodeRow) toDomain() (*domain.Node, error) {
	node := &domain.Node{
		ID:          r.ID,
		Description: r.Description,
		Name:        nullToString(r.Name),
		Type:        domain.NodeType(r.TypeCode),
		Capacity:    r.Capacity,
	}

	if err := unmarshalJSONField(r.PartitionsJSON, &node.Partitions); err != nil {
		return nil, fmt.Errorf("unmarshal partitions: %w", err)
	}

	return node, nil
}

// nodeColumns returns the SELECT column list for node queries
const nodeColumns = `id, description, name, type_code, capacity, partitions`

// ============================================================================
// Link Row Scanner
// ============================================================================

// linkRow holds all columns from a directed link query for scanning
type linkRow struct {
	ID      int
	OtherID int
	SrcID   string
	SrcPort string
	DstID   string
	DstPort string
	Width   sql.NullString
	Speed   sql.NullString
	Gbits   int
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match linkColumns order exactly:
// id, other_id, src_id, src_port, dst_id, dst_port, width, speed, gbits
func (r *linkRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,      // 1
		&r.OtherID, // 2
		&r.SrcID,   // 3
		&r.SrcPort, // 4
		&r.DstID,   // 5
		&r.DstPort, // 6
		&r.Width,   // 7
		&r.Speed,   // 8
		&r.Gbits,   // 9
	}
}

// toDomain converts the scanned row to a domain.DirectedLink
func (r *linkRow) toDomain() domain.DirectedLink {
	return domain.DirectedLink{
		ID:      r.ID,
		OtherID: r.OtherID,
		Src:     domain.Endpoint{NodeID: r.SrcID, Port: r.SrcPort},
		Dst:     domain.Endpoint{NodeID: r.DstID, Port: r.DstPort},
		Width:   nullToString(r.Width),
		Speed:   nullToString(r.Speed),
		Gbits:   r.Gbits,
	}
}

// linkColumns returns the SELECT column list for link queries
const linkColumns = `id, other_id, src_id, src_port, dst_id, dst_port, width, speed, gbits`

// ============================================================================
// Write Helpers
// ============================================================================

// nodeInsertArgs prepares arguments for node INSERT
// Returns: run_id, subnet, position, id, description, name, type_code, capacity, partitions
func nodeInsertArgs(runID, subnet string, position int, node *domain.Node) ([]interface{}, error) {
	partitionsJSON, err := marshalToNull(node.Partitions)
	if err != nil {
		return nil, fmt.Errorf("marshal partitions: %w", err)
	}

	return []interface{}{
		runID,
		subnet,
		position,
		node.ID,
		node.Description,
		stringToNull(node.Name),
		node.Type.Code(),
		node.Capacity,
		partitionsJSON,
	}, nil
}

// linkInsertArgs prepares arguments for link INSERT
// Returns: run_id, subnet, id, other_id, src_id, src_port, dst_id, dst_port, width, speed, gbits
func linkInsertArgs(runID, subnet string, l domain.DirectedLink) []interface{} {
	return []interface{}{
		runID,
		subnet,
		l.ID,
		l.OtherID,
		l.Src.NodeID,
		l.Src.Port,
		l.Dst.NodeID,
		l.Dst.Port,
		stringToNull(l.Width),
		stringToNull(l.Speed),
		l.Gbits,
	}
}
