package dto

import (
	"time"

	connectionDomain "github.com/allisson/nexusdb/internal/connection/domain"
)

// ConnectionResponse is the public view of a connection. The password, encrypted or
// not, is never returned; HasPassword reports whether one is stored.
type ConnectionResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	DBType       string    `json:"db_type"`
	Host         *string   `json:"host"`
	Port         *int      `json:"port"`
	Username     *string   `json:"username"`
	DatabaseName *string   `json:"database_name"`
	Status       string    `json:"status"`
	HasPassword  bool      `json:"has_password"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MapConnectionToResponse converts a domain connection to its public view.
func MapConnectionToResponse(conn *connectionDomain.Connection) ConnectionResponse {
	return ConnectionResponse{
		ID:           conn.ID.String(),
		Name:         conn.Name,
		DBType:       string(conn.DBType),
		Host:         conn.Host,
		Port:         conn.Port,
		Username:     conn.Username,
		DatabaseName: conn.DatabaseName,
		Status:       conn.Status,
		HasPassword:  conn.HasPassword(),
		CreatedAt:    conn.CreatedAt,
		UpdatedAt:    conn.UpdatedAt,
	}
}

// MapConnectionsToResponse converts a page of connections.
func MapConnectionsToResponse(conns []*connectionDomain.Connection) []ConnectionResponse {
	out := make([]ConnectionResponse, 0, len(conns))
	for _, conn := range conns {
		out = append(out, MapConnectionToResponse(conn))
	}
	return out
}

// QueryResultResponse is the body returned by execute.
type QueryResultResponse struct {
	Columns         []string         `json:"columns"`
	Rows            []map[string]any `json:"rows"`
	ExecutionTimeMs int64            `json:"execution_time_ms"`
	RowsCount       int              `json:"rows_count"`
}

// MapQueryResultToResponse converts a query result.
func MapQueryResultToResponse(result *connectionDomain.QueryResult) QueryResultResponse {
	return QueryResultResponse{
		Columns:         result.Columns,
		Rows:            result.Rows,
		ExecutionTimeMs: result.ExecutionTimeMs,
		RowsCount:       result.RowsCount,
	}
}
