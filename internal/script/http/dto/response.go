package dto

import (
	"time"

	scriptDomain "github.com/allisson/nexusdb/internal/script/domain"
)

// ScriptResponse is the public view of a script.
type ScriptResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Query     string    `json:"query"`
	DBType    string    `json:"db_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MapScriptToResponse converts a domain script to its public view.
func MapScriptToResponse(script *scriptDomain.Script) ScriptResponse {
	return ScriptResponse{
		ID:        script.ID.String(),
		Name:      script.Name,
		Query:     script.Query,
		DBType:    string(script.DBType),
		CreatedAt: script.CreatedAt,
		UpdatedAt: script.UpdatedAt,
	}
}

// MapScriptsToResponse converts a page of scripts.
func MapScriptsToResponse(scripts []*scriptDomain.Script) []ScriptResponse {
	out := make([]ScriptResponse, 0, len(scripts))
	for _, script := range scripts {
		out = append(out, MapScriptToResponse(script))
	}
	return out
}
