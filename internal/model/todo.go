// Package model defines the todo item type and its request bodies.
package model

// Todo is a single named, completable task. The JSON field names are part
// of the wire contract consumed by the browser clients.
type Todo struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	IsComplete bool   `json:"isComplete"`
}

// CreateRequest is the body accepted by POST /api/todos.
type CreateRequest struct {
	Name string `json:"name"`
}

// CompletionRequest is the body accepted by POST /api/todos/{id}. Only
// IsComplete is applied; any other fields sent by clients are ignored.
type CompletionRequest struct {
	IsComplete bool `json:"isComplete"`
}
