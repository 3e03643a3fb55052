package seedwire

import "github.com/tuannm99/seedsql/pkg/ast"

// ParseRequest asks the server to parse one source text.
type ParseRequest struct {
	ID  uint64 `json:"id"`
	SQL string `json:"sql"`
}

// ParseResponse carries either the document or the error for a request ID.
// Kind names the parser error kind ("value error", ...) when one is known.
type ParseResponse struct {
	ID       uint64        `json:"id"`
	Document *ast.Document `json:"document,omitempty"`
	Error    string        `json:"error,omitempty"`
	Kind     string        `json:"kind,omitempty"`
	Cached   bool          `json:"cached,omitempty"`
}
