package batch

import (
	"strings"
	"unicode"
)

// Kind classifies a SQL statement by its leading keyword. The classification
// drives which engine primitive executes the statement; anything that is not
// in the fixed vocabulary (including SELECT) runs as a raw query.
type Kind int

const (
	KindRaw Kind = iota
	KindUpdate
	KindInsert
	KindDelete
	KindBegin
	KindCommit
	KindRollback
)

var kindByToken = map[string]Kind{
	"update":   KindUpdate,
	"insert":   KindInsert,
	"delete":   KindDelete,
	"begin":    KindBegin,
	"commit":   KindCommit,
	"rollback": KindRollback,
}

// KindOf returns the statement kind for query. Only the first
// whitespace-delimited token is inspected, case-insensitively; there is no
// SQL parsing beyond that.
func KindOf(query string) Kind {
	if kind, ok := kindByToken[strings.ToLower(firstToken(query))]; ok {
		return kind
	}
	return KindRaw
}

func firstToken(query string) string {
	start := -1
	for i, r := range query {
		if unicode.IsSpace(r) {
			if start >= 0 {
				return query[start:i]
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		return query[start:]
	}
	return ""
}
