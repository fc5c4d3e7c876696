package main

// Small end-to-end demo: opens a throwaway database, runs one batch through
// the bridge and prints the aggregated JSON result.

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path"

	"github.com/liteglue/spatialbridge/plugin"
)

type printSink struct{}

func (printSink) Success(result json.RawMessage) {
	var pretty []map[string]any
	if err := json.Unmarshal(result, &pretty); err != nil {
		fmt.Println(string(result))
		return
	}
	out, _ := json.MarshalIndent(pretty, "", "  ")
	fmt.Println(string(out))
}

func (printSink) Error(message string) {
	fmt.Fprintln(os.Stderr, "batch failed:", message)
}

func main() {
	dir, err := os.MkdirTemp("", "spatialbridge-demo")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	bridge := plugin.NewBridge()
	if err := bridge.Open("demo", path.Join(dir, "demo.db")); err != nil {
		log.Fatal(err)
	}
	defer bridge.Close("demo")

	bridge.ExecuteSqlBatch(context.Background(), "demo", plugin.BatchRequest{
		Queries: []string{
			"CREATE TABLE places (name TEXT, rating INTEGER)",
			"BEGIN",
			"INSERT INTO places (name, rating) VALUES (?, ?)",
			"INSERT INTO places (name, rating) VALUES (?, ?)",
			"COMMIT",
			"UPDATE places SET rating = ? WHERE name = ?",
			"SELECT name, rating FROM places ORDER BY rating DESC",
		},
		Params: [][]any{
			nil,
			nil,
			{"harbor", 4},
			{"hilltop", 5},
			nil,
			{3, "harbor"},
			nil,
		},
		QueryIDs: []string{"create", "begin", "ins1", "ins2", "commit", "update", "select"},
	}, printSink{})
}
