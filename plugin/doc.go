// Package plugin is the host-runtime facing surface of the bridge. It keeps
// a registry of named database handles and exposes the plugin actions: open,
// close, delete and executeSqlBatch. Batch outcomes are delivered exactly
// once through a caller-provided Sink as a JSON list of
// {qid, type, result} entries, matching the wire format the JavaScript
// plugin layer expects.
package plugin
