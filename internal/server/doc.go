// Package server implements the MCP (Model Context Protocol) stdio
// server exposing timeout-protected text extraction as tools.
//
// The server speaks JSON-RPC 2.0 over newline-delimited frames on
// stdin/stdout; diagnostics must therefore go to stderr. Tools mirror
// the library surface: text_extract (accuracy-first),
// text_extract_fast (latency-first), text_extract_batch, plus image
// inspection and engine diagnostics. Extraction tools never fail the
// RPC for a timeout or engine error; those are reported inside the
// result with succeeded=false, matching the library's best-effort
// contract.
package server
