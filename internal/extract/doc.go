// Package extract provides timeout-protected text extraction profiles
// over an injectable OCR engine.
//
// Two profiles are built in: Accurate maximizes correctness for
// document-like images, Fast minimizes latency for repeated screen
// captures. Both flatten every failure kind (timeout, engine error,
// unreadable file) into a failed Result plus a logged warning, because
// callers use OCR opportunistically and treat a miss as "try again next
// cycle" or "skip this image". BatchExtractor applies a profile over an
// ordered image sequence with per-item failure isolation.
package extract
