// Package ocr defines the OCR engine port and its Tesseract-backed
// implementation.
//
// The Engine interface is deliberately narrow: one blocking Recognize
// call taking a decoded image and a per-call Config (language, page
// segmentation, optional character whitelist). Higher layers inject the
// engine so tests can substitute a stub, and bound its blocking call
// with a guard.Guard since native recognition cannot be cancelled.
//
// # Prerequisites
//
// The Tesseract implementation requires the native library and language
// data to be installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
package ocr
