// Package imaging provides image loading, caching, and the
// preprocessing operations applied before text extraction.
//
// Preprocessing trades accuracy against latency: the accuracy-first
// profile converts to color, optionally enhances document contrast,
// and downscales oversized images with a high-quality Lanczos filter;
// the latency-first profile converts to grayscale, inverts dark
// screen captures, and downscales with nearest-neighbor resampling.
// Downscaling always preserves aspect ratio and never upscales.
//
// # Thread Safety
//
// Cache is safe for concurrent use. The preprocessing functions are
// stateless and never mutate their input image.
//
// # Performance Considerations
//
// For repeated operations on the same file, load through a Cache to
// avoid redundant disk reads. Large images consume significant memory
// when cached; long-running processes should Evict or Clear entries
// they no longer need.
package imaging
