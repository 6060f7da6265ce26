// Package imagecodec converts image files to and from pixbuf.Buffer.
//
// Decoded images are unpacked to three bytes per pixel (R, G, B) with each
// row padded to a four byte boundary, the same layout a 24-bit BMP uses on
// disk. Alpha is dropped on decode and written back as fully opaque, so the
// contrast transform never touches transparency.
//
// Outputs are written to a temporary sibling and renamed into place while an
// advisory flock is held, so two processes targeting the same path cannot
// interleave writes and a failed run never leaves a truncated file behind.
package imagecodec
