// Package textutil provides text processing utilities for path sanitization
// and fuzzy title matching.
//
// The primary use cases are:
//   - Sanitizing catalog values (game names, platforms, regions, image types)
//     into safe filesystem path segments
//   - Creating token-based fingerprints from game titles for comparison
//   - Computing cosine similarity between fingerprints to rank search matches
//
// Fingerprints use term frequency vectors normalized for efficient comparison.
// The tokenization process lowercases text, splits on non-alphanumeric
// characters, and filters tokens shorter than 2 characters.
package textutil
