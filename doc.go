// Package wad reads and extracts the "RW" flat archive container used to
// bundle game assets: a versioned header, a fixed-size table of chunk
// metadata, and per-chunk compressed payloads scattered through the file.
//
// Chunks are identified by a 64-bit hash of their original path (see the
// [github.com/hexrift/wad/wadhash] subpackage). Given a lookup table or a
// bulk resolver, hashes are turned back into human-readable paths before
// extraction; unresolved chunks are extracted under their hex identity
// with a content-sniffed extension.
//
// # Quick start
//
// Extract a whole archive:
//
//	x := wad.NewExtractor(
//	    wad.WithLookup(tables),
//	    wad.WithEvents(func(e wad.Event) { fmt.Println(e.Message) }),
//	)
//	res, err := x.Extract(ctx, "Aatrox.wad.client", "./out")
//	if err != nil {
//	    return err // unreadable file, bad signature, or unsupported version
//	}
//	fmt.Printf("extracted %d, skipped %d\n", res.ExtractedCount, res.SkippedCount)
//
// Per-chunk failures never abort the job; they are reported through the
// event stream and counted in [Result.SkippedCount].
//
// # Memory model
//
// Extraction streams: only the header prefix is buffered up front, and
// decompressed payloads live from their chunk's read until its write
// settles. A counting semaphore on the write stage bounds peak live
// plaintext to (decompress workers + write slots) buffers regardless of
// archive size.
package wad
