package wad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/hexrift/wad/codec"
	"github.com/hexrift/wad/internal/fsio"
	"github.com/hexrift/wad/internal/plan"
)

const (
	// DefaultDecompressWorkers is the decompression pool size.
	DefaultDecompressWorkers = 8

	// DefaultWriteSlots is the write-stage semaphore capacity. Peak live
	// decompressed buffers are bounded by workers + slots.
	DefaultWriteSlots = 16

	// SidecarName is the JSON file written beside extracted assets when
	// any chunk fell back to a hash-derived name. It maps the fallback
	// basename to the resolved path the filesystem could not store.
	SidecarName = "hashed_files.json"

	// headerPrefixSize bounds the up-front read covering header and chunk
	// table. Real tables run well under 4MiB.
	headerPrefixSize = 4 << 20

	progressInterval = 200 * time.Millisecond

	// dirWorkers bounds the parallel MkdirAll fan-out before the pipeline
	// starts.
	dirWorkers = 8
)

// Extractor extracts WAD archives to a directory tree. Construct with
// NewExtractor; the zero value is not usable. An Extractor is safe for
// sequential reuse across archives; concurrent Extract calls on one
// Extractor are not supported.
type Extractor struct {
	fs       fsio.FS
	provider *codec.Provider
	lookup   Lookup
	resolver Resolver
	filter   func(*Chunk) bool
	events   EventFunc
	logger   *slog.Logger

	replaceExisting   bool
	decompressWorkers int
	writeSlots        int
	resolveCadence    int
}

// NewExtractor creates an Extractor with the given options applied over
// defaults: OS filesystem, fresh codec provider, overwrite existing
// files, 8 decompress workers, 16 write slots.
func NewExtractor(opts ...Option) *Extractor {
	x := &Extractor{
		fs:                fsio.OS{},
		provider:          codec.NewProvider(),
		replaceExisting:   true,
		decompressWorkers: DefaultDecompressWorkers,
		writeSlots:        DefaultWriteSlots,
		resolveCadence:    defaultResolveCadence,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

func (x *Extractor) log() *slog.Logger {
	if x.logger != nil {
		return x.logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (x *Extractor) emit(e Event) {
	if x.events != nil {
		x.events(e)
	}
}

// Result summarizes a finished extraction job.
type Result struct {
	// Success is true whenever the archive itself was readable, even if
	// every chunk was skipped.
	Success bool

	ExtractedCount int
	SkippedCount   int

	// HashFallback is true when at least one chunk was written under its
	// hex hash instead of its resolved name.
	HashFallback bool

	OutputRoot string
}

// job pairs a chunk with its provisional destination.
type job struct {
	chunk *Chunk
	dest  plan.Path
}

// jobState is the mutable bookkeeping shared by pipeline goroutines.
type jobState struct {
	mu           sync.Mutex
	root         string
	total        int
	extracted    int
	skipped      int
	fallback     bool
	lastProgress time.Time
	sidecar      map[string]string
	written      map[string]bool
}

func (st *jobState) skip() {
	st.mu.Lock()
	st.skipped++
	st.mu.Unlock()
}

// claim reserves a finalized destination for exactly one writer. Planning
// dedupes provisional paths, but post-sniff extensions can converge two
// chunks onto one final path, so the write stage claims again.
func (st *jobState) claim(abs string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.written[abs] {
		return false
	}
	st.written[abs] = true
	return true
}

// Extract extracts the archive at archivePath under outputRoot.
//
// Only archive-level failures return an error: an unreadable file, a bad
// signature, an unsupported version, or context cancellation. Per-chunk
// failures are reported as events and counted in Result.SkippedCount;
// the job still succeeds.
func (x *Extractor) Extract(ctx context.Context, archivePath, outputRoot string) (*Result, error) {
	f, err := x.fs.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("wad: open archive: %w", err)
	}
	defer f.Close()

	archive, err := x.parsePrefix(f)
	if err != nil {
		return nil, err
	}
	x.log().Info("parsed archive",
		slog.String("path", archivePath),
		slog.Int("version", int(archive.Major)),
		slog.Int("chunks", len(archive.Chunks)))
	for comp, n := range archive.Histogram() {
		x.log().Debug("compression histogram",
			slog.String("type", comp.String()),
			slog.Int("count", n))
	}

	if err := x.resolveNames(ctx, archive); err != nil {
		return nil, err
	}

	st := &jobState{
		root:    filepath.Clean(outputRoot),
		sidecar: make(map[string]string),
		written: make(map[string]bool),
	}
	if err := x.fs.MkdirAll(st.root, 0o755); err != nil {
		return nil, fmt.Errorf("wad: create output root: %w", err)
	}

	jobs := x.planJobs(x.selectChunks(archive), st)
	st.total = len(jobs)

	x.precreateDirs(jobs)
	if err := x.provider.Init(); err != nil {
		return nil, fmt.Errorf("wad: init codecs: %w", err)
	}
	if err := x.runPipeline(ctx, f, jobs, st); err != nil {
		return nil, err
	}

	// Final progress event fires regardless of the throttle so consumers
	// always see the terminal count.
	x.emit(Event{Kind: EventProgress, Written: st.extracted, Total: st.total})

	x.cleanupDirs(jobs, st.root)
	x.writeSidecar(st)

	return &Result{
		Success:        true,
		ExtractedCount: st.extracted,
		SkippedCount:   st.skipped,
		HashFallback:   st.fallback,
		OutputRoot:     st.root,
	}, nil
}

// parsePrefix reads at most headerPrefixSize bytes and parses the table
// from them, keeping memory flat for multi-gigabyte archives.
func (x *Extractor) parsePrefix(f fsio.File) (*Archive, error) {
	size := f.Size()
	if size > headerPrefixSize {
		size = headerPrefixSize
	}
	buf := make([]byte, size)
	n, err := f.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("wad: read header: %w", err)
	}
	return Parse(buf[:n])
}

// resolveNames prefers the bulk resolver and degrades to the lookup
// tables when the resolver fails. Resolution failure is never fatal;
// chunks simply keep their hex identities.
func (x *Extractor) resolveNames(ctx context.Context, a *Archive) error {
	if x.resolver != nil {
		err := ResolveWith(a, x.resolver)
		if err == nil {
			return nil
		}
		x.log().Warn("bulk resolver failed", slog.Any("error", err))
		x.emit(Event{Kind: EventWarning, Message: "name resolution: " + err.Error()})
	}
	if x.lookup != nil {
		return ResolveNamesBatched(ctx, a, x.lookup, x.resolveCadence)
	}
	sortChunks(a)
	return nil
}

func (x *Extractor) selectChunks(a *Archive) []*Chunk {
	chunks := make([]*Chunk, 0, len(a.Chunks))
	for i := range a.Chunks {
		c := &a.Chunks[i]
		if x.filter != nil && !x.filter(c) {
			continue
		}
		chunks = append(chunks, c)
	}
	return chunks
}

// planJobs computes provisional destinations. Traversal attempts and
// destination collisions are skipped here, before any payload is read.
func (x *Extractor) planJobs(chunks []*Chunk, st *jobState) []job {
	jobs := make([]job, 0, len(chunks))
	seen := make(map[string]bool, len(chunks))
	for _, c := range chunks {
		dest, err := plan.New(st.root, c.Hash, c.HexHash(), c.Extension)
		if err != nil {
			st.skip()
			x.emit(Event{Kind: EventSkipped, Hash: c.HexHash(), Path: c.Hash, Message: err.Error()})
			x.log().Warn("unsafe destination", slog.String("name", c.Hash))
			continue
		}
		if seen[dest.Abs] {
			st.skip()
			x.emit(Event{Kind: EventSkipped, Hash: c.HexHash(), Path: dest.Rel, Message: "duplicate destination"})
			continue
		}
		seen[dest.Abs] = true
		jobs = append(jobs, job{chunk: c, dest: dest})
	}
	return jobs
}

func (x *Extractor) precreateDirs(jobs []job) {
	dirs := make(map[string]bool)
	for _, jb := range jobs {
		dirs[filepath.Dir(jb.dest.Abs)] = true
	}
	var g errgroup.Group
	g.SetLimit(dirWorkers)
	for dir := range dirs {
		dir := dir
		g.Go(func() error {
			if err := x.fs.MkdirAll(dir, 0o755); err != nil {
				x.log().Warn("mkdir failed", slog.String("dir", dir), slog.Any("error", err))
			}
			return nil
		})
	}
	_ = g.Wait()
}

// runPipeline is the two-stage pipeline: a bounded worker pool
// decompresses chunks and hands each buffer to its own write goroutine
// through a counting semaphore. Workers do not wait for writes; the
// semaphore alone throttles them once writers fall behind.
func (x *Extractor) runPipeline(ctx context.Context, f fsio.File, jobs []job, st *jobState) error {
	sem := semaphore.NewWeighted(int64(x.writeSlots))
	var writes sync.WaitGroup

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(x.decompressWorkers)
	for i := range jobs {
		jb := jobs[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := x.decompressChunk(f, jb.chunk)
			if err != nil {
				st.skip()
				x.emit(Event{Kind: EventSkipped, Hash: jb.chunk.HexHash(), Path: jb.chunk.Hash, Message: err.Error()})
				x.log().Warn("chunk skipped",
					slog.String("hash", jb.chunk.HexHash()),
					slog.Any("error", err))
				return nil
			}
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			writes.Add(1)
			go func() {
				defer writes.Done()
				defer sem.Release(1)
				x.writeChunk(jb, data, st)
			}()
			return nil
		})
	}
	err := g.Wait()
	writes.Wait()
	if err != nil {
		return fmt.Errorf("wad: extraction interrupted: %w", err)
	}
	return nil
}

func (x *Extractor) writeChunk(jb job, data []byte, st *jobState) {
	dest := jb.dest.Finalize(jb.chunk.Extension)

	if !st.claim(dest.Abs) {
		st.skip()
		x.emit(Event{Kind: EventSkipped, Hash: jb.chunk.HexHash(), Path: dest.Rel, Message: "duplicate destination"})
		return
	}

	if !x.replaceExisting {
		if _, err := x.fs.Stat(dest.Abs); err == nil {
			st.skip()
			x.emit(Event{Kind: EventSkipped, Hash: jb.chunk.HexHash(), Path: dest.Rel, Message: "destination exists"})
			return
		}
	}

	fellBack := dest.Fallback
	if err := x.fs.WriteFile(dest.Abs, data, 0o644); err != nil {
		// One retry under a hash-derived name covers length and charset
		// failures planning could not predict.
		retry := plan.FallbackFor(st.root, jb.chunk.Hash, jb.chunk.HexHash()).Finalize(jb.chunk.Extension)
		if retry.Abs == dest.Abs || !st.claim(retry.Abs) {
			x.skipWrite(jb, st, err)
			return
		}
		if err2 := x.fs.WriteFile(retry.Abs, data, 0o644); err2 != nil {
			x.skipWrite(jb, st, err)
			return
		}
		dest = retry
		fellBack = true
	}

	if fellBack {
		st.mu.Lock()
		st.fallback = true
		if jb.chunk.Resolved() {
			st.sidecar[dest.Base()] = jb.chunk.Hash
		}
		st.mu.Unlock()
		x.emit(Event{Kind: EventFallbackNamed, Hash: jb.chunk.HexHash(), Path: dest.Rel, Message: "written under hash-derived name"})
	}
	x.progress(st, dest.Rel, jb.chunk.HexHash())
}

func (x *Extractor) skipWrite(jb job, st *jobState, err error) {
	st.skip()
	x.emit(Event{Kind: EventSkipped, Hash: jb.chunk.HexHash(), Path: jb.chunk.Hash, Message: err.Error()})
	x.log().Warn("write failed",
		slog.String("hash", jb.chunk.HexHash()),
		slog.Any("error", err))
}

// progress counts a completed write and emits a throttled progress
// event. Throttling is wall-clock based so huge archives do not flood
// the consumer.
func (x *Extractor) progress(st *jobState, relPath, hexHash string) {
	st.mu.Lock()
	st.extracted++
	written, total := st.extracted, st.total
	now := time.Now()
	due := now.Sub(st.lastProgress) >= progressInterval
	if due {
		st.lastProgress = now
	}
	st.mu.Unlock()
	if due {
		x.emit(Event{Kind: EventProgress, Path: relPath, Hash: hexHash, Written: written, Total: total})
	}
}

// cleanupDirs removes directories left empty by skipped or
// fallback-renamed chunks, deepest first. Remove refuses non-empty
// directories, so populated trees survive untouched.
func (x *Extractor) cleanupDirs(jobs []job, root string) {
	sep := string(filepath.Separator)
	dirs := make(map[string]bool)
	for _, jb := range jobs {
		for dir := filepath.Dir(jb.dest.Abs); len(dir) > len(root) && strings.HasPrefix(dir, root+sep); dir = filepath.Dir(dir) {
			dirs[dir] = true
		}
	}
	ordered := make([]string, 0, len(dirs))
	for d := range dirs {
		ordered = append(ordered, d)
	}
	slices.SortFunc(ordered, func(a, b string) int {
		if d := strings.Count(b, sep) - strings.Count(a, sep); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	for _, d := range ordered {
		_ = x.fs.Remove(d)
	}
}

func (x *Extractor) writeSidecar(st *jobState) {
	if len(st.sidecar) == 0 {
		return
	}
	path := filepath.Join(st.root, SidecarName)

	// Re-extraction into the same root merges with the previous run's
	// entries instead of discarding them.
	entries := x.readSidecar(path)
	for name, original := range st.sidecar {
		entries[name] = original
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err == nil {
		err = x.fs.WriteFile(path, append(data, '\n'), 0o644)
	}
	if err != nil {
		x.log().Warn("sidecar write failed", slog.Any("error", err))
	}
}

func (x *Extractor) readSidecar(path string) map[string]string {
	entries := make(map[string]string)
	f, err := x.fs.Open(path)
	if err != nil {
		return entries
	}
	defer f.Close()

	buf := make([]byte, f.Size())
	n, err := f.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return entries
	}
	if err := json.Unmarshal(buf[:n], &entries); err != nil {
		x.log().Warn("ignoring malformed sidecar", slog.String("path", path), slog.Any("error", err))
		return make(map[string]string)
	}
	return entries
}
