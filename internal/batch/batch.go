// Package batch compiles many template files concurrently.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/maruel/natural"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnolang/hbs2jsx"
	"github.com/gnolang/hbs2jsx/internal/config"
)

// Compiler turns one template source into JSX source.
type Compiler interface {
	Compile(path string, source []byte) (string, error)
}

// OptionsCompiler compiles every template with the same options.
type OptionsCompiler struct {
	Options hbs2jsx.Options
}

func (c OptionsCompiler) Compile(_ string, source []byte) (string, error) {
	return hbs2jsx.CompileWithOptions(string(source), c.Options)
}

// Result is the outcome for a single template file.
type Result struct {
	Path   string
	Source []byte
	Output string
	Err    error
}

// Processor finds templates under a set of paths and compiles them.
type Processor struct {
	Compiler Compiler
	Config   config.Config
	Logger   *zap.Logger
	// Progress receives a progress bar when set.
	Progress io.Writer
	// Cache skips recompiling unchanged templates when set.
	Cache *Cache
}

func (p *Processor) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

// Collect expands paths into template files. Directories are walked and
// filtered with the configured globs; files named explicitly are always
// kept. The result is deduplicated and in natural order.
func (p *Processor) Collect(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("error accessing %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if p.Config.Match(rel) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}

	sort.Slice(files, func(i, j int) bool { return natural.Less(files[i], files[j]) })
	return files, nil
}

// Run compiles every template found under paths. A failing file does not
// stop the others; its error is recorded in its Result and joined into the
// returned error. Cancelling ctx stops scheduling new files.
func (p *Processor) Run(ctx context.Context, paths []string) ([]Result, error) {
	files, err := p.Collect(paths)
	if err != nil {
		return nil, err
	}
	log := p.logger()
	log.Debug("Collected templates", zap.Int("count", len(files)))

	var bar *progressbar.ProgressBar
	if p.Progress != nil && len(files) > 0 {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(p.Progress),
			progressbar.OptionSetDescription("compiling"),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
	}

	limit := p.Config.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results := make([]Result, len(files))
	var barMu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.compileFile(path)
			if results[i].Err != nil {
				log.Error("Error compiling file", zap.String("file", path), zap.Error(results[i].Err))
			}
			if bar != nil {
				barMu.Lock()
				_ = bar.Add(1)
				barMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Cache != nil {
		if err := p.Cache.Save(); err != nil {
			log.Warn("Error saving compile cache", zap.Error(err))
		}
	}

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Path, r.Err))
		}
	}
	return results, errors.Join(errs...)
}

func (p *Processor) compileFile(path string) Result {
	r := Result{Path: path}
	r.Source, r.Err = os.ReadFile(path)
	if r.Err != nil {
		return r
	}

	salter, cacheable := p.Compiler.(Salter)
	cacheable = cacheable && p.Cache != nil
	var key string
	if cacheable {
		key = cacheKey(salter.CacheSalt(), r.Source)
		if out, ok := p.Cache.Get(key); ok {
			p.logger().Debug("Cache hit", zap.String("file", path))
			r.Output = out
			return r
		}
	}

	r.Output, r.Err = p.Compiler.Compile(path, r.Source)
	if cacheable && r.Err == nil {
		p.Cache.Set(key, r.Output)
	}
	return r
}

// Write stores each successful result next to its template, using the
// configured output extension, and returns the written paths.
func (p *Processor) Write(results []Result) ([]string, error) {
	var written []string
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		out := p.Config.OutputPath(r.Path)
		if err := os.WriteFile(out, []byte(r.Output+"\n"), 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", out, err)
		}
		p.logger().Debug("Wrote output", zap.String("file", out))
		written = append(written, out)
	}
	return written, nil
}
