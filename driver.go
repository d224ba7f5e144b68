package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ztrue/tracerr"

	"github.com/pontaoski/leanparse/ast"
	"github.com/pontaoski/leanparse/parser"
)

type parseResult struct {
	Path string
	File *ast.SourceFile
	Err  error
}

// Declarations counts declarations at any nesting depth.
func (r parseResult) Declarations() int {
	if r.File == nil {
		return 0
	}
	n := 0
	ast.Inspect(r.File, func(node ast.Node) bool {
		if _, ok := node.(ast.Declaration); ok {
			n++
			return false
		}
		return true
	})
	return n
}

// collectSources expands directories into the files below them whose
// extension is one of exts. Plain file arguments are kept as given.
func collectSources(args []string, exts []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil {
			return nil, tracerr.Wrap(err)
		}
		if !fi.IsDir() {
			paths = append(paths, arg)
			continue
		}

		var found []string
		err = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if path != arg && strings.HasPrefix(info.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if hasExtension(path, exts) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, tracerr.Wrap(err)
		}
		sort.Strings(found)
		plog.Debugf("%s: %d source files", arg, len(found))
		paths = append(paths, found...)
	}
	return paths, nil
}

func hasExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// parseAll parses every path with at most workers parses in flight. The
// results are in the same order as paths.
func parseAll(paths []string, workers int) []parseResult {
	if workers < 1 {
		workers = 1
	}
	results := make([]parseResult, len(paths))
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()

			plog.Tracef("parsing %s", path)
			file, err := parser.ParseFile(path)
			results[i] = parseResult{Path: path, File: file, Err: err}
		}(i, path)
	}
	wg.Wait()

	return results
}
