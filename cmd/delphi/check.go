package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/mgomes/delphiscript/delphi"
	"golang.org/x/sync/errgroup"
)

type checkResult struct {
	path string
	err  error
}

// checkCommand parses every program concurrently and reports syntax errors
// in path order.
func checkCommand(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	jobs := fs.Int("j", runtime.NumCPU(), "number of files parsed in parallel")
	if err := fs.Parse(args); err != nil {
		return err
	}

	targets := fs.Args()
	if len(targets) == 0 {
		return errors.New("delphi check: path required")
	}
	files, err := collectSourceFiles(targets)
	if err != nil {
		return err
	}

	results, err := checkFiles(files, *jobs)
	if err != nil {
		return err
	}

	failed := 0
	for _, result := range results {
		if result.err == nil {
			continue
		}
		failed++
		fmt.Printf("%s: %v\n", result.path, result.err)
	}
	if failed > 0 {
		return fmt.Errorf("delphi check: %d of %d file(s) failed", failed, len(results))
	}
	fmt.Printf("%d file(s) ok\n", len(results))
	return nil
}

func checkFiles(files []string, jobs int) ([]checkResult, error) {
	engine := delphi.MustNewEngine(delphi.Config{})
	results := make([]checkResult, len(files))

	var g errgroup.Group
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range files {
		g.Go(func() error {
			source, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			_, compileErr := engine.Compile(string(source))
			results[i] = checkResult{path: path, err: compileErr}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
