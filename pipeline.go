package knit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const scanWorkers = 4

var imageExts = map[string]struct{}{
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
}

func isImage(file string) bool {
	_, ok := imageExts[strings.ToLower(filepath.Ext(file))]
	return ok
}

// patternName derives a pattern name from the path of file relative to
// base, using forward slashes and no extension.
func patternName(base, file string) (string, error) {
	rel, err := filepath.Rel(base, file)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel))), nil
}

func (k *Knit) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if file != base && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal image file
			if !info.Mode().IsRegular() || !isImage(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (k *Knit) importWorker(ctx context.Context, base string, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			select {
			case <-ctx.Done():
				return
			default:
			}

			name, err := patternName(base, file)
			if err != nil {
				errc <- err
				return
			}

			if _, err := k.db.ImportImage(name, file); err != nil {
				if errors.Is(err, ErrUnreadable) {
					k.logger.Printf("Skipping \"%s\": %v\n", file, err)
					continue
				}
				errc <- err
				return
			}
			k.logger.Printf("Imported \"%s\" as \"%s\"\n", file, name)
		}
	}()
	return errc, nil
}

// waitForPipeline returns the first error from any stage. It cancels the
// remaining stages and waits for all of them to finish before returning.
func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	var first error
	for err := range mergeErrors(errs...) {
		if err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan imports every image file found under path. Each is named after its
// path relative to the scanned directory.
func (k *Knit) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := k.findImages(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < scanWorkers; i++ {
		errc, err := k.importWorker(ctx, dir, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(cancelFunc, errcList...)
}
