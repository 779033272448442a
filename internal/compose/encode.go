package compose

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/kozaktomas/photo-press/internal/album"
)

// EncodeConcurrency is the default number of parallel photo reads during
// an export.
const EncodeConcurrency = 5

// FileReader supplies raw photo bytes for embedding. library.Library
// satisfies it; tests stub it.
type FileReader interface {
	ReadFile(handle string) ([]byte, error)
}

// EncodePhotos converts every photo to a data URI, reading concurrently
// but returning results in page order. Any single failed read fails the
// whole batch: a document is never assembled from partial content.
// progress, when non-nil, is called once per encoded photo and may be
// called from multiple goroutines.
func EncodePhotos(ctx context.Context, reader FileReader, photos []album.Photo, concurrency int, progress func()) ([]string, error) {
	if len(photos) == 0 {
		return nil, nil
	}
	if concurrency < 1 {
		concurrency = EncodeConcurrency
	}

	dataURIs := make([]string, len(photos))
	jobs := make(chan int, len(photos))
	for i := range photos {
		jobs <- i
	}
	close(jobs)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for range concurrency {
		wg.Go(func() {
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				mu.Lock()
				failed := firstErr != nil
				mu.Unlock()
				if failed {
					return
				}

				photo := photos[i]
				data, err := reader.ReadFile(photo.Handle)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("read photo %s: %w", photo.Handle, err)
					}
					mu.Unlock()
					return
				}
				dataURIs[i] = "data:" + photo.ContentType() + ";base64," + base64.StdEncoding.EncodeToString(data)
				if progress != nil {
					progress()
				}
			}
		})
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return dataURIs, nil
}
