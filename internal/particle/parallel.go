package particle

import "sync"

// ParallelFor splits [0, n) into at most workers contiguous chunks of at least
// minChunk items and runs fn on each concurrently. Chunk indices are dense and
// ordered by start. It returns the number of chunks used.
func ParallelFor(n, workers, minChunk int, fn func(chunk, start, end int)) int {
	if n <= 0 {
		return 0
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		fn(0, 0, n)
		return 1
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers
	used := (n + chunkSize - 1) / chunkSize

	var wg sync.WaitGroup
	wg.Add(used)

	for w := 0; w < used; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		go func(c, s, e int) {
			defer wg.Done()
			fn(c, s, e)
		}(w, start, end)
	}

	wg.Wait()
	return used
}
