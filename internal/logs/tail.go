package logs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNoLog reports that the requested log file does not exist.
var ErrNoLog = errors.New("log file not found")

type TailResult struct {
	Lines  []string
	Offset int64
}

// Tail returns the last n lines of path and the offset of the end of the
// file. A non-positive n returns no lines, only the offset.
func Tail(path string, n int) (TailResult, error) {
	if err := checkFile(path); err != nil {
		return TailResult{}, err
	}
	lines, offset, err := readLastLines(path, n)
	if err != nil {
		return TailResult{}, err
	}
	return TailResult{Lines: lines, Offset: offset}, nil
}

// Head returns the first n lines of path and the offset just past them.
// A non-positive n returns the whole file.
func Head(path string, n int) (TailResult, error) {
	if err := checkFile(path); err != nil {
		return TailResult{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return TailResult{}, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	var (
		lines  []string
		offset int64
	)
	for n <= 0 || len(lines) < n {
		line, err := reader.ReadString('\n')
		if line != "" {
			offset += int64(len(line))
			lines = append(lines, trimNewline(line))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return TailResult{}, fmt.Errorf("read log file: %w", err)
		}
	}
	return TailResult{Lines: lines, Offset: offset}, nil
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNoLog, path)
		}
		return fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("log path %q is a directory", path)
	}
	return nil
}

func trimNewline(line string) string {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
	}
	return line
}

func readLastLines(path string, limit int) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if limit <= 0 {
		info, err := file.Stat()
		if err != nil {
			return nil, 0, fmt.Errorf("stat log file: %w", err)
		}
		return nil, info.Size(), nil
	}

	reader := bufio.NewReader(file)
	ring := make([]string, limit)
	count := 0
	idx := 0
	var offset int64
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			offset += int64(len(line))
			ring[idx] = trimNewline(line)
			idx = (idx + 1) % limit
			if count < limit {
				count++
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read log file: %w", err)
		}
	}

	lines := make([]string, count)
	if count == limit {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%limit]
		}
	} else {
		copy(lines, ring[:count])
	}

	return lines, offset, nil
}

// readForward returns the complete lines after offset. A trailing partial line
// is left unread so a later call picks it up once the writer finishes it.
func readForward(path string, offset int64) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, offset, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("seek log file: %w", err)
	}

	reader := bufio.NewReader(file)
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read log file: %w", err)
		}
		offset += int64(len(line))
		lines = append(lines, trimNewline(line))
	}

	return lines, offset, nil
}
