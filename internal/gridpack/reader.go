package gridpack

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/parquet-go/parquet-go"
)

// gzip decompression block size, decoded in parallel across cores.
const gzipBlockSize = 256 * 1024

const parquetReadChunk = 1024

// ReadFile parses one input file into observations. The format is chosen
// by extension: .csv, .csv.gz, .csv.zst or .parquet.
func ReadFile(path string) ([]Observation, error) {
	switch {
	case strings.HasSuffix(path, ".parquet"):
		return readParquet(path)
	case strings.HasSuffix(path, ".csv"),
		strings.HasSuffix(path, ".csv.gz"),
		strings.HasSuffix(path, ".csv.zst"):
		return readCSVFile(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// SupportedInput reports whether ReadFile can handle the given path.
func SupportedInput(path string) bool {
	for _, suffix := range []string{".csv", ".csv.gz", ".csv.zst", ".parquet"} {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

func readCSVFile(path string) ([]Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := pgzip.NewReaderN(f, gzipBlockSize, runtime.NumCPU())
		if err != nil {
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("zstd %s: %w", path, err)
		}
		defer dec.Close()
		r = dec
	}

	var rows []csvRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	obs := make([]Observation, 0, len(rows))
	for i, row := range rows {
		o, err := row.observation()
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
		obs = append(obs, o)
	}
	return obs, nil
}

func readParquet(path string) ([]Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parquet %s: %w", path, err)
	}

	reader := parquet.NewGenericReader[parquetRow](pf)
	defer reader.Close()

	var obs []Observation
	buf := make([]parquetRow, parquetReadChunk)
	for {
		n, err := reader.Read(buf)
		for i := 0; i < n; i++ {
			obs = append(obs, buf[i].observation())
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parquet %s: %w", path, err)
		}
		if n == 0 {
			break
		}
	}
	return obs, nil
}
