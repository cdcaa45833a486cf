package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/schollz/progressbar/v3"

	geobases "github.com/opentraveldata/geobases-sub000"
)

// csvFormat describes a delimited file with a header row.
type csvFormat struct {
	Delimiter rune
	KeyColumn string
}

// loadCSV reads every row of r into a dataset keyed by the KeyColumn
// column. onRow, when non-nil, is called once per stored row.
func loadCSV(r io.Reader, format csvFormat, onRow func()) (*geobases.MemoryDataset, error) {
	cr := csv.NewReader(r)
	cr.Comma = format.Delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	header = slices.Clone(header)
	keyCol := slices.Index(header, format.KeyColumn)
	if keyCol < 0 {
		return nil, fmt.Errorf("key column %q not in header %v", format.KeyColumn, header)
	}

	data := geobases.NewMemoryDataset()
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line, err)
		}
		if keyCol >= len(record) || record[keyCol] == "" {
			continue
		}

		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				fields[name] = record[i]
			}
		}
		data.Set(record[keyCol], fields)
		if onRow != nil {
			onRow()
		}
	}
	return data, nil
}

// loadFile loads path, reporting progress on stderr when show is set.
func loadFile(path string, format csvFormat, show bool) (*geobases.MemoryDataset, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer fh.Close()

	bar := progressbar.NewOptions64(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("loading "+path),
		progressbar.OptionSetVisibility(show),
		progressbar.OptionShowCount(),
	)
	defer bar.Finish()

	data, err := loadCSV(fh, format, func() { _ = bar.Add(1) })
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return data, nil
}
