package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"quik-bars/internal/model"
)

// ErrEmpty is returned for a file without a header row.
var ErrEmpty = errors.New("no header row")

// CSVLoader reads a delimited export with a header row. All cells are
// kept verbatim as text.
type CSVLoader struct {
	Comma rune
}

func (CSVLoader) GetName() string { return "csv" }

func (l CSVLoader) Load(path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return l.Read(f)
}

// Read parses r; every row must have as many fields as the header.
func (l CSVLoader) Read(r io.Reader) (*model.Table, error) {
	cr := csv.NewReader(r)
	if l.Comma != 0 {
		cr.Comma = l.Comma
	}

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	t := &model.Table{Columns: header}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}
