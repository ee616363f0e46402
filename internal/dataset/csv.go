package dataset

import (
	"encoding/csv"
	"os"

	"github.com/rotisserie/eris"
)

// LoadCSV reads a CSV file into a Table. The first row is the header.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open csv")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // allow variable fields

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read csv")
	}

	return newTable(records)
}
