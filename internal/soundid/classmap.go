package soundid

import (
	"encoding/csv"
	"os"

	"github.com/invadr/invadr-go/internal/errors"
)

// loadClassMap reads a sound-event class map CSV (index, mid, display_name)
// and returns the display names in index order. Display names may contain
// commas, so the file is real CSV with quoting, not a plain label list.
func loadClassMap(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryLabelLoad).
			Component("soundid").
			FileContext(path, 0).
			Build()
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryLabelLoad).
			Component("soundid").
			FileContext(path, 0).
			Build()
	}
	if len(records) < 2 {
		return nil, errors.Newf("class map %s has no entries", path).
			Category(errors.CategoryLabelLoad).
			Component("soundid").
			Build()
	}

	// First row is the header: index, mid, display_name
	names := make([]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 3 {
			return nil, errors.Newf("malformed class map row in %s", path).
				Category(errors.CategoryLabelLoad).
				Component("soundid").
				Build()
		}
		names = append(names, record[2])
	}
	return names, nil
}
