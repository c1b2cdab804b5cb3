package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

var codeColumnNames = []string{"code", "codes", "scratch code", "coupon"}

// ReadCodes reads candidate codes from CSV. When the first row names a code
// column that column is used, otherwise the first column of every row is.
// Values are returned as read; blank rows are kept for the importer to skip.
func ReadCodes(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	col := findColumnIndex(header, codeColumnNames)
	codes := []string{}
	if col == -1 {
		col = 0
		codes = append(codes, field(header, col))
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(codes)+1, err)
		}
		codes = append(codes, field(row, col))
	}
	return codes, nil
}

// findColumnIndex finds the index of a column in the header, ignoring case
func findColumnIndex(header []string, possibleNames []string) int {
	for i, h := range header {
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		for _, name := range possibleNames {
			if strings.EqualFold(h, name) {
				return i
			}
		}
	}
	return -1
}

func field(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
