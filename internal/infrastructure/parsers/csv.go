package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVParser parses person records from CSV.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed person records.
// Expected columns: first_name, last_name, birth_date, death_date,
// birth_place, occupation, notes. Only the name columns are required.
func (p *CSVParser) Parse(r io.Reader) ([]RawPerson, error) {
	reader := csv.NewReader(r)

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[col] = i
	}

	for _, col := range []string{"first_name", "last_name"} {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to RawPersons.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]RawPerson, error) {
	var persons []RawPerson
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		persons = append(persons, RawPerson{
			FirstName:  getColumn(record, colIndex, "first_name"),
			LastName:   getColumn(record, colIndex, "last_name"),
			BirthDate:  getColumn(record, colIndex, "birth_date"),
			DeathDate:  getColumn(record, colIndex, "death_date"),
			BirthPlace: getColumn(record, colIndex, "birth_place"),
			Occupation: getColumn(record, colIndex, "occupation"),
			Notes:      getColumn(record, colIndex, "notes"),
			LineNum:    lineNum,
		})
	}

	return persons, nil
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return record[idx]
	}
	return ""
}
