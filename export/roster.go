package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Dosada05/bracket-builder/models"
	"github.com/Dosada05/bracket-builder/utils"
)

var ErrInvalidRoster = errors.New("invalid roster file")

type rosterColumn int

const (
	colName rosterColumn = iota
	colAge
	colBelt
	colWeight
	colGender
	colTeam
	colProfessor
	columnCount
)

// RosterHeader is the column order of exported rosters.
var RosterHeader = []string{"Nome", "Categoria de Idade", "Faixa", "Categoria de Peso", "Gênero", "Equipe", "Professor"}

// Header names are compared after normalization.
var rosterAliases = map[string]rosterColumn{
	"NOME":               colName,
	"NAME":               colName,
	"CATEGORIA DE IDADE": colAge,
	"IDADE":              colAge,
	"AGE":                colAge,
	"AGE DIVISION":       colAge,
	"FAIXA":              colBelt,
	"BELT":               colBelt,
	"CATEGORIA DE PESO":  colWeight,
	"PESO":               colWeight,
	"WEIGHT":             colWeight,
	"WEIGHT DIVISION":    colWeight,
	"GENERO":             colGender,
	"SEXO":               colGender,
	"GENDER":             colGender,
	"EQUIPE":             colTeam,
	"TEAM":               colTeam,
	"PROFESSOR":          colProfessor,
}

var requiredColumns = []rosterColumn{colName, colAge, colBelt, colWeight, colGender}

// ReadRoster parses a roster CSV. Rows keep file order, attributes are
// normalized and blank lines are skipped.
func ReadRoster(r io.Reader) ([]*models.Competitor, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidRoster)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoster, err)
	}

	index := make([]int, columnCount)
	for i := range index {
		index[i] = -1
	}
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if col, ok := rosterAliases[utils.NormalizeText(name)]; ok && index[col] < 0 {
			index[col] = i
		}
	}
	for _, col := range requiredColumns {
		if index[col] < 0 {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidRoster, RosterHeader[col])
		}
	}

	competitors := make([]*models.Competitor, 0)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRoster, err)
		}
		line, _ := cr.FieldPos(0)

		field := func(col rosterColumn) string {
			if i := index[col]; i >= 0 && i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}
		if strings.TrimSpace(strings.Join(record, "")) == "" {
			continue
		}

		c := &models.Competitor{
			Name:           field(colName),
			AgeDivision:    field(colAge),
			Belt:           field(colBelt),
			WeightDivision: field(colWeight),
			Gender:         field(colGender),
			Team:           field(colTeam),
			Professor:      utils.OrNotAvailable(field(colProfessor)),
		}
		if c.Name == "" {
			return nil, fmt.Errorf("%w: line %d has no name", ErrInvalidRoster, line)
		}
		utils.NormalizeCompetitor(c)
		competitors = append(competitors, c)
	}
	return competitors, nil
}

// WriteRoster writes competitors in RosterHeader column order.
func WriteRoster(w io.Writer, competitors []*models.Competitor) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RosterHeader); err != nil {
		return fmt.Errorf("write roster header: %w", err)
	}
	for _, c := range competitors {
		record := []string{c.Name, c.AgeDivision, c.Belt, c.WeightDivision, c.Gender, c.Team, c.Professor}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write roster row for %q: %w", c.Name, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush roster: %w", err)
	}
	return nil
}
