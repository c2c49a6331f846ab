package milestonedomain

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/xuri/excelize/v2"
)

// SheetResult is the outcome of reading a milestone spreadsheet.
type SheetResult struct {
	Bindings []Binding
	// Invalid counts data rows that could not be parsed.
	Invalid int
}

var errNoHeader = errors.New(`header row with "Level" and "Role ID" columns not found`)

// ParseSheet reads milestones from the first sheet of an xlsx workbook. The
// first row holding both a "Level" and a "Role ID" header starts the table.
func ParseSheet(data []byte) (*SheetResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w: %w", apperrors.ErrInvalidInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.Invalid("XLSX file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	headerIdx, levelCol, roleCol := findHeader(rows)
	if headerIdx < 0 {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, errNoHeader)
	}

	res := &SheetResult{}
	for _, row := range rows[headerIdx+1:] {
		levelCell := cell(row, levelCol)
		roleCell := cell(row, roleCol)
		if levelCell == "" && roleCell == "" {
			continue
		}
		b, ok := parseRow(levelCell, roleCell)
		if !ok {
			res.Invalid++
			continue
		}
		res.Bindings = append(res.Bindings, b)
	}
	return res, nil
}

func findHeader(rows [][]string) (rowIdx, levelCol, roleCol int) {
	for i, row := range rows {
		levelCol, roleCol = -1, -1
		for j, c := range row {
			switch normalizeHeader(c) {
			case "level":
				levelCol = j
			case "roleid", "role":
				roleCol = j
			}
		}
		if levelCol >= 0 && roleCol >= 0 {
			return i, levelCol, roleCol
		}
	}
	return -1, -1, -1
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func parseRow(levelCell, roleCell string) (Binding, bool) {
	level, err := strconv.Atoi(levelCell)
	if err != nil || level < 1 {
		return Binding{}, false
	}
	role := strings.TrimSuffix(strings.TrimPrefix(roleCell, "<@&"), ">")
	if role == "" {
		return Binding{}, false
	}
	if _, err := strconv.ParseUint(role, 10, 64); err != nil {
		return Binding{}, false
	}
	return Binding{Level: level, RoleID: sharedtypes.RoleID(role)}, true
}
