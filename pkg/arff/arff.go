// Package arff reads and writes the attribute-relation file format used to
// hand scraped recipes to the feature builder.
package arff

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dtnitsch/recipe-features/models"
)

// Relation is the relation name written for recipe datasets.
const Relation = "allrecipes_recipes"

// Attribute types.
const (
	TypeString  = "string"
	TypeNumeric = "numeric"
)

// ErrMalformed is wrapped by every parse error.
var ErrMalformed = errors.New("malformed ARFF")

// Attribute is a typed column declaration.
type Attribute struct {
	Name string
	Type string
}

// IsNumeric reports whether the attribute holds numbers.
func (a Attribute) IsNumeric() bool {
	switch strings.ToLower(a.Type) {
	case "numeric", "real", "integer":
		return true
	}
	return false
}

// Cell is one data value. Missing is set for an unquoted "?".
type Cell struct {
	Text    string
	Missing bool
}

// Dataset is a parsed ARFF file.
type Dataset struct {
	Relation   string
	Attributes []Attribute
	Rows       [][]Cell
}

// Index returns the position of the named attribute, or -1.
func (d *Dataset) Index(name string) int {
	for i, a := range d.Attributes {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// RecipeAttributes are the attribute declarations for recipe datasets.
func RecipeAttributes() []Attribute {
	attrs := make([]Attribute, len(models.Columns))
	for i, col := range models.Columns {
		typ := TypeString
		if models.IsNumericColumn(col) {
			typ = TypeNumeric
		}
		attrs[i] = Attribute{Name: col, Type: typ}
	}
	return attrs
}

// FromRecipes builds a recipe dataset. Missing numbers become missing cells.
func FromRecipes(recipes []models.Recipe) *Dataset {
	d := &Dataset{Relation: Relation, Attributes: RecipeAttributes(), Rows: make([][]Cell, len(recipes))}
	for i := range recipes {
		r := &recipes[i]
		row := make([]Cell, 0, len(models.Columns))
		row = append(row, Cell{Text: r.URL}, Cell{Text: r.Title}, Cell{Text: r.Category})
		for _, col := range models.NumericColumns {
			v := r.Numeric(col)
			if v == nil {
				row = append(row, Cell{Missing: true})
			} else {
				row = append(row, Cell{Text: models.FormatFloat(*v)})
			}
		}
		row = append(row, Cell{Text: r.JoinedIngredients()}, Cell{Text: r.JoinedImagePaths()})
		d.Rows[i] = row
	}
	return d
}

// Write serializes d. String values are double-quoted with backslash
// escapes; numeric values are bare; missing values are "?".
func Write(w io.Writer, d *Dataset) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "@relation %s\n\n", quoteName(d.Relation))
	for _, a := range d.Attributes {
		fmt.Fprintf(bw, "@attribute %s %s\n", quoteName(a.Name), a.Type)
	}
	bw.WriteString("\n@data\n")

	for n, row := range d.Rows {
		if len(row) != len(d.Attributes) {
			return fmt.Errorf("row %d has %d values, want %d", n, len(row), len(d.Attributes))
		}
		for i, cell := range row {
			if i > 0 {
				bw.WriteString(", ")
			}
			switch {
			case cell.Missing:
				bw.WriteString(models.MissingMarker)
			case d.Attributes[i].IsNumeric():
				bw.WriteString(cell.Text)
			default:
				bw.WriteString(`"` + escape(cell.Text) + `"`)
			}
		}
		bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write ARFF: %w", err)
	}
	return nil
}

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)

// escape keeps every value on one line.
func escape(s string) string {
	return escaper.Replace(s)
}

func quoteName(name string) string {
	if strings.ContainsAny(name, " \t(){}%,'\"") {
		return `"` + escape(name) + `"`
	}
	return name
}

// Read parses an ARFF stream. Sparse rows are not supported.
func Read(r io.Reader) (*Dataset, error) {
	d := &Dataset{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	inData := false
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}

		if !inData {
			keyword, rest := cutField(line)
			switch strings.ToLower(keyword) {
			case "@relation":
				name, _, err := readName(rest)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
				}
				d.Relation = name
			case "@attribute":
				name, typ, err := readName(rest)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
				}
				typ = strings.TrimSpace(typ)
				if typ == "" {
					return nil, fmt.Errorf("%w: line %d: attribute %s has no type", ErrMalformed, lineNo, name)
				}
				d.Attributes = append(d.Attributes, Attribute{Name: name, Type: typ})
			case "@data":
				inData = true
			default:
				return nil, fmt.Errorf("%w: line %d: unexpected %q before @data", ErrMalformed, lineNo, keyword)
			}
			continue
		}

		if strings.HasPrefix(line, "{") {
			return nil, fmt.Errorf("%w: line %d: sparse rows are not supported", ErrMalformed, lineNo)
		}
		cells, err := splitRow(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
		}
		if len(cells) != len(d.Attributes) {
			return nil, fmt.Errorf("%w: line %d: %d values, want %d", ErrMalformed, lineNo, len(cells), len(d.Attributes))
		}
		d.Rows = append(d.Rows, cells)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ARFF: %w", err)
	}
	if !inData {
		return nil, fmt.Errorf("%w: no @data section", ErrMalformed)
	}
	return d, nil
}

func cutField(s string) (string, string) {
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// readName reads a possibly quoted name and returns it with the remainder.
func readName(s string) (string, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", errors.New("missing name")
	}
	if s[0] != '"' && s[0] != '\'' {
		name, rest := cutField(s)
		return name, rest, nil
	}
	name, n, err := readQuoted(s)
	if err != nil {
		return "", "", err
	}
	return name, s[n:], nil
}

// readQuoted reads a quoted token at the start of s and returns its
// unescaped value and the number of bytes consumed.
func readQuoted(s string) (string, int, error) {
	quote := s[0]
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(s[i])
			}
		case c == quote:
			return b.String(), i + 1, nil
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, errors.New("unterminated quoted value")
}

func splitRow(line string) ([]Cell, error) {
	var cells []Cell
	i := 0
	for {
		for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}

		if i < len(line) && (line[i] == '"' || line[i] == '\'') {
			text, n, err := readQuoted(line[i:])
			if err != nil {
				return nil, err
			}
			cells = append(cells, Cell{Text: text})
			i += n
			for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
				i++
			}
			if i < len(line) && line[i] != ',' {
				return nil, fmt.Errorf("unexpected %q after quoted value", line[i])
			}
		} else {
			end := strings.IndexByte(line[i:], ',')
			var tok string
			if end < 0 {
				tok, i = line[i:], len(line)
			} else {
				tok, i = line[i:i+end], i+end
			}
			tok = strings.TrimSpace(tok)
			if tok == models.MissingMarker {
				cells = append(cells, Cell{Missing: true})
			} else {
				cells = append(cells, Cell{Text: tok})
			}
		}

		if i >= len(line) {
			return cells, nil
		}
		i++
	}
}
