// SPDX-License-Identifier: MIT

package frame_test

import (
	"strings"
	"testing"

	"github.com/katalvlaran/lvformula/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const genderSchema = `
na_values: ["NA"]
columns:
  - name: rt
    kind: numeric
  - name: gender
    kind: categorical
    levels: [male, female]
    baseline: male
  - name: group
    kind: categorical
`

func TestParseSchema(t *testing.T) {
	s, err := frame.ParseSchema(strings.NewReader(genderSchema))
	require.NoError(t, err)
	require.Len(t, s.Columns, 3)
	assert.Equal(t, []string{"NA"}, s.NAValues)
	assert.Equal(t, "male", s.Columns[1].Baseline)
}

func TestParseSchema_Invalid(t *testing.T) {
	tests := map[string]string{
		"no columns":         "columns: []\n",
		"bad kind":           "columns:\n  - {name: x, kind: text}\n",
		"missing name":       "columns:\n  - {kind: numeric}\n",
		"duplicate name":     "columns:\n  - {name: x, kind: numeric}\n  - {name: x, kind: numeric}\n",
		"duplicate level":    "columns:\n  - {name: g, kind: categorical, levels: [a, a]}\n",
		"numeric levels":     "columns:\n  - {name: x, kind: numeric, levels: [a]}\n",
		"baseline not level": "columns:\n  - {name: g, kind: categorical, levels: [a, b], baseline: c}\n",
		"unknown field":      "columns:\n  - {name: x, kind: numeric, colour: red}\n",
		"empty document":     "",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := frame.ParseSchema(strings.NewReader(doc))
			require.ErrorIs(t, err, frame.ErrInvalidSchema)
		})
	}
}

func TestReadCSV(t *testing.T) {
	s, err := frame.ParseSchema(strings.NewReader(genderSchema))
	require.NoError(t, err)

	data := "id,gender,rt,group\n" +
		"1,male,300,b\n" +
		"2,female,320,a\n" +
		"3,male,NA,a\n" +
		"4,female,310,b\n"
	tbl, err := frame.ReadCSV(strings.NewReader(data), s)
	require.NoError(t, err)

	assert.Equal(t, []string{"rt", "gender", "group"}, tbl.Names())
	assert.Equal(t, 3, tbl.Rows())

	rt, _ := tbl.Column("rt")
	assert.Equal(t, []float64{300, 320, 310}, rt.Values())

	group, _ := tbl.Column("group")
	assert.Equal(t, []string{"a", "b"}, group.Levels()) // sorted when undeclared
	assert.Equal(t, "a", group.Baseline())
}

func TestReadCSV_Errors(t *testing.T) {
	s, err := frame.ParseSchema(strings.NewReader(genderSchema))
	require.NoError(t, err)

	_, err = frame.ReadCSV(strings.NewReader("gender,rt\nmale,1\n"), s)
	require.ErrorIs(t, err, frame.ErrUnknownColumn)

	_, err = frame.ReadCSV(strings.NewReader("gender,rt,group\nmale,fast,a\n"), s)
	require.ErrorIs(t, err, frame.ErrTypeMismatch)

	_, err = frame.ReadCSV(strings.NewReader("gender,rt,group\nother,1,a\n"), s)
	require.ErrorIs(t, err, frame.ErrTypeMismatch)

	strict, err := frame.ParseSchema(strings.NewReader("columns:\n  - {name: rt, kind: numeric}\n"))
	require.NoError(t, err)
	_, err = frame.ReadCSV(strings.NewReader("rt\nNA\n"), strict)
	require.ErrorIs(t, err, frame.ErrTypeMismatch)
}
