package table

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRecordsInfersKinds(t *testing.T) {
	tbl := FromRecords(
		[]string{"ID", "Campanha", "Data", "Prazo"},
		[][]any{
			{"1", "Consórcios", "2024-01-01", 5.0},
			{"2", "Crédito PJ", "2024-01-02", "abc"},
			{3, nil, "", nil},
		},
	)

	require.Equal(t, 3, tbl.NumRows())
	require.Equal(t, 4, tbl.NumCols())

	tests := []struct {
		column string
		kind   Kind
	}{
		{column: "ID", kind: KindNumber},
		{column: "Campanha", kind: KindText},
		{column: "Data", kind: KindDate},
		{column: "Prazo", kind: KindText},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			col, ok := tbl.Column(tt.column)
			require.True(t, ok)
			assert.Equal(t, tt.kind, col.Kind)
		})
	}

	id, _ := tbl.Column("ID")
	assert.Equal(t, 1.0, id.Values[0].Num)
	assert.Equal(t, KindNumber, id.Values[0].Kind)

	data, _ := tbl.Column("Data")
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), data.Values[1].Time)
	assert.True(t, data.Values[2].IsMissing())

	campanha, _ := tbl.Column("Campanha")
	assert.True(t, campanha.Values[2].IsMissing())
	assert.Equal(t, "", campanha.Values[2].String())
}

func TestFromRecordsHeaders(t *testing.T) {
	tbl := FromRecords([]string{"Status", "", "Status", " Status ", "Status.1"}, [][]any{{"a"}})

	assert.Equal(t, []string{"Status", "Unnamed: 1", "Status.1", "Status.2", "Status.1.1"}, tbl.Names())
	// short rows are padded
	col, _ := tbl.Column("Status.2")
	assert.True(t, col.Values[0].IsMissing())
}

func TestNewRejectsInvalidColumns(t *testing.T) {
	a := NewColumn("a", []Value{Number(1)})
	dup := NewColumn("a", []Value{Number(2)})
	long := NewColumn("b", []Value{Number(1), Number(2)})

	_, err := New(a, dup)
	assert.True(t, errors.Is(err, ErrDuplicateColumn))

	_, err = New(a, long)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestTransformsReturnNewTables(t *testing.T) {
	tbl := FromRecords([]string{"n", "s"}, [][]any{{1, "a"}, {2, "b"}, {3, "c"}})

	taken := tbl.Take([]int{2, 0})
	assert.Equal(t, [][]string{{"3", "c"}, {"1", "a"}}, taken.Strings())

	sliced := tbl.Slice(1, 10)
	assert.Equal(t, 2, sliced.NumRows())
	assert.Equal(t, 0, tbl.Slice(5, 9).NumRows())

	projected := tbl.Project([]string{"s", "missing", "s"})
	assert.Equal(t, []string{"s"}, projected.Names())
	assert.Equal(t, 3, projected.NumRows())

	added, err := tbl.WithColumn(NewColumn("x", []Value{Text("1"), Text("2"), Text("3")}))
	require.NoError(t, err)
	assert.Equal(t, 3, added.NumCols())
	assert.Equal(t, 2, tbl.NumCols())

	_, err = tbl.WithColumn(NewColumn("n", []Value{Missing(), Missing(), Missing()}))
	assert.True(t, errors.Is(err, ErrDuplicateColumn))

	_, err = tbl.WithColumn(NewColumn("y", []Value{Missing()}))
	assert.True(t, errors.Is(err, ErrLengthMismatch))

	assert.Equal(t, []string{"s"}, tbl.WithoutColumn("n").Names())
}

func TestFirstPresent(t *testing.T) {
	tbl := FromRecords([]string{"Prazo (dias)", "Deadline"}, nil)

	name, ok := tbl.FirstPresent([]string{"Prazo", "Prazo (dias)", "Deadline"})
	assert.True(t, ok)
	assert.Equal(t, "Prazo (dias)", name)

	_, ok = tbl.FirstPresent([]string{"Dias Restantes"})
	assert.False(t, ok)
}

func TestValueString(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{name: "integer", value: Number(5), expected: "5"},
		{name: "fraction", value: Number(2.5), expected: "2.5"},
		{name: "negative", value: Number(-3), expected: "-3"},
		{name: "date", value: Date(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)), expected: "2024-03-09"},
		{name: "datetime", value: Date(time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)), expected: "2024-03-09 14:05:00"},
		{name: "text", value: Text("Aprovado"), expected: "Aprovado"},
		{name: "missing", value: Missing(), expected: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.value.String())
		})
	}
}

func TestNonFiniteTextStaysText(t *testing.T) {
	tbl := FromRecords([]string{"Code"}, [][]any{{"NaN"}, {"Inf"}, {"-Infinity"}})

	col, ok := tbl.Column("Code")
	require.True(t, ok)
	assert.Equal(t, KindText, col.Kind)
	assert.Equal(t, "Inf", col.Values[1].String())

	_, ok = Text("NaN").Float()
	assert.False(t, ok)
	f, ok := Text(" 2.5 ").Float()
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)
}

func TestInterfaceNonFiniteIsNil(t *testing.T) {
	assert.Nil(t, Number(math.NaN()).Interface())
	assert.Nil(t, Number(math.Inf(-1)).Interface())
	assert.Equal(t, 3.0, Number(3).Interface())
}
