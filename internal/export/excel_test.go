package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Michael-Nesci/cps510-patient-db/internal/domain"
)

func TestExcel(t *testing.T) {
	rs := &domain.ResultSet{
		Columns: []string{"Patient ID", "First Name", "Last Name"},
		Rows: [][]any{
			{int64(100000001), "John", "Smith"},
			{int64(100000005), "Julian", "Emerson"},
		},
	}

	data, err := Excel(rs, "no-prescriptions")
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	// 默认的 Sheet1 已被替换
	assert.Equal(t, []string{"no-prescriptions"}, f.GetSheetList())

	rows, err := f.GetRows("no-prescriptions")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Patient ID", "First Name", "Last Name"}, rows[0])
	assert.Equal(t, "100000001", rows[1][0])
	assert.Equal(t, "Emerson", rows[2][2])
}

func TestExcel_EmptyResult(t *testing.T) {
	rs := &domain.ResultSet{
		Columns: []string{"Patient", "Appointment Date", "Amount"},
		Rows:    [][]any{},
	}

	data, err := Excel(rs, "overdue-bills")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("overdue-bills")
	require.NoError(t, err)
	// 只有表头
	require.Len(t, rows, 1)
}

func TestExcel_NullCellsLeftBlank(t *testing.T) {
	rs := &domain.ResultSet{
		Columns: []string{"Patient ID", "Insurance"},
		Rows: [][]any{
			{int64(100000003), nil},
		},
	}

	data, err := Excel(rs, "insurance")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("insurance", "B2")
	require.NoError(t, err)
	assert.Equal(t, "", v)
}
