package export

import (
	"bytes"
	"regbot/entity"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWrite_General(t *testing.T) {
	created := time.Date(2025, 12, 15, 9, 30, 0, 0, time.UTC)
	list := []*entity.Registration{
		{FullName: "Ali Valiyev", School: "23-maktab", Grade: 7, Subjects: "Matematika - Fizika", CreatedAt: created},
		{FullName: "Vali Aliyev", School: "5-maktab", Grade: 0, Subjects: "", CreatedAt: created},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, entity.FlowGeneral, list))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Full Name", "School", "Grade", "Subjects", "Registration Date"}, rows[0])
	assert.Equal(t, []string{"Ali Valiyev", "23-maktab", "7", "Matematika - Fizika", "2025-12-15 09:30:00"}, rows[1])
	assert.Equal(t, "Vali Aliyev", rows[2][0])
	assert.Equal(t, "", rows[2][2])

	styleId, err := f.GetCellStyle(sheetName, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleId)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestWrite_StudyCenter(t *testing.T) {
	list := []*entity.Registration{
		{FullName: "Ali", Phone: "+998901234567", Subjects: "Ingliz tili", CreatedAt: time.Date(2025, 12, 19, 0, 0, 0, 0, time.UTC)},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, entity.FlowStudyCenter, list))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Equal(t, []string{"Full Name", "Phone", "Subjects", "Registration Date"}, rows[0])
	assert.Equal(t, "+998901234567", rows[1][1])
	assert.Equal(t, "study_center_registrations.xlsx", FileName(entity.FlowStudyCenter))
}

func TestWrite_UnknownFlow(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, entity.Flow("x"), nil))
}
