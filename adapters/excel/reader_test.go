package excel

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"arbodash/internal"
	"arbodash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "\ufeffdt_notific,ID_AGRAVO,nu_idade_n,estudo\n" +
	"2019-02-01,A90,4025,1\n" +
	"2020-05-10,A928,3011,2\n"

func TestReadCSVNormalizesHeaders(t *testing.T) {
	table, err := NewDataReader("csv", "", nil).Read(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"DT_NOTIFIC", "ID_AGRAVO", "NU_IDADE_N", "ESTUDO"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "A90", table.Rows[0]["ID_AGRAVO"])
	assert.Equal(t, "3011", table.Rows[1]["NU_IDADE_N"])
}

func TestReadLogsThroughInjectedLogger(t *testing.T) {
	var logs bytes.Buffer
	logger := internal.NewLoggerTo(&logs, internal.LogLevelDebug)

	_, err := NewDataReader("csv", "", logger).Read(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "CSV read in")
	assert.Contains(t, logs.String(), `"component":"DataReader"`)
}

func TestReadTableMissingFile(t *testing.T) {
	_, err := NewDataReader("csv", "", nil).ReadTable(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	assert.Contains(t, err.Error(), "file not found")
}

func TestWorkbookRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	err := WriteWorkbook(&buf, Sheet{
		Name:    "Sintese",
		Headers: []string{"ID_AGRAVO", "ESTUDO"},
		Rows:    [][]interface{}{{"A90", "Caso"}, {"A928", "Controle"}},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	reader, ok := ReaderFor(path, nil)
	require.True(t, ok)
	table, err := reader.ReadTable(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Controle", table.Rows[1]["ESTUDO"])
}

func TestReaderForUnknownExtension(t *testing.T) {
	_, ok := ReaderFor("data.parquet", nil)
	assert.False(t, ok)
}

func TestWriteCSVQuotesFields(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []string{"NOMEDOMUNICIPIO", "CS_SEXO"}, [][]string{{"Betim, MG", "F"}, {"Brumadinho", "M"}})
	require.NoError(t, err)
	assert.Equal(t, "NOMEDOMUNICIPIO,CS_SEXO\n\"Betim, MG\",F\nBrumadinho,M\n", buf.String())

	table, err := NewDataReader("csv", "", nil).Read(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, "Betim, MG", table.Rows[0]["NOMEDOMUNICIPIO"])
}
