package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSimpleCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	err := w.WriteSimpleCSV("out.csv",
		[]string{"A", "B"},
		[][]string{{"1", "x"}, {"2", "y"}})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)

	// UTF-8 BOM then the CSV body.
	require.True(t, len(data) > 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
	assert.Equal(t, "A,B\n1,x\n2,y\n", string(data[3:]))
}

func TestWriteCSVCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	err := w.WriteCSV(filepath.Join("nested", "deep", "out.csv"), WriteOptions{
		Headers: []string{"A"},
		Records: [][]string{{"1"}},
	})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "nested", "deep", "out.csv"))
	assert.NoError(t, err)
}

func TestAppendToCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	require.NoError(t, w.WriteCSV("log.csv", WriteOptions{
		Headers: []string{"A"},
		Records: [][]string{{"1"}},
	}))
	require.NoError(t, w.AppendToCSV("log.csv", [][]string{{"2"}, {"3"}}))

	data, err := os.ReadFile(filepath.Join(dir, "log.csv"))
	require.NoError(t, err)
	assert.Equal(t, "A\n1\n2\n3\n", string(data))
}

func TestWriteCSVAbsolutePath(t *testing.T) {
	reports := t.TempDir()
	other := t.TempDir()
	w := NewCSVWriter(reports)

	target := filepath.Join(other, "abs.csv")
	require.NoError(t, w.WriteCSV(target, WriteOptions{
		Headers: []string{"A"},
		Records: [][]string{{"1"}},
	}))

	_, err := os.Stat(target)
	assert.NoError(t, err)

	entries, err := os.ReadDir(reports)
	require.NoError(t, err)
	assert.Empty(t, entries, "absolute paths must not land in the reports dir")
}

func TestStreamWriter(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	sw, err := w.CreateStreamWriter("stream.csv", []string{"A", "B"})
	require.NoError(t, err)

	require.NoError(t, sw.WriteRecord([]string{"1", "x"}))
	require.NoError(t, sw.WriteRecord([]string{"2", "y"}))
	require.NoError(t, sw.Close())

	data, err := os.ReadFile(filepath.Join(dir, "stream.csv"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
	assert.Equal(t, "A,B\n1,x\n2,y\n", string(data[3:]))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "13.40", formatFloat(13.4))
	assert.Equal(t, "0.00", formatFloat(0))
	assert.Equal(t, "-2.50", formatFloat(-2.5))
}
