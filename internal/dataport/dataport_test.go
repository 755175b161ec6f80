package dataport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestCSVPortFiltersByDateRangeAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "ABC.csv", "300,10,11,9,10,1000\n100,9,10,8,9,900\n200,9.5,10.5,8.5,9.5,950\n")

	port := NewCSVPort(dir)
	bars, err := port.FetchOHLCV("ABC", "NASDAQ", 100, 200)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, int64(100), bars[0].Date)
	assert.Equal(t, int64(200), bars[1].Date)
}

func TestCSVPortCachesAcrossCalls(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "ABC.csv", "100,1,2,0.5,1.5,10\n")
	port := NewCSVPort(dir)

	_, err := port.FetchOHLCV("ABC", "X", 0, 1000)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "ABC.csv")))
	bars, err := port.FetchOHLCV("ABC", "X", 0, 1000)
	require.NoError(t, err)
	assert.Len(t, bars, 1, "cached result should survive the file being removed")
}

func TestCSVPortListSymbolsExcludesIntervalsFile(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "ABC.csv", "")
	writeCSV(t, dir, "intervals.csv", "")
	port := NewCSVPort(dir)

	symbols, err := port.ListSymbols("NASDAQ")
	require.NoError(t, err)
	assert.Equal(t, []string{"ABC"}, symbols)
}

func TestSyntheticPortIsDeterministicPerCode(t *testing.T) {
	port := NewSyntheticPort()
	a, err := port.FetchOHLCV("XYZ", "NASDAQ", 0, 10*daySeconds)
	require.NoError(t, err)
	b, err := port.FetchOHLCV("XYZ", "NASDAQ", 0, 10*daySeconds)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestSyntheticPortDiffersAcrossCodes(t *testing.T) {
	port := NewSyntheticPort()
	a, err := port.FetchOHLCV("AAA", "NASDAQ", 0, 10*daySeconds)
	require.NoError(t, err)
	b, err := port.FetchOHLCV("BBB", "NASDAQ", 0, 10*daySeconds)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
