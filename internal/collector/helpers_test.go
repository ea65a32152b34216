package collector

import (
	"bytes"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

const sampleHeader = "SYMBOL,SERIES,OPEN,HIGH,LOW,CLOSE,LAST,PREVCLOSE,TOTTRDQTY,TOTTRDVAL,TIMESTAMP,TOTALTRADES,ISIN,\n"

const sampleCSV = sampleHeader +
	"RELIANCE,EQ,2500,2550,2480,2540,2541,2495,1000000,2530000000.55,15-JAN-2024,50000,INE002A01018,\n" +
	"TCS,EQ,3600,3650,3590,3600,3601,3598,200000,721000000,15-JAN-2024,12000,INE467B01029,\n" +
	"GOI2030,GS,100,101,99,100.5,100.5,100,500,50000,15-JAN-2024,10,IN0020200070,\n" +
	"INFY,BE,1500,1520,1490,1510,1510,1500,30000,45300000,15-JAN-2024,900,INE009A01021,\n"

func buildArchive(t *testing.T, members map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func jan(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}
