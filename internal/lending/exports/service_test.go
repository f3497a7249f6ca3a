package exports

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

func TestBuildLedgerCSV_RoundTripsThroughShiftJIS(t *testing.T) {
	rows := []LedgerRow{
		{
			BorrowID:         1,
			BookTitle:        "吾輩は猫である",
			LibraryName:      "中央図書館",
			UserName:         "山田太郎",
			ReturnDate:       time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			ExtendedDuration: true,
			BorrowedAt:       time.Date(2023, 12, 13, 9, 30, 0, 0, time.UTC),
		},
	}

	raw, err := buildLedgerCSV(rows)
	require.NoError(t, err)

	// cp932 でデコードして元に戻ることを確認
	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), raw)
	require.NoError(t, err)

	text := string(decoded)
	lines := strings.Split(strings.TrimRight(text, "\r\n"), "\r\n")
	require.Len(t, lines, 2)

	assert.Equal(t, "貸出ID,書名,図書館,利用者,返却期限,延長済,貸出日時", lines[0])
	assert.Equal(t, "1,吾輩は猫である,中央図書館,山田太郎,2024-01-10,1,2023-12-13 09:30:00", lines[1])
}

func TestBuildLedgerCSV_EmptyLedgerHasHeaderOnly(t *testing.T) {
	raw, err := buildLedgerCSV(nil)
	require.NoError(t, err)

	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), raw)
	require.NoError(t, err)
	assert.Equal(t, "貸出ID,書名,図書館,利用者,返却期限,延長済,貸出日時\r\n", string(decoded))
}
