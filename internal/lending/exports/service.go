// 貸出台帳のCSVエクスポート
// カウンター業務でExcelに貼る用途なので cp932 (Shift_JIS) で出力する
package exports

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"strconv"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

const dateLayout = "2006-01-02"

var csvHeader = []string{"貸出ID", "書名", "図書館", "利用者", "返却期限", "延長済", "貸出日時"}

type Service struct {
	db    *sql.DB
	store LedgerStore
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, store: NewStore(db)}
}

func (s *Service) BorrowLedgerCSV(ctx context.Context) ([]byte, error) {
	rows, err := s.store.ListLedger(ctx)
	if err != nil {
		return nil, err
	}
	return buildLedgerCSV(rows)
}

func buildLedgerCSV(rows []LedgerRow) ([]byte, error) {
	var buf bytes.Buffer
	// UTF-8 → cp932 への変換をかませる
	enc := transform.NewWriter(&buf, japanese.ShiftJIS.NewEncoder())
	w := csv.NewWriter(enc)
	w.UseCRLF = true // Excel向け

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, r := range rows {
		extended := "0"
		if r.ExtendedDuration {
			extended = "1"
		}
		rec := []string{
			strconv.FormatInt(r.BorrowID, 10),
			r.BookTitle,
			r.LibraryName,
			r.UserName,
			r.ReturnDate.Format(dateLayout),
			extended,
			r.BorrowedAt.Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
