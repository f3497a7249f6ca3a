package copies

// AvailableCopy は本×館ごとの蔵書数と貸出可能数。
type AvailableCopy struct {
	CopyID    int64
	BookID    int64
	LibraryID int64
	Total     int
	Available int
}
