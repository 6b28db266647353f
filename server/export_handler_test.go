package server

import (
	"testing"
	"time"

	"wavelib/model"
)

func TestBuildSongsWorkbook(t *testing.T) {
	songs := []*model.Song{
		{
			ID:          8160,
			AlbumName:   "Chrono Trigger",
			Title:       "Schala's Theme",
			ArtistTag:   "Some Remixer",
			Groups:      []string{"Chrono Trigger", "Vocal"},
			Length:      245,
			AddedOn:     time.Date(2024, 3, 9, 12, 30, 0, 0, time.UTC),
			Rating:      4.5,
			RatingCount: 120,
			URL:         "https://ocremix.org/remix/OCR01234",
			Filename:    "/srv/music/ocr-all/c/Chrono Trigger/SchalasTheme.mp3",
			Channels:    []int{2, 5},
		},
	}
	book, err := buildSongsWorkbook(songs)
	if err != nil {
		t.Fatalf("buildSongsWorkbook: %v", err)
	}
	defer book.Close()

	sheet := book.GetSheetName(0)
	got, err := book.GetCellValue(sheet, "A1")
	if err != nil || got != "song_id" {
		t.Errorf("A1 = %q (err %v), want song_id", got, err)
	}
	got, _ = book.GetCellValue(sheet, "A2")
	if got != "8160" {
		t.Errorf("A2 = %q, want 8160", got)
	}
	got, _ = book.GetCellValue(sheet, "I2")
	if got != "4:05" {
		t.Errorf("I2 = %q, want 4:05", got)
	}
	got, _ = book.GetCellValue(sheet, "F2")
	if got != "2024-03-09 12:30:00" {
		t.Errorf("F2 = %q, want 2024-03-09 12:30:00", got)
	}

	tables, err := book.GetTables(sheet)
	if err != nil {
		t.Fatalf("GetTables: %v", err)
	}
	if len(tables) != 1 || tables[0].Name != "songs" {
		t.Errorf("tables = %+v, want one named songs", tables)
	}
}

func TestBuildSongsWorkbookEmpty(t *testing.T) {
	book, err := buildSongsWorkbook(nil)
	if err != nil {
		t.Fatalf("buildSongsWorkbook: %v", err)
	}
	defer book.Close()

	got, _ := book.GetCellValue(book.GetSheetName(0), "M1")
	if got != "song_link_text" {
		t.Errorf("M1 = %q, want song_link_text", got)
	}
}
