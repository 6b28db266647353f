package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"wavelib/logger"
	"wavelib/model"
)

var exportHeaders = []string{
	"song_id", "channels", "album_name", "song_title", "song_artist_tag",
	"song_added_on", "song_filename", "song_groups", "song_length",
	"song_rating", "song_rating_count", "song_url", "song_link_text",
}

// songsXlsx exports the current filter result as a spreadsheet. The filter
// form is reused verbatim; only the pagination is dropped so every matching
// row lands in the file.
func (h *APIHandler) songsXlsx(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	q := songQueryFromForm(r)
	q.Page = 0
	page, err := h.songRepo.GetSongs(q)
	if err != nil {
		logger.Error("Failed to query songs for export", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	book, err := buildSongsWorkbook(page.Rows)
	if err != nil {
		logger.Error("Failed to build export workbook", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer book.Close()

	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="songs.xlsx"`)
	if err := book.Write(w); err != nil {
		logger.Error("Failed to write export workbook", logger.ErrorField(err))
	}
}

func buildSongsWorkbook(songs []*model.Song) (*excelize.File, error) {
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)

	widths := make([]float64, len(exportHeaders))
	setCell := func(col, row int, value any) error {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := book.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
		if width := float64(len(fmt.Sprint(value))) + 2; width > widths[col] {
			widths[col] = width
		}
		return nil
	}

	for col, header := range exportHeaders {
		if err := setCell(col, 1, header); err != nil {
			return nil, err
		}
	}

	for i, song := range songs {
		row := i + 2
		values := []any{
			// As a string so spreadsheet tools do not reformat large IDs.
			strconv.FormatInt(song.ID, 10),
			song.ChannelsDisplay(),
			song.AlbumName,
			song.Title,
			song.ArtistTag,
			song.AddedOn.Format("2006-01-02 15:04:05"),
			song.Filename,
			strings.Join(song.Groups, ", "),
			song.LengthDisplay(),
			song.Rating,
			song.RatingCount,
			song.URL,
			song.LinkText,
		}
		for col, value := range values {
			if err := setCell(col, row, value); err != nil {
				return nil, err
			}
		}
	}

	ratingFmt := "0.00"
	ratingStyle, err := book.NewStyle(&excelize.Style{CustomNumFmt: &ratingFmt})
	if err != nil {
		return nil, err
	}
	if len(songs) > 0 {
		first, _ := excelize.CoordinatesToCellName(10, 2)
		last, _ := excelize.CoordinatesToCellName(10, len(songs)+1)
		if err := book.SetCellStyle(sheet, first, last, ratingStyle); err != nil {
			return nil, err
		}
	}

	// Header filters and banded rows come from the table definition. A table
	// needs at least one data row.
	if len(songs) > 0 {
		lastCell, err := excelize.CoordinatesToCellName(len(exportHeaders), len(songs)+1)
		if err != nil {
			return nil, err
		}
		if err := book.AddTable(sheet, &excelize.Table{
			Range: "A1:" + lastCell,
			Name:  "songs",
		}); err != nil {
			return nil, err
		}
	}

	minWidths := map[int]float64{0: 10, 8: 14, 9: 13}
	for col, width := range widths {
		if min, ok := minWidths[col]; ok && width < min {
			width = min
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := book.SetColWidth(sheet, name, name, width); err != nil {
			return nil, err
		}
	}
	return book, nil
}
