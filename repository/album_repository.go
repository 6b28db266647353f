package repository

import (
	"database/sql"
	"fmt"

	"wavelib/db"
	"wavelib/model"
)

// AlbumQuery holds the filter, sort and pagination parameters for an album
// search. Semantics match SongQuery: invalid sort values fall back to the
// album ID ascending and page zero disables pagination.
type AlbumQuery struct {
	Search  string
	Page    int
	SortCol string
	SortDir string
}

// AlbumRepository defines the read surface over the album tables.
type AlbumRepository interface {
	GetAlbums(q AlbumQuery) (*model.AlbumPage, error)
}

// mysqlAlbumRepository implements AlbumRepository for MySQL.
type mysqlAlbumRepository struct {
	DB *sql.DB
}

// NewMySQLAlbumRepository creates a new instance of mysqlAlbumRepository.
func NewMySQLAlbumRepository() AlbumRepository {
	return &mysqlAlbumRepository{DB: db.DB}
}

var albumSortColumns = map[string]string{
	"album_id":   "a.album_id",
	"album_name": "a.album_name",
	"song_count": "song_count",
}

var albumTextColumns = map[string]bool{
	"album_name": true,
}

// resolveAlbumSort mirrors resolveSongSort for the album whitelist.
func resolveAlbumSort(col, dir string) string {
	if dir != "asc" && dir != "desc" {
		dir = "asc"
	}
	ident, ok := albumSortColumns[col]
	if !ok {
		col = "album_id"
		ident = albumSortColumns[col]
	}
	clause := ident + " " + dir
	if albumTextColumns[col] {
		clause = ident + " COLLATE utf8mb4_bin " + dir
	}
	if col != "album_id" {
		clause += ", a.album_id asc"
	}
	return clause
}

// buildAlbumsSQL assembles the album search statement. The search matches
// both the display name and the scanner-normalized searchable variant, so
// queries typed without punctuation still hit.
func buildAlbumsSQL(q AlbumQuery) (string, []any) {
	b := &whereBuilder{}
	b.add("exists (select 1 from r4_songs s where s.album_id = a.album_id and s.song_verified = 1)")

	if q.Search != "" {
		b.add(`instr(lower(concat_ws(' ', a.album_name, a.album_name_searchable)), lower(?)) > 0`, q.Search)
	}

	limitClause := ""
	args := b.args
	if q.Page > 0 {
		limitClause = fmt.Sprintf("limit %d offset ?", PageSize+1)
		args = append(args, PageSize*(q.Page-1))
	}

	query := fmt.Sprintf(`
select
    a.album_id, a.album_name,
    (select count(*) from r4_songs s
     where s.album_id = a.album_id and s.song_verified = 1) as song_count
from r4_albums a
where %s
order by %s
%s`, b.clause(), resolveAlbumSort(q.SortCol, q.SortDir), limitClause)

	return query, args
}

// GetAlbums returns one page of albums matching the query, or every match
// when q.Page is zero or negative.
func (r *mysqlAlbumRepository) GetAlbums(q AlbumQuery) (*model.AlbumPage, error) {
	query, args := buildAlbumsSQL(q)
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}
	defer rows.Close()

	albums := make([]*model.Album, 0)
	for rows.Next() {
		album := &model.Album{}
		if err := rows.Scan(&album.ID, &album.Name, &album.SongCount); err != nil {
			return nil, fmt.Errorf("failed to scan album: %w", err)
		}
		albums = append(albums, album)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during album rows iteration: %w", err)
	}

	page := &model.AlbumPage{Rows: albums, Page: q.Page}
	if q.Page > 0 {
		page.Rows, page.HasMore = trimToPage(albums)
	}
	return page, nil
}
