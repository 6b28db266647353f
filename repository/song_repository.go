package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"wavelib/db"
	"wavelib/logger"
	"wavelib/model"
)

// PageSize is the number of rows shown per page. One extra row is fetched to
// learn whether another page exists without issuing a COUNT query.
const PageSize = 100

// SongQuery holds the caller-supplied filter, sort and pagination parameters
// for a song search. The zero value is valid and returns the first page of
// every verified song. Out-of-whitelist sort values never fail; they fall
// back to the song ID ascending.
type SongQuery struct {
	Search  string
	Page    int // 1-based; zero or negative disables pagination (export path)
	SortCol string
	SortDir string
	// Channels restricts results to songs airing on at least one of these
	// channel IDs. Empty means all channels.
	Channels []int
	// IncludeUnrated keeps songs with a zero rating in the results.
	IncludeUnrated bool
}

// SongRepository defines the read surface over the song and album tables.
type SongRepository interface {
	GetSongs(q SongQuery) (*model.SongPage, error)
	GetSongByID(id int64) (*model.Song, error)
	GetMaxRemixNumber() (int, error)
	GetCategoryForAlbum(albumName string) (string, error)
	GetSongFilenames() (map[string]bool, error)
}

// mysqlSongRepository implements SongRepository for MySQL.
type mysqlSongRepository struct {
	DB *sql.DB
}

// NewMySQLSongRepository creates a new instance of mysqlSongRepository.
func NewMySQLSongRepository() SongRepository {
	return &mysqlSongRepository{DB: db.DB}
}

// songSortColumns whitelists the sortable columns and maps the form value to
// the SQL identifier. Only values from this map are ever interpolated into
// the statement text.
var songSortColumns = map[string]string{
	"album_name":    "a.album_name",
	"song_filename": "s.song_filename",
	"song_id":       "s.song_id",
	"song_length":   "s.song_length",
	"song_rating":   "s.song_rating",
	"song_title":    "s.song_title",
	"song_url":      "s.song_url",
}

// songTextColumns marks the sort columns that need a byte-faithful collation
// so ordering does not depend on the server locale.
var songTextColumns = map[string]bool{
	"album_name":    true,
	"song_filename": true,
	"song_title":    true,
}

// resolveSongSort turns raw sort parameters into an ORDER BY body. Unknown
// columns fall back to song_id, unknown directions to asc, and song_id asc
// is appended as a tiebreaker whenever it is not already the primary key,
// so ordering is deterministic across pages.
func resolveSongSort(col, dir string) string {
	if dir != "asc" && dir != "desc" {
		dir = "asc"
	}
	ident, ok := songSortColumns[col]
	if !ok {
		col = "song_id"
		ident = songSortColumns[col]
	}
	clause := ident + " " + dir
	if songTextColumns[col] {
		clause = ident + " COLLATE utf8mb4_bin " + dir
	}
	if col != "song_id" {
		clause += ", s.song_id asc"
	}
	return clause
}

// whereBuilder accumulates (predicate, bound parameter) pairs. Predicates
// are joined with AND; caller-controlled values are always bound, never
// written into the statement text.
type whereBuilder struct {
	preds []string
	args  []any
}

func (b *whereBuilder) add(pred string, args ...any) {
	b.preds = append(b.preds, pred)
	b.args = append(b.args, args...)
}

func (b *whereBuilder) clause() string {
	return strings.Join(b.preds, "\n  and ")
}

// placeholders returns n comma-separated bind markers.
// trimToPage applies the look-ahead sentinel: paged queries fetch one row
// beyond PageSize, and that extra row only signals that another page exists.
// It is dropped here and never reaches a caller.
func trimToPage[T any](rows []T) ([]T, bool) {
	if len(rows) > PageSize {
		return rows[:PageSize], true
	}
	return rows, false
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// buildSongsSQL assembles the search statement and its bound parameters for
// the given query.
func buildSongsSQL(q SongQuery) (string, []any) {
	b := &whereBuilder{}
	b.add("s.song_verified = 1")

	if q.Search != "" {
		// Fields are joined with a space separator so a match cannot span
		// the end of one field and the start of the next.
		b.add(`instr(lower(concat_ws(' ', a.album_name, s.song_title, s.song_artist_tag, s.song_filename, s.song_url)), lower(?)) > 0`, q.Search)
	}

	if !q.IncludeUnrated {
		b.add("s.song_rating > 0")
	}

	channels := q.Channels
	if len(channels) == 0 {
		channels = model.AllChannelIDs()
	}
	channelArgs := make([]any, len(channels))
	for i, c := range channels {
		channelArgs[i] = c
	}
	b.add(fmt.Sprintf(`exists (
    select 1 from r4_song_sid c
    where c.song_id = s.song_id and c.song_exists = 1 and c.sid in (%s)
)`, placeholders(len(channels))), channelArgs...)

	limitClause := ""
	args := b.args
	if q.Page > 0 {
		limitClause = fmt.Sprintf("limit %d offset ?", PageSize+1)
		args = append(args, PageSize*(q.Page-1))
	}

	query := fmt.Sprintf(`
select
    a.album_name,
    (select group_concat(c.sid order by c.sid)
     from r4_song_sid c
     where c.song_id = s.song_id and c.song_exists = 1) as channels,
    s.song_added_on, s.song_artist_tag, s.song_filename,
    (select group_concat(g.group_name order by g.group_name separator '|')
     from r4_song_group sg
     join r4_groups g on g.group_id = sg.group_id
     where sg.song_id = s.song_id) as song_groups,
    s.song_id, s.song_length, s.song_link_text, s.song_rating,
    s.song_rating_count, s.song_fave_count, s.song_request_count,
    s.song_title, s.song_url
from r4_songs s
join r4_albums a on a.album_id = s.album_id
where %s
order by %s
%s`, b.clause(), resolveSongSort(q.SortCol, q.SortDir), limitClause)

	return query, args
}

// GetSongs returns one page of songs matching the query, or every match when
// q.Page is zero or negative. The ordering is deterministic for identical
// parameters against an unchanged dataset.
func (r *mysqlSongRepository) GetSongs(q SongQuery) (*model.SongPage, error) {
	query, args := buildSongsSQL(q)
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	songs := make([]*model.Song, 0)
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during song rows iteration: %w", err)
	}

	page := &model.SongPage{Rows: songs, Page: q.Page}
	if q.Page > 0 {
		page.Rows, page.HasMore = trimToPage(songs)
	}
	return page, nil
}

// songScanner lets scanSong work with both *sql.Row and *sql.Rows.
type songScanner interface {
	Scan(dest ...any) error
}

func scanSong(sc songScanner) (*model.Song, error) {
	song := &model.Song{}
	var (
		channels sql.NullString
		groups   sql.NullString
		linkText sql.NullString
		url      sql.NullString
		addedOn  int64
	)
	err := sc.Scan(&song.AlbumName, &channels, &addedOn, &song.ArtistTag,
		&song.Filename, &groups, &song.ID, &song.Length, &linkText,
		&song.Rating, &song.RatingCount, &song.FaveCount, &song.RequestCount,
		&song.Title, &url)
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}
	song.AddedOn = time.Unix(addedOn, 0).UTC()
	song.LinkText = linkText.String
	song.URL = url.String
	song.Channels = splitChannels(channels.String)
	song.Groups = splitGroups(groups.String)
	return song, nil
}

func splitChannels(s string) []int {
	out := make([]int, 0)
	for _, part := range strings.Split(s, ",") {
		if part == "" {
			continue
		}
		if n, err := strconv.Atoi(part); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func splitGroups(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "|")
}

// GetSongByID retrieves a single song by its ID, returning nil when the song
// does not exist or is not verified.
func (r *mysqlSongRepository) GetSongByID(id int64) (*model.Song, error) {
	query := `
select
    a.album_name,
    (select group_concat(c.sid order by c.sid)
     from r4_song_sid c
     where c.song_id = s.song_id and c.song_exists = 1) as channels,
    s.song_added_on, s.song_artist_tag, s.song_filename,
    (select group_concat(g.group_name order by g.group_name separator '|')
     from r4_song_group sg
     join r4_groups g on g.group_id = sg.group_id
     where sg.song_id = s.song_id) as song_groups,
    s.song_id, s.song_length, s.song_link_text, s.song_rating,
    s.song_rating_count, s.song_fave_count, s.song_request_count,
    s.song_title, s.song_url
from r4_songs s
join r4_albums a on a.album_id = s.album_id
where s.song_verified = 1 and s.song_id = ?`

	song, err := scanSong(r.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Song not found
		}
		return nil, fmt.Errorf("failed to get song by ID %d: %w", id, err)
	}
	return song, nil
}

// GetMaxRemixNumber returns the highest remix number currently present in
// the library, derived from the trailing digits of remix catalog URLs.
func (r *mysqlSongRepository) GetMaxRemixNumber() (int, error) {
	query := `
select cast(right(s.song_url, 5) as unsigned)
from r4_songs s
where s.song_verified = 1 and instr(s.song_url, '/remix/OCR') > 0
order by s.song_url desc
limit 1`

	var num int
	err := r.DB.QueryRow(query).Scan(&num)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get max remix number: %w", err)
	}
	return num, nil
}

// GetCategoryForAlbum returns the most common tag group among the songs of
// the named album, or the empty string when the album has no tagged songs.
func (r *mysqlSongRepository) GetCategoryForAlbum(albumName string) (string, error) {
	query := `
select g.group_name
from r4_albums a
join r4_songs s on s.album_id = a.album_id
join r4_song_group sg on sg.song_id = s.song_id
join r4_groups g on g.group_id = sg.group_id
where a.album_name = ?
group by g.group_name
order by count(*) desc, g.group_name
limit 1`

	var name string
	err := r.DB.QueryRow(query, albumName).Scan(&name)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get category for album %q: %w", albumName, err)
	}
	return name, nil
}

// GetSongFilenames returns every song file path known to the database mapped
// to its verification flag. Used by the library maintenance commands.
func (r *mysqlSongRepository) GetSongFilenames() (map[string]bool, error) {
	rows, err := r.DB.Query(`select song_filename, song_verified from r4_songs order by song_filename`)
	if err != nil {
		return nil, fmt.Errorf("failed to query song filenames: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var filename string
		var verified bool
		if err := rows.Scan(&filename, &verified); err != nil {
			return nil, fmt.Errorf("failed to scan song filename: %w", err)
		}
		out[filename] = verified
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during filename rows iteration: %w", err)
	}
	logger.Debug("Loaded song filenames from database", logger.Int("count", len(out)))
	return out, nil
}
