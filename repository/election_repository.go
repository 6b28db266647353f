package repository

import (
	"database/sql"
	"fmt"
	"time"

	"wavelib/db"
	"wavelib/model"
)

// ElectionRepository is the read-only reporting surface over past elections.
type ElectionRepository interface {
	GetElections(channelID int, day time.Time) ([]model.Election, error)
}

// mysqlElectionRepository implements ElectionRepository for MySQL.
type mysqlElectionRepository struct {
	DB *sql.DB
}

// NewMySQLElectionRepository creates a new instance of mysqlElectionRepository.
func NewMySQLElectionRepository() ElectionRepository {
	return &mysqlElectionRepository{DB: db.DB}
}

// GetElections returns every used election for the channel on the given day,
// with entries in ballot order. Channel IDs outside the known set fall back
// to channel 1.
func (r *mysqlElectionRepository) GetElections(channelID int, day time.Time) ([]model.Election, error) {
	if channelID < 1 || channelID > 5 {
		channelID = 1
	}
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	query := `
select
    e.elec_id, e.elec_start_actual,
    n.entry_id, n.entry_position, n.entry_votes,
    s.song_id, s.song_title, a.album_name, s.song_artist_tag, s.song_rating
from r4_elections e
join r4_election_entries n on n.elec_id = e.elec_id
join r4_songs s on s.song_id = n.song_id
join r4_albums a on a.album_id = s.album_id
where e.elec_used = 1
  and e.sid = ?
  and e.elec_start_actual >= ? and e.elec_start_actual < ?
order by e.elec_start_actual, e.elec_id, n.entry_position`

	rows, err := r.DB.Query(query, channelID, dayStart.Unix(), dayEnd.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query elections: %w", err)
	}
	defer rows.Close()

	elections := make([]model.Election, 0)
	for rows.Next() {
		var (
			elecID, startActual int64
			entry               model.ElectionEntry
		)
		err := rows.Scan(&elecID, &startActual, &entry.EntryID, &entry.Position,
			&entry.Votes, &entry.SongID, &entry.Title, &entry.Album,
			&entry.Artist, &entry.Rating)
		if err != nil {
			return nil, fmt.Errorf("failed to scan election entry: %w", err)
		}
		if len(elections) == 0 || elections[len(elections)-1].ID != elecID {
			elections = append(elections, model.Election{ID: elecID, StartActual: startActual})
		}
		last := &elections[len(elections)-1]
		last.Songs = append(last.Songs, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during election rows iteration: %w", err)
	}
	return elections, nil
}
