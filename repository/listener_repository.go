package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wavelib/db"
	"wavelib/model"
)

// ListenerQuery holds the filter and pagination parameters for a listener
// search. Listeners are always ordered by user ID.
type ListenerQuery struct {
	Search string
	Page   int
	Ranks  []int
}

// ListenerRepository defines the surface over the listener tables. The only
// write path is SetDiscordUserID.
type ListenerRepository interface {
	GetListeners(q ListenerQuery) (*model.ListenerPage, error)
	GetListenerByID(id int64) (*model.Listener, error)
	GetRanks() ([]model.Rank, error)
	SetDiscordUserID(listenerID int64, discordUserID string) error
}

// mysqlListenerRepository implements ListenerRepository for MySQL.
type mysqlListenerRepository struct {
	DB *sql.DB
}

// NewMySQLListenerRepository creates a new instance of mysqlListenerRepository.
func NewMySQLListenerRepository() ListenerRepository {
	return &mysqlListenerRepository{DB: db.DB}
}

// listenerSelect is the shared column list. The group name mapping follows
// the forum's fixed group IDs; unknown groups are labelled with their ID.
const listenerSelect = `
select
    u.user_id,
    coalesce(nullif(u.radio_username, ''), u.username) as user_name,
    case u.group_id
        when 1 then 'Anonymous'
        when 2 then 'Legacy Listeners'
        when 3 then 'Discord Listeners'
        when 5 then 'Admins'
        when 6 then 'Bot'
        when 8 then 'Donors'
        when 18 then 'Managers'
        else concat('Unknown (', u.group_id, ')')
    end as group_name,
    u.user_rank,
    coalesce(r.rank_title, '') as rank_title,
    u.discord_user_id,
    u.radio_last_active,
    u.radio_totalratings,
    coalesce(u.user_avatar, '') as user_avatar
from phpbb_users u
left join phpbb_ranks r on r.rank_id = u.user_rank`

func scanListener(sc songScanner) (*model.Listener, error) {
	l := &model.Listener{}
	var (
		discordID  sql.NullString
		lastActive int64
	)
	err := sc.Scan(&l.ID, &l.Name, &l.GroupName, &l.RankID, &l.RankTitle,
		&discordID, &lastActive, &l.RatingCount, &l.Avatar)
	if err != nil {
		return nil, fmt.Errorf("failed to scan listener: %w", err)
	}
	l.DiscordUserID = discordID.String
	if lastActive > 0 {
		t := time.Unix(lastActive, 0).UTC()
		l.LastActive = &t
	}
	return l, nil
}

// GetListeners returns one page of listeners. The base predicate excludes
// the anonymous pseudo-account and bot accounts, matching what staff expect
// to see in the listener table.
func (r *mysqlListenerRepository) GetListeners(q ListenerQuery) (*model.ListenerPage, error) {
	b := &whereBuilder{}
	b.add("u.user_type <> 2 and u.user_id > 1")

	if q.Search != "" {
		b.add(`instr(lower(concat_ws(' ', u.radio_username, u.username, u.discord_user_id)), lower(?)) > 0`, q.Search)
	}
	if len(q.Ranks) > 0 {
		args := make([]any, len(q.Ranks))
		for i, rank := range q.Ranks {
			args[i] = rank
		}
		b.add(fmt.Sprintf("u.user_rank in (%s)", placeholders(len(q.Ranks))), args...)
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	args := append(b.args, PageSize*(page-1))

	query := fmt.Sprintf(`%s
where %s
order by u.user_id
limit %d offset ?`, listenerSelect, b.clause(), PageSize+1)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listeners: %w", err)
	}
	defer rows.Close()

	listeners := make([]*model.Listener, 0)
	for rows.Next() {
		l, err := scanListener(rows)
		if err != nil {
			return nil, err
		}
		listeners = append(listeners, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during listener rows iteration: %w", err)
	}

	out := &model.ListenerPage{Rows: listeners, Page: page}
	out.Rows, out.HasMore = trimToPage(listeners)
	return out, nil
}

// GetListenerByID retrieves a single listener, returning nil when no such
// account exists.
func (r *mysqlListenerRepository) GetListenerByID(id int64) (*model.Listener, error) {
	query := listenerSelect + "\nwhere u.user_id = ?"
	l, err := scanListener(r.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Listener not found
		}
		return nil, fmt.Errorf("failed to get listener by ID %d: %w", id, err)
	}
	return l, nil
}

// GetRanks returns every rank title currently held by at least one listener.
func (r *mysqlListenerRepository) GetRanks() ([]model.Rank, error) {
	query := `
select distinct r.rank_id, r.rank_title
from phpbb_users u
join phpbb_ranks r on r.rank_id = u.user_rank
order by r.rank_title`

	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranks: %w", err)
	}
	defer rows.Close()

	ranks := make([]model.Rank, 0)
	for rows.Next() {
		var rank model.Rank
		if err := rows.Scan(&rank.ID, &rank.Title); err != nil {
			return nil, fmt.Errorf("failed to scan rank: %w", err)
		}
		ranks = append(ranks, rank)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rank rows iteration: %w", err)
	}
	return ranks, nil
}

// SetDiscordUserID links a listener to an external Discord account. An empty
// discordUserID clears the link (stored as NULL; the column is unique when
// present).
func (r *mysqlListenerRepository) SetDiscordUserID(listenerID int64, discordUserID string) error {
	var value any
	if discordUserID != "" {
		value = discordUserID
	}
	_, err := r.DB.Exec(`update phpbb_users set discord_user_id = ? where user_id = ?`, value, listenerID)
	if err != nil {
		return fmt.Errorf("failed to set discord user ID for listener %d: %w", listenerID, err)
	}
	return nil
}
