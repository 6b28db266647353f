package repository

import (
	"strings"
	"testing"

	"wavelib/model"
)

func TestResolveSongSort(t *testing.T) {
	cases := []struct {
		name string
		col  string
		dir  string
		want string
	}{
		{"Default", "", "", "s.song_id asc"},
		{"Garbage", "drop table", "xyz", "s.song_id asc"},
		{"IDDesc", "song_id", "desc", "s.song_id desc"},
		{"TextColumnUsesBinaryCollation", "song_title", "desc", "s.song_title COLLATE utf8mb4_bin desc, s.song_id asc"},
		{"AlbumName", "album_name", "asc", "a.album_name COLLATE utf8mb4_bin asc, s.song_id asc"},
		{"Filename", "song_filename", "asc", "s.song_filename COLLATE utf8mb4_bin asc, s.song_id asc"},
		{"NumericColumnNoCollation", "song_rating", "desc", "s.song_rating desc, s.song_id asc"},
		{"LengthWithBadDirection", "song_length", "sideways", "s.song_length asc, s.song_id asc"},
		{"URL", "song_url", "desc", "s.song_url desc, s.song_id asc"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolveSongSort(tc.col, tc.dir)
			if got != tc.want {
				t.Errorf("resolveSongSort(%q, %q) = %q, want %q", tc.col, tc.dir, got, tc.want)
			}
		})
	}
}

func TestResolveAlbumSort(t *testing.T) {
	cases := []struct {
		name string
		col  string
		dir  string
		want string
	}{
		{"Default", "", "", "a.album_id asc"},
		{"Garbage", "'; drop table r4_albums; --", "desc", "a.album_id desc"},
		{"Name", "album_name", "desc", "a.album_name COLLATE utf8mb4_bin desc, a.album_id asc"},
		{"SongCount", "song_count", "asc", "song_count asc, a.album_id asc"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolveAlbumSort(tc.col, tc.dir)
			if got != tc.want {
				t.Errorf("resolveAlbumSort(%q, %q) = %q, want %q", tc.col, tc.dir, got, tc.want)
			}
		})
	}
}

func TestBuildSongsSQLPagination(t *testing.T) {
	t.Run("PageZeroHasNoLimit", func(t *testing.T) {
		query, args := buildSongsSQL(SongQuery{Page: 0, IncludeUnrated: true})
		if strings.Contains(strings.ToLower(query), "limit") {
			t.Errorf("page 0 query must not contain a limit clause:\n%s", query)
		}
		// Only the five default channel IDs are bound.
		if len(args) != 5 {
			t.Errorf("expected 5 args, got %d: %v", len(args), args)
		}
	})

	t.Run("NegativePageHasNoLimit", func(t *testing.T) {
		query, _ := buildSongsSQL(SongQuery{Page: -3, IncludeUnrated: true})
		if strings.Contains(strings.ToLower(query), "limit") {
			t.Errorf("negative page query must not contain a limit clause:\n%s", query)
		}
	})

	t.Run("PageOneFetchesSentinelRow", func(t *testing.T) {
		query, args := buildSongsSQL(SongQuery{Page: 1, IncludeUnrated: true})
		if !strings.Contains(query, "limit 101 offset ?") {
			t.Errorf("expected limit 101 with bound offset:\n%s", query)
		}
		offset := args[len(args)-1]
		if offset != 0 {
			t.Errorf("expected offset 0 for page 1, got %v", offset)
		}
	})

	t.Run("OffsetGrowsByPageSize", func(t *testing.T) {
		_, args := buildSongsSQL(SongQuery{Page: 4, IncludeUnrated: true})
		offset := args[len(args)-1]
		if offset != 300 {
			t.Errorf("expected offset 300 for page 4, got %v", offset)
		}
	})
}

func TestBuildSongsSQLPredicates(t *testing.T) {
	t.Run("AlwaysRequiresVerified", func(t *testing.T) {
		query, _ := buildSongsSQL(SongQuery{IncludeUnrated: true})
		if !strings.Contains(query, "s.song_verified = 1") {
			t.Errorf("missing verified predicate:\n%s", query)
		}
	})

	t.Run("SearchIsBoundNotInterpolated", func(t *testing.T) {
		needle := "zelda'; drop table r4_songs; --"
		query, args := buildSongsSQL(SongQuery{Search: needle, Page: 1, IncludeUnrated: true})
		if strings.Contains(query, needle) {
			t.Errorf("search string leaked into statement text:\n%s", query)
		}
		if args[0] != needle {
			t.Errorf("expected search string as first bound arg, got %v", args[0])
		}
		if !strings.Contains(query, "concat_ws(' ', a.album_name, s.song_title, s.song_artist_tag, s.song_filename, s.song_url)") {
			t.Errorf("search predicate does not cover the expected fields:\n%s", query)
		}
	})

	t.Run("ExcludeUnratedAddsRatingPredicate", func(t *testing.T) {
		query, _ := buildSongsSQL(SongQuery{IncludeUnrated: false})
		if !strings.Contains(query, "s.song_rating > 0") {
			t.Errorf("missing rating predicate:\n%s", query)
		}
	})

	t.Run("IncludeUnratedOmitsRatingPredicate", func(t *testing.T) {
		query, _ := buildSongsSQL(SongQuery{IncludeUnrated: true})
		if strings.Contains(query, "s.song_rating > 0") {
			t.Errorf("unexpected rating predicate:\n%s", query)
		}
	})

	t.Run("EmptyChannelSetMeansAllChannels", func(t *testing.T) {
		query, args := buildSongsSQL(SongQuery{IncludeUnrated: true})
		if !strings.Contains(query, "c.sid in (?,?,?,?,?)") {
			t.Errorf("expected five channel placeholders:\n%s", query)
		}
		want := []int{1, 2, 3, 4, 5}
		for i, w := range want {
			if args[i] != w {
				t.Errorf("channel arg %d = %v, want %d", i, args[i], w)
			}
		}
	})

	t.Run("ExplicitChannelSet", func(t *testing.T) {
		query, args := buildSongsSQL(SongQuery{Channels: []int{3, 5}, IncludeUnrated: true})
		if !strings.Contains(query, "c.sid in (?,?)") {
			t.Errorf("expected two channel placeholders:\n%s", query)
		}
		if args[0] != 3 || args[1] != 5 {
			t.Errorf("unexpected channel args: %v", args)
		}
	})
}

func TestBuildSongsSQLDeterministic(t *testing.T) {
	q := SongQuery{Search: "zelda", Page: 2, SortCol: "song_title", SortDir: "desc", Channels: []int{1}}
	q1, a1 := buildSongsSQL(q)
	q2, a2 := buildSongsSQL(q)
	if q1 != q2 {
		t.Error("identical queries produced different statements")
	}
	if len(a1) != len(a2) {
		t.Fatalf("identical queries produced different arg counts: %d vs %d", len(a1), len(a2))
	}
	for i := range a1 {
		if a1[i] != a2[i] {
			t.Errorf("arg %d differs: %v vs %v", i, a1[i], a2[i])
		}
	}
}

func TestBuildAlbumsSQL(t *testing.T) {
	t.Run("SearchCoversSearchableVariant", func(t *testing.T) {
		query, args := buildAlbumsSQL(AlbumQuery{Search: "chrono", Page: 1})
		if !strings.Contains(query, "a.album_name_searchable") {
			t.Errorf("album search must include the searchable name variant:\n%s", query)
		}
		if args[0] != "chrono" {
			t.Errorf("expected search string bound first, got %v", args[0])
		}
	})

	t.Run("PageZeroHasNoLimit", func(t *testing.T) {
		query, args := buildAlbumsSQL(AlbumQuery{Page: 0})
		if strings.Contains(strings.ToLower(query), "limit") {
			t.Errorf("page 0 query must not contain a limit clause:\n%s", query)
		}
		if len(args) != 0 {
			t.Errorf("expected no args, got %v", args)
		}
	})
}

func TestPlaceholders(t *testing.T) {
	if got := placeholders(1); got != "?" {
		t.Errorf("placeholders(1) = %q", got)
	}
	if got := placeholders(5); got != "?,?,?,?,?" {
		t.Errorf("placeholders(5) = %q", got)
	}
}

func TestSplitHelpers(t *testing.T) {
	t.Run("Channels", func(t *testing.T) {
		got := splitChannels("1,3,5")
		want := []int{1, 3, 5}
		if len(got) != len(want) {
			t.Fatalf("splitChannels = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("splitChannels[%d] = %d, want %d", i, got[i], want[i])
			}
		}
	})

	t.Run("EmptyChannels", func(t *testing.T) {
		if got := splitChannels(""); len(got) != 0 {
			t.Errorf("splitChannels(\"\") = %v, want empty", got)
		}
	})

	t.Run("Groups", func(t *testing.T) {
		got := splitGroups("Action|RPG, Tactical|Vocal")
		if len(got) != 3 || got[1] != "RPG, Tactical" {
			t.Errorf("splitGroups = %v", got)
		}
	})

	t.Run("EmptyGroups", func(t *testing.T) {
		if got := splitGroups(""); len(got) != 0 {
			t.Errorf("splitGroups(\"\") = %v, want empty", got)
		}
	})
}

func TestTrimToPage(t *testing.T) {
	build := func(n int) []*model.Song {
		rows := make([]*model.Song, n)
		for i := range rows {
			rows[i] = &model.Song{ID: int64(i + 1)}
		}
		return rows
	}

	cases := []struct {
		name        string
		in          int
		wantLen     int
		wantHasMore bool
	}{
		{"Empty", 0, 0, false},
		{"PartialPage", 99, 99, false},
		{"ExactPage", 100, 100, false},
		{"SentinelRow", 101, 100, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows, hasMore := trimToPage(build(tc.in))
			if len(rows) != tc.wantLen {
				t.Errorf("len = %d, want %d", len(rows), tc.wantLen)
			}
			if hasMore != tc.wantHasMore {
				t.Errorf("hasMore = %v, want %v", hasMore, tc.wantHasMore)
			}
			if tc.wantHasMore && rows[len(rows)-1].ID != int64(PageSize) {
				t.Errorf("last row ID = %d, want %d", rows[len(rows)-1].ID, PageSize)
			}
		})
	}

	t.Run("WorksAcrossRowTypes", func(t *testing.T) {
		listeners := make([]*model.Listener, PageSize+1)
		for i := range listeners {
			listeners[i] = &model.Listener{ID: int64(i + 1)}
		}
		rows, hasMore := trimToPage(listeners)
		if len(rows) != PageSize || !hasMore {
			t.Errorf("len=%d hasMore=%v, want %d/true", len(rows), hasMore, PageSize)
		}
	})
}
