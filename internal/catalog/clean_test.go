// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package catalog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

const rawCatalog = `anime_id,name,genre,type,episodes,rating,members
32281,Kimi no Na wa.,"Drama, Romance, School, Supernatural",Movie,1,9.37,200630
x5,Bad id,Action,TV,12,7.0,100
820,Ginga Eiyuu Densetsu,"Drama, Military, Sci-Fi, Space",OVA,110,,80679
821,Negative,"Drama",OVA,110,-2,80679
822,Nan rating,"Drama",OVA,110,NaN,80679
30484,Steins;Gate 0,NaN,TV,Unknown,8.5,60999
33662,Taka no Tsume 8,"Comedy, Parody",Movie,1,10.0,13
`

func TestClean(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	stats, err := Clean(strings.NewReader(rawCatalog), &out, zerolog.Nop())
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if stats.Read != 7 || stats.Kept != 2 {
		t.Errorf("stats = %+v, want read=7 kept=2", stats)
	}
	if stats.Dropped[ReasonBadID] != 1 || stats.Dropped[ReasonBadRating] != 3 || stats.Dropped[ReasonNoGenre] != 1 {
		t.Errorf("dropped = %v", stats.Dropped)
	}
	if stats.DroppedTotal() != 5 {
		t.Errorf("DroppedTotal() = %d, want 5", stats.DroppedTotal())
	}

	want := "anime_id,name,genre,rating\n" +
		`32281,Kimi no Na wa.,"Drama, Romance, School, Supernatural",9.37` + "\n" +
		`33662,Taka no Tsume 8,"Comedy, Parody",10.0` + "\n"
	if out.String() != want {
		t.Errorf("cleaned output =\n%s\nwant\n%s", out.String(), want)
	}

	// The cleaned output must load back without any skipped rows.
	records, ls, err := LoadCSV(&out, zerolog.Nop())
	if err != nil {
		t.Fatalf("LoadCSV(cleaned) error = %v", err)
	}
	if ls.Skipped != 0 || len(records) != 2 {
		t.Errorf("reloaded %d records, skipped %d", len(records), ls.Skipped)
	}
}
