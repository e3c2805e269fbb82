// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package ratings

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// CleanStats reports the outcome of CleanUnrated.
type CleanStats struct {
	Read    int `json:"read"`
	Kept    int `json:"kept"`
	Dropped int `json:"dropped"`
}

// CleanUnrated copies src to w as user_id,anime_id,rating rows, omitting every
// event whose rating is the unrated marker. A header line is written first.
func CleanUnrated(src Source, w io.Writer) (CleanStats, error) {
	var stats CleanStats

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"user_id", "anime_id", "rating"}); err != nil {
		return stats, fmt.Errorf("write header: %w", err)
	}

	row := make([]string, 3)
	for {
		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, err
		}
		stats.Read++

		if ev.IsUnrated() {
			stats.Dropped++
			continue
		}

		row[0] = strconv.Itoa(ev.UserID)
		row[1] = strconv.Itoa(ev.AnimeID)
		row[2] = strconv.Itoa(ev.Rating)
		if err := cw.Write(row); err != nil {
			return stats, fmt.Errorf("write event: %w", err)
		}
		stats.Kept++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return stats, fmt.Errorf("flush ratings: %w", err)
	}
	return stats, nil
}
