package game

import "sort"

// LeaderBoardEntry ranks one player by total net worth: cash plus the
// market value of every held share at the prices the board was computed
// with. Boards are derived data, recomputed from player state on demand
// and cached per closed round.
type LeaderBoardEntry struct {
	UserID      string  `json:"player"`
	TotalAssets float64 `json:"totalAssets"`
}

// computeLeaderBoard ranks players by net worth at the given prices,
// highest first. Ties break on ascending player id so the order is
// deterministic.
func computeLeaderBoard(players map[string]*PlayerState, prices map[string]float64) []LeaderBoardEntry {
	entries := make([]LeaderBoardEntry, 0, len(players))
	for id, p := range players {
		entries = append(entries, LeaderBoardEntry{UserID: id, TotalAssets: p.netWorth(prices)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalAssets != entries[j].TotalAssets {
			return entries[i].TotalAssets > entries[j].TotalAssets
		}
		return entries[i].UserID < entries[j].UserID
	})
	return entries
}
