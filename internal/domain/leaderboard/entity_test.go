package leaderboard

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"
)

func TestLess_OrdersByExperienceThenMinutes(t *testing.T) {
	more := Entry{AccountID: "acct-1", Experience: 600, TotalMinutes: 10}
	less := Entry{AccountID: "acct-2", Experience: 500, TotalMinutes: 900}

	assert.True(t, Less(more, less), "higher experience ranks first")
	assert.False(t, Less(less, more))

	// Equal experience: total minutes break the tie.
	a := Entry{AccountID: "acct-3", Experience: 500, TotalMinutes: 300}
	b := Entry{AccountID: "acct-4", Experience: 500, TotalMinutes: 200}
	assert.True(t, Less(a, b), "more minutes ranks first on an experience tie")
	assert.False(t, Less(b, a))

	// Full tie: neither ranks before the other, whatever the ids say.
	c := Entry{AccountID: "zzz", Experience: 500, TotalMinutes: 300}
	assert.False(t, Less(a, c))
	assert.False(t, Less(c, a))
}

func TestLess_TieBreakAcrossAFullSort(t *testing.T) {
	entries := []Entry{
		{AccountID: "acct-fewer", Experience: 500, TotalMinutes: 200},
		{AccountID: "acct-top", Experience: 600, TotalMinutes: 10},
		{AccountID: "acct-more", Experience: 500, TotalMinutes: 300},
	}

	sort.SliceStable(entries, func(i, j int) bool { return Less(entries[i], entries[j]) })
	AssignRanks(entries)

	assert.Equal(t, "acct-top", entries[0].AccountID)
	assert.Equal(t, "acct-more", entries[1].AccountID, "500 XP with 300 minutes beats 500 XP with 200")
	assert.Equal(t, "acct-fewer", entries[2].AccountID)
	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
}

func TestEntryFromAccount(t *testing.T) {
	acct := &account.Account{
		ID:          "acct-1",
		DisplayName: "Quiet Mind",
		AvatarURL:   "https://cdn.example.com/a.png",
		Stats: account.Aggregates{
			Experience:    account.Experience(540),
			Level:         account.Level(6),
			TotalSessions: 14,
			TotalMinutes:  270,
			CurrentStreak: 3,
			LongestStreak: 5,
		},
	}

	entry := EntryFromAccount(acct)

	assert.Equal(t, 0, entry.Rank, "rank is assigned later, by position")
	assert.Equal(t, "acct-1", entry.AccountID)
	assert.Equal(t, "Quiet Mind", entry.DisplayName)
	assert.Equal(t, "https://cdn.example.com/a.png", entry.AvatarURL)
	assert.Equal(t, 540, entry.Experience)
	assert.Equal(t, 6, entry.Level)
	assert.Equal(t, 14, entry.TotalSessions)
	assert.Equal(t, 270, entry.TotalMinutes)
	assert.Equal(t, 3, entry.CurrentStreak)
}
