package services

import "time"

const dateLayout = "2006-01-02"

// LongestStreak walks a de-duplicated, descending list of workout dates
// (formatted YYYY-MM-DD) and returns the longest run of consecutive
// calendar days anywhere in history. Zero dates → 0, one date → 1.
func LongestStreak(datesDesc []string) int {
	if len(datesDesc) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 0; i < len(datesDesc)-1; i++ {
		cur, err1 := time.Parse(dateLayout, datesDesc[i])
		next, err2 := time.Parse(dateLayout, datesDesc[i+1])
		if err1 != nil || err2 != nil {
			continue
		}
		if daysBetween(next, cur) == 1 {
			run++
		} else {
			if run > longest {
				longest = run
			}
			run = 1
		}
	}
	if run > longest {
		longest = run
	}
	return longest
}

// CurrentStreak returns the run of consecutive workout days ending at
// now. It only counts when the newest date is today or yesterday;
// a streak broken before that is already over and reads as 0.
func CurrentStreak(datesDesc []string, now time.Time) int {
	if len(datesDesc) == 0 {
		return 0
	}
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)
	if datesDesc[0] != today && datesDesc[0] != yesterday {
		return 0
	}
	streak := 1
	for i := 0; i < len(datesDesc)-1; i++ {
		cur, err1 := time.Parse(dateLayout, datesDesc[i])
		next, err2 := time.Parse(dateLayout, datesDesc[i+1])
		if err1 != nil || err2 != nil {
			break
		}
		if daysBetween(next, cur) != 1 {
			break
		}
		streak++
	}
	return streak
}

func daysBetween(earlier, later time.Time) int {
	return int(later.Sub(earlier).Hours() / 24)
}
