package core

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// CommitWeek reads a week number from the last word of a commit message.
// Like parseInt, leading digits are read and anything after them is ignored.
func CommitWeek(message string) (int, bool) {
	words := strings.Fields(message)
	if len(words) == 0 {
		return 0, false
	}
	last := words[len(words)-1]

	sign := 1
	switch {
	case strings.HasPrefix(last, "-"):
		sign, last = -1, last[1:]
	case strings.HasPrefix(last, "+"):
		last = last[1:]
	}
	week, digits := 0, 0
	for _, r := range last {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			break
		}
		week = week*10 + int(r-'0')
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	return sign * week, true
}

// CurrentWeek returns the MMWR week after the latest submission in the first
// directory under root/submissionsDir.
func CurrentWeek(root, submissionsDir string) (int, error) {
	dirs, err := ListChildDirs(root, []string{submissionsDir})
	if err != nil {
		return 0, err
	}
	if len(dirs) == 0 {
		return 0, fmt.Errorf("no submission directories under %s", submissionsDir)
	}

	files, err := ListModelCSVs(dirs[0], nil)
	if err != nil {
		return 0, err
	}
	latest := 0
	for _, path := range files {
		csvTime, err := ParseCSVTime(path)
		if err != nil {
			continue
		}
		latest = max(latest, csvTime.Timestamp())
	}
	if latest == 0 {
		return 0, errors.New("no submissions with a readable filename")
	}

	_, week := NextEpiweek(latest/100, latest%100)
	return week, nil
}

// ResolveWeek returns the week named by the commit message, or the week after
// the latest submission when the message does not name one.
func ResolveWeek(commitMessage, root, submissionsDir string) (int, string, error) {
	if week, ok := CommitWeek(commitMessage); ok {
		return week, "commit", nil
	}
	week, err := CurrentWeek(root, submissionsDir)
	if err != nil {
		return 0, "", err
	}
	return week, "submissions", nil
}
