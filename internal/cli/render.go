package cli

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/tailquest/tailquest/internal/progress"
)

// RenderUsers writes a table of progress records sorted by username.
func RenderUsers(w io.Writer, users map[string]progress.UserProgress) error {
	usernames := make([]string, 0, len(users))
	for username := range users {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tTRACK\tLEVEL\tLEVELS ATTEMPTED\tBACKS")
	for _, username := range usernames {
		user := users[username]
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n",
			username, trackColor(user.Type), user.Level, len(user.Levels), user.LevelBackCount)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("tw.Flush() > %w", err)
	}
	return nil
}

func trackColor(track progress.Track) string {
	switch track {
	case progress.TrackBeginner:
		return color.GreenString(string(track))
	case progress.TrackIntermediate:
		return color.YellowString(string(track))
	case progress.TrackExpert:
		return color.RedString(string(track))
	}
	return string(track)
}
