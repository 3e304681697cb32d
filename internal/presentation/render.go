package presentation

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

var toneMarks = map[Tone]string{
	ToneSuccess: "●",
	TonePrimary: "◕",
	ToneWarning: "◑",
	ToneMuted:   "○",
}

func RenderNotice(w io.Writer, n *Notice) {
	if n == nil {
		return
	}
	prefix := "ℹ️ "
	if n.Destructive {
		prefix = "❌"
	}
	fmt.Fprintf(w, "%s %s: %s\n", prefix, n.Title, n.Description)
}

func RenderDashboard(w io.Writer, d Dashboard, saved *SavedJobs) error {
	fmt.Fprintf(w, "\n%s\nHere are your personalized job recommendations and learning paths\n\n", d.Greeting)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range d.Stats {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Title, s.Value, s.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	header := "Recommended jobs"
	if d.Sample {
		header += " (sample, generate suggestions to personalise)"
	}
	fmt.Fprintf(w, "\n%s\n", header)

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tMATCH\tTITLE\tCOMPANY\tLOCATION\tSALARY\tSAVED")
	for i, j := range d.Jobs {
		star := ""
		if saved.Contains(j.ID) {
			star = "★"
		}
		fmt.Fprintf(tw, "%d\t%s %d%%\t%s\t%s\t%s\t%s\t%s\n",
			i+1, toneMarks[MatchTone(j.MatchPercentage)], j.MatchPercentage,
			j.Title, j.Company, j.Location, j.Salary, star)
	}
	return tw.Flush()
}

func RenderJob(w io.Writer, j JobCard) {
	fmt.Fprintf(w, "\n%s (%s, %s)\n", j.Title, j.Company, j.Type)
	fmt.Fprintf(w, "Match: %d%%  Location: %s  Salary: %s\n", j.MatchPercentage, j.Location, j.Salary)
	fmt.Fprintf(w, "Why it fits: %s\n", j.Reason)
	fmt.Fprintf(w, "Skills: %s\n", strings.Join(j.RequiredSkills, ", "))
	if j.Description != "" {
		fmt.Fprintf(w, "%s\n", j.Description)
	}
}

func RenderCourses(w io.Writer, courses []Course) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nCOURSE\tPROVIDER\tDURATION\tLEVEL\tRATING\tPRICE")
	for _, c := range courses {
		title := c.Title
		if c.Recommended {
			title += " ✨"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\t%s\n", title, c.Provider, c.Duration, c.Difficulty, c.Rating, c.Price)
	}
	return tw.Flush()
}

func RenderProfileForm(w io.Writer, f *ProfileForm) {
	fmt.Fprintf(w, "\nName:           %s\n", f.Name)
	fmt.Fprintf(w, "Education:      %s\n", f.Education.Label())
	fmt.Fprintf(w, "Specialization: %s\n", f.Specialization)
	fmt.Fprintf(w, "Skills:         %s\n", strings.Join(f.Skills(), ", "))
	fmt.Fprintf(w, "Interests:      %s\n", strings.Join(f.Interests(), ", "))
}
