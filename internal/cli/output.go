package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Output formats command results as text or JSON
type Output struct {
	w      io.Writer
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(w io.Writer, format string) *Output {
	return &Output{w: w, format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
		return
	}
	o.printText(data)
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
		return
	}
	_, _ = fmt.Fprintln(o.w, msg)
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		o.printf("Status: %s\nActive sessions: %d\n", v.Status, v.ActiveSessions)
	case Session:
		o.printSession(v)
	case CreateResult:
		o.printSession(v.Session)
		o.printf("Token: %s\n", v.Token)
	case CommandResult:
		if v.Changed {
			o.printf("Changed: yes\n")
		} else {
			o.printf("Changed: no\n")
		}
		o.printSession(v.Session)
	case ContributionCalendar:
		o.printCalendar(v)
	case SolvedProblems:
		o.printf("Solved: %d (easy %d, medium %d, hard %d)\n", v.SolvedProblem, v.EasySolved, v.MediumSolved, v.HardSolved)
	case BlogPost:
		o.printf("%s (%s)\n%s\n", v.Title, v.Date, v.URL)
		if v.Description != "" {
			o.printf("\n%s\n", v.Description)
		}
	default:
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

// HealthResult is the health check response
type HealthResult struct {
	Status         string `json:"status"`
	ActiveSessions int    `json:"active_sessions"`
}

// Piece is the falling piece of a session
type Piece struct {
	Type  string  `json:"type"`
	Color string  `json:"color"`
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Shape [][]int `json:"shape"`
}

// Session is a game session as returned by the API
type Session struct {
	ID        string    `json:"id"`
	State     string    `json:"state"`
	Grid      [][]int   `json:"grid"`
	Current   Piece     `json:"current"`
	Score     int       `json:"score"`
	Lines     int       `json:"lines"`
	DropTick  int       `json:"drop_tick"`
	Delay     int       `json:"delay"`
	Frames    uint64    `json:"frames"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateResult is returned when a session is started
type CreateResult struct {
	Session Session `json:"session"`
	Token   string  `json:"token"`
}

// CommandResult is returned after applying a command
type CommandResult struct {
	Changed bool    `json:"changed"`
	Session Session `json:"session"`
}

// ContributionCalendar is the GitHub contribution graph
type ContributionCalendar struct {
	TotalContributions int `json:"totalContributions"`
	Weeks              []struct {
		ContributionDays []struct {
			Date              string `json:"date"`
			ContributionCount int    `json:"contributionCount"`
		} `json:"contributionDays"`
	} `json:"weeks"`
}

// SolvedProblems is the LeetCode solve count
type SolvedProblems struct {
	SolvedProblem int `json:"solvedProblem"`
	EasySolved    int `json:"easySolved"`
	MediumSolved  int `json:"mediumSolved"`
	HardSolved    int `json:"hardSolved"`
}

// BlogPost is the latest blog article
type BlogPost struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Date        string `json:"date"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// cellGlyphs indexes piece types; 0 is an empty cell
const cellGlyphs = ".IJLOSTZ"

func glyph(t int) byte {
	if t < 0 || t >= len(cellGlyphs) {
		return '?'
	}
	return cellGlyphs[t]
}

func (o *Output) printSession(s Session) {
	o.printf("Session: %s\n", s.ID)
	o.printf("State: %s\n", s.State)
	o.printf("Score: %d  Lines: %d  Frames: %d\n", s.Score, s.Lines, s.Frames)
	if s.State == "running" {
		o.printf("Piece: %s at (%d, %d)\n", s.Current.Type, s.Current.X, s.Current.Y)
	}
	o.printf("\n%s", renderGrid(s))
}

// renderGrid draws the board as text with the falling piece overlaid while running
func renderGrid(s Session) string {
	rows := make([][]byte, len(s.Grid))
	for y, row := range s.Grid {
		rows[y] = make([]byte, len(row))
		for x, t := range row {
			rows[y][x] = glyph(t)
		}
	}

	if s.State == "running" {
		for dy, line := range s.Current.Shape {
			for dx, t := range line {
				x, y := s.Current.X+dx, s.Current.Y+dy
				if t == 0 || y < 0 || y >= len(rows) || x < 0 || x >= len(rows[y]) {
					continue
				}
				rows[y][x] = glyph(t)
			}
		}
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteByte('|')
		b.Write(row)
		b.WriteString("|\n")
	}
	if len(rows) > 0 {
		b.WriteByte('+')
		b.WriteString(strings.Repeat("-", len(rows[0])))
		b.WriteString("+\n")
	}
	return b.String()
}

func (o *Output) printCalendar(c ContributionCalendar) {
	o.printf("Contributions: %d\n", c.TotalContributions)
	if len(c.Weeks) == 0 {
		return
	}
	last := c.Weeks[len(c.Weeks)-1]
	for _, d := range last.ContributionDays {
		o.printf("  %s  %d\n", d.Date, d.ContributionCount)
	}
}
