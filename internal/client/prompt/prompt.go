// Package prompt reads the terminal client's forms line by line.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/atinyakov/WorkPlanner/internal/models"
)

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// New creates a Prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// Line prints label and returns the next input line with surrounding spaces
// removed. It returns io.ErrUnexpectedEOF once the input is exhausted.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// Credentials asks for a username and a password.
func (p *Prompter) Credentials() (username, password string, err error) {
	if username, err = p.Line("Username: "); err != nil {
		return "", "", err
	}
	if password, err = p.Line("Password: "); err != nil {
		return "", "", err
	}
	return username, password, nil
}

// Registration asks for a new account and the repeated password.
func (p *Prompter) Registration() (reg models.UserRegistration, confirmation string, err error) {
	fields := []struct {
		label string
		dst   *string
	}{
		{"Username: ", &reg.Username},
		{"First name: ", &reg.FirstName},
		{"Last name: ", &reg.LastName},
		{"Password: ", &reg.Password},
		{"Repeat password: ", &confirmation},
	}
	for _, f := range fields {
		if *f.dst, err = p.Line(f.label); err != nil {
			return models.UserRegistration{}, "", err
		}
	}
	return reg, confirmation, nil
}

// Team asks for the name and description of a new team.
func (p *Prompter) Team() (models.Team, error) {
	var t models.Team
	var err error
	if t.Name, err = p.Line("Team name: "); err != nil {
		return models.Team{}, err
	}
	if t.Description, err = p.Line("Description: "); err != nil {
		return models.Team{}, err
	}
	return t, nil
}

// PlanEntry asks for a new plan entry. Times are expected as
// "YYYY-MM-DD HH:MM:SS"; an empty color answer means RED.
func (p *Prompter) PlanEntry() (models.PlanEntry, error) {
	var e models.PlanEntry
	var err error
	if e.Title, err = p.Line("Title: "); err != nil {
		return models.PlanEntry{}, err
	}
	if e.StartTime, err = p.Line("Start (YYYY-MM-DD HH:MM:SS): "); err != nil {
		return models.PlanEntry{}, err
	}
	if e.EndTime, err = p.Line("End (YYYY-MM-DD HH:MM:SS): "); err != nil {
		return models.PlanEntry{}, err
	}
	color, err := p.Line("Color (red/green/blue/gray) [red]: ")
	if err != nil {
		return models.PlanEntry{}, err
	}
	if color == "" {
		e.PlanEntryColor = models.Red
	} else {
		e.PlanEntryColor = models.PlanEntryColor(strings.ToUpper(color))
	}
	return e, nil
}

// IDs asks for a list of ids separated by spaces or commas.
func (p *Prompter) IDs(label string) ([]int64, error) {
	line, err := p.Line(label)
	if err != nil {
		return nil, err
	}
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' })
	ids := make([]int64, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", f)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Confirm asks a yes/no question; only "y" or "yes" count as yes.
func (p *Prompter) Confirm(question string) bool {
	answer, err := p.Line(question + " [y/N]: ")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
