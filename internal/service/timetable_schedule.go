package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/noah-isme/campus-connect-api/internal/models"
)

var weekdayBits = map[string]uint8{
	"MON": 1 << 0,
	"TUE": 1 << 1,
	"WED": 1 << 2,
	"THU": 1 << 3,
	"FRI": 1 << 4,
	"SAT": 1 << 5,
	"SUN": 1 << 6,
}

// meeting is the weekly slot of a class in minutes after midnight.
type meeting struct {
	days  uint8
	start int
	end   int
}

func parseDays(raw string) (uint8, error) {
	var mask uint8
	for _, part := range strings.Split(raw, ",") {
		bit, ok := weekdayBits[strings.ToUpper(strings.TrimSpace(part))]
		if !ok {
			return 0, fmt.Errorf("unknown day %q", part)
		}
		mask |= bit
	}
	return mask, nil
}

func parseClock(raw string) (int, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("time %q is not HH:MM", raw)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h > 23 {
		return 0, fmt.Errorf("time %q is not HH:MM", raw)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m > 59 {
		return 0, fmt.Errorf("time %q is not HH:MM", raw)
	}
	return h*60 + m, nil
}

func parseMeeting(c models.Class) (meeting, error) {
	days, err := parseDays(c.Days)
	if err != nil {
		return meeting{}, fmt.Errorf("class %s: %w", c.ClassNbr, err)
	}
	start, err := parseClock(c.StartTime)
	if err != nil {
		return meeting{}, fmt.Errorf("class %s: %w", c.ClassNbr, err)
	}
	end, err := parseClock(c.EndTime)
	if err != nil {
		return meeting{}, fmt.Errorf("class %s: %w", c.ClassNbr, err)
	}
	if end <= start {
		return meeting{}, fmt.Errorf("class %s ends before it starts", c.ClassNbr)
	}
	return meeting{days: days, start: start, end: end}, nil
}

func (m meeting) overlaps(o meeting) bool {
	return m.days&o.days != 0 && m.start < o.end && o.start < m.end
}

type slot struct {
	class   models.Class
	meeting meeting
}

func newSlot(c models.Class) (slot, error) {
	m, err := parseMeeting(c)
	if err != nil {
		return slot{}, err
	}
	return slot{class: c, meeting: m}, nil
}

// clashes reports whether two classes cannot share a timetable: they teach the
// same subject or meet at overlapping times on a common day.
func (s slot) clashes(o slot) bool {
	if s.class.ClassNbr == o.class.ClassNbr {
		return false
	}
	return s.class.SubjectCode == o.class.SubjectCode || s.meeting.overlaps(o.meeting)
}

// conflictsWith returns the class numbers in current that clash with candidate.
func conflictsWith(candidate models.Class, current []models.Class) ([]string, error) {
	cand, err := newSlot(candidate)
	if err != nil {
		return nil, err
	}
	var conflicts []string
	for _, c := range current {
		other, err := newSlot(c)
		if err != nil {
			return nil, err
		}
		if cand.clashes(other) {
			conflicts = append(conflicts, c.ClassNbr)
		}
	}
	return conflicts, nil
}

// generateTimetables enumerates conflict-free picks of one section per subject
// by depth-first backtracking, visiting subjects with the fewest sections
// first. At most limit combinations are returned.
func generateTimetables(sections map[string][]models.Class, limit int) ([]models.GeneratedTimetable, error) {
	subjects := make([]string, 0, len(sections))
	slots := make(map[string][]slot, len(sections))
	for subject, classes := range sections {
		subjects = append(subjects, subject)
		for _, c := range classes {
			s, err := newSlot(c)
			if err != nil {
				return nil, err
			}
			slots[subject] = append(slots[subject], s)
		}
	}
	sort.Slice(subjects, func(i, j int) bool {
		if len(slots[subjects[i]]) != len(slots[subjects[j]]) {
			return len(slots[subjects[i]]) < len(slots[subjects[j]])
		}
		return subjects[i] < subjects[j]
	})

	results := make([]models.GeneratedTimetable, 0)
	picked := make([]slot, 0, len(subjects))

	var walk func(depth int) bool
	walk = func(depth int) bool {
		if depth == len(subjects) {
			classes := make([]models.Class, len(picked))
			for i, p := range picked {
				classes[i] = p.class
			}
			sort.Slice(classes, func(i, j int) bool { return classes[i].SubjectCode < classes[j].SubjectCode })
			results = append(results, models.GeneratedTimetable{Classes: classes})
			return len(results) >= limit
		}
		for _, candidate := range slots[subjects[depth]] {
			if clashesAny(candidate, picked) {
				continue
			}
			picked = append(picked, candidate)
			if walk(depth + 1) {
				return true
			}
			picked = picked[:len(picked)-1]
		}
		return false
	}
	if limit > 0 && len(subjects) > 0 {
		walk(0)
	}
	return results, nil
}

func clashesAny(candidate slot, picked []slot) bool {
	for _, p := range picked {
		if candidate.clashes(p) {
			return true
		}
	}
	return false
}
