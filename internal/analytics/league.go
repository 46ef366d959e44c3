package analytics

import (
	"sort"
	"strings"

	"scoreline/pkg/contracts/domain"
)

// nameSet holds the trimmed, non-blank school names of a query.
type nameSet map[string]struct{}

func newNameSet(names []string) nameSet {
	set := make(nameSet, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func (s nameSet) has(name string) bool {
	_, ok := s[name]
	return ok
}

// leagueStudent is a league row with its derived total.
type leagueStudent struct {
	school string
	class  string
	total  float64
}

// leagueTotals sums each row's present subject scores and drops rows whose
// total is not positive.
func leagueTotals(league *domain.LeagueTable) []leagueStudent {
	out := make([]leagueStudent, 0, len(league.Rows))
	for _, r := range league.Rows {
		total, ok := r.Total(league.Subjects)
		if !ok || total <= 0 {
			continue
		}
		out = append(out, leagueStudent{school: r.School, class: r.Class, total: total})
	}
	return out
}

// rankOf returns the 1-based position of the first school in names, or nil.
func rankOf[T any](ranked []T, schoolName func(T) string, names nameSet) *int {
	for i, s := range ranked {
		if names.has(schoolName(s)) {
			rank := i + 1
			return &rank
		}
	}
	return nil
}

// AnalyzeLeague measures every league student's total against each line,
// ranks the schools by pass rate and breaks down the school identified by
// names. displayName labels that school in the result; it defaults to the
// first name.
func AnalyzeLeague(league *domain.LeagueTable, names []string, lines []float64, displayName string) map[string]domain.LeagueLineResult {
	out := make(map[string]domain.LeagueLineResult, len(lines))
	if league == nil || len(league.Subjects) == 0 {
		return out
	}

	wanted := newNameSet(names)
	if displayName == "" && len(names) > 0 {
		displayName = strings.TrimSpace(names[0])
	}

	students := leagueTotals(league)

	all := make([]float64, len(students))
	bySchool := newGroup()
	var own []leagueStudent
	for i, s := range students {
		all[i] = s.total
		if league.HasSchool {
			bySchool.add(s.school, s.total)
			if wanted.has(s.school) {
				own = append(own, s)
			}
		}
	}

	ownTotals := make([]float64, len(own))
	ownByClass := newGroup()
	for i, s := range own {
		ownTotals[i] = s.total
		if s.class != "" {
			ownByClass.add(s.class, s.total)
		}
	}

	for _, line := range lines {
		schoolStats := make([]domain.SchoolLineStat, 0, len(bySchool.keys))
		for _, school := range bySchool.keys {
			scores := bySchool.values[school]
			passed := countAtLeast(scores, line)
			schoolStats = append(schoolStats, domain.SchoolLineStat{
				SchoolName:    school,
				TotalStudents: len(scores),
				PassedCount:   passed,
				PassRate:      passRate(passed, len(scores)),
				AverageScore:  mean2(scores),
			})
		}
		sort.SliceStable(schoolStats, func(i, j int) bool {
			return schoolStats[i].PassRate > schoolStats[j].PassRate
		})

		distribution := map[string]int{}
		for _, s := range own {
			if s.total >= line && s.class != "" {
				distribution[s.class]++
			}
		}

		classStats := make([]domain.ClassPassStat, 0, len(ownByClass.keys))
		for _, class := range ownByClass.keys {
			scores := ownByClass.values[class]
			passed := countAtLeast(scores, line)
			classStats = append(classStats, domain.ClassPassStat{
				ClassName:     class,
				TotalStudents: len(scores),
				PassedCount:   passed,
				PassRate:      passRate(passed, len(scores)),
				AverageScore:  mean2(scores),
			})
		}
		sort.SliceStable(classStats, func(i, j int) bool {
			return classStats[i].PassRate > classStats[j].PassRate
		})

		var rank *int
		if len(own) > 0 {
			rank = rankOf(schoolStats, func(s domain.SchoolLineStat) string { return s.SchoolName }, wanted)
		}

		leaguePassed := countAtLeast(all, line)
		ownPassed := countAtLeast(ownTotals, line)
		out[domain.LineKey(line)] = domain.LeagueLineResult{
			ScoreLine:               line,
			DisplayName:             displayName,
			LeagueTotal:             len(all),
			LeaguePassedCount:       leaguePassed,
			LeaguePassRate:          passRate(leaguePassed, len(all)),
			SchoolStats:             schoolStats,
			SchoolTotal:             len(own),
			SchoolPassedCount:       ownPassed,
			SchoolPassRate:          passRate(ownPassed, len(own)),
			SchoolRank:              rank,
			SchoolClassDistribution: distribution,
			SchoolClassPassStats:    classStats,
			SchoolAverageScore:      mean2(ownTotals),
		}
	}
	return out
}

// AnalyzeLeagueSubjectLines ranks schools by single-subject pass rate. lines
// maps a line name, such as 特控线, to per-subject thresholds. Subjects the
// league does not carry are skipped.
func AnalyzeLeagueSubjectLines(league *domain.LeagueTable, names []string, lines map[string]map[string]float64) map[string]map[string]domain.LeagueSubjectLineResult {
	out := make(map[string]map[string]domain.LeagueSubjectLineResult, len(lines))
	if league == nil || !league.HasSchool {
		return out
	}

	wanted := newNameSet(names)
	carried := make(map[string]bool, len(league.Subjects))
	for _, s := range league.Subjects {
		carried[s] = true
	}

	for lineName, subjectLines := range lines {
		perSubject := make(map[string]domain.LeagueSubjectLineResult, len(subjectLines))
		for subject, line := range subjectLines {
			if !carried[subject] {
				continue
			}

			bySchool := newGroup()
			var own []float64
			for _, r := range league.Rows {
				v, ok := r.Scores[subject]
				if !ok {
					continue
				}
				bySchool.add(r.School, v)
				if wanted.has(r.School) {
					own = append(own, v)
				}
			}

			schoolStats := make([]domain.SchoolSubjectStat, 0, len(bySchool.keys))
			for _, school := range bySchool.keys {
				scores := bySchool.values[school]
				passed := countAtLeast(scores, line)
				schoolStats = append(schoolStats, domain.SchoolSubjectStat{
					SchoolName:    school,
					TotalStudents: len(scores),
					PassedCount:   passed,
					PassRate:      passRate(passed, len(scores)),
				})
			}
			sort.SliceStable(schoolStats, func(i, j int) bool {
				return schoolStats[i].PassRate > schoolStats[j].PassRate
			})

			var rank *int
			if len(own) > 0 {
				rank = rankOf(schoolStats, func(s domain.SchoolSubjectStat) string { return s.SchoolName }, wanted)
			}

			ownPassed := countAtLeast(own, line)
			perSubject[subject] = domain.LeagueSubjectLineResult{
				ScoreLine:      line,
				SchoolStats:    schoolStats,
				SchoolRank:     rank,
				SchoolPassRate: passRate(ownPassed, len(own)),
				SchoolTotal:    len(own),
				SchoolPassed:   ownPassed,
			}
		}
		if len(perSubject) > 0 {
			out[lineName] = perSubject
		}
	}
	return out
}
