package analytics

import "scoreline/pkg/contracts/domain"

func school(tables ...*domain.SubjectTable) *domain.SchoolData {
	data := domain.NewSchoolData()
	for _, t := range tables {
		data.Add(t)
	}
	return data
}

func subject(name string, hasClass bool, rows ...domain.ScoreRow) *domain.SubjectTable {
	return &domain.SubjectTable{Subject: name, HasClass: hasClass, Rows: rows}
}

func sr(class, name string, score float64) domain.ScoreRow {
	return domain.ScoreRow{Class: class, Name: name, Score: score}
}
