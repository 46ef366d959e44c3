package analytics

import (
	"sort"

	apperrors "scoreline/internal/errors"
	"scoreline/pkg/contracts/domain"
)

// ClassDetail lists a class's students in one subject, highest score first.
// An unknown subject is a not-found error; a subject without a class column
// is a validation error. A class with no students yields an empty list.
func ClassDetail(data *domain.SchoolData, subject, class string) (domain.ClassDetail, error) {
	t, ok := data.Get(subject)
	if !ok {
		return domain.ClassDetail{}, apperrors.NewNotFoundError("subject " + subject)
	}
	if !t.HasClass {
		return domain.ClassDetail{}, apperrors.NewAppValidationError("subject " + subject + " has no class column")
	}

	students := []domain.ScoreRow{}
	for _, r := range t.Rows {
		if r.Class == class {
			students = append(students, r)
		}
	}
	sort.SliceStable(students, func(i, j int) bool {
		return students[i].Score > students[j].Score
	})

	return domain.ClassDetail{
		Subject:    subject,
		ClassName:  class,
		TotalCount: len(students),
		Students:   students,
	}, nil
}
