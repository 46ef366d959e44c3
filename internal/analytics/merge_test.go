package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoreline/pkg/contracts/domain"
)

func TestMerge_OuterJoin(t *testing.T) {
	data := school(
		subject("数学", true, sr("1", "Zoe", 70), sr("1", "Ann", 90)),
		subject("英语", true, sr("1", "Ann", 80), sr("2", "Ben", 60)),
	)

	m := Merge(data)

	assert.Equal(t, []string{"数学", "英语"}, m.Subjects)
	assert.True(t, m.HasClass)
	assert.Empty(t, m.TotalColumn)
	assert.Equal(t, []domain.MergedStudent{
		{Name: "Zoe", Class: "1", Scores: map[string]float64{"数学": 70}},
		{Name: "Ann", Class: "1", Scores: map[string]float64{"数学": 90, "英语": 80}},
		{Name: "Ben", Class: "2", Scores: map[string]float64{"英语": 60}},
	}, m.Rows)
}

func TestMerge_KeyNarrowsWithoutClass(t *testing.T) {
	t.Run("name and class when both sides carry class", func(t *testing.T) {
		m := Merge(school(
			subject("语文", true, sr("1", "Ann", 90)),
			subject("数学", true, sr("2", "Ann", 80)),
		))
		assert.Len(t, m.Rows, 2, "same name in different classes stays apart")
	})

	t.Run("name only when the incoming side has no class", func(t *testing.T) {
		m := Merge(school(
			subject("语文", true, sr("1", "Ann", 90)),
			subject("物理", false, sr("", "Ann", 50)),
		))
		require.Len(t, m.Rows, 1)
		assert.Equal(t, "1", m.Rows[0].Class)
		assert.Equal(t, map[string]float64{"语文": 90, "物理": 50}, m.Rows[0].Scores)
	})

	t.Run("class filled from the right when the left had none", func(t *testing.T) {
		m := Merge(school(
			subject("物理", false, sr("", "Ann", 50)),
			subject("语文", true, sr("3", "Ann", 90)),
		))
		require.Len(t, m.Rows, 1)
		assert.Equal(t, "3", m.Rows[0].Class)
		assert.True(t, m.HasClass)
	})
}

func TestMerge_DuplicateKeysProduceEveryPair(t *testing.T) {
	m := Merge(school(
		subject("语文", true, sr("1", "Ann", 90), sr("1", "Ann", 91)),
		subject("数学", true, sr("1", "Ann", 80), sr("1", "Ann", 81)),
	))
	assert.Len(t, m.Rows, 4)
}

func TestMerge_SkipsEmptyTables(t *testing.T) {
	m := Merge(school(
		subject("语文", true),
		subject("数学", false, sr("", "Ann", 80)),
	))
	assert.Equal(t, []string{"数学"}, m.Subjects)
	assert.False(t, m.HasClass)
}

// Zoe sits math but not english: the pass-line path keeps her with the math
// score as total, the assessment path drops her.
func TestTotals_MissingSubject(t *testing.T) {
	m := Merge(school(
		subject("math", true, sr("1", "Zoe", 70), sr("1", "Ann", 90)),
		subject("english", true, sr("1", "Ann", 85)),
	))

	totals, excluded := PassLineTotals(m)
	assert.Empty(t, excluded)
	assert.Equal(t, []domain.StudentTotal{
		{Name: "Zoe", Class: "1", Total: 70},
		{Name: "Ann", Class: "1", Total: 175},
	}, totals)

	totals, excluded = AssessmentTotals(m)
	assert.Equal(t, []domain.StudentTotal{{Name: "Ann", Class: "1", Total: 175}}, totals)
	assert.Equal(t, []domain.ExcludedStudent{
		{Name: "Zoe", Class: "1", Reason: domain.ReasonMissingSubject},
	}, excluded)
}

func TestTotals_ZeroTotalExcluded(t *testing.T) {
	m := Merge(school(subject("语文", true, sr("1", "Ann", 0), sr("1", "Ben", 10))))

	totals, excluded := PassLineTotals(m)
	assert.Len(t, totals, 1)
	assert.Equal(t, []domain.ExcludedStudent{{Name: "Ann", Class: "1", Reason: domain.ReasonTotalMissing}}, excluded)

	_, excluded = AssessmentTotals(m)
	assert.Equal(t, domain.ReasonTotalMissing, excluded[0].Reason)
}

func TestTotals_PreExistingTotalColumn(t *testing.T) {
	m := Merge(school(
		subject("语文", true, sr("1", "Ann", 90), sr("1", "Ben", 80)),
		subject("数学", true, sr("1", "Ann", 100)),
		subject("总分", true, sr("1", "Ann", 500), sr("1", "Ben", 0)),
	))
	require.Equal(t, "总分", m.TotalColumn)

	for name, fn := range map[string]func(*domain.MergedTable) ([]domain.StudentTotal, []domain.ExcludedStudent){
		"pass line":  PassLineTotals,
		"assessment": AssessmentTotals,
	} {
		t.Run(name, func(t *testing.T) {
			totals, excluded := fn(m)
			assert.Equal(t, []domain.StudentTotal{{Name: "Ann", Class: "1", Total: 500}}, totals)
			assert.Equal(t, []domain.ExcludedStudent{{Name: "Ben", Class: "1", Reason: domain.ReasonTotalMissing}}, excluded)
		})
	}
}

func TestIsTotalColumn(t *testing.T) {
	assert.True(t, IsTotalColumn("总分"))
	assert.True(t, IsTotalColumn("原始总分"))
	assert.True(t, IsTotalColumn("Total"))
	assert.False(t, IsTotalColumn("语文"))
}
