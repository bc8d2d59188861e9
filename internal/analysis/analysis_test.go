package analysis

import (
	"testing"

	"bess-degradation/internal/lifetime"
	"bess-degradation/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, mutate func(*model.SystemConfig)) *lifetime.Result {
	t.Helper()
	cfg := model.DefaultSystemConfig()
	mutate(&cfg)
	res, err := lifetime.New().Run(cfg)
	require.NoError(t, err)
	return res
}

func TestComputeStats(t *testing.T) {
	res := run(t, func(c *model.SystemConfig) { c.TemperatureC = 30 })
	s := ComputeStats(res)

	assert.Equal(t, len(res.Records)-1, s.Years)
	assert.Equal(t, res.Records[1].AnnualDegradation, s.FirstYearFade)
	assert.GreaterOrEqual(t, s.MaxAnnualFade, s.MeanAnnualFade)
	assert.GreaterOrEqual(t, s.MaxAnnualFade, s.MedianAnnualFade)
	assert.Greater(t, s.FadePer1000Cycles, 0.0)
	assert.InDelta(t, 1.0, s.CyclicShare+s.CalendarShare, 1e-9)
	assert.Greater(t, s.CyclicShare, s.CalendarShare)

	assert.Equal(t, TrajectoryStats{}, ComputeStats(nil))
	assert.Equal(t, TrajectoryStats{}, ComputeStats(&lifetime.Result{Records: res.Records[:1]}))
}

func TestRankByLifetime(t *testing.T) {
	hard := run(t, func(c *model.SystemConfig) {
		c.DoD = 1.0
		c.CyclesPerDay = 2
	})
	reference := run(t, func(c *model.SystemConfig) {})
	gentle := run(t, func(c *model.SystemConfig) {
		c.Variant = model.VariantBifasic
		c.TemperatureC = 10
		c.DoD = 0.5
		c.CyclesPerDay = 0.5
		c.StorageDays = 0
		c.EOLThreshold = 0.5
	})
	require.False(t, gentle.EOLReached)
	require.True(t, reference.EOLReached)

	ranked := RankByLifetime([]Scenario{
		{Name: "hard", Result: hard},
		{Name: "skip", Result: nil},
		{Name: "reference", Result: reference},
		{Name: "gentle", Result: gentle},
	})
	require.Len(t, ranked, 3)
	assert.Equal(t, "gentle", ranked[0].Name)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "reference", ranked[1].Name)
	assert.Equal(t, "hard", ranked[2].Name)
	assert.Equal(t, 3, ranked[2].Rank)
	assert.LessOrEqual(t, hard.YearsToEOL, reference.YearsToEOL)
}

func TestRankByLifetime_TieBreak(t *testing.T) {
	res := run(t, func(c *model.SystemConfig) {})
	ranked := RankByLifetime([]Scenario{{Name: "b", Result: res}, {Name: "a", Result: res}})
	assert.Equal(t, "a", ranked[0].Name)
	assert.Equal(t, "b", ranked[1].Name)
}
