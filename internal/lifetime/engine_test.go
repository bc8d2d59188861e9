package lifetime

import (
	"bytes"
	"encoding/csv"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"bess-degradation/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceSystem() model.SystemConfig {
	c := model.DefaultSystemConfig()
	c.CapacityKWh = 2028
	c.TemperatureC = 30
	c.DoD = model.Percent(95)
	c.CyclesPerDay = 1
	c.EOLThreshold = model.Percent(80)
	return c
}

func TestRun_ReferenceSystem(t *testing.T) {
	res, err := New().Run(referenceSystem())
	require.NoError(t, err)

	// 30°C, 95% DoD and 0.5C sit inside the nominal envelope.
	assert.Equal(t, model.ModeNominal, res.OperationMode)

	require.True(t, res.EOLReached)
	assert.GreaterOrEqual(t, res.YearsToEOL, 1)
	assert.LessOrEqual(t, res.YearsToEOL, HorizonYears)
	assert.Equal(t, 3, res.YearsToEOL)
	assert.InDelta(t, 3*365.0, res.TotalCyclesToEOL, 1e-9)
	assert.Len(t, res.Records, res.YearsToEOL+1)

	y0 := res.Records[0]
	assert.Equal(t, 0, y0.Year)
	assert.Equal(t, SourcePreStorage, y0.Source)
	assert.Empty(t, y0.Mode)
	assert.InDelta(t, 1-0.0498667, y0.SOH, 1e-6)

	y1 := res.Records[1]
	assert.Equal(t, SourceOperation, y1.Source)
	assert.Equal(t, model.ModeNominal, y1.Mode)
	assert.InDelta(t, 0.89206, y1.SOH, 1e-4)
	assert.InDelta(t, 2028*y1.SOH, y1.DCCapacityKWh, 1e-9)
	assert.InDelta(t, 2028*0.835*y1.SOH, y1.ACCapacityKWh, 1e-9)

	for i := 1; i < len(res.Records); i++ {
		assert.Less(t, res.Records[i].SOH, res.Records[i-1].SOH, "year %d", i)
		assert.Equal(t, i, res.Records[i].Year)
	}
	final := res.Final()
	assert.LessOrEqual(t, final.SOH, 0.80)
	assert.Greater(t, res.Records[len(res.Records)-2].SOH, 0.80)
}

func TestRun_ShallowDoDFadesLess(t *testing.T) {
	ref := model.DefaultSystemConfig()
	shallow := model.DefaultSystemConfig()
	shallow.DoD = 0.5

	refRes, err := New().Run(ref)
	require.NoError(t, err)
	shallowRes, err := New().Run(shallow)
	require.NoError(t, err)

	// 50% DoD leaves the nominal envelope; the factor stack still cannot
	// outweigh the DoD multiplier over the matched years.
	assert.Equal(t, model.ModeNominal, refRes.OperationMode)
	assert.Equal(t, model.ModeExtreme, shallowRes.OperationMode)

	n := len(refRes.Records)
	if len(shallowRes.Records) < n {
		n = len(shallowRes.Records)
	}
	require.Greater(t, n, 1)
	assert.Equal(t, refRes.Records[0].CumulativeDegradation, shallowRes.Records[0].CumulativeDegradation)
	for y := 1; y < n; y++ {
		assert.Less(t, shallowRes.Records[y].CumulativeDegradation, refRes.Records[y].CumulativeDegradation, "year %d", y)
		assert.Less(t, shallowRes.Records[y].CyclicFade, refRes.Records[y].CyclicFade, "year %d", y)
	}
}

func TestRun_HorizonWithoutEOL(t *testing.T) {
	c := model.DefaultSystemConfig()
	c.Variant = model.VariantBifasic
	c.TemperatureC = 10
	c.DoD = 0.5
	c.CyclesPerDay = 0.5
	c.StorageDays = 0
	c.EOLThreshold = 0.5

	res, err := New().Run(c)
	require.NoError(t, err)
	assert.False(t, res.EOLReached)
	assert.Zero(t, res.YearsToEOL)
	assert.Zero(t, res.TotalCyclesToEOL)
	assert.Len(t, res.Records, HorizonYears+1)
	assert.Equal(t, 1.0, res.Records[0].SOH)
	assert.Greater(t, res.Final().SOH, 0.5)
}

func TestRun_Idempotent(t *testing.T) {
	c := referenceSystem()
	c.TemperatureC = 42
	a, err := New().Run(c)
	require.NoError(t, err)
	b, err := New().Run(c)
	require.NoError(t, err)
	assert.True(t, reflect.DeepEqual(a, b))

	var bufA, bufB bytes.Buffer
	require.NoError(t, WriteCSV(&bufA, a.Records))
	require.NoError(t, WriteCSV(&bufB, b.Records))
	assert.Equal(t, bufA.Bytes(), bufB.Bytes())
}

func TestRun_ExtremeModeRecorded(t *testing.T) {
	c := referenceSystem()
	c.TemperatureC = 40
	res, err := New().Run(c)
	require.NoError(t, err)
	assert.Equal(t, model.ModeExtreme, res.OperationMode)
	for _, r := range res.Records[1:] {
		assert.Equal(t, model.ModeExtreme, r.Mode)
	}

	c.Variant = model.VariantBifasic
	res, err = New().Run(c)
	require.NoError(t, err)
	assert.Equal(t, model.ModeNominal, res.Records[1].Mode)
}

func TestRun_InvalidConfig(t *testing.T) {
	c := referenceSystem()
	c.CyclesPerDay = 5
	res, err := New().Run(c)
	assert.Nil(t, res)
	require.Error(t, err)
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "cycles_per_day", ve.Field)
}

func TestWriteCSV(t *testing.T) {
	res, err := New().Run(referenceSystem())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, res.Records))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(res.Records)+1)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "0", rows[1][0])
	assert.Equal(t, SourcePreStorage, rows[1][10])
	assert.Equal(t, "", rows[1][11])
	assert.Equal(t, "nominal", rows[2][11])
}

func TestResult_Record(t *testing.T) {
	res, err := New().Run(referenceSystem())
	require.NoError(t, err)
	r, ok := res.Record(2)
	require.True(t, ok)
	assert.Equal(t, 2, r.Year)
	_, ok = res.Record(50)
	assert.False(t, ok)
	assert.Len(t, res.SOHSeries(), len(res.Records))
}

func TestCheckFinite(t *testing.T) {
	ok := model.Breakdown{PreStorage: 0.05, Cyclic: 0.02, Calendar: 0.03, Total: 0.1}
	require.NoError(t, checkFinite(1, ok))

	cases := []struct {
		name     string
		edit     func(*model.Breakdown)
		quantity string
	}{
		{"nan pre-storage", func(b *model.Breakdown) { b.PreStorage = math.NaN() }, "pre-storage loss"},
		{"+inf cyclic", func(b *model.Breakdown) { b.Cyclic = math.Inf(1) }, "cyclic fade"},
		{"-inf calendar", func(b *model.Breakdown) { b.Calendar = math.Inf(-1) }, "calendar fade"},
		{"nan total", func(b *model.Breakdown) { b.Total = math.NaN() }, "total degradation"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := ok
			tc.edit(&b)
			err := checkFinite(7, b)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrComputation))
			var ce *model.ComputationError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, 7, ce.Year)
			assert.Equal(t, tc.quantity, ce.Quantity)
			assert.Contains(t, err.Error(), "year 7")
		})
	}
}
