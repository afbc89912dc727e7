package opini

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackend returns fixed polarities and a fixed compound score.
type stubBackend struct {
	polarity    map[string]float64
	compound    float64
	polarityErr map[string]error
	compoundErr error
}

func (s stubBackend) Polarity(_ context.Context, term string) (float64, error) {
	if err := s.polarityErr[term]; err != nil {
		return 0, err
	}
	return s.polarity[term], nil
}

func (s stubBackend) Compound(context.Context, string) (float64, error) {
	if s.compoundErr != nil {
		return 0, s.compoundErr
	}
	return s.compound, nil
}

func newStubAnalyzer(t *testing.T, backend PolarityBackend, opts ...AnalyzerOpt) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(MustRegistry(Tables{}), backend, opts...)
	require.NoError(t, err)
	return a
}

func newDefaultAnalyzer(t *testing.T, opts ...AnalyzerOpt) *Analyzer {
	t.Helper()
	a, err := NewDefaultAnalyzer(opts...)
	require.NoError(t, err)
	return a
}

func TestScoreEmpty(t *testing.T) {
	a := newDefaultAnalyzer(t)

	for _, text := range []string{"", "   ", "\n\t"} {
		positivity, compound := a.Score(text)
		assert.Equal(t, 0.0, positivity, "text %q", text)
		assert.Equal(t, 0.0, compound, "text %q", text)
	}
}

func TestScoreSingleWords(t *testing.T) {
	a := newDefaultAnalyzer(t)

	positivity, compound := a.Score("bagus")
	assert.Equal(t, 100.0, positivity)
	assert.Greater(t, compound, 0.0)

	positivity, compound = a.Score("jelek")
	assert.Equal(t, 0.0, positivity)
	assert.Less(t, compound, 0.0)
}

func TestAnalyzeLongestMatch(t *testing.T) {
	a := newDefaultAnalyzer(t)

	analysis := a.Analyze("sangat bagus")
	assert.Equal(t, 1, analysis.TotalDetected)
	assert.Equal(t, 1, analysis.PositiveCount)
	assert.Equal(t, 100.0, analysis.Positivity)

	analysis = a.Analyze("jelek banget")
	assert.Equal(t, 1, analysis.TotalDetected)
	assert.Equal(t, 0, analysis.PositiveCount)
	assert.Equal(t, 0.0, analysis.Positivity)
	assert.Less(t, analysis.Compound, 0.0)
}

func TestAnalyzeMixedReview(t *testing.T) {
	a := newDefaultAnalyzer(t)

	analysis := a.Analyze("Gurunya ramah, sekolahnya bersih banget!")
	assert.Equal(t, "gurunya ramah sekolahnya bersih banget", analysis.Cleaned)
	assert.Equal(t, []string{"gurunya", "sekolahnya", "banget"}, analysis.Residual)
	assert.Equal(t, 5, analysis.TotalDetected)
	assert.Equal(t, 3, analysis.PositiveCount)
	assert.InDelta(t, 60.0, analysis.Positivity, 1e-9)
	assert.Greater(t, analysis.Compound, 0.0)
	assert.Zero(t, analysis.Fallbacks)

	require.Len(t, analysis.Terms, 3)
	assert.True(t, analysis.Terms[2].Intensifier)
	assert.True(t, analysis.Terms[2].Positive)
}

func TestIntensifierCountsAsPositive(t *testing.T) {
	a := newDefaultAnalyzer(t)

	analysis := a.Analyze("banget")
	assert.Equal(t, 1, analysis.TotalDetected)
	assert.Equal(t, 1, analysis.PositiveCount)
	assert.Equal(t, 100.0, analysis.Positivity)
}

func TestPositivityPolicies(t *testing.T) {
	backend := stubBackend{
		polarity: map[string]float64{"alpha": 0.5, "beta": 0.2, "gamma": -0.4},
		compound: 0.25,
	}

	tests := []struct {
		name     string
		policy   PositivityPolicy
		text     string
		expected float64
	}{
		{"ratio two of three", RatioPolicy, "alpha beta gamma", 200.0 / 3},
		{"snap two of three", SnapPolicy, "alpha beta gamma", 100},
		{"ratio one of two", RatioPolicy, "alpha gamma", 50},
		{"snap one of two", SnapPolicy, "alpha gamma", 50},
		{"snap at threshold", SnapPolicy, "alpha beta alpha gamma delta", 100},
		{"ratio at threshold", RatioPolicy, "alpha beta alpha gamma delta", 60},
		{"ratio none positive", RatioPolicy, "gamma delta", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newStubAnalyzer(t, backend, WithPolicy(tt.policy))
			positivity, compound := a.Score(tt.text)
			assert.InDelta(t, tt.expected, positivity, 1e-9)
			assert.Equal(t, 0.25, compound)
		})
	}
}

func TestDefaultPolicyIsRatio(t *testing.T) {
	a := newDefaultAnalyzer(t)
	assert.Equal(t, RatioPolicy, a.Config().Policy)
}

func TestCanonicalTermSentToBackend(t *testing.T) {
	reg := MustRegistry(Tables{Canonical: map[string]string{"asyik": "nice"}})
	backend := stubBackend{polarity: map[string]float64{"nice": 0.6}}

	a, err := NewAnalyzer(reg, backend)
	require.NoError(t, err)

	analysis := a.Analyze("asyik")
	require.Len(t, analysis.Terms, 1)
	assert.Equal(t, "asyik", analysis.Terms[0].Token)
	assert.Equal(t, "nice", analysis.Terms[0].Term)
	assert.Equal(t, 100.0, analysis.Positivity)
}

func TestBackendFailuresAreNeutral(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	backend := stubBackend{
		polarity:    map[string]float64{"alpha": 0.5, "beta": 0.5},
		polarityErr: map[string]error{"beta": errors.New("backend down")},
		compoundErr: errors.New("backend down"),
	}
	a := newStubAnalyzer(t, backend, WithMetrics(metrics))

	var analysis Analysis
	require.NotPanics(t, func() { analysis = a.Analyze("alpha beta gamma") })

	assert.Equal(t, 3, analysis.TotalDetected)
	assert.Equal(t, 1, analysis.PositiveCount)
	assert.Equal(t, 0.0, analysis.Compound)
	assert.Equal(t, 2, analysis.Fallbacks)
	assert.True(t, analysis.Terms[1].Fallback)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.BackendFallbacks.WithLabelValues("polarity")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.BackendFallbacks.WithLabelValues("compound")))
}

func TestNaNFromBackendIsNeutral(t *testing.T) {
	backend := stubBackend{
		polarity: map[string]float64{"alpha": math.NaN()},
		compound: math.NaN(),
	}
	a := newStubAnalyzer(t, backend)

	analysis := a.Analyze("alpha")
	assert.Equal(t, 0.0, analysis.Positivity)
	assert.Equal(t, 0.0, analysis.Compound)
	assert.Equal(t, 2, analysis.Fallbacks)
}

func TestCompoundClamped(t *testing.T) {
	a := newStubAnalyzer(t, stubBackend{compound: 3})
	_, compound := a.Score("alpha")
	assert.Equal(t, 1.0, compound)
}

func TestCanceledContextIsNeutral(t *testing.T) {
	a := newDefaultAnalyzer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	analysis := a.AnalyzeContext(ctx, "bagus sekolah")
	assert.Equal(t, 2, analysis.TotalDetected)
	assert.Equal(t, 1, analysis.PositiveCount)
	assert.Equal(t, 50.0, analysis.Positivity)
	assert.Equal(t, 0.0, analysis.Compound)
	assert.Equal(t, 2, analysis.Fallbacks)
}

func TestConcurrentScoresAreIdentical(t *testing.T) {
	a := newDefaultAnalyzer(t)
	text := "Gurunya tidak terlalu ramah tapi kelasnya bersih dan nyaman banget!"
	wantPositivity, wantCompound := a.Score(text)

	const workers = 32
	var wg sync.WaitGroup
	type result struct{ positivity, compound float64 }
	results := make([]result, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, c := a.Score(text)
			results[i] = result{p, c}
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		assert.Equal(t, math.Float64bits(wantPositivity), math.Float64bits(r.positivity), "worker %d", i)
		assert.Equal(t, math.Float64bits(wantCompound), math.Float64bits(r.compound), "worker %d", i)
	}
}

func TestNewAnalyzerErrors(t *testing.T) {
	reg := DefaultRegistry()

	_, err := NewAnalyzer(nil, NewValenceBackend(reg))
	assert.Error(t, err)

	_, err = NewAnalyzer(reg, nil)
	assert.Error(t, err)

	_, err = NewAnalyzer(reg, NewValenceBackend(reg), WithPolicy("weighted"))
	assert.Error(t, err)
}

func TestWithConfig(t *testing.T) {
	config := DefaultAnalyzerConfig()
	config.Policy = SnapPolicy

	a := newDefaultAnalyzer(t, WithConfig(config))
	assert.Equal(t, SnapPolicy, a.Config().Policy)
}

func TestParsePositivityPolicy(t *testing.T) {
	p, err := ParsePositivityPolicy(" Snap ")
	require.NoError(t, err)
	assert.Equal(t, SnapPolicy, p)

	p, err = ParsePositivityPolicy("")
	require.NoError(t, err)
	assert.Equal(t, RatioPolicy, p)

	_, err = ParsePositivityPolicy("weighted")
	assert.Error(t, err)
}
