package lineage

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
)

var errNetwork = errors.New("dial tcp 10.0.0.5:5432: connection refused")

func failingFetcher() Fetcher {
	return FetcherFunc(func(context.Context, string, int) (*Tree, error) {
		return nil, errNetwork
	})
}

func TestAnalyzer_CalculateCoefficientOfInbreeding(t *testing.T) {
	a := NewAnalyzer(sharedGrandsire(0.1), DefaultPolicy())

	coi, err := a.CalculateCoefficientOfInbreeding(t.Context(), "s", DefaultGenerations)
	if err != nil {
		t.Fatalf("CalculateCoefficientOfInbreeding() error = %v", err)
	}
	if want := 0.0625 * (1 + 0.1); coi != want {
		t.Errorf("COI = %v, want %v", coi, want)
	}
}

func TestAnalyzer_ComputedZeroHasNoError(t *testing.T) {
	a := NewAnalyzer(noGrandparents(), DefaultPolicy())

	coi, err := a.CalculateCoefficientOfInbreeding(t.Context(), "s", 3)
	if err != nil || coi != 0 {
		t.Errorf("CalculateCoefficientOfInbreeding() = %v, %v; want 0, nil", coi, err)
	}

	common, err := a.FindCommonAncestors(t.Context(), "s", 3)
	if err != nil || len(common) != 0 {
		t.Errorf("FindCommonAncestors() = %v, %v; want empty, nil", common, err)
	}
}

func TestAnalyzer_FetchFailure(t *testing.T) {
	a := NewAnalyzer(failingFetcher(), DefaultPolicy())

	coi, err := a.CalculateCoefficientOfInbreeding(t.Context(), "s", DefaultGenerations)
	if coi != 0 {
		t.Errorf("COI = %v, want 0 alongside the error", coi)
	}
	if !IsFetchFailure(err) {
		t.Fatalf("error = %v, want a fetch failure", err)
	}
	if !errors.Is(err, errNetwork) {
		t.Errorf("error = %v, want it to wrap the network error", err)
	}

	var fe *FetchError
	if errors.As(err, &fe) && fe.DogID != "s" {
		t.Errorf("FetchError.DogID = %q, want s", fe.DogID)
	}

	common, err := a.FindCommonAncestors(t.Context(), "s", DefaultGenerations)
	if !IsFetchFailure(err) || common == nil || len(common) != 0 {
		t.Errorf("FindCommonAncestors() = %#v, %v; want empty slice and fetch failure", common, err)
	}

	if _, err := a.MatingCoefficient(t.Context(), "m", "f", DefaultGenerations); !IsFetchFailure(err) {
		t.Errorf("MatingCoefficient() error = %v, want fetch failure", err)
	}
}

func TestAnalyzer_Cancelled(t *testing.T) {
	counter := &countingFetcher{next: sharedGrandsire(0)}
	a := NewAnalyzer(counter, DefaultPolicy())

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := a.CalculateCoefficientOfInbreeding(ctx, "s", DefaultGenerations)
	if !IsFetchFailure(err) || !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want fetch failure wrapping context.Canceled", err)
	}
	if counter.calls != 0 {
		t.Errorf("fetcher called %d times after cancellation", counter.calls)
	}

	report := a.CalculateBreedingCompatibility(ctx, "a", "b", DefaultGenerations)
	if !report.Failed() || !errors.Is(report.Err, context.Canceled) {
		t.Errorf("report = %+v, want failed with context.Canceled", report)
	}
}

func TestAnalyzer_InvalidDepth(t *testing.T) {
	counter := &countingFetcher{next: sharedGrandsire(0)}
	a := NewAnalyzer(counter, DefaultPolicy())

	for _, g := range []int{-1, MaxGenerations + 1} {
		_, err := a.CalculateCoefficientOfInbreeding(t.Context(), "s", g)
		if !errors.Is(err, ErrInvalidDepth) {
			t.Errorf("g=%d: error = %v, want ErrInvalidDepth", g, err)
		}
		if IsFetchFailure(err) {
			t.Errorf("g=%d: invalid depth reported as fetch failure", g)
		}

		report := a.CalculateBreedingCompatibility(t.Context(), "a", "b", g)
		if !report.Failed() || !errors.Is(report.Err, ErrInvalidDepth) {
			t.Errorf("g=%d: report = %+v, want failed with ErrInvalidDepth", g, report)
		}
	}
	if counter.calls != 0 {
		t.Errorf("fetcher called %d times for invalid depth", counter.calls)
	}
}

func TestAnalyzer_BadTrees(t *testing.T) {
	tests := []struct {
		name    string
		fetcher Fetcher
		want    error
	}{
		{
			name: "nil tree",
			fetcher: FetcherFunc(func(context.Context, string, int) (*Tree, error) {
				return nil, nil
			}),
			want: ErrMalformedPedigree,
		},
		{
			name: "wrong root",
			fetcher: FetcherFunc(func(context.Context, string, int) (*Tree, error) {
				return &Tree{ID: "someone-else"}, nil
			}),
			want: ErrMalformedPedigree,
		},
		{
			name:    "cycle",
			fetcher: registry{"s": {sire: "a"}, "a": {sire: "s"}},
			want:    ErrCyclicPedigree,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalyzer(tt.fetcher, DefaultPolicy())
			_, err := a.CalculateCoefficientOfInbreeding(t.Context(), "s", DefaultGenerations)
			if !IsFetchFailure(err) || !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want fetch failure wrapping %v", err, tt.want)
			}
		})
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	a := NewAnalyzer(fullSiblings(), DefaultPolicy())

	analysis, err := a.Analyze(t.Context(), "s", DefaultGenerations)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if analysis.COI != 0.125 {
		t.Errorf("COI = %v, want 0.125", analysis.COI)
	}
	if len(analysis.Terms) != 2 {
		t.Errorf("Terms = %d, want 2", len(analysis.Terms))
	}
	if analysis.Ancestors != 6 {
		t.Errorf("Ancestors = %d, want 6", analysis.Ancestors)
	}
	if analysis.Subject.ID != "s" {
		t.Errorf("Subject.ID = %q, want s", analysis.Subject.ID)
	}
	if len(analysis.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", analysis.Warnings)
	}
}

func TestAnalyzer_Deterministic(t *testing.T) {
	a := NewAnalyzer(fullSibChain(MaxGenerations), DefaultPolicy())

	first, err := a.Analyze(t.Context(), "s", MaxGenerations)
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Analyze(t.Context(), "s", MaxGenerations)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two analyses of the same snapshot differ")
	}

	r1 := a.CalculateBreedingCompatibility(t.Context(), "s8", "d8", 6)
	r2 := a.CalculateBreedingCompatibility(t.Context(), "s8", "d8", 6)
	if !reflect.DeepEqual(r1, r2) {
		t.Error("two compatibility reports for the same snapshot differ")
	}
}

func TestAnalyzer_CalculateBreedingCompatibility(t *testing.T) {
	a := NewAnalyzer(threeSharedAncestors(), DefaultPolicy())

	report := a.CalculateBreedingCompatibility(t.Context(), "m", "f", DefaultGenerations)
	if report.Failed() {
		t.Fatalf("report failed: %v", report.Err)
	}

	coi, err := a.MatingCoefficient(t.Context(), "m", "f", DefaultGenerations)
	if err != nil {
		t.Fatal(err)
	}
	if report.BreedingCOI != coi {
		t.Errorf("BreedingCOI = %v, MatingCoefficient = %v", report.BreedingCOI, coi)
	}
	if len(report.CommonAncestors) != 3 {
		t.Errorf("CommonAncestors = %d, want 3", len(report.CommonAncestors))
	}
}

func TestAnalyzer_CompatibilityZeroGenerations(t *testing.T) {
	a := NewAnalyzer(threeSharedAncestors(), DefaultPolicy())

	report := a.CalculateBreedingCompatibility(t.Context(), "m", "f", 0)
	if report.Failed() {
		t.Fatalf("report failed: %v", report.Err)
	}
	if report.BreedingCOI != 0 || len(report.CommonAncestors) != 0 {
		t.Errorf("COI = %v, ancestors = %d, want 0 and none", report.BreedingCOI, len(report.CommonAncestors))
	}
}

func TestAnalyzer_CompatibilityFailures(t *testing.T) {
	tests := []struct {
		name      string
		fetcher   Fetcher
		sire, dam string
		want      error
	}{
		{"network error", failingFetcher(), "m", "f", errNetwork},
		{"same dog twice", threeSharedAncestors(), "m", "m", ErrSameParent},
		{"unknown dam", threeSharedAncestors(), "m", "nobody", nil},
		{"no fetcher", nil, "m", "f", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalyzer(tt.fetcher, DefaultPolicy())
			report := a.CalculateBreedingCompatibility(t.Context(), tt.sire, tt.dam, DefaultGenerations)

			if report == nil {
				t.Fatal("nil report")
			}
			if !report.Failed() {
				t.Fatalf("Status = %v, want failed", report.Status)
			}
			if report.CompatibilityScore != 0 || report.BreedingCOI != 0 {
				t.Errorf("score = %v, coi = %v, want zeros", report.CompatibilityScore, report.BreedingCOI)
			}
			if report.CommonAncestors == nil || len(report.CommonAncestors) != 0 {
				t.Errorf("CommonAncestors = %#v, want empty", report.CommonAncestors)
			}
			if len(report.Risks) == 0 {
				t.Error("Risks is empty, want the failure described")
			}
			if tt.want != nil && !errors.Is(report.Err, tt.want) {
				t.Errorf("Err = %v, want %v", report.Err, tt.want)
			}
		})
	}
}

func TestAnalyzer_ConcurrentUse(t *testing.T) {
	a := NewAnalyzer(fullSibChain(MaxGenerations), DefaultPolicy())
	want, err := a.CalculateCoefficientOfInbreeding(t.Context(), "s", 6)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := a.CalculateCoefficientOfInbreeding(context.Background(), "s", 6)
			if err != nil || got != want {
				errs <- "concurrent result differs"
			}
		}()
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
}
