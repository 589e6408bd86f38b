package dataset

import (
	"math/rand"

	"canonry/internal/record"
)

// Test and validation fractions used when splits must be derived.
const (
	testFraction       = 0.2
	validationFraction = 0.1
)

// EnsureSplits guarantees train/validation/test partitions.
//
// If no "train" split exists, the first available split becomes train and
// every other original split is discarded. If "validation" or "test" is
// missing — either one — both are regenerated from train: 20% is carved
// into test, then 10% of the remainder into validation. Regeneration
// discards any partially-present official split; this mirrors the policy
// of treating split derivation as all-or-nothing.
//
// The seed drives every shuffle, so identical inputs with the same seed
// produce identical split membership.
func EnsureSplits(d *Dataset, seed int64) *Dataset {
	out := d
	if !d.Has(SplitTrain) {
		out = &Dataset{Name: d.Name}
		if len(d.Splits) > 0 {
			out.Splits = []Split{{Name: SplitTrain, Records: d.Splits[0].Records}}
		} else {
			out.Splits = []Split{{Name: SplitTrain}}
		}
	}

	if out.Has(SplitValidation) && out.Has(SplitTest) {
		return out
	}

	train, _ := out.Split(SplitTrain)
	remainder, test := carve(train.Records, testFraction, seed)
	trainFinal, validation := carve(remainder, validationFraction, seed)

	return &Dataset{
		Name: d.Name,
		Splits: []Split{
			{Name: SplitTrain, Records: trainFinal},
			{Name: SplitValidation, Records: validation},
			{Name: SplitTest, Records: test},
		},
	}
}

// carve shuffles the records with a fresh seeded source and splits off
// the given fraction. The remainder keeps the shuffled order, matching
// the shuffle-then-slice behavior of conventional train/test splitters.
func carve(recs []*record.Record, fraction float64, seed int64) (remainder, carved []*record.Record) {
	n := len(recs)
	carveN := int(float64(n) * fraction)

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)

	carved = make([]*record.Record, 0, carveN)
	remainder = make([]*record.Record, 0, n-carveN)
	for i, idx := range perm {
		if i < carveN {
			carved = append(carved, recs[idx])
		} else {
			remainder = append(remainder, recs[idx])
		}
	}
	return remainder, carved
}
