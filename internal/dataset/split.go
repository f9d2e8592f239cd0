// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"fmt"
	"math/rand"

	"github.com/pdiddy/pagelab/pkg/types"
)

// Split shuffles the dataset with the seeded source and partitions it
// into train and test sets. The same seed and input order always yield
// the same partition. TestFraction outside (0,1) is an error.
func Split(ds *types.Dataset, cfg types.SplitConfig) (train, test *types.Dataset, err error) {
	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction %v: must be in (0,1)", cfg.TestFraction)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	perm := rng.Perm(ds.Len())

	nTest := int(float64(ds.Len()) * cfg.TestFraction)
	train = &types.Dataset{Name: ds.Name + "-train"}
	test = &types.Dataset{Name: ds.Name + "-test"}
	for i, idx := range perm {
		if i < nTest {
			test.Samples = append(test.Samples, ds.Samples[idx])
		} else {
			train.Samples = append(train.Samples, ds.Samples[idx])
		}
	}
	return train, test, nil
}
