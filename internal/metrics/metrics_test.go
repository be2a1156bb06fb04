// Animatch - Anime Recommendation Reranking and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animatch

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRank(t *testing.T) {
	before := testutil.ToFloat64(RankRequestsTotal.WithLabelValues("seeded"))

	ObserveRank("seeded", time.Now())

	after := testutil.ToFloat64(RankRequestsTotal.WithLabelValues("seeded"))
	if after != before+1 {
		t.Errorf("seeded request count = %v, want %v", after, before+1)
	}
}

func TestObserveIndexBuild(t *testing.T) {
	ObserveIndexBuild(time.Now(), 1234, 5678)

	if got := testutil.ToFloat64(IndexDocuments); got != 1234 {
		t.Errorf("IndexDocuments = %v, want 1234", got)
	}
	if got := testutil.ToFloat64(IndexVocabularySize); got != 5678 {
		t.Errorf("IndexVocabularySize = %v, want 5678", got)
	}
}

func TestExclusionReasonCounter(t *testing.T) {
	before := testutil.ToFloat64(RankCandidatesTotal.WithLabelValues("scored"))

	RankCandidatesTotal.WithLabelValues("scored").Inc()

	after := testutil.ToFloat64(RankCandidatesTotal.WithLabelValues("scored"))
	if after != before+1 {
		t.Errorf("scored counter = %v, want %v", after, before+1)
	}
}
