// Animatch - Anime Recommendation Reranking and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animatch

package textindex

import (
	"bytes"
	"encoding/gob"
	"errors"
	"reflect"
	"testing"

	json "github.com/goccy/go-json"
)

func TestSaveLoadRoundtrip(t *testing.T) {
	original, err := Build(testCorpus(), DefaultConfig())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var buf bytes.Buffer
	if err := original.Save(&buf); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !reflect.DeepEqual(loaded.terms, original.terms) {
		t.Error("vocabularies differ after roundtrip")
	}
	if !reflect.DeepEqual(loaded.idf, original.idf) {
		t.Error("idf vectors differ after roundtrip")
	}
	if !reflect.DeepEqual(loaded.rows, original.rows) {
		t.Error("row matrices differ after roundtrip")
	}
	if !reflect.DeepEqual(loaded.rowIDs, original.rowIDs) {
		t.Error("row id mappings differ after roundtrip")
	}

	// Derived structures must be rebuilt so queries behave identically.
	want := original.SimilarityToSeeds([]int{21})
	got := loaded.SimilarityToSeeds([]int{21})
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SimilarityToSeeds after roundtrip = %v, want %v", got, want)
	}
}

func TestLoadSchemaMismatch(t *testing.T) {
	manifest, err := json.Marshal(Manifest{Schema: "animatch.textindex.v0"})
	if err != nil {
		t.Fatalf("marshal manifest: %v", err)
	}

	var buf bytes.Buffer
	env := artifact{ManifestJSON: manifest, CompressedData: []byte("bogus")}
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		t.Fatalf("encode artifact: %v", err)
	}

	_, err = Load(&buf)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("Load() error = %v, want ErrSchemaMismatch", err)
	}
}

func TestLoadChecksumMismatch(t *testing.T) {
	idx, err := Build(testCorpus(), DefaultConfig())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var buf bytes.Buffer
	if err := idx.Save(&buf); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var env artifact
	if err := gob.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(&env); err != nil {
		t.Fatalf("decode artifact: %v", err)
	}

	// Corrupt the manifest checksum and re-encode the envelope.
	var manifest Manifest
	if err := json.Unmarshal(env.ManifestJSON, &manifest); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	manifest.Checksum = "0000000000000000000000000000000000000000000000000000000000000000"
	env.ManifestJSON, err = json.Marshal(manifest)
	if err != nil {
		t.Fatalf("re-encode manifest: %v", err)
	}

	var tampered bytes.Buffer
	if err := gob.NewEncoder(&tampered).Encode(env); err != nil {
		t.Fatalf("re-encode artifact: %v", err)
	}

	if _, err := Load(&tampered); err == nil {
		t.Error("Load() should reject an artifact with a bad checksum")
	}
}

func TestLoadTruncatedArtifact(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte{0x01, 0x02}))
	if err == nil {
		t.Error("Load() should fail on a truncated artifact")
	}
}
