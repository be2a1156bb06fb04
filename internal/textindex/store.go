// Animatch - Anime Recommendation Reranking and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animatch

package textindex

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

// Manifest describes a serialized index artifact. It is stored as JSON so
// operators can inspect artifacts without decoding the model bytes.
type Manifest struct {
	// Schema is the artifact format tag; must equal SchemaTag.
	Schema string `json:"schema"`

	// Checksum is the SHA-256 of the uncompressed model bytes.
	Checksum string `json:"checksum"`

	// Documents is the number of indexed rows.
	Documents int `json:"documents"`

	// Terms is the vocabulary size.
	Terms int `json:"terms"`
}

// indexState is the gob-serializable model. Postings and the id→row map are
// derived on load.
type indexState struct {
	Terms  []string
	IDF    []float64
	Rows   [][]entry
	RowIDs []int
}

// artifact is the on-disk envelope.
type artifact struct {
	ManifestJSON   []byte
	CompressedData []byte
}

// Save writes the index as a versioned artifact.
func (x *Index) Save(w io.Writer) error {
	state := indexState{
		Terms:  x.terms,
		IDF:    x.idf,
		Rows:   x.rows,
		RowIDs: x.rowIDs,
	}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(state); err != nil {
		return fmt.Errorf("encode index state: %w", err)
	}

	sum := sha256.Sum256(raw.Bytes())

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return fmt.Errorf("compress index state: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	manifest, err := json.Marshal(Manifest{
		Schema:    SchemaTag,
		Checksum:  hex.EncodeToString(sum[:]),
		Documents: len(x.rows),
		Terms:     len(x.terms),
	})
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	env := artifact{ManifestJSON: manifest, CompressedData: compressed.Bytes()}
	if err := gob.NewEncoder(w).Encode(env); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

// Load reads a previously saved artifact. The schema tag is validated before
// any model bytes are decoded; a mismatch returns ErrSchemaMismatch.
func Load(r io.Reader) (*Index, error) {
	var env artifact
	if err := gob.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(env.ManifestJSON, &manifest); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if manifest.Schema != SchemaTag {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrSchemaMismatch, manifest.Schema, SchemaTag)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(env.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress index state: %w", err)
	}
	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read index state: %w", err)
	}
	if err := gzr.Close(); err != nil {
		return nil, fmt.Errorf("close decompressor: %w", err)
	}

	sum := sha256.Sum256(raw)
	if got := hex.EncodeToString(sum[:]); got != manifest.Checksum {
		return nil, fmt.Errorf("checksum mismatch: got %s, want %s", got, manifest.Checksum)
	}

	var state indexState
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&state); err != nil {
		return nil, fmt.Errorf("decode index state: %w", err)
	}

	idx := &Index{
		terms:   state.Terms,
		idf:     state.IDF,
		rows:    state.Rows,
		rowIDs:  state.RowIDs,
		vocab:   make(map[string]int, len(state.Terms)),
		idToRow: make(map[int]int, len(state.RowIDs)),
	}
	for i, t := range state.Terms {
		idx.vocab[t] = i
	}
	for r, id := range state.RowIDs {
		idx.idToRow[id] = r
	}
	idx.buildPostings()
	return idx, nil
}
